package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is an append-only match record. Price is always the resting
// (maker) order's limit price at the instant of the match — never the
// aggressor's, never an average of the two.
type Trade struct {
	TradeID     uint64
	Sequence    uint64
	Symbol      string
	BuyOrderID  string
	SellOrderID string
	Price       decimal.Decimal
	Quantity    int64
	ExecutedAt  time.Time
}

// NewTrade builds a Trade record. tradeID and sequence are minted by the
// Engine's monotonic counters, never derived from wall-clock time.
func NewTrade(tradeID, sequence uint64, symbol, buyOrderID, sellOrderID string, price decimal.Decimal, quantity int64) *Trade {
	return &Trade{
		TradeID:     tradeID,
		Sequence:    sequence,
		Symbol:      symbol,
		BuyOrderID:  buyOrderID,
		SellOrderID: sellOrderID,
		Price:       price,
		Quantity:    quantity,
		ExecutedAt:  time.Now(),
	}
}
