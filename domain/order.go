package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is which side of the book an order rests on.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Status is the lifecycle stage of an Order, tracked for snapshot/export
// consumers; the matching loop itself only ever looks at RemainingQuantity.
type Status int

const (
	Pending Status = iota
	PartialFilled
	Filled
	Cancelled
)

// Order is a limit order. ArrivalSequence, not AcceptedAt, is the
// time-priority tie-breaker: the engine assigns it once, atomically, at
// acceptance, so it can never collide the way a millisecond clock can.
// It is reassigned on amend (see book.OrderBook.AmendOrder), which is what
// makes amend forfeit queue priority.
type Order struct {
	OrderID           string
	Symbol            string
	Side              Side
	LimitPrice        decimal.Decimal
	RemainingQuantity int64
	OriginalQuantity  int64
	ArrivalSequence   uint64
	Status            Status
	AcceptedAt        time.Time
}

// NewOrder constructs a freshly-accepted resting/aggressor order. Callers
// assign ArrivalSequence and AcceptedAt (the Engine does both, atomically,
// at acceptance).
func NewOrder(orderID, symbol string, side Side, price decimal.Decimal, quantity int64) *Order {
	return &Order{
		OrderID:           orderID,
		Symbol:            symbol,
		Side:              side,
		LimitPrice:        price,
		RemainingQuantity: quantity,
		OriginalQuantity:  quantity,
		Status:            Pending,
	}
}

// IsFilled reports whether the order has no quantity left to match.
func (o *Order) IsFilled() bool {
	return o.RemainingQuantity <= 0
}

// Fill reduces RemainingQuantity by qty and updates Status accordingly.
// qty must not exceed RemainingQuantity.
func (o *Order) Fill(qty int64) {
	o.RemainingQuantity -= qty
	if o.IsFilled() {
		o.Status = Filled
	} else {
		o.Status = PartialFilled
	}
}

// Clone returns a value copy safe for a caller (snapshot/export) to retain
// after the original has been mutated or retired inside the book.
func (o *Order) Clone() *Order {
	clone := *o
	return &clone
}
