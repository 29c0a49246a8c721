package book

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Vaibhav0305/Real-time-trading-engine/domain"
)

func mkOrder(id string, side domain.Side, price int64, qty int64) *domain.Order {
	return domain.NewOrder(id, "BTCUSDT", side, decimal.NewFromInt(price), qty)
}

func TestSideBookBestTracksInsertOrder(t *testing.T) {
	bids := NewSideBook(true) // descending: best = highest

	bids.Insert(mkOrder("b1", domain.Buy, 100, 10))
	bids.Insert(mkOrder("b2", domain.Buy, 105, 10))
	bids.Insert(mkOrder("b3", domain.Buy, 102, 10))

	price, ok := bids.BestPrice()
	require.True(t, ok)
	require.True(t, price.Equal(decimal.NewFromInt(105)))
}

func TestSideBookAsksBestIsLowest(t *testing.T) {
	asks := NewSideBook(false)

	asks.Insert(mkOrder("a1", domain.Sell, 100, 10))
	asks.Insert(mkOrder("a2", domain.Sell, 95, 10))
	asks.Insert(mkOrder("a3", domain.Sell, 98, 10))

	price, ok := asks.BestPrice()
	require.True(t, ok)
	require.True(t, price.Equal(decimal.NewFromInt(95)))
}

func TestSideBookFIFOWithinLevel(t *testing.T) {
	bids := NewSideBook(true)

	first := mkOrder("first", domain.Buy, 100, 10)
	second := mkOrder("second", domain.Buy, 100, 10)
	bids.Insert(first)
	bids.Insert(second)

	require.Equal(t, "first", bids.Best().OrderID)
	bids.PopBest()
	require.Equal(t, "second", bids.Best().OrderID)
}

func TestSideBookRemoveLevelWhenEmptied(t *testing.T) {
	bids := NewSideBook(true)
	order := mkOrder("only", domain.Buy, 100, 10)
	el := bids.Insert(order)

	bids.Remove(order, el)

	require.True(t, bids.IsEmpty())
	_, ok := bids.BestPrice()
	require.False(t, ok)
}

func TestSideBookReduceHeadPartial(t *testing.T) {
	bids := NewSideBook(true)
	order := mkOrder("partial", domain.Buy, 100, 10)
	bids.Insert(order)

	bids.ReduceHead(4)

	require.Equal(t, int64(6), bids.Best().RemainingQuantity)
	require.False(t, bids.IsEmpty())
}

func TestSideBookLevelsBestFirst(t *testing.T) {
	bids := NewSideBook(true)
	bids.Insert(mkOrder("b1", domain.Buy, 100, 10))
	bids.Insert(mkOrder("b2", domain.Buy, 110, 5))

	levels := bids.Levels()
	require.Len(t, levels, 2)
	require.True(t, levels[0].Price.Equal(decimal.NewFromInt(110)))
	require.Equal(t, int64(5), levels[0].Volume)
}
