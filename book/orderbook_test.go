package book

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Vaibhav0305/Real-time-trading-engine/domain"
)

// fakeIDs is a deterministic IDSource for tests, avoiding any dependence
// on engine to keep book's tests package-local.
type fakeIDs struct {
	seq, trade uint64
}

func (f *fakeIDs) NextSequence() uint64 { f.seq++; return f.seq }
func (f *fakeIDs) NextTradeID() uint64  { f.trade++; return f.trade }

func newTestBook(symbol string) (*OrderBook, *fakeIDs) {
	ids := &fakeIDs{}
	return NewOrderBook(symbol, ids), ids
}

func TestAddOrderCrossesAndMakerSetsPrice(t *testing.T) {
	ob, _ := newTestBook("BTCUSDT")
	sink := NoopSink{}

	resting := mkOrder("maker-sell", domain.Sell, 100, 10)
	_, _, err := ob.AddOrder(resting, sink)
	require.NoError(t, err)

	aggressor := mkOrder("taker-buy", domain.Buy, 105, 10)
	trades, _, err := ob.AddOrder(aggressor, sink)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	require.True(t, trades[0].Price.Equal(decimal.NewFromInt(100)), "trade prints at the maker's price, not the aggressor's")
}

func TestAddOrderPriceTimePriority(t *testing.T) {
	ob, _ := newTestBook("BTCUSDT")
	sink := NoopSink{}

	cheaperFirst := mkOrder("sell-early", domain.Sell, 100, 10)
	betterPriceLater := mkOrder("sell-better", domain.Sell, 99, 10)
	ob.AddOrder(cheaperFirst, sink)
	ob.AddOrder(betterPriceLater, sink)

	aggressor := mkOrder("buy-agg", domain.Buy, 100, 5)
	trades, _, err := ob.AddOrder(aggressor, sink)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	require.Equal(t, "sell-better", trades[0].SellOrderID, "best price wins over earlier arrival at a worse price")
}

func TestAddOrderPartialFillRestsResidual(t *testing.T) {
	ob, _ := newTestBook("BTCUSDT")
	sink := NoopSink{}

	ob.AddOrder(mkOrder("sell1", domain.Sell, 100, 5), sink)

	trades, _, err := ob.AddOrder(mkOrder("buy1", domain.Buy, 100, 12), sink)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	require.Equal(t, int64(5), trades[0].Quantity)

	price, ok := ob.BestBid()
	require.True(t, ok)
	require.True(t, price.Equal(decimal.NewFromInt(100)))
}

func TestAmendForfeitsQueuePriority(t *testing.T) {
	ob, _ := newTestBook("BTCUSDT")
	sink := NoopSink{}

	ob.AddOrder(mkOrder("first", domain.Buy, 100, 10), sink)
	ob.AddOrder(mkOrder("second", domain.Buy, 100, 10), sink)

	// Amending "first" at the same price must push it behind "second",
	// since amend is cancel-plus-new (spec's documented decision).
	_, _, _, err := ob.AmendOrder("first", decimal.NewFromInt(100), 10, sink)
	require.NoError(t, err)

	aggressor := mkOrder("sell-agg", domain.Sell, 100, 10)
	trades, _, err := ob.AddOrder(aggressor, sink)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	require.Equal(t, "second", trades[0].BuyOrderID)
}

func TestCancelRemovesFromQueue(t *testing.T) {
	ob, _ := newTestBook("BTCUSDT")
	sink := NoopSink{}

	ob.AddOrder(mkOrder("to-cancel", domain.Sell, 100, 10), sink)
	require.NoError(t, ob.CancelOrder("to-cancel", sink))

	err := ob.CancelOrder("to-cancel", sink)
	require.ErrorIs(t, err, ErrUnknownOrder)

	trades, _, err := ob.AddOrder(mkOrder("buy-after-cancel", domain.Buy, 100, 10), sink)
	require.NoError(t, err)
	require.Empty(t, trades)
}

func TestAddOrderRejectsDuplicateID(t *testing.T) {
	ob, _ := newTestBook("BTCUSDT")
	sink := NoopSink{}

	ob.AddOrder(mkOrder("dup", domain.Buy, 100, 10), sink)
	_, _, err := ob.AddOrder(mkOrder("dup", domain.Buy, 100, 10), sink)
	require.ErrorIs(t, err, ErrDuplicateOrderID)
}

func TestAmendUnknownOrderFails(t *testing.T) {
	ob, _ := newTestBook("BTCUSDT")
	_, _, _, err := ob.AmendOrder("ghost", decimal.NewFromInt(1), 1, NoopSink{})
	require.ErrorIs(t, err, ErrUnknownOrder)
}

func TestAmendFullyMatchedOrderReportsNotResting(t *testing.T) {
	ob, _ := newTestBook("BTCUSDT")
	sink := NoopSink{}

	ob.AddOrder(mkOrder("resting-sell", domain.Sell, 100, 10), sink)
	ob.AddOrder(mkOrder("will-amend", domain.Buy, 90, 10), sink)

	// Amend the resting buy up to a price that crosses fully.
	_, filledMakerIDs, resting, err := ob.AmendOrder("will-amend", decimal.NewFromInt(100), 10, sink)
	require.NoError(t, err)
	require.False(t, resting)
	require.Contains(t, filledMakerIDs, "resting-sell")
}

// TestAddOrderReportsFilledMakerIDs is the regression test for the
// engine-index leak: a maker fully consumed by an incoming aggressor
// must be named in filledMakerIDs so the Engine can retire it from its
// own reverse index, not just from ob.index.
func TestAddOrderReportsFilledMakerIDs(t *testing.T) {
	ob, _ := newTestBook("BTCUSDT")
	sink := NoopSink{}

	ob.AddOrder(mkOrder("maker1", domain.Sell, 100, 5), sink)
	ob.AddOrder(mkOrder("maker2", domain.Sell, 100, 5), sink)

	_, filledMakerIDs, err := ob.AddOrder(mkOrder("taker", domain.Buy, 100, 10), sink)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"maker1", "maker2"}, filledMakerIDs)
}
