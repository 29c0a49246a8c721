package engine

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Vaibhav0305/Real-time-trading-engine/book"
	"github.com/Vaibhav0305/Real-time-trading-engine/domain"
)

func TestPlaceRejectsDuplicateOrderID(t *testing.T) {
	e := New(book.NoopSink{})

	_, err := e.Place("o1", "AAPL", domain.Buy, decimal.NewFromInt(100), 10)
	require.NoError(t, err)

	_, err = e.Place("o1", "AAPL", domain.Buy, decimal.NewFromInt(100), 10)
	require.ErrorIs(t, err, ErrDuplicateOrderID)
}

func TestPlaceRejectsNonPositivePriceOrQuantity(t *testing.T) {
	e := New(book.NoopSink{})

	_, err := e.Place("bad-price", "AAPL", domain.Buy, decimal.Zero, 10)
	require.ErrorIs(t, err, ErrInvalidPrice)

	_, err = e.Place("bad-qty", "AAPL", domain.Buy, decimal.NewFromInt(10), 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestPlaceAcrossSymbolsDoesNotCrossMatch(t *testing.T) {
	e := New(book.NoopSink{})

	_, err := e.Place("a1", "AAPL", domain.Sell, decimal.NewFromInt(100), 10)
	require.NoError(t, err)

	trades, err := e.Place("m1", "MSFT", domain.Buy, decimal.NewFromInt(100), 10)
	require.NoError(t, err)
	require.Empty(t, trades, "symbols never cross-match")
}

func TestAmendAndCancelRouteByReverseIndex(t *testing.T) {
	e := New(book.NoopSink{})

	_, err := e.Place("o1", "AAPL", domain.Buy, decimal.NewFromInt(100), 10)
	require.NoError(t, err)

	_, err = e.Amend("o1", decimal.NewFromInt(101), 5)
	require.NoError(t, err)

	require.NoError(t, e.Cancel("o1"))
	require.ErrorIs(t, e.Cancel("o1"), ErrUnknownOrder)
}

func TestCancelUnknownOrderFails(t *testing.T) {
	e := New(book.NoopSink{})
	require.ErrorIs(t, e.Cancel("ghost"), ErrUnknownOrder)
}

func TestSnapshotSymbolDoesNotImplicitlyCreateBook(t *testing.T) {
	e := New(book.NoopSink{})
	_, ok := e.SnapshotSymbol("NEVER-TOUCHED")
	require.False(t, ok)
}

// TestConcurrentPlaceSameIDAcrossSymbolsRejectsOneOfThem exercises the
// race the engine-wide orderID reservation exists to close: two Place
// calls for the same id, on different symbols (hence different book
// mutexes), must not both succeed.
func TestConcurrentPlaceSameIDAcrossSymbolsRejectsOneOfThem(t *testing.T) {
	e := New(book.NoopSink{})

	var wg sync.WaitGroup
	results := make([]error, 2)
	symbols := []string{"AAPL", "MSFT"}

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = e.Place("shared-id", symbols[i], domain.Buy, decimal.NewFromInt(100), 10)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		}
	}
	require.Equal(t, 1, successes, "exactly one of the two concurrent placements should succeed")
}

func TestSinkPanicSurfacesAsSinkFailureAfterStateMutates(t *testing.T) {
	e := New(panickingSink{})

	_, err := e.Place("o1", "AAPL", domain.Buy, decimal.NewFromInt(100), 10)
	var sf *SinkFailure
	require.ErrorAs(t, err, &sf)

	// The order is resting despite the sink panic: state mutation
	// happens before sink delivery, per spec.
	snap, ok := e.SnapshotSymbol("AAPL")
	require.True(t, ok)
	require.Len(t, snap.Bids, 1)
}

type panickingSink struct {
	book.NoopSink
}

func (panickingSink) OrderAccepted(o *domain.Order) {
	panic("boom")
}
