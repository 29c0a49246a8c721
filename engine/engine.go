// Package engine is the directory of symbol -> book.OrderBook: it routes
// requests, mints engine-unique trade ids and arrival sequences, and
// guarantees single-writer discipline per symbol (spec component D).
package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Vaibhav0305/Real-time-trading-engine/book"
	"github.com/Vaibhav0305/Real-time-trading-engine/domain"
)

// Re-exported so callers only need to import engine, not book, for the
// error taxonomy and event sink contract.
var (
	ErrDuplicateOrderID = book.ErrDuplicateOrderID
	ErrUnknownOrder     = book.ErrUnknownOrder
	ErrInvalidPrice     = book.ErrInvalidPrice
	ErrInvalidQuantity  = book.ErrInvalidQuantity
)

type (
	EventSink    = book.EventSink
	RejectReason = book.RejectReason
	Snapshot     = book.Snapshot
)

// symbolBook pairs a book.OrderBook with the mutex that gives it
// single-writer discipline. Per spec §5, no operation spans multiple
// symbols, so each book is guarded independently rather than by one
// engine-wide lock.
type symbolBook struct {
	mu sync.Mutex
	ob *book.OrderBook
}

// Engine is the directory of symbol -> order book described in spec §3/
// §4.3. It owns the two monotonic counters (sequence, tradeID) and an
// engine-global order_id -> symbol reverse index so amend/cancel lookup
// is O(1) instead of scanning every book (spec §9's redesign note).
//
// The books directory itself is read through an atomic.Value holding an
// immutable map, copy-on-write on the rare path that creates a new
// symbol's book — the same technique the teacher repo used for its
// per-symbol engine directory, generalized here to per-symbol order
// books instead of per-symbol matching goroutines (see DESIGN.md: the
// goroutine-per-symbol, channel-dispatch design does not survive the
// transformation, because spec §5 requires Place to run synchronously to
// completion before any other mutator observes intermediate state).
type Engine struct {
	directory atomic.Value // map[string]*symbolBook, immutable, copy-on-write
	dirMu     sync.Mutex   // guards directory creation only

	idxMu      sync.Mutex        // guards orderIndex
	orderIndex map[string]string // order_id -> symbol, for O(1) amend/cancel routing

	sequence atomic.Uint64 // arrival_sequence and Trade.Sequence share this counter
	tradeID  atomic.Uint64

	sink EventSink
}

// New creates an empty Engine. sink receives every lifecycle/trade event;
// pass book.NoopSink{} if the caller doesn't need one.
func New(sink EventSink) *Engine {
	if sink == nil {
		sink = book.NoopSink{}
	}
	e := &Engine{
		orderIndex: make(map[string]string),
		sink:       sink,
	}
	e.directory.Store(make(map[string]*symbolBook))
	return e
}

// NextSequence implements book.IDSource.
func (e *Engine) NextSequence() uint64 { return e.sequence.Add(1) }

// NextTradeID implements book.IDSource.
func (e *Engine) NextTradeID() uint64 { return e.tradeID.Add(1) }

// bookFor returns the symbolBook for symbol, creating (and starting to
// track in the reverse index nothing yet, since no order exists) one on
// first reference. This is the only engine-directory mutation path.
func (e *Engine) bookFor(symbol string) *symbolBook {
	dir := e.directory.Load().(map[string]*symbolBook)
	if sb, ok := dir[symbol]; ok {
		return sb
	}

	e.dirMu.Lock()
	defer e.dirMu.Unlock()

	dir = e.directory.Load().(map[string]*symbolBook)
	if sb, ok := dir[symbol]; ok {
		return sb
	}

	sb := &symbolBook{ob: book.NewOrderBook(symbol, e)}
	next := make(map[string]*symbolBook, len(dir)+1)
	for k, v := range dir {
		next[k] = v
	}
	next[symbol] = sb
	e.directory.Store(next)
	return sb
}

// bookForRead returns the symbolBook for symbol without creating it.
// Used by SnapshotSymbol, Amend and Cancel, which must not implicitly
// create books on read (spec §7, UnknownSymbol).
func (e *Engine) bookForRead(symbol string) (*symbolBook, bool) {
	dir := e.directory.Load().(map[string]*symbolBook)
	sb, ok := dir[symbol]
	return sb, ok
}

// Place validates, accepts (assigning ArrivalSequence), and routes order
// to its symbol's book, running the matching loop to completion before
// returning — spec §5 forbids any other mutator from observing
// intermediate state mid-match. Event delivery to sink happens
// synchronously inside the book's matching loop and Place itself; a
// panicking sink is recovered around so it cannot corrupt book state,
// and its panic value is returned wrapped as err (spec §7 SinkFailure) —
// the mutation has already completed by the time that happens.
func (e *Engine) Place(orderID, symbol string, side domain.Side, price decimal.Decimal, quantity int64) (trades []*domain.Trade, err error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if price.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}

	order := domain.NewOrder(orderID, symbol, side, price, quantity)

	// Reserve orderID engine-wide before touching the book, so that two
	// concurrent Place calls for the same id (different symbols, hence
	// different book locks) cannot both pass the duplicate check. The
	// reservation is corrected to reality once the match completes.
	e.idxMu.Lock()
	if _, taken := e.orderIndex[orderID]; taken {
		e.idxMu.Unlock()
		e.sink.OrderRejected(order, book.RejectDuplicateOrderID)
		return nil, ErrDuplicateOrderID
	}
	e.orderIndex[orderID] = symbol
	e.idxMu.Unlock()

	sb := e.bookFor(symbol)
	sb.mu.Lock()
	defer sb.mu.Unlock()

	order.ArrivalSequence = e.NextSequence()
	order.AcceptedAt = time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = sinkFailure(r)
		}
	}()

	var filledMakerIDs []string
	trades, filledMakerIDs, err = sb.ob.AddOrder(order, e.sink)
	if err != nil {
		e.idxMu.Lock()
		delete(e.orderIndex, orderID)
		e.idxMu.Unlock()
		return nil, err
	}

	e.idxMu.Lock()
	for _, id := range filledMakerIDs {
		delete(e.orderIndex, id)
	}
	if order.IsFilled() {
		delete(e.orderIndex, orderID)
	}
	e.idxMu.Unlock()

	return trades, nil
}

// Amend routes to the book containing orderID via the reverse index,
// then applies the cancel-plus-new policy of spec §4.3.
func (e *Engine) Amend(orderID string, newPrice decimal.Decimal, newQuantity int64) (trades []*domain.Trade, err error) {
	if newQuantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if newPrice.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}

	e.idxMu.Lock()
	symbol, ok := e.orderIndex[orderID]
	e.idxMu.Unlock()
	if !ok {
		return nil, ErrUnknownOrder
	}

	sb, ok := e.bookForRead(symbol)
	if !ok {
		return nil, ErrUnknownOrder
	}
	sb.mu.Lock()
	defer sb.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = sinkFailure(r)
		}
	}()

	var filledMakerIDs []string
	var resting bool
	trades, filledMakerIDs, resting, err = sb.ob.AmendOrder(orderID, newPrice, newQuantity, e.sink)
	if err != nil {
		return nil, err
	}

	e.idxMu.Lock()
	for _, id := range filledMakerIDs {
		delete(e.orderIndex, id)
	}
	if !resting {
		delete(e.orderIndex, orderID)
	}
	e.idxMu.Unlock()

	return trades, nil
}

// Cancel routes to the book containing orderID via the reverse index and
// removes it. No trades are emitted.
func (e *Engine) Cancel(orderID string) (err error) {
	e.idxMu.Lock()
	symbol, ok := e.orderIndex[orderID]
	e.idxMu.Unlock()
	if !ok {
		return ErrUnknownOrder
	}

	sb, ok := e.bookForRead(symbol)
	if !ok {
		return ErrUnknownOrder
	}
	sb.mu.Lock()
	defer sb.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = sinkFailure(r)
		}
	}()

	if err = sb.ob.CancelOrder(orderID, e.sink); err != nil {
		return err
	}

	e.idxMu.Lock()
	delete(e.orderIndex, orderID)
	e.idxMu.Unlock()
	return nil
}

// SnapshotSymbol returns a stable view of symbol's book. ok is false if
// the symbol has never been referenced — the Engine does not implicitly
// create books on read (spec §7, UnknownSymbol).
func (e *Engine) SnapshotSymbol(symbol string) (Snapshot, bool) {
	sb, ok := e.bookForRead(symbol)
	if !ok {
		return Snapshot{}, false
	}
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.ob.Snapshot(), true
}

// AllOrders returns every resting order across every symbol, in
// unspecified order.
func (e *Engine) AllOrders() []*domain.Order {
	dir := e.directory.Load().(map[string]*symbolBook)
	var all []*domain.Order
	for _, sb := range dir {
		sb.mu.Lock()
		all = append(all, sb.ob.AllOrders()...)
		sb.mu.Unlock()
	}
	return all
}
