// Package book implements the per-symbol order book and its matching
// algorithm: spec components B (Side Book) and C (Order Book).
package book

import (
	"github.com/shopspring/decimal"

	"github.com/Vaibhav0305/Real-time-trading-engine/domain"
)

// IDSource mints the engine-global, strictly monotonic identifiers a
// matching loop needs for the trades it emits. The Engine is the only
// implementation; OrderBook never assigns arrival_sequence itself (the
// Engine does that before AddOrder is ever called) and never mints ids
// any other way, so these stay monotonic across every symbol.
type IDSource interface {
	NextSequence() uint64
	NextTradeID() uint64
}

// entry is what OrderBook.index stores per resting order id: which side
// it's on and where in that side's structures it sits, enough to splice
// it out in O(1) on cancel/amend/fill (spec §9's redesign note).
type entry struct {
	side Side
	el   *sideElement
}

// Side mirrors domain.Side but is scoped here for the index's own use.
type Side = domain.Side

// OrderBook pairs a bid SideBook with an ask SideBook for one symbol,
// owns the order_id -> resting-order index, and runs the matching loop.
// Per spec §3, the index is a back-reference only: it never owns an
// order, and letting it drift out of sync with the queues is a bug —
// every mutation in this file updates both together.
type OrderBook struct {
	Symbol string
	bids   *SideBook
	asks   *SideBook
	index  map[string]*entry
	ids    IDSource
}

// NewOrderBook creates an empty order book for symbol, drawing trade
// sequence/id values from ids.
func NewOrderBook(symbol string, ids IDSource) *OrderBook {
	return &OrderBook{
		Symbol: symbol,
		bids:   NewSideBook(true),
		asks:   NewSideBook(false),
		index:  make(map[string]*entry),
		ids:    ids,
	}
}

// AddOrder accepts order, then runs the matching loop with it as the
// aggressor and rests any residual quantity. Per spec §4.2: rejects with
// ErrDuplicateOrderID (no trades, no state change) if order.OrderID
// already names a live order in this book. filledMakerIDs reports the
// order_ids of every resting (maker) order this call consumed entirely,
// so the caller (engine.Engine) can retire them from its own engine-wide
// reverse index in lockstep with ob.index.
func (ob *OrderBook) AddOrder(order *domain.Order, sink EventSink) (trades []*domain.Trade, filledMakerIDs []string, err error) {
	if _, exists := ob.index[order.OrderID]; exists {
		sink.OrderRejected(order, RejectDuplicateOrderID)
		return nil, nil, ErrDuplicateOrderID
	}

	// Accepted happens before matching: spec §3's lifecycle is
	// acceptance (sequence already assigned by the Engine), then match,
	// so the sink must observe OrderAccepted before any TradeExecuted
	// that order produces.
	sink.OrderAccepted(order)

	trades, filledMakerIDs = ob.match(order, sink)
	if !order.IsFilled() {
		ob.rest(order)
	}
	return trades, filledMakerIDs, nil
}

// match is the matching loop of spec §4.2, aggressor = order. The
// opposing book is asks if order is a Buy, bids otherwise; it is walked
// best-price-then-arrival-order, which is exactly the opposing SideBook's
// natural iteration order — there is no separate tie-break step.
// filledMakerIDs collects the order_id of every resting order fully
// consumed, for the caller to prune from any outer index.
func (ob *OrderBook) match(order *domain.Order, sink EventSink) (trades []*domain.Trade, filledMakerIDs []string) {
	opposing := ob.asks
	if order.Side == domain.Sell {
		opposing = ob.bids
	}

	for !order.IsFilled() {
		resting := opposing.Best()
		if resting == nil || !compatible(order, resting) {
			break
		}

		qty := order.RemainingQuantity
		if resting.RemainingQuantity < qty {
			qty = resting.RemainingQuantity
		}
		tradePrice := resting.LimitPrice // maker sets the print (spec §4.2)

		buyID, sellID := order.OrderID, resting.OrderID
		if order.Side == domain.Sell {
			buyID, sellID = resting.OrderID, order.OrderID
		}
		trade := domain.NewTrade(ob.ids.NextTradeID(), ob.ids.NextSequence(), ob.Symbol, buyID, sellID, tradePrice, qty)

		order.Fill(qty)
		opposing.ReduceHead(qty)
		if resting.IsFilled() {
			delete(ob.index, resting.OrderID)
			filledMakerIDs = append(filledMakerIDs, resting.OrderID)
		}

		trades = append(trades, trade)
		sink.TradeExecuted(trade)
	}
	return trades, filledMakerIDs
}

// compatible implements spec §4.2's crossing test: R.price <= O.price
// when O is buying, R.price >= O.price when O is selling.
func compatible(aggressor, resting *domain.Order) bool {
	cmp := resting.LimitPrice.Cmp(aggressor.LimitPrice)
	if aggressor.Side == domain.Buy {
		return cmp <= 0
	}
	return cmp >= 0
}

// rest inserts order's residual quantity into the correct SideBook and
// records it in the id index. Callers must only call this for orders
// that still have RemainingQuantity > 0.
func (ob *OrderBook) rest(order *domain.Order) {
	var el *sideElement
	if order.Side == domain.Buy {
		el = ob.bids.Insert(order)
	} else {
		el = ob.asks.Insert(order)
	}
	ob.index[order.OrderID] = &entry{side: order.Side, el: el}
}

// CancelOrder removes orderID from its side book and the id index. No
// trades are emitted. Returns ErrUnknownOrder, with no state change, if
// orderID is not currently resting.
func (ob *OrderBook) CancelOrder(orderID string, sink EventSink) error {
	e, exists := ob.index[orderID]
	if !exists {
		return ErrUnknownOrder
	}
	order := e.el.elem.Value.(*domain.Order)
	if e.side == domain.Buy {
		ob.bids.Remove(order, e.el)
	} else {
		ob.asks.Remove(order, e.el)
	}
	delete(ob.index, orderID)
	sink.OrderCancelled(order)
	return nil
}

// AmendOrder implements spec §4.3's cancel-plus-new policy: the resting
// order is removed and a fresh order (same OrderID, new price/quantity,
// a new ArrivalSequence minted by ids) is submitted as if newly placed.
// This is deliberate, not an oversight — see DESIGN.md's Open Question
// decision: any amend forfeits queue priority, because a
// priority-preserving special case for "improving" amends is exactly the
// kind of rule an implementer gets subtly wrong. filledMakerIDs reports,
// exactly as AddOrder does, the order_ids of any resting orders the
// re-matched amendment consumed entirely.
func (ob *OrderBook) AmendOrder(orderID string, newPrice decimal.Decimal, newQuantity int64, sink EventSink) (trades []*domain.Trade, filledMakerIDs []string, resting bool, err error) {
	e, exists := ob.index[orderID]
	if !exists {
		return nil, nil, false, ErrUnknownOrder
	}
	previous := e.el.elem.Value.(*domain.Order).Clone()

	if e.side == domain.Buy {
		ob.bids.Remove(previous, e.el)
	} else {
		ob.asks.Remove(previous, e.el)
	}
	delete(ob.index, orderID)

	amended := domain.NewOrder(orderID, ob.Symbol, e.side, newPrice, newQuantity)
	amended.ArrivalSequence = ob.ids.NextSequence()
	amended.AcceptedAt = previous.AcceptedAt

	trades, filledMakerIDs = ob.match(amended, sink)
	sink.OrderAmended(previous, amended)
	resting = !amended.IsFilled()
	if resting {
		ob.rest(amended)
	}
	return trades, filledMakerIDs, resting, nil
}

// AllOrders returns a snapshot of every resting order, in unspecified
// order (spec §4.2).
func (ob *OrderBook) AllOrders() []*domain.Order {
	orders := make([]*domain.Order, 0, len(ob.index))
	for _, e := range ob.index {
		orders = append(orders, e.el.elem.Value.(*domain.Order).Clone())
	}
	return orders
}

// Snapshot is a stable, read-only view of both sides of the book, for
// external rendering collaborators (CLI, market-data).
type Snapshot struct {
	Symbol string
	Bids   []LevelView
	Asks   []LevelView
}

// Snapshot returns a Snapshot of the book. Per spec §4.3 it never mutates
// the book (no implicit book creation on read happens here — that
// discipline lives in the Engine, which owns book creation).
func (ob *OrderBook) Snapshot() Snapshot {
	return Snapshot{Symbol: ob.Symbol, Bids: ob.bids.Levels(), Asks: ob.asks.Levels()}
}

// BestBid and BestAsk expose top-of-book prices for invariant checks and
// display; ok is false if that side is empty.
func (ob *OrderBook) BestBid() (decimal.Decimal, bool) { return ob.bids.BestPrice() }
func (ob *OrderBook) BestAsk() (decimal.Decimal, bool) { return ob.asks.BestPrice() }
