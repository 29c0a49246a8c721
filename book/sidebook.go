package book

import (
	"container/list"

	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"
	"github.com/shopspring/decimal"

	"github.com/Vaibhav0305/Real-time-trading-engine/domain"
)

// priceLevel is the FIFO queue of orders resting at one price. Orders are
// dequeued in arrival-sequence order, which is insertion order because the
// Engine never inserts out of acceptance order (spec §3 invariant 3).
type priceLevel struct {
	price  decimal.Decimal
	orders *list.List // elements are *domain.Order
	volume int64
}

// sideElement is what OrderBook's id index needs to splice an order out in
// O(1): which level it sits in, and its node within that level's FIFO.
type sideElement struct {
	level *priceLevel
	elem  *list.Element
}

// SideBook is the price-indexed FIFO queue structure for one side (bid or
// ask) of one symbol's book. Per spec §4.1 / §9's redesign note, price
// levels live in an ordered map — here an emirpasic/gods red-black tree
// keyed directly by decimal.Decimal price — giving O(log n) insert/erase,
// with the best level additionally cached so Best/PopBest are O(1). This
// mirrors the teacher repo's ordered-map-plus-linked-list design without
// its sharded bucket layer (see DESIGN.md: the bucket layer bought
// throughput the spec's correctness-first scope does not call for).
//
// Empty levels are never retained: existence of a level implies at least
// one live order, matching the invariant spec §4.1 states explicitly.
type SideBook struct {
	levels     *rbt.Tree[decimal.Decimal, *priceLevel]
	best       *priceLevel
	descending bool // true for bids (best = highest price)
}

// NewSideBook creates an empty side book. descending=true yields bid
// ordering (best = highest price); false yields ask ordering (best =
// lowest price).
func NewSideBook(descending bool) *SideBook {
	cmp := func(a, b decimal.Decimal) int {
		c := a.Cmp(b)
		if descending {
			return -c
		}
		return c
	}
	return &SideBook{
		levels:     rbt.NewWith[decimal.Decimal, *priceLevel](cmp),
		descending: descending,
	}
}

// Insert places order at the tail of the FIFO queue for its limit price,
// creating the price level if absent. Returns the sideElement the caller
// (OrderBook) should retain in its id index for O(1) removal/reduction.
func (sb *SideBook) Insert(order *domain.Order) *sideElement {
	level, found := sb.levels.Get(order.LimitPrice)
	if !found {
		level = &priceLevel{price: order.LimitPrice, orders: list.New()}
		sb.levels.Put(order.LimitPrice, level)
		if sb.best == nil || sb.isLeftmost(level) {
			sb.best = level
		}
	}
	elem := level.orders.PushBack(order)
	level.volume += order.RemainingQuantity
	return &sideElement{level: level, elem: elem}
}

// Best returns, without removing, the order at the head of the
// best-priced queue. Returns nil if the side is empty.
func (sb *SideBook) Best() *domain.Order {
	front := sb.bestFront()
	if front == nil {
		return nil
	}
	return front.Value.(*domain.Order)
}

// BestPrice returns the best resting price and whether one exists.
func (sb *SideBook) BestPrice() (decimal.Decimal, bool) {
	if sb.best == nil {
		return decimal.Zero, false
	}
	return sb.best.price, true
}

// PopBest removes and returns the head of the best-priced queue, deleting
// the price level if it becomes empty.
func (sb *SideBook) PopBest() *domain.Order {
	front := sb.bestFront()
	if front == nil {
		return nil
	}
	order := front.Value.(*domain.Order)
	sb.best.orders.Remove(front)
	sb.best.volume -= order.RemainingQuantity
	if sb.best.orders.Len() == 0 {
		sb.removeLevel(sb.best)
	}
	return order
}

// ReduceHead subtracts qty from the head order's remaining quantity,
// removing it from the queue if that reaches zero. Caller must ensure qty
// does not exceed the head order's remaining quantity.
func (sb *SideBook) ReduceHead(qty int64) {
	front := sb.bestFront()
	if front == nil {
		return
	}
	order := front.Value.(*domain.Order)
	order.Fill(qty)
	sb.best.volume -= qty
	if order.IsFilled() {
		sb.best.orders.Remove(front)
		if sb.best.orders.Len() == 0 {
			sb.removeLevel(sb.best)
		}
	}
}

// Remove excises order (located via el, supplied by the caller's id
// index) from its queue, deleting the level if it becomes empty. O(1)
// given el, regardless of the level's depth.
func (sb *SideBook) Remove(order *domain.Order, el *sideElement) {
	el.level.orders.Remove(el.elem)
	el.level.volume -= order.RemainingQuantity
	if el.level.orders.Len() == 0 {
		sb.removeLevel(el.level)
	}
}

// IsEmpty reports whether the side has no resting orders.
func (sb *SideBook) IsEmpty() bool {
	return sb.best == nil
}

// LevelView is a read-only snapshot of one price level, used by
// engine.Snapshot for external rendering collaborators.
type LevelView struct {
	Price      decimal.Decimal
	Volume     int64
	OrderCount int
}

// Levels returns a snapshot of every price level, best-first, for
// rendering (engine.Snapshot).
func (sb *SideBook) Levels() []LevelView {
	views := make([]LevelView, 0, sb.levels.Size())
	it := sb.levels.Iterator()
	for it.Next() {
		l := it.Value()
		views = append(views, LevelView{Price: l.price, Volume: l.volume, OrderCount: l.orders.Len()})
	}
	return views
}

func (sb *SideBook) bestFront() *list.Element {
	if sb.best == nil {
		return nil
	}
	return sb.best.orders.Front()
}

// isLeftmost reports whether level is currently the tree's leftmost node,
// which under our comparator is always the best price.
func (sb *SideBook) isLeftmost(level *priceLevel) bool {
	node := sb.levels.Left()
	return node != nil && node.Value == level
}

func (sb *SideBook) removeLevel(level *priceLevel) {
	sb.levels.Remove(level.price)
	if sb.best == level {
		if node := sb.levels.Left(); node != nil {
			sb.best = node.Value
		} else {
			sb.best = nil
		}
	}
}
