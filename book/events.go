package book

import "github.com/Vaibhav0305/Real-time-trading-engine/domain"

// RejectReason names why AddOrder/AmendOrder/CancelOrder refused a
// request, for EventSink.OrderRejected payloads (spec §7 taxonomy).
type RejectReason int

const (
	RejectDuplicateOrderID RejectReason = iota
	RejectUnknownOrder
	RejectInvalidPrice
	RejectInvalidQuantity
)

func (r RejectReason) String() string {
	switch r {
	case RejectDuplicateOrderID:
		return "DuplicateOrderId"
	case RejectUnknownOrder:
		return "UnknownOrder"
	case RejectInvalidPrice:
		return "InvalidPrice"
	case RejectInvalidQuantity:
		return "InvalidQuantity"
	default:
		return "Unknown"
	}
}

// EventSink is the abstract output for lifecycle events and trades, per
// spec §4.4/§6. Delivery is synchronous and ordered: the Engine calls
// these methods inline, in the exact order its state transitioned, and
// does not return to its own caller until every call for that operation
// has returned. Implementations must not block indefinitely — the spec
// assumes "synchronous, non-blocking delivery" (§5) — and a panicking
// sink must not be allowed to corrupt book state; the Engine recovers
// around each delivery and re-raises as a SinkFailure (see engine.Place).
type EventSink interface {
	OrderAccepted(order *domain.Order)
	OrderRejected(order *domain.Order, reason RejectReason)
	OrderCancelled(order *domain.Order)
	OrderAmended(previous, amended *domain.Order)
	TradeExecuted(trade *domain.Trade)
}

// NoopSink discards every event. It is the Engine's default sink so core
// tests and callers that don't care about the observation pipeline don't
// need to supply one.
type NoopSink struct{}

func (NoopSink) OrderAccepted(*domain.Order)               {}
func (NoopSink) OrderRejected(*domain.Order, RejectReason) {}
func (NoopSink) OrderCancelled(*domain.Order)              {}
func (NoopSink) OrderAmended(*domain.Order, *domain.Order) {}
func (NoopSink) TradeExecuted(*domain.Trade)               {}
