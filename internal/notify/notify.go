// Package notify is the notification side-channel collaborator spec §1
// calls out as external to the core, generalized from the teacher
// repo's single-purpose trade ring buffer (matching/trade_ringbuffer_batch_safe.go)
// into a fan-out over all five EventSink kinds.
package notify

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/Vaibhav0305/Real-time-trading-engine/book"
	"github.com/Vaibhav0305/Real-time-trading-engine/domain"
)

// Kind identifies which EventSink method produced an Event.
type Kind int

const (
	KindOrderAccepted Kind = iota
	KindOrderRejected
	KindOrderCancelled
	KindOrderAmended
	KindTradeExecuted
)

// Event is the envelope delivered to subscribers. Only the field(s)
// relevant to Kind are populated.
type Event struct {
	Kind     Kind
	Order    *domain.Order
	Previous *domain.Order // set only for KindOrderAmended
	Reason   book.RejectReason
	Trade    *domain.Trade
}

// Notifier fans every event out to a set of subscriber channels. A slow
// subscriber never blocks the matching loop: sends are non-blocking, and
// a full subscriber channel simply drops the event (logged at Warn) —
// the spec is explicit that the sink is responsible for its own
// back-pressure (§5) and that delivery loss there is a collaborator
// concern, not a core one.
type Notifier struct {
	bufferSize int
	log        zerolog.Logger

	mu   sync.Mutex
	subs []chan Event
}

func NewNotifier(bufferSize int, log zerolog.Logger) *Notifier {
	return &Notifier{bufferSize: bufferSize, log: log}
}

// Subscribe registers a new buffered channel and returns it. There is no
// way to unsubscribe, and the channel is never closed; it receives events
// until process shutdown.
func (n *Notifier) Subscribe() <-chan Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch := make(chan Event, n.bufferSize)
	n.subs = append(n.subs, ch)
	return ch
}

func (n *Notifier) publish(evt Event) {
	n.mu.Lock()
	subs := n.subs
	n.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- evt:
		default:
			n.log.Warn().Int("kind", int(evt.Kind)).Msg("notify: subscriber full, dropping event")
		}
	}
}

func (n *Notifier) OrderAccepted(o *domain.Order) {
	n.publish(Event{Kind: KindOrderAccepted, Order: o})
}

func (n *Notifier) OrderRejected(o *domain.Order, reason book.RejectReason) {
	n.publish(Event{Kind: KindOrderRejected, Order: o, Reason: reason})
}

func (n *Notifier) OrderCancelled(o *domain.Order) {
	n.publish(Event{Kind: KindOrderCancelled, Order: o})
}

func (n *Notifier) OrderAmended(previous, amended *domain.Order) {
	n.publish(Event{Kind: KindOrderAmended, Order: amended, Previous: previous})
}

func (n *Notifier) TradeExecuted(t *domain.Trade) {
	n.publish(Event{Kind: KindTradeExecuted, Trade: t})
}
