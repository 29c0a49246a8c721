// Package feed is the collaborator persistence layer consuming the
// engine's event stream, per spec §1 ("Historical audit logs are written
// by collaborators consuming the engine's event stream; the engine
// itself ... has no durability obligation"). It implements the three CSV
// schemas spec §6 specifies for round-trip compatibility with existing
// tooling.
package feed

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Vaibhav0305/Real-time-trading-engine/book"
	"github.com/Vaibhav0305/Real-time-trading-engine/domain"
)

// CSVSink implements engine.EventSink (book.EventSink) by appending to
// three CSV files: orders, trades, cancelled — each matching spec §6's
// schema exactly, header row included. It never inspects or replays its
// own files; it is write-only, as the spec requires of the engine's
// collaborators.
type CSVSink struct {
	mu      sync.Mutex
	orders  *csv.Writer
	trades  *csv.Writer
	cancels *csv.Writer
	files   []*os.File
	log     zerolog.Logger
}

// NewCSVSink opens (creating if absent) orders.csv, trades.csv, and
// cancelled.csv under dir, writing header rows to any file that is new.
func NewCSVSink(dir string, log zerolog.Logger) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("feed: create csv dir: %w", err)
	}

	ordersFile, ordersNew, err := openAppend(filepath.Join(dir, "orders.csv"))
	if err != nil {
		return nil, err
	}
	tradesFile, tradesNew, err := openAppend(filepath.Join(dir, "trades.csv"))
	if err != nil {
		return nil, err
	}
	cancelsFile, cancelsNew, err := openAppend(filepath.Join(dir, "cancelled.csv"))
	if err != nil {
		return nil, err
	}

	s := &CSVSink{
		orders:  csv.NewWriter(ordersFile),
		trades:  csv.NewWriter(tradesFile),
		cancels: csv.NewWriter(cancelsFile),
		files:   []*os.File{ordersFile, tradesFile, cancelsFile},
		log:     log,
	}

	if ordersNew {
		s.orders.Write([]string{"orderId", "symbol", "type", "price", "quantity", "timestamp"})
	}
	if tradesNew {
		s.trades.Write([]string{"tradeId", "buyOrderId", "sellOrderId", "symbol", "price", "quantity", "timestamp"})
	}
	if cancelsNew {
		s.cancels.Write([]string{"orderId", "symbol", "type", "price", "quantity", "timestamp"})
	}
	s.flushAll()

	return s, nil
}

func openAppend(path string) (*os.File, bool, error) {
	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, false, fmt.Errorf("feed: open %s: %w", path, err)
	}
	return f, isNew, nil
}

func orderRow(o *domain.Order) []string {
	return []string{
		o.OrderID,
		o.Symbol,
		o.Side.String(),
		o.LimitPrice.String(),
		fmt.Sprint(o.OriginalQuantity),
		fmt.Sprint(o.AcceptedAt.UnixMilli()),
	}
}

// OrderAccepted appends a row to orders.csv.
func (s *CSVSink) OrderAccepted(o *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.orders.Write(orderRow(o)); err != nil {
		s.log.Error().Err(err).Str("order_id", o.OrderID).Msg("feed: write order row failed")
		return
	}
	s.orders.Flush()
}

// OrderRejected logs only; rejected orders never touch the book and have
// no place in a CSV meant to describe accepted state transitions.
func (s *CSVSink) OrderRejected(o *domain.Order, reason book.RejectReason) {
	s.log.Warn().Str("order_id", o.OrderID).Str("reason", reason.String()).Msg("order rejected")
}

// OrderCancelled appends a row to cancelled.csv.
func (s *CSVSink) OrderCancelled(o *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cancels.Write(orderRow(o)); err != nil {
		s.log.Error().Err(err).Str("order_id", o.OrderID).Msg("feed: write cancel row failed")
		return
	}
	s.cancels.Flush()
}

// OrderAmended logs the amendment as a structured event for operators
// watching live. No CSV row is written for it: AmendOrder delivers only
// OrderAmended (no OrderCancelled or OrderAccepted), so orders.csv keeps
// the order's original row and the amendment is not persisted.
func (s *CSVSink) OrderAmended(previous, amended *domain.Order) {
	s.log.Info().
		Str("order_id", amended.OrderID).
		Str("old_price", previous.LimitPrice.String()).
		Str("new_price", amended.LimitPrice.String()).
		Int64("old_qty", previous.RemainingQuantity).
		Int64("new_qty", amended.RemainingQuantity).
		Msg("order amended")
}

// TradeExecuted appends a row to trades.csv.
func (s *CSVSink) TradeExecuted(t *domain.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := []string{
		fmt.Sprint(t.TradeID),
		t.BuyOrderID,
		t.SellOrderID,
		t.Symbol,
		t.Price.String(),
		fmt.Sprint(t.Quantity),
		fmt.Sprint(t.ExecutedAt.UnixMilli()),
	}
	if err := s.trades.Write(row); err != nil {
		s.log.Error().Err(err).Uint64("trade_id", t.TradeID).Msg("feed: write trade row failed")
		return
	}
	s.trades.Flush()
}

func (s *CSVSink) flushAll() {
	s.orders.Flush()
	s.trades.Flush()
	s.cancels.Flush()
}

// Close flushes and closes the underlying files.
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushAll()
	var firstErr error
	for _, f := range s.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
