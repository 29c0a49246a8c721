// cmd/exchange is the interactive CLI collaborator described in spec §6:
// a thin main that wires the engine core to its external collaborators
// (CSV persistence, the notifier fan-out) and drives them from a
// command loop. Input validation of positive price/quantity and a
// recognized side token is the CLI's duty, not the core's (spec §4.1's
// reject reasons assume the caller already passed a syntactically
// valid request).
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	tomb "gopkg.in/tomb.v2"

	"github.com/Vaibhav0305/Real-time-trading-engine/book"
	"github.com/Vaibhav0305/Real-time-trading-engine/domain"
	"github.com/Vaibhav0305/Real-time-trading-engine/engine"
	"github.com/Vaibhav0305/Real-time-trading-engine/internal/config"
	"github.com/Vaibhav0305/Real-time-trading-engine/internal/feed"
	"github.com/Vaibhav0305/Real-time-trading-engine/internal/idutil"
	"github.com/Vaibhav0305/Real-time-trading-engine/internal/notify"
)

// multiSink fans every EventSink callback out to a fixed set of
// sinks, synchronously and in order, so the engine's single call stays
// the sole point of delivery (spec §5: the sink boundary is
// synchronous and ordered). A panic from any member sink propagates to
// the engine's own recover, same as a single sink would.
type multiSink struct {
	sinks []book.EventSink
}

func (m multiSink) OrderAccepted(o *domain.Order) {
	for _, s := range m.sinks {
		s.OrderAccepted(o)
	}
}

func (m multiSink) OrderRejected(o *domain.Order, reason book.RejectReason) {
	for _, s := range m.sinks {
		s.OrderRejected(o, reason)
	}
}

func (m multiSink) OrderCancelled(o *domain.Order) {
	for _, s := range m.sinks {
		s.OrderCancelled(o)
	}
}

func (m multiSink) OrderAmended(previous, amended *domain.Order) {
	for _, s := range m.sinks {
		s.OrderAmended(previous, amended)
	}
}

func (m multiSink) TradeExecuted(t *domain.Trade) {
	for _, s := range m.sinks {
		s.TradeExecuted(t)
	}
}

func main() {
	cfg := config.Load()

	zerolog.SetGlobalLevel(cfg.LogLevel)
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	csvSink, err := feed.NewCSVSink(cfg.CSVDir, log)
	if err != nil {
		log.Error().Err(err).Msg("exchange: failed to open csv feed")
		os.Exit(1)
	}
	defer csvSink.Close()

	notifier := notify.NewNotifier(cfg.NotifyBuffer, log)

	eng := engine.New(multiSink{sinks: []book.EventSink{csvSink, notifier}})

	// A tomb supervises the background goroutine that drains live
	// notifications to the console, so it shuts down cleanly with the
	// rest of the process instead of leaking past the command loop.
	var t tomb.Tomb
	liveFeed := notifier.Subscribe()
	t.Go(func() error {
		for {
			select {
			case <-t.Dying():
				return nil
			case evt, ok := <-liveFeed:
				if !ok {
					return nil
				}
				printEvent(log, evt)
			}
		}
	})

	fmt.Println("=== exchange: single-venue matching engine CLI ===")
	fmt.Println("commands: place, amend, cancel, book, export, quit")

	exitCode := runLoop(os.Stdin, eng, log)

	t.Kill(nil)
	_ = t.Wait()

	os.Exit(exitCode)
}

func printEvent(log zerolog.Logger, evt notify.Event) {
	switch evt.Kind {
	case notify.KindTradeExecuted:
		t := evt.Trade
		fmt.Printf("  [trade] seq=%d %s %d@%s buy=%s sell=%s\n",
			t.Sequence, t.Symbol, t.Quantity, t.Price.String(), t.BuyOrderID, t.SellOrderID)
	case notify.KindOrderRejected:
		fmt.Printf("  [rejected] order=%s reason=%s\n", evt.Order.OrderID, evt.Reason.String())
	}
}

// runLoop reads commands from r until "quit" or EOF, returning the
// process exit code: 0 for a clean quit or EOF, non-zero if the input
// stream itself faults.
func runLoop(r *os.File, eng *engine.Engine, log zerolog.Logger) int {
	scanner := bufio.NewScanner(r)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				log.Error().Err(err).Msg("exchange: input stream error")
				return 1
			}
			return 0
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "quit", "exit":
			return 0
		case "place":
			handlePlace(eng, fields[1:])
		case "amend":
			handleAmend(eng, fields[1:])
		case "cancel":
			handleCancel(eng, fields[1:])
		case "book":
			handleBook(eng, fields[1:])
		case "export":
			fmt.Println("export: already persisted continuously to the configured csv directory")
			return 0
		default:
			fmt.Println("unrecognized command; try: place amend cancel book export quit")
		}
	}
}

// handlePlace expects: place <symbol> <buy|sell> <price> <qty> [order_id]
func handlePlace(eng *engine.Engine, args []string) {
	if len(args) < 4 {
		fmt.Println("usage: place <symbol> <buy|sell> <price> <qty> [order_id]")
		return
	}

	symbol := args[0]
	side, err := parseSide(args[1])
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	price, err := parsePositiveDecimal(args[2])
	if err != nil {
		fmt.Println("error: invalid price:", err)
		return
	}
	qty, err := parsePositiveInt(args[3])
	if err != nil {
		fmt.Println("error: invalid quantity:", err)
		return
	}

	orderID := idutil.NewClientOrderID()
	if len(args) >= 5 {
		orderID = args[4]
	}

	trades, err := eng.Place(orderID, symbol, side, price, qty)
	if err != nil {
		fmt.Println("rejected:", err)
		return
	}
	fmt.Printf("accepted order_id=%s, %d trade(s)\n", orderID, len(trades))
}

// handleAmend expects: amend <order_id> <price> <qty>
func handleAmend(eng *engine.Engine, args []string) {
	if len(args) < 3 {
		fmt.Println("usage: amend <order_id> <price> <qty>")
		return
	}
	price, err := parsePositiveDecimal(args[1])
	if err != nil {
		fmt.Println("error: invalid price:", err)
		return
	}
	qty, err := parsePositiveInt(args[2])
	if err != nil {
		fmt.Println("error: invalid quantity:", err)
		return
	}

	trades, err := eng.Amend(args[0], price, qty)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("amended order_id=%s, %d trade(s)\n", args[0], len(trades))
}

// handleCancel expects: cancel <order_id>
func handleCancel(eng *engine.Engine, args []string) {
	if len(args) < 1 {
		fmt.Println("usage: cancel <order_id>")
		return
	}
	if err := eng.Cancel(args[0]); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("cancelled", args[0])
}

// handleBook expects: book <symbol>
func handleBook(eng *engine.Engine, args []string) {
	if len(args) < 1 {
		fmt.Println("usage: book <symbol>")
		return
	}
	snap, ok := eng.SnapshotSymbol(args[0])
	if !ok {
		fmt.Println("unknown symbol:", args[0])
		return
	}

	fmt.Printf("%s bids:\n", snap.Symbol)
	for _, lvl := range snap.Bids {
		fmt.Printf("  %s x %d (%d orders)\n", lvl.Price.String(), lvl.Volume, lvl.OrderCount)
	}
	fmt.Printf("%s asks:\n", snap.Symbol)
	for _, lvl := range snap.Asks {
		fmt.Printf("  %s x %d (%d orders)\n", lvl.Price.String(), lvl.Volume, lvl.OrderCount)
	}
}

func parseSide(s string) (domain.Side, error) {
	switch strings.ToLower(s) {
	case "buy", "b":
		return domain.Buy, nil
	case "sell", "s":
		return domain.Sell, nil
	default:
		return 0, fmt.Errorf("side must be buy or sell, got %q", s)
	}
}

func parsePositiveDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("must be positive, got %s", s)
	}
	return d, nil
}

func parsePositiveInt(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s)
	}
	return n, nil
}
