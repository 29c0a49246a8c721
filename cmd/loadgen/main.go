// cmd/loadgen is a synthetic order generator adapted from the teacher
// repo's cmd/benchmark and cmd/profile mains. It demonstrates throughput
// against the synchronous engine; it is not part of the matching core
// and claims no conformance to any spec invariant beyond "doesn't
// crash, doesn't deadlock."
package main

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Vaibhav0305/Real-time-trading-engine/book"
	"github.com/Vaibhav0305/Real-time-trading-engine/domain"
	"github.com/Vaibhav0305/Real-time-trading-engine/engine"
	"github.com/Vaibhav0305/Real-time-trading-engine/internal/idutil"
)

const symbol = "BTCUSDT"

func main() {
	fmt.Println("=== loadgen: synthetic order throughput demo ===")

	eng := engine.New(book.NoopSink{})

	testDuration := 5 * time.Second
	numCPU := runtime.NumCPU()
	numWorkers := numCPU - 1
	if numWorkers < 1 {
		numWorkers = 1
	}

	var orderCount atomic.Int64
	var tradeCount atomic.Int64

	fmt.Printf("cpus=%d workers=%d duration=%v\n", numCPU, numWorkers, testDuration)

	stop := make(chan struct{})
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			i := 0
			for {
				select {
				case <-stop:
					return
				default:
					side := domain.Buy
					if i%2 == 1 {
						side = domain.Sell
					}
					price := decimal.NewFromInt(50000 + int64(i%200))
					orderID := idutil.NewClientOrderID()

					trades, err := eng.Place(orderID, symbol, side, price, 1)
					if err == nil {
						orderCount.Add(1)
						tradeCount.Add(int64(len(trades)))
					}
					i++
				}
			}
		}(w)
	}

	start := time.Now()
	time.Sleep(testDuration)
	close(stop)
	wg.Wait()
	elapsed := time.Since(start)

	totalOrders := orderCount.Load()
	totalTrades := tradeCount.Load()

	fmt.Println()
	fmt.Println("=== results ===")
	fmt.Printf("orders placed: %d\n", totalOrders)
	fmt.Printf("trades executed: %d\n", totalTrades)
	fmt.Printf("order rate: %.0f/sec\n", float64(totalOrders)/elapsed.Seconds())
	fmt.Printf("trade rate: %.0f/sec\n", float64(totalTrades)/elapsed.Seconds())

	snap, ok := eng.SnapshotSymbol(symbol)
	if !ok {
		os.Exit(0)
	}
	fmt.Printf("resting levels: %d bids, %d asks\n", len(snap.Bids), len(snap.Asks))
}
