// Command throughput benchmarks the lock-free queue against a buffered
// channel under the same MPMC load.
//
// Usage:
//
//	go run ./cmd/throughput -n 10000000 -producers 4 -consumers 4
package main

import (
	"flag"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	queue "github.com/randomizedcoder/go-lock-free-queue"
)

func main() {
	iterations := flag.Int("n", 10_000_000, "total number of values to push")
	producers := flag.Int("producers", 4, "number of producer goroutines")
	consumers := flag.Int("consumers", 4, "number of consumer goroutines")
	chanSize := flag.Int("chansize", 1024, "channel buffer size for the channel contender")
	flag.Parse()

	fmt.Printf("Benchmarking MPMC queue (%d values, %dP/%dC)\n",
		*iterations, *producers, *consumers)
	fmt.Println("─────────────────────────────────────────────────")

	queueDur := runQueue(*iterations, *producers, *consumers)
	chanDur := runChannel(*iterations, *producers, *consumers, *chanSize)

	queuePerOp := float64(queueDur.Nanoseconds()) / float64(*iterations)
	chanPerOp := float64(chanDur.Nanoseconds()) / float64(*iterations)

	fmt.Printf("\nResults (push + pop per value):\n")
	fmt.Printf("  LockFreeQueue:  %v (%.2f ns/op)\n", queueDur, queuePerOp)
	fmt.Printf("  Channel:        %v (%.2f ns/op)\n", chanDur, chanPerOp)

	if queuePerOp < chanPerOp {
		fmt.Printf("\n  Speedup:  %.2fx (LockFreeQueue faster)\n", chanPerOp/queuePerOp)
	} else {
		fmt.Printf("\n  Speedup:  %.2fx (Channel faster)\n", queuePerOp/chanPerOp)
	}

	fmt.Printf("\nThroughput:\n")
	fmt.Printf("  LockFreeQueue:  %.2f M values/sec\n", 1000/queuePerOp)
	fmt.Printf("  Channel:        %.2f M values/sec\n", 1000/chanPerOp)
}

func runQueue(total, producers, consumers int) time.Duration {
	q := queue.New[int]()
	perProducer := total / producers

	var wg sync.WaitGroup
	var popped atomic.Int64
	target := int64(perProducer * producers)

	start := time.Now()

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(base + i)
			}
		}(p * perProducer)
	}

	for c := 0; c < consumers; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for popped.Load() < target {
				if _, ok := q.Pop(); ok {
					popped.Add(1)
				}
			}
		}()
	}

	wg.Wait()
	return time.Since(start)
}

func runChannel(total, producers, consumers, size int) time.Duration {
	ch := make(chan int, size)
	perProducer := total / producers

	var wg sync.WaitGroup
	var popped atomic.Int64
	target := int64(perProducer * producers)

	start := time.Now()

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				ch <- base + i
			}
		}(p * perProducer)
	}

	for c := 0; c < consumers; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for popped.Load() < target {
				select {
				case <-ch:
					popped.Add(1)
				default:
				}
			}
		}()
	}

	wg.Wait()
	return time.Since(start)
}
