// Package stress drives a queue with concurrent producers and consumers and
// accounts for every value that passes through it.
//
// Producers push disjoint integer ranges; consumers drain until every pushed
// value has been collected. The result reports lost and duplicated values,
// so a zero-valued Result (beyond the throughput counters) is a passing run.
//
// The harness is shared between the package tests and cmd/stress, which runs
// it for much longer and with an operator-visible progress line.
package stress

import (
	"sync"
	"sync/atomic"
	"time"

	queue "github.com/randomizedcoder/go-lock-free-queue"
)

// Config describes one stress run.
type Config struct {
	Producers   int
	Consumers   int
	PerProducer int

	// Progress, if non-nil, is invoked at most once per Interval with the
	// number of values popped so far. It is called from a consumer
	// goroutine; keep it cheap.
	Progress func(popped uint64)
	Interval time.Duration

	// CheckEvery is how many pops a consumer performs between clock checks
	// for progress reporting. Defaults to 4096. Checking the clock on every
	// pop would dominate the hot loop.
	CheckEvery int
}

// Result is the accounting of a finished run.
type Result struct {
	Pushed     uint64
	Popped     uint64
	Duplicates int // values popped more than once
	Missing    int // values never popped
	Elapsed    time.Duration
}

// Run executes the configured stress pattern against q and blocks until all
// producers and consumers have finished. The queue must be empty when Run is
// called and is empty again when it returns.
func Run(q *queue.Queue[int], cfg Config) Result {
	total := cfg.Producers * cfg.PerProducer
	if total <= 0 {
		return Result{}
	}
	seen := make([]atomic.Int32, total)

	var (
		wg     sync.WaitGroup
		popped atomic.Uint64
		done   atomic.Bool // set once every value is accounted for
	)

	pt := newProgressTicker(cfg.Interval, cfg.CheckEvery)
	start := time.Now()

	for p := 0; p < cfg.Producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < cfg.PerProducer; i++ {
				q.Push(base + i)
			}
		}(p * cfg.PerProducer)
	}

	for c := 0; c < cfg.Consumers; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// done.Load() is a single atomic load, cheap enough to poll on
			// every iteration of the hot loop.
			for !done.Load() {
				v, ok := q.Pop()
				if !ok {
					continue
				}
				if v >= 0 && v < total {
					seen[v].Add(1)
				}
				if popped.Add(1) == uint64(total) {
					done.Store(true)
				}
				if cfg.Progress != nil && pt.tick() {
					cfg.Progress(popped.Load())
				}
			}
		}()
	}

	wg.Wait()

	res := Result{
		Pushed:  uint64(total),
		Popped:  popped.Load(),
		Elapsed: time.Since(start),
	}
	for i := range seen {
		switch n := seen[i].Load(); {
		case n == 0:
			res.Missing++
		case n > 1:
			res.Duplicates += int(n - 1)
		}
	}
	return res
}

// progressTicker fires at most once per interval. It checks the clock only
// every N calls, amortizing the time lookup across the hot loop, and uses a
// CAS on the last-fire timestamp so concurrent consumers cannot trigger the
// same tick twice.
type progressTicker struct {
	interval time.Duration
	every    uint64
	calls    atomic.Uint64
	last     atomic.Int64 // unix nanos of the last fire
}

func newProgressTicker(interval time.Duration, every int) *progressTicker {
	if interval <= 0 {
		interval = time.Second
	}
	if every < 1 {
		every = 4096
	}
	pt := &progressTicker{
		interval: interval,
		every:    uint64(every),
	}
	pt.last.Store(time.Now().UnixNano())
	return pt
}

func (p *progressTicker) tick() bool {
	if p.calls.Add(1)%p.every != 0 {
		return false
	}
	now := time.Now().UnixNano()
	last := p.last.Load()
	if now-last < int64(p.interval) {
		return false
	}
	return p.last.CompareAndSwap(last, now)
}
