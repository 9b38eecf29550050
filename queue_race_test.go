package queue_test

import (
	"sync"
	"sync/atomic"
	"testing"

	queue "github.com/randomizedcoder/go-lock-free-queue"
)

// TestQueue_MPMC_Race runs several producers pushing disjoint ranges against
// several consumers draining concurrently, then checks the multiset of
// popped values against the multiset pushed: nothing lost, nothing
// duplicated.
// Run with: go test -race .
func TestQueue_MPMC_Race(t *testing.T) {
	const (
		producers   = 4
		consumers   = 4
		perProducer = 5000
	)
	total := producers * perProducer

	q := queue.New[int]()
	var wg sync.WaitGroup

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(base + i)
			}
		}(p * perProducer)
	}

	var popped atomic.Int64
	results := make([][]int, consumers)
	for c := 0; c < consumers; c++ {
		wg.Add(1)
		go func(c int) {
			defer wg.Done()
			local := make([]int, 0, total/consumers)
			for popped.Load() < int64(total) {
				v, ok := q.Pop()
				if !ok {
					continue
				}
				local = append(local, v)
				popped.Add(1)
			}
			results[c] = local
		}(c)
	}

	wg.Wait()

	seen := make([]int, total)
	for _, r := range results {
		for _, v := range r {
			if v < 0 || v >= total {
				t.Fatalf("popped value %d outside pushed range [0,%d)", v, total)
			}
			seen[v]++
		}
	}
	for v, count := range seen {
		if count == 0 {
			t.Errorf("value %d lost", v)
		}
		if count > 1 {
			t.Errorf("value %d popped %d times", v, count)
		}
	}

	if _, ok := q.Pop(); ok {
		t.Error("expected empty queue after full drain")
	}
}

// TestQueue_ConcurrentMixed_Race hammers the queue with goroutines that both
// push and pop, exercising the helping paths (tail lag resolution) and the
// CAS failure retries under the race detector.
// Run with: go test -race .
func TestQueue_ConcurrentMixed_Race(t *testing.T) {
	const (
		workers = 8
		ops     = 2000
	)

	q := queue.New[int]()
	var wg sync.WaitGroup
	var pushes, pops atomic.Int64

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < ops; i++ {
				q.Push(w*ops + i)
				pushes.Add(1)
				if _, ok := q.Pop(); ok {
					pops.Add(1)
				}
			}
		}(w)
	}

	wg.Wait()

	// Drain whatever the mixed workers left behind.
	for {
		if _, ok := q.Pop(); !ok {
			break
		}
		pops.Add(1)
	}

	if pushes.Load() != pops.Load() {
		t.Errorf("pushed %d values but popped %d", pushes.Load(), pops.Load())
	}
}

// TestQueue_EmptyPopDoesNotBlock_Race verifies pop on an empty queue returns
// immediately even while other goroutines are spinning on it.
func TestQueue_EmptyPopDoesNotBlock_Race(t *testing.T) {
	q := queue.New[int]()
	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10000; j++ {
				if _, ok := q.Pop(); ok {
					t.Error("popped a value from an empty queue")
					return
				}
			}
		}()
	}

	wg.Wait()
}
