package queue

import "sync/atomic"

// Queue is an unbounded lock-free multi-producer multi-consumer FIFO queue.
//
// The zero value is not usable; create queues with New. A Queue must not be
// copied after first use.
//
// head always references the sentinel node: the value returned by a
// successful Pop comes from the node *after* head, never from head itself.
// That convention is what lets head advancement be a single CAS with no
// separate payload-extraction step. tail references either the true last
// node or, transiently, its predecessor while a concurrent Push is still
// swinging it forward; any operation that observes the lag helps resolve it.
type Queue[T any] struct {
	head atomic.Pointer[node[T]]
	tail atomic.Pointer[node[T]]
	size atomic.Int64
	mem  allocator[T]
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	return newQueue[T](heapAllocator[T]{})
}

// newQueue creates a queue backed by the given allocator. The sentinel
// starts with one internal reference: head's structural hold on it.
func newQueue[T any](mem allocator[T]) *Queue[T] {
	q := &Queue[T]{mem: mem}
	var zero T
	sentinel := mem.alloc(zero)
	sentinel.internal.Store(1)
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

// Push enqueues value. It always succeeds; there is no capacity to exhaust.
//
// Safe to call from any number of goroutines concurrently with Push and Pop.
func (q *Queue[T]) Push(value T) {
	n := q.mem.alloc(value)
	for {
		last := q.tail.Load()
		next := last.next.Load()
		if last != q.tail.Load() {
			// Stale snapshot pair, re-read.
			continue
		}
		if next != nil {
			// tail lags behind the true last node. Help whoever linked
			// next, then retry; our node still needs a fresh snapshot.
			q.tail.CompareAndSwap(last, next)
			continue
		}
		if last.next.CompareAndSwap(nil, n) {
			// Linked. Two internal references: one for the chain link that
			// now reaches n, one transient hold for the pusher while it
			// swings tail forward. The tail CAS is best-effort; if it
			// fails, another goroutine already helped.
			n.internal.Add(2)
			q.tail.CompareAndSwap(last, n)
			q.size.Add(1)
			q.releaseInternal(n)
			return
		}
		// Another pusher linked first; retry.
	}
}

// Pop dequeues the oldest value. It returns ok=false if the queue is empty
// at the instant of the attempt; it never waits for a producer.
//
// Safe to call from any number of goroutines concurrently with Push and Pop.
func (q *Queue[T]) Pop() (value T, ok bool) {
	for {
		first := q.claim(&q.head)
		next := first.next.Load()
		last := q.claim(&q.tail)

		if first == last {
			// Queue looks empty, or tail is lagging.
			q.releaseExternal(last)
			if next == nil {
				q.releaseExternal(first)
				return value, false
			}
			q.tail.CompareAndSwap(last, next)
			q.releaseExternal(first)
			continue
		}

		if next != nil {
			// Read the payload before the CAS: winning the CAS proves next
			// was still linked (and thus unfreed) at the time of the read.
			// After the CAS another popper may retire next at any moment.
			v := next.value
			if q.head.CompareAndSwap(first, next) {
				q.size.Add(-1)
				q.releaseExternal(last)
				// The old sentinel is fully detached: drop our examining
				// hold and its structural place at the head in one release.
				q.releaseBoth(first)
				return v, true
			}
		}

		// Lost the head race (or first was a stale, already retired head).
		// Drop both holds and rescan.
		q.releaseExternal(last)
		q.releaseExternal(first)
	}
}

// Len returns the number of values currently in the queue.
//
// This is an approximation: concurrent Push and Pop calls may make it
// momentarily stale, and it can transiently read as negative under heavy
// contention. Use it for monitoring, not for synchronization.
func (q *Queue[T]) Len() int {
	return int(q.size.Load())
}

// Destroy drains the queue and frees every node, including the sentinel.
//
// PRECONDITION: no Push or Pop may be in flight, and the queue must not be
// used after Destroy returns. Violating this is a contract bug in the
// caller, not a recoverable error.
func (q *Queue[T]) Destroy() {
	for {
		if _, ok := q.Pop(); !ok {
			break
		}
	}
	sentinel := q.head.Load()
	q.head.Store(nil)
	q.tail.Store(nil)
	// Drop head's structural hold; with no claims outstanding this frees
	// the final sentinel.
	q.releaseInternal(sentinel)
}
