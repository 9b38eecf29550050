// Package queue provides an unbounded lock-free MPMC FIFO queue.
//
// The queue is a Michael-Scott style linked queue: a singly linked chain of
// nodes with atomic head and tail entry points, updated by compare-and-swap
// retry loops. Any number of goroutines may call Push() and Pop()
// concurrently on the same queue.
//
// Node lifetime is governed by a split reference-counting protocol (an
// internal counter for structural reachability, an external counter for
// transient per-goroutine holds), so the queue can account for every node it
// allocates and hand it back to its allocator exactly once. See reclaim.go.
//
// # Progress guarantee
//
// The queue is lock-free, not wait-free. A losing CAS always means some
// other goroutine's operation advanced the shared state, so the system as a
// whole makes progress, but an individual call may retry indefinitely under
// adversarial scheduling.
//
// Pop() never blocks: on an empty queue it returns immediately with ok=false.
// Empty is a point-in-time observation, not a guarantee that the queue stays
// empty.
//
// # Teardown (IMPORTANT)
//
// Destroy() requires exclusive access: no Push() or Pop() may be in flight
// when it is called, and the queue must not be used afterwards. This is a
// documented contract, not a runtime-checked error.
//
// Correct usage:
//   - Push() and Pop() from any number of goroutines
//   - Destroy() only after all producers and consumers have stopped
//
// # Payload types
//
// The payload type must not own resources that need explicit release; a
// popped or discarded value is simply dropped. Plain values, slices, and
// pointers are all fine.
package queue
