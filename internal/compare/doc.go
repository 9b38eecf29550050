// Package compare provides comparison benchmarks for the lock-free queue
// against the obvious alternatives.
//
// These benchmarks pit the unbounded linked queue against a buffered channel
// and against go-lock-free-ring's sharded ring under the same producer and
// consumer patterns. They are more representative than isolated
// micro-benchmarks because they capture retry behavior under real
// contention.
//
// KEY DIFFERENCE between the contenders:
//   - Queue (this module): unbounded MPMC, allocates one node per value
//   - Channel: bounded MPMC, producers spin when the buffer fills
//   - go-lock-free-ring: bounded MPSC, sharded per producer
package compare
