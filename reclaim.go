package queue

import "sync/atomic"

// node is one link in the queue's singly linked chain.
//
// The payload slot is written once, when the node is allocated, and never
// touched again. This matters: a goroutine holding a stale head reference
// may still read the payload of the node after it, so no code path (freeing
// included) may ever write the slot of a published node.
//
// The next link is likewise monotonic: nil until the winning pusher links a
// successor, then never written again. Push's CAS from nil depends on this;
// resetting next on free would let a pusher relink onto a retired node and
// lose the value.
//
// Lifetime is governed by two counters:
//   - internal: structural reachability. A linked node is referenced by its
//     predecessor's next link (or by head, for the sentinel) and holds
//     internal >= 1 for as long as it is part of the chain.
//   - external: transient holds taken by claim() while a goroutine examines
//     the node.
//
// A node is handed back to the allocator when both counters have reached
// zero. The freed flag makes that check-and-free exactly-once: two racing
// releases can both observe the zero-zero state, and only the CAS winner
// performs the free.
type node[T any] struct {
	value    T
	next     atomic.Pointer[node[T]]
	internal atomic.Int32
	external atomic.Int32
	freed    atomic.Bool
}

// Reclamation protocol.
//
// All atomicity decisions for node lifetime live in the four operations
// below; Push and Pop never touch the counters directly. Go's sync/atomic
// operations are sequentially consistent, which subsumes the acquire/release
// pairing the protocol needs: whichever of two racing releases performs the
// later decrement in the total order is guaranteed to observe the other
// counter already at zero, so at least one release sees the zero-zero state
// and the freed flag collapses "at least one" to "exactly one".
//
// Every claim must be matched by exactly one release (releaseExternal or
// releaseBoth) on every code path. The stress tests verify this indirectly
// through an instrumented allocator: unbalanced claims show up as leaked or
// double-freed nodes.

// claim reads the node currently referenced by slot and, if present, takes
// one external hold on it before returning it. The hold tells releases on
// other goroutines "I am examining this node; do not free it".
func (q *Queue[T]) claim(slot *atomic.Pointer[node[T]]) *node[T] {
	n := slot.Load()
	if n != nil {
		n.external.Add(1)
	}
	return n
}

// releaseExternal drops one external hold. The node is freed if this was the
// last external hold and the structural reference is already gone.
func (q *Queue[T]) releaseExternal(n *node[T]) {
	if n.external.Add(-1) == 0 && n.internal.Load() == 0 {
		q.freeNode(n)
	}
}

// releaseInternal drops one internal (structural) reference. The node is
// freed if this was the last structural reference and no goroutine holds it
// externally.
func (q *Queue[T]) releaseInternal(n *node[T]) {
	if n.internal.Add(-1) == 0 && n.external.Load() == 0 {
		q.freeNode(n)
	}
}

// releaseBoth drops one external hold and one structural reference in a
// single release. It is used by the popper that won the head CAS: that
// goroutine both examined the old sentinel (its claim) and retired its place
// at the front of the chain (the structural reference).
//
// The external counter may still be positive here if other poppers hold the
// node; in that case the last of them frees it via releaseExternal, which is
// why the external decrement must happen before the internal one.
func (q *Queue[T]) releaseBoth(n *node[T]) {
	n.external.Add(-1)
	if n.internal.Add(-1) == 0 && n.external.Load() == 0 {
		q.freeNode(n)
	}
}

// freeNode hands the node to the allocator exactly once. Late releases from
// goroutines that claimed a stale entry point become no-ops here.
func (q *Queue[T]) freeNode(n *node[T]) {
	if n.freed.CompareAndSwap(false, true) {
		q.mem.free(n)
	}
}
