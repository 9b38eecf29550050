package queue

// allocator is the seam between the queue and the memory that backs its
// nodes. The hosting environment owns allocation policy; the queue only
// promises that every node obtained from alloc is passed to free exactly
// once, after the reclamation protocol has proven no goroutine still holds
// it. Tests substitute a counting allocator here to verify that promise.
type allocator[T any] interface {
	alloc(value T) *node[T]
	free(n *node[T])
}

// heapAllocator is the default allocator: plain heap nodes, left to the
// garbage collector once freed.
type heapAllocator[T any] struct{}

func (heapAllocator[T]) alloc(value T) *node[T] {
	return &node[T]{value: value}
}

// free must not write the node at all. The payload slot is read by racing
// stale readers (see the node doc comment), and the next link must stay
// monotonic: if it were reset to nil, a pusher holding a stale tail snapshot
// could CAS its new node onto a retired link and lose the value. The freed
// node is unreachable once the last holder drops it, so the garbage
// collector reclaims it without any help.
func (heapAllocator[T]) free(n *node[T]) {}
