// Package spsc implements bounded wait-free single-producer single-consumer
// queues. Exactly one goroutine may push and exactly one goroutine may pop;
// calling TryPush or TryPop concurrently from two goroutines is not allowed.
//
// Two interchangeable implementations are provided. SeqCstQueue loads and
// stores every shared index atomically and serves as the reference in tests.
// AcqRelQueue keeps a private copy of the owned index and a cached copy of the
// other side's index, touching the shared atomics only to publish, or when
// the cache says the queue is full or empty.
package spsc

// Queue is the common interface of the queue implementations.
type Queue[T any] interface {
	// TryPush appends v and returns true, or returns false if the queue is
	// full. Never blocks.
	TryPush(v T) bool
	// TryPop removes and returns the oldest value, or returns ok = false if
	// the queue is empty. Never blocks.
	TryPop() (v T, ok bool)
	// WasEmpty and WasFull are advisory snapshots that may be stale by the
	// time they return.
	WasEmpty() bool
	WasFull() bool
	Cap() int
}

// Variant names a Queue implementation.
type Variant string

const (
	VariantSeqCst Variant = "seqcst"
	VariantAcqRel Variant = "acqrel"
)

// New returns a queue of the given variant. Unknown variants fall back to
// AcqRel.
func New[T any](v Variant, capacity int) Queue[T] {
	if v == VariantSeqCst {
		return NewSeqCst[T](capacity)
	}
	return NewAcqRel[T](capacity)
}

// TryPopLatest drains q and returns the most recently pushed value, for
// consumers that only care about the newest state.
func TryPopLatest[T any](q Queue[T]) (v T, ok bool) {
	for {
		next, popped := q.TryPop()
		if !popped {
			return v, ok
		}
		v, ok = next, true
	}
}

// slots returns the number of physical slots for a capacity. One slot is
// always left empty to tell a full queue from an empty one.
func slots(capacity int) int {
	return max(capacity, 1) + 1
}
