package spsc

import "sync/atomic"

// SeqCstQueue is the conservative queue: both indices are read and written
// with atomic operations on every access.
type SeqCstQueue[T any] struct {
	buffer []T
	read   atomic.Int64 // owned by the consumer
	write  atomic.Int64 // owned by the producer
}

// NewSeqCst returns a queue holding up to capacity values. Capacities below
// 1 are raised to 1.
func NewSeqCst[T any](capacity int) *SeqCstQueue[T] {
	return &SeqCstQueue[T]{buffer: make([]T, slots(capacity))}
}

func (q *SeqCstQueue[T]) TryPush(v T) bool {
	w := q.write.Load()
	next := q.next(w)
	if next == q.read.Load() {
		return false
	}
	q.buffer[w] = v
	q.write.Store(next)
	return true
}

func (q *SeqCstQueue[T]) TryPop() (v T, ok bool) {
	r := q.read.Load()
	if r == q.write.Load() {
		return v, false
	}
	v = q.buffer[r]
	q.read.Store(q.next(r))
	return v, true
}

func (q *SeqCstQueue[T]) WasEmpty() bool { return q.read.Load() == q.write.Load() }
func (q *SeqCstQueue[T]) WasFull() bool  { return q.next(q.write.Load()) == q.read.Load() }
func (q *SeqCstQueue[T]) Cap() int       { return len(q.buffer) - 1 }

func (q *SeqCstQueue[T]) next(i int64) int64 {
	if i++; i == int64(len(q.buffer)) {
		return 0
	}
	return i
}
