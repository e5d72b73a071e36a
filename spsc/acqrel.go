package spsc

import "sync/atomic"

const cacheLine = 64

// AcqRelQueue is the fast queue. Each side keeps its own index in a plain
// field and caches the last seen index of the other side; the shared atomic
// of the other side is loaded only when the cache says the queue is full
// (producer) or empty (consumer). Publishing is a single atomic store. Go
// atomics are sequentially consistent, so the load acquires and the store
// releases. Producer and consumer fields are on separate cache lines.
type AcqRelQueue[T any] struct {
	buffer []T
	_      [cacheLine]byte

	write      atomic.Int64
	writeLocal int64
	readCached int64
	_          [cacheLine - 24]byte

	read        atomic.Int64
	readLocal   int64
	writeCached int64
	_           [cacheLine - 24]byte
}

// NewAcqRel returns a queue holding up to capacity values. Capacities below
// 1 are raised to 1.
func NewAcqRel[T any](capacity int) *AcqRelQueue[T] {
	return &AcqRelQueue[T]{buffer: make([]T, slots(capacity))}
}

func (q *AcqRelQueue[T]) TryPush(v T) bool {
	w := q.writeLocal
	next := w + 1
	if next == int64(len(q.buffer)) {
		next = 0
	}
	if next == q.readCached {
		q.readCached = q.read.Load()
		if next == q.readCached {
			return false
		}
	}
	q.buffer[w] = v
	q.writeLocal = next
	q.write.Store(next)
	return true
}

func (q *AcqRelQueue[T]) TryPop() (v T, ok bool) {
	r := q.readLocal
	if r == q.writeCached {
		q.writeCached = q.write.Load()
		if r == q.writeCached {
			return v, false
		}
	}
	v = q.buffer[r]
	if r++; r == int64(len(q.buffer)) {
		r = 0
	}
	q.readLocal = r
	q.read.Store(r)
	return v, true
}

func (q *AcqRelQueue[T]) WasEmpty() bool { return q.read.Load() == q.write.Load() }

func (q *AcqRelQueue[T]) WasFull() bool {
	next := q.write.Load() + 1
	if next == int64(len(q.buffer)) {
		next = 0
	}
	return next == q.read.Load()
}

func (q *AcqRelQueue[T]) Cap() int { return len(q.buffer) - 1 }
