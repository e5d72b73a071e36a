package history

import "fmt"

// RingBuffer is a fixed capacity circular store. Values are addressed by
// offsets relative to the write head: -1 is the most recently pushed value
// and -Cap() the oldest one, which is also the slot the next Push overwrites
// (offset 0 refers to the same slot). Any integer offset is accepted and
// normalized modulo the capacity.
type RingBuffer[T any] struct {
	buffer []T
	head   int
	filled int
}

func NewRingBuffer[T any](capacity int) (*RingBuffer[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w (got %d)", ErrCapacity, capacity)
	}
	return &RingBuffer[T]{buffer: make([]T, capacity)}, nil
}

// Push writes v at the head and advances the head by one, overwriting the
// oldest value once the buffer is full.
func (r *RingBuffer[T]) Push(v T) {
	r.buffer[r.head] = v
	r.head++
	if r.head == len(r.buffer) {
		r.head = 0
	}
	if r.filled < len(r.buffer) {
		r.filled++
	}
}

// Get returns the value at offset.
func (r *RingBuffer[T]) Get(offset int) T {
	assert(offset >= -len(r.buffer) && offset <= 0, "Get offset out of range")
	return r.buffer[r.index(offset)]
}

// CopyRange copies count consecutive values, starting at offset start and
// moving towards newer values, into out. The copy wraps around the physical
// end of the storage, so at most two copy calls are made. Returns the number
// of values copied, which is limited by len(out) and the capacity.
func (r *RingBuffer[T]) CopyRange(start, count int, out []T) int {
	assert(start >= -len(r.buffer) && start <= 0, "CopyRange start out of range")
	assert(count <= len(r.buffer), "CopyRange count exceeds capacity")
	count = min(count, len(out), len(r.buffer))
	if count <= 0 {
		return 0
	}
	i := r.index(start)
	n := copy(out[:count], r.buffer[i:])
	if n < count {
		copy(out[n:count], r.buffer)
	}
	return count
}

// Reset zeroes the storage and moves the head back to the first slot. It is
// not meant to be called on the audio thread while other code is reading.
func (r *RingBuffer[T]) Reset() {
	clear(r.buffer)
	r.head = 0
	r.filled = 0
}

// Len returns the number of values pushed so far, saturating at Cap.
func (r *RingBuffer[T]) Len() int { return r.filled }

// Cap returns the capacity of the buffer.
func (r *RingBuffer[T]) Cap() int { return len(r.buffer) }

func (r *RingBuffer[T]) index(offset int) int {
	n := len(r.buffer)
	i := (r.head + offset) % n
	if i < 0 {
		i += n
	}
	return i
}

// Fold reduces the values at offsets start..end (both inclusive) with op.
// The walk is ascending when start < end and descending otherwise. op
// receives the offset of each value, which allows finding an argmax.
func Fold[T, A any](r *RingBuffer[T], start, end int, initial A, op func(acc A, offset int, v T) A) A {
	assert(start >= -len(r.buffer) && start <= 0, "Fold start out of range")
	assert(end >= -len(r.buffer) && end <= 0, "Fold end out of range")
	acc := initial
	if start < end {
		for o := start; o <= end; o++ {
			acc = op(acc, o, r.buffer[r.index(o)])
		}
		return acc
	}
	for o := start; o >= end; o-- {
		acc = op(acc, o, r.buffer[r.index(o)])
	}
	return acc
}

type argMax struct {
	offset int
	value  float32
	found  bool
}

// ArgMaxAbs returns the offset and absolute value of the largest absolute
// value in start..end. Ties resolve to the value visited first.
func ArgMaxAbs(r *RingBuffer[float32], start, end int) (offset int, value float32) {
	m := Fold(r, start, end, argMax{}, func(acc argMax, o int, v float32) argMax {
		if v < 0 {
			v = -v
		}
		if !acc.found || v > acc.value {
			return argMax{offset: o, value: v, found: true}
		}
		return acc
	})
	return m.offset, m.value
}
