package history_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/vsariola/levelscope/history"
)

func newRing[T any](t *testing.T, capacity int) *history.RingBuffer[T] {
	t.Helper()
	r, err := history.NewRingBuffer[T](capacity)
	if err != nil {
		t.Fatalf("NewRingBuffer(%d) failed: %v", capacity, err)
	}
	return r
}

func TestRingBufferCapacityFive(t *testing.T) {
	r := newRing[int](t, 5)
	for i := 1; i <= 7; i++ {
		r.Push(i)
	}
	if got := r.Get(0); got != 3 {
		t.Errorf("Get(0) = %d, want 3", got)
	}
	out := make([]int, 3)
	if n := r.CopyRange(0, 3, out); n != 3 || !slices.Equal(out, []int{3, 4, 5}) {
		t.Errorf("CopyRange(0, 3) = %v (n=%d), want [3 4 5]", out, n)
	}
	if n := r.CopyRange(-1, 3, out); n != 3 || !slices.Equal(out, []int{7, 3, 4}) {
		t.Errorf("CopyRange(-1, 3) = %v (n=%d), want [7 3 4]", out, n)
	}
	if r.Len() != 5 || r.Cap() != 5 {
		t.Errorf("Len/Cap = %d/%d, want 5/5", r.Len(), r.Cap())
	}
}

func TestRingBufferRoundTrip(t *testing.T) {
	for _, capacity := range []int{1, 2, 7, 64} {
		for prior := 0; prior <= 2*capacity+1; prior++ {
			r := newRing[int](t, capacity)
			for i := 0; i < prior; i++ {
				r.Push(-i - 1)
			}
			for i := 0; i < capacity; i++ {
				r.Push(1000 + i)
			}
			for i := 0; i < capacity; i++ {
				if got, want := r.Get(-1-i), 1000+capacity-1-i; got != want {
					t.Fatalf("capacity %d, prior %d: Get(%d) = %d, want %d", capacity, prior, -1-i, got, want)
				}
			}
		}
	}
}

func TestRingBufferCopyRangeWraps(t *testing.T) {
	r := newRing[float32](t, 4)
	for i := 1; i <= 6; i++ {
		r.Push(float32(i))
	}
	out := make([]float32, 4)
	if n := r.CopyRange(-4, 4, out); n != 4 || !slices.Equal(out, []float32{3, 4, 5, 6}) {
		t.Fatalf("CopyRange(-4, 4) = %v (n=%d), want [3 4 5 6]", out, n)
	}
	short := make([]float32, 2)
	if n := r.CopyRange(-2, 4, short); n != 2 || !slices.Equal(short, []float32{5, 6}) {
		t.Fatalf("CopyRange into short slice = %v (n=%d), want [5 6]", short, n)
	}
}

func TestRingBufferInvalidCapacity(t *testing.T) {
	for _, c := range []int{0, -3} {
		if _, err := history.NewRingBuffer[float32](c); !errors.Is(err, history.ErrCapacity) {
			t.Errorf("NewRingBuffer(%d) error = %v, want ErrCapacity", c, err)
		}
	}
}

func TestRingBufferReset(t *testing.T) {
	r := newRing[int](t, 3)
	r.Push(1)
	r.Push(2)
	r.Reset()
	if r.Len() != 0 {
		t.Fatalf("Len after Reset = %d, want 0", r.Len())
	}
	for o := -3; o <= -1; o++ {
		if v := r.Get(o); v != 0 {
			t.Fatalf("Get(%d) after Reset = %d, want 0", o, v)
		}
	}
}

func TestFoldDirection(t *testing.T) {
	r := newRing[int](t, 6)
	for i := 0; i < 9; i++ {
		r.Push(i)
	}
	collect := func(acc []int, _ int, v int) []int { return append(acc, v) }
	if got := history.Fold(r, -4, -1, []int(nil), collect); !slices.Equal(got, []int{5, 6, 7, 8}) {
		t.Errorf("ascending fold = %v, want [5 6 7 8]", got)
	}
	if got := history.Fold(r, -1, -4, []int(nil), collect); !slices.Equal(got, []int{8, 7, 6, 5}) {
		t.Errorf("descending fold = %v, want [8 7 6 5]", got)
	}
	offsets := history.Fold(r, -6, -5, []int(nil), func(acc []int, o int, _ int) []int { return append(acc, o) })
	if !slices.Equal(offsets, []int{-6, -5}) {
		t.Errorf("fold offsets = %v, want [-6 -5]", offsets)
	}
}

func TestArgMaxAbs(t *testing.T) {
	r := newRing[float32](t, 8)
	for _, v := range []float32{0.1, -0.9, 0.3, 0.9, -0.2} {
		r.Push(v)
	}
	// -0.9 at offset -4 and 0.9 at offset -2 tie, the first visited wins
	if o, v := history.ArgMaxAbs(r, -5, -1); o != -4 || v != 0.9 {
		t.Errorf("ascending ArgMaxAbs = (%d, %v), want (-4, 0.9)", o, v)
	}
	if o, v := history.ArgMaxAbs(r, -1, -5); o != -2 || v != 0.9 {
		t.Errorf("descending ArgMaxAbs = (%d, %v), want (-2, 0.9)", o, v)
	}
}

func TestRingBufferOffsetsWrapInRelease(t *testing.T) {
	if history.Debug {
		t.Skip("out of range offsets panic in debug builds")
	}
	r := newRing[int](t, 4)
	for i := 1; i <= 4; i++ {
		r.Push(i)
	}
	if r.Get(3) != r.Get(-1) || r.Get(-5) != r.Get(-1) {
		t.Fatalf("offsets should be normalized modulo the capacity")
	}
}
