package spsc_test

import (
	"math/rand"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/vsariola/levelscope/spsc"
)

var variants = []struct {
	name string
	new  func(capacity int) spsc.Queue[int]
}{
	{"SeqCst", func(c int) spsc.Queue[int] { return spsc.NewSeqCst[int](c) }},
	{"AcqRel", func(c int) spsc.Queue[int] { return spsc.NewAcqRel[int](c) }},
}

func TestQueueFillAndDrain(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			q := v.new(3)
			if q.Cap() != 3 || !q.WasEmpty() || q.WasFull() {
				t.Fatalf("new queue: Cap %d, WasEmpty %v, WasFull %v", q.Cap(), q.WasEmpty(), q.WasFull())
			}
			if _, ok := q.TryPop(); ok {
				t.Fatalf("TryPop on an empty queue succeeded")
			}
			for round := 0; round < 4; round++ {
				for i := 0; i < 3; i++ {
					if !q.TryPush(round*10 + i) {
						t.Fatalf("round %d: TryPush %d failed", round, i)
					}
				}
				if q.TryPush(99) {
					t.Fatalf("round %d: TryPush on a full queue succeeded", round)
				}
				if !q.WasFull() || q.WasEmpty() {
					t.Fatalf("round %d: full queue reports WasFull %v, WasEmpty %v", round, q.WasFull(), q.WasEmpty())
				}
				for i := 0; i < 3; i++ {
					if got, ok := q.TryPop(); !ok || got != round*10+i {
						t.Fatalf("round %d: TryPop = (%d, %v), want (%d, true)", round, got, ok, round*10+i)
					}
				}
				if _, ok := q.TryPop(); ok {
					t.Fatalf("round %d: TryPop on a drained queue succeeded", round)
				}
			}
		})
	}
}

func TestQueueMinimumCapacity(t *testing.T) {
	for _, v := range variants {
		if q := v.new(0); q.Cap() != 1 {
			t.Errorf("%s: capacity 0 gave Cap %d, want 1", v.name, q.Cap())
		}
	}
}

// TestVariantsAgree runs the same random operation sequence on both variants
// and checks that they are observably equivalent.
func TestVariantsAgree(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		capacity := 1 + rnd.Intn(8)
		oracle := spsc.NewSeqCst[int](capacity)
		fast := spsc.NewAcqRel[int](capacity)
		for i := 0; i < 2000; i++ {
			if rnd.Intn(2) == 0 {
				if a, b := oracle.TryPush(i), fast.TryPush(i); a != b {
					t.Fatalf("seed %d op %d: TryPush %v vs %v", seed, i, a, b)
				}
			} else {
				va, oka := oracle.TryPop()
				vb, okb := fast.TryPop()
				if va != vb || oka != okb {
					t.Fatalf("seed %d op %d: TryPop (%d, %v) vs (%d, %v)", seed, i, va, oka, vb, okb)
				}
			}
			if oracle.WasEmpty() != fast.WasEmpty() || oracle.WasFull() != fast.WasFull() {
				t.Fatalf("seed %d op %d: advisory state differs", seed, i)
			}
		}
	}
}

// TestConcurrentOrder pushes from one goroutine and pops from another. The
// popped values must be exactly the successfully pushed values, in order.
func TestConcurrentOrder(t *testing.T) {
	const n = 200000
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			q := v.new(16)
			var pushed, popped []int
			var done atomic.Bool
			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				rnd := rand.New(rand.NewSource(1))
				for i := 0; i < n; i++ {
					if q.TryPush(i) {
						pushed = append(pushed, i)
					}
					if rnd.Intn(64) == 0 {
						runtime.Gosched()
					}
				}
				done.Store(true)
			}()
			go func() {
				defer wg.Done()
				rnd := rand.New(rand.NewSource(2))
				for {
					finished := done.Load()
					if x, ok := q.TryPop(); ok {
						popped = append(popped, x)
						continue
					}
					if finished {
						return
					}
					if rnd.Intn(8) == 0 {
						runtime.Gosched()
					}
				}
			}()
			wg.Wait()
			if !slices.Equal(pushed, popped) {
				t.Fatalf("popped %d values, pushed %d; sequences differ", len(popped), len(pushed))
			}
			if len(popped) == 0 {
				t.Fatalf("nothing was transferred")
			}
		})
	}
}

func TestTryPopLatest(t *testing.T) {
	for _, v := range variants {
		q := v.new(4)
		if _, ok := spsc.TryPopLatest(q); ok {
			t.Fatalf("%s: TryPopLatest on an empty queue succeeded", v.name)
		}
		for i := 1; i <= 3; i++ {
			q.TryPush(i)
		}
		if got, ok := spsc.TryPopLatest(q); !ok || got != 3 || !q.WasEmpty() {
			t.Fatalf("%s: TryPopLatest = (%d, %v), want (3, true) and an empty queue", v.name, got, ok)
		}
	}
}

func TestNewSelectsVariant(t *testing.T) {
	if _, ok := spsc.New[int](spsc.VariantSeqCst, 2).(*spsc.SeqCstQueue[int]); !ok {
		t.Errorf("New(seqcst) did not return a SeqCstQueue")
	}
	if _, ok := spsc.New[int](spsc.VariantAcqRel, 2).(*spsc.AcqRelQueue[int]); !ok {
		t.Errorf("New(acqrel) did not return an AcqRelQueue")
	}
}

func BenchmarkQueue(b *testing.B) {
	for _, v := range variants {
		b.Run(v.name, func(b *testing.B) {
			q := v.new(1024)
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				q.TryPush(i)
				q.TryPop()
			}
		})
	}
}
