package history

import (
	"fmt"
	"math"
)

// AnchorProbes is the number of neighbouring points probed around the binary
// search landing point when an anchored zoom finds no exact offset match.
const AnchorProbes = 5

// offsetTolerance decides whether a probed offset matches the anchor exactly.
const offsetTolerance = 1e-5

type (
	// ZoomWindow is a scrollable and zoomable view of VisibleSize() decimated
	// points over a ring buffer of Capacity() raw values. The window offset
	// is the index of the rightmost visible point: -1 shows the most recent
	// point, smaller values scroll back in history. Column c of the window
	// shows point WindowOffset()-(VisibleSize()-1)+c.
	ZoomWindow struct {
		visible, capacity int
		windowOffset      int
		minWindowOffset   int
		percent           float64
		zoom              Zoom
		table             [ZoomPrecision]ZoomPoint
	}

	// ZoomPoint describes where, within one zoom cycle, the raw samples of a
	// point end: (r+1)·Scaled()/ZoomPrecision split into an integer part and
	// the fraction in percent.
	ZoomPoint struct {
		BufferOffsetDelta  int
		FirstSamplePercent int
	}

	// Point is the summary of the absolute values of one decimated point.
	Point struct {
		Avg, Min, Max float32
	}
)

func NewZoomWindow(visible, capacity int) (*ZoomWindow, error) {
	if visible < 1 || capacity < visible {
		return nil, fmt.Errorf("%w (visible %d, capacity %d)", ErrWindowSize, visible, capacity)
	}
	w := &ZoomWindow{visible: visible, capacity: capacity, windowOffset: -1}
	w.setRatio(1)
	return w, nil
}

func (w *ZoomWindow) VisibleSize() int { return w.visible }
func (w *ZoomWindow) Capacity() int    { return w.capacity }

// MaxRatio is the largest zoom ratio at which VisibleSize() points still fit
// in the capacity.
func (w *ZoomWindow) MaxRatio() float64 { return float64(w.capacity) / float64(w.visible) }

// ZoomPercent returns the last value passed to SetZoomRatio.
func (w *ZoomWindow) ZoomPercent() float64 { return w.percent }

// ZoomRatio returns the quantized zoom ratio in use.
func (w *ZoomWindow) ZoomRatio() float64 { return w.zoom.EffectiveRatio() }

// Zoom returns a copy of the accumulator describing the current schedule.
func (w *ZoomWindow) Zoom() Zoom { return w.zoom }

func (w *ZoomWindow) WindowOffset() int    { return w.windowOffset }
func (w *ZoomWindow) MinWindowOffset() int { return w.minWindowOffset }

// Table returns the zoom point table of the current ratio.
func (w *ZoomWindow) Table() [ZoomPrecision]ZoomPoint { return w.table }

// SetZoomRatio maps percent in [0,1] linearly to a ratio in [1, MaxRatio()]
// and clamps the window offset into the new valid range. Values outside
// [0,1] are clamped.
func (w *ZoomWindow) SetZoomRatio(percent float64) {
	w.percent = clamp01(percent)
	w.setRatio(1 + w.percent*(w.MaxRatio()-1))
}

func (w *ZoomWindow) setRatio(ratio float64) {
	if err := w.zoom.SetRatio(ratio); err != nil {
		assert(false, "window ratio below 1")
		return
	}
	s := w.zoom.scaled
	for r := range w.table {
		n := (r + 1) * s
		w.table[r] = ZoomPoint{
			BufferOffsetDelta:  n / ZoomPrecision,
			FirstSamplePercent: n % ZoomPrecision * 100 / ZoomPrecision,
		}
	}
	// the oldest point must have all of its samples inside the capacity
	w.minWindowOffset = min(-1, w.visible-1-w.capacity*ZoomPrecision/s)
	w.windowOffset = min(max(w.windowOffset, w.minWindowOffset), -1)
}

// SetZoomRatioAnchored changes the zoom like SetZoomRatio, but keeps what is
// shown under column at the same column. The anchor is the offset of the
// largest sample of the point under the column. After the ratio change, a
// binary search finds the first point whose largest sample is not newer than
// the anchor. If that is not an exact match, AnchorProbes neighbours are
// probed and the one closest in value wins, with ties going to the one
// closest in offset. Returns the new scroll position, see Scroll.
func (w *ZoomWindow) SetZoomRatioAnchored(percent float64, column int, rb *RingBuffer[float32]) float64 {
	column = min(max(column, 0), w.visible-1)
	target, value := w.PointAnchor(rb, w.columnPoint(column))
	w.SetZoomRatio(percent)
	p, _ := w.FindAnchor(rb, target, value)
	w.windowOffset = min(max(p+w.visible-1-column, w.minWindowOffset), -1)
	return w.Scroll()
}

// FindAnchor searches the points reachable at the current zoom for the one
// best matching a raw offset and a value. exact is true if the largest sample
// of the returned point is at offset.
func (w *ZoomWindow) FindAnchor(rb *RingBuffer[float32], offset int, value float32) (point int, exact bool) {
	qmax := w.visible - 1 - w.minWindowOffset - 1
	// anchor offsets decrease strictly as q grows
	lo, hi := 0, qmax
	for lo < hi {
		mid := (lo + hi) / 2
		if o, _ := w.PointAnchor(rb, -mid-1); o <= offset {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	if o, _ := w.PointAnchor(rb, -lo-1); math.Abs(float64(o-offset)) < offsetTolerance {
		return -lo - 1, true
	}
	best := lo
	bestValue, bestOffset := math.Inf(1), math.Inf(1)
	for q := max(lo-AnchorProbes/2, 0); q <= min(lo+AnchorProbes/2, qmax); q++ {
		o, v := w.PointAnchor(rb, -q-1)
		dv := math.Abs(float64(v - value))
		do := math.Abs(float64(o - offset))
		if dv < bestValue || (dv == bestValue && do < bestOffset) {
			best, bestValue, bestOffset = q, dv, do
		}
	}
	return -best - 1, false
}

// SetWindowOffset scrolls the window: percent 0 shows the oldest reachable
// points and 1 the most recent ones.
func (w *ZoomWindow) SetWindowOffset(percent float64) {
	percent = clamp01(percent)
	span := float64(-1 - w.minWindowOffset)
	w.windowOffset = min(max(w.minWindowOffset+int(math.Round(percent*span)), w.minWindowOffset), -1)
}

// Scroll is the inverse of SetWindowOffset.
func (w *ZoomWindow) Scroll() float64 {
	if w.minWindowOffset == -1 {
		return 1
	}
	return float64(w.windowOffset-w.minWindowOffset) / float64(-1-w.minWindowOffset)
}

// PointRange returns the raw offsets of the oldest and newest sample of the
// point with the given negative index.
func (w *ZoomWindow) PointRange(point int) (oldest, newest int) {
	z, oldest := w.zoom.ResumeAt(point)
	return oldest, oldest + z.schedule[z.slot] - 1
}

// PointValue returns the decimated value of a point, the largest absolute
// value of its raw samples.
func (w *ZoomWindow) PointValue(rb *RingBuffer[float32], point int) float32 {
	_, v := w.PointAnchor(rb, point)
	return v
}

// PointAnchor returns the offset and the absolute value of the largest raw
// sample of a point.
func (w *ZoomWindow) PointAnchor(rb *RingBuffer[float32], point int) (offset int, value float32) {
	oldest, newest := w.PointRange(point)
	assert(oldest >= -w.capacity, "point reaches past the capacity")
	return ArgMaxAbs(rb, oldest, newest)
}

// columnPoint returns the point index shown at a column.
func (w *ZoomWindow) columnPoint(column int) int {
	return w.windowOffset - (w.visible - 1) + column
}

// RenderVisible writes the decimated value of each visible point, oldest
// first, into out. At no zoom this is a plain copy from the ring buffer.
// Returns the number of points written.
func (w *ZoomWindow) RenderVisible(rb *RingBuffer[float32], out []float32) int {
	n := min(len(out), w.visible)
	first := w.columnPoint(0)
	if w.zoom.NoZoom() {
		return rb.CopyRange(first, n, out)
	}
	z, off := w.zoom.ResumeAt(first)
	assert(off >= -w.capacity, "render reaches past the capacity")
	for col := 0; col < n; off++ {
		assert(off <= -1, "render reaches past the head")
		if v, ok := z.Accumulate(rb.Get(off)); ok {
			out[col] = v
			col++
		}
	}
	return n
}

// RenderVisibleFunc calls f for each visible column, oldest first, with the
// average, minimum and maximum absolute value of the raw samples of the
// point shown in the column.
func (w *ZoomWindow) RenderVisibleFunc(rb *RingBuffer[float32], f func(column int, p Point)) {
	z, off := w.zoom.ResumeAt(w.columnPoint(0))
	slot := z.slot
	for col := 0; col < w.visible; col++ {
		batch := w.zoom.schedule[slot]
		p := Point{Min: math.MaxFloat32}
		var sum float32
		for i := 0; i < batch; i++ {
			v := rb.Get(off)
			off++
			if v < 0 {
				v = -v
			}
			sum += v
			p.Min = min(p.Min, v)
			p.Max = max(p.Max, v)
		}
		p.Avg = sum / float32(batch)
		f(col, p)
		if slot++; slot == ZoomPrecision {
			slot = 0
		}
	}
}

func clamp01(f float64) float64 {
	if !(f > 0) { // also catches NaN
		return 0
	}
	return min(f, 1)
}
