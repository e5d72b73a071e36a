package history

import (
	"fmt"
	"math"
)

// ZoomPrecision is the number of schedule slots in one zoom cycle. Zoom
// ratios are resolved to 1/ZoomPrecision.
const ZoomPrecision = 10

// ratioEpsilon absorbs binary rounding when scaling a ratio, so that e.g.
// 2.3 scales to 23 and not 22.
const ratioEpsilon = 1e-9

// MaxZoomRatio is the largest ratio a Zoom accepts.
const MaxZoomRatio = math.MaxInt32 / ZoomPrecision

// Zoom is a max-decimation accumulator with a fractional ratio. One cycle of
// ZoomPrecision emitted values consumes exactly Scaled() input samples; the
// cycle is spread over the slots as evenly as possible, so that e.g. a ratio
// of 1.3 consumes batches of 1,1,1,2,1,1,2,1,1,2 samples. Each emitted value is
// the maximum absolute value of its batch.
//
// The zero value is not usable; create one with NewZoom. Zoom is a plain value
// and copying it forks the accumulator state.
type Zoom struct {
	ratio      float64
	scaled     int
	schedule   [ZoomPrecision]int
	cumulative [ZoomPrecision]int
	runningMax float32
	count      int
	slot       int
}

func NewZoom(ratio float64) (Zoom, error) {
	var z Zoom
	if err := z.SetRatio(ratio); err != nil {
		return Zoom{}, err
	}
	return z, nil
}

// SetRatio recomputes the batch schedule for ratio and resets the running
// state to the start of a cycle. Ratios outside [1, MaxZoomRatio] and NaN
// are rejected with ErrRatio and leave the accumulator unchanged.
func (z *Zoom) SetRatio(ratio float64) error {
	if !(ratio >= 1 && ratio <= MaxZoomRatio) {
		return fmt.Errorf("%w (got %v)", ErrRatio, ratio)
	}
	scaled := int(math.Floor(ratio*ZoomPrecision + ratioEpsilon))
	z.ratio = ratio
	z.scaled = scaled
	// accumulating remainder, like stepping a line in a rasterizer
	acc, sum := 0, 0
	for i := range z.schedule {
		z.cumulative[i] = sum
		acc += scaled
		batch := acc / ZoomPrecision
		acc %= ZoomPrecision
		z.schedule[i] = batch
		sum += batch
	}
	assert(sum == scaled, "schedule does not sum to the scaled ratio")
	z.Reset()
	return nil
}

// Reset discards the partially accumulated batch and rewinds to slot 0.
func (z *Zoom) Reset() {
	z.runningMax = 0
	z.count = 0
	z.slot = 0
}

// Accumulate folds the absolute value of sample into the current batch.
// When the batch completes, its maximum is returned with ok = true. With no
// zoom every sample is passed through.
func (z *Zoom) Accumulate(sample float32) (out float32, ok bool) {
	if sample < 0 {
		sample = -sample
	}
	if z.scaled == ZoomPrecision {
		return sample, true
	}
	if sample > z.runningMax {
		z.runningMax = sample
	}
	z.count++
	if z.count < z.schedule[z.slot] {
		return 0, false
	}
	out = z.runningMax
	z.runningMax = 0
	z.count = 0
	z.slot++
	if z.slot == ZoomPrecision {
		z.slot = 0
	}
	return out, true
}

// ResumeAt returns a copy of the accumulator positioned at the start of the
// decimated point with the given negative index (-1 is the most recent
// point), together with the raw sample offset of the oldest sample of that
// point. Feeding the copy the raw samples from that offset onwards emits the
// point, then the next newer point, and so on.
//
// Point q = -point-1 spans raw offsets -ceil((q+1)·R) .. -ceil(q·R)-1 where
// R = Scaled()/ZoomPrecision, so that the most recent point ends at offset -1.
func (z *Zoom) ResumeAt(point int) (Zoom, int) {
	assert(point <= -1, "ResumeAt point must be negative")
	q := -point - 1
	if q < 0 {
		q = 0
	}
	cycles, r := q/ZoomPrecision, q%ZoomPrecision
	slot := ZoomPrecision - 1 - r
	ret := *z
	ret.runningMax = 0
	ret.count = 0
	ret.slot = slot
	return ret, -(cycles*z.scaled + z.scaled - z.cumulative[slot])
}

// Ratio returns the ratio the accumulator was configured with.
func (z Zoom) Ratio() float64 { return z.ratio }

// EffectiveRatio returns the ratio after quantization to ZoomPrecision.
func (z Zoom) EffectiveRatio() float64 { return float64(z.scaled) / ZoomPrecision }

// Scaled returns floor(ratio·ZoomPrecision), which is also the number of raw
// samples consumed per cycle.
func (z Zoom) Scaled() int { return z.scaled }

// SamplesPerCycle is an alias of Scaled, named after its use in index math.
func (z Zoom) SamplesPerCycle() int { return z.scaled }

func (z Zoom) Schedule() [ZoomPrecision]int   { return z.schedule }
func (z Zoom) Cumulative() [ZoomPrecision]int { return z.cumulative }
func (z Zoom) Batch(slot int) int             { return z.schedule[slot%ZoomPrecision] }
func (z Zoom) Slot() int                      { return z.slot }

// NoZoom reports whether the quantized ratio is exactly 1.0.
func (z Zoom) NoZoom() bool { return z.scaled == ZoomPrecision }
