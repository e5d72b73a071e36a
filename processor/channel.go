package processor

import (
	"github.com/viterin/vek/vek32"
	"github.com/vsariola/levelscope/history"
)

// ChannelProcessor keeps the level history of one audio channel. Samples
// go through two decimation stages: a fixed integer batch of about
// BatchMillis into the full resolution ring, then the live zoom into a ring
// of exactly one view. All methods must be called from the audio thread.
type ChannelProcessor struct {
	batch  history.Zoom
	live   history.Zoom
	full   *history.RingBuffer[float32]
	zoomed *history.RingBuffer[float32]
	window *history.ZoomWindow

	scratch       []float32
	maxBlock      int
	maxSinceReset float32
	paused        bool
}

func NewChannelProcessor(cfg ChannelConfig) (*ChannelProcessor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	batch, err := history.NewZoom(float64(batchSize(cfg.SampleRate, cfg.BatchMillis)))
	if err != nil {
		return nil, err
	}
	live, err := history.NewZoom(1)
	if err != nil {
		return nil, err
	}
	full, err := history.NewRingBuffer[float32](cfg.Capacity)
	if err != nil {
		return nil, err
	}
	zoomed, err := history.NewRingBuffer[float32](cfg.Visible)
	if err != nil {
		return nil, err
	}
	window, err := history.NewZoomWindow(cfg.Visible, cfg.Capacity)
	if err != nil {
		return nil, err
	}
	return &ChannelProcessor{
		batch:    batch,
		live:     live,
		full:     full,
		zoomed:   zoomed,
		window:   window,
		scratch:  make([]float32, max(cfg.MaxBlock, cfg.Visible)),
		maxBlock: cfg.MaxBlock,
	}, nil
}

// Process applies gain to block in place and, if record is true, feeds the
// absolute values into the history. Returns the largest absolute value of
// the block after gain.
func (c *ChannelProcessor) Process(block []float32, gain float32, record bool) (peak float32) {
	for len(block) > 0 {
		n := min(len(block), c.maxBlock)
		chunk := block[:n]
		block = block[n:]
		if gain != 1 {
			vek32.MulNumber_Inplace(chunk, gain)
		}
		abs := c.scratch[:n]
		copy(abs, chunk)
		vek32.Abs_Inplace(abs)
		peak = max(peak, vek32.Max(abs))
		if !record {
			continue
		}
		for _, v := range abs {
			c.push(v)
		}
	}
	return peak
}

func (c *ChannelProcessor) push(v float32) {
	b, ok := c.batch.Accumulate(v)
	if !ok {
		return
	}
	c.full.Push(b)
	c.maxSinceReset = max(c.maxSinceReset, b)
	if z, ok := c.live.Accumulate(b); ok {
		c.zoomed.Push(z)
	}
}

// SetPaused switches between the live view, which follows the most recent
// points, and the paused view, which renders the frozen full resolution
// history at the current zoom and scroll position. Pausing always starts at
// the most recent point.
func (c *ChannelProcessor) SetPaused(paused bool) {
	if paused == c.paused {
		return
	}
	c.paused = paused
	c.window.SetWindowOffset(1)
	if !paused && c.live.EffectiveRatio() != c.window.ZoomRatio() {
		c.rebuildLive()
	}
}

func (c *ChannelProcessor) Paused() bool { return c.paused }

// SetZoom sets the zoom percent without anchoring. In the live view the zoom
// ring is rebuilt from the full resolution history, so the view changes
// immediately.
func (c *ChannelProcessor) SetZoom(percent float64) {
	c.window.SetZoomRatio(percent)
	if !c.paused {
		c.window.SetWindowOffset(1)
		c.rebuildLive()
	}
}

// SetZoomAnchored zooms the paused view keeping the point under column in
// place and returns the new scroll position. In the live view it behaves as
// SetZoom and returns 1.
func (c *ChannelProcessor) SetZoomAnchored(percent float64, column int) float64 {
	if !c.paused {
		c.SetZoom(percent)
		return 1
	}
	return c.window.SetZoomRatioAnchored(percent, column, c.full)
}

// SetScroll moves the paused view. It has no effect in the live view.
func (c *ChannelProcessor) SetScroll(percent float64) {
	if c.paused {
		c.window.SetWindowOffset(percent)
	}
}

func (c *ChannelProcessor) rebuildLive() {
	v := c.window.VisibleSize()
	n := c.window.RenderVisible(c.full, c.scratch[:v])
	c.zoomed.Reset()
	for _, p := range c.scratch[:n] {
		c.zoomed.Push(p)
	}
	_ = c.live.SetRatio(c.window.ZoomRatio()) // window ratios are always >= 1
}

// Render writes the current view, oldest point first, into out.
func (c *ChannelProcessor) Render(out []float32) int {
	if c.paused {
		return c.window.RenderVisible(c.full, out)
	}
	v := c.window.VisibleSize()
	return c.zoomed.CopyRange(-v, v, out)
}

func (c *ChannelProcessor) ResetMax()                            { c.maxSinceReset = 0 }
func (c *ChannelProcessor) MaxSinceReset() float32               { return c.maxSinceReset }
func (c *ChannelProcessor) Window() *history.ZoomWindow          { return c.window }
func (c *ChannelProcessor) Full() *history.RingBuffer[float32]   { return c.full }
func (c *ChannelProcessor) Zoomed() *history.RingBuffer[float32] { return c.zoomed }
