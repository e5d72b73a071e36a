package processor_test

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/vsariola/levelscope/history"
	"github.com/vsariola/levelscope/processor"
)

func testChannelConfig() processor.ChannelConfig {
	return processor.ChannelConfig{SampleRate: 1000, BatchMillis: 2, Capacity: 2048, Visible: 512, MaxBlock: 3}
}

func newChannel(t *testing.T, cfg processor.ChannelConfig) *processor.ChannelProcessor {
	t.Helper()
	c, err := processor.NewChannelProcessor(cfg)
	if err != nil {
		t.Fatalf("NewChannelProcessor failed: %v", err)
	}
	return c
}

func fillRandom(c *processor.ChannelProcessor, n int, seed int64) {
	rnd := rand.New(rand.NewSource(seed))
	block := make([]float32, 50)
	for i := 0; i < n; i += len(block) {
		for j := range block {
			block[j] = rnd.Float32()*2 - 1
		}
		c.Process(block, 1, true)
	}
}

func TestChannelProcessorBatches(t *testing.T) {
	c := newChannel(t, testChannelConfig())
	block := []float32{0.1, -0.4, 0.3, 0.2, -0.9, 0.5, 0.7}
	if peak := c.Process(block, 1, true); peak != 0.9 {
		t.Fatalf("peak = %v, want 0.9", peak)
	}
	want := []float32{0.4, 0.3, 0.9}
	got := make([]float32, 3)
	c.Full().CopyRange(-3, 3, got)
	if !slices.Equal(got, want) {
		t.Fatalf("full resolution history = %v, want %v", got, want)
	}
	c.Zoomed().CopyRange(-3, 3, got)
	if !slices.Equal(got, want) {
		t.Fatalf("zoomed history without zoom = %v, want %v", got, want)
	}
	if c.MaxSinceReset() != 0.9 {
		t.Fatalf("MaxSinceReset = %v, want 0.9", c.MaxSinceReset())
	}
	c.ResetMax()
	if c.MaxSinceReset() != 0 {
		t.Fatalf("MaxSinceReset after reset = %v, want 0", c.MaxSinceReset())
	}
}

func TestChannelProcessorAppliesGainInPlace(t *testing.T) {
	c := newChannel(t, testChannelConfig())
	block := []float32{0.5, -0.25, 0.125, 0, 0.25}
	if peak := c.Process(block, 2, false); peak != 1 {
		t.Fatalf("peak = %v, want 1", peak)
	}
	if !slices.Equal(block, []float32{1, -0.5, 0.25, 0, 0.5}) {
		t.Fatalf("block after gain = %v", block)
	}
	if c.Full().Len() != 0 {
		t.Fatalf("history recorded %d points while not recording", c.Full().Len())
	}
}

func TestChannelProcessorLiveZoomRebuildsView(t *testing.T) {
	cfg := testChannelConfig()
	c := newChannel(t, cfg)
	fillRandom(c, 6000, 1)
	c.SetZoom(0.5)
	want := make([]float32, cfg.Visible)
	w, _ := history.NewZoomWindow(cfg.Visible, cfg.Capacity)
	w.SetZoomRatio(0.5)
	w.RenderVisible(c.Full(), want)
	got := make([]float32, cfg.Visible)
	c.Render(got)
	if !slices.Equal(got, want) {
		t.Fatalf("live view after zoom differs from a fresh window render")
	}
	if c.Window().WindowOffset() != -1 {
		t.Fatalf("live window offset = %d, want -1", c.Window().WindowOffset())
	}
}

func TestChannelProcessorPausedViewIsFrozen(t *testing.T) {
	cfg := testChannelConfig()
	c := newChannel(t, cfg)
	fillRandom(c, 6000, 2)
	c.SetPaused(true)
	if c.Window().WindowOffset() != -1 {
		t.Fatalf("pausing did not start at the most recent point")
	}
	c.SetZoom(0.2)
	c.SetScroll(0)
	before := make([]float32, cfg.Visible)
	c.Render(before)
	c.Process(make([]float32, 100), 1, false)
	after := make([]float32, cfg.Visible)
	c.Render(after)
	if !slices.Equal(before, after) {
		t.Fatalf("paused view changed while not recording")
	}
	want := make([]float32, cfg.Visible)
	c.Window().RenderVisible(c.Full(), want)
	if !slices.Equal(after, want) {
		t.Fatalf("paused view is not the window render of the full history")
	}
	c.SetPaused(false)
	if c.Window().WindowOffset() != -1 {
		t.Fatalf("resuming did not return to the most recent point")
	}
	live := make([]float32, cfg.Visible)
	c.Render(live)
	c.Window().RenderVisible(c.Full(), want)
	if !slices.Equal(live, want) {
		t.Fatalf("zoom changed while paused was not applied to the live view on resume")
	}
}

func TestChannelProcessorMaxIncludesPartialZoomBatch(t *testing.T) {
	c := newChannel(t, testChannelConfig())
	c.SetZoom(1) // four full resolution points per live point
	c.Process([]float32{0, -0.7}, 1, true)
	if got := c.Zoomed().Get(-1); got != 0 {
		t.Fatalf("live zoom emitted %v after a single batch", got)
	}
	if c.MaxSinceReset() != 0.7 {
		t.Fatalf("MaxSinceReset = %v, want 0.7", c.MaxSinceReset())
	}
	c.Process([]float32{0.2, 0.1}, 1, true)
	c.SetZoom(0)
	if c.MaxSinceReset() != 0.7 {
		t.Fatalf("MaxSinceReset after rebuilding the live view = %v, want 0.7", c.MaxSinceReset())
	}
}

func TestChannelProcessorRejectsBadConfig(t *testing.T) {
	bad := []processor.ChannelConfig{
		{SampleRate: 0, BatchMillis: 1, Capacity: 10, Visible: 5, MaxBlock: 1},
		{SampleRate: 1000, BatchMillis: 0, Capacity: 10, Visible: 5, MaxBlock: 1},
		{SampleRate: 1000, BatchMillis: 1, Capacity: 4, Visible: 5, MaxBlock: 1},
		{SampleRate: 1000, BatchMillis: 1, Capacity: 10, Visible: 0, MaxBlock: 1},
		{SampleRate: 1000, BatchMillis: 1, Capacity: 10, Visible: 5, MaxBlock: 0},
		{SampleRate: 48000, BatchMillis: 1e12, Capacity: 10, Visible: 5, MaxBlock: 1},
	}
	for _, cfg := range bad {
		if _, err := processor.NewChannelProcessor(cfg); !errors.Is(err, processor.ErrConfig) {
			t.Errorf("NewChannelProcessor(%+v) error = %v, want ErrConfig", cfg, err)
		}
	}
}
