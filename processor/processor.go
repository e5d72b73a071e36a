package processor

import (
	"fmt"

	"github.com/vsariola/levelscope"
	"github.com/vsariola/levelscope/spsc"
)

// Processor runs a ChannelProcessor for both channels of a stereo stream and
// publishes HistoryData snapshots on a queue. Process is meant to be called
// once per audio block on the real-time thread: it does not lock or
// allocate, and a full queue only drops the snapshot.
type Processor struct {
	cfg      Config
	channels [2]*ChannelProcessor
	queue    spsc.Queue[levelscope.HistoryData]
	stats    *Stats

	scratch  []float32
	snapshot levelscope.HistoryData
	last     levelscope.Params
	paused   bool
	enabled  [2]bool

	samplesPerSnapshot int
	sinceSnapshot      int
	sequence           uint64
}

// NewProcessor creates a processor publishing to queue. stats may be nil.
func NewProcessor(cfg Config, queue spsc.Queue[levelscope.HistoryData], stats *Stats) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if queue == nil {
		return nil, fmt.Errorf("%w: nil snapshot queue", ErrConfig)
	}
	if stats == nil {
		stats = new(Stats)
	}
	p := &Processor{
		cfg:                cfg,
		queue:              queue,
		stats:              stats,
		scratch:            make([]float32, cfg.MaxBlock),
		last:               levelscope.DefaultParams(),
		enabled:            [2]bool{true, true},
		samplesPerSnapshot: cfg.SamplesPerSnapshot(),
	}
	for i := range p.channels {
		c, err := NewChannelProcessor(cfg.channel())
		if err != nil {
			return nil, err
		}
		p.channels[i] = c
	}
	return p, nil
}

// Process applies the parameters, processes buf in place and publishes a
// snapshot when one is due. With params.Bypass the audio is left untouched,
// but the history still records the signal after gain.
func (p *Processor) Process(buf levelscope.AudioBuffer, params levelscope.Params) {
	publish := p.apply(params)
	var peak float32
	for start := 0; start < len(buf); start += p.cfg.MaxBlock {
		chunk := buf[start:min(start+p.cfg.MaxBlock, len(buf))]
		for ch, c := range p.channels {
			s := chunk.Channel(ch, p.scratch)
			peak = max(peak, c.Process(s, params.Gain[ch], !p.paused))
			if !params.Bypass {
				chunk.SetChannel(ch, s)
			}
		}
	}
	p.stats.observeBlock(peak)
	p.sinceSnapshot += len(buf)
	if publish || p.sinceSnapshot >= p.samplesPerSnapshot {
		p.publish()
	}
}

// apply reacts to parameter changes since the previous block. Returns true
// if a snapshot should be published right away.
func (p *Processor) apply(params levelscope.Params) (publish bool) {
	if params.Reset {
		for _, c := range p.channels {
			c.ResetMax()
		}
	}
	p.enabled = params.Enabled
	if params.Paused != p.paused {
		p.paused = params.Paused
		for _, c := range p.channels {
			c.SetPaused(p.paused)
		}
		publish = true
	}
	if params.Zoom != p.last.Zoom {
		if p.paused {
			// the first channel decides the scroll position, so that both
			// channels stay aligned
			scroll := p.channels[0].SetZoomAnchored(params.Zoom, params.ZoomAnchor)
			p.channels[1].SetZoom(params.Zoom)
			p.channels[1].SetScroll(scroll)
			publish = true
		} else {
			for _, c := range p.channels {
				c.SetZoom(params.Zoom)
			}
		}
	}
	if params.Scroll != p.last.Scroll && p.paused {
		for _, c := range p.channels {
			c.SetScroll(params.Scroll)
		}
		publish = true
	}
	p.last = params
	return publish
}

func (p *Processor) publish() {
	p.Snapshot(&p.snapshot)
	p.sequence++
	p.snapshot.Sequence = p.sequence
	if p.queue.TryPush(p.snapshot) {
		p.stats.published.Add(1)
	} else {
		p.stats.dropped.Add(1)
	}
	p.sinceSnapshot = 0
}

// Snapshot fills d with the current view without publishing it. The
// sequence number is left as is.
func (p *Processor) Snapshot(d *levelscope.HistoryData) {
	for ch, c := range p.channels {
		c.Render(d.Points[ch][:])
		d.MaxSinceReset[ch] = c.MaxSinceReset()
		p.stats.maxSinceReset[ch].Store(floatBits(d.MaxSinceReset[ch]))
	}
	w := p.channels[0].Window()
	d.Enabled = p.enabled
	d.Paused = p.paused
	d.ZoomRatio = w.ZoomRatio()
	d.Scroll = w.Scroll()
}

// State returns the values a host should persist.
func (p *Processor) State() levelscope.State {
	return levelscope.State{Zoom: p.last.Zoom, Enabled: p.enabled}
}

// SetState restores persisted values. It must not be called concurrently
// with Process; the parameter source should be updated to the same values,
// or the next Process call overrides them.
func (p *Processor) SetState(s levelscope.State) {
	p.enabled = s.Enabled
	p.last.Enabled = s.Enabled
	p.last.Zoom = s.Zoom
	for _, c := range p.channels {
		c.SetZoom(s.Zoom)
	}
}

func (p *Processor) Channel(ch int) *ChannelProcessor { return p.channels[ch] }
func (p *Processor) Stats() *Stats                    { return p.stats }
func (p *Processor) Config() Config                   { return p.cfg }
