package processor

import (
	"math"
	"sync/atomic"

	"github.com/vsariola/levelscope"
)

// ParamStore hands parameters from a UI, MIDI or host thread to the audio
// thread without locks. Each value is stored separately, so a Load may see a
// mix of old and new values, but never a torn value. Reset is edge
// triggered: it is reported by exactly one Load after TriggerReset.
type ParamStore struct {
	gain    [2]atomic.Uint32
	zoom    atomic.Uint64
	scroll  atomic.Uint64
	anchor  atomic.Int64
	bypass  atomic.Bool
	paused  atomic.Bool
	enabled [2]atomic.Bool
	reset   atomic.Bool
}

func NewParamStore() *ParamStore {
	s := &ParamStore{}
	s.Store(levelscope.DefaultParams())
	return s
}

// Store sets all values from p. p.Reset triggers a reset.
func (s *ParamStore) Store(p levelscope.Params) {
	for i := range p.Gain {
		s.SetGain(i, p.Gain[i])
		s.SetEnabled(i, p.Enabled[i])
	}
	s.SetZoom(p.Zoom)
	s.SetScroll(p.Scroll)
	s.SetZoomAnchor(p.ZoomAnchor)
	s.SetBypass(p.Bypass)
	s.SetPaused(p.Paused)
	if p.Reset {
		s.TriggerReset()
	}
}

// Load returns the current values and consumes a pending reset. Only the
// audio thread should call Load; other readers use Values.
func (s *ParamStore) Load() levelscope.Params {
	p := s.Values()
	p.Reset = s.reset.Swap(false)
	return p
}

// Values returns the current values without consuming a pending reset.
func (s *ParamStore) Values() levelscope.Params {
	var p levelscope.Params
	for i := range p.Gain {
		p.Gain[i] = math.Float32frombits(s.gain[i].Load())
		p.Enabled[i] = s.enabled[i].Load()
	}
	p.Zoom = math.Float64frombits(s.zoom.Load())
	p.Scroll = math.Float64frombits(s.scroll.Load())
	p.ZoomAnchor = int(s.anchor.Load())
	p.Bypass = s.bypass.Load()
	p.Paused = s.paused.Load()
	return p
}

func (s *ParamStore) SetGain(ch int, g float32) { s.gain[ch].Store(math.Float32bits(g)) }
func (s *ParamStore) SetZoom(z float64)         { s.zoom.Store(math.Float64bits(clampUnit(z))) }
func (s *ParamStore) SetScroll(p float64)       { s.scroll.Store(math.Float64bits(clampUnit(p))) }
func (s *ParamStore) SetBypass(b bool)          { s.bypass.Store(b) }
func (s *ParamStore) SetPaused(b bool)          { s.paused.Store(b) }
func (s *ParamStore) SetEnabled(ch int, b bool) { s.enabled[ch].Store(b) }
func (s *ParamStore) TriggerReset()             { s.reset.Store(true) }

// SetZoomAnchor sets the column kept in place when zooming a paused view.
func (s *ParamStore) SetZoomAnchor(column int) {
	s.anchor.Store(int64(min(max(column, 0), levelscope.HistorySize-1)))
}

// TogglePaused flips the paused flag and returns the new value.
func (s *ParamStore) TogglePaused() bool {
	for {
		old := s.paused.Load()
		if s.paused.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// State returns the values a host should persist.
func (s *ParamStore) State() levelscope.State {
	v := s.Values()
	return levelscope.State{Zoom: v.Zoom, Enabled: v.Enabled}
}

// SetState applies persisted values.
func (s *ParamStore) SetState(st levelscope.State) {
	s.SetZoom(st.Zoom)
	s.SetEnabled(0, st.Enabled[0])
	s.SetEnabled(1, st.Enabled[1])
}

func clampUnit(f float64) float64 {
	if !(f > 0) {
		return 0
	}
	return min(f, 1)
}
