// Package gomidi drives the level history parameters from MIDI control
// change messages.
package gomidi

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/vsariola/levelscope/config"
	"github.com/vsariola/levelscope/processor"
)

// Mapper writes control changes into a ParamStore. The zoom and scroll
// controls map 0..127 onto 0..1; the pause control pauses on values of 64
// and up, like a sustain pedal.
type Mapper struct {
	cfg    config.MIDIConfig
	params *processor.ParamStore
}

func NewMapper(cfg config.MIDIConfig, params *processor.ParamStore) *Mapper {
	return &Mapper{cfg: cfg, params: params}
}

// Handle applies msg and reports whether it changed a parameter.
func (m *Mapper) Handle(msg midi.Message) bool {
	var ch, cc, val uint8
	if !msg.GetControlChange(&ch, &cc, &val) {
		return false
	}
	if m.cfg.Channel >= 0 && int(ch) != m.cfg.Channel {
		return false
	}
	switch int(cc) {
	case m.cfg.ZoomCC:
		m.params.SetZoom(float64(val) / 127)
	case m.cfg.ScrollCC:
		m.params.SetScroll(float64(val) / 127)
	case m.cfg.PauseCC:
		m.params.SetPaused(val >= 64)
	default:
		return false
	}
	return true
}

// HandleMessage has the signature of a midi.ListenTo callback.
func (m *Mapper) HandleMessage(msg midi.Message, timestampms int32) {
	m.Handle(msg)
}
