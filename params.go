package levelscope

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type (
	// Params are the values the processor reads once per audio block. Zoom
	// and Scroll are in [0,1]; ZoomAnchor is the column kept in place when
	// zooming a paused history.
	Params struct {
		Gain       [2]float32
		Bypass     bool
		Reset      bool
		Paused     bool
		Zoom       float64
		Scroll     float64
		ZoomAnchor int
		Enabled    [2]bool
	}

	// State is the part of the processor state that is persisted by a host.
	State struct {
		Zoom    float64 `yaml:"zoom"`
		Enabled [2]bool `yaml:"enabled,flow"`
	}
)

// DefaultParams returns unity gain, both channels enabled, no zoom and the
// zoom anchored at the most recent column.
func DefaultParams() Params {
	return Params{
		Gain:       [2]float32{1, 1},
		Scroll:     1,
		ZoomAnchor: HistorySize - 1,
		Enabled:    [2]bool{true, true},
	}
}

func DefaultState() State {
	return State{Enabled: [2]bool{true, true}}
}

func (s State) Marshal() ([]byte, error) {
	b, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("could not marshal state: %w", err)
	}
	return b, nil
}

// UnmarshalState parses a state, starting from DefaultState so that missing
// fields keep their defaults. The zoom is clamped into [0,1].
func UnmarshalState(b []byte) (State, error) {
	s := DefaultState()
	if err := yaml.Unmarshal(b, &s); err != nil {
		return DefaultState(), fmt.Errorf("could not unmarshal state: %w", err)
	}
	if s.Zoom != s.Zoom {
		s.Zoom = 0
	}
	s.Zoom = min(max(s.Zoom, 0), 1)
	return s, nil
}
