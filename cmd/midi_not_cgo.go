//go:build !cgo

package cmd

import "github.com/vsariola/levelscope/gomidi"

func NewMidiContext(mapper *gomidi.Mapper) gomidi.Context {
	// with no cgo, we cannot use MIDI, so return a null context
	return gomidi.NullContext{}
}
