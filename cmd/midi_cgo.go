//go:build cgo

package cmd

import "github.com/vsariola/levelscope/gomidi"

func NewMidiContext(mapper *gomidi.Mapper) gomidi.Context {
	return gomidi.NewContext(mapper)
}
