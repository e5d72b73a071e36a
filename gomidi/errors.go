package gomidi

import "errors"

var (
	ErrNoDriver = errors.New("no MIDI driver available")
	ErrNoInput  = errors.New("no matching MIDI input")
)
