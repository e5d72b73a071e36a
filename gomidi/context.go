package gomidi

import "io"

type (
	// Context lists MIDI inputs and routes the open one to a Mapper.
	Context interface {
		Inputs(yield func(name string) bool)
		Open(name string) error
		io.Closer
	}

	// NullContext is used when the binary is built without MIDI support.
	NullContext struct{}
)

func (NullContext) Inputs(yield func(name string) bool) {}
func (NullContext) Open(name string) error             { return ErrNoDriver }
func (NullContext) Close() error                       { return nil }
