//go:build cgo

package gomidi

import (
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// RTMIDIContext listens to one rtmidi input port at a time.
type RTMIDIContext struct {
	driver  *rtmididrv.Driver
	mapper  *Mapper
	current drivers.In
	stop    func()
}

// NewContext opens the rtmidi driver. If that fails the context has no
// inputs and Open returns ErrNoDriver.
func NewContext(mapper *Mapper) *RTMIDIContext {
	c := &RTMIDIContext{mapper: mapper}
	c.driver, _ = rtmididrv.New()
	return c
}

func (c *RTMIDIContext) Inputs(yield func(name string) bool) {
	if c.driver == nil {
		return
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return
	}
	for _, in := range ins {
		if !yield(in.String()) {
			return
		}
	}
}

// Open listens to the first input whose name contains name, closing the
// currently open input. An empty name takes the first input.
func (c *RTMIDIContext) Open(name string) error {
	if c.driver == nil {
		return ErrNoDriver
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return fmt.Errorf("listing MIDI inputs failed: %w", err)
	}
	for _, in := range ins {
		if !strings.Contains(in.String(), name) {
			continue
		}
		if in == c.current {
			return nil
		}
		c.closeCurrent()
		if err := in.Open(); err != nil {
			return fmt.Errorf("opening MIDI input failed: %w", err)
		}
		stop, err := midi.ListenTo(in, c.mapper.HandleMessage)
		if err != nil {
			in.Close()
			return fmt.Errorf("listening to MIDI input failed: %w", err)
		}
		c.current, c.stop = in, stop
		return nil
	}
	return fmt.Errorf("%w: %q", ErrNoInput, name)
}

func (c *RTMIDIContext) closeCurrent() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	if c.current != nil && c.current.IsOpen() {
		c.current.Close()
	}
	c.current = nil
}

func (c *RTMIDIContext) Close() error {
	if c.driver == nil {
		return nil
	}
	c.closeCurrent()
	return c.driver.Close()
}
