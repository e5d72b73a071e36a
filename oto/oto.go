package oto

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/vsariola/levelscope"
	"github.com/vsariola/levelscope/processor"
)

// Context is an audio output device. Only one Context can exist in a
// process.
type Context struct {
	ctx        *oto.Context
	sampleRate int
}

// Player plays a Stream on a Context.
type Player struct {
	player *oto.Player
	stream *Stream
}

// NewContext opens the default output device for float32 stereo audio and
// waits until it is ready.
func NewContext(sampleRate int, bufferSize time.Duration) (*Context, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{ctx: ctx, sampleRate: sampleRate}, nil
}

func (c *Context) SampleRate() int { return c.sampleRate }

// Play starts playing s. The device goroutine drives the processor of the
// stream, so the processor must not be used elsewhere while playing.
func (c *Context) Play(s *Stream) *Player {
	p := c.ctx.NewPlayer(s)
	p.Play()
	return &Player{player: p, stream: s}
}

func (c *Context) Suspend() error {
	if err := c.ctx.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

func (c *Context) Resume() error {
	if err := c.ctx.Resume(); err != nil {
		return fmt.Errorf("cannot resume oto context: %w", err)
	}
	return nil
}

// IsPlaying reports false once the stream has ended and the device has
// played the buffered audio.
func (p *Player) IsPlaying() bool { return p.player.IsPlaying() }

func (p *Player) Stream() *Stream { return p.stream }

// SetSource plays src from now on, restarting a player whose stream had
// ended.
func (p *Player) SetSource(src levelscope.AudioSource) {
	p.stream.SetSource(src)
	p.player.Play()
}

// Close disposes of resources
func (p *Player) Close() error {
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

// NewProcessorStream is a shorthand for a stream feeding src through proc
// with parameters from params.
func NewProcessorStream(src levelscope.AudioSource, proc *processor.Processor, params *processor.ParamStore) *Stream {
	return NewStream(src, proc, params, proc.Config().MaxBlock)
}
