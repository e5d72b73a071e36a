package oto

import (
	"io"
	"sync/atomic"

	"github.com/vsariola/levelscope"
	"github.com/vsariola/levelscope/processor"
)

type source struct{ levelscope.AudioSource }

// Stream is an io.Reader producing float32 little endian stereo audio. Each
// Read pulls at most one block from the source, runs it through the
// processor and encodes it.
type Stream struct {
	src    atomic.Pointer[source]
	proc   *processor.Processor
	params *processor.ParamStore
	buf    levelscope.AudioBuffer
	frames atomic.Int64
	ended  atomic.Bool
}

func NewStream(src levelscope.AudioSource, proc *processor.Processor, params *processor.ParamStore, blockSize int) *Stream {
	s := &Stream{proc: proc, params: params, buf: make(levelscope.AudioBuffer, max(blockSize, 1))}
	s.src.Store(&source{src})
	return s
}

// SetSource switches to playing src from the next Read on. A stream that
// had ended plays again; the player must be restarted if it already saw
// io.EOF.
func (s *Stream) SetSource(src levelscope.AudioSource) {
	s.src.Store(&source{src})
	s.ended.Store(false)
}

func (s *Stream) Read(b []byte) (int, error) {
	if s.ended.Load() {
		return 0, io.EOF
	}
	n := min(len(b)/bytesPerFrame, len(s.buf))
	if n == 0 {
		return 0, nil
	}
	buf := s.buf[:n]
	if !s.src.Load().ReadAudio(buf) {
		s.ended.Store(true)
		return 0, io.EOF
	}
	s.proc.Process(buf, s.params.Load())
	s.frames.Add(int64(n))
	return FloatBufferToFloat32LE(buf, b), nil
}

// Frames is the number of frames played so far.
func (s *Stream) Frames() int64 { return s.frames.Load() }

// Ended reports whether the source has run out.
func (s *Stream) Ended() bool { return s.ended.Load() }
