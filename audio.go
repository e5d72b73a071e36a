package levelscope

type (
	// AudioBuffer is a buffer of stereo audio frames.
	AudioBuffer [][2]float32

	// AudioSource fills a buffer with the next frames of audio. It returns
	// false when there is nothing more to play.
	AudioSource interface {
		ReadAudio(buf AudioBuffer) bool
	}
)

// Channel copies channel ch of the buffer into out, which must be at least
// len(b) long.
func (b AudioBuffer) Channel(ch int, out []float32) []float32 {
	out = out[:len(b)]
	for i := range b {
		out[i] = b[i][ch]
	}
	return out
}

// SetChannel writes the values of in into channel ch of the buffer.
func (b AudioBuffer) SetChannel(ch int, in []float32) {
	for i := range in {
		b[i][ch] = in[i]
	}
}

// Interleaved returns the buffer as L, R, L, R... appended to out.
func (b AudioBuffer) Interleaved(out []float32) []float32 {
	for _, f := range b {
		out = append(out, f[0], f[1])
	}
	return out
}

// BufferSource plays an AudioBuffer once, or over and over if Loop is set.
type BufferSource struct {
	Buffer   AudioBuffer
	Position int
	Loop     bool
}

func (s *BufferSource) ReadAudio(buf AudioBuffer) bool {
	if s.Position >= len(s.Buffer) && (!s.Loop || len(s.Buffer) == 0) {
		return false
	}
	n := 0
	for n < len(buf) {
		if s.Position >= len(s.Buffer) {
			if !s.Loop {
				break
			}
			s.Position = 0
		}
		c := copy(buf[n:], s.Buffer[s.Position:])
		n += c
		s.Position += c
	}
	clear(buf[n:])
	return true
}
