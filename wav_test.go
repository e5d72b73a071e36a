package levelscope_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/vsariola/levelscope"
)

func TestWavRoundTrip(t *testing.T) {
	in := levelscope.AudioBuffer{{0, 0}, {0.5, -0.5}, {1, -1}, {0.25, 0.125}}
	for _, pcm16 := range []bool{false, true} {
		b, err := levelscope.Wav(in, 48000, pcm16)
		if err != nil {
			t.Fatalf("Wav failed: %v", err)
		}
		out, sr, err := levelscope.ReadWav(bytes.NewReader(b))
		if err != nil {
			t.Fatalf("pcm16=%v: ReadWav failed: %v", pcm16, err)
		}
		if sr != 48000 || len(out) != len(in) {
			t.Fatalf("pcm16=%v: got %d frames at %d Hz, want %d at 48000", pcm16, len(out), sr, len(in))
		}
		tol := 0.0
		if pcm16 {
			tol = 1.0 / math.MaxInt16
		}
		for i := range in {
			for c := 0; c < 2; c++ {
				if d := math.Abs(float64(out[i][c] - in[i][c])); d > tol {
					t.Fatalf("pcm16=%v: frame %d channel %d = %v, want %v", pcm16, i, c, out[i][c], in[i][c])
				}
			}
		}
	}
}

func TestWavHeaderSize(t *testing.T) {
	b, err := levelscope.Wav(make(levelscope.AudioBuffer, 10), 44100, true)
	if err != nil {
		t.Fatalf("Wav failed: %v", err)
	}
	if len(b) != 44+10*2*2 {
		t.Fatalf("16-bit wav of 10 frames is %d bytes, want %d", len(b), 44+40)
	}
	if riffSize := binary.LittleEndian.Uint32(b[4:]); int(riffSize) != len(b)-8 {
		t.Fatalf("RIFF chunk size %d, want %d", riffSize, len(b)-8)
	}
}

func TestReadWavMonoAndErrors(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+4))
	buf.WriteString("WAVEfmt ")
	for _, v := range []any{uint32(16), uint16(1), uint16(1), uint32(8000), uint32(16000), uint16(2), uint16(16)} {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	buf.WriteString("data")
	for _, v := range []any{uint32(4), int16(math.MaxInt16), int16(0)} {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	out, sr, err := levelscope.ReadWav(&buf)
	if err != nil {
		t.Fatalf("ReadWav failed: %v", err)
	}
	if sr != 8000 || len(out) != 2 || out[0] != [2]float32{1, 1} || out[1] != [2]float32{0, 0} {
		t.Fatalf("mono wav decoded to %v at %d Hz", out, sr)
	}
	if _, _, err := levelscope.ReadWav(bytes.NewReader([]byte("RIFX0000WAVE"))); !errors.Is(err, levelscope.ErrWavFormat) {
		t.Fatalf("ReadWav of a non RIFF file: error %v, want ErrWavFormat", err)
	}
}
