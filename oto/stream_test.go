package oto_test

import (
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/vsariola/levelscope"
	"github.com/vsariola/levelscope/oto"
	"github.com/vsariola/levelscope/processor"
	"github.com/vsariola/levelscope/spsc"
)

func newStream(t *testing.T, buf levelscope.AudioBuffer) (*oto.Stream, *processor.ParamStore, spsc.Queue[levelscope.HistoryData]) {
	t.Helper()
	q := spsc.NewSeqCst[levelscope.HistoryData](4)
	cfg := processor.Config{SampleRate: 1000, MaxBlock: 16, HistorySeconds: 1, BatchMillis: 1, RefreshHz: 20}
	proc, err := processor.NewProcessor(cfg, q, nil)
	if err != nil {
		t.Fatalf("NewProcessor failed: %v", err)
	}
	params := processor.NewParamStore()
	return oto.NewProcessorStream(&levelscope.BufferSource{Buffer: buf}, proc, params), params, q
}

func sample(b []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
}

func TestStreamEncodesProcessedAudio(t *testing.T) {
	in := make(levelscope.AudioBuffer, 100)
	for i := range in {
		in[i] = [2]float32{0.25, -0.5}
	}
	s, params, q := newStream(t, in)
	params.SetGain(1, 2)
	b := make([]byte, 1024)
	total := 0
	for {
		n, err := s.Read(b)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if n > 16*8 {
			t.Fatalf("Read returned %d bytes, more than one block", n)
		}
		if n%8 != 0 {
			t.Fatalf("Read returned a partial frame: %d bytes", n)
		}
		if n > 0 && (sample(b, 0) != 0.25 || sample(b, 1) != -1) {
			t.Fatalf("got frame (%v, %v), want (0.25, -1)", sample(b, 0), sample(b, 1))
		}
		total += n
	}
	if total != 112*8 {
		t.Fatalf("read %d bytes, want 112 frames (100 padded to whole blocks)", total)
	}
	if !s.Ended() || s.Frames() != 112 {
		t.Fatalf("Ended %v Frames %d", s.Ended(), s.Frames())
	}
	if _, ok := q.TryPop(); !ok {
		t.Fatal("processor did not publish any snapshots")
	}
}

func TestStreamShortRead(t *testing.T) {
	s, _, _ := newStream(t, make(levelscope.AudioBuffer, 10))
	n, err := s.Read(make([]byte, 7))
	if n != 0 || err != nil {
		t.Fatalf("Read into a buffer smaller than a frame = %d, %v; want 0, nil", n, err)
	}
	n, err = s.Read(make([]byte, 20))
	if n != 16 || err != nil {
		t.Fatalf("Read(20 bytes) = %d, %v; want two frames", n, err)
	}
}

func TestFloatBufferToFloat32LEClips(t *testing.T) {
	out := make([]byte, 16)
	n := oto.FloatBufferToFloat32LE(levelscope.AudioBuffer{{2, -3}, {0.5, -0.5}, {9, 9}}, out)
	if n != 16 {
		t.Fatalf("wrote %d bytes, want 16", n)
	}
	want := []float32{1, -1, 0.5, -0.5}
	for i, w := range want {
		if got := sample(out, i); got != w {
			t.Errorf("sample %d = %v, want %v", i, got, w)
		}
	}
}

func TestStreamSetSourceRestarts(t *testing.T) {
	s, _, _ := newStream(t, make(levelscope.AudioBuffer, 4))
	b := make([]byte, 1024)
	for {
		if _, err := s.Read(b); err == io.EOF {
			break
		}
	}
	s.SetSource(&levelscope.BufferSource{Buffer: levelscope.AudioBuffer{{0.5, 0.5}}})
	n, err := s.Read(b)
	if err != nil || n == 0 || sample(b, 0) != 0.5 {
		t.Fatalf("Read after SetSource = %d, %v", n, err)
	}
}
