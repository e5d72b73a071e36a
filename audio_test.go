package levelscope_test

import (
	"testing"

	"github.com/vsariola/levelscope"
)

func TestBufferSourceOnce(t *testing.T) {
	src := &levelscope.BufferSource{Buffer: levelscope.AudioBuffer{{1, -1}, {2, -2}, {3, -3}}}
	buf := make(levelscope.AudioBuffer, 2)
	if !src.ReadAudio(buf) || buf[1] != [2]float32{2, -2} {
		t.Fatalf("first read: got %v", buf)
	}
	if !src.ReadAudio(buf) || buf[0] != [2]float32{3, -3} || buf[1] != [2]float32{} {
		t.Fatalf("second read should pad with silence, got %v", buf)
	}
	if src.ReadAudio(buf) {
		t.Fatal("source should be exhausted")
	}
}

func TestBufferSourceLoop(t *testing.T) {
	src := &levelscope.BufferSource{Buffer: levelscope.AudioBuffer{{1, 1}, {2, 2}}, Loop: true}
	buf := make(levelscope.AudioBuffer, 5)
	for i := 0; i < 3; i++ {
		if !src.ReadAudio(buf) {
			t.Fatal("looping source should never end")
		}
	}
	// 15 frames read, so the next one is frame 15 % 2 == 1
	next := make(levelscope.AudioBuffer, 1)
	src.ReadAudio(next)
	if next[0][0] != 2 {
		t.Fatalf("expected to continue from frame 1, got %v", next[0])
	}
}

func TestAudioBufferChannels(t *testing.T) {
	b := levelscope.AudioBuffer{{1, 2}, {3, 4}}
	left := b.Channel(0, make([]float32, 2))
	if left[0] != 1 || left[1] != 3 {
		t.Fatalf("left channel: %v", left)
	}
	b.SetChannel(1, []float32{5, 6})
	got := b.Interleaved(nil)
	want := []float32{1, 5, 3, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("interleaved: got %v, want %v", got, want)
		}
	}
}
