package cmd_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vsariola/levelscope/cmd"
	"github.com/vsariola/levelscope/processor"
	"github.com/vsariola/levelscope/spsc"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := cmd.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Audio.SampleRate != processor.DefaultConfig().SampleRate {
		t.Fatalf("sample rate %d, want the default", cfg.Audio.SampleRate)
	}
	if !strings.Contains(cmd.Describe(cfg), "acqrel queue of 4") {
		t.Fatalf("unexpected description %q", cmd.Describe(cfg))
	}
	if _, err := cmd.LoadConfig("does-not-exist.yml"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestMetricsHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	cmd.MetricsHandler(new(processor.Stats)).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Result().Body)
	for _, name := range []string{"levelscope_snapshots_published_total", "levelscope_max_since_reset", "go_goroutines"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metrics output is missing %s", name)
		}
	}
}

func TestStopPlayerTimesOut(t *testing.T) {
	b := processor.NewBroker(spsc.VariantAcqRel, 1)
	start := time.Now()
	cmd.StopPlayer(b, 10*time.Millisecond)
	if time.Since(start) > time.Second {
		t.Fatal("StopPlayer did not time out")
	}
	select {
	case <-b.ClosePlayer:
	default:
		t.Fatal("StopPlayer did not signal ClosePlayer")
	}
}
