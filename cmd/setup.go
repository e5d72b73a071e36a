package cmd

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vsariola/levelscope/config"
	"github.com/vsariola/levelscope/gomidi"
	"github.com/vsariola/levelscope/oto"
	"github.com/vsariola/levelscope/processor"
)

// LoadConfig loads the config file at path, or returns the defaults if path
// is empty.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		return &cfg, nil
	}
	return config.Load(path)
}

// MetricsHandler serves the processor statistics and the Go runtime
// metrics in the prometheus exposition format.
func MetricsHandler(stats *processor.Stats) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		processor.NewCollector(stats),
		collectors.NewGoCollector(),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ServeMetrics serves /metrics on listen in a new goroutine. It does
// nothing if listen is empty.
func ServeMetrics(listen string, stats *processor.Stats) {
	if listen == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(stats))
	go func() {
		log.Printf("serving metrics on %s/metrics", listen)
		if err := http.ListenAndServe(listen, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server failed: %v", err)
		}
	}()
}

// OpenMIDI routes the configured MIDI input to params. The returned context
// must be closed; it is a null context if MIDI is not available.
func OpenMIDI(cfg config.MIDIConfig, params *processor.ParamStore) gomidi.Context {
	ctx := NewMidiContext(gomidi.NewMapper(cfg, params))
	if err := ctx.Open(cfg.Input); err != nil {
		log.Printf("MIDI disabled: %v", err)
	}
	return ctx
}

// Describe is a one-line summary of the configuration for logs.
func Describe(cfg *config.Config) string {
	p := cfg.Processor()
	return fmt.Sprintf("%d Hz, block %d, %g s history, %g ms points, %d point capacity, %s queue of %d",
		p.SampleRate, p.MaxBlock, p.HistorySeconds, p.BatchMillis, p.Capacity(), cfg.Queue.Variant, cfg.Queue.Capacity)
}

// RunPlayer closes player when ClosePlayer is signaled, then closes
// FinishedPlayer. If the stream of the player runs out first, ClosePlayer
// is still waited for, so the history stays on screen.
func RunPlayer(broker *processor.Broker, player *oto.Player) {
	<-broker.ClosePlayer
	if err := player.Close(); err != nil {
		log.Print(err)
	}
	close(broker.FinishedPlayer)
}

// StopPlayer asks RunPlayer to finish and waits for it, at most timeout.
func StopPlayer(broker *processor.Broker, timeout time.Duration) {
	processor.TrySend(broker.ClosePlayer, struct{}{})
	select {
	case <-broker.FinishedPlayer:
	case <-time.After(timeout):
		log.Print("timed out waiting for the player to close")
	}
}
