package processor

import (
	"errors"
	"fmt"
	"math"

	"github.com/vsariola/levelscope"
	"github.com/vsariola/levelscope/history"
)

var ErrConfig = errors.New("processor: invalid configuration")

const (
	MinRefreshHz     = 4
	MaxRefreshHz     = 25
	DefaultRefreshHz = 20
)

type (
	// Config configures a stereo Processor.
	Config struct {
		SampleRate     int
		MaxBlock       int     // longest block processed at once; longer blocks are split
		HistorySeconds float64 // length of the full resolution history
		BatchMillis    float64 // length of one full resolution point
		RefreshHz      float64 // snapshot rate, clamped to [MinRefreshHz, MaxRefreshHz]
	}

	// ChannelConfig configures a ChannelProcessor. Capacity is the number of
	// full resolution points and Visible the number of points in a view.
	ChannelConfig struct {
		SampleRate  int
		BatchMillis float64
		Capacity    int
		Visible     int
		MaxBlock    int
	}
)

func DefaultConfig() Config {
	return Config{
		SampleRate:     44100,
		MaxBlock:       1024,
		HistorySeconds: 30,
		BatchMillis:    1,
		RefreshHz:      DefaultRefreshHz,
	}
}

func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrConfig, c.SampleRate)
	case c.MaxBlock <= 0:
		return fmt.Errorf("%w: max block %d", ErrConfig, c.MaxBlock)
	case !(c.HistorySeconds > 0) || math.IsInf(c.HistorySeconds, 1):
		return fmt.Errorf("%w: history length %v s", ErrConfig, c.HistorySeconds)
	case !(c.BatchMillis > 0) || math.IsInf(c.BatchMillis, 1):
		return fmt.Errorf("%w: batch length %v ms", ErrConfig, c.BatchMillis)
	}
	return nil
}

// BatchSize is the number of samples in one full resolution point.
func (c Config) BatchSize() int {
	return batchSize(c.SampleRate, c.BatchMillis)
}

// Capacity is the number of full resolution points kept, at least
// HistorySize.
func (c Config) Capacity() int {
	points := math.Ceil(c.HistorySeconds * float64(c.SampleRate) / float64(c.BatchSize()))
	return max(levelscope.HistorySize, int(points))
}

// SamplesPerSnapshot is the number of frames between two rate limited
// snapshots.
func (c Config) SamplesPerSnapshot() int {
	hz := c.RefreshHz
	if hz == 0 {
		hz = DefaultRefreshHz
	}
	hz = min(max(hz, MinRefreshHz), MaxRefreshHz)
	return max(1, int(math.Round(float64(c.SampleRate)/hz)))
}

func (c Config) channel() ChannelConfig {
	return ChannelConfig{
		SampleRate:  c.SampleRate,
		BatchMillis: c.BatchMillis,
		Capacity:    c.Capacity(),
		Visible:     levelscope.HistorySize,
		MaxBlock:    c.MaxBlock,
	}
}

func (c ChannelConfig) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrConfig, c.SampleRate)
	case !(c.BatchMillis > 0) || float64(c.SampleRate)*c.BatchMillis/1000 > history.MaxZoomRatio:
		return fmt.Errorf("%w: batch length %v ms", ErrConfig, c.BatchMillis)
	case c.Visible < 1 || c.Capacity < c.Visible:
		return fmt.Errorf("%w: visible %d, capacity %d", ErrConfig, c.Visible, c.Capacity)
	case c.MaxBlock <= 0:
		return fmt.Errorf("%w: max block %d", ErrConfig, c.MaxBlock)
	}
	return nil
}

func batchSize(sampleRate int, millis float64) int {
	return max(1, int(math.Round(float64(sampleRate)*millis/1000)))
}
