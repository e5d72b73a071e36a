// Package config loads the application configuration of the levelscope
// commands from yaml.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vsariola/levelscope/processor"
	"github.com/vsariola/levelscope/spsc"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Audio   AudioConfig   `yaml:"audio"`
	History HistoryConfig `yaml:"history"`
	Queue   QueueConfig   `yaml:"queue"`
	Metrics MetricsConfig `yaml:"metrics"`
	MIDI    MIDIConfig    `yaml:"midi"`
}

type AudioConfig struct {
	SampleRate int `yaml:"sample_rate"`
	BlockSize  int `yaml:"block_size"`
}

type HistoryConfig struct {
	Seconds     float64 `yaml:"seconds"`
	BatchMillis float64 `yaml:"batch_ms"`
	RefreshHz   float64 `yaml:"refresh_hz"`
}

type QueueConfig struct {
	Capacity int    `yaml:"capacity"`
	Variant  string `yaml:"variant"`
}

// MetricsConfig.Listen is the address of the prometheus endpoint, e.g.
// ":9090". Empty disables it.
type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// MIDIConfig maps control change numbers to parameters. Input selects the
// first input port whose name contains it; empty means the first port.
// Channel -1 accepts every channel.
type MIDIConfig struct {
	Input    string `yaml:"input"`
	ZoomCC   int    `yaml:"zoom_cc"`
	ScrollCC int    `yaml:"scroll_cc"`
	PauseCC  int    `yaml:"pause_cc"`
	Channel  int    `yaml:"channel"`
}

func Default() Config {
	p := processor.DefaultConfig()
	return Config{
		Audio:   AudioConfig{SampleRate: p.SampleRate, BlockSize: p.MaxBlock},
		History: HistoryConfig{Seconds: p.HistorySeconds, BatchMillis: p.BatchMillis, RefreshHz: p.RefreshHz},
		Queue:   QueueConfig{Capacity: 4, Variant: string(spsc.VariantAcqRel)},
		MIDI:    MIDIConfig{ZoomCC: 1, ScrollCC: 2, PauseCC: 64, Channel: -1},
	}
}

// Load reads a config file. Values missing from the file keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Processor().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Queue.Capacity < 1 {
		return fmt.Errorf("%w: queue capacity %d", ErrInvalid, c.Queue.Capacity)
	}
	switch spsc.Variant(c.Queue.Variant) {
	case spsc.VariantAcqRel, spsc.VariantSeqCst:
	default:
		return fmt.Errorf("%w: queue variant %q", ErrInvalid, c.Queue.Variant)
	}
	for _, cc := range []int{c.MIDI.ZoomCC, c.MIDI.ScrollCC, c.MIDI.PauseCC} {
		if cc < -1 || cc > 127 {
			return fmt.Errorf("%w: midi control %d", ErrInvalid, cc)
		}
	}
	if c.MIDI.Channel < -1 || c.MIDI.Channel > 15 {
		return fmt.Errorf("%w: midi channel %d", ErrInvalid, c.MIDI.Channel)
	}
	return nil
}

// Processor returns the processor configuration.
func (c *Config) Processor() processor.Config {
	return processor.Config{
		SampleRate:     c.Audio.SampleRate,
		MaxBlock:       c.Audio.BlockSize,
		HistorySeconds: c.History.Seconds,
		BatchMillis:    c.History.BatchMillis,
		RefreshHz:      c.History.RefreshHz,
	}
}

// NewBroker creates a broker with the configured snapshot queue.
func (c *Config) NewBroker() *processor.Broker {
	return processor.NewBroker(spsc.Variant(c.Queue.Variant), c.Queue.Capacity)
}
