package processor

import (
	"math"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Stats counts what a Processor does. It is written by the audio thread and
// may be read from any goroutine.
type Stats struct {
	published     atomic.Uint64
	dropped       atomic.Uint64
	blocks        atomic.Uint64
	blockPeak     atomic.Uint32
	maxSinceReset [2]atomic.Uint32
}

func (s *Stats) observeBlock(peak float32) {
	s.blocks.Add(1)
	s.blockPeak.Store(floatBits(peak))
}

// Published is the number of snapshots pushed to the queue.
func (s *Stats) Published() uint64 { return s.published.Load() }

// Dropped is the number of snapshots dropped because the queue was full.
func (s *Stats) Dropped() uint64 { return s.dropped.Load() }

func (s *Stats) Blocks() uint64 { return s.blocks.Load() }

// BlockPeak is the largest absolute sample of the last block, after gain.
func (s *Stats) BlockPeak() float32 { return math.Float32frombits(s.blockPeak.Load()) }

// MaxSinceReset is the value of the channel in the last snapshot.
func (s *Stats) MaxSinceReset(ch int) float32 {
	return math.Float32frombits(s.maxSinceReset[ch].Load())
}

func floatBits(f float32) uint32 { return math.Float32bits(f) }

// Collector exports Stats as prometheus metrics.
type Collector struct {
	stats         *Stats
	published     *prometheus.Desc
	dropped       *prometheus.Desc
	blocks        *prometheus.Desc
	blockPeak     *prometheus.Desc
	maxSinceReset *prometheus.Desc
}

func NewCollector(s *Stats) *Collector {
	return &Collector{
		stats:         s,
		published:     prometheus.NewDesc("levelscope_snapshots_published_total", "Snapshots pushed to the UI queue.", nil, nil),
		dropped:       prometheus.NewDesc("levelscope_snapshots_dropped_total", "Snapshots dropped because the UI queue was full.", nil, nil),
		blocks:        prometheus.NewDesc("levelscope_blocks_processed_total", "Audio blocks processed.", nil, nil),
		blockPeak:     prometheus.NewDesc("levelscope_block_peak", "Largest absolute sample of the last block.", nil, nil),
		maxSinceReset: prometheus.NewDesc("levelscope_max_since_reset", "Largest decimated level since the last reset.", []string{"channel"}, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.published
	ch <- c.dropped
	ch <- c.blocks
	ch <- c.blockPeak
	ch <- c.maxSinceReset
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.published, prometheus.CounterValue, float64(c.stats.Published()))
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(c.stats.Dropped()))
	ch <- prometheus.MustNewConstMetric(c.blocks, prometheus.CounterValue, float64(c.stats.Blocks()))
	ch <- prometheus.MustNewConstMetric(c.blockPeak, prometheus.GaugeValue, float64(c.stats.BlockPeak()))
	ch <- prometheus.MustNewConstMetric(c.maxSinceReset, prometheus.GaugeValue, float64(c.stats.MaxSinceReset(0)), "left")
	ch <- prometheus.MustNewConstMetric(c.maxSinceReset, prometheus.GaugeValue, float64(c.stats.MaxSinceReset(1)), "right")
}
