package levelscope

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type (
	// Converter maps a parameter between its plain value and the normalized
	// [0,1] range used by hosts, sliders and the processor, and formats plain
	// values for display.
	Converter interface {
		Normalize(plain float64) float64
		Denormalize(normalized float64) float64
		Format(plain float64) string
	}

	// LinearConverter maps [Min, Max] linearly.
	LinearConverter struct {
		Min, Max float64
		Unit     string
	}

	// DecibelConverter maps gain factors so that the normalized value is
	// linear in decibels between MinDB and MaxDB. The normalized value 0 is
	// silence.
	DecibelConverter struct {
		MinDB, MaxDB float64
	}

	// ZoomConverter maps the normalized zoom to a ratio in [1, MaxRatio].
	ZoomConverter struct {
		MaxRatio float64
	}

	// PercentConverter is the identity, formatted as a percentage.
	PercentConverter struct{}
)

var (
	GainConverter   Converter = DecibelConverter{MinDB: -60, MaxDB: 24}
	ScrollConverter Converter = PercentConverter{}
)

func printer() *message.Printer { return message.NewPrinter(language.English) }

func clamp01(f float64) float64 {
	if !(f > 0) {
		return 0
	}
	return min(f, 1)
}

func (c LinearConverter) Normalize(plain float64) float64 {
	if c.Max == c.Min {
		return 0
	}
	return clamp01((plain - c.Min) / (c.Max - c.Min))
}

func (c LinearConverter) Denormalize(n float64) float64 {
	return c.Min + clamp01(n)*(c.Max-c.Min)
}

func (c LinearConverter) Format(plain float64) string {
	if c.Unit == "" {
		return printer().Sprintf("%.2f", plain)
	}
	return printer().Sprintf("%.2f %s", plain, c.Unit)
}

func (c DecibelConverter) Normalize(gain float64) float64 {
	if gain <= 0 {
		return 0
	}
	return clamp01((20*math.Log10(gain) - c.MinDB) / (c.MaxDB - c.MinDB))
}

func (c DecibelConverter) Denormalize(n float64) float64 {
	n = clamp01(n)
	if n == 0 {
		return 0
	}
	return math.Pow(10, (c.MinDB+n*(c.MaxDB-c.MinDB))/20)
}

func (c DecibelConverter) Format(gain float64) string {
	if gain <= 0 {
		return "-inf dB"
	}
	return printer().Sprintf("%.1f dB", 20*math.Log10(gain))
}

func (c ZoomConverter) Normalize(ratio float64) float64 {
	if c.MaxRatio <= 1 {
		return 0
	}
	return clamp01((ratio - 1) / (c.MaxRatio - 1))
}

func (c ZoomConverter) Denormalize(n float64) float64 {
	return 1 + clamp01(n)*(max(c.MaxRatio, 1)-1)
}

func (c ZoomConverter) Format(ratio float64) string {
	return printer().Sprintf("%.1fx", ratio)
}

func (PercentConverter) Normalize(p float64) float64   { return clamp01(p) }
func (PercentConverter) Denormalize(n float64) float64 { return clamp01(n) }
func (PercentConverter) Format(p float64) string {
	return printer().Sprintf("%.0f%%", p*100)
}
