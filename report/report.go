// Package report renders HistoryData snapshots as text using templates.
package report

import (
	"embed"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/viterin/vek/vek32"
	"github.com/vsariola/levelscope"
	"github.com/vsariola/levelscope/version"
)

//go:embed templates/*
var templateFS embed.FS

type (
	Reporter struct {
		Template *template.Template
	}

	// Data is what the templates see.
	Data struct {
		Version   string
		Paused    bool
		ZoomRatio float64
		Scroll    float64
		Sequence  uint64
		Seconds   float64 // length of the visible history
		Channels  []Channel
	}

	Channel struct {
		Name          string
		Enabled       bool
		Peak          float32
		Mean          float32
		MaxSinceReset float32
		Points        []float32
	}
)

var channelNames = [2]string{"left", "right"}

// Summarize collects template data from a snapshot. batchMillis is the
// length of one full resolution point, used to compute the visible span.
func Summarize(h *levelscope.HistoryData, batchMillis float64) Data {
	d := Data{
		Version:   version.VersionOrHash,
		Paused:    h.Paused,
		ZoomRatio: h.ZoomRatio,
		Scroll:    h.Scroll,
		Sequence:  h.Sequence,
		Seconds:   float64(levelscope.HistorySize) * h.ZoomRatio * batchMillis / 1000,
	}
	for ch := range h.Points {
		points := h.Points[ch][:]
		d.Channels = append(d.Channels, Channel{
			Name:          channelNames[ch],
			Enabled:       h.Enabled[ch],
			Peak:          vek32.Max(points),
			Mean:          vek32.Mean(points),
			MaxSinceReset: h.MaxSinceReset[ch],
			Points:        points,
		})
	}
	return d
}

func funcMap() template.FuncMap {
	f := sprig.TxtFuncMap()
	f["db"] = decibels
	f["bar"] = bar
	f["spark"] = sparkline
	f["percent"] = func(f float64) string { return fmt.Sprintf("%.0f%%", f*100) }
	return f
}

// New returns a reporter using the built in templates.
func New() (*Reporter, error) {
	tmpl, err := template.New("base").Funcs(funcMap()).ParseFS(templateFS, "templates/*.*")
	if err != nil {
		return nil, fmt.Errorf(`could not create templates: %v`, err)
	}
	return &Reporter{Template: tmpl}, nil
}

// NewFromTemplates returns a reporter using the templates in a directory.
func NewFromTemplates(templateDirectory string) (*Reporter, error) {
	globPtrn := filepath.Join(templateDirectory, "*.*")
	tmpl, err := template.New("base").Funcs(funcMap()).ParseGlob(globPtrn)
	if err != nil {
		return nil, fmt.Errorf(`could not create template based on directory "%v": %v`, templateDirectory, err)
	}
	return &Reporter{Template: tmpl}, nil
}

// Names lists the templates that can be rendered.
func (r *Reporter) Names() []string {
	var ret []string
	for _, t := range r.Template.Templates() {
		if filepath.Ext(t.Name()) != "" {
			ret = append(ret, t.Name())
		}
	}
	return ret
}

func (r *Reporter) Render(w io.Writer, templateName string, d Data) error {
	if err := r.Template.ExecuteTemplate(w, templateName, d); err != nil {
		return fmt.Errorf(`could not execute template "%v": %v`, templateName, err)
	}
	return nil
}

func decibels(v float32) string {
	if v <= 0 {
		return "-inf"
	}
	return fmt.Sprintf("%.1f", 20*math.Log10(float64(v)))
}

// bar draws v in [0,1] as a bar of at most width characters.
func bar(width int, v float32) string {
	n := int(math.Round(float64(min(max(v, 0), 1)) * float64(width)))
	return strings.Repeat("#", n) + strings.Repeat(".", width-n)
}

var sparkRunes = []rune(" ▁▂▃▄▅▆▇█")

// sparkline draws the points as width characters, each showing the largest
// point of its share.
func sparkline(width int, points []float32) string {
	if width <= 0 || len(points) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < width; i++ {
		lo, hi := i*len(points)/width, (i+1)*len(points)/width
		var m float32
		for _, p := range points[lo:max(hi, lo+1)] {
			m = max(m, p)
		}
		idx := int(math.Round(float64(min(m, 1)) * float64(len(sparkRunes)-1)))
		sb.WriteRune(sparkRunes[max(idx, 0)])
	}
	return sb.String()
}
