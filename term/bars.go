package term

import (
	"math"
	"strings"

	"github.com/vsariola/levelscope"
)

var blocks = []rune(" ▁▂▃▄▅▆▇█")

// Bars renders points as one line of block characters, width cells wide.
// Each cell shows the largest point of the columns it covers, linear in
// decibels between minDB and maxDB.
func Bars(points []float32, width int, minDB, maxDB float64) string {
	if width <= 0 || len(points) == 0 {
		return ""
	}
	var sb strings.Builder
	for x := range width {
		c0 := x * len(points) / width
		c1 := min(max((x+1)*len(points)/width, c0+1), len(points))
		var v float32
		for _, p := range points[c0:c1] {
			v = max(v, p)
		}
		sb.WriteRune(blocks[level(v, minDB, maxDB, len(blocks)-1)])
	}
	return sb.String()
}

// level rounds up, so that any value above minDB shows at least one step.
func level(v float32, minDB, maxDB float64, steps int) int {
	if v <= 0 {
		return 0
	}
	rel := (20*math.Log10(float64(v)) - minDB) / (maxDB - minDB)
	return int(math.Ceil(min(max(rel, 0), 1) * float64(steps)))
}

// column returns the history column under cell x of a width cells wide view.
func column(x, width int) int {
	return min(max(x*levelscope.HistorySize/max(width, 1), 0), levelscope.HistorySize-1)
}
