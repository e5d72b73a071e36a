package levelscope

// HistorySize is the number of decimated points in one snapshot, i.e. the
// width of the visible history in points.
const HistorySize = 512

// HistoryData is a snapshot of the visible level history, sent from the
// audio thread to the UI. It holds no references, so copies are independent.
type HistoryData struct {
	// Points holds the decimated absolute levels of each channel, oldest
	// first.
	Points        [2][HistorySize]float32
	MaxSinceReset [2]float32
	Enabled       [2]bool
	Paused        bool
	// ZoomRatio is the quantized ratio the points were rendered at and
	// Scroll the window position in [0,1], 1 being the most recent.
	ZoomRatio float64
	Scroll    float64
	// Sequence increases by one for every published snapshot.
	Sequence uint64
}

// Peak returns the largest point of channel ch.
func (h *HistoryData) Peak(ch int) float32 {
	var m float32
	for _, v := range h.Points[ch] {
		m = max(m, v)
	}
	return m
}
