package gioui

import (
	"image"
	"math"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/vsariola/levelscope"
	"github.com/vsariola/levelscope/processor"
)

type (
	// HistoryView draws the two channel lanes of a HistoryData. The wheel
	// zooms around the column under the pointer, dragging scrolls a paused
	// history and the secondary button resets the maximum.
	HistoryView struct {
		dragging   bool
		dragId     pointer.ID
		dragStart  f32.Point
		dragScroll float64 // scroll position when the drag started
	}

	C = layout.Context
	D = layout.Dimensions
)

// DragScroll is how much dragging across the whole view changes the scroll
// position.
const DragScroll = 0.25

const dbPerGridLine = 12

func (v *HistoryView) Layout(gtx C, th *Theme, prefs HistoryPreferences, h *levelscope.HistoryData, params *processor.ParamStore) D {
	s := gtx.Constraints.Max
	if s.X <= 1 || s.Y <= 1 {
		return D{}
	}
	v.update(gtx, prefs, h, params)
	defer clip.Rect(image.Rectangle{Max: s}).Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, v)
	bg := th.Background
	if h.Paused {
		bg = th.ThemePreferences.Paused
	}
	paint.FillShape(gtx.Ops, bg, clip.Rect{Max: s}.Op())

	lane := s.Y / 2
	for ch := range 2 {
		v.layoutLane(gtx, th, prefs, h, ch, image.Rect(0, ch*lane, s.X, (ch+1)*lane))
	}
	return D{Size: s}
}

func (v *HistoryView) layoutLane(gtx C, th *Theme, prefs HistoryPreferences, h *levelscope.HistoryData, ch int, r image.Rectangle) {
	defer op.Offset(r.Min).Push(gtx.Ops).Pop()
	w, ht := r.Dx(), r.Dy()
	gtx.Constraints = layout.Exact(r.Size())
	for db := math.Ceil(prefs.MaxDB/dbPerGridLine) * dbPerGridLine; db > prefs.MinDB; db -= dbPerGridLine {
		y := ht - levelHeight(float32(math.Pow(10, db/20)), prefs, ht)
		paint.FillShape(gtx.Ops, th.Grid, clip.Rect{Min: image.Pt(0, y), Max: image.Pt(w, y+1)}.Op())
		label := material.Caption(th.Material, levelscope.GainConverter.Format(math.Pow(10, db/20)))
		label.Color = th.Grid
		stack := op.Offset(image.Pt(gtx.Dp(unit.Dp(2)), y)).Push(gtx.Ops)
		label.Layout(gtx)
		stack.Pop()
	}
	if !h.Enabled[ch] {
		label := material.Body2(th.Material, "off")
		label.Color = th.Grid
		layout.Center.Layout(gtx, label.Layout)
		return
	}
	color := th.Channels[ch]
	for sx := range w {
		c0, c1 := columnRange(sx, w)
		var val float32
		for _, p := range h.Points[ch][c0:c1] {
			val = max(val, p)
		}
		bh := levelHeight(val, prefs, ht)
		if bh == 0 {
			continue
		}
		col := color
		if val >= 1 {
			col = th.Clip
		}
		paint.FillShape(gtx.Ops, col, clip.Rect{Min: image.Pt(sx, ht-bh), Max: image.Pt(sx+1, ht)}.Op())
	}
	if m := levelHeight(h.MaxSinceReset[ch], prefs, ht); m > 0 {
		paint.FillShape(gtx.Ops, th.MaxLine, clip.Rect{Min: image.Pt(0, ht-m), Max: image.Pt(w, ht-m+1)}.Op())
	}
}

// columnRange returns the history columns [c0, c1) drawn by pixel x of a
// view w pixels wide. Neighbouring pixels may share a column when the view
// is wider than the history.
func columnRange(x, w int) (c0, c1 int) {
	c0 = x * levelscope.HistorySize / w
	c1 = max((x+1)*levelscope.HistorySize/w, c0+1)
	return c0, min(c1, levelscope.HistorySize)
}

// levelHeight maps an absolute level to a bar height in [0, h] pixels,
// linear in decibels between prefs.MinDB and prefs.MaxDB.
func levelHeight(level float32, prefs HistoryPreferences, h int) int {
	if level <= 0 {
		return 0
	}
	rel := (20*math.Log10(float64(level)) - prefs.MinDB) / (prefs.MaxDB - prefs.MinDB)
	return int(math.Round(min(max(rel, 0), 1) * float64(h)))
}

func (v *HistoryView) update(gtx C, prefs HistoryPreferences, h *levelscope.HistoryData, params *processor.ParamStore) {
	w := gtx.Constraints.Max.X
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  v,
			Kinds:   pointer.Scroll | pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel,
			ScrollY: pointer.ScrollRange{Min: -1e6, Max: 1e6},
		})
		if !ok {
			break
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch e.Kind {
		case pointer.Scroll:
			c0, _ := columnRange(min(max(int(e.Position.X), 0), w-1), w)
			params.SetZoomAnchor(c0)
			notches := float64(min(max(-1, int(e.Scroll.Y)), 1))
			params.SetZoom(params.Values().Zoom + notches*prefs.ZoomStep)
		case pointer.Press:
			if e.Buttons&pointer.ButtonSecondary != 0 {
				params.TriggerReset()
			}
			if e.Buttons&pointer.ButtonPrimary != 0 {
				v.dragging = true
				v.dragId = e.PointerID
				v.dragStart = e.Position
				v.dragScroll = h.Scroll
			}
		case pointer.Drag:
			if v.dragging && e.PointerID == v.dragId && h.Paused {
				dx := float64(e.Position.X-v.dragStart.X) / float64(w)
				params.SetScroll(v.dragScroll - dx*DragScroll)
			}
		case pointer.Release, pointer.Cancel:
			v.dragging = false
		}
	}
}
