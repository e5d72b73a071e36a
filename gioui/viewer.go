package gioui

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"time"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"

	"github.com/vsariola/levelscope"
	"github.com/vsariola/levelscope/processor"
	"github.com/vsariola/levelscope/spsc"
)

type Viewer struct {
	Theme       *Theme
	History     HistoryView
	OpenBtn     widget.Clickable
	PauseBtn    widget.Clickable
	ResetBtn    widget.Clickable
	BypassBtn   widget.Clickable
	ChannelBool [2]widget.Bool

	Title string
	// OpenFile is called with a file chosen by the user. The open button is
	// hidden if it is nil.
	OpenFile func(io.ReadCloser) error

	broker      *processor.Broker
	preferences Preferences
	data        levelscope.HistoryData
	quitted     bool

	explorer  *explorer.Explorer
	exploring bool
	chosen    chan chosenFile
	alert     string
	alertTime time.Time
}

type chosenFile struct {
	file io.ReadCloser
	err  error
}

// AlertDuration is how long an error stays in the status line.
const AlertDuration = 5 * time.Second

// PollInterval is how often the viewer checks for new snapshots.
const PollInterval = time.Second / 60

func NewViewer(broker *processor.Broker, title string) *Viewer {
	prefs, warn := MakePreferences()
	if warn != nil {
		log.Printf("using default preferences: %v", warn)
	}
	v := &Viewer{
		Theme:       NewTheme(prefs.Theme),
		Title:       title,
		broker:      broker,
		preferences: prefs,
		chosen:      make(chan chosenFile),
	}
	v.data.Enabled = broker.Params.Values().Enabled
	return v
}

// Main runs the window until it is closed or CloseGUI is signaled, then
// closes FinishedGUI. It must be run in its own goroutine, with app.Main on
// the main goroutine.
func (v *Viewer) Main() {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()
	var ops op.Ops
	w := v.newWindow()
	v.explorer = explorer.NewExplorer(w)
	acks := make(chan struct{})
	events := make(chan event.Event)
	go func() {
		for {
			ev := w.Event()
			events <- ev
			<-acks
			if _, ok := ev.(app.DestroyEvent); ok {
				return
			}
		}
	}()
	for !v.quitted {
		select {
		case <-ticker.C:
			if d, ok := spsc.TryPopLatest(v.broker.Snapshots); ok {
				v.data = d
				w.Invalidate()
			}
		case c := <-v.chosen:
			v.exploring = false
			if c.err == nil {
				c.err = v.OpenFile(c.file)
			}
			if c.err != nil && !errors.Is(c.err, explorer.ErrUserDecline) {
				v.alert, v.alertTime = c.err.Error(), time.Now()
			}
			w.Invalidate()
		case <-v.broker.CloseGUI:
			w.Perform(system.ActionClose)
		case e := <-events:
			switch e := e.(type) {
			case app.DestroyEvent:
				v.quitted = true
			case app.FrameEvent:
				gtx := app.NewContext(&ops, e)
				v.Layout(gtx)
				e.Frame(gtx.Ops)
			}
			acks <- struct{}{}
		}
	}
	close(v.broker.FinishedGUI)
}

func (v *Viewer) newWindow() *app.Window {
	w := new(app.Window)
	w.Option(app.Title(v.Title), app.Size(v.preferences.WindowSize()))
	if v.preferences.Window.Maximized {
		w.Option(app.Maximized.Option())
	}
	return w
}

func (v *Viewer) Layout(gtx C) D {
	v.update(gtx)
	paint.FillShape(gtx.Ops, v.Theme.Background, clip.Rect{Max: gtx.Constraints.Max}.Op())
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(v.layoutToolbar),
		layout.Flexed(1, func(gtx C) D {
			return v.History.Layout(gtx, v.Theme, v.preferences.History, &v.data, v.broker.Params)
		}),
	)
}

func (v *Viewer) update(gtx C) {
	params := v.broker.Params
	if v.OpenBtn.Clicked(gtx) && v.OpenFile != nil && !v.exploring {
		v.exploring = true
		go func() {
			file, err := v.explorer.ChooseFile(".wav")
			v.chosen <- chosenFile{file, err}
		}()
	}
	if v.PauseBtn.Clicked(gtx) {
		params.TogglePaused()
	}
	if v.ResetBtn.Clicked(gtx) {
		params.TriggerReset()
	}
	if v.BypassBtn.Clicked(gtx) {
		params.SetBypass(!params.Values().Bypass)
	}
	for ch := range v.ChannelBool {
		if v.ChannelBool[ch].Update(gtx) {
			params.SetEnabled(ch, v.ChannelBool[ch].Value)
		}
	}
}

func (v *Viewer) layoutToolbar(gtx C) D {
	th := v.Theme
	values := v.broker.Params.Values()
	for ch := range v.ChannelBool {
		v.ChannelBool[ch].Value = values.Enabled[ch]
	}
	pauseIcon := th.Pause
	if values.Paused {
		pauseIcon = th.Play
	}
	bypassIcon := th.Listen
	if values.Bypass {
		bypassIcon = th.Bypass
	}
	status := fmt.Sprintf("zoom %s  scroll %s  max %s / %s",
		levelscope.ZoomConverter{}.Format(max(v.data.ZoomRatio, 1)),
		levelscope.ScrollConverter.Format(v.data.Scroll),
		levelscope.GainConverter.Format(float64(v.data.MaxSinceReset[0])),
		levelscope.GainConverter.Format(float64(v.data.MaxSinceReset[1])))
	if v.alert != "" && time.Since(v.alertTime) < AlertDuration {
		status = v.alert
	}
	open := layout.Spacer{}.Layout
	if v.OpenFile != nil {
		open = v.iconButton(&v.OpenBtn, th.Open, "Open")
	}
	return layout.UniformInset(unit.Dp(4)).Layout(gtx, func(gtx C) D {
		return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(open),
			layout.Rigid(v.iconButton(&v.PauseBtn, pauseIcon, "Pause")),
			layout.Rigid(v.iconButton(&v.ResetBtn, th.Reset, "Reset maximum")),
			layout.Rigid(v.iconButton(&v.BypassBtn, bypassIcon, "Bypass")),
			layout.Rigid(material.CheckBox(th.Material, &v.ChannelBool[0], "L").Layout),
			layout.Rigid(material.CheckBox(th.Material, &v.ChannelBool[1], "R").Layout),
			layout.Flexed(1, func(gtx C) D {
				gtx.Constraints.Min = image.Point{}
				return layout.E.Layout(gtx, material.Body2(th.Material, status).Layout)
			}),
		)
	})
}

func (v *Viewer) iconButton(c *widget.Clickable, icon *widget.Icon, description string) layout.Widget {
	return func(gtx C) D {
		btn := material.IconButton(v.Theme.Material, c, icon, description)
		btn.Background = v.Theme.Background
		btn.Color = v.Theme.Text
		btn.Inset = layout.UniformInset(unit.Dp(6))
		return btn.Layout(gtx)
	}
}
