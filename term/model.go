// Package term shows the level history in a terminal.
package term

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vsariola/levelscope"
	"github.com/vsariola/levelscope/processor"
	"github.com/vsariola/levelscope/spsc"
)

// PollInterval is how often the model checks for new snapshots.
const PollInterval = time.Second / 30

const (
	zoomStep   = 0.05
	scrollStep = 0.02
	minDB      = -48
	maxDB      = 0
)

type tickMsg struct{}

var (
	styleChannel = [2]lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("#CE93D8")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#80DEEA")),
	}
	styleOff    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleStatus = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	stylePaused = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FBC02D"))
	styleClip   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CF6679"))
)

// Model is the bubbletea model of the terminal viewer.
type Model struct {
	broker *processor.Broker
	data   levelscope.HistoryData
	help   help.Model

	width  int
	height int
}

func New(broker *processor.Broker) Model {
	m := Model{broker: broker, help: help.New(), width: 80, height: 24}
	m.data.Enabled = broker.Params.Values().Enabled
	return m
}

func tick() tea.Cmd {
	return tea.Tick(PollInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m Model) Init() tea.Cmd { return tick() }

// Data is the latest snapshot received.
func (m Model) Data() levelscope.HistoryData { return m.data }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if d, ok := spsc.TryPopLatest(m.broker.Snapshots); ok {
			m.data = d
		}
		return m, tick()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.broker.Params
	v := p.Values()
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Pause):
		p.TogglePaused()
	case key.Matches(msg, keys.Reset):
		p.TriggerReset()
	case key.Matches(msg, keys.Bypass):
		p.SetBypass(!v.Bypass)
	case key.Matches(msg, keys.ZoomIn):
		p.SetZoomAnchor(levelscope.HistorySize - 1)
		p.SetZoom(v.Zoom - zoomStep)
	case key.Matches(msg, keys.ZoomOut):
		p.SetZoomAnchor(levelscope.HistorySize - 1)
		p.SetZoom(v.Zoom + zoomStep)
	case key.Matches(msg, keys.Left):
		// the processor moves the view on anchored zooms, so step from
		// where it last was
		m.data.Scroll = max(m.data.Scroll-scrollStep, 0)
		p.SetScroll(m.data.Scroll)
	case key.Matches(msg, keys.Right):
		m.data.Scroll = min(m.data.Scroll+scrollStep, 1)
		p.SetScroll(m.data.Scroll)
	case key.Matches(msg, keys.Channel0):
		p.SetEnabled(0, !v.Enabled[0])
	case key.Matches(msg, keys.Channel1):
		p.SetEnabled(1, !v.Enabled[1])
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress {
		return
	}
	p := m.broker.Params
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.SetZoomAnchor(column(msg.X, m.width))
		p.SetZoom(p.Values().Zoom - zoomStep)
	case tea.MouseButtonWheelDown:
		p.SetZoomAnchor(column(msg.X, m.width))
		p.SetZoom(p.Values().Zoom + zoomStep)
	case tea.MouseButtonRight:
		p.TriggerReset()
	}
}

func (m Model) View() string {
	lane := max((m.height-4)/2, 1)
	var rows []string
	for ch := range 2 {
		rows = append(rows, m.viewLane(ch, lane)...)
	}
	rows = append(rows, m.status(), m.help.View(keys))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// viewLane renders a channel as height rows of bars, the top row covering
// the loudest levels.
func (m Model) viewLane(ch, height int) []string {
	if !m.data.Enabled[ch] {
		rows := make([]string, height)
		rows[0] = styleOff.Render(fmt.Sprintf("%s off", channelName(ch)))
		return rows
	}
	rows := make([]string, height)
	span := float64(maxDB-minDB) / float64(height)
	for r := range height {
		hi := maxDB - span*float64(r)
		rows[r] = styleChannel[ch].Render(Bars(m.data.Points[ch][:], m.width, hi-span, hi))
	}
	return rows
}

func channelName(ch int) string { return [2]string{"L", "R"}[ch] }

func (m Model) status() string {
	var parts []string
	if m.data.Paused {
		parts = append(parts, stylePaused.Render("PAUSED"))
	}
	if m.broker.Params.Values().Bypass {
		parts = append(parts, stylePaused.Render("BYPASS"))
	}
	parts = append(parts,
		"zoom "+levelscope.ZoomConverter{}.Format(max(m.data.ZoomRatio, 1)),
		"scroll "+levelscope.ScrollConverter.Format(m.data.Scroll))
	for ch := range 2 {
		s := fmt.Sprintf("%s max %s", channelName(ch), levelscope.GainConverter.Format(float64(m.data.MaxSinceReset[ch])))
		if m.data.MaxSinceReset[ch] >= 1 {
			s = styleClip.Render(s)
		}
		parts = append(parts, s)
	}
	return styleStatus.Render(strings.Join(parts, "  "))
}
