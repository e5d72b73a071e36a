package gioui

import (
	"log"

	"gioui.org/font/gofont"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

type Theme struct {
	Material *material.Theme
	ThemePreferences

	Open, Pause, Play, Reset, Bypass, Listen *widget.Icon
}

func NewTheme(p ThemePreferences) *Theme {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	th.Palette.Bg = p.Background
	th.Palette.Fg = p.Text
	th.Palette.ContrastBg = p.Channels[0]
	th.Palette.ContrastFg = p.Background
	return &Theme{
		Material:         th,
		ThemePreferences: p,
		Open:             mustIcon(icons.FileFolderOpen),
		Pause:            mustIcon(icons.AVPause),
		Play:             mustIcon(icons.AVPlayArrow),
		Reset:            mustIcon(icons.AVReplay),
		Bypass:           mustIcon(icons.AVVolumeOff),
		Listen:           mustIcon(icons.AVVolumeUp),
	}
}

func mustIcon(data []byte) *widget.Icon {
	icon, err := widget.NewIcon(data)
	if err != nil {
		log.Fatal(err)
	}
	return icon
}
