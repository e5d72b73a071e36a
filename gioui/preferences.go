package gioui

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"

	"gioui.org/unit"
	"gopkg.in/yaml.v2"
)

type (
	Preferences struct {
		Window  WindowPreferences
		History HistoryPreferences
		Theme   ThemePreferences
	}

	WindowPreferences struct {
		Width     int
		Height    int
		Maximized bool `yaml:",omitempty"`
	}

	// HistoryPreferences.MinDB and MaxDB are the levels at the bottom and
	// the top of a channel lane. ZoomStep is the change of the normalized
	// zoom per mouse wheel notch.
	HistoryPreferences struct {
		MinDB    float64
		MaxDB    float64
		ZoomStep float64
	}

	ThemePreferences struct {
		Background color.NRGBA    `yaml:",flow"`
		Grid       color.NRGBA    `yaml:",flow"`
		Text       color.NRGBA    `yaml:",flow"`
		Channels   [2]color.NRGBA `yaml:",flow"`
		MaxLine    color.NRGBA    `yaml:",flow"`
		Clip       color.NRGBA    `yaml:",flow"`
		Paused     color.NRGBA    `yaml:",flow"`
	}
)

//go:embed preferences.yml
var defaultPreferencesYaml []byte

func loadDefaultPreferences() Preferences {
	var preferences Preferences
	err := yaml.UnmarshalStrict(defaultPreferencesYaml, &preferences)
	if err != nil {
		panic(fmt.Errorf("failed to unmarshal preferences: %w", err))
	}
	return preferences
}

// MakePreferences returns the default preferences overridden by
// $UserConfigDir/levelscope/preferences.yml, if it exists. A broken file is
// reported as a warning and the defaults are used for it.
func MakePreferences() (Preferences, error) {
	preferences := loadDefaultPreferences()
	configDir, err := os.UserConfigDir()
	if err != nil {
		return preferences, nil
	}
	path := filepath.Join(configDir, "levelscope", "preferences.yml")
	bytes, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return preferences, nil
	}
	if err != nil {
		return preferences, fmt.Errorf("could not read %v: %w", path, err)
	}
	custom := preferences
	if err := yaml.UnmarshalStrict(bytes, &custom); err != nil {
		return preferences, fmt.Errorf("could not parse %v: %w", path, err)
	}
	if custom.History.MaxDB <= custom.History.MinDB {
		return preferences, fmt.Errorf("%v: history maxdb must be above mindb", path)
	}
	return custom, nil
}

func (p Preferences) WindowSize() (unit.Dp, unit.Dp) {
	return unit.Dp(p.Window.Width), unit.Dp(p.Window.Height)
}
