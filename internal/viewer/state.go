// Package viewer is the model viewer shell: UI state, the scene it composes,
// the load lifecycle and the chrome drawn by either UI backend.
package viewer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/objviewer/internal/config"
)

// DefaultLightIntensity is the slider's starting value.
const DefaultLightIntensity = 0.5

// Canvas backgrounds: Tailwind gray-100 and gray-900.
var (
	LightBackground = mgl32.Vec4{0xF3 / 255.0, 0xF4 / 255.0, 0xF6 / 255.0, 1}
	DarkBackground  = mgl32.Vec4{0x11 / 255.0, 0x18 / 255.0, 0x27 / 255.0, 1}
)

// State is the viewer's UI state. It is not persisted.
type State struct {
	DarkMode       bool    `json:"darkMode"`
	LightIntensity float32 `json:"lightIntensity"`
	ShowStats      bool    `json:"showStats"`
	ErrorMessage   string  `json:"errorMessage,omitempty"`
}

// NewState returns the startup state for cfg.
func NewState(cfg config.ViewerConfig) State {
	s := State{
		DarkMode:       cfg.DarkMode,
		LightIntensity: DefaultLightIntensity,
		ShowStats:      cfg.ShowStats,
	}
	s.SetLightIntensity(cfg.LightIntensity)
	return s
}

// ToggleDarkMode flips the theme.
func (s *State) ToggleDarkMode() {
	s.DarkMode = !s.DarkMode
}

// ToggleStats flips the stats overlay.
func (s *State) ToggleStats() {
	s.ShowStats = !s.ShowStats
}

// SetLightIntensity stores v clamped to [0,1] and returns the stored value.
func (s *State) SetLightIntensity(v float32) float32 {
	s.LightIntensity = mgl32.Clamp(v, 0, 1)
	return s.LightIntensity
}

// SetError records a load failure.
func (s *State) SetError(msg string) {
	s.ErrorMessage = msg
}

// ClearError drops a recorded failure.
func (s *State) ClearError() {
	s.ErrorMessage = ""
}

// Background returns the canvas color for the current theme.
func (s State) Background() mgl32.Vec4 {
	if s.DarkMode {
		return DarkBackground
	}
	return LightBackground
}

// ThemeLabel names the theme a press of the toggle switches to.
func (s State) ThemeLabel() string {
	if s.DarkMode {
		return "Light"
	}
	return "Dark"
}

// StatsLabel is the stats button caption.
func (s State) StatsLabel() string {
	if s.ShowStats {
		return "Hide Stats"
	}
	return "Show Stats"
}
