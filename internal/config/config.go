// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"time"
)

// UI backends.
const (
	BackendImGui = "imgui"
	BackendUI2D  = "ui2d"
)

// Config holds all viewer settings.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	UI         UIConfig         `yaml:"ui"`
	Viewer     ViewerConfig     `yaml:"viewer"`
	Scene      SceneConfig      `yaml:"scene"`
	Assets     AssetsConfig     `yaml:"assets"`
	Automation AutomationConfig `yaml:"automation"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	FPSLimit   int    `yaml:"fps_limit"`
}

// UIConfig selects the chrome backend.
type UIConfig struct {
	Backend    string  `yaml:"backend"` // "imgui" or "ui2d"
	PanelWidth float32 `yaml:"panel_width"`
	TextScale  float32 `yaml:"text_scale"` // ui2d only
}

// ViewerConfig holds the viewer shell options.
type ViewerConfig struct {
	DarkMode       bool    `yaml:"dark_mode"`
	LightIntensity float32 `yaml:"light_intensity"`
	ShowStats      bool    `yaml:"show_stats"`

	// Optional affordances.
	ZoomControls     bool    `yaml:"zoom_controls"`
	ZoomStep         float32 `yaml:"zoom_step"`
	ErrorBanner      bool    `yaml:"error_banner"`
	ExtendedMetadata bool    `yaml:"extended_metadata"`
	OpenDialog       bool    `yaml:"open_dialog"`

	Metadata []MetadataEntry `yaml:"metadata"`
}

// MetadataEntry is one row of the model information panel.
type MetadataEntry struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// SceneConfig holds camera, light and controls defaults.
type SceneConfig struct {
	CameraPosition [3]float32 `yaml:"camera_position"`
	FOV            float32    `yaml:"fov"`
	Near           float32    `yaml:"near"`
	Far            float32    `yaml:"far"`

	AmbientIntensity float32    `yaml:"ambient_intensity"`
	PointLight       [3]float32 `yaml:"point_light"`
	PointIntensity   float32    `yaml:"point_intensity"`

	EnableDamping bool    `yaml:"enable_damping"`
	DampingFactor float32 `yaml:"damping_factor"`
	MinDistance   float32 `yaml:"min_distance"`
	MaxDistance   float32 `yaml:"max_distance"`

	Environment string `yaml:"environment"`
}

// AssetsConfig holds the asset triplet and loading options.
type AssetsConfig struct {
	SearchPaths    []string `yaml:"search_paths"`
	Model          string   `yaml:"model"`
	Materials      string   `yaml:"materials"` // empty: the model's mtllib
	Texture        string   `yaml:"texture"`   // empty with no materials: the library's map_Kd
	MaxTextureSize int      `yaml:"max_texture_size"`
	Watch          bool     `yaml:"watch"`
}

// AutomationConfig holds the command file settings.
type AutomationConfig struct {
	CommandFile string `yaml:"command_file"`
	StateFile   string `yaml:"state_file"`
}

// ScreenshotConfig holds screenshot output settings.
type ScreenshotConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "3D Model Viewer",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		UI: UIConfig{
			Backend:    BackendImGui,
			PanelWidth: 320,
			TextScale:  1,
		},
		Viewer: ViewerConfig{
			DarkMode:         false,
			LightIntensity:   0.5,
			ShowStats:        false,
			ZoomControls:     false,
			ZoomStep:         0.95,
			ErrorBanner:      true,
			ExtendedMetadata: false,
			OpenDialog:       false,
			Metadata:         DefaultMetadata(),
		},
		Scene: SceneConfig{
			CameraPosition:   [3]float32{0, 0, 5},
			FOV:              75,
			Near:             0.1,
			Far:              1000,
			AmbientIntensity: 0.5,
			PointLight:       [3]float32{10, 10, 10},
			PointIntensity:   1,
			EnableDamping:    true,
			DampingFactor:    0.05,
			MinDistance:      0.5,
			MaxDistance:      100,
			Environment:      "sunset",
		},
		Assets: AssetsConfig{
			SearchPaths:    []string{"."},
			Model:          "models/capsule.obj",
			Materials:      "models/capsule.mtl",
			Texture:        "models/capsule0.png",
			MaxTextureSize: 4096,
			Watch:          false,
		},
		Screenshot: ScreenshotConfig{
			Dir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// DefaultMetadata returns the model information rows for the bundled capsule.
func DefaultMetadata() []MetadataEntry {
	return []MetadataEntry{
		{Label: "Format", Value: "OBJ"},
		{Label: "Source", Value: "Local Files"},
		{Label: "Model", Value: "Capsule"},
		{Label: "Materials", Value: "MTL + Texture"},
	}
}

// AutomationPollInterval is how often the command file is checked.
const AutomationPollInterval = 100 * time.Millisecond

// Validate checks the config and normalizes values that have a safe range.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	switch c.UI.Backend {
	case BackendImGui, BackendUI2D:
	default:
		return fmt.Errorf("unknown ui backend %q", c.UI.Backend)
	}
	if c.Scene.FOV <= 0 || c.Scene.FOV >= 180 {
		return fmt.Errorf("invalid fov %v", c.Scene.FOV)
	}
	if c.Scene.Near <= 0 || c.Scene.Far <= c.Scene.Near {
		return fmt.Errorf("invalid clip planes near=%v far=%v", c.Scene.Near, c.Scene.Far)
	}
	if c.Assets.Model == "" {
		return fmt.Errorf("no model path configured")
	}

	c.Viewer.LightIntensity = clamp01(c.Viewer.LightIntensity)
	c.Scene.DampingFactor = clamp01(c.Scene.DampingFactor)
	if c.Viewer.ZoomStep <= 0 || c.Viewer.ZoomStep >= 1 {
		c.Viewer.ZoomStep = 0.95
	}
	if c.UI.TextScale <= 0 {
		c.UI.TextScale = 1
	}
	return nil
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
