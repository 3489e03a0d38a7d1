package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagBackend    = flag.String("backend", "", "UI backend: imgui or ui2d")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagModel      = flag.String("model", "", "Path to the OBJ mesh; -mtl and -texture default to its mtllib and map_Kd")
	flagMaterials  = flag.String("mtl", "", "Path to the MTL material library")
	flagTexture    = flag.String("texture", "", "Path to the texture image")
	flagWatch      = flag.Bool("watch", false, "Reload the model when asset files change")
	flagDark       = flag.Bool("dark", false, "Start in dark mode")
	flagCommands   = flag.String("commands", "", "Path to a JSON command file polled every frame")
	flagWriteCfg   = flag.Bool("write-config", false, "Write the effective config to -config (or the user config dir) and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigRequested reports whether -write-config was given.
func WriteConfigRequested() bool {
	return *flagWriteCfg
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagBackend != "" {
		cfg.UI.Backend = *flagBackend
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagModel != "" {
		cfg.Assets.Model = *flagModel
		// Companions come from the new model unless given alongside it.
		cfg.Assets.Materials = ""
		cfg.Assets.Texture = ""
	}
	if *flagMaterials != "" {
		cfg.Assets.Materials = *flagMaterials
	}
	if *flagTexture != "" {
		cfg.Assets.Texture = *flagTexture
	}
	if *flagWatch {
		cfg.Assets.Watch = true
	}
	if *flagDark {
		cfg.Viewer.DarkMode = true
	}
	if *flagCommands != "" {
		cfg.Automation.CommandFile = *flagCommands
	}
}
