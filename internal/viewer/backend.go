package viewer

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/objviewer/internal/config"
	"github.com/Faultbox/objviewer/internal/logger"
)

// Titles and captions shared by both chromes.
const (
	PanelTitle       = "3D Model Viewer"
	InfoHeader       = "Model Information"
	InfoTooltip      = "Technical details about the loaded 3D model"
	LoadingIndicator = "Loading model..."
	ControlsHint     = "Drag to rotate, right-drag to pan, scroll to zoom, double-click to focus"
)

// Run mounts the viewer in the configured UI backend and blocks until the
// window closes. It must be called on the locked main thread.
func Run(ctx context.Context, cfg *config.Config) (err error) {
	v := New(cfg)
	defer func() {
		err = multierr.Append(err, v.Unmount())
	}()

	v.Mount(ctx)
	logger.Info("starting viewer",
		zap.String("backend", cfg.UI.Backend),
		zap.String("environment", v.Scene.Environment.Name))

	switch cfg.UI.Backend {
	case config.BackendImGui:
		return runImGui(v)
	case config.BackendUI2D:
		return runUI2D(v)
	default:
		return fmt.Errorf("unknown ui backend %q", cfg.UI.Backend)
	}
}

// handleKey maps the viewer shortcuts. It reports whether a screenshot was requested.
func (v *Viewer) handleKey(k Key) bool {
	switch k {
	case KeyQuit:
		v.RequestQuit()
	case KeyScreenshot:
		return true
	case KeyResetCamera:
		v.ResetCamera()
	case KeyTheme:
		v.ToggleDarkMode()
	case KeyStats:
		v.ToggleStats()
	case KeyDumpState:
		if path, err := v.WriteState(); err != nil {
			logger.Warn("state dump failed", zap.Error(err))
		} else {
			logger.Info("state dumped", zap.String("path", path))
		}
	}
	return false
}

// Key is a backend-independent shortcut.
type Key int

// Shortcuts.
const (
	KeyNone Key = iota
	KeyQuit
	KeyScreenshot
	KeyResetCamera
	KeyTheme
	KeyStats
	KeyDumpState
)
