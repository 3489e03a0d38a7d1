package viewer

import (
	"errors"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/objviewer/internal/logger"
)

// OpenDialog shows a native file picker off the render thread. Picks are
// returned by Poll and applied by the shell on the render thread.
type OpenDialog struct {
	picks chan string
	busy  bool
}

// NewOpenDialog creates an idle dialog.
func NewOpenDialog() *OpenDialog {
	return &OpenDialog{picks: make(chan string, 1)}
}

// Show opens the picker unless it is already open.
func (d *OpenDialog) Show() {
	if d.busy {
		return
	}
	d.busy = true

	go func() {
		filename, err := dialog.File().
			Filter("Wavefront OBJ", "obj").
			Filter("All Files", "*").
			Title("Open Model").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				logger.Warn("file dialog failed", zap.Error(err))
			}
			filename = ""
		}
		d.picks <- filename
	}()
}

// Poll returns a picked path, or "" when nothing was picked this frame.
func (d *OpenDialog) Poll() string {
	select {
	case path := <-d.picks:
		d.busy = false
		return path
	default:
		return ""
	}
}
