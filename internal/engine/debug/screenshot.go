// Package debug provides screenshots and debug geometry for the viewport.
package debug

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/anthonynsimon/bild/imgio"
)

// ScreenshotCapture writes PNG screenshots with timestamped names.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewScreenshotCapture creates a new screenshot capture handler.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// GenerateFilename returns the path the next screenshot would be written to.
func (sc *ScreenshotCapture) GenerateFilename() string {
	timestamp := sc.now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s.png", sc.prefix, timestamp)
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}

// Capture saves img as PNG and returns the file path.
func (sc *ScreenshotCapture) Capture(img image.Image) (string, error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.GenerateFilename()
	if err := imgio.Save(filename, img, imgio.PNGEncoder()); err != nil {
		return "", fmt.Errorf("saving screenshot: %w", err)
	}
	return filename, nil
}
