// Package texture decodes texture images and prepares them for GL upload.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder
)

// ErrUnsupportedFormat is returned for data no registered decoder accepts.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Options control how a decoded image is prepared.
type Options struct {
	// FlipY flips rows so the first row is the bottom of the image, matching
	// GL texture coordinates with v pointing up.
	FlipY bool
	// MaxSize downsizes images whose larger side exceeds it. Zero disables.
	MaxSize int
}

// DefaultOptions returns the options used for model textures.
func DefaultOptions() Options {
	return Options{FlipY: true, MaxSize: 4096}
}

// Image is a decoded texture ready for upload.
type Image struct {
	Name   string
	Format string
	RGBA   *image.RGBA

	// Size of the source before any downscale.
	SourceWidth  int
	SourceHeight int
}

// Width returns the prepared width in pixels.
func (img *Image) Width() int {
	return img.RGBA.Bounds().Dx()
}

// Height returns the prepared height in pixels.
func (img *Image) Height() int {
	return img.RGBA.Bounds().Dy()
}

// Resized reports whether the image was downscaled.
func (img *Image) Resized() bool {
	return img.Width() != img.SourceWidth || img.Height() != img.SourceHeight
}

// Load reads and decodes an image file.
func Load(path string, opts Options) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}
	return Decode(path, data, opts)
}

// Decode decodes image data. The name's extension selects the TGA decoder,
// which has no magic number; everything else is sniffed by image.Decode.
func Decode(name string, data []byte, opts Options) (*Image, error) {
	var (
		src    image.Image
		format string
		err    error
	)

	if strings.EqualFold(filepath.Ext(name), ".tga") {
		src, err = DecodeTGA(data)
		format = "tga"
	} else {
		src, format, err = image.Decode(bytes.NewReader(data))
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}

	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("decoding %s: empty image", name)
	}

	return &Image{
		Name:         name,
		Format:       format,
		RGBA:         Prepare(src, opts),
		SourceWidth:  b.Dx(),
		SourceHeight: b.Dy(),
	}, nil
}

// Prepare converts src to RGBA, applying the downscale and flip in opts.
func Prepare(src image.Image, opts Options) *image.RGBA {
	w, h := FitSize(src.Bounds().Dx(), src.Bounds().Dy(), opts.MaxSize)

	var out *image.RGBA
	if w != src.Bounds().Dx() || h != src.Bounds().Dy() {
		out = transform.Resize(src, w, h, transform.Linear)
	} else {
		out = clone.AsRGBA(src)
	}

	if opts.FlipY {
		out = transform.FlipV(out)
	}
	return out
}

// FitSize scales w×h down so neither side exceeds maxSize, keeping aspect.
func FitSize(w, h, maxSize int) (int, int) {
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return w, h
	}
	if w >= h {
		return maxSize, max(1, h*maxSize/w)
	}
	return max(1, w*maxSize/h), maxSize
}
