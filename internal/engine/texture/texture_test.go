package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// twoRowPNG returns a 2x2 PNG with a red top row and a blue bottom row.
func twoRowPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		img.SetNRGBA(x, 0, color.NRGBA{R: 255, A: 255})
		img.SetNRGBA(x, 1, color.NRGBA{B: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func TestDecode_PNG(t *testing.T) {
	img, err := Decode("capsule0.png", twoRowPNG(t), Options{})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Format != "png" {
		t.Errorf("expected format png, got %s", img.Format)
	}
	if img.Width() != 2 || img.Height() != 2 {
		t.Errorf("expected 2x2, got %dx%d", img.Width(), img.Height())
	}
	if got := img.RGBA.RGBAAt(0, 0); got.R != 255 || got.B != 0 {
		t.Errorf("expected red top-left without flip, got %v", got)
	}
	if img.Resized() {
		t.Error("expected image not to be resized")
	}
}

func TestDecode_FlipY(t *testing.T) {
	img, err := Decode("capsule0.png", twoRowPNG(t), Options{FlipY: true})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got := img.RGBA.RGBAAt(0, 0); got.B != 255 || got.R != 0 {
		t.Errorf("expected blue first row after flip, got %v", got)
	}
	if got := img.RGBA.RGBAAt(1, 1); got.R != 255 {
		t.Errorf("expected red last row after flip, got %v", got)
	}
}

func TestDecode_Unsupported(t *testing.T) {
	_, err := Decode("notes.txt", []byte("definitely not an image"), Options{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDecode_MaxSize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 16))
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encoding png: %v", err)
	}

	img, err := Decode("wide.png", buf.Bytes(), Options{MaxSize: 32})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Width() != 32 || img.Height() != 8 {
		t.Errorf("expected 32x8, got %dx%d", img.Width(), img.Height())
	}
	if img.SourceWidth != 64 || img.SourceHeight != 16 {
		t.Errorf("expected source 64x16, got %dx%d", img.SourceWidth, img.SourceHeight)
	}
	if !img.Resized() {
		t.Error("expected Resized to be true")
	}
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{100, 50, 0, 100, 50},
		{100, 50, 200, 100, 50},
		{400, 100, 200, 200, 50},
		{100, 400, 200, 50, 200},
		{5000, 1, 100, 100, 1},
	}
	for _, tt := range tests {
		w, h := FitSize(tt.w, tt.h, tt.max)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("FitSize(%d,%d,%d): expected %dx%d, got %dx%d", tt.w, tt.h, tt.max, tt.wantW, tt.wantH, w, h)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capsule0.png")
	if err := os.WriteFile(path, twoRowPNG(t), 0644); err != nil {
		t.Fatalf("writing png: %v", err)
	}

	img, err := Load(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Name != path {
		t.Errorf("expected name %s, got %s", path, img.Name)
	}

	if _, err := Load(filepath.Join(dir, "missing.jpg"), DefaultOptions()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

// makeTGA builds a TGA file for a 2x1 image.
func makeTGA(imageType, bpp, descriptor uint8, pixels []byte) []byte {
	header := []byte{
		0, 0, imageType,
		0, 0, 0, 0, 0,
		0, 0, 0, 0,
		2, 0, // width
		1, 0, // height
		bpp, descriptor,
	}
	return append(header, pixels...)
}

func TestDecodeTGA(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    [2]color.NRGBA
		wantErr bool
	}{
		{
			name: "uncompressed 24-bit",
			data: makeTGA(2, 24, 0, []byte{0, 0, 255, 255, 0, 0}),
			want: [2]color.NRGBA{{R: 255, A: 255}, {B: 255, A: 255}},
		},
		{
			name: "uncompressed 32-bit alpha",
			data: makeTGA(2, 32, 0x20, []byte{0, 255, 0, 128, 0, 0, 0, 0}),
			want: [2]color.NRGBA{{G: 255, A: 128}, {}},
		},
		{
			name: "rle run",
			data: makeTGA(10, 24, 0, []byte{0x81, 10, 20, 30}),
			want: [2]color.NRGBA{{R: 30, G: 20, B: 10, A: 255}, {R: 30, G: 20, B: 10, A: 255}},
		},
		{
			name: "rle raw packet grayscale",
			data: makeTGA(11, 8, 0, []byte{0x01, 40, 200}),
			want: [2]color.NRGBA{{R: 40, G: 40, B: 40, A: 255}, {R: 200, G: 200, B: 200, A: 255}},
		},
		{
			name:    "truncated pixels",
			data:    makeTGA(2, 24, 0, []byte{1, 2, 3}),
			wantErr: true,
		},
		{
			name:    "color mapped",
			data:    func() []byte { d := makeTGA(1, 8, 0, []byte{0, 0}); d[1] = 1; return d }(),
			wantErr: true,
		},
		{
			name:    "bad depth",
			data:    makeTGA(2, 16, 0, []byte{0, 0, 0, 0}),
			wantErr: true,
		},
		{
			name:    "short header",
			data:    []byte{0, 0, 2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeTGA(tt.data)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeTGA failed: %v", err)
			}
			nrgba := img.(*image.NRGBA)
			for x := 0; x < 2; x++ {
				if got := nrgba.NRGBAAt(x, 0); got != tt.want[x] {
					t.Errorf("pixel %d: expected %v, got %v", x, tt.want[x], got)
				}
			}
		})
	}
}

func TestDecode_TGAByExtension(t *testing.T) {
	img, err := Decode("skin.TGA", makeTGA(2, 24, 0, []byte{0, 0, 255, 255, 0, 0}), Options{})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Format != "tga" {
		t.Errorf("expected format tga, got %s", img.Format)
	}
	if got := img.RGBA.RGBAAt(0, 0); got.R != 255 {
		t.Errorf("expected red first pixel, got %v", got)
	}
}
