// Package ui wraps the Dear ImGui SDL backend used for the viewer chrome.
package ui

import (
	"fmt"
	"os"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/objviewer/internal/logger"
)

// latinGlyphRanges covers Basic Latin and Latin-1 Supplement, 0-terminated.
var latinGlyphRanges = []imgui.Wchar{
	0x0020, 0x00FF,
	0,
}

// fontCandidates are tried in order; the ImGui default font is used if none exist.
var fontCandidates = []string{
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/Library/Fonts/Arial.ttf",
	"C:\\Windows\\Fonts\\segoeui.ttf",
	"C:\\Windows\\Fonts\\arial.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/noto/NotoSans-Regular.ttf",
}

// Backend wraps the ImGui SDL backend. It owns the window and GL context.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	dark    bool
}

// NewBackend creates the ImGui window and initializes OpenGL.
func NewBackend(title string, width, height int) (*Backend, error) {
	b := &Backend{}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	// Fonts must be added after the ImGui context exists and before the first frame.
	b.backend.SetAfterCreateContextHook(func() {
		loadFont(fontCandidates)
		imgui.CurrentIO().SetIniFilename("")
	})

	b.backend.SetBgColor(imgui.NewVec4(0.95, 0.96, 0.96, 1.0))
	b.backend.CreateWindow(title, width, height)

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init opengl: %w", err)
	}
	logger.Info("imgui backend ready",
		zap.String("gl_version", gl.GoStr(gl.GetString(gl.VERSION))))

	return b, nil
}

// loadFont loads the first existing font file from paths.
func loadFont(paths []string) {
	var fontPath string
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			fontPath = path
			break
		}
	}
	if fontPath == "" {
		logger.Debug("no system font found, using imgui default")
		return
	}

	fontCfg := imgui.NewFontConfig()
	defer fontCfg.Destroy()

	if font := imgui.CurrentIO().Fonts().AddFontFromFileTTFV(fontPath, 16.0, fontCfg, &latinGlyphRanges[0]); font == nil {
		logger.Warn("failed to load font", zap.String("path", fontPath))
		return
	}
	logger.Debug("loaded font", zap.String("path", fontPath))
}

// Run starts the main render loop. It returns when the window closes.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// Close asks the render loop to exit after the current frame.
func (b *Backend) Close() {
	b.backend.SetShouldClose(true)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// SetBackground sets the clear color behind all ImGui windows.
func (b *Backend) SetBackground(c mgl32.Vec4) {
	b.backend.SetBgColor(imgui.NewVec4(c[0], c[1], c[2], c[3]))
}

// SetDarkStyle switches the ImGui style. It is a no-op when unchanged.
func (b *Backend) SetDarkStyle(dark bool) {
	if dark == b.dark {
		return
	}
	b.dark = dark
	ApplyStyle(dark)
}

// ApplyStyle selects the built-in dark or light ImGui palette.
func ApplyStyle(dark bool) {
	if dark {
		imgui.StyleColorsDark()
	} else {
		imgui.StyleColorsLight()
	}
}

// Viewport returns the main viewport work area.
func Viewport() (posX, posY, width, height float32) {
	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()
	return workPos.X, workPos.Y, workSize.X, workSize.Y
}

// Image draws a GL texture rendered bottom-up, flipping V.
func Image(textureID uint32, width, height float32) {
	texRef := imgui.NewTextureRefTextureID(imgui.TextureID(textureID))
	imgui.ImageWithBgV(
		*texRef,
		imgui.NewVec2(width, height),
		imgui.NewVec2(0, 1),
		imgui.NewVec2(1, 0),
		imgui.NewVec4(0, 0, 0, 0),
		imgui.NewVec4(1, 1, 1, 1),
	)
}

// IsKeyPressed checks if a key was pressed this frame.
func IsKeyPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}
