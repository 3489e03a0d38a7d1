package ui2d

import (
	"image"
	"image/draw"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	firstGlyph   = ' '
	lastGlyph    = '~'
	fallbackRune = '?'
	atlasColumns = 16
)

// Font is a fixed-width bitmap font packed into one texture atlas.
type Font struct {
	atlas  *image.RGBA
	glyphW int
	glyphH int
	texID  uint32
}

// newAtlas rasterizes the printable ASCII range of basicfont.Face7x13.
// Glyph coverage ends up in the alpha channel.
func newAtlas() *Font {
	face := basicfont.Face7x13
	gw, gh := face.Advance, face.Height
	count := int(lastGlyph-firstGlyph) + 1
	rows := (count + atlasColumns - 1) / atlasColumns

	atlas := image.NewRGBA(image.Rect(0, 0, atlasColumns*gw, rows*gh))
	draw.Draw(atlas, atlas.Bounds(), image.Transparent, image.Point{}, draw.Src)

	d := &font.Drawer{Dst: atlas, Src: image.White, Face: face}
	for r := firstGlyph; r <= lastGlyph; r++ {
		i := int(r - firstGlyph)
		x := (i % atlasColumns) * gw
		y := (i / atlasColumns) * gh
		d.Dot = fixed.P(x, y+face.Ascent)
		d.DrawString(string(r))
	}

	return &Font{atlas: atlas, glyphW: gw, glyphH: gh}
}

// NewFont builds the atlas and uploads it. Requires a current GL context.
func NewFont() *Font {
	f := newAtlas()
	b := f.atlas.Bounds()

	gl.GenTextures(1, &f.texID)
	gl.BindTexture(gl.TEXTURE_2D, f.texID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(f.atlas.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return f
}

// TextureID returns the GL atlas texture.
func (f *Font) TextureID() uint32 {
	return f.texID
}

// GlyphSize returns the cell size in pixels.
func (f *Font) GlyphSize() (int, int) {
	return f.glyphW, f.glyphH
}

// GetGlyphUV returns the atlas coordinates of r. Unknown runes map to '?'.
func (f *Font) GetGlyphUV(r rune) (u0, v0, u1, v1 float32) {
	if r < firstGlyph || r > lastGlyph {
		r = fallbackRune
	}
	i := int(r - firstGlyph)
	b := f.atlas.Bounds()
	aw, ah := float32(b.Dx()), float32(b.Dy())

	x := float32((i % atlasColumns) * f.glyphW)
	y := float32((i / atlasColumns) * f.glyphH)
	return x / aw, y / ah, (x + float32(f.glyphW)) / aw, (y + float32(f.glyphH)) / ah
}

// MeasureText returns the size of text at scale. Newlines start new lines.
func (f *Font) MeasureText(text string, scale float32) (float32, float32) {
	if text == "" {
		return 0, 0
	}
	lines, longest, cur := 1, 0, 0
	for _, r := range text {
		if r == '\n' {
			lines++
			cur = 0
			continue
		}
		cur++
		longest = max(longest, cur)
	}
	return float32(longest*f.glyphW) * scale, float32(lines*f.glyphH) * scale
}

// Close deletes the atlas texture.
func (f *Font) Close() {
	if f.texID != 0 {
		gl.DeleteTextures(1, &f.texID)
		f.texID = 0
	}
}
