// Package ui2d is a small immediate-mode UI drawn directly with OpenGL.
// It is the alternative to the Dear ImGui chrome and shares its GL context
// with the 3D viewport.
package ui2d

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/objviewer/internal/engine/shader"
)

// Renderer batches 2D quads and text and draws them in End.
type Renderer struct {
	screenWidth  int
	screenHeight int

	solidShader *shader.Program
	textShader  *shader.Program
	imageShader *shader.Program

	solidVAO, solidVBO uint32
	textVAO, textVBO   uint32
	imageVAO, imageVBO uint32

	// Per-layer batches. Layer 1 draws over layer 0 (tooltips).
	solidVertices [2][]float32
	textVertices  [2][]float32
	layer         int

	font *Font
}

// Layers.
const (
	LayerBase    = 0
	LayerOverlay = 1
)

// New creates a new 2D UI renderer. Requires a current GL context.
func New(width, height int) (*Renderer, error) {
	r := &Renderer{
		screenWidth:  width,
		screenHeight: height,
	}
	for i := range r.solidVertices {
		r.solidVertices[i] = make([]float32, 0, 4096)
		r.textVertices[i] = make([]float32, 0, 4096)
	}

	var err error
	if r.solidShader, err = shader.NewProgram(solidVertexShader, solidFragmentShader); err != nil {
		return nil, fmt.Errorf("create solid shader: %w", err)
	}
	if r.textShader, err = shader.NewProgram(textVertexShader, textFragmentShader); err != nil {
		r.Close()
		return nil, fmt.Errorf("create text shader: %w", err)
	}
	if r.imageShader, err = shader.NewProgram(textVertexShader, imageFragmentShader); err != nil {
		r.Close()
		return nil, fmt.Errorf("create image shader: %w", err)
	}

	// pos(3) + color(4)
	r.solidVAO, r.solidVBO = createBuffers(3, 4)
	// pos(3) + uv(2) + color(4)
	r.textVAO, r.textVBO = createBuffers(3, 2, 4)
	r.imageVAO, r.imageVBO = createBuffers(3, 2, 4)

	r.font = NewFont()
	return r, nil
}

// createBuffers builds a VAO with consecutive float attributes of the given sizes.
func createBuffers(sizes ...int32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	var stride int32
	for _, s := range sizes {
		stride += s * 4
	}
	var offset uintptr
	for i, s := range sizes {
		gl.VertexAttribPointerWithOffset(uint32(i), s, gl.FLOAT, false, stride, offset)
		gl.EnableVertexAttribArray(uint32(i))
		offset += uintptr(s * 4)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao, vbo
}

// Resize updates the screen dimensions.
func (r *Renderer) Resize(width, height int) {
	r.screenWidth = width
	r.screenHeight = height
}

// ScreenSize returns the current screen dimensions.
func (r *Renderer) ScreenSize() (int, int) {
	return r.screenWidth, r.screenHeight
}

func (r *Renderer) projection() mgl32.Mat4 {
	return mgl32.Ortho(0, float32(r.screenWidth), float32(r.screenHeight), 0, -1, 1)
}

// Begin starts a new UI frame on the base layer.
func (r *Renderer) Begin() {
	for i := range r.solidVertices {
		r.solidVertices[i] = r.solidVertices[i][:0]
		r.textVertices[i] = r.textVertices[i][:0]
	}
	r.layer = LayerBase
}

// SetLayer selects the batch subsequent draws go to.
func (r *Renderer) SetLayer(layer int) {
	r.layer = min(max(layer, LayerBase), LayerOverlay)
}

// End draws the queued quads, then the queued text, with blending on and depth off.
func (r *Renderer) End() {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	proj := r.projection()

	for layer := range r.solidVertices {
		solid, text := r.solidVertices[layer], r.textVertices[layer]
		if len(solid) > 0 {
			r.solidShader.Use()
			r.solidShader.SetMat4("uProjection", proj)
			upload(r.solidVAO, r.solidVBO, solid)
			gl.DrawArrays(gl.TRIANGLES, 0, int32(len(solid)/7))
		}
		if len(text) > 0 && r.font != nil {
			r.textShader.Use()
			r.textShader.SetMat4("uProjection", proj)
			r.textShader.SetInt("uTexture", 0)
			gl.ActiveTexture(gl.TEXTURE0)
			gl.BindTexture(gl.TEXTURE_2D, r.font.TextureID())
			upload(r.textVAO, r.textVBO, text)
			gl.DrawArrays(gl.TRIANGLES, 0, int32(len(text)/9))
		}
	}

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
	gl.Disable(gl.BLEND)
}

func upload(vao, vbo uint32, vertices []float32) {
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STREAM_DRAW)
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	if r.font != nil {
		r.font.Close()
	}
	for _, vao := range []*uint32{&r.solidVAO, &r.textVAO, &r.imageVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
			*vao = 0
		}
	}
	for _, vbo := range []*uint32{&r.solidVBO, &r.textVBO, &r.imageVBO} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
			*vbo = 0
		}
	}
	for _, p := range []*shader.Program{r.solidShader, r.textShader, r.imageShader} {
		if p != nil {
			p.Delete()
		}
	}
}

// DrawRect draws a filled rectangle.
func (r *Renderer) DrawRect(x, y, width, height float32, color Color) {
	r.solidVertices[r.layer] = appendQuad(r.solidVertices[r.layer], x, y, width, height, color)
}

// DrawRectOutline draws a rectangle outline.
func (r *Renderer) DrawRectOutline(x, y, width, height, thickness float32, color Color) {
	r.DrawRect(x, y, width, thickness, color)
	r.DrawRect(x, y+height-thickness, width, thickness, color)
	r.DrawRect(x, y+thickness, thickness, height-thickness*2, color)
	r.DrawRect(x+width-thickness, y+thickness, thickness, height-thickness*2, color)
}

// DrawPanel draws a panel with border.
func (r *Renderer) DrawPanel(x, y, width, height float32, bg, border Color) {
	r.DrawRect(x, y, width, height, bg)
	r.DrawRectOutline(x, y, width, height, 1, border)
}

// appendQuad appends two triangles of pos(3) + color(4) vertices.
func appendQuad(dst []float32, x, y, w, h float32, c Color) []float32 {
	return append(dst,
		x, y, 0, c.R, c.G, c.B, c.A,
		x+w, y, 0, c.R, c.G, c.B, c.A,
		x+w, y+h, 0, c.R, c.G, c.B, c.A,
		x, y, 0, c.R, c.G, c.B, c.A,
		x+w, y+h, 0, c.R, c.G, c.B, c.A,
		x, y+h, 0, c.R, c.G, c.B, c.A,
	)
}

// appendTexturedQuad appends two triangles of pos(3) + uv(2) + color(4) vertices.
func appendTexturedQuad(dst []float32, x, y, w, h, u0, v0, u1, v1 float32, c Color) []float32 {
	return append(dst,
		x, y, 0, u0, v0, c.R, c.G, c.B, c.A,
		x+w, y, 0, u1, v0, c.R, c.G, c.B, c.A,
		x+w, y+h, 0, u1, v1, c.R, c.G, c.B, c.A,
		x, y, 0, u0, v0, c.R, c.G, c.B, c.A,
		x+w, y+h, 0, u1, v1, c.R, c.G, c.B, c.A,
		x, y+h, 0, u0, v1, c.R, c.G, c.B, c.A,
	)
}

// DrawText draws text with its top-left corner at x, y.
func (r *Renderer) DrawText(x, y float32, text string, scale float32, color Color) {
	if r.font == nil {
		return
	}

	gw, gh := r.font.GlyphSize()
	charW := float32(gw) * scale
	charH := float32(gh) * scale

	curX := x
	for _, char := range text {
		if char == '\n' {
			curX = x
			y += charH
			continue
		}
		u0, v0, u1, v1 := r.font.GetGlyphUV(char)
		r.textVertices[r.layer] = appendTexturedQuad(r.textVertices[r.layer], curX, y, charW, charH, u0, v0, u1, v1, color)
		curX += charW
	}
}

// MeasureText returns the width and height of rendered text.
func (r *Renderer) MeasureText(text string, scale float32) (float32, float32) {
	if r.font == nil {
		return 0, 0
	}
	return r.font.MeasureText(text, scale)
}

// DrawImage draws a GL texture immediately, outside the batch. Textures
// rendered by GL are bottom-up, so V is flipped. Call it before Begin to draw
// behind the UI.
func (r *Renderer) DrawImage(x, y, w, h float32, textureID uint32) {
	if textureID == 0 {
		return
	}
	gl.Disable(gl.BLEND)
	gl.Disable(gl.DEPTH_TEST)

	r.imageShader.Use()
	r.imageShader.SetMat4("uProjection", r.projection())
	r.imageShader.SetInt("uTexture", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, textureID)

	vertices := appendTexturedQuad(nil, x, y, w, h, 0, 1, 1, 0, ColorWhite)
	upload(r.imageVAO, r.imageVBO, vertices)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
}

const solidVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uProjection;

out vec4 vColor;

void main() {
    gl_Position = uProjection * vec4(aPos, 1.0);
    vColor = aColor;
}
`

const solidFragmentShader = `
#version 410 core

in vec4 vColor;
out vec4 FragColor;

void main() {
    FragColor = vColor;
}
`

const textVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;
layout (location = 2) in vec4 aColor;

uniform mat4 uProjection;

out vec2 vTexCoord;
out vec4 vColor;

void main() {
    gl_Position = uProjection * vec4(aPos, 1.0);
    vTexCoord = aTexCoord;
    vColor = aColor;
}
`

const textFragmentShader = `
#version 410 core

uniform sampler2D uTexture;

in vec2 vTexCoord;
in vec4 vColor;
out vec4 FragColor;

void main() {
    float alpha = texture(uTexture, vTexCoord).a;
    FragColor = vec4(vColor.rgb, vColor.a * alpha);
}
`

const imageFragmentShader = `
#version 410 core

uniform sampler2D uTexture;

in vec2 vTexCoord;
in vec4 vColor;
out vec4 FragColor;

void main() {
    FragColor = texture(uTexture, vTexCoord) * vColor;
}
`
