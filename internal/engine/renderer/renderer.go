// Package renderer draws a scene graph into an offscreen framebuffer with OpenGL 4.1.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/objviewer/internal/engine/camera"
	"github.com/Faultbox/objviewer/internal/engine/framebuffer"
	"github.com/Faultbox/objviewer/internal/engine/lighting"
	"github.com/Faultbox/objviewer/internal/engine/renderer/shaders"
	"github.com/Faultbox/objviewer/internal/engine/scene"
	"github.com/Faultbox/objviewer/internal/engine/shader"
	"github.com/Faultbox/objviewer/internal/engine/texture"
	"github.com/Faultbox/objviewer/internal/logger"
)

// InitGL loads OpenGL function pointers. It must run after a context is current.
func InitGL() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)
	return nil
}

// Frame is everything needed to draw one frame.
type Frame struct {
	Root        *scene.Node
	Camera      *camera.PerspectiveCamera
	Ambient     lighting.AmbientLight
	Lights      *lighting.PointLightBuffer
	LightScale  float32 // multiplies point light intensity
	Environment lighting.Environment
	Background  mgl32.Vec4
}

// Stats describes the last rendered frame.
type Stats struct {
	DrawCalls int
	Triangles int
	Meshes    int
	Textures  int
}

type gpuMesh struct {
	vao, vbo, ebo uint32
	groups        []scene.Group
	mode          scene.DrawMode
}

// Renderer owns the GPU copies of a scene graph and the viewport framebuffer.
type Renderer struct {
	fb          *framebuffer.Framebuffer
	meshProgram *shader.Program
	lineProgram *shader.Program

	meshes   map[*scene.Mesh]*gpuMesh
	textures map[*texture.Image]uint32

	fallbackTex uint32
	stats       Stats
}

// New creates a renderer with a framebuffer of the given size.
func New(width, height int32) (*Renderer, error) {
	r := &Renderer{
		meshes:   make(map[*scene.Mesh]*gpuMesh),
		textures: make(map[*texture.Image]uint32),
	}

	var err error
	r.fb, err = framebuffer.New(width, height)
	if err != nil {
		return nil, err
	}

	r.meshProgram, err = shader.NewProgram(shaders.MeshVertexShader, shaders.MeshFragmentShader)
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	r.lineProgram, err = shader.NewProgram(shaders.LineVertexShader, shaders.LineFragmentShader)
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("line shader: %w", err)
	}

	r.createFallbackTexture()
	return r, nil
}

func (r *Renderer) createFallbackTexture() {
	gl.GenTextures(1, &r.fallbackTex)
	gl.BindTexture(gl.TEXTURE_2D, r.fallbackTex)
	white := []uint8{255, 255, 255, 255}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(white))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
}

// Sync uploads meshes not yet on the GPU and re-uploads maps of dirty materials.
func (r *Renderer) Sync(root *scene.Node) {
	root.Traverse(func(n *scene.Node) {
		if n.Mesh == nil {
			return
		}
		if _, ok := r.meshes[n.Mesh]; !ok {
			r.meshes[n.Mesh] = r.uploadMesh(n.Mesh)
		}
		for _, m := range n.Mesh.Materials {
			if m == nil || !m.Dirty() {
				continue
			}
			if tm, ok := m.(scene.TextureMapper); ok && tm.Map() != nil {
				r.texture(tm.Map())
			}
			m.ClearDirty()
		}
	})
}

func (r *Renderer) uploadMesh(mesh *scene.Mesh) *gpuMesh {
	g := mesh.Geometry
	gm := &gpuMesh{groups: g.Groups, mode: mesh.Mode}
	vertices := g.Interleaved()
	if len(vertices) == 0 || len(g.Indices) == 0 {
		return gm
	}

	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)

	gl.GenBuffers(1, &gm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &gm.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, unsafe.Pointer(&g.Indices[0]), gl.STATIC_DRAW)

	const stride = 8 * 4
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	return gm
}

// texture returns the GL texture for img, uploading it on first use.
func (r *Renderer) texture(img *texture.Image) uint32 {
	if img == nil || img.RGBA == nil {
		return r.fallbackTex
	}
	if id, ok := r.textures[img]; ok {
		return id
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Width()), int32(img.Height()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.RGBA.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameterf(gl.TEXTURE_2D, gl.TEXTURE_MAX_ANISOTROPY, 8.0)

	r.textures[img] = id
	logger.Debug("texture uploaded",
		zap.String("name", img.Name),
		zap.Int("width", img.Width()),
		zap.Int("height", img.Height()),
	)
	return id
}

// Render draws frame into the framebuffer and returns its color texture.
// A nil Root draws only the background.
func (r *Renderer) Render(frame Frame) uint32 {
	restore := r.fb.BindWithViewport()
	defer restore()

	r.fb.Clear(frame.Background)
	r.stats = Stats{Textures: len(r.textures)}

	if frame.Root == nil || frame.Camera == nil {
		return r.fb.ColorTexture()
	}
	r.Sync(frame.Root)

	w, h := r.fb.Size()
	frame.Camera.SetViewport(int(w), int(h))
	viewProj := frame.Camera.ViewProjection()

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	draws := collectDraws(frame.Root, frame.Camera.Position)
	r.setupMeshProgram(frame, viewProj)
	for _, d := range draws {
		if d.mesh.Mode == scene.DrawLines {
			continue
		}
		r.drawSurface(d)
	}

	r.lineProgram.Use()
	r.lineProgram.SetMat4("uViewProj", viewProj)
	r.lineProgram.SetMat4("uModel", mgl32.Ident4())
	for _, d := range draws {
		if d.mesh.Mode == scene.DrawLines {
			r.drawLines(d)
		}
	}

	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
	gl.Disable(gl.DEPTH_TEST)
	return r.fb.ColorTexture()
}

func (r *Renderer) setupMeshProgram(frame Frame, viewProj mgl32.Mat4) {
	p := r.meshProgram
	p.Use()
	p.SetMat4("uViewProj", viewProj)
	p.SetMat4("uModel", mgl32.Ident4())
	p.SetMat3("uNormalMatrix", mgl32.Ident3())
	p.SetVec3("uCameraPos", frame.Camera.Position)

	p.SetVec3("uAmbient", frame.Ambient.Radiance())
	env := frame.Environment
	p.SetVec3("uEnvSky", env.Sky)
	p.SetVec3("uEnvGround", env.Ground)
	p.SetFloat("uEnvIntensity", env.Intensity)
	p.SetVec3("uEnvSunDir", env.Sun)
	p.SetVec3("uEnvSunColor", env.SunColor)

	if frame.Lights != nil {
		p.SetInt("uPointLightCount", int32(frame.Lights.Count()))
		p.SetVec3Array("uPointLightPositions", frame.Lights.Positions())
		p.SetVec3Array("uPointLightColors", frame.Lights.Colors(frame.LightScale))
		p.SetFloatArray("uPointLightRanges", frame.Lights.Ranges())
	} else {
		p.SetInt("uPointLightCount", 0)
	}

	gl.ActiveTexture(gl.TEXTURE0)
	p.SetInt("uMap", 0)
}

func (r *Renderer) drawSurface(d draw) {
	gm := r.meshes[d.mesh]
	if gm == nil || gm.vao == 0 {
		return
	}
	p := r.meshProgram
	gl.BindVertexArray(gm.vao)

	group := d.group
	tex := r.fallbackTex
	hasMap := false
	switch m := d.material.(type) {
	case *scene.StandardMaterial:
		p.SetVec3("uColor", m.Color)
		p.SetVec3("uEmissive", m.Emissive)
		p.SetVec3("uSpecular", m.Specular)
		p.SetFloat("uShininess", max(m.Shininess, 1))
		p.SetFloat("uOpacity", m.Opacity)
		if m.Map() != nil {
			tex = r.texture(m.Map())
			hasMap = true
		}
		gl.DepthMask(!m.Transparent())
	default:
		p.SetVec3("uColor", mgl32.Vec3{1, 1, 1})
		p.SetVec3("uEmissive", mgl32.Vec3{})
		p.SetVec3("uSpecular", mgl32.Vec3{})
		p.SetFloat("uShininess", 1)
		p.SetFloat("uOpacity", 1)
		gl.DepthMask(true)
	}
	p.SetBool("uHasMap", hasMap)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(group.Count), gl.UNSIGNED_INT, uintptr(group.Start*4))
	gl.DepthMask(true)

	r.stats.DrawCalls++
	r.stats.Triangles += group.Count / 3
}

func (r *Renderer) drawLines(d draw) {
	gm := r.meshes[d.mesh]
	if gm == nil || gm.vao == 0 {
		return
	}
	color := mgl32.Vec3{1, 1, 1}
	if lm, ok := d.material.(*scene.LineMaterial); ok {
		color = lm.Color
	}
	r.lineProgram.SetVec3("uColor", color)
	gl.BindVertexArray(gm.vao)
	gl.DrawElementsWithOffset(gl.LINES, int32(d.group.Count), gl.UNSIGNED_INT, uintptr(d.group.Start*4))
	r.stats.DrawCalls++
}

// Stats returns counters for the last frame.
func (r *Renderer) Stats() Stats {
	s := r.stats
	s.Meshes = len(r.meshes)
	return s
}

// Size returns the framebuffer size.
func (r *Renderer) Size() (int32, int32) {
	return r.fb.Size()
}

// Resize resizes the framebuffer.
func (r *Renderer) Resize(width, height int32) {
	if r.fb.Resize(width, height) {
		logger.Debug("viewport resized", zap.Int32("width", width), zap.Int32("height", height))
	}
}

// ColorTexture returns the framebuffer color attachment.
func (r *Renderer) ColorTexture() uint32 {
	return r.fb.ColorTexture()
}

// Framebuffer returns the viewport render target.
func (r *Renderer) Framebuffer() *framebuffer.Framebuffer {
	return r.fb
}

// Release deletes GPU resources of every mesh and texture in root.
func (r *Renderer) Release(root *scene.Node) {
	root.Traverse(func(n *scene.Node) {
		if n.Mesh == nil {
			return
		}
		if gm, ok := r.meshes[n.Mesh]; ok {
			deleteMesh(gm)
			delete(r.meshes, n.Mesh)
		}
		for _, m := range n.Mesh.Materials {
			tm, ok := m.(scene.TextureMapper)
			if !ok || tm.Map() == nil {
				continue
			}
			if id, ok := r.textures[tm.Map()]; ok {
				gl.DeleteTextures(1, &id)
				delete(r.textures, tm.Map())
			}
		}
	})
}

func deleteMesh(gm *gpuMesh) {
	if gm.vao != 0 {
		gl.DeleteVertexArrays(1, &gm.vao)
	}
	if gm.vbo != 0 {
		gl.DeleteBuffers(1, &gm.vbo)
	}
	if gm.ebo != 0 {
		gl.DeleteBuffers(1, &gm.ebo)
	}
}

// Destroy releases all OpenGL resources.
func (r *Renderer) Destroy() {
	for mesh, gm := range r.meshes {
		deleteMesh(gm)
		delete(r.meshes, mesh)
	}
	for img, id := range r.textures {
		gl.DeleteTextures(1, &id)
		delete(r.textures, img)
	}
	if r.meshProgram != nil {
		r.meshProgram.Delete()
	}
	if r.lineProgram != nil {
		r.lineProgram.Delete()
	}
	if r.fallbackTex != 0 {
		gl.DeleteTextures(1, &r.fallbackTex)
		r.fallbackTex = 0
	}
	if r.fb != nil {
		r.fb.Destroy()
	}
}
