package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/objviewer/internal/engine/texture"
	"github.com/Faultbox/objviewer/pkg/formats"
)

// MaterialType names a material implementation.
type MaterialType string

const (
	TypeStandard MaterialType = "standard"
	TypeLine     MaterialType = "line"
)

// Material is a surface description attached to a mesh slot.
type Material interface {
	Name() string
	Type() MaterialType
	// Dirty reports whether GPU state derived from the material is stale.
	Dirty() bool
	// MarkDirty flags the material for re-upload.
	MarkDirty()
	// ClearDirty is called by the renderer after upload.
	ClearDirty()
}

// TextureMapper is implemented by materials with a color map slot.
type TextureMapper interface {
	Material
	Map() *texture.Image
	SetMap(img *texture.Image)
}

type baseMaterial struct {
	name  string
	dirty bool
}

func (b *baseMaterial) Name() string { return b.name }
func (b *baseMaterial) Dirty() bool  { return b.dirty }
func (b *baseMaterial) MarkDirty()   { b.dirty = true }
func (b *baseMaterial) ClearDirty()  { b.dirty = false }

// StandardMaterial is a lit surface with an optional color map.
type StandardMaterial struct {
	baseMaterial

	Color     mgl32.Vec3
	Emissive  mgl32.Vec3
	Specular  mgl32.Vec3
	Shininess float32
	Opacity   float32

	colorMap *texture.Image
}

// NewStandardMaterial returns a white opaque material.
func NewStandardMaterial(name string) *StandardMaterial {
	return &StandardMaterial{
		baseMaterial: baseMaterial{name: name, dirty: true},
		Color:        mgl32.Vec3{1, 1, 1},
		Specular:     mgl32.Vec3{0.5, 0.5, 0.5},
		Shininess:    30,
		Opacity:      1,
	}
}

// FromMTL converts a parsed MTL material.
func FromMTL(m *formats.Material) *StandardMaterial {
	sm := NewStandardMaterial(m.Name)
	sm.Color = mgl32.Vec3(m.Diffuse)
	sm.Emissive = mgl32.Vec3(m.Emissive)
	sm.Specular = mgl32.Vec3(m.Specular)
	sm.Shininess = m.Shininess
	sm.Opacity = m.Opacity
	return sm
}

func (m *StandardMaterial) Type() MaterialType { return TypeStandard }

// Map returns the bound color map or nil.
func (m *StandardMaterial) Map() *texture.Image { return m.colorMap }

// SetMap binds img and flags the material for re-upload.
func (m *StandardMaterial) SetMap(img *texture.Image) {
	m.colorMap = img
	m.dirty = true
}

// Transparent reports whether the material needs blending.
func (m *StandardMaterial) Transparent() bool {
	return m.Opacity < 1
}

// LineMaterial is an unlit material for line overlays. It has no map slot.
type LineMaterial struct {
	baseMaterial
	Color mgl32.Vec3
}

// NewLineMaterial returns a line material with the given color.
func NewLineMaterial(name string, color mgl32.Vec3) *LineMaterial {
	return &LineMaterial{baseMaterial: baseMaterial{name: name, dirty: true}, Color: color}
}

func (m *LineMaterial) Type() MaterialType { return TypeLine }
