package model

import (
	"github.com/Faultbox/objviewer/internal/engine/scene"
	"github.com/Faultbox/objviewer/internal/engine/texture"
)

// Binder assigns a texture to every material with a texture-map slot.
// It remembers the last (mesh, texture) pair and skips identical requests.
type Binder struct {
	mesh    *scene.Node
	texture *texture.Image
	bound   int
}

// Bind walks the mesh once and sets the texture on each TextureMapper.
// Materials without a map slot are skipped. If neither the mesh nor the
// texture changed since the last call, nothing happens and rebound is false.
// A nil mesh or texture is not bound.
func (b *Binder) Bind(a *Assets) (bound int, rebound bool) {
	if a == nil || a.Mesh == nil || a.Texture == nil {
		return 0, false
	}
	if a.Mesh == b.mesh && a.Texture == b.texture {
		return b.bound, false
	}

	bound = BindTexture(a.Mesh, a.Texture)
	b.mesh, b.texture, b.bound = a.Mesh, a.Texture, bound
	return bound, true
}

// Reset forgets the last bound pair.
func (b *Binder) Reset() {
	*b = Binder{}
}

// BindTexture sets img on every TextureMapper under root. Shared materials
// count once.
func BindTexture(root *scene.Node, img *texture.Image) int {
	seen := make(map[scene.Material]bool)
	n := 0
	root.EachMaterial(func(m scene.Material) {
		if seen[m] {
			return
		}
		seen[m] = true
		if tm, ok := m.(scene.TextureMapper); ok {
			tm.SetMap(img)
			n++
		}
	})
	return n
}
