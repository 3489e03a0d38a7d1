package renderer

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/objviewer/internal/engine/scene"
)

// draw is one material group of one mesh.
type draw struct {
	mesh        *scene.Mesh
	group       scene.Group
	material    scene.Material
	transparent bool
	depth       float32 // squared distance from the camera to the mesh center
}

// collectDraws flattens visible meshes into draws: opaque groups first in
// traversal order, then transparent groups back to front.
func collectDraws(root *scene.Node, eye mgl32.Vec3) []draw {
	var opaque, transparent []draw
	root.TraverseVisible(func(n *scene.Node) {
		if n.Mesh == nil || n.Mesh.Geometry == nil {
			return
		}
		center := n.Mesh.Geometry.Bounds.Center()
		depth := center.Sub(eye).LenSqr()
		for _, g := range n.Mesh.Geometry.Groups {
			if g.Count == 0 {
				continue
			}
			var m scene.Material
			if g.MaterialIndex >= 0 && g.MaterialIndex < len(n.Mesh.Materials) {
				m = n.Mesh.Materials[g.MaterialIndex]
			}
			d := draw{mesh: n.Mesh, group: g, material: m, depth: depth}
			if sm, ok := m.(*scene.StandardMaterial); ok && sm.Transparent() {
				d.transparent = true
				transparent = append(transparent, d)
				continue
			}
			opaque = append(opaque, d)
		}
	})

	sort.SliceStable(transparent, func(i, j int) bool {
		return transparent[i].depth > transparent[j].depth
	})
	return append(opaque, transparent...)
}
