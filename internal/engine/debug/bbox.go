package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/objviewer/internal/engine/scene"
)

// BoundsColor is the wireframe color of the bounds overlay.
var BoundsColor = mgl32.Vec3{0.2, 0.9, 0.4}

// GenerateBBoxWireframeVertices creates line vertices for a wireframe bounding box.
// Returns 24 vertices (12 edges × 2 endpoints), format: [x, y, z] per vertex.
func GenerateBBoxWireframeVertices(box scene.Box) []float32 {
	minX, minY, minZ := box.Min[0], box.Min[1], box.Min[2]
	maxX, maxY, maxZ := box.Max[0], box.Max[1], box.Max[2]
	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// BoundsNode builds a line mesh outlining box, padded on every side.
func BoundsNode(box scene.Box, padding float32) *scene.Node {
	pad := mgl32.Vec3{padding, padding, padding}
	box = scene.Box{Min: box.Min.Sub(pad), Max: box.Max.Add(pad)}

	positions := GenerateBBoxWireframeVertices(box)
	indices := make([]uint32, len(positions)/3)
	for i := range indices {
		indices[i] = uint32(i)
	}

	geom := &scene.Geometry{
		Positions: positions,
		Indices:   indices,
		Groups:    []scene.Group{{Start: 0, Count: len(indices), MaterialIndex: 0}},
	}
	geom.ComputeBounds()

	return scene.NewMeshNode("bounds", &scene.Mesh{
		Geometry:  geom,
		Materials: []scene.Material{scene.NewLineMaterial("bounds", BoundsColor)},
		Mode:      scene.DrawLines,
	})
}
