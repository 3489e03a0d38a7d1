package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Group is a contiguous index range drawn with one material slot.
type Group struct {
	Start         int
	Count         int
	MaterialIndex int
}

// Geometry is indexed, interleave-ready vertex data.
type Geometry struct {
	Positions []float32 // xyz
	Normals   []float32 // xyz
	UVs       []float32 // uv
	Indices   []uint32
	Groups    []Group
	Bounds    Box
}

// VertexCount returns the number of unique vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// Position returns vertex i.
func (g *Geometry) Position(i int) mgl32.Vec3 {
	return mgl32.Vec3{g.Positions[i*3], g.Positions[i*3+1], g.Positions[i*3+2]}
}

// Normal returns the normal of vertex i.
func (g *Geometry) Normal(i int) mgl32.Vec3 {
	return mgl32.Vec3{g.Normals[i*3], g.Normals[i*3+1], g.Normals[i*3+2]}
}

// HasUVs reports whether texture coordinates are present.
func (g *Geometry) HasUVs() bool {
	return len(g.UVs) > 0
}

// Interleaved packs position, normal and uv into one buffer of 8 floats per vertex.
// Missing uvs are written as zero.
func (g *Geometry) Interleaved() []float32 {
	n := g.VertexCount()
	out := make([]float32, 0, n*8)
	for i := 0; i < n; i++ {
		out = append(out, g.Positions[i*3:i*3+3]...)
		if len(g.Normals) >= (i+1)*3 {
			out = append(out, g.Normals[i*3:i*3+3]...)
		} else {
			out = append(out, 0, 1, 0)
		}
		if len(g.UVs) >= (i+1)*2 {
			out = append(out, g.UVs[i*2:i*2+2]...)
		} else {
			out = append(out, 0, 0)
		}
	}
	return out
}

// ComputeBounds recalculates Bounds from Positions.
func (g *Geometry) ComputeBounds() {
	n := g.VertexCount()
	if n == 0 {
		g.Bounds = Box{}
		return
	}
	b := Box{Min: g.Position(0), Max: g.Position(0)}
	for i := 1; i < n; i++ {
		p := g.Position(i)
		for k := 0; k < 3; k++ {
			b.Min[k] = min(b.Min[k], p[k])
			b.Max[k] = max(b.Max[k], p[k])
		}
	}
	g.Bounds = b
}

// ComputeNormals replaces Normals with area-weighted vertex normals.
// Only triangle geometry is meaningful here.
func (g *Geometry) ComputeNormals() {
	n := g.VertexCount()
	acc := make([]mgl32.Vec3, n)
	for i := 0; i+2 < len(g.Indices); i += 3 {
		a, b, c := g.Indices[i], g.Indices[i+1], g.Indices[i+2]
		pa, pb, pc := g.Position(int(a)), g.Position(int(b)), g.Position(int(c))
		face := pb.Sub(pa).Cross(pc.Sub(pa))
		acc[a] = acc[a].Add(face)
		acc[b] = acc[b].Add(face)
		acc[c] = acc[c].Add(face)
	}

	g.Normals = make([]float32, n*3)
	for i, v := range acc {
		if v.Len() < 1e-12 {
			v = mgl32.Vec3{0, 1, 0}
		} else {
			v = v.Normalize()
		}
		copy(g.Normals[i*3:], v[:])
	}
}
