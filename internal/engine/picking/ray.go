// Package picking casts rays from the viewport into the scene.
package picking

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/objviewer/internal/engine/scene"
)

// parallelEpsilon rejects rays nearly parallel to a triangle.
const parallelEpsilon = 1e-7

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // normalized
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// ScreenToRay converts viewport pixel coordinates to a world-space ray.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // flip Y

	near := invViewProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := invViewProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	if near[3] != 0 {
		near = near.Mul(1 / near[3])
	}
	if far[3] != 0 {
		far = far.Mul(1 / far[3])
	}

	origin := near.Vec3()
	dir := far.Vec3().Sub(origin)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: origin, Direction: dir}
}

// IntersectBox tests the ray against an axis-aligned box with the slab method.
// If the ray starts inside the box, the exit distance is returned.
func (r Ray) IntersectBox(box scene.Box) (t float32, hit bool) {
	tmin := math32.Inf(-1)
	tmax := math32.Inf(1)

	for axis := range 3 {
		if r.Direction[axis] == 0 {
			if r.Origin[axis] < box.Min[axis] || r.Origin[axis] > box.Max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[axis] - r.Origin[axis]) / r.Direction[axis]
		t2 := (box.Max[axis] - r.Origin[axis]) / r.Direction[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectTriangle returns the distance to triangle abc (Möller-Trumbore).
// Both windings hit.
func (r Ray) IntersectTriangle(a, b, c mgl32.Vec3) (t float32, hit bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < parallelEpsilon {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Hit is the nearest surface a ray struck.
type Hit struct {
	Point    mgl32.Vec3
	Distance float32
	Mesh     *scene.Mesh
	Triangle int // index of the first of its three indices
}

// Pick returns the nearest visible triangle under the ray. Line meshes are skipped.
func Pick(root *scene.Node, ray Ray) (Hit, bool) {
	var best Hit
	found := false
	if root == nil {
		return best, false
	}

	root.TraverseVisible(func(n *scene.Node) {
		m := n.Mesh
		if m == nil || m.Mode != scene.DrawTriangles || m.Geometry == nil {
			return
		}
		g := m.Geometry
		if t, ok := ray.IntersectBox(g.Bounds); !ok || (found && t > best.Distance) {
			return
		}
		for i := 0; i+2 < len(g.Indices); i += 3 {
			a := g.Position(int(g.Indices[i]))
			b := g.Position(int(g.Indices[i+1]))
			c := g.Position(int(g.Indices[i+2]))
			t, ok := ray.IntersectTriangle(a, b, c)
			if !ok || (found && t >= best.Distance) {
				continue
			}
			best = Hit{Point: ray.At(t), Distance: t, Mesh: m, Triangle: i}
			found = true
		}
	})
	return best, found
}
