// Package scene holds the CPU-side scene graph built from a loaded model:
// nodes, geometry and materials. It does not touch OpenGL.
package scene

import "github.com/go-gl/mathgl/mgl32"

// DrawMode selects the primitive a mesh is drawn with.
type DrawMode int

const (
	DrawTriangles DrawMode = iota
	DrawLines
)

func (m DrawMode) String() string {
	switch m {
	case DrawTriangles:
		return "triangles"
	case DrawLines:
		return "lines"
	default:
		return "unknown"
	}
}

// Node is an element of the scene graph. A node with a nil Mesh is a group.
type Node struct {
	Name     string
	Mesh     *Mesh
	Visible  bool
	Children []*Node

	parent *Node
}

// Mesh pairs geometry with its materials. Geometry groups index into Materials.
type Mesh struct {
	Geometry  *Geometry
	Materials []Material
	Mode      DrawMode
}

// NewGroup returns an empty visible group node.
func NewGroup(name string) *Node {
	return &Node{Name: name, Visible: true}
}

// NewMeshNode returns a visible node holding mesh.
func NewMeshNode(name string, mesh *Mesh) *Node {
	return &Node{Name: name, Mesh: mesh, Visible: true}
}

// Add appends children and sets their parent.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.Children = append(n.Children, c)
	}
}

// Remove detaches child from n. It reports whether child was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Parent returns the parent node or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Traverse calls fn for n and every descendant, depth first, parents before children.
func (n *Node) Traverse(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Traverse(fn)
	}
}

// TraverseVisible is Traverse that skips hidden subtrees.
func (n *Node) TraverseVisible(fn func(*Node)) {
	if n == nil || !n.Visible {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.TraverseVisible(fn)
	}
}

// Meshes returns every mesh in the subtree in traversal order.
func (n *Node) Meshes() []*Mesh {
	var out []*Mesh
	n.Traverse(func(node *Node) {
		if node.Mesh != nil {
			out = append(out, node.Mesh)
		}
	})
	return out
}

// EachMaterial calls fn for every material slot of every mesh in the subtree.
// A material shared by several slots is visited once per slot.
func (n *Node) EachMaterial(fn func(Material)) {
	n.Traverse(func(node *Node) {
		if node.Mesh == nil {
			return
		}
		for _, m := range node.Mesh.Materials {
			if m != nil {
				fn(m)
			}
		}
	})
}

// Bounds returns the combined bounds of all geometry in the subtree.
// ok is false when the subtree has no vertices.
func (n *Node) Bounds() (box Box, ok bool) {
	n.Traverse(func(node *Node) {
		if node.Mesh == nil || node.Mesh.Geometry == nil || node.Mesh.Geometry.VertexCount() == 0 {
			return
		}
		b := node.Mesh.Geometry.Bounds
		if !ok {
			box, ok = b, true
			return
		}
		box = box.Union(b)
	})
	return box, ok
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max mgl32.Vec3
}

// Union returns the smallest box containing b and o.
func (b Box) Union(o Box) Box {
	return Box{
		Min: mgl32.Vec3{min(b.Min[0], o.Min[0]), min(b.Min[1], o.Min[1]), min(b.Min[2], o.Min[2])},
		Max: mgl32.Vec3{max(b.Max[0], o.Max[0]), max(b.Max[1], o.Max[1]), max(b.Max[2], o.Max[2])},
	}
}

// Center returns the midpoint of the box.
func (b Box) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent along each axis.
func (b Box) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Radius returns the radius of the sphere enclosing the box.
func (b Box) Radius() float32 {
	return b.Size().Len() * 0.5
}
