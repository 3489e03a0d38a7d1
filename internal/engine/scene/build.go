package scene

import (
	"fmt"

	"github.com/Faultbox/objviewer/pkg/formats"
)

// vertexKey identifies a unique OBJ corner combination.
type vertexKey struct {
	v, vt, vn int
}

// geometryBuilder deduplicates OBJ corners into indexed geometry.
type geometryBuilder struct {
	obj     *formats.OBJ
	geom    *Geometry
	lookup  map[vertexKey]uint32
	missing bool // some corner lacked a normal
}

func newGeometryBuilder(obj *formats.OBJ) *geometryBuilder {
	return &geometryBuilder{
		obj:    obj,
		geom:   &Geometry{},
		lookup: make(map[vertexKey]uint32),
	}
}

func (b *geometryBuilder) vertex(c formats.OBJIndex) uint32 {
	key := vertexKey{c.V, c.VT, c.VN}
	if idx, ok := b.lookup[key]; ok {
		return idx
	}

	idx := uint32(b.geom.VertexCount())
	p := b.obj.Positions[c.V]
	b.geom.Positions = append(b.geom.Positions, p[0], p[1], p[2])

	if c.VN != formats.NoIndex {
		n := b.obj.Normals[c.VN]
		b.geom.Normals = append(b.geom.Normals, n[0], n[1], n[2])
	} else {
		b.geom.Normals = append(b.geom.Normals, 0, 0, 0)
		b.missing = true
	}

	if c.VT != formats.NoIndex {
		t := b.obj.TexCoords[c.VT]
		b.geom.UVs = append(b.geom.UVs, t[0], t[1])
	} else {
		b.geom.UVs = append(b.geom.UVs, 0, 0)
	}

	b.lookup[key] = idx
	return idx
}

// group appends indices to the open group for slot, starting a new group on slot change.
func (b *geometryBuilder) group(slot int, indices ...uint32) {
	groups := b.geom.Groups
	if len(groups) == 0 || groups[len(groups)-1].MaterialIndex != slot {
		b.geom.Groups = append(groups, Group{Start: len(b.geom.Indices), MaterialIndex: slot})
	}
	b.geom.Indices = append(b.geom.Indices, indices...)
	b.geom.Groups[len(b.geom.Groups)-1].Count += len(indices)
}

func (b *geometryBuilder) finish() *Geometry {
	if b.missing {
		b.geom.ComputeNormals()
	}
	b.geom.ComputeBounds()
	return b.geom
}

// materialSlots assigns per-mesh material slots by name.
type materialSlots struct {
	lib       *formats.MTL
	shared    map[string]Material
	materials []Material
	index     map[string]int
	warnings  *[]string
}

func (s *materialSlots) slot(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	m, ok := s.shared[name]
	if !ok {
		m = s.create(name)
		s.shared[name] = m
	}
	s.index[name] = len(s.materials)
	s.materials = append(s.materials, m)
	return s.index[name]
}

func (s *materialSlots) create(name string) Material {
	if name == "" {
		return NewStandardMaterial("default")
	}
	if s.lib == nil {
		return NewStandardMaterial(name)
	}
	src := s.lib.Get(name)
	if src == nil {
		*s.warnings = append(*s.warnings, fmt.Sprintf("material %q not found, using default", name))
		return NewStandardMaterial(name)
	}
	return FromMTL(src)
}

// BuildFromOBJ converts a decoded OBJ into a scene graph rooted at a group.
// Each OBJ object with faces yields one triangle mesh. Materials come from lib
// when present; a material used by several objects is shared. The returned
// warnings list missing materials.
func BuildFromOBJ(name string, obj *formats.OBJ, lib *formats.MTL) (*Node, []string) {
	root := NewGroup(name)
	var warnings []string
	surfaces := make(map[string]Material)

	for _, o := range obj.Objects {
		if len(o.Faces) == 0 {
			continue
		}
		gb := newGeometryBuilder(obj)
		slots := &materialSlots{lib: lib, shared: surfaces, index: make(map[string]int), warnings: &warnings}
		for _, f := range o.Faces {
			slot := slots.slot(f.Material)
			gb.group(slot, gb.vertex(f.Corners[0]), gb.vertex(f.Corners[1]), gb.vertex(f.Corners[2]))
		}
		root.Add(NewMeshNode(o.Name, &Mesh{
			Geometry:  gb.finish(),
			Materials: slots.materials,
			Mode:      DrawTriangles,
		}))
	}

	return root, warnings
}

// Stats summarizes a scene graph.
type Stats struct {
	Meshes    int
	Vertices  int
	Triangles int
	Lines     int
	Materials int
}

// Summarize counts meshes, unique vertices, primitives and distinct materials.
func Summarize(root *Node) Stats {
	var s Stats
	seen := make(map[Material]bool)
	root.Traverse(func(n *Node) {
		if n.Mesh == nil || n.Mesh.Geometry == nil {
			return
		}
		s.Meshes++
		g := n.Mesh.Geometry
		s.Vertices += g.VertexCount()
		switch n.Mesh.Mode {
		case DrawTriangles:
			s.Triangles += len(g.Indices) / 3
		case DrawLines:
			s.Lines += len(g.Indices) / 2
		}
		for _, m := range n.Mesh.Materials {
			if m != nil && !seen[m] {
				seen[m] = true
				s.Materials++
			}
		}
	})
	return s
}
