// Package formats decodes Wavefront OBJ meshes and MTL material libraries
// into the indexed form the scene builder consumes.
package formats

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/g3n/engine/loader/obj"
)

// OBJ format errors.
var (
	ErrEmptyMesh     = errors.New("obj contains no geometry")
	ErrInvalidIndex  = errors.New("invalid element index")
	ErrTooFewIndices = errors.New("face has too few vertices")
)

// NoIndex marks an absent texcoord or normal reference.
const NoIndex = -1

// OBJIndex references one corner of a face, zero-based.
type OBJIndex struct {
	V  int // position index, always set
	VT int // texcoord index or NoIndex
	VN int // normal index or NoIndex
}

// OBJFace is a triangle. Polygons are fan-triangulated while converting.
type OBJFace struct {
	Corners  [3]OBJIndex
	Material string // "" outside any usemtl
	Smooth   bool
}

// OBJObject is a named object or group with its faces.
type OBJObject struct {
	Name  string
	Faces []OBJFace
}

// OBJ is a decoded Wavefront mesh.
type OBJ struct {
	MaterialLibs []string
	Positions    [][3]float32
	TexCoords    [][2]float32
	Normals      [][3]float32
	Objects      []*OBJObject
	Warnings     []string
}

// ParseOBJ decodes OBJ data from a byte slice.
func ParseOBJ(data []byte) (*OBJ, error) {
	dec, err := decode("obj", normalize(data), nil)
	if err != nil {
		return nil, err
	}
	return fromDecoder(dec)
}

// ParseOBJFile decodes an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading obj file: %w", err)
	}
	return ParseOBJ(data)
}

// ReadOBJ decodes OBJ data from a reader.
func ReadOBJ(r io.Reader) (*OBJ, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("reading obj: %w", err)
	}
	return ParseOBJ(buf.Bytes())
}

// fromDecoder copies the decoder's flat arrays and faces into an OBJ,
// validating every index and fan-triangulating polygons.
func fromDecoder(dec *obj.Decoder) (*OBJ, error) {
	o := &OBJ{
		Positions: vec3s(dec.Vertices),
		TexCoords: vec2s(dec.Uvs),
		Normals:   vec3s(dec.Normals),
		Warnings:  dec.Warnings,
	}
	if dec.Matlib != "" {
		o.MaterialLibs = []string{dec.Matlib}
	}

	for i := range dec.Objects {
		src := &dec.Objects[i]
		if len(src.Faces) == 0 {
			continue
		}
		out := &OBJObject{Name: src.Name}
		for fi := range src.Faces {
			face := &src.Faces[fi]
			corners, err := o.corners(face)
			if err != nil {
				return nil, &ParseError{Format: "obj", Err: fmt.Errorf("object %q face %d: %w", src.Name, fi+1, err)}
			}
			material := face.Material
			if material == decoderDefaultMaterial {
				material = ""
			}
			for k := 1; k+1 < len(corners); k++ {
				out.Faces = append(out.Faces, OBJFace{
					Corners:  [3]OBJIndex{corners[0], corners[k], corners[k+1]},
					Material: material,
					Smooth:   face.Smooth,
				})
			}
		}
		o.Objects = append(o.Objects, out)
	}

	if len(o.Objects) == 0 {
		return nil, ErrEmptyMesh
	}
	return o, nil
}

func (o *OBJ) corners(face *obj.Face) ([]OBJIndex, error) {
	if len(face.Vertices) < 3 {
		return nil, fmt.Errorf("%w: %d", ErrTooFewIndices, len(face.Vertices))
	}
	corners := make([]OBJIndex, len(face.Vertices))
	for i, v := range face.Vertices {
		if v < 0 || v >= len(o.Positions) {
			return nil, fmt.Errorf("%w: vertex %d (have %d)", ErrInvalidIndex, v+1, len(o.Positions))
		}
		c := OBJIndex{V: v, VT: NoIndex, VN: NoIndex}
		if i < len(face.Uvs) && face.Uvs[i] != absentIndex {
			vt := face.Uvs[i]
			if vt < 0 || vt >= len(o.TexCoords) {
				return nil, fmt.Errorf("%w: texcoord %d (have %d)", ErrInvalidIndex, vt+1, len(o.TexCoords))
			}
			c.VT = vt
		}
		if i < len(face.Normals) && face.Normals[i] != absentIndex {
			vn := face.Normals[i]
			if vn < 0 || vn >= len(o.Normals) {
				return nil, fmt.Errorf("%w: normal %d (have %d)", ErrInvalidIndex, vn+1, len(o.Normals))
			}
			c.VN = vn
		}
		corners[i] = c
	}
	return corners, nil
}

func vec3s(flat []float32) [][3]float32 {
	out := make([][3]float32, len(flat)/3)
	for i := range out {
		out[i] = [3]float32{flat[3*i], flat[3*i+1], flat[3*i+2]}
	}
	return out
}

func vec2s(flat []float32) [][2]float32 {
	out := make([][2]float32, len(flat)/2)
	for i := range out {
		out[i] = [2]float32{flat[2*i], flat[2*i+1]}
	}
	return out
}

// TriangleCount returns the number of triangles after triangulation.
func (o *OBJ) TriangleCount() int {
	n := 0
	for _, ob := range o.Objects {
		n += len(ob.Faces)
	}
	return n
}

// VertexCount returns the number of position records.
func (o *OBJ) VertexCount() int {
	return len(o.Positions)
}

// Bounds returns the axis-aligned bounds of all positions.
func (o *OBJ) Bounds() (lo, hi [3]float32) {
	if len(o.Positions) == 0 {
		return lo, hi
	}
	lo, hi = o.Positions[0], o.Positions[0]
	for _, p := range o.Positions[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}
	return lo, hi
}

// MaterialNames returns the materials referenced by faces, in first-use order.
func (o *OBJ) MaterialNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, ob := range o.Objects {
		for _, f := range ob.Faces {
			if f.Material != "" && !seen[f.Material] {
				seen[f.Material] = true
				names = append(names, f.Material)
			}
		}
	}
	return names
}
