package formats

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/g3n/engine/loader/obj"
)

// Material is one newmtl block.
type Material struct {
	Name string

	Ambient  [3]float32 // Ka
	Diffuse  [3]float32 // Kd
	Specular [3]float32 // Ks
	Emissive [3]float32 // Ke

	Shininess      float32 // Ns
	Opacity        float32 // d
	OpticalDensity float32 // Ni
	Illum          int

	DiffuseMap string // map_Kd
}

// MTL is a decoded material library.
type MTL struct {
	Materials map[string]*Material
	Order     []string // material names, sorted
	Warnings  []string
}

// Values the decoder leaves at zero when a statement is absent.
const (
	defaultShininess = 30
	defaultOpacity   = 1
)

// ParseMTL decodes MTL data from a byte slice.
func ParseMTL(data []byte) (*MTL, error) {
	dec, err := decode("mtl", nil, normalize(data))
	if err != nil {
		return nil, err
	}

	lib := &MTL{
		Materials: make(map[string]*Material, len(dec.Materials)),
		Warnings:  dec.Warnings,
	}
	// The decoder swaps every material for its unnamed default when a
	// statement fails to parse, so a name mismatch means malformed input.
	if len(dec.Materials) == 0 && declaresMaterial(data) {
		return nil, &ParseError{Format: "mtl", Err: fmt.Errorf("%w: newmtl without a usable name", ErrMalformed)}
	}
	for name, src := range dec.Materials {
		if src == nil || src.Name != name {
			return nil, &ParseError{Format: "mtl", Err: fmt.Errorf("%w: material %q", ErrMalformed, name)}
		}
	}

	for name, src := range dec.Materials {
		m, warning := fromDecoderMaterial(name, src)
		if warning != "" {
			lib.Warnings = append(lib.Warnings, warning)
		}
		lib.Materials[name] = m
		lib.Order = append(lib.Order, name)
	}
	sort.Strings(lib.Order)
	return lib, nil
}

func declaresMaterial(data []byte) bool {
	for _, line := range strings.Split(string(data), "\n") {
		if f := strings.Fields(line); len(f) > 0 && f[0] == "newmtl" {
			return true
		}
	}
	return false
}

// ParseMTLFile decodes an MTL file from disk.
func ParseMTLFile(path string) (*MTL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mtl file: %w", err)
	}
	return ParseMTL(data)
}

// ReadMTL decodes MTL data from a reader.
func ReadMTL(r io.Reader) (*MTL, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("reading mtl: %w", err)
	}
	return ParseMTL(buf.Bytes())
}

// fromDecoderMaterial converts a decoder material. The map key is used as the
// name since fallback materials are unnamed.
func fromDecoderMaterial(name string, src *obj.Material) (*Material, string) {
	m := &Material{
		Name:           name,
		Ambient:        [3]float32{src.Ambient.R, src.Ambient.G, src.Ambient.B},
		Diffuse:        [3]float32{src.Diffuse.R, src.Diffuse.G, src.Diffuse.B},
		Specular:       [3]float32{src.Specular.R, src.Specular.G, src.Specular.B},
		Emissive:       [3]float32{src.Emissive.R, src.Emissive.G, src.Emissive.B},
		Shininess:      src.Shininess,
		Opacity:        src.Opacity,
		OpticalDensity: src.Refraction,
		Illum:          src.Illum,
		DiffuseMap:     src.MapKd,
	}
	if m.Shininess == 0 {
		m.Shininess = defaultShininess
	}
	if m.Opacity == 0 {
		m.Opacity = defaultOpacity
	}

	var warning string
	if strings.HasPrefix(m.DiffuseMap, "-") {
		warning = fmt.Sprintf("material %q: map_Kd options are not supported, map ignored", name)
		m.DiffuseMap = ""
	}
	// A map without Kd shows the texture unmodulated.
	if m.DiffuseMap != "" && m.Diffuse == ([3]float32{}) {
		m.Diffuse = [3]float32{1, 1, 1}
	}
	return m, warning
}

// ResolvePaths rewrites relative texture paths against dir, the directory of the library file.
func (lib *MTL) ResolvePaths(dir string) {
	for _, m := range lib.Materials {
		if m.DiffuseMap == "" || filepath.IsAbs(m.DiffuseMap) {
			continue
		}
		m.DiffuseMap = filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(m.DiffuseMap, "\\", "/")))
	}
}

// Preload normalizes values so they are safe to hand to a renderer:
// colors are clamped to [0,1] and opacity to [0,1].
func (lib *MTL) Preload() {
	for _, m := range lib.Materials {
		m.Ambient = clampColor(m.Ambient)
		m.Diffuse = clampColor(m.Diffuse)
		m.Specular = clampColor(m.Specular)
		m.Emissive = clampColor(m.Emissive)
		m.Opacity = clampUnit(m.Opacity)
		if m.Shininess < 0 {
			m.Shininess = 0
		}
	}
}

// Get returns the named material or nil.
func (lib *MTL) Get(name string) *Material {
	if lib == nil {
		return nil
	}
	return lib.Materials[name]
}

// FirstDiffuseMap returns the first map_Kd path by material name, or "".
func (lib *MTL) FirstDiffuseMap() string {
	if lib == nil {
		return ""
	}
	for _, name := range lib.Order {
		if m := lib.Materials[name]; m.DiffuseMap != "" {
			return m.DiffuseMap
		}
	}
	return ""
}

func clampColor(c [3]float32) [3]float32 {
	return [3]float32{clampUnit(c[0]), clampUnit(c[1]), clampUnit(c[2])}
}

func clampUnit(v float32) float32 {
	return min(max(v, 0), 1)
}
