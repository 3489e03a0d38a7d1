package model

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/Faultbox/objviewer/pkg/formats"
)

// Companions derives the material library and texture for an OBJ file: the
// library from its first mtllib, the texture from the library's first map_Kd.
// fallbackTexture is used when the library names no diffuse map.
func Companions(objPath, fallbackTexture string) (Paths, error) {
	obj, err := formats.ParseOBJFile(objPath)
	if err != nil {
		return Paths{}, fmt.Errorf("reading %s: %w", objPath, err)
	}

	p := Paths{Model: objPath, Texture: fallbackTexture}
	if len(obj.MaterialLibs) == 0 {
		return p, nil
	}

	dir := filepath.Dir(objPath)
	p.Materials = filepath.Join(dir, filepath.FromSlash(obj.MaterialLibs[0]))

	lib, err := formats.ParseMTLFile(p.Materials)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Load reports the missing library with its path.
			return p, nil
		}
		return Paths{}, fmt.Errorf("reading %s: %w", p.Materials, err)
	}
	lib.ResolvePaths(filepath.Dir(p.Materials))
	if tex := lib.FirstDiffuseMap(); tex != "" {
		p.Texture = tex
	}
	return p, nil
}
