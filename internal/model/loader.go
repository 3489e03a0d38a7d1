// Package model loads an OBJ mesh with its material library and texture, and
// binds the texture onto the mesh materials.
package model

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/objviewer/internal/assets"
	"github.com/Faultbox/objviewer/internal/engine/scene"
	"github.com/Faultbox/objviewer/internal/engine/texture"
	"github.com/Faultbox/objviewer/internal/logger"
	"github.com/Faultbox/objviewer/pkg/formats"
)

// Paths names the three files of a model. Materials and Texture may be empty.
type Paths struct {
	Model     string
	Materials string
	Texture   string
}

// Assets is a loaded model: the scene graph, its material library and the texture.
type Assets struct {
	Mesh      *scene.Node
	Materials *formats.MTL
	Texture   *texture.Image

	// Counts from the OBJ: position records and triangles after triangulation.
	Vertices int
	Faces    int

	// Resolved file paths, for watching.
	Files []string

	// Non-fatal problems found while parsing and building, combined with multierr.
	Warnings error
}

// Result is delivered by Start when a load finishes.
type Result struct {
	ID      uuid.UUID
	Paths   Paths
	Assets  *Assets
	Err     error
	Elapsed time.Duration
}

// Loader reads model files through an assets.Manager.
type Loader struct {
	manager *assets.Manager
	texOpts texture.Options
}

// NewLoader creates a loader.
func NewLoader(m *assets.Manager, texOpts texture.Options) *Loader {
	return &Loader{manager: m, texOpts: texOpts}
}

// NewLoadID returns a time-ordered load identifier.
func NewLoadID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// Start runs Load in a goroutine. The channel receives exactly one Result.
func (l *Loader) Start(ctx context.Context, paths Paths) (uuid.UUID, <-chan Result) {
	id := NewLoadID()
	ch := make(chan Result, 1)

	go func() {
		start := time.Now()
		a, err := l.Load(ctx, paths)
		ch <- Result{ID: id, Paths: paths, Assets: a, Err: err, Elapsed: time.Since(start)}
	}()

	return id, ch
}

// Load reads the material library and mesh, and concurrently the texture.
// The first failure cancels the other branch.
func (l *Loader) Load(ctx context.Context, paths Paths) (*Assets, error) {
	if paths.Model == "" {
		return nil, errors.New("no model path")
	}

	g, gctx := errgroup.WithContext(ctx)
	out := &Assets{}
	var meshFiles, texFile []string
	var meshWarnings error

	g.Go(func() error {
		lib, libFile, err := l.loadMaterials(gctx, paths.Materials)
		if err != nil {
			return err
		}
		if libFile != "" {
			meshFiles = append(meshFiles, libFile)
		}
		if lib != nil {
			meshWarnings = multierr.Append(meshWarnings, warnings(libFile, lib.Warnings))
		}

		if err := gctx.Err(); err != nil {
			return err
		}

		resolved, err := l.manager.Resolve(paths.Model)
		if err != nil {
			return fmt.Errorf("loading model %s: %w", paths.Model, err)
		}
		data, err := l.manager.Load(resolved)
		if err != nil {
			return fmt.Errorf("loading model %s: %w", paths.Model, err)
		}
		obj, err := formats.ParseOBJ(data)
		if err != nil {
			return fmt.Errorf("parsing model %s: %w", resolved, err)
		}
		meshFiles = append(meshFiles, resolved)

		name := strings.TrimSuffix(filepath.Base(resolved), filepath.Ext(resolved))
		root, buildWarnings := scene.BuildFromOBJ(name, obj, lib)

		meshWarnings = multierr.Append(meshWarnings, warnings(resolved, obj.Warnings))
		meshWarnings = multierr.Append(meshWarnings, warnings(resolved, buildWarnings))

		out.Mesh = root
		out.Materials = lib
		out.Vertices = obj.VertexCount()
		out.Faces = obj.TriangleCount()
		return nil
	})

	g.Go(func() error {
		if paths.Texture == "" {
			return nil
		}
		resolved, err := l.manager.Resolve(paths.Texture)
		if err != nil {
			return fmt.Errorf("loading texture %s: %w", paths.Texture, err)
		}
		data, err := l.manager.Load(resolved)
		if err != nil {
			return fmt.Errorf("loading texture %s: %w", paths.Texture, err)
		}
		if err := gctx.Err(); err != nil {
			return err
		}
		img, err := texture.Decode(resolved, data, l.texOpts)
		if err != nil {
			return fmt.Errorf("decoding texture %s: %w", resolved, err)
		}
		out.Texture = img
		texFile = []string{resolved}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.Files = append(meshFiles, texFile...)
	out.Warnings = meshWarnings
	return out, nil
}

// loadMaterials reads, parses and preloads the library. An empty path yields nil.
func (l *Loader) loadMaterials(ctx context.Context, path string) (*formats.MTL, string, error) {
	if path == "" {
		return nil, "", nil
	}
	resolved, err := l.manager.Resolve(path)
	if err != nil {
		return nil, "", fmt.Errorf("loading materials %s: %w", path, err)
	}
	data, err := l.manager.Load(resolved)
	if err != nil {
		return nil, "", fmt.Errorf("loading materials %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	lib, err := formats.ParseMTL(data)
	if err != nil {
		return nil, "", fmt.Errorf("parsing materials %s: %w", resolved, err)
	}
	lib.ResolvePaths(filepath.Dir(resolved))
	lib.Preload()
	return lib, resolved, nil
}

func warnings(file string, msgs []string) error {
	var err error
	for _, m := range msgs {
		err = multierr.Append(err, fmt.Errorf("%s: %s", filepath.Base(file), m))
	}
	return err
}

// LogResult writes the outcome of a load with its ID.
func LogResult(r Result) {
	fields := []zap.Field{
		zap.String("load_id", r.ID.String()),
		zap.String("model", r.Paths.Model),
		zap.Duration("elapsed", r.Elapsed),
	}
	if r.Err != nil {
		logger.Error("model load failed", append(fields, zap.Error(r.Err))...)
		return
	}

	a := r.Assets
	logger.Info("model loaded", append(fields,
		zap.Int("vertices", a.Vertices),
		zap.Int("faces", a.Faces),
		zap.Bool("textured", a.Texture != nil))...)
	for _, w := range multierr.Errors(a.Warnings) {
		logger.Warn("model warning", zap.String("load_id", r.ID.String()), zap.Error(w))
	}
}
