package loaders

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fogleman/fauxgl"

	"github.com/df07/go-kd-pathtracer/pkg/core"
	"github.com/df07/go-kd-pathtracer/pkg/geometry"
	"github.com/df07/go-kd-pathtracer/pkg/log"
)

var logger = log.New("loaders")

var (
	ErrUnsupportedFormat = errors.New("loaders: unsupported mesh format")
	ErrEmptyMesh         = errors.New("loaders: mesh has no usable triangles")
)

// LoadMesh reads an OBJ, STL or PLY file, chosen by extension. Triangles
// get the zero material; callers assign one with Mesh.SetMaterial.
// Zero-area faces are dropped.
func LoadMesh(filename string) (*geometry.Mesh, error) {
	var load func(string) (*fauxgl.Mesh, error)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".obj":
		load = fauxgl.LoadOBJ
	case ".stl":
		load = fauxgl.LoadSTL
	case ".ply":
		load = fauxgl.LoadPLY
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	src, err := load(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load mesh %s: %w", filename, err)
	}

	mesh := convertMesh(src)
	dropped := len(src.Triangles) - len(mesh.Triangles)
	if len(mesh.Triangles) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrEmptyMesh)
	}
	logger.Infof("loaded %s: %d triangles (%d degenerate dropped)", filename, len(mesh.Triangles), dropped)
	return mesh, nil
}

func convertMesh(src *fauxgl.Mesh) *geometry.Mesh {
	triangles := make([]*geometry.Triangle, 0, len(src.Triangles))
	for _, t := range src.Triangles {
		tri := &geometry.Triangle{
			V1: vec(t.V1.Position), V2: vec(t.V2.Position), V3: vec(t.V3.Position),
			N1: vec(t.V1.Normal), N2: vec(t.V2.Normal), N3: vec(t.V3.Normal),
			T1: vec(t.V1.Texture), T2: vec(t.V2.Texture), T3: vec(t.V3.Texture),
		}
		if tri.Area() == 0 {
			continue
		}
		tri.FixNormals()
		triangles = append(triangles, tri)
	}
	return geometry.NewMesh(triangles)
}

func vec(v fauxgl.Vector) core.Vec3 {
	return core.NewVec3(v.X, v.Y, v.Z)
}
