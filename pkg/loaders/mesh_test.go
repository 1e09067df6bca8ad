package loaders

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadMesh_OBJ(t *testing.T) {
	obj := `# unit square split in two, plus a degenerate face
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 2 0 0
f 1 2 3
f 1 3 4
f 1 2 5
`
	mesh, err := LoadMesh(writeFile(t, "square.obj", []byte(obj)))
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}
	if len(mesh.Triangles) != 2 {
		t.Fatalf("Expected 2 triangles, got %d", len(mesh.Triangles))
	}
	for i, tri := range mesh.Triangles {
		if tri.N1.LengthSquared() == 0 || tri.N2.LengthSquared() == 0 || tri.N3.LengthSquared() == 0 {
			t.Errorf("triangle %d has a missing vertex normal", i)
		}
	}
	box := mesh.BoundingBox()
	if box.Max.X != 1 || box.Max.Y != 1 || box.Min.X != 0 {
		t.Errorf("unexpected bounds %+v", box)
	}
}

func TestLoadMesh_BinarySTL(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	binary.Write(&buf, binary.LittleEndian, uint32(1))
	facet := struct {
		N, V1, V2, V3 [3]float32
		Attributes    uint16
	}{
		N:  [3]float32{0, 0, 1},
		V1: [3]float32{0, 0, 0},
		V2: [3]float32{1, 0, 0},
		V3: [3]float32{0, 1, 0},
	}
	binary.Write(&buf, binary.LittleEndian, facet)

	mesh, err := LoadMesh(writeFile(t, "tri.stl", buf.Bytes()))
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}
	if len(mesh.Triangles) != 1 {
		t.Fatalf("Expected 1 triangle, got %d", len(mesh.Triangles))
	}
	if a := mesh.Triangles[0].Area(); abs(a-0.5) > 1e-6 {
		t.Errorf("Expected area 0.5, got %v", a)
	}
}

func TestLoadMesh_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		want error
	}{
		{
			name: "unsupported extension",
			path: func(t *testing.T) string { return writeFile(t, "model.fbx", []byte("x")) },
			want: ErrUnsupportedFormat,
		},
		{
			name: "no faces",
			path: func(t *testing.T) string { return writeFile(t, "empty.obj", []byte("v 0 0 0\nv 1 0 0\n")) },
			want: ErrEmptyMesh,
		},
		{
			name: "only degenerate faces",
			path: func(t *testing.T) string {
				return writeFile(t, "line.obj", []byte("v 0 0 0\nv 1 0 0\nv 2 0 0\nf 1 2 3\n"))
			},
			want: ErrEmptyMesh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMesh(tt.path(t))
			if !errors.Is(err, tt.want) {
				t.Errorf("LoadMesh error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := LoadMesh(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("Expected error for missing file")
	}
}
