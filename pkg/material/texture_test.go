package material

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-kd-pathtracer/pkg/core"
)

func checker() *ColorTexture {
	// 2x2: top row black/white, bottom row white/black
	return NewColorTexture(2, 2, []core.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 1},
		{X: 1, Y: 1, Z: 1}, {X: 0, Y: 0, Z: 0},
	})
}

func TestColorTexture_SampleCorners(t *testing.T) {
	tex := checker()

	tests := []struct {
		name string
		u, v float64
		want float64
	}{
		{"top left", 0, 0.999999999, 0},
		{"bottom left", 0, 0, 1},
		{"center blends", 0.5, 0.5, 0.5},
		{"wraps past one", 1.0, 0, 1},
		{"wraps negative", -1.0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tex.Sample(tt.u, tt.v)
			if math.Abs(got.X-tt.want) > 1e-6 {
				t.Errorf("Sample(%f, %f) = %v, want %f", tt.u, tt.v, got, tt.want)
			}
		})
	}
}

func TestColorTexture_SinglePixel(t *testing.T) {
	tex := NewColorTexture(1, 1, []core.Vec3{{X: 0.3, Y: 0.4, Z: 0.5}})
	if got := tex.Sample(0.7, 0.2); got != (core.Vec3{X: 0.3, Y: 0.4, Z: 0.5}) {
		t.Errorf("Expected the only texel, got %v", got)
	}
	if got := tex.BumpSample(0.7, 0.2); got != (core.Vec3{}) {
		t.Errorf("Expected flat bump on a single texel, got %v", got)
	}
}

func TestColorTexture_NormalSample(t *testing.T) {
	tex := NewColorTexture(1, 1, []core.Vec3{{X: 0.5, Y: 0.5, Z: 1}})
	n := tex.NormalSample(0, 0)
	if math.Abs(n.Z-1) > 1e-9 || math.Abs(n.X) > 1e-9 {
		t.Errorf("Expected straight up normal, got %v", n)
	}
}

func TestColorTexture_PowAndMulScalar(t *testing.T) {
	tex := NewColorTexture(1, 1, []core.Vec3{{X: 0.25, Y: 1, Z: 0}})
	tex.Pow(0.5).MulScalar(2)
	if got := tex.Data[0]; got != (core.Vec3{X: 1, Y: 2, Z: 0}) {
		t.Errorf("Expected (1,2,0), got %v", got)
	}
}

func TestTextureCache(t *testing.T) {
	loads := 0
	cache := NewTextureCache(func(path string) (*ColorTexture, error) {
		loads++
		if path == "missing.png" {
			return nil, errors.New("not found")
		}
		return checker(), nil
	})

	a, err := cache.Get("wood.png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b, _ := cache.Get("wood.png")
	if a != b || loads != 1 {
		t.Errorf("Expected a single load for repeated paths, got %d", loads)
	}

	if _, err := cache.Get("missing.png"); err == nil {
		t.Error("Expected load error to propagate")
	}
	if cache.Len() != 1 {
		t.Errorf("Expected failed loads not to be cached, got %d entries", cache.Len())
	}
}

func TestPresets(t *testing.T) {
	if m := Metallic(core.NewVec3(1, 1, 1), 0.1, 0.5); m.Reflectivity != 1 {
		t.Error("Expected metals to always reflect")
	}
	if m := Clear(1.5, 0); !m.Transparent || m.Reflectivity >= 0 {
		t.Error("Expected clear glass to be transparent with Fresnel reflection")
	}
	if m := Light(core.NewVec3(1, 1, 1), 5); m.Emittance != 5 {
		t.Error("Expected light emittance")
	}
}
