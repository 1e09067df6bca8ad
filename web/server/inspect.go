package server

import (
	"fmt"
	"net/http"

	"github.com/df07/go-kd-pathtracer/pkg/core"
	"github.com/df07/go-kd-pathtracer/pkg/renderer"
	"github.com/df07/go-kd-pathtracer/pkg/scene"
)

// InspectResponse describes what the camera sees through one pixel
type InspectResponse struct {
	Hit          bool       `json:"hit"`
	GeometryType string     `json:"geometryType,omitempty"`
	Point        [3]float64 `json:"point"`
	Normal       [3]float64 `json:"normal"`
	Distance     float64    `json:"distance"`
	Inside       bool       `json:"inside"`
	Material     *Material  `json:"material,omitempty"`
}

// Material is the resolved material at the inspected point
type Material struct {
	Color        [3]float64 `json:"color"`
	Hex          string     `json:"hex"`
	Emittance    float64    `json:"emittance"`
	Index        float64    `json:"index"`
	Gloss        float64    `json:"gloss"`
	Tint         float64    `json:"tint"`
	Reflectivity float64    `json:"reflectivity"`
	Transparent  bool       `json:"transparent"`
	Textured     bool       `json:"textured"`
}

// handleInspect casts the center ray of pixel (x, y) into the scene
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("scene")
	if name == "" {
		name = "cornell"
	}

	width, err := parseIntParam(q, "width", 256, 1, 2000)
	if err != nil {
		badRequest(w, err)
		return
	}
	height, err := parseIntParam(q, "height", 256, 1, 2000)
	if err != nil {
		badRequest(w, err)
		return
	}
	x, err := parseIntParam(q, "x", 0, 0, width-1)
	if err != nil {
		badRequest(w, err)
		return
	}
	y, err := parseIntParam(q, "y", 0, 0, height-1)
	if err != nil {
		badRequest(w, err)
		return
	}

	setup, err := scene.Build(name, s.options)
	if err != nil {
		badRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inspect(setup, x, y, width, height))
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func inspect(setup *scene.Setup, x, y, width, height int) InspectResponse {
	setup.Scene.Compile()
	camera := renderer.CameraForView(setup.View)
	ray := camera.CastRay(x, y, width, height, 0.5, 0.5, core.NewSeededSampler(0))

	hit := setup.Scene.Intersect(ray)
	if !hit.Ok() {
		return InspectResponse{}
	}
	info := hit.Info(ray)
	m := info.Material
	c := m.Color.Pow(1 / renderer.Gamma).Clamp(0, 1)
	return InspectResponse{
		Hit:          true,
		GeometryType: fmt.Sprintf("%T", info.Shape),
		Point:        vec(info.Position),
		Normal:       vec(info.Normal),
		Distance:     hit.T,
		Inside:       info.Inside,
		Material: &Material{
			Color:        vec(m.Color),
			Hex:          fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255)),
			Emittance:    m.Emittance,
			Index:        m.Index,
			Gloss:        m.Gloss,
			Tint:         m.Tint,
			Reflectivity: m.Reflectivity,
			Transparent:  m.Transparent,
			Textured:     m.Texture != nil,
		},
	}
}

func vec(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
