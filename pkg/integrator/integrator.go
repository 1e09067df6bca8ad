package integrator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/df07/go-kd-pathtracer/pkg/core"
	"github.com/df07/go-kd-pathtracer/pkg/log"
	"github.com/df07/go-kd-pathtracer/pkg/scene"
)

var logger = log.New("integrator")

var ErrUnknownMode = errors.New("integrator: unknown mode")

// Integrator estimates the radiance arriving along a camera ray.
// Implementations must be safe for concurrent use; all per-task state lives
// in the sampler.
type Integrator interface {
	Sample(s *scene.Scene, ray core.Ray, sampler core.Sampler) core.Vec3
}

// LightMode selects how many lights are sampled at a diffuse vertex
type LightMode int

const (
	LightModeRandom LightMode = iota // one light chosen uniformly, scaled by the light count
	LightModeAll                     // every light
)

func (m LightMode) String() string {
	switch m {
	case LightModeRandom:
		return "random"
	case LightModeAll:
		return "all"
	}
	return fmt.Sprintf("LightMode(%d)", int(m))
}

// ParseLightMode accepts the names returned by String
func ParseLightMode(name string) (LightMode, error) {
	switch strings.ToLower(name) {
	case "random", "":
		return LightModeRandom, nil
	case "all":
		return LightModeAll, nil
	}
	return 0, fmt.Errorf("%w: light mode %q", ErrUnknownMode, name)
}

// SpecularMode selects where the estimator splits a vertex into separate
// diffuse and specular estimates instead of choosing one at random
type SpecularMode int

const (
	SpecularModeNaive SpecularMode = iota // never split
	SpecularModeFirst                     // split at the camera hit only
	SpecularModeAll                       // split at every vertex
)

func (m SpecularMode) String() string {
	switch m {
	case SpecularModeNaive:
		return "naive"
	case SpecularModeFirst:
		return "first"
	case SpecularModeAll:
		return "all"
	}
	return fmt.Sprintf("SpecularMode(%d)", int(m))
}

// ParseSpecularMode accepts the names returned by String
func ParseSpecularMode(name string) (SpecularMode, error) {
	switch strings.ToLower(name) {
	case "naive", "":
		return SpecularModeNaive, nil
	case "first":
		return SpecularModeFirst, nil
	case "all":
		return SpecularModeAll, nil
	}
	return 0, fmt.Errorf("%w: specular mode %q", ErrUnknownMode, name)
}

// BounceType forces or frees the choice between reflection and the
// material's other lobe
type BounceType int

const (
	BounceTypeAny BounceType = iota
	BounceTypeDiffuse
	BounceTypeSpecular
)

// Config controls the path tracer
type Config struct {
	FirstHitSamples int  // branching factor at the camera hit; rounded down to a square
	MaxBounces      int  // vertices beyond this depth contribute nothing
	DirectLighting  bool // sample lights explicitly at diffuse vertices
	SoftShadows     bool // sample a disk over each light instead of its center
	LightMode       LightMode
	SpecularMode    SpecularMode
}

// DefaultConfig enables direct lighting and soft shadows with one random
// light per diffuse vertex
func DefaultConfig(firstHitSamples, maxBounces int) Config {
	return Config{
		FirstHitSamples: firstHitSamples,
		MaxBounces:      maxBounces,
		DirectLighting:  true,
		SoftShadows:     true,
		LightMode:       LightModeRandom,
		SpecularMode:    SpecularModeNaive,
	}
}

// DirectConfig renders emission and direct light only
func DirectConfig() Config {
	return DefaultConfig(1, 0)
}
