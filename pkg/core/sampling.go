package core

import (
	"math"
	"math/rand"
)

// Sampler is the source of randomness handed to every stochastic routine.
// Each render task owns one, so implementations need not be goroutine safe.
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own generator seeded with seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// RandomIndex picks an index in [0, n) uniformly.
func RandomIndex(sampler Sampler, n int) int {
	i := int(sampler.Get1D() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// RandomUnitVector returns a direction distributed uniformly on the unit sphere.
func RandomUnitVector(sampler Sampler) Vec3 {
	z := sampler.Get1D()*2 - 1
	a := sampler.Get1D() * 2 * math.Pi
	r := math.Sqrt(1 - z*z)
	return Vec3{r * math.Sin(a), r * math.Cos(a), z}
}

// RandomInUnitDisk rejection-samples a point (x, y, 0) with x² + y² < 1.
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for {
		p := Vec3{sampler.Get1D()*2 - 1, sampler.Get1D()*2 - 1, 0}
		if p.X*p.X+p.Y*p.Y < 1 {
			return p
		}
	}
}

// Cone returns a unit direction within theta radians of direction, spread
// according to the stratified coordinates (u, v). A zero-width cone returns
// direction unchanged.
func Cone(direction Vec3, theta, u, v float64, sampler Sampler) Vec3 {
	if theta < EPS {
		return direction
	}
	theta = theta * (1 - (2 * math.Acos(u) / math.Pi))
	m1 := math.Sin(theta)
	m2 := math.Cos(theta)
	a := v * 2 * math.Pi
	s := direction.Cross(RandomUnitVector(sampler)).Normalize()
	t := direction.Cross(s)
	d := s.Multiply(m1 * math.Cos(a)).
		Add(t.Multiply(m1 * math.Sin(a))).
		Add(direction.Multiply(m2))
	return d.Normalize()
}
