package core

import "math"

// Ray is a half-line. Directions produced by the tracer are normalized.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Reflect mirrors the incoming ray i about this ray, treated as an
// (origin, normal) pair. The result starts at this ray's origin.
func (r Ray) Reflect(i Ray) Ray {
	return Ray{r.Origin, r.Direction.Reflect(i.Direction)}
}

// Refract bends i through the surface described by r.
func (r Ray) Refract(i Ray, n1, n2 float64) Ray {
	return Ray{r.Origin, r.Direction.Refract(i.Direction, n1, n2)}
}

// Reflectance returns the Fresnel reflectance of i at the surface described by r.
func (r Ray) Reflectance(i Ray, n1, n2 float64) float64 {
	return r.Direction.Reflectance(i.Direction, n1, n2)
}

// WeightedBounce picks a cosine-weighted direction in the hemisphere around
// r.Direction from the stratified coordinates (u, v).
func (r Ray) WeightedBounce(u, v float64, sampler Sampler) Ray {
	radius := math.Sqrt(u)
	theta := 2 * math.Pi * v
	s := r.Direction.Cross(RandomUnitVector(sampler)).Normalize()
	t := r.Direction.Cross(s)
	d := s.Multiply(radius * math.Cos(theta)).
		Add(t.Multiply(radius * math.Sin(theta))).
		Add(r.Direction.Multiply(math.Sqrt(1 - u)))
	return Ray{r.Origin, d}
}

// ConeBounce perturbs r.Direction inside a cone of half-angle theta.
func (r Ray) ConeBounce(theta, u, v float64, sampler Sampler) Ray {
	return Ray{r.Origin, Cone(r.Direction, theta, u, v, sampler)}
}
