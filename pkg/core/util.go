package core

import "math"

const (
	// EPS is the smallest ray parameter a shape accepts as a hit.
	EPS = 1e-9

	// Huge bounds shapes without a finite extent, such as planes.
	Huge = 1e9
)

// INF is the parameter of a ray that hits nothing.
var INF = math.Inf(1)

// Radians converts degrees to radians
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// Degrees converts radians to degrees
func Degrees(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Fract returns the fractional part of x, keeping its sign.
func Fract(x float64) float64 {
	_, f := math.Modf(x)
	return f
}

// Clamp limits x to [lo, hi]
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// Median returns the median of an already sorted slice, or 0 when empty.
func Median(sorted []float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case n%2 == 1:
		return sorted[n/2]
	default:
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
}
