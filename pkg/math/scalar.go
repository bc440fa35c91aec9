package math

import "github.com/chewxy/math32"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Smoothstep is the GLSL smoothstep: Hermite interpolation of v between edge0 and edge1.
// A degenerate band (edge0 == edge1) acts as a step at the edge.
func Smoothstep(edge0, edge1, v float32) float32 {
	if edge0 == edge1 {
		if v < edge0 {
			return 0
		}
		return 1
	}
	t := Clamp((v-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// Mix is the GLSL mix: a*(1-t) + b*t.
func Mix(a, b, t float32) float32 {
	return a + (b-a)*t
}

// MaxEps returns v, or eps when v is smaller. Used to guard denominators.
func MaxEps(v, eps float32) float32 {
	if v < eps || math32.IsNaN(v) {
		return eps
	}
	return v
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math32.Pi / 180
}
