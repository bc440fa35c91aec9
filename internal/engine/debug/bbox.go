package debug

import "github.com/Faultbox/midgard-ribbon/pkg/math"

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges x 2).
const BBoxWireframeVertexCount = 24

// BoundsColor is the default wireframe color for route bounds.
var BoundsColor = [3]float32{0.95, 0.85, 0.3}

// BBoxWireframe returns the 12 edges of the box [lo, hi] expanded by
// padding, as line vertex pairs.
func BBoxWireframe(lo, hi math.Vec3, padding float32, color [3]float32) []LineVertex {
	if lo.X > hi.X {
		lo.X, hi.X = hi.X, lo.X
	}
	if lo.Y > hi.Y {
		lo.Y, hi.Y = hi.Y, lo.Y
	}
	if lo.Z > hi.Z {
		lo.Z, hi.Z = hi.Z, lo.Z
	}
	pad := math.Vec3{X: padding, Y: padding, Z: padding}
	lo, hi = lo.Sub(pad), hi.Add(pad)

	corner := func(i int) LineVertex {
		v := LineVertex{X: lo.X, Y: lo.Y, Z: lo.Z, R: color[0], G: color[1], B: color[2]}
		if i&1 != 0 {
			v.X = hi.X
		}
		if i&2 != 0 {
			v.Y = hi.Y
		}
		if i&4 != 0 {
			v.Z = hi.Z
		}
		return v
	}

	// Corner index bits: 1 = X, 2 = Y, 4 = Z.
	edges := [12][2]int{
		{0, 1}, {1, 3}, {3, 2}, {2, 0}, // bottom
		{4, 5}, {5, 7}, {7, 6}, {6, 4}, // top
		{0, 4}, {1, 5}, {2, 6}, {3, 7}, // vertical
	}
	vertices := make([]LineVertex, 0, BBoxWireframeVertexCount)
	for _, e := range edges {
		vertices = append(vertices, corner(e[0]), corner(e[1]))
	}
	return vertices
}
