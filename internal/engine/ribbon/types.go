// Package ribbon builds screen-space ribbon geometry for route overlays.
//
// A control polyline is rounded at its interior waypoints, resampled at
// roughly uniform arc length and turned into a strip of side vertices plus
// two triangle-fan caps. Line width is not baked into the positions: every
// vertex carries a unit offset that the draw stage scales to pixels.
package ribbon

import "github.com/Faultbox/midgard-ribbon/pkg/math"

// Color is an RGBA color with components in [0, 1].
type Color [4]float32

// DefaultColor is used when no traffic segments are configured.
var DefaultColor = Color{0.16, 0.55, 0.95, 1}

// SamplePoint is a point on the rounded path with its cumulative world distance.
type SamplePoint struct {
	Position math.Vec3
	Distance float32
}

// Vertex is a ribbon mesh vertex.
//
// Offset holds the unit-scale extrusion: Offset[0] is the side (+1 left,
// -1 right; ring x for caps) and Offset[1] the along-tangent cap component.
// Cap is 1 for cap fan vertices, 0 for body vertices.
type Vertex struct {
	Position [3]float32
	Tangent  [3]float32
	Offset   [2]float32
	Color    Color
	Distance float32
	Cap      float32
}

// Mesh holds ribbon geometry ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32

	// Samples are the resampled centerline points; sample i owns vertices 2i and 2i+1.
	Samples []SamplePoint
	// Length is the total world length of the sampled path.
	Length float32

	// Cap fan vertex ranges [start, end) for the first and last sample.
	StartCap [2]int
	EndCap   [2]int
}

// Bounds returns the axis-aligned bounds of the centerline samples.
func (m *Mesh) Bounds() (lo, hi math.Vec3) {
	if len(m.Samples) == 0 {
		return
	}
	lo, hi = m.Samples[0].Position, m.Samples[0].Position
	for _, s := range m.Samples[1:] {
		p := s.Position
		lo = math.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = math.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	return lo, hi
}
