package ribbon

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

// DefaultCapSegments is the number of triangles in each end cap fan.
const DefaultCapSegments = 8

// MeshOptions controls mesh generation.
type MeshOptions struct {
	CapSegments int
	Traffic     []TrafficSegment
}

// BuildMesh converts sampled points into a ribbon mesh with two side
// vertices per sample and a semicircular triangle fan at each end.
func BuildMesh(samples []SamplePoint, opts MeshOptions) *Mesh {
	n := len(samples)
	if n == 0 {
		return &Mesh{}
	}
	capSegs := opts.CapSegments
	if capSegs < 1 {
		capSegs = DefaultCapSegments
	}

	total := samples[n-1].Distance
	tangents := sampleTangents(samples)

	m := &Mesh{
		Vertices: make([]Vertex, 0, 2*n+2*(capSegs+2)),
		Indices:  make([]uint32, 0, 6*(n-1)+6*capSegs),
		Samples:  samples,
		Length:   total,
	}

	for i, s := range samples {
		progress := float32(0)
		if total > 0 {
			progress = s.Distance / total
		}
		base := Vertex{
			Position: s.Position.Array(),
			Tangent:  tangents[i].Array(),
			Color:    ColorAt(opts.Traffic, progress),
			Distance: s.Distance,
		}
		left, right := base, base
		left.Offset = [2]float32{1, 0}
		right.Offset = [2]float32{-1, 0}
		m.Vertices = append(m.Vertices, left, right)
	}

	for i := 0; i < n-1; i++ {
		l0, r0 := uint32(2*i), uint32(2*i+1)
		l1, r1 := l0+2, r0+2
		m.Indices = append(m.Indices,
			l0, r0, l1,
			r0, r1, l1,
		)
	}

	m.StartCap = m.appendCap(0, -1, capSegs)
	m.EndCap = m.appendCap(n-1, 1, capSegs)
	return m
}

// appendCap emits a fan around the side vertices of sample i. dir is -1 for
// a cap bulging backwards along the tangent and +1 for forwards.
func (m *Mesh) appendCap(i int, dir float32, segments int) [2]int {
	start := len(m.Vertices)
	center := m.Vertices[2*i]
	center.Offset = [2]float32{0, 0}
	center.Cap = 1
	m.Vertices = append(m.Vertices, center)

	for k := 0; k <= segments; k++ {
		phi := math32.Pi * float32(k) / float32(segments)
		v := center
		v.Offset = [2]float32{math32.Cos(phi), dir * math32.Sin(phi)}
		m.Vertices = append(m.Vertices, v)
	}

	c := uint32(start)
	for k := 0; k < segments; k++ {
		m.Indices = append(m.Indices, c, c+1+uint32(k), c+2+uint32(k))
	}
	return [2]int{start, len(m.Vertices)}
}

// SetSampleDistance writes d into the distance attribute of every vertex
// belonging to sample i, including cap vertices at the path ends.
func (m *Mesh) SetSampleDistance(i int, d float32) {
	m.Vertices[2*i].Distance = d
	m.Vertices[2*i+1].Distance = d
	if i == 0 {
		for j := m.StartCap[0]; j < m.StartCap[1]; j++ {
			m.Vertices[j].Distance = d
		}
	}
	if i == len(m.Samples)-1 {
		for j := m.EndCap[0]; j < m.EndCap[1]; j++ {
			m.Vertices[j].Distance = d
		}
	}
}

// ApplyDistances writes one distance per sample into the mesh.
func (m *Mesh) ApplyDistances(distances []float32) {
	n := min(len(distances), len(m.Samples))
	for i := 0; i < n; i++ {
		m.SetSampleDistance(i, distances[i])
	}
}

// sampleTangents returns unit tangents from neighbouring samples, using
// forward/backward differences at the ends. Duplicate samples borrow the
// nearest defined tangent; a fully degenerate path points along +X.
func sampleTangents(samples []SamplePoint) []math.Vec3 {
	n := len(samples)
	tangents := make([]math.Vec3, n)
	if n < 2 {
		for i := range tangents {
			tangents[i] = math.Vec3{X: 1}
		}
		return tangents
	}

	for i := range samples {
		prev, next := max(i-1, 0), min(i+1, n-1)
		tangents[i] = samples[next].Position.Sub(samples[prev].Position).Normalize()
	}

	first := -1
	for i, t := range tangents {
		if t != (math.Vec3{}) {
			first = i
			break
		}
	}
	if first < 0 {
		for i := range tangents {
			tangents[i] = math.Vec3{X: 1}
		}
		return tangents
	}
	last := tangents[first]
	for i := range tangents {
		if tangents[i] == (math.Vec3{}) {
			tangents[i] = last
		} else {
			last = tangents[i]
		}
	}
	return tangents
}
