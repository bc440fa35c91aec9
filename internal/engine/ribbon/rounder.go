package ribbon

import (
	gomath "math"
	"sort"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

// arcSteps is the number of chords in the arc-length lookup table of a corner arc.
const arcSteps = 32

// PieceKind distinguishes straight pieces from corner arcs.
type PieceKind uint8

const (
	PieceLine PieceKind = iota
	PieceArc
)

// Piece is one part of a rounded path: a straight line or a quadratic
// corner arc whose control point is the original waypoint.
type Piece struct {
	Kind   PieceKind
	From   math.Vec3
	Ctrl   math.Vec3 // arcs only
	To     math.Vec3
	Length float32

	// cumulative chord lengths at t = i/arcSteps, arcs only
	lut []float32
}

// At returns the point at arc length s from the start of the piece.
func (p *Piece) At(s float32) math.Vec3 {
	if p.Length <= 0 {
		return p.From
	}
	f := math.Clamp(s/p.Length, 0, 1)
	if p.Kind == PieceLine {
		return p.From.Lerp(p.To, f)
	}
	return quadAt(p.From, p.Ctrl, p.To, p.paramAt(f))
}

// paramAt inverts the chord table: fraction of arc length -> curve parameter.
func (p *Piece) paramAt(f float32) float32 {
	total := p.lut[arcSteps]
	if total <= 0 {
		return f
	}
	target := f * total
	i := sort.Search(arcSteps, func(i int) bool { return p.lut[i+1] >= target })
	if i >= arcSteps {
		return 1
	}
	span := p.lut[i+1] - p.lut[i]
	local := float32(0)
	if span > 0 {
		local = (target - p.lut[i]) / span
	}
	return (float32(i) + local) / arcSteps
}

// RoundedPath is a polyline whose interior corners are replaced by quadratic arcs.
type RoundedPath struct {
	Pieces []Piece
	// Radii holds the realized corner radius per control point; 0 at both ends.
	Radii  []float32
	length float32
}

// Round builds a rounded path from an ordered polyline.
//
// The realized radius at an interior waypoint is the smaller of
// min(radius, a/2) and min(radius, b/2) for the adjoining segment lengths
// a and b, so neighbouring arcs never overlap. A zero-length adjoining
// segment gives a sharp corner.
func Round(points []math.Vec3, radius float32) *RoundedPath {
	rp := &RoundedPath{Radii: make([]float32, len(points))}
	switch len(points) {
	case 0:
		return rp
	case 1:
		rp.Pieces = []Piece{{Kind: PieceLine, From: points[0], To: points[0]}}
		return rp
	}
	if radius < 0 || math32.IsNaN(radius) {
		radius = 0
	}

	n := len(points)
	segLen := make([]float32, n-1)
	segDir := make([]math.Vec3, n-1)
	for i := 0; i < n-1; i++ {
		d := points[i+1].Sub(points[i])
		segLen[i] = d.Length()
		segDir[i] = d.Normalize()
	}

	for i := 1; i < n-1; i++ {
		a, b := segLen[i-1], segLen[i]
		if a <= 0 || b <= 0 {
			continue
		}
		rp.Radii[i] = min(min(radius, a/2), min(radius, b/2))
	}

	for i := 0; i < n-1; i++ {
		from := points[i].Add(segDir[i].Scale(rp.Radii[i]))
		to := points[i+1].Sub(segDir[i].Scale(rp.Radii[i+1]))
		if l := to.Sub(from).Length(); l > 0 {
			rp.Pieces = append(rp.Pieces, Piece{Kind: PieceLine, From: from, To: to, Length: l})
		}

		if i+1 < n-1 && rp.Radii[i+1] > 0 {
			r := rp.Radii[i+1]
			corner := points[i+1]
			rp.Pieces = append(rp.Pieces, newArc(corner.Sub(segDir[i].Scale(r)), corner, corner.Add(segDir[i+1].Scale(r))))
		}
	}

	if len(rp.Pieces) == 0 {
		rp.Pieces = []Piece{{Kind: PieceLine, From: points[0], To: points[n-1]}}
	}
	for _, p := range rp.Pieces {
		rp.length += p.Length
	}
	return rp
}

// Length returns the total arc length of the path.
func (rp *RoundedPath) Length() float32 {
	return rp.length
}

// PointAt returns the point at arc length d from the path start, clamped to the path.
func (rp *RoundedPath) PointAt(d float32) math.Vec3 {
	if len(rp.Pieces) == 0 {
		return math.Vec3{}
	}
	for i := range rp.Pieces {
		p := &rp.Pieces[i]
		if d <= p.Length || i == len(rp.Pieces)-1 {
			return p.At(d)
		}
		d -= p.Length
	}
	return rp.Pieces[len(rp.Pieces)-1].To
}

func newArc(from, ctrl, to math.Vec3) Piece {
	p := Piece{Kind: PieceArc, From: from, Ctrl: ctrl, To: to, lut: make([]float32, arcSteps+1)}
	prev := from
	for i := 1; i <= arcSteps; i++ {
		cur := quadAt(from, ctrl, to, float32(i)/arcSteps)
		p.lut[i] = p.lut[i-1] + cur.Distance(prev)
		prev = cur
	}
	p.Length = quadLength(from, ctrl, to)
	if math32.IsNaN(p.Length) || math32.IsInf(p.Length, 0) || p.Length <= 0 {
		p.Length = p.lut[arcSteps]
	}
	return p
}

// quadAt evaluates B(t) = (1-t)^2 P0 + 2(1-t)t P1 + t^2 P2.
func quadAt(p0, p1, p2 math.Vec3, t float32) math.Vec3 {
	t1 := 1 - t
	return p0.Scale(t1 * t1).Add(p1.Scale(2 * t1 * t)).Add(p2.Scale(t * t))
}

// quadLength returns the closed-form arc length of a quadratic Bézier.
// Returns NaN or Inf for cusped curves; callers fall back to the chord sum.
func quadLength(p0, p1, p2 math.Vec3) float32 {
	a := p0.Sub(p1.Scale(2)).Add(p2)
	b := p1.Scale(2).Sub(p0.Scale(2))
	A := float64(4 * a.Dot(a))
	B := float64(4 * a.Dot(b))
	C := float64(b.Dot(b))
	if A < 1e-12 {
		// control point halfway between the ends: a straight line
		return p2.Distance(p0)
	}

	sabc := 2 * gomath.Sqrt(A+B+C)
	a2 := gomath.Sqrt(A)
	a32 := 2 * A * a2
	c2 := 2 * gomath.Sqrt(C)
	ba := B / a2
	return float32((a32*sabc + a2*B*(sabc-c2) + (4*C*A-B*B)*gomath.Log((2*a2+ba+sabc)/(ba+c2))) / (4 * a32))
}
