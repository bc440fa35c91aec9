package ribbon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

func v3(x, y, z float32) math.Vec3 {
	return math.Vec3{X: x, Y: y, Z: z}
}

// eightPointRoute is a staircase with segment lengths 20, 40, 20, 40, 20, 40, 20,
// so every corner touches a 20 unit segment.
var eightPointRoute = []math.Vec3{
	v3(0, 0, 0), v3(20, 0, 0), v3(20, 40, 0), v3(40, 40, 0),
	v3(40, 80, 0), v3(60, 80, 0), v3(60, 120, 0), v3(80, 120, 0),
}

func TestRoundTwoPoints(t *testing.T) {
	rp := Round([]math.Vec3{v3(0, 0, 0), v3(10, 0, 0)}, 5)

	require.Len(t, rp.Pieces, 1)
	assert.Equal(t, PieceLine, rp.Pieces[0].Kind)
	assert.InDelta(t, 10, rp.Length(), 1e-5)
	assert.Equal(t, []float32{0, 0}, rp.Radii)
}

func TestRoundRadiusClamp(t *testing.T) {
	tests := []struct {
		name    string
		a, b, r float32
		want    float32
	}{
		{"radius fits", 100, 100, 10, 10},
		{"short first segment", 8, 100, 10, 4},
		{"short second segment", 100, 6, 10, 3},
		{"both short", 4, 6, 10, 2},
		{"zero radius", 100, 100, 0, 0},
		{"negative radius", 100, 100, -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := []math.Vec3{v3(-tt.a, 0, 0), v3(0, 0, 0), v3(0, tt.b, 0)}
			rp := Round(pts, tt.r)
			assert.InDelta(t, tt.want, rp.Radii[1], 1e-5)
			assert.LessOrEqual(t, rp.Radii[1], min(tt.a, tt.b)/2+1e-5)
		})
	}
}

func TestRoundEightPointRoute(t *testing.T) {
	rp := Round(eightPointRoute, 15)

	for i, r := range rp.Radii {
		assert.LessOrEqual(t, r, float32(10)+1e-5, "radius at waypoint %d", i)
	}
	for i := 1; i < len(eightPointRoute)-1; i++ {
		a := eightPointRoute[i].Distance(eightPointRoute[i-1])
		b := eightPointRoute[i+1].Distance(eightPointRoute[i])
		assert.InDelta(t, 10, rp.Radii[i], 1e-5, "radius at waypoint %d", i)
		assert.LessOrEqual(t, rp.Radii[i], min(a, b)/2+1e-5, "radius at waypoint %d", i)
	}
	assert.Zero(t, rp.Radii[0])
	assert.Zero(t, rp.Radii[len(rp.Radii)-1])

	// Trims on every original segment fit inside it: arcs never overlap.
	for i := 0; i < len(eightPointRoute)-1; i++ {
		seg := eightPointRoute[i+1].Distance(eightPointRoute[i])
		assert.LessOrEqual(t, rp.Radii[i]+rp.Radii[i+1], seg+1e-4, "segment %d", i)
	}
}

func TestRoundContinuity(t *testing.T) {
	rp := Round(eightPointRoute, 15)

	for i := 1; i < len(rp.Pieces); i++ {
		gap := rp.Pieces[i].From.Distance(rp.Pieces[i-1].To)
		assert.Less(t, gap, float32(1e-4), "gap before piece %d", i)
	}
	assert.Equal(t, eightPointRoute[0], rp.Pieces[0].From)
	assert.Equal(t, eightPointRoute[len(eightPointRoute)-1], rp.Pieces[len(rp.Pieces)-1].To)
}

func TestRoundLengthShorterThanPolyline(t *testing.T) {
	var polyline float32
	for i := 1; i < len(eightPointRoute); i++ {
		polyline += eightPointRoute[i].Distance(eightPointRoute[i-1])
	}

	sharp := Round(eightPointRoute, 0)
	rounded := Round(eightPointRoute, 15)

	assert.InDelta(t, polyline, sharp.Length(), 1e-3)
	assert.Less(t, rounded.Length(), polyline)
}

func TestRoundDuplicatePoints(t *testing.T) {
	pts := []math.Vec3{v3(0, 0, 0), v3(10, 0, 0), v3(10, 0, 0), v3(10, 10, 0)}

	rp := Round(pts, 4)

	assert.Zero(t, rp.Radii[1])
	assert.Zero(t, rp.Radii[2])
	for _, p := range rp.Pieces {
		assert.Equal(t, PieceLine, p.Kind)
	}
	assert.InDelta(t, 20, rp.Length(), 1e-4)
}

func TestRoundReversal(t *testing.T) {
	// A U-turn produces a cusped arc; its length must stay finite.
	pts := []math.Vec3{v3(0, 0, 0), v3(10, 0, 0), v3(0, 0, 0)}

	rp := Round(pts, 2)

	require.Len(t, rp.Pieces, 3)
	arc := rp.Pieces[1]
	assert.Equal(t, PieceArc, arc.Kind)
	assert.InDelta(t, 2, arc.Length, 0.1)
}

func TestRoundDegenerateInput(t *testing.T) {
	assert.Empty(t, Round(nil, 5).Pieces)

	single := Round([]math.Vec3{v3(1, 2, 3)}, 5)
	require.Len(t, single.Pieces, 1)
	assert.Zero(t, single.Length())
}

func TestPointAtArc(t *testing.T) {
	rp := Round([]math.Vec3{v3(-10, 0, 0), v3(0, 0, 0), v3(0, 10, 0)}, 5)

	require.Len(t, rp.Pieces, 3)
	arc := rp.Pieces[1]
	assert.Equal(t, v3(-5, 0, 0), arc.At(0))
	end := arc.At(arc.Length)
	assert.InDelta(t, 0, end.X, 1e-4)
	assert.InDelta(t, 5, end.Y, 1e-4)

	// Midpoint by arc length lies on the symmetry axis of the corner.
	mid := arc.At(arc.Length / 2)
	assert.InDelta(t, mid.X, -mid.Y, 1e-2)

	assert.Equal(t, rp.Pieces[0].From, rp.PointAt(-1))
	last := rp.PointAt(rp.Length() + 10)
	assert.InDelta(t, 10, last.Y, 1e-4)
}
