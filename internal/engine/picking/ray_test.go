package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-ribbon/internal/route"
	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

func overhead(height float32) *route.CameraState {
	return &route.CameraState{
		View:       math.LookAt(math.Vec3{Z: height}, math.Vec3{}, math.Vec3{Y: 1}),
		Projection: math.Perspective(math.Radians(60), 1, 0.1, 1000),
		Viewport:   math.Vec2{X: 200, Y: 200},
	}
}

func TestCenterRayHitsTarget(t *testing.T) {
	r := CameraRay(overhead(50), 100, 100)
	assert.InDelta(t, -1, r.Direction.Z, 1e-4)

	p, ok := r.IntersectPlaneZ(0)
	require.True(t, ok)
	assert.InDelta(t, 0, p.X, 1e-2)
	assert.InDelta(t, 0, p.Y, 1e-2)
}

func TestScreenCornersMapToGround(t *testing.T) {
	cam := overhead(50)
	half := 50 * float32(0.57735) // tan(30deg)

	// Top-left pixel corner is -X, +Y on the ground.
	p, ok := CameraRay(cam, 0, 0).IntersectPlaneZ(0)
	require.True(t, ok)
	assert.InDelta(t, -half, p.X, 0.05)
	assert.InDelta(t, half, p.Y, 0.05)

	p, ok = CameraRay(cam, 200, 200).IntersectPlaneZ(0)
	require.True(t, ok)
	assert.InDelta(t, half, p.X, 0.05)
	assert.InDelta(t, -half, p.Y, 0.05)
}

func TestIntersectPlaneZMisses(t *testing.T) {
	parallel := Ray{Direction: math.Vec3{X: 1}}
	_, ok := parallel.IntersectPlaneZ(0)
	assert.False(t, ok)

	away := Ray{Origin: math.Vec3{Z: 10}, Direction: math.Vec3{Z: 1}}
	_, ok = away.IntersectPlaneZ(0)
	assert.False(t, ok)
}

func TestNearestPoint(t *testing.T) {
	r := Ray{Origin: math.Vec3{Z: 10}, Direction: math.Vec3{Z: -1}}
	points := []math.Vec3{{X: 5}, {X: 0.5}, {X: -0.2, Y: 0.1}, {Z: 20}}

	assert.Equal(t, 2, r.NearestPoint(points, 1))
	assert.Equal(t, -1, r.NearestPoint(points[:1], 1))
	assert.Equal(t, -1, r.NearestPoint(nil, 1))

	// Behind the origin distance is measured to the origin.
	assert.InDelta(t, 10, r.DistanceTo(math.Vec3{Z: 20}), 1e-5)
}
