// Package picking turns screen positions into world rays for editing
// route waypoints in the viewer.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-ribbon/internal/route"
	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// ScreenToRay converts a pixel position (top-left origin, as reported by
// mouse events) to a world-space ray from the near plane.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(x, y float32, viewport math.Vec2, invViewProj math.Mat4) Ray {
	w, h := math.MaxEps(viewport.X, 1), math.MaxEps(viewport.Y, 1)
	ndcX := 2*x/w - 1
	ndcY := 1 - 2*y/h // Flip Y

	near := invViewProj.TransformPoint(math.Vec3{X: ndcX, Y: ndcY, Z: -1})
	far := invViewProj.TransformPoint(math.Vec3{X: ndcX, Y: ndcY, Z: 1})

	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// CameraRay is ScreenToRay for a route camera.
func CameraRay(cam *route.CameraState, x, y float32) Ray {
	return ScreenToRay(x, y, cam.Viewport, cam.ViewProjection().Inverse())
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlaneZ intersects the ray with the horizontal plane Z = z.
func (r Ray) IntersectPlaneZ(z float32) (math.Vec3, bool) {
	if math32.Abs(r.Direction.Z) < 1e-3 {
		return math.Vec3{}, false // parallel
	}
	t := (z - r.Origin.Z) / r.Direction.Z
	if t < 0 {
		return math.Vec3{}, false // behind the origin
	}
	return r.At(t), true
}

// DistanceTo returns the distance from p to the ray. Points behind the
// origin measure to the origin.
func (r Ray) DistanceTo(p math.Vec3) float32 {
	rel := p.Sub(r.Origin)
	t := max(rel.Dot(r.Direction), 0)
	return rel.Sub(r.Direction.Scale(t)).Length()
}

// NearestPoint returns the index of the point closest to the ray within
// maxDist, or -1.
func (r Ray) NearestPoint(points []math.Vec3, maxDist float32) int {
	best, bestDist := -1, maxDist
	for i, p := range points {
		if d := r.DistanceTo(p); d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
