// Package camera provides the orbit camera used to inspect routes.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-ribbon/internal/route"
	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

// OrbitCamera orbits around a center point in a Z-up world.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance float32 // Distance from center
	Pitch    float32 // Elevation above the XY plane (radians)
	Yaw      float32 // Heading around +Z (radians), 0 looks from +X

	// Projection
	FOV  float32 // Vertical field of view (radians)
	Near float32
	Far  float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        160,
		Pitch:           math.Radians(55),
		Yaw:             math.Radians(-90),
		FOV:             math.Radians(60),
		Near:            0.1,
		Far:             5000,
		MinDistance:     2,
		MaxDistance:     4000,
		MinPitch:        math.Radians(2),
		MaxPitch:        math.Radians(89.5),
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cp, sp := math32.Cos(c.Pitch), math32.Sin(c.Pitch)
	cy, sy := math32.Cos(c.Yaw), math32.Sin(c.Yaw)
	return c.Center.Add(math.Vec3{
		X: c.Distance * cp * cy,
		Y: c.Distance * cp * sy,
		Z: c.Distance * sp,
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{Z: 1}
	// Straight down the up vector is degenerate; use the heading instead.
	if c.Pitch > math.Radians(89.9) {
		up = math.Vec3{X: -math32.Cos(c.Yaw), Y: -math32.Sin(c.Yaw)}
	}
	return math.LookAt(c.Position(), c.Center, up)
}

// ProjectionMatrix returns the perspective projection for the aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FOV, math.MaxEps(aspect, 1e-3), c.Near, c.Far)
}

// State returns the camera input of route.Path.Update for a viewport.
func (c *OrbitCamera) State(width, height int) *route.CameraState {
	w, h := float32(max(width, 1)), float32(max(height, 1))
	return &route.CameraState{
		View:       c.ViewMatrix(),
		Projection: c.ProjectionMatrix(w / h),
		Viewport:   math.Vec2{X: w, Y: h},
	}
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch = math.Clamp(c.Pitch+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = math.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// HandleMovement pans the center on the ground plane relative to the
// current heading. up moves along +Z.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.01

	// Forward points from the camera towards the center, projected on XY.
	fx, fy := -math32.Cos(c.Yaw), -math32.Sin(c.Yaw)
	rx, ry := fy, -fx

	c.Center.X += (fx*forward + rx*right) * speed
	c.Center.Y += (fy*forward + ry*right) * speed
	c.Center.Z += up * speed
}

// FitToBounds centers the camera on a bounding box and backs off until the
// whole box fits the vertical field of view.
func (c *OrbitCamera) FitToBounds(lo, hi math.Vec3) {
	c.Center = lo.Add(hi).Scale(0.5)
	radius := hi.Sub(lo).Length() / 2
	c.Distance = math.Clamp(radius/math32.Sin(c.FOV/2), c.MinDistance, c.MaxDistance)
}
