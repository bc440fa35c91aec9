// Package route turns a 3D polyline into an animated, constant pixel width
// ribbon: it owns the geometry pipeline (round, sample, mesh), the per-frame
// screen distance update and the shading state handed to a drawable.
package route

import (
	"github.com/Faultbox/midgard-ribbon/internal/engine/compositor"
	"github.com/Faultbox/midgard-ribbon/internal/engine/ribbon"
	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

// Config describes the look of a route.
type Config struct {
	WidthPixels    float32 // ribbon width on screen
	ArrowSpacing   float32 // pixels in SpacingScreen, world units in SpacingWorld
	AnimationSpeed float32 // arrow scroll speed, ArrowSpacing units per second

	TrafficSegments []ribbon.TrafficSegment

	PathZOffset  float32 // lifts the ribbon above the ground it follows
	CornerRadius float32 // requested, clamped per corner

	// LODBias scales the arrow fade thresholds in SpacingWorld.
	// Zero keeps arrows at full opacity.
	LODBias        float32
	LODMinMultiple float32
	LODMaxMultiple float32

	Mode        compositor.SpacingMode
	Sampling    ribbon.SampleOptions
	CapSegments int

	BorderWidthPixels float32
	ArrowColor        ribbon.Color
	BorderColor       ribbon.Color
}

// DefaultConfig returns a 20px ribbon with white arrows every 60px.
func DefaultConfig() Config {
	return Config{
		WidthPixels:    20,
		ArrowSpacing:   60,
		AnimationSpeed: 30,
		CornerRadius:   5,
		PathZOffset:    0.05,
		LODMinMultiple: compositor.DefaultLODMinMultiple,
		LODMaxMultiple: compositor.DefaultLODMaxMultiple,
		Mode:           compositor.SpacingScreen,
		Sampling:       ribbon.DefaultSampleOptions(),
		CapSegments:    ribbon.DefaultCapSegments,
		ArrowColor:     ribbon.Color{1, 1, 1, 1},
		BorderColor:    ribbon.Color{1, 1, 1, 1},
	}
}

// CameraState is the camera input of Update.
type CameraState struct {
	View       math.Mat4
	Projection math.Mat4
	Viewport   math.Vec2 // pixels
}

// ViewProjection returns Projection * View.
func (c *CameraState) ViewProjection() math.Mat4 {
	return c.Projection.Mul(c.View)
}

// Drawable is the GPU side of a route. Upload is called after every
// rebuild (with nil when the route has no geometry), UpdateDistances after
// the per-frame distance refresh.
type Drawable interface {
	Upload(m *ribbon.Mesh)
	UpdateDistances(m *ribbon.Mesh)
	Dispose()
}
