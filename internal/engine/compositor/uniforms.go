// Package compositor implements the draw-time ribbon math: constant pixel
// width extrusion, edge antialiasing, arrow tiling with LOD fade and the
// final color composite.
//
// The functions mirror internal/engine/scene/shaders/ribbon.vert and
// ribbon.frag one to one. The software preview renderer runs them per
// pixel; tests use them to check pixel widths and spacing.
package compositor

import (
	"fmt"

	"github.com/Faultbox/midgard-ribbon/internal/engine/ribbon"
	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

// Epsilon guards every denominator: width, spacing, w and derivatives.
const Epsilon = 1e-4

// SpacingMode selects how arrow spacing is kept visually uniform.
// A path uses exactly one mode for its lifetime.
type SpacingMode uint8

const (
	// SpacingScreen re-projects the centerline on the CPU every frame and
	// tiles arrows in pixels. Exact spacing; costs O(samples) per frame.
	SpacingScreen SpacingMode = iota
	// SpacingWorld tiles arrows in world units and converts to pixels with
	// the per-pixel derivative of the distance. No CPU work per frame; may
	// shimmer at grazing angles, which the LOD fade hides.
	SpacingWorld
)

// String returns the config name of the mode.
func (m SpacingMode) String() string {
	switch m {
	case SpacingScreen:
		return "screen"
	case SpacingWorld:
		return "world"
	default:
		return fmt.Sprintf("SpacingMode(%d)", m)
	}
}

// ParseSpacingMode parses a config name.
func ParseSpacingMode(s string) (SpacingMode, error) {
	switch s {
	case "", "screen":
		return SpacingScreen, nil
	case "world":
		return SpacingWorld, nil
	default:
		return SpacingScreen, fmt.Errorf("unknown spacing mode %q", s)
	}
}

// LOD fade defaults, as multiples of the line width.
const (
	DefaultLODMinMultiple = 1.5
	DefaultLODMaxMultiple = 3.0
)

// Uniforms holds the per-draw shading state.
type Uniforms struct {
	Resolution math.Vec2 // viewport in pixels
	Width      float32   // line width in pixels
	Spacing    float32   // arrow cycle length, pixels or world units per Mode
	Offset     float32   // scrolling animation offset, same unit as Spacing
	Mode       SpacingMode

	// LODBias scales the fade thresholds; <= 0 disables the fade.
	LODBias        float32
	LODMinMultiple float32
	LODMaxMultiple float32

	BorderWidth float32 // pixels, 0 disables the border
	ArrowColor  ribbon.Color
	BorderColor ribbon.Color
}

// DefaultUniforms returns uniforms with white arrows and no border.
func DefaultUniforms() Uniforms {
	return Uniforms{
		Resolution:     math.Vec2{X: 1280, Y: 720},
		Width:          20,
		Spacing:        60,
		LODMinMultiple: DefaultLODMinMultiple,
		LODMaxMultiple: DefaultLODMaxMultiple,
		ArrowColor:     ribbon.Color{1, 1, 1, 1},
		BorderColor:    ribbon.Color{1, 1, 1, 1},
	}
}
