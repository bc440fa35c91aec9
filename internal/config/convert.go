package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/midgard-ribbon/internal/engine/camera"
	"github.com/Faultbox/midgard-ribbon/internal/engine/compositor"
	"github.com/Faultbox/midgard-ribbon/internal/engine/ribbon"
	"github.com/Faultbox/midgard-ribbon/internal/route"
	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (ribbon.Color, error) {
	s = strings.TrimSpace(s)
	alpha := float32(1)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return ribbon.Color{}, fmt.Errorf("color %q: bad alpha: %w", s, err)
		}
		alpha = float32(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return ribbon.Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	c = c.Clamped()
	return ribbon.Color{float32(c.R), float32(c.G), float32(c.B), alpha}, nil
}

// RouteConfig converts the ribbon section into route settings.
func (r *RibbonConfig) RouteConfig() (route.Config, error) {
	mode, err := compositor.ParseSpacingMode(r.SpacingMode)
	if err != nil {
		return route.Config{}, err
	}

	cfg := route.Config{
		WidthPixels:       r.WidthPixels,
		ArrowSpacing:      r.ArrowSpacing,
		AnimationSpeed:    r.AnimationSpeed,
		PathZOffset:       r.ZOffset,
		CornerRadius:      r.CornerRadius,
		LODBias:           r.LODBias,
		LODMinMultiple:    r.LODMinMultiple,
		LODMaxMultiple:    r.LODMaxMultiple,
		Mode:              mode,
		Sampling:          ribbon.SampleOptions{Density: r.Density, MinSamples: r.MinSamples},
		CapSegments:       r.CapSegments,
		BorderWidthPixels: r.BorderWidthPixels,
		ArrowColor:        ribbon.Color{1, 1, 1, 1},
		BorderColor:       ribbon.Color{1, 1, 1, 1},
	}

	if r.ArrowColor != "" {
		if cfg.ArrowColor, err = ParseColor(r.ArrowColor); err != nil {
			return route.Config{}, fmt.Errorf("arrow_color: %w", err)
		}
	}
	if r.BorderColor != "" {
		if cfg.BorderColor, err = ParseColor(r.BorderColor); err != nil {
			return route.Config{}, fmt.Errorf("border_color: %w", err)
		}
	}

	for i, t := range r.Traffic {
		c, err := ParseColor(t.Color)
		if err != nil {
			return route.Config{}, fmt.Errorf("traffic[%d]: %w", i, err)
		}
		cfg.TrafficSegments = append(cfg.TrafficSegments, ribbon.TrafficSegment{Start: t.Start, End: t.End, Color: c})
	}
	return cfg, nil
}

// Vec3s returns the control polyline.
func (r *RouteConfig) Vec3s() []math.Vec3 {
	pts := make([]math.Vec3, len(r.Points))
	for i, p := range r.Points {
		pts[i] = math.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}
	return pts
}

// BackgroundColor returns the clear color, opaque black when unset.
func (g *GraphicsConfig) BackgroundColor() ribbon.Color {
	if g.Background == "" {
		return ribbon.Color{0, 0, 0, 1}
	}
	c, err := ParseColor(g.Background)
	if err != nil {
		return ribbon.Color{0, 0, 0, 1}
	}
	return c
}

// OrbitCamera returns a camera in the configured start state. Zero values
// keep the camera defaults.
func (c *CameraConfig) OrbitCamera() *camera.OrbitCamera {
	cam := camera.NewOrbitCamera()
	cam.Center = math.Vec3{X: c.Target[0], Y: c.Target[1], Z: c.Target[2]}
	if c.FOV > 0 {
		cam.FOV = math.Radians(c.FOV)
	}
	if c.Near > 0 {
		cam.Near = c.Near
	}
	if c.Far > cam.Near {
		cam.Far = c.Far
	}
	if c.Distance > 0 {
		cam.Distance = math.Clamp(c.Distance, cam.MinDistance, cam.MaxDistance)
	}
	cam.Yaw = math.Radians(c.Yaw)
	cam.Pitch = math.Clamp(math.Radians(c.Pitch), cam.MinPitch, cam.MaxPitch)
	return cam
}
