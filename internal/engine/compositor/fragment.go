package compositor

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-ribbon/internal/engine/ribbon"
	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

// GlyphSampler samples the arrow glyph's alpha channel.
// rate is the change of u per screen pixel, used to pick a filter footprint.
type GlyphSampler interface {
	SampleAlpha(u, v, rate float32) float32
}

// Fragment holds the interpolated ribbon attributes at one pixel together
// with their screen-space derivatives (the dFdx/dFdy of the GPU path).
type Fragment struct {
	Offset   math.Vec2
	Distance float32
	Color    ribbon.Color

	OffsetDX, OffsetDY     math.Vec2
	DistanceDX, DistanceDY float32
}

// Cross returns the cross-line coordinate: 0 on the centerline, 1 at the
// edge. In caps it is the radial distance from the fan center.
func (f *Fragment) Cross() float32 {
	return f.Offset.Length()
}

// CrossRate returns how fast Cross changes per pixel.
func (f *Fragment) CrossRate() float32 {
	c := f.Cross()
	dx := f.Offset.Add(f.OffsetDX).Length() - c
	dy := f.Offset.Add(f.OffsetDY).Length() - c
	return math.MaxEps(math32.Hypot(dx, dy), Epsilon)
}

// DistanceRate returns how fast the path distance changes per pixel. In
// world mode this is the local world-units-per-pixel.
func (f *Fragment) DistanceRate() float32 {
	return math.MaxEps(math32.Hypot(f.DistanceDX, f.DistanceDY), Epsilon)
}

// EdgeAlpha fades the last pixel of the ribbon edge. The band is sized
// from the per-pixel rate of Cross so softness is constant in pixels.
func EdgeAlpha(f *Fragment) float32 {
	fw := f.CrossRate()
	return 1 - math.Smoothstep(1-fw, 1, f.Cross())
}

// BorderAlpha returns the coverage of the optional border band running
// BorderWidth pixels inside each edge.
func BorderAlpha(f *Fragment, u *Uniforms) float32 {
	if u.BorderWidth <= 0 {
		return 0
	}
	half := math.MaxEps(u.Width, Epsilon) / 2
	inner := 1 - u.BorderWidth/half
	fw := f.CrossRate()
	return math.Smoothstep(inner-fw, inner, f.Cross())
}

// ArrowAlpha returns the animated arrow coverage at the fragment.
//
// The cycle is Spacing long and scrolls by Offset. The offset of the
// fragment from the nearest cycle center is converted to pixels and
// normalized so the glyph spans exactly Width pixels along the path.
// Samples outside the glyph contribute nothing.
func ArrowAlpha(f *Fragment, u *Uniforms, g GlyphSampler) float32 {
	if g == nil {
		return 0
	}
	width := math.MaxEps(u.Width, Epsilon)
	spacing := math.MaxEps(u.Spacing, Epsilon)

	signed := f.Distance - u.Offset
	local := signed - spacing*math32.Floor(signed/spacing+0.5)

	rate := f.DistanceRate()
	pxPerUnit := float32(1)
	if u.Mode == SpacingWorld {
		pxPerUnit = 1 / rate
	}

	gu := local*pxPerUnit/width + 0.5
	if gu < 0 || gu > 1 {
		return 0
	}
	gv := math.Clamp(f.Offset.X*0.5+0.5, 0, 1)

	// u changes by rate*pxPerUnit/width per pixel
	du := rate * pxPerUnit / width
	a := g.SampleAlpha(gu, gv, du)
	aa := math.Clamp(du*2, 0.02, 0.5)
	a = math.Smoothstep(0.5-aa, 0.5+aa, a)

	return a * LODFade(rate, u)
}

// LODFade fades the arrows out as their on-screen spacing shrinks.
// worldPerPixel is the local world-units-per-pixel of the distance metric.
// Only world mode fades; a non-positive bias disables it.
func LODFade(worldPerPixel float32, u *Uniforms) float32 {
	if u.Mode != SpacingWorld || u.LODBias <= 0 {
		return 1
	}
	width := math.MaxEps(u.Width, Epsilon)
	spacingPx := math.MaxEps(u.Spacing, Epsilon) / math.MaxEps(worldPerPixel, Epsilon)
	lo := width * u.LODMinMultiple * u.LODBias
	hi := width * u.LODMaxMultiple * u.LODBias
	return math.Smoothstep(lo, hi, spacingPx)
}

// Shade composites the ribbon color at a fragment: the base color is mixed
// towards the arrow color by the arrow alpha, then towards the border
// color by the border alpha. Alpha is the edge coverage times base alpha.
// The result is straight (not premultiplied) RGBA.
func Shade(f *Fragment, u *Uniforms, g GlyphSampler) ribbon.Color {
	arrow := ArrowAlpha(f, u, g) * u.ArrowColor[3]
	border := BorderAlpha(f, u) * u.BorderColor[3]

	var out ribbon.Color
	for i := 0; i < 3; i++ {
		c := math.Mix(f.Color[i], u.ArrowColor[i], arrow)
		out[i] = math.Mix(c, u.BorderColor[i], border)
	}
	out[3] = EdgeAlpha(f) * f.Color[3]
	return out
}
