package compositor

import (
	"github.com/Faultbox/midgard-ribbon/internal/engine/ribbon"
	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

// Extrude returns the clip-space position of v with its unit offset
// inflated to exactly Width/2 pixels on screen.
//
// The vertex and vertex+tangent are projected to NDC; their difference
// scaled to pixels gives the screen tangent, rotated 90 degrees for the
// normal. The pixel offset is mapped back to clip space by 2/resolution
// times w so the perspective divide cancels it out.
func Extrude(viewProj math.Mat4, v *ribbon.Vertex, u *Uniforms) math.Vec4 {
	pos := math.Vec3{X: v.Position[0], Y: v.Position[1], Z: v.Position[2]}
	tan := math.Vec3{X: v.Tangent[0], Y: v.Tangent[1], Z: v.Tangent[2]}

	clip := viewProj.MulVec4(math.Point(pos))
	ahead := viewProj.MulVec4(math.Point(pos.Add(tan)))

	res := math.Vec2{X: math.MaxEps(u.Resolution.X, 1), Y: math.MaxEps(u.Resolution.Y, 1)}
	ndc0 := clip.XY().Scale(1 / guardW(clip.W()))
	ndc1 := ahead.XY().Scale(1 / guardW(ahead.W()))

	dir := ndc1.Sub(ndc0).Mul(res.Scale(0.5))
	if dir.Length() < Epsilon {
		dir = math.Vec2{X: 1}
	} else {
		dir = dir.Normalize()
	}
	normal := dir.Perp()

	half := math.MaxEps(u.Width, Epsilon) / 2
	offset := normal.Scale(v.Offset[0]).Add(dir.Scale(v.Offset[1])).Scale(half)
	delta := offset.Mul(math.Vec2{X: 2 / res.X, Y: 2 / res.Y}).Scale(clip.W())

	clip[0] += delta.X
	clip[1] += delta.Y
	return clip
}

// ToPixels converts a clip-space position to pixel coordinates with the
// origin at the bottom-left of the viewport.
func ToPixels(clip math.Vec4, resolution math.Vec2) math.Vec2 {
	w := guardW(clip.W())
	return math.Vec2{
		X: (clip[0]/w + 1) * 0.5 * resolution.X,
		Y: (clip[1]/w + 1) * 0.5 * resolution.Y,
	}
}

func guardW(w float32) float32 {
	switch {
	case w >= Epsilon || w <= -Epsilon:
		return w
	case w < 0:
		return -Epsilon
	default:
		return Epsilon
	}
}
