// Package preview rasterizes ribbon meshes on the CPU with the same
// extrusion and shading as the GPU path. It backs headless frame output
// and pixel-level tests.
package preview

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-ribbon/internal/engine/compositor"
	"github.com/Faultbox/midgard-ribbon/internal/engine/ribbon"
	"github.com/Faultbox/midgard-ribbon/internal/route"
	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

// Renderer is a software render target. Pixel (0, 0) of the buffer is the
// bottom-left of the viewport, matching GL window coordinates.
type Renderer struct {
	width, height int
	background    ribbon.Color
	glyph         compositor.GlyphSampler
	buf           []ribbon.Color
}

// New creates a renderer. glyph may be nil to draw without arrows.
func New(width, height int, glyph compositor.GlyphSampler) *Renderer {
	width, height = max(width, 1), max(height, 1)
	r := &Renderer{
		width:  width,
		height: height,
		glyph:  glyph,
		buf:    make([]ribbon.Color, width*height),
	}
	r.Clear()
	return r
}

// Size returns the render target size in pixels.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

// SetBackground sets the clear color used by Clear.
func (r *Renderer) SetBackground(c ribbon.Color) { r.background = c }

// Clear fills the target with the background color.
func (r *Renderer) Clear() {
	for i := range r.buf {
		r.buf[i] = r.background
	}
}

// DrawPath draws a route with its current mesh and uniforms.
func (r *Renderer) DrawPath(p *route.Path, cam *route.CameraState) int {
	m := p.Mesh()
	if m == nil || cam == nil {
		return 0
	}
	return r.Draw(m, p.Uniforms(), cam.ViewProjection())
}

// Draw rasterizes a mesh and blends it over the target. The uniforms'
// resolution is replaced by the target size. Returns the number of shaded
// fragments.
func (r *Renderer) Draw(m *ribbon.Mesh, u compositor.Uniforms, viewProj math.Mat4) int {
	if m == nil || len(m.Indices) < 3 {
		return 0
	}
	u.Resolution = math.Vec2{X: float32(r.width), Y: float32(r.height)}

	verts := make([]screenVertex, len(m.Vertices))
	for i := range m.Vertices {
		verts[i] = r.transform(viewProj, &m.Vertices[i], &u)
	}

	shaded := 0
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		if int(max(a, b, c)) >= len(verts) {
			continue
		}
		shaded += r.triangle(verts[a], verts[b], verts[c], &u)
	}
	return shaded
}

// screenVertex is a vertex after extrusion and viewport mapping.
type screenVertex struct {
	pos     math.Vec2 // pixels
	invW    float32
	visible bool
	attr    attributes
}

// attributes are the interpolated varyings.
type attributes struct {
	offset   math.Vec2
	distance float32
	color    ribbon.Color
}

func (a attributes) scale(s float32) attributes {
	return attributes{
		offset:   a.offset.Scale(s),
		distance: a.distance * s,
		color:    ribbon.Color{a.color[0] * s, a.color[1] * s, a.color[2] * s, a.color[3] * s},
	}
}

func (a attributes) add(b attributes) attributes {
	return attributes{
		offset:   a.offset.Add(b.offset),
		distance: a.distance + b.distance,
		color: ribbon.Color{
			a.color[0] + b.color[0], a.color[1] + b.color[1],
			a.color[2] + b.color[2], a.color[3] + b.color[3],
		},
	}
}

func (r *Renderer) transform(viewProj math.Mat4, v *ribbon.Vertex, u *compositor.Uniforms) screenVertex {
	clip := compositor.Extrude(viewProj, v, u)
	sv := screenVertex{
		attr: attributes{
			offset:   math.Vec2{X: v.Offset[0], Y: v.Offset[1]},
			distance: v.Distance,
			color:    v.Color,
		},
	}
	// No near plane clipping; triangles touching the camera plane are dropped.
	w := clip.W()
	if w <= compositor.Epsilon {
		return sv
	}
	sv.visible = true
	sv.invW = 1 / w
	sv.pos = compositor.ToPixels(clip, u.Resolution)
	return sv
}

// edge is the doubled signed area of (a, b, p); positive when p lies left
// of a->b in y-up coordinates.
func edge(a, b, p math.Vec2) float32 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// topLeft reports whether a->b is a top or left edge of a counter-clockwise
// triangle in y-up coordinates. Pixels exactly on such edges are owned by
// the triangle so shared edges are not blended twice.
func topLeft(a, b math.Vec2) bool {
	dy := b.Y - a.Y
	return dy < 0 || (dy == 0 && b.X < a.X)
}

func covers(w float32, owns bool) bool {
	return w > 0 || (w == 0 && owns)
}

func (r *Renderer) triangle(v0, v1, v2 screenVertex, u *compositor.Uniforms) int {
	if !v0.visible || !v1.visible || !v2.visible {
		return 0
	}
	area := edge(v0.pos, v1.pos, v2.pos)
	if math32.Abs(area) < 1e-8 {
		return 0
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}

	minX := max(int(math32.Floor(min(v0.pos.X, v1.pos.X, v2.pos.X))), 0)
	maxX := min(int(math32.Ceil(max(v0.pos.X, v1.pos.X, v2.pos.X))), r.width-1)
	minY := max(int(math32.Floor(min(v0.pos.Y, v1.pos.Y, v2.pos.Y))), 0)
	maxY := min(int(math32.Ceil(max(v0.pos.Y, v1.pos.Y, v2.pos.Y))), r.height-1)
	if minX > maxX || minY > maxY {
		return 0
	}

	own0 := topLeft(v1.pos, v2.pos)
	own1 := topLeft(v2.pos, v0.pos)
	own2 := topLeft(v0.pos, v1.pos)

	// interp evaluates the perspective-correct varyings anywhere on the
	// triangle's plane, including just outside it for derivatives. Pixel
	// distances of screen spacing are interpolated linearly on screen.
	screenDistance := u.Mode == compositor.SpacingScreen
	interp := func(p math.Vec2) attributes {
		l0 := edge(v1.pos, v2.pos, p) / area
		l1 := edge(v2.pos, v0.pos, p) / area
		l2 := edge(v0.pos, v1.pos, p) / area
		b0, b1, b2 := l0*v0.invW, l1*v1.invW, l2*v2.invW
		sum := b0 + b1 + b2
		if math32.Abs(sum) < 1e-12 {
			return v0.attr
		}
		inv := 1 / sum
		a := v0.attr.scale(b0 * inv).add(v1.attr.scale(b1 * inv)).add(v2.attr.scale(b2 * inv))
		if screenDistance {
			a.distance = l0*v0.attr.distance + l1*v1.attr.distance + l2*v2.attr.distance
		}
		return a
	}

	shaded := 0
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := math.Vec2{X: float32(x) + 0.5, Y: float32(y) + 0.5}
			if !covers(edge(v1.pos, v2.pos, p), own0) ||
				!covers(edge(v2.pos, v0.pos, p), own1) ||
				!covers(edge(v0.pos, v1.pos, p), own2) {
				continue
			}

			here := interp(p)
			right := interp(math.Vec2{X: p.X + 1, Y: p.Y})
			up := interp(math.Vec2{X: p.X, Y: p.Y + 1})

			f := compositor.Fragment{
				Offset:     here.offset,
				Distance:   here.distance,
				Color:      here.color,
				OffsetDX:   right.offset.Sub(here.offset),
				OffsetDY:   up.offset.Sub(here.offset),
				DistanceDX: right.distance - here.distance,
				DistanceDY: up.distance - here.distance,
			}
			r.blend(x, y, compositor.Shade(&f, u, r.glyph))
			shaded++
		}
	}
	return shaded
}

// blend applies SRC_ALPHA, ONE_MINUS_SRC_ALPHA to all four channels.
func (r *Renderer) blend(x, y int, src ribbon.Color) {
	a := math.Clamp(src[3], 0, 1)
	if a <= 0 {
		return
	}
	dst := &r.buf[y*r.width+x]
	for i := range dst {
		dst[i] = src[i]*a + dst[i]*(1-a)
	}
}

// At returns the color at (x, y) in image coordinates (top-left origin).
func (r *Renderer) At(x, y int) ribbon.Color {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return ribbon.Color{}
	}
	return r.buf[(r.height-1-y)*r.width+x]
}

// Image converts the target to an image with a top-left origin.
func (r *Renderer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.width, r.height))
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			c := r.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{
				R: toByte(c[0]),
				G: toByte(c[1]),
				B: toByte(c[2]),
				A: toByte(c[3]),
			})
		}
	}
	return img
}

func toByte(v float32) uint8 {
	return uint8(math.Clamp(v, 0, 1)*255 + 0.5)
}
