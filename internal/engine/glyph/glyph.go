// Package glyph builds the arrow glyph tiled along route ribbons and owns
// its GPU textures.
package glyph

import (
	"image"

	"github.com/chewxy/math32"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

// DefaultSize is the edge length of the base glyph level in texels.
const DefaultSize = 128

// chevron outline in unit glyph space: u runs along the path, v across it.
var chevron = [][2]float32{
	{0.20, 0.10},
	{0.50, 0.10},
	{0.85, 0.50},
	{0.50, 0.90},
	{0.20, 0.90},
	{0.55, 0.50},
}

// Arrow rasterizes a chevron pointing towards +u into a size x size
// alpha image.
func Arrow(size int) *image.Alpha {
	if size < 1 {
		size = 1
	}
	dst := image.NewAlpha(image.Rect(0, 0, size, size))
	r := vector.NewRasterizer(size, size)

	s := float32(size)
	r.MoveTo(chevron[0][0]*s, chevron[0][1]*s)
	for _, p := range chevron[1:] {
		r.LineTo(p[0]*s, p[1]*s)
	}
	r.ClosePath()
	r.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst
}

// Glyph is an alpha image with a full mip chain, sampled on the CPU by the
// preview renderer and uploaded level by level to the GPU.
type Glyph struct {
	Levels []*image.Alpha
}

// New builds the mip chain of src down to 1x1.
func New(src *image.Alpha) *Glyph {
	g := &Glyph{Levels: []*image.Alpha{src}}
	cur := src
	for {
		b := cur.Bounds()
		if b.Dx() <= 1 && b.Dy() <= 1 {
			break
		}
		w, h := max(b.Dx()/2, 1), max(b.Dy()/2, 1)
		next := image.NewAlpha(image.Rect(0, 0, w, h))
		xdraw.BiLinear.Scale(next, next.Bounds(), cur, b, xdraw.Src, nil)
		g.Levels = append(g.Levels, next)
		cur = next
	}
	return g
}

// NewArrow returns the default chevron glyph with mips.
func NewArrow(size int) *Glyph {
	return New(Arrow(size))
}

// Size returns the base level dimensions.
func (g *Glyph) Size() (int, int) {
	b := g.Levels[0].Bounds()
	return b.Dx(), b.Dy()
}

// SampleAlpha returns the trilinearly filtered alpha at (u, v). rate is the
// change of u per screen pixel and selects the mip level.
func (g *Glyph) SampleAlpha(u, v, rate float32) float32 {
	w, _ := g.Size()
	texels := math32.Abs(rate) * float32(w)
	lod := float32(0)
	if texels > 1 {
		lod = math32.Log2(texels)
	}
	lod = math.Clamp(lod, 0, float32(len(g.Levels)-1))

	lo := int(lod)
	hi := min(lo+1, len(g.Levels)-1)
	a := bilinear(g.Levels[lo], u, v)
	if hi == lo {
		return a
	}
	return math.Mix(a, bilinear(g.Levels[hi], u, v), lod-float32(lo))
}

func bilinear(img *image.Alpha, u, v float32) float32 {
	b := img.Bounds()
	x := math.Clamp(u, 0, 1)*float32(b.Dx()) - 0.5
	y := math.Clamp(v, 0, 1)*float32(b.Dy()) - 0.5

	x0, y0 := math32.Floor(x), math32.Floor(y)
	fx, fy := x-x0, y-y0
	ix, iy := int(x0), int(y0)

	at := func(px, py int) float32 {
		px = min(max(px, 0), b.Dx()-1)
		py = min(max(py, 0), b.Dy()-1)
		return float32(img.Pix[py*img.Stride+px]) / 255
	}
	top := math.Mix(at(ix, iy), at(ix+1, iy), fx)
	bottom := math.Mix(at(ix, iy+1), at(ix+1, iy+1), fx)
	return math.Mix(top, bottom, fy)
}
