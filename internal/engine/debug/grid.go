// Package debug provides debug visualization and capture utilities.
package debug

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

// LineVertex is a colored line endpoint.
type LineVertex struct {
	X, Y, Z float32 // Position
	R, G, B float32 // Color
}

// Grid colors.
var (
	GridColor  = [3]float32{0.32, 0.34, 0.38}
	MajorColor = [3]float32{0.45, 0.47, 0.52}
	AxisXColor = [3]float32{0.8, 0.25, 0.25}
	AxisYColor = [3]float32{0.25, 0.7, 0.3}
)

// GroundGrid generates reference lines on the Z = 0 ground plane.
type GroundGrid struct {
	CellSize   float32
	MajorEvery int // every n-th line is drawn brighter, 0 disables
	Padding    float32
}

// NewGroundGrid creates a grid with the given cell size.
func NewGroundGrid(cellSize float32) *GroundGrid {
	return &GroundGrid{CellSize: cellSize, MajorEvery: 5, Padding: cellSize * 2}
}

// GenerateGridLines returns line vertex pairs covering the XY extent of
// [lo, hi] plus padding, snapped to whole cells. The X and Y axes are
// colored when they fall inside the grid.
func (g *GroundGrid) GenerateGridLines(lo, hi math.Vec3, height float32) []LineVertex {
	cell := math.MaxEps(g.CellSize, 1e-3)
	x0 := int(math32.Floor((lo.X - g.Padding) / cell))
	x1 := int(math32.Ceil((hi.X + g.Padding) / cell))
	y0 := int(math32.Floor((lo.Y - g.Padding) / cell))
	y1 := int(math32.Ceil((hi.Y + g.Padding) / cell))

	minX, maxX := float32(x0)*cell, float32(x1)*cell
	minY, maxY := float32(y0)*cell, float32(y1)*cell

	vertices := make([]LineVertex, 0, 2*(x1-x0+1)+2*(y1-y0+1))

	// Lines of constant X
	for x := x0; x <= x1; x++ {
		c := g.lineColor(x, AxisYColor)
		wx := float32(x) * cell
		vertices = append(vertices,
			LineVertex{wx, minY, height, c[0], c[1], c[2]},
			LineVertex{wx, maxY, height, c[0], c[1], c[2]},
		)
	}

	// Lines of constant Y
	for y := y0; y <= y1; y++ {
		c := g.lineColor(y, AxisXColor)
		wy := float32(y) * cell
		vertices = append(vertices,
			LineVertex{minX, wy, height, c[0], c[1], c[2]},
			LineVertex{maxX, wy, height, c[0], c[1], c[2]},
		)
	}

	return vertices
}

func (g *GroundGrid) lineColor(i int, axis [3]float32) [3]float32 {
	switch {
	case i == 0:
		return axis
	case g.MajorEvery > 0 && i%g.MajorEvery == 0:
		return MajorColor
	default:
		return GridColor
	}
}
