package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-ribbon/internal/engine/compositor"
	"github.com/Faultbox/midgard-ribbon/internal/engine/glyph"
	"github.com/Faultbox/midgard-ribbon/internal/engine/ribbon"
	"github.com/Faultbox/midgard-ribbon/internal/route"
	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

const size = 128

var (
	white = ribbon.Color{1, 1, 1, 1}
	blue  = ribbon.Color{0, 0, 1, 1}
	red   = ribbon.Color{1, 0, 0, 1}
	black = ribbon.Color{0, 0, 0, 1}
)

func v3(x, y, z float32) math.Vec3 {
	return math.Vec3{X: x, Y: y, Z: z}
}

func overhead(height float32) *route.CameraState {
	return &route.CameraState{
		View:       math.LookAt(v3(0, 0, height), v3(0, 0, 0), v3(0, 1, 0)),
		Projection: math.Perspective(math.Radians(60), 1, 0.1, 10000),
		Viewport:   math.Vec2{X: size, Y: size},
	}
}

func solid(c ribbon.Color) []ribbon.TrafficSegment {
	return []ribbon.TrafficSegment{{Start: 0, End: 1, Color: c}}
}

// horizontal builds a route along X that spans past both image borders.
func horizontal(height float32, cfg route.Config, cam *route.CameraState) *route.Path {
	return route.New([]math.Vec3{v3(-height, 0, 0), v3(height, 0, 0)}, cfg, route.WithCamera(cam))
}

func newTarget(g compositor.GlyphSampler) *Renderer {
	r := New(size, size, g)
	r.SetBackground(black)
	r.Clear()
	return r
}

func columnCoverage(r *Renderer, x int) float32 {
	var sum float32
	for y := 0; y < size; y++ {
		sum += r.At(x, y)[0]
	}
	return sum
}

// arrowStarts returns the x positions where the arrow color begins along a row.
func arrowStarts(r *Renderer, y int) []int {
	var starts []int
	inside := false
	for x := 0; x < size; x++ {
		on := r.At(x, y)[0] > 0.5
		if on && !inside {
			starts = append(starts, x)
		}
		inside = on
	}
	return starts
}

func TestConstantPixelWidth(t *testing.T) {
	for _, height := range []float32{40, 200, 900} {
		cam := overhead(height)
		cfg := route.DefaultConfig()
		cfg.TrafficSegments = solid(white)
		p := horizontal(height, cfg, cam)

		r := newTarget(nil)
		require.Positive(t, r.DrawPath(p, cam))

		for _, x := range []int{20, 64, 100} {
			assert.InDelta(t, 20, columnCoverage(r, x), 1.5, "height %v column %d", height, x)
		}
		// Nothing outside the half width plus the AA pixel.
		for y := 0; y < size; y++ {
			if d := float32(y) + 0.5 - size/2; d > 11.5 || d < -11.5 {
				assert.Zero(t, r.At(64, y)[0], "height %v row %d", height, y)
			}
		}
	}
}

func TestWidthFollowsUniform(t *testing.T) {
	cam := overhead(100)
	cfg := route.DefaultConfig()
	cfg.TrafficSegments = solid(white)
	p := horizontal(100, cfg, cam)
	p.SetWidth(8)

	r := newTarget(nil)
	r.DrawPath(p, cam)
	assert.InDelta(t, 8, columnCoverage(r, 64), 1.5)
}

func TestScreenSpacingPeriod(t *testing.T) {
	g := glyph.NewArrow(64)
	var periods [][]int
	for _, height := range []float32{50, 300} {
		cam := overhead(height)
		cfg := route.DefaultConfig()
		cfg.ArrowSpacing = 40
		cfg.ArrowColor = red
		cfg.TrafficSegments = solid(blue)
		p := horizontal(height, cfg, cam)

		r := newTarget(g)
		r.DrawPath(p, cam)

		starts := arrowStarts(r, size/2-1)
		require.GreaterOrEqual(t, len(starts), 2, "height %v", height)
		var diffs []int
		for i := 1; i < len(starts); i++ {
			assert.InDelta(t, 40, starts[i]-starts[i-1], 2, "height %v", height)
			diffs = append(diffs, starts[i]-starts[i-1])
		}
		periods = append(periods, diffs)
	}
	assert.NotEmpty(t, periods[0])
	assert.NotEmpty(t, periods[1])
}

// columnStarts returns the y positions where the arrow color begins down a column.
func columnStarts(r *Renderer, x int) []int {
	var starts []int
	inside := false
	for y := 0; y < size; y++ {
		on := r.At(x, y)[0] > 0.5
		if on && !inside {
			starts = append(starts, y)
		}
		inside = on
	}
	return starts
}

func TestScreenSpacingUnderGrazingView(t *testing.T) {
	g := glyph.NewArrow(64)
	// Low camera looking down a route that recedes toward the horizon.
	cam := &route.CameraState{
		View:       math.LookAt(v3(0, -2, 1.5), v3(0, 4, 0), v3(0, 0, 1)),
		Projection: math.Perspective(math.Radians(60), 1, 0.1, 10000),
		Viewport:   math.Vec2{X: size, Y: size},
	}

	for _, samples := range []int{2, 64} {
		cfg := route.DefaultConfig()
		cfg.WidthPixels = 8
		cfg.ArrowSpacing = 16
		cfg.ArrowColor = red
		cfg.TrafficSegments = solid(blue)
		cfg.Sampling = ribbon.SampleOptions{MinSamples: samples}
		p := route.New([]math.Vec3{v3(0, -1, 0), v3(0, 200, 0)}, cfg, route.WithCamera(cam))

		r := newTarget(g)
		require.Positive(t, r.DrawPath(p, cam))

		starts := columnStarts(r, size/2-1)
		require.GreaterOrEqual(t, len(starts), 4, "samples %d", samples)
		// The first arrow may be cut by the far cap.
		for i := 2; i < len(starts); i++ {
			assert.InDelta(t, 16, starts[i]-starts[i-1], 1.5, "samples %d gap %d", samples, i)
		}
	}
}

func TestArrowsScrollWithAnimation(t *testing.T) {
	g := glyph.NewArrow(64)
	cam := overhead(80)
	cfg := route.DefaultConfig()
	cfg.ArrowSpacing = 40
	cfg.AnimationSpeed = 10
	cfg.ArrowColor = red
	cfg.TrafficSegments = solid(blue)
	p := horizontal(80, cfg, cam)

	r := newTarget(g)
	r.DrawPath(p, cam)
	before := arrowStarts(r, size/2-1)

	// One second at 10 px/s moves every arrow 10 px along the path.
	p.Update(1, cam)
	r.Clear()
	r.DrawPath(p, cam)
	after := arrowStarts(r, size/2-1)

	require.NotEmpty(t, before)
	require.NotEmpty(t, after)
	shift := (after[0] - before[0] + 40) % 40
	assert.InDelta(t, 10, shift, 2)
}

func TestNoGlyphNoArrows(t *testing.T) {
	cam := overhead(80)
	cfg := route.DefaultConfig()
	cfg.ArrowColor = red
	cfg.TrafficSegments = solid(blue)
	p := horizontal(80, cfg, cam)

	r := newTarget(nil)
	r.DrawPath(p, cam)
	assert.Empty(t, arrowStarts(r, size/2-1))
	assert.InDelta(t, 1, r.At(64, size/2-1)[2], 1e-3)
}

func TestWorldSpacingLODFade(t *testing.T) {
	g := glyph.NewArrow(64)
	maxRed := func(height float32) float32 {
		cam := overhead(height)
		cfg := route.DefaultConfig()
		cfg.Mode = compositor.SpacingWorld
		cfg.ArrowSpacing = 4
		cfg.LODBias = 1
		cfg.ArrowColor = red
		cfg.TrafficSegments = solid(blue)
		p := horizontal(max(height, 10), cfg, cam)

		r := newTarget(g)
		r.DrawPath(p, cam)
		var m float32
		for x := 0; x < size; x++ {
			m = max(m, r.At(x, size/2-1)[0])
		}
		return m
	}

	assert.Greater(t, maxRed(5), float32(0.5), "near: arrows drawn")
	assert.Less(t, maxRed(200), float32(0.05), "far: arrows faded out")
}

func TestSharedEdgesBlendOnce(t *testing.T) {
	cam := overhead(60)
	cfg := route.DefaultConfig()
	cfg.TrafficSegments = solid(ribbon.Color{1, 1, 1, 0.5})
	p := horizontal(60, cfg, cam)

	r := newTarget(nil)
	r.DrawPath(p, cam)
	for x := 0; x < size; x++ {
		assert.InDelta(t, 0.5, r.At(x, size/2-1)[0], 1e-3, "column %d", x)
	}
}

func TestBehindCameraIsDropped(t *testing.T) {
	cam := overhead(40)
	m := ribbon.BuildMesh(ribbon.Sample(ribbon.Round([]math.Vec3{v3(-10, 0, 300), v3(10, 0, 300)}, 0), ribbon.DefaultSampleOptions()), ribbon.MeshOptions{})

	r := newTarget(nil)
	assert.Zero(t, r.Draw(m, compositor.DefaultUniforms(), cam.ViewProjection()))
	assert.Zero(t, r.Draw(nil, compositor.DefaultUniforms(), cam.ViewProjection()))
}

func TestImage(t *testing.T) {
	r := New(4, 3, nil)
	r.SetBackground(ribbon.Color{1, 0, 0, 1})
	r.Clear()
	r.buf[0] = ribbon.Color{0, 1, 0, 1} // bottom-left in GL coordinates

	img := r.Image()
	require.Equal(t, 4, img.Bounds().Dx())
	require.Equal(t, 3, img.Bounds().Dy())

	c := img.NRGBAAt(0, 2)
	assert.Equal(t, uint8(255), c.G)
	c = img.NRGBAAt(0, 0)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(255), c.A)

	w, h := r.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 3, h)
	assert.Equal(t, ribbon.Color{}, r.At(-1, 0))
}
