package ribbon

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

var viewport = math.Vec2{X: 800, Y: 800}

func overheadCamera(height float32) (view, proj math.Mat4) {
	view = math.LookAt(v3(0, 0, height), v3(0, 0, 0), v3(0, 1, 0))
	proj = math.Perspective(math.Radians(60), 1, 0.1, 5000)
	return view, proj
}

func TestProjectOverhead(t *testing.T) {
	samples := straightSamples(21, 20)
	for i := range samples {
		samples[i].Position.X -= 10
	}

	for _, h := range []float32{20, 200} {
		view, proj := overheadCamera(h)
		p := NewProjector()
		dist := p.Project(samples, view, proj, viewport)

		// 20 world units at depth h span 20 * (400 / (h * tan 30deg)) pixels.
		want := 20 * 400 / (h * math32.Tan(math.Radians(30)))
		assert.InDelta(t, want, dist[len(dist)-1], float64(want*1e-3), "height %v", h)
		assert.Zero(t, dist[0])

		// The middle sample sits under the camera, at the viewport center.
		px := p.Pixels()
		require.Len(t, px, len(samples))
		assert.InDelta(t, 400, px[10].X, 1e-2, "height %v", h)
		assert.InDelta(t, 400, px[10].Y, 1e-2, "height %v", h)
		assert.Less(t, px[0].X, px[20].X)
	}
}

func TestProjectFreezesBehindCamera(t *testing.T) {
	// Camera at the origin looking along +Y; the path runs through it.
	samples := make([]SamplePoint, 41)
	for i := range samples {
		y := float32(i - 20)
		samples[i] = SamplePoint{Position: v3(2, y, 0), Distance: float32(i)}
	}
	view := math.LookAt(v3(0, 0, 1), v3(0, 10, 1), v3(0, 0, 1))
	proj := math.Perspective(math.Radians(60), 1, 0.1, 5000)

	p := NewProjector()
	dist := p.Project(samples, view, proj, viewport)
	visible := p.Visible()

	assert.False(t, visible[0])
	assert.True(t, visible[40])
	for i := 1; i < len(dist); i++ {
		assert.GreaterOrEqual(t, dist[i], dist[i-1])
		if !visible[i] || !visible[i-1] {
			assert.Equal(t, dist[i-1], dist[i], "step %d touches a hidden sample", i)
		}
	}
	assert.Greater(t, dist[40], float32(0))
}

func TestProjectDeterministic(t *testing.T) {
	samples := Sample(Round(eightPointRoute, 15), DefaultSampleOptions())
	view := math.LookAt(v3(50, -60, 80), v3(50, 40, 0), v3(0, 0, 1))
	proj := math.Perspective(math.Radians(45), 1.5, 0.1, 1000)

	p := NewProjector()
	first := append([]float32(nil), p.Project(samples, view, proj, viewport)...)
	second := p.Project(samples, view, proj, viewport)

	assert.Equal(t, first, second)
}
