package ribbon

import "github.com/Faultbox/midgard-ribbon/pkg/math"

// DefaultBehindMargin is the view-space depth margin below which a sample
// counts as behind the camera. Non-zero to avoid flicker at the near plane.
const DefaultBehindMargin = 0.01

// Projector accumulates cumulative screen-space distance along the samples.
// Buffers are reused between frames; results stay valid until the next Project.
type Projector struct {
	BehindMargin float32

	distances []float32
	visible   []bool
	pixels    []math.Vec2
}

// NewProjector creates a projector with the default behind-camera margin.
func NewProjector() *Projector {
	return &Projector{BehindMargin: DefaultBehindMargin}
}

// Project transforms every sample through view and proj and returns the
// running pixel distance per sample. A step only counts when both of its
// endpoints are in front of the camera; otherwise the total is frozen.
func (p *Projector) Project(samples []SamplePoint, view, proj math.Mat4, viewport math.Vec2) []float32 {
	n := len(samples)
	p.distances = resize(p.distances, n)
	p.visible = resize(p.visible, n)
	p.pixels = resize(p.pixels, n)

	half := viewport.Scale(0.5)
	for i, s := range samples {
		eye := view.MulVec4(math.Point(s.Position))
		if eye[2] > -p.BehindMargin {
			p.visible[i] = false
			p.pixels[i] = math.Vec2{}
			continue
		}
		clip := proj.MulVec4(eye)
		w := math.MaxEps(clip.W(), 1e-6)
		ndc := clip.XY().Scale(1 / w)
		p.visible[i] = true
		p.pixels[i] = math.Vec2{X: (ndc.X + 1) * half.X, Y: (ndc.Y + 1) * half.Y}
	}

	var total float32
	for i := range samples {
		if i > 0 && p.visible[i] && p.visible[i-1] {
			total += p.pixels[i].Distance(p.pixels[i-1])
		}
		p.distances[i] = total
	}
	return p.distances
}

// Visible reports which samples were in front of the camera in the last Project.
func (p *Projector) Visible() []bool {
	return p.visible
}

// Pixels returns the pixel position of each sample from the last Project,
// origin at the bottom-left of the viewport. Hidden samples are zero.
func (p *Projector) Pixels() []math.Vec2 {
	return p.pixels
}

func resize[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}
