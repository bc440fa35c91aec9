package route

import (
	gomath "math"
	"slices"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-ribbon/internal/engine/compositor"
	"github.com/Faultbox/midgard-ribbon/internal/engine/ribbon"
	"github.com/Faultbox/midgard-ribbon/internal/logger"
	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

// Path is one route on screen.
//
// Geometry is rebuilt only when points, corner radius or traffic change.
// Update runs once per frame; in SpacingScreen it rewrites the distance
// attribute with cumulative pixel distance.
type Path struct {
	cfg    Config
	points []math.Vec3

	mesh      atomic.Pointer[ribbon.Mesh]
	rounded   *ribbon.RoundedPath
	projector *ribbon.Projector
	drawable  Drawable
	log       *zap.Logger

	animation float64
	viewport  math.Vec2
	camera    *CameraState
	disposed  bool
}

// Option configures a Path at construction.
type Option func(*Path)

// WithLogger sets the logger used for rebuild diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(p *Path) {
		p.log = l
	}
}

// WithDrawable attaches a drawable before the first build.
func WithDrawable(d Drawable) Option {
	return func(p *Path) {
		p.drawable = d
	}
}

// WithCamera seeds the camera so the first mesh already carries screen
// distances.
func WithCamera(cam *CameraState) Option {
	return func(p *Path) {
		if cam != nil {
			c := *cam
			p.camera = &c
			p.viewport = cam.Viewport
		}
	}
}

// New builds a route from points. Points are copied. Fewer than two points
// produce a route without geometry.
func New(points []math.Vec3, cfg Config, opts ...Option) *Path {
	p := &Path{
		cfg:       cfg,
		points:    slices.Clone(points),
		projector: ribbon.NewProjector(),
		viewport:  math.Vec2{X: 1, Y: 1},
	}
	p.cfg.TrafficSegments = slices.Clone(cfg.TrafficSegments)
	for _, opt := range opts {
		opt(p)
	}
	p.rebuild()
	return p
}

// Update advances the arrow animation by dt seconds and refreshes the
// camera dependent state. Call it once per frame and with dt = 0 after a
// viewport resize. A nil camera keeps the previous one.
func (p *Path) Update(dt float32, cam *CameraState) {
	if p == nil || p.disposed {
		return
	}
	if dt > 0 {
		p.animation += float64(dt) * float64(p.cfg.AnimationSpeed)
	}
	if cam != nil {
		c := *cam
		p.camera = &c
		p.viewport = cam.Viewport
	}
	p.reproject()
}

// reproject writes pixel distances into the current mesh.
func (p *Path) reproject() {
	if p.cfg.Mode != compositor.SpacingScreen || p.camera == nil {
		return
	}
	m := p.mesh.Load()
	if m == nil {
		return
	}
	p.lazyInit()
	dist := p.projector.Project(m.Samples, p.camera.View, p.camera.Projection, p.camera.Viewport)
	m.ApplyDistances(dist)
	if p.drawable != nil {
		p.drawable.UpdateDistances(m)
	}
}

// lazyInit fills the fields New sets so a zero Path can be used directly.
func (p *Path) lazyInit() {
	if p.projector == nil {
		p.projector = ribbon.NewProjector()
	}
	if p.log == nil {
		p.log = logger.Named("route")
	}
}

func (p *Path) rebuild() {
	p.lazyInit()
	if len(p.points) < 2 {
		p.rounded = nil
		p.mesh.Store(nil)
		p.log.Warn("route needs at least two points", zap.Int("points", len(p.points)))
		if p.drawable != nil {
			p.drawable.Upload(nil)
		}
		return
	}

	lifted := make([]math.Vec3, len(p.points))
	for i, pt := range p.points {
		lifted[i] = math.Vec3{X: pt.X, Y: pt.Y, Z: pt.Z + p.cfg.PathZOffset}
	}

	p.rounded = ribbon.Round(lifted, p.cfg.CornerRadius)
	samples := ribbon.Sample(p.rounded, p.cfg.Sampling)
	mesh := ribbon.BuildMesh(samples, ribbon.MeshOptions{
		CapSegments: p.cfg.CapSegments,
		Traffic:     p.cfg.TrafficSegments,
	})
	p.mesh.Store(mesh)

	p.log.Debug("route rebuilt",
		zap.Int("points", len(p.points)),
		zap.Float32("length", mesh.Length),
		zap.Int("samples", len(samples)),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("indices", len(mesh.Indices)))

	if p.drawable != nil {
		p.drawable.Upload(mesh)
	}
	p.reproject()
}

// Uniforms returns the shading state for the current frame.
func (p *Path) Uniforms() compositor.Uniforms {
	return compositor.Uniforms{
		Resolution:     p.viewport,
		Width:          p.cfg.WidthPixels,
		Spacing:        p.cfg.ArrowSpacing,
		Offset:         p.Offset(),
		Mode:           p.cfg.Mode,
		LODBias:        p.cfg.LODBias,
		LODMinMultiple: p.cfg.LODMinMultiple,
		LODMaxMultiple: p.cfg.LODMaxMultiple,
		BorderWidth:    p.cfg.BorderWidthPixels,
		ArrowColor:     p.cfg.ArrowColor,
		BorderColor:    p.cfg.BorderColor,
	}
}

// Offset returns the arrow scroll offset wrapped into one spacing cycle.
func (p *Path) Offset() float32 {
	spacing := float64(math.MaxEps(p.cfg.ArrowSpacing, compositor.Epsilon))
	off := gomath.Mod(p.animation, spacing)
	if off < 0 {
		off += spacing
	}
	return float32(off)
}

// Animation returns the unwrapped animation state.
func (p *Path) Animation() float64 { return p.animation }

// Mesh returns the current mesh, nil without geometry.
func (p *Path) Mesh() *ribbon.Mesh { return p.mesh.Load() }

// Rounded returns the rounded centerline, nil without geometry.
func (p *Path) Rounded() *ribbon.RoundedPath { return p.rounded }

// Config returns a copy of the current configuration.
func (p *Path) Config() Config {
	c := p.cfg
	c.TrafficSegments = slices.Clone(p.cfg.TrafficSegments)
	return c
}

// Points returns a copy of the control polyline.
func (p *Path) Points() []math.Vec3 { return slices.Clone(p.points) }

// SetWidth changes the on-screen width.
func (p *Path) SetWidth(px float32) { p.cfg.WidthPixels = px }

// SetSpacing changes the arrow cycle length.
func (p *Path) SetSpacing(spacing float32) { p.cfg.ArrowSpacing = spacing }

// SetLODBias changes the arrow fade bias.
func (p *Path) SetLODBias(bias float32) { p.cfg.LODBias = bias }

// SetAnimationSpeed changes the arrow scroll speed.
func (p *Path) SetAnimationSpeed(speed float32) { p.cfg.AnimationSpeed = speed }

// SetTrafficSegments replaces the traffic coloring and rebuilds.
func (p *Path) SetTrafficSegments(segments []ribbon.TrafficSegment) {
	p.cfg.TrafficSegments = slices.Clone(segments)
	p.rebuildIfLive()
}

// SetCornerRadius changes the requested corner radius and rebuilds.
func (p *Path) SetCornerRadius(r float32) {
	p.cfg.CornerRadius = r
	p.rebuildIfLive()
}

// SetPoints replaces the polyline and rebuilds.
func (p *Path) SetPoints(points []math.Vec3) {
	p.points = slices.Clone(points)
	p.rebuildIfLive()
}

func (p *Path) rebuildIfLive() {
	if p == nil || p.disposed {
		return
	}
	p.rebuild()
}

// Attach hands the route to a drawable, replacing (and returning) any
// previous one. The current mesh is uploaded immediately.
func (p *Path) Attach(d Drawable) Drawable {
	prev := p.drawable
	p.drawable = d
	if d != nil && !p.disposed {
		d.Upload(p.mesh.Load())
	}
	return prev
}

// Detach removes the drawable without disposing it.
func (p *Path) Detach() Drawable {
	d := p.drawable
	p.drawable = nil
	return d
}

// Dispose releases the drawable and drops the geometry. Safe to call more
// than once and on a nil or zero Path.
func (p *Path) Dispose() {
	if p == nil || p.disposed {
		return
	}
	p.disposed = true
	if p.drawable != nil {
		p.drawable.Dispose()
		p.drawable = nil
	}
	p.mesh.Store(nil)
	p.rounded = nil
}

// Disposed reports whether Dispose was called.
func (p *Path) Disposed() bool { return p != nil && p.disposed }
