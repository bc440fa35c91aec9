// Package scene renders route ribbons over a reference ground grid into an
// offscreen framebuffer.
package scene

import (
	"fmt"
	"image"
	"slices"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-ribbon/internal/engine/camera"
	"github.com/Faultbox/midgard-ribbon/internal/engine/debug"
	"github.com/Faultbox/midgard-ribbon/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-ribbon/internal/engine/glyph"
	"github.com/Faultbox/midgard-ribbon/internal/engine/ribbon"
	"github.com/Faultbox/midgard-ribbon/internal/engine/texture"
	"github.com/Faultbox/midgard-ribbon/internal/logger"
	"github.com/Faultbox/midgard-ribbon/internal/route"
	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

// Config contains scene configuration options.
type Config struct {
	Width      int32
	Height     int32
	Anisotropy float32
	GlyphSize  int
	Background ribbon.Color

	ShowGrid     bool
	ShowBounds   bool
	GridCellSize float32
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		Width:        1280,
		Height:       720,
		Anisotropy:   8,
		GlyphSize:    glyph.DefaultSize,
		Background:   ribbon.Color{0.11, 0.12, 0.14, 1},
		ShowGrid:     true,
		GridCellSize: 10,
	}
}

type routeEntry struct {
	path     *route.Path
	renderer *RibbonRenderer
}

// Scene owns the GPU state shared by all routes: the ribbon program, the
// arrow glyph cache and the render target.
type Scene struct {
	config Config

	framebuffer  *framebuffer.Framebuffer
	ribbonShader *RibbonShader
	lineRenderer *LineRenderer
	glyphs       *glyph.Cache
	grid         *debug.GroundGrid

	routes      []routeEntry
	glyphFailed bool
}

// New creates a new scene with the given configuration.
func New(cfg Config) (*Scene, error) {
	s := &Scene{
		config: cfg,
		grid:   debug.NewGroundGrid(cfg.GridCellSize),
	}

	var err error
	s.framebuffer, err = framebuffer.New(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}

	s.ribbonShader, err = NewRibbonShader()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating ribbon shader: %w", err)
	}

	s.lineRenderer, err = NewLineRenderer()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating line renderer: %w", err)
	}

	maxAniso := texture.MaxAnisotropy()
	s.glyphs = glyph.NewCache(texture.GlyphUploader{MaxAnisotropy: maxAniso}, cfg.GlyphSize)

	logger.Info("scene created",
		zap.Int32("width", cfg.Width),
		zap.Int32("height", cfg.Height),
		zap.Float32("anisotropy", cfg.Anisotropy),
		zap.Float32("maxAnisotropy", maxAniso))

	return s, nil
}

// AddRoute builds a route whose mesh is drawn by this scene. cam may be
// nil; pass it when known so screen distances are ready for the first frame.
func (s *Scene) AddRoute(points []math.Vec3, cfg route.Config, cam *route.CameraState) *route.Path {
	r := s.ribbonShader.NewRenderer()
	p := route.New(points, cfg,
		route.WithDrawable(r),
		route.WithCamera(cam),
		route.WithLogger(logger.Named("route")))
	s.routes = append(s.routes, routeEntry{path: p, renderer: r})
	s.RefreshDebugLines()
	return p
}

// RemoveRoute disposes a route previously returned by AddRoute.
func (s *Scene) RemoveRoute(p *route.Path) bool {
	i := slices.IndexFunc(s.routes, func(e routeEntry) bool { return e.path == p })
	if i < 0 {
		return false
	}
	s.routes[i].path.Dispose()
	s.routes = slices.Delete(s.routes, i, i+1)
	s.RefreshDebugLines()
	return true
}

// Routes returns the routes in draw order.
func (s *Scene) Routes() []*route.Path {
	paths := make([]*route.Path, len(s.routes))
	for i, e := range s.routes {
		paths[i] = e.path
	}
	return paths
}

// Bounds returns the combined centerline bounds of all routes.
func (s *Scene) Bounds() (lo, hi math.Vec3, ok bool) {
	for _, e := range s.routes {
		m := e.path.Mesh()
		if m == nil {
			continue
		}
		mlo, mhi := m.Bounds()
		if !ok {
			lo, hi, ok = mlo, mhi, true
			continue
		}
		lo = math.Vec3{X: min(lo.X, mlo.X), Y: min(lo.Y, mlo.Y), Z: min(lo.Z, mlo.Z)}
		hi = math.Vec3{X: max(hi.X, mhi.X), Y: max(hi.Y, mhi.Y), Z: max(hi.Z, mhi.Z)}
	}
	return lo, hi, ok
}

// RefreshDebugLines regenerates the grid and bounds lines. Call it after
// changing route points.
func (s *Scene) RefreshDebugLines() {
	if s.lineRenderer == nil {
		return
	}
	lo, hi, ok := s.Bounds()
	if !ok {
		s.lineRenderer.SetLines(nil)
		return
	}

	var lines []debug.LineVertex
	if s.config.ShowGrid {
		lines = append(lines, s.grid.GenerateGridLines(lo, hi, 0)...)
	}
	if s.config.ShowBounds {
		for _, e := range s.routes {
			if m := e.path.Mesh(); m != nil {
				mlo, mhi := m.Bounds()
				lines = append(lines, debug.BBoxWireframe(mlo, mhi, 1, debug.BoundsColor)...)
			}
		}
	}
	s.lineRenderer.SetLines(lines)
}

// Update advances every route by dt seconds. Call it with dt = 0 after Resize.
func (s *Scene) Update(dt float32, cam *camera.OrbitCamera) {
	state := s.cameraState(cam)
	for _, e := range s.routes {
		e.path.Update(dt, state)
	}
}

func (s *Scene) cameraState(cam *camera.OrbitCamera) *route.CameraState {
	w, h := s.framebuffer.Size()
	return cam.State(int(w), int(h))
}

// Render renders the scene and returns the color texture.
func (s *Scene) Render(cam *camera.OrbitCamera) uint32 {
	viewProj := s.cameraState(cam).ViewProjection()

	restore := s.framebuffer.BindWithViewport()
	defer restore()

	bg := s.config.Background
	s.framebuffer.Clear(bg[0], bg[1], bg[2], bg[3])

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	s.lineRenderer.Render(viewProj)

	// Ribbons are double sided and blended; depth writes off so a route
	// crossing itself does not clip its own edge fringe.
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)

	tex := s.glyphTexture()
	for _, e := range s.routes {
		e.renderer.Draw(e.path.Uniforms(), viewProj, tex)
	}

	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
	gl.UseProgram(0)

	return s.framebuffer.ColorTexture()
}

// glyphTexture returns the shared arrow texture, nil if the upload failed.
func (s *Scene) glyphTexture() *texture.Texture {
	t, err := s.glyphs.Get(s.config.Anisotropy)
	if err != nil {
		if !s.glyphFailed {
			logger.Error("arrow glyph unavailable, drawing without arrows", zap.Error(err))
			s.glyphFailed = true
		}
		return nil
	}
	tex, _ := t.(*texture.Texture)
	return tex
}

// Present copies the last rendered frame to the default framebuffer.
func (s *Scene) Present(width, height int32) {
	s.framebuffer.BlitToDefault(width, height)
}

// Resize resizes the render target.
func (s *Scene) Resize(width, height int32) {
	s.framebuffer.Resize(width, height)
}

// Size returns the render target size.
func (s *Scene) Size() (width, height int32) {
	return s.framebuffer.Size()
}

// CaptureImage reads back the last rendered frame.
func (s *Scene) CaptureImage() (*image.NRGBA, error) {
	return s.framebuffer.ReadImage()
}

// Destroy releases all routes and GPU resources.
func (s *Scene) Destroy() {
	for _, e := range s.routes {
		e.path.Dispose()
	}
	s.routes = nil
	if s.glyphs != nil {
		s.glyphs.Release()
	}
	if s.lineRenderer != nil {
		s.lineRenderer.Destroy()
		s.lineRenderer = nil
	}
	if s.ribbonShader != nil {
		s.ribbonShader.Destroy()
		s.ribbonShader = nil
	}
	if s.framebuffer != nil {
		s.framebuffer.Destroy()
		s.framebuffer = nil
	}
}
