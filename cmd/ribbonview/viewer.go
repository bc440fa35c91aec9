package main

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-ribbon/internal/config"
	"github.com/Faultbox/midgard-ribbon/internal/engine/camera"
	"github.com/Faultbox/midgard-ribbon/internal/engine/debug"
	"github.com/Faultbox/midgard-ribbon/internal/engine/input"
	"github.com/Faultbox/midgard-ribbon/internal/engine/picking"
	"github.com/Faultbox/midgard-ribbon/internal/engine/scene"
	"github.com/Faultbox/midgard-ribbon/internal/engine/window"
	"github.com/Faultbox/midgard-ribbon/internal/logger"
	"github.com/Faultbox/midgard-ribbon/internal/route"
	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

const windowTitle = "Midgard Ribbon"

// Keyboard steps for the live uniform and geometry controls.
const (
	widthStep   = 2
	spacingStep = 0.1 // fraction of the current spacing
)

// pickRadius is how close, in world units, a middle click must land to an
// existing waypoint to remove it instead of appending a new one.
const pickRadius = 2

type viewer struct {
	cfg *config.Config

	win    *window.Window
	input  *input.Input
	scene  *scene.Scene
	cam    *camera.OrbitCamera
	route  *route.Path
	shots  *debug.ScreenshotCapture
	radius float32

	paused bool
}

func newViewer(cfg *config.Config) (*viewer, error) {
	routeCfg, err := cfg.Ribbon.RouteConfig()
	if err != nil {
		return nil, fmt.Errorf("ribbon config: %w", err)
	}

	win, err := window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	dw, dh := win.DrawableSize()
	sceneCfg := scene.DefaultConfig()
	sceneCfg.Width = int32(dw)
	sceneCfg.Height = int32(dh)
	sceneCfg.Anisotropy = cfg.Graphics.Anisotropy
	sceneCfg.GlyphSize = cfg.Ribbon.GlyphSize
	sceneCfg.Background = cfg.Graphics.BackgroundColor()

	s, err := scene.New(sceneCfg)
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("creating scene: %w", err)
	}

	v := &viewer{
		cfg:    cfg,
		win:    win,
		input:  input.New(),
		scene:  s,
		cam:    cfg.Camera.OrbitCamera(),
		shots:  debug.NewScreenshotCapture(cfg.Preview.OutputDir, "ribbonview"),
		radius: routeCfg.CornerRadius,
	}
	v.route = s.AddRoute(cfg.Route.Vec3s(), routeCfg, v.cam.State(dw, dh))

	logger.Info("route loaded",
		zap.Int("points", len(cfg.Route.Points)),
		zap.Stringer("mode", routeCfg.Mode),
		zap.Float32("width", routeCfg.WidthPixels),
		zap.Float32("spacing", routeCfg.ArrowSpacing))

	return v, nil
}

// Run executes the frame loop until the window is closed.
func (v *viewer) Run() error {
	last := time.Now()
	fpsTime := last
	frames := 0

	var minFrame time.Duration
	if v.cfg.Graphics.FPSLimit > 0 {
		minFrame = time.Second / time.Duration(v.cfg.Graphics.FPSLimit)
	}

	for {
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		if v.input.Update() {
			return nil
		}
		if v.handleEvents(dt) {
			return nil
		}

		if v.paused {
			dt = 0
		}
		v.scene.Update(dt, v.cam)
		v.scene.Render(v.cam)

		dw, dh := v.win.DrawableSize()
		v.scene.Present(int32(dw), int32(dh))

		if v.input.IsKeyPressed(sdl.SCANCODE_F12) {
			v.screenshot()
		}

		v.win.SwapBuffers()

		frames++
		if elapsed := now.Sub(fpsTime); elapsed >= time.Second {
			fps := float64(frames) / elapsed.Seconds()
			v.win.SetTitle(fmt.Sprintf("%s - %.0f FPS", windowTitle, fps))
			frames = 0
			fpsTime = now
		}

		if minFrame > 0 {
			if spent := time.Since(now); spent < minFrame {
				time.Sleep(minFrame - spent)
			}
		}
	}
}

// handleEvents applies the frame's input. Returns true to quit.
func (v *viewer) handleEvents(dt float32) bool {
	for _, e := range v.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			v.resize()

		case input.EventMouseMove:
			if v.input.IsButtonHeld(sdl.BUTTON_LEFT) || v.input.IsButtonHeld(sdl.BUTTON_RIGHT) {
				v.cam.HandleDrag(e.DeltaX, e.DeltaY)
			}

		case input.EventMouseDown:
			if e.Button == sdl.BUTTON_MIDDLE {
				v.editWaypoint(e.MouseX, e.MouseY)
			}

		case input.EventMouseWheel:
			v.cam.HandleZoom(e.DeltaY)

		case input.EventKeyDown:
			if v.handleKey(e.Key) {
				return true
			}
		}
	}

	// Held keys pan the orbit center; movement speed is per 60 Hz frame.
	step := dt * 60
	forward := v.input.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S)
	right := v.input.Axis(sdl.SCANCODE_D, sdl.SCANCODE_A)
	up := v.input.Axis(sdl.SCANCODE_E, sdl.SCANCODE_Q)
	if forward != 0 || right != 0 || up != 0 {
		v.cam.HandleMovement(forward*step, right*step, up*step)
	}
	return false
}

func (v *viewer) handleKey(key sdl.Scancode) bool {
	cfg := v.route.Config()
	switch key {
	case sdl.SCANCODE_ESCAPE:
		return true
	case sdl.SCANCODE_SPACE:
		v.paused = !v.paused
	case sdl.SCANCODE_F:
		if lo, hi, ok := v.scene.Bounds(); ok {
			v.cam.FitToBounds(lo, hi)
		}
	case sdl.SCANCODE_EQUALS, sdl.SCANCODE_KP_PLUS:
		v.route.SetWidth(cfg.WidthPixels + widthStep)
	case sdl.SCANCODE_MINUS, sdl.SCANCODE_KP_MINUS:
		v.route.SetWidth(max(cfg.WidthPixels-widthStep, widthStep))
	case sdl.SCANCODE_RIGHTBRACKET:
		v.route.SetSpacing(cfg.ArrowSpacing * (1 + spacingStep))
	case sdl.SCANCODE_LEFTBRACKET:
		v.route.SetSpacing(cfg.ArrowSpacing * (1 - spacingStep))
	case sdl.SCANCODE_L:
		if cfg.LODBias > 0 {
			v.route.SetLODBias(0)
		} else {
			v.route.SetLODBias(max(v.cfg.Ribbon.LODBias, 1))
		}
	case sdl.SCANCODE_BACKSPACE:
		if pts := v.route.Points(); len(pts) > 0 {
			v.setPoints(pts[:len(pts)-1])
		}
	case sdl.SCANCODE_C:
		// Toggle between sharp and rounded corners.
		if cfg.CornerRadius > 0 {
			v.route.SetCornerRadius(0)
		} else {
			v.route.SetCornerRadius(v.radius)
		}
		v.scene.RefreshDebugLines()
	default:
		return false
	}
	logger.Debug("route settings",
		zap.Float32("width", v.route.Config().WidthPixels),
		zap.Float32("spacing", v.route.Config().ArrowSpacing),
		zap.Float32("lodBias", v.route.Config().LODBias),
		zap.Float32("cornerRadius", v.route.Config().CornerRadius),
		zap.Bool("paused", v.paused))
	return false
}

// editWaypoint removes the waypoint under the cursor, or appends the
// ground point under it. Mouse positions are in window coordinates.
func (v *viewer) editWaypoint(mx, my int) {
	ww, wh := v.win.GetSize()
	dw, dh := v.win.DrawableSize()
	x := float32(mx) * float32(dw) / float32(max(ww, 1))
	y := float32(my) * float32(dh) / float32(max(wh, 1))

	ray := picking.CameraRay(v.cam.State(dw, dh), x, y)
	pts := v.route.Points()
	if i := ray.NearestPoint(pts, pickRadius); i >= 0 {
		v.setPoints(append(pts[:i], pts[i+1:]...))
		return
	}
	ground, ok := ray.IntersectPlaneZ(0)
	if !ok {
		return
	}
	v.setPoints(append(pts, ground))
}

func (v *viewer) setPoints(pts []math.Vec3) {
	v.route.SetPoints(pts)
	v.scene.RefreshDebugLines()
	logger.Debug("waypoints changed", zap.Int("points", len(pts)))
}

// resize follows the drawable size and refreshes the screen distances
// without advancing the animation.
func (v *viewer) resize() {
	dw, dh := v.win.DrawableSize()
	v.scene.Resize(int32(dw), int32(dh))
	v.scene.Update(0, v.cam)
	logger.Debug("viewport resized", zap.Int("width", dw), zap.Int("height", dh))
}

func (v *viewer) screenshot() {
	img, err := v.scene.CaptureImage()
	if err != nil {
		logger.Error("screenshot read failed", zap.Error(err))
		return
	}
	if _, err := v.shots.CaptureFromImage(img); err != nil {
		logger.Error("screenshot failed", zap.Error(err))
	}
}

// Close releases the scene and the window.
func (v *viewer) Close() {
	v.scene.Destroy()
	v.win.Close()
}
