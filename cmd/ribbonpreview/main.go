// Package main writes route ribbon preview frames as PNG files without a
// window or GPU.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-ribbon/internal/config"
	"github.com/Faultbox/midgard-ribbon/internal/engine/debug"
	"github.com/Faultbox/midgard-ribbon/internal/engine/glyph"
	"github.com/Faultbox/midgard-ribbon/internal/engine/preview"
	"github.com/Faultbox/midgard-ribbon/internal/logger"
	"github.com/Faultbox/midgard-ribbon/internal/route"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("preview failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	routeCfg, err := cfg.Ribbon.RouteConfig()
	if err != nil {
		return fmt.Errorf("ribbon config: %w", err)
	}

	w, h := max(cfg.Preview.Width, 1), max(cfg.Preview.Height, 1)
	cam := cfg.Camera.OrbitCamera()
	state := cam.State(w, h)

	p := route.New(cfg.Route.Vec3s(), routeCfg,
		route.WithCamera(state),
		route.WithLogger(logger.Named("route")))
	defer p.Dispose()

	if p.Mesh() == nil {
		return fmt.Errorf("route has no geometry (%d points)", len(cfg.Route.Points))
	}

	glyphs := glyph.NewCache(nil, cfg.Ribbon.GlyphSize)
	r := preview.New(w, h, glyphs.Glyph())
	r.SetBackground(cfg.Graphics.BackgroundColor())
	shots := debug.NewScreenshotCapture(cfg.Preview.OutputDir, "ribbon")

	frames := max(cfg.Preview.Frames, 1)
	var dt float32
	if cfg.Preview.FrameRate > 0 {
		dt = 1 / cfg.Preview.FrameRate
	}

	logger.Info("rendering preview",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("frames", frames),
		zap.String("output", cfg.Preview.OutputDir))

	for i := 0; i < frames; i++ {
		if i > 0 {
			p.Update(dt, state)
		}
		r.Clear()
		shaded := r.DrawPath(p, state)

		path, err := shots.CaptureFrame(r.Image(), i)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		logger.Debug("frame written",
			zap.Int("frame", i),
			zap.Int("fragments", shaded),
			zap.Float32("offset", p.Offset()),
			zap.String("path", path))
	}
	return nil
}
