package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed    = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen  = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagRibbonWidth = flag.Float64("ribbon-width", 0, "Ribbon width in pixels")
	flagSpacing     = flag.Float64("spacing", 0, "Arrow spacing (pixels or world units, per mode)")
	flagMode        = flag.String("mode", "", "Arrow spacing mode: screen or world")
	flagLODBias     = flag.Float64("lod-bias", -1, "Arrow LOD fade bias, 0 disables the fade")
	flagFrames      = flag.Int("frames", 0, "Number of preview frames to write")
	flagOutput      = flag.String("out", "", "Preview output directory")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagRibbonWidth > 0 {
		cfg.Ribbon.WidthPixels = float32(*flagRibbonWidth)
	}
	if *flagSpacing > 0 {
		cfg.Ribbon.ArrowSpacing = float32(*flagSpacing)
	}
	if *flagMode != "" {
		cfg.Ribbon.SpacingMode = *flagMode
	}
	if *flagLODBias >= 0 {
		cfg.Ribbon.LODBias = float32(*flagLODBias)
	}
	if *flagFrames > 0 {
		cfg.Preview.Frames = *flagFrames
	}
	if *flagOutput != "" {
		cfg.Preview.OutputDir = *flagOutput
	}
}
