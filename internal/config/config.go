// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Ribbon   RibbonConfig   `yaml:"ribbon"`
	Route    RouteConfig    `yaml:"route"`
	Preview  PreviewConfig  `yaml:"preview"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	FPSLimit   int     `yaml:"fps_limit"`
	Anisotropy float32 `yaml:"anisotropy"` // glyph texture filtering, 1 disables
	Background string  `yaml:"background"` // clear color, hex
}

// CameraConfig holds the orbit camera start state.
type CameraConfig struct {
	FOV      float32    `yaml:"fov"` // vertical, degrees
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Distance float32    `yaml:"distance"`
	Yaw      float32    `yaml:"yaw"`   // degrees
	Pitch    float32    `yaml:"pitch"` // degrees
	Target   [3]float32 `yaml:"target"`
}

// RibbonConfig holds the route appearance.
type RibbonConfig struct {
	WidthPixels    float32 `yaml:"width_px"`
	ArrowSpacing   float32 `yaml:"arrow_spacing"`
	AnimationSpeed float32 `yaml:"animation_speed"`
	CornerRadius   float32 `yaml:"corner_radius"`
	ZOffset        float32 `yaml:"z_offset"`
	SpacingMode    string  `yaml:"spacing_mode"` // "screen" or "world"

	LODBias        float32 `yaml:"lod_bias"`
	LODMinMultiple float32 `yaml:"lod_min_multiple"`
	LODMaxMultiple float32 `yaml:"lod_max_multiple"`

	Density     float32 `yaml:"density"`
	MinSamples  int     `yaml:"min_samples"`
	CapSegments int     `yaml:"cap_segments"`

	BorderWidthPixels float32 `yaml:"border_width_px"`
	ArrowColor        string  `yaml:"arrow_color"`
	BorderColor       string  `yaml:"border_color"`
	GlyphSize         int     `yaml:"glyph_size"`

	Traffic []TrafficConfig `yaml:"traffic"`
}

// TrafficConfig colors a range of the route, in progress units [0, 1].
type TrafficConfig struct {
	Start float32 `yaml:"start"`
	End   float32 `yaml:"end"`
	Color string  `yaml:"color"`
}

// RouteConfig holds the control polyline shown at startup.
type RouteConfig struct {
	Points [][3]float32 `yaml:"points"`
}

// PreviewConfig holds headless preview settings.
type PreviewConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Frames    int     `yaml:"frames"`
	FrameRate float32 `yaml:"frame_rate"`
	OutputDir string  `yaml:"output_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			Anisotropy: 8,
			Background: "#1b1f24",
		},
		Camera: CameraConfig{
			FOV:      60,
			Near:     0.1,
			Far:      5000,
			Distance: 160,
			Yaw:      -90,
			Pitch:    55,
			Target:   [3]float32{50, 40, 0},
		},
		Ribbon: RibbonConfig{
			WidthPixels:    20,
			ArrowSpacing:   60,
			AnimationSpeed: 30,
			CornerRadius:   8,
			ZOffset:        0.05,
			SpacingMode:    "screen",
			LODBias:        1,
			LODMinMultiple: 1.5,
			LODMaxMultiple: 3,
			Density:        0.5,
			MinSamples:     64,
			CapSegments:    8,
			ArrowColor:     "#ffffff",
			BorderColor:    "#ffffff",
			GlyphSize:      128,
			Traffic: []TrafficConfig{
				{Start: 0, End: 0.4, Color: "#2fb344"},
				{Start: 0.4, End: 0.7, Color: "#f5a524"},
				{Start: 0.7, End: 1, Color: "#e5484d"},
			},
		},
		Route: RouteConfig{
			Points: [][3]float32{
				{0, 0, 0}, {20, 0, 0}, {20, 30, 0}, {50, 30, 0},
				{50, 55, 0}, {80, 55, 0}, {80, 80, 0}, {100, 80, 0},
			},
		},
		Preview: PreviewConfig{
			Width:     960,
			Height:    540,
			Frames:    1,
			FrameRate: 30,
			OutputDir: "preview",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
