// Package config handles seascape configuration loading and management.
package config

import "time"

// Config holds all settings.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Surface    SurfaceConfig    `yaml:"surface"`
	Camera     CameraConfig     `yaml:"camera"`
	Background BackgroundConfig `yaml:"background"`
	Shaders    ShaderConfig     `yaml:"shaders"`
	Panel      PanelConfig      `yaml:"panel"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	HighDPI    bool   `yaml:"high_dpi"`
}

// SurfaceConfig holds the water grid dimensions.
type SurfaceConfig struct {
	Size     float32 `yaml:"size"`
	Segments int     `yaml:"segments"`
}

// CameraConfig holds projection and idle orbit settings.
type CameraConfig struct {
	FovY         float32 `yaml:"fov_y"`
	Near         float32 `yaml:"near"`
	Far          float32 `yaml:"far"`
	OrbitRadius  float32 `yaml:"orbit_radius"`
	OrbitHeight  float32 `yaml:"orbit_height"`
	AngularSpeed float32 `yaml:"angular_speed"`
}

// BackgroundConfig points at the sky image.
type BackgroundConfig struct {
	Path string `yaml:"path"`
}

// ShaderConfig optionally replaces the embedded surface shaders.
type ShaderConfig struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
}

// PanelConfig holds control panel settings.
type PanelConfig struct {
	Visible bool `yaml:"visible"`
}

// TelemetryConfig holds frame timing settings.
type TelemetryConfig struct {
	Budget time.Duration `yaml:"budget"`
	Window int           `yaml:"window"`
	Output string        `yaml:"output"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Seascape",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			HighDPI:    true,
		},
		Surface: SurfaceConfig{
			Size:     8,
			Segments: 128,
		},
		Camera: CameraConfig{
			FovY:         75,
			Near:         0.1,
			Far:          100,
			OrbitRadius:  3,
			OrbitHeight:  0.23,
			AngularSpeed: 0.17,
		},
		Background: BackgroundConfig{
			Path: "assets/sky.jpg",
		},
		Panel: PanelConfig{
			Visible: false,
		},
		Telemetry: TelemetryConfig{
			Budget: 16666 * time.Microsecond,
			Window: 120,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
