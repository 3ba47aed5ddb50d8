package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Window defaults
	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Surface and camera defaults
	if cfg.Surface.Size != 8 || cfg.Surface.Segments != 128 {
		t.Errorf("expected 8x8 plane with 128 segments, got %g/%d", cfg.Surface.Size, cfg.Surface.Segments)
	}
	if cfg.Camera.FovY != 75 || cfg.Camera.Near != 0.1 || cfg.Camera.Far != 100 {
		t.Errorf("unexpected camera projection defaults: %+v", cfg.Camera)
	}
	if cfg.Camera.OrbitRadius != 3 || cfg.Camera.OrbitHeight != 0.23 || cfg.Camera.AngularSpeed != 0.17 {
		t.Errorf("unexpected idle orbit defaults: %+v", cfg.Camera)
	}

	if cfg.Panel.Visible {
		t.Error("expected panel hidden by default")
	}
	if cfg.Telemetry.Budget != 16666*time.Microsecond {
		t.Errorf("expected 16.666ms budget, got %v", cfg.Telemetry.Budget)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
surface:
  segments: 64
camera:
  orbit_radius: 5
background:
  path: sky/evening.png
shaders:
  vertex: custom.vert
panel:
  visible: true
telemetry:
  budget: 8ms
  output: frames.csv
logging:
  level: debug
  log_file: seascape.log
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	// Keys absent from the file keep their defaults.
	if cfg.Window.Title != "Seascape" {
		t.Errorf("expected default title, got %q", cfg.Window.Title)
	}
	if cfg.Surface.Segments != 64 || cfg.Surface.Size != 8 {
		t.Errorf("expected segments 64 and default size, got %d/%g", cfg.Surface.Segments, cfg.Surface.Size)
	}
	if cfg.Camera.OrbitRadius != 5 || cfg.Camera.OrbitHeight != 0.23 {
		t.Errorf("unexpected camera after merge: %+v", cfg.Camera)
	}
	if cfg.Background.Path != "sky/evening.png" {
		t.Errorf("expected background sky/evening.png, got %s", cfg.Background.Path)
	}
	if cfg.Shaders.Vertex != "custom.vert" || cfg.Shaders.Fragment != "" {
		t.Errorf("unexpected shader overrides: %+v", cfg.Shaders)
	}
	if !cfg.Panel.Visible {
		t.Error("expected panel visible")
	}
	if cfg.Telemetry.Budget != 8*time.Millisecond {
		t.Errorf("expected 8ms budget, got %v", cfg.Telemetry.Budget)
	}
	if cfg.Telemetry.Output != "frames.csv" {
		t.Errorf("expected telemetry output frames.csv, got %s", cfg.Telemetry.Output)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "seascape.log" {
		t.Errorf("expected log file 'seascape.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative height", func(c *Config) { c.Window.Height = -1 }},
		{"no segments", func(c *Config) { c.Surface.Segments = 0 }},
		{"zero size", func(c *Config) { c.Surface.Size = 0 }},
		{"near at zero", func(c *Config) { c.Camera.Near = 0 }},
		{"far before near", func(c *Config) { c.Camera.Far = 0.05 }},
		{"flat fov", func(c *Config) { c.Camera.FovY = 180 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestReadShaders(t *testing.T) {
	tmpDir := t.TempDir()
	fragPath := filepath.Join(tmpDir, "surface.frag")
	if err := os.WriteFile(fragPath, []byte("void main() {}"), 0644); err != nil {
		t.Fatalf("failed to write shader: %v", err)
	}

	cfg := Default()
	cfg.Shaders.Fragment = fragPath

	vs, fs, err := cfg.ReadShaders()
	if err != nil {
		t.Fatalf("ReadShaders: %v", err)
	}
	if vs != "" {
		t.Errorf("vertex override should be empty, got %q", vs)
	}
	if fs != "void main() {}" {
		t.Errorf("unexpected fragment source %q", fs)
	}

	cfg.Shaders.Vertex = filepath.Join(tmpDir, "missing.vert")
	if _, _, err := cfg.ReadShaders(); err == nil {
		t.Error("expected error for missing vertex shader")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	// No config file exists - should return empty
	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "seascape.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find seascape.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "scene flags",
			setup: func() {
				*flagBackground = "night.png"
				*flagPanel = true
				*flagTelemetry = "out.csv"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Background.Path != "night.png" {
					t.Errorf("expected background night.png, got %s", cfg.Background.Path)
				}
				if !cfg.Panel.Visible {
					t.Error("expected panel visible with panel flag")
				}
				if cfg.Telemetry.Output != "out.csv" {
					t.Errorf("expected telemetry out.csv, got %s", cfg.Telemetry.Output)
				}
			},
			teardown: func() {
				*flagBackground = ""
				*flagPanel = false
				*flagTelemetry = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("surface:\n  segments: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject zero segments")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dump.yaml")

	cfg := Default()
	cfg.Window.Width = 1024
	cfg.Camera.OrbitRadius = 4.5
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reloading dump: %v", err)
	}
	if loaded.Window.Width != 1024 || loaded.Camera.OrbitRadius != 4.5 {
		t.Errorf("dump did not round trip: %+v / %+v", loaded.Window, loaded.Camera)
	}
}
