package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the renderer cannot work with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Surface.Segments < 1 || c.Surface.Size <= 0 {
		return fmt.Errorf("surface needs positive size and segments, got %g/%d", c.Surface.Size, c.Surface.Segments)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera clip planes invalid: near=%g far=%g", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.FovY <= 0 || c.Camera.FovY >= 180 {
		return fmt.Errorf("camera fov must be in (0, 180), got %g", c.Camera.FovY)
	}
	return nil
}

// ReadShaders returns the override shader sources, or empty strings for the
// stages that use the embedded defaults.
func (c *Config) ReadShaders() (vertex, fragment string, err error) {
	if c.Shaders.Vertex != "" {
		data, err := os.ReadFile(c.Shaders.Vertex)
		if err != nil {
			return "", "", fmt.Errorf("reading vertex shader: %w", err)
		}
		vertex = string(data)
	}
	if c.Shaders.Fragment != "" {
		data, err := os.ReadFile(c.Shaders.Fragment)
		if err != nil {
			return "", "", fmt.Errorf("reading fragment shader: %w", err)
		}
		fragment = string(data)
	}
	return vertex, fragment, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./seascape.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Seascape")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Seascape")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "seascape")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "seascape")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
