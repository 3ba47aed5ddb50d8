package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagBackground = flag.String("background", "", "Sky background image")
	flagPanel      = flag.Bool("panel", false, "Show the control panel on start")
	flagTelemetry  = flag.String("telemetry", "", "Write frame timing CSV to this path")
	flagDumpConfig = flag.String("dump-config", "", "Write the effective config to this path and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// DumpPath returns the --dump-config target, if any.
func DumpPath() string {
	return *flagDumpConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagBackground != "" {
		cfg.Background.Path = *flagBackground
	}
	if *flagPanel {
		cfg.Panel.Visible = true
	}
	if *flagTelemetry != "" {
		cfg.Telemetry.Output = *flagTelemetry
	}
}
