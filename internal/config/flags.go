package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagTile        = flag.String("tile", "", "Tile kind to paint with")
	flagTiles       = flag.String("tiles", "", "Path to tile catalog file")
	flagOut         = flag.String("out", "", "Directory the map image is written to")
	flagMapWidth    = flag.Int("map-width", 0, "Map width in tiles")
	flagMapHeight   = flag.Int("map-height", 0, "Map height in tiles")
	flagWindowed    = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen  = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagWriteConfig = flag.Bool("write-config", false, "Save the effective config to the config directory and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigRequested reports whether --write-config was given.
func WriteConfigRequested() bool {
	return *flagWriteConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagTile != "" {
		cfg.Editor.SelectedTile = *flagTile
	}
	if *flagTiles != "" {
		cfg.Data.TilesFile = *flagTiles
	}
	if *flagOut != "" {
		cfg.Map.OutputDir = *flagOut
	}
	if *flagMapWidth > 0 {
		cfg.Map.Width = *flagMapWidth
	}
	if *flagMapHeight > 0 {
		cfg.Map.Height = *flagMapHeight
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
}
