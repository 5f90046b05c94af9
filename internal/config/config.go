// Package config handles editor configuration loading and management.
package config

// Config holds all editor settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Map     MapConfig     `yaml:"map"`
	Editor  EditorConfig  `yaml:"editor"`
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"` // 0 = unlimited
}

// MapConfig holds the grid dimensions and export target.
type MapConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	EmptyTile  string `yaml:"empty_tile"`
	OutputDir  string `yaml:"output_dir"`
	OutputFile string `yaml:"output_file"`
}

// EditorConfig holds painting and camera settings.
type EditorConfig struct {
	SelectedTile string `yaml:"selected_tile"`
	TileSize     int    `yaml:"tile_size"`
	MinTileSize  int    `yaml:"min_tile_size"`
	ZoomStep     int    `yaml:"zoom_step"`
	ClearColor   string `yaml:"clear_color"`
}

// DataConfig holds asset locations.
type DataConfig struct {
	TilesFile        string  `yaml:"tiles_file"`
	SpritesDir       string  `yaml:"sprites_dir"`
	Background       string  `yaml:"background"` // sheet id, empty = none
	BackgroundScale  int     `yaml:"background_scale"`
	BackgroundOffset [2]int  `yaml:"background_offset"`
	RandomSeed       *uint64 `yaml:"random_seed,omitempty"`
	WatchSprites     bool    `yaml:"watch_sprites"` // reload sheets when their files change
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
			Width:    1024,
			Height:   768,
			VSync:    true,
			FPSLimit: 144,
		},
		Map: MapConfig{
			Width:      200,
			Height:     100,
			EmptyTile:  "Sky",
			OutputDir:  "maps",
			OutputFile: "map.png",
		},
		Editor: EditorConfig{
			SelectedTile: "Dirt Background",
			TileSize:     32,
			MinTileSize:  16,
			ZoomStep:     8,
			ClearColor:   "#3B7076",
		},
		Data: DataConfig{
			TilesFile:        "data/tiles.json",
			SpritesDir:       "Sprites",
			Background:       "Back/BackgroundCastle",
			BackgroundScale:  2,
			BackgroundOffset: [2]int{-100, -100},
			WatchSprites:     true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
