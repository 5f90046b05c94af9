package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/kag-mapper/internal/engine/camera"
	"github.com/Faultbox/kag-mapper/pkg/tiles"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority over the search locations
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the editor cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		errs = append(errs, fmt.Errorf("map size must be positive, got %dx%d", c.Map.Width, c.Map.Height))
	}
	if c.Map.EmptyTile == "" {
		errs = append(errs, errors.New("map.empty_tile must be set"))
	}
	if c.Map.OutputFile == "" {
		errs = append(errs, errors.New("map.output_file must be set"))
	}
	// Cells are drawn at whole multiples of the native tile unit, so any
	// other size would make clicks land on a different cell than drawn.
	unit := tiles.NativeTileUnit
	if c.Editor.MinTileSize < camera.DefaultMinTileSize {
		errs = append(errs, fmt.Errorf("editor.min_tile_size must be at least %d, got %d", camera.DefaultMinTileSize, c.Editor.MinTileSize))
	}
	if c.Editor.ZoomStep <= 0 {
		errs = append(errs, fmt.Errorf("editor.zoom_step must be positive, got %d", c.Editor.ZoomStep))
	}
	for _, v := range []struct {
		key string
		val int
	}{
		{"editor.tile_size", c.Editor.TileSize},
		{"editor.min_tile_size", c.Editor.MinTileSize},
		{"editor.zoom_step", c.Editor.ZoomStep},
	} {
		if v.val%unit != 0 {
			errs = append(errs, fmt.Errorf("%s must be a multiple of %d, got %d", v.key, unit, v.val))
		}
	}
	if c.Editor.TileSize < c.Editor.MinTileSize {
		errs = append(errs, fmt.Errorf("editor.tile_size %d is below min_tile_size %d", c.Editor.TileSize, c.Editor.MinTileSize))
	}
	if _, err := tiles.ParseColor(c.Editor.ClearColor); err != nil {
		errs = append(errs, fmt.Errorf("editor.clear_color: %w", err))
	}
	if c.Data.TilesFile == "" {
		errs = append(errs, errors.New("data.tiles_file must be set"))
	}
	if c.Data.Background != "" && c.Data.BackgroundScale <= 0 {
		errs = append(errs, fmt.Errorf("data.background_scale must be positive, got %d", c.Data.BackgroundScale))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
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
		return filepath.Join(home, "Library", "Application Support", "KagMapper")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "KagMapper")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "kag-mapper")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "kag-mapper")
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
