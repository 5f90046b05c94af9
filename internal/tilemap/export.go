package tilemap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/kag-mapper/internal/logger"
)

// ErrWrite is returned when the map image cannot be written.
var ErrWrite = errors.New("writing map image")

// Default export location.
const (
	DefaultExportDir  = "maps"
	DefaultExportName = "map.png"
)

// Rasterize renders the grid as one pixel per cell in the cell kind's
// color. Invisible kinds are included. The image is fully opaque, so it
// encodes as RGB without an alpha channel.
func Rasterize(g *Grid) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.width, g.height))
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := g.cells[y*g.width+x].kind.Color
			img.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xFF})
		}
	}
	return img
}

// Exporter writes rasterized maps to a fixed path.
type Exporter struct {
	Dir  string
	Name string
}

// DefaultExporter writes to maps/map.png.
func DefaultExporter() *Exporter {
	return &Exporter{Dir: DefaultExportDir, Name: DefaultExportName}
}

// Path returns the target file path.
func (e *Exporter) Path() string {
	return filepath.Join(e.Dir, e.Name)
}

// Save rasterizes the grid and writes it as PNG. The image is written to
// a temporary file next to the target and renamed over it, so a failed
// save never leaves a truncated map behind.
func (e *Exporter) Save(g *Grid) (path string, err error) {
	start := time.Now()
	img := Rasterize(g)

	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return "", fmt.Errorf("%w: creating output dir: %w", ErrWrite, err)
	}

	tmp, err := os.CreateTemp(e.Dir, "."+e.Name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: creating file: %w", ErrWrite, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = png.Encode(tmp, img); err != nil {
		return "", fmt.Errorf("%w: encoding PNG: %w", ErrWrite, err)
	}
	// CreateTemp opens files 0600; the map is meant to be shared.
	if err = tmp.Chmod(0644); err != nil {
		return "", fmt.Errorf("%w: setting file mode: %w", ErrWrite, err)
	}
	if err = tmp.Sync(); err != nil {
		return "", fmt.Errorf("%w: syncing file: %w", ErrWrite, err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: closing file: %w", ErrWrite, err)
	}

	path = e.Path()
	if err = os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("%w: replacing %s: %w", ErrWrite, path, err)
	}

	logger.Info("map saved",
		zap.String("path", path),
		zap.Int("width", g.width),
		zap.Int("height", g.height),
		zap.Duration("took", time.Since(start)),
	)
	return path, nil
}
