// Package editor implements the map editing session: modes, painting,
// camera control and saving.
package editor

import (
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/Faultbox/kag-mapper/internal/engine/camera"
	"github.com/Faultbox/kag-mapper/internal/engine/debug"
	"github.com/Faultbox/kag-mapper/internal/engine/input"
	"github.com/Faultbox/kag-mapper/internal/engine/scene"
	"github.com/Faultbox/kag-mapper/internal/logger"
	"github.com/Faultbox/kag-mapper/internal/tilemap"
	"github.com/Faultbox/kag-mapper/pkg/tiles"
)

// Version is the editor version shown in the window title.
const Version = "0.1.0"

// Config wires the editor's collaborators.
type Config struct {
	Grid         *tilemap.Grid
	Camera       *camera.Camera
	Renderer     *scene.MapRenderer
	Exporter     *tilemap.Exporter
	Notifier     Notifier                 // defaults to LogNotifier
	Screenshots  *debug.ScreenshotCapture // nil disables P
	SelectedTile string
}

// Editor is one editing session.
type Editor struct {
	grid     *tilemap.Grid
	cam      *camera.Camera
	renderer *scene.MapRenderer
	exporter *tilemap.Exporter
	notifier Notifier
	selected string

	overlay     *debug.TileGridRenderer
	showGrid    bool
	screenshots *debug.ScreenshotCapture
	// Set by P, consumed by the next Render
	capture bool

	mode     Mode
	lastMode Mode

	// Last cell written by the current drag
	lastCell image.Point
	painting bool
	// Cells written by the current drag
	stroke int

	// Unknown tile names already reported, so a held brush logs once
	reported map[string]bool

	lastSave string
}

// New creates an editor in menu mode.
func New(cfg Config) (*Editor, error) {
	if cfg.Grid == nil || cfg.Camera == nil || cfg.Renderer == nil || cfg.Exporter == nil {
		return nil, errors.New("editor: grid, camera, renderer and exporter are required")
	}
	n := cfg.Notifier
	if n == nil {
		n = LogNotifier{}
	}
	return &Editor{
		grid:     cfg.Grid,
		cam:      cfg.Camera,
		renderer: cfg.Renderer,
		exporter: cfg.Exporter,
		notifier: n,
		selected: cfg.SelectedTile,

		overlay:     debug.NewTileGridRenderer(cfg.Grid.Width(), cfg.Grid.Height()),
		screenshots: cfg.Screenshots,
		mode:        ModeMenu,
		lastMode:    ModeMenu,
		reported:    make(map[string]bool),
	}, nil
}

// Mode returns the current mode.
func (e *Editor) Mode() Mode { return e.mode }

// Grid returns the map being edited.
func (e *Editor) Grid() *tilemap.Grid { return e.grid }

// Camera returns the view camera.
func (e *Editor) Camera() *camera.Camera { return e.cam }

// GridVisible reports whether the cell grid overlay is shown.
func (e *Editor) GridVisible() bool { return e.showGrid }

// SelectedTile returns the tile kind the brush paints.
func (e *Editor) SelectedTile() string { return e.selected }

// SetSelectedTile changes the brush.
func (e *Editor) SetSelectedTile(name string) {
	e.selected = name
	e.painting = false
}

func (e *Editor) setMode(m Mode) {
	// Keep lastMode meaningful when re-entering the same mode
	if e.mode == m {
		return
	}
	logger.Debug("mode change", zap.Stringer("from", e.mode), zap.Stringer("to", m))
	e.lastMode = e.mode
	e.mode = m
	e.painting = false
	e.stroke = 0
}

// Update applies one frame of input.
func (e *Editor) Update(in input.Provider) {
	switch e.mode {
	case ModeMenu:
		if in.KeyReleased(input.KeyF2) {
			e.setMode(ModeMapping)
		} else if in.KeyReleased(input.KeyF1) {
			e.openHelp()
		}

	case ModeMapping:
		if in.KeyReleased(input.KeyEscape) {
			e.leaveMapping()
		} else if in.KeyReleased(input.KeyF1) {
			e.openHelp()
		} else if in.KeyReleased(input.KeyK) {
			_ = e.Save()
		} else if in.KeyReleased(input.KeyG) {
			e.showGrid = !e.showGrid
		} else if in.KeyReleased(input.KeyP) && e.screenshots != nil {
			e.capture = true
		}
		if e.mode != ModeMapping {
			return
		}
		e.updateCamera(in)
		e.updateBrush(in)

	case ModeHelp:
		if in.KeyReleased(input.KeyEscape) {
			e.setMode(ModeMenu)
		} else if in.KeyReleased(input.KeyF2) {
			e.setMode(ModeMapping)
		} else if in.KeyReleased(input.KeyF1) {
			e.setMode(e.lastMode)
		}
	}
}

func (e *Editor) openHelp() {
	e.setMode(ModeHelp)
	e.notifier.Info("KAG Map Editor "+Version, HelpText)
}

func (e *Editor) leaveMapping() {
	if e.grid.Dirty() && e.notifier.Confirm("Unsaved map", "Save the map before leaving?") {
		_ = e.Save()
	}
	e.setMode(ModeMenu)
}

func (e *Editor) updateCamera(in input.Provider) {
	step := e.cam.PanStep()
	if in.KeyHeld(input.KeyA) {
		e.cam.Pan(step, 0)
	} else if in.KeyHeld(input.KeyD) {
		e.cam.Pan(-step, 0)
	}
	if in.KeyHeld(input.KeyW) {
		e.cam.Pan(0, step)
	} else if in.KeyHeld(input.KeyS) {
		e.cam.Pan(0, -step)
	}

	for w := in.Wheel(); w > 0; w-- {
		e.cam.Zoom(true)
	}
	for w := in.Wheel(); w < 0; w++ {
		e.cam.Zoom(false)
	}
	if in.KeyReleased(input.KeyPlus) {
		e.cam.Zoom(true)
	}
	if in.KeyReleased(input.KeyMinus) {
		e.cam.Zoom(false)
	}
}

// updateBrush paints the selected tile under the cursor. While the
// button stays down, a cell is written only when it differs from the
// last cell written in this drag.
func (e *Editor) updateBrush(in input.Provider) {
	if in.MouseReleased(input.ButtonLeft) && e.stroke > 0 {
		logger.Debug("brush stroke", zap.String("tile", e.selected), zap.Int("cells", e.stroke))
		e.stroke = 0
	}
	if !in.MouseHeld(input.ButtonLeft) {
		e.painting = false
		return
	}

	mx, my := in.MousePosition()
	cell := image.Pt(e.cam.ScreenToGrid(mx, my))
	if !e.grid.InBounds(cell.X, cell.Y) {
		logger.Debug("tried to add tile outside of bounds", zap.Int("x", cell.X), zap.Int("y", cell.Y))
		return
	}
	if e.painting && cell == e.lastCell {
		return
	}
	e.lastCell = cell
	e.painting = true

	if err := e.grid.SetTile(cell.X, cell.Y, e.selected); err != nil {
		if errors.Is(err, tiles.ErrNotFound) && !e.reported[e.selected] {
			e.reported[e.selected] = true
			logger.Warn("ignoring placement of unknown tile", zap.String("tile", e.selected))
		}
		return
	}
	e.stroke++
	logger.Debug("put tile", zap.Int("x", cell.X), zap.Int("y", cell.Y), zap.String("tile", e.selected))
}

// Save exports the map. Failures are shown through the notifier and
// returned; they are not retried.
func (e *Editor) Save() error {
	path, err := e.exporter.Save(e.grid)
	if err != nil {
		logger.Error("map save failed", zap.Error(err))
		e.notifier.Error("Save failed", fmt.Sprintf("Could not save the map to %s:\n%v", e.exporter.Path(), err))
		return err
	}
	e.grid.MarkClean()
	e.lastSave = path
	return nil
}

// SheetChanged tells the editor a sprite sheet file changed on disk.
// A sheet that previously failed to load is tried again on the next
// frame.
func (e *Editor) SheetChanged(id string) {
	e.renderer.Forget(id)
}

// Render draws the current frame into dst.
func (e *Editor) Render(dst draw.Image) {
	e.renderer.BeginFrame(e.cam.TileSize)
	e.renderer.Clear(dst)
	if e.mode == ModeMapping {
		e.renderer.DrawGrid(dst, e.grid, e.cam)
		if e.showGrid {
			e.overlay.Draw(dst, e.cam)
		}
	}

	if e.capture {
		e.capture = false
		path, err := e.screenshots.Capture(dst)
		if err != nil {
			logger.Error("screenshot failed", zap.Error(err))
			e.notifier.Error("Screenshot failed", err.Error())
			return
		}
		logger.Info("screenshot saved", zap.String("path", path))
	}
}

// Status returns a one-line summary for the window title.
func (e *Editor) Status(fps float64) string {
	base := fmt.Sprintf("KAG Map Editor %s | %s", Version, e.mode)
	switch e.mode {
	case ModeHelp:
		return base + " | " + helpLine
	case ModeMapping:
		s := fmt.Sprintf("%s | Tile: %s (%d placed) | Zoom: %dpx | Drawn: %d | FPS: %.2f",
			base, e.selected, e.grid.CountByKind()[e.selected], e.cam.TileSize, e.renderer.Stats().Drawn, fps)
		if e.grid.Dirty() {
			s += " | *unsaved*"
		} else if e.lastSave != "" {
			s += " | saved " + e.lastSave
		}
		return s
	default:
		return fmt.Sprintf("%s | FPS: %.2f | Press F1 for help!", base, fps)
	}
}
