package main

import (
	"fmt"
	"image"
	"math/rand/v2"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/kag-mapper/internal/assets"
	"github.com/Faultbox/kag-mapper/internal/config"
	"github.com/Faultbox/kag-mapper/internal/editor"
	"github.com/Faultbox/kag-mapper/internal/engine/camera"
	"github.com/Faultbox/kag-mapper/internal/engine/debug"
	"github.com/Faultbox/kag-mapper/internal/engine/dialog"
	"github.com/Faultbox/kag-mapper/internal/engine/input"
	"github.com/Faultbox/kag-mapper/internal/engine/renderer"
	"github.com/Faultbox/kag-mapper/internal/engine/scene"
	"github.com/Faultbox/kag-mapper/internal/engine/window"
	"github.com/Faultbox/kag-mapper/internal/logger"
	"github.com/Faultbox/kag-mapper/internal/tilemap"
	"github.com/Faultbox/kag-mapper/pkg/tiles"
)

// titleInterval is how often the window title is refreshed.
const titleInterval = 250 * time.Millisecond

type app struct {
	cfg       *config.Config
	window    *window.Window
	presenter *renderer.Presenter
	assets    *assets.Manager
	editor    *editor.Editor
	input     *input.State

	frame *image.RGBA
}

func newApp(cfg *config.Config) (*app, error) {
	catalog, err := tiles.LoadFile(cfg.Data.TilesFile)
	if err != nil {
		return nil, fmt.Errorf("loading tiles: %w", err)
	}
	logger.Info("tile catalog loaded",
		zap.String("path", cfg.Data.TilesFile),
		zap.Int("kinds", catalog.Len()),
	)

	grid, err := tilemap.New(catalog, cfg.Map.Width, cfg.Map.Height, cfg.Map.EmptyTile, newResolver(cfg))
	if err != nil {
		return nil, fmt.Errorf("creating map: %w", err)
	}

	clearColor, err := tiles.ParseColor(cfg.Editor.ClearColor)
	if err != nil {
		return nil, fmt.Errorf("clear color: %w", err)
	}

	mgr := assets.NewManager(cfg.Data.SpritesDir)
	if err := mgr.Preload(catalog.Sheets()); err != nil {
		// The map can still be painted and saved; cells just stay blank.
		logger.Warn("sprite sheets incomplete", zap.Error(err))
	}
	if cfg.Data.WatchSprites {
		ids := catalog.Sheets()
		if cfg.Data.Background != "" {
			ids = append(ids, cfg.Data.Background)
		}
		if err := mgr.Watch(ids...); err != nil {
			logger.Warn("sprite hot reload disabled", zap.Error(err))
		}
	}

	mapRenderer := scene.NewMapRenderer(mgr)
	mapRenderer.SetClearColor(clearColor)
	if cfg.Data.Background != "" {
		mapRenderer.SetBackground(&scene.Background{
			Sheet:  cfg.Data.Background,
			Scale:  cfg.Data.BackgroundScale,
			Offset: image.Pt(cfg.Data.BackgroundOffset[0], cfg.Data.BackgroundOffset[1]),
		})
	}

	cam := camera.New()
	cam.TileSize = cfg.Editor.TileSize
	cam.MinTileSize = cfg.Editor.MinTileSize
	cam.ZoomStep = cfg.Editor.ZoomStep

	ed, err := editor.New(editor.Config{
		Grid:         grid,
		Camera:       cam,
		Renderer:     mapRenderer,
		Exporter:     &tilemap.Exporter{Dir: cfg.Map.OutputDir, Name: cfg.Map.OutputFile},
		Notifier:     dialog.Notifier{},
		Screenshots:  debug.NewScreenshotCapture(filepath.Join(cfg.Map.OutputDir, "screenshots"), "kagmapper"),
		SelectedTile: cfg.Editor.SelectedTile,
	})
	if err != nil {
		return nil, err
	}

	win, err := window.New(window.Config{
		Title:      "KAG Map Editor " + editor.Version,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, err
	}

	presenter, err := renderer.New(win.DrawableSize())
	if err != nil {
		win.Close()
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		window:    win,
		presenter: presenter,
		assets:    mgr,
		editor:    ed,
		input:     input.New(),
	}
	a.resize()
	return a, nil
}

func newResolver(cfg *config.Config) *tilemap.Resolver {
	seed := uint64(time.Now().UnixNano())
	if cfg.Data.RandomSeed != nil {
		seed = *cfg.Data.RandomSeed
	}
	logger.Debug("variant resolver seeded", zap.Uint64("seed", seed))
	return tilemap.NewResolver(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// resize reallocates the software frame at window size; mouse
// coordinates arrive in the same units.
func (a *app) resize() {
	w, h := a.window.GetSize()
	a.frame = image.NewRGBA(image.Rect(0, 0, w, h))
	a.presenter.Resize(a.window.DrawableSize())
}

// Run runs the frame loop until the window is closed.
func (a *app) Run() {
	var minFrame time.Duration
	if a.cfg.Window.FPSLimit > 0 {
		minFrame = time.Second / time.Duration(a.cfg.Window.FPSLimit)
	}

	frameCount := 0
	fps := 0.0
	fpsTimer := time.Now()
	titleTimer := time.Time{}

	logger.Info("starting editor loop")

	for {
		start := time.Now()

		ev := a.window.PumpEvents(a.input)
		if ev.Quit {
			return
		}
		if ev.Resized {
			a.resize()
		}

		a.drainSheetChanges()
		a.editor.Update(a.input)
		a.editor.Render(a.frame)
		a.presenter.Present(a.frame)
		a.window.SwapBuffers()

		frameCount++
		if elapsed := time.Since(fpsTimer); elapsed >= time.Second {
			fps = float64(frameCount) / elapsed.Seconds()
			frameCount = 0
			fpsTimer = time.Now()
		}
		if time.Since(titleTimer) >= titleInterval {
			a.window.SetTitle(a.editor.Status(fps))
			titleTimer = time.Now()
		}

		if d := minFrame - time.Since(start); d > 0 {
			time.Sleep(d)
		}
	}
}

// drainSheetChanges forwards sheet file changes from the watcher
// without blocking the frame.
func (a *app) drainSheetChanges() {
	for {
		select {
		case id := <-a.assets.Changed():
			a.editor.SheetChanged(id)
		default:
			return
		}
	}
}

// Close releases everything in reverse creation order.
func (a *app) Close() {
	a.presenter.Close()
	a.window.Close()
	a.assets.Close()
}
