// Package window owns the SDL2 window, its GL context and the event pump.
package window

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/kag-mapper/internal/logger"
	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	// SDL and GL calls must stay on the main thread
	runtime.LockOSThread()
}

// glAttributes request a 4.1 core, double-buffered context, the newest
// profile macOS offers. They must be set before the window exists.
var glAttributes = []struct {
	attr sdl.GLattr
	val  int
}{
	{sdl.GL_CONTEXT_MAJOR_VERSION, 4},
	{sdl.GL_CONTEXT_MINOR_VERSION, 1},
	{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
	{sdl.GL_DOUBLEBUFFER, 1},
}

// Config describes the window to open.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

func (c Config) flags() uint32 {
	f := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if c.Fullscreen {
		f |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	return f
}

// Window is an SDL window with a current GL context.
type Window struct {
	win *sdl.Window
	ctx sdl.GLContext
	log *zap.Logger
}

// New initializes SDL video and opens a window with a GL context made
// current on the calling thread. On failure everything created so far
// is torn down again.
func New(cfg Config) (w *Window, err error) {
	w = &Window{log: logger.Log.Named("window")}
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("window: init video: %w", err)
	}
	defer func() {
		if err != nil {
			w.Close()
			w = nil
		}
	}()

	for _, a := range glAttributes {
		if err := sdl.GLSetAttribute(a.attr, a.val); err != nil {
			return w, fmt.Errorf("window: gl attribute %d: %w", a.attr, err)
		}
	}

	w.win, err = sdl.CreateWindow(cfg.Title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height), cfg.flags())
	if err != nil {
		return w, fmt.Errorf("window: create %dx%d: %w", cfg.Width, cfg.Height, err)
	}
	if w.ctx, err = w.win.GLCreateContext(); err != nil {
		return w, fmt.Errorf("window: gl context: %w", err)
	}
	w.SetVSync(cfg.VSync)

	dw, dh := w.DrawableSize()
	w.log.Info("window opened",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("drawable_width", dw),
		zap.Int("drawable_height", dh),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)
	return w, nil
}

// SetVSync ties buffer swaps to the display refresh. Drivers may refuse;
// the editor then runs on its own frame limit.
func (w *Window) SetVSync(on bool) {
	interval := 0
	if on {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		w.log.Warn("swap interval rejected", zap.Int("interval", interval), zap.Error(err))
	}
}

// Close releases the context and window and shuts SDL down.
func (w *Window) Close() {
	if w.ctx != nil {
		sdl.GLDeleteContext(w.ctx)
		w.ctx = nil
	}
	if w.win != nil {
		w.win.Destroy()
		w.win = nil
	}
	sdl.Quit()
	w.log.Info("window closed")
}

// SwapBuffers shows the frame drawn since the last swap.
func (w *Window) SwapBuffers() { w.win.GLSwap() }

// GetSize returns the window size in points, the unit of mouse events.
func (w *Window) GetSize() (int, int) {
	pw, ph := w.win.GetSize()
	return int(pw), int(ph)
}

// DrawableSize returns the framebuffer size in pixels. It is larger
// than GetSize on high-DPI displays.
func (w *Window) DrawableSize() (int, int) {
	pw, ph := w.win.GLGetDrawableSize()
	return int(pw), int(ph)
}

// SetTitle replaces the title bar text.
func (w *Window) SetTitle(title string) { w.win.SetTitle(title) }
