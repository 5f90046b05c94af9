package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/kag-mapper/internal/engine/input"
)

// Events summarizes the window-level events seen by one PumpEvents call.
type Events struct {
	Quit    bool
	Resized bool
}

var scancodes = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_ESCAPE:   input.KeyEscape,
	sdl.SCANCODE_F1:       input.KeyF1,
	sdl.SCANCODE_F2:       input.KeyF2,
	sdl.SCANCODE_W:        input.KeyW,
	sdl.SCANCODE_A:        input.KeyA,
	sdl.SCANCODE_S:        input.KeyS,
	sdl.SCANCODE_D:        input.KeyD,
	sdl.SCANCODE_K:        input.KeyK,
	sdl.SCANCODE_G:        input.KeyG,
	sdl.SCANCODE_P:        input.KeyP,
	sdl.SCANCODE_EQUALS:   input.KeyPlus,
	sdl.SCANCODE_KP_PLUS:  input.KeyPlus,
	sdl.SCANCODE_MINUS:    input.KeyMinus,
	sdl.SCANCODE_KP_MINUS: input.KeyMinus,
}

var buttons = map[uint8]input.Button{
	sdl.BUTTON_LEFT:   input.ButtonLeft,
	sdl.BUTTON_MIDDLE: input.ButtonMiddle,
	sdl.BUTTON_RIGHT:  input.ButtonRight,
}

// PumpEvents drains the SDL event queue into in. It starts a new input
// frame, so call it exactly once per frame.
func (w *Window) PumpEvents(in *input.State) Events {
	var ev Events
	in.BeginFrame()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			ev.Quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				ev.Resized = true
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			if k, ok := scancodes[e.Keysym.Scancode]; ok {
				in.SetKey(k, e.State == sdl.PRESSED)
			}

		case *sdl.MouseMotionEvent:
			in.SetMousePosition(int(e.X), int(e.Y))

		case *sdl.MouseButtonEvent:
			in.SetMousePosition(int(e.X), int(e.Y))
			if b, ok := buttons[e.Button]; ok {
				in.SetMouseButton(b, e.State == sdl.PRESSED)
			}

		case *sdl.MouseWheelEvent:
			dy := int(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				dy = -dy
			}
			in.AddWheel(dy)
		}
	}

	return ev
}
