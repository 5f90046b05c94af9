// Package input tracks per-frame keyboard and mouse state.
//
// The window layer feeds raw events in; the editor reads held state and
// falling edges out. Nothing here talks to SDL.
package input

// Key identifies a keyboard key.
type Key uint8

// Keys the editor binds.
const (
	KeyUnknown Key = iota
	KeyEscape
	KeyF1
	KeyF2
	KeyW
	KeyA
	KeyS
	KeyD
	KeyK
	KeyG
	KeyP
	KeyPlus
	KeyMinus
	keyCount
)

var keyNames = [keyCount]string{
	KeyUnknown: "Unknown",
	KeyEscape:  "Escape",
	KeyF1:      "F1",
	KeyF2:      "F2",
	KeyW:       "W",
	KeyA:       "A",
	KeyS:       "S",
	KeyD:       "D",
	KeyK:       "K",
	KeyG:       "G",
	KeyP:       "P",
	KeyPlus:    "+",
	KeyMinus:   "-",
}

// String returns the key's display name.
func (k Key) String() string {
	if k < keyCount {
		return keyNames[k]
	}
	return "Unknown"
}

// Button identifies a mouse button.
type Button uint8

// Mouse buttons.
const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
	buttonCount
)

// Provider is the read side of the input state, queried once per frame.
type Provider interface {
	KeyHeld(k Key) bool
	KeyReleased(k Key) bool
	MouseHeld(b Button) bool
	MouseReleased(b Button) bool
	MousePosition() (int, int)
	Wheel() int
}

// State holds the input snapshot for the current and previous frame.
type State struct {
	keys     [keyCount]bool
	prevKeys [keyCount]bool

	buttons     [buttonCount]bool
	prevButtons [buttonCount]bool

	mouseX, mouseY int
	wheel          int
}

// New creates an empty input state.
func New() *State {
	return &State{}
}

// BeginFrame rolls the current state into the previous frame. Call it
// once per frame before feeding that frame's events.
func (s *State) BeginFrame() {
	s.prevKeys = s.keys
	s.prevButtons = s.buttons
	s.wheel = 0
}

// SetKey records a key transition.
func (s *State) SetKey(k Key, down bool) {
	if k < keyCount {
		s.keys[k] = down
	}
}

// SetMouseButton records a mouse button transition.
func (s *State) SetMouseButton(b Button, down bool) {
	if b < buttonCount {
		s.buttons[b] = down
	}
}

// SetMousePosition records the cursor position in window pixels.
func (s *State) SetMousePosition(x, y int) {
	s.mouseX = x
	s.mouseY = y
}

// AddWheel accumulates vertical wheel movement; positive is away from the user.
func (s *State) AddWheel(dy int) {
	s.wheel += dy
}

// KeyHeld reports whether k is down this frame.
func (s *State) KeyHeld(k Key) bool {
	return k < keyCount && s.keys[k]
}

// KeyReleased reports whether k went up this frame.
func (s *State) KeyReleased(k Key) bool {
	return k < keyCount && s.prevKeys[k] && !s.keys[k]
}

// MouseHeld reports whether b is down this frame.
func (s *State) MouseHeld(b Button) bool {
	return b < buttonCount && s.buttons[b]
}

// MouseReleased reports whether b went up this frame.
func (s *State) MouseReleased(b Button) bool {
	return b < buttonCount && s.prevButtons[b] && !s.buttons[b]
}

// MousePosition returns the last known cursor position.
func (s *State) MousePosition() (int, int) {
	return s.mouseX, s.mouseY
}

// Wheel returns the wheel movement accumulated this frame.
func (s *State) Wheel() int {
	return s.wheel
}
