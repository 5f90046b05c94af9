package editor

// Mode is the editor's top-level screen.
type Mode int

// Editor modes.
const (
	ModeMenu Mode = iota
	ModeMapping
	ModeHelp
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeMenu:
		return "Menu"
	case ModeMapping:
		return "Mapping"
	case ModeHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// HelpText describes the controls.
const HelpText = `Controls:
    - F1: Opens the help menu
    - F2: Enters mapping mode
    - ESC: Goes to the menu

While being in mapping mode:
    - Left mouse: Places the selected tile, you can hold it down and use it as a brush.
    - W A S D: Move the camera
    - Mouse wheel or + -: Zoom
    - K: To save the map
    - G: Toggle the cell grid
    - P: Save a screenshot of the view`

// helpLine is HelpText squeezed onto one line for the window title.
const helpLine = "F1 help | F2 map | Esc menu | LMB paint | WASD move | wheel zoom | K save | G grid | P screenshot"
