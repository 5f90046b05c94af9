package editor

import (
	"errors"
	"image"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/kag-mapper/internal/engine/camera"
	"github.com/Faultbox/kag-mapper/internal/engine/debug"
	"github.com/Faultbox/kag-mapper/internal/engine/input"
	"github.com/Faultbox/kag-mapper/internal/engine/scene"
	"github.com/Faultbox/kag-mapper/internal/engine/sprite"
	"github.com/Faultbox/kag-mapper/internal/tilemap"
	"github.com/Faultbox/kag-mapper/pkg/tiles"
)

const editorCatalog = `[
  {"name": "Sky", "color": "#A5BDC8", "visible": false},
  {"name": "Dirt", "color": "#844715", "spriteSheet": "world", "coords": [[0, 0, 8, 8]]}
]`

type sheetMap map[string]*sprite.Sheet

func (m sheetMap) Sheet(id string) (*sprite.Sheet, error) {
	if s, ok := m[id]; ok {
		return s, nil
	}
	return nil, errors.New("no such sheet")
}

type recordingNotifier struct {
	answer   bool
	infos    []string
	errors   []string
	confirms int
}

func (n *recordingNotifier) Info(title, msg string) {
	n.infos = append(n.infos, msg)
}

func (n *recordingNotifier) Error(title, msg string) {
	n.errors = append(n.errors, msg)
}

func (n *recordingNotifier) Confirm(title, msg string) bool {
	n.confirms++
	return n.answer
}

type fixture struct {
	ed       *Editor
	in       *input.State
	notifier *recordingNotifier
	sheet    *sprite.Sheet
	outDir   string
	shotDir  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c, err := tiles.Load(strings.NewReader(editorCatalog))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	g, err := tilemap.New(c, 8, 4, "Sky", tilemap.NewResolver(rand.NewPCG(3, 4)))
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	sheet := sprite.NewSheet("world", img)
	outDir := filepath.Join(t.TempDir(), "maps")
	shotDir := filepath.Join(t.TempDir(), "screenshots")
	n := &recordingNotifier{}

	ed, err := New(Config{
		Grid:         g,
		Camera:       camera.New(),
		Renderer:     scene.NewMapRenderer(sheetMap{"world": sheet}),
		Exporter:     &tilemap.Exporter{Dir: outDir, Name: "map.png"},
		Notifier:     n,
		Screenshots:  debug.NewScreenshotCapture(shotDir, "kagmapper"),
		SelectedTile: "Dirt",
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return &fixture{ed: ed, in: input.New(), notifier: n, sheet: sheet, outDir: outDir, shotDir: shotDir}
}

// press runs two frames: k down, then k up.
func (f *fixture) press(k input.Key) {
	f.in.BeginFrame()
	f.in.SetKey(k, true)
	f.ed.Update(f.in)
	f.in.BeginFrame()
	f.in.SetKey(k, false)
	f.ed.Update(f.in)
}

// frame runs one frame with the given mouse state.
func (f *fixture) frame(x, y int, down bool) {
	f.in.BeginFrame()
	f.in.SetMousePosition(x, y)
	f.in.SetMouseButton(input.ButtonLeft, down)
	f.ed.Update(f.in)
}

func (f *fixture) kind(x, y int) string {
	k := f.ed.Grid().KindAt(x, y)
	if k == nil {
		return ""
	}
	return k.Name
}

func TestNew_RequiresCollaborators(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error for empty config")
	}
}

func TestModeTransitions(t *testing.T) {
	f := newFixture(t)
	if f.ed.Mode() != ModeMenu {
		t.Fatalf("expected Menu at start, got %s", f.ed.Mode())
	}

	steps := []struct {
		key  input.Key
		want Mode
	}{
		{input.KeyF2, ModeMapping},
		{input.KeyF1, ModeHelp},
		{input.KeyF1, ModeMapping},
		{input.KeyEscape, ModeMenu},
		{input.KeyF1, ModeHelp},
		{input.KeyF2, ModeMapping},
		{input.KeyF1, ModeHelp},
		{input.KeyEscape, ModeMenu},
		{input.KeyEscape, ModeMenu},
	}
	for i, s := range steps {
		f.press(s.key)
		if f.ed.Mode() != s.want {
			t.Fatalf("step %d (%s): expected %s, got %s", i, s.key, s.want, f.ed.Mode())
		}
	}
}

func TestHelpReturnsToMenu(t *testing.T) {
	f := newFixture(t)
	f.press(input.KeyF1)
	if f.ed.Mode() != ModeHelp {
		t.Fatalf("expected Help, got %s", f.ed.Mode())
	}
	f.press(input.KeyF1)
	if f.ed.Mode() != ModeMenu {
		t.Errorf("expected F1 in Help to return to Menu, got %s", f.ed.Mode())
	}
}

func TestPaint_OnlyInMapping(t *testing.T) {
	f := newFixture(t)
	f.frame(40, 10, true)
	if got := f.kind(1, 0); got != "Sky" {
		t.Errorf("painting in Menu: expected Sky, got %s", got)
	}
	if f.ed.Grid().Dirty() {
		t.Error("grid should not be dirty")
	}
}

func TestPaint_DragDeduplicates(t *testing.T) {
	f := newFixture(t)
	f.press(input.KeyF2)
	g := f.ed.Grid()

	// Tile size 32, no offset: (40, 10) is cell (1, 0)
	f.frame(40, 10, true)
	if got := f.kind(1, 0); got != "Dirt" {
		t.Fatalf("expected Dirt at (1,0), got %s", got)
	}

	g.MarkClean()
	f.frame(50, 20, true)
	if g.Dirty() {
		t.Error("holding the brush on the same cell should not write again")
	}

	f.frame(70, 20, true)
	if !g.Dirty() {
		t.Error("moving to a new cell should write")
	}
	if got := f.kind(2, 0); got != "Dirt" {
		t.Errorf("expected Dirt at (2,0), got %s", got)
	}

	f.frame(70, 20, false)
	g.MarkClean()
	f.frame(70, 20, true)
	if !g.Dirty() {
		t.Error("a new drag should write even on the last cell")
	}
}

func TestPaint_OutOfBounds(t *testing.T) {
	f := newFixture(t)
	f.press(input.KeyF2)

	f.frame(-5, 10, true)
	f.frame(32*8+1, 10, true)
	f.frame(10, 32*4+1, true)
	if f.ed.Grid().Dirty() {
		t.Error("out-of-bounds clicks should not modify the grid")
	}
}

func TestPaint_UnknownTile(t *testing.T) {
	f := newFixture(t)
	f.ed.SetSelectedTile("Lava")
	f.press(input.KeyF2)

	f.frame(10, 10, true)
	f.frame(40, 10, true)
	if f.ed.Grid().Dirty() {
		t.Error("unknown tile should not modify the grid")
	}
	if got := f.kind(0, 0); got != "Sky" {
		t.Errorf("expected Sky, got %s", got)
	}
}

func TestPan(t *testing.T) {
	tests := []struct {
		key    input.Key
		dx, dy int
	}{
		{input.KeyA, 8, 0},
		{input.KeyD, -8, 0},
		{input.KeyW, 0, 8},
		{input.KeyS, 0, -8},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			f := newFixture(t)
			f.press(input.KeyF2)
			cam := f.ed.Camera()

			f.in.BeginFrame()
			f.in.SetKey(tt.key, true)
			f.ed.Update(f.in)

			if cam.OffsetX != tt.dx || cam.OffsetY != tt.dy {
				t.Errorf("expected offset (%d,%d), got (%d,%d)", tt.dx, tt.dy, cam.OffsetX, cam.OffsetY)
			}
		})
	}
}

func TestPan_IgnoredOutsideMapping(t *testing.T) {
	f := newFixture(t)
	f.in.BeginFrame()
	f.in.SetKey(input.KeyD, true)
	f.ed.Update(f.in)

	if f.ed.Camera().OffsetX != 0 {
		t.Errorf("expected no pan in Menu, got %d", f.ed.Camera().OffsetX)
	}
}

func TestWheelZoom(t *testing.T) {
	f := newFixture(t)
	f.press(input.KeyF2)
	cam := f.ed.Camera()

	f.in.BeginFrame()
	f.in.AddWheel(2)
	f.ed.Update(f.in)
	if cam.TileSize != 48 {
		t.Errorf("expected 48 after two notches in, got %d", cam.TileSize)
	}

	f.in.BeginFrame()
	f.in.AddWheel(-5)
	f.ed.Update(f.in)
	if cam.TileSize != 16 {
		t.Errorf("expected zoom clamped at 16, got %d", cam.TileSize)
	}

	f.press(input.KeyPlus)
	if cam.TileSize != 24 {
		t.Errorf("expected 24 after +, got %d", cam.TileSize)
	}
}

func TestSaveKey(t *testing.T) {
	f := newFixture(t)
	f.press(input.KeyF2)
	f.frame(10, 10, true)
	f.frame(10, 10, false)

	f.press(input.KeyK)

	if _, err := os.Stat(filepath.Join(f.outDir, "map.png")); err != nil {
		t.Fatalf("expected map file: %v", err)
	}
	if f.ed.Grid().Dirty() {
		t.Error("grid should be clean after save")
	}
	if len(f.notifier.errors) != 0 {
		t.Errorf("unexpected errors: %v", f.notifier.errors)
	}
}

func TestSaveFailureNotifies(t *testing.T) {
	f := newFixture(t)

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	f.ed.exporter.Dir = filepath.Join(blocker, "maps")
	f.ed.Grid().SetTile(0, 0, "Dirt")

	err := f.ed.Save()
	if !errors.Is(err, tilemap.ErrWrite) {
		t.Fatalf("expected ErrWrite, got %v", err)
	}
	if len(f.notifier.errors) != 1 {
		t.Errorf("expected one error notification, got %d", len(f.notifier.errors))
	}
	if !f.ed.Grid().Dirty() {
		t.Error("failed save should leave the grid dirty")
	}
}

func TestEscapeWithUnsavedChanges(t *testing.T) {
	tests := []struct {
		name     string
		answer   bool
		wantFile bool
	}{
		{"save", true, true},
		{"discard", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.notifier.answer = tt.answer
			f.press(input.KeyF2)
			f.frame(10, 10, true)
			f.frame(10, 10, false)

			f.press(input.KeyEscape)

			if f.ed.Mode() != ModeMenu {
				t.Errorf("expected Menu, got %s", f.ed.Mode())
			}
			if f.notifier.confirms != 1 {
				t.Errorf("expected one confirmation, got %d", f.notifier.confirms)
			}
			_, err := os.Stat(filepath.Join(f.outDir, "map.png"))
			if got := err == nil; got != tt.wantFile {
				t.Errorf("map file exists = %v, want %v", got, tt.wantFile)
			}
		})
	}
}

func TestEscapeWhenClean(t *testing.T) {
	f := newFixture(t)
	f.press(input.KeyF2)
	f.press(input.KeyEscape)

	if f.notifier.confirms != 0 {
		t.Errorf("expected no confirmation, got %d", f.notifier.confirms)
	}
}

func TestRender_MapOnlyInMapping(t *testing.T) {
	f := newFixture(t)
	f.ed.Grid().SetTile(0, 0, "Dirt")
	frame := image.NewRGBA(image.Rect(0, 0, 64, 64))

	f.ed.Render(frame)
	if f.sheet.Rescales() != 0 {
		t.Errorf("menu should not draw tiles, got %d rescales", f.sheet.Rescales())
	}

	f.press(input.KeyF2)
	f.ed.Render(frame)
	if f.sheet.Rescales() != 1 {
		t.Errorf("expected one rescale after drawing the map, got %d", f.sheet.Rescales())
	}
}

func TestStatus(t *testing.T) {
	f := newFixture(t)

	if s := f.ed.Status(60); !strings.Contains(s, "Menu") || !strings.Contains(s, Version) {
		t.Errorf("unexpected menu status %q", s)
	}

	f.press(input.KeyF2)
	f.frame(5, 5, true)
	f.frame(40, 5, true)
	f.frame(40, 5, false)
	f.ed.Render(image.NewRGBA(image.Rect(0, 0, 256, 128)))
	s := f.ed.Status(59.5)
	for _, want := range []string{"Mapping", "Tile: Dirt (2 placed)", "Zoom: 32px", "Drawn: 2", "FPS: 59.50"} {
		if !strings.Contains(s, want) {
			t.Errorf("status %q missing %q", s, want)
		}
	}

	f.press(input.KeyF1)
	if s := f.ed.Status(60); !strings.Contains(s, "F2 map") {
		t.Errorf("help status should carry the controls, got %q", s)
	}
}

func TestGridOverlayToggle(t *testing.T) {
	f := newFixture(t)
	f.press(input.KeyG)
	if f.ed.GridVisible() {
		t.Error("G should do nothing outside Mapping")
	}

	f.press(input.KeyF2)
	f.press(input.KeyG)
	if !f.ed.GridVisible() {
		t.Fatal("expected grid overlay after G")
	}

	// Empty map, so only the overlay can touch the cell border.
	frame := image.NewRGBA(image.Rect(0, 0, 64, 64))
	f.ed.Render(frame)
	plain := image.NewRGBA(image.Rect(0, 0, 64, 64))
	f.press(input.KeyG)
	f.ed.Render(plain)

	if frame.RGBAAt(32, 5) == plain.RGBAAt(32, 5) {
		t.Error("expected overlay line at x=32")
	}
	if frame.RGBAAt(5, 5) != plain.RGBAAt(5, 5) {
		t.Error("overlay should not touch cell interiors")
	}
}

func TestScreenshotKey(t *testing.T) {
	f := newFixture(t)
	f.press(input.KeyF2)
	f.press(input.KeyP)

	frame := image.NewRGBA(image.Rect(0, 0, 32, 32))
	f.ed.Render(frame)

	entries, err := os.ReadDir(f.shotDir)
	if err != nil {
		t.Fatalf("read screenshot dir: %v", err)
	}
	if len(entries) != 1 || !strings.HasPrefix(entries[0].Name(), "kagmapper_") {
		t.Fatalf("expected one screenshot, got %v", entries)
	}

	// The request is consumed by the first Render.
	f.ed.Render(frame)
	entries, _ = os.ReadDir(f.shotDir)
	if len(entries) != 1 {
		t.Errorf("expected still one screenshot, got %d", len(entries))
	}
}

func TestHelpShowsControls(t *testing.T) {
	f := newFixture(t)

	f.press(input.KeyF1)
	if len(f.notifier.infos) != 1 || f.notifier.infos[0] != HelpText {
		t.Fatalf("expected the controls to be shown once, got %q", f.notifier.infos)
	}

	f.press(input.KeyF1)
	f.press(input.KeyF2)
	f.press(input.KeyF1)
	if len(f.notifier.infos) != 2 {
		t.Errorf("expected help from Mapping to show the controls again, got %d", len(f.notifier.infos))
	}
}

func TestBrushStrokeEndsOnRelease(t *testing.T) {
	f := newFixture(t)
	f.press(input.KeyF2)

	f.frame(5, 5, true)
	f.frame(40, 5, true)
	f.frame(40, 5, true)
	f.frame(72, 5, true)
	if f.ed.stroke != 3 {
		t.Errorf("expected 3 cells in the stroke, got %d", f.ed.stroke)
	}

	f.frame(72, 5, false)
	if f.ed.stroke != 0 || f.ed.painting {
		t.Errorf("expected the stroke to end on release, got %d cells painting=%v", f.ed.stroke, f.ed.painting)
	}
}

func TestSheetChanged_RetriesMissingSheet(t *testing.T) {
	f := newFixture(t)
	sheets := sheetMap{}
	f.ed.renderer = scene.NewMapRenderer(sheets)
	f.press(input.KeyF2)
	f.frame(5, 5, true)

	frame := image.NewRGBA(image.Rect(0, 0, 256, 128))
	f.ed.Render(frame)
	if f.ed.renderer.Stats().Drawn != 0 {
		t.Fatal("expected nothing drawn without the sheet")
	}

	sheets["world"] = f.sheet
	f.ed.SheetChanged("world")
	f.ed.Render(frame)
	if f.ed.renderer.Stats().Drawn != 1 {
		t.Errorf("expected the new sheet to be drawn, got %d cells", f.ed.renderer.Stats().Drawn)
	}
}
