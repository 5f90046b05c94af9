package tiles

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testCatalogJSON = `[
  {"name": "Sky", "color": "#A5BDC8", "visible": false},
  {"name": "Dirt Background", "color": "#3B1406", "file_name": "world.png",
   "coords": [[0, 0, 8, 8], [8, 0, 8, 8]]},
  {"name": "Dirt", "color": "844715", "spriteSheet": "world",
   "coords": [[112, 8, 8, 8], [120, 8, 8, 8], [128, 8, 8, 8]],
   "variants": [{"above": "Grass", "coords": [[64, 8, 8, 8], [72, 8, 8, 8]]}]},
  {"name": "Grass", "color": "#649B0D", "spriteSheet": "world", "coords": [[32, 8, 8, 8]]}
]`

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    RGB
		wantErr bool
	}{
		{in: "#844715", want: RGB{132, 71, 21}},
		{in: "844715", want: RGB{132, 71, 21}},
		{in: "#a5bdc8", want: RGB{165, 189, 200}},
		{in: "12345", wantErr: true},
		{in: "#1234567", wantErr: true},
		{in: "##844715", wantErr: true},
		{in: "#84471G", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrParse) {
					t.Fatalf("expected ErrParse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRGBHex(t *testing.T) {
	if got := (RGB{132, 71, 21}).Hex(); got != "#844715" {
		t.Errorf("expected #844715, got %s", got)
	}
}

func TestLoad_ValidCatalog(t *testing.T) {
	c, err := Load(strings.NewReader(testCatalogJSON))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if c.Len() != 4 {
		t.Fatalf("expected 4 kinds, got %d", c.Len())
	}
	if c.Kinds()[0].Name != "Sky" {
		t.Errorf("expected file order, first kind is %s", c.Kinds()[0].Name)
	}

	sky, err := c.Lookup("Sky")
	if err != nil {
		t.Fatalf("Lookup(Sky) failed: %v", err)
	}
	if sky.Visible {
		t.Error("expected Sky to be invisible")
	}
	if sky.HasSprite() {
		t.Error("expected Sky to have no sprite sheet")
	}

	bg, _ := c.Lookup("Dirt Background")
	if bg.SpriteSheet != "world" {
		t.Errorf("expected file_name to map to sheet 'world', got %q", bg.SpriteSheet)
	}
	if !bg.Visible {
		t.Error("expected visible to default to true")
	}
	if len(bg.Rects) != 2 || bg.Rects[1] != (Rect{8, 0, 8, 8}) {
		t.Errorf("unexpected rects %v", bg.Rects)
	}

	dirt, _ := c.Lookup("Dirt")
	if dirt.Color != (RGB{132, 71, 21}) {
		t.Errorf("expected dirt color (132,71,21), got %v", dirt.Color)
	}
	if !dirt.ContextSensitive() {
		t.Error("expected Dirt to be context sensitive")
	}

	sheets := c.Sheets()
	if len(sheets) != 1 || sheets[0] != "world" {
		t.Errorf("expected sheets [world], got %v", sheets)
	}
}

func TestLoad_YAML(t *testing.T) {
	src := `
- name: Sky
  color: "#A5BDC8"
  visible: false
- name: Stone
  color: "#808080"
  spriteSheet: world.png
  coords:
    - [0, 16, 8, 8]
`
	c, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	stone, err := c.Lookup("Stone")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if stone.SpriteSheet != "world" {
		t.Errorf("expected .png suffix stripped, got %q", stone.SpriteSheet)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", `[]`},
		{"not a list", `{"name": "Sky"}`},
		{"missing name", `[{"color": "#FFFFFF"}]`},
		{"missing color", `[{"name": "Sky"}]`},
		{"odd hex", `[{"name": "Sky", "color": "12345"}]`},
		{"bad hex", `[{"name": "Sky", "color": "#ZZZZZZ"}]`},
		{"duplicate", `[{"name": "Sky", "color": "#FFFFFF"}, {"name": "Sky", "color": "#000000"}]`},
		{"short coord", `[{"name": "A", "color": "#FFFFFF", "spriteSheet": "w", "coords": [[0, 0, 8]]}]`},
		{"zero size", `[{"name": "A", "color": "#FFFFFF", "spriteSheet": "w", "coords": [[0, 0, 0, 8]]}]`},
		{"sprite without coords", `[{"name": "A", "color": "#FFFFFF", "spriteSheet": "w"}]`},
		{"variant unknown kind", `[{"name": "A", "color": "#FFFFFF", "spriteSheet": "w", "coords": [[0, 0, 8, 8]],
			"variants": [{"above": "B", "coords": [[8, 0, 8, 8]]}]}]`},
		{"variant without coords", `[{"name": "A", "color": "#FFFFFF", "spriteSheet": "w", "coords": [[0, 0, 8, 8]],
			"variants": [{"above": "A"}]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.src))
			if !errors.Is(err, ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}
		})
	}
}

func TestLoad_InvisibleSpriteWithoutCoords(t *testing.T) {
	src := `[{"name": "Ghost", "color": "#FFFFFF", "spriteSheet": "world", "visible": false}]`
	if _, err := Load(strings.NewReader(src)); err != nil {
		t.Errorf("invisible kinds may omit coords, got %v", err)
	}
}

func TestLookup_NotFound(t *testing.T) {
	c, err := Load(strings.NewReader(testCatalogJSON))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	_, err = c.Lookup("Lava")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCandidates(t *testing.T) {
	c, err := Load(strings.NewReader(testCatalogJSON))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	dirt, _ := c.Lookup("Dirt")
	grass, _ := c.Lookup("Grass")
	sky, _ := c.Lookup("Sky")

	transition := []Rect{{64, 8, 8, 8}, {72, 8, 8, 8}}
	plain := []Rect{{112, 8, 8, 8}, {120, 8, 8, 8}, {128, 8, 8, 8}}

	tests := []struct {
		name  string
		above *Kind
		want  []Rect
	}{
		{"under grass", grass, transition},
		{"under sky", sky, plain},
		{"no neighbor", nil, plain},
		{"under dirt", dirt, plain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, dirt.Candidates(tt.above)); diff != "" {
				t.Errorf("Candidates mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_YAMLMatchesJSON(t *testing.T) {
	fromJSON, err := Load(strings.NewReader(testCatalogJSON))
	if err != nil {
		t.Fatalf("Load(JSON) failed: %v", err)
	}

	src := `
- {name: Sky, color: "#A5BDC8", visible: false}
- name: Dirt Background
  color: "#3B1406"
  file_name: world.png
  coords: [[0, 0, 8, 8], [8, 0, 8, 8]]
- name: Dirt
  color: "844715"
  spriteSheet: world
  coords: [[112, 8, 8, 8], [120, 8, 8, 8], [128, 8, 8, 8]]
  variants:
    - above: Grass
      coords: [[64, 8, 8, 8], [72, 8, 8, 8]]
- {name: Grass, color: "#649B0D", spriteSheet: world, coords: [[32, 8, 8, 8]]}
`
	fromYAML, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load(YAML) failed: %v", err)
	}

	if diff := cmp.Diff(fromJSON.Kinds(), fromYAML.Kinds()); diff != "" {
		t.Errorf("YAML and JSON catalogs differ (-json +yaml):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles.json")
	if err := os.WriteFile(path, []byte(testCatalogJSON), 0644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if c.Len() != 4 {
		t.Errorf("expected 4 kinds, got %d", c.Len())
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRectScale(t *testing.T) {
	got := Rect{8, 16, 8, 8}.Scale(4)
	want := Rect{32, 64, 32, 32}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}
