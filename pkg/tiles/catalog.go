package tiles

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is the read-only set of tile kinds loaded at startup.
type Catalog struct {
	kinds  []*Kind
	byName map[string]*Kind
}

// record is one entry of a catalog file. JSON catalogs decode through
// the same path since YAML is a superset of JSON.
type record struct {
	Name        string          `yaml:"name"`
	Color       string          `yaml:"color"`
	SpriteSheet string          `yaml:"spriteSheet"`
	FileName    string          `yaml:"file_name"`
	Coords      [][]int         `yaml:"coords"`
	Visible     *bool           `yaml:"visible"`
	Variants    []variantRecord `yaml:"variants"`
}

type variantRecord struct {
	Above  string  `yaml:"above"`
	Coords [][]int `yaml:"coords"`
}

// Load parses a catalog from r.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var records []record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: catalog has no records", ErrParse)
	}

	c := &Catalog{
		kinds:  make([]*Kind, 0, len(records)),
		byName: make(map[string]*Kind, len(records)),
	}
	for i, rec := range records {
		kind, err := rec.kind()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if _, dup := c.byName[kind.Name]; dup {
			return nil, fmt.Errorf("record %d: %w: duplicate name %q", i, ErrParse, kind.Name)
		}
		c.kinds = append(c.kinds, kind)
		c.byName[kind.Name] = kind
	}

	for _, k := range c.kinds {
		for _, v := range k.Variants {
			if _, ok := c.byName[v.Above]; !ok {
				return nil, fmt.Errorf("kind %q: %w: variant refers to unknown kind %q", k.Name, ErrParse, v.Above)
			}
		}
	}

	return c, nil
}

// LoadFile parses a catalog file from disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func (rec record) kind() (*Kind, error) {
	if rec.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrParse)
	}
	if rec.Color == "" {
		return nil, fmt.Errorf("%w: %q missing color", ErrParse, rec.Name)
	}
	color, err := ParseColor(rec.Color)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", rec.Name, err)
	}

	sheet := rec.SpriteSheet
	if sheet == "" {
		sheet = rec.FileName
	}

	k := &Kind{
		Name:        rec.Name,
		Color:       color,
		SpriteSheet: strings.TrimSuffix(sheet, ".png"),
		Visible:     rec.Visible == nil || *rec.Visible,
	}

	if k.Rects, err = parseCoords(rec.Coords); err != nil {
		return nil, fmt.Errorf("%q: %w", rec.Name, err)
	}
	for _, v := range rec.Variants {
		if v.Above == "" {
			return nil, fmt.Errorf("%w: %q variant missing above", ErrParse, rec.Name)
		}
		rects, err := parseCoords(v.Coords)
		if err != nil {
			return nil, fmt.Errorf("%q variant %q: %w", rec.Name, v.Above, err)
		}
		if len(rects) == 0 {
			return nil, fmt.Errorf("%w: %q variant %q has no coords", ErrParse, rec.Name, v.Above)
		}
		k.Variants = append(k.Variants, Variant{Above: v.Above, Rects: rects})
	}

	if k.Visible && k.HasSprite() && len(k.Rects) == 0 {
		return nil, fmt.Errorf("%w: %q has a sprite sheet but no coords", ErrParse, rec.Name)
	}

	return k, nil
}

func parseCoords(coords [][]int) ([]Rect, error) {
	if len(coords) == 0 {
		return nil, nil
	}
	rects := make([]Rect, 0, len(coords))
	for i, c := range coords {
		if len(c) != 4 {
			return nil, fmt.Errorf("%w: coord %d has %d values, want 4", ErrParse, i, len(c))
		}
		if c[2] <= 0 || c[3] <= 0 {
			return nil, fmt.Errorf("%w: coord %d has empty size %dx%d", ErrParse, i, c[2], c[3])
		}
		rects = append(rects, Rect{X: c[0], Y: c[1], W: c[2], H: c[3]})
	}
	return rects, nil
}

// Lookup returns the kind with the given name.
func (c *Catalog) Lookup(name string) (*Kind, error) {
	k, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return k, nil
}

// Kinds returns all kinds in file order.
func (c *Catalog) Kinds() []*Kind {
	return c.kinds
}

// Len returns the number of kinds.
func (c *Catalog) Len() int {
	return len(c.kinds)
}

// Sheets returns the distinct sprite sheet ids referenced by visible kinds.
func (c *Catalog) Sheets() []string {
	seen := make(map[string]bool)
	var sheets []string
	for _, k := range c.kinds {
		if !k.Visible || !k.HasSprite() || seen[k.SpriteSheet] {
			continue
		}
		seen[k.SpriteSheet] = true
		sheets = append(sheets, k.SpriteSheet)
	}
	return sheets
}
