// Package tiles defines tile kinds and the catalog they are loaded from.
package tiles

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Catalog errors.
var (
	ErrParse    = errors.New("malformed tile record")
	ErrNotFound = errors.New("tile kind not found")
)

// NativeTileUnit is the edge length of one tile in sprite sheet pixels.
const NativeTileUnit = 8

// Rect is a sub-region of a sprite sheet in source-pixel units.
type Rect struct {
	X, Y, W, H int
}

// Scale returns the rect with every component multiplied by f.
func (r Rect) Scale(f int) Rect {
	return Rect{X: r.X * f, Y: r.Y * f, W: r.W * f, H: r.H * f}
}

// String returns the rect as "x,y wxh".
func (r Rect) String() string {
	return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.W, r.H)
}

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParseColor decodes a "#RRGGBB" or "RRGGBB" string.
func ParseColor(s string) (RGB, error) {
	digits := strings.TrimPrefix(s, "#")
	if len(digits) != 6 {
		return RGB{}, fmt.Errorf("%w: color %q must have 6 hex digits", ErrParse, s)
	}
	b, err := hex.DecodeString(digits)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: color %q: %v", ErrParse, s, err)
	}
	return RGB{R: b[0], G: b[1], B: b[2]}, nil
}

// Variant is a set of candidate rects used when the tile directly above
// is of kind Above.
type Variant struct {
	Above string
	Rects []Rect
}

// Kind is an immutable tile definition.
type Kind struct {
	Name        string
	Color       RGB
	SpriteSheet string // empty: no sprite, export only
	Rects       []Rect
	Variants    []Variant
	Visible     bool
}

// HasSprite reports whether the kind is drawn from a sprite sheet.
func (k *Kind) HasSprite() bool {
	return k.SpriteSheet != ""
}

// Candidates returns the rects a cell of this kind may show given the
// kind of the cell above it. above may be nil.
func (k *Kind) Candidates(above *Kind) []Rect {
	if above != nil {
		for _, v := range k.Variants {
			if v.Above == above.Name {
				return v.Rects
			}
		}
	}
	return k.Rects
}

// ContextSensitive reports whether the kind's rect depends on its neighbors.
func (k *Kind) ContextSensitive() bool {
	return len(k.Variants) > 0
}
