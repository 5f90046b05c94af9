// Package tilemap holds the editable tile grid, per-cell sprite variant
// resolution and raster export.
package tilemap

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/kag-mapper/internal/logger"
	"github.com/Faultbox/kag-mapper/pkg/tiles"
)

// cell is one grid slot. rect is the memoized sprite choice, valid only
// while resolved is set; it belongs to the cell, not the kind, so two
// cells of the same kind can show different variants.
type cell struct {
	kind     *tiles.Kind
	rect     tiles.Rect
	resolved bool
}

// Grid is a fixed-size, row-major map of tile kinds.
//
// Grid is not safe for concurrent use; the memoized rects assume the
// single-threaded frame loop.
type Grid struct {
	width    int
	height   int
	cells    []cell
	catalog  *tiles.Catalog
	resolver *Resolver
	dirty    bool
}

// New creates a width x height grid filled with the kind named empty.
func New(catalog *tiles.Catalog, width, height int, empty string, resolver *Resolver) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions: %dx%d", width, height)
	}
	emptyKind, err := catalog.Lookup(empty)
	if err != nil {
		return nil, fmt.Errorf("empty tile: %w", err)
	}

	g := &Grid{
		width:    width,
		height:   height,
		cells:    make([]cell, width*height),
		catalog:  catalog,
		resolver: resolver,
	}
	g.Fill(emptyKind)
	g.dirty = false
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) is a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// Fill sets every cell to kind and forgets all resolved rects.
func (g *Grid) Fill(kind *tiles.Kind) {
	for i := range g.cells {
		g.cells[i] = cell{kind: kind}
	}
	g.dirty = true
}

// SetTile places the kind named name at (x, y). Out-of-bounds positions
// are ignored. An unknown name returns tiles.ErrNotFound and leaves the
// grid untouched.
func (g *Grid) SetTile(x, y int, name string) error {
	if !g.InBounds(x, y) {
		logger.Debug("set tile out of bounds",
			zap.Int("x", x),
			zap.Int("y", y),
			zap.String("tile", name),
		)
		return nil
	}
	kind, err := g.catalog.Lookup(name)
	if err != nil {
		return err
	}
	g.SetKind(x, y, kind)
	return nil
}

// SetKind places kind at (x, y), always overwriting and invalidating the
// cell's resolved rect. Out-of-bounds positions are ignored.
func (g *Grid) SetKind(x, y int, kind *tiles.Kind) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y*g.width+x] = cell{kind: kind}
	g.dirty = true
}

// KindAt returns the kind at (x, y), or nil if out of bounds.
func (g *Grid) KindAt(x, y int) *tiles.Kind {
	if !g.InBounds(x, y) {
		return nil
	}
	return g.cells[y*g.width+x].kind
}

// RectAt returns the sprite rect shown at (x, y), resolving it on first
// use. The result is frozen until the cell's kind changes.
func (g *Grid) RectAt(x, y int) (tiles.Rect, bool) {
	if !g.InBounds(x, y) {
		return tiles.Rect{}, false
	}
	c := &g.cells[y*g.width+x]
	if c.resolved {
		return c.rect, true
	}

	rect, ok := g.resolver.Pick(c.kind, x, y, g)
	if !ok {
		return tiles.Rect{}, false
	}
	c.rect = rect
	c.resolved = true
	return rect, true
}

// Dirty reports whether the grid changed since the last MarkClean.
func (g *Grid) Dirty() bool { return g.dirty }

// MarkClean clears the modification flag, e.g. after a successful save.
func (g *Grid) MarkClean() { g.dirty = false }

// CountByKind returns the number of cells holding each kind name.
func (g *Grid) CountByKind() map[string]int {
	counts := make(map[string]int)
	for _, c := range g.cells {
		counts[c.kind.Name]++
	}
	return counts
}
