// Package camera maps between screen pixels and map grid cells.
package camera

import "github.com/Faultbox/kag-mapper/pkg/tiles"

// Zoom defaults.
const (
	DefaultTileSize    = 32
	DefaultMinTileSize = 16
	DefaultZoomStep    = 8
)

// Camera is the pan offset and zoom level of the map view.
type Camera struct {
	// On-screen pixel size of one tile
	TileSize int

	// Pan offset in screen pixels. Unbounded: the map may scroll fully off-screen.
	OffsetX, OffsetY int

	// Constraints
	MinTileSize int
	ZoomStep    int
}

// New creates a camera with default zoom settings.
func New() *Camera {
	return &Camera{
		TileSize:    DefaultTileSize,
		MinTileSize: DefaultMinTileSize,
		ZoomStep:    DefaultZoomStep,
	}
}

// Zoom grows or shrinks the tile size by one step, never below MinTileSize.
func (c *Camera) Zoom(in bool) {
	if in {
		c.TileSize += c.ZoomStep
	} else {
		c.TileSize -= c.ZoomStep
	}

	if c.TileSize < c.MinTileSize {
		c.TileSize = c.MinTileSize
	}
}

// Pan moves the view by (dx, dy) pixels.
func (c *Camera) Pan(dx, dy int) {
	c.OffsetX += dx
	c.OffsetY += dy
}

// PanStep returns the distance one frame of keyboard panning moves.
func (c *Camera) PanStep() int {
	return c.TileSize / 4
}

// ScaleFactor returns how many screen pixels one sprite sheet pixel covers.
func (c *Camera) ScaleFactor() int {
	f := c.TileSize / tiles.NativeTileUnit
	if f < 1 {
		return 1
	}
	return f
}

// ScreenToGrid returns the cell under a screen position.
func (c *Camera) ScreenToGrid(mouseX, mouseY int) (int, int) {
	return ScreenToGrid(mouseX, mouseY, c.OffsetX, c.OffsetY, c.TileSize)
}

// CellOrigin returns the screen position of a cell's top-left corner for
// a rect of the given size.
func (c *Camera) CellOrigin(gridX, gridY, rectW, rectH int) (int, int) {
	return GridToScreen(gridX, gridY, c.ScaleFactor(), rectW, rectH, c.OffsetX, c.OffsetY)
}

// VisibleRange returns the cells [minX,maxX) x [minY,maxY) of a
// gridW x gridH map that intersect a viewW x viewH viewport.
func (c *Camera) VisibleRange(viewW, viewH, gridW, gridH int) (minX, minY, maxX, maxY int) {
	minX, minY = c.ScreenToGrid(0, 0)
	maxX, maxY = c.ScreenToGrid(viewW-1, viewH-1)
	maxX++
	maxY++

	minX = clamp(minX, 0, gridW)
	minY = clamp(minY, 0, gridH)
	maxX = clamp(maxX, 0, gridW)
	maxY = clamp(maxY, 0, gridH)
	return minX, minY, maxX, maxY
}

// ScreenToGrid converts a screen position to grid coordinates. Division
// floors toward negative infinity so positions left of or above the
// offset map to negative cells instead of collapsing onto cell 0.
func ScreenToGrid(mouseX, mouseY, offsetX, offsetY, tileSize int) (int, int) {
	return floorDiv(mouseX-offsetX, tileSize), floorDiv(mouseY-offsetY, tileSize)
}

// GridToScreen converts grid coordinates to the screen position of the
// cell's top-left corner.
func GridToScreen(gridX, gridY, scale, rectW, rectH, offsetX, offsetY int) (int, int) {
	return scale*rectW*gridX + offsetX, scale*rectH*gridY + offsetY
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
