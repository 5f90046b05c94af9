package debug

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/Faultbox/kag-mapper/internal/engine/camera"
)

// DefaultGridColor is a translucent grey that reads on both sky and dirt.
var DefaultGridColor = color.NRGBA{R: 128, G: 128, B: 128, A: 96}

// TileGridRenderer draws cell borders over the map so painted cells can
// be lined up by eye.
type TileGridRenderer struct {
	width, height int
	color         color.Color
}

// NewTileGridRenderer creates an overlay for a width x height grid.
func NewTileGridRenderer(width, height int) *TileGridRenderer {
	return &TileGridRenderer{
		width:  width,
		height: height,
		color:  DefaultGridColor,
	}
}

// SetColor changes the line color.
func (t *TileGridRenderer) SetColor(c color.Color) {
	t.color = c
}

// Draw draws one-pixel lines on every cell boundary inside the visible
// part of the grid.
func (t *TileGridRenderer) Draw(dst draw.Image, cam *camera.Camera) {
	b := dst.Bounds()
	minX, minY, maxX, maxY := cam.VisibleRange(b.Dx(), b.Dy(), t.width, t.height)
	if minX >= maxX || minY >= maxY {
		return
	}

	size := cam.TileSize
	left := minX*size + cam.OffsetX
	right := maxX*size + cam.OffsetX
	top := minY*size + cam.OffsetY
	bottom := maxY*size + cam.OffsetY

	src := image.NewUniform(t.color)

	// Vertical lines
	for x := minX; x <= maxX; x++ {
		px := x*size + cam.OffsetX
		line := image.Rect(px, top, px+1, bottom).Intersect(b)
		draw.Draw(dst, line, src, image.Point{}, draw.Over)
	}

	// Horizontal lines
	for y := minY; y <= maxY; y++ {
		py := y*size + cam.OffsetY
		line := image.Rect(left, py, right, py+1).Intersect(b)
		draw.Draw(dst, line, src, image.Point{}, draw.Over)
	}
}
