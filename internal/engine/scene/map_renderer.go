// Package scene draws the tile map onto a software frame.
package scene

import (
	"image"
	"image/color"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/Faultbox/kag-mapper/internal/engine/camera"
	"github.com/Faultbox/kag-mapper/internal/engine/sprite"
	"github.com/Faultbox/kag-mapper/internal/logger"
	"github.com/Faultbox/kag-mapper/internal/tilemap"
	"github.com/Faultbox/kag-mapper/pkg/tiles"
)

// SheetSource resolves sprite sheet ids to sheets.
type SheetSource interface {
	Sheet(id string) (*sprite.Sheet, error)
}

// Background is an image drawn behind the map at a fixed scale,
// independent of the camera.
type Background struct {
	Sheet  string
	Scale  int
	Offset image.Point
}

// FrameStats counts the work done for the last frame.
type FrameStats struct {
	Drawn   int // cells blitted
	Skipped int // invisible, sheetless or unresolvable cells
}

// MapRenderer blits grid cells from their sprite sheets.
//
// Sheet scale is shared state keyed by sheet identity: it is brought in
// line with the camera once per frame for each sheet the frame touches.
type MapRenderer struct {
	sheets     SheetSource
	clearColor color.RGBA
	background *Background
	bgSheet    *sprite.Sheet
	bgImage    *image.RGBA

	scale   int
	synced  map[*sprite.Sheet]bool
	missing map[string]bool
	stats   FrameStats
}

// NewMapRenderer creates a renderer loading sheets from src.
func NewMapRenderer(src SheetSource) *MapRenderer {
	return &MapRenderer{
		sheets:     src,
		clearColor: color.RGBA{A: 0xFF},
		scale:      1,
		synced:     make(map[*sprite.Sheet]bool),
		missing:    make(map[string]bool),
	}
}

// SetClearColor sets the color the frame is cleared to.
func (r *MapRenderer) SetClearColor(c tiles.RGB) {
	r.clearColor = color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// SetBackground sets the backdrop drawn before the map; nil disables it.
func (r *MapRenderer) SetBackground(bg *Background) {
	r.background = bg
	r.bgSheet, r.bgImage = nil, nil
}

// Forget drops what the renderer remembers about sheet id, so a sheet
// that failed to load is tried again on the next frame.
func (r *MapRenderer) Forget(id string) {
	delete(r.missing, id)
}

// Stats returns the counters of the last frame.
func (r *MapRenderer) Stats() FrameStats {
	return r.stats
}

// BeginFrame starts a frame at the given on-screen tile size.
func (r *MapRenderer) BeginFrame(tileSize int) {
	r.scale = tileSize / tiles.NativeTileUnit
	if r.scale < 1 {
		r.scale = 1
	}
	clear(r.synced)
	r.stats = FrameStats{}
}

// Clear fills dst with the clear color and draws the background.
//
// The background keeps its own scaled copy so it never changes the
// scale of a sheet the map also draws from.
func (r *MapRenderer) Clear(dst draw.Image) {
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: r.clearColor}, image.Point{}, draw.Src)

	if r.background == nil {
		return
	}
	s := r.sheet(r.background.Sheet)
	if s == nil {
		return
	}
	if s != r.bgSheet {
		r.bgSheet = s
		r.bgImage = s.Scaled(r.background.Scale)
	}
	rect := r.bgImage.Bounds().Add(r.background.Offset)
	draw.Draw(dst, rect, r.bgImage, image.Point{}, draw.Over)
}

// DrawGrid draws every visible cell of g as seen through cam.
func (r *MapRenderer) DrawGrid(dst draw.Image, g *tilemap.Grid, cam *camera.Camera) {
	b := dst.Bounds()
	minX, minY, maxX, maxY := cam.VisibleRange(b.Dx(), b.Dy(), g.Width(), g.Height())

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			kind := g.KindAt(x, y)
			if !kind.Visible || !kind.HasSprite() {
				r.stats.Skipped++
				continue
			}
			rect, ok := g.RectAt(x, y)
			if !ok {
				r.stats.Skipped++
				continue
			}
			px, py := cam.CellOrigin(x, y, rect.W, rect.H)
			r.DrawCell(dst, kind, rect, image.Pt(px+b.Min.X, py+b.Min.Y))
		}
	}
}

// DrawCell blits rect of kind's sheet, scaled by the sheet's current
// factor, with its top-left corner at pos. Invisible kinds are skipped.
func (r *MapRenderer) DrawCell(dst draw.Image, kind *tiles.Kind, rect tiles.Rect, pos image.Point) {
	if !kind.Visible || !kind.HasSprite() {
		r.stats.Skipped++
		return
	}
	s := r.sheet(kind.SpriteSheet)
	if s == nil {
		r.stats.Skipped++
		return
	}
	if !r.synced[s] {
		s.SetScale(r.scale)
		r.synced[s] = true
	}

	src := rect.Scale(s.Scale())
	target := image.Rect(pos.X, pos.Y, pos.X+src.W, pos.Y+src.H)
	draw.Draw(dst, target, s.Image(), image.Pt(src.X, src.Y), draw.Over)
	r.stats.Drawn++
}

// sheet returns the sheet for id, or nil if it cannot be loaded. Load
// failures are logged once per id.
func (r *MapRenderer) sheet(id string) *sprite.Sheet {
	if r.missing[id] {
		return nil
	}
	s, err := r.sheets.Sheet(id)
	if err != nil {
		r.missing[id] = true
		logger.Warn("sprite sheet unavailable, skipping", zap.String("sheet", id), zap.Error(err))
		return nil
	}
	return s
}
