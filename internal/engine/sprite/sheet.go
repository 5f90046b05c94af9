// Package sprite holds scalable sprite sheets.
package sprite

import (
	"image"

	"golang.org/x/image/draw"
)

// Sheet is a sprite sheet with a cached copy scaled by an integer factor.
type Sheet struct {
	id       string
	source   *image.RGBA
	scale    int
	scaled   *image.RGBA
	rescales int
}

// NewSheet wraps img as a sheet at scale 1.
func NewSheet(id string, img image.Image) *Sheet {
	src := toRGBA(img)
	return &Sheet{
		id:     id,
		source: src,
		scale:  1,
		scaled: src,
	}
}

// ID returns the sheet identifier, e.g. "world".
func (s *Sheet) ID() string { return s.id }

// Size returns the unscaled sheet dimensions.
func (s *Sheet) Size() (int, int) {
	b := s.source.Bounds()
	return b.Dx(), b.Dy()
}

// Scale returns the current scale factor.
func (s *Sheet) Scale() int { return s.scale }

// Image returns the sheet scaled by Scale().
func (s *Sheet) Image() *image.RGBA { return s.scaled }

// Rescales returns how many times the scaled copy was rebuilt.
func (s *Sheet) Rescales() int { return s.rescales }

// SetScale rebuilds the scaled copy with nearest-neighbour sampling so
// pixel art stays crisp. It is a no-op when factor is already current.
// Factors below 1 are treated as 1.
func (s *Sheet) SetScale(factor int) {
	if factor < 1 {
		factor = 1
	}
	if factor == s.scale {
		return
	}

	s.rescales++
	s.scale = factor
	if factor == 1 {
		s.scaled = s.source
		return
	}

	s.scaled = scaleNearest(s.source, factor)
}

// Scaled returns a fresh copy of the sheet scaled by factor, leaving the
// shared scaled copy untouched.
func (s *Sheet) Scaled(factor int) *image.RGBA {
	if factor < 1 {
		factor = 1
	}
	return scaleNearest(s.source, factor)
}

func scaleNearest(src *image.RGBA, factor int) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
