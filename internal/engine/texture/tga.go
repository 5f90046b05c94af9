// Package texture decodes sprite sheet formats the standard decoders do
// not cover and applies color-key transparency.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrTGA is returned for TGA data that cannot be decoded.
var ErrTGA = errors.New("invalid TGA")

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

// DecodeTGA decodes uncompressed or RLE compressed true-color TGA data
// at 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("%w: header too short", ErrTGA)
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := int(data[2])
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	// Bit 5 of the descriptor: rows stored top to bottom
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped images not supported", ErrTGA)
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("%w: unsupported type %d", ErrTGA, imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrTGA, bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: truncated", ErrTGA)
	}

	d := tgaDecoder{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		data:        data[offset:],
		bytesPP:     bpp / 8,
		width:       width,
		height:      height,
		topToBottom: topToBottom,
	}

	var err error
	if imageType == TGATypeUncompressed {
		err = d.raw()
	} else {
		err = d.rle()
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	img           *image.RGBA
	data          []byte
	pos           int
	bytesPP       int
	width, height int
	topToBottom   bool
}

// next reads one BGR(A) pixel.
func (d *tgaDecoder) next() (color.RGBA, bool) {
	if d.pos+d.bytesPP > len(d.data) {
		return color.RGBA{}, false
	}
	p := d.data[d.pos : d.pos+d.bytesPP]
	d.pos += d.bytesPP

	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if d.bytesPP == 4 {
		c.A = p[3]
	}
	return c, true
}

// set writes the i-th pixel in file order.
func (d *tgaDecoder) set(i int, c color.RGBA) {
	x, y := i%d.width, i/d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	d.img.SetRGBA(x, y, c)
}

func (d *tgaDecoder) raw() error {
	n := d.width * d.height
	for i := 0; i < n; i++ {
		c, ok := d.next()
		if !ok {
			return fmt.Errorf("%w: pixel data truncated", ErrTGA)
		}
		d.set(i, c)
	}
	return nil
}

// rle decodes run-length packets. A short stream leaves the remaining
// pixels transparent, matching what common editors do with such files.
func (d *tgaDecoder) rle() error {
	n := d.width * d.height
	i := 0
	for i < n && d.pos < len(d.data) {
		packet := d.data[d.pos]
		d.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			c, ok := d.next()
			if !ok {
				return nil
			}
			for ; count > 0 && i < n; count-- {
				d.set(i, c)
				i++
			}
			continue
		}

		for ; count > 0 && i < n; count-- {
			c, ok := d.next()
			if !ok {
				return nil
			}
			d.set(i, c)
			i++
		}
	}
	return nil
}
