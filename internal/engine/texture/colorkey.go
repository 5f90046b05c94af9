package texture

import "image"

// IsMagentaKey reports whether a color is the magenta transparency key.
// The tolerance absorbs rounding from lossy re-saves of old sheets.
func IsMagentaKey(r, g, b uint8) bool {
	return r >= 250 && g <= 10 && b >= 250
}

// ApplyMagentaKey makes magenta pixels of img transparent black in place.
// It reports how many pixels were keyed out.
func ApplyMagentaKey(img *image.RGBA) int {
	keyed := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			px := img.Pix[i : i+4 : i+4]
			if IsMagentaKey(px[0], px[1], px[2]) {
				px[0], px[1], px[2], px[3] = 0, 0, 0, 0
				keyed++
			}
		}
	}
	return keyed
}
