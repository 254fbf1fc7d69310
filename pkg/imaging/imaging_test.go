package imaging

import (
	"image"
	"image/color"
)

func genImage(w, h int, px func(x, y int) color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, px(x, y))
		}
	}
	return img
}

func flat(w, h int, c color.NRGBA) *image.NRGBA {
	return genImage(w, h, func(int, int) color.NRGBA { return c })
}

// checkerboard is the sharpest possible texture: alternating black/white
// cells.
func checkerboard(w, h, cell int) *image.NRGBA {
	return genImage(w, h, func(x, y int) color.NRGBA {
		if (x/cell+y/cell)%2 == 0 {
			return color.NRGBA{A: 255}
		}
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	})
}

// hgradient ramps a single channel horizontally; it carries almost no
// high-frequency energy.
func hgradient(w, h int, ch int) *image.NRGBA {
	return genImage(w, h, func(x, y int) color.NRGBA {
		v := uint8(x * 255 / (w - 1))
		c := color.NRGBA{A: 255}
		switch ch {
		case 0:
			c.R = v
		case 1:
			c.G = v
		default:
			c.B = v
		}
		return c
	})
}
