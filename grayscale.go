package colorize

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/esimov/colorize/utils"
)

// FitSize scales the (w, h) dimension down to the (maxW, maxH) bounding box
// preserving the aspect ratio. The width is clamped first, then the height
// of the result, which is not the same as fitting both constraints at once.
func FitSize(w, h, maxW, maxH float64) (float64, float64) {
	if w > maxW {
		h = (maxW * h) / w
		w = maxW
	}
	if h > maxH {
		w = (maxH * w) / h
		h = maxH
	}
	return w, h
}

// Grayscale converts the image to grayscale mode by replacing the red, green
// and blue channels with their unweighted mean. The alpha channel is kept.
func Grayscale(src image.Image) *image.NRGBA {
	return imaging.AdjustFunc(src, func(c color.NRGBA) color.NRGBA {
		// (r+g+b)/3 has no halfway fractions, so adding one before the
		// integer division rounds to the nearest value.
		avg := uint8((uint16(c.R) + uint16(c.G) + uint16(c.B) + 1) / 3)
		return color.NRGBA{R: avg, G: avg, B: avg, A: c.A}
	})
}

// render resamples the image into a surface of the given scaled size and
// converts it to grayscale. Fractional sizes are truncated like a canvas
// does, with a minimum of one pixel on each axis.
func render(img image.Image, w, h float64) *image.NRGBA {
	dx := utils.Max(int(w), 1)
	dy := utils.Max(int(h), 1)

	return Grayscale(imaging.Resize(img, dx, dy, imaging.Linear))
}
