package colorize

import (
	"github.com/esimov/colorize/imop"
	"github.com/esimov/colorize/utils"
)

// BrushSize returns the side of the square brush for the scaled surface.
func (p *SourcePair) BrushSize(ratio float64) float64 {
	return utils.Min(p.ScaledWidth, p.ScaledHeight) * ratio
}

// BrushRects maps the brush centered on the surface point (x, y) to the
// region of the color source it reveals. The source coordinates are scaled
// independently per axis, while the side of the source square follows the
// horizontal ratio only.
func (p *SourcePair) BrushRects(x, y, ratio float64) (dst, src imop.Rect) {
	brush := p.BrushSize(ratio)

	sx := (x / p.ScaledWidth) * float64(p.Width)
	sy := (y / p.ScaledHeight) * float64(p.Height)
	size := (brush / p.ScaledWidth) * float64(p.Width)

	return imop.Square(x, y, brush), imop.Square(sx, sy, size)
}

// paint copies the color pixels under the brush onto the surface.
// Nothing is drawn until an image is ready.
func (c *Controller) paint(x, y float64) {
	if c.status != Ready || c.pair == nil || c.surface == nil {
		return
	}
	dst, src := c.pair.BrushRects(x, y, c.BrushRatio)
	c.comp.DrawRect(c.surface, dst, c.pair.Color, src)
	c.revision++
}
