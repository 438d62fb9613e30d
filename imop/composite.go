// Package imop implements the raster copy used for revealing the color image
// through the brush. A source rectangle of one bitmap is scaled into a
// destination rectangle of another and mixed in using one of the supported
// Porter-Duff composition operations.
//
// Rectangles have fractional coordinates. Before copying, the source
// rectangle is intersected with the source bounds and the destination
// rectangle is shrunk in the same proportion, then the destination is
// clipped against the destination bitmap. Rectangles which end up empty are
// ignored, so callers never need to bounds check.
package imop

import (
	"fmt"
	"image"
	"math"

	"github.com/esimov/colorize/utils"
)

const (
	Copy    = "copy"
	SrcOver = "src_over"
)

// Rect is an axis aligned rectangle with fractional coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Square returns the square of the given side centered on (cx, cy).
func Square(cx, cy, size float64) Rect {
	return Rect{X: cx - size/2, Y: cy - size/2, W: size, H: size}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return !(r.W > 0 && r.H > 0)
}

// Composite holds the currently active composition operation.
type Composite struct {
	current string
	ops     []string
}

// InitOp initializes a new Composite using the Copy operation.
func InitOp() *Composite {
	return &Composite{
		current: Copy,
		ops: []string{
			Copy,
			SrcOver,
		},
	}
}

// Set activates one of the supported composition operations.
func (op *Composite) Set(cop string) error {
	if !utils.Contains(op.ops, cop) {
		return fmt.Errorf("unsupported composite operation: %q", cop)
	}
	op.current = cop
	return nil
}

// Get returns the currently active composition operation.
func (op *Composite) Get() string {
	return op.current
}

// DrawRect copies the sr region of src into the dr region of dst, scaling it
// with nearest neighbour sampling. A destination pixel is covered when its
// center falls inside the destination rectangle.
func (op *Composite) DrawRect(dst *image.NRGBA, dr Rect, src *image.NRGBA, sr Rect) {
	if dr.Empty() || sr.Empty() {
		return
	}
	sr, dr = clipSource(sr, dr, src.Bounds())
	if sr.Empty() || dr.Empty() {
		return
	}

	db := dst.Bounds()
	x0 := utils.Max(int(math.Ceil(dr.X-0.5)), db.Min.X)
	y0 := utils.Max(int(math.Ceil(dr.Y-0.5)), db.Min.Y)
	x1 := utils.Min(int(math.Ceil(dr.X+dr.W-0.5)), db.Max.X)
	y1 := utils.Min(int(math.Ceil(dr.Y+dr.H-0.5)), db.Max.Y)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	// Source pixels addressable by the sampler after clipping.
	sb := src.Bounds()
	sx0 := utils.Max(int(math.Floor(sr.X)), sb.Min.X)
	sy0 := utils.Max(int(math.Floor(sr.Y)), sb.Min.Y)
	sx1 := utils.Min(int(math.Ceil(sr.X+sr.W))-1, sb.Max.X-1)
	sy1 := utils.Min(int(math.Ceil(sr.Y+sr.H))-1, sb.Max.Y-1)

	kx, ky := sr.W/dr.W, sr.H/dr.H

	for y := y0; y < y1; y++ {
		sy := utils.Clamp(int(math.Floor(sr.Y+(float64(y)+0.5-dr.Y)*ky)), sy0, sy1)
		for x := x0; x < x1; x++ {
			sx := utils.Clamp(int(math.Floor(sr.X+(float64(x)+0.5-dr.X)*kx)), sx0, sx1)

			si := src.PixOffset(sx, sy)
			di := dst.PixOffset(x, y)
			op.mix(dst.Pix[di:di+4:di+4], src.Pix[si:si+4:si+4])
		}
	}
}

// mix applies the active composition operation on a single non-premultiplied pixel.
func (op *Composite) mix(dst, src []uint8) {
	switch op.current {
	case SrcOver:
		asn := float64(src[3]) / 255
		abn := float64(dst[3]) / 255

		// applying the alpha composition formula
		an := asn + abn*(1-asn)
		if an == 0 {
			dst[0], dst[1], dst[2], dst[3] = 0, 0, 0, 0
			return
		}
		for i := 0; i < 3; i++ {
			cs := float64(src[i]) / 255
			cb := float64(dst[i]) / 255
			cn := (asn*cs + abn*cb*(1-asn)) / an
			dst[i] = uint8(math.Round(cn * 255))
		}
		dst[3] = uint8(math.Round(an * 255))
	default:
		copy(dst, src)
	}
}

// clipSource intersects the source rectangle with the source bounds and
// shrinks the destination rectangle by the same amount on every side.
func clipSource(sr, dr Rect, b image.Rectangle) (Rect, Rect) {
	x0 := utils.Max(sr.X, float64(b.Min.X))
	y0 := utils.Max(sr.Y, float64(b.Min.Y))
	x1 := utils.Min(sr.X+sr.W, float64(b.Max.X))
	y1 := utils.Min(sr.Y+sr.H, float64(b.Max.Y))
	if x1 <= x0 || y1 <= y0 {
		return Rect{}, Rect{}
	}

	kx, ky := dr.W/sr.W, dr.H/sr.H
	clipped := Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}

	return clipped, Rect{
		X: dr.X + (x0-sr.X)*kx,
		Y: dr.Y + (y0-sr.Y)*ky,
		W: clipped.W * kx,
		H: clipped.H * ky,
	}
}
