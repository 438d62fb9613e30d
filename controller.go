package colorize

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/disintegration/imaging"
	"github.com/esimov/colorize/imop"
	"github.com/esimov/colorize/utils"
	"github.com/pkg/errors"
)

// Default dimensions of the bounding box and the brush ratio.
const (
	MaxWidth   = 800
	MaxHeight  = 600
	BrushRatio = 0.05
)

// Status is the load status of the current asset.
type Status int

const (
	Loading Status = iota
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Options holds the controller settings. Zero values fall back to the defaults.
type Options struct {
	MaxWidth   float64
	MaxHeight  float64
	BrushRatio float64
	// Operator is the composition operation used by the brush (imop.Copy or imop.SrcOver).
	Operator string
	// Seed initializes the random asset picker. Zero means time based.
	Seed int64
}

// Pointer is the last known cursor position in surface coordinates.
type Pointer struct {
	X, Y     float64
	Dragging bool
}

// SourcePair holds the decoded asset used for the grayscale rendering and the
// color source the brush copies from, along with their natural size and the
// scaled size of the surface.
type SourcePair struct {
	Gray  image.Image
	Color *image.NRGBA

	Width, Height             int
	ScaledWidth, ScaledHeight float64
}

// LoadResult is sent by the decoding goroutine once a load request completes.
type LoadResult struct {
	Generation uint64
	Asset      Asset
	Img        image.Image
	Err        error
	Elapsed    time.Duration
}

// Controller owns the coloring state: load status, display surface, source
// pair and pointer. It is not safe for concurrent use; every method should be
// called from the goroutine running the UI. Decoding happens in background
// goroutines which report back through the Results channel.
type Controller struct {
	Options

	assets  *AssetSet
	decoder Decoder
	rnd     *rand.Rand
	comp    *imop.Composite
	results chan LoadResult

	generation uint64
	cancel     context.CancelFunc
	asset      Asset

	status   Status
	err      error
	surface  *image.NRGBA
	pair     *SourcePair
	pointer  Pointer
	revision uint64
}

// NewController creates a controller picking images from the asset set.
func NewController(assets *AssetSet, dec Decoder, opts Options) (*Controller, error) {
	if assets == nil || assets.Len() == 0 {
		return nil, errors.New("the asset set should contain at least one image")
	}
	if dec == nil {
		dec = FileDecoder{}
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = MaxWidth
	}
	if opts.MaxHeight <= 0 {
		opts.MaxHeight = MaxHeight
	}
	if opts.BrushRatio <= 0 {
		opts.BrushRatio = BrushRatio
	}
	if opts.Operator == "" {
		opts.Operator = imop.Copy
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	comp := imop.InitOp()
	if err := comp.Set(opts.Operator); err != nil {
		return nil, err
	}

	return &Controller{
		Options: opts,
		assets:  assets,
		decoder: dec,
		rnd:     rand.New(rand.NewSource(opts.Seed)),
		comp:    comp,
		results: make(chan LoadResult, 1),
		status:  Loading,
	}, nil
}

// Results delivers the completed load requests. Every value received should
// be passed to Complete on the UI goroutine.
func (c *Controller) Results() <-chan LoadResult {
	return c.results
}

// Load starts loading a randomly chosen asset.
func (c *Controller) Load() uint64 {
	return c.LoadAsset(c.assets.Pick(c.rnd))
}

// LoadAsset resets the controller into the loading state and starts decoding
// the asset in a new goroutine. The previous request, if still running, is
// cancelled. It returns the generation of the new request.
func (c *Controller) LoadAsset(asset Asset) uint64 {
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.generation++
	gen := c.generation
	c.asset = asset
	c.status = Loading
	c.err = nil
	c.pointer = Pointer{}

	logger().Debug("loading asset", "asset", asset.Name, "generation", gen)

	go func(dec Decoder, out chan<- LoadResult) {
		now := time.Now()
		img, err := dec.Decode(ctx, asset.Path)

		select {
		case out <- LoadResult{
			Generation: gen,
			Asset:      asset,
			Img:        img,
			Err:        err,
			Elapsed:    time.Since(now),
		}:
		case <-ctx.Done():
		}
	}(c.decoder, c.results)

	return gen
}

// Complete applies a load result. Results of an older request than the
// current one are discarded and false is returned.
func (c *Controller) Complete(res LoadResult) bool {
	if res.Generation != c.generation {
		logger().Debug("discarding stale load result",
			"asset", res.Asset.Name,
			"generation", res.Generation,
			"current", c.generation,
		)
		return false
	}
	if c.status != Loading {
		return false
	}
	if c.cancel != nil {
		c.cancel()
	}

	img, err := res.Img, res.Err
	if err == nil && (img == nil || img.Bounds().Empty()) {
		err = errors.New("the decoded image is empty")
	}
	if err != nil {
		c.fail(&AssetLoadError{Asset: res.Asset, Err: err})
		return true
	}

	b := img.Bounds()
	w, h := FitSize(float64(b.Dx()), float64(b.Dy()), c.MaxWidth, c.MaxHeight)

	c.surface = render(img, w, h)
	c.pair = &SourcePair{
		Gray:         img,
		Color:        imaging.Clone(img),
		Width:        b.Dx(),
		Height:       b.Dy(),
		ScaledWidth:  w,
		ScaledHeight: h,
	}
	c.status = Ready
	c.revision++

	logger().Debug("asset ready",
		"asset", res.Asset.Name,
		"natural", b.Size(),
		"surface", c.surface.Bounds().Size(),
		"elapsed", utils.FormatTime(res.Elapsed),
	)
	return true
}

// fail moves the controller into the failed state and drops every partial
// rendering state.
func (c *Controller) fail(err *AssetLoadError) {
	logger().Warn("asset load failed", "asset", err.Asset.Name, "error", err)

	c.status = Failed
	c.err = err
	c.surface = nil
	c.pair = nil
	c.pointer = Pointer{}
	c.revision++
}

// Close cancels the pending load request.
func (c *Controller) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// Status returns the current load status.
func (c *Controller) Status() Status { return c.status }

// Err returns the error of the failed load.
func (c *Controller) Err() error { return c.err }

// Message returns the user facing error message, empty unless the load failed.
func (c *Controller) Message() string {
	if c.status != Failed {
		return ""
	}
	return FailureMessage
}

// Asset returns the asset of the latest load request.
func (c *Controller) Asset() Asset { return c.asset }

// Surface returns the display surface. It is nil until the first successful load.
func (c *Controller) Surface() *image.NRGBA { return c.surface }

// Source returns the source pair of the current image.
func (c *Controller) Source() *SourcePair { return c.pair }

// Pointer returns the pointer state.
func (c *Controller) Pointer() Pointer { return c.pointer }

// Revision is incremented every time the surface is replaced or drawn on.
func (c *Controller) Revision() uint64 { return c.revision }

// PointerDown starts a drag at the given position. It does not draw.
func (c *Controller) PointerDown(x, y float64) {
	c.pointer = Pointer{X: x, Y: y, Dragging: true}
}

// PointerMove records the cursor position and reveals the color image under
// the brush in case a drag is in progress.
func (c *Controller) PointerMove(x, y float64) {
	c.pointer.X, c.pointer.Y = x, y
	if c.pointer.Dragging {
		c.paint(x, y)
	}
}

// PointerUp ends the drag.
func (c *Controller) PointerUp() {
	c.pointer.Dragging = false
}

// PointerLeave ends the drag when the pointer leaves the surface.
func (c *Controller) PointerLeave() {
	c.pointer.Dragging = false
}
