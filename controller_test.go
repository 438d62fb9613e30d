package colorize

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"os"
	"testing"
	"time"

	"github.com/esimov/colorize/imop"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red      = color.NRGBA{R: 255, A: 255}
	grayRed  = color.NRGBA{R: 85, G: 85, B: 85, A: 255}
	testRoot = "assets"
)

// fakeDecoder serves in-memory images keyed by asset path.
type fakeDecoder struct {
	images map[string]image.Image
}

func (d *fakeDecoder) Decode(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, ok := d.images[path]
	if !ok {
		return nil, errors.Wrapf(os.ErrNotExist, "open %s", path)
	}
	return img, nil
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

func newTestController(t *testing.T, images map[string]image.Image, opts Options) (*Controller, *AssetSet) {
	t.Helper()

	var names []string
	dec := &fakeDecoder{images: make(map[string]image.Image)}
	assets := NewAssetSet(testRoot)
	for name, img := range images {
		names = append(names, name)
		dec.images[assets.Asset(name).Path] = img
	}
	if len(names) > 0 {
		assets = NewAssetSet(testRoot, names...)
	}
	if opts.Seed == 0 {
		opts.Seed = 42
	}

	c, err := NewController(assets, dec, opts)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	return c, assets
}

func await(t *testing.T, c *Controller) LoadResult {
	t.Helper()
	select {
	case res := <-c.Results():
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the load result")
	}
	return LoadResult{}
}

func loadReady(t *testing.T, c *Controller, asset Asset) {
	t.Helper()
	gen := c.LoadAsset(asset)
	res := await(t, c)
	require.Equal(t, gen, res.Generation)
	require.True(t, c.Complete(res))
	require.Equal(t, Ready, c.Status())
}

func TestController_Scaling(t *testing.T) {
	cases := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"within bounds", 300, 200, 300, 200},
		{"width bound", 1600, 900, 800, 450},
		{"height bound", 400, 1200, 200, 600},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			c, assets := newTestController(t, map[string]image.Image{
				"img.png": solid(tc.width, tc.height, red),
			}, Options{})
			loadReady(t, c, assets.Asset("img.png"))

			surface := c.Surface()
			require.NotNil(t, surface)
			assert.Equal(image.Rect(0, 0, tc.wantW, tc.wantH), surface.Bounds())

			src := c.Source()
			assert.Equal(tc.width, src.Width)
			assert.Equal(tc.height, src.Height)
			assert.Equal(float64(tc.wantW), src.ScaledWidth)
			assert.Equal(float64(tc.wantH), src.ScaledHeight)
			assert.Equal(grayRed, surface.NRGBAAt(tc.wantW/2, tc.wantH/2))
			assert.Equal(red, src.Color.NRGBAAt(0, 0))
		})
	}
}

func TestController_LoadFailure(t *testing.T) {
	assert := assert.New(t)

	c, assets := newTestController(t, map[string]image.Image{
		"ok.png": solid(40, 30, red),
	}, Options{})
	loadReady(t, c, assets.Asset("ok.png"))

	c.LoadAsset(assets.Asset("missing.png"))
	assert.Equal(Loading, c.Status())
	assert.True(c.Complete(await(t, c)))

	assert.Equal(Failed, c.Status())
	assert.NotEmpty(c.Message())
	assert.Nil(c.Surface())
	assert.Nil(c.Source())

	err := c.Err()
	assert.True(errors.Is(err, ErrAssetLoad))
	assert.True(errors.Is(err, os.ErrNotExist))

	var loadErr *AssetLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal("missing.png", loadErr.Asset.Name)

	// Retry selects a new random asset and returns to loading.
	c.Load()
	assert.Equal(Loading, c.Status())
	assert.Empty(c.Message())
	assert.NoError(c.Err())
	assert.Contains(assets.Names, c.Asset().Name)

	assert.True(c.Complete(await(t, c)))
	assert.Equal(Ready, c.Status())
}

func TestController_EmptyImageFails(t *testing.T) {
	c, assets := newTestController(t, map[string]image.Image{
		"empty.png": image.NewNRGBA(image.Rect(0, 0, 0, 0)),
	}, Options{})

	c.LoadAsset(assets.Asset("empty.png"))
	c.Complete(await(t, c))

	assert.Equal(t, Failed, c.Status())
	assert.Equal(t, FailureMessage, c.Message())
}

func TestController_DiscardsStaleResults(t *testing.T) {
	assert := assert.New(t)

	c, assets := newTestController(t, map[string]image.Image{
		"wide.png": solid(1600, 900, red),
		"tall.png": solid(400, 1200, red),
	}, Options{})

	first := c.LoadAsset(assets.Asset("wide.png"))
	second := c.LoadAsset(assets.Asset("tall.png"))
	assert.NotEqual(first, second)

	assert.False(c.Complete(LoadResult{
		Generation: first,
		Asset:      assets.Asset("wide.png"),
		Img:        solid(1600, 900, red),
	}))
	assert.Equal(Loading, c.Status())
	assert.Nil(c.Surface())

	for {
		res := await(t, c)
		if res.Generation != second {
			assert.False(c.Complete(res))
			continue
		}
		assert.True(c.Complete(res))
		break
	}
	assert.Equal(Ready, c.Status())
	assert.Equal(image.Rect(0, 0, 200, 600), c.Surface().Bounds())

	// A late result of the first request does not touch the ready session.
	assert.False(c.Complete(LoadResult{
		Generation: first,
		Asset:      assets.Asset("wide.png"),
		Err:        errors.New("late failure"),
	}))
	assert.Equal(Ready, c.Status())
	assert.Equal(200.0, c.Source().ScaledWidth)
}

func TestController_PointerStates(t *testing.T) {
	assert := assert.New(t)
	c, _ := newTestController(t, nil, Options{})

	c.PointerMove(3, 4)
	assert.Equal(Pointer{X: 3, Y: 4}, c.Pointer())

	c.PointerDown(5, 6)
	assert.True(c.Pointer().Dragging)
	c.PointerMove(7, 8)
	assert.Equal(Pointer{X: 7, Y: 8, Dragging: true}, c.Pointer())

	c.PointerUp()
	assert.False(c.Pointer().Dragging)
	c.PointerUp()
	assert.False(c.Pointer().Dragging)

	c.PointerDown(1, 1)
	c.PointerLeave()
	assert.False(c.Pointer().Dragging)
	c.PointerLeave()
	assert.False(c.Pointer().Dragging)
	assert.Equal(1.0, c.Pointer().X)
}

func TestController_LoadResetsPointer(t *testing.T) {
	c, assets := newTestController(t, map[string]image.Image{
		"img.png": solid(100, 100, red),
	}, Options{})

	c.PointerDown(10, 10)
	c.LoadAsset(assets.Asset("img.png"))
	assert.Equal(t, Pointer{}, c.Pointer())
}

func TestController_DrawBeforeReadyIsNoop(t *testing.T) {
	assert := assert.New(t)

	c, assets := newTestController(t, map[string]image.Image{
		"img.png": solid(100, 100, red),
	}, Options{})

	c.PointerDown(10, 10)
	c.PointerMove(20, 20)
	assert.Nil(c.Surface())
	assert.Zero(c.Revision())

	loadReady(t, c, assets.Asset("img.png"))
	before := append([]uint8(nil), c.Surface().Pix...)
	rev := c.Revision()

	// While the next image is loading the old surface is left untouched.
	c.LoadAsset(assets.Asset("img.png"))
	c.PointerDown(50, 50)
	c.PointerMove(50, 50)
	assert.Equal(before, c.Surface().Pix)
	assert.Equal(rev, c.Revision())
}

func TestController_DragRevealsColor(t *testing.T) {
	assert := assert.New(t)

	c, assets := newTestController(t, map[string]image.Image{
		"img.png": solid(MaxWidth, MaxHeight, red),
	}, Options{})
	loadReady(t, c, assets.Asset("img.png"))
	rev := c.Revision()

	c.PointerDown(10, 10)
	for _, p := range []float64{10, 30, 50} {
		c.PointerMove(p, p)
	}
	c.PointerUp()
	c.PointerMove(400, 300)

	assert.Equal(rev+3, c.Revision())

	surface := c.Surface()
	for _, p := range []image.Point{{10, 10}, {30, 30}, {50, 50}, {0, 0}, {64, 64}} {
		assert.Equal(red, surface.NRGBAAt(p.X, p.Y), "pixel %v should be revealed", p)
	}
	for _, p := range []image.Point{{400, 300}, {60, 10}, {10, 60}, {65, 65}, {100, 100}} {
		assert.Equal(grayRed, surface.NRGBAAt(p.X, p.Y), "pixel %v should stay gray", p)
	}

	// Every revealed pixel lies inside one of the brush squares.
	brush := c.Source().BrushSize(c.BrushRatio)
	assert.Equal(30.0, brush)
	path := image.Rect(0, 0, 25, 25).Union(image.Rect(15, 15, 45, 45)).Union(image.Rect(35, 35, 65, 65))
	b := surface.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if surface.NRGBAAt(x, y) == red && !image.Pt(x, y).In(path) {
				t.Fatalf("pixel (%d, %d) revealed outside the brush path", x, y)
			}
		}
	}
}

func TestController_CompositeIsIdempotent(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1200, 700))
	for i := range src.Pix {
		src.Pix[i] = uint8(i*31 + i/4096)
		if i%4 == 3 {
			src.Pix[i] = 0xff
		}
	}
	images := map[string]image.Image{"img.png": src}

	once, assets := newTestController(t, images, Options{})
	twice, _ := newTestController(t, images, Options{})
	loadReady(t, once, assets.Asset("img.png"))
	loadReady(t, twice, assets.Asset("img.png"))

	once.PointerDown(0, 0)
	once.PointerMove(123.4, 321.9)

	twice.PointerDown(0, 0)
	twice.PointerMove(123.4, 321.9)
	twice.PointerMove(123.4, 321.9)

	assert.Equal(t, once.Surface().Pix, twice.Surface().Pix)
}

func TestController_BrushAtEdges(t *testing.T) {
	c, assets := newTestController(t, map[string]image.Image{
		"img.png": solid(1600, 900, red),
	}, Options{})
	loadReady(t, c, assets.Asset("img.png"))

	assert.NotPanics(t, func() {
		c.PointerDown(0, 0)
		c.PointerMove(0, 0)
		c.PointerMove(799.9, 449.9)
		c.PointerMove(-50, 900)
		c.PointerMove(5000, -5000)
	})
	assert.Equal(t, red, c.Surface().NRGBAAt(0, 0))
	assert.Equal(t, red, c.Surface().NRGBAAt(799, 449))
}

func TestController_BrushRects(t *testing.T) {
	pair := &SourcePair{Width: 1600, Height: 900, ScaledWidth: 800, ScaledHeight: 450}

	assert.Equal(t, 22.5, pair.BrushSize(BrushRatio))

	dst, src := pair.BrushRects(100, 50, BrushRatio)
	assert.Equal(t, imop.Square(100, 50, 22.5), dst)
	assert.Equal(t, imop.Square(200, 100, 45), src)
}

func TestController_Options(t *testing.T) {
	assert := assert.New(t)

	_, err := NewController(&AssetSet{Root: testRoot}, nil, Options{})
	assert.Error(err)

	_, err = NewController(NewAssetSet(testRoot), nil, Options{Operator: "xor"})
	assert.Error(err)

	c, err := NewController(NewAssetSet(testRoot), nil, Options{Operator: imop.SrcOver})
	require.NoError(t, err)
	assert.Equal(float64(MaxWidth), c.MaxWidth)
	assert.Equal(float64(MaxHeight), c.MaxHeight)
	assert.Equal(BrushRatio, c.BrushRatio)
	assert.Equal(Loading, c.Status())
	assert.IsType(FileDecoder{}, c.decoder)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "Status(7)", Status(7).String())
}
