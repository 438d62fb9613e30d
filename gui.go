package colorize

import (
	"image"
	"image/color"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

var (
	defaultBkgColor     = color.NRGBA{R: 0xfc, G: 0xf4, B: 0xff, A: 0xff}
	defaultOverlayColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xb0}
	defaultErrorColor   = color.NRGBA{R: 0xc6, G: 0x28, B: 0x28, A: 0xff}
	defaultCursorColor  = color.NRGBA{R: 0x9c, G: 0x27, B: 0xb0, A: 0xc0}
)

// Gui is the window presenting the controller state. It receives the decoded
// images through the controller's result channel and forwards the pointer
// events of the canvas to the controller.
type Gui struct {
	cfg struct {
		window struct {
			w     float64
			h     float64
			title string
		}
		text struct {
			instructions string
			newImage     string
			loading      string
			retry        string
		}
		color struct {
			background color.NRGBA
			overlay    color.NRGBA
			error      color.NRGBA
			cursor     color.NRGBA
		}
	}
	img struct {
		op       paint.ImageOp
		surface  *image.NRGBA
		revision uint64
	}
	ctrl     *Controller
	th       *material.Theme
	newImage widget.Clickable
	retry    widget.Clickable
}

// NewGUI initializes the Gio interface.
func NewGUI(ctrl *Controller) *Gui {
	gui := &Gui{
		ctrl: ctrl,
		th:   material.NewTheme(gofont.Collection()),
	}
	gui.initWindow()

	return gui
}

// initWindow sets up the window size, the labels and the colors.
func (g *Gui) initWindow() {
	g.cfg.window.w = g.ctrl.MaxWidth + 80
	g.cfg.window.h = g.ctrl.MaxHeight + 240
	g.cfg.window.title = "Magical Unicorn Coloring"

	g.cfg.text.instructions = "Click and drag your mouse to reveal the colors!"
	g.cfg.text.newImage = "Try Another Unicorn! 🦄"
	g.cfg.text.loading = "Loading magical unicorn..."
	g.cfg.text.retry = "Try Again"

	g.cfg.color.background = defaultBkgColor
	g.cfg.color.overlay = defaultOverlayColor
	g.cfg.color.error = defaultErrorColor
	g.cfg.color.cursor = defaultCursorColor
}

// Run is the core method of the Gio GUI application. It starts loading the
// first image and processes the window events and the load results until the
// window is closed.
func (g *Gui) Run() error {
	w := app.NewWindow(app.Title(g.cfg.window.title), app.Size(
		unit.Dp(g.cfg.window.w),
		unit.Dp(g.cfg.window.h),
	))
	var ops op.Ops

	g.ctrl.Load()
	defer g.ctrl.Close()

	for {
		select {
		case e := <-w.Events():
			switch e := e.(type) {
			case system.FrameEvent:
				gtx := layout.NewContext(&ops, e)
				g.layout(gtx)
				e.Frame(gtx.Ops)
			case key.Event:
				if e.Name == key.NameEscape {
					w.Perform(system.ActionClose)
				}
			case system.DestroyEvent:
				return e.Err
			}
		case res := <-g.ctrl.Results():
			if g.ctrl.Complete(res) {
				w.Invalidate()
			}
		}
	}
}

// layout draws the header, the new image button and the canvas area.
func (g *Gui) layout(gtx C) D {
	for g.newImage.Clicked() {
		g.ctrl.Load()
	}
	for g.retry.Clicked() {
		g.ctrl.Load()
	}

	paint.Fill(gtx.Ops, g.cfg.color.background)

	return layout.Flex{
		Axis:      layout.Vertical,
		Alignment: layout.Middle,
	}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx C) D {
				title := material.H4(g.th, g.cfg.window.title)
				title.Alignment = text.Middle
				return title.Layout(gtx)
			})
		}),
		layout.Rigid(material.Body1(g.th, g.cfg.text.instructions).Layout),
		layout.Rigid(func(gtx C) D {
			return layout.UniformInset(unit.Dp(12)).Layout(gtx,
				material.Button(g.th, &g.newImage, g.cfg.text.newImage).Layout,
			)
		}),
		layout.Rigid(g.layoutCanvas),
	)
}

// layoutCanvas shows the loader, the error panel or the surface depending on the load status.
func (g *Gui) layoutCanvas(gtx C) D {
	switch g.ctrl.Status() {
	case Failed:
		return g.panel(gtx, g.layoutError)
	case Loading:
		if g.ctrl.Surface() == nil {
			return g.panel(gtx, g.layoutLoader)
		}
		// Keep the previous image under a translucent overlay.
		return layout.Stack{Alignment: layout.Center}.Layout(gtx,
			layout.Stacked(g.layoutSurface),
			layout.Expanded(func(gtx C) D {
				paint.FillShape(gtx.Ops, g.cfg.color.overlay, clip.Rect{Max: gtx.Constraints.Min}.Op())
				return D{Size: gtx.Constraints.Min}
			}),
			layout.Stacked(g.layoutLoader),
		)
	default:
		return g.layoutSurface(gtx)
	}
}

// panel centers the widget in a box of the maximum surface size.
func (g *Gui) panel(gtx C, w layout.Widget) D {
	size := gtx.Constraints.Constrain(image.Pt(int(g.ctrl.MaxWidth), int(g.ctrl.MaxHeight)))
	gtx.Constraints = layout.Exact(size)

	return layout.Center.Layout(gtx, w)
}

func (g *Gui) layoutLoader(gtx C) D {
	return layout.Flex{
		Axis:      layout.Vertical,
		Alignment: layout.Middle,
	}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			gtx.Constraints = layout.Exact(image.Pt(gtx.Dp(48), gtx.Dp(48)))
			return material.Loader(g.th).Layout(gtx)
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
		layout.Rigid(material.Body1(g.th, g.cfg.text.loading).Layout),
	)
}

func (g *Gui) layoutError(gtx C) D {
	return layout.Flex{
		Axis:      layout.Vertical,
		Alignment: layout.Middle,
	}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			msg := material.Body1(g.th, g.ctrl.Message())
			msg.Color = g.cfg.color.error
			return msg.Layout(gtx)
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
		layout.Rigid(material.Button(g.th, &g.retry, g.cfg.text.retry).Layout),
	)
}

// layoutSurface paints the display surface pixel for pixel and routes the
// pointer events of its area to the controller.
func (g *Gui) layoutSurface(gtx C) D {
	surface := g.ctrl.Surface()
	if surface == nil {
		return D{}
	}
	size := surface.Bounds().Size()
	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()

	// Handle the queued events first, so the strokes are visible in this frame.
	g.handlePointer(gtx)
	pointer.InputOp{
		Tag:   g,
		Types: pointer.Press | pointer.Drag | pointer.Release | pointer.Move | pointer.Leave | pointer.Cancel,
	}.Add(gtx.Ops)

	// The image op holds a copy of the pixels, rebuild it only when the surface changed.
	if g.img.surface != surface || g.img.revision != g.ctrl.Revision() {
		g.img.op = paint.NewImageOp(surface)
		g.img.surface = surface
		g.img.revision = g.ctrl.Revision()
	}
	g.img.op.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)

	if g.ctrl.Status() == Ready {
		g.drawCursor(gtx)
	}
	return D{Size: size}
}

// handlePointer translates the Gio pointer events into controller transitions.
func (g *Gui) handlePointer(gtx C) {
	for _, ev := range gtx.Events(g) {
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		x, y := float64(e.Position.X), float64(e.Position.Y)

		switch e.Type {
		case pointer.Press:
			g.ctrl.PointerDown(x, y)
		case pointer.Move, pointer.Drag:
			g.ctrl.PointerMove(x, y)
		case pointer.Release, pointer.Cancel:
			g.ctrl.PointerUp()
		case pointer.Leave:
			g.ctrl.PointerLeave()
		}
	}
}

// drawCursor draws the ring following the pointer over the surface.
func (g *Gui) drawCursor(gtx C) {
	const radius = 10

	p := g.ctrl.Pointer()
	x, y := int(p.X), int(p.Y)
	ring := clip.Ellipse{
		Min: image.Pt(x-radius, y-radius),
		Max: image.Pt(x+radius, y+radius),
	}

	paint.FillShape(gtx.Ops, g.cfg.color.cursor, clip.Stroke{
		Path:  ring.Path(gtx.Ops),
		Width: float32(gtx.Dp(2)),
	}.Op())
}
