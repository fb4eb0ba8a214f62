package simulation

import (
	"image"
	"image/draw"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"github.com/sirupsen/logrus"
)

// Window shows the last flushed frame, scaled up to twice the display size.
type Window struct {
	frames FrameSource
	window *app.Window
}

func Open(frames FrameSource, width, height int) *Window {
	logrus.Infof("Open simulation window")

	w := &Window{
		frames: frames,
		window: app.NewWindow(
			app.Title("adcmon"),
			app.Size(unit.Px(float32(2*width)), unit.Px(float32(2*height))),
			app.MinSize(unit.Px(float32(width)), unit.Px(float32(height))),
		),
	}
	go func() {
		if err := w.gioloop(); err != nil {
			logrus.Warnf("Simulation window closed: %v", err)
		}
	}()
	go app.Main()
	return w
}

func (w *Window) Invalidate() {
	w.window.Invalidate()
}

func (w *Window) Close() {
	logrus.Infof("Close simulation window")
	w.window.Close()
}

func (w *Window) gioloop() error {
	var ops op.Ops
	for {
		e := <-w.window.Events()
		switch e := e.(type) {
		case system.DestroyEvent:
			return e.Err
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)

			img := widget.Image{Src: paint.NewImageOp(toRGBA(w.frames.LastImage())), Fit: widget.Contain}
			img.Layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func toRGBA(src image.Image) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}
