package device

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/bitmapfont/v2"
	"github.com/jypelle/adcmon/internal/srv/plot"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

var ErrDisplayNotStarted = errors.New("display not started")

// Viewer is notified after every flush, e.g. a simulation window.
type Viewer interface {
	Invalidate()
}

// Display is the frame buffer of the OLED.
//
// Drawing methods are meant for a single drawing task; the last flushed image
// can be read concurrently with LastImage.
type Display struct {
	oledLock    sync.Mutex
	oledDisplay *ssd1306.Dev
	i2cBus      i2c.BusCloser

	simulationMode bool
	canvas         *image1bit.VerticalLSB

	lock    sync.RWMutex
	lastImg *image1bit.VerticalLSB
	viewer  Viewer
}

func NewDisplay(width, height int, simulationMode bool) *Display {
	bounds := image.Rect(0, 0, width, height)
	return &Display{
		simulationMode: simulationMode,
		canvas:         image1bit.NewVerticalLSB(bounds),
		lastImg:        image1bit.NewVerticalLSB(bounds),
	}
}

func (d *Display) Start() error {
	logrus.Infof("Start display device")

	if d.simulationMode {
		return nil
	}

	if err := initHost(); err != nil {
		return fmt.Errorf("unable to initialize host: %w", err)
	}

	d.oledLock.Lock()
	defer d.oledLock.Unlock()

	var err error
	// Open a handle to the first available I²C bus:
	d.i2cBus, err = i2creg.Open("")
	if err != nil {
		return fmt.Errorf("unable to open i2c bus: %w", err)
	}

	opts := ssd1306.DefaultOpts
	opts.W = d.canvas.Rect.Dx()
	opts.H = d.canvas.Rect.Dy()
	d.oledDisplay, err = ssd1306.NewI2C(d.i2cBus, &opts)
	if err != nil {
		d.i2cBus.Close()
		d.i2cBus = nil
		return fmt.Errorf("unable to initialize oled display: %w", err)
	}

	return nil
}

func (d *Display) Stop() {
	logrus.Infof("Stop display device")

	d.oledLock.Lock()
	defer d.oledLock.Unlock()

	if d.oledDisplay != nil {
		if err := d.oledDisplay.Halt(); err != nil {
			logrus.Warnf("Unable to halt oled display: %v", err)
		}
		d.oledDisplay = nil
	}
	if d.i2cBus != nil {
		d.i2cBus.Close()
		d.i2cBus = nil
	}
}

func (d *Display) SetViewer(viewer Viewer) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.viewer = viewer
}

func (d *Display) Bounds() image.Rectangle {
	return d.canvas.Rect
}

func (d *Display) SetPixel(x, y int, c plot.Color) {
	if !image.Pt(x, y).In(d.canvas.Rect) {
		return
	}
	d.canvas.SetBit(x, y, image1bit.Bit(c == plot.On))
}

// FillRect fills the part of the rectangle inside the canvas.
func (d *Display) FillRect(x, y, w, h int, c plot.Color) {
	r := image.Rect(x, y, x+w, y+h).Intersect(d.canvas.Rect)
	bit := image1bit.Bit(c == plot.On)
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			d.canvas.SetBit(px, py, bit)
		}
	}
}

// DrawText draws s with its top left corner at (x, y).
func (d *Display) DrawText(s string, x, y int, c plot.Color) {
	var src color.Color = color.Black
	if c == plot.On {
		src = color.White
	}
	face := bitmapfont.Face
	// Glyphs have a negative left bearing; shift the dot so ink starts at x.
	bounds, _ := font.BoundString(face, s)
	drawer := &font.Drawer{
		Dst:  d.canvas,
		Src:  image.NewUniform(src),
		Face: face,
		Dot:  fixed.P(x-bounds.Min.X.Floor(), y-bounds.Min.Y.Floor()),
	}
	drawer.DrawString(s)
}

// Clear turns every pixel off.
func (d *Display) Clear() {
	for i := range d.canvas.Pix {
		d.canvas.Pix[i] = 0
	}
}

// Flush pushes the canvas to the OLED, then publishes it as the last image.
func (d *Display) Flush() error {
	if !d.simulationMode {
		d.oledLock.Lock()
		if d.oledDisplay == nil {
			d.oledLock.Unlock()
			return ErrDisplayNotStarted
		}
		err := d.oledDisplay.Draw(d.oledDisplay.Bounds(), d.canvas, image.Point{})
		d.oledLock.Unlock()
		if err != nil {
			return err
		}
	}

	d.lock.Lock()
	copy(d.lastImg.Pix, d.canvas.Pix)
	viewer := d.viewer
	d.lock.Unlock()

	if viewer != nil {
		viewer.Invalidate()
	}
	return nil
}

// LastImage returns a copy of the last flushed frame.
func (d *Display) LastImage() image.Image {
	d.lock.RLock()
	defer d.lock.RUnlock()

	img := image1bit.NewVerticalLSB(d.lastImg.Rect)
	copy(img.Pix, d.lastImg.Pix)
	return img
}
