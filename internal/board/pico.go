//go:build tinygo

// Package board binds the pipeline to an RP2040 with an SSD1306 on I2C1 and
// the signal on the first on-chip ADC input.
package board

import (
	"image/color"
	"machine"

	"github.com/jypelle/adcmon/internal/srv/plot"
	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	DisplayWidth   = 128
	DisplayHeight  = 64
	displayAddress = 0x3C
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}
)

type Adc struct {
	adc machine.ADC
}

// NewAdc configures GPIO26 (ADC0). Get already scales readings to 16 bits.
func NewAdc() *Adc {
	machine.InitADC()
	a := &Adc{adc: machine.ADC{Pin: machine.ADC0}}
	a.adc.Configure(machine.ADCConfig{})
	return a
}

func (a *Adc) ReadSample() (uint16, error) {
	return a.adc.Get(), nil
}

type Display struct {
	dev *ssd1306.Device
}

func NewDisplay() (*Display, error) {
	err := machine.I2C1.Configure(machine.I2CConfig{
		SDA:       machine.GP2,
		SCL:       machine.GP3,
		Frequency: 400 * machine.KHz,
	})
	if err != nil {
		return nil, err
	}

	dev := ssd1306.NewI2C(machine.I2C1)
	dev.Configure(ssd1306.Config{
		Width:    DisplayWidth,
		Height:   DisplayHeight,
		Address:  displayAddress,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	dev.ClearBuffer()
	return &Display{dev: dev}, nil
}

func toRGBA(c plot.Color) color.RGBA {
	if c == plot.On {
		return white
	}
	return black
}

func (d *Display) SetPixel(x, y int, c plot.Color) {
	if x < 0 || y < 0 || x >= DisplayWidth || y >= DisplayHeight {
		return
	}
	d.dev.SetPixel(int16(x), int16(y), toRGBA(c))
}

func (d *Display) FillRect(x, y, w, h int, c plot.Color) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			d.SetPixel(px, py, c)
		}
	}
}

// DrawText draws s with its top left corner at (x, y).
func (d *Display) DrawText(s string, x, y int, c plot.Color) {
	font := &proggy.TinySZ8pt7b
	tinyfont.WriteLine(d.dev, font, int16(x), int16(y)+int16(font.YAdvance), s, toRGBA(c))
}

func (d *Display) Flush() error {
	return d.dev.Display()
}
