package plot

import "fmt"

// Sample is one raw 16-bit reading from the analog-to-digital converter.
type Sample uint16

// Color of a monochrome pixel.
type Color uint8

const (
	Off Color = iota
	On
)

// sampleRange is the number of distinct Sample values.
const sampleRange = 1 << 16

// ToPixels scales a sample to a pixel count in [0, pixelsTop).
//
// The result is floored, never rounded: ToPixels(65535, 40) is 39.
// pixelsTop must lie in [1, 65536] so that the product fits in 32 bits.
func ToPixels(v Sample, pixelsTop int) int {
	return int(uint32(v) * uint32(pixelsTop) >> 16)
}

// Geometry describes the plot area used by the waveform and full-frame modes.
type Geometry struct {
	DisplayWidth    int
	DisplayHeight   int
	LeftStart       int
	BottomLine      int
	PixelsTop       int
	PixelsPerScreen int
}

// NewGeometry computes the plot geometry for a display.
func NewGeometry(displayWidth, displayHeight, leftStart, bottomLine, pixelsTop int) (Geometry, error) {
	g := Geometry{
		DisplayWidth:    displayWidth,
		DisplayHeight:   displayHeight,
		LeftStart:       leftStart,
		BottomLine:      bottomLine,
		PixelsTop:       pixelsTop,
		PixelsPerScreen: displayWidth - 2*leftStart,
	}
	switch {
	case displayWidth <= 0 || displayHeight <= 0:
		return Geometry{}, fmt.Errorf("invalid display size %dx%d", displayWidth, displayHeight)
	case leftStart < 0:
		return Geometry{}, fmt.Errorf("invalid left start %d", leftStart)
	case g.PixelsPerScreen <= 0:
		return Geometry{}, fmt.Errorf("left start %d leaves no column on a %d pixel wide display", leftStart, displayWidth)
	case bottomLine < 0 || bottomLine >= displayHeight:
		return Geometry{}, fmt.Errorf("bottom line %d outside display height %d", bottomLine, displayHeight)
	case pixelsTop < 1 || pixelsTop > sampleRange:
		return Geometry{}, fmt.Errorf("pixels top %d out of range [1, %d]", pixelsTop, sampleRange)
	}
	return g, nil
}

// ToPixels scales a sample to a height inside the plot area.
func (g Geometry) ToPixels(v Sample) int {
	return ToPixels(v, g.PixelsTop)
}

// BarGeometry describes the horizontal bar drawn in bar mode.
type BarGeometry struct {
	DisplayWidth int
	Left         int
	Top          int
	Height       int
	PixelsTop    int
}

// Validate checks the bar fits the ToPixels domain and the display width.
func (b BarGeometry) Validate() error {
	switch {
	case b.DisplayWidth <= 0:
		return fmt.Errorf("invalid display width %d", b.DisplayWidth)
	case b.Left < 0 || b.Left >= b.DisplayWidth:
		return fmt.Errorf("bar left %d outside display width %d", b.Left, b.DisplayWidth)
	case b.Height <= 0:
		return fmt.Errorf("invalid bar height %d", b.Height)
	case b.PixelsTop < 1 || b.PixelsTop > sampleRange:
		return fmt.Errorf("bar pixels top %d out of range [1, %d]", b.PixelsTop, sampleRange)
	}
	return nil
}
