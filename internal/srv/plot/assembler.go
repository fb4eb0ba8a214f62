package plot

import "fmt"

// AppendBarOps appends the two rectangles of a bar showing v: the filled part
// from the left edge and the cleared remainder up to the display edge.
func AppendBarOps(dst []Op, b BarGeometry, v Sample) []Op {
	w := ToPixels(v, b.PixelsTop)
	return append(dst,
		Rect(b.Left, b.Top, w, b.Height, On),
		Rect(b.Left+w, b.Top, b.DisplayWidth-(b.Left+w), b.Height, Off),
	)
}

// Waveform draws a scrolling trace, one column per sample.
type Waveform struct {
	geometry Geometry
	ring     *Ring
}

// NewWaveform returns a waveform over the given number of columns. A columns
// value of 0 uses every column of the plot area.
func NewWaveform(g Geometry, columns int) (*Waveform, error) {
	if columns == 0 {
		columns = g.PixelsPerScreen
	}
	if columns < 0 || columns > g.PixelsPerScreen {
		return nil, fmt.Errorf("waveform columns %d out of range [1, %d]", columns, g.PixelsPerScreen)
	}
	return &Waveform{geometry: g, ring: NewRing(columns)}, nil
}

func (w *Waveform) Ring() *Ring { return w.ring }

// AppendOps erases the pixel previously drawn at the current column, draws
// the new one, then moves to the next column.
func (w *Waveform) AppendOps(dst []Op, v Sample) []Op {
	h := w.geometry.ToPixels(v)
	column, previous := w.ring.Record(h)
	x := w.geometry.LeftStart + column
	return append(dst,
		Pixel(x, w.geometry.BottomLine-previous, Off),
		Pixel(x, w.geometry.BottomLine-h, On),
	)
}

// AppendFrameOps appends a full oscilloscope frame: one clear of the plot area
// followed by one pixel per sample. The batch must hold exactly
// PixelsPerScreen samples.
func AppendFrameOps(dst []Op, g Geometry, batch []Sample) ([]Op, error) {
	if len(batch) != g.PixelsPerScreen {
		return dst, fmt.Errorf("frame batch holds %d samples, want %d", len(batch), g.PixelsPerScreen)
	}
	dst = append(dst, Rect(g.LeftStart, g.BottomLine-g.PixelsTop+1, g.PixelsPerScreen, g.PixelsTop, Off))
	for i, v := range batch {
		dst = append(dst, Pixel(g.LeftStart+i, g.BottomLine-g.ToPixels(v), On))
	}
	return dst, nil
}
