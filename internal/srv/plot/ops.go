package plot

// FrameBuffer is the pixel canvas mirrored to the physical display on Flush.
//
// Implementations are not safe for concurrent use; the scheduler guarantees a
// single drawing task at a time.
type FrameBuffer interface {
	SetPixel(x, y int, c Color)
	FillRect(x, y, w, h int, c Color)
	Flush() error
}

// TextDrawer is implemented by frame buffers able to render a text label.
type TextDrawer interface {
	DrawText(s string, x, y int, c Color)
}

type OpKind uint8

const (
	OpPixel OpKind = iota
	OpRect
)

// Op is a single draw operation on a FrameBuffer.
type Op struct {
	Kind  OpKind
	X, Y  int
	W, H  int
	Color Color
}

func Pixel(x, y int, c Color) Op {
	return Op{Kind: OpPixel, X: x, Y: y, Color: c}
}

func Rect(x, y, w, h int, c Color) Op {
	return Op{Kind: OpRect, X: x, Y: y, W: w, H: h, Color: c}
}

// Apply issues ops on fb in order. It never flushes.
func Apply(fb FrameBuffer, ops []Op) {
	for _, op := range ops {
		switch op.Kind {
		case OpPixel:
			fb.SetPixel(op.X, op.Y, op.Color)
		case OpRect:
			fb.FillRect(op.X, op.Y, op.W, op.H, op.Color)
		}
	}
}
