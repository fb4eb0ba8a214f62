package sched

import (
	"context"
	"testing"
	"time"

	"github.com/jypelle/adcmon/internal/srv/plot"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeClock advances instantly. It is only touched by the executor and the
// running task, which never overlap.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: epoch}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) elapsed() time.Duration { return c.now.Sub(epoch) }

// recordingBuffer keeps the ops issued between flushes.
type recordingBuffer struct {
	pending []plot.Op
	frames  [][]plot.Op
	onFlush func(frame int) error
}

func (b *recordingBuffer) SetPixel(x, y int, c plot.Color) {
	b.pending = append(b.pending, plot.Pixel(x, y, c))
}

func (b *recordingBuffer) FillRect(x, y, w, h int, c plot.Color) {
	b.pending = append(b.pending, plot.Rect(x, y, w, h, c))
}

func (b *recordingBuffer) Flush() error {
	b.frames = append(b.frames, b.pending)
	b.pending = nil
	if b.onFlush != nil {
		return b.onFlush(len(b.frames))
	}
	return nil
}

// sequenceReader returns values in order, then repeats the last one.
type sequenceReader struct {
	values []uint16
	calls  int
}

func (r *sequenceReader) ReadSample() (uint16, error) {
	i := r.calls
	r.calls++
	if i >= len(r.values) {
		i = len(r.values) - 1
	}
	return r.values[i], nil
}
