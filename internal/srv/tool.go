package srv

import "github.com/jypelle/adcmon/internal/srv/plot"

// Width of a bitmapfont glyph in the latin range.
const glyphWidth = 6

func AddLabel(d plot.TextDrawer, x, y int, label string) {
	d.DrawText(label, x, y, plot.On)
}

func AddCenteredLabel(d plot.TextDrawer, displayWidth, y int, label string) {
	x := (displayWidth - len(label)*glyphWidth) / 2
	if x < 0 {
		x = 0
	}
	AddLabel(d, x, y, label)
}
