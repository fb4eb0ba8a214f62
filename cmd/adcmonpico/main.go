//go:build tinygo

package main

import (
	"context"
	"time"

	"github.com/jypelle/adcmon/internal/board"
	"github.com/jypelle/adcmon/internal/srv/plot"
	"github.com/jypelle/adcmon/internal/srv/sched"
)

const (
	label        = "Value"
	adcDelay     = 100 * time.Microsecond
	refreshDelay = 100 * time.Microsecond
	frameDelay   = 50 * time.Millisecond
)

func main() {
	display, err := board.NewDisplay()
	if err != nil {
		halt("display", err)
	}

	geometry, err := plot.NewGeometry(board.DisplayWidth, board.DisplayHeight, 5, 62, 40)
	if err != nil {
		halt("geometry", err)
	}

	scheduler, err := sched.New(sched.Config{
		Policy:   sched.Decoupled,
		Mode:     sched.Waveform,
		Geometry: geometry,
		Bar: plot.BarGeometry{
			DisplayWidth: board.DisplayWidth,
			Left:         5,
			Top:          25,
			Height:       60,
			PixelsTop:    120,
		},
		AdcDelay:     adcDelay,
		RefreshDelay: refreshDelay,
		FrameDelay:   frameDelay,
	}, board.NewAdc(), display)
	if err != nil {
		halt("scheduler", err)
	}

	display.FillRect(0, 0, board.DisplayWidth, board.DisplayHeight, plot.Off)
	display.DrawText(label, 5, 5, plot.On)
	if err := display.Flush(); err != nil {
		halt("display", err)
	}

	// Run only returns on a failure.
	halt("pipeline", scheduler.Run(context.Background()))
}

func halt(stage string, err error) {
	for {
		println(stage+":", err.Error())
		time.Sleep(time.Second)
	}
}
