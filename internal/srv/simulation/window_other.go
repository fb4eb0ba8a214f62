//go:build !amd64
// +build !amd64

package simulation

import "github.com/sirupsen/logrus"

// Window is inert on targets without a desktop.
type Window struct{}

func Open(frames FrameSource, width, height int) *Window {
	logrus.Warnf("Simulation window not available on this platform")
	return &Window{}
}

func (w *Window) Invalidate() {}

func (w *Window) Close() {}
