// Package simulation mirrors the OLED in a desktop window when running
// without hardware.
package simulation

import "image"

type FrameSource interface {
	LastImage() image.Image
}
