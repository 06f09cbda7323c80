// Package colorutil provides shared color utilities for the schematic editor.
package colorutil

import (
	"image/color"
)

// Common drawing colors used throughout the application.
var (
	Black     = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Blue      = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Green     = color.RGBA{R: 0, G: 128, B: 0, A: 255}
	Orange    = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	Red       = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Purple    = color.RGBA{R: 128, G: 0, B: 128, A: 255}
	Teal      = color.RGBA{R: 0, G: 128, B: 128, A: 255}
	GuideBlue = color.RGBA{R: 0, G: 120, B: 255, A: 255}
	GridGray  = color.RGBA{R: 230, G: 230, B: 230, A: 255}
)

// Blend mixes col over dst with the given opacity (0..1).
func Blend(dst, col color.RGBA, opacity float64) color.RGBA {
	if opacity <= 0 {
		return dst
	}
	if opacity >= 1 {
		return col
	}
	inv := 1 - opacity
	return color.RGBA{
		R: uint8(float64(col.R)*opacity + float64(dst.R)*inv),
		G: uint8(float64(col.G)*opacity + float64(dst.G)*inv),
		B: uint8(float64(col.B)*opacity + float64(dst.B)*inv),
		A: 255,
	}
}
