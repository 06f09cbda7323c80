package image

import (
	"image"
	"image/color"
	"image/draw"
)

// DefaultBackground is the paper color diagrams are flattened onto.
var DefaultBackground = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Flatten draws img over an opaque background so transparent diagrams stay
// readable on dark themes. The result starts at the origin.
func Flatten(img image.Image, bg color.Color) *image.RGBA {
	if img == nil {
		return nil
	}
	if bg == nil {
		bg = DefaultBackground
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}

// Prepare fits the layer into maxW x maxH and flattens it onto bg.
func (l *Layer) Prepare(maxW, maxH int, bg color.Color) *image.RGBA {
	if l == nil || l.Image == nil {
		return nil
	}
	return Flatten(l.Fit(maxW, maxH), bg)
}

// Stack places top above bottom, left aligned, on an opaque background.
// Either image may be nil.
func Stack(top, bottom image.Image, bg color.Color) *image.RGBA {
	switch {
	case top == nil && bottom == nil:
		return nil
	case top == nil:
		return Flatten(bottom, bg)
	case bottom == nil:
		return Flatten(top, bg)
	}
	if bg == nil {
		bg = DefaultBackground
	}

	tb, bb := top.Bounds(), bottom.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, max(tb.Dx(), bb.Dx()), tb.Dy()+bb.Dy()))
	draw.Draw(out, out.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(0, 0, tb.Dx(), tb.Dy()), top, tb.Min, draw.Over)
	draw.Draw(out, image.Rect(0, tb.Dy(), bb.Dx(), tb.Dy()+bb.Dy()), bottom, bb.Min, draw.Over)
	return out
}
