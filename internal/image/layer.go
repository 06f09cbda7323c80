// Package image decodes and prepares circuit diagram images returned by the
// analysis service.
package image

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Layer is one decoded diagram.
type Layer struct {
	Source string      // URL or file path it came from
	Format string      // decoder name, e.g. "png"
	Image  image.Image // decoded pixels
}

// Decode reads an image in any supported format.
func Decode(r io.Reader, source string) (*Layer, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &Layer{Source: source, Format: format, Image: img}, nil
}

// Load decodes an image file, for example a diagram saved from an earlier
// analysis.
func Load(path string) (*Layer, error) {
	if !IsSupportedFormat(path) {
		return nil, fmt.Errorf("unsupported image format %q (want one of %s)",
			filepath.Ext(path), strings.Join(SupportedFormats(), " "))
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()
	return Decode(file, path)
}

// Width returns the image width in pixels.
func (l *Layer) Width() int {
	if l == nil || l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (l *Layer) Height() int {
	if l == nil || l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dy()
}

// Fit scales the layer down, keeping its aspect ratio, so that it fits in
// maxW x maxH. Images that already fit are returned as is. A non-positive
// bound leaves that axis unconstrained.
func (l *Layer) Fit(maxW, maxH int) image.Image {
	return Fit(l.Image, maxW, maxH)
}

// Fit is Layer.Fit for a bare image.
func Fit(img image.Image, maxW, maxH int) image.Image {
	if img == nil {
		return nil
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return img
	}

	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = float64(maxW) / float64(w)
	}
	if maxH > 0 && h > maxH {
		if s := float64(maxH) / float64(h); s < scale {
			scale = s
		}
	}
	if scale >= 1 {
		return img
	}

	nw := max(1, int(float64(w)*scale+0.5))
	nh := max(1, int(float64(h)*scale+0.5))
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return dst
}

// SupportedFormats returns the file extensions that can be decoded.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}
}

// IsSupportedFormat reports whether path has a decodable extension.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range SupportedFormats() {
		if ext == f {
			return true
		}
	}
	return false
}
