// Package imaging loads staged logo files into decoded images ready for
// perceptual hashing and thumbnailing.
//
// PNG, JPEG, GIF, WebP, and BMP are supported. Transparency is flattened
// onto a white background before any downstream processing: most logos
// ship with alpha, and hashing the raw alpha-premultiplied pixels would
// make visually identical logos on different stored backgrounds diverge.
//
// SVG files are reported as unsupported. Rasterizing SVG needs a full
// renderer; a domain whose logo only exists as SVG is simply absent from
// the clustering input, matching the missing-upstream-data contract.
package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	// Raster decoders registered for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

// ErrUnsupportedFormat is returned for files no registered decoder can
// handle, including SVG.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Load decodes the image file at path and flattens any transparency
// onto a white background.
func Load(path string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return nil, fmt.Errorf("%s: %w (SVG needs rasterization)", path, ErrUnsupportedFormat)
	}

	f, err := os.Open(path) //nolint:gosec // Paths come from the local staging manifest
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	img, _, err := image.Decode(f)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
		}
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return Flatten(img), nil
}

// Flatten composites the image over an opaque white background.
// Inputs without alpha pass through this unchanged in appearance.
func Flatten(img image.Image) image.Image {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, bounds, img, bounds.Min, draw.Over)
	return out
}

// Thumbnail scales the image to fit within size x size pixels, keeping
// the aspect ratio. Used by the preview gallery.
func Thumbnail(img image.Image, size int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return img
	}

	scaledW, scaledH := size, size
	if w > h {
		scaledH = h * size / w
	} else {
		scaledW = w * size / h
	}
	if scaledW < 1 {
		scaledW = 1
	}
	if scaledH < 1 {
		scaledH = 1
	}

	out := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
	draw.CatmullRom.Scale(out, out.Bounds(), img, bounds, draw.Src, nil)
	return out
}
