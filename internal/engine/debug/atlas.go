// Package debug provides atlas dump utilities.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// FlipVertical returns a copy of img with its rows reversed.
//
// Both device backends read the atlas back with row 0 at the top, matching
// image.RGBA. Flip only for consumers that expect a bottom-left origin, such
// as tools that sample the PNG with v pointing up.
func FlipVertical(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	rowSize := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		src := img.PixOffset(b.Min.X, b.Max.Y-1-y)
		copy(out.Pix[y*out.Stride:y*out.Stride+rowSize], img.Pix[src:src+rowSize])
	}
	return out
}

// WriteAtlasPNG encodes img to path, creating parent directories. flip
// reverses the rows first.
func WriteAtlasPNG(img *image.RGBA, path string, flip bool) error {
	if img == nil {
		return fmt.Errorf("writing %s: no image", path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	if flip {
		img = FlipVertical(img)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}
