package debug

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestFlipVertical(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	img.SetRGBA(1, 0, color.RGBA{R: 255, A: 255})

	flipped := FlipVertical(img)
	if got := flipped.RGBAAt(1, 2); got.R != 255 {
		t.Errorf("expected top row moved to bottom, got %v", got)
	}
	if got := flipped.RGBAAt(1, 0); got.A != 0 {
		t.Errorf("expected transparent top row, got %v", got)
	}
}

func TestWriteAtlasPNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(0, 0, color.RGBA{G: 255, A: 255})
	path := filepath.Join(t.TempDir(), "out", "atlas.png")

	if err := WriteAtlasPNG(img, path, true); err != nil {
		t.Fatalf("WriteAtlasPNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if _, g, _, _ := decoded.At(0, 3).RGBA(); g == 0 {
		t.Error("flipped pixel missing")
	}

	// Unflipped output keeps readback row order.
	if err := WriteAtlasPNG(img, path, false); err != nil {
		t.Fatalf("WriteAtlasPNG: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err = png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if _, g, _, _ := decoded.At(0, 0).RGBA(); g == 0 {
		t.Error("unflipped write moved the top row")
	}
	if err := WriteAtlasPNG(nil, path, false); err == nil {
		t.Error("expected error for nil image")
	}
}
