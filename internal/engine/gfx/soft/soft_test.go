package soft

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/Faultbox/midgard-avatar/internal/engine/gfx"
)

func newAtlas(t *testing.T, d *Device, size int) *Texture {
	t.Helper()
	tex, err := d.CreateTexture(gfx.TextureInfo{Width: size, Height: size, Format: gfx.FormatRGBA8})
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	return tex.(*Texture)
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func region(x, y, w, h int) gfx.BufferTextureCopy {
	return gfx.BufferTextureCopy{
		TexOffset: gfx.Offset{X: x, Y: y},
		TexExtent: gfx.Extent{Width: w, Height: h, Depth: 1},
	}
}

func TestCreateTextureInvalid(t *testing.T) {
	d := New()
	tests := []gfx.TextureInfo{
		{Width: 0, Height: 4, Format: gfx.FormatRGBA8},
		{Width: 4, Height: -1, Format: gfx.FormatRGBA8},
		{Width: 4, Height: 4, Format: gfx.FormatUnknown},
	}
	for _, info := range tests {
		if _, err := d.CreateTexture(info); err == nil {
			t.Errorf("expected error for %+v", info)
		}
	}
	if d.Stats().TexturesCreated != 0 {
		t.Errorf("no textures should be counted, got %d", d.Stats().TexturesCreated)
	}
}

func TestCopyTexImagesToTexture(t *testing.T) {
	d := New()
	tex := newAtlas(t, d, 8)

	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 128, 128}
	d.CopyTexImagesToTexture(
		[]image.Image{solid(2, 2, red), solid(3, 1, blue)},
		tex,
		[]gfx.BufferTextureCopy{region(1, 1, 2, 2), region(4, 0, 3, 1)},
	)

	px := tex.Pixels()
	if got := px.RGBAAt(1, 1); got != red {
		t.Errorf("pixel (1,1) = %v, want %v", got, red)
	}
	if got := px.RGBAAt(2, 2); got != red {
		t.Errorf("pixel (2,2) = %v, want %v", got, red)
	}
	if got := px.RGBAAt(3, 3); got != (color.RGBA{}) {
		t.Errorf("pixel (3,3) should be untouched, got %v", got)
	}
	// draw.Src replaces instead of blending.
	if got := px.RGBAAt(6, 0); got != blue {
		t.Errorf("pixel (6,0) = %v, want %v", got, blue)
	}

	stats := d.Stats()
	if stats.ImageCopyCalls != 1 || stats.RegionsCopied != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestCopyBuffersToTexture(t *testing.T) {
	d := New()
	tex := newAtlas(t, d, 4)

	buf := []byte{
		10, 20, 30, 255, 40, 50, 60, 255,
		70, 80, 90, 255, 100, 110, 120, 255,
	}
	d.CopyBuffersToTexture([][]byte{buf, {1, 2, 3}}, tex,
		[]gfx.BufferTextureCopy{region(2, 2, 2, 2), region(0, 0, 2, 2)})

	px := tex.Pixels()
	want := map[image.Point]color.RGBA{
		{2, 2}: {10, 20, 30, 255},
		{3, 2}: {40, 50, 60, 255},
		{2, 3}: {70, 80, 90, 255},
		{3, 3}: {100, 110, 120, 255},
		{0, 0}: {},
	}
	for pt, c := range want {
		if got := px.RGBAAt(pt.X, pt.Y); got != c {
			t.Errorf("pixel %v = %v, want %v", pt, got, c)
		}
	}

	stats := d.Stats()
	if stats.BufferCopyCalls != 1 || stats.RegionsCopied != 1 || stats.RegionsSkipped != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestCopyClipsToTexture(t *testing.T) {
	d := New()
	tex := newAtlas(t, d, 4)
	green := color.RGBA{0, 255, 0, 255}

	d.CopyTexImagesToTexture([]image.Image{solid(4, 4, green)}, tex,
		[]gfx.BufferTextureCopy{region(2, 2, 4, 4)})
	d.CopyTexImagesToTexture([]image.Image{solid(4, 4, green)}, tex,
		[]gfx.BufferTextureCopy{region(10, 10, 4, 4)})

	px := tex.Pixels()
	if got := px.RGBAAt(3, 3); got != green {
		t.Errorf("pixel (3,3) = %v, want %v", got, green)
	}
	if got := px.RGBAAt(1, 1); got != (color.RGBA{}) {
		t.Errorf("pixel (1,1) should be untouched, got %v", got)
	}
	if d.Stats().RegionsSkipped != 1 {
		t.Errorf("out-of-bounds region should be skipped, stats %+v", d.Stats())
	}
}

func TestMismatchedListsCopyCommonPrefix(t *testing.T) {
	d := New()
	tex := newAtlas(t, d, 4)
	d.CopyTexImagesToTexture(
		[]image.Image{solid(1, 1, color.RGBA{1, 1, 1, 1}), solid(1, 1, color.RGBA{2, 2, 2, 2})},
		tex,
		[]gfx.BufferTextureCopy{region(0, 0, 1, 1)},
	)
	if d.Stats().RegionsCopied != 1 {
		t.Errorf("expected 1 region copied, got %d", d.Stats().RegionsCopied)
	}
}

func TestDestroyedTextureIsInert(t *testing.T) {
	d := New()
	tex := newAtlas(t, d, 4)
	tex.Destroy()
	tex.Destroy()

	d.CopyBuffersToTexture([][]byte{make([]byte, 16)}, tex, []gfx.BufferTextureCopy{region(0, 0, 2, 2)})
	if d.Stats().RegionsCopied != 0 {
		t.Error("copy into destroyed texture should be ignored")
	}

	if _, err := d.ReadTexture(tex); !errors.Is(err, gfx.ErrTextureDestroyed) {
		t.Errorf("expected ErrTextureDestroyed, got %v", err)
	}
}

func TestReadTextureForeign(t *testing.T) {
	a, b := New(), New()
	tex := newAtlas(t, a, 2)
	if _, err := b.ReadTexture(tex); !errors.Is(err, gfx.ErrForeignTexture) {
		t.Errorf("expected ErrForeignTexture, got %v", err)
	}

	out, err := a.ReadTexture(tex)
	if err != nil {
		t.Fatalf("ReadTexture: %v", err)
	}
	out.Pix[0] = 99
	if tex.Pixels().Pix[0] == 99 {
		t.Error("ReadTexture should return a copy")
	}
}
