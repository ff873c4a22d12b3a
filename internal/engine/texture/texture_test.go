package texture

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/Faultbox/midgard-avatar/internal/engine/gfx"
	"github.com/Faultbox/midgard-avatar/internal/engine/gfx/soft"
)

func TestImageKinds(t *testing.T) {
	tests := []struct {
		name    string
		img     *Image
		kind    SourceKind
		decoded bool
	}{
		{"surface", NewSurfaceImage(image.NewRGBA(image.Rect(0, 0, 2, 3))), SourceSurface, true},
		{"buffer", NewBufferImage(make([]byte, 16), 2, 2), SourceBuffer, true},
		{"nil surface", NewSurfaceImage(nil), SourceNone, false},
		{"empty buffer", NewBufferImage(nil, 2, 2), SourceNone, false},
		{"no source", &Image{Width: 1, Height: 1}, SourceNone, false},
		{"nil image", nil, SourceNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.img.Decoded(); got != tt.decoded {
				t.Errorf("Decoded() = %v, want %v", got, tt.decoded)
			}
			if tt.img == nil {
				return
			}
			if got := tt.img.Kind(); got != tt.kind {
				t.Errorf("Kind() = %v, want %v", got, tt.kind)
			}
		})
	}
}

func TestSurfaceImageSize(t *testing.T) {
	img := NewSurfaceImage(image.NewRGBA(image.Rect(4, 4, 14, 9)))
	if img.Width != 10 || img.Height != 5 {
		t.Errorf("size = %dx%d, want 10x5", img.Width, img.Height)
	}
}

func TestTexture2DLifecycle(t *testing.T) {
	dev := soft.New()
	tex := NewTexture2D(dev)
	if tex.GPUTexture() != nil {
		t.Fatal("new texture should have no storage")
	}

	tex.SetFilters(gfx.FilterNearest, gfx.FilterLinear)
	if err := tex.Create(32, 16, gfx.FormatRGBA8); err != nil {
		t.Fatalf("Create: %v", err)
	}
	info := tex.GPUTexture().Info()
	if info.Width != 32 || info.Height != 16 || info.MinFilter != gfx.FilterNearest {
		t.Errorf("unexpected info %+v", info)
	}

	first := tex.GPUTexture().(*soft.Texture)
	if err := tex.Create(8, 8, gfx.FormatRGBA8); err != nil {
		t.Fatalf("recreate: %v", err)
	}
	if first.Pixels() != nil {
		t.Error("recreate did not release old storage")
	}
	if tex.Width() != 8 || tex.Height() != 8 {
		t.Errorf("size = %dx%d", tex.Width(), tex.Height())
	}

	tex.Destroy()
	tex.Destroy()
	if tex.GPUTexture() != nil || tex.Width() != 0 {
		t.Error("Destroy left storage behind")
	}

	if err := tex.Create(0, 8, gfx.FormatRGBA8); !errors.Is(err, gfx.ErrInvalidTextureSize) {
		t.Errorf("expected ErrInvalidTextureSize, got %v", err)
	}
}

// tgaHeader builds an 18-byte header for a true-color image.
func tgaHeader(imageType byte, w, h int, bpp byte, topToBottom bool) []byte {
	hdr := make([]byte, 18)
	hdr[2] = imageType
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = bpp
	if topToBottom {
		hdr[17] = 0x20
	}
	return hdr
}

func TestDecodeTGAUncompressed(t *testing.T) {
	// 2x2, bottom-up, BGR: bottom row red, green; top row blue, white.
	data := tgaHeader(TGATypeUncompressed, 2, 2, 24, false)
	data = append(data,
		0, 0, 255, 0, 255, 0,
		255, 0, 0, 255, 255, 255,
	)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	checks := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 1, color.RGBA{R: 255, A: 255}},
		{1, 1, color.RGBA{G: 255, A: 255}},
		{0, 0, color.RGBA{B: 255, A: 255}},
		{1, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255}},
	}
	for _, ck := range checks {
		if got := img.RGBAAt(ck.x, ck.y); got != ck.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", ck.x, ck.y, got, ck.want)
		}
	}
}

func TestDecodeTGARLE(t *testing.T) {
	// 3x1 top-down, 32 bpp: a run of two red pixels, then one raw half-alpha blue.
	data := tgaHeader(TGATypeRLE, 3, 1, 32, true)
	data = append(data,
		0x81, 0, 0, 255, 255,
		0x00, 255, 0, 0, 128,
	)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	want := []color.RGBA{
		{R: 255, A: 255},
		{R: 255, A: 255},
		{B: 255, A: 128},
	}
	for x, w := range want {
		if got := img.RGBAAt(x, 0); got != w {
			t.Errorf("pixel %d = %v, want %v", x, got, w)
		}
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short header", make([]byte, 10), ErrTGATruncated},
		{"short pixels", append(tgaHeader(TGATypeUncompressed, 2, 2, 24, false), 1, 2, 3), ErrTGATruncated},
		{"short rle", append(tgaHeader(TGATypeRLE, 4, 1, 24, false), 0x83, 1), ErrTGATruncated},
		{"color mapped", func() []byte { h := tgaHeader(TGATypeUncompressed, 1, 1, 24, false); h[1] = 1; return h }(), ErrTGAUnsupported},
		{"grayscale", tgaHeader(3, 1, 1, 8, false), ErrTGAUnsupported},
		{"16 bpp", tgaHeader(TGATypeUncompressed, 1, 1, 16, false), ErrTGAUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestApplyMagentaKey(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, B: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 252, G: 8, B: 251, A: 255})
	img.SetRGBA(2, 0, color.RGBA{R: 255, G: 40, B: 255, A: 255})

	ApplyMagentaKey(img)

	if got := img.RGBAAt(0, 0); got != (color.RGBA{}) {
		t.Errorf("pure magenta not keyed: %v", got)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{}) {
		t.Errorf("near magenta not keyed: %v", got)
	}
	if got := img.RGBAAt(2, 0); got.A != 255 {
		t.Errorf("non-magenta pixel keyed: %v", got)
	}
}
