package manifest

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"

	"github.com/Faultbox/midgard-avatar/internal/engine/texture"
)

func (s *ImageSpec) load(dir string) (*texture.Image, error) {
	switch {
	case s.Path != "" && s.Raw != "":
		return nil, fmt.Errorf("%w: path and raw are exclusive", ErrInvalidManifest)
	case s.Path != "":
		return loadEncoded(resolve(dir, s.Path), s.MagentaKey)
	case s.Raw != "":
		return loadRaw(resolve(dir, s.Raw), s.Width, s.Height)
	default:
		return nil, fmt.Errorf("%w: image needs path or raw", ErrInvalidManifest)
	}
}

// loadEncoded decodes an image file into an RGBA surface.
func loadEncoded(path string, magentaKey bool) (*texture.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var img image.Image
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		// TGA is not registered with the image package
		img, err = texture.DecodeTGA(data)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}

	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		b := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Copy(rgba, image.Point{}, img, b, draw.Src, nil)
	}
	if magentaKey {
		texture.ApplyMagentaKey(rgba)
	}
	return texture.NewSurfaceImage(rgba), nil
}

// loadRaw reads tightly packed RGBA8 pixels.
func loadRaw(path string, width, height int) (*texture.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: raw image needs width and height", ErrInvalidManifest)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if want := width * height * 4; len(data) < want {
		return nil, fmt.Errorf("%w: %s has %d bytes, %dx%d needs %d",
			ErrInvalidManifest, filepath.Base(path), len(data), width, height, want)
	}
	return texture.NewBufferImage(data[:width*height*4], width, height), nil
}
