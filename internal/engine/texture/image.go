// Package texture provides the texture and image assets used by avatar
// composition, plus TGA decoding for host tooling.
package texture

import "image"

// SourceKind tells which upload path an image's pixels take.
type SourceKind int

const (
	// SourceNone means the image has no decoded pixels.
	SourceNone SourceKind = iota
	// SourceSurface is a decoded, ready-to-sample image surface.
	SourceSurface
	// SourceBuffer is a tightly packed RGBA8 byte buffer.
	SourceBuffer
)

func (k SourceKind) String() string {
	switch k {
	case SourceSurface:
		return "surface"
	case SourceBuffer:
		return "buffer"
	default:
		return "none"
	}
}

// PixelSource is the decoded pixel data of an Image: either an ImageSurface
// or a RawBuffer.
type PixelSource interface {
	Kind() SourceKind
	decoded() bool
}

// ImageSurface wraps a decoded image.
type ImageSurface struct {
	Image image.Image
}

// Kind returns SourceSurface.
func (ImageSurface) Kind() SourceKind { return SourceSurface }

func (s ImageSurface) decoded() bool { return s.Image != nil }

// RawBuffer holds RGBA8 pixels, 4 bytes per pixel, rows without padding.
type RawBuffer struct {
	Data []byte
}

// Kind returns SourceBuffer.
func (RawBuffer) Kind() SourceKind { return SourceBuffer }

func (b RawBuffer) decoded() bool { return len(b.Data) > 0 }

// Image is an image asset: dimensions plus its decoded pixels.
type Image struct {
	Width  int
	Height int
	Source PixelSource
}

// NewSurfaceImage wraps a decoded image, taking dimensions from its bounds.
func NewSurfaceImage(img image.Image) *Image {
	out := &Image{Source: ImageSurface{Image: img}}
	if img != nil {
		out.Width = img.Bounds().Dx()
		out.Height = img.Bounds().Dy()
	}
	return out
}

// NewBufferImage wraps raw RGBA8 pixels of the given size.
func NewBufferImage(data []byte, width, height int) *Image {
	return &Image{Width: width, Height: height, Source: RawBuffer{Data: data}}
}

// Kind returns the source kind, SourceNone when the image has no pixels.
func (i *Image) Kind() SourceKind {
	if !i.Decoded() {
		return SourceNone
	}
	return i.Source.Kind()
}

// Decoded reports whether the image carries pixel data.
func (i *Image) Decoded() bool {
	return i != nil && i.Source != nil && i.Source.decoded()
}
