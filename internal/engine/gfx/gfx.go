// Package gfx defines the graphics device surface the avatar composer needs:
// texture allocation and the two batched texture copy paths.
package gfx

import (
	"errors"
	"image"
)

// Device errors.
var (
	ErrInvalidTextureSize = errors.New("invalid texture size")
	ErrUnsupportedFormat  = errors.New("unsupported texture format")
	ErrTextureDestroyed   = errors.New("texture destroyed")
	ErrForeignTexture     = errors.New("texture belongs to another device")
)

// Format is a texture pixel format.
type Format int

const (
	FormatUnknown Format = iota
	FormatRGBA8          // 32-bit RGBA, 8 bits per channel
)

// BytesPerPixel returns the pixel size of f, or 0 if unknown.
func (f Format) BytesPerPixel() int {
	if f == FormatRGBA8 {
		return 4
	}
	return 0
}

func (f Format) String() string {
	if f == FormatRGBA8 {
		return "RGBA8"
	}
	return "UNKNOWN"
}

// Filter is a texture sampling filter.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

func (f Filter) String() string {
	if f == FilterLinear {
		return "linear"
	}
	return "nearest"
}

// TextureInfo describes a 2D texture allocation.
type TextureInfo struct {
	Width     int
	Height    int
	Format    Format
	MinFilter Filter
	MagFilter Filter
}

// Offset is a texel position inside a texture.
type Offset struct {
	X, Y, Z int
}

// Extent is a texel size.
type Extent struct {
	Width, Height, Depth int
}

// BufferTextureCopy is the destination region of one copy into a texture.
type BufferTextureCopy struct {
	TexOffset Offset
	TexExtent Extent
}

// Rect returns the 2D destination rectangle of the region.
func (r BufferTextureCopy) Rect() image.Rectangle {
	return image.Rect(r.TexOffset.X, r.TexOffset.Y,
		r.TexOffset.X+r.TexExtent.Width, r.TexOffset.Y+r.TexExtent.Height)
}

// Texture is a device-side texture handle.
type Texture interface {
	Info() TextureInfo
	SetFilters(minFilter, magFilter Filter)
	// Destroy releases the device storage. Calling it twice is a no-op.
	Destroy()
}

// Device allocates textures and copies pixel data into them.
//
// Both copy calls take parallel lists: sources[i] is written to regions[i].
// When the lists differ in length only the common prefix is copied.
// Submissions are fire-and-forget; callers never observe completion.
type Device interface {
	CreateTexture(info TextureInfo) (Texture, error)
	// CopyTexImagesToTexture uploads decoded image surfaces.
	CopyTexImagesToTexture(sources []image.Image, dst Texture, regions []BufferTextureCopy)
	// CopyBuffersToTexture uploads tightly packed RGBA8 pixel buffers.
	CopyBuffersToTexture(buffers [][]byte, dst Texture, regions []BufferTextureCopy)
}

// Reader is implemented by devices that can read a texture back to memory.
type Reader interface {
	ReadTexture(tex Texture) (*image.RGBA, error)
}

// ValidateInfo checks that info describes an allocatable texture.
func ValidateInfo(info TextureInfo) error {
	if info.Width <= 0 || info.Height <= 0 {
		return ErrInvalidTextureSize
	}
	if info.Format.BytesPerPixel() == 0 {
		return ErrUnsupportedFormat
	}
	return nil
}
