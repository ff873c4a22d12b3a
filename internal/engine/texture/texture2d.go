package texture

import (
	"fmt"

	"github.com/Faultbox/midgard-avatar/internal/engine/gfx"
)

// Texture2D is a texture asset backed by device storage.
type Texture2D struct {
	device    gfx.Device
	gpu       gfx.Texture
	width     int
	height    int
	format    gfx.Format
	minFilter gfx.Filter
	magFilter gfx.Filter
}

// NewTexture2D returns a texture asset with no storage yet.
func NewTexture2D(device gfx.Device) *Texture2D {
	return &Texture2D{device: device, minFilter: gfx.FilterLinear, magFilter: gfx.FilterLinear}
}

// SetFilters sets the sampling filters, applying them to existing storage.
func (t *Texture2D) SetFilters(minFilter, magFilter gfx.Filter) {
	t.minFilter = minFilter
	t.magFilter = magFilter
	if t.gpu != nil {
		t.gpu.SetFilters(minFilter, magFilter)
	}
}

// Create allocates device storage, releasing any previous storage first.
func (t *Texture2D) Create(width, height int, format gfx.Format) error {
	t.Destroy()
	gpu, err := t.device.CreateTexture(gfx.TextureInfo{
		Width:     width,
		Height:    height,
		Format:    format,
		MinFilter: t.minFilter,
		MagFilter: t.magFilter,
	})
	if err != nil {
		return fmt.Errorf("creating texture: %w", err)
	}
	t.gpu = gpu
	t.width = width
	t.height = height
	t.format = format
	return nil
}

// Destroy releases device storage. Safe to call repeatedly.
func (t *Texture2D) Destroy() {
	if t.gpu != nil {
		t.gpu.Destroy()
		t.gpu = nil
	}
	t.width, t.height = 0, 0
}

// GPUTexture returns the device handle, or nil without storage.
func (t *Texture2D) GPUTexture() gfx.Texture {
	return t.gpu
}

// Width returns the allocated width.
func (t *Texture2D) Width() int { return t.width }

// Height returns the allocated height.
func (t *Texture2D) Height() int { return t.height }

// Format returns the allocated pixel format.
func (t *Texture2D) Format() gfx.Format { return t.format }

// Filters returns the min and mag filters.
func (t *Texture2D) Filters() (minFilter, magFilter gfx.Filter) {
	return t.minFilter, t.magFilter
}
