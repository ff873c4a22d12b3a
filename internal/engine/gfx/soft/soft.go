// Package soft implements gfx.Device in system memory.
//
// Textures are *image.RGBA surfaces and copies run synchronously on the
// calling goroutine. It backs headless composition and tests.
package soft

import (
	"fmt"
	"image"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/Faultbox/midgard-avatar/internal/engine/gfx"
	"github.com/Faultbox/midgard-avatar/internal/logger"
)

// Stats counts device submissions.
type Stats struct {
	TexturesCreated int
	ImageCopyCalls  int
	BufferCopyCalls int
	RegionsCopied   int
	RegionsSkipped  int
}

// Device is a CPU-side gfx.Device.
type Device struct {
	stats Stats
}

var (
	_ gfx.Device = (*Device)(nil)
	_ gfx.Reader = (*Device)(nil)
)

// New creates a software device.
func New() *Device {
	return &Device{}
}

// Stats returns the submission counters.
func (d *Device) Stats() Stats {
	return d.stats
}

// Texture is a software texture.
type Texture struct {
	device *Device
	info   gfx.TextureInfo
	pixels *image.RGBA
}

// Info returns the allocation description.
func (t *Texture) Info() gfx.TextureInfo {
	return t.info
}

// SetFilters records the sampling filters.
func (t *Texture) SetFilters(minFilter, magFilter gfx.Filter) {
	t.info.MinFilter = minFilter
	t.info.MagFilter = magFilter
}

// Destroy releases the pixel storage.
func (t *Texture) Destroy() {
	t.pixels = nil
}

// Pixels returns the texture's backing surface, or nil once destroyed.
func (t *Texture) Pixels() *image.RGBA {
	return t.pixels
}

// CreateTexture allocates a zeroed (transparent) texture.
func (d *Device) CreateTexture(info gfx.TextureInfo) (gfx.Texture, error) {
	if err := gfx.ValidateInfo(info); err != nil {
		return nil, fmt.Errorf("creating %dx%d texture: %w", info.Width, info.Height, err)
	}
	d.stats.TexturesCreated++
	return &Texture{
		device: d,
		info:   info,
		pixels: image.NewRGBA(image.Rect(0, 0, info.Width, info.Height)),
	}, nil
}

// CopyTexImagesToTexture draws each source into its region, clipped to the
// texture bounds.
func (d *Device) CopyTexImagesToTexture(sources []image.Image, dst gfx.Texture, regions []gfx.BufferTextureCopy) {
	d.stats.ImageCopyCalls++
	tex, ok := d.target(dst)
	if !ok {
		return
	}

	n := min(len(sources), len(regions))
	for i := 0; i < n; i++ {
		src := sources[i]
		if src == nil {
			d.stats.RegionsSkipped++
			continue
		}
		d.blit(tex, src, regions[i])
	}
}

// CopyBuffersToTexture copies tightly packed RGBA8 buffers. A buffer shorter
// than its region needs is skipped.
func (d *Device) CopyBuffersToTexture(buffers [][]byte, dst gfx.Texture, regions []gfx.BufferTextureCopy) {
	d.stats.BufferCopyCalls++
	tex, ok := d.target(dst)
	if !ok {
		return
	}

	n := min(len(buffers), len(regions))
	for i := 0; i < n; i++ {
		w, h := regions[i].TexExtent.Width, regions[i].TexExtent.Height
		size := w * h * 4
		if w <= 0 || h <= 0 || len(buffers[i]) < size {
			logger.Debug("skipping short pixel buffer",
				zap.Int("region", i),
				zap.Int("have", len(buffers[i])),
				zap.Int("want", size),
			)
			d.stats.RegionsSkipped++
			continue
		}
		src := &image.RGBA{
			Pix:    buffers[i][:size],
			Stride: w * 4,
			Rect:   image.Rect(0, 0, w, h),
		}
		d.blit(tex, src, regions[i])
	}
}

// ReadTexture returns a copy of the texture's pixels.
func (d *Device) ReadTexture(t gfx.Texture) (*image.RGBA, error) {
	tex, ok := t.(*Texture)
	if !ok || tex.device != d {
		return nil, gfx.ErrForeignTexture
	}
	if tex.pixels == nil {
		return nil, gfx.ErrTextureDestroyed
	}
	out := image.NewRGBA(tex.pixels.Rect)
	copy(out.Pix, tex.pixels.Pix)
	return out, nil
}

func (d *Device) target(dst gfx.Texture) (*Texture, bool) {
	tex, ok := dst.(*Texture)
	if !ok || tex.device != d || tex.pixels == nil {
		logger.Warn("copy to unusable texture ignored")
		return nil, false
	}
	return tex, true
}

// blit writes the top-left extent of src at the region offset, replacing the
// destination pixels.
func (d *Device) blit(tex *Texture, src image.Image, region gfx.BufferTextureCopy) {
	sb := src.Bounds()
	sr := image.Rectangle{
		Min: sb.Min,
		Max: sb.Min.Add(image.Pt(region.TexExtent.Width, region.TexExtent.Height)),
	}.Intersect(sb)
	dp := image.Pt(region.TexOffset.X, region.TexOffset.Y)

	if sr.Empty() || !sr.Sub(sr.Min).Add(dp).Overlaps(tex.pixels.Rect) {
		d.stats.RegionsSkipped++
		return
	}
	draw.Copy(tex.pixels, dp, src, sr, draw.Src, nil)
	d.stats.RegionsCopied++
}
