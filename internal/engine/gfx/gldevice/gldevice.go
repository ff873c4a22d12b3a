// Package gldevice implements gfx.Device on OpenGL 4.1 core.
//
// Every call must run on the thread that owns a current GL context
// (see internal/engine/window).
package gldevice

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/Faultbox/midgard-avatar/internal/engine/gfx"
	"github.com/Faultbox/midgard-avatar/internal/logger"
)

// Device issues texture uploads through the current GL context.
type Device struct{}

var (
	_ gfx.Device = (*Device)(nil)
	_ gfx.Reader = (*Device)(nil)
)

// New loads the GL function pointers.
// IMPORTANT: Must be called AFTER the OpenGL context is current!
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL device ready",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)
	return &Device{}, nil
}

// Texture is a GL_TEXTURE_2D object.
type Texture struct {
	id   uint32
	info gfx.TextureInfo
}

// ID returns the GL texture name, 0 once destroyed.
func (t *Texture) ID() uint32 {
	return t.id
}

// Info returns the allocation description.
func (t *Texture) Info() gfx.TextureInfo {
	return t.info
}

// SetFilters updates the min/mag filter parameters.
func (t *Texture) SetFilters(minFilter, magFilter gfx.Filter) {
	t.info.MinFilter = minFilter
	t.info.MagFilter = magFilter
	if t.id == 0 {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	applyFilters(t.info)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Destroy deletes the GL texture.
func (t *Texture) Destroy() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// CreateTexture allocates RGBA8 storage with undefined contents.
func (d *Device) CreateTexture(info gfx.TextureInfo) (gfx.Texture, error) {
	if err := gfx.ValidateInfo(info); err != nil {
		return nil, fmt.Errorf("creating %dx%d texture: %w", info.Width, info.Height, err)
	}

	t := &Texture{info: info}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(info.Width), int32(info.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	applyFilters(info)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		t.Destroy()
		return nil, fmt.Errorf("creating texture: GL error 0x%x", errCode)
	}

	logger.Debug("texture created",
		zap.Uint32("id", t.id),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
	)
	return t, nil
}

// CopyTexImagesToTexture uploads each surface into its region.
func (d *Device) CopyTexImagesToTexture(sources []image.Image, dst gfx.Texture, regions []gfx.BufferTextureCopy) {
	tex, ok := target(dst)
	if !ok {
		return
	}

	n := min(len(sources), len(regions))
	d.batch(tex, func() {
		for i := 0; i < n; i++ {
			if sources[i] != nil {
				upload(tex, sources[i], regions[i])
			}
		}
	})
}

// CopyBuffersToTexture uploads tightly packed RGBA8 buffers.
func (d *Device) CopyBuffersToTexture(buffers [][]byte, dst gfx.Texture, regions []gfx.BufferTextureCopy) {
	tex, ok := target(dst)
	if !ok {
		return
	}

	n := min(len(buffers), len(regions))
	d.batch(tex, func() {
		for i := 0; i < n; i++ {
			w, h := regions[i].TexExtent.Width, regions[i].TexExtent.Height
			if w <= 0 || h <= 0 || len(buffers[i]) < w*h*4 {
				continue
			}
			src := &image.RGBA{Pix: buffers[i][:w*h*4], Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
			upload(tex, src, regions[i])
		}
	})
}

// ReadTexture reads the full texture back with glGetTexImage.
func (d *Device) ReadTexture(t gfx.Texture) (*image.RGBA, error) {
	tex, ok := t.(*Texture)
	if !ok {
		return nil, gfx.ErrForeignTexture
	}
	if tex.id == 0 {
		return nil, gfx.ErrTextureDestroyed
	}

	out := image.NewRGBA(image.Rect(0, 0, tex.info.Width, tex.info.Height))
	gl.BindTexture(gl.TEXTURE_2D, tex.id)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.GetTexImage(gl.TEXTURE_2D, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(out.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		return nil, fmt.Errorf("reading texture %d: GL error 0x%x", tex.id, errCode)
	}
	return out, nil
}

// batch binds tex once around a group of sub-image uploads.
func (d *Device) batch(tex *Texture, fn func()) {
	gl.BindTexture(gl.TEXTURE_2D, tex.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	fn()
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		logger.Warn("texture upload failed", zap.Uint32("id", tex.id), zap.Uint32("gl_error", errCode))
	}
}

func target(dst gfx.Texture) (*Texture, bool) {
	tex, ok := dst.(*Texture)
	if !ok || tex.id == 0 {
		logger.Warn("copy to unusable texture ignored")
		return nil, false
	}
	return tex, true
}

// upload writes the top-left extent of src at the region offset, clipped to
// the texture.
func upload(tex *Texture, src image.Image, region gfx.BufferTextureCopy) {
	bounds := image.Rect(0, 0, tex.info.Width, tex.info.Height)
	dr := region.Rect().Intersect(bounds)
	if dr.Empty() {
		return
	}

	sb := src.Bounds()
	sr := image.Rectangle{
		Min: sb.Min.Add(dr.Min.Sub(region.Rect().Min)),
		Max: sb.Min.Add(dr.Max.Sub(region.Rect().Min)),
	}.Intersect(sb)
	if sr.Empty() {
		return
	}

	// Repack into a tight RGBA buffer matching the clipped extent.
	pixels := image.NewRGBA(image.Rect(0, 0, sr.Dx(), sr.Dy()))
	draw.Copy(pixels, image.Point{}, src, sr, draw.Src, nil)

	gl.TexSubImage2D(gl.TEXTURE_2D, 0,
		int32(dr.Min.X), int32(dr.Min.Y), int32(sr.Dx()), int32(sr.Dy()),
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels.Pix))
}

func applyFilters(info gfx.TextureInfo) {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(info.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(info.MagFilter))
}

func glFilter(f gfx.Filter) int32 {
	if f == gfx.FilterLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}
