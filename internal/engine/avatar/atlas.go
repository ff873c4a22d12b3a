package avatar

import (
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-avatar/internal/engine/gfx"
	"github.com/Faultbox/midgard-avatar/internal/engine/texture"
	"github.com/Faultbox/midgard-avatar/pkg/math"
)

// atlasPlan accumulates copy regions per source kind. Each source list is
// parallel to its region list.
type atlasPlan struct {
	images        []image.Image
	imageRegions  []gfx.BufferTextureCopy
	buffers       [][]byte
	bufferRegions []gfx.BufferTextureCopy
}

// region returns the destination of img placed at offset.
func region(img *texture.Image, offset math.Vec2) gfx.BufferTextureCopy {
	x, y := offset.Floor()
	return gfx.BufferTextureCopy{
		TexOffset: gfx.Offset{X: x, Y: y},
		TexExtent: gfx.Extent{Width: img.Width, Height: img.Height, Depth: 1},
	}
}

// add plans the copy of a decoded image to offset. It reports false when the
// image has no pixels.
func (p *atlasPlan) add(img *texture.Image, offset math.Vec2) bool {
	if !img.Decoded() {
		return false
	}
	r := region(img, offset)
	switch src := img.Source.(type) {
	case texture.ImageSurface:
		p.images = append(p.images, src.Image)
		p.imageRegions = append(p.imageRegions, r)
	case texture.RawBuffer:
		p.buffers = append(p.buffers, src.Data)
		p.bufferRegions = append(p.bufferRegions, r)
	default:
		return false
	}
	return true
}

func (p *atlasPlan) empty() bool {
	return len(p.imageRegions) == 0 && len(p.bufferRegions) == 0
}

// upload issues one batched device call per non-empty source kind.
func (p *atlasPlan) upload(device gfx.Device, dst gfx.Texture, log *zap.Logger) {
	if p.empty() {
		return
	}
	if dst == nil {
		log.Warn("atlas upload skipped: combined texture has no storage")
		return
	}
	if len(p.images) > 0 {
		device.CopyTexImagesToTexture(p.images, dst, p.imageRegions)
	}
	if len(p.buffers) > 0 {
		device.CopyBuffersToTexture(p.buffers, dst, p.bufferRegions)
	}
	log.Debug("atlas uploaded",
		zap.Int("image_regions", len(p.imageRegions)),
		zap.Int("buffer_regions", len(p.bufferRegions)),
	)
}
