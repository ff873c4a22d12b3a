package avatar

import (
	"encoding/binary"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-avatar/internal/engine/gfx"
	"github.com/Faultbox/midgard-avatar/internal/engine/mesh"
	"github.com/Faultbox/midgard-avatar/internal/engine/texture"
	"github.com/Faultbox/midgard-avatar/internal/logger"
)

// DefaultCombinedTexSize is the default atlas side length in pixels.
const DefaultCombinedTexSize = 1024

// Composer errors.
var (
	ErrInvalidTexSize = errors.New("invalid combined texture size")
	ErrNoDevice       = errors.New("no graphics device")
)

// Config holds composer options.
type Config struct {
	// CombinedTexSize is the side length of the square atlas.
	CombinedTexSize int

	// ByteOrder of the unit mesh buffers. Nil uses each mesh's own order.
	ByteOrder binary.ByteOrder
}

// DefaultConfig returns the default composer options.
func DefaultConfig() Config {
	return Config{CombinedTexSize: DefaultCombinedTexSize}
}

// Result summarizes one Combine pass.
type Result struct {
	Units         int // registered, non-nil units visited
	Merged        int // units whose geometry was merged
	ImageRegions  int // regions in the image-surface copy
	BufferRegions int // regions in the raw-buffer copy
	Skipped       int // unplaced units
	Failed        int // units excluded because of an error
}

// Composer owns the unit registry, the combined mesh and the combined
// texture. It is not safe for concurrent use.
type Composer struct {
	device   gfx.Device
	cfg      Config
	units    []*Unit
	combined *mesh.Mesh
	texture  *texture.Texture2D
	log      *zap.Logger
}

// New initializes a composer: an empty combined mesh and a square RGBA8
// combined texture with linear filtering.
func New(device gfx.Device, cfg Config) (*Composer, error) {
	if device == nil {
		return nil, ErrNoDevice
	}
	if cfg.CombinedTexSize == 0 {
		cfg.CombinedTexSize = DefaultCombinedTexSize
	}
	if cfg.CombinedTexSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTexSize, cfg.CombinedTexSize)
	}

	c := &Composer{
		device:   device,
		cfg:      cfg,
		combined: mesh.New(),
		texture:  texture.NewTexture2D(device),
		log:      logger.Named("avatar"),
	}
	c.texture.SetFilters(gfx.FilterLinear, gfx.FilterLinear)
	if err := c.createTexture(cfg.CombinedTexSize); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Composer) createTexture(size int) error {
	if err := c.texture.Create(size, size, gfx.FormatRGBA8); err != nil {
		return fmt.Errorf("allocating %dx%d atlas: %w", size, size, err)
	}
	return nil
}

// AddUnit registers a unit. Units are not validated here; unusable ones are
// skipped by Combine.
func (c *Composer) AddUnit(u *Unit) {
	c.units = append(c.units, u)
}

// Units returns the registered units in registration order.
func (c *Composer) Units() []*Unit {
	return c.units
}

// Combine rebuilds the combined mesh from every registered unit and copies
// their albedo images into the combined texture.
//
// UV offsets are applied to copies of the unit meshes, so calling Combine
// again over the same units yields the same mesh. Units that fail to remap
// or merge are excluded and logged.
func (c *Composer) Combine() Result {
	var res Result
	if c.destroyed() {
		c.log.Debug("combine on destroyed composer ignored")
		return res
	}

	c.combined.Reset()
	var plan atlasPlan

	for i, u := range c.units {
		if u == nil {
			continue
		}
		res.Units++
		if !u.Placed() {
			c.log.Debug("unit unplaced",
				zap.Int("unit", i),
				zap.String("name", u.Name),
				zap.Float32("x", u.Offset.X),
				zap.Float32("y", u.Offset.Y),
			)
			res.Skipped++
			continue
		}

		if u.HasGeometry() {
			if err := c.merge(u); err != nil {
				c.log.Warn("unit excluded",
					zap.Int("unit", i),
					zap.String("name", u.Name),
					zap.Error(err),
				)
				res.Failed++
				continue
			}
			res.Merged++
		}

		if u.HasAlbedo() {
			plan.add(u.AlbedoMap, u.Offset)
		}
	}

	plan.upload(c.device, c.texture.GPUTexture(), c.log)
	res.ImageRegions = len(plan.imageRegions)
	res.BufferRegions = len(plan.bufferRegions)

	c.log.Debug("avatar combined",
		zap.Int("units", res.Units),
		zap.Int("merged", res.Merged),
		zap.Int("vertices", c.combined.VertexCount()),
		zap.Int("image_regions", res.ImageRegions),
		zap.Int("buffer_regions", res.BufferRegions),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)
	return res
}

// merge remaps a copy of the unit's vertex data and appends it to the
// combined mesh.
func (c *Composer) merge(u *Unit) error {
	order := c.cfg.ByteOrder
	if order == nil {
		order = u.Mesh.ByteOrder()
	}
	data, err := RemappedUVs(u.Mesh.Data(), u.Mesh.Struct().VertexBundles, u.Offset, order)
	if err != nil {
		return fmt.Errorf("remapping uvs: %w", err)
	}
	if err := c.combined.Merge(u.Mesh.WithData(data)); err != nil {
		return fmt.Errorf("merging mesh: %w", err)
	}
	return nil
}

// Clear discards the combined geometry. Units and the texture are kept.
func (c *Composer) Clear() {
	if c.combined != nil {
		c.combined.Reset()
	}
}

// SetCombinedTexSize resizes the atlas, recreating the combined texture.
// Its previous contents are lost. On error the size is unchanged and the
// texture has no storage until a later call succeeds.
func (c *Composer) SetCombinedTexSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTexSize, size)
	}
	if c.destroyed() || (size == c.cfg.CombinedTexSize && c.texture.GPUTexture() != nil) {
		return nil
	}
	if err := c.createTexture(size); err != nil {
		return err
	}
	c.cfg.CombinedTexSize = size
	return nil
}

// CombinedTexSize returns the atlas side length.
func (c *Composer) CombinedTexSize() int {
	return c.cfg.CombinedTexSize
}

// Mesh returns the combined mesh, or nil after Destroy.
func (c *Composer) Mesh() *mesh.Mesh {
	return c.combined
}

// Texture returns the combined texture, or nil after Destroy.
func (c *Composer) Texture() *texture.Texture2D {
	return c.texture
}

// Destroy releases the combined texture and mesh. Calling it again is a
// no-op.
func (c *Composer) Destroy() {
	if c.texture != nil {
		c.texture.Destroy()
		c.texture = nil
	}
	if c.combined != nil {
		c.combined.Destroy()
		c.combined = nil
	}
}

func (c *Composer) destroyed() bool {
	return c.texture == nil || c.combined == nil
}
