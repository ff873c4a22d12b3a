// Package avatar composes equipment units into one mesh and one texture
// atlas so a character can be drawn in a single draw call.
//
// Each unit's texture coordinates are shifted by its placement offset, its
// geometry is merged into the combined mesh, and its albedo image is copied
// to the same offset in the combined texture.
package avatar

import (
	"github.com/Faultbox/midgard-avatar/internal/engine/mesh"
	"github.com/Faultbox/midgard-avatar/internal/engine/texture"
	"github.com/Faultbox/midgard-avatar/pkg/math"
)

// Unit is one equippable avatar part.
type Unit struct {
	Name string

	// Mesh is optional. Units without one contribute no geometry.
	Mesh *mesh.Mesh

	// Offset places the unit in atlas pixel space. A negative component
	// marks the unit as unplaced.
	Offset math.Vec2

	AlbedoMap *texture.Image

	// AlphaMap is carried for hosts that combine alpha separately.
	// Composition does not read it.
	AlphaMap *texture.Image
}

// Placed reports whether the unit's offset is valid.
func (u *Unit) Placed() bool {
	return u.Offset.NonNegative()
}

// HasGeometry reports whether the unit contributes to the combined mesh.
func (u *Unit) HasGeometry() bool {
	return u.Mesh != nil && u.Placed()
}

// HasAlbedo reports whether the unit contributes an atlas region.
func (u *Unit) HasAlbedo() bool {
	return u.AlbedoMap.Decoded() && u.Placed()
}
