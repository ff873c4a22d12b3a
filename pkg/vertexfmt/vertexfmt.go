// Package vertexfmt describes the layout of interleaved vertex data.
//
// A mesh's raw vertex bytes are split into bundles. Each bundle is a run of
// Count vertices starting at Offset, Stride bytes apart, whose attributes are
// packed in declaration order with no padding between them.
package vertexfmt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// Vertex format errors.
var (
	ErrUnknownFormat     = errors.New("unknown vertex format")
	ErrComponentMismatch = errors.New("vertex component count mismatch")
	ErrUnknownByteOrder  = errors.New("unknown byte order")
	ErrStrideTooSmall    = errors.New("bundle stride smaller than vertex size")
)

// Standard attribute names.
const (
	AttrPosition  = "a_position"
	AttrNormal    = "a_normal"
	AttrTangent   = "a_tangent"
	AttrColor     = "a_color"
	AttrTexCoord  = "a_texCoord"
	AttrTexCoord1 = "a_texCoord1"
	AttrJoints    = "a_joints"
	AttrWeights   = "a_weights"
)

// Attribute is a single named vertex attribute.
type Attribute struct {
	Name   string `yaml:"name"`
	Format Format `yaml:"format"`
}

// Bundle is a contiguous run of interleaved vertices sharing one stride.
type Bundle struct {
	Offset     int         `yaml:"offset"`
	Stride     int         `yaml:"stride"`
	Count      int         `yaml:"count"`
	Attributes []Attribute `yaml:"attributes"`
}

// VertexSize returns the packed size of one vertex's attributes.
// Unknown formats count as zero bytes.
func (b Bundle) VertexSize() int {
	size := 0
	for _, attr := range b.Attributes {
		size += attr.Format.Size()
	}
	return size
}

// Length returns the number of bytes the bundle's view spans.
func (b Bundle) Length() int {
	return b.Count * b.Stride
}

// End returns the byte offset one past the bundle's last vertex.
func (b Bundle) End() int {
	return b.Offset + b.Length()
}

// Within reports whether the bundle's view lies inside a buffer of size
// bytes. It never computes Count*Stride, so huge counts cannot wrap.
func (b Bundle) Within(size int) bool {
	if b.Offset < 0 || b.Count < 0 || b.Stride <= 0 || b.Offset > size {
		return false
	}
	return b.Count <= (size-b.Offset)/b.Stride
}

// AttributeOffset returns the byte offset, relative to the start of a vertex,
// of the first attribute whose name contains match. found is false when no
// attribute matches.
func (b Bundle) AttributeOffset(match string) (offset int, attr Attribute, found bool, err error) {
	for _, a := range b.Attributes {
		if strings.Contains(a.Name, match) {
			return offset, a, true, nil
		}
		size := a.Format.Size()
		if size == 0 {
			return 0, Attribute{}, false, fmt.Errorf("%w: %q on attribute %s", ErrUnknownFormat, a.Format, a.Name)
		}
		offset += size
	}
	return 0, Attribute{}, false, nil
}

// Compatible reports whether vertices of other can be appended to b:
// same stride and the same attribute names and formats in the same order.
func (b Bundle) Compatible(other Bundle) bool {
	if b.Stride != other.Stride || len(b.Attributes) != len(other.Attributes) {
		return false
	}
	for i := range b.Attributes {
		if b.Attributes[i] != other.Attributes[i] {
			return false
		}
	}
	return true
}

// Validate checks that every attribute has a known format and that the
// attributes fit within the stride.
func (b Bundle) Validate() error {
	if b.Stride <= 0 {
		return fmt.Errorf("%w: stride %d", ErrStrideTooSmall, b.Stride)
	}
	for _, attr := range b.Attributes {
		if attr.Format.Size() == 0 {
			return fmt.Errorf("%w: %q on attribute %s", ErrUnknownFormat, attr.Format, attr.Name)
		}
	}
	if size := b.VertexSize(); size > b.Stride {
		return fmt.Errorf("%w: stride %d, vertex %d", ErrStrideTooSmall, b.Stride, size)
	}
	return nil
}

// ParseByteOrder converts "little", "big" or "native" to a binary.ByteOrder.
// An empty string means native.
func ParseByteOrder(s string) (binary.ByteOrder, error) {
	switch strings.ToLower(s) {
	case "", "native":
		return binary.NativeEndian, nil
	case "little", "le":
		return binary.LittleEndian, nil
	case "big", "be":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownByteOrder, s)
	}
}
