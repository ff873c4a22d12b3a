// Package mesh provides the raw mesh asset used for avatar composition: a
// byte buffer of interleaved vertex bundles and index views plus the struct
// that describes it.
package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	"github.com/Faultbox/midgard-avatar/pkg/vertexfmt"
)

// Mesh errors.
var (
	ErrInvalidStruct    = errors.New("mesh struct does not match data")
	ErrIncompatibleMesh = errors.New("incompatible mesh layout")
	ErrMeshDestroyed    = errors.New("mesh destroyed")
)

// IndexView locates a primitive's index data inside the mesh buffer.
type IndexView struct {
	Offset int `yaml:"offset"`
	Count  int `yaml:"count"`
	Stride int `yaml:"stride"` // 2 or 4 bytes
}

// Length returns the byte length of the view.
func (v IndexView) Length() int {
	return v.Count * v.Stride
}

func (v IndexView) within(size int) bool {
	if v.Offset < 0 || v.Count < 0 || v.Stride <= 0 || v.Offset > size {
		return false
	}
	return v.Count <= (size-v.Offset)/v.Stride
}

// Primitive is one submesh: the bundles it draws from and its optional
// index data.
type Primitive struct {
	VertexBundles []int      `yaml:"vertex_bundles"`
	Indices       *IndexView `yaml:"indices,omitempty"`
}

// Struct describes the layout of a mesh buffer.
type Struct struct {
	VertexBundles []vertexfmt.Bundle `yaml:"vertex_bundles"`
	Primitives    []Primitive        `yaml:"primitives"`
}

// Clone returns a deep copy of s.
func (s Struct) Clone() Struct {
	out := Struct{
		VertexBundles: make([]vertexfmt.Bundle, len(s.VertexBundles)),
		Primitives:    make([]Primitive, len(s.Primitives)),
	}
	for i, b := range s.VertexBundles {
		b.Attributes = slices.Clone(b.Attributes)
		out.VertexBundles[i] = b
	}
	for i, p := range s.Primitives {
		p.VertexBundles = slices.Clone(p.VertexBundles)
		if p.Indices != nil {
			iv := *p.Indices
			p.Indices = &iv
		}
		out.Primitives[i] = p
	}
	return out
}

// Mesh is a raw mesh buffer with its layout.
type Mesh struct {
	data      []byte
	st        Struct
	order     binary.ByteOrder
	destroyed bool
}

// New returns an empty mesh that stores little-endian data.
func New() *Mesh {
	return &Mesh{order: binary.LittleEndian}
}

// FromData wraps data laid out as st. The mesh takes ownership of data.
// A nil order means little-endian.
func FromData(data []byte, st Struct, order binary.ByteOrder) (*Mesh, error) {
	order = canonicalOrder(order)
	if err := validate(data, st); err != nil {
		return nil, err
	}
	return &Mesh{data: data, st: st, order: order}, nil
}

func validate(data []byte, st Struct) error {
	for i, b := range st.VertexBundles {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("%w: bundle %d: %v", ErrInvalidStruct, i, err)
		}
		if !b.Within(len(data)) {
			return fmt.Errorf("%w: bundle %d at %d with %d vertices of %d bytes exceeds %d bytes",
				ErrInvalidStruct, i, b.Offset, b.Count, b.Stride, len(data))
		}
	}
	for i, p := range st.Primitives {
		if len(p.VertexBundles) == 0 {
			return fmt.Errorf("%w: primitive %d references no bundles", ErrInvalidStruct, i)
		}
		for _, idx := range p.VertexBundles {
			if idx < 0 || idx >= len(st.VertexBundles) {
				return fmt.Errorf("%w: primitive %d references bundle %d", ErrInvalidStruct, i, idx)
			}
		}
		if iv := p.Indices; iv != nil {
			if iv.Stride != 2 && iv.Stride != 4 {
				return fmt.Errorf("%w: primitive %d index stride %d", ErrInvalidStruct, i, iv.Stride)
			}
			if !iv.within(len(data)) {
				return fmt.Errorf("%w: primitive %d indices exceed buffer", ErrInvalidStruct, i)
			}
		}
	}
	return nil
}

// Data returns the raw buffer. Callers must not resize it.
func (m *Mesh) Data() []byte {
	return m.data
}

// Struct returns the layout. The slices are shared with the mesh.
func (m *Mesh) Struct() Struct {
	return m.st
}

// ByteOrder returns the byte order of the buffer's scalar values.
func (m *Mesh) ByteOrder() binary.ByteOrder {
	return m.order
}

// WithData returns a mesh sharing m's layout over a different buffer of the
// same shape, e.g. a transformed copy of m.Data(). The buffer is not
// validated; Merge rejects one that does not match the layout.
func (m *Mesh) WithData(data []byte) *Mesh {
	return &Mesh{data: data, st: m.st, order: m.order}
}

// Empty reports whether the mesh holds no vertex bundles.
func (m *Mesh) Empty() bool {
	return len(m.st.VertexBundles) == 0
}

// Destroyed reports whether Destroy has been called.
func (m *Mesh) Destroyed() bool {
	return m.destroyed
}

// VertexCount returns the total vertex count over all bundles.
func (m *Mesh) VertexCount() int {
	n := 0
	for _, b := range m.st.VertexBundles {
		n += b.Count
	}
	return n
}

// Indices decodes the index data of primitive p. Non-indexed primitives
// return nil.
func (m *Mesh) Indices(p int) ([]uint32, error) {
	if p < 0 || p >= len(m.st.Primitives) {
		return nil, fmt.Errorf("primitive %d out of range", p)
	}
	iv := m.st.Primitives[p].Indices
	if iv == nil {
		return nil, nil
	}
	if !iv.within(len(m.data)) {
		return nil, fmt.Errorf("%w: primitive %d indices exceed buffer", ErrInvalidStruct, p)
	}
	return decodeIndices(m.data[iv.Offset:iv.Offset+iv.Length()], iv.Stride, m.order), nil
}

// Reset discards all geometry, leaving an empty mesh.
func (m *Mesh) Reset() {
	m.data = nil
	m.st = Struct{}
}

// Destroy releases the mesh. Calling it twice is a no-op.
func (m *Mesh) Destroy() {
	m.Reset()
	m.destroyed = true
}

func (m *Mesh) bundleBytes(i int) []byte {
	b := m.st.VertexBundles[i]
	return m.data[b.Offset:b.End()]
}

// canonicalOrder maps order to LittleEndian or BigEndian so that meshes
// built with NativeEndian compare equal to explicit orders.
func canonicalOrder(order binary.ByteOrder) binary.ByteOrder {
	if order == nil {
		return binary.LittleEndian
	}
	var probe [2]byte
	order.PutUint16(probe[:], 1)
	if probe[0] == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func decodeIndices(raw []byte, stride int, order binary.ByteOrder) []uint32 {
	out := make([]uint32, len(raw)/stride)
	for i := range out {
		if stride == 2 {
			out[i] = uint32(order.Uint16(raw[i*2:]))
		} else {
			out[i] = order.Uint32(raw[i*4:])
		}
	}
	return out
}
