package manifest

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/Faultbox/midgard-avatar/internal/engine/mesh"
	"github.com/Faultbox/midgard-avatar/pkg/vertexfmt"
)

// Build encodes the vertex rows into a mesh buffer: bundles first, then index data,
// each section 4-byte aligned.
func (s *MeshSpec) Build(order binary.ByteOrder) (*mesh.Mesh, error) {
	if len(s.Bundles) == 0 {
		return nil, fmt.Errorf("%w: mesh has no bundles", ErrInvalidManifest)
	}

	var data []byte
	st := mesh.Struct{VertexBundles: make([]vertexfmt.Bundle, len(s.Bundles))}

	for i, bs := range s.Bundles {
		b := vertexfmt.Bundle{
			Offset:     len(data),
			Stride:     bs.Stride,
			Count:      len(bs.Vertices),
			Attributes: slices.Clone(bs.Attributes),
		}
		if b.Stride == 0 {
			b.Stride = b.VertexSize()
		}
		raw, err := vertexfmt.EncodeVertices(b, bs.Vertices, order)
		if err != nil {
			return nil, fmt.Errorf("bundle %d: %w", i, err)
		}
		data = append(data, raw...)
		data = pad(data)
		st.VertexBundles[i] = b
	}

	for i, ps := range s.Primitives {
		prim := mesh.Primitive{VertexBundles: slices.Clone(ps.Bundles)}
		if len(ps.Indices) > 0 {
			stride := 2
			if slices.Max(ps.Indices) > 0xFFFF {
				stride = 4
			}
			prim.Indices = &mesh.IndexView{Offset: len(data), Count: len(ps.Indices), Stride: stride}
			data = appendIndices(data, ps.Indices, stride, order)
			data = pad(data)
		}
		if err := checkIndices(st, prim, ps.Indices); err != nil {
			return nil, fmt.Errorf("primitive %d: %w", i, err)
		}
		st.Primitives = append(st.Primitives, prim)
	}

	return mesh.FromData(data, st, order)
}

// checkIndices rejects indices past the primitive's first bundle.
func checkIndices(st mesh.Struct, prim mesh.Primitive, indices []uint32) error {
	if len(prim.VertexBundles) == 0 {
		return fmt.Errorf("%w: primitive references no bundles", ErrInvalidManifest)
	}
	first := prim.VertexBundles[0]
	if first < 0 || first >= len(st.VertexBundles) {
		return fmt.Errorf("%w: bundle %d does not exist", ErrInvalidManifest, first)
	}
	count := st.VertexBundles[first].Count
	for _, idx := range indices {
		if int(idx) >= count {
			return fmt.Errorf("%w: index %d out of %d vertices", ErrInvalidManifest, idx, count)
		}
	}
	return nil
}

func appendIndices(data []byte, indices []uint32, stride int, order binary.ByteOrder) []byte {
	start := len(data)
	data = append(data, make([]byte, len(indices)*stride)...)
	for i, idx := range indices {
		if stride == 2 {
			order.PutUint16(data[start+i*2:], uint16(idx))
		} else {
			order.PutUint32(data[start+i*4:], idx)
		}
	}
	return data
}

func pad(data []byte) []byte {
	for len(data)%4 != 0 {
		data = append(data, 0)
	}
	return data
}
