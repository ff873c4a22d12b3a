package mesh

import (
	"fmt"
	"slices"

	"github.com/Faultbox/midgard-avatar/pkg/vertexfmt"
)

// Merge appends other's geometry to m in place.
//
// An empty receiver adopts a copy of other. Otherwise both meshes must have
// pairwise compatible vertex bundles and primitives drawing from the same
// bundles; vertices are appended bundle by bundle and other's indices are
// rebased past m's existing vertices. On error m is left unchanged.
func (m *Mesh) Merge(other *Mesh) error {
	if m.destroyed {
		return ErrMeshDestroyed
	}
	if other == nil || other.Empty() {
		return nil
	}
	if err := validate(other.data, other.st); err != nil {
		return err
	}
	if m.Empty() {
		return m.adopt(other)
	}
	if err := m.checkCompatible(other); err != nil {
		return err
	}

	bundles := make([]bundleData, len(m.st.VertexBundles))
	for i, b := range m.st.VertexBundles {
		raw := make([]byte, 0, b.Length()+other.st.VertexBundles[i].Length())
		raw = append(raw, m.bundleBytes(i)...)
		raw = append(raw, other.bundleBytes(i)...)
		bundles[i] = bundleData{bundle: b, raw: raw}
	}

	prims := make([]primData, len(m.st.Primitives))
	for i, p := range m.st.Primitives {
		prims[i] = primData{prim: p}
		if p.Indices == nil {
			continue
		}
		dst, err := m.Indices(i)
		if err != nil {
			return err
		}
		src, err := other.Indices(i)
		if err != nil {
			return err
		}
		base := uint32(m.st.VertexBundles[p.VertexBundles[0]].Count)
		for _, idx := range src {
			dst = append(dst, idx+base)
		}
		prims[i].indices = dst
		prims[i].stride = max(p.Indices.Stride, other.st.Primitives[i].Indices.Stride)
	}

	m.pack(bundles, prims)
	return nil
}

func (m *Mesh) checkCompatible(other *Mesh) error {
	if m.order != other.order {
		return fmt.Errorf("%w: byte order %v vs %v", ErrIncompatibleMesh, m.order, other.order)
	}
	if len(m.st.VertexBundles) != len(other.st.VertexBundles) {
		return fmt.Errorf("%w: %d vs %d vertex bundles", ErrIncompatibleMesh, len(m.st.VertexBundles), len(other.st.VertexBundles))
	}
	for i, b := range m.st.VertexBundles {
		if !b.Compatible(other.st.VertexBundles[i]) {
			return fmt.Errorf("%w: vertex bundle %d layout differs", ErrIncompatibleMesh, i)
		}
	}
	if len(m.st.Primitives) != len(other.st.Primitives) {
		return fmt.Errorf("%w: %d vs %d primitives", ErrIncompatibleMesh, len(m.st.Primitives), len(other.st.Primitives))
	}
	for i, p := range m.st.Primitives {
		q := other.st.Primitives[i]
		if !slices.Equal(p.VertexBundles, q.VertexBundles) {
			return fmt.Errorf("%w: primitive %d draws from different bundles", ErrIncompatibleMesh, i)
		}
		if (p.Indices == nil) != (q.Indices == nil) {
			return fmt.Errorf("%w: primitive %d mixes indexed and non-indexed data", ErrIncompatibleMesh, i)
		}
	}
	return nil
}

func (m *Mesh) adopt(other *Mesh) error {
	st := other.st.Clone()
	bundles := make([]bundleData, len(st.VertexBundles))
	for i, b := range st.VertexBundles {
		bundles[i] = bundleData{bundle: b, raw: slices.Clone(other.bundleBytes(i))}
	}
	prims := make([]primData, len(st.Primitives))
	for i, p := range st.Primitives {
		prims[i] = primData{prim: p}
		if p.Indices != nil {
			indices, err := other.Indices(i)
			if err != nil {
				return err
			}
			prims[i].indices = indices
			prims[i].stride = p.Indices.Stride
		}
	}
	m.order = other.order
	m.pack(bundles, prims)
	return nil
}

type bundleData struct {
	bundle vertexfmt.Bundle
	raw    []byte
}

type primData struct {
	prim    Primitive
	indices []uint32
	stride  int
}

// pack rebuilds m's buffer: vertex bundles back to back, then index views,
// each section starting on a 4-byte boundary.
func (m *Mesh) pack(bundles []bundleData, prims []primData) {
	size := 0
	for _, b := range bundles {
		size = align4(size + len(b.raw))
	}
	for i := range prims {
		if prims[i].prim.Indices == nil {
			continue
		}
		if slices.ContainsFunc(prims[i].indices, func(idx uint32) bool { return idx > 0xFFFF }) {
			prims[i].stride = 4
		}
		size = align4(size + len(prims[i].indices)*prims[i].stride)
	}

	buf := make([]byte, 0, size)
	st := Struct{
		VertexBundles: make([]vertexfmt.Bundle, len(bundles)),
		Primitives:    make([]Primitive, len(prims)),
	}
	for i, b := range bundles {
		vb := b.bundle
		vb.Offset = len(buf)
		vb.Count = len(b.raw) / vb.Stride
		buf = append(buf, b.raw...)
		buf = pad4(buf)
		st.VertexBundles[i] = vb
	}
	for i, p := range prims {
		prim := p.prim
		if prim.Indices != nil {
			prim.Indices = &IndexView{Offset: len(buf), Count: len(p.indices), Stride: p.stride}
			var scratch [4]byte
			for _, idx := range p.indices {
				if p.stride == 2 {
					m.order.PutUint16(scratch[:2], uint16(idx))
				} else {
					m.order.PutUint32(scratch[:], idx)
				}
				buf = append(buf, scratch[:p.stride]...)
			}
			buf = pad4(buf)
		}
		st.Primitives[i] = prim
	}

	m.data = buf
	m.st = st
}

func align4(n int) int {
	return (n + 3) &^ 3
}

func pad4(buf []byte) []byte {
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}
	return buf
}
