package vertexfmt

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeVertices packs vertices into a byte slice laid out as bundle
// describes. Each vertex is a flat list of components covering every
// attribute in order. Bytes between the packed attributes and the stride are
// left zero. The bundle's Offset and Count are ignored; the result holds
// len(vertices)*Stride bytes.
func EncodeVertices(b Bundle, vertices [][]float64, order binary.ByteOrder) ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	want := 0
	for _, attr := range b.Attributes {
		want += attr.Format.Components()
	}

	buf := make([]byte, len(vertices)*b.Stride)
	for i, vertex := range vertices {
		if len(vertex) != want {
			return nil, fmt.Errorf("%w: vertex %d has %d components, want %d", ErrComponentMismatch, i, len(vertex), want)
		}
		off := i * b.Stride
		comp := 0
		for _, attr := range b.Attributes {
			info := attr.Format.Info()
			width := info.Size / info.Components
			for c := 0; c < info.Components; c++ {
				putComponent(buf[off:off+width], info.Kind, width, vertex[comp], order)
				off += width
				comp++
			}
		}
	}
	return buf, nil
}

// DecodeVertices is the inverse of EncodeVertices for the first count
// vertices of b within data.
func DecodeVertices(b Bundle, data []byte, order binary.ByteOrder) ([][]float64, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if !b.Within(len(data)) {
		return nil, fmt.Errorf("bundle at %d with %d vertices exceeds %d bytes", b.Offset, b.Count, len(data))
	}

	out := make([][]float64, b.Count)
	for v := 0; v < b.Count; v++ {
		off := b.Offset + v*b.Stride
		var vertex []float64
		for _, attr := range b.Attributes {
			info := attr.Format.Info()
			width := info.Size / info.Components
			for c := 0; c < info.Components; c++ {
				vertex = append(vertex, getComponent(data[off:off+width], info.Kind, width, order))
				off += width
			}
		}
		out[v] = vertex
	}
	return out, nil
}

func putComponent(dst []byte, kind Kind, width int, value float64, order binary.ByteOrder) {
	switch kind {
	case KindFloat:
		order.PutUint32(dst, math.Float32bits(float32(value)))
	case KindUNorm:
		dst[0] = uint8(math.Round(clamp01(value) * 255))
	case KindUInt:
		switch width {
		case 1:
			dst[0] = uint8(value)
		case 2:
			order.PutUint16(dst, uint16(value))
		case 4:
			order.PutUint32(dst, uint32(value))
		}
	}
}

func getComponent(src []byte, kind Kind, width int, order binary.ByteOrder) float64 {
	switch kind {
	case KindFloat:
		return float64(math.Float32frombits(order.Uint32(src)))
	case KindUNorm:
		return float64(src[0]) / 255
	case KindUInt:
		switch width {
		case 1:
			return float64(src[0])
		case 2:
			return float64(order.Uint16(src))
		case 4:
			return float64(order.Uint32(src))
		}
	}
	return 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
