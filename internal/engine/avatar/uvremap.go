package avatar

import (
	"encoding/binary"
	"errors"
	"fmt"
	stdmath "math"
	"slices"

	"github.com/Faultbox/midgard-avatar/pkg/math"
	"github.com/Faultbox/midgard-avatar/pkg/vertexfmt"
)

// ErrBundleOutOfRange reports a vertex bundle whose declared layout reaches
// past its buffer.
var ErrBundleOutOfRange = errors.New("vertex bundle out of range")

// uvPairSize is the size of the two float32 values rewritten per vertex.
const uvPairSize = 8

type uvTarget struct {
	bundle     vertexfmt.Bundle
	attrOffset int
}

// RemapUVs adds offset to the texture coordinate pair of every vertex in
// data, in place.
//
// Bundles without an a_texCoord* attribute are left untouched. All bundles
// are bounds checked before the first write, so on error data is unchanged.
// order must be the byte order data was written with.
func RemapUVs(data []byte, bundles []vertexfmt.Bundle, offset math.Vec2, order binary.ByteOrder) error {
	targets, err := uvTargets(data, bundles)
	if err != nil {
		return err
	}
	if offset.IsZero() {
		return nil
	}

	for _, t := range targets {
		pos := t.bundle.Offset + t.attrOffset
		for v := 0; v < t.bundle.Count; v++ {
			addFloat32(data[pos:], offset.X, order)
			addFloat32(data[pos+4:], offset.Y, order)
			pos += t.bundle.Stride
		}
	}
	return nil
}

// RemappedUVs returns a copy of data with its texture coordinates shifted by
// offset. data itself is not modified.
func RemappedUVs(data []byte, bundles []vertexfmt.Bundle, offset math.Vec2, order binary.ByteOrder) ([]byte, error) {
	out := slices.Clone(data)
	if err := RemapUVs(out, bundles, offset, order); err != nil {
		return nil, err
	}
	return out, nil
}

func uvTargets(data []byte, bundles []vertexfmt.Bundle) ([]uvTarget, error) {
	var targets []uvTarget
	for i, b := range bundles {
		attrOffset, _, found, err := b.AttributeOffset(vertexfmt.AttrTexCoord)
		if err != nil {
			return nil, fmt.Errorf("bundle %d: %w", i, err)
		}
		if !found {
			continue
		}
		if !b.Within(len(data)) {
			return nil, fmt.Errorf("%w: bundle %d at %d with %d vertices of %d bytes exceeds %d bytes",
				ErrBundleOutOfRange, i, b.Offset, b.Count, b.Stride, len(data))
		}
		if attrOffset+uvPairSize > b.Stride {
			return nil, fmt.Errorf("%w: bundle %d texcoord at %d exceeds stride %d",
				ErrBundleOutOfRange, i, attrOffset, b.Stride)
		}
		targets = append(targets, uvTarget{bundle: b, attrOffset: attrOffset})
	}
	return targets, nil
}

func addFloat32(b []byte, delta float32, order binary.ByteOrder) {
	v := stdmath.Float32frombits(order.Uint32(b))
	order.PutUint32(b, stdmath.Float32bits(v+delta))
}
