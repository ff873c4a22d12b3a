// Package manifest loads avatar definitions for avatartool.
//
// A manifest is a YAML file listing equipment units:
//
//	units:
//	  - name: body
//	    offset: {x: 0, y: 0}
//	    albedo: {path: body.tga, magenta_key: true}
//	    mesh:
//	      bundles:
//	        - attributes:
//	            - {name: a_position, format: RGB32F}
//	            - {name: a_texCoord, format: RG32F}
//	          vertices:
//	            - [0, 0, 0, 0, 0]
//	      primitives:
//	        - {bundles: [0], indices: [0, 1, 2]}
//
// Image paths are relative to the manifest. An image is either an encoded
// file (path: TGA, BMP, PNG or JPEG) or raw RGBA8 pixels (raw + width +
// height).
package manifest

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-avatar/internal/engine/avatar"
	"github.com/Faultbox/midgard-avatar/pkg/math"
	"github.com/Faultbox/midgard-avatar/pkg/vertexfmt"
)

// ErrInvalidManifest reports a manifest that cannot be turned into units.
var ErrInvalidManifest = errors.New("invalid manifest")

// Manifest is the decoded manifest file.
type Manifest struct {
	Units []UnitSpec `yaml:"units"`
}

// UnitSpec describes one unit.
type UnitSpec struct {
	Name   string     `yaml:"name"`
	Offset math.Vec2  `yaml:"offset"`
	Albedo *ImageSpec `yaml:"albedo,omitempty"`
	Alpha  *ImageSpec `yaml:"alpha,omitempty"`
	Mesh   *MeshSpec  `yaml:"mesh,omitempty"`
}

// ImageSpec locates a unit image.
type ImageSpec struct {
	Path       string `yaml:"path,omitempty"`
	Raw        string `yaml:"raw,omitempty"`
	Width      int    `yaml:"width,omitempty"`
	Height     int    `yaml:"height,omitempty"`
	MagentaKey bool   `yaml:"magenta_key,omitempty"`
}

// MeshSpec describes unit geometry as vertex rows.
type MeshSpec struct {
	Bundles    []BundleSpec    `yaml:"bundles"`
	Primitives []PrimitiveSpec `yaml:"primitives,omitempty"`
}

// BundleSpec is one vertex bundle. Each vertex row lists every component of
// every attribute in order. Stride defaults to the packed vertex size.
type BundleSpec struct {
	Stride     int                   `yaml:"stride,omitempty"`
	Attributes []vertexfmt.Attribute `yaml:"attributes"`
	Vertices   [][]float64           `yaml:"vertices"`
}

// PrimitiveSpec is one submesh.
type PrimitiveSpec struct {
	Bundles []int    `yaml:"bundles"`
	Indices []uint32 `yaml:"indices,omitempty"`
}

// Parse decodes manifest YAML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	return &m, nil
}

// Load reads the manifest at path and builds its units. Mesh data is
// encoded with order.
func Load(path string, order binary.ByteOrder) ([]*avatar.Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m.Build(filepath.Dir(path), order)
}

// Build turns the manifest into units, resolving image paths against dir.
func (m *Manifest) Build(dir string, order binary.ByteOrder) ([]*avatar.Unit, error) {
	units := make([]*avatar.Unit, 0, len(m.Units))
	for i, spec := range m.Units {
		u, err := spec.build(dir, order)
		if err != nil {
			name := spec.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("unit %s: %w", name, err)
		}
		units = append(units, u)
	}
	return units, nil
}

func (s UnitSpec) build(dir string, order binary.ByteOrder) (*avatar.Unit, error) {
	u := &avatar.Unit{Name: s.Name, Offset: s.Offset}
	var err error
	if s.Albedo != nil {
		if u.AlbedoMap, err = s.Albedo.load(dir); err != nil {
			return nil, fmt.Errorf("albedo: %w", err)
		}
	}
	if s.Alpha != nil {
		if u.AlphaMap, err = s.Alpha.load(dir); err != nil {
			return nil, fmt.Errorf("alpha: %w", err)
		}
	}
	if s.Mesh != nil {
		if u.Mesh, err = s.Mesh.Build(order); err != nil {
			return nil, fmt.Errorf("mesh: %w", err)
		}
	}
	return u, nil
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
