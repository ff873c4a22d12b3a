package vertexfmt

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies the storage type of a vertex attribute.
type Format int

// Supported attribute formats.
const (
	FormatUnknown Format = iota
	FormatR32F
	FormatRG32F
	FormatRGB32F
	FormatRGBA32F
	FormatRGBA8
	FormatRGBA8UI
	FormatRG16UI
	FormatRGBA16UI
	FormatR32UI
)

// Kind is the component storage of a format.
type Kind int

const (
	KindFloat Kind = iota
	KindUNorm
	KindUInt
)

// FormatInfo describes the byte layout of a format.
type FormatInfo struct {
	Name       string
	Size       int // bytes per attribute
	Components int
	Kind       Kind
}

var formatInfos = [...]FormatInfo{
	FormatUnknown:  {Name: "UNKNOWN"},
	FormatR32F:     {Name: "R32F", Size: 4, Components: 1, Kind: KindFloat},
	FormatRG32F:    {Name: "RG32F", Size: 8, Components: 2, Kind: KindFloat},
	FormatRGB32F:   {Name: "RGB32F", Size: 12, Components: 3, Kind: KindFloat},
	FormatRGBA32F:  {Name: "RGBA32F", Size: 16, Components: 4, Kind: KindFloat},
	FormatRGBA8:    {Name: "RGBA8", Size: 4, Components: 4, Kind: KindUNorm},
	FormatRGBA8UI:  {Name: "RGBA8UI", Size: 4, Components: 4, Kind: KindUInt},
	FormatRG16UI:   {Name: "RG16UI", Size: 4, Components: 2, Kind: KindUInt},
	FormatRGBA16UI: {Name: "RGBA16UI", Size: 8, Components: 4, Kind: KindUInt},
	FormatR32UI:    {Name: "R32UI", Size: 4, Components: 1, Kind: KindUInt},
}

// Info returns the layout of f. Unknown formats report a zero size.
func (f Format) Info() FormatInfo {
	if f < 0 || int(f) >= len(formatInfos) {
		return formatInfos[FormatUnknown]
	}
	return formatInfos[f]
}

// Size returns the attribute size in bytes, or 0 for unknown formats.
func (f Format) Size() int {
	return f.Info().Size
}

// Components returns the number of components in the format.
func (f Format) Components() int {
	return f.Info().Components
}

// String returns the format name, e.g. "RG32F".
func (f Format) String() string {
	if info := f.Info(); info.Size > 0 {
		return info.Name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat converts a format name such as "RG32F" to a Format.
func ParseFormat(s string) (Format, error) {
	for f := range formatInfos {
		if f == int(FormatUnknown) {
			continue
		}
		if strings.EqualFold(formatInfos[f].Name, s) {
			return Format(f), nil
		}
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// MarshalYAML encodes the format by name.
func (f Format) MarshalYAML() (any, error) {
	return f.String(), nil
}

// UnmarshalYAML decodes a format name.
func (f *Format) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseFormat(name)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
