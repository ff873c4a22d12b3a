// Package config handles avatartool configuration loading and management.
package config

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-avatar/pkg/vertexfmt"
)

// Backends accepted by DeviceConfig.Backend.
const (
	BackendSoft = "soft"
	BackendGL   = "gl"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all tool settings.
type Config struct {
	Composer ComposerConfig `yaml:"composer"`
	Device   DeviceConfig   `yaml:"device"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ComposerConfig holds avatar composition settings.
type ComposerConfig struct {
	CombinedTexSize int    `yaml:"combined_tex_size"`
	ByteOrder       string `yaml:"byte_order"` // little, big or native
}

// DeviceConfig selects the graphics device.
type DeviceConfig struct {
	Backend string `yaml:"backend"` // soft or gl
}

// OutputConfig holds output file paths.
type OutputConfig struct {
	AtlasPath string `yaml:"atlas_path"`
	MeshPath  string `yaml:"mesh_path"` // .bin data; the struct goes next to it as .yaml
	FlipAtlas bool   `yaml:"flip_atlas"` // bottom-left origin PNG; readback is already top-down
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Composer: ComposerConfig{
			CombinedTexSize: 1024,
			ByteOrder:       "little",
		},
		Device: DeviceConfig{
			Backend: BackendSoft,
		},
		Output: OutputConfig{
			AtlasPath: "avatar_atlas.png",
			MeshPath:  "avatar_mesh.bin",
			FlipAtlas: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Order returns the configured mesh byte order.
func (c ComposerConfig) Order() (binary.ByteOrder, error) {
	return vertexfmt.ParseByteOrder(c.ByteOrder)
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Composer.CombinedTexSize <= 0 {
		return fmt.Errorf("%w: combined_tex_size %d", ErrInvalidConfig, c.Composer.CombinedTexSize)
	}
	if _, err := c.Composer.Order(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.Device.Backend {
	case BackendSoft, BackendGL:
	default:
		return fmt.Errorf("%w: backend %q", ErrInvalidConfig, c.Device.Backend)
	}
	return nil
}
