package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-avatar/internal/config"
	"github.com/Faultbox/midgard-avatar/internal/engine/avatar"
	"github.com/Faultbox/midgard-avatar/internal/engine/debug"
	"github.com/Faultbox/midgard-avatar/internal/engine/gfx"
	"github.com/Faultbox/midgard-avatar/internal/engine/gfx/gldevice"
	"github.com/Faultbox/midgard-avatar/internal/engine/gfx/soft"
	"github.com/Faultbox/midgard-avatar/internal/engine/mesh"
	"github.com/Faultbox/midgard-avatar/internal/engine/window"
	"github.com/Faultbox/midgard-avatar/internal/logger"
	"github.com/Faultbox/midgard-avatar/internal/manifest"
)

func cmdCompose(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: avatartool compose <manifest.yaml>")
		return 1
	}

	cfg, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	if err := compose(cfg, args[0]); err != nil {
		logger.Error("compose failed", zap.String("manifest", args[0]), zap.Error(err))
		return 1
	}
	return 0
}

func compose(cfg *config.Config, manifestPath string) error {
	order, err := cfg.Composer.Order()
	if err != nil {
		return err
	}
	units, err := manifest.Load(manifestPath, order)
	if err != nil {
		return err
	}
	logger.Info("manifest loaded", zap.String("path", manifestPath), zap.Int("units", len(units)))

	device, closeDevice, err := openDevice(cfg.Device.Backend)
	if err != nil {
		return err
	}
	defer closeDevice()

	composer, err := avatar.New(device, avatar.Config{
		CombinedTexSize: cfg.Composer.CombinedTexSize,
		ByteOrder:       order,
	})
	if err != nil {
		return err
	}
	defer composer.Destroy()

	for _, u := range units {
		composer.AddUnit(u)
	}
	res := composer.Combine()
	logger.Info("avatar composed",
		zap.Int("merged", res.Merged),
		zap.Int("image_regions", res.ImageRegions),
		zap.Int("buffer_regions", res.BufferRegions),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)

	if err := writeAtlas(device, composer, cfg.Output); err != nil {
		return err
	}
	return writeMesh(composer.Mesh(), cfg.Output.MeshPath)
}

// openDevice creates the configured device and returns its cleanup.
func openDevice(backend string) (gfx.Device, func(), error) {
	switch backend {
	case config.BackendGL:
		win, err := window.New(window.DefaultConfig())
		if err != nil {
			return nil, nil, err
		}
		dev, err := gldevice.New()
		if err != nil {
			win.Close()
			return nil, nil, err
		}
		return dev, win.Close, nil
	default:
		return soft.New(), func() {}, nil
	}
}

func writeAtlas(device gfx.Device, composer *avatar.Composer, out config.OutputConfig) error {
	if out.AtlasPath == "" {
		return nil
	}
	reader, ok := device.(gfx.Reader)
	if !ok {
		logger.Warn("device cannot read textures back, atlas not written")
		return nil
	}
	img, err := reader.ReadTexture(composer.Texture().GPUTexture())
	if err != nil {
		return fmt.Errorf("reading atlas: %w", err)
	}
	if err := debug.WriteAtlasPNG(img, out.AtlasPath, out.FlipAtlas); err != nil {
		return err
	}
	logger.Info("atlas written", zap.String("path", out.AtlasPath), zap.Int("size", img.Bounds().Dx()))
	return nil
}

// writeMesh writes the raw mesh buffer to path and its struct as YAML next
// to it.
func writeMesh(m *mesh.Mesh, path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(path, m.Data(), 0644); err != nil {
		return fmt.Errorf("writing mesh data: %w", err)
	}

	st, err := yaml.Marshal(m.Struct())
	if err != nil {
		return fmt.Errorf("encoding mesh struct: %w", err)
	}
	stPath := structPath(path)
	if err := os.WriteFile(stPath, st, 0644); err != nil {
		return fmt.Errorf("writing mesh struct: %w", err)
	}

	logger.Info("mesh written",
		zap.String("data", path),
		zap.String("struct", stPath),
		zap.Int("bytes", len(m.Data())),
		zap.Int("vertices", m.VertexCount()),
	)
	return nil
}

func structPath(dataPath string) string {
	return strings.TrimSuffix(dataPath, filepath.Ext(dataPath)) + ".yaml"
}
