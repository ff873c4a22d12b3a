package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagTexSize   = flag.Int("tex-size", 0, "Combined atlas side length in pixels")
	flagByteOrder = flag.String("byte-order", "", "Mesh byte order: little, big or native")
	flagBackend   = flag.String("backend", "", "Graphics backend: soft or gl")
	flagOutAtlas  = flag.String("out-atlas", "", "Atlas PNG output path")
	flagOutMesh   = flag.String("out-mesh", "", "Merged mesh output path")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagTexSize > 0 {
		cfg.Composer.CombinedTexSize = *flagTexSize
	}
	if *flagByteOrder != "" {
		cfg.Composer.ByteOrder = *flagByteOrder
	}
	if *flagBackend != "" {
		cfg.Device.Backend = *flagBackend
	}
	if *flagOutAtlas != "" {
		cfg.Output.AtlasPath = *flagOutAtlas
	}
	if *flagOutMesh != "" {
		cfg.Output.MeshPath = *flagOutMesh
	}
}
