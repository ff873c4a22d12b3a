// avatartool composes avatar manifests into a merged mesh and texture atlas.
package main

import (
	"fmt"
	"os"

	"github.com/Faultbox/midgard-avatar/internal/config"
	"github.com/Faultbox/midgard-avatar/internal/logger"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "compose":
		os.Exit(cmdCompose(args))
	case "init-config":
		os.Exit(cmdInitConfig(args))
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`avatartool - avatar mesh and atlas composer

Usage:
  avatartool [flags] <command> [args]

Commands:
  compose <manifest.yaml>   Compose units into a merged mesh and atlas
  init-config [path]        Write the default config

Flags:
  -config <path>       Config file (default ./config.yaml or user config dir)
  -debug               Enable debug logging
  -tex-size <n>        Atlas side length in pixels
  -byte-order <order>  Mesh byte order: little, big or native
  -backend <name>      Graphics backend: soft or gl
  -out-atlas <path>    Atlas PNG output
  -out-mesh <path>     Merged mesh output (.bin, struct written as .yaml)

Examples:
  avatartool compose characters/novice.yaml
  avatartool -backend gl -tex-size 2048 compose knight.yaml
  avatartool init-config ./config.yaml`)
}

func cmdInitConfig(args []string) int {
	cfg := config.Default()
	if len(args) > 0 {
		if err := cfg.SaveTo(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("Wrote %s\n", args[0])
		return 0
	}
	path, err := cfg.Save()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("Wrote %s\n", path)
	return 0
}

// setup loads configuration and starts logging.
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, nil
}
