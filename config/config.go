// Package config loads the demo CLI's startup options. The actor package
// itself never reads a config file — Runtime is configured entirely
// through functional options — this exists only for cmd/actorsh.
package config

import (
	"errors"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Mode selects which Runtime constructor the demo should use.
type Mode string

const (
	ModeDedicated Mode = "dedicated"
	ModePool      Mode = "pool"
)

// Config mirrors the tunables runtimeConfig exposes through functional
// options, so the demo can set them from a file instead of flags.
type Config struct {
	Mode            Mode   `koanf:"mode"`
	Workers         int    `koanf:"workers"`
	BatchBound      int    `koanf:"batch_bound"`
	DefaultOverhead int    `koanf:"default_overhead"`
	DefaultCapacity int    `koanf:"default_capacity"`
	LogLevel        string `koanf:"log_level"`
}

// Default returns the same values defaultRuntimeConfig falls back to.
func Default() Config {
	return Config{
		Mode:            ModeDedicated,
		Workers:         4,
		BatchBound:      20,
		DefaultOverhead: 1024,
		DefaultCapacity: 0,
		LogLevel:        "info",
	}
}

// Load reads path as YAML and overlays it onto Default. A path that does
// not exist is not an error: the demo simply runs with defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
