package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_OverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actorhub.yaml")
	contents := "mode: pool\nworkers: 8\nbatch_bound: 5\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ModePool, cfg.Mode)
	require.Equal(t, 8, cfg.Workers)
	require.Equal(t, 5, cfg.BatchBound)
	require.Equal(t, "debug", cfg.LogLevel)
	// Untouched keys keep their defaults.
	require.Equal(t, 1024, cfg.DefaultOverhead)
}
