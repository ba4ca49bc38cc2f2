package testutil

import (
	"testing"

	"evagobi/internal/config"
)

// NewPaths lays out the default directory tree under a fresh temp dir
func NewPaths(t *testing.T) *config.Paths {
	t.Helper()

	cfg := config.Default().Paths
	cfg.RootDir = t.TempDir()
	paths, err := config.NewPaths(cfg)
	if err != nil {
		t.Fatalf("resolve paths: %v", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("create directories: %v", err)
	}
	return paths
}
