package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	root := t.TempDir()
	cfg := Default().Paths
	cfg.RootDir = root

	paths, err := NewPaths(cfg)
	require.NoError(t, err)

	assert.Equal(t, root, paths.RootDir)
	assert.Equal(t, filepath.Join(root, "data", "raw"), paths.RawDir)
	assert.Equal(t, filepath.Join(root, "data", "powerbi"), paths.PowerBIDir)
	assert.Equal(t, filepath.Join(root, "data", "powerbi", "powerbi_data_summary.json"), paths.ChartSummaryJSON)
	assert.Equal(t, filepath.Join(root, "data", "raw", "evago_data_summary.json"), paths.DataSummaryJSON)
	assert.Equal(t, filepath.Join(root, "data", "trends", "evago_seo_trends.csv"), paths.TrendsCSV)
}

func TestNewPaths_AbsoluteEntriesKept(t *testing.T) {
	root := t.TempDir()
	abs := filepath.Join(t.TempDir(), "elsewhere")

	cfg := Default().Paths
	cfg.RootDir = root
	cfg.RawDir = abs

	paths, err := NewPaths(cfg)
	require.NoError(t, err)
	assert.Equal(t, abs, paths.RawDir)
}

func TestPathsFileNames(t *testing.T) {
	cfg := Default().Paths
	cfg.RootDir = t.TempDir()
	paths, err := NewPaths(cfg)
	require.NoError(t, err)

	assert.Equal(t, "evago_google_ads_data.csv", filepath.Base(paths.RawDataFile("google_ads")))
	assert.Equal(t, "powerbi_chart1_traffic_overview.csv", filepath.Base(paths.ChartFile("chart1_traffic_overview")))
	assert.Equal(t, "powerbi_chart9_revenue_trends.png", filepath.Base(paths.ChartImage("chart9_revenue_trends")))
}

func TestEnsureDirectories(t *testing.T) {
	cfg := Default().Paths
	cfg.RootDir = t.TempDir()
	paths, err := NewPaths(cfg)
	require.NoError(t, err)

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.RawDir, paths.PowerBIDir, paths.TrendsDir, paths.ImagesDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	assert.True(t, FileExists(paths.RawDir))
	assert.False(t, FileExists(filepath.Join(paths.RawDir, "missing.csv")))
}
