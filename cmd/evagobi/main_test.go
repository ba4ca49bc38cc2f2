package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evagobi/internal/config"
	"evagobi/pkg/contracts/domain"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	t.Logf("stderr:\n%s", stderr.String())
	return stdout.String(), err
}

func pathsFor(t *testing.T, root string) *config.Paths {
	t.Helper()
	cfg := config.Default().Paths
	cfg.RootDir = root
	paths, err := config.NewPaths(cfg)
	require.NoError(t, err)
	return paths
}

func TestGeneratePrepareAndPreview(t *testing.T) {
	root := t.TempDir()
	paths := pathsFor(t, root)

	out, err := runCLI(t, "--root", root, "--log-level", "warn",
		"generate", "--start", "2024-01-01", "--end", "2024-02-15", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "generate")
	assert.Contains(t, out, "completed")
	for _, name := range domain.DatasetNames {
		assert.FileExists(t, paths.RawDataFile(name))
	}
	assert.FileExists(t, paths.DataSummaryJSON)

	out, err = runCLI(t, "--root", root, "--log-level", "warn",
		"prepare", "--workbook=false", "--sqlite=false", "--images=false")
	require.NoError(t, err)
	assert.Contains(t, out, "prepare")
	assert.Contains(t, out, "export")
	for _, spec := range domain.Charts {
		assert.FileExists(t, paths.ChartFile(spec.Key))
	}
	assert.FileExists(t, paths.ChartSummaryJSON)
	assert.NoFileExists(t, paths.WorkbookFile)

	out, err = runCLI(t, "--root", root, "--log-level", "warn", "preview")
	require.NoError(t, err)
	assert.Contains(t, out, "EVAGO MARKETING DATA PREVIEW")
	assert.Contains(t, out, "NEXT STEPS FOR POWER BI:")
	assert.Contains(t, out, filepath.Base(paths.ChartFile(domain.Charts[0].Key)))
}

func TestRunWritesWorkbook(t *testing.T) {
	root := t.TempDir()
	paths := pathsFor(t, root)

	_, err := runCLI(t, "--root", root, "--log-level", "error",
		"run", "--start", "2024-03-01", "--end", "2024-03-31", "--sqlite=false", "--images=false")
	require.NoError(t, err)
	assert.FileExists(t, paths.WorkbookFile)
	assert.NoFileExists(t, paths.TrendsCSV)
}

func TestPrepareWithoutRawData(t *testing.T) {
	root := t.TempDir()

	out, err := runCLI(t, "--root", root, "--log-level", "error", "prepare")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prepare failed")
	assert.Contains(t, out, "failed")
}

func TestFlagValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"bad start date", []string{"generate", "--start", "01/02/2024"}, "invalid start_date"},
		{"end before start", []string{"generate", "--start", "2024-02-01", "--end", "2024-01-01"}, "before start date"},
		{"bad kpi month", []string{"prepare", "--kpi-month", "March"}, "KPIMonth"},
		{"bad log level", []string{"--log-level", "loud", "preview"}, "Level"},
		{"unexpected argument", []string{"generate", "extra"}, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--root", t.TempDir()}, tt.args...)
			_, err := runCLI(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := runCLI(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "evagobi")
}
