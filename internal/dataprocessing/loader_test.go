package dataprocessing

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evagobi/internal/errors"
	"evagobi/internal/exporter"
	"evagobi/internal/shared/testutil"
	"evagobi/pkg/contracts/domain"
)

func writeRawDatasets(t *testing.T, dir string, ds *domain.Datasets, skip ...string) {
	t.Helper()
	skipped := make(map[string]bool)
	for _, s := range skip {
		skipped[s] = true
	}

	w := exporter.NewCSVWriter(nil)
	for _, name := range domain.DatasetNames {
		if skipped[name] {
			continue
		}
		table, err := DatasetTable(ds, name)
		require.NoError(t, err)
		require.NoError(t, w.WriteTable(filepath.Join(dir, RawFileName(name)), table))
	}
}

func TestLoader_LoadAll(t *testing.T) {
	dir := t.TempDir()
	want := testutil.NewDatasets()
	writeRawDatasets(t, dir, want)

	got, err := NewLoader(nil).LoadAll(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, domain.DatasetNames, got.Present())
	assert.Equal(t, want.TotalRecords(), got.TotalRecords())
	assert.Equal(t, want.GoogleAnalytics, got.GoogleAnalytics)
	assert.Equal(t, want.TimeSeries, got.TimeSeries)
}

func TestLoader_MissingFileIsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeRawDatasets(t, dir, testutil.NewDatasets(), domain.DatasetSocialMedia)

	logger, rec := testutil.NewTestLogger(t)
	got, err := NewLoader(logger).LoadAll(context.Background(), dir)
	require.NoError(t, err)

	assert.False(t, got.Has(domain.DatasetSocialMedia))
	assert.Nil(t, got.SocialMedia)
	assert.Len(t, got.Present(), len(domain.DatasetNames)-1)

	record, ok := rec.Find(slog.LevelWarn, "Dataset file not found")
	require.True(t, ok)
	assert.Equal(t, domain.DatasetSocialMedia, record.Attrs["dataset"])
}

func TestLoader_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, RawFileName(domain.DatasetGoogleAnalytics)),
		[]byte("date,country\nnot-a-date,UK\n"), 0644))

	_, err := NewLoader(nil).LoadAll(context.Background(), dir)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
}

func TestLoader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(nil).LoadAll(ctx, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}
