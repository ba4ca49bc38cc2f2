package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "evagobi/internal/errors"
	"evagobi/internal/shared/testutil"
	"evagobi/pkg/contracts/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDiscovery_FindCSVFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.CSV", "report.xlsx", "notes.txt"} {
		writeFile(t, filepath.Join(dir, name), "x")
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0755))

	found, err := NewDiscovery(dir).FindCSVFiles(".")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "a.CSV", found[0].Name)
	assert.Equal(t, "b.csv", found[1].Name)
	assert.True(t, found[0].Exists)

	_, err = NewDiscovery(dir).FindCSVFiles("missing")
	assert.Error(t, err)
}

func TestDiscovery_FindFilesByPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "powerbi_chart1.csv"), "x")
	writeFile(t, filepath.Join(dir, "powerbi_chart2.csv"), "x")
	writeFile(t, filepath.Join(dir, "evago_ads_data.csv"), "x")

	found, err := NewDiscovery("/unused").FindFilesByPattern(dir, "powerbi_*.csv")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = NewDiscovery(dir).FindFilesByPattern(".", "[")
	assert.Error(t, err)
}

func TestGetLatestFile(t *testing.T) {
	now := time.Now()
	_, ok := GetLatestFile(nil)
	assert.False(t, ok)

	latest, ok := GetLatestFile([]FileInfo{
		{Name: "old", ModTime: now.Add(-time.Hour), Exists: true},
		{Name: "ghost", ModTime: now.Add(time.Hour)},
		{Name: "new", ModTime: now, Exists: true},
	})
	require.True(t, ok)
	assert.Equal(t, "new", latest.Name)
}

func TestCatalog_Listings(t *testing.T) {
	paths := testutil.NewPaths(t)
	writeFile(t, paths.RawDataFile(domain.DatasetGoogleAds), "date\n2024-01-01\n")
	writeFile(t, paths.ChartFile(domain.ChartRevenueTrends), "week\n2024-01-01\n")
	writeFile(t, paths.WorkbookFile, "xlsx")

	catalog := NewCatalog(paths)

	datasets := catalog.Datasets()
	require.Len(t, datasets, len(domain.DatasetNames))
	for _, fi := range datasets {
		assert.Equal(t, fi.Key == domain.DatasetGoogleAds, fi.Exists, fi.Key)
	}
	assert.Equal(t, "evago_google_ads_data.csv", datasets[1].Name)

	charts := catalog.Charts()
	require.Len(t, charts, len(domain.Charts))
	assert.Equal(t, domain.ChartTrafficOverview, charts[0].Key)
	assert.False(t, charts[0].Exists)
	assert.True(t, charts[8].Exists)

	latest, ok := catalog.LastUpdated()
	require.True(t, ok)
	assert.Equal(t, domain.ChartRevenueTrends, latest.Key)

	artifacts := map[string]bool{}
	for _, fi := range catalog.Artifacts() {
		artifacts[fi.Key] = fi.Exists
	}
	assert.Equal(t, map[string]bool{
		"data_summary": false, "chart_summary": false, "workbook": true,
		"database": false, "trends": false,
	}, artifacts)
}

func TestCatalog_ListsPreparedProfileFiles(t *testing.T) {
	paths := testutil.NewPaths(t)
	catalog := NewCatalog(paths)
	require.Len(t, catalog.Datasets(), len(domain.DatasetNames))
	require.Len(t, catalog.Charts(), len(domain.Charts))

	writeFile(t, paths.RawDataFile(domain.DatasetPartnerPerformance), "date,partner\n2024-01-01,UK Partner 1\n")
	writeFile(t, paths.ChartFile(domain.ChartPartnerPerformance), "partner,revenue\nUK Partner 1,10\n")

	datasets := catalog.Datasets()
	require.Len(t, datasets, len(domain.DatasetNames)+1)
	last := datasets[len(datasets)-1]
	assert.Equal(t, domain.DatasetPartnerPerformance, last.Key)
	assert.True(t, last.Exists)

	charts := catalog.Charts()
	require.Len(t, charts, len(domain.Charts)+1)
	assert.Equal(t, domain.ChartPartnerPerformance, charts[len(charts)-1].Key)

	table, err := catalog.ReadDataset(domain.DatasetPartnerPerformance)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
	_, err = catalog.ReadChart(domain.ChartPartnerPerformance)
	assert.NoError(t, err)
}

func TestCatalog_ReadChart(t *testing.T) {
	paths := testutil.NewPaths(t)
	writeFile(t, paths.ChartFile(domain.ChartKPIDashboard),
		"metric,value\nTotal Revenue,1200.5\n\"Conversion Rate, %\",2.1\n")
	catalog := NewCatalog(paths)

	table, err := catalog.ReadChart(domain.ChartKPIDashboard)
	require.NoError(t, err)
	assert.Equal(t, domain.ChartKPIDashboard, table.Key)
	assert.Equal(t, []string{"metric", "value"}, table.Headers)
	assert.Equal(t, [][]string{{"Total Revenue", "1200.5"}, {"Conversion Rate, %", "2.1"}}, table.Records)

	_, err = catalog.ReadChart("chart99_unknown")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	_, err = catalog.ReadChart(domain.ChartSocialMedia)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestCatalog_ReadDataset(t *testing.T) {
	paths := testutil.NewPaths(t)
	writeFile(t, paths.RawDataFile(domain.DatasetTimeSeries), "date,total_traffic\n2024-01-01,1000\n")
	catalog := NewCatalog(paths)

	table, err := catalog.ReadDataset(domain.DatasetTimeSeries)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	_, err = catalog.ReadDataset("weather")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestReadTable_Malformed(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.csv")
	writeFile(t, empty, "")
	_, err := ReadTable("empty", empty)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))

	ragged := filepath.Join(dir, "ragged.csv")
	writeFile(t, ragged, "a,b\n1,2,3\n")
	_, err = ReadTable("ragged", ragged)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

func TestCatalog_Summaries(t *testing.T) {
	paths := testutil.NewPaths(t)
	catalog := NewCatalog(paths)

	_, ok, err := catalog.ChartSummary()
	require.NoError(t, err)
	assert.False(t, ok)

	writeFile(t, paths.ChartSummaryJSON, `{"charts_prepared":2,"total_files":2,"files_created":["a.csv","b.csv"],"chart_descriptions":{"a":"A - Line Chart"}}`)
	summary, ok, err := catalog.ChartSummary()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, summary.ChartsPrepared)
	assert.Equal(t, "A - Line Chart", summary.ChartDescriptions["a"])

	writeFile(t, paths.DataSummaryJSON, `{not json`)
	_, ok, err = catalog.DataSummary()
	assert.False(t, ok)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))

	assert.False(t, catalog.ChartImage(domain.ChartRevenueTrends).Exists)
}
