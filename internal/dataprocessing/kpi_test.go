package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evagobi/internal/shared/testutil"
	"evagobi/pkg/contracts/domain"
)

func kpiValues(rows []domain.KPIRow) map[string]float64 {
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		out[r.Metric] = r.Value
	}
	return out
}

func TestReportingMonth(t *testing.T) {
	month, ok := ReportingMonth(testutil.NewDatasets())
	require.True(t, ok)
	assert.Equal(t, day(2024, 2, 1), month)

	_, ok = ReportingMonth(domain.NewDatasets())
	assert.False(t, ok)
}

func TestKPIDashboard(t *testing.T) {
	ds := testutil.NewDatasets()
	rows := KPIDashboard(ds.GoogleAnalytics, ds.TimeSeries, ds.CampaignPerformance, day(2024, 2, 15))

	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Traffic", "Revenue", "Performance", "ROI", "Revenue", "Campaigns"},
		[]string{rows[0].Category, rows[1].Category, rows[2].Category, rows[3].Category, rows[4].Category, rows[5].Category})

	values := kpiValues(rows)
	assert.Equal(t, 1500.0, values["Total Sessions"])
	assert.Equal(t, 10000.0, values["Total Revenue"])
	assert.Equal(t, 0.02, values["Conversion Rate"])
	assert.Equal(t, 3.0, values["ROAS"])
	assert.Equal(t, 100.0, values["Avg Order Value"])
	assert.Equal(t, 2.0, values["Total Campaigns"])
}

func TestKPIDashboard_EarlierMonthIncludesLaterRows(t *testing.T) {
	ds := testutil.NewDatasets()
	values := kpiValues(KPIDashboard(ds.GoogleAnalytics, ds.TimeSeries, ds.CampaignPerformance, day(2024, 1, 1)))
	assert.Equal(t, 1800.0, values["Total Sessions"])
}

func TestKPIDashboard_NoRowsInMonth(t *testing.T) {
	ds := testutil.NewDatasets()
	values := kpiValues(KPIDashboard(ds.GoogleAnalytics, ds.TimeSeries, ds.CampaignPerformance, day(2030, 1, 1)))

	assert.Equal(t, 0.0, values["Total Sessions"])
	assert.Equal(t, 0.0, values["Conversion Rate"])
	assert.Equal(t, 0.0, values["ROAS"])
	assert.Equal(t, 0.0, values["Total Campaigns"])
}
