package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evagobi/internal/shared/testutil"
	"evagobi/pkg/contracts/domain"
)

func TestTrafficOverview(t *testing.T) {
	ds := testutil.NewDatasets()
	rows := TrafficOverview(ds.GoogleAnalytics)

	require.Len(t, rows, len(testutil.FixtureDates))
	assert.Equal(t, []int{300, 600, 900}, []int{rows[0].Sessions, rows[1].Sessions, rows[2].Sessions})
	assert.Equal(t, 150.0, rows[0].Revenue)
	for _, r := range rows {
		assert.False(t, r.SessionsMA7d.Valid, "window not yet full")
		assert.False(t, r.SessionsMA30d.Valid)
	}
}

func TestTrafficOverview_MovingAverage(t *testing.T) {
	var input []domain.GoogleAnalyticsRow
	for i := 0; i < 8; i++ {
		input = append(input, domain.GoogleAnalyticsRow{Date: day(2024, 1, 1+i), Sessions: 10 * (i + 1)})
	}

	rows := TrafficOverview(input)
	require.Len(t, rows, 8)
	assert.False(t, rows[5].SessionsMA7d.Valid)
	assert.Equal(t, domain.Float(40), rows[6].SessionsMA7d)
	assert.Equal(t, domain.Float(50), rows[7].SessionsMA7d)
}

func TestGeographicPerformance(t *testing.T) {
	rows := GeographicPerformance(testutil.NewDatasets().GeographicPerformance)

	// two countries x two months
	require.Len(t, rows, 4)
	alphaFeb := rows[1]
	assert.Equal(t, "Alpha", alphaFeb.Country)
	assert.Equal(t, day(2024, 2, 29), alphaFeb.Date)
	assert.Equal(t, 500, alphaFeb.Clicks)
	assert.Equal(t, 5000, alphaFeb.Impressions)
	assert.Equal(t, 1000.0, alphaFeb.Revenue)
	assert.Equal(t, 250.0, alphaFeb.Cost)
	assert.Equal(t, 4.0, alphaFeb.ROAS)
	assert.Equal(t, "", alphaFeb.CountryCode)

	for _, r := range rows {
		assert.Equal(t, SafeDivide(float64(r.Clicks), float64(r.Impressions)), r.CTR)
		assert.Equal(t, SafeDivide(float64(r.Conversions), float64(r.Clicks)), r.ConversionRate)
	}
}

func TestGeographicPerformance_CountryCodeAndZeroDenominators(t *testing.T) {
	rows := GeographicPerformance([]domain.GeoRow{
		{Date: day(2024, 5, 3), Country: "Germany", Revenue: 10},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "DEU", rows[0].CountryCode)
	assert.Equal(t, 0.0, rows[0].CTR)
	assert.Equal(t, 0.0, rows[0].ConversionRate)
	assert.Equal(t, 0.0, rows[0].ROAS)
}

func TestCampaignPerformance(t *testing.T) {
	rows := CampaignPerformance(testutil.NewDatasets().CampaignPerformance)

	require.Len(t, rows, 4)
	betaJan := rows[2]
	assert.Equal(t, "Beta", betaJan.Campaign)
	assert.Equal(t, day(2024, 1, 31), betaJan.Date)
	assert.Equal(t, 200.0, betaJan.Budget)
	assert.Equal(t, 100.0, betaJan.Spend)
	assert.Equal(t, 0.5, betaJan.BudgetUtilization)
	assert.Equal(t, 3.0, betaJan.ROAS)
	assert.Equal(t, 0.5, betaJan.CPC)
}

func TestConversionFunnel(t *testing.T) {
	rows := ConversionFunnel(testutil.NewDatasets().ConversionFunnel)

	require.Len(t, rows, 2)
	jan := rows[0]
	assert.Equal(t, day(2024, 1, 31), jan.Date)
	assert.Equal(t, 300, jan.Visitors)
	assert.Equal(t, 600, jan.PageViews)
	assert.Equal(t, 150, jan.AddToCart)
	assert.Equal(t, 75, jan.CheckoutStarted)
	assert.Equal(t, 30, jan.Purchases)
	assert.Equal(t, 2.0, jan.VisitorToPageviewRate)
	assert.Equal(t, 0.25, jan.PageviewToCartRate)
	assert.Equal(t, 0.5, jan.CartToCheckoutRate)
	assert.Equal(t, 0.4, jan.CheckoutToPurchaseRate)
	assert.Equal(t, 0.1, jan.OverallConversionRate)
}

func TestDevicePerformance(t *testing.T) {
	rows := DevicePerformance(testutil.NewDatasets().DevicePerformance)

	require.Len(t, rows, 4)
	alphaFeb := rows[1]
	assert.Equal(t, 500, alphaFeb.Sessions)
	assert.InDelta(t, 0.5, alphaFeb.BounceRate, 1e-12, "mean of 0.4 and 0.6")
	assert.Equal(t, 60.0, alphaFeb.AvgSessionDuration)
	assert.Equal(t, SafeDivide(alphaFeb.Revenue, 500), alphaFeb.RevenuePerSession)
}

func TestSEOKeywords(t *testing.T) {
	rows := SEOKeywords(testutil.NewDatasets().SEOKeywords)

	// two keywords x two weeks
	require.Len(t, rows, 4)
	first := rows[0]
	assert.Equal(t, "Alpha", first.Keyword)
	assert.Equal(t, day(2024, 2, 4), first.Date)
	assert.Equal(t, 1.5, first.Ranking)
	assert.Equal(t, 150.0, first.SearchVolume)
	assert.Equal(t, 30, first.Clicks)
	assert.Equal(t, 100.0, first.OrganicTrafficPotential)

	assert.Equal(t, day(2024, 2, 11), rows[1].Date)
}

func TestSocialMedia(t *testing.T) {
	rows := SocialMedia(testutil.NewDatasets().SocialMedia)

	require.Len(t, rows, 4)
	for _, r := range rows {
		assert.Equal(t, SafeDivide(float64(r.Engagement), float64(r.Reach)), r.EngagementRate)
		assert.Equal(t, SafeDivide(float64(r.Clicks), float64(r.Impressions)), r.ClickThroughRate)
		assert.Equal(t, SafeDivide(r.Cost, float64(r.Engagement)), r.CostPerEngagement)
	}
}

func TestCompetitorAnalysis(t *testing.T) {
	rows := CompetitorAnalysis(testutil.NewDatasets().CompetitorAnalysis)

	require.Len(t, rows, 4)
	alphaFeb := rows[1]
	assert.Equal(t, 2.5, alphaFeb.Ranking)
	assert.Equal(t, alphaFeb.Ranking, alphaFeb.AvgRanking)
	assert.Equal(t, 500, alphaFeb.SearchVolume)
	assert.InDelta(t, 0.1, alphaFeb.MarketShare, 1e-12)
}

func TestRevenueTrends(t *testing.T) {
	rows := RevenueTrends(testutil.NewDatasets().TimeSeries)

	require.Len(t, rows, 2)
	assert.Equal(t, day(2024, 2, 4), rows[0].Date)
	assert.Equal(t, 3000, rows[0].TotalTraffic)
	assert.Equal(t, 6000.0, rows[0].TotalRevenue)
	assert.Equal(t, 100.0, rows[0].AvgOrderValue)
	assert.False(t, rows[0].RevenueGrowth.Valid)
	assert.False(t, rows[0].TrafficGrowth.Valid)
	assert.Equal(t, domain.Float(0), rows[1].RevenueGrowth)
}

func TestRevenueTrends_ZeroPreviousWeek(t *testing.T) {
	rows := RevenueTrends([]domain.TimeSeriesRow{
		{Date: day(2024, 1, 1), TotalRevenue: 0},
		{Date: day(2024, 1, 8), TotalRevenue: 100},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, domain.Float(0), rows[1].RevenueGrowth)
	assert.False(t, math.IsInf(rows[1].RevenueGrowth.Float64, 0))
}

// Aggregated totals match the inputs and there is one row per
// (dimension, bucket) combination.
func TestCharts_TotalsAndRowCounts(t *testing.T) {
	ds := testutil.NewDatasets()

	geo := GeographicPerformance(ds.GeographicPerformance)
	total := 0
	for _, r := range geo {
		total += r.Clicks
	}
	assert.Equal(t, SumInt(ds.GeographicPerformance, func(r domain.GeoRow) int { return r.Clicks }), total)

	keys := make(map[string]bool)
	for _, r := range ds.SocialMedia {
		keys[r.Platform+Monthly.Bucket(r.Date).String()] = true
	}
	assert.Len(t, SocialMedia(ds.SocialMedia), len(keys))
}
