package dataprocessing

import (
	"time"

	"evagobi/pkg/contracts/domain"
)

// Acquisition dashboard categories besides the KPI ones
const (
	CategoryMarket   = "Market"
	CategoryBrand    = "Brand"
	CategoryCustomer = "Customer"
)

// impactWindow is the number of months shown on the acquisition dashboard
const impactWindow = 3

// MonthsBefore moves t back n calendar months, clamping the day to the end
// of the target month (May 31 minus three months is Feb 29 in a leap year).
func MonthsBefore(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()-time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	lastDay := first.AddDate(0, 1, -1).Day()
	return time.Date(first.Year(), first.Month(), min(t.Day(), lastDay), 0, 0, 0, 0, time.UTC)
}

// recent keeps the rows dated after the point n months before the latest row.
// Each dataset is windowed on its own latest date.
func recent[T any](rows []T, date func(T) time.Time, n int) []T {
	var last time.Time
	for _, r := range rows {
		if d := date(r); d.After(last) {
			last = d
		}
	}
	if last.IsZero() {
		return nil
	}

	from := MonthsBefore(last, n)
	var out []T
	for _, r := range rows {
		if date(r).After(from) {
			out = append(out, r)
		}
	}
	return out
}

// RevenueUplift compares the mean daily revenue after the acquisition with
// the mean before it. It is 0 unless both periods have rows.
func RevenueUplift(impact []domain.AcquisitionImpactRow) float64 {
	var pre, post []domain.AcquisitionImpactRow
	for _, r := range impact {
		if r.IsPostAcquisition {
			post = append(post, r)
		} else {
			pre = append(pre, r)
		}
	}
	if len(pre) == 0 || len(post) == 0 {
		return 0
	}
	revenue := func(r domain.AcquisitionImpactRow) float64 { return r.TotalRevenue }
	return SafeDivide(Mean(post, revenue), Mean(pre, revenue)) - 1
}

// AcquisitionImpactDashboard builds the acquisition cards over the latest
// three months of each source. The uplift card uses the whole impact history.
func AcquisitionImpactDashboard(
	traffic []domain.GoogleAnalyticsRow,
	series []domain.TimeSeriesRow,
	campaigns []domain.CampaignRow,
	impact []domain.AcquisitionImpactRow,
) []domain.ImpactKPIRow {
	uplift := RevenueUplift(impact)

	traffic = recent(traffic, func(r domain.GoogleAnalyticsRow) time.Time { return r.Date }, impactWindow)
	series = recent(series, func(r domain.TimeSeriesRow) time.Time { return r.Date }, impactWindow)
	campaigns = recent(campaigns, func(r domain.CampaignRow) time.Time { return r.Date }, impactWindow)
	impact = recent(impact, func(r domain.AcquisitionImpactRow) time.Time { return r.Date }, impactWindow)

	return []domain.ImpactKPIRow{
		{Metric: "Total Sessions", Category: CategoryTraffic, Impact: "Global",
			Value: float64(SumInt(traffic, func(r domain.GoogleAnalyticsRow) int { return r.Sessions }))},
		{Metric: "Total Revenue", Category: CategoryRevenue, Impact: "Global",
			Value: SumFloat(series, func(r domain.TimeSeriesRow) float64 { return r.TotalRevenue })},
		{Metric: "ROAS", Category: CategoryROI, Impact: "Improved",
			Value: Mean(campaigns, func(r domain.CampaignRow) float64 { return r.ROAS })},
		{Metric: "Market Share", Category: CategoryMarket, Impact: "Expanded",
			Value: Mean(impact, func(r domain.AcquisitionImpactRow) float64 { return r.MarketShare })},
		{Metric: "Brand Awareness", Category: CategoryBrand, Impact: "Strengthened",
			Value: Mean(impact, func(r domain.AcquisitionImpactRow) float64 { return r.BrandAwareness })},
		{Metric: "Customer Satisfaction", Category: CategoryCustomer, Impact: "Improved",
			Value: Mean(impact, func(r domain.AcquisitionImpactRow) float64 { return r.CustomerSatisfaction })},
		{Metric: "Acquisition Impact Score", Category: CategoryPerformance, Impact: "Positive",
			Value: Mean(impact, func(r domain.AcquisitionImpactRow) float64 { return r.AcquisitionImpactScore })},
		{Metric: "Revenue Uplift", Category: CategoryRevenue, Impact: "Post-Acquisition",
			Value: uplift},
	}
}
