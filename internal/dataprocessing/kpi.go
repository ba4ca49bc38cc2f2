package dataprocessing

import (
	"time"

	"evagobi/pkg/contracts/domain"
)

// KPI categories shown on the dashboard cards
const (
	CategoryTraffic     = "Traffic"
	CategoryRevenue     = "Revenue"
	CategoryPerformance = "Performance"
	CategoryROI         = "ROI"
	CategoryCampaigns   = "Campaigns"
)

// ReportingMonth returns the first day of the month holding the latest date
// in the KPI sources. ok is false when all of them are empty.
func ReportingMonth(ds *domain.Datasets) (month time.Time, ok bool) {
	var latest time.Time
	track := func(t time.Time) {
		if t.After(latest) {
			latest = t
		}
	}
	for _, r := range ds.GoogleAnalytics {
		track(r.Date)
	}
	for _, r := range ds.TimeSeries {
		track(r.Date)
	}
	for _, r := range ds.CampaignPerformance {
		track(r.Date)
	}
	if latest.IsZero() {
		return time.Time{}, false
	}
	return MonthStart(latest), true
}

// MonthStart truncates t to the first day of its month
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func since[T any](rows []T, date func(T) time.Time, from time.Time) []T {
	var out []T
	for _, r := range rows {
		if !date(r).Before(from) {
			out = append(out, r)
		}
	}
	return out
}

// KPIDashboard builds the headline cards from every row dated on or after the
// first day of month.
func KPIDashboard(
	traffic []domain.GoogleAnalyticsRow,
	series []domain.TimeSeriesRow,
	campaigns []domain.CampaignRow,
	month time.Time,
) []domain.KPIRow {
	from := MonthStart(month)
	traffic = since(traffic, func(r domain.GoogleAnalyticsRow) time.Time { return r.Date }, from)
	series = since(series, func(r domain.TimeSeriesRow) time.Time { return r.Date }, from)
	campaigns = since(campaigns, func(r domain.CampaignRow) time.Time { return r.Date }, from)

	unique := make(map[string]struct{})
	for _, c := range campaigns {
		unique[c.Campaign] = struct{}{}
	}

	conversions := SumInt(series, func(r domain.TimeSeriesRow) int { return r.TotalConversions })
	visits := SumInt(series, func(r domain.TimeSeriesRow) int { return r.TotalTraffic })

	return []domain.KPIRow{
		{Metric: "Total Sessions", Category: CategoryTraffic,
			Value: float64(SumInt(traffic, func(r domain.GoogleAnalyticsRow) int { return r.Sessions }))},
		{Metric: "Total Revenue", Category: CategoryRevenue,
			Value: SumFloat(series, func(r domain.TimeSeriesRow) float64 { return r.TotalRevenue })},
		{Metric: "Conversion Rate", Category: CategoryPerformance,
			Value: SafeDivide(float64(conversions), float64(visits))},
		{Metric: "ROAS", Category: CategoryROI,
			Value: Mean(campaigns, func(r domain.CampaignRow) float64 { return r.ROAS })},
		{Metric: "Avg Order Value", Category: CategoryRevenue,
			Value: Mean(series, func(r domain.TimeSeriesRow) float64 { return r.AvgOrderValue })},
		{Metric: "Total Campaigns", Category: CategoryCampaigns,
			Value: float64(len(unique))},
	}
}
