package dataprocessing

import (
	"time"

	"evagobi/pkg/contracts/domain"
)

// CountryCodes maps simulated country names to ISO 3166-1 alpha-3 codes for map visuals
var CountryCodes = map[string]string{
	"Germany":     "DEU",
	"Netherlands": "NLD",
	"Belgium":     "BEL",
	"France":      "FRA",
	"UK":          "GBR",
	"Austria":     "AUT",
	"Switzerland": "CHE",
}

// TrafficOverview sums sessions, users, pageviews and revenue per day across
// countries and adds 7 and 30 day trailing session averages.
func TrafficOverview(rows []domain.GoogleAnalyticsRow) []domain.TrafficOverviewRow {
	groups := GroupBy(rows, Daily, func(r domain.GoogleAnalyticsRow) time.Time { return r.Date }, nil)

	out := make([]domain.TrafficOverviewRow, len(groups))
	sessions := make([]float64, len(groups))
	for i, g := range groups {
		out[i] = domain.TrafficOverviewRow{
			Date:      g.Bucket,
			Sessions:  SumInt(g.Rows, func(r domain.GoogleAnalyticsRow) int { return r.Sessions }),
			Users:     SumInt(g.Rows, func(r domain.GoogleAnalyticsRow) int { return r.Users }),
			Pageviews: SumInt(g.Rows, func(r domain.GoogleAnalyticsRow) int { return r.Pageviews }),
			Revenue:   SumFloat(g.Rows, func(r domain.GoogleAnalyticsRow) float64 { return r.Revenue }),
		}
		sessions[i] = float64(out[i].Sessions)
	}

	ma7 := RollingMean(sessions, 7)
	ma30 := RollingMean(sessions, 30)
	for i := range out {
		out[i].SessionsMA7d = ma7[i]
		out[i].SessionsMA30d = ma30[i]
	}
	return out
}

// GeographicPerformance aggregates ad delivery per country and month
func GeographicPerformance(rows []domain.GeoRow) []domain.GeoPerformanceRow {
	groups := GroupBy(rows, Monthly,
		func(r domain.GeoRow) time.Time { return r.Date },
		func(r domain.GeoRow) string { return r.Country })

	out := make([]domain.GeoPerformanceRow, len(groups))
	for i, g := range groups {
		row := domain.GeoPerformanceRow{
			Country:     g.Key,
			Date:        g.Bucket,
			Impressions: SumInt(g.Rows, func(r domain.GeoRow) int { return r.Impressions }),
			Clicks:      SumInt(g.Rows, func(r domain.GeoRow) int { return r.Clicks }),
			Conversions: SumInt(g.Rows, func(r domain.GeoRow) int { return r.Conversions }),
			Revenue:     SumFloat(g.Rows, func(r domain.GeoRow) float64 { return r.Revenue }),
			Cost:        SumFloat(g.Rows, func(r domain.GeoRow) float64 { return r.Cost }),
			CountryCode: CountryCodes[g.Key],
		}
		row.CTR = SafeDivide(float64(row.Clicks), float64(row.Impressions))
		row.ConversionRate = SafeDivide(float64(row.Conversions), float64(row.Clicks))
		row.ROAS = SafeDivide(row.Revenue, row.Cost)
		out[i] = row
	}
	return out
}

// CampaignPerformance aggregates budget and results per campaign and month
func CampaignPerformance(rows []domain.CampaignRow) []domain.CampaignPerformanceRow {
	groups := GroupBy(rows, Monthly,
		func(r domain.CampaignRow) time.Time { return r.Date },
		func(r domain.CampaignRow) string { return r.Campaign })

	out := make([]domain.CampaignPerformanceRow, len(groups))
	for i, g := range groups {
		row := domain.CampaignPerformanceRow{
			Campaign:    g.Key,
			Date:        g.Bucket,
			Budget:      SumFloat(g.Rows, func(r domain.CampaignRow) float64 { return r.Budget }),
			Spend:       SumFloat(g.Rows, func(r domain.CampaignRow) float64 { return r.Spend }),
			Impressions: SumInt(g.Rows, func(r domain.CampaignRow) int { return r.Impressions }),
			Clicks:      SumInt(g.Rows, func(r domain.CampaignRow) int { return r.Clicks }),
			Conversions: SumInt(g.Rows, func(r domain.CampaignRow) int { return r.Conversions }),
			Revenue:     SumFloat(g.Rows, func(r domain.CampaignRow) float64 { return r.Revenue }),
		}
		row.CTR = SafeDivide(float64(row.Clicks), float64(row.Impressions))
		row.CPC = SafeDivide(row.Spend, float64(row.Clicks))
		row.ROAS = SafeDivide(row.Revenue, row.Spend)
		row.BudgetUtilization = SafeDivide(row.Spend, row.Budget)
		out[i] = row
	}
	return out
}

// ConversionFunnel sums funnel stages per month and derives the rate between
// consecutive stages.
func ConversionFunnel(rows []domain.FunnelRow) []domain.FunnelMonthRow {
	groups := GroupBy(rows, Monthly, func(r domain.FunnelRow) time.Time { return r.Date }, nil)

	out := make([]domain.FunnelMonthRow, len(groups))
	for i, g := range groups {
		row := domain.FunnelMonthRow{
			Date:            g.Bucket,
			Visitors:        SumInt(g.Rows, func(r domain.FunnelRow) int { return r.Visitors }),
			PageViews:       SumInt(g.Rows, func(r domain.FunnelRow) int { return r.PageViews }),
			AddToCart:       SumInt(g.Rows, func(r domain.FunnelRow) int { return r.AddToCart }),
			CheckoutStarted: SumInt(g.Rows, func(r domain.FunnelRow) int { return r.CheckoutStarted }),
			Purchases:       SumInt(g.Rows, func(r domain.FunnelRow) int { return r.Purchases }),
		}
		row.VisitorToPageviewRate = SafeDivide(float64(row.PageViews), float64(row.Visitors))
		row.PageviewToCartRate = SafeDivide(float64(row.AddToCart), float64(row.PageViews))
		row.CartToCheckoutRate = SafeDivide(float64(row.CheckoutStarted), float64(row.AddToCart))
		row.CheckoutToPurchaseRate = SafeDivide(float64(row.Purchases), float64(row.CheckoutStarted))
		row.OverallConversionRate = SafeDivide(float64(row.Purchases), float64(row.Visitors))
		out[i] = row
	}
	return out
}

// DevicePerformance aggregates sessions and revenue per device and month
func DevicePerformance(rows []domain.DeviceRow) []domain.DevicePerformanceRow {
	groups := GroupBy(rows, Monthly,
		func(r domain.DeviceRow) time.Time { return r.Date },
		func(r domain.DeviceRow) string { return r.Device })

	out := make([]domain.DevicePerformanceRow, len(groups))
	for i, g := range groups {
		row := domain.DevicePerformanceRow{
			Device:             g.Key,
			Date:               g.Bucket,
			Sessions:           SumInt(g.Rows, func(r domain.DeviceRow) int { return r.Sessions }),
			Conversions:        SumInt(g.Rows, func(r domain.DeviceRow) int { return r.Conversions }),
			Revenue:            SumFloat(g.Rows, func(r domain.DeviceRow) float64 { return r.Revenue }),
			BounceRate:         Mean(g.Rows, func(r domain.DeviceRow) float64 { return r.BounceRate }),
			AvgSessionDuration: Mean(g.Rows, func(r domain.DeviceRow) float64 { return r.AvgSessionDuration }),
		}
		row.ConversionRate = SafeDivide(float64(row.Conversions), float64(row.Sessions))
		row.RevenuePerSession = SafeDivide(row.Revenue, float64(row.Sessions))
		out[i] = row
	}
	return out
}

// SEOKeywords aggregates organic search per keyword and week
func SEOKeywords(rows []domain.SEOKeywordRow) []domain.KeywordWeekRow {
	groups := GroupBy(rows, Weekly,
		func(r domain.SEOKeywordRow) time.Time { return r.Date },
		func(r domain.SEOKeywordRow) string { return r.Keyword })

	out := make([]domain.KeywordWeekRow, len(groups))
	for i, g := range groups {
		row := domain.KeywordWeekRow{
			Keyword:      g.Key,
			Date:         g.Bucket,
			Ranking:      Mean(g.Rows, func(r domain.SEOKeywordRow) float64 { return float64(r.Ranking) }),
			SearchVolume: Mean(g.Rows, func(r domain.SEOKeywordRow) float64 { return float64(r.SearchVolume) }),
			Clicks:       SumInt(g.Rows, func(r domain.SEOKeywordRow) int { return r.Clicks }),
			Impressions:  SumInt(g.Rows, func(r domain.SEOKeywordRow) int { return r.Impressions }),
			CTR:          Mean(g.Rows, func(r domain.SEOKeywordRow) float64 { return r.CTR }),
			AvgPosition:  Mean(g.Rows, func(r domain.SEOKeywordRow) float64 { return r.AvgPosition }),
		}
		row.OrganicTrafficPotential = SafeDivide(row.SearchVolume, row.Ranking)
		out[i] = row
	}
	return out
}

// SocialMedia aggregates reach and engagement per platform and month
func SocialMedia(rows []domain.SocialMediaRow) []domain.SocialPerformanceRow {
	groups := GroupBy(rows, Monthly,
		func(r domain.SocialMediaRow) time.Time { return r.Date },
		func(r domain.SocialMediaRow) string { return r.Platform })

	out := make([]domain.SocialPerformanceRow, len(groups))
	for i, g := range groups {
		row := domain.SocialPerformanceRow{
			Platform:    g.Key,
			Date:        g.Bucket,
			Reach:       SumInt(g.Rows, func(r domain.SocialMediaRow) int { return r.Reach }),
			Impressions: SumInt(g.Rows, func(r domain.SocialMediaRow) int { return r.Impressions }),
			Engagement:  SumInt(g.Rows, func(r domain.SocialMediaRow) int { return r.Engagement }),
			Clicks:      SumInt(g.Rows, func(r domain.SocialMediaRow) int { return r.Clicks }),
			Conversions: SumInt(g.Rows, func(r domain.SocialMediaRow) int { return r.Conversions }),
			Cost:        SumFloat(g.Rows, func(r domain.SocialMediaRow) float64 { return r.Cost }),
		}
		row.EngagementRate = SafeDivide(float64(row.Engagement), float64(row.Reach))
		row.ClickThroughRate = SafeDivide(float64(row.Clicks), float64(row.Impressions))
		row.ConversionRate = SafeDivide(float64(row.Conversions), float64(row.Clicks))
		row.CostPerEngagement = SafeDivide(row.Cost, float64(row.Engagement))
		out[i] = row
	}
	return out
}

// CompetitorAnalysis aggregates search visibility per competitor and month
func CompetitorAnalysis(rows []domain.CompetitorRow) []domain.CompetitorMonthRow {
	groups := GroupBy(rows, Monthly,
		func(r domain.CompetitorRow) time.Time { return r.Date },
		func(r domain.CompetitorRow) string { return r.Competitor })

	out := make([]domain.CompetitorMonthRow, len(groups))
	for i, g := range groups {
		row := domain.CompetitorMonthRow{
			Competitor:       g.Key,
			Date:             g.Bucket,
			Ranking:          Mean(g.Rows, func(r domain.CompetitorRow) float64 { return float64(r.Ranking) }),
			SearchVolume:     SumInt(g.Rows, func(r domain.CompetitorRow) int { return r.SearchVolume }),
			EstimatedTraffic: SumInt(g.Rows, func(r domain.CompetitorRow) int { return r.EstimatedTraffic }),
			MarketShare:      Mean(g.Rows, func(r domain.CompetitorRow) float64 { return r.MarketShare }),
		}
		row.AvgRanking = row.Ranking
		out[i] = row
	}
	return out
}

// RevenueTrends aggregates business totals per week with week-over-week growth
func RevenueTrends(rows []domain.TimeSeriesRow) []domain.RevenueWeekRow {
	groups := GroupBy(rows, Weekly, func(r domain.TimeSeriesRow) time.Time { return r.Date }, nil)

	out := make([]domain.RevenueWeekRow, len(groups))
	revenue := make([]float64, len(groups))
	traffic := make([]float64, len(groups))
	for i, g := range groups {
		out[i] = domain.RevenueWeekRow{
			Date:              g.Bucket,
			TotalTraffic:      SumInt(g.Rows, func(r domain.TimeSeriesRow) int { return r.TotalTraffic }),
			TotalConversions:  SumInt(g.Rows, func(r domain.TimeSeriesRow) int { return r.TotalConversions }),
			TotalRevenue:      SumFloat(g.Rows, func(r domain.TimeSeriesRow) float64 { return r.TotalRevenue }),
			AvgOrderValue:     Mean(g.Rows, func(r domain.TimeSeriesRow) float64 { return r.AvgOrderValue }),
			ConversionRate:    Mean(g.Rows, func(r domain.TimeSeriesRow) float64 { return r.ConversionRate }),
			RevenuePerVisitor: Mean(g.Rows, func(r domain.TimeSeriesRow) float64 { return r.RevenuePerVisitor }),
		}
		revenue[i] = out[i].TotalRevenue
		traffic[i] = float64(out[i].TotalTraffic)
	}

	revenueGrowth := PctChange(revenue)
	trafficGrowth := PctChange(traffic)
	for i := range out {
		out[i].RevenueGrowth = revenueGrowth[i]
		out[i].TrafficGrowth = trafficGrowth[i]
	}
	return out
}

// PartnerPerformance aggregates referrals per partner and month. Commission
// rate is the effective one: commission paid over referred revenue.
func PartnerPerformance(rows []domain.PartnerRow) []domain.PartnerMonthRow {
	groups := GroupBy(rows, Monthly,
		func(r domain.PartnerRow) time.Time { return r.Date },
		func(r domain.PartnerRow) string { return r.Partner })

	out := make([]domain.PartnerMonthRow, len(groups))
	for i, g := range groups {
		row := domain.PartnerMonthRow{
			Partner:          g.Key,
			Country:          g.Rows[0].Country,
			Date:             g.Bucket,
			Referrals:        SumInt(g.Rows, func(r domain.PartnerRow) int { return r.Referrals }),
			Conversions:      SumInt(g.Rows, func(r domain.PartnerRow) int { return r.Conversions }),
			Revenue:          SumFloat(g.Rows, func(r domain.PartnerRow) float64 { return r.Revenue }),
			CommissionAmount: SumFloat(g.Rows, func(r domain.PartnerRow) float64 { return r.CommissionAmount }),
		}
		row.ConversionRate = SafeDivide(float64(row.Conversions), float64(row.Referrals))
		row.CommissionRate = SafeDivide(row.CommissionAmount, row.Revenue)
		row.NetRevenue = row.Revenue - row.CommissionAmount
		out[i] = row
	}
	return out
}
