package testutil

import (
	"time"

	"evagobi/pkg/contracts/domain"
)

// FixtureDates spans two months and two Monday-Sunday weeks
var FixtureDates = []time.Time{
	time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), // Wednesday
	time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),  // Thursday
	time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),  // Monday
}

// FixtureDimensions are the two values used for every dimension column
var FixtureDimensions = []string{"Alpha", "Beta"}

// NewDatasets returns all ten datasets with one row per fixture date and
// dimension. Counts are 100*(date index+1)*(dimension index+1); money columns
// are half of that, so every total can be worked out by hand.
func NewDatasets() *domain.Datasets {
	ds := domain.NewDatasets()

	for i, date := range FixtureDates {
		for j, dim := range FixtureDimensions {
			n := 100 * (i + 1) * (j + 1)
			money := float64(n) / 2

			ds.GoogleAnalytics = append(ds.GoogleAnalytics, domain.GoogleAnalyticsRow{
				Date: date, Country: dim, Sessions: n, Users: n / 2, Pageviews: n * 3,
				BounceRate: 0.4, AvgSessionDuration: 120, ConversionRate: 0.03, Revenue: money,
			})
			ds.GoogleAds = append(ds.GoogleAds, domain.GoogleAdsRow{
				Date: date, Campaign: dim, AdGroup: dim, Impressions: n * 10, Clicks: n,
				Cost: money, Conversions: n / 10, Revenue: money * 2, CTR: 0.1, CPC: 0.5,
				ConversionRate: 0.1, ROAS: 2,
			})
			ds.SEOKeywords = append(ds.SEOKeywords, domain.SEOKeywordRow{
				Date: date, Keyword: dim, Country: dim, Ranking: (i + 1) * (j + 1), SearchVolume: n,
				Clicks: n / 10, Impressions: n, CTR: 0.1, AvgPosition: float64(i + 1),
			})
			ds.SocialMedia = append(ds.SocialMedia, domain.SocialMediaRow{
				Date: date, Platform: dim, Campaign: dim, Reach: n * 10, Impressions: n * 20,
				Engagement: n, Clicks: n / 2, Conversions: n / 10, EngagementRate: 0.1, Cost: money,
			})
			ds.CompetitorAnalysis = append(ds.CompetitorAnalysis, domain.CompetitorRow{
				Date: date, Competitor: dim, Keyword: dim, Ranking: i + 1, SearchVolume: n,
				EstimatedTraffic: n / 10, MarketShare: 0.1 * float64(j+1),
			})
			ds.ConversionFunnel = append(ds.ConversionFunnel, domain.FunnelRow{
				Date: date, Country: dim, Visitors: n, PageViews: n * 2, AddToCart: n / 2,
				CheckoutStarted: n / 4, Purchases: n / 10, ConversionRate: 0.1,
			})
			ds.DevicePerformance = append(ds.DevicePerformance, domain.DeviceRow{
				Date: date, Device: dim, Country: dim, Sessions: n, Conversions: n / 10,
				Revenue: money, BounceRate: 0.2 * float64(i+1), AvgSessionDuration: 60,
			})
			ds.CampaignPerformance = append(ds.CampaignPerformance, domain.CampaignRow{
				Date: date, Campaign: dim, Budget: money * 2, Spend: money, Impressions: n * 10,
				Clicks: n, Conversions: n / 10, Revenue: money * 3, CTR: 0.1, CPC: 0.5,
				ROAS: 3, BudgetUtilization: 0.5,
			})
			ds.GeographicPerformance = append(ds.GeographicPerformance, domain.GeoRow{
				Date: date, Country: dim, Impressions: n * 10, Clicks: n, Conversions: n / 10,
				Revenue: money * 4, Cost: money, CTR: 0.1, ConversionRate: 0.1, ROAS: 4,
			})
		}

		n := 1000 * (i + 1)
		ds.TimeSeries = append(ds.TimeSeries, domain.TimeSeriesRow{
			Date: date, TotalTraffic: n, TotalConversions: n / 50, TotalRevenue: float64(n) * 2,
			AvgOrderValue: 100, ConversionRate: 0.02, RevenuePerVisitor: 2,
		})
	}

	for _, name := range domain.DatasetNames {
		ds.MarkPresent(name)
	}
	return ds
}

// AddProfileDatasets adds the partner and acquisition impact datasets on the
// fixture grid and marks them present. Partner counts follow NewDatasets with
// a 10% commission; the acquisition happens on the second fixture date, after
// which revenue doubles and the impact score is 1.5.
func AddProfileDatasets(ds *domain.Datasets) *domain.Datasets {
	for i, date := range FixtureDates {
		for j, dim := range FixtureDimensions {
			n := 100 * (i + 1) * (j + 1)
			money := float64(n) / 2
			ds.PartnerPerformance = append(ds.PartnerPerformance, domain.PartnerRow{
				Date: date, Country: "Country " + dim, Partner: dim, Referrals: n, Conversions: n / 10,
				Revenue: money, CommissionRate: 0.1, CommissionAmount: money / 10,
			})
		}

		post := i > 0
		row := domain.AcquisitionImpactRow{
			Date: date, IsPostAcquisition: post, TotalRevenue: 1000, TotalCustomers: 10,
			MarketShare: 0.2, BrandAwareness: 0.3, CustomerSatisfaction: 0.8, AcquisitionImpactScore: 1,
		}
		if post {
			row.TotalRevenue = 2000
			row.AcquisitionImpactScore = 1.5
		}
		ds.AcquisitionImpact = append(ds.AcquisitionImpact, row)
	}

	for _, name := range domain.ProfileDatasetNames {
		ds.MarkPresent(name)
	}
	return ds
}
