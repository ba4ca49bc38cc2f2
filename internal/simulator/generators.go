package simulator

import (
	"context"
	"math"
	"time"

	dp "evagobi/internal/dataprocessing"
	"evagobi/pkg/contracts/domain"
)

// trafficBoost scales traffic by 1.3 on weekends and 1.5 in June to August
func trafficBoost(date time.Time) float64 {
	boost := 1.0
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		boost *= 1.3
	}
	if m := date.Month(); m >= time.June && m <= time.August {
		boost *= 1.5
	}
	return boost
}

// GoogleAnalytics simulates daily website traffic per country
func (s *Simulator) GoogleAnalytics(ctx context.Context) ([]domain.GoogleAnalyticsRow, error) {
	rng := s.rngFor(domain.DatasetGoogleAnalytics)
	rows := make([]domain.GoogleAnalyticsRow, 0, len(s.dates)*len(s.catalog.Markets))

	for _, date := range s.dates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, market := range s.catalog.Markets {
			base := float64(randInt(rng, 100, 1000))
			boost := trafficBoost(date)
			if market.Integrated && s.afterEvent(date) {
				boost *= 1.3
			}
			sessions := int(base * boost * uniform(rng, 0.8, 1.2))
			rows = append(rows, domain.GoogleAnalyticsRow{
				Date:               date,
				Country:            market.Name,
				Sessions:           sessions,
				Users:              int(float64(sessions) * uniform(rng, 0.7, 0.9)),
				Pageviews:          int(float64(sessions) * uniform(rng, 1.5, 3.0)),
				BounceRate:         uniform(rng, 0.3, 0.7),
				AvgSessionDuration: uniform(rng, 60, 300),
				ConversionRate:     uniform(rng, 0.01, 0.05),
				Revenue:            float64(sessions) * uniform(rng, 10, 50),
			})
		}
	}
	return rows, nil
}

// GoogleAds simulates paid search per campaign and ad group
func (s *Simulator) GoogleAds(ctx context.Context) ([]domain.GoogleAdsRow, error) {
	rng := s.rngFor(domain.DatasetGoogleAds)
	c := s.catalog
	rows := make([]domain.GoogleAdsRow, 0, len(s.dates)*len(c.Campaigns)*len(c.AdGroups))

	for _, date := range s.dates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, campaign := range c.Campaigns {
			boosted := c.EventBranded(campaign) && s.afterEvent(date)
			for _, adGroup := range c.AdGroups {
				impressions := randInt(rng, 1000, 10000)
				clicks := int(float64(impressions) * uniform(rng, 0.01, 0.05))
				cost := float64(clicks) * uniform(rng, 1.5, 4.0)
				conversions := int(float64(clicks) * uniform(rng, 0.02, 0.08))
				revenue := float64(conversions) * uniform(rng, 50, 200)
				if boosted {
					revenue *= 1.2
					conversions = int(float64(conversions) * 1.15)
				}

				rows = append(rows, domain.GoogleAdsRow{
					Date:           date,
					Campaign:       campaign,
					AdGroup:        adGroup,
					Impressions:    impressions,
					Clicks:         clicks,
					Cost:           cost,
					Conversions:    conversions,
					Revenue:        revenue,
					CTR:            dp.SafeDivide(float64(clicks), float64(impressions)),
					CPC:            dp.SafeDivide(cost, float64(clicks)),
					ConversionRate: dp.SafeDivide(float64(conversions), float64(clicks)),
					ROAS:           dp.SafeDivide(revenue, cost),
				})
			}
		}
	}
	return rows, nil
}

// SEOKeywords simulates organic rankings per country and keyword. Each
// market tracks the keywords of its own language.
func (s *Simulator) SEOKeywords(ctx context.Context) ([]domain.SEOKeywordRow, error) {
	rng := s.rngFor(domain.DatasetSEOKeywords)
	perDay := 0
	for _, market := range s.catalog.Markets {
		perDay += len(s.catalog.KeywordsFor(market))
	}
	rows := make([]domain.SEOKeywordRow, 0, len(s.dates)*perDay)

	for _, date := range s.dates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, market := range s.catalog.Markets {
			country := market.Name
			for _, keyword := range s.catalog.KeywordsFor(market) {
				ranking := randInt(rng, 1, 50)
				volume := randInt(rng, 100, 5000)
				clicks := int(float64(volume) / float64(ranking) * uniform(rng, 0.1, 0.3))
				impressions := int(float64(volume) * uniform(rng, 0.5, 1.5))

				rows = append(rows, domain.SEOKeywordRow{
					Date:         date,
					Keyword:      keyword,
					Country:      country,
					Ranking:      ranking,
					SearchVolume: volume,
					Clicks:       clicks,
					Impressions:  impressions,
					CTR:          dp.SafeDivide(float64(clicks), float64(impressions)),
					AvgPosition:  float64(ranking) + uniform(rng, -2, 2),
				})
			}
		}
	}
	return rows, nil
}

// SocialMedia simulates campaign reach and engagement per platform
func (s *Simulator) SocialMedia(ctx context.Context) ([]domain.SocialMediaRow, error) {
	rng := s.rngFor(domain.DatasetSocialMedia)
	c := s.catalog
	rows := make([]domain.SocialMediaRow, 0, len(s.dates)*len(c.Platforms)*len(c.Campaigns))

	for _, date := range s.dates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, platform := range c.Platforms {
			for _, campaign := range c.Campaigns {
				reach := randInt(rng, 5000, 50000)
				impressions := int(float64(reach) * uniform(rng, 1.2, 2.0))
				engagement := int(float64(reach) * uniform(rng, 0.01, 0.05))
				clicks := int(float64(engagement) * uniform(rng, 0.3, 0.7))
				conversions := int(float64(clicks) * uniform(rng, 0.02, 0.06))
				if c.EventBranded(campaign) && s.afterEvent(date) {
					engagement = int(float64(engagement) * 1.25)
					clicks = int(float64(clicks) * 1.2)
				}

				rows = append(rows, domain.SocialMediaRow{
					Date:           date,
					Platform:       platform,
					Campaign:       campaign,
					Reach:          reach,
					Impressions:    impressions,
					Engagement:     engagement,
					Clicks:         clicks,
					Conversions:    conversions,
					EngagementRate: dp.SafeDivide(float64(engagement), float64(reach)),
					Cost:           float64(reach) * uniform(rng, 0.01, 0.05),
				})
			}
		}
	}
	return rows, nil
}

// CompetitorAnalysis simulates competitor rankings on the leading keywords
func (s *Simulator) CompetitorAnalysis(ctx context.Context) ([]domain.CompetitorRow, error) {
	rng := s.rngFor(domain.DatasetCompetitorAnalysis)
	c := s.catalog
	keywords := c.CompetitorKeywords()
	rows := make([]domain.CompetitorRow, 0, len(s.dates)*len(c.Competitors)*len(keywords))

	for _, date := range s.dates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, competitor := range c.Competitors {
			// the acquired brand loses ground once the event has happened
			declining := c.EventBranded(competitor) && s.afterEvent(date)
			for _, keyword := range keywords {
				ranking := randInt(rng, 1, 30)
				if declining {
					ranking = min(ranking+5, 30)
				}
				volume := randInt(rng, 200, 3000)

				rows = append(rows, domain.CompetitorRow{
					Date:             date,
					Competitor:       competitor,
					Keyword:          keyword,
					Ranking:          ranking,
					SearchVolume:     volume,
					EstimatedTraffic: int(float64(volume) / float64(ranking) * uniform(rng, 0.1, 0.4)),
					MarketShare:      uniform(rng, 0.05, 0.25),
				})
			}
		}
	}
	return rows, nil
}

// ConversionFunnel simulates the checkout funnel per country
func (s *Simulator) ConversionFunnel(ctx context.Context) ([]domain.FunnelRow, error) {
	rng := s.rngFor(domain.DatasetConversionFunnel)
	rows := make([]domain.FunnelRow, 0, len(s.dates)*len(s.catalog.Markets))

	for _, date := range s.dates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, country := range s.catalog.Countries() {
			visitors := randInt(rng, 500, 3000)
			pageViews := int(float64(visitors) * uniform(rng, 1.5, 3.0))
			addToCart := int(float64(visitors) * uniform(rng, 0.05, 0.15))
			checkout := int(float64(addToCart) * uniform(rng, 0.6, 0.9))
			purchases := int(float64(checkout) * uniform(rng, 0.7, 0.95))

			rows = append(rows, domain.FunnelRow{
				Date:            date,
				Country:         country,
				Visitors:        visitors,
				PageViews:       pageViews,
				AddToCart:       addToCart,
				CheckoutStarted: checkout,
				Purchases:       purchases,
				ConversionRate:  dp.SafeDivide(float64(purchases), float64(visitors)),
			})
		}
	}
	return rows, nil
}

// DevicePerformance simulates sessions per device class and country
func (s *Simulator) DevicePerformance(ctx context.Context) ([]domain.DeviceRow, error) {
	rng := s.rngFor(domain.DatasetDevicePerformance)
	c := s.catalog
	rows := make([]domain.DeviceRow, 0, len(s.dates)*len(c.Devices)*len(c.Markets))

	for _, date := range s.dates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, device := range c.Devices {
			for _, country := range c.Countries() {
				sessions := randInt(rng, 200, 2000)
				conversions := int(float64(sessions) * uniform(rng, 0.01, 0.05))

				rows = append(rows, domain.DeviceRow{
					Date:               date,
					Device:             device,
					Country:            country,
					Sessions:           sessions,
					Conversions:        conversions,
					Revenue:            float64(conversions) * uniform(rng, 30, 150),
					BounceRate:         uniform(rng, 0.3, 0.7),
					AvgSessionDuration: uniform(rng, 60, 300),
				})
			}
		}
	}
	return rows, nil
}

// CampaignPerformance simulates daily budget and delivery per campaign
func (s *Simulator) CampaignPerformance(ctx context.Context) ([]domain.CampaignRow, error) {
	rng := s.rngFor(domain.DatasetCampaignPerformance)
	c := s.catalog
	rows := make([]domain.CampaignRow, 0, len(s.dates)*len(c.Campaigns))

	for _, date := range s.dates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, campaign := range c.Campaigns {
			budget := uniform(rng, 100, 1000)
			spend := budget * uniform(rng, 0.7, 1.1)
			if c.EventBranded(campaign) && s.afterEvent(date) {
				budget *= 1.3
				spend *= 1.25
			}
			impressions := randInt(rng, 5000, 50000)
			clicks := int(float64(impressions) * uniform(rng, 0.01, 0.04))
			conversions := int(float64(clicks) * uniform(rng, 0.02, 0.08))
			revenue := float64(conversions) * uniform(rng, 50, 200)

			rows = append(rows, domain.CampaignRow{
				Date:              date,
				Campaign:          campaign,
				Budget:            budget,
				Spend:             spend,
				Impressions:       impressions,
				Clicks:            clicks,
				Conversions:       conversions,
				Revenue:           revenue,
				CTR:               dp.SafeDivide(float64(clicks), float64(impressions)),
				CPC:               dp.SafeDivide(spend, float64(clicks)),
				ROAS:              dp.SafeDivide(revenue, spend),
				BudgetUtilization: dp.SafeDivide(spend, budget),
			})
		}
	}
	return rows, nil
}

// GeographicPerformance simulates ad delivery per country
func (s *Simulator) GeographicPerformance(ctx context.Context) ([]domain.GeoRow, error) {
	rng := s.rngFor(domain.DatasetGeographicPerformance)
	rows := make([]domain.GeoRow, 0, len(s.dates)*len(s.catalog.Markets))

	for _, date := range s.dates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, market := range s.catalog.Markets {
			impressions := randInt(rng, 2000, 20000)
			clicks := int(float64(impressions) * uniform(rng, 0.01, 0.05))
			conversions := int(float64(clicks) * uniform(rng, 0.02, 0.08))
			revenue := float64(conversions) * uniform(rng, 40, 180)
			cost := float64(clicks) * uniform(rng, 1.5, 4.0)
			if market.Integrated && s.afterEvent(date) {
				revenue *= 1.15
				conversions = int(float64(conversions) * 1.1)
			}

			rows = append(rows, domain.GeoRow{
				Date:           date,
				Country:        market.Name,
				Impressions:    impressions,
				Clicks:         clicks,
				Conversions:    conversions,
				Revenue:        revenue,
				Cost:           cost,
				CTR:            dp.SafeDivide(float64(clicks), float64(impressions)),
				ConversionRate: dp.SafeDivide(float64(conversions), float64(clicks)),
				ROAS:           dp.SafeDivide(revenue, cost),
			})
		}
	}
	return rows, nil
}

// TimeSeries simulates business totals: a linear growth of two visits per
// day since the start plus a yearly sine seasonality of +-30%. Traffic is
// 20% higher from the event date on.
func (s *Simulator) TimeSeries(ctx context.Context) ([]domain.TimeSeriesRow, error) {
	rng := s.rngFor(domain.DatasetTimeSeries)
	rows := make([]domain.TimeSeriesRow, 0, len(s.dates))
	start := s.dates[0]

	for _, date := range s.dates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		days := int(date.Sub(start).Hours() / 24)
		base := float64(1000 + days*2)
		seasonal := 1 + 0.3*math.Sin(2*math.Pi*float64(date.YearDay())/365)

		boost := 1.0
		if s.afterEvent(date) {
			boost = 1.2
		}
		traffic := int(base * seasonal * boost * uniform(rng, 0.8, 1.2))
		conversions := int(float64(traffic) * uniform(rng, 0.02, 0.06))
		revenue := float64(conversions) * uniform(rng, 80, 150)

		rows = append(rows, domain.TimeSeriesRow{
			Date:              date,
			TotalTraffic:      traffic,
			TotalConversions:  conversions,
			TotalRevenue:      revenue,
			AvgOrderValue:     dp.SafeDivide(revenue, float64(conversions)),
			ConversionRate:    dp.SafeDivide(float64(conversions), float64(traffic)),
			RevenuePerVisitor: dp.SafeDivide(revenue, float64(traffic)),
		})
	}
	return rows, nil
}

// PartnerPerformance simulates referrals from every local partner of every market
func (s *Simulator) PartnerPerformance(ctx context.Context) ([]domain.PartnerRow, error) {
	rng := s.rngFor(domain.DatasetPartnerPerformance)
	perDay := 0
	for _, market := range s.catalog.Markets {
		perDay += len(market.Partners)
	}
	rows := make([]domain.PartnerRow, 0, len(s.dates)*perDay)

	for _, date := range s.dates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, market := range s.catalog.Markets {
			for _, partner := range market.Partners {
				referrals := randInt(rng, 10, 100)
				conversions := int(float64(referrals) * uniform(rng, 0.1, 0.3))
				revenue := float64(conversions) * uniform(rng, 50, 200)
				rate := uniform(rng, 0.05, 0.15)

				rows = append(rows, domain.PartnerRow{
					Date:             date,
					Country:          market.Name,
					Partner:          partner,
					Referrals:        referrals,
					Conversions:      conversions,
					Revenue:          revenue,
					CommissionRate:   rate,
					CommissionAmount: revenue * rate,
				})
			}
		}
	}
	return rows, nil
}

// AcquisitionImpact simulates the business-wide standing per day. From the
// event date on, revenue, customers and market share grow by 20-50% and brand
// awareness and satisfaction by 5-15%.
func (s *Simulator) AcquisitionImpact(ctx context.Context) ([]domain.AcquisitionImpactRow, error) {
	rng := s.rngFor(domain.DatasetAcquisitionImpact)
	rows := make([]domain.AcquisitionImpactRow, 0, len(s.dates))

	for _, date := range s.dates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := domain.AcquisitionImpactRow{
			Date:                   date,
			TotalRevenue:           uniform(rng, 50000, 150000),
			TotalCustomers:         randInt(rng, 200, 800),
			MarketShare:            uniform(rng, 0.15, 0.35),
			BrandAwareness:         uniform(rng, 0.25, 0.55),
			CustomerSatisfaction:   uniform(rng, 0.7, 0.95),
			AcquisitionImpactScore: 1,
		}
		if s.afterEvent(date) {
			row.IsPostAcquisition = true
			row.TotalRevenue *= uniform(rng, 1.2, 1.5)
			row.TotalCustomers = int(float64(row.TotalCustomers) * uniform(rng, 1.2, 1.5))
			row.MarketShare *= uniform(rng, 1.2, 1.5)
			row.BrandAwareness *= uniform(rng, 1.05, 1.15)
			row.CustomerSatisfaction *= uniform(rng, 1.05, 1.15)
			row.AcquisitionImpactScore = uniform(rng, 0.8, 1.6)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
