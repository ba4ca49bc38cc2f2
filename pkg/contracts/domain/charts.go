package domain

import "time"

// Chart keys. Each chart is written as powerbi_<key>.csv.
const (
	ChartTrafficOverview       = "chart1_traffic_overview"
	ChartGeographicPerformance = "chart2_geographic_performance"
	ChartCampaignPerformance   = "chart3_campaign_performance"
	ChartConversionFunnel      = "chart4_conversion_funnel"
	ChartDevicePerformance     = "chart5_device_performance"
	ChartSEOKeywords           = "chart6_seo_keywords"
	ChartSocialMedia           = "chart7_social_media"
	ChartCompetitorAnalysis    = "chart8_competitor_analysis"
	ChartRevenueTrends         = "chart9_revenue_trends"
	ChartKPIDashboard          = "chart10_kpi_dashboard"

	ChartPartnerPerformance = "chart11_partner_performance"
	ChartAcquisitionImpact  = "chart12_acquisition_impact_dashboard"
)

// ChartSpec describes one Power BI visual and the datasets feeding it
type ChartSpec struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Kind    string   `json:"kind"`
	Sources []string `json:"sources"`
	// XColumn and YColumn pick the series drawn in the PNG preview
	XColumn string `json:"-"`
	YColumn string `json:"-"`
	// Profile charts are built only when a simulation profile generated
	// their sources
	Profile bool `json:"profile,omitempty"`
}

// Description is the summary-file label, e.g. "Revenue Trends - Line Chart"
func (c ChartSpec) Description() string {
	return c.Title + " - " + c.Kind
}

// Charts is the dashboard catalog in display order
var Charts = []ChartSpec{
	{Key: ChartTrafficOverview, Title: "Website Traffic Overview", Kind: "Line Chart",
		Sources: []string{DatasetGoogleAnalytics}, XColumn: "date", YColumn: "sessions"},
	{Key: ChartGeographicPerformance, Title: "Geographic Performance", Kind: "Map/Bar Chart",
		Sources: []string{DatasetGeographicPerformance}, XColumn: "country", YColumn: "revenue"},
	{Key: ChartCampaignPerformance, Title: "Campaign Performance", Kind: "Bar Chart",
		Sources: []string{DatasetCampaignPerformance}, XColumn: "campaign", YColumn: "roas"},
	{Key: ChartConversionFunnel, Title: "Conversion Funnel", Kind: "Funnel Chart",
		Sources: []string{DatasetConversionFunnel}, XColumn: "date", YColumn: "overall_conversion_rate"},
	{Key: ChartDevicePerformance, Title: "Device Performance", Kind: "Pie/Bar Chart",
		Sources: []string{DatasetDevicePerformance}, XColumn: "device", YColumn: "sessions"},
	{Key: ChartSEOKeywords, Title: "SEO Keyword Rankings", Kind: "Line Chart",
		Sources: []string{DatasetSEOKeywords}, XColumn: "date", YColumn: "ranking"},
	{Key: ChartSocialMedia, Title: "Social Media Performance", Kind: "Bar Chart",
		Sources: []string{DatasetSocialMedia}, XColumn: "platform", YColumn: "engagement"},
	{Key: ChartCompetitorAnalysis, Title: "Competitor Analysis", Kind: "Bar Chart",
		Sources: []string{DatasetCompetitorAnalysis}, XColumn: "competitor", YColumn: "market_share"},
	{Key: ChartRevenueTrends, Title: "Revenue Trends", Kind: "Line Chart",
		Sources: []string{DatasetTimeSeries}, XColumn: "date", YColumn: "total_revenue"},
	{Key: ChartKPIDashboard, Title: "KPI Dashboard", Kind: "Cards/Gauges",
		Sources: []string{DatasetGoogleAnalytics, DatasetTimeSeries, DatasetCampaignPerformance},
		XColumn: "metric", YColumn: "value"},
}

// ProfileCharts extend the dashboard for the global and partner profiles
var ProfileCharts = []ChartSpec{
	{Key: ChartPartnerPerformance, Title: "Partner Performance", Kind: "Bar Chart",
		Sources: []string{DatasetPartnerPerformance}, XColumn: "partner", YColumn: "revenue", Profile: true},
	{Key: ChartAcquisitionImpact, Title: "Acquisition Impact Dashboard", Kind: "Cards/Gauges",
		Sources: []string{DatasetAcquisitionImpact, DatasetGoogleAnalytics, DatasetTimeSeries, DatasetCampaignPerformance},
		XColumn: "metric", YColumn: "value", Profile: true},
}

// AllCharts returns Charts followed by ProfileCharts
func AllCharts() []ChartSpec {
	all := make([]ChartSpec, 0, len(Charts)+len(ProfileCharts))
	all = append(all, Charts...)
	return append(all, ProfileCharts...)
}

// ChartByKey looks up a chart in the catalog, profile charts included
func ChartByKey(key string) (ChartSpec, bool) {
	for _, c := range AllCharts() {
		if c.Key == key {
			return c, true
		}
	}
	return ChartSpec{}, false
}

// TrafficOverviewRow is one day of site-wide traffic with moving averages
type TrafficOverviewRow struct {
	Date          time.Time `csv:"date"`
	Sessions      int       `csv:"sessions"`
	Users         int       `csv:"users"`
	Pageviews     int       `csv:"pageviews"`
	Revenue       float64   `csv:"revenue"`
	SessionsMA7d  NullFloat `csv:"sessions_ma_7d"`
	SessionsMA30d NullFloat `csv:"sessions_ma_30d"`
}

// GeoPerformanceRow is one country-month of ad delivery
type GeoPerformanceRow struct {
	Country        string    `csv:"country"`
	Date           time.Time `csv:"date"`
	Impressions    int       `csv:"impressions"`
	Clicks         int       `csv:"clicks"`
	Conversions    int       `csv:"conversions"`
	Revenue        float64   `csv:"revenue"`
	Cost           float64   `csv:"cost"`
	CTR            float64   `csv:"ctr"`
	ConversionRate float64   `csv:"conversion_rate"`
	ROAS           float64   `csv:"roas"`
	CountryCode    string    `csv:"country_code"`
}

// CampaignPerformanceRow is one campaign-month of budget and results
type CampaignPerformanceRow struct {
	Campaign          string    `csv:"campaign"`
	Date              time.Time `csv:"date"`
	Budget            float64   `csv:"budget"`
	Spend             float64   `csv:"spend"`
	Impressions       int       `csv:"impressions"`
	Clicks            int       `csv:"clicks"`
	Conversions       int       `csv:"conversions"`
	Revenue           float64   `csv:"revenue"`
	CTR               float64   `csv:"ctr"`
	CPC               float64   `csv:"cpc"`
	ROAS              float64   `csv:"roas"`
	BudgetUtilization float64   `csv:"budget_utilization"`
}

// FunnelMonthRow is one month of funnel totals with stage conversion rates
type FunnelMonthRow struct {
	Date                   time.Time `csv:"date"`
	Visitors               int       `csv:"visitors"`
	PageViews              int       `csv:"page_views"`
	AddToCart              int       `csv:"add_to_cart"`
	CheckoutStarted        int       `csv:"checkout_started"`
	Purchases              int       `csv:"purchases"`
	VisitorToPageviewRate  float64   `csv:"visitor_to_pageview_rate"`
	PageviewToCartRate     float64   `csv:"pageview_to_cart_rate"`
	CartToCheckoutRate     float64   `csv:"cart_to_checkout_rate"`
	CheckoutToPurchaseRate float64   `csv:"checkout_to_purchase_rate"`
	OverallConversionRate  float64   `csv:"overall_conversion_rate"`
}

// DevicePerformanceRow is one device-month of sessions and revenue
type DevicePerformanceRow struct {
	Device             string    `csv:"device"`
	Date               time.Time `csv:"date"`
	Sessions           int       `csv:"sessions"`
	Conversions        int       `csv:"conversions"`
	Revenue            float64   `csv:"revenue"`
	BounceRate         float64   `csv:"bounce_rate"`
	AvgSessionDuration float64   `csv:"avg_session_duration"`
	ConversionRate     float64   `csv:"conversion_rate"`
	RevenuePerSession  float64   `csv:"revenue_per_session"`
}

// KeywordWeekRow is one keyword-week of organic search performance
type KeywordWeekRow struct {
	Keyword                 string    `csv:"keyword"`
	Date                    time.Time `csv:"date"`
	Ranking                 float64   `csv:"ranking"`
	SearchVolume            float64   `csv:"search_volume"`
	Clicks                  int       `csv:"clicks"`
	Impressions             int       `csv:"impressions"`
	CTR                     float64   `csv:"ctr"`
	AvgPosition             float64   `csv:"avg_position"`
	OrganicTrafficPotential float64   `csv:"organic_traffic_potential"`
}

// SocialPerformanceRow is one platform-month of social activity
type SocialPerformanceRow struct {
	Platform          string    `csv:"platform"`
	Date              time.Time `csv:"date"`
	Reach             int       `csv:"reach"`
	Impressions       int       `csv:"impressions"`
	Engagement        int       `csv:"engagement"`
	Clicks            int       `csv:"clicks"`
	Conversions       int       `csv:"conversions"`
	Cost              float64   `csv:"cost"`
	EngagementRate    float64   `csv:"engagement_rate"`
	ClickThroughRate  float64   `csv:"click_through_rate"`
	ConversionRate    float64   `csv:"conversion_rate"`
	CostPerEngagement float64   `csv:"cost_per_engagement"`
}

// CompetitorMonthRow is one competitor-month of search visibility
type CompetitorMonthRow struct {
	Competitor       string    `csv:"competitor"`
	Date             time.Time `csv:"date"`
	Ranking          float64   `csv:"ranking"`
	SearchVolume     int       `csv:"search_volume"`
	EstimatedTraffic int       `csv:"estimated_traffic"`
	MarketShare      float64   `csv:"market_share"`
	AvgRanking       float64   `csv:"avg_ranking"`
}

// RevenueWeekRow is one week of business totals with growth rates
type RevenueWeekRow struct {
	Date              time.Time `csv:"date"`
	TotalTraffic      int       `csv:"total_traffic"`
	TotalConversions  int       `csv:"total_conversions"`
	TotalRevenue      float64   `csv:"total_revenue"`
	AvgOrderValue     float64   `csv:"avg_order_value"`
	ConversionRate    float64   `csv:"conversion_rate"`
	RevenuePerVisitor float64   `csv:"revenue_per_visitor"`
	RevenueGrowth     NullFloat `csv:"revenue_growth"`
	TrafficGrowth     NullFloat `csv:"traffic_growth"`
}

// KPIRow is a single dashboard card
type KPIRow struct {
	Metric   string  `csv:"metric"`
	Value    float64 `csv:"value"`
	Category string  `csv:"category"`
}

// PartnerMonthRow is one partner-month of referral revenue and commission
type PartnerMonthRow struct {
	Partner          string    `csv:"partner"`
	Country          string    `csv:"country"`
	Date             time.Time `csv:"date"`
	Referrals        int       `csv:"referrals"`
	Conversions      int       `csv:"conversions"`
	Revenue          float64   `csv:"revenue"`
	CommissionAmount float64   `csv:"commission_amount"`
	ConversionRate   float64   `csv:"conversion_rate"`
	CommissionRate   float64   `csv:"commission_rate"`
	NetRevenue       float64   `csv:"net_revenue"`
}

// ImpactKPIRow is an acquisition dashboard card with the effect it tracks
type ImpactKPIRow struct {
	Metric   string  `csv:"metric"`
	Value    float64 `csv:"value"`
	Category string  `csv:"category"`
	Impact   string  `csv:"impact"`
}
