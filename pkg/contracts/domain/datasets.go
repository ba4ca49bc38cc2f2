package domain

import "time"

// Dataset names, in generation order. Each one is written as evago_<name>_data.csv.
const (
	DatasetGoogleAnalytics       = "google_analytics"
	DatasetGoogleAds             = "google_ads"
	DatasetSEOKeywords           = "seo_keywords"
	DatasetSocialMedia           = "social_media"
	DatasetCompetitorAnalysis    = "competitor_analysis"
	DatasetConversionFunnel      = "conversion_funnel"
	DatasetDevicePerformance     = "device_performance"
	DatasetCampaignPerformance   = "campaign_performance"
	DatasetGeographicPerformance = "geographic_performance"
	DatasetTimeSeries            = "time_series"

	DatasetPartnerPerformance = "partner_performance"
	DatasetAcquisitionImpact  = "mojo_acquisition_impact"
)

// DatasetNames lists every dataset in generation order
var DatasetNames = []string{
	DatasetGoogleAnalytics,
	DatasetGoogleAds,
	DatasetSEOKeywords,
	DatasetSocialMedia,
	DatasetCompetitorAnalysis,
	DatasetConversionFunnel,
	DatasetDevicePerformance,
	DatasetCampaignPerformance,
	DatasetGeographicPerformance,
	DatasetTimeSeries,
}

// ProfileDatasetNames lists the datasets only some simulation profiles
// generate. They follow DatasetNames in generation order.
var ProfileDatasetNames = []string{
	DatasetPartnerPerformance,
	DatasetAcquisitionImpact,
}

// AllDatasetNames returns DatasetNames followed by ProfileDatasetNames
func AllDatasetNames() []string {
	names := make([]string, 0, len(DatasetNames)+len(ProfileDatasetNames))
	names = append(names, DatasetNames...)
	return append(names, ProfileDatasetNames...)
}

// GoogleAnalyticsRow is one day of website traffic for a country
type GoogleAnalyticsRow struct {
	Date               time.Time `csv:"date"`
	Country            string    `csv:"country"`
	Sessions           int       `csv:"sessions"`
	Users              int       `csv:"users"`
	Pageviews          int       `csv:"pageviews"`
	BounceRate         float64   `csv:"bounce_rate"`
	AvgSessionDuration float64   `csv:"avg_session_duration"`
	ConversionRate     float64   `csv:"conversion_rate"`
	Revenue            float64   `csv:"revenue"`
}

// GoogleAdsRow is one day of paid search for a campaign ad group
type GoogleAdsRow struct {
	Date           time.Time `csv:"date"`
	Campaign       string    `csv:"campaign"`
	AdGroup        string    `csv:"ad_group"`
	Impressions    int       `csv:"impressions"`
	Clicks         int       `csv:"clicks"`
	Cost           float64   `csv:"cost"`
	Conversions    int       `csv:"conversions"`
	Revenue        float64   `csv:"revenue"`
	CTR            float64   `csv:"ctr"`
	CPC            float64   `csv:"cpc"`
	ConversionRate float64   `csv:"conversion_rate"`
	ROAS           float64   `csv:"roas"`
}

// SEOKeywordRow is the organic ranking of a keyword in a country on one day
type SEOKeywordRow struct {
	Date         time.Time `csv:"date"`
	Keyword      string    `csv:"keyword"`
	Country      string    `csv:"country"`
	Ranking      int       `csv:"ranking"`
	SearchVolume int       `csv:"search_volume"`
	Clicks       int       `csv:"clicks"`
	Impressions  int       `csv:"impressions"`
	CTR          float64   `csv:"ctr"`
	AvgPosition  float64   `csv:"avg_position"`
}

// SocialMediaRow is one day of a campaign on a social platform
type SocialMediaRow struct {
	Date           time.Time `csv:"date"`
	Platform       string    `csv:"platform"`
	Campaign       string    `csv:"campaign"`
	Reach          int       `csv:"reach"`
	Impressions    int       `csv:"impressions"`
	Engagement     int       `csv:"engagement"`
	Clicks         int       `csv:"clicks"`
	Conversions    int       `csv:"conversions"`
	EngagementRate float64   `csv:"engagement_rate"`
	Cost           float64   `csv:"cost"`
}

// CompetitorRow is a competitor's estimated position on a tracked keyword
type CompetitorRow struct {
	Date             time.Time `csv:"date"`
	Competitor       string    `csv:"competitor"`
	Keyword          string    `csv:"keyword"`
	Ranking          int       `csv:"ranking"`
	SearchVolume     int       `csv:"search_volume"`
	EstimatedTraffic int       `csv:"estimated_traffic"`
	MarketShare      float64   `csv:"market_share"`
}

// FunnelRow is one day of checkout funnel counts for a country
type FunnelRow struct {
	Date            time.Time `csv:"date"`
	Country         string    `csv:"country"`
	Visitors        int       `csv:"visitors"`
	PageViews       int       `csv:"page_views"`
	AddToCart       int       `csv:"add_to_cart"`
	CheckoutStarted int       `csv:"checkout_started"`
	Purchases       int       `csv:"purchases"`
	ConversionRate  float64   `csv:"conversion_rate"`
}

// DeviceRow is one day of traffic by device class and country
type DeviceRow struct {
	Date               time.Time `csv:"date"`
	Device             string    `csv:"device"`
	Country            string    `csv:"country"`
	Sessions           int       `csv:"sessions"`
	Conversions        int       `csv:"conversions"`
	Revenue            float64   `csv:"revenue"`
	BounceRate         float64   `csv:"bounce_rate"`
	AvgSessionDuration float64   `csv:"avg_session_duration"`
}

// CampaignRow is one day of budget and delivery for a campaign
type CampaignRow struct {
	Date              time.Time `csv:"date"`
	Campaign          string    `csv:"campaign"`
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

// GeoRow is one day of ad delivery for a country
type GeoRow struct {
	Date           time.Time `csv:"date"`
	Country        string    `csv:"country"`
	Impressions    int       `csv:"impressions"`
	Clicks         int       `csv:"clicks"`
	Conversions    int       `csv:"conversions"`
	Revenue        float64   `csv:"revenue"`
	Cost           float64   `csv:"cost"`
	CTR            float64   `csv:"ctr"`
	ConversionRate float64   `csv:"conversion_rate"`
	ROAS           float64   `csv:"roas"`
}

// TimeSeriesRow is the business-wide total for one day
type TimeSeriesRow struct {
	Date              time.Time `csv:"date"`
	TotalTraffic      int       `csv:"total_traffic"`
	TotalConversions  int       `csv:"total_conversions"`
	TotalRevenue      float64   `csv:"total_revenue"`
	AvgOrderValue     float64   `csv:"avg_order_value"`
	ConversionRate    float64   `csv:"conversion_rate"`
	RevenuePerVisitor float64   `csv:"revenue_per_visitor"`
}

// PartnerRow is one day of referrals from a local partner
type PartnerRow struct {
	Date             time.Time `csv:"date"`
	Country          string    `csv:"country"`
	Partner          string    `csv:"partner"`
	Referrals        int       `csv:"referrals"`
	Conversions      int       `csv:"conversions"`
	Revenue          float64   `csv:"revenue"`
	CommissionRate   float64   `csv:"commission_rate"`
	CommissionAmount float64   `csv:"commission_amount"`
}

// AcquisitionImpactRow is the business-wide standing on one day relative to
// an acquisition. The impact score is 1 before the acquisition date.
type AcquisitionImpactRow struct {
	Date                   time.Time `csv:"date"`
	IsPostAcquisition      bool      `csv:"is_post_acquisition"`
	TotalRevenue           float64   `csv:"total_revenue"`
	TotalCustomers         int       `csv:"total_customers"`
	MarketShare            float64   `csv:"market_share"`
	BrandAwareness         float64   `csv:"brand_awareness"`
	CustomerSatisfaction   float64   `csv:"customer_satisfaction"`
	AcquisitionImpactScore float64   `csv:"acquisition_impact_score"`
}

// Datasets holds every raw table of one run. A dataset is present when it
// was generated or loaded; absent datasets have nil slices.
type Datasets struct {
	GoogleAnalytics       []GoogleAnalyticsRow
	GoogleAds             []GoogleAdsRow
	SEOKeywords           []SEOKeywordRow
	SocialMedia           []SocialMediaRow
	CompetitorAnalysis    []CompetitorRow
	ConversionFunnel      []FunnelRow
	DevicePerformance     []DeviceRow
	CampaignPerformance   []CampaignRow
	GeographicPerformance []GeoRow
	TimeSeries            []TimeSeriesRow
	PartnerPerformance    []PartnerRow
	AcquisitionImpact     []AcquisitionImpactRow

	present map[string]bool
}

// NewDatasets returns an empty container with nothing marked present
func NewDatasets() *Datasets {
	return &Datasets{present: make(map[string]bool)}
}

// Slot returns a pointer to the slice backing the named dataset
func (d *Datasets) Slot(name string) (any, bool) {
	switch name {
	case DatasetGoogleAnalytics:
		return &d.GoogleAnalytics, true
	case DatasetGoogleAds:
		return &d.GoogleAds, true
	case DatasetSEOKeywords:
		return &d.SEOKeywords, true
	case DatasetSocialMedia:
		return &d.SocialMedia, true
	case DatasetCompetitorAnalysis:
		return &d.CompetitorAnalysis, true
	case DatasetConversionFunnel:
		return &d.ConversionFunnel, true
	case DatasetDevicePerformance:
		return &d.DevicePerformance, true
	case DatasetCampaignPerformance:
		return &d.CampaignPerformance, true
	case DatasetGeographicPerformance:
		return &d.GeographicPerformance, true
	case DatasetTimeSeries:
		return &d.TimeSeries, true
	case DatasetPartnerPerformance:
		return &d.PartnerPerformance, true
	case DatasetAcquisitionImpact:
		return &d.AcquisitionImpact, true
	}
	return nil, false
}

// MarkPresent records that the named dataset holds data for this run
func (d *Datasets) MarkPresent(name string) {
	if d.present == nil {
		d.present = make(map[string]bool)
	}
	d.present[name] = true
}

// Has reports whether every named dataset is present
func (d *Datasets) Has(names ...string) bool {
	for _, name := range names {
		if !d.present[name] {
			return false
		}
	}
	return true
}

// Present lists the present datasets in generation order
func (d *Datasets) Present() []string {
	var names []string
	for _, name := range AllDatasetNames() {
		if d.present[name] {
			names = append(names, name)
		}
	}
	return names
}

// Len returns the row count of the named dataset
func (d *Datasets) Len(name string) int {
	switch name {
	case DatasetGoogleAnalytics:
		return len(d.GoogleAnalytics)
	case DatasetGoogleAds:
		return len(d.GoogleAds)
	case DatasetSEOKeywords:
		return len(d.SEOKeywords)
	case DatasetSocialMedia:
		return len(d.SocialMedia)
	case DatasetCompetitorAnalysis:
		return len(d.CompetitorAnalysis)
	case DatasetConversionFunnel:
		return len(d.ConversionFunnel)
	case DatasetDevicePerformance:
		return len(d.DevicePerformance)
	case DatasetCampaignPerformance:
		return len(d.CampaignPerformance)
	case DatasetGeographicPerformance:
		return len(d.GeographicPerformance)
	case DatasetTimeSeries:
		return len(d.TimeSeries)
	case DatasetPartnerPerformance:
		return len(d.PartnerPerformance)
	case DatasetAcquisitionImpact:
		return len(d.AcquisitionImpact)
	}
	return 0
}

// TotalRecords sums the row counts of all present datasets
func (d *Datasets) TotalRecords() int {
	total := 0
	for _, name := range d.Present() {
		total += d.Len(name)
	}
	return total
}
