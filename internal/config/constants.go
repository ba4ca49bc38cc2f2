package config

import (
	"time"

	"evagobi/pkg/contracts"
)

// Application constants
const (
	AppName    = "evagobi"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable (EVAGO_SERVER_PORT, ...)
	EnvPrefix = "EVAGO"

	// DateLayout is the on-disk date format of every dataset
	DateLayout = "2006-01-02"

	// Simulation window of the original marketing dataset
	DefaultStartDate = "2023-01-01"
	DefaultEndDate   = "2024-12-31"
	DefaultSeed      = 42
	DefaultProfile   = "standard"
	// Mojo Rental acquisition and partner integration date
	DefaultEventDate = "2023-06-01"

	// Rate Limiting
	DefaultRateLimit = 100
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultHTTPTimeout  = 30 * time.Second
	WebSocketPingPeriod = 30 * time.Second
	WebSocketPongWait   = 60 * time.Second

	DefaultOperationTimeout = 30 * time.Minute

	// Directory layout (relative to the root directory)
	DefaultRawDir     = "data/raw"
	DefaultPowerBIDir = "data/powerbi"
	DefaultTrendsDir  = "data/trends"
	DefaultImagesDir  = "data/powerbi/images"
	DefaultLogsDir    = "logs"

	DefaultTrendsBaseURL = "https://trends.google.com"
)

// Well-known file names
const (
	RawFilePrefix    = "evago_"
	RawFileSuffix    = "_data.csv"
	DataSummaryFile  = "evago_data_summary.json"
	ChartFilePrefix  = "powerbi_"
	ChartSummaryFile = "powerbi_data_summary.json"
	WorkbookFile     = "powerbi_dashboard.xlsx"
	DatabaseFile     = "powerbi_data_model.db"
	TrendsOutputFile = "evago_seo_trends.csv"
)

// DefaultTrendKeywords are the search terms tracked for the rental market
var DefaultTrendKeywords = []string{
	"event infrastructure rental",
	"Absperrgitter mieten",
	"event barrier hire",
	"eventverhuur",
	"event fencing rental",
}

func defaultTrendRegions() map[string]string {
	return map[string]string{
		"Germany":       "DE",
		"England":       "GB",
		"Netherlands":   "NL",
		"Australia":     "AU",
		"United States": "US",
	}
}
