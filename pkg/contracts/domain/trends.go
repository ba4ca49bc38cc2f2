package domain

import "time"

// TrendQuery selects one keyword in one region over a timeframe such as "today 12-m"
type TrendQuery struct {
	Keyword   string
	Region    string
	GeoCode   string
	Timeframe string
}

// InterestPoint is a single relative search interest sample (0-100)
type InterestPoint struct {
	Date  time.Time
	Value int
}

// TrendRecord is one flattened row of evago_seo_trends.csv
type TrendRecord struct {
	Date     time.Time `csv:"date"`
	Keyword  string    `csv:"Keyword"`
	Country  string    `csv:"Country"`
	Interest int       `csv:"Interest"`
}
