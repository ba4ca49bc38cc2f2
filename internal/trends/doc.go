// Package trends collects search interest over time from Google Trends and
// flattens it into evago_seo_trends.csv, one row per date, keyword and region.
package trends
