// Package config provides centralized configuration management for evagobi.
// It handles loading configuration from multiple sources, validation, and the
// file system layout shared by every pipeline stage.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern EVAGO_<SECTION>_<FIELD>:
//
//	EVAGO_SERVER_PORT=8080
//	EVAGO_LOGGING_LEVEL=debug
//	EVAGO_SIMULATION_SEED=7
//	EVAGO_TRENDS_KEYWORDS="event barrier hire,eventverhuur"
//
// # Path Management
//
// Paths resolves every directory relative to the configured root:
//
//	paths, err := config.NewPaths(cfg.Paths)
//	rawFile := paths.RawDataFile("google_ads")
//	chartFile := paths.ChartFile("chart1_traffic_overview")
package config
