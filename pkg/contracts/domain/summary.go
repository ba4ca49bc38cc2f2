package domain

// DataSummary is written next to the raw datasets as evago_data_summary.json
type DataSummary struct {
	DatasetsGenerated int      `json:"datasets_generated"`
	DateRange         string   `json:"date_range"`
	TotalRecords      int      `json:"total_records"`
	FilesCreated      []string `json:"files_created"`

	Profile   string `json:"profile,omitempty"`
	EventDate string `json:"event_date,omitempty"`
	// Locations maps each market to its cities. Rows stay at country grain.
	Locations           map[string][]string `json:"locations,omitempty"`
	DistributionOffices []string            `json:"distribution_offices,omitempty"`
}

// ChartSummary is written next to the chart files as powerbi_data_summary.json
type ChartSummary struct {
	ChartsPrepared    int               `json:"charts_prepared"`
	TotalFiles        int               `json:"total_files"`
	FilesCreated      []string          `json:"files_created"`
	ChartDescriptions map[string]string `json:"chart_descriptions"`
}
