package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for every file the pipeline reads or writes
type Paths struct {
	RootDir    string
	RawDir     string
	PowerBIDir string
	TrendsDir  string
	ImagesDir  string
	LogsDir    string

	// Well-known output files
	DataSummaryJSON  string
	ChartSummaryJSON string
	WorkbookFile     string
	DatabaseFile     string
	TrendsCSV        string
}

// NewPaths resolves the configured directories into absolute paths
func NewPaths(cfg PathsConfig) (*Paths, error) {
	root := cfg.RootDir
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}

	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}

	paths := &Paths{
		RootDir:    root,
		RawDir:     resolve(cfg.RawDir),
		PowerBIDir: resolve(cfg.PowerBIDir),
		TrendsDir:  resolve(cfg.TrendsDir),
		ImagesDir:  resolve(cfg.ImagesDir),
		LogsDir:    resolve(cfg.LogsDir),
	}
	paths.DataSummaryJSON = filepath.Join(paths.RawDir, DataSummaryFile)
	paths.ChartSummaryJSON = filepath.Join(paths.PowerBIDir, ChartSummaryFile)
	paths.WorkbookFile = filepath.Join(paths.PowerBIDir, WorkbookFile)
	paths.DatabaseFile = filepath.Join(paths.PowerBIDir, DatabaseFile)
	paths.TrendsCSV = filepath.Join(paths.TrendsDir, TrendsOutputFile)

	return paths, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.RawDir,
		p.PowerBIDir,
		p.TrendsDir,
		p.ImagesDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// RawDataFile returns the CSV path of a generated dataset, e.g. evago_google_ads_data.csv
func (p *Paths) RawDataFile(dataset string) string {
	return filepath.Join(p.RawDir, RawFilePrefix+dataset+RawFileSuffix)
}

// ChartFile returns the CSV path of a prepared chart, e.g. powerbi_chart1_traffic_overview.csv
func (p *Paths) ChartFile(chartKey string) string {
	return filepath.Join(p.PowerBIDir, ChartFilePrefix+chartKey+".csv")
}

// ChartImage returns the PNG preview path of a prepared chart
func (p *Paths) ChartImage(chartKey string) string {
	return filepath.Join(p.ImagesDir, ChartFilePrefix+chartKey+".png")
}

// LogPathResolution logs the resolved layout at debug level
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Resolved application paths",
		slog.String("root_dir", p.RootDir),
		slog.String("raw_dir", p.RawDir),
		slog.String("powerbi_dir", p.PowerBIDir),
		slog.String("trends_dir", p.TrendsDir),
		slog.String("images_dir", p.ImagesDir),
		slog.String("logs_dir", p.LogsDir))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
