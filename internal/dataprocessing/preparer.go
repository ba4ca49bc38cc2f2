package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"evagobi/internal/config"
	"evagobi/internal/exporter"
	"evagobi/internal/infrastructure"
	"evagobi/pkg/contracts/domain"
)

// chartBuilder turns the loaded datasets into one chart table
type chartBuilder func(ds *domain.Datasets, kpiMonth time.Time) (*domain.Table, error)

var builders = map[string]chartBuilder{
	domain.ChartTrafficOverview: func(ds *domain.Datasets, _ time.Time) (*domain.Table, error) {
		return ToTable(domain.ChartTrafficOverview, TrafficOverview(ds.GoogleAnalytics))
	},
	domain.ChartGeographicPerformance: func(ds *domain.Datasets, _ time.Time) (*domain.Table, error) {
		return ToTable(domain.ChartGeographicPerformance, GeographicPerformance(ds.GeographicPerformance))
	},
	domain.ChartCampaignPerformance: func(ds *domain.Datasets, _ time.Time) (*domain.Table, error) {
		return ToTable(domain.ChartCampaignPerformance, CampaignPerformance(ds.CampaignPerformance))
	},
	domain.ChartConversionFunnel: func(ds *domain.Datasets, _ time.Time) (*domain.Table, error) {
		return ToTable(domain.ChartConversionFunnel, ConversionFunnel(ds.ConversionFunnel))
	},
	domain.ChartDevicePerformance: func(ds *domain.Datasets, _ time.Time) (*domain.Table, error) {
		return ToTable(domain.ChartDevicePerformance, DevicePerformance(ds.DevicePerformance))
	},
	domain.ChartSEOKeywords: func(ds *domain.Datasets, _ time.Time) (*domain.Table, error) {
		return ToTable(domain.ChartSEOKeywords, SEOKeywords(ds.SEOKeywords))
	},
	domain.ChartSocialMedia: func(ds *domain.Datasets, _ time.Time) (*domain.Table, error) {
		return ToTable(domain.ChartSocialMedia, SocialMedia(ds.SocialMedia))
	},
	domain.ChartCompetitorAnalysis: func(ds *domain.Datasets, _ time.Time) (*domain.Table, error) {
		return ToTable(domain.ChartCompetitorAnalysis, CompetitorAnalysis(ds.CompetitorAnalysis))
	},
	domain.ChartRevenueTrends: func(ds *domain.Datasets, _ time.Time) (*domain.Table, error) {
		return ToTable(domain.ChartRevenueTrends, RevenueTrends(ds.TimeSeries))
	},
	domain.ChartKPIDashboard: func(ds *domain.Datasets, month time.Time) (*domain.Table, error) {
		return ToTable(domain.ChartKPIDashboard,
			KPIDashboard(ds.GoogleAnalytics, ds.TimeSeries, ds.CampaignPerformance, month))
	},
	domain.ChartPartnerPerformance: func(ds *domain.Datasets, _ time.Time) (*domain.Table, error) {
		return ToTable(domain.ChartPartnerPerformance, PartnerPerformance(ds.PartnerPerformance))
	},
	domain.ChartAcquisitionImpact: func(ds *domain.Datasets, _ time.Time) (*domain.Table, error) {
		return ToTable(domain.ChartAcquisitionImpact,
			AcquisitionImpactDashboard(ds.GoogleAnalytics, ds.TimeSeries, ds.CampaignPerformance, ds.AcquisitionImpact))
	},
}

// PrepareOptions selects the artifacts written besides the chart CSVs
type PrepareOptions struct {
	Workbook bool
	SQLite   bool
	Images   bool
	// KPIMonth pins the dashboard month; zero means the latest month in the data
	KPIMonth time.Time
}

// OptionsFromConfig converts the export section of the configuration
func OptionsFromConfig(cfg config.ExportConfig) (PrepareOptions, error) {
	opts := PrepareOptions{
		Workbook: cfg.Workbook,
		SQLite:   cfg.SQLite,
		Images:   cfg.Images,
	}
	if cfg.KPIMonth != "" {
		month, err := time.Parse("2006-01", cfg.KPIMonth)
		if err != nil {
			return opts, err
		}
		opts.KPIMonth = month
	}
	return opts, nil
}

// PrepareResult reports what one preparation run produced
type PrepareResult struct {
	Tables  []*domain.Table
	Skipped []string
	Files   []string
	Summary domain.ChartSummary
}

// Preparer builds the chart tables and writes them for Power BI
type Preparer struct {
	paths    *config.Paths
	opts     PrepareOptions
	logger   *slog.Logger
	metrics  *infrastructure.PipelineMetrics
	csv      *exporter.CSVWriter
	workbook *exporter.WorkbookExporter
	sqlite   *exporter.SQLiteExporter
	renderer *exporter.ChartRenderer
}

// NewPreparer creates a preparer writing below paths.PowerBIDir. metrics may be nil.
func NewPreparer(paths *config.Paths, opts PrepareOptions, logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *Preparer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Preparer{
		paths:    paths,
		opts:     opts,
		logger:   logger.With(slog.String("component", "preparer")),
		metrics:  metrics,
		csv:      exporter.NewCSVWriter(logger),
		workbook: exporter.NewWorkbookExporter(logger),
		sqlite:   exporter.NewSQLiteExporter(logger),
		renderer: exporter.NewChartRenderer(logger),
	}
}

// BuildCharts builds every chart whose source datasets are present, in
// catalog order. Charts with a missing source are skipped with a warning;
// profile charts whose sources were not generated are left out silently.
func (p *Preparer) BuildCharts(ctx context.Context, ds *domain.Datasets) ([]*domain.Table, []string, error) {
	month := p.opts.KPIMonth
	if month.IsZero() {
		if latest, ok := ReportingMonth(ds); ok {
			month = latest
		}
	}

	var tables []*domain.Table
	var skipped []string
	for _, spec := range domain.AllCharts() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		if spec.Profile && !ds.Has(spec.Sources...) {
			p.logger.DebugContext(ctx, "Profile chart not applicable",
				slog.String("chart", spec.Key))
			continue
		}
		if !ds.Has(spec.Sources...) {
			p.logger.WarnContext(ctx, "Skipping chart, source dataset missing",
				slog.String("chart", spec.Key),
				slog.Any("sources", spec.Sources))
			skipped = append(skipped, spec.Key)
			continue
		}

		table, err := builders[spec.Key](ds, month)
		if err != nil {
			return nil, nil, err
		}
		p.metrics.RecordChart(ctx, spec.Key, table.Len())
		p.logger.InfoContext(ctx, "Chart prepared",
			slog.String("chart", spec.Key),
			slog.Int("rows", table.Len()))
		tables = append(tables, table)
	}
	return tables, skipped, nil
}

// PrepareAll builds the charts, writes one CSV per chart plus the summary
// JSON, and the optional workbook, data model and images.
func (p *Preparer) PrepareAll(ctx context.Context, ds *domain.Datasets) (*PrepareResult, error) {
	result, err := p.WriteCharts(ctx, ds)
	if err != nil {
		return nil, err
	}

	files, err := p.Export(ctx, result.Tables)
	if err != nil {
		return nil, err
	}
	result.Files = append(result.Files, files...)

	p.logger.InfoContext(ctx, "Power BI data preparation complete",
		slog.Int("charts", len(result.Tables)),
		slog.Int("skipped", len(result.Skipped)),
		slog.String("dir", p.paths.PowerBIDir))
	return result, nil
}

// WriteCharts builds the charts and writes the chart CSVs and the summary JSON
func (p *Preparer) WriteCharts(ctx context.Context, ds *domain.Datasets) (*PrepareResult, error) {
	tables, skipped, err := p.BuildCharts(ctx, ds)
	if err != nil {
		return nil, err
	}

	result := &PrepareResult{Tables: tables, Skipped: skipped}
	for _, table := range tables {
		path := p.paths.ChartFile(table.Key)
		if err := p.csv.WriteTable(path, table); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, path)
	}

	result.Summary = BuildSummary(tables)
	if err := exporter.WriteJSON(p.paths.ChartSummaryJSON, result.Summary); err != nil {
		return nil, err
	}
	result.Files = append(result.Files, p.paths.ChartSummaryJSON)
	return result, nil
}

// Export writes the optional workbook, data model and images selected by
// the options and returns the files written.
func (p *Preparer) Export(ctx context.Context, tables []*domain.Table) ([]string, error) {
	var files []string
	if p.opts.Workbook {
		if err := p.workbook.Export(p.paths.WorkbookFile, tables); err != nil {
			return nil, err
		}
		files = append(files, p.paths.WorkbookFile)
	}
	if p.opts.SQLite {
		if err := p.sqlite.Export(ctx, p.paths.DatabaseFile, tables); err != nil {
			return nil, err
		}
		files = append(files, p.paths.DatabaseFile)
	}
	if p.opts.Images {
		for _, table := range tables {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			spec, _ := domain.ChartByKey(table.Key)
			path := p.paths.ChartImage(table.Key)
			if err := p.renderer.Render(table, spec, path); err != nil {
				// an empty chart cannot be drawn; the CSV is still usable
				p.logger.WarnContext(ctx, "Chart image skipped",
					slog.String("chart", table.Key),
					slog.String("error", err.Error()))
				continue
			}
			files = append(files, path)
		}
	}
	return files, nil
}

// BuildSummary describes the prepared charts for powerbi_data_summary.json
func BuildSummary(tables []*domain.Table) domain.ChartSummary {
	summary := domain.ChartSummary{
		ChartsPrepared:    len(tables),
		TotalFiles:        len(tables),
		FilesCreated:      make([]string, 0, len(tables)),
		ChartDescriptions: make(map[string]string, len(tables)),
	}
	for _, t := range tables {
		summary.FilesCreated = append(summary.FilesCreated, config.ChartFilePrefix+t.Key+".csv")
		if spec, ok := domain.ChartByKey(t.Key); ok {
			summary.ChartDescriptions[t.Key] = spec.Description()
		}
	}
	return summary
}
