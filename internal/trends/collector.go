package trends

import (
	"context"
	"log/slog"
	"sort"

	"evagobi/internal/config"
	dp "evagobi/internal/dataprocessing"
	"evagobi/internal/errors"
	"evagobi/internal/exporter"
	"evagobi/internal/infrastructure"
	"evagobi/pkg/contracts/domain"
)

// Region is a named Google Trends geography, e.g. England/GB
type Region struct {
	Name    string
	GeoCode string
}

// RegionsFrom orders a name-to-code map by region name
func RegionsFrom(m map[string]string) []Region {
	regions := make([]Region, 0, len(m))
	for name, code := range m {
		regions = append(regions, Region{Name: name, GeoCode: code})
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].Name < regions[j].Name })
	return regions
}

// CollectorConfig lists what to query
type CollectorConfig struct {
	Keywords  []string
	Regions   []Region
	Timeframe string
}

// CollectorConfigFrom converts the trends section of the application config
func CollectorConfigFrom(cfg config.TrendsConfig) CollectorConfig {
	return CollectorConfig{
		Keywords:  cfg.Keywords,
		Regions:   RegionsFrom(cfg.Regions),
		Timeframe: cfg.Timeframe,
	}
}

// ClientConfigFrom converts the trends section of the application config
func ClientConfigFrom(cfg config.TrendsConfig) GoogleClientConfig {
	return GoogleClientConfig{
		BaseURL:  cfg.BaseURL,
		Language: cfg.Language,
		TZOffset: cfg.TZOffset,
		RPS:      cfg.RPS,
		Timeout:  cfg.Timeout,
	}
}

// Collector queries every keyword in every region
type Collector struct {
	client Client
	cfg    CollectorConfig
	logger *slog.Logger
}

// NewCollector creates a collector on top of client
func NewCollector(client Client, cfg CollectorConfig, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{client: client, cfg: cfg, logger: logger.With(slog.String("component", "trends_collector"))}
}

// Collect returns one record per date, keyword and region. Failed queries
// are logged and skipped and empty series contribute nothing; an error is
// returned only when no record at all was collected.
func (c *Collector) Collect(ctx context.Context) ([]domain.TrendRecord, error) {
	var (
		records []domain.TrendRecord
		lastErr error
		failed  int
	)

	for _, keyword := range c.cfg.Keywords {
		for _, region := range c.cfg.Regions {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			q := domain.TrendQuery{
				Keyword:   keyword,
				Region:    region.Name,
				GeoCode:   region.GeoCode,
				Timeframe: c.cfg.Timeframe,
			}
			points, err := c.client.InterestOverTime(ctx, q)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				failed++
				lastErr = err
				infrastructure.RecordError(ctx, err)
				c.logger.WarnContext(ctx, "Trends query failed",
					slog.String("keyword", keyword),
					slog.String("region", region.Name),
					slog.String("error", err.Error()))
				continue
			}
			if len(points) == 0 {
				c.logger.InfoContext(ctx, "No trend data",
					slog.String("keyword", keyword),
					slog.String("region", region.Name))
				continue
			}

			for _, p := range points {
				records = append(records, domain.TrendRecord{
					Date:     p.Date,
					Keyword:  keyword,
					Country:  region.Name,
					Interest: p.Value,
				})
			}
		}
	}

	if len(records) == 0 {
		if lastErr != nil {
			return nil, errors.NewAppError(errors.ErrTypeNetwork, "no trend data collected", lastErr).
				WithContext("failed_queries", failed)
		}
		return nil, errors.NewNotFoundError("trend data")
	}

	c.logger.InfoContext(ctx, "Trends collected",
		slog.Int("records", len(records)),
		slog.Int("failed_queries", failed))
	return records, nil
}

// CollectToFile collects and writes the records as CSV to path
func (c *Collector) CollectToFile(ctx context.Context, path string) ([]domain.TrendRecord, error) {
	records, err := c.Collect(ctx)
	if err != nil {
		return nil, err
	}

	table, err := dp.ToTable("trends", records)
	if err != nil {
		return nil, err
	}
	if err := exporter.NewCSVWriter(c.logger).WriteTable(path, table); err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "Trends saved", slog.String("path", path))
	return records, nil
}
