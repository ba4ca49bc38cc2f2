package simulator

import (
	"context"
	"log/slog"
	"path/filepath"

	"evagobi/internal/config"
	dp "evagobi/internal/dataprocessing"
	"evagobi/internal/exporter"
	"evagobi/pkg/contracts/domain"
)

// WriteAll writes each present dataset to dir as evago_<name>_data.csv,
// followed by evago_data_summary.json.
func (s *Simulator) WriteAll(ctx context.Context, ds *domain.Datasets, dir string) (domain.DataSummary, error) {
	w := exporter.NewCSVWriter(s.logger)
	summary := domain.DataSummary{
		DateRange:           s.DateRangeLabel(),
		FilesCreated:        []string{},
		Profile:             string(s.catalog.Profile),
		Locations:           s.catalog.Locations(),
		DistributionOffices: s.catalog.Offices,
	}
	if !s.event.IsZero() {
		summary.EventDate = s.event.Format(config.DateLayout)
	}

	for _, name := range ds.Present() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		table, err := dp.DatasetTable(ds, name)
		if err != nil {
			return summary, err
		}
		path := filepath.Join(dir, dp.RawFileName(name))
		if err := w.WriteTable(path, table); err != nil {
			return summary, err
		}
		s.logger.InfoContext(ctx, "Dataset saved",
			slog.String("file", filepath.Base(path)),
			slog.Int("rows", table.Len()))

		summary.DatasetsGenerated++
		summary.TotalRecords += table.Len()
		summary.FilesCreated = append(summary.FilesCreated, name)
	}

	if err := exporter.WriteJSON(filepath.Join(dir, config.DataSummaryFile), summary); err != nil {
		return summary, err
	}
	return summary, nil
}
