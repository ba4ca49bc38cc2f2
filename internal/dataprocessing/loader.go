package dataprocessing

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"evagobi/internal/config"
	"evagobi/internal/errors"
	"evagobi/pkg/contracts/domain"
)

// Loader reads the raw dataset files written by the simulator
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a dataset loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "loader"))}
}

// RawFileName returns the file name of a raw dataset, e.g. evago_time_series_data.csv
func RawFileName(dataset string) string {
	return config.RawFilePrefix + dataset + config.RawFileSuffix
}

// LoadAll reads every raw dataset from dir. A missing file is logged and the
// dataset stays absent; any other read failure aborts the load. Profile
// datasets are looked for too, and their absence is only a debug message.
func (l *Loader) LoadAll(ctx context.Context, dir string) (*domain.Datasets, error) {
	ds := domain.NewDatasets()
	profileOnly := len(domain.DatasetNames)

	for i, name := range domain.AllDatasetNames() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(dir, RawFileName(name))
		n, err := readDataset(ds, name, path)
		if err != nil {
			if os.IsNotExist(err) {
				level := slog.LevelWarn
				if i >= profileOnly {
					level = slog.LevelDebug
				}
				l.logger.Log(ctx, level, "Dataset file not found",
					slog.String("dataset", name),
					slog.String("path", path))
				continue
			}
			return nil, errors.NewParsingError("failed to load dataset", err).
				WithContext("dataset", name).
				WithContext("path", path)
		}

		ds.MarkPresent(name)
		l.logger.InfoContext(ctx, "Dataset loaded",
			slog.String("dataset", name),
			slog.Int("rows", n))
	}

	if len(ds.Present()) == 0 {
		l.logger.WarnContext(ctx, "No datasets found", slog.String("dir", dir))
	}
	return ds, nil
}
