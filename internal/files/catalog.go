package files

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"evagobi/internal/config"
	apperrors "evagobi/internal/errors"
	"evagobi/internal/exporter"
	"evagobi/pkg/contracts/domain"
)

// Catalog maps dataset and chart keys onto the configured output layout
type Catalog struct {
	paths     *config.Paths
	discovery *Discovery
}

// NewCatalog creates a catalog over paths
func NewCatalog(paths *config.Paths) *Catalog {
	return &Catalog{paths: paths, discovery: NewDiscovery(paths.RootDir)}
}

// Datasets describes the raw CSV of every core dataset, in generation order,
// followed by the profile datasets present in the raw directory
func (c *Catalog) Datasets() []FileInfo {
	out := make([]FileInfo, 0, len(domain.DatasetNames))
	for _, name := range domain.DatasetNames {
		fi := Stat(c.paths.RawDataFile(name))
		fi.Key = name
		out = append(out, fi)
	}

	found, err := c.discovery.FindFilesByPattern(c.paths.RawDir, config.RawFilePrefix+"*"+config.RawFileSuffix)
	if err != nil {
		return out
	}
	for _, name := range domain.ProfileDatasetNames {
		if fi, ok := byName(found, filepath.Base(c.paths.RawDataFile(name))); ok {
			fi.Key = name
			out = append(out, fi)
		}
	}
	return out
}

// Charts describes the CSV of every core chart, in catalog order, followed by
// the profile charts that have been prepared
func (c *Catalog) Charts() []FileInfo {
	out := make([]FileInfo, 0, len(domain.Charts))
	for _, spec := range domain.Charts {
		fi := Stat(c.paths.ChartFile(spec.Key))
		fi.Key = spec.Key
		out = append(out, fi)
	}

	found, err := c.discovery.FindCSVFiles(c.paths.PowerBIDir)
	if err != nil {
		return out
	}
	for _, spec := range domain.ProfileCharts {
		if fi, ok := byName(found, filepath.Base(c.paths.ChartFile(spec.Key))); ok {
			fi.Key = spec.Key
			out = append(out, fi)
		}
	}
	return out
}

func byName(files []FileInfo, name string) (FileInfo, bool) {
	for _, fi := range files {
		if fi.Name == name {
			return fi, true
		}
	}
	return FileInfo{}, false
}

// Artifacts describes the summaries and the optional exports
func (c *Catalog) Artifacts() []FileInfo {
	artifacts := []struct{ key, path string }{
		{"data_summary", c.paths.DataSummaryJSON},
		{"chart_summary", c.paths.ChartSummaryJSON},
		{"workbook", c.paths.WorkbookFile},
		{"database", c.paths.DatabaseFile},
		{"trends", c.paths.TrendsCSV},
	}
	out := make([]FileInfo, 0, len(artifacts))
	for _, a := range artifacts {
		fi := Stat(a.path)
		fi.Key = a.key
		out = append(out, fi)
	}
	return out
}

// LastUpdated returns the newest chart file, if any chart has been written
func (c *Catalog) LastUpdated() (FileInfo, bool) {
	return GetLatestFile(c.Charts())
}

// ChartImage describes the PNG preview of a chart
func (c *Catalog) ChartImage(key string) FileInfo {
	fi := Stat(c.paths.ChartImage(key))
	fi.Key = key
	return fi
}

// DataSummary reads the generation summary. ok is false when no data has
// been generated yet.
func (c *Catalog) DataSummary() (summary domain.DataSummary, ok bool, err error) {
	ok, err = readSummary(c.paths.DataSummaryJSON, &summary)
	return summary, ok, err
}

// ChartSummary reads the chart preparation summary. ok is false when no
// chart has been prepared yet.
func (c *Catalog) ChartSummary() (summary domain.ChartSummary, ok bool, err error) {
	ok, err = readSummary(c.paths.ChartSummaryJSON, &summary)
	return summary, ok, err
}

func readSummary(path string, v interface{}) (bool, error) {
	if !Stat(path).Exists {
		return false, nil
	}
	if err := exporter.ReadJSON(path, v); err != nil {
		return false, err
	}
	return true, nil
}

// ReadChart loads a prepared chart CSV. Unknown keys and charts that have
// not been prepared yet are NOT_FOUND errors.
func (c *Catalog) ReadChart(key string) (*domain.Table, error) {
	if _, ok := domain.ChartByKey(key); !ok {
		return nil, apperrors.NewNotFoundError("chart").WithContext("chart", key)
	}
	return ReadTable(key, c.paths.ChartFile(key))
}

// ReadDataset loads a generated dataset CSV as text cells
func (c *Catalog) ReadDataset(name string) (*domain.Table, error) {
	if !slices.Contains(domain.AllDatasetNames(), name) {
		return nil, apperrors.NewNotFoundError("dataset").WithContext("dataset", name)
	}
	return ReadTable(name, c.paths.RawDataFile(name))
}

// ReadTable reads a headed CSV file into a Table keyed by key
func ReadTable(key, path string) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NewNotFoundError(key).WithContext("path", path)
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	headers, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.NewParsingError(fmt.Sprintf("%s is empty", path), err)
		}
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read header of %s", path), err)
	}

	table := &domain.Table{Key: key, Headers: headers}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read %s", path), err)
		}
		table.Records = append(table.Records, record)
	}
	return table, nil
}
