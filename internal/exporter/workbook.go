package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"evagobi/internal/errors"
	"evagobi/pkg/contracts/domain"
)

// IndexSheet lists every chart sheet of the workbook
const IndexSheet = "Index"

// WorkbookExporter writes all chart tables into one Excel workbook
type WorkbookExporter struct {
	logger *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter
func NewWorkbookExporter(logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{logger: logger.With(slog.String("component", "workbook_exporter"))}
}

// Export writes an index sheet followed by one sheet per table
func (e *WorkbookExporter) Export(filePath string, tables []*domain.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", IndexSheet); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	index := [][]interface{}{{"sheet", "description", "rows"}}
	for _, table := range tables {
		if err := e.writeSheet(f, table, headerStyle); err != nil {
			return err
		}
		desc := table.Key
		if spec, ok := domain.ChartByKey(table.Key); ok {
			desc = spec.Description()
		}
		index = append(index, []interface{}{table.Key, desc, table.Len()})
	}

	for i, row := range index {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(IndexSheet, cell, &row); err != nil {
			return fmt.Errorf("write index row %d: %w", i, err)
		}
	}
	if err := f.SetCellStyle(IndexSheet, "A1", "C1", headerStyle); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return errors.NewStorageError("failed to create directory", err)
	}
	if err := f.SaveAs(filePath); err != nil {
		return errors.NewStorageError("failed to save workbook", err).WithContext("path", filePath)
	}

	e.logger.Info("Workbook written",
		slog.String("path", filePath),
		slog.Int("sheets", len(tables)+1))
	return nil
}

// writeSheet adds one sheet with a bold frozen header; numeric cells are stored as numbers
func (e *WorkbookExporter) writeSheet(f *excelize.File, table *domain.Table, headerStyle int) error {
	sheet := table.Key
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	header := make([]interface{}, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header of %s: %w", sheet, err)
	}

	for r, record := range table.Records {
		row := make([]interface{}, len(record))
		for c, cell := range record {
			if v, ok := ParseNumber(cell); ok {
				row[c] = v
			} else {
				row[c] = cell
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d of %s: %w", r, sheet, err)
		}
	}

	if len(table.Headers) > 0 {
		lastHeader, err := excelize.CoordinatesToCellName(len(table.Headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
			return err
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
