// Package exporter writes prepared tables in the formats Power BI imports.
//
// CSVWriter writes one flat file per table and the JSON summaries.
// WorkbookExporter collects every chart into one Excel workbook with a sheet
// per chart. SQLiteExporter loads the charts into a SQLite data model, one
// table per chart. ChartRenderer draws a PNG preview of each chart.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(logger)
//	err := w.WriteTable(paths.ChartFile(table.Key), table)
//
//	wb := exporter.NewWorkbookExporter(logger)
//	err = wb.Export(paths.WorkbookFile, tables)
package exporter
