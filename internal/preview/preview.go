// Package preview prints a human-readable overview of the prepared Power BI files.
package preview

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"evagobi/internal/config"
	"evagobi/internal/exporter"
	"evagobi/pkg/contracts/domain"
)

const (
	sampleColumns = 5
	sampleRows    = 2
	rule          = "============================================================"
)

// NextSteps is the Power BI import guide printed after the overview
var NextSteps = []string{
	"Open Power BI Desktop",
	"Import each 'powerbi_chart*.csv' file (or connect to powerbi_data_model.db over ODBC)",
	"Create relationships between datasets",
	"Build the charts described in the chart summary",
	"Arrange charts in a dashboard layout",
	"Add filters and slicers for interactivity",
}

// FileReport is what the preview learned about one chart file
type FileReport struct {
	File      string
	Rows      int
	Columns   int
	Names     []string
	DateRange string
	Sample    [][]string
	Err       error
}

// Previewer reads the chart files below the Power BI directory
type Previewer struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewPreviewer creates a previewer
func NewPreviewer(paths *config.Paths, logger *slog.Logger) *Previewer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Previewer{paths: paths, logger: logger.With(slog.String("component", "preview"))}
}

// Inspect loads one chart file into a dataframe and summarizes it
func (p *Previewer) Inspect(path string) FileReport {
	report := FileReport{File: filepath.Base(path)}

	f, err := os.Open(path)
	if err != nil {
		report.Err = err
		return report
	}
	defer f.Close()

	// a header without records is an empty chart, not an unreadable one
	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("%s is empty", report.File)
		}
		report.Err = err
		return report
	}
	if _, err := r.Read(); errors.Is(err, io.EOF) {
		report.Columns = len(header)
		report.Names = header
		report.DateRange = "n/a"
		return report
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		report.Err = err
		return report
	}

	df := dataframe.ReadCSV(f,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil))
	if df.Err != nil {
		report.Err = df.Err
		return report
	}

	report.Rows = df.Nrow()
	report.Columns = df.Ncol()
	report.Names = df.Names()
	report.DateRange = "n/a"

	if hasColumn(report.Names, "date") {
		dates := df.Col("date").Records()
		sort.Strings(dates)
		if len(dates) > 0 {
			report.DateRange = dates[0] + " to " + dates[len(dates)-1]
		}
	}

	n := sampleRows
	if report.Rows < n {
		n = report.Rows
	}
	if n > 0 {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		report.Sample = df.Subset(idx).Records()
	}
	return report
}

// Run prints every chart file in catalog order, then the chart summary and
// the import guide. Unreadable files are reported inline.
func (p *Previewer) Run(ctx context.Context, w io.Writer) error {
	pw := &printer{w: w}

	pw.line(rule)
	pw.line("EVAGO MARKETING DATA PREVIEW")
	pw.line(rule)
	pw.line("")
	pw.line("POWER BI OPTIMIZED DATASETS:")
	pw.line(strings.Repeat("-", 40))

	for i, spec := range domain.AllCharts() {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := p.paths.ChartFile(spec.Key)
		if spec.Profile && !config.FileExists(path) {
			continue
		}
		report := p.Inspect(path)
		if report.Err != nil {
			p.logger.WarnContext(ctx, "Chart file unreadable",
				slog.String("file", report.File),
				slog.String("error", report.Err.Error()))
			pw.printf("\nError reading %s: %v\n", report.File, report.Err)
			continue
		}
		pw.printReport(i+1, report)
	}

	pw.line("")
	pw.line("SUMMARY FILES:")
	pw.line(strings.Repeat("-", 20))

	var summary domain.ChartSummary
	if err := exporter.ReadJSON(p.paths.ChartSummaryJSON, &summary); err != nil {
		pw.printf("Error reading summary: %v\n", err)
	} else {
		pw.printf("Charts prepared: %d\n", summary.ChartsPrepared)
		pw.printf("Total files: %d\n", summary.TotalFiles)
		pw.line("")
		pw.line("Chart descriptions:")
		for _, spec := range domain.AllCharts() {
			if desc, ok := summary.ChartDescriptions[spec.Key]; ok {
				pw.printf("  - %s: %s\n", spec.Key, desc)
			}
		}
	}

	pw.line("")
	pw.line(rule)
	pw.line("NEXT STEPS FOR POWER BI:")
	pw.line(rule)
	for i, step := range NextSteps {
		pw.printf("%d. %s\n", i+1, step)
	}
	pw.line("")
	pw.printf("All files are ready for Power BI import from %s\n", p.paths.PowerBIDir)

	return pw.err
}

// printer remembers the first write error so Run can report it once
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) line(s string) {
	p.printf("%s\n", s)
}

func (p *printer) printReport(n int, r FileReport) {
	names := r.Names
	if len(names) > sampleColumns {
		names = names[:sampleColumns]
	}

	p.printf("\n%d. %s\n", n, r.File)
	p.printf("   Rows: %d | Columns: %d\n", r.Rows, r.Columns)
	p.printf("   Date Range: %s\n", r.DateRange)
	p.printf("   Sample columns: [%s]\n", strings.Join(names, ", "))
	p.line("   Sample data:")

	if p.err != nil || len(r.Sample) == 0 {
		return
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	for _, rec := range r.Sample {
		if _, err := fmt.Fprintf(tw, "   %s\n", strings.Join(rec, "\t")); err != nil {
			p.err = err
			return
		}
	}
	p.err = tw.Flush()
}

func hasColumn(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}
