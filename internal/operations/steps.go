package operations

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"evagobi/internal/config"
	"evagobi/internal/dataprocessing"
	"evagobi/internal/errors"
	"evagobi/internal/infrastructure"
	"evagobi/internal/simulator"
	"evagobi/internal/trends"
)

// Request parameters understood by the steps
const (
	ParamStartDate = "start_date"
	ParamEndDate   = "end_date"
	ParamSeed      = "seed"
	ParamProfile   = "profile"
	ParamEventDate = "event_date"
)

// PipelineDeps wires the pipeline steps to the rest of the application
type PipelineDeps struct {
	Paths      *config.Paths
	Simulation simulator.Config
	Export     dataprocessing.PrepareOptions
	// Trends is nil when search trends collection is not configured
	Trends  *trends.Collector
	Logger  *slog.Logger
	Metrics *infrastructure.PipelineMetrics
}

// PipelineSteps returns the pipeline steps in execution order
func PipelineSteps(deps PipelineDeps) []Step {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	preparer := dataprocessing.NewPreparer(deps.Paths, deps.Export, deps.Logger, deps.Metrics)

	steps := []Step{
		NewGenerateStep(deps),
		NewPrepareStep(deps.Paths, preparer, dataprocessing.NewLoader(deps.Logger)),
		NewExportStep(preparer),
	}
	if deps.Trends != nil {
		steps = append(steps, NewTrendsStep(deps.Paths, deps.Trends))
	}
	return steps
}

// GenerateStep writes the synthetic raw datasets
type GenerateStep struct {
	BaseStep
	paths   *config.Paths
	cfg     simulator.Config
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics
}

// NewGenerateStep creates the data generation step
func NewGenerateStep(deps PipelineDeps) *GenerateStep {
	return &GenerateStep{
		BaseStep: NewBaseStep(StepIDGenerate, StepNameGenerate),
		paths:    deps.Paths,
		cfg:      deps.Simulation,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
	}
}

// Validate checks the date and seed overrides
func (s *GenerateStep) Validate(state *OperationState) error {
	_, err := s.config(state)
	return err
}

// config applies the request overrides to the configured simulation window
func (s *GenerateStep) config(state *OperationState) (simulator.Config, error) {
	cfg := s.cfg
	if v, ok := state.Parameter(ParamStartDate); ok && v != "" {
		t, err := time.Parse(config.DateLayout, v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s %q: %w", ParamStartDate, v, err)
		}
		cfg.StartDate = t
	}
	if v, ok := state.Parameter(ParamEndDate); ok && v != "" {
		t, err := time.Parse(config.DateLayout, v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s %q: %w", ParamEndDate, v, err)
		}
		cfg.EndDate = t
	}
	if v, ok := state.Parameter(ParamSeed); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s %q: %w", ParamSeed, v, err)
		}
		cfg.Seed = seed
	}
	if v, ok := state.Parameter(ParamProfile); ok && v != "" {
		if _, err := simulator.CatalogFor(simulator.Profile(v)); err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", ParamProfile, err)
		}
		cfg.Profile = simulator.Profile(v)
	}
	if v, ok := state.Parameter(ParamEventDate); ok && v != "" {
		t, err := time.Parse(config.DateLayout, v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s %q: %w", ParamEventDate, v, err)
		}
		cfg.EventDate = t
	}
	if cfg.EndDate.Before(cfg.StartDate) {
		return cfg, fmt.Errorf("end date %s is before start date %s",
			cfg.EndDate.Format(config.DateLayout), cfg.StartDate.Format(config.DateLayout))
	}
	return cfg, nil
}

// Execute generates every dataset and writes the CSVs and the summary
func (s *GenerateStep) Execute(ctx context.Context, state *OperationState) error {
	cfg, err := s.config(state)
	if err != nil {
		return err
	}
	sim, err := simulator.New(cfg, s.logger, s.metrics)
	if err != nil {
		return err
	}

	ds, err := sim.GenerateAll(ctx)
	if err != nil {
		return err
	}
	summary, err := sim.WriteAll(ctx, ds, s.paths.RawDir)
	if err != nil {
		return err
	}

	state.SetDatasets(ds)
	if step := state.GetStep(s.ID()); step != nil {
		step.SetMetadata("datasets", summary.DatasetsGenerated)
		step.SetMetadata("total_records", summary.TotalRecords)
		step.SetMetadata("date_range", summary.DateRange)
		step.SetMetadata("profile", summary.Profile)
	}
	return nil
}

// PrepareStep builds the chart tables and writes the chart CSVs
type PrepareStep struct {
	BaseStep
	paths    *config.Paths
	preparer *dataprocessing.Preparer
	loader   *dataprocessing.Loader
}

// NewPrepareStep creates the chart preparation step
func NewPrepareStep(paths *config.Paths, preparer *dataprocessing.Preparer, loader *dataprocessing.Loader) *PrepareStep {
	return &PrepareStep{
		BaseStep: NewBaseStep(StepIDPrepare, StepNamePrepare),
		paths:    paths,
		preparer: preparer,
		loader:   loader,
	}
}

// Execute uses the datasets of the generate step, or loads them from the raw directory
func (s *PrepareStep) Execute(ctx context.Context, state *OperationState) error {
	ds := state.Datasets()
	if ds == nil {
		loaded, err := s.loader.LoadAll(ctx, s.paths.RawDir)
		if err != nil {
			return err
		}
		ds = loaded
		state.SetDatasets(ds)
	}

	result, err := s.preparer.WriteCharts(ctx, ds)
	if err != nil {
		return err
	}
	if len(result.Tables) == 0 {
		return fmt.Errorf("no chart could be prepared from %s", s.paths.RawDir)
	}

	state.SetTables(result.Tables)
	if step := state.GetStep(s.ID()); step != nil {
		step.SetMetadata("charts", len(result.Tables))
		step.SetMetadata("skipped", result.Skipped)
	}
	return nil
}

// ExportStep writes the workbook, data model and chart images
type ExportStep struct {
	BaseStep
	preparer *dataprocessing.Preparer
}

// NewExportStep creates the Power BI export step
func NewExportStep(preparer *dataprocessing.Preparer) *ExportStep {
	return &ExportStep{
		BaseStep: NewBaseStep(StepIDExport, StepNameExport),
		preparer: preparer,
	}
}

// Validate requires the chart tables of the prepare step
func (s *ExportStep) Validate(state *OperationState) error {
	if len(state.Tables()) == 0 {
		return fmt.Errorf("no chart tables to export, run the %s step first", StepIDPrepare)
	}
	return nil
}

// Execute writes the export artifacts
func (s *ExportStep) Execute(ctx context.Context, state *OperationState) error {
	files, err := s.preparer.Export(ctx, state.Tables())
	if err != nil {
		return err
	}
	if step := state.GetStep(s.ID()); step != nil {
		step.SetMetadata("files", len(files))
	}
	return nil
}

// TrendsStep collects search interest for the tracked keywords
type TrendsStep struct {
	BaseStep
	paths     *config.Paths
	collector *trends.Collector
}

// NewTrendsStep creates the search trends step
func NewTrendsStep(paths *config.Paths, collector *trends.Collector) *TrendsStep {
	return &TrendsStep{
		BaseStep:  NewBaseStep(StepIDTrends, StepNameTrends),
		paths:     paths,
		collector: collector,
	}
}

// Execute collects the trends and writes them to the trends CSV
func (s *TrendsStep) Execute(ctx context.Context, state *OperationState) error {
	records, err := s.collector.CollectToFile(ctx, s.paths.TrendsCSV)
	if err != nil {
		return NewExecutionError(s.ID(), err, errors.IsType(err, errors.ErrTypeNetwork))
	}
	state.SetTrends(records)
	if step := state.GetStep(s.ID()); step != nil {
		step.SetMetadata("records", len(records))
	}
	return nil
}
