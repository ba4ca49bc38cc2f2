package app

import (
	"context"
	"fmt"
	"log/slog"

	"evagobi/internal/config"
	"evagobi/internal/dataprocessing"
	"evagobi/internal/infrastructure"
	"evagobi/internal/operations"
	"evagobi/internal/simulator"
	"evagobi/internal/trends"
)

// Runtime holds what every command needs: configuration, resolved paths,
// the logger and the telemetry providers
type Runtime struct {
	Config  *config.Config
	Paths   *config.Paths
	Logger  *slog.Logger
	OTel    *infrastructure.OTelProviders
	Metrics *infrastructure.PipelineMetrics
	System  *infrastructure.SystemMetrics
}

// Bootstrap resolves the paths, creates the output directories and starts
// telemetry
func Bootstrap(cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		_ = providers.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	system, err := infrastructure.NewSystemMetrics(providers.Meter)
	if err != nil {
		_ = providers.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create runtime metrics: %w", err)
	}

	return &Runtime{
		Config:  cfg,
		Paths:   paths,
		Logger:  logger,
		OTel:    providers,
		Metrics: metrics,
		System:  system,
	}, nil
}

// PipelineDeps builds the step dependencies from the configuration
func (rt *Runtime) PipelineDeps() (operations.PipelineDeps, error) {
	simCfg, err := simulator.ConfigFrom(rt.Config.Simulation)
	if err != nil {
		return operations.PipelineDeps{}, fmt.Errorf("invalid simulation config: %w", err)
	}
	exportOpts, err := dataprocessing.OptionsFromConfig(rt.Config.Export)
	if err != nil {
		return operations.PipelineDeps{}, fmt.Errorf("invalid export config: %w", err)
	}

	client, err := trends.NewGoogleClient(trends.ClientConfigFrom(rt.Config.Trends), rt.Logger, rt.Metrics)
	if err != nil {
		return operations.PipelineDeps{}, fmt.Errorf("failed to create trends client: %w", err)
	}
	collector := trends.NewCollector(client, trends.CollectorConfigFrom(rt.Config.Trends), rt.Logger)

	return operations.PipelineDeps{
		Paths:      rt.Paths,
		Simulation: simCfg,
		Export:     exportOpts,
		Trends:     collector,
		Logger:     rt.Logger,
		Metrics:    rt.Metrics,
	}, nil
}

// NewManager creates an operations manager with every pipeline step
// registered. hub may be nil when nobody listens for status updates.
func (rt *Runtime) NewManager(hub operations.WebSocketHub) (*operations.Manager, error) {
	deps, err := rt.PipelineDeps()
	if err != nil {
		return nil, err
	}
	return rt.NewManagerWith(hub, operations.PipelineSteps(deps)...)
}

// NewManagerWith creates an operations manager running the given steps
func (rt *Runtime) NewManagerWith(hub operations.WebSocketHub, steps ...operations.Step) (*operations.Manager, error) {
	opsCfg := operations.NewConfig()
	opsCfg.OperationTimeout = rt.Config.Server.OperationTimeout

	manager := operations.NewManager(hub, operations.NewRegistry(), opsCfg, rt.Logger, rt.Metrics)
	for _, step := range steps {
		if err := manager.RegisterStep(step); err != nil {
			return nil, fmt.Errorf("failed to register step %s: %w", step.ID(), err)
		}
	}
	return manager, nil
}

// Shutdown stops the runtime gauges and flushes telemetry
func (rt *Runtime) Shutdown(ctx context.Context) error {
	if rt.System != nil {
		_ = rt.System.Unregister()
	}
	if rt.OTel == nil {
		return nil
	}
	return rt.OTel.Shutdown(ctx)
}
