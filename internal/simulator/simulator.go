package simulator

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"evagobi/internal/config"
	"evagobi/internal/errors"
	"evagobi/internal/infrastructure"
	"evagobi/pkg/contracts/domain"
)

// Config bounds a simulation run. Both dates are inclusive.
type Config struct {
	StartDate time.Time
	EndDate   time.Time
	Seed      int64
	Profile   Profile
	// EventDate starts the post-acquisition uplift of the global and partner
	// profiles; the standard profile ignores it
	EventDate time.Time
}

// ConfigFrom converts the simulation section of the application config
func ConfigFrom(cfg config.SimulationConfig) (Config, error) {
	start, end, err := cfg.DateRange()
	if err != nil {
		return Config{}, errors.NewConfigError("invalid simulation window", err)
	}
	event, err := cfg.Event()
	if err != nil {
		return Config{}, errors.NewConfigError("invalid simulation event date", err)
	}
	return Config{
		StartDate: start,
		EndDate:   end,
		Seed:      cfg.Seed,
		Profile:   Profile(cfg.Profile),
		EventDate: event,
	}, nil
}

// Simulator generates every raw dataset over a daily date range
type Simulator struct {
	cfg     Config
	catalog Catalog
	// event is zero for profiles without an acquisition
	event   time.Time
	dates   []time.Time
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics
}

// New creates a simulator. metrics may be nil.
func New(cfg Config, logger *slog.Logger, metrics *infrastructure.PipelineMetrics) (*Simulator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.StartDate.IsZero() || cfg.EndDate.IsZero() {
		return nil, errors.NewAppValidationError("simulation dates are required")
	}
	if cfg.EndDate.Before(cfg.StartDate) {
		return nil, errors.NewAppValidationError("simulation end date is before start date").
			WithContext("start", cfg.StartDate.Format(config.DateLayout)).
			WithContext("end", cfg.EndDate.Format(config.DateLayout))
	}

	catalog, err := CatalogFor(cfg.Profile)
	if err != nil {
		return nil, errors.NewAppValidationError(err.Error())
	}
	var event time.Time
	if catalog.Profile != ProfileStandard {
		event = cfg.EventDate
	}

	return &Simulator{
		cfg:     cfg,
		catalog: catalog,
		event:   event,
		dates:   dailyRange(cfg.StartDate, cfg.EndDate),
		logger:  logger.With(slog.String("component", "simulator")),
		metrics: metrics,
	}, nil
}

// Dates returns the simulated days in order
func (s *Simulator) Dates() []time.Time {
	return s.dates
}

// Catalog returns the dimension values of the run's profile
func (s *Simulator) Catalog() Catalog {
	return s.catalog
}

// afterEvent reports whether date falls on or after the event date
func (s *Simulator) afterEvent(date time.Time) bool {
	return !s.event.IsZero() && !date.Before(s.event)
}

// DateRangeLabel renders the window as "2023-01-01 to 2024-12-31"
func (s *Simulator) DateRangeLabel() string {
	return fmt.Sprintf("%s to %s", s.cfg.StartDate.Format(config.DateLayout), s.cfg.EndDate.Format(config.DateLayout))
}

// GenerateAll runs every generator concurrently and collects the datasets
func (s *Simulator) GenerateAll(ctx context.Context) (*domain.Datasets, error) {
	start := time.Now()
	ds := domain.NewDatasets()
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range s.catalog.Datasets() {
		name := name
		g.Go(func() error {
			n, err := s.generate(gctx, ds, &mu, name)
			if err != nil {
				return fmt.Errorf("generate %s: %w", name, err)
			}
			s.metrics.RecordRows(gctx, name, n)
			s.logger.DebugContext(gctx, "Dataset generated",
				slog.String("dataset", name),
				slog.Int("rows", n))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Data generation complete",
		slog.Int("datasets", len(ds.Present())),
		slog.Int("total_records", ds.TotalRecords()),
		slog.String("date_range", s.DateRangeLabel()),
		slog.String("profile", string(s.catalog.Profile)),
		slog.Duration("duration", time.Since(start)))
	return ds, nil
}

// generate fills one dataset slot; mu guards the shared container
func (s *Simulator) generate(ctx context.Context, ds *domain.Datasets, mu *sync.Mutex, name string) (int, error) {
	var (
		n   int
		err error
	)
	switch name {
	case domain.DatasetGoogleAnalytics:
		rows, e := s.GoogleAnalytics(ctx)
		n, err = len(rows), e
		store(mu, &ds.GoogleAnalytics, rows)
	case domain.DatasetGoogleAds:
		rows, e := s.GoogleAds(ctx)
		n, err = len(rows), e
		store(mu, &ds.GoogleAds, rows)
	case domain.DatasetSEOKeywords:
		rows, e := s.SEOKeywords(ctx)
		n, err = len(rows), e
		store(mu, &ds.SEOKeywords, rows)
	case domain.DatasetSocialMedia:
		rows, e := s.SocialMedia(ctx)
		n, err = len(rows), e
		store(mu, &ds.SocialMedia, rows)
	case domain.DatasetCompetitorAnalysis:
		rows, e := s.CompetitorAnalysis(ctx)
		n, err = len(rows), e
		store(mu, &ds.CompetitorAnalysis, rows)
	case domain.DatasetConversionFunnel:
		rows, e := s.ConversionFunnel(ctx)
		n, err = len(rows), e
		store(mu, &ds.ConversionFunnel, rows)
	case domain.DatasetDevicePerformance:
		rows, e := s.DevicePerformance(ctx)
		n, err = len(rows), e
		store(mu, &ds.DevicePerformance, rows)
	case domain.DatasetCampaignPerformance:
		rows, e := s.CampaignPerformance(ctx)
		n, err = len(rows), e
		store(mu, &ds.CampaignPerformance, rows)
	case domain.DatasetGeographicPerformance:
		rows, e := s.GeographicPerformance(ctx)
		n, err = len(rows), e
		store(mu, &ds.GeographicPerformance, rows)
	case domain.DatasetTimeSeries:
		rows, e := s.TimeSeries(ctx)
		n, err = len(rows), e
		store(mu, &ds.TimeSeries, rows)
	case domain.DatasetPartnerPerformance:
		rows, e := s.PartnerPerformance(ctx)
		n, err = len(rows), e
		store(mu, &ds.PartnerPerformance, rows)
	case domain.DatasetAcquisitionImpact:
		rows, e := s.AcquisitionImpact(ctx)
		n, err = len(rows), e
		store(mu, &ds.AcquisitionImpact, rows)
	default:
		return 0, fmt.Errorf("unknown dataset %q", name)
	}
	if err != nil {
		return 0, err
	}

	mu.Lock()
	ds.MarkPresent(name)
	mu.Unlock()
	return n, nil
}

func store[T any](mu *sync.Mutex, dst *[]T, rows []T) {
	mu.Lock()
	*dst = rows
	mu.Unlock()
}

// rngFor derives the random source of one dataset from the run seed
func (s *Simulator) rngFor(dataset string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(dataset))
	return rand.New(rand.NewPCG(uint64(s.cfg.Seed), h.Sum64()))
}

func dailyRange(start, end time.Time) []time.Time {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// uniform draws from [lo, hi)
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// randInt draws from [lo, hi], both ends included
func randInt(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}
