package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the business instruments of the data pipeline.
// A nil *PipelineMetrics is valid and records nothing.
type PipelineMetrics struct {
	RowsGenerated       metric.Int64Counter
	ChartsPrepared      metric.Int64Counter
	ChartRows           metric.Int64Counter
	StepDuration        metric.Float64Histogram
	TrendsRequests      metric.Int64Counter
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsGenerated, err := meter.Int64Counter(
		"evago_rows_generated_total",
		metric.WithDescription("Synthetic rows generated per dataset"),
	)
	if err != nil {
		return nil, err
	}

	chartsPrepared, err := meter.Int64Counter(
		"evago_charts_prepared_total",
		metric.WithDescription("Chart tables written"),
	)
	if err != nil {
		return nil, err
	}

	chartRows, err := meter.Int64Counter(
		"evago_chart_rows_total",
		metric.WithDescription("Rows written to chart tables"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"evago_step_duration_seconds",
		metric.WithDescription("Pipeline step duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	trendsRequests, err := meter.Int64Counter(
		"evago_trends_requests_total",
		metric.WithDescription("Search trends API requests"),
	)
	if err != nil {
		return nil, err
	}

	httpRequestsTotal, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	httpRequestDuration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RowsGenerated:       rowsGenerated,
		ChartsPrepared:      chartsPrepared,
		ChartRows:           chartRows,
		StepDuration:        stepDuration,
		TrendsRequests:      trendsRequests,
		HTTPRequestsTotal:   httpRequestsTotal,
		HTTPRequestDuration: httpRequestDuration,
	}, nil
}

// RecordRows counts generated rows for a dataset
func (m *PipelineMetrics) RecordRows(ctx context.Context, dataset string, rows int) {
	if m == nil {
		return
	}
	m.RowsGenerated.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("dataset", dataset)))
}

// RecordChart counts a written chart table and its rows
func (m *PipelineMetrics) RecordChart(ctx context.Context, chart string, rows int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("chart", chart))
	m.ChartsPrepared.Add(ctx, 1, attrs)
	m.ChartRows.Add(ctx, int64(rows), attrs)
}

// RecordStep observes the duration of a pipeline step
func (m *PipelineMetrics) RecordStep(ctx context.Context, step, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.StepDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("step", step),
		attribute.String("status", status),
	))
}

// RecordTrendsRequest counts one trends API round trip
func (m *PipelineMetrics) RecordTrendsRequest(ctx context.Context, endpoint, status string) {
	if m == nil {
		return
	}
	m.TrendsRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("status", status),
	))
}

// RecordHTTPRequest observes one served HTTP request
func (m *PipelineMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, d.Seconds(), attrs)
}
