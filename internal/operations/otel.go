package operations

import (
	"context"
	"time"

	"evagobi/internal/infrastructure"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	TracerName = "evagobi.operations"
)

// OperationTracer instruments operations and steps with spans and metrics
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewOperationTracer creates a tracer on the global provider. metrics may be nil.
func NewOperationTracer(metrics *infrastructure.PipelineMetrics) *OperationTracer {
	return &OperationTracer{
		tracer:  otel.Tracer(TracerName),
		metrics: metrics,
	}
}

// TraceOperation creates a span for a whole pipeline run
func (ot *OperationTracer) TraceOperation(ctx context.Context, operationID string, stepIDs []string) (context.Context, trace.Span) {
	return ot.tracer.Start(ctx, "operation.execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.StringSlice("operation.steps", stepIDs),
		),
	)
}

// TraceStep creates a span for one step attempt
func (ot *OperationTracer) TraceStep(ctx context.Context, operationID, stepID string, attempt int) (context.Context, trace.Span) {
	return ot.tracer.Start(ctx, "operation.step."+stepID,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("step.id", stepID),
			attribute.Int("step.attempt", attempt),
		),
	)
}

// EndStep closes a step span and records the step duration
func (ot *OperationTracer) EndStep(ctx context.Context, span trace.Span, stepID string, duration time.Duration, err error) {
	status := string(StepStatusCompleted)
	if err != nil {
		status = string(StepStatusFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "step completed")
	}
	span.SetAttributes(
		attribute.String("step.status", status),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)
	span.End()

	ot.metrics.RecordStep(ctx, stepID, status, duration)
}

// EndOperation closes an operation span
func (ot *OperationTracer) EndOperation(span trace.Span, status OperationStatus, err error) {
	span.SetAttributes(attribute.String("operation.status", string(status)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "operation completed")
	}
	span.End()
}
