package operations

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"evagobi/internal/errors"
	"evagobi/internal/infrastructure"
	"evagobi/pkg/contracts/events"

	"github.com/google/uuid"
)

// OperationRequest asks for one pipeline run
type OperationRequest struct {
	ID         string            `json:"id,omitempty"`
	Steps      []string          `json:"steps,omitempty" validate:"omitempty,dive,oneof=generate prepare export trends"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// OperationResponse is the outcome of a finished run
type OperationResponse struct {
	ID       string                `json:"id"`
	Status   OperationStatus       `json:"status"`
	Duration time.Duration         `json:"duration"`
	Steps    []events.StepSnapshot `json:"steps"`
	Error    string                `json:"error,omitempty"`
}

// Manager runs pipeline operations, one at a time
type Manager struct {
	registry    *Registry
	config      *Config
	broadcaster *StatusBroadcaster
	tracer      *OperationTracer
	logger      *slog.Logger

	mu      sync.Mutex
	running string
	cancels map[string]context.CancelFunc
	history []string
	wg      sync.WaitGroup
}

// NewManager creates an operation manager. registry, config, hub and metrics may be nil.
func NewManager(hub WebSocketHub, registry *Registry, config *Config, logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "operations"))

	return &Manager{
		registry:    registry,
		config:      config,
		broadcaster: NewStatusBroadcaster(hub, logger),
		tracer:      NewOperationTracer(metrics),
		logger:      logger,
		cancels:     make(map[string]context.CancelFunc),
	}
}

// RegisterStep registers a step with the pipeline
func (m *Manager) RegisterStep(step Step) error {
	return m.registry.Register(step)
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

// Execute runs an operation and waits for it to finish
func (m *Manager) Execute(ctx context.Context, req OperationRequest) (*OperationResponse, error) {
	state, steps, err := m.begin(req)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := m.runContext(ctx)
	m.setCancel(state.ID, cancel)
	defer cancel()

	err = m.run(runCtx, state, steps)
	return m.createResponse(state), err
}

// Start launches an operation in the background and returns its ID. The
// run outlives ctx but keeps its values, such as the trace ID.
func (m *Manager) Start(ctx context.Context, req OperationRequest) (string, error) {
	state, steps, err := m.begin(req)
	if err != nil {
		return "", err
	}

	runCtx, cancel := m.runContext(context.WithoutCancel(ctx))
	m.setCancel(state.ID, cancel)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()
		if err := m.run(runCtx, state, steps); err != nil {
			m.logger.ErrorContext(runCtx, "operation_failed",
				slog.String("operation_id", state.ID),
				slog.String("error", err.Error()))
		}
	}()

	return state.ID, nil
}

func (m *Manager) runContext(parent context.Context) (context.Context, context.CancelFunc) {
	if m.config.OperationTimeout > 0 {
		return context.WithTimeout(parent, m.config.OperationTimeout)
	}
	return context.WithCancel(parent)
}

// begin claims the single running slot and creates the operation
func (m *Manager) begin(req OperationRequest) (*OperationState, []Step, error) {
	steps, err := m.registry.Select(req.Steps, m.config.OptionalSteps...)
	if err != nil {
		return nil, nil, errors.NewAppValidationError(err.Error())
	}
	if len(steps) == 0 {
		return nil, nil, errors.NewAppValidationError("no steps to run")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running != "" {
		return nil, nil, errors.NewConflictError(fmt.Sprintf("operation %s is already running", m.running)).
			WithContext("operation_id", m.running)
	}

	id := req.ID
	if id == "" {
		id = "operation-" + uuid.NewString()
	}
	if _, exists := m.broadcaster.GetSnapshot(id); exists {
		return nil, nil, errors.NewConflictError(fmt.Sprintf("operation %s already exists", id))
	}

	state := NewOperationState(id)
	for k, v := range req.Parameters {
		state.SetParameter(k, v)
	}
	for _, step := range steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	m.running = id
	m.broadcaster.CreateOperation(id, steps)
	m.remember(id)
	return state, steps, nil
}

// run executes the steps sequentially; each step consumes the data of the previous one
func (m *Manager) run(ctx context.Context, state *OperationState, steps []Step) error {
	defer m.release(state.ID)

	ids := make([]string, len(steps))
	for i, step := range steps {
		ids[i] = step.ID()
	}
	ctx, span := m.tracer.TraceOperation(ctx, state.ID, ids)

	state.Start()
	m.broadcaster.StartOperation(state.ID)
	m.logger.InfoContext(ctx, "operation_started",
		slog.String("operation_id", state.ID),
		slog.Any("steps", ids))

	var firstErr error
	for i, step := range steps {
		if ctx.Err() != nil {
			m.skipRemaining(state, steps[i:], "Operation cancelled")
			firstErr = NewCancellationError(step.ID())
			break
		}
		if firstErr != nil && !m.config.ContinueOnError {
			m.skipRemaining(state, steps[i:], "Previous step failed")
			break
		}

		m.logger.InfoContext(ctx, "executing_step",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(steps)))

		if err := m.executeStep(ctx, state, step); err != nil {
			m.logger.ErrorContext(ctx, "step_failed",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
			if GetErrorType(err) == ErrorTypeCancellation {
				m.skipRemaining(state, steps[i+1:], "Operation cancelled")
				break
			}
		}
	}

	switch {
	case GetErrorType(firstErr) == ErrorTypeCancellation:
		state.Cancel()
		m.broadcaster.CancelOperation(state.ID)
	case firstErr != nil:
		state.Fail(firstErr)
		m.broadcaster.FailOperation(state.ID, firstErr)
	default:
		state.Complete()
		m.broadcaster.CompleteOperation(state.ID, "Operation completed successfully")
	}

	m.tracer.EndOperation(span, state.GetStatus(), firstErr)
	m.logger.InfoContext(ctx, "operation_finished",
		slog.String("operation_id", state.ID),
		slog.String("status", string(state.GetStatus())),
		slog.Duration("duration", state.Duration()))
	return firstErr
}

// executeStep runs one step with its timeout and retry policy
func (m *Manager) executeStep(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStep(step.ID())
	if stepState == nil {
		return NewFatalError("step state not found", nil)
	}

	if err := step.Validate(state); err != nil {
		valErr := NewValidationError(step.ID(), err.Error())
		stepState.Fail(valErr)
		m.broadcaster.FailStep(state.ID, step.ID(), valErr)
		return valErr
	}

	timeout := m.config.GetStepTimeout(step.ID())
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	retry := m.config.RetryConfig
	for attempt := 1; ; attempt++ {
		stepState.Start()
		m.broadcaster.StartStep(state.ID, step.ID())

		spanCtx, span := m.tracer.TraceStep(stepCtx, state.ID, step.ID(), attempt)
		start := time.Now()
		err := step.Execute(spanCtx, state)
		duration := time.Since(start)
		m.tracer.EndStep(spanCtx, span, step.ID(), duration, err)

		if err == nil {
			stepState.Complete()
			m.broadcaster.CompleteStep(state.ID, step.ID(), "Step completed successfully", stepState.MetadataCopy())
			m.logger.InfoContext(ctx, "step_completed",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()),
				slog.Duration("duration", duration))
			return nil
		}

		switch {
		case ctx.Err() != nil:
			err = NewCancellationError(step.ID())
		case stepCtx.Err() == context.DeadlineExceeded:
			err = NewTimeoutError(step.ID(), timeout.String())
		case IsRetryable(err) && attempt < retry.MaxAttempts:
			delay := retry.Delay(attempt)
			m.logger.WarnContext(ctx, "step_retry",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()),
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", retry.MaxAttempts),
				slog.Duration("delay", delay),
				slog.String("error", err.Error()))

			select {
			case <-time.After(delay):
				continue
			case <-stepCtx.Done():
				if ctx.Err() != nil {
					err = NewCancellationError(step.ID())
				} else {
					err = NewTimeoutError(step.ID(), timeout.String())
				}
			}
		}

		opErr := WrapError(err, step.ID())
		stepState.Fail(opErr)
		m.broadcaster.FailStep(state.ID, step.ID(), opErr)
		return opErr
	}
}

func (m *Manager) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, step := range steps {
		if s := state.GetStep(step.ID()); s != nil {
			s.Skip(reason)
		}
		m.broadcaster.SkipStep(state.ID, step.ID(), reason)
	}
}

func (m *Manager) createResponse(state *OperationState) *OperationResponse {
	resp := &OperationResponse{
		ID:       state.ID,
		Status:   state.GetStatus(),
		Duration: state.Duration(),
	}
	if snapshot, ok := m.broadcaster.GetSnapshot(state.ID); ok {
		resp.Steps = snapshot.Steps
	}
	if state.Error != nil {
		resp.Error = state.Error.Error()
	}
	return resp
}

// Get returns the latest snapshot of an operation
func (m *Manager) Get(id string) (events.OperationSnapshot, error) {
	snapshot, ok := m.broadcaster.GetSnapshot(id)
	if !ok {
		return events.OperationSnapshot{}, errors.NewNotFoundError("operation " + id)
	}
	return snapshot, nil
}

// List returns the snapshots of the known operations, oldest first
func (m *Manager) List() []events.OperationSnapshot {
	snapshots := m.broadcaster.GetAllSnapshots()
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].StartedAt.Before(snapshots[j].StartedAt)
	})
	return snapshots
}

// Running returns the ID of the running operation, or ""
func (m *Manager) Running() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Cancel stops a running operation
func (m *Manager) Cancel(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cancel, ok := m.cancels[id]; ok {
		cancel()
		return nil
	}
	if _, exists := m.broadcaster.GetSnapshot(id); exists {
		return errors.NewConflictError(fmt.Sprintf("operation %s is not running", id))
	}
	return errors.NewNotFoundError("operation " + id)
}

// Shutdown cancels the running operation and waits for background runs
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	for _, cancel := range m.cancels {
		cancel()
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) setCancel(id string, cancel context.CancelFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancels[id] = cancel
}

func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cancels, id)
	if m.running == id {
		m.running = ""
	}
}

// remember keeps the last HistorySize operations; the caller holds m.mu
func (m *Manager) remember(id string) {
	m.history = append(m.history, id)
	for m.config.HistorySize > 0 && len(m.history) > m.config.HistorySize {
		oldest := m.history[0]
		m.history = m.history[1:]
		m.broadcaster.RemoveOperation(oldest)
	}
}
