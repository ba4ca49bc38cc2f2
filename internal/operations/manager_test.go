package operations

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"evagobi/internal/errors"
	"evagobi/pkg/contracts/events"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// funcStep runs fn as its Execute
type funcStep struct {
	BaseStep
	fn       func(ctx context.Context, state *OperationState) error
	validate error
	calls    atomic.Int32
}

func newFuncStep(id string, fn func(ctx context.Context, state *OperationState) error) *funcStep {
	return &funcStep{BaseStep: NewBaseStep(id, "Step "+id), fn: fn}
}

func (s *funcStep) Execute(ctx context.Context, state *OperationState) error {
	s.calls.Add(1)
	if s.fn == nil {
		return nil
	}
	return s.fn(ctx, state)
}

func (s *funcStep) Validate(*OperationState) error {
	return s.validate
}

// recordingHub keeps every snapshot it receives
type recordingHub struct {
	mu        sync.Mutex
	snapshots []events.OperationSnapshot
}

func (h *recordingHub) BroadcastSnapshot(s events.OperationSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snapshots = append(h.snapshots, s)
}

func (h *recordingHub) last() events.OperationSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshots[len(h.snapshots)-1]
}

func testConfig() *Config {
	cfg := NewConfig()
	cfg.RetryConfig = RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
	return cfg
}

func newTestManager(t *testing.T, steps ...Step) (*Manager, *recordingHub) {
	t.Helper()
	hub := &recordingHub{}
	m := NewManager(hub, nil, testConfig(), nil, nil)
	for _, s := range steps {
		require.NoError(t, m.RegisterStep(s))
	}
	return m, hub
}

func stepStatuses(steps []events.StepSnapshot) map[string]string {
	out := make(map[string]string, len(steps))
	for _, s := range steps {
		out[s.ID] = s.Status
	}
	return out
}

func TestManagerExecuteSequential(t *testing.T) {
	var order []string
	record := func(id string) func(context.Context, *OperationState) error {
		return func(context.Context, *OperationState) error {
			order = append(order, id)
			return nil
		}
	}
	m, hub := newTestManager(t,
		newFuncStep("one", record("one")),
		newFuncStep("two", record("two")),
		newFuncStep("three", record("three")))

	resp, err := m.Execute(context.Background(), OperationRequest{ID: "op-1"})
	require.NoError(t, err)

	assert.Equal(t, []string{"one", "two", "three"}, order)
	assert.Equal(t, "op-1", resp.ID)
	assert.Equal(t, OperationStatusCompleted, resp.Status)
	assert.Len(t, resp.Steps, 3)

	last := hub.last()
	assert.Equal(t, "completed", last.Status)
	assert.Equal(t, 100, last.Progress)
	assert.NotNil(t, last.CompletedAt)
	for _, s := range last.Steps {
		assert.Equal(t, "completed", s.Status)
	}
	assert.Empty(t, m.Running())
}

func TestManagerExecuteGeneratesID(t *testing.T) {
	m, _ := newTestManager(t, newFuncStep("one", nil))

	resp, err := m.Execute(context.Background(), OperationRequest{})
	require.NoError(t, err)
	assert.Contains(t, resp.ID, "operation-")

	_, err = m.Get(resp.ID)
	assert.NoError(t, err)
}

func TestManagerStepFailureSkipsRemaining(t *testing.T) {
	boom := fmt.Errorf("disk full")
	third := newFuncStep("three", nil)
	m, _ := newTestManager(t,
		newFuncStep("one", nil),
		newFuncStep("two", func(context.Context, *OperationState) error { return boom }),
		third)

	resp, err := m.Execute(context.Background(), OperationRequest{ID: "op-fail"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, ErrorTypeExecution, GetErrorType(err))

	assert.Equal(t, OperationStatusFailed, resp.Status)
	assert.Contains(t, resp.Error, "disk full")
	assert.Equal(t, map[string]string{"one": "completed", "two": "failed", "three": "skipped"}, stepStatuses(resp.Steps))
	assert.Equal(t, int32(0), third.calls.Load())
}

func TestManagerContinueOnError(t *testing.T) {
	third := newFuncStep("three", nil)
	m, _ := newTestManager(t,
		newFuncStep("one", func(context.Context, *OperationState) error { return fmt.Errorf("bad") }),
		third)
	m.GetConfig().ContinueOnError = true

	resp, err := m.Execute(context.Background(), OperationRequest{})
	require.Error(t, err)
	assert.Equal(t, OperationStatusFailed, resp.Status)
	assert.Equal(t, int32(1), third.calls.Load())
	assert.Equal(t, "completed", stepStatuses(resp.Steps)["three"])
}

func TestManagerRetriesRetryableErrors(t *testing.T) {
	var attempts int
	flaky := newFuncStep("flaky", func(context.Context, *OperationState) error {
		attempts++
		if attempts < 3 {
			return NewExecutionError("flaky", fmt.Errorf("timeout"), true)
		}
		return nil
	})
	m, _ := newTestManager(t, flaky)

	resp, err := m.Execute(context.Background(), OperationRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, OperationStatusCompleted, resp.Status)
}

func TestManagerGivesUpAfterMaxAttempts(t *testing.T) {
	step := newFuncStep("flaky", func(context.Context, *OperationState) error {
		return NewExecutionError("flaky", fmt.Errorf("timeout"), true)
	})
	m, _ := newTestManager(t, step)

	_, err := m.Execute(context.Background(), OperationRequest{})
	require.Error(t, err)
	assert.Equal(t, int32(3), step.calls.Load())
}

func TestManagerValidationFailure(t *testing.T) {
	step := newFuncStep("checked", nil)
	step.validate = fmt.Errorf("missing input")
	m, _ := newTestManager(t, step)

	resp, err := m.Execute(context.Background(), OperationRequest{})
	require.Error(t, err)
	assert.Equal(t, ErrorTypeValidation, GetErrorType(err))
	assert.Equal(t, int32(0), step.calls.Load())
	assert.Equal(t, "failed", stepStatuses(resp.Steps)["checked"])
}

func TestManagerStepTimeout(t *testing.T) {
	slow := newFuncStep("slow", func(ctx context.Context, _ *OperationState) error {
		<-ctx.Done()
		return ctx.Err()
	})
	m, _ := newTestManager(t, slow)
	m.GetConfig().SetStepTimeout("slow", 20*time.Millisecond)

	_, err := m.Execute(context.Background(), OperationRequest{})
	require.Error(t, err)
	assert.Equal(t, ErrorTypeTimeout, GetErrorType(err))
}

func TestManagerRejectsConcurrentRuns(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	m, _ := newTestManager(t, newFuncStep("block", func(ctx context.Context, _ *OperationState) error {
		close(started)
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}))

	id, err := m.Start(context.Background(), OperationRequest{ID: "first"})
	require.NoError(t, err)
	<-started
	assert.Equal(t, id, m.Running())

	_, err = m.Start(context.Background(), OperationRequest{ID: "second"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeConflict))

	close(release)
	require.NoError(t, m.Shutdown(context.Background()))

	snapshot, err := m.Get("first")
	require.NoError(t, err)
	assert.Equal(t, "completed", snapshot.Status)
	assert.Empty(t, m.Running())
}

func TestManagerCancel(t *testing.T) {
	started := make(chan struct{})
	after := newFuncStep("after", nil)
	m, _ := newTestManager(t,
		newFuncStep("wait", func(ctx context.Context, _ *OperationState) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		}),
		after)

	id, err := m.Start(context.Background(), OperationRequest{})
	require.NoError(t, err)
	<-started

	require.NoError(t, m.Cancel(id))
	require.NoError(t, m.Shutdown(context.Background()))

	snapshot, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", snapshot.Status)
	assert.Equal(t, map[string]string{"wait": "failed", "after": "skipped"}, stepStatuses(snapshot.Steps))
	assert.Equal(t, int32(0), after.calls.Load())

	err = m.Cancel(id)
	assert.True(t, errors.IsType(err, errors.ErrTypeConflict))
	err = m.Cancel("nope")
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
}

func TestManagerRequestValidation(t *testing.T) {
	m, _ := newTestManager(t, newFuncStep("one", nil))

	_, err := m.Execute(context.Background(), OperationRequest{Steps: []string{"missing"}})
	assert.True(t, errors.IsType(err, errors.ErrTypeValidation))

	empty, _ := newTestManager(t)
	_, err = empty.Execute(context.Background(), OperationRequest{})
	assert.True(t, errors.IsType(err, errors.ErrTypeValidation))

	_, err = m.Execute(context.Background(), OperationRequest{ID: "dup"})
	require.NoError(t, err)
	_, err = m.Execute(context.Background(), OperationRequest{ID: "dup"})
	assert.True(t, errors.IsType(err, errors.ErrTypeConflict))
}

func TestManagerHistory(t *testing.T) {
	m, _ := newTestManager(t, newFuncStep("one", nil))
	m.GetConfig().HistorySize = 2

	for i := 0; i < 3; i++ {
		_, err := m.Execute(context.Background(), OperationRequest{ID: fmt.Sprintf("op-%d", i)})
		require.NoError(t, err)
	}

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, "op-1", list[0].OperationID)
	assert.Equal(t, "op-2", list[1].OperationID)

	_, err := m.Get("op-0")
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
}

func TestManagerParametersReachSteps(t *testing.T) {
	var seen string
	m, _ := newTestManager(t, newFuncStep("one", func(_ context.Context, state *OperationState) error {
		seen, _ = state.Parameter("seed")
		return nil
	}))

	_, err := m.Execute(context.Background(), OperationRequest{Parameters: map[string]string{"seed": "7"}})
	require.NoError(t, err)
	assert.Equal(t, "7", seen)
}

func TestRetryConfigDelay(t *testing.T) {
	cfg := RetryConfig{InitialDelay: time.Second, MaxDelay: 5 * time.Second, Multiplier: 2}
	assert.Equal(t, time.Second, cfg.Delay(1))
	assert.Equal(t, 2*time.Second, cfg.Delay(2))
	assert.Equal(t, 4*time.Second, cfg.Delay(3))
	assert.Equal(t, 5*time.Second, cfg.Delay(4))
}
