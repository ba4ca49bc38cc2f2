package operations

import (
	"log/slog"
	"sync"
	"time"

	"evagobi/pkg/contracts/events"
)

// WebSocketHub receives every operation snapshot
type WebSocketHub interface {
	BroadcastSnapshot(snapshot events.OperationSnapshot)
}

// StatusBroadcaster is the single authority for operation status. It keeps
// the latest snapshot of every operation and pushes a copy to the hub after
// each change.
type StatusBroadcaster struct {
	mu         sync.RWMutex
	operations map[string]*events.OperationSnapshot
	hub        WebSocketHub
	logger     *slog.Logger
}

// NewStatusBroadcaster creates a new status broadcaster. hub may be nil.
func NewStatusBroadcaster(hub WebSocketHub, logger *slog.Logger) *StatusBroadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusBroadcaster{
		operations: make(map[string]*events.OperationSnapshot),
		hub:        hub,
		logger:     logger.With(slog.String("component", "status_broadcaster")),
	}
}

// UpdateStatus applies updateFunc to the operation snapshot and broadcasts
// the result. Updates are serialized.
func (sb *StatusBroadcaster) UpdateStatus(operationID string, updateFunc func(*events.OperationSnapshot)) {
	sb.mu.Lock()
	snapshot, exists := sb.operations[operationID]
	if !exists {
		now := time.Now()
		snapshot = &events.OperationSnapshot{
			OperationID: operationID,
			Status:      string(OperationStatusPending),
			StartedAt:   now,
			Steps:       []events.StepSnapshot{},
		}
		sb.operations[operationID] = snapshot
	}

	updateFunc(snapshot)
	snapshot.UpdatedAt = time.Now()

	if len(snapshot.Steps) > 0 {
		total := 0
		for _, step := range snapshot.Steps {
			total += step.Progress
		}
		snapshot.Progress = total / len(snapshot.Steps)
	}

	if OperationStatus(snapshot.Status).IsTerminal() && snapshot.CompletedAt == nil {
		now := time.Now()
		snapshot.CompletedAt = &now
	}

	out := copySnapshot(snapshot)
	sb.mu.Unlock()

	sb.broadcast(out)
}

func (sb *StatusBroadcaster) broadcast(snapshot events.OperationSnapshot) {
	sb.logger.Debug("broadcasting operation snapshot",
		slog.String("operation_id", snapshot.OperationID),
		slog.String("status", snapshot.Status),
		slog.Int("progress", snapshot.Progress),
		slog.String("current_step", snapshot.CurrentStep))

	if sb.hub == nil {
		return
	}
	sb.hub.BroadcastSnapshot(snapshot)
}

// CreateOperation initializes an operation with its steps in execution order
func (sb *StatusBroadcaster) CreateOperation(operationID string, steps []Step) {
	sb.UpdateStatus(operationID, func(snapshot *events.OperationSnapshot) {
		snapshot.Status = string(OperationStatusPending)
		snapshot.Progress = 0
		snapshot.Steps = make([]events.StepSnapshot, len(steps))
		for i, step := range steps {
			snapshot.Steps[i] = events.StepSnapshot{
				ID:     step.ID(),
				Name:   step.Name(),
				Status: string(StepStatusPending),
			}
		}
		snapshot.Message = "Operation created"
	})
}

// StartOperation marks an operation as running
func (sb *StatusBroadcaster) StartOperation(operationID string) {
	sb.UpdateStatus(operationID, func(snapshot *events.OperationSnapshot) {
		snapshot.Status = string(OperationStatusRunning)
		snapshot.Message = "Operation started"
	})
}

// StartStep marks a step as running
func (sb *StatusBroadcaster) StartStep(operationID, stepID string) {
	sb.updateStep(operationID, stepID, func(snapshot *events.OperationSnapshot, step *events.StepSnapshot) {
		step.Status = string(StepStatusRunning)
		step.Progress = 0
		step.Error = ""
		step.Message = "Step started"
		snapshot.CurrentStep = step.Name
	})
}

// CompleteStep marks a step as completed and attaches its results
func (sb *StatusBroadcaster) CompleteStep(operationID, stepID, message string, metadata map[string]interface{}) {
	sb.updateStep(operationID, stepID, func(_ *events.OperationSnapshot, step *events.StepSnapshot) {
		step.Status = string(StepStatusCompleted)
		step.Progress = 100
		step.Message = message
		step.Metadata = metadata
	})
}

// FailStep marks a step as failed
func (sb *StatusBroadcaster) FailStep(operationID, stepID string, err error) {
	sb.updateStep(operationID, stepID, func(_ *events.OperationSnapshot, step *events.StepSnapshot) {
		step.Status = string(StepStatusFailed)
		step.Error = err.Error()
		step.Message = "Step failed"
	})
}

// SkipStep marks a step as skipped. A skipped step counts as done for progress.
func (sb *StatusBroadcaster) SkipStep(operationID, stepID, reason string) {
	sb.updateStep(operationID, stepID, func(_ *events.OperationSnapshot, step *events.StepSnapshot) {
		step.Status = string(StepStatusSkipped)
		step.Progress = 100
		step.Message = reason
	})
}

func (sb *StatusBroadcaster) updateStep(operationID, stepID string, apply func(*events.OperationSnapshot, *events.StepSnapshot)) {
	sb.UpdateStatus(operationID, func(snapshot *events.OperationSnapshot) {
		for i := range snapshot.Steps {
			if snapshot.Steps[i].ID == stepID {
				apply(snapshot, &snapshot.Steps[i])
				return
			}
		}
		sb.logger.Warn("status update for unknown step",
			slog.String("operation_id", operationID),
			slog.String("step", stepID))
	})
}

// CompleteOperation marks an operation as completed
func (sb *StatusBroadcaster) CompleteOperation(operationID, message string) {
	sb.UpdateStatus(operationID, func(snapshot *events.OperationSnapshot) {
		snapshot.Status = string(OperationStatusCompleted)
		snapshot.CurrentStep = ""
		snapshot.Message = message
	})
}

// FailOperation marks an operation as failed
func (sb *StatusBroadcaster) FailOperation(operationID string, err error) {
	sb.UpdateStatus(operationID, func(snapshot *events.OperationSnapshot) {
		snapshot.Status = string(OperationStatusFailed)
		snapshot.Error = err.Error()
		snapshot.Message = "Operation failed"
	})
}

// CancelOperation marks an operation as cancelled
func (sb *StatusBroadcaster) CancelOperation(operationID string) {
	sb.UpdateStatus(operationID, func(snapshot *events.OperationSnapshot) {
		snapshot.Status = string(OperationStatusCancelled)
		snapshot.Message = "Operation cancelled"
	})
}

// GetSnapshot returns a copy of the latest snapshot
func (sb *StatusBroadcaster) GetSnapshot(operationID string) (events.OperationSnapshot, bool) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	snapshot, exists := sb.operations[operationID]
	if !exists {
		return events.OperationSnapshot{}, false
	}
	return copySnapshot(snapshot), true
}

// GetAllSnapshots returns a copy of every known snapshot
func (sb *StatusBroadcaster) GetAllSnapshots() []events.OperationSnapshot {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	out := make([]events.OperationSnapshot, 0, len(sb.operations))
	for _, snapshot := range sb.operations {
		out = append(out, copySnapshot(snapshot))
	}
	return out
}

// RemoveOperation forgets an operation
func (sb *StatusBroadcaster) RemoveOperation(operationID string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	delete(sb.operations, operationID)
}

func copySnapshot(s *events.OperationSnapshot) events.OperationSnapshot {
	out := *s
	out.Steps = make([]events.StepSnapshot, len(s.Steps))
	copy(out.Steps, s.Steps)
	if s.CompletedAt != nil {
		completed := *s.CompletedAt
		out.CompletedAt = &completed
	}
	return out
}
