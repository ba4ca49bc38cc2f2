package operations

import (
	"sync"
	"time"

	"evagobi/pkg/contracts/domain"
)

// OperationStatus is the overall status of a pipeline run
type OperationStatus string

const (
	OperationStatusPending   OperationStatus = "pending"
	OperationStatusRunning   OperationStatus = "running"
	OperationStatusCompleted OperationStatus = "completed"
	OperationStatusFailed    OperationStatus = "failed"
	OperationStatusCancelled OperationStatus = "cancelled"
)

// IsTerminal reports whether the status is final
func (s OperationStatus) IsTerminal() bool {
	return s == OperationStatusCompleted || s == OperationStatusFailed || s == OperationStatusCancelled
}

// OperationState holds the runtime state of one pipeline run and the data
// the steps pass to each other.
type OperationState struct {
	mu sync.RWMutex

	ID        string          `json:"id"`
	Status    OperationStatus `json:"status"`
	StartTime time.Time       `json:"start_time"`
	EndTime   *time.Time      `json:"end_time,omitempty"`

	Steps map[string]*StepState `json:"steps"`

	// Parameters from the request
	Parameters map[string]string `json:"parameters,omitempty"`

	Error error `json:"-"`

	datasets *domain.Datasets
	tables   []*domain.Table
	trends   []domain.TrendRecord
}

// NewOperationState creates a pending operation state
func NewOperationState(id string) *OperationState {
	return &OperationState{
		ID:         id,
		Status:     OperationStatusPending,
		StartTime:  time.Now(),
		Steps:      make(map[string]*StepState),
		Parameters: make(map[string]string),
	}
}

// Start marks the operation as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = OperationStatusRunning
	p.StartTime = time.Now()
}

// Complete marks the operation as completed
func (p *OperationState) Complete() {
	p.finish(OperationStatusCompleted, nil)
}

// Fail marks the operation as failed
func (p *OperationState) Fail(err error) {
	p.finish(OperationStatusFailed, err)
}

// Cancel marks the operation as cancelled
func (p *OperationState) Cancel() {
	p.finish(OperationStatusCancelled, nil)
}

func (p *OperationState) finish(status OperationStatus, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = status
	p.Error = err
}

// GetStatus returns the current status
func (p *OperationState) GetStatus() OperationStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Status
}

// GetStep returns the state of a specific step
func (p *OperationState) GetStep(stepID string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Steps[stepID]
}

// SetStep updates the state of a specific step
func (p *OperationState) SetStep(stepID string, state *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Steps[stepID] = state
}

// Parameter returns a request parameter
func (p *OperationState) Parameter(key string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	val, ok := p.Parameters[key]
	return val, ok
}

// SetParameter sets a request parameter
func (p *OperationState) SetParameter(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Parameters[key] = value
}

// Datasets returns the datasets produced or loaded by an earlier step
func (p *OperationState) Datasets() *domain.Datasets {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.datasets
}

// SetDatasets stores the datasets for later steps
func (p *OperationState) SetDatasets(ds *domain.Datasets) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.datasets = ds
}

// Tables returns the chart tables built by the prepare step
func (p *OperationState) Tables() []*domain.Table {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tables
}

// SetTables stores the chart tables for later steps
func (p *OperationState) SetTables(tables []*domain.Table) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tables = tables
}

// Trends returns the collected trend records
func (p *OperationState) Trends() []domain.TrendRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.trends
}

// SetTrends stores the collected trend records
func (p *OperationState) SetTrends(records []domain.TrendRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trends = records
}

// Duration returns the duration of the operation execution
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}
