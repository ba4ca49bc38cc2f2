package operations

import (
	"time"
)

// Step identifiers
const (
	StepIDGenerate = "generate"
	StepIDPrepare  = "prepare"
	StepIDExport   = "export"
	StepIDTrends   = "trends"
)

// Step names
const (
	StepNameGenerate = "Data Generation"
	StepNamePrepare  = "Chart Preparation"
	StepNameExport   = "Power BI Export"
	StepNameTrends   = "Search Trends Collection"
)

// Default timeouts
const (
	DefaultStepTimeout     = 30 * time.Minute
	DefaultGenerateTimeout = 10 * time.Minute
	DefaultPrepareTimeout  = 10 * time.Minute
	DefaultExportTimeout   = 10 * time.Minute
	DefaultTrendsTimeout   = 15 * time.Minute
)

// RetryConfig defines retry behavior for steps
type RetryConfig struct {
	MaxAttempts  int           `json:"max_attempts"`
	InitialDelay time.Duration `json:"initial_delay"`
	MaxDelay     time.Duration `json:"max_delay"`
	Multiplier   float64       `json:"multiplier"`
}

// NewRetryConfig returns the default retry configuration
func NewRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// Delay returns the wait before the given retry attempt
func (c RetryConfig) Delay(attempt int) time.Duration {
	delay := c.InitialDelay
	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * c.Multiplier)
	}
	if delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	return delay
}

// Config represents the pipeline execution configuration
type Config struct {
	StepTimeouts map[string]time.Duration `json:"step_timeouts"`

	RetryConfig RetryConfig `json:"retry_config"`

	// Whether later steps still run after a failure
	ContinueOnError bool `json:"continue_on_error"`

	// Steps left out of a run unless requested by ID
	OptionalSteps []string `json:"optional_steps"`

	// Finished operations kept for status queries
	HistorySize int `json:"history_size"`

	// Upper bound for a whole run; zero means none
	OperationTimeout time.Duration `json:"operation_timeout"`
}

// NewConfig returns the default pipeline configuration
func NewConfig() *Config {
	return &Config{
		StepTimeouts: map[string]time.Duration{
			StepIDGenerate: DefaultGenerateTimeout,
			StepIDPrepare:  DefaultPrepareTimeout,
			StepIDExport:   DefaultExportTimeout,
			StepIDTrends:   DefaultTrendsTimeout,
		},
		RetryConfig:   NewRetryConfig(),
		OptionalSteps: []string{StepIDTrends},
		HistorySize:   20,
	}
}

// GetStepTimeout returns the timeout for a specific step
func (c *Config) GetStepTimeout(stepID string) time.Duration {
	if timeout, ok := c.StepTimeouts[stepID]; ok {
		return timeout
	}
	return DefaultStepTimeout
}

// SetStepTimeout sets the timeout for a specific step
func (c *Config) SetStepTimeout(stepID string, timeout time.Duration) {
	if c.StepTimeouts == nil {
		c.StepTimeouts = make(map[string]time.Duration)
	}
	c.StepTimeouts[stepID] = timeout
}
