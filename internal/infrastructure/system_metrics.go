package infrastructure

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// SystemStats is a point-in-time view of the Go runtime
type SystemStats struct {
	GoRoutines   int64         `json:"goroutines"`
	HeapAlloc    int64         `json:"heap_alloc_bytes"`
	MemorySystem int64         `json:"memory_system_bytes"`
	GCCount      uint32        `json:"gc_count"`
	LastGCPause  time.Duration `json:"last_gc_pause_ns"`
	CPUCount     int           `json:"cpu_count"`
	Uptime       time.Duration `json:"uptime_ns"`
	Timestamp    time.Time     `json:"timestamp"`
}

// ReadSystemStats samples the runtime. startTime is the process start used for Uptime.
func ReadSystemStats(startTime time.Time) SystemStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return SystemStats{
		GoRoutines:   int64(runtime.NumGoroutine()),
		HeapAlloc:    int64(memStats.HeapAlloc),
		MemorySystem: int64(memStats.Sys),
		GCCount:      memStats.NumGC,
		LastGCPause:  time.Duration(memStats.PauseNs[(memStats.NumGC+255)%256]),
		CPUCount:     runtime.NumCPU(),
		Uptime:       time.Since(startTime),
		Timestamp:    time.Now().UTC(),
	}
}

// FormatStats returns the stats in display units
func (s SystemStats) FormatStats() map[string]interface{} {
	return map[string]interface{}{
		"goroutines":       s.GoRoutines,
		"heap_alloc_mb":    s.HeapAlloc / 1024 / 1024,
		"memory_system_mb": s.MemorySystem / 1024 / 1024,
		"gc_count":         s.GCCount,
		"last_gc_pause_ms": s.LastGCPause.Milliseconds(),
		"cpu_count":        s.CPUCount,
		"uptime_seconds":   int64(s.Uptime.Seconds()),
	}
}

// SystemMetrics exports runtime gauges, sampled whenever the meter is collected
type SystemMetrics struct {
	startTime    time.Time
	registration metric.Registration
}

// NewSystemMetrics registers the runtime gauges on meter
func NewSystemMetrics(meter metric.Meter) (*SystemMetrics, error) {
	goRoutines, err := meter.Int64ObservableGauge(
		"evago_goroutines",
		metric.WithDescription("Number of active goroutines"),
	)
	if err != nil {
		return nil, err
	}

	heapAlloc, err := meter.Int64ObservableGauge(
		"evago_heap_alloc_bytes",
		metric.WithDescription("Bytes of allocated heap objects"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	gcCount, err := meter.Int64ObservableCounter(
		"evago_gc_count_total",
		metric.WithDescription("Completed garbage collection cycles"),
	)
	if err != nil {
		return nil, err
	}

	uptime, err := meter.Float64ObservableGauge(
		"evago_process_uptime_seconds",
		metric.WithDescription("Process uptime in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	sm := &SystemMetrics{startTime: time.Now()}
	sm.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := ReadSystemStats(sm.startTime)
		o.ObserveInt64(goRoutines, stats.GoRoutines)
		o.ObserveInt64(heapAlloc, stats.HeapAlloc)
		o.ObserveInt64(gcCount, int64(stats.GCCount))
		o.ObserveFloat64(uptime, stats.Uptime.Seconds())
		return nil
	}, goRoutines, heapAlloc, gcCount, uptime)
	if err != nil {
		return nil, fmt.Errorf("failed to register runtime callback: %w", err)
	}
	return sm, nil
}

// Stats samples the runtime now
func (sm *SystemMetrics) Stats() SystemStats {
	return ReadSystemStats(sm.startTime)
}

// Unregister stops reporting the runtime gauges
func (sm *SystemMetrics) Unregister() error {
	if sm.registration == nil {
		return nil
	}
	return sm.registration.Unregister()
}
