package http

import (
	"context"

	"evagobi/internal/infrastructure"
	"evagobi/internal/operations"
	"evagobi/pkg/contracts/events"
)

// OperationService is the part of operations.Manager the API drives
type OperationService interface {
	Start(ctx context.Context, req operations.OperationRequest) (string, error)
	Get(id string) (events.OperationSnapshot, error)
	List() []events.OperationSnapshot
	Running() string
	Cancel(id string) error
}

// HubStats reports websocket connection counters
type HubStats interface {
	GetHubMetrics() map[string]interface{}
}

// SystemStatsSource samples the Go runtime
type SystemStatsSource interface {
	Stats() infrastructure.SystemStats
}
