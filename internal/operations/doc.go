// Package operations runs the evagobi data pipeline as a sequence of steps.
//
// A pipeline run ("operation") executes registered steps in registration
// order: generate the synthetic datasets, prepare the Power BI chart tables,
// export the optional workbook, data model and images, and optionally collect
// search trends. Steps hand data to each other through the OperationState.
//
// Core components:
//
// Manager: executes operations one at a time, applies step timeouts and
// retries, and keeps the most recent operations for status queries.
//
// Step: a single unit of work. BaseStep supplies the identity methods.
//
// Registry: the ordered set of registered steps.
//
// StatusBroadcaster: the single owner of operation snapshots. Every state
// change produces a complete events.OperationSnapshot which is pushed to the
// WebSocket hub.
//
// Example usage:
//
//	manager := operations.NewManager(hub, nil, nil, logger, metrics)
//	for _, step := range operations.PipelineSteps(deps) {
//		_ = manager.RegisterStep(step)
//	}
//	resp, err := manager.Execute(ctx, operations.OperationRequest{})
package operations
