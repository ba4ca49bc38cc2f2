// Package websocket streams pipeline status to dashboard clients.
//
// The Hub owns the connected clients. Every message is an
// events.WebSocketMessage; the only payload pushed during a run is the full
// events.OperationSnapshot, so a client never has to merge partial updates.
package websocket
