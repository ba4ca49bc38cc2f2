// Package http implements the HTTP handlers of the evagobi API.
//
// Handlers stay thin: they parse and validate the request, call the
// operations manager or the file catalog, and render the result as JSON.
// Every failure goes through errors.ErrorHandler so clients always receive
// RFC 7807 problem details:
//
//	{
//	    "type": "/errors/conflict",
//	    "title": "Conflict",
//	    "status": 409,
//	    "detail": "operation operation-1f0c... is already running",
//	    "instance": "/api/operations/run",
//	    "trace_id": "6a7d..."
//	}
//
// Routes are assembled by package app; each handler exposes a Routes method
// returning a chi router that is mounted below /api.
package http
