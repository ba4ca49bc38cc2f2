// Package app wires evagobi together.
//
// Bootstrap resolves the directory layout, starts OpenTelemetry and creates
// the pipeline instruments; every CLI command starts from the resulting
// Runtime. NewServer adds what the serve command needs on top of it: the
// websocket hub, the operations manager, the chi router and the HTTP server.
//
// The initialization sequence is:
//
//	1. Load configuration (config.Load) and the logger (infrastructure.InitializeLogger)
//	2. Bootstrap: paths, directories, OpenTelemetry, pipeline metrics
//	3. NewManager: operations manager with the pipeline steps registered
//	4. NewServer: hub, handlers, middleware and http.Server
//	5. Run: serve until the context is cancelled, then shut down in reverse order
//
// Initialization errors are returned to the caller; the package never calls
// os.Exit.
package app
