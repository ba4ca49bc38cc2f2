// Package integration holds end-to-end tests that drive the whole pipeline
// through the same wiring the CLI and the server use.
package integration
