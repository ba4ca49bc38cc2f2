// Package testutil holds helpers shared by the package tests: an in-memory
// slog recorder and small hand-built datasets with known totals.
package testutil
