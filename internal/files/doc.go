// Package files catalogs what the pipeline has written to disk.
//
// Discovery lists files in a directory; Catalog knows the expected layout
// (one CSV per dataset, one CSV per chart plus the export artifacts) and
// reports which of those files exist, how large they are and when they
// were last written. The HTTP API and the preview command read their file
// listings from here.
package files
