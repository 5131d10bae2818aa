// Package constants provides shared constants used throughout the marquee codebase.
// This includes timeouts, limits, file permissions, and store defaults that
// should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultTimeout is the standard timeout for a single store operation
	DefaultTimeout = 10 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 2 * time.Minute

	// ShutdownTimeout bounds graceful server shutdown
	ShutdownTimeout = 30 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Store defaults
const (
	// DefaultCollection is the document collection holding movie records
	DefaultCollection = "movies"

	// DefaultSnapshotLimit is the number of records read into the catalog snapshot
	DefaultSnapshotLimit = 3

	// DefaultBackend is the store backend used when none is configured
	DefaultBackend = "memory"

	// DefaultDatabaseFile is the sqlite file name used by the sqlite backend
	DefaultDatabaseFile = "marquee.db"
)

// Limit constants define various limits and capacities
const (
	// MaxRequestBody bounds HTTP request bodies in bytes
	MaxRequestBody = 64 * 1024

	// EventBufferSize is the capacity of the event broker queue
	EventBufferSize = 256

	// ExportLimit caps the records read by a single export
	ExportLimit = 100000
)
