// Package emoji provides symbol constants for CLI output.
package emoji

// Symbol constants give commands a consistent visual language for status
// lines and user feedback.
const (
	// Success marks a completed operation, such as an accepted movie.
	Success = "✓"

	// Error marks a failed operation or a rejected submission.
	Error = "✗"

	// Stop marks a shutdown in progress.
	Stop = "✗"

	// Warning marks a non-fatal problem, such as an empty collection.
	Warning = "!"

	// Info marks informational notes like the snapshot size.
	Info = "i"
)
