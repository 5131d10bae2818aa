// Package errors defines the failures marquee reports: rejected
// submissions, failed store reads and writes, bad configuration and
// undecodable input. Each typed error matches a sentinel with errors.Is and
// unwraps to its cause.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard library helpers, re-exported so callers need one import.
var (
	New    = errors.New
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// Sentinels.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrLoadFailed       = errors.New("catalog load failed")
	ErrStoreWrite       = errors.New("store write failed")
	ErrUnknownBackend   = errors.New("unknown store backend")
	ErrClosed           = errors.New("store closed")
	ErrPermissionDenied = errors.New("permission denied")
)

// ValidationError rejects a submission. Field is the first blank field.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// Is matches ErrInvalidInput.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError reports that field holding value failed with message.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// LoadError is a failed catalog read. The loader turns it into a
// diagnostic rather than returning it.
type LoadError struct {
	Collection string
	Err        error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load collection %q: %v", e.Collection, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is matches ErrLoadFailed.
func (e *LoadError) Is(target error) bool { return target == ErrLoadFailed }

// NewLoadError wraps err as a failed read of collection.
func NewLoadError(collection string, err error) *LoadError {
	return &LoadError{Collection: collection, Err: err}
}

// StoreWriteError is a failed append. Title names the rejected movie when
// known.
type StoreWriteError struct {
	Collection string
	Title      string
	Err        error
}

func (e *StoreWriteError) Error() string {
	if e.Title == "" {
		return fmt.Sprintf("failed to write to collection %q: %v", e.Collection, e.Err)
	}
	return fmt.Sprintf("failed to add %q to collection %q: %v", e.Title, e.Collection, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// Is matches ErrStoreWrite.
func (e *StoreWriteError) Is(target error) bool { return target == ErrStoreWrite }

// NewStoreWriteError wraps err as a failed append of title to collection.
func NewStoreWriteError(collection, title string, err error) *StoreWriteError {
	return &StoreWriteError{Collection: collection, Title: title, Err: err}
}

// ConfigError rejects a setting of component.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Component == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError reports message for component, wrapping err when set.
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// ParseError is undecodable input: a JSON body, a JSONL line or a YAML
// document. Line is 1-based and zero when unknown.
type ParseError struct {
	Format  string
	File    string
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("parse error in %s at line %d (%s): %s", e.File, e.Line, e.Format, e.Message)
	case e.File != "":
		return fmt.Sprintf("parse error in %s (%s): %s", e.File, e.Format, e.Message)
	}
	return fmt.Sprintf("parse error (%s): %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is matches ErrInvalidInput.
func (e *ParseError) Is(target error) bool { return target == ErrInvalidInput }

// IOError is a failed file operation such as open, read or sync.
type IOError struct {
	Operation string
	Path      string
	Message   string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return e.Operation + ": " + e.Message
	}
	return fmt.Sprintf("%s %s: %s", e.Operation, e.Path, e.Message)
}

func (e *IOError) Unwrap() error { return e.Err }

// IsNotFound reports whether err matches ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsLoadError reports whether err matches ErrLoadFailed.
func IsLoadError(err error) bool { return errors.Is(err, ErrLoadFailed) }

// IsStoreWriteError reports whether err matches ErrStoreWrite.
func IsStoreWriteError(err error) bool { return errors.Is(err, ErrStoreWrite) }

// WrapIO wraps err from operation on path. A nil err stays nil.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Message: err.Error(), Err: err}
}

// WrapParse wraps a decode failure of format input. A nil err stays nil.
func WrapParse(format, file string, line int, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Line: line, Message: err.Error(), Err: err}
}

// Trace renders the unwrap chain of err, outermost first, one cause per
// line. Joined errors are indented under their parent.
func Trace(err error) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	trace(&b, err, 0)
	return strings.TrimRight(b.String(), "\n")
}

func trace(b *strings.Builder, err error, depth int) {
	for err != nil {
		fmt.Fprintf(b, "%s%T: %s\n", strings.Repeat("  ", depth), err, err.Error())
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				trace(b, e, depth+1)
			}
			return
		}
		err = errors.Unwrap(err)
		depth++
	}
}
