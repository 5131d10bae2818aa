// Package response writes the JSON envelope every marquee API endpoint
// answers with: {"data": ..., "error": null} on success and
// {"data": null, "error": {...}} on failure.
package response

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/agentstation/marquee/pkg/errors"
)

// Error codes.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeInvalidMovie       = "VALIDATION_FAILED"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotFound           = "NOT_FOUND"
	CodeTooLarge           = "REQUEST_TOO_LARGE"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL_ERROR"
	CodeStoreUnavailable   = "STORE_UNAVAILABLE"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Response is the envelope.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error describes a failed request. Field names the submission field that
// failed validation.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Field   string `json:"field,omitempty"`
}

func write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// OK writes data with 200.
func OK(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, Response{Data: data})
}

// Created writes data with 201.
func Created(w http.ResponseWriter, data any) {
	write(w, http.StatusCreated, Response{Data: data})
}

// Fail writes e with status.
func Fail(w http.ResponseWriter, status int, e Error) {
	write(w, status, Response{Error: &e})
}

// RequestTooLarge rejects a submission body over limit bytes.
func RequestTooLarge(w http.ResponseWriter, limit int64) {
	Fail(w, http.StatusRequestEntityTooLarge, Error{
		Code:    CodeTooLarge,
		Message: "Request body too large",
		Details: "Bodies are limited to " + formatBytes(limit),
	})
}

// Unauthorized rejects a request without a valid key in header.
func Unauthorized(w http.ResponseWriter, header string) {
	Fail(w, http.StatusUnauthorized, Error{
		Code:    CodeUnauthorized,
		Message: "Invalid or missing API key",
		Details: "Provide a valid API key in the " + header + " header",
	})
}

// RateLimited rejects a client over its request budget.
func RateLimited(w http.ResponseWriter) {
	Fail(w, http.StatusTooManyRequests, Error{
		Code:    CodeRateLimited,
		Message: "Rate limit exceeded",
		Details: "Too many requests. Please try again later.",
	})
}

// InternalError writes 500 without exposing the cause.
func InternalError(w http.ResponseWriter) {
	Fail(w, http.StatusInternalServerError, Error{
		Code:    CodeInternal,
		Message: "Internal server error",
		Details: "An unexpected error occurred",
	})
}

// ServiceUnavailable writes 503 with reason as details.
func ServiceUnavailable(w http.ResponseWriter, reason string) {
	Fail(w, http.StatusServiceUnavailable, Error{
		Code:    CodeServiceUnavailable,
		Message: "Service unavailable",
		Details: reason,
	})
}

// ErrorFromType writes the response for an error returned while reading a
// submission or appending it to the record store.
func ErrorFromType(w http.ResponseWriter, err error) {
	status, e := classify(err)
	if status == http.StatusInternalServerError {
		InternalError(w)
		return
	}
	Fail(w, status, e)
}

func classify(err error) (int, Error) {
	var (
		validation *errors.ValidationError
		write      *errors.StoreWriteError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, Error{Code: CodeInvalidMovie, Message: validation.Error(), Field: validation.Field}
	case errors.As(err, &write):
		return http.StatusBadGateway, Error{Code: CodeStoreUnavailable, Message: "Could not save the movie", Details: write.Error()}
	case errors.IsNotFound(err):
		return http.StatusNotFound, Error{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, errors.ErrInvalidInput):
		return http.StatusBadRequest, Error{Code: CodeBadRequest, Message: err.Error()}
	}
	return http.StatusInternalServerError, Error{}
}

func formatBytes(n int64) string {
	const kib = 1024
	if n >= kib && n%kib == 0 {
		return strconv.FormatInt(n/kib, 10) + " KiB"
	}
	return strconv.FormatInt(n, 10) + " bytes"
}
