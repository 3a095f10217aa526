// Package gdrive wraps the Google Drive v3 API for shared-drive incident
// workspaces. It layers uniform retry on transient statuses, client-side
// rate limiting, paged listing, and chunked file transfer over the official
// SDK, and classifies API failures into errors.Is-able sentinels.
package gdrive

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Sentinel errors for Drive API status classification.
// Use errors.Is(err, gdrive.ErrNotFound) to check.
var (
	ErrBadRequest       = errors.New("gdrive: bad request")
	ErrUnauthorized     = errors.New("gdrive: unauthorized")
	ErrForbidden        = errors.New("gdrive: forbidden")
	ErrNotFound         = errors.New("gdrive: not found")
	ErrConflict         = errors.New("gdrive: conflict")
	ErrThrottled        = errors.New("gdrive: rate limited")
	ErrServerError      = errors.New("gdrive: server error")
	ErrRetriesExhausted = errors.New("gdrive: retries exhausted")
)

// APIError wraps a sentinel error with the HTTP status, the Google error
// reason, and the raw error body for debugging. The vendor *googleapi.Error
// stays in the unwrap chain, so errors.As still surfaces it for callers
// that need the raw API failure shape.
type APIError struct {
	Op         string // Drive API operation, e.g. "files.get"
	StatusCode int
	Reason     string // first error reason reported by the API, if any
	Body       string
	Err        error // sentinel, for errors.Is()
	cause      error // original *googleapi.Error, if any
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("gdrive: %s: HTTP %d (%s): %s", e.Op, e.StatusCode, e.Reason, e.Body)
	}

	return fmt.Sprintf("gdrive: %s: HTTP %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.Err}
	}

	return []error{e.Err, e.cause}
}

// isTransient reports whether the given HTTP status indicates a temporary
// condition where retrying the same request may succeed. The Drive API
// signals these as 300 (ambiguous redirect during backend migration), 429,
// and the usual 5xx gateway statuses.
func isTransient(code int) bool {
	switch code {
	case http.StatusMultipleChoices,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// classifyStatus maps an HTTP status code to a sentinel error.
// Returns nil for 2xx success codes.
func classifyStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusTooManyRequests:
		return ErrThrottled
	default:
		if code >= http.StatusInternalServerError {
			return ErrServerError
		}

		return nil
	}
}

// statusOf extracts the HTTP status from a vendor API error.
// Returns 0 for non-API errors (network failures, context cancellation).
func statusOf(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}

	return 0
}

// wrapAPIError converts a vendor API error into an *APIError carrying the
// operation name and decoded error body. Non-API errors (network failures)
// are wrapped with the operation name only.
func wrapAPIError(op string, err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("gdrive: %s: %w", op, err)
	}

	reason := ""
	if len(gerr.Errors) > 0 {
		reason = gerr.Errors[0].Reason
	}

	return &APIError{
		Op:         op,
		StatusCode: gerr.Code,
		Reason:     reason,
		Body:       gerr.Body,
		Err:        classifyStatus(gerr.Code),
		cause:      gerr,
	}
}
