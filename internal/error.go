package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine-readable code surfaced in a GraphQL error's
// extensions.
type ErrorCode string

// The closed set of upstream failure kinds.
const (
	CodeUnauthorized ErrorCode = "UNAUTHORIZED_SPOTIFY"
	CodeNotFound     ErrorCode = "NOT_FOUND_SPOTIFY"
	CodeUpstream     ErrorCode = "SPOTIFY_API_ERROR"
)

var (
	// ErrUnauthorized means the token was missing, invalid or expired.
	ErrUnauthorized = &DomainError{
		Code:    CodeUnauthorized,
		Status:  http.StatusUnauthorized,
		Message: "Unauthorized: Spotify token invalid/expired",
	}

	// ErrNotFound means the upstream rejected the request with a 4xx other
	// than 401.
	ErrNotFound = &DomainError{
		Code:    CodeNotFound,
		Status:  http.StatusNotFound,
		Message: "Resource not found on Spotify",
	}

	// ErrUpstream covers everything else: network failures, 5xx and errors
	// that never reached the upstream.
	ErrUpstream = &DomainError{
		Code:    CodeUpstream,
		Status:  http.StatusBadGateway,
		Message: "Spotify API error",
	}

	// errTokenMissing is raised by resolvers that require a token before any
	// upstream call is made.
	errTokenMissing = &DomainError{
		Code:    CodeUnauthorized,
		Status:  http.StatusUnauthorized,
		Message: "Unauthorized: Spotify token missing",
	}
)

// DomainError is the only error resolvers return to GraphQL clients. Message
// never includes upstream details; the classified cause is kept for logging.
type DomainError struct {
	Code    ErrorCode
	Status  int
	Message string

	cause error
}

var _ error = (*DomainError)(nil)

func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the classified cause.
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches any DomainError with the same code, so callers can compare
// against the package sentinels.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Extensions is read by the GraphQL executor when formatting errors.
func (e *DomainError) Extensions() map[string]any {
	return map[string]any{
		"code": string(e.Code),
		"http": map[string]any{"status": e.Status},
	}
}

func (e *DomainError) wrap(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Status:  e.Status,
		Message: e.Message,
		cause:   cause,
	}
}

// StatusError is returned by the upstream transport for any non-2xx
// response.
type StatusError struct {
	StatusCode int
	Endpoint   string
	Message    string // Upstream's error message, if it sent one.
}

var _ error = (*StatusError)(nil)

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.Endpoint)
	}
	return fmt.Sprintf("HTTP %d from %s: %s", e.StatusCode, e.Endpoint, e.Message)
}

// Unauthenticated is true when the upstream rejected our token.
func (e *StatusError) Unauthenticated() bool {
	return e.StatusCode == http.StatusUnauthorized
}

var (
	errBadRequest       = statusErr(http.StatusBadRequest)
	errMethodNotAllowed = statusErr(http.StatusMethodNotAllowed)
	errMissingQuery     = errors.Join(errors.New(`missing "query"`), errBadRequest)
	errMutationOverGet  = errors.Join(errors.New("mutations require POST"), errMethodNotAllowed)
)

// statusErr rejects an inbound request before it reaches the executor.
type statusErr int

var _ error = (*statusErr)(nil)

func (s statusErr) Status() int {
	return int(s)
}

func (s statusErr) Error() string {
	return fmt.Sprintf("HTTP %d", s)
}

// Classify maps any error onto one of the three domain errors. It never
// returns nil and never returns err itself unless err is already classified.
func Classify(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}

	var se *StatusError
	if !errors.As(err, &se) {
		return ErrUpstream.wrap(err)
	}

	switch {
	case se.Unauthenticated():
		return ErrUnauthorized.wrap(err)
	case se.StatusCode >= 400 && se.StatusCode < 500:
		// Every other 4xx (including 400 and 403) is folded into not-found.
		return ErrNotFound.wrap(err)
	default:
		return ErrUpstream.wrap(err)
	}
}

// classified logs the upstream failure and returns its classification.
func classified(ctx context.Context, err error) *DomainError {
	de := Classify(err)
	_classifiedErrors.WithLabelValues(string(de.Code)).Inc()
	Log(ctx).Warn("upstream request failed", "code", de.Code, "err", err)
	return de
}
