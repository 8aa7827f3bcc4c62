package api

import (
	"errors"
	"fmt"
	"net/url"

	apperrors "tempo/internal/platform/errors"
)

// Request describes one outbound call. Body, when non-nil, is JSON-encoded.
// Public requests (login, signup, refresh) carry no bearer credential and
// never trigger a credential refresh on 401.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Public bool
}

// Error carries the HTTP status and the server's detail message alongside
// the taxonomy sentinel it unwraps to.
type Error struct {
	Status  int
	Detail  string
	wrapped error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

func (e *Error) Unwrap() error { return e.wrapped }

// Detail extracts the server-provided message from an error chain, falling
// back to the error's own text.
func Detail(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// StatusOf returns the HTTP status attached to err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// NewStatusError builds the Error the channel would produce for an HTTP
// status, mapped onto the taxonomy sentinels.
func NewStatusError(status int, detail string) error {
	return statusError(status, detail)
}

func statusError(status int, detail string) error {
	wrapped := apperrors.ErrTransport
	switch {
	case status == 401:
		wrapped = apperrors.ErrAuthorizationExpired
	case status == 404:
		wrapped = apperrors.ErrNotFound
	case status == 400 || status == 409 || status == 422:
		wrapped = apperrors.ErrInvalidInput
	}
	return &Error{Status: status, Detail: detail, wrapped: wrapped}
}
