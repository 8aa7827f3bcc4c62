package apperrors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// ErrAuthorizationExpired marks a single rejected call whose credential
	// has expired. The request channel handles it internally; callers only
	// ever see ErrAuthenticationFailed.
	ErrAuthorizationExpired = errors.New("authorization expired")

	// ErrAuthenticationFailed is terminal: the refresh itself failed or a
	// replayed call was rejected again. The session is cleared.
	ErrAuthenticationFailed = errors.New("authentication failed")

	ErrTransport    = errors.New("request failed")
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrPlanNotFound = errors.New("no plan generated for date")
)
