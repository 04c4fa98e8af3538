package domain

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for requests that fail semantic validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden is returned when an authenticated principal is not allowed
	// to perform the operation (e.g. email not on the admin allow-list).
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized is returned for failed credential checks.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadySubmitted is returned when a session attempts a second
	// registration submission before being reset.
	ErrAlreadySubmitted = errors.New("already submitted")

	// ErrPermissionDenied maps the gateway's permission failure so callers can
	// substitute a friendlier message.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnavailable maps gateway connectivity failures.
	ErrUnavailable = errors.New("gateway unavailable")
)
