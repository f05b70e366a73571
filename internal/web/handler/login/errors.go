// Package login provides the JSON endpoints for signing in and out of
// the admin dashboard and for inspecting the current session.
package login

import "errors"

var (
	// ErrInvalidBody is returned when the submitted credentials cannot be parsed
	// or fail validation.
	ErrInvalidBody = errors.New("invalid request body")

	// ErrNotSignedIn is returned when a session endpoint is hit without a
	// valid session cookie.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrInternalServerError is returned for unexpected failures during the
	// login process.
	ErrInternalServerError = errors.New("internal server error")
)
