package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when the email or password is wrong.
	// Callers present a single message for both cases so sign-in does not
	// leak which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrEmailNotAuthorized is returned when a registration email is not on the allow-list.
	ErrEmailNotAuthorized = errors.New("email is not authorized to register")

	// ErrEmailAlreadyRegistered is returned when the allow-list entry was already used.
	ErrEmailAlreadyRegistered = errors.New("email has already been registered")

	// ErrEmailExists is returned when an account with the email already exists.
	ErrEmailExists = errors.New("an account with this email already exists")

	// ErrPasswordTooShort is returned when a registration password has fewer than 6 characters.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)
