package auth

import "errors"

var (
	// ErrDuplicateUser is returned by Register when the email is taken.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrUserNotFound is returned by Login when no user has the email.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned by Login when the password is wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a token's signature does not verify,
	// the payload is malformed, or it has expired.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidEmail and ErrPasswordTooShort reject bad registration input
	// before anything touches the store.
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrPasswordTooShort = errors.New("password too short")

	// ErrStore wraps failures from the user store. The service does not
	// retry; the wrapped cause is preserved for the caller.
	ErrStore = errors.New("store error")
)
