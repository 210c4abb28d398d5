package errors

import "errors"

// Sentinel errors for handlers and middleware to map to HTTP status.
// Authentication failures deliberately share coarse messages: expiry is the
// only condition a caller may distinguish from generic invalidity.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrUserNotFound       = errors.New("user not found")

	ErrTokenNotProvided = errors.New("token not provided")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("token invalid")
	ErrTokenRevoked     = errors.New("token revoked")

	ErrUnauthorized = errors.New("unauthorized")
	ErrAccessDenied = errors.New("access denied")
)
