package errors

import "errors"

// Common error types for the sync server
var (
	// Credential / session errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownOperator    = errors.New("unknown operator identity")
	ErrClaimExpired       = errors.New("session claim expired")

	// Google OAuth errors
	ErrMissingCode         = errors.New("missing authorization code")
	ErrExchangeFailed      = errors.New("token exchange failed")
	ErrRefreshTokenInvalid = errors.New("refresh token invalid")

	// Configuration errors
	ErrConfigMissing = errors.New("missing required configuration")

	// Calendar errors
	ErrSyncFailed = errors.New("calendar sync failed")
)

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
