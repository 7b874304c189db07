// Package apperrors defines the error kinds the sync engine and CLI
// branch on, distinct from the ad-hoc wrapped errors used everywhere
// else. Each type answers a specific propagation-policy question:
// does the run abort, or does the failing unit just get marked FAILED
// and the loop move on.
package apperrors

import "fmt"

// AuthError marks any auth failure that can't be narrowed further.
type AuthError struct {
	Msg string
	Err error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth error: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("auth error: %s", e.Msg)
}

func (e *AuthError) Unwrap() error { return e.Err }

// LoginError narrows AuthError to bad credentials, a rejected MFA
// code, or a missing SSO ticket — a user-fixable failure, not a
// transport one.
type LoginError struct {
	Msg string
}

func (e *LoginError) Error() string { return "login failed: " + e.Msg }

// MFARequired is a control-flow signal, not always an error: Login
// returns it (wrapped in a LoginOutcome, not this type) when
// returnOnMFA is requested. It is defined here for callers that want
// to classify a LoginOutcome.Kind against the same taxonomy used
// elsewhere.
type MFARequired struct {
	ClientState []byte
}

func (e *MFARequired) Error() string { return "mfa verification required" }

// APIError wraps an HTTP failure that survived transport's retry
// budget, carrying the status and body for callers that branch on it.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s (status %d): %s", e.Status, e.StatusCode, e.Body)
}

// SchemaValidation marks an engine precondition violated before any
// I/O begins — e.g. a sync_range call spanning more than the
// configured maximum.
type SchemaValidation struct {
	Msg string
}

func (e *SchemaValidation) Error() string { return "schema validation: " + e.Msg }

// StoreError wraps a persistence failure from the storage layer.
type StoreError struct {
	Msg string
	Err error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store error: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("store error: %s", e.Msg)
}

func (e *StoreError) Unwrap() error { return e.Err }

// FilesystemCritical marks an unrecoverable filesystem failure (out of
// space, read-only filesystem) while loading or saving tokens. It is
// always surfaced rather than retried.
type FilesystemCritical struct {
	Msg string
	Err error
}

func (e *FilesystemCritical) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("filesystem critical: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("filesystem critical: %s", e.Msg)
}

func (e *FilesystemCritical) Unwrap() error { return e.Err }
