// Package common defines shared constants and sentinel errors used across
// the user-management service. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Credential errors. A missing user and a wrong password fold into the
	// same value so a response never reveals which factor failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("Not authenticated")

	// Authorization errors. Blocked and insufficient-role carry distinct
	// messages and must not be conflated.
	ErrUserBlocked      = errors.New("user is blocked")
	ErrPermissionDenied = errors.New("insufficient permissions")

	// Token lifecycle errors. Malformed and bad-signature stay separate
	// sentinels for internal matching, but the transport layer presents
	// both as "invalid token".
	ErrMalformedToken   = errors.New("invalid token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrWrongTokenType   = errors.New("invalid token type")
	ErrTokenBlacklisted = errors.New("token in blacklist")
	ErrInvalidTokenKind = errors.New("wrong type of token")

	// Password reset errors.
	ErrPasswordMismatch = errors.New("Passwords do not match")
)
