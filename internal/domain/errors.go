package domain

import "errors"

var (
	// ErrUserNotFound signals a referential-integrity problem: the profile
	// row should have been created by the identity system before any token
	// operation reaches this service.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidInput marks caller mistakes (empty access token, empty code).
	ErrInvalidInput = errors.New("invalid input")

	// ErrEncryptionFailed aborts a capture that supplied a refresh token.
	// Silently persisting without it would be security-relevant data loss.
	ErrEncryptionFailed = errors.New("failed to encrypt refresh token")

	// ErrNoRefreshToken means no durable grant is on file; the user must run
	// the full consent flow again.
	ErrNoRefreshToken = errors.New("no refresh token available")

	// ErrCorruptCredential means the stored envelope exists but cannot be
	// decrypted: key mismatch or tampering, never treated as "absent".
	ErrCorruptCredential = errors.New("stored credential is corrupt")

	// ErrRefreshTokenRevoked means Google permanently rejected the stored
	// grant (invalid_grant); the stored material has been cleared.
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")

	// ErrProviderUnavailable covers transient provider failures: network
	// errors, timeouts, 5xx, malformed bodies. Safe to retry.
	ErrProviderUnavailable = errors.New("token provider unavailable")
)
