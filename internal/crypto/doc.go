// Package crypto provides encryption services for secrets at rest.
//
// Implements AES-256-GCM encryption for Google refresh tokens stored in PostgreSQL.
// Two implementations: AesGcmService (production) and NoopService (dev/test plaintext passthrough).
package crypto
