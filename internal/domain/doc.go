// Package domain defines the core domain types and interfaces.
//
// Contains the credential model, the repository contract, and sentinel errors
// shared across layers. No implementation code - just contracts. Keeping the
// interfaces on the consumer side prevents circular imports.
package domain
