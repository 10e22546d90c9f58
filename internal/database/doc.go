// Package database provides the PostgreSQL adapter: connection pooling,
// embedded schema migrations, and the credential repository backing the
// token custody services.
package database
