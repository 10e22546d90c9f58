// Package app is the application layer: it orchestrates the credential
// repository, the cipher, and the Google token client into the two use cases
// of the service, capturing provider tokens after OAuth completion and
// producing fresh access tokens on demand.
package app
