// Package google implements the client for Google's OAuth2 token endpoint.
//
// Two grants are supported: authorization_code (exchanging the code delivered
// by the consent flow) and refresh_token (minting fresh access tokens from a
// stored grant). Provider rejections carry the OAuth error code so callers
// can distinguish permanent revocation (invalid_grant) from transient
// failures.
package google
