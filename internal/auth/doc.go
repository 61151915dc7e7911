// ABOUTME: Package auth is the sole arbiter of bearer credential validity and scope
// ABOUTME: Covers MCP token validation, token issuance, and admin session JWTs

// Package auth implements the token authority for the MCP gateway. Incoming
// bearer credentials are checked against two authenticator strategies in
// order: a deprecated static shared secret granting wildcard scope, then
// store-backed scoped API tokens. Validation fails closed on any unexpected
// store error.
//
// The package also provides the token issuance and management service backing
// the /tokens REST surface, and an HS256 JWT verifier for admin sessions.
package auth
