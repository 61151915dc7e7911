// ABOUTME: Package gateway terminates HTTP for the MCP function surface
// ABOUTME: Routes manifest/execute/status and the token-management REST API

// Package gateway implements the HTTP boundary: CORS handling, path-suffix
// routing for the MCP surface (manifest, execute, status), authentication
// and per-function authorization ahead of dispatch, and the mapping of
// internal outcomes to HTTP status codes. Business failures from function
// handlers travel as HTTP 200 with a success:false envelope;
// only transport, authentication, and authorization failures use non-200
// statuses.
package gateway
