// ABOUTME: Package registry holds the static catalogue of callable functions
// ABOUTME: Functions are aggregated from modules at startup and immutable thereafter

// Package registry implements the function catalogue for the MCP gateway.
// Modules export named functions; the registry merges them into one flat
// namespace of "<module>.<function>" entries at construction time and never
// mutates afterwards, so it can be shared across requests without locking.
package registry
