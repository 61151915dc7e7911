// ABOUTME: Package manifest projects the function registry into a public capability listing
// ABOUTME: Supports scope-based filtering for authenticated callers

// Package manifest generates the machine-readable capability description
// external AI assistants use to discover the gateway's functions before
// invoking them. Generation is a pure projection over the registry: no I/O,
// no handler references.
package manifest
