// ABOUTME: Package functions defines the gateway's callable function modules
// ABOUTME: Each module exports descriptors plus store-backed handlers

// Package functions implements the function catalogue behind the MCP
// gateway: project, episode, scene, character, world, and user modules.
// Each handler validates its own required parameters and returns plain
// errors with human-readable messages; the dispatcher downgrades those into
// failure envelopes.
package functions
