// ABOUTME: Package dispatch executes named functions and normalizes outcomes
// ABOUTME: Handler errors become failure envelopes and never escape the dispatcher

// Package dispatch implements the router/dispatcher layer: it resolves a
// function name against the registry, runs the handler under a timeout, and
// wraps every outcome in a uniform Result envelope. Handler-level errors are
// business failures, not transport failures, so they resolve normally and
// the HTTP layer serializes them with status 200.
package dispatch
