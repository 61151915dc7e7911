// ABOUTME: Package store provides persistence for slugline-gateway
// ABOUTME: Defines the Store interface and its SQLite implementation

// Package store defines the row-store interface backing the gateway and its
// function handlers, plus a SQLite implementation. Entities are accessed by
// point reads and writes keyed by id or unique token secret; deletes of
// projects and episodes cascade to their children in a transaction.
package store
