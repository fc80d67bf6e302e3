// ABOUTME: Package cache holds the three bounded ephemeral protocol stores.
// ABOUTME: Last-value topic cache, socket connection table, stream table.

// Package cache provides the session-scoped protocol state: the pub/sub
// last-value cache, the socket connection table, and the push-stream
// table. All three are bounded and safe for concurrent use; none of
// them persists anything.
package cache
