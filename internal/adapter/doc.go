// ABOUTME: Package adapter implements the per-protocol bridge semantics.
// ABOUTME: Six families behind one interface, with host-RPC fallback chains.

// Package adapter holds one adapter per protocol family: pub/sub, REST,
// socket, push-stream, graph-query, feed, and the single-shot FTP
// reader. Every adapter records traffic in the ledger, updates the
// owning endpoint, and resolves to a Result — never an escaping error.
package adapter
