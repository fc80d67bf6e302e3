// ABOUTME: Package host defines the collaborator seams of the bridge core.
// ABOUTME: Privileged RPC, page fetch, feed parse, injected pub/sub client.

// Package host holds the boundary between the bridge core and the
// surrounding application: the keyed privileged RPC, the generic page
// fetcher, the dedicated feed parser, and the optional injected pub/sub
// client, plus default implementations for the non-privileged seams.
package host
