// ABOUTME: Package protocol defines the closed set of bridge protocols.
// ABOUTME: Adding a protocol here forces router and adapter updates.

// Package protocol holds the protocol enum shared by the router, the
// endpoint registry, and the adapters, together with the per-protocol
// defaults (targets, direction) and the three sniffing tiers used to
// resolve free text into a protocol.
package protocol
