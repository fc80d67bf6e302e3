// ABOUTME: Package endpoint holds the registry of configured bridges.
// ABOUTME: Session-scoped; ids are generated, unique, and immutable.

// Package endpoint implements the bridge registry: add, remove, list,
// and status over the set of configured endpoints, plus traffic
// attribution for the adapters.
package endpoint
