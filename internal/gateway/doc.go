// ABOUTME: Package gateway composes the bridge: router, registry,
// ABOUTME: adapters, caches, and ledger behind one Handle call.
package gateway
