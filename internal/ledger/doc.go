// ABOUTME: Package ledger keeps the bounded audit trail of bridge traffic.
// ABOUTME: Append-only, FIFO-evicted, read via snapshots for status output.
package ledger
