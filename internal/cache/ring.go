// ABOUTME: Fixed-capacity FIFO ring shared by socket and stream records.
// ABOUTME: Oldest entries are dropped once the cap is reached.

package cache

// RingCap is the per-connection and per-stream buffer capacity.
const RingCap = 50

// ring is a bounded FIFO buffer. Not safe for concurrent use on its
// own; the owning table's lock covers it.
type ring[T any] struct {
	items []T
}

func (r *ring[T]) push(item T) {
	if len(r.items) >= RingCap {
		copy(r.items, r.items[1:])
		r.items = r.items[:len(r.items)-1]
	}
	r.items = append(r.items, item)
}

func (r *ring[T]) snapshot() []T {
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}
