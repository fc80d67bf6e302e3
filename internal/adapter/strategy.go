// ABOUTME: Ordered fallback chains: strategies tried in sequence with
// ABOUTME: early return on the first one that produces a result.

package adapter

import (
	"context"
	"encoding/json"

	"github.com/wronai/broxeen-sub001/internal/format"
)

// step is one strategy in a fallback chain. It returns (result, true)
// on a hit; (nil, false) pushes the chain to the next strategy.
type step struct {
	name string
	run  func(ctx context.Context) (*format.Result, bool)
}

// firstOf runs strategies in order and returns the first hit, or nil
// when every strategy missed. Misses are logged, not fatal.
func (d *Deps) firstOf(ctx context.Context, what string, steps []step) *format.Result {
	for _, s := range steps {
		if res, ok := s.run(ctx); ok {
			d.Logger.Debug("strategy hit", "what", what, "strategy", s.name)
			return res
		}
		d.Logger.Debug("strategy miss", "what", what, "strategy", s.name)
	}
	return nil
}

// decodeJSON unmarshals raw JSON into v, tolerating empty input.
func decodeJSON(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return json.Unmarshal([]byte("{}"), v)
	}
	return json.Unmarshal(raw, v)
}
