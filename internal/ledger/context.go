// ABOUTME: Context plumbing for the utterance source (text/voice/api).
// ABOUTME: Adapters read it when recording entries; the gateway sets it.

package ledger

import "context"

type sourceKey struct{}

// WithSource tags a context with the surface the utterance came from.
func WithSource(ctx context.Context, s Source) context.Context {
	return context.WithValue(ctx, sourceKey{}, s)
}

// SourceFromContext returns the tagged source, defaulting to text.
func SourceFromContext(ctx context.Context) Source {
	if s, ok := ctx.Value(sourceKey{}).(Source); ok {
		return s
	}
	return SourceText
}
