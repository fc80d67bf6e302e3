// ABOUTME: Depth-capped natural-language rendering of JSON responses.
// ABOUTME: Objects become "key: value" phrases, arrays "N items, first: …".

package format

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const (
	// voiceDepth caps how deep the summary descends into structures.
	voiceDepth = 2
	// voiceKeys caps how many object keys are spoken per level.
	voiceKeys = 5
)

// VoiceSummary renders a JSON document as a short spoken phrase. Input
// that is not JSON comes back as a trimmed snippet of itself.
func VoiceSummary(raw string) string {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return Snippet(raw, 140)
	}
	return summarize(v, 0)
}

// SummarizeValue renders an already-decoded JSON value.
func SummarizeValue(v any) string {
	return summarize(v, 0)
}

func summarize(v any, depth int) string {
	switch val := v.(type) {
	case map[string]any:
		if depth >= voiceDepth {
			return fmt.Sprintf("an object with %d fields", len(val))
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, voiceKeys)
		for i, k := range keys {
			if i >= voiceKeys {
				parts = append(parts, fmt.Sprintf("and %d more fields", len(keys)-voiceKeys))
				break
			}
			parts = append(parts, fmt.Sprintf("%s: %s", k, summarize(val[k], depth+1)))
		}
		if len(parts) == 0 {
			return "an empty object"
		}
		return strings.Join(parts, ", ")
	case []any:
		if len(val) == 0 {
			return "an empty list"
		}
		return fmt.Sprintf("%d items, first: %s", len(val), summarize(val[0], depth+1))
	case string:
		return Snippet(val, 80)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	case nil:
		return "nothing"
	}
	return fmt.Sprintf("%v", v)
}

// PrettyJSON re-indents a JSON document for display. The second return
// reports whether the input parsed as JSON at all.
func PrettyJSON(raw string) (string, bool) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw, false
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return raw, false
	}
	return string(out), true
}

// Snippet trims text to at most n runes, appending an ellipsis when cut.
func Snippet(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
