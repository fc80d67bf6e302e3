// ABOUTME: Per-protocol suggested-actions table and the result decorator.
// ABOUTME: Gives any surface tappable next steps without protocol UI code.

package format

import "github.com/wronai/broxeen-sub001/internal/protocol"

// suggestions maps each protocol to its fixed follow-up actions.
var suggestions = map[protocol.Protocol][]string{
	protocol.PubSub: {
		"bridge mqtt <topic> — read the topic",
		"send mqtt <topic> <value> — publish a value",
		"list bridges",
	},
	protocol.REST: {
		"bridge rest GET <url> — call the endpoint",
		"send rest <url> <body> — POST a payload",
		"list bridges",
	},
	protocol.WebSocket: {
		"bridge ws <url> — show recent traffic",
		"send ws <url> <message> — send a message",
		"bridge status",
	},
	protocol.SSE: {
		"bridge sse <url> — read accumulated events",
		"bridge status",
	},
	protocol.GraphQL: {
		"bridge graphql <url> { <query> } — run a query",
		"list bridges",
	},
	protocol.RSS: {
		"bridge rss <url> — read the feed",
		"list bridges",
	},
	protocol.Atom: {
		"bridge atom <url> — read the feed",
		"list bridges",
	},
	protocol.FTP: {
		"bridge ftp <url> — list or fetch a path",
		"list bridges",
	},
}

// managementSuggestions follow replies that are not tied to a protocol.
var managementSuggestions = []string{
	"add bridge <protocol> <url> [targets]",
	"list bridges",
	"bridge status",
}

// Suggest decorates a result with the fixed follow-up actions for a
// protocol.
func Suggest(r *Result, p protocol.Protocol) *Result {
	if s, ok := suggestions[p]; ok {
		r.Suggestions = append(r.Suggestions, s...)
	}
	return r
}

// SuggestManagement decorates a result with the generic management
// follow-ups.
func SuggestManagement(r *Result) *Result {
	r.Suggestions = append(r.Suggestions, managementSuggestions...)
	return r
}
