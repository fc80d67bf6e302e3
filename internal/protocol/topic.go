// ABOUTME: MQTT-style topic filter matching for the pub/sub cache.
// ABOUTME: Supports # (any remaining levels) and + (exactly one level).

package protocol

import "strings"

// MatchTopic reports whether a concrete topic matches a filter.
// "#" matches any remaining levels (including none), "+" matches exactly
// one level, and anything else must match the level verbatim.
func MatchTopic(filter, topic string) bool {
	if filter == topic {
		return true
	}

	fparts := strings.Split(filter, "/")
	tparts := strings.Split(topic, "/")

	for i, fp := range fparts {
		if fp == "#" {
			// Multi-level wildcard must be the last filter level.
			return i == len(fparts)-1
		}
		if i >= len(tparts) {
			return false
		}
		if fp != "+" && fp != tparts[i] {
			return false
		}
	}

	return len(fparts) == len(tparts)
}
