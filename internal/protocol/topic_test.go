// ABOUTME: Tests for MQTT-style wildcard topic matching.
// ABOUTME: Validates #, +, exact, and level-count edge cases.

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchTopic_Exact(t *testing.T) {
	assert.True(t, MatchTopic("home/lights", "home/lights"))
	assert.False(t, MatchTopic("home/lights", "home/heating"))
}

func TestMatchTopic_SingleLevelWildcard(t *testing.T) {
	// + matches exactly one level
	assert.True(t, MatchTopic("home/+/status", "home/kitchen/status"))
	assert.True(t, MatchTopic("home/+/status", "home/bath/status"))
	assert.False(t, MatchTopic("home/+/status", "home/kitchen/status/extra"))
	assert.False(t, MatchTopic("home/+/status", "home/status"))
}

func TestMatchTopic_MultiLevelWildcard(t *testing.T) {
	// # matches any remaining levels, including none
	assert.True(t, MatchTopic("#", "anything"))
	assert.True(t, MatchTopic("#", "a/b/c/d"))
	assert.True(t, MatchTopic("home/#", "home/kitchen/status"))
	assert.True(t, MatchTopic("home/#", "home"))
	assert.False(t, MatchTopic("home/#", "office/kitchen"))
}

func TestMatchTopic_HashNotLast(t *testing.T) {
	// A # that is not the final level matches nothing beyond itself
	assert.False(t, MatchTopic("home/#/status", "home/kitchen/status"))
}
