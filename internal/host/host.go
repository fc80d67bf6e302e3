// ABOUTME: Privileged host RPC seam between the bridge core and the app.
// ABOUTME: A single keyed call with JSON args; native networking lives behind it.

package host

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrUnavailable indicates no privileged host is present in this
// environment (sandboxed or offline execution).
var ErrUnavailable = errors.New("privileged host unavailable")

// Op names one privileged operation the surrounding application may
// implement on the bridge's behalf.
type Op string

const (
	OpPublishTopic  Op = "publish-topic"
	OpReadTopic     Op = "read-topic"
	OpRESTCall      Op = "rest-call"
	OpSocketConnect Op = "socket-connect"
	OpSocketSend    Op = "socket-send"
	OpStreamConnect Op = "stream-connect"
)

// Caller is the privileged host RPC boundary. Args must be
// JSON-serializable; results come back as raw JSON for the adapter to
// interpret. Implementations live in the embedding application.
type Caller interface {
	Call(ctx context.Context, op Op, args any) (json.RawMessage, error)
}

// Unavailable is the Caller used when no host is wired in. Every call
// fails with ErrUnavailable, pushing adapters down their fallback chains.
type Unavailable struct{}

// Call always returns ErrUnavailable.
func (Unavailable) Call(context.Context, Op, any) (json.RawMessage, error) {
	return nil, ErrUnavailable
}

// RESTArgs is the argument object for OpRESTCall.
type RESTArgs struct {
	Method string `json:"method"`
	URL    string `json:"url"`
	Body   string `json:"body,omitempty"`
}

// RESTReply is the result object for OpRESTCall.
type RESTReply struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// TopicArgs is the argument object for OpPublishTopic and OpReadTopic.
type TopicArgs struct {
	Topic   string `json:"topic"`
	Payload string `json:"payload,omitempty"`
}

// TopicReply is the result object for OpReadTopic.
type TopicReply struct {
	Topic   string `json:"topic"`
	Payload string `json:"payload"`
}

// SocketArgs is the argument object for OpSocketConnect and OpSocketSend.
type SocketArgs struct {
	URL     string `json:"url"`
	Message string `json:"message,omitempty"`
}

// StreamArgs is the argument object for OpStreamConnect.
type StreamArgs struct {
	URL string `json:"url"`
}

// StreamReply is the result object for OpStreamConnect: the initial
// batch of events observed while the host opened the stream.
type StreamReply struct {
	Events []StreamEvent `json:"events"`
}

// StreamEvent is one event in a StreamReply batch.
type StreamEvent struct {
	Type string `json:"type"`
	Data string `json:"data"`
}
