package eventbus

import "time"

// Topic identifies a class of pipeline events.
type Topic string

// Run lifecycle and ingestion topics.
const (
	TopicRunStarted   Topic = "run_started"
	TopicRunPolled    Topic = "run_polled"
	TopicToolCall     Topic = "tool_call"
	TopicToolResult   Topic = "tool_result"
	TopicRunCompleted Topic = "run_completed"
	TopicRunFailed    Topic = "run_failed"
	TopicIndexReady   Topic = "index_ready"
)

// Event is one published occurrence.
type Event struct {
	Topic     Topic
	Payload   any
	Timestamp time.Time
}

// Handler consumes events. Handlers run synchronously on the publisher's
// goroutine and must not block for long.
type Handler func(Event)
