package assistant

import "encoding/json"

// Status is the lifecycle state of a remote run. The service owns it; this
// process only reads it and reacts.
type Status string

const (
	StatusQueued         Status = "queued"
	StatusInProgress     Status = "in_progress"
	StatusRequiresAction Status = "requires_action"
	StatusCompleted      Status = "completed"
	StatusFailed         Status = "failed"
	StatusCancelled      Status = "cancelled"
	StatusExpired        Status = "expired"
)

// Active reports whether the run is still advancing and should keep being
// polled. Anything else is terminal.
func (s Status) Active() bool {
	switch s {
	case StatusQueued, StatusInProgress, StatusRequiresAction:
		return true
	}
	return false
}

// Thread is an opaque handle to ordered message history on the service.
type Thread struct {
	ID string
}

// ToolCall is one pending invocation read from a requires_action run.
// The call id is the service's correlation token, unique within the run.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolOutput is the result reported back for one tool call.
type ToolOutput struct {
	CallID string
	Output string
}

// Run is a point-in-time view of a remote run.
type Run struct {
	ID       string
	ThreadID string
	Status   Status

	// ToolCalls carries the pending batch when Status is requires_action.
	ToolCalls []ToolCall

	// ErrCode and ErrDetail carry the service's diagnostic when the run
	// ended in a terminal failure state.
	ErrCode   string
	ErrDetail string
}

// Message is one thread message; Text is its first text content part.
type Message struct {
	Role string
	Text string
}

// Vector store lifecycle states reported by the service.
const (
	VectorStoreInProgress = "in_progress"
	VectorStoreCompleted  = "completed"
	VectorStoreExpired    = "expired"
)

// VectorStore is a point-in-time view of a document index.
type VectorStore struct {
	ID     string
	Status string
}
