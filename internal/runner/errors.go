package runner

import (
	"errors"
	"fmt"
	"time"

	"lendpilot/internal/assistant"
)

// ErrEmptyConversation is returned when a completed run's thread holds no
// messages at all. Guarded against even though the terminal-success path
// should never produce it.
var ErrEmptyConversation = errors.New("conversation has no messages")

// ThreadResolutionError reports a caller-supplied thread id that could not
// be retrieved.
type ThreadResolutionError struct {
	ThreadID string
	Err      error
}

func (e *ThreadResolutionError) Error() string {
	return fmt.Sprintf("resolve thread %s: %v", e.ThreadID, e.Err)
}

func (e *ThreadResolutionError) Unwrap() error { return e.Err }

// RunFailedError reports a run that ended in a terminal failure state.
// Not retried here: remote run failures are often non-transient.
type RunFailedError struct {
	Status assistant.Status
	Code   string
	Detail string
}

func (e *RunFailedError) Error() string {
	msg := fmt.Sprintf("run ended with status %s", e.Status)
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// RunTimeoutError reports a turn that exceeded its wall-clock budget while
// the run was still active.
type RunTimeoutError struct {
	Elapsed    time.Duration
	LastStatus assistant.Status
}

func (e *RunTimeoutError) Error() string {
	return fmt.Sprintf("run still %s after %s", e.LastStatus, e.Elapsed)
}
