package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lendpilot/internal/assistant"
	"lendpilot/internal/dispatch"
	"lendpilot/internal/eventbus"
)

const (
	defaultPollInterval = 750 * time.Millisecond
	defaultMaxWait      = 2 * time.Minute
)

// Config tunes one runner instance.
type Config struct {
	AssistantID string

	// PollInterval is the fixed delay between status fetches while the run
	// is queued or in progress. Tunable, not correctness-relevant.
	PollInterval time.Duration

	// MaxWait bounds one turn's polling loop by wall clock; terminal remote
	// failure states are not guaranteed to occur promptly.
	MaxWait time.Duration
}

// Runner drives one conversation turn through the remote run lifecycle:
// post message, start run, poll, dispatch tool calls on requires_action,
// submit outputs, and extract the final reply on completion.
//
// The remote run is effectively an external coroutine; this loop is the
// cooperative-scheduling substitute on our side.
type Runner struct {
	svc        assistant.Service
	dispatcher *dispatch.Dispatcher
	cfg        Config
	clock      Clock
	bus        *eventbus.Bus
	log        zerolog.Logger
}

// New creates a Runner. bus may be nil.
func New(svc assistant.Service, d *dispatch.Dispatcher, cfg Config, bus *eventbus.Bus, log zerolog.Logger) *Runner {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = defaultMaxWait
	}
	return &Runner{
		svc:        svc,
		dispatcher: d,
		cfg:        cfg,
		clock:      realClock{},
		bus:        bus,
		log:        log.With().Str("component", "runner").Logger(),
	}
}

// Run posts userMessage, drives the run to a terminal state, and returns
// the assistant's final reply. An empty threadID starts a fresh thread;
// otherwise the existing thread's history is extended. A failed turn
// returns no partial reply.
func (r *Runner) Run(ctx context.Context, userMessage, threadID string) (string, error) {
	if strings.TrimSpace(userMessage) == "" {
		return "", errors.New("user message is empty")
	}

	thread, err := r.resolveThread(ctx, threadID)
	if err != nil {
		return "", err
	}

	if err := r.svc.AddUserMessage(ctx, thread.ID, userMessage); err != nil {
		return "", fmt.Errorf("post message: %w", err)
	}

	run, err := r.svc.StartRun(ctx, thread.ID, r.cfg.AssistantID)
	if err != nil {
		return "", fmt.Errorf("start run: %w", err)
	}

	r.log.Debug().Str("run_id", run.ID).Str("thread_id", thread.ID).Msg("run started")
	r.bus.Publish(eventbus.TopicRunStarted, run)

	run, err = r.poll(ctx, thread.ID, run)
	if err != nil {
		return "", err
	}

	if run.Status != assistant.StatusCompleted {
		r.bus.Publish(eventbus.TopicRunFailed, run)
		return "", &RunFailedError{Status: run.Status, Code: run.ErrCode, Detail: run.ErrDetail}
	}

	r.bus.Publish(eventbus.TopicRunCompleted, run)
	return r.finalReply(ctx, thread.ID)
}

func (r *Runner) resolveThread(ctx context.Context, threadID string) (assistant.Thread, error) {
	if threadID == "" {
		thread, err := r.svc.CreateThread(ctx)
		if err != nil {
			return assistant.Thread{}, fmt.Errorf("create thread: %w", err)
		}
		return thread, nil
	}

	thread, err := r.svc.GetThread(ctx, threadID)
	if err != nil {
		return assistant.Thread{}, &ThreadResolutionError{ThreadID: threadID, Err: err}
	}
	return thread, nil
}

// poll advances the local view of the run until it leaves the active set.
// The pending tool-call batch is always taken from the most recent
// observation, never cached across iterations: the protocol requires one
// atomic submission covering exactly the call ids of the latest batch.
func (r *Runner) poll(ctx context.Context, threadID string, run assistant.Run) (assistant.Run, error) {
	started := r.clock.Now()

	for run.Status.Active() {
		if elapsed := r.clock.Now().Sub(started); elapsed > r.cfg.MaxWait {
			return run, &RunTimeoutError{Elapsed: elapsed, LastStatus: run.Status}
		}

		var err error
		switch run.Status {
		case assistant.StatusRequiresAction:
			run, err = r.handleRequiredAction(ctx, threadID, run)
		default:
			// queued or in_progress: the remote computation is async, so
			// wait a beat before the next round-trip.
			if err = r.clock.Sleep(ctx, r.cfg.PollInterval); err != nil {
				return run, err
			}
			run, err = r.svc.GetRun(ctx, threadID, run.ID)
			if err != nil {
				err = fmt.Errorf("poll run: %w", err)
			} else {
				r.bus.Publish(eventbus.TopicRunPolled, run)
			}
		}
		if err != nil {
			return run, err
		}
	}
	return run, nil
}

func (r *Runner) handleRequiredAction(ctx context.Context, threadID string, run assistant.Run) (assistant.Run, error) {
	for _, call := range run.ToolCalls {
		r.bus.Publish(eventbus.TopicToolCall, call)
	}

	outputs := r.dispatcher.Dispatch(ctx, run.ToolCalls)

	for _, out := range outputs {
		r.bus.Publish(eventbus.TopicToolResult, out)
	}

	// Submission itself advances the run; its response replaces the stale
	// view without an extra fetch.
	next, err := r.svc.SubmitToolOutputs(ctx, threadID, run.ID, outputs)
	if err != nil {
		return run, fmt.Errorf("submit tool outputs: %w", err)
	}
	return next, nil
}

func (r *Runner) finalReply(ctx context.Context, threadID string) (string, error) {
	msgs, err := r.svc.ListMessages(ctx, threadID)
	if err != nil {
		return "", fmt.Errorf("list messages: %w", err)
	}
	if len(msgs) == 0 {
		return "", ErrEmptyConversation
	}
	return msgs[len(msgs)-1].Text, nil
}
