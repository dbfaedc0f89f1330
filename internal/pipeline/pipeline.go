package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"lendpilot/internal/assistant"
	"lendpilot/internal/config"
	"lendpilot/internal/dispatch"
	"lendpilot/internal/eventbus"
	"lendpilot/internal/index"
	"lendpilot/internal/runner"
	"lendpilot/internal/tool"
)

// Pipeline wires the toolset, the remote client, optional document
// ingestion, and the run orchestrator behind a single Ask entry point.
type Pipeline struct {
	cfg           *config.Config
	registry      *tool.Registry
	runner        *runner.Runner
	vectorStoreID string
	assistantID   string
	log           zerolog.Logger
}

// Option customizes pipeline construction, mainly for tests and embedders.
type Option func(*options)

type options struct {
	registry *tool.Registry
	backend  assistant.Backend
	bus      *eventbus.Bus
	log      zerolog.Logger
}

// WithRegistry replaces the default lending toolset.
func WithRegistry(r *tool.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithBackend replaces the openai-go backed client.
func WithBackend(b assistant.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithBus attaches an event bus for run lifecycle observation.
func WithBus(b *eventbus.Bus) Option {
	return func(o *options) { o.bus = b }
}

// WithLogger sets the root logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// New builds the full session: seeds the toolset, optionally ingests
// temp files into a transient vector store, creates the assistant bound to
// both, and stands up the dispatcher and runner.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}

	registry := o.registry
	if registry == nil {
		var err error
		if registry, err = tool.Default(cfg.Docs.Dir); err != nil {
			return nil, fmt.Errorf("build toolset: %w", err)
		}
	}

	backend := o.backend
	if backend == nil {
		backend = assistant.NewClient(assistant.ClientConfig{
			APIKey:     cfg.Service.APIKey,
			Endpoint:   cfg.Service.Endpoint,
			APIVersion: cfg.Service.APIVersion,
		})
	}

	vectorStoreID := cfg.Assistant.VectorStoreID
	if len(cfg.Assistant.TempFiles) > 0 {
		ix := index.New(backend, index.Config{
			PollInterval:      cfg.Index.PollInterval,
			MaxWait:           cfg.Index.MaxWait,
			UploadConcurrency: cfg.Index.UploadConcurrency,
		}, o.bus, o.log)

		var err error
		if vectorStoreID, err = ix.Build(ctx, cfg.Assistant.TempFiles); err != nil {
			return nil, fmt.Errorf("ingest temp files: %w", err)
		}
	}

	assistantID, err := backend.CreateAssistant(ctx, assistant.CreateAssistantParams{
		Name:          cfg.Assistant.Name,
		Model:         cfg.Assistant.Deployment,
		Instructions:  cfg.Assistant.Instructions,
		Tools:         registry.AssistantTools(),
		VectorStoreID: vectorStoreID,
	})
	if err != nil {
		return nil, err
	}
	o.log.Info().Str("assistant_id", assistantID).Str("vector_store_id", vectorStoreID).
		Msg("session ready")

	run := runner.New(backend, dispatch.New(registry, o.log), runner.Config{
		AssistantID:  assistantID,
		PollInterval: cfg.Run.PollInterval,
		MaxWait:      cfg.Run.MaxWait,
	}, o.bus, o.log)

	return &Pipeline{
		cfg:           cfg,
		registry:      registry,
		runner:        run,
		vectorStoreID: vectorStoreID,
		assistantID:   assistantID,
		log:           o.log,
	}, nil
}

// Ask runs one conversation turn on a fresh thread and returns the
// assistant's final reply.
func (p *Pipeline) Ask(ctx context.Context, prompt string) (string, error) {
	return p.runner.Run(ctx, prompt, "")
}

// AskInThread continues an existing conversation thread.
func (p *Pipeline) AskInThread(ctx context.Context, prompt, threadID string) (string, error) {
	return p.runner.Run(ctx, prompt, threadID)
}

// Registry exposes the session's toolset.
func (p *Pipeline) Registry() *tool.Registry { return p.registry }

// VectorStoreID returns the bound index id, if any.
func (p *Pipeline) VectorStoreID() string { return p.vectorStoreID }
