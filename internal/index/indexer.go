package index

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"lendpilot/internal/assistant"
	"lendpilot/internal/eventbus"
)

// ErrIndexingFailed is returned when the service reports the vector store
// as expired or otherwise unusable.
var ErrIndexingFailed = errors.New("vector store indexing failed")

const (
	defaultPollInterval = time.Second
	defaultMaxWait      = 5 * time.Minute
	defaultConcurrency  = 4
)

// Config tunes the ingestion flow.
type Config struct {
	// PollInterval is the fixed delay between vector store status checks.
	PollInterval time.Duration

	// MaxWait bounds how long to wait for the store to become ready.
	MaxWait time.Duration

	// UploadConcurrency caps parallel file uploads.
	UploadConcurrency int
}

// Indexer uploads local documents and builds a transient vector store so
// file_search can retrieve their contents.
type Indexer struct {
	store assistant.FileStore
	cfg   Config
	bus   *eventbus.Bus
	log   zerolog.Logger
}

// New creates an Indexer. bus may be nil.
func New(store assistant.FileStore, cfg Config, bus *eventbus.Bus, log zerolog.Logger) *Indexer {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = defaultMaxWait
	}
	if cfg.UploadConcurrency <= 0 {
		cfg.UploadConcurrency = defaultConcurrency
	}
	return &Indexer{
		store: store,
		cfg:   cfg,
		bus:   bus,
		log:   log.With().Str("component", "index").Logger(),
	}
}

// Build uploads every path, creates a vector store over the uploads, and
// blocks until the store is ready. Returns the vector store id.
func (ix *Indexer) Build(ctx context.Context, paths []string) (string, error) {
	if len(paths) == 0 {
		return "", errors.New("no files to index")
	}

	// Fail fast on missing files before any network traffic.
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("index file: %w", err)
		}
	}

	fileIDs, err := ix.upload(ctx, paths)
	if err != nil {
		return "", err
	}

	vs, err := ix.store.CreateVectorStore(ctx, "lendpilot_temp", fileIDs)
	if err != nil {
		return "", fmt.Errorf("create vector store: %w", err)
	}
	ix.log.Debug().Str("store_id", vs.ID).Int("files", len(fileIDs)).Msg("vector store created")

	if vs.Status != assistant.VectorStoreCompleted {
		if vs, err = ix.awaitReady(ctx, vs.ID); err != nil {
			return "", err
		}
	}

	ix.bus.Publish(eventbus.TopicIndexReady, vs.ID)
	return vs.ID, nil
}

func (ix *Indexer) upload(ctx context.Context, paths []string) ([]string, error) {
	p := pool.NewWithResults[string]().
		WithContext(ctx).
		WithMaxGoroutines(ix.cfg.UploadConcurrency)

	for _, path := range paths {
		p.Go(func(ctx context.Context) (string, error) {
			f, err := os.Open(path)
			if err != nil {
				return "", fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			id, err := ix.store.UploadFile(ctx, f)
			if err != nil {
				return "", fmt.Errorf("upload %s: %w", path, err)
			}
			ix.log.Debug().Str("path", path).Str("file_id", id).Msg("file uploaded")
			return id, nil
		})
	}
	return p.Wait()
}

// awaitReady polls the store at a fixed interval until it completes, fails,
// or the wait budget runs out.
func (ix *Indexer) awaitReady(ctx context.Context, storeID string) (assistant.VectorStore, error) {
	check := func() (assistant.VectorStore, error) {
		vs, err := ix.store.GetVectorStore(ctx, storeID)
		if err != nil {
			return assistant.VectorStore{}, backoff.Permanent(err)
		}
		switch vs.Status {
		case assistant.VectorStoreCompleted:
			return vs, nil
		case assistant.VectorStoreExpired:
			return assistant.VectorStore{}, backoff.Permanent(
				fmt.Errorf("%w: store %s expired", ErrIndexingFailed, storeID))
		default:
			return assistant.VectorStore{}, fmt.Errorf("store %s still %s", storeID, vs.Status)
		}
	}

	vs, err := backoff.Retry(ctx, check,
		backoff.WithBackOff(backoff.NewConstantBackOff(ix.cfg.PollInterval)),
		backoff.WithMaxElapsedTime(ix.cfg.MaxWait),
	)
	if err != nil {
		return assistant.VectorStore{}, fmt.Errorf("await vector store: %w", err)
	}
	return vs, nil
}
