package index

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendpilot/internal/assistant"
)

// fakeFileStore counts uploads and replays vector store statuses.
type fakeFileStore struct {
	mu       sync.Mutex
	uploads  int
	statuses []string // returned by successive GetVectorStore calls
	statusAt int
	created  []string // file ids passed to CreateVectorStore
	initial  string   // status reported at creation time
}

func (f *fakeFileStore) UploadFile(ctx context.Context, file *os.File) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	return filepath.Base(file.Name()), nil
}

func (f *fakeFileStore) CreateVectorStore(ctx context.Context, name string, fileIDs []string) (assistant.VectorStore, error) {
	f.created = fileIDs
	status := f.initial
	if status == "" {
		status = assistant.VectorStoreInProgress
	}
	return assistant.VectorStore{ID: "vs_test", Status: status}, nil
}

func (f *fakeFileStore) GetVectorStore(ctx context.Context, storeID string) (assistant.VectorStore, error) {
	status := f.statuses[f.statusAt]
	if f.statusAt < len(f.statuses)-1 {
		f.statusAt++
	}
	return assistant.VectorStore{ID: storeID, Status: status}, nil
}

func writeTempFiles(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, n)
	for i := range paths {
		paths[i] = filepath.Join(dir, "doc"+string(rune('a'+i))+".txt")
		require.NoError(t, os.WriteFile(paths[i], []byte("rate sheet"), 0o600))
	}
	return paths
}

func newTestIndexer(store assistant.FileStore) *Indexer {
	return New(store, Config{
		PollInterval: time.Millisecond,
		MaxWait:      time.Second,
	}, nil, zerolog.Nop())
}

func TestBuildUploadsAllFilesAndWaitsForReady(t *testing.T) {
	store := &fakeFileStore{
		statuses: []string{
			assistant.VectorStoreInProgress,
			assistant.VectorStoreCompleted,
		},
	}
	ix := newTestIndexer(store)

	id, err := ix.Build(context.Background(), writeTempFiles(t, 3))
	require.NoError(t, err)

	assert.Equal(t, "vs_test", id)
	assert.Equal(t, 3, store.uploads)
	assert.Len(t, store.created, 3)
}

func TestBuildReturnsEarlyWhenStoreAlreadyComplete(t *testing.T) {
	store := &fakeFileStore{initial: assistant.VectorStoreCompleted}
	ix := newTestIndexer(store)

	id, err := ix.Build(context.Background(), writeTempFiles(t, 1))
	require.NoError(t, err)
	assert.Equal(t, "vs_test", id)
	assert.Zero(t, store.statusAt, "no status polling expected")
}

func TestBuildMissingFileFailsBeforeUpload(t *testing.T) {
	store := &fakeFileStore{}
	ix := newTestIndexer(store)

	paths := writeTempFiles(t, 1)
	paths = append(paths, filepath.Join(t.TempDir(), "absent.pdf"))

	_, err := ix.Build(context.Background(), paths)
	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.Zero(t, store.uploads)
}

func TestBuildExpiredStoreIsIndexingFailure(t *testing.T) {
	store := &fakeFileStore{
		statuses: []string{assistant.VectorStoreExpired},
	}
	ix := newTestIndexer(store)

	_, err := ix.Build(context.Background(), writeTempFiles(t, 1))
	require.ErrorIs(t, err, ErrIndexingFailed)
}

func TestBuildNoFiles(t *testing.T) {
	ix := newTestIndexer(&fakeFileStore{})
	_, err := ix.Build(context.Background(), nil)
	require.Error(t, err)
}
