package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendpilot/internal/assistant"
	"lendpilot/internal/config"
	"lendpilot/internal/eventbus"
)

// fakeBackend implements assistant.Backend with canned responses good
// enough for an end-to-end facade test.
type fakeBackend struct {
	createdAssistant assistant.CreateAssistantParams
	uploads          int
	reply            string
}

func (f *fakeBackend) CreateAssistant(ctx context.Context, params assistant.CreateAssistantParams) (string, error) {
	f.createdAssistant = params
	return "asst_fake", nil
}

func (f *fakeBackend) CreateThread(ctx context.Context) (assistant.Thread, error) {
	return assistant.Thread{ID: "thread_fake"}, nil
}

func (f *fakeBackend) GetThread(ctx context.Context, threadID string) (assistant.Thread, error) {
	return assistant.Thread{ID: threadID}, nil
}

func (f *fakeBackend) AddUserMessage(ctx context.Context, threadID, text string) error {
	return nil
}

func (f *fakeBackend) StartRun(ctx context.Context, threadID, assistantID string) (assistant.Run, error) {
	return assistant.Run{ID: "run_fake", Status: assistant.StatusQueued}, nil
}

func (f *fakeBackend) GetRun(ctx context.Context, threadID, runID string) (assistant.Run, error) {
	return assistant.Run{ID: runID, Status: assistant.StatusCompleted}, nil
}

func (f *fakeBackend) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []assistant.ToolOutput) (assistant.Run, error) {
	return assistant.Run{ID: runID, Status: assistant.StatusCompleted}, nil
}

func (f *fakeBackend) ListMessages(ctx context.Context, threadID string) ([]assistant.Message, error) {
	return []assistant.Message{{Role: "assistant", Text: f.reply}}, nil
}

func (f *fakeBackend) UploadFile(ctx context.Context, file *os.File) (string, error) {
	f.uploads++
	return "file_fake", nil
}

func (f *fakeBackend) CreateVectorStore(ctx context.Context, name string, fileIDs []string) (assistant.VectorStore, error) {
	return assistant.VectorStore{ID: "vs_fake", Status: assistant.VectorStoreCompleted}, nil
}

func (f *fakeBackend) GetVectorStore(ctx context.Context, storeID string) (assistant.VectorStore, error) {
	return assistant.VectorStore{ID: storeID, Status: assistant.VectorStoreCompleted}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Service: config.ServiceConfig{APIKey: "sk-test"},
		Assistant: config.AssistantConfig{
			Name:       "Lending Copilot",
			Deployment: "gpt-4o",
		},
		Run: config.RunConfig{PollInterval: time.Millisecond, MaxWait: time.Second},
	}
}

func TestNewAndAsk(t *testing.T) {
	backend := &fakeBackend{reply: "Rates are holding steady."}

	p, err := New(context.Background(), testConfig(), WithBackend(backend))
	require.NoError(t, err)

	// The default lending toolset is advertised at assistant creation.
	assert.Len(t, backend.createdAssistant.Tools, 5)
	assert.Equal(t, "Lending Copilot", backend.createdAssistant.Name)

	reply, err := p.Ask(context.Background(), "Where are rates today?")
	require.NoError(t, err)
	assert.Equal(t, "Rates are holding steady.", reply)
}

func TestNewIngestsTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guidelines.txt")
	require.NoError(t, os.WriteFile(path, []byte("underwriting guidelines"), 0o600))

	cfg := testConfig()
	cfg.Assistant.TempFiles = []string{path}

	backend := &fakeBackend{reply: "ok"}
	bus := eventbus.New()
	var indexed []eventbus.Event
	bus.Subscribe(eventbus.TopicIndexReady, func(e eventbus.Event) { indexed = append(indexed, e) })

	p, err := New(context.Background(), cfg, WithBackend(backend), WithBus(bus))
	require.NoError(t, err)

	assert.Equal(t, 1, backend.uploads)
	assert.Equal(t, "vs_fake", p.VectorStoreID())
	assert.Equal(t, "vs_fake", backend.createdAssistant.VectorStoreID)
	require.Len(t, indexed, 1)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Service.APIKey = ""

	_, err := New(context.Background(), cfg, WithBackend(&fakeBackend{}))
	require.Error(t, err)
}
