package assistant

import (
	"context"
	"os"

	"github.com/openai/openai-go"
)

// Service is the conversational surface of the remote assistant API: thread
// and message management plus the run lifecycle.
type Service interface {
	CreateThread(ctx context.Context) (Thread, error)
	GetThread(ctx context.Context, threadID string) (Thread, error)
	AddUserMessage(ctx context.Context, threadID, text string) error
	StartRun(ctx context.Context, threadID, assistantID string) (Run, error)
	GetRun(ctx context.Context, threadID, runID string) (Run, error)
	SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []ToolOutput) (Run, error)
	// ListMessages returns the thread's messages oldest first.
	ListMessages(ctx context.Context, threadID string) ([]Message, error)
}

// FileStore is the ingestion surface: file upload and vector store
// management.
type FileStore interface {
	UploadFile(ctx context.Context, f *os.File) (string, error)
	CreateVectorStore(ctx context.Context, name string, fileIDs []string) (VectorStore, error)
	GetVectorStore(ctx context.Context, storeID string) (VectorStore, error)
}

// CreateAssistantParams configures a new assistant bound to a toolset.
type CreateAssistantParams struct {
	Name         string
	Model        string
	Instructions string
	Tools        []openai.AssistantToolUnionParam

	// VectorStoreID, when set, is attached as the file_search resource.
	VectorStoreID string
}

// Creator provisions assistants.
type Creator interface {
	CreateAssistant(ctx context.Context, params CreateAssistantParams) (string, error)
}

// Backend bundles every remote capability the pipeline wires together.
type Backend interface {
	Service
	FileStore
	Creator
}
