package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
)

// ClientConfig holds connection settings for the Assistants API.
type ClientConfig struct {
	APIKey string

	// Endpoint selects an Azure OpenAI deployment; leave empty for
	// api.openai.com.
	Endpoint   string
	APIVersion string
}

// Client implements Backend over the OpenAI Assistants API. Also works with
// Azure OpenAI deployments via Endpoint/APIVersion.
type Client struct {
	api openai.Client
}

var _ Backend = (*Client)(nil)

// NewClient creates an Assistants API client.
func NewClient(cfg ClientConfig) *Client {
	var opts []option.RequestOption
	if cfg.Endpoint != "" {
		opts = append(opts,
			azure.WithEndpoint(cfg.Endpoint, cfg.APIVersion),
			azure.WithAPIKey(cfg.APIKey),
		)
	} else {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	return &Client{api: openai.NewClient(opts...)}
}

func (c *Client) CreateAssistant(ctx context.Context, params CreateAssistantParams) (string, error) {
	body := openai.BetaAssistantNewParams{
		Model:        openai.ChatModel(params.Model),
		Name:         openai.String(params.Name),
		Instructions: openai.String(params.Instructions),
		Tools:        params.Tools,
	}
	if params.VectorStoreID != "" {
		body.ToolResources = openai.BetaAssistantNewParamsToolResources{
			FileSearch: openai.BetaAssistantNewParamsToolResourcesFileSearch{
				VectorStoreIDs: []string{params.VectorStoreID},
			},
		}
	}

	asst, err := c.api.Beta.Assistants.New(ctx, body)
	if err != nil {
		return "", fmt.Errorf("create assistant: %w", err)
	}
	return asst.ID, nil
}

func (c *Client) CreateThread(ctx context.Context) (Thread, error) {
	th, err := c.api.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return Thread{}, err
	}
	return Thread{ID: th.ID}, nil
}

func (c *Client) GetThread(ctx context.Context, threadID string) (Thread, error) {
	th, err := c.api.Beta.Threads.Get(ctx, threadID)
	if err != nil {
		return Thread{}, err
	}
	return Thread{ID: th.ID}, nil
}

func (c *Client) AddUserMessage(ctx context.Context, threadID, text string) error {
	_, err := c.api.Beta.Threads.Messages.New(ctx, threadID, openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRoleUser,
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(text),
		},
	})
	return err
}

func (c *Client) StartRun(ctx context.Context, threadID, assistantID string) (Run, error) {
	run, err := c.api.Beta.Threads.Runs.New(ctx, threadID, openai.BetaThreadRunNewParams{
		AssistantID: assistantID,
	})
	if err != nil {
		return Run{}, err
	}
	return convertRun(threadID, run), nil
}

func (c *Client) GetRun(ctx context.Context, threadID, runID string) (Run, error) {
	run, err := c.api.Beta.Threads.Runs.Get(ctx, threadID, runID)
	if err != nil {
		return Run{}, err
	}
	return convertRun(threadID, run), nil
}

func (c *Client) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []ToolOutput) (Run, error) {
	body := openai.BetaThreadRunSubmitToolOutputsParams{
		ToolOutputs: make([]openai.BetaThreadRunSubmitToolOutputsParamsToolOutput, len(outputs)),
	}
	for i, o := range outputs {
		body.ToolOutputs[i] = openai.BetaThreadRunSubmitToolOutputsParamsToolOutput{
			ToolCallID: openai.String(o.CallID),
			Output:     openai.String(o.Output),
		}
	}

	run, err := c.api.Beta.Threads.Runs.SubmitToolOutputs(ctx, threadID, runID, body)
	if err != nil {
		return Run{}, err
	}
	return convertRun(threadID, run), nil
}

func (c *Client) ListMessages(ctx context.Context, threadID string) ([]Message, error) {
	page, err := c.api.Beta.Threads.Messages.List(ctx, threadID, openai.BetaThreadMessageListParams{
		Order: openai.BetaThreadMessageListParamsOrderAsc,
	})
	if err != nil {
		return nil, err
	}

	msgs := make([]Message, 0, len(page.Data))
	for _, m := range page.Data {
		msg := Message{Role: string(m.Role)}
		for _, part := range m.Content {
			if part.Type == "text" {
				msg.Text = part.Text.Value
				break
			}
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (c *Client) UploadFile(ctx context.Context, f *os.File) (string, error) {
	uploaded, err := c.api.Files.New(ctx, openai.FileNewParams{
		File:    f,
		Purpose: openai.FilePurposeAssistants,
	})
	if err != nil {
		return "", err
	}
	return uploaded.ID, nil
}

func (c *Client) CreateVectorStore(ctx context.Context, name string, fileIDs []string) (VectorStore, error) {
	vs, err := c.api.VectorStores.New(ctx, openai.VectorStoreNewParams{
		Name:    openai.String(name),
		FileIDs: fileIDs,
	})
	if err != nil {
		return VectorStore{}, err
	}
	return VectorStore{ID: vs.ID, Status: string(vs.Status)}, nil
}

func (c *Client) GetVectorStore(ctx context.Context, storeID string) (VectorStore, error) {
	vs, err := c.api.VectorStores.Get(ctx, storeID)
	if err != nil {
		return VectorStore{}, err
	}
	return VectorStore{ID: vs.ID, Status: string(vs.Status)}, nil
}

func convertRun(threadID string, run *openai.Run) Run {
	out := Run{
		ID:       run.ID,
		ThreadID: threadID,
		Status:   Status(run.Status),
	}

	for _, tc := range run.RequiredAction.SubmitToolOutputs.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}

	if run.LastError.Code != "" || run.LastError.Message != "" {
		out.ErrCode = string(run.LastError.Code)
		out.ErrDetail = run.LastError.Message
	}
	return out
}
