package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendpilot/internal/assistant"
	"lendpilot/internal/tool"
)

// fakeTool lets each test script the tool's behavior.
type fakeTool struct {
	name string
	exec func(ctx context.Context, args json.RawMessage) (string, error)
}

func (f *fakeTool) Schema() tool.Schema {
	return tool.Schema{Name: f.name, Description: "fake"}
}

func (f *fakeTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	return f.exec(ctx, args)
}

func newDispatcher(t *testing.T, tools ...tool.Func) *Dispatcher {
	t.Helper()
	reg := tool.NewRegistry()
	for _, fn := range tools {
		require.NoError(t, reg.RegisterFunction(fn))
	}
	return New(reg, zerolog.Nop())
}

func TestDispatchOneOutputPerCallInOrder(t *testing.T) {
	echo := &fakeTool{name: "echo", exec: func(_ context.Context, args json.RawMessage) (string, error) {
		return string(args), nil
	}}
	d := newDispatcher(t, echo)

	calls := []assistant.ToolCall{
		{ID: "call_1", Name: "echo", Arguments: json.RawMessage(`{"n":1}`)},
		{ID: "call_2", Name: "echo", Arguments: json.RawMessage(`{"n":2}`)},
		{ID: "call_3", Name: "echo", Arguments: json.RawMessage(`{"n":3}`)},
	}

	outputs := d.Dispatch(context.Background(), calls)

	require.Len(t, outputs, len(calls))
	for i, out := range outputs {
		assert.Equal(t, calls[i].ID, out.CallID)
		assert.Equal(t, string(calls[i].Arguments), out.Output)
	}
}

func TestDispatchUnknownToolIsReportedNotFatal(t *testing.T) {
	d := newDispatcher(t)

	outputs := d.Dispatch(context.Background(), []assistant.ToolCall{
		{ID: "call_9", Name: "teleport", Arguments: json.RawMessage(`{}`)},
	})

	require.Len(t, outputs, 1)
	assert.Equal(t, "call_9", outputs[0].CallID)
	assert.Contains(t, outputs[0].Output, "unsupported tool")
	assert.Contains(t, outputs[0].Output, "teleport")
}

func TestDispatchToolErrorIsContained(t *testing.T) {
	boom := &fakeTool{name: "boom", exec: func(context.Context, json.RawMessage) (string, error) {
		return "", errors.New("upstream unavailable")
	}}
	ok := &fakeTool{name: "ok", exec: func(context.Context, json.RawMessage) (string, error) {
		return "fine", nil
	}}
	d := newDispatcher(t, boom, ok)

	outputs := d.Dispatch(context.Background(), []assistant.ToolCall{
		{ID: "c1", Name: "boom"},
		{ID: "c2", Name: "ok"},
	})

	require.Len(t, outputs, 2)
	assert.Contains(t, outputs[0].Output, "boom")
	assert.Contains(t, outputs[0].Output, "upstream unavailable")
	assert.Equal(t, "fine", outputs[1].Output)
}

func TestDispatchToolPanicIsContained(t *testing.T) {
	wild := &fakeTool{name: "wild", exec: func(context.Context, json.RawMessage) (string, error) {
		panic(fmt.Errorf("index out of range"))
	}}
	d := newDispatcher(t, wild)

	outputs := d.Dispatch(context.Background(), []assistant.ToolCall{{ID: "c1", Name: "wild"}})

	require.Len(t, outputs, 1)
	assert.Contains(t, outputs[0].Output, "wild")
	assert.Contains(t, outputs[0].Output, "panic")
}

func TestDispatchEmptyBatch(t *testing.T) {
	d := newDispatcher(t)
	outputs := d.Dispatch(context.Background(), nil)
	assert.Empty(t, outputs)
}
