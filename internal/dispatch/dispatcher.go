package dispatch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"lendpilot/internal/assistant"
	"lendpilot/internal/tool"
)

// Dispatcher routes tool calls emitted by a run to local tool functions.
// It is the fault-isolation boundary: an unknown tool name or a failing
// tool becomes a marked output string, never an error, so a single bad
// call cannot abort the conversation turn.
type Dispatcher struct {
	funcs map[string]tool.Func
	log   zerolog.Logger
}

// New builds a dispatcher over the registry's name→function mapping.
// The mapping is snapshotted here; later registry changes are not seen.
func New(reg *tool.Registry, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		funcs: reg.Funcs(),
		log:   log.With().Str("component", "dispatch").Logger(),
	}
}

// Dispatch resolves a batch of tool calls into outputs: exactly one output
// per call, in the same order, each echoing its call id.
func (d *Dispatcher) Dispatch(ctx context.Context, calls []assistant.ToolCall) []assistant.ToolOutput {
	outputs := make([]assistant.ToolOutput, len(calls))
	for i, call := range calls {
		outputs[i] = assistant.ToolOutput{
			CallID: call.ID,
			Output: d.execute(ctx, call),
		}
	}
	return outputs
}

func (d *Dispatcher) execute(ctx context.Context, call assistant.ToolCall) (output string) {
	fn, ok := d.funcs[call.Name]
	if !ok {
		// The remote side decides how to recover; locally we only report.
		d.log.Warn().Str("tool", call.Name).Str("call_id", call.ID).
			Msg("unsupported tool requested by run")
		return fmt.Sprintf("unsupported tool %q", call.Name)
	}

	defer func() {
		if p := recover(); p != nil {
			d.log.Error().Str("tool", call.Name).Interface("panic", p).
				Msg("tool panicked")
			output = fmt.Sprintf("tool %s failed: panic: %v", call.Name, p)
		}
	}()

	result, err := fn.Execute(ctx, call.Arguments)
	if err != nil {
		d.log.Error().Err(err).Str("tool", call.Name).Str("call_id", call.ID).
			Msg("tool execution failed")
		return fmt.Sprintf("tool %s failed: %v", call.Name, err)
	}

	d.log.Debug().Str("tool", call.Name).Str("call_id", call.ID).Msg("tool executed")
	return result
}
