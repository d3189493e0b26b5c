package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	benkeiErrors "github.com/harunnryd/benkei/internal/errors"
	"github.com/harunnryd/benkei/internal/model/contract"
	"github.com/harunnryd/benkei/internal/tool"
)

// scriptedRouter replays a fixed sequence of responses and records every
// request it receives.
type scriptedRouter struct {
	responses []*contract.CompletionResponse
	requests  []contract.CompletionRequest
}

func (r *scriptedRouter) Route(_ context.Context, _ string, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	r.requests = append(r.requests, req)
	if len(r.responses) == 0 {
		return nil, errors.New("scripted router exhausted")
	}
	resp := r.responses[0]
	r.responses = r.responses[1:]
	return resp, nil
}

func (r *scriptedRouter) ListModels() []string { return []string{"scripted"} }

type echoTool struct{}

func (echoTool) Name() string        { return "echo" }
func (echoTool) Description() string { return "Echo the input back" }
func (echoTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"text": map[string]interface{}{"type": "string"},
		},
		"required": []string{"text"},
	}
}
func (echoTool) Execute(_ context.Context, input json.RawMessage) (string, error) {
	var args struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", err
	}
	return args.Text, nil
}

func newTestRunner() *tool.Runner {
	registry := tool.NewRegistry()
	registry.Register(echoTool{})
	return tool.NewRunner(registry, nil)
}

func TestRun_ImmediateEndTurn(t *testing.T) {
	router := &scriptedRouter{responses: []*contract.CompletionResponse{
		{
			StopReason: contract.StopEndTurn,
			Blocks: []contract.Block{
				contract.TextBlock("Hello"),
				contract.TextBlock(", world"),
			},
		},
	}}
	a := New(router, newTestRunner(), "scripted", 1024)

	res, err := a.Run(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", res.Answer)
	assert.Equal(t, 1, res.Turns)

	// One round trip: user message in, assistant message appended.
	require.Len(t, router.requests, 1)
	require.Len(t, res.Messages, 2)
	assert.Equal(t, contract.RoleUser, res.Messages[0].Role)
	assert.Equal(t, contract.RoleAssistant, res.Messages[1].Role)
}

func TestRun_ToolRoundTrip(t *testing.T) {
	router := &scriptedRouter{responses: []*contract.CompletionResponse{
		{
			StopReason: contract.StopToolUse,
			Blocks: []contract.Block{
				contract.TextBlock("Let me check."),
				contract.ToolUseBlock("toolu_01", "echo", json.RawMessage(`{"text":"pong"}`)),
			},
		},
		{
			StopReason: contract.StopEndTurn,
			Blocks:     []contract.Block{contract.TextBlock("The tool said pong.")},
		},
	}}
	a := New(router, newTestRunner(), "scripted", 1024)

	res, err := a.Run(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, "The tool said pong.", res.Answer)
	assert.Equal(t, 2, res.Turns)

	// user, assistant(tool_use), user(tool_result), assistant(final)
	require.Len(t, res.Messages, 4)
	assert.Equal(t, contract.RoleUser, res.Messages[2].Role)
	require.Len(t, res.Messages[2].Blocks, 1)
	result := res.Messages[2].Blocks[0]
	assert.Equal(t, contract.BlockToolResult, result.Type)
	assert.Equal(t, "toolu_01", result.ToolUseID)
	assert.Equal(t, "pong", result.Content)

	// The second request must carry the full history.
	require.Len(t, router.requests, 2)
	assert.Len(t, router.requests[1].Messages, 3)
}

func TestRun_MultipleToolCallsInOneTurn(t *testing.T) {
	router := &scriptedRouter{responses: []*contract.CompletionResponse{
		{
			StopReason: contract.StopToolUse,
			Blocks: []contract.Block{
				contract.ToolUseBlock("toolu_01", "echo", json.RawMessage(`{"text":"first"}`)),
				contract.ToolUseBlock("toolu_02", "echo", json.RawMessage(`{"text":"second"}`)),
			},
		},
		{
			StopReason: contract.StopEndTurn,
			Blocks:     []contract.Block{contract.TextBlock("done")},
		},
	}}
	a := New(router, newTestRunner(), "scripted", 1024)

	res, err := a.Run(context.Background(), "go")
	require.NoError(t, err)

	// Both results land in a single user message, in call order.
	resultsMsg := res.Messages[2]
	require.Len(t, resultsMsg.Blocks, 2)
	assert.Equal(t, "toolu_01", resultsMsg.Blocks[0].ToolUseID)
	assert.Equal(t, "first", resultsMsg.Blocks[0].Content)
	assert.Equal(t, "toolu_02", resultsMsg.Blocks[1].ToolUseID)
	assert.Equal(t, "second", resultsMsg.Blocks[1].Content)
}

func TestRun_ToolFailureFlowsAsResultText(t *testing.T) {
	router := &scriptedRouter{responses: []*contract.CompletionResponse{
		{
			StopReason: contract.StopToolUse,
			Blocks: []contract.Block{
				contract.ToolUseBlock("toolu_01", "no_such_tool", json.RawMessage(`{}`)),
			},
		},
		{
			StopReason: contract.StopEndTurn,
			Blocks:     []contract.Block{contract.TextBlock("recovered")},
		},
	}}
	a := New(router, newTestRunner(), "scripted", 1024)

	res, err := a.Run(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, "recovered", res.Answer)

	result := res.Messages[2].Blocks[0]
	assert.Equal(t, "toolu_01", result.ToolUseID)
	assert.Contains(t, result.Content, "Error:")
}

func TestRun_ToolUseStopWithoutCallsTerminates(t *testing.T) {
	router := &scriptedRouter{responses: []*contract.CompletionResponse{
		{
			StopReason: contract.StopToolUse,
			Blocks:     []contract.Block{contract.TextBlock("I would call a tool but forgot how")},
		},
	}}
	a := New(router, newTestRunner(), "scripted", 1024)

	res, err := a.Run(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, "I would call a tool but forgot how", res.Answer)
	assert.Len(t, router.requests, 1)
}

func TestRun_TurnLimit(t *testing.T) {
	loop := &contract.CompletionResponse{
		StopReason: contract.StopToolUse,
		Blocks: []contract.Block{
			contract.ToolUseBlock("toolu_01", "echo", json.RawMessage(`{"text":"again"}`)),
		},
	}
	router := &scriptedRouter{responses: []*contract.CompletionResponse{loop, loop, loop}}
	a := New(router, newTestRunner(), "scripted", 1024, WithMaxTurns(2))

	_, err := a.Run(context.Background(), "go")
	require.Error(t, err)
	assert.ErrorIs(t, err, benkeiErrors.ErrTurnLimit)
	assert.Len(t, router.requests, 2)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	router := &scriptedRouter{}
	a := New(router, newTestRunner(), "scripted", 1024)

	_, err := a.Run(ctx, "go")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, router.requests)
}

func TestRun_SystemPromptAndToolsForwarded(t *testing.T) {
	router := &scriptedRouter{responses: []*contract.CompletionResponse{
		{StopReason: contract.StopEndTurn, Blocks: []contract.Block{contract.TextBlock("ok")}},
	}}
	a := New(router, newTestRunner(), "scripted", 2048, WithSystemPrompt("Be brief."))

	_, err := a.Run(context.Background(), "hi")
	require.NoError(t, err)

	req := router.requests[0]
	assert.Equal(t, "Be brief.", req.System)
	assert.Equal(t, int64(2048), req.MaxTokens)
	require.Len(t, req.Tools, 1)
	assert.Equal(t, "echo", req.Tools[0].Name)
}

type recordingObserver struct {
	texts   []string
	calls   []string
	results []string
}

func (o *recordingObserver) OnText(text string) { o.texts = append(o.texts, text) }
func (o *recordingObserver) OnToolCall(name string, _ json.RawMessage) {
	o.calls = append(o.calls, name)
}
func (o *recordingObserver) OnToolResult(name string, result string) {
	o.results = append(o.results, result)
}

func TestRun_ObserverSeesEvents(t *testing.T) {
	router := &scriptedRouter{responses: []*contract.CompletionResponse{
		{
			StopReason: contract.StopToolUse,
			Blocks: []contract.Block{
				contract.ToolUseBlock("toolu_01", "echo", json.RawMessage(`{"text":"traced"}`)),
			},
		},
		{
			StopReason: contract.StopEndTurn,
			Blocks:     []contract.Block{contract.TextBlock("all done")},
		},
	}}
	obs := &recordingObserver{}
	a := New(router, newTestRunner(), "scripted", 1024, WithObserver(obs))

	_, err := a.Run(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, []string{"echo"}, obs.calls)
	assert.Equal(t, []string{"traced"}, obs.results)
	assert.Equal(t, []string{"all done"}, obs.texts)
}
