package agent

import (
	"context"
	"log/slog"

	"github.com/oklog/ulid/v2"

	benkeiErrors "github.com/harunnryd/benkei/internal/errors"
	"github.com/harunnryd/benkei/internal/logger"
	"github.com/harunnryd/benkei/internal/model"
	"github.com/harunnryd/benkei/internal/model/contract"
	"github.com/harunnryd/benkei/internal/tool"
)

// Agent drives the conversation loop: send history to the model endpoint,
// execute any tool calls it requests, feed the results back, and repeat
// until the endpoint ends its turn.
type Agent struct {
	router    model.ModelRouter
	runner    *tool.Runner
	model     string
	maxTokens int64
	system    string
	maxTurns  int
	observer  Observer
}

type Option func(*Agent)

func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) {
		a.system = prompt
	}
}

// WithMaxTurns bounds the number of model round trips. Zero means unbounded.
func WithMaxTurns(n int) Option {
	return func(a *Agent) {
		a.maxTurns = n
	}
}

func WithObserver(obs Observer) Option {
	return func(a *Agent) {
		if obs != nil {
			a.observer = obs
		}
	}
}

func New(router model.ModelRouter, runner *tool.Runner, modelName string, maxTokens int64, opts ...Option) *Agent {
	a := &Agent{
		router:    router,
		runner:    runner,
		model:     modelName,
		maxTokens: maxTokens,
		observer:  NullObserver{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Result is the outcome of one completed run.
type Result struct {
	// Answer is the concatenated text of the final assistant turn.
	Answer string

	// Messages is the full conversation transcript, user message included.
	Messages []contract.Message

	// Turns is the number of model round trips consumed.
	Turns int
}

// Run executes the conversation loop for a single user message. History is
// append-only: each round trip adds one assistant message, and one user
// message carrying the tool results when tools were called.
func (a *Agent) Run(ctx context.Context, userMessage string) (*Result, error) {
	traceID := newTraceID()
	ctx = logger.WithTraceID(ctx, traceID)

	messages := []contract.Message{
		contract.UserMessage(contract.TextBlock(userMessage)),
	}

	slog.Info("Agent run started", "model", a.model, "trace_id", traceID)

	turns := 0
	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if a.maxTurns > 0 && turns >= a.maxTurns {
			slog.Warn("Turn limit reached", "max_turns", a.maxTurns, "trace_id", traceID)
			return nil, benkeiErrors.ErrTurnLimit
		}
		turns++

		resp, err := a.router.Route(ctx, a.model, contract.CompletionRequest{
			MaxTokens: a.maxTokens,
			System:    a.system,
			Messages:  messages,
			Tools:     a.runner.Descriptors(),
		})
		if err != nil {
			return nil, benkeiErrors.Wrap(err, "model round trip failed")
		}

		messages = append(messages, contract.AssistantMessage(resp.Blocks...))

		if resp.StopReason == contract.StopEndTurn {
			answer := contract.JoinText(resp.Blocks)
			a.observer.OnText(answer)
			slog.Info("Agent run finished", "turns", turns, "trace_id", traceID)
			return &Result{Answer: answer, Messages: messages, Turns: turns}, nil
		}

		uses := contract.ToolUses(resp.Blocks)
		if len(uses) == 0 {
			// The endpoint signalled a tool turn but produced no extractable
			// call. Returning what text we have beats looping forever.
			answer := contract.JoinText(resp.Blocks)
			a.observer.OnText(answer)
			slog.Warn("Stop without tool calls, terminating", "stop_reason", resp.StopReason, "trace_id", traceID)
			return &Result{Answer: answer, Messages: messages, Turns: turns}, nil
		}

		results := make([]contract.Block, 0, len(uses))
		for _, use := range uses {
			a.observer.OnToolCall(use.Name, use.Input)
			out := a.runner.Execute(ctx, use.Name, use.Input)
			a.observer.OnToolResult(use.Name, out)
			results = append(results, contract.ToolResultBlock(use.ID, out))
		}
		messages = append(messages, contract.UserMessage(results...))
	}
}

func newTraceID() string {
	return ulid.Make().String()
}
