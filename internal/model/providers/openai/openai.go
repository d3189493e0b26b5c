package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	benkeiErrors "github.com/harunnryd/benkei/internal/errors"
	"github.com/harunnryd/benkei/internal/model/contract"

	"github.com/sashabaranov/go-openai"
)

type Provider struct {
	client *openai.Client
}

func New(apiKey, baseURL string) *Provider {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}

	return &Provider{client: openai.NewClientWithConfig(cfg)}
}

func (p *Provider) Name() string {
	return "openai"
}

func (p *Provider) Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	var messages []openai.ChatCompletionMessage

	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}

	for _, m := range req.Messages {
		messages = append(messages, convertMessage(m)...)
	}

	var tools []openai.Tool
	for _, t := range req.Tools {
		params := t.Parameters
		if params == nil {
			params = map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			}
		}
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  params,
			},
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     req.Model,
		MaxTokens: int(req.MaxTokens),
		Messages:  messages,
		Tools:     tools,
	})
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, benkeiErrors.InvalidModelOutput("no choices returned")
	}

	choice := resp.Choices[0]
	result := &contract.CompletionResponse{StopReason: mapFinishReason(choice.FinishReason)}

	if choice.Message.Content != "" {
		result.Blocks = append(result.Blocks, contract.TextBlock(choice.Message.Content))
	}
	for i, tc := range choice.Message.ToolCalls {
		id := tc.ID
		if id == "" {
			id = fmt.Sprintf("call_%d", i+1)
		}
		result.Blocks = append(result.Blocks, contract.ToolUseBlock(id, tc.Function.Name, json.RawMessage(tc.Function.Arguments)))
	}

	return result, nil
}

// convertMessage flattens a block-structured message onto the chat API
// shape: tool_result blocks become individual tool-role messages, tool_use
// blocks become assistant tool calls.
func convertMessage(m contract.Message) []openai.ChatCompletionMessage {
	if m.Role == contract.RoleAssistant {
		msg := openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleAssistant,
			Content: contract.JoinText(m.Blocks),
		}
		for _, b := range contract.ToolUses(m.Blocks) {
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   b.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      b.Name,
					Arguments: string(b.Input),
				},
			})
		}
		return []openai.ChatCompletionMessage{msg}
	}

	var out []openai.ChatCompletionMessage
	for _, b := range m.Blocks {
		if b.Type == contract.BlockToolResult {
			out = append(out, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    b.Content,
				ToolCallID: b.ToolUseID,
			})
		}
	}
	if text := contract.JoinText(m.Blocks); text != "" {
		out = append(out, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: text,
		})
	}
	return out
}

func mapFinishReason(reason openai.FinishReason) contract.StopReason {
	switch reason {
	case openai.FinishReasonStop:
		return contract.StopEndTurn
	case openai.FinishReasonToolCalls:
		return contract.StopToolUse
	default:
		return contract.StopOther
	}
}
