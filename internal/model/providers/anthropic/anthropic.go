package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/harunnryd/benkei/internal/model/contract"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type Provider struct {
	client anthropic.Client
}

func New(apiKey string) *Provider {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Provider{client: client}
}

func (p *Provider) Name() string {
	return "anthropic"
}

func (p *Provider) Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.Blocks))
		for _, b := range m.Blocks {
			switch b.Type {
			case contract.BlockText:
				blocks = append(blocks, anthropic.NewTextBlock(b.Text))
			case contract.BlockToolUse:
				blocks = append(blocks, anthropic.NewToolUseBlock(b.ID, json.RawMessage(b.Input), b.Name))
			case contract.BlockToolResult:
				blocks = append(blocks, anthropic.NewToolResultBlock(b.ToolUseID, b.Content, false))
			}
		}

		switch m.Role {
		case contract.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(blocks...))
		default:
			messages = append(messages, anthropic.NewUserMessage(blocks...))
		}
	}

	var tools []anthropic.ToolUnionParam
	for _, t := range req.Tools {
		tool := anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: anthropic.ToolInputSchemaParam{Properties: map[string]interface{}{}},
		}
		if t.Parameters != nil {
			schema := anthropic.ToolInputSchemaParam{}
			if props, ok := t.Parameters["properties"].(map[string]interface{}); ok {
				schema.Properties = props
			}
			switch required := t.Parameters["required"].(type) {
			case []string:
				schema.Required = required
			case []interface{}:
				for _, field := range required {
					if name, ok := field.(string); ok {
						schema.Required = append(schema.Required, name)
					}
				}
			}
			tool.InputSchema = schema
		}
		tools = append(tools, anthropic.ToolUnionParam{OfTool: &tool})
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: maxTokens,
		Messages:  messages,
		Tools:     tools,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}

	resp := &contract.CompletionResponse{StopReason: mapStopReason(msg.StopReason)}
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			resp.Blocks = append(resp.Blocks, contract.TextBlock(b.Text))
		case anthropic.ToolUseBlock:
			inputJSON, _ := json.Marshal(b.Input)
			resp.Blocks = append(resp.Blocks, contract.ToolUseBlock(b.ID, b.Name, inputJSON))
		}
	}

	return resp, nil
}

func mapStopReason(reason anthropic.StopReason) contract.StopReason {
	switch reason {
	case anthropic.StopReasonEndTurn:
		return contract.StopEndTurn
	case anthropic.StopReasonToolUse:
		return contract.StopToolUse
	default:
		return contract.StopOther
	}
}
