package contract

import (
	"encoding/json"
	"strings"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// StopReason is the endpoint's signal for whether the turn is final or
// requests further tool execution.
type StopReason string

const (
	StopEndTurn StopReason = "end_turn"
	StopToolUse StopReason = "tool_use"
	StopOther   StopReason = "other"
)

type BlockType string

const (
	BlockText       BlockType = "text"
	BlockToolUse    BlockType = "tool_use"
	BlockToolResult BlockType = "tool_result"
)

// Block is a tagged union over the three content block kinds. The ID on a
// tool_use block is minted by the model endpoint and must be echoed back
// verbatim as ToolUseID on the matching tool_result.
type Block struct {
	Type BlockType `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// tool_use
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

func TextBlock(text string) Block {
	return Block{Type: BlockText, Text: text}
}

func ToolUseBlock(id, name string, input json.RawMessage) Block {
	return Block{Type: BlockToolUse, ID: id, Name: name, Input: input}
}

func ToolResultBlock(toolUseID, content string) Block {
	return Block{Type: BlockToolResult, ToolUseID: toolUseID, Content: content}
}

type Message struct {
	Role   Role    `json:"role"`
	Blocks []Block `json:"content"`
}

func UserMessage(blocks ...Block) Message {
	return Message{Role: RoleUser, Blocks: blocks}
}

func AssistantMessage(blocks ...Block) Message {
	return Message{Role: RoleAssistant, Blocks: blocks}
}

// JoinText concatenates the values of all text blocks in order.
func JoinText(blocks []Block) string {
	var b strings.Builder
	for _, block := range blocks {
		if block.Type == BlockText {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

// ToolUses returns the tool_use blocks in the order they appear.
func ToolUses(blocks []Block) []Block {
	var uses []Block
	for _, block := range blocks {
		if block.Type == BlockToolUse {
			uses = append(uses, block)
		}
	}
	return uses
}

type ToolDef struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

type CompletionRequest struct {
	Model     string    `json:"model"`
	MaxTokens int64     `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
	Tools     []ToolDef `json:"tools,omitempty"`
}

type CompletionResponse struct {
	StopReason StopReason `json:"stop_reason"`
	Blocks     []Block    `json:"content"`
}
