package agent

import "encoding/json"

// Observer receives conversation events as the loop progresses. Implementations
// must not block; they exist for surfaces like the REPL to trace what the
// agent is doing.
type Observer interface {
	OnText(text string)
	OnToolCall(name string, input json.RawMessage)
	OnToolResult(name string, result string)
}

type NullObserver struct{}

func (NullObserver) OnText(text string)                            {}
func (NullObserver) OnToolCall(name string, input json.RawMessage) {}
func (NullObserver) OnToolResult(name string, result string)       {}
