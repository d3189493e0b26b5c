package builtin

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBashTool_Execute(t *testing.T) {
	tool := &BashTool{}

	out, err := tool.Execute(context.Background(), json.RawMessage(`{"command":"printf 'hello'"}`))
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestBashTool_Execute_NonZeroExit(t *testing.T) {
	tool := &BashTool{}

	// A failing command is ordinary output, not a tool failure.
	out, err := tool.Execute(context.Background(), json.RawMessage(`{"command":"printf 'partial'; printf 'boom' >&2; exit 3"}`))
	require.NoError(t, err)
	assert.Contains(t, out, "partial")
	assert.Contains(t, out, "boom")
}

func TestBashTool_Execute_StdoutBeforeStderr(t *testing.T) {
	tool := &BashTool{}

	out, err := tool.Execute(context.Background(), json.RawMessage(`{"command":"printf 'out'; printf 'err' >&2"}`))
	require.NoError(t, err)
	assert.Equal(t, "outerr", out)
}

func TestBashTool_Execute_EmptyCommand(t *testing.T) {
	tool := &BashTool{}

	_, err := tool.Execute(context.Background(), json.RawMessage(`{"command":"  "}`))
	require.Error(t, err)
}

func TestBashTool_Execute_ShellOverride(t *testing.T) {
	tool := &BashTool{Shell: "sh"}

	out, err := tool.Execute(context.Background(), json.RawMessage(`{"command":"echo override"}`))
	require.NoError(t, err)
	assert.Equal(t, "override\n", out)
}

func TestResolveShell(t *testing.T) {
	assert.Equal(t, "zsh", resolveShell("zsh"))

	t.Setenv("SHELL", "/bin/bash")
	assert.Equal(t, "/bin/bash", resolveShell(""))

	t.Setenv("SHELL", "")
	assert.Equal(t, "sh", resolveShell(""))
}
