package builtin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	toolcore "github.com/harunnryd/benkei/internal/tool"
)

func init() {
	toolcore.RegisterBuiltin("bash", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		return &BashTool{Shell: options.Shell}, nil
	})
}

// BashTool executes a command line through a shell and returns stdout
// followed by stderr. A non-zero exit code is not a tool failure: the
// model has to see the output of failing commands to react to them, so
// the result text is returned either way.
//
// There is deliberately no timeout here. A hung command stalls the whole
// conversation; callers wanting a bound must cancel the context.
type BashTool struct {
	// Shell overrides the shell executable. Empty resolves $SHELL,
	// falling back to sh.
	Shell string
}

func (t *BashTool) Name() string {
	return "bash"
}

func (t *BashTool) Description() string {
	return "Execute a bash command and return output."
}

func (t *BashTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"command": map[string]interface{}{
				"type":        "string",
				"description": "Command to run",
			},
		},
		"required": []string{"command"},
	}
}

func (t *BashTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	var args struct {
		Command string `json:"command"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", fmt.Errorf("invalid input: %w", err)
	}
	if strings.TrimSpace(args.Command) == "" {
		return "", fmt.Errorf("command is required")
	}

	shell := resolveShell(t.Shell)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, shell, "-c", args.Command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// The command never ran (bad shell, fork failure). Exit codes are
		// ordinary output; this is not.
		return "", err
	}

	return stdout.String() + stderr.String(), nil
}

func resolveShell(shell string) string {
	if trimmed := strings.TrimSpace(shell); trimmed != "" {
		return trimmed
	}
	if envShell := strings.TrimSpace(os.Getenv("SHELL")); envShell != "" {
		return envShell
	}
	return "sh"
}
