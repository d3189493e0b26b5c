package builtin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	toolcore "github.com/harunnryd/benkei/internal/tool"

	"github.com/natefinch/atomic"
)

func init() {
	toolcore.RegisterBuiltin("edit_file", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		return &EditFileTool{}, nil
	})
}

// EditFileTool replaces the first occurrence of old_str with new_str. An
// empty old_str creates or overwrites the file with new_str. Writes go
// through an atomic rename so a failed write never leaves a half-edited
// file behind.
type EditFileTool struct{}

func (t *EditFileTool) Name() string {
	return "edit_file"
}

func (t *EditFileTool) Description() string {
	return "Edit a file by replacing old_str with new_str. Empty old_str creates new file."
}

func (t *EditFileTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "File path to edit",
			},
			"old_str": map[string]interface{}{
				"type":        "string",
				"description": "Exact text to replace (first occurrence only)",
			},
			"new_str": map[string]interface{}{
				"type":        "string",
				"description": "Replacement text",
			},
		},
		"required": []string{"path", "old_str", "new_str"},
	}
}

func (t *EditFileTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	_ = ctx

	var args struct {
		Path   string `json:"path"`
		OldStr string `json:"old_str"`
		NewStr string `json:"new_str"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", fmt.Errorf("invalid input: %w", err)
	}
	if args.Path == "" {
		return "", fmt.Errorf("path is required")
	}

	if args.OldStr == "" {
		if err := atomic.WriteFile(args.Path, bytes.NewReader([]byte(args.NewStr))); err != nil {
			return "", err
		}
		return fmt.Sprintf("Created %s", args.Path), nil
	}

	data, err := os.ReadFile(args.Path)
	if err != nil {
		return "", err
	}

	content := string(data)
	if !strings.Contains(content, args.OldStr) {
		return "", fmt.Errorf("'%s' not found in %s", args.OldStr, args.Path)
	}

	updated := strings.Replace(content, args.OldStr, args.NewStr, 1)
	if err := atomic.WriteFile(args.Path, bytes.NewReader([]byte(updated))); err != nil {
		return "", err
	}

	return fmt.Sprintf("Edited %s", args.Path), nil
}
