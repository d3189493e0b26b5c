package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	toolcore "github.com/harunnryd/benkei/internal/tool"
)

func init() {
	toolcore.RegisterBuiltin("read_file", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		return &ReadFileTool{}, nil
	})
}

// ReadFileTool returns the full contents of a file, untruncated.
type ReadFileTool struct{}

func (t *ReadFileTool) Name() string {
	return "read_file"
}

func (t *ReadFileTool) Description() string {
	return "Read contents of a file. Do not use with directories."
}

func (t *ReadFileTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "File path to read",
			},
		},
		"required": []string{"path"},
	}
}

func (t *ReadFileTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	_ = ctx

	var args struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", fmt.Errorf("invalid input: %w", err)
	}
	if args.Path == "" {
		return "", fmt.Errorf("path is required")
	}

	info, err := os.Stat(args.Path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory, not a file", args.Path)
	}

	data, err := os.ReadFile(args.Path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
