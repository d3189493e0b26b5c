package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	toolcore "github.com/harunnryd/benkei/internal/tool"
)

func init() {
	toolcore.RegisterBuiltin("list_files", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		return &ListFilesTool{}, nil
	})
}

// ListFilesTool lists directory entry names, one per line. os.ReadDir
// returns entries sorted by name, so the output is deterministic for a
// given directory snapshot.
type ListFilesTool struct{}

func (t *ListFilesTool) Name() string {
	return "list_files"
}

func (t *ListFilesTool) Description() string {
	return "List files in a directory. Defaults to current directory."
}

func (t *ListFilesTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Directory path",
			},
		},
	}
}

func (t *ListFilesTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	_ = ctx

	var args struct {
		Path string `json:"path"`
	}
	if len(input) > 0 {
		if err := json.Unmarshal(input, &args); err != nil {
			return "", fmt.Errorf("invalid input: %w", err)
		}
	}

	path := args.Path
	if path == "" {
		path = "."
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return strings.Join(names, "\n"), nil
}
