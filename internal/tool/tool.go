package tool

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/harunnryd/benkei/internal/model/contract"
)

// Tool represents an executable capability. A single object carries both
// the advertised schema and the handler, so the registry and the executor
// can never drift apart.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, input json.RawMessage) (string, error)
}

// Registry holds all available tools.
type Registry struct {
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

func (r *Registry) Register(t Tool) {
	name := NormalizeToolName(t.Name())
	if name == "" {
		panic("tool: empty tool name")
	}

	r.tools[name] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[NormalizeToolName(name)]
	return t, ok
}

// Names returns registered tool names in deterministic order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptors returns the tool definitions advertised to the model
// endpoint on every request, sorted by name.
func (r *Registry) Descriptors() []contract.ToolDef {
	names := r.Names()

	defs := make([]contract.ToolDef, 0, len(names))
	for _, name := range names {
		t := r.tools[name]
		defs = append(defs, contract.ToolDef{
			Name:        name,
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

func NormalizeToolName(name string) string {
	return strings.TrimSpace(name)
}
