package tool

import (
	"fmt"
	"sort"
	"sync"
)

// BuiltinOptions carries runtime settings needed by built-in tool factories.
type BuiltinOptions struct {
	// Shell overrides the shell used by the bash tool. Empty means
	// $SHELL, falling back to sh.
	Shell string
}

type BuiltinFactory func(options BuiltinOptions) (Tool, error)

var builtinCatalog = struct {
	mu        sync.RWMutex
	factories map[string]BuiltinFactory
}{
	factories: map[string]BuiltinFactory{},
}

// RegisterBuiltin registers a built-in tool factory under a tool name.
// Intended to be called in init() from built-in tool files.
func RegisterBuiltin(name string, factory BuiltinFactory) {
	normalized := NormalizeToolName(name)
	if normalized == "" {
		panic("tool: built-in name cannot be empty")
	}
	if factory == nil {
		panic(fmt.Sprintf("tool: built-in factory cannot be nil (%s)", normalized))
	}

	builtinCatalog.mu.Lock()
	defer builtinCatalog.mu.Unlock()

	if _, exists := builtinCatalog.factories[normalized]; exists {
		panic(fmt.Sprintf("tool: built-in already registered: %s", normalized))
	}
	builtinCatalog.factories[normalized] = factory
}

// BuiltinNames returns all registered built-in names in deterministic order.
func BuiltinNames() []string {
	builtinCatalog.mu.RLock()
	defer builtinCatalog.mu.RUnlock()

	names := make([]string, 0, len(builtinCatalog.factories))
	for name := range builtinCatalog.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InstantiateBuiltins constructs all built-in tools using their registered factories.
func InstantiateBuiltins(options BuiltinOptions) ([]Tool, error) {
	builtinCatalog.mu.RLock()
	factories := make(map[string]BuiltinFactory, len(builtinCatalog.factories))
	for name, factory := range builtinCatalog.factories {
		factories[name] = factory
	}
	builtinCatalog.mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)

	tools := make([]Tool, 0, len(names))
	for _, name := range names {
		t, err := factories[name](options)
		if err != nil {
			return nil, fmt.Errorf("instantiate built-in %q: %w", name, err)
		}
		tools = append(tools, t)
	}

	return tools, nil
}
