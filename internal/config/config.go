package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/harunnryd/benkei/internal/pathutil"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Log     LogConfig     `koanf:"log"`
	Agent   AgentConfig   `koanf:"agent"`
	Models  ModelsConfig  `koanf:"models"`
	Prompts PromptsConfig `koanf:"prompts"`
	Tools   ToolsConfig   `koanf:"tools"`
	Audit   AuditConfig   `koanf:"audit"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type AgentConfig struct {
	MaxOutputTokens int64 `koanf:"max_output_tokens"`
	MaxTurns        int   `koanf:"max_turns"`
}

type ModelsConfig struct {
	Default  string          `koanf:"default"`
	Registry []ModelRegistry `koanf:"registry"`
}

type ModelRegistry struct {
	Name     string `koanf:"name"`
	Provider string `koanf:"provider"`
	BaseURL  string `koanf:"base_url"`
	APIKey   string `koanf:"api_key"`
}

type PromptsConfig struct {
	System string `koanf:"system"`
}

type ToolsConfig struct {
	Bash BashToolConfig `koanf:"bash"`
}

type BashToolConfig struct {
	Shell string `koanf:"shell"`
}

type AuditConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

const (
	DefaultLogLevel             = "info"
	DefaultAgentMaxOutputTokens = 4096
	// Zero means the loop runs until the model stops requesting tools.
	DefaultAgentMaxTurns = 0
	DefaultModelDefault  = "claude-sonnet-4-20250514"
	DefaultModelFallback = "gpt-4o"
	DefaultSystemPrompt  = "You are a coding agent working in the current directory. Use the available tools to inspect and modify files and to run commands."
)

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	// Hardcoded Defaults
	defaults := map[string]interface{}{
		"log.level":               DefaultLogLevel,
		"agent.max_output_tokens": DefaultAgentMaxOutputTokens,
		"agent.max_turns":         DefaultAgentMaxTurns,
		"models.default":          DefaultModelDefault,
		"models.registry": []ModelRegistry{
			{Name: DefaultModelDefault, Provider: "anthropic"},
			{Name: DefaultModelFallback, Provider: "openai"},
		},
		"prompts.system":   DefaultSystemPrompt,
		"tools.bash.shell": "",
		"audit.enabled":    false,
		"audit.path":       filepath.Join(os.Getenv("HOME"), ".benkei", "audit.log"),
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	// Config file loading
	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			globalPath := filepath.Join(home, ".benkei", "config.yaml")
			if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
				slog.Debug("Global config not found or invalid", "path", globalPath, "error", err)
			}
		}
	}

	// Environment Variables
	k.Load(env.Provider("BENKEI_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "BENKEI_")), "_", ".", -1)
	}), nil)

	// CLI Flags
	if cmd != nil {
		k.Load(posflag.Provider(cmd.Flags(), ".", k), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	for i, m := range cfg.Models.Registry {
		if m.Provider == "" {
			cfg.Models.Registry[i].Provider = "anthropic"
		}
	}

	auditPath, err := pathutil.Expand(cfg.Audit.Path)
	if err != nil {
		return nil, err
	}
	if auditPath != "" {
		cfg.Audit.Path = auditPath
	}

	// Post-Process: Inject standard Env Vars if missing
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		for i, m := range cfg.Models.Registry {
			if m.Provider == "anthropic" && m.APIKey == "" {
				cfg.Models.Registry[i].APIKey = key
			}
		}
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		for i, m := range cfg.Models.Registry {
			if m.Provider == "openai" && m.APIKey == "" {
				cfg.Models.Registry[i].APIKey = key
			}
		}
	}

	return &cfg, nil
}
