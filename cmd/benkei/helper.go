package main

import (
	"fmt"

	"github.com/harunnryd/benkei/internal/agent"
	"github.com/harunnryd/benkei/internal/audit"
	"github.com/harunnryd/benkei/internal/model"
	"github.com/harunnryd/benkei/internal/tool"
	_ "github.com/harunnryd/benkei/internal/tool/builtin"
)

// buildAgent assembles the registry, runner, and router from the loaded
// config, ready for a Run call.
func buildAgent(obs agent.Observer) (*agent.Agent, error) {
	tools, err := tool.InstantiateBuiltins(tool.BuiltinOptions{
		Shell: cfg.Tools.Bash.Shell,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate tools: %w", err)
	}

	registry := tool.NewRegistry()
	for _, t := range tools {
		registry.Register(t)
	}

	auditLog, err := audit.NewLogger(cfg.Audit.Path, cfg.Audit.Enabled)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}

	router, err := model.NewModelRouter(cfg.Models)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize model router: %w", err)
	}

	return agent.New(
		router,
		tool.NewRunner(registry, auditLog),
		cfg.Models.Default,
		cfg.Agent.MaxOutputTokens,
		agent.WithSystemPrompt(cfg.Prompts.System),
		agent.WithMaxTurns(cfg.Agent.MaxTurns),
		agent.WithObserver(obs),
	), nil
}
