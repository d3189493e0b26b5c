package model

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/harunnryd/benkei/internal/config"
	benkeiErrors "github.com/harunnryd/benkei/internal/errors"
	"github.com/harunnryd/benkei/internal/logger"
	"github.com/harunnryd/benkei/internal/model/contract"
	anthropicProvider "github.com/harunnryd/benkei/internal/model/providers/anthropic"
	openaiProvider "github.com/harunnryd/benkei/internal/model/providers/openai"
)

// DefaultModelRouter implements ModelRouter interface
type DefaultModelRouter struct {
	cfg       config.ModelsConfig
	providers map[string]Provider
	mu        sync.RWMutex
}

// NewModelRouter creates a new model router
func NewModelRouter(cfg config.ModelsConfig) (*DefaultModelRouter, error) {
	router := &DefaultModelRouter{
		cfg:       cfg,
		providers: make(map[string]Provider),
	}

	if err := router.initProviders(); err != nil {
		return nil, err
	}

	return router, nil
}

func (r *DefaultModelRouter) initProviders() error {
	for _, entry := range r.cfg.Registry {
		var provider Provider

		switch entry.Provider {
		case "anthropic":
			provider = anthropicProvider.New(entry.APIKey)
		case "openai":
			provider = openaiProvider.New(entry.APIKey, entry.BaseURL)
		default:
			slog.Warn("Skipping model with unsupported provider", "model", entry.Name, "provider", entry.Provider)
			continue
		}

		r.providers[entry.Name] = provider
	}

	if len(r.providers) == 0 {
		return benkeiErrors.NotFound("no usable models configured")
	}

	return nil
}

// Route routes a completion request to the provider registered for the model.
func (r *DefaultModelRouter) Route(ctx context.Context, model string, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	traceID := logger.GetTraceID(ctx)

	provider, err := r.resolveProvider(model)
	if err != nil {
		return nil, err
	}

	slog.Debug("Routing completion request", "model", model, "provider", provider.Name(), "trace_id", traceID)

	req.Model = model
	resp, err := provider.Generate(ctx, req)
	if err != nil {
		return nil, benkeiErrors.WrapWithCategory(err, "completion request failed", benkeiErrors.ErrTransient)
	}

	return resp, nil
}

// ListModels returns the configured model names in deterministic order.
func (r *DefaultModelRouter) ListModels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *DefaultModelRouter) resolveProvider(model string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if provider, ok := r.providers[model]; ok {
		return provider, nil
	}

	// Unregistered model names go to the default model's provider, so a
	// config override like models.default=claude-x does not also require a
	// registry entry.
	if provider, ok := r.providers[r.cfg.Default]; ok {
		return provider, nil
	}

	return nil, benkeiErrors.NotFound("no provider for model " + model)
}
