package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/harunnryd/benkei/internal/audit"
	"github.com/harunnryd/benkei/internal/logger"
	"github.com/harunnryd/benkei/internal/model/contract"
)

// Runner executes tool calls on behalf of the conversation loop. Execute is
// total: every (name, input) pair yields result text, and failures of any
// kind come back as text starting with "Error:" so they can flow into the
// conversation as an ordinary tool result.
type Runner struct {
	registry *Registry
	audit    *audit.Logger
}

func NewRunner(registry *Registry, auditLog *audit.Logger) *Runner {
	return &Runner{
		registry: registry,
		audit:    auditLog,
	}
}

func (r *Runner) Descriptors() []contract.ToolDef {
	if r == nil || r.registry == nil {
		return nil
	}
	return r.registry.Descriptors()
}

// Execute handles the full lifecycle: Find Tool -> Validate Input -> Run ->
// Return Result Text. It never panics and never returns an error.
func (r *Runner) Execute(ctx context.Context, toolName string, input json.RawMessage) (result string) {
	start := time.Now()
	traceID := logger.GetTraceID(ctx)
	requested := NormalizeToolName(toolName)

	// A panicking handler must surface as result text, not kill the loop.
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Tool panicked", "tool", requested, "panic", rec, "trace_id", traceID)
			r.record(ctx, requested, start, "panic")
			result = fmt.Sprintf("Error: tool %s panicked: %v", requested, rec)
		}
	}()

	t, ok := r.registry.Get(toolName)
	if !ok {
		slog.Warn("Unknown tool requested", "tool", requested, "trace_id", traceID)
		r.record(ctx, requested, start, "unknown")
		return fmt.Sprintf("Error: unknown tool: %s", requested)
	}

	if err := ValidateInput(t.Parameters(), input); err != nil {
		slog.Warn("Tool input validation failed", "tool", requested, "error", err, "trace_id", traceID)
		r.record(ctx, requested, start, "invalid_input")
		return fmt.Sprintf("Error: invalid input for %s: %v", requested, err)
	}

	slog.Info("Executing tool", "tool", requested, "trace_id", traceID)

	out, err := t.Execute(ctx, input)

	duration := time.Since(start)
	if err != nil {
		slog.Warn("Tool execution failed", "tool", requested, "error", err, "duration", duration, "trace_id", traceID)
		r.record(ctx, requested, start, "error")
		return fmt.Sprintf("Error: %v", err)
	}

	slog.Info("Tool execution success", "tool", requested, "duration", duration, "trace_id", traceID)
	r.record(ctx, requested, start, "ok")
	return out
}

func (r *Runner) record(ctx context.Context, toolName string, start time.Time, status string) {
	if r.audit == nil {
		return
	}

	entry := audit.Entry{
		Tool:       toolName,
		Status:     status,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if err := r.audit.Record(ctx, entry); err != nil {
		slog.Warn("Audit record failed", "tool", toolName, "error", err)
	}
}
