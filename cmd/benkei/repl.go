package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/google/shlex"

	"github.com/harunnryd/benkei/internal/agent"
	benkeiErrors "github.com/harunnryd/benkei/internal/errors"
)

const resultPreviewLen = 200

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	traceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// traceObserver prints tool activity as it happens. Final answer text is
// printed by the caller, so OnText stays silent.
type traceObserver struct{}

func newTraceObserver() *traceObserver { return &traceObserver{} }

func (o *traceObserver) OnText(text string) {}

func (o *traceObserver) OnToolCall(name string, input json.RawMessage) {
	fmt.Println(traceStyle.Render(fmt.Sprintf("→ %s(%s)", name, string(input))))
}

func (o *traceObserver) OnToolResult(name string, result string) {
	preview := result
	if len(preview) > resultPreviewLen {
		preview = preview[:resultPreviewLen]
	}
	fmt.Println(traceStyle.Render("← " + preview))
}

type REPL struct {
	agent  *agent.Agent
	reader *bufio.Reader
}

func NewREPL() (*REPL, error) {
	a, err := buildAgent(newTraceObserver())
	if err != nil {
		return nil, err
	}

	return &REPL{
		agent:  a,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (r *REPL) Start(ctx context.Context) error {
	fmt.Printf("Benkei session (model: %s)\n", cfg.Models.Default)
	fmt.Println("Type '/help' for commands, '/exit' to quit.")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			if err := r.readLine(ctx); err != nil {
				if err == io.EOF {
					return nil
				}
				fmt.Println(errorStyle.Render("Error: " + err.Error()))
			}
		}
	}
}

func (r *REPL) readLine(ctx context.Context) error {
	fmt.Print(promptStyle.Render("> "))
	text, err := r.reader.ReadString('\n')
	if err != nil {
		return err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if strings.HasPrefix(text, "/") {
		return r.handleCommand(text)
	}

	res, err := r.agent.Run(ctx, text)
	if err != nil {
		if errors.Is(err, benkeiErrors.ErrTurnLimit) {
			fmt.Println(errorStyle.Render("Turn limit reached before the agent finished."))
			return nil
		}
		return err
	}

	fmt.Println(res.Answer)
	return nil
}

func (r *REPL) handleCommand(input string) error {
	parts, parseErr := shlex.Split(input)
	if parseErr != nil {
		parts = strings.Fields(input)
	}
	if len(parts) == 0 {
		return nil
	}
	cmd := parts[0]

	switch cmd {
	case "/exit", "/quit":
		return io.EOF
	case "/help":
		fmt.Println(r.helpText())
	case "/tools":
		out, err := formatToolTable()
		if err != nil {
			return err
		}
		fmt.Println(out)
	case "/model":
		fmt.Printf("Current model: %s\n", cfg.Models.Default)
	default:
		fmt.Printf("Unknown command: %s\n", cmd)
	}

	return nil
}

func (r *REPL) helpText() string {
	return strings.TrimSpace(`
Commands:
  /tools   List the available tools
  /model   Show the current model
  /help    Show this help
  /exit    Quit the session
`)
}
