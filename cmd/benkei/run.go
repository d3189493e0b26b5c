package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [prompt]",
	Short: "Chat with the agent",
	Long: `Run starts an interactive session with the agent. With a prompt
argument it answers once and exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		handler := NewSignalHandler(context.Background())
		handler.Start()
		defer handler.Stop()

		if len(args) > 0 {
			return runOnce(handler.Context(), strings.Join(args, " "))
		}

		repl, err := NewREPL()
		if err != nil {
			return err
		}
		return repl.Start(handler.Context())
	},
}

func runOnce(ctx context.Context, prompt string) error {
	a, err := buildAgent(newTraceObserver())
	if err != nil {
		return err
	}

	res, err := a.Run(ctx, prompt)
	if err != nil {
		return err
	}

	fmt.Println(res.Answer)
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}
