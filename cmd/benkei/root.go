package main

import (
	"fmt"
	"os"

	"github.com/harunnryd/benkei/internal/config"
	"github.com/harunnryd/benkei/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "benkei",
	Short: "Benkei coding agent",
	Long:  `Benkei is a tool-wielding coding agent that works in the current directory.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd)
		if err != nil {
			return err
		}

		logger.Setup(cfg.Log.Level)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.benkei/config.yaml)")
	rootCmd.PersistentFlags().String("log.level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("models.default", config.DefaultModelDefault, "model to converse with")
	rootCmd.PersistentFlags().Int("agent.max_turns", config.DefaultAgentMaxTurns, "max model round trips per run (0 = unbounded)")
}
