/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mg3/promag-api/config"
	"github.com/mg3/promag-api/internal/logging"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "promag",
	Short: "MG3 project management backend",
	Long: `Backend for tracking construction projects, submittals, RFIs and
action items. Usage:

	promag server
	promag migrate up
	promag seed-user
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// loadRuntime reads the configuration and builds the process logger.
func loadRuntime() (config.Config, *zap.Logger, error) {
	cfg := config.LoadConfig()
	log, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
