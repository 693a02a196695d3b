/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mg3/promag-api/internal/server"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the promag backend server",
	Long: `Starts the promag backend server. Pending migrations are applied
first unless DB_MIGRATE_ON_START=false. Usage:

	promag server
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv, err := server.New(ctx, cfg, log)
		if err != nil {
			log.Error("failed to start server", zap.Error(err))
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			if err != nil {
				log.Error("server error", zap.Error(err))
			}
			return err
		case <-ctx.Done():
			log.Info("shutting down")
			return srv.Shutdown(context.Background())
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
