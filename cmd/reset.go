/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mg3/promag-api/internal/db"
)

var resetConfirmed bool

// resetCmd drops and recreates every table.
var resetCmd = &cobra.Command{
	Use:   "reset-db",
	Short: "Drop all tables and recreate the schema",
	Long: `Drops every table in the public schema and recreates it from the
embedded migrations in a single transaction. All data is lost.

	promag reset-db --yes
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetConfirmed {
			return errors.New("refusing to reset without --yes")
		}
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		dbConn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		if err := db.Reset(cmd.Context(), dbConn); err != nil {
			return err
		}
		log.Warn("database reset", zap.String("database", cfg.Database.DBName))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVar(&resetConfirmed, "yes", false, "confirm that all data will be dropped")
}
