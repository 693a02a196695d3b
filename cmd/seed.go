/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mg3/promag-api/internal/db"
	"github.com/mg3/promag-api/internal/services"
	"github.com/mg3/promag-api/internal/store"
)

var seedFlags struct {
	username string
	password string
	email    string
	fullName string
}

// seedCmd creates the admin user, or resets its password if it exists.
var seedCmd = &cobra.Command{
	Use:   "seed-user",
	Short: "Create or update the seed admin user",
	Long: `Creates the admin user from SEED_ADMIN_USERNAME, SEED_ADMIN_PASSWORD,
SEED_ADMIN_EMAIL and SEED_ADMIN_FULL_NAME. Flags override the environment.
An existing user with the same username gets the new password.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		seed := cfg.Seed
		flags := cmd.Flags()
		if flags.Changed("username") {
			seed.Username = seedFlags.username
		}
		if flags.Changed("password") {
			seed.Password = seedFlags.password
		}
		if flags.Changed("email") {
			seed.Email = seedFlags.email
		}
		if flags.Changed("full-name") {
			seed.FullName = seedFlags.fullName
		}

		dbConn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		userService := services.NewUserService(store.NewUserRepository(dbConn))
		identity, err := userService.Seed(cmd.Context(), seed.Username, seed.Password, seed.Email, seed.FullName)
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		log.Info("seed user ready", zap.Int64("id", identity.ID), zap.String("username", identity.Username))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedFlags.username, "username", "", "username (default $SEED_ADMIN_USERNAME)")
	seedCmd.Flags().StringVar(&seedFlags.password, "password", "", "password (default $SEED_ADMIN_PASSWORD)")
	seedCmd.Flags().StringVar(&seedFlags.email, "email", "", "email (default $SEED_ADMIN_EMAIL)")
	seedCmd.Flags().StringVar(&seedFlags.fullName, "full-name", "", "display name (default $SEED_ADMIN_FULL_NAME)")
}
