/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mg3/promag-api/internal/mq"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the change-event stream",
}

// eventsTailCmd prints change events as they are published.
var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print change events until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		backend, err := mq.Open(ctx, cfg.Events)
		if err != nil {
			return err
		}
		if backend == nil {
			return errors.New("EVENTS_BACKEND is not configured")
		}
		defer backend.Close()

		out := cmd.OutOrStdout()
		err = backend.Subscribe(ctx, cfg.Events.Channel, func(_ context.Context, msg mq.Message) error {
			event, err := mq.DecodeChangeEvent(msg)
			if err != nil {
				// Unparseable messages are dropped rather than redelivered forever.
				log.Warn("skipping message", zap.String("id", msg.ID), zap.Error(err))
				return nil
			}
			actor := event.Actor
			if actor == "" {
				actor = "-"
			}
			fmt.Fprintf(out, "%s %-8s %-14s %s by %s\n",
				event.At.Local().Format(time.DateTime), event.Action, event.Entity, event.Key, actor)
			return nil
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
}
