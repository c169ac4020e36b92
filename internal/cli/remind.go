package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Joseda-hg/taskminder/internal/notify"
	"github.com/Joseda-hg/taskminder/internal/reminder"
	"github.com/spf13/cobra"
)

func remindCmd(flags *globalFlags) *cobra.Command {
	var command string
	var once bool

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Watch reminders in the foreground and deliver notifications",
		Long: `remind checks the task list for reminders that are due, delivers a
notification for each one and clears it. It keeps checking on the configured
interval until interrupted, or exits after one pass with --once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, flags, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			interval, err := a.cfg.ReminderEvery()
			if err != nil {
				return err
			}
			if command == "" {
				command = a.cfg.NotifyCommand
			}
			notifier := notify.Multi{
				notify.Log{Logger: a.logger},
				notify.NewCommand(command, notify.WithLogger(a.logger)),
			}
			monitor := reminder.NewMonitor(a.store, notifier,
				reminder.WithInterval(interval),
				reminder.WithLogger(a.logger),
			)

			if once {
				fired := monitor.Check(ctx)
				fmt.Fprintf(cmd.OutOrStdout(), "Delivered %d reminder(s)\n", len(fired))
				return nil
			}
			a.logger.Info("watching reminders", "interval", interval)
			monitor.Run(ctx)
			return nil
		},
	}
	cmd.Flags().StringVar(&command, "command", "", "desktop notification command (default from config)")
	cmd.Flags().BoolVar(&once, "once", false, "check once and exit")
	return cmd
}
