package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Joseda-hg/taskminder/internal/notify"
	"github.com/Joseda-hg/taskminder/internal/reminder"
	"github.com/Joseda-hg/taskminder/internal/tui"
	"github.com/Joseda-hg/taskminder/internal/web"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Without a subcommand it opens the
// terminal UI.
func NewRootCmd(version string) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "taskminder",
		Short: "Personal task manager with reminders",
		Long: `taskminder keeps a personal list of tasks with priorities, deadlines,
reminders and comments.

Run without arguments to open the terminal UI, add --web to serve the
browser UI alongside it, or use the subcommands for scripting.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, flags)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default is the user config dir)")
	pf.StringVar(&flags.storePath, "store", "", "path to the task database")
	pf.StringVar(&flags.backend, "backend", "", "storage backend: sqlite or bolt")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.Flags().IntVar(&flags.port, "port", 0, "port for the web UI")
	rootCmd.Flags().BoolVar(&flags.web, "web", false, "serve the web UI next to the terminal UI")
	rootCmd.Flags().BoolVar(&flags.webOnly, "web-only", false, "serve only the web UI")

	rootCmd.AddCommand(
		listCmd(flags),
		showCmd(flags),
		addCmd(flags),
		editCmd(flags),
		toggleCmd(flags),
		removeCmd(flags),
		commentCmd(flags),
		shareCmd(flags),
		exportCmd(flags),
		remindCmd(flags),
	)
	return rootCmd
}

// Execute runs the root command and reports failures on stderr.
func Execute(version string) error {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func runInteractive(cmd *cobra.Command, flags *globalFlags) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, flags, cmd.ErrOrStderr(), !flags.webOnly)
	if err != nil {
		return err
	}
	defer a.Close()

	interval, err := a.cfg.ReminderEvery()
	if err != nil {
		return err
	}
	desktop := notify.NewCommand(a.cfg.NotifyCommand, notify.WithLogger(a.logger))

	if flags.webOnly {
		monitor := reminder.NewMonitor(a.store, notify.Multi{notify.Log{Logger: a.logger}, desktop},
			reminder.WithInterval(interval),
			reminder.WithLogger(a.logger),
		)
		go monitor.Run(ctx)
		return serveWeb(ctx, a)
	}

	if a.cfg.WebEnabled {
		webCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := serveWeb(webCtx, a); err != nil {
				a.logger.Error("web server stopped", "err", err)
			}
		}()
	}

	return tui.Run(ctx, a.store, tui.Options{
		Reload:           a.adapter.Load,
		Notifier:         desktop,
		ReminderInterval: interval,
		Logger:           a.logger,
	})
}

// serveWeb blocks until ctx is done or the listener fails.
func serveWeb(ctx context.Context, a *app) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.WebPort),
		Handler:           web.NewServer(a.store, a.logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("web UI listening", "addr", "http://localhost"+server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
