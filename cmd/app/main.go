package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"SpyReg/internal/di"
	"SpyReg/pkg/apperr"
	"SpyReg/pkg/config"
	applogger "SpyReg/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:           "spyreg",
		Short:         "Fit and assess a next-day SPY move regression on global index data",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "config file path (built-in defaults when empty)")
	return cmd
}

func run(parent context.Context, configPath string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		return err
	}

	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		return err
	}

	app, err := di.InitializeApp(ctx, cfg, l)
	if err != nil {
		l.Error("app initialization failed", applogger.Error(err))
		return err
	}

	if err := app.Run(ctx); err != nil {
		l.Error("run failed",
			applogger.String("code", apperr.CodeOf(err)),
			applogger.Error(err),
		)
		return err
	}
	return nil
}
