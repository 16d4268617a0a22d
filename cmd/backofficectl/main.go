// Command backofficectl drives the back office from a terminal: sign in,
// list and settle orders, manage optics and marketing messages, browse
// files, or run the HTTP gateway.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"backoffice/internal/app"
	intconfig "backoffice/internal/config"
	"backoffice/internal/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logger   *zap.Logger
	jsonOut  bool
	logLevel string
	buildApp = app.Build
	loadEnv  = intconfig.LoadEnv
)

var rootCmd = &cobra.Command{
	Use:           "backofficectl",
	Short:         "Operate the optics back office",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			return nil
		}
		l, err := utils.NewLogger(logLevel, false)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print JSON instead of tables")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

// withApp loads configuration, builds the application and runs fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	env, err := loadEnv()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := buildApp(ctx, env, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
	if logger != nil {
		_ = logger.Sync()
	}
}
