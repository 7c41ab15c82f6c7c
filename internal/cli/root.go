// Package cli provides the maptool command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/maptool/internal/config"
	"github.com/Faultbox/maptool/internal/logger"
)

// ErrUsage is returned when a command was invoked incorrectly. Its message
// has already been printed, so callers only need to set the exit status.
var ErrUsage = errors.New("usage error")

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "maptool",
		Short: "Maintenance tools for map files",
		Long: `maptool rewrites map files in place.

rotate-tiles replaces directional tile variants with their canonical tile
and records the direction as a rotation on every affected tile.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			path, _ := cmd.Flags().GetString(config.FlagConfig)
			cfg, err := config.Load(path, cmd.Flags())
			if err != nil {
				return err
			}

			opts := logger.Options{Level: cfg.Logging.Level, Console: cmd.ErrOrStderr()}
			if cfg.Logging.LogFile != "" {
				opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
			}
			if err := logger.InitWithOptions(opts); err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			if cfg.File != "" {
				logger.Debug("using config file", zap.String("path", cfg.File))
			}

			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	config.BindGlobalFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(NewRotateTilesCommand())
	rootCmd.AddCommand(NewCatalogCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command with ctx. Errors other than ErrUsage are
// printed to stderr.
func Execute(ctx context.Context) error {
	defer logger.Sync()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, ErrUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return config.Default()
}
