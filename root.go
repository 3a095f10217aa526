// Command teamdrive manages Google Drive shared drives used as incident
// workspaces: provisioning, membership, file transfer, and archival.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/incidentkit/teamdrive-go/internal/config"
	"github.com/incidentkit/teamdrive-go/internal/gdrive"
	"github.com/incidentkit/teamdrive-go/internal/workspace"
)

// version is set at build time via ldflags.
var version = "dev"

// Global persistent flags, bound in newRootCmd().
var (
	flagConfigPath string
	flagJSON       bool
	flagVerbose    bool
	flagQuiet      bool
)

// resolvedCfg holds the effective configuration loaded by PersistentPreRunE.
// Available to all subcommands after the root pre-run phase completes.
var resolvedCfg *config.Config

// newRootCmd builds and returns the fully-assembled root command with all
// subcommands registered. Called once from main().
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "teamdrive",
		Short:   "Shared-drive workspace manager",
		Long:    "Manage Google Drive shared drives used as incident workspaces: create, share, archive.",
		Version: version,
		// Silence Cobra's default error/usage printing; exitOnError handles it.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Resolve(flagConfigPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			resolvedCfg = cfg
			slog.SetDefault(buildLogger(cfg))

			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress informational output")

	cmd.AddCommand(newWorkspaceCmd())
	cmd.AddCommand(newLsCmd())
	cmd.AddCommand(newMkdirCmd())
	cmd.AddCommand(newMvCmd())
	cmd.AddCommand(newCpCmd())
	cmd.AddCommand(newRmCmd())
	cmd.AddCommand(newPutCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newCommentsCmd())
	cmd.AddCommand(newPermCmd())

	return cmd
}

// newDriveClient builds the Drive API client from the resolved config.
func newDriveClient(ctx context.Context) (*gdrive.Client, error) {
	svc, err := gdrive.NewService(ctx, resolvedCfg.CredentialsFile)
	if err != nil {
		return nil, err
	}

	return gdrive.New(svc, gdrive.Options{
		Logger:        slog.Default(),
		MaxAttempts:   resolvedCfg.Retry.MaxAttempts,
		MinBackoff:    resolvedCfg.Retry.MinBackoff.Std(),
		MaxBackoff:    resolvedCfg.Retry.MaxBackoff.Std(),
		SettleDelay:   resolvedCfg.Drive.SettleDelay.Std(),
		RatePerSecond: resolvedCfg.Drive.RatePerSecond,
		RateBurst:     resolvedCfg.Drive.RateBurst,
		PageLimit:     resolvedCfg.Drive.PageLimit,
	}), nil
}

// newWorkspaceService builds the workspace orchestrator on top of the
// Drive client.
func newWorkspaceService(ctx context.Context) (*workspace.Service, error) {
	client, err := newDriveClient(ctx)
	if err != nil {
		return nil, err
	}

	return workspace.NewService(client, workspace.Config{
		Domain:   resolvedCfg.Domain,
		Scaffold: resolvedCfg.Scaffold,
		Logger:   slog.Default(),
	}), nil
}

// buildLogger creates an slog.Logger from config and CLI flags. The config
// file provides the baseline level; --verbose and --quiet override it.
// Format "auto" picks text on a terminal and JSON otherwise.
func buildLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo

	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	if flagVerbose {
		level = slog.LevelDebug
	}

	if flagQuiet {
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	format := cfg.Logging.Format
	if format == "auto" {
		format = "json"
		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			format = "text"
		}
	}

	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}

	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// exitOnError prints a user-friendly error message to stderr and exits.
func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
