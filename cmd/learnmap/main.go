// Package main is the entry point for learnmap. Without a subcommand it
// runs the interactive shell.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"learnmap/local-app/internal/notify"
	"learnmap/local-app/internal/storage"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:           "learnmap",
		Short:         "Track progress through a learning roadmap",
		Long:          "learnmap keeps a roadmap of milestones and learning resources, with progress tracking, search and JSON import/export.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to the configuration file (default ./data/config.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "override the log level (debug, info, warn, error)")
	flags.BoolVar(&opts.ephemeral, "ephemeral", false, "keep the roadmap in memory only")

	rootCmd.AddCommand(newExportCmd(&opts))
	rootCmd.AddCommand(newImportCmd(&opts))
	rootCmd.AddCommand(newStatsCmd(&opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export the roadmap to a JSON file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(*opts, func(ctx context.Context, a *app) error {
				filename := a.cfg.Export.File
				if len(args) == 1 {
					filename = args[0]
				}
				text, err := a.store.ExportData()
				if err != nil {
					return fmt.Errorf("failed to export roadmap: %w", err)
				}
				if err := storage.FileExport(filename, text); err != nil {
					return fmt.Errorf("failed to export roadmap: %w", err)
				}
				a.ui.Notify(notify.Notification{
					Title:       "Export Successful",
					Description: fmt.Sprintf("Your roadmap data has been exported to %s.", filename),
				})
				return nil
			})
		},
	}
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the roadmap with one read from a JSON file, or stdin with -",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(*opts, func(ctx context.Context, a *app) error {
				var results <-chan storage.FileReadResult
				if args[0] == "-" {
					results = storage.ReadAllAsync(ctx, cmd.InOrStdin())
				} else {
					results = storage.ReadFileAsync(ctx, args[0])
				}
				select {
				case res := <-results:
					if res.Err != nil {
						a.ui.Notify(notify.Notification{
							Title:       "File Read Failed",
							Description: "Could not read the file properly.",
							Severity:    notify.Destructive,
						})
						return res.Err
					}
					return a.store.ImportData(res.Text)
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		},
	}
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show progress statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(*opts, func(ctx context.Context, a *app) error {
				a.ui.StatsView(a.store.Stats(), a.store.MilestoneProgress())
				return nil
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "learnmap", version)
		},
	}
}
