// Command logviewer prints the learnmap log files in a readable form and can
// follow them as they grow.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"learnmap/local-app/internal/config"
	"learnmap/local-app/internal/log"
	"learnmap/local-app/internal/logview"
	"learnmap/local-app/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		query      string
		level      string
		color      string
		follow     bool
	)

	cmd := &cobra.Command{
		Use:   "logviewer [log directory]",
		Short: "Show learnmap log records in a compact, colorful format",
		Long: "logviewer reads every *.log file in the log directory (by default the folder named in the configuration) " +
			"and prints its JSON records. With --follow it keeps printing new records until interrupted.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := logDir(configPath, args)
			if err != nil {
				return err
			}
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				return fmt.Errorf("log directory '%s' does not exist", dir)
			}

			minLevel, err := log.ParseLevel(level)
			if err != nil {
				return err
			}
			f := logview.Filter{Query: query, MinLevel: minLevel}
			useColor := ui.ColorEnabled(color, os.Stdout)
			out := cmd.OutOrStdout()

			emit := func(_ string, e logview.Entry) {
				if f.Match(e) {
					fmt.Fprintln(out, logview.Format(e, useColor))
				}
			}
			report := func(err error) {
				fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
			}

			tail := logview.NewTailer(dir)
			if !follow {
				if err := tail.Poll(emit); err != nil {
					report(err)
				}
				return nil
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(out, "Monitoring logs in directory: %s\n", dir)
			return tail.Follow(ctx, emit, report)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "configuration file used to locate the log directory")
	flags.StringVarP(&query, "filter", "q", "", "only show records containing this text")
	flags.StringVarP(&level, "level", "l", "debug", "minimum level to show (debug, info, warn, error)")
	flags.StringVar(&color, "color", "auto", "color output: auto, always or never")
	flags.BoolVarP(&follow, "follow", "f", false, "keep printing new records")

	return cmd
}

// logDir picks the directory argument, or the configured log folder.
func logDir(configPath string, args []string) (string, error) {
	if len(args) == 1 {
		return filepath.Clean(args[0]), nil
	}
	config.SetPath(configPath)
	if err := config.ConfigLoad(); err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}
	return config.ConfigGet().Log.Folder, nil
}
