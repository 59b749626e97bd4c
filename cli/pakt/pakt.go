package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pakt-dev/pakt/internal/cli"
	"github.com/pakt-dev/pakt/internal/logger"
)

var (
	configPath string
	verbose    bool
	noColor    bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Remember which signal arrived so the exit code can carry it.
	received := make(chan os.Signal, 1)
	signal.Notify(received, os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		select {
		case sig := <-received:
			os.Exit(128 + int(sig.(syscall.Signal)))
		default:
			os.Exit(1)
		}
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pakt",
		Short: "A fast transactional front-end for the system package manager",
		Long: `pakt wraps the native package tool with parallel downloads,
clear transaction summaries and a history ledger with undo/redo.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			level := "info"
			if verbose {
				level = "debug"
			}
			logger.InitLogger(level)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.NoColor = &noColor

	cmd.AddCommand(cli.NewInstallCmd())
	cmd.AddCommand(cli.NewRemoveCmd("remove", false))
	cmd.AddCommand(cli.NewRemoveCmd("purge", true))
	cmd.AddCommand(cli.NewUpgradeCmd())
	cmd.AddCommand(cli.NewAutoremoveCmd())
	cmd.AddCommand(cli.NewDownloadCmd())
	cmd.AddCommand(cli.NewHistoryCmd())
	cmd.AddCommand(cli.NewCleanCmd())
	cmd.AddCommand(cli.NewVersionCmd())

	return cmd
}
