package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pakt-dev/pakt/internal/summary"
	"github.com/pakt-dev/pakt/pkg/errors"
	"github.com/pakt-dev/pakt/pkg/history"
)

// NewHistoryCmd creates the history command tree. The bare command prints
// the ledger overview; subcommands inspect, replay or delete entries.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show transaction history",
		Long: `Show transaction history.

Running 'pakt history' with no subcommand prints an overview of all
transactions. IDs are contiguous starting at 1; the literal 'last' names
the most recent entry.`,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			entries, err := history.NewStore(cfg.GetHistoryPath()).List()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return errors.ErrNoHistory
			}
			summary.RenderHistory(os.Stdout, entries)
			return nil
		},
	}

	cmd.AddCommand(newHistoryInfoCmd())
	cmd.AddCommand(newHistoryUndoCmd("undo"))
	cmd.AddCommand(newHistoryUndoCmd("redo"))
	cmd.AddCommand(newHistoryClearCmd())
	return cmd
}

func newHistoryInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info ID",
		Short: "Show information about a specific transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store := history.NewStore(cfg.GetHistoryPath())
			id, err := store.ResolveID(args[0])
			if err != nil {
				return err
			}
			entry, err := store.Get(id)
			if err != nil {
				return err
			}
			summary.RenderEntry(os.Stdout, entry)
			return nil
		},
	}
}

func newHistoryUndoCmd(name string) *cobra.Command {
	var assumeYes bool

	short := "Undo a transaction"
	if name == "redo" {
		short = "Redo a transaction"
	}

	cmd := &cobra.Command{
		Use:   name + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			eng, err := buildEngine(cfg, []string{"history", name, args[0]})
			if err != nil {
				return err
			}
			if assumeYes {
				eng.Policy.AssumeYes = true
			}
			if name == "redo" {
				return eng.Redo(cmd.Context(), args[0])
			}
			return eng.Undo(cmd.Context(), args[0])
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "assume-yes", "y", false, "Answer yes to the confirmation prompt")
	return cmd
}

func newHistoryClearCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear [ID]",
		Short: "Clear a transaction or the entire history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store := history.NewStore(cfg.GetHistoryPath())

			if all {
				if err := store.Clear(); err != nil {
					return err
				}
				fmt.Println("History has been cleared")
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("an ID or --all is required: %w", errors.ErrHistoryEntryNotFound)
			}
			id, err := store.ResolveID(args[0])
			if err != nil {
				return err
			}
			if err := store.Delete(id); err != nil {
				return err
			}
			fmt.Println("History has been altered")
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Clear the entire history")
	return cmd
}
