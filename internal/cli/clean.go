package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pakt-dev/pakt/internal/summary"
	"github.com/pakt-dev/pakt/pkg/cache"
)

// NewCleanCmd creates the clean command.
func NewCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove downloaded package archives",
		Long:  "Remove every cached archive and leftover partial download from the archive directory.",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			result, err := cache.NewManager(cfg.GetArchiveDir(), cfg.GetPartialDir()).Clean()
			if err != nil {
				return err
			}
			if result.FilesRemoved == 0 {
				fmt.Println("Archive cache is already empty")
				return nil
			}
			fmt.Printf("Removed %d file(s), freed %s\n",
				result.FilesRemoved, summary.FormatSize(result.TotalFreed()))
			return nil
		},
	}
}
