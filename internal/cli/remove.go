package cli

import (
	"github.com/spf13/cobra"
)

// NewRemoveCmd creates the remove command. purgeDefault makes the same
// implementation serve the purge alias.
func NewRemoveCmd(name string, purgeDefault bool) *cobra.Command {
	var (
		assumeYes       bool
		purge           bool
		autoRemove      bool
		removeEssential bool
	)

	short := "Remove packages"
	if purgeDefault {
		short = "Remove packages including their configuration files"
	}

	cmd := &cobra.Command{
		Use:   name + " PACKAGE...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			eng, err := buildEngine(cfg, append([]string{name}, args...))
			if err != nil {
				return err
			}
			if assumeYes {
				eng.Policy.AssumeYes = true
			}
			if purge || purgeDefault {
				eng.Policy.Purge = true
			}
			if autoRemove {
				eng.Policy.AutoRemove = true
			}
			if removeEssential {
				eng.Policy.AllowEssential = true
				eng.Policy.AllowProtected = true
			}
			return eng.Remove(cmd.Context(), args)
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "assume-yes", "y", false, "Answer yes to the confirmation prompt")
	if !purgeDefault {
		cmd.Flags().BoolVar(&purge, "purge", false, "Also remove configuration files")
	}
	cmd.Flags().BoolVar(&autoRemove, "auto-remove", false, "Also remove orphaned dependencies")
	cmd.Flags().BoolVar(&removeEssential, "remove-essential", false, "Permit removal of essential packages")

	return cmd
}
