package cli

import (
	"github.com/spf13/cobra"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var (
		assumeYes            bool
		downloadOnly         bool
		allowUnauthenticated bool
		autoRemove           bool
	)

	cmd := &cobra.Command{
		Use:   "install PACKAGE...",
		Short: "Install packages",
		Long: `Install one or more packages or local package files.
The native resolver computes the transaction; archives are fetched
concurrently before the native tool applies the change.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			eng, err := buildEngine(cfg, append([]string{"install"}, args...))
			if err != nil {
				return err
			}
			if assumeYes {
				eng.Policy.AssumeYes = true
			}
			if downloadOnly {
				eng.Policy.DownloadOnly = true
			}
			if allowUnauthenticated {
				eng.Policy.AllowUnauthenticated = true
			}
			if autoRemove {
				eng.Policy.AutoRemove = true
			}
			return eng.Install(cmd.Context(), args)
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "assume-yes", "y", false, "Answer yes to the confirmation prompt")
	cmd.Flags().BoolVarP(&downloadOnly, "download-only", "d", false, "Fetch archives but do not install")
	cmd.Flags().BoolVar(&allowUnauthenticated, "allow-unauthenticated", false, "Permit packages from unsigned sources")
	cmd.Flags().BoolVar(&autoRemove, "auto-remove", false, "Also remove orphaned dependencies")

	return cmd
}
