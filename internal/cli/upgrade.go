package cli

import (
	"github.com/spf13/cobra"
)

// NewUpgradeCmd creates the upgrade command.
func NewUpgradeCmd() *cobra.Command {
	var (
		assumeYes    bool
		downloadOnly bool
	)

	cmd := &cobra.Command{
		Use:   "upgrade [PACKAGE...]",
		Short: "Upgrade packages",
		Long:  "Upgrade the named packages, or everything upgradable when no names are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			eng, err := buildEngine(cfg, append([]string{"upgrade"}, args...))
			if err != nil {
				return err
			}
			if assumeYes {
				eng.Policy.AssumeYes = true
			}
			if downloadOnly {
				eng.Policy.DownloadOnly = true
			}
			return eng.Upgrade(cmd.Context(), args)
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "assume-yes", "y", false, "Answer yes to the confirmation prompt")
	cmd.Flags().BoolVarP(&downloadOnly, "download-only", "d", false, "Fetch archives but do not install")

	return cmd
}

// NewAutoremoveCmd creates the autoremove command.
func NewAutoremoveCmd() *cobra.Command {
	var (
		assumeYes bool
		purge     bool
	)

	cmd := &cobra.Command{
		Use:   "autoremove",
		Short: "Remove packages that are no longer needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			eng, err := buildEngine(cfg, []string{"autoremove"})
			if err != nil {
				return err
			}
			if assumeYes {
				eng.Policy.AssumeYes = true
			}
			if purge {
				eng.Policy.Purge = true
			}
			return eng.Autoremove(cmd.Context())
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "assume-yes", "y", false, "Answer yes to the confirmation prompt")
	cmd.Flags().BoolVar(&purge, "purge", false, "Also remove configuration files")

	return cmd
}

// NewDownloadCmd creates the download command: fetch archives without
// installing anything. Nothing is written to history.
func NewDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download PACKAGE...",
		Short: "Download package archives without installing them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			eng, err := buildEngine(cfg, append([]string{"download"}, args...))
			if err != nil {
				return err
			}
			eng.Policy.DownloadOnly = true
			eng.Policy.AssumeYes = true
			return eng.Install(cmd.Context(), args)
		},
	}
	return cmd
}
