package diffsquare

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diffsquare/diffsquare/internal/update"
)

func init() {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			exe, _ := os.Executable()
			fmt.Printf("diffsquare v%s (%s)\n", version, exe)
			if !current.updateCheck {
				return
			}
			if latest, newer, _ := update.Check(version, false); newer {
				fmt.Printf("new version available: v%s  run 'diffsquare update' to upgrade\n", latest)
			}
		},
	}
	rootCmd.AddCommand(versionCmd)

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update diffsquare to the latest release",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			v, err := update.SelfUpdate(version)
			if err != nil {
				return fmt.Errorf("update failed: %w", err)
			}
			if v == version {
				fmt.Printf("diffsquare v%s is already the latest\n", version)
				return nil
			}
			fmt.Printf("updated to v%s\n", v)
			return nil
		},
	}
	rootCmd.AddCommand(updateCmd)
}
