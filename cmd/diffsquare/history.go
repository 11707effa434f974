package diffsquare

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/diffsquare/diffsquare/internal/audit"
	"github.com/diffsquare/diffsquare/internal/cache"
	"github.com/diffsquare/diffsquare/internal/prompt"
	"github.com/diffsquare/diffsquare/internal/report"
)

func init() {
	var limit int
	var wipe, yes bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear the run history",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			dir, err := cache.Dir(current.cacheDir)
			if err != nil {
				return err
			}
			log := audit.NewAuditLog(dir)

			if wipe {
				if !yes {
					if !isTerminal(os.Stdin) {
						return errors.New("refusing to clear history without --yes")
					}
					ok, err := prompt.Confirm("Clear run history at " + log.Path())
					if err != nil {
						return promptErr(err)
					}
					if !ok {
						return nil
					}
				}
				if err := log.Clear(); err != nil {
					return err
				}
				fmt.Println("History cleared")
				return nil
			}

			records, err := log.LoadHistory()
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}
			if current.format == report.FormatJSON {
				return report.PrintHistoryJSON(os.Stdout, records)
			}
			report.PrintHistory(os.Stdout, records)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most this many runs (0 = all)")
	cmd.Flags().BoolVar(&wipe, "clear", false, "delete the run history")
	cmd.Flags().BoolVar(&yes, "yes", false, "do not ask before clearing")
	rootCmd.AddCommand(cmd)
}
