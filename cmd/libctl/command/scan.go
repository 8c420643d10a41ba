package command

import (
	"fmt"
	"time"

	"libmanage/internal/app"

	"github.com/spf13/cobra"
)

var scanAt string

var scanCmd = &cobra.Command{
	Use:   "scan-overdue",
	Short: "Run one overdue reminder scan and exit",
	Long: `Sends due-soon reminders and overdue notices for every open borrowing.
Meant to be run from cron. Repeated runs re-send unless REMINDER_DEDUP is on.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		at := time.Now().UTC()
		if scanAt != "" {
			parsed, err := time.Parse(time.RFC3339, scanAt)
			if err != nil {
				return fmt.Errorf("invalid --at value: %w", err)
			}
			at = parsed.UTC()
		}

		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		a, err := app.Build(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		summary, err := a.Lending.ScanOverdue(cmd.Context(), at)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "reminders=%d overdue=%d suppressed=%d failed=%d\n",
			summary.Reminders, summary.Overdue, summary.Suppressed, summary.Failed)
		if summary.Failed > 0 {
			return fmt.Errorf("%d notifications could not be recorded", summary.Failed)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanAt, "at", "", "scan as of this RFC3339 instant instead of now")
	rootCmd.AddCommand(scanCmd)
}
