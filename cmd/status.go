package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pr-radar/internal/config"
	"pr-radar/internal/history"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last cycle and the stored snapshot",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	hist, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return fmt.Errorf("opening cycle history: %w", err)
	}
	defer hist.Close()

	last, err := hist.LastCycle()
	if err != nil {
		return fmt.Errorf("reading last cycle: %w", err)
	}

	fmt.Println("=== Last Cycle ===")
	if last == nil {
		fmt.Println("No cycles recorded yet.")
	} else {
		ago := time.Since(last.RanAt).Round(time.Second)
		fmt.Printf("Time:          %s (%s ago)\n", last.RanAt.Format(time.RFC3339), ago)
		fmt.Printf("Authored:      %d\n", last.AuthoredCount)
		fmt.Printf("Review queue:  %d\n", last.ReviewCount)
		fmt.Printf("Notifications: %d\n", last.NotificationsSent)
		if last.DurationMs.Valid {
			fmt.Printf("Duration:      %dms\n", last.DurationMs.Int64)
		}
		if last.ErrorMessage.Valid && last.ErrorMessage.String != "" {
			fmt.Printf("Error:         %s\n", last.ErrorMessage.String)
		}
	}

	snap, err := hist.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}

	fmt.Println()
	fmt.Printf("=== Snapshot ===\n%d tracked PRs\n", len(snap))
	return nil
}
