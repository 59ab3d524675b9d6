package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-et-stats/internal/log"
	"github.com/pable/go-et-stats/internal/report"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display what the database holds: session, file, map and player counts,
the covered date range, and the most recent sessions.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.Sessions == 0 {
		fmt.Fprintln(os.Stdout, "No sessions stored yet. Run 'etstats import <stats-dir>' to add some.")
		return nil
	}

	var size int64
	if fi, errStat := os.Stat(cfg.Database.Path); errStat == nil {
		size = fi.Size()
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	report.PrintOverview(os.Stdout, ov, size)

	sessions, err := db.ListSessions()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) > 5 {
		sessions = sessions[:5]
	}
	fmt.Fprintf(os.Stdout, "\n--- Recent Sessions ---\n\n")
	report.PrintSessionList(os.Stdout, sessions, time.Now())
	return nil
}
