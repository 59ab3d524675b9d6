package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-et-stats/internal/log"
	"github.com/pable/go-et-stats/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored sessions",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	sessions, err := db.ListSessions()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(os.Stdout, "No sessions stored yet. Run 'etstats import <stats-dir>' to add some.")
		return nil
	}

	report.PrintSessionList(os.Stdout, sessions, time.Now())
	return nil
}
