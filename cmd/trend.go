package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-et-stats/internal/log"
	"github.com/pable/go-et-stats/internal/report"
)

var trendCmd = &cobra.Command{
	Use:   "trend <guid>",
	Short: "Chronological per-session performance trend for a player",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrend,
}

func runTrend(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	sessions, err := db.GetPlayerSessions(args[0])
	if err != nil {
		return fmt.Errorf("query sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("no sessions found")
		return nil
	}

	report.PrintTrendTable(os.Stdout, sessions)
	return nil
}
