package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-et-stats/internal/log"
	"github.com/pable/go-et-stats/internal/report"
)

var (
	playerSince    string
	playerTogether bool
	playerHistory  bool
)

// playerCmd aggregates one or more players across stored sessions.
var playerCmd = &cobra.Command{
	Use:   "player <guid> [<guid>...]",
	Short: "Cross-session totals for one or more players",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlayer,
}

func init() {
	playerCmd.Flags().StringVar(&playerSince, "since", "", "only sessions started on or after this date (YYYY-MM-DD)")
	playerCmd.Flags().BoolVar(&playerTogether, "together", false, "only sessions in which all given players played")
	playerCmd.Flags().BoolVar(&playerHistory, "history", false, "print every isolated round of each player")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	var since time.Time
	if playerSince != "" {
		t, err := time.Parse("2006-01-02", playerSince)
		if err != nil {
			return fmt.Errorf("invalid --since %q: %w", playerSince, err)
		}
		since = t
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	quorum := 1
	if playerTogether {
		quorum = len(args)
	}
	refs, err := db.CommonSessions(args, since, quorum)
	if err != nil {
		return fmt.Errorf("query sessions: %w", err)
	}
	if len(refs) == 0 {
		fmt.Fprintln(os.Stderr, "No sessions found for the given players.")
		return nil
	}

	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	totals, err := db.PlayerTotalsFor(args, ids)
	if err != nil {
		return fmt.Errorf("query totals: %w", err)
	}

	fmt.Fprintf(os.Stdout, "\n%d sessions, %s → %s\n\n", len(refs),
		refs[len(refs)-1].StartedAt.Format("2006-01-02"), refs[0].StartedAt.Format("2006-01-02"))
	report.PrintPlayerTotals(os.Stdout, totals)

	if !playerHistory {
		return nil
	}
	for _, guid := range args {
		rows, err := db.GetPlayerHistory(guid)
		if err != nil {
			return fmt.Errorf("query history for %s: %w", guid, err)
		}
		fmt.Fprintf(os.Stdout, "\n--- %s ---\n\n", guid)
		report.PrintPlayerHistory(os.Stdout, rows)
	}
	return nil
}
