package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-et-stats/internal/log"
	"github.com/pable/go-et-stats/internal/model"
	"github.com/pable/go-et-stats/internal/report"
	"github.com/pable/go-et-stats/internal/storage"
)

var (
	roundsPlayer  string
	roundsWeapons bool
)

// roundsCmd shows how round 2 of a map was reconciled.
var roundsCmd = &cobra.Command{
	Use:   "rounds <session-prefix> <map>",
	Short: "Raw round 1, cumulative round 2 and isolated round 2 for one map",
	Args:  cobra.ExactArgs(2),
	RunE:  runRounds,
}

func init() {
	roundsCmd.Flags().StringVar(&roundsPlayer, "player", "", "only show this player GUID")
	roundsCmd.Flags().BoolVar(&roundsWeapons, "weapons", false, "also print per-weapon breakdowns")
}

// filterRounds keeps only the rows of guid, or all rows when guid is empty.
func filterRounds(rows []model.StoredPlayerRound, guid string) []model.StoredPlayerRound {
	if guid == "" {
		return rows
	}
	var out []model.StoredPlayerRound
	for _, r := range rows {
		if r.Record.GUID == guid {
			out = append(out, r)
		}
	}
	return out
}

func runRounds(cmd *cobra.Command, args []string) error {
	prefix, mapName := args[0], strings.ToLower(args[1])

	db, err := openDB()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	s, err := db.GetSessionByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query session: %w", err)
	}
	if s == nil {
		fmt.Fprintf(os.Stderr, "No session found with prefix %q\n", prefix)
		return nil
	}

	maps, err := db.GetSessionMaps(s.ID)
	if err != nil {
		return fmt.Errorf("get maps: %w", err)
	}

	found := false
	for _, m := range maps {
		if strings.ToLower(m.MapName) != mapName {
			continue
		}
		found = true
		fmt.Fprintf(os.Stdout, "\n=== %s at %s: %s ===\n", m.MapName, m.PlayedAt.Format("15:04"), m.Score.Outcome)
		sections := []struct {
			title, hash, kind string
		}{
			{"round 1", m.Round1Hash, model.KindRaw},
			{"round 2 as written (cumulative)", m.Round2Hash, model.KindRaw},
			{"round 2 isolated", m.Round2Hash, model.KindDelta},
		}
		for _, sec := range sections {
			if err := printRoundSection(db, sec.title, sec.hash, sec.kind); err != nil {
				return err
			}
		}
	}
	if !found {
		fmt.Fprintf(os.Stderr, "No scored map %q in session %s\n", args[1], s.ID)
	}
	return nil
}

func printRoundSection(db *storage.DB, title, hash, kind string) error {
	rows, err := db.LoadRecords(hash, kind)
	if err != nil {
		return fmt.Errorf("get %s: %w", title, err)
	}
	rows = filterRounds(rows, roundsPlayer)

	fmt.Fprintf(os.Stdout, "\n--- %s ---\n\n", title)
	report.PrintRoundTable(os.Stdout, rows)

	if roundsWeapons {
		weapons := make(map[string][]model.WeaponStat, len(rows))
		names := make(map[string]string, len(rows))
		for _, r := range rows {
			weapons[r.Record.GUID] = r.Record.Weapons
			names[r.Record.GUID] = r.Record.Name
		}
		fmt.Fprintln(os.Stdout)
		report.PrintWeaponTable(os.Stdout, weapons, names, roundsPlayer)
	}
	return nil
}
