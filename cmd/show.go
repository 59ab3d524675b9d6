package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-et-stats/internal/aggregator"
	"github.com/pable/go-et-stats/internal/log"
	"github.com/pable/go-et-stats/internal/model"
	"github.com/pable/go-et-stats/internal/report"
	"github.com/pable/go-et-stats/internal/storage"
)

var (
	showPlayer  string
	showBrief   bool
	showWeapons bool
)

var showCmd = &cobra.Command{
	Use:   "show <session-prefix>",
	Short: "Show rosters, map scores and player stats of a stored session",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showPlayer, "player", "", "highlight player GUID")
	showCmd.Flags().BoolVar(&showBrief, "brief", false, "skip the per-map round tables")
	showCmd.Flags().BoolVar(&showWeapons, "weapons", false, "print per-player weapon totals over the session's maps")
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	s, err := db.GetSessionByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("query session: %w", err)
	}
	if s == nil {
		fmt.Fprintf(os.Stderr, "No session found with prefix %q\n", args[0])
		return nil
	}
	if err := showSession(db, s.ID, showPlayer); err != nil {
		return err
	}
	maps, err := db.GetSessionMaps(s.ID)
	if err != nil {
		return fmt.Errorf("get maps: %w", err)
	}

	if showWeapons {
		weapons, names, err := sessionWeapons(db, maps)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "\n--- weapons ---\n\n")
		report.PrintWeaponTable(os.Stdout, weapons, names, showPlayer)
	}
	if showBrief {
		return nil
	}

	for _, m := range maps {
		if err := showMapRounds(db, m); err != nil {
			return err
		}
	}
	return nil
}

// showSession prints the header, rosters, map scores and player totals of one session.
func showSession(db *storage.DB, id, focus string) error {
	s, err := db.GetSessionByPrefix(id)
	if err != nil || s == nil {
		return fmt.Errorf("session not found: %s", id)
	}
	roster, err := db.GetSessionTeams(s.ID)
	if err != nil {
		return fmt.Errorf("get teams: %w", err)
	}
	maps, err := db.GetSessionMaps(s.ID)
	if err != nil {
		return fmt.Errorf("get maps: %w", err)
	}
	players, err := db.GetSessionPlayers(s.ID)
	if err != nil {
		return fmt.Errorf("get players: %w", err)
	}

	report.PrintSessionSummary(os.Stdout, *s)
	report.PrintRoster(os.Stdout, roster)
	if len(maps) > 0 {
		report.PrintMapScores(os.Stdout, maps)
		fmt.Fprintln(os.Stdout)
	}
	report.PrintPlayerTable(os.Stdout, players, focus)
	return nil
}

// showMapRounds prints round 1 as written and the isolated round 2 of one map.
func showMapRounds(db *storage.DB, m model.StoredMap) error {
	r1, err := db.GetPlayerRounds(m.Round1Hash, model.KindRaw)
	if err != nil {
		return fmt.Errorf("get round 1 of %s: %w", m.MapName, err)
	}
	r2, err := db.GetPlayerRounds(m.Round2Hash, model.KindDelta)
	if err != nil {
		return fmt.Errorf("get round 2 of %s: %w", m.MapName, err)
	}
	fmt.Fprintf(os.Stdout, "\n--- %s: round 1 ---\n\n", m.MapName)
	report.PrintRoundTable(os.Stdout, r1)
	fmt.Fprintf(os.Stdout, "\n--- %s: round 2 ---\n\n", m.MapName)
	report.PrintRoundTable(os.Stdout, r2)
	return nil
}

// sessionWeapons sums each player's weapon stats over the isolated rounds of
// the given maps: round 1 as written and the round 2 delta.
func sessionWeapons(db *storage.DB, maps []model.StoredMap) (map[string][]model.WeaponStat, map[string]string, error) {
	var rounds []aggregator.Round
	names := make(map[string]string)
	for _, m := range maps {
		for _, src := range []struct{ hash, kind string }{
			{m.Round1Hash, model.KindRaw},
			{m.Round2Hash, model.KindDelta},
		} {
			rows, err := db.LoadRecords(src.hash, src.kind)
			if err != nil {
				return nil, nil, fmt.Errorf("load %s records of %s: %w", src.kind, m.MapName, err)
			}
			var round aggregator.Round
			for _, r := range rows {
				if !r.Record.Side.Playing() {
					continue
				}
				round.Records = append(round.Records, r.Record)
				if _, ok := names[r.Record.GUID]; !ok || r.Record.Name != "" {
					names[r.Record.GUID] = r.Record.Name
				}
			}
			rounds = append(rounds, round)
		}
	}

	weapons := make(map[string][]model.WeaponStat, len(names))
	for guid := range names {
		if totals := aggregator.WeaponTotals(rounds, guid); len(totals) > 0 {
			weapons[guid] = totals
		}
	}
	return weapons, names, nil
}
