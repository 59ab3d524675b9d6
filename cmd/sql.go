package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-et-stats/internal/log"
	"github.com/pable/go-et-stats/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the stats database",
	Long: `Run an arbitrary SQL query against the stats database and print results as a table.

Schema overview:
  sessions(id, started_at, ended_at, files, roster_status)
  round_files(hash, session_id, path, file_name, played_at, match_date, map_name, round,
    banner, config, defender_side, winner_side, time_limit_s, actual_time_s, line_errors)
  player_rounds(file_hash, guid, kind, name, side, clamped, clamped_fields, kills, deaths,
    headshots, damage_given, damage_received, gibs, xp, time_played_minutes, ...)
  player_weapons(file_hash, guid, kind, weapon, hits, shots, kills, deaths, headshots)
  session_teams(session_id, guid, team)
  session_unresolved(session_id, guid, rounds)
  session_players(session_id, guid, name, team, rounds, kills, deaths, damage_given, minutes, ...)
  map_scores(round1_hash, round2_hash, session_id, map_name, outcome, r1_attacker,
    r1_points, r2_points, attributed, round1_team, team_a_points, team_b_points, ...)

kind is 'raw' for a file as written and 'delta' for an isolated round 2.
Sides: 1 = axis, 2 = allies.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	report.PrintQueryResult(cmd.OutOrStdout(), cols, rows)
	return nil
}
