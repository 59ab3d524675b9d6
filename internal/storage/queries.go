package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pable/go-et-stats/internal/model"
	"github.com/pable/go-et-stats/internal/pipeline"
)

// FileExists returns true if a round file with the given hash is already stored.
func (db *DB) FileExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM round_files WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// StoreSession writes a processed session in one transaction. Re-storing the
// same files replaces their rows, so imports are idempotent. Sessions that are
// left without files afterwards (because files were regrouped) are removed.
func (db *DB) StoreSession(ctx context.Context, s *pipeline.Session) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"session_teams", "session_unresolved", "session_players", "map_scores"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE session_id = ?", s.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	rosterStatus := "resolved"
	if s.TeamsErr != nil {
		rosterStatus = s.TeamsErr.Error()
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO sessions(id, started_at, ended_at, files, roster_status)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID, formatTime(s.Start), formatTime(s.End), len(s.Files), rosterStatus,
	); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	w, err := newRoundWriter(ctx, tx)
	if err != nil {
		return err
	}
	defer w.close()

	for _, f := range s.Files {
		if err := w.file(s.ID, f); err != nil {
			return err
		}
	}
	for _, m := range s.Maps {
		for i := range m.Reconciled.Deltas {
			d := &m.Reconciled.Deltas[i]
			r := d.Record()
			if err := w.record(m.Round2.Hash, model.KindDelta, &r, d.Clamped, d.ClampedFields); err != nil {
				return err
			}
		}
	}

	if err := insertMapScores(ctx, tx, s); err != nil {
		return err
	}
	if err := insertRosters(ctx, tx, s); err != nil {
		return err
	}
	if err := insertSessionPlayers(ctx, tx, s.Players); err != nil {
		return err
	}
	if err := pruneSessions(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

type roundWriter struct {
	ctx         context.Context
	tx          *sql.Tx
	fileStmt    *sql.Stmt
	roundStmt   *sql.Stmt
	weaponStmt  *sql.Stmt
	clearRounds *sql.Stmt
	clearWeapon *sql.Stmt
}

func newRoundWriter(ctx context.Context, tx *sql.Tx) (*roundWriter, error) {
	w := &roundWriter{ctx: ctx, tx: tx}
	var err error
	if w.fileStmt, err = tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO round_files(
			hash, session_id, path, file_name, played_at, match_date, map_name, round,
			banner, config, defender_side, winner_side, time_limit_s, actual_time_s, line_errors
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`); err != nil {
		return nil, fmt.Errorf("prepare round_files: %w", err)
	}
	if w.roundStmt, err = tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT OR REPLACE INTO player_rounds(
			file_hash, guid, kind, name, side, rounds_played, clamped, clamped_fields,
			kills, deaths, headshots, %s
		) VALUES (%s)`, extendedColumns, placeholders(11+len(model.ExtendedFields)))); err != nil {
		w.close()
		return nil, fmt.Errorf("prepare player_rounds: %w", err)
	}
	if w.weaponStmt, err = tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO player_weapons(file_hash, guid, kind, weapon, hits, shots, kills, deaths, headshots)
		VALUES (?,?,?,?,?,?,?,?,?)`); err != nil {
		w.close()
		return nil, fmt.Errorf("prepare player_weapons: %w", err)
	}
	if w.clearRounds, err = tx.PrepareContext(ctx, "DELETE FROM player_rounds WHERE file_hash = ?"); err != nil {
		w.close()
		return nil, err
	}
	if w.clearWeapon, err = tx.PrepareContext(ctx, "DELETE FROM player_weapons WHERE file_hash = ?"); err != nil {
		w.close()
		return nil, err
	}
	return w, nil
}

func (w *roundWriter) close() {
	for _, stmt := range []*sql.Stmt{w.fileStmt, w.roundStmt, w.weaponStmt, w.clearRounds, w.clearWeapon} {
		if stmt != nil {
			stmt.Close()
		}
	}
}

func (w *roundWriter) file(sessionID string, f *model.RoundFile) error {
	if _, err := w.clearRounds.ExecContext(w.ctx, f.Hash); err != nil {
		return fmt.Errorf("clear player_rounds for %s: %w", f.Info.Name, err)
	}
	if _, err := w.clearWeapon.ExecContext(w.ctx, f.Hash); err != nil {
		return fmt.Errorf("clear player_weapons for %s: %w", f.Info.Name, err)
	}

	h := f.Header
	if _, err := w.fileStmt.ExecContext(w.ctx,
		f.Hash, sessionID, f.Path, f.Info.Name, formatTime(f.Info.PlayedAt), f.Info.Date, h.MapName, h.Round,
		h.Banner, h.ConfigName, int(h.DefenderSide), int(h.WinnerSide),
		seconds(h.TimeLimit), seconds(h.ActualTime), len(f.LineErrors),
	); err != nil {
		return fmt.Errorf("insert round_files for %s: %w", f.Info.Name, err)
	}

	for i := range f.Records {
		if err := w.record(f.Hash, model.KindRaw, &f.Records[i], false, nil); err != nil {
			return err
		}
	}
	return nil
}

func (w *roundWriter) record(hash, kind string, r *model.RoundRecord, clamped bool, clampedFields []string) error {
	args := []any{
		hash, r.GUID, kind, r.Name, int(r.Side), r.RoundsPlayed,
		boolInt(clamped), strings.Join(clampedFields, ","),
		r.Kills(), r.Deaths(), r.Headshots(),
	}
	args = append(args, r.Extended.Values()...)
	if _, err := w.roundStmt.ExecContext(w.ctx, args...); err != nil {
		return fmt.Errorf("insert player_rounds for %s/%s: %w", r.GUID, kind, err)
	}

	for _, ws := range r.Weapons {
		if _, err := w.weaponStmt.ExecContext(w.ctx,
			hash, r.GUID, kind, int(ws.Weapon), ws.Hits, ws.Shots, ws.Kills, ws.Deaths, ws.Headshots,
		); err != nil {
			return fmt.Errorf("insert player_weapons for %s/%s: %w", r.GUID, ws.Weapon, err)
		}
	}
	return nil
}

func insertMapScores(ctx context.Context, tx *sql.Tx, s *pipeline.Session) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO map_scores(
			round1_hash, round2_hash, session_id, map_name, played_at, outcome,
			r1_attacker, r2_attacker, r1_completed, r2_completed,
			r1_elapsed_s, r2_elapsed_s, r1_limit_s, r2_limit_s, r1_points, r2_points,
			attributed, round1_team, team_a_points, team_b_points
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range s.Maps {
		if m.ScoreErr != nil {
			continue
		}
		sc := m.Score
		if _, err := stmt.ExecContext(ctx,
			m.Round1.Hash, m.Round2.Hash, s.ID, m.MapName(), formatTime(m.Round1.Info.PlayedAt), sc.Outcome.String(),
			int(sc.Round1Attacker), int(sc.Round2Attacker), boolInt(sc.Round1.Completed), boolInt(sc.Round2.Completed),
			seconds(sc.Round1.Elapsed), seconds(sc.Round2.Elapsed), seconds(sc.Round1.TimeLimit), seconds(sc.Round2.TimeLimit),
			sc.Round1AttackerPoints, sc.Round2AttackerPoints,
			boolInt(m.Attributed), string(m.Round1TeamID), m.TeamScore.TeamA, m.TeamScore.TeamB,
		); err != nil {
			return fmt.Errorf("insert map_scores for %s: %w", m.MapName(), err)
		}
	}
	return nil
}

func insertRosters(ctx context.Context, tx *sql.Tx, s *pipeline.Session) error {
	if s.Teams == nil {
		return nil
	}
	if s.TeamsErr == nil {
		for _, team := range []model.Team{s.Teams.TeamA, s.Teams.TeamB} {
			for _, guid := range team.Members {
				if _, err := tx.ExecContext(ctx,
					"INSERT OR REPLACE INTO session_teams(session_id, guid, team) VALUES (?, ?, ?)",
					s.ID, guid, string(team.ID)); err != nil {
					return fmt.Errorf("insert session_teams: %w", err)
				}
			}
		}
	}
	for _, u := range s.Teams.Unresolved {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO session_unresolved(session_id, guid, rounds) VALUES (?, ?, ?)",
			s.ID, u.GUID, u.Rounds); err != nil {
			return fmt.Errorf("insert session_unresolved: %w", err)
		}
	}
	return nil
}

func insertSessionPlayers(ctx context.Context, tx *sql.Tx, players []model.PlayerSessionStats) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO session_players(
			session_id, guid, name, team, rounds, kills, deaths, headshots, hits, shots,
			damage_given, damage_received, team_damage_given, gibs, xp, kill_assists,
			revives_given, times_revived, objectives, dynamites, minutes, clamped_rounds
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range players {
		if _, err := stmt.ExecContext(ctx,
			p.SessionID, p.GUID, p.Name, string(p.Team), p.Rounds, p.Kills, p.Deaths, p.Headshots, p.Hits, p.Shots,
			p.DamageGiven, p.DamageReceived, p.TeamDamageGiven, p.Gibs, p.XP, p.KillAssists,
			p.RevivesGiven, p.TimesRevived, p.Objectives, p.Dynamites, p.Minutes, p.ClampedRounds,
		); err != nil {
			return fmt.Errorf("insert session_players for %s: %w", p.GUID, err)
		}
	}
	return nil
}

func pruneSessions(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM sessions WHERE id NOT IN (SELECT DISTINCT session_id FROM round_files)"); err != nil {
		return fmt.Errorf("prune sessions: %w", err)
	}
	for _, table := range []string{"session_teams", "session_unresolved", "session_players", "map_scores"} {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE session_id NOT IN (SELECT id FROM sessions)"); err != nil {
			return fmt.Errorf("prune %s: %w", table, err)
		}
	}
	return nil
}

const sessionSelect = `
	SELECT s.id, s.started_at, s.ended_at, s.files, s.roster_status,
	       (SELECT COUNT(1) FROM map_scores m WHERE m.session_id = s.id),
	       (SELECT COUNT(1) FROM session_players p WHERE p.session_id = s.id),
	       (SELECT COALESCE(SUM(m.team_a_points), 0) FROM map_scores m WHERE m.session_id = s.id AND m.attributed = 1),
	       (SELECT COALESCE(SUM(m.team_b_points), 0) FROM map_scores m WHERE m.session_id = s.id AND m.attributed = 1)
	FROM sessions s`

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (model.SessionSummary, error) {
	var s model.SessionSummary
	var started, ended string
	err := row.Scan(&s.ID, &started, &ended, &s.Files, &s.RosterStatus,
		&s.Maps, &s.Players, &s.TeamAPoints, &s.TeamBPoints)
	s.StartedAt = parseTime(started)
	s.EndedAt = parseTime(ended)
	return s, err
}

// ListSessions returns all stored sessions, newest first.
func (db *DB) ListSessions() ([]model.SessionSummary, error) {
	rows, err := db.conn.Query(sessionSelect + " ORDER BY s.started_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SessionSummary
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetSessionByPrefix finds the newest session whose id starts with the given prefix.
func (db *DB) GetSessionByPrefix(prefix string) (*model.SessionSummary, error) {
	s, err := scanSession(db.conn.QueryRow(sessionSelect+" WHERE s.id LIKE ? ORDER BY s.started_at DESC LIMIT 1", prefix+"%"))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSessionMaps returns the scored maps of a session in play order.
func (db *DB) GetSessionMaps(sessionID string) ([]model.StoredMap, error) {
	rows, err := db.conn.Query(`
		SELECT round1_hash, round2_hash, map_name, played_at, outcome,
		       r1_attacker, r2_attacker, r1_completed, r2_completed,
		       r1_elapsed_s, r2_elapsed_s, r1_limit_s, r2_limit_s, r1_points, r2_points,
		       attributed, round1_team, team_a_points, team_b_points
		FROM map_scores WHERE session_id = ?
		ORDER BY played_at`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.StoredMap
	for rows.Next() {
		m := model.StoredMap{SessionID: sessionID}
		var (
			playedAt, outcome, team              string
			r1Att, r2Att, r1Done, r2Done, attrib int
			r1El, r2El, r1Lim, r2Lim             float64
		)
		if err := rows.Scan(&m.Round1Hash, &m.Round2Hash, &m.MapName, &playedAt, &outcome,
			&r1Att, &r2Att, &r1Done, &r2Done,
			&r1El, &r2El, &r1Lim, &r2Lim, &m.Score.Round1AttackerPoints, &m.Score.Round2AttackerPoints,
			&attrib, &team, &m.TeamScore.TeamA, &m.TeamScore.TeamB,
		); err != nil {
			return nil, err
		}
		m.PlayedAt = parseTime(playedAt)
		m.Score.Outcome = parseOutcome(outcome)
		m.Score.Tie = m.Score.Outcome == model.OutcomeTie
		m.Score.Round1Attacker = model.Side(r1Att)
		m.Score.Round2Attacker = model.Side(r2Att)
		m.Score.Round1 = model.RoundOutcome{Round: 1, Attacker: m.Score.Round1Attacker,
			Completed: r1Done != 0, Elapsed: duration(r1El), TimeLimit: duration(r1Lim)}
		m.Score.Round2 = model.RoundOutcome{Round: 2, Attacker: m.Score.Round2Attacker,
			Completed: r2Done != 0, Elapsed: duration(r2El), TimeLimit: duration(r2Lim)}
		m.Attributed = attrib != 0
		m.Round1Team = model.TeamID(team)
		out = append(out, m)
	}
	return out, rows.Err()
}

func parseOutcome(s string) model.ScoreOutcome {
	for _, o := range []model.ScoreOutcome{model.Round1AttackersWin, model.Round2AttackersWin, model.OutcomeTie} {
		if o.String() == s {
			return o
		}
	}
	return model.OutcomeTie
}

// GetSessionTeams returns the resolved rosters and unresolved players of a session.
func (db *DB) GetSessionTeams(sessionID string) (*model.SessionRoster, error) {
	rows, err := db.conn.Query(`
		SELECT t.guid, t.team, COALESCE(p.name, '')
		FROM session_teams t
		LEFT JOIN session_players p ON p.session_id = t.session_id AND p.guid = t.guid
		WHERE t.session_id = ?
		ORDER BY t.guid`, sessionID)
	if err != nil {
		return nil, err
	}

	var roster model.SessionRoster
	for rows.Next() {
		var e model.RosterEntry
		var team string
		if err := rows.Scan(&e.GUID, &team, &e.Name); err != nil {
			rows.Close()
			return nil, err
		}
		if model.TeamID(team) == model.TeamA {
			roster.TeamA = append(roster.TeamA, e)
		} else {
			roster.TeamB = append(roster.TeamB, e)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	urows, err := db.conn.Query(`
		SELECT guid, rounds FROM session_unresolved WHERE session_id = ? ORDER BY guid`, sessionID)
	if err != nil {
		return nil, err
	}
	defer urows.Close()
	for urows.Next() {
		var u model.UnresolvedPlayer
		if err := urows.Scan(&u.GUID, &u.Rounds); err != nil {
			return nil, err
		}
		roster.Unresolved = append(roster.Unresolved, u)
	}
	return &roster, urows.Err()
}

// GetSessionPlayers returns the per-player totals of a session, Team A first.
func (db *DB) GetSessionPlayers(sessionID string) ([]model.PlayerSessionStats, error) {
	rows, err := db.conn.Query(`
		SELECT guid, name, team, rounds, kills, deaths, headshots, hits, shots,
		       damage_given, damage_received, team_damage_given, gibs, xp, kill_assists,
		       revives_given, times_revived, objectives, dynamites, minutes, clamped_rounds
		FROM session_players WHERE session_id = ?
		ORDER BY CASE team WHEN 'A' THEN 0 WHEN 'B' THEN 1 ELSE 2 END, kills DESC, guid`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerSessionStats
	for rows.Next() {
		p := model.PlayerSessionStats{SessionID: sessionID}
		var team string
		if err := rows.Scan(&p.GUID, &p.Name, &team, &p.Rounds, &p.Kills, &p.Deaths, &p.Headshots, &p.Hits, &p.Shots,
			&p.DamageGiven, &p.DamageReceived, &p.TeamDamageGiven, &p.Gibs, &p.XP, &p.KillAssists,
			&p.RevivesGiven, &p.TimesRevived, &p.Objectives, &p.Dynamites, &p.Minutes, &p.ClampedRounds,
		); err != nil {
			return nil, err
		}
		p.Team = model.TeamID(team)
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPlayerRounds returns every player row of one kind for a file, ordered by GUID.
// Weapons are not loaded; see GetPlayerWeapons.
func (db *DB) GetPlayerRounds(fileHash, kind string) ([]model.StoredPlayerRound, error) {
	rows, err := db.conn.Query(fmt.Sprintf(`
		SELECT guid, name, side, rounds_played, clamped, clamped_fields, %s
		FROM player_rounds WHERE file_hash = ? AND kind = ?
		ORDER BY guid`, extendedColumns), fileHash, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.StoredPlayerRound
	for rows.Next() {
		pr := model.StoredPlayerRound{FileHash: fileHash, Kind: kind}
		var side, clamped int
		var fields string
		dest := []any{&pr.Record.GUID, &pr.Record.Name, &side, &pr.Record.RoundsPlayed, &clamped, &fields}
		dest = append(dest, pr.Record.Extended.Pointers()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		pr.Record.Side = model.Side(side)
		pr.Clamped = clamped != 0
		if fields != "" {
			pr.ClampedFields = strings.Split(fields, ",")
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

// GetPlayerWeapons returns guid -> weapon stats for a file, in weapon id order.
func (db *DB) GetPlayerWeapons(fileHash, kind string) (map[string][]model.WeaponStat, error) {
	rows, err := db.conn.Query(`
		SELECT guid, weapon, hits, shots, kills, deaths, headshots
		FROM player_weapons WHERE file_hash = ? AND kind = ?
		ORDER BY guid, weapon`, fileHash, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]model.WeaponStat)
	for rows.Next() {
		var guid string
		var w model.WeaponStat
		var weapon int
		if err := rows.Scan(&guid, &weapon, &w.Hits, &w.Shots, &w.Kills, &w.Deaths, &w.Headshots); err != nil {
			return nil, err
		}
		w.Weapon = model.WeaponID(weapon)
		out[guid] = append(out[guid], w)
	}
	return out, rows.Err()
}

// LoadRecords returns the full records (with weapons) of one kind for a file.
func (db *DB) LoadRecords(fileHash, kind string) ([]model.StoredPlayerRound, error) {
	rounds, err := db.GetPlayerRounds(fileHash, kind)
	if err != nil {
		return nil, err
	}
	weapons, err := db.GetPlayerWeapons(fileHash, kind)
	if err != nil {
		return nil, err
	}
	for i := range rounds {
		rounds[i].Record.Weapons = weapons[rounds[i].Record.GUID]
	}
	return rounds, nil
}

// GetPlayerHistory returns every isolated round of a player: round 1 files as
// written and reconciled round 2 deltas, oldest first.
func (db *DB) GetPlayerHistory(guid string) ([]model.PlayerHistoryRow, error) {
	rows, err := db.conn.Query(`
		SELECT f.session_id, pr.file_hash, f.map_name, f.played_at, f.round, pr.name, pr.side,
		       COALESCE(t.team, ''), pr.kills, pr.deaths, pr.headshots, pr.damage_given, pr.time_played_minutes
		FROM player_rounds pr
		JOIN round_files f ON f.hash = pr.file_hash
		LEFT JOIN session_teams t ON t.session_id = f.session_id AND t.guid = pr.guid
		WHERE pr.guid = ?
		  AND ((pr.kind = 'raw' AND f.round = 1) OR pr.kind = 'delta')
		ORDER BY f.played_at`, guid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerHistoryRow
	for rows.Next() {
		var h model.PlayerHistoryRow
		var playedAt, team string
		var side int
		if err := rows.Scan(&h.SessionID, &h.FileHash, &h.MapName, &playedAt, &h.Round, &h.Name, &side,
			&team, &h.Kills, &h.Deaths, &h.Headshots, &h.Damage, &h.Minutes); err != nil {
			return nil, err
		}
		h.PlayedAt = parseTime(playedAt)
		h.Side = model.Side(side)
		h.Team = model.TeamID(team)
		out = append(out, h)
	}
	return out, rows.Err()
}

// GetOverview counts what the database holds.
func (db *DB) GetOverview() (model.Overview, error) {
	var o model.Overview
	var first, last sql.NullString
	err := db.conn.QueryRow(`
		SELECT (SELECT COUNT(1) FROM sessions),
		       (SELECT COUNT(1) FROM round_files),
		       (SELECT COUNT(1) FROM map_scores),
		       (SELECT COUNT(DISTINCT guid) FROM player_rounds),
		       (SELECT COUNT(1) FROM player_rounds),
		       (SELECT MIN(played_at) FROM round_files),
		       (SELECT MAX(played_at) FROM round_files)`).
		Scan(&o.Sessions, &o.Files, &o.Maps, &o.Players, &o.Rows, &first, &last)
	if err != nil {
		return o, err
	}
	o.First = parseTime(first.String)
	o.Last = parseTime(last.String)
	return o, nil
}

// QueryRaw runs an arbitrary query and returns its column names and rows as strings.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

// GetPlayerSessions returns a player's per-session totals, oldest session first.
func (db *DB) GetPlayerSessions(guid string) ([]model.PlayerSessionStats, error) {
	rows, err := db.conn.Query(`
		SELECT p.session_id, p.name, p.team, p.rounds, p.kills, p.deaths, p.headshots, p.hits, p.shots,
		       p.damage_given, p.damage_received, p.gibs, p.xp, p.revives_given, p.minutes, p.clamped_rounds
		FROM session_players p
		JOIN sessions s ON s.id = p.session_id
		WHERE p.guid = ?
		ORDER BY s.started_at`, guid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerSessionStats
	for rows.Next() {
		p := model.PlayerSessionStats{GUID: guid}
		var team string
		if err := rows.Scan(&p.SessionID, &p.Name, &team, &p.Rounds, &p.Kills, &p.Deaths, &p.Headshots,
			&p.Hits, &p.Shots, &p.DamageGiven, &p.DamageReceived, &p.Gibs, &p.XP, &p.RevivesGiven,
			&p.Minutes, &p.ClampedRounds); err != nil {
			return nil, err
		}
		p.Team = model.TeamID(team)
		out = append(out, p)
	}
	return out, rows.Err()
}
