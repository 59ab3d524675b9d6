package storage

import (
	"fmt"
	"time"

	"github.com/pable/go-et-stats/internal/model"
)

// SessionRef is a session in which a group of players appeared together.
type SessionRef struct {
	ID        string
	StartedAt time.Time
	Present   int // how many of the requested GUIDs played
}

func guidArgs(guids []string, extra ...any) []any {
	args := make([]any, 0, len(guids)+len(extra))
	for _, g := range guids {
		args = append(args, g)
	}
	return append(args, extra...)
}

// CommonSessions returns sessions started at or after since in which at least
// quorum of the given GUIDs played, newest first.
func (db *DB) CommonSessions(guids []string, since time.Time, quorum int) ([]SessionRef, error) {
	if len(guids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT s.id, s.started_at, COUNT(DISTINCT p.guid)
		FROM sessions s
		JOIN session_players p ON p.session_id = s.id
		WHERE p.guid IN (%s)
		  AND s.started_at >= ?
		GROUP BY s.id
		HAVING COUNT(DISTINCT p.guid) >= ?
		ORDER BY s.started_at DESC`,
		placeholders(len(guids)))

	rows, err := db.conn.Query(query, guidArgs(guids, formatTime(since), quorum)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionRef
	for rows.Next() {
		var r SessionRef
		var started string
		if err := rows.Scan(&r.ID, &started, &r.Present); err != nil {
			return nil, err
		}
		r.StartedAt = parseTime(started)
		out = append(out, r)
	}
	return out, rows.Err()
}

// PlayerTotalsFor sums session_players for each GUID over the given sessions.
// Players with no rows are omitted. The name is the one from the newest session.
func (db *DB) PlayerTotalsFor(guids, sessionIDs []string) ([]model.PlayerTotals, error) {
	if len(guids) == 0 || len(sessionIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT p.guid,
		       (SELECT p2.name FROM session_players p2 JOIN sessions s2 ON s2.id = p2.session_id
		        WHERE p2.guid = p.guid ORDER BY s2.started_at DESC LIMIT 1),
		       COUNT(DISTINCT p.session_id),
		       SUM(p.rounds), SUM(p.kills), SUM(p.deaths), SUM(p.headshots),
		       SUM(p.damage_given), SUM(p.minutes)
		FROM session_players p
		WHERE p.guid IN (%s)
		  AND p.session_id IN (%s)
		GROUP BY p.guid
		ORDER BY SUM(p.kills) DESC, p.guid`,
		placeholders(len(guids)), placeholders(len(sessionIDs)))

	args := guidArgs(guids)
	for _, id := range sessionIDs {
		args = append(args, id)
	}
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerTotals
	for rows.Next() {
		var p model.PlayerTotals
		if err := rows.Scan(&p.GUID, &p.Name, &p.Sessions, &p.Rounds, &p.Kills, &p.Deaths,
			&p.Headshots, &p.DamageGiven, &p.Minutes); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteSession removes a session with all of its files and derived rows.
func (db *DB) DeleteSession(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		"DELETE FROM player_weapons WHERE file_hash IN (SELECT hash FROM round_files WHERE session_id = ?)",
		"DELETE FROM player_rounds WHERE file_hash IN (SELECT hash FROM round_files WHERE session_id = ?)",
		"DELETE FROM round_files WHERE session_id = ?",
		"DELETE FROM session_teams WHERE session_id = ?",
		"DELETE FROM session_unresolved WHERE session_id = ?",
		"DELETE FROM session_players WHERE session_id = ?",
		"DELETE FROM map_scores WHERE session_id = ?",
		"DELETE FROM sessions WHERE id = ?",
	}
	for _, q := range stmts {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("delete session %s: %w", id, err)
		}
	}
	return tx.Commit()
}
