package pipeline

import (
	"time"

	"github.com/pable/go-et-stats/internal/aggregator"
	"github.com/pable/go-et-stats/internal/model"
	"github.com/pable/go-et-stats/internal/teams"
)

// Session is a run of consecutive maps played by the same group of players.
type Session struct {
	ID      string
	Start   time.Time
	End     time.Time
	Files   []*model.RoundFile
	Maps    []*MapPair
	Orphans []Orphan

	Teams    *teams.Result
	TeamsErr error

	Players []model.PlayerSessionStats
}

// IsolatedRounds returns every round of the session with its own stats only:
// round 1 files as written and round 2 files reconciled against their round 1.
// An unpaired round 1 is used as is; an unpaired round 2 is left out since it
// may hold running totals.
func (s *Session) IsolatedRounds() []aggregator.Round {
	var rounds []aggregator.Round
	for _, m := range s.Maps {
		rounds = append(rounds, aggregator.Round{Records: m.Round1.Records})

		delta := aggregator.Round{Clamped: make(map[string]bool)}
		for i := range m.Reconciled.Deltas {
			d := &m.Reconciled.Deltas[i]
			delta.Records = append(delta.Records, d.Record())
			if d.Clamped {
				delta.Clamped[d.GUID] = true
			}
		}
		rounds = append(rounds, delta)
	}
	for _, o := range s.Orphans {
		if o.File.Header.Round == 1 {
			rounds = append(rounds, aggregator.Round{Records: o.File.Records})
		}
	}
	return rounds
}

// TeamTotals sums the attributed map points per roster.
func (s *Session) TeamTotals() model.TeamScore {
	var total model.TeamScore
	for _, m := range s.Maps {
		if m.Attributed {
			total.TeamA += m.TeamScore.TeamA
			total.TeamB += m.TeamScore.TeamB
		}
	}
	return total
}

// GroupSessions splits files into sessions wherever two consecutive files
// are more than gap apart.
func GroupSessions(files []*model.RoundFile, gap time.Duration) []*Session {
	if len(files) == 0 {
		return nil
	}
	sorted := append([]*model.RoundFile(nil), files...)
	sortFiles(sorted)

	var (
		sessions []*Session
		cur      *Session
	)
	for _, f := range sorted {
		if cur == nil || f.Info.PlayedAt.Sub(cur.End) > gap {
			cur = &Session{
				ID:    SessionID(f.Info.PlayedAt),
				Start: f.Info.PlayedAt,
			}
			sessions = append(sessions, cur)
		}
		cur.End = f.Info.PlayedAt
		cur.Files = append(cur.Files, f)
	}
	return sessions
}

// SessionID names a session after the time its first file was written.
func SessionID(start time.Time) string {
	return start.UTC().Format("2006-01-02-150405")
}
