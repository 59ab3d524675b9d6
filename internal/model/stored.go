package model

import "time"

// PlayerSessionStats is one player's isolated per-round stats summed over a session.
type PlayerSessionStats struct {
	SessionID string
	GUID      string
	Name      string
	Team      TeamID // empty when unresolved

	Rounds          int
	Kills           int
	Deaths          int
	Headshots       int
	Hits            int
	Shots           int
	DamageGiven     int
	DamageReceived  int
	TeamDamageGiven int
	Gibs            int
	XP              int
	KillAssists     int
	RevivesGiven    int
	TimesRevived    int
	Objectives      int // stolen + returned
	Dynamites       int // planted + defused
	Minutes         float64
	ClampedRounds   int
}

func (p PlayerSessionStats) KD() float64 {
	if p.Deaths == 0 {
		return float64(p.Kills)
	}
	return float64(p.Kills) / float64(p.Deaths)
}

func (p PlayerSessionStats) DPM() float64 {
	if p.Minutes <= 0 {
		return 0
	}
	return float64(p.DamageGiven) / p.Minutes
}

// Accuracy is hits/shots in percent.
func (p PlayerSessionStats) Accuracy() float64 {
	if p.Shots == 0 {
		return 0
	}
	return 100 * float64(p.Hits) / float64(p.Shots)
}

// HSRate is headshot kills per kill in percent.
func (p PlayerSessionStats) HSRate() float64 {
	if p.Kills == 0 {
		return 0
	}
	return 100 * float64(p.Headshots) / float64(p.Kills)
}

// SessionSummary is a stored session as listed by the CLI.
type SessionSummary struct {
	ID           string
	StartedAt    time.Time
	EndedAt      time.Time
	Files        int
	Maps         int
	Players      int
	RosterStatus string // "resolved" or the resolver error
	TeamAPoints  int
	TeamBPoints  int
}

// StoredMap is a stored map score with both raw round outcomes.
type StoredMap struct {
	SessionID  string
	MapName    string
	PlayedAt   time.Time
	Round1Hash string
	Round2Hash string
	Score      MatchScore
	Attributed bool
	Round1Team TeamID
	TeamScore  TeamScore
}

// RosterEntry is a roster member with the last name seen for the GUID.
type RosterEntry struct {
	GUID string
	Name string
}

// SessionRoster is the stored team resolution of one session.
type SessionRoster struct {
	TeamA      []RosterEntry
	TeamB      []RosterEntry
	Unresolved []UnresolvedPlayer
}

// Row kinds in player_rounds.
const (
	KindRaw   = "raw"
	KindDelta = "delta"
)

// StoredPlayerRound is one row of player_rounds.
type StoredPlayerRound struct {
	FileHash      string
	Kind          string
	Record        RoundRecord
	Clamped       bool
	ClampedFields []string
}

// PlayerHistoryRow is one isolated round of one player.
type PlayerHistoryRow struct {
	SessionID string
	FileHash  string
	MapName   string
	PlayedAt  time.Time
	Round     int
	Name      string
	Side      Side
	Team      TeamID
	Kills     int
	Deaths    int
	Headshots int
	Damage    int
	Minutes   float64
}

// Overview summarises the whole database.
type Overview struct {
	Sessions int
	Files    int
	Maps     int
	Players  int
	Rows     int
	First    time.Time
	Last     time.Time
}

// PlayerTotals is one player's stats summed across several sessions.
type PlayerTotals struct {
	GUID        string
	Name        string
	Sessions    int
	Rounds      int
	Kills       int
	Deaths      int
	Headshots   int
	DamageGiven int
	Minutes     float64
}

func (p PlayerTotals) KD() float64 {
	if p.Deaths == 0 {
		return float64(p.Kills)
	}
	return float64(p.Kills) / float64(p.Deaths)
}

func (p PlayerTotals) DPM() float64 {
	if p.Minutes <= 0 {
		return 0
	}
	return float64(p.DamageGiven) / p.Minutes
}
