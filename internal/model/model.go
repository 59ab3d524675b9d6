package model

import (
	"fmt"
	"sort"
	"time"
)

// Side represents the in-round team a player was assigned to.
type Side int

const (
	SideUnknown   Side = 0
	SideAxis      Side = 1
	SideAllies    Side = 2
	SideSpectator Side = 3
)

func (s Side) String() string {
	switch s {
	case SideAxis:
		return "Axis"
	case SideAllies:
		return "Allies"
	case SideSpectator:
		return "Spec"
	default:
		return "?"
	}
}

// Playing reports whether the side is one of the two playing sides.
func (s Side) Playing() bool {
	return s == SideAxis || s == SideAllies
}

// Opponent returns the other playing side, or SideUnknown for non-playing sides.
func (s Side) Opponent() Side {
	switch s {
	case SideAxis:
		return SideAllies
	case SideAllies:
		return SideAxis
	default:
		return SideUnknown
	}
}

// ParseSide maps the numeric team id written by the stats logger.
func ParseSide(n int) Side {
	switch n {
	case 1:
		return SideAxis
	case 2:
		return SideAllies
	case 3:
		return SideSpectator
	default:
		return SideUnknown
	}
}

// ---- Decoded file contents ----

// MatchHeader is the first line of a round stats file.
type MatchHeader struct {
	Banner       string
	MapName      string
	ConfigName   string
	Round        int // 1 or 2
	DefenderSide Side
	WinnerSide   Side
	TimeLimit    time.Duration
	ActualTime   time.Duration
}

// AttackerSide is the side that played the attacking role this round.
func (h MatchHeader) AttackerSide() Side {
	return h.DefenderSide.Opponent()
}

// WeaponID is the bit position of a weapon in the weapon block mask.
type WeaponID int

// MaxWeaponID is the number of weapon ids the stats logger knows about.
const MaxWeaponID WeaponID = 28

var weaponNames = [MaxWeaponID]string{
	"knife", "knife_kbar", "luger", "colt", "mp40", "thompson", "sten", "fg42",
	"panzerfaust", "bazooka", "flamethrower", "grenade", "mortar", "mortar2",
	"dynamite", "airstrike", "artillery", "satchel", "grenade_launcher", "landmine",
	"mg42", "browning", "carbine", "kar98", "garand", "k43", "mp34", "syringe",
}

func (w WeaponID) String() string {
	if w < 0 || w >= MaxWeaponID {
		return fmt.Sprintf("unknown_%d", int(w))
	}
	return weaponNames[w]
}

// WeaponStat is one (hits, shots, kills, deaths, headshots) tuple of the weapon block.
type WeaponStat struct {
	Weapon    WeaponID
	Hits      int
	Shots     int
	Kills     int
	Deaths    int
	Headshots int
}

func (s *WeaponStat) Accuracy() float64 {
	if s.Shots == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Shots) * 100
}

// ExtendedStat is the tab-separated stat array that follows the weapon block.
// Values are as reported by the file: absolute for round 1, cumulative for round 2.
type ExtendedStat struct {
	DamageGiven          int
	DamageReceived       int
	TeamDamageGiven      int
	TeamDamageReceived   int
	Gibs                 int
	SelfKills            int
	TeamKills            int
	TeamGibs             int
	TimePlayedPercent    float64
	XP                   int
	KillingSpreeBest     int
	DeathSpreeWorst      int
	KillAssists          int
	KillSteals           int
	HeadshotKills        int
	ObjectivesStolen     int
	ObjectivesReturned   int
	DynamitesPlanted     int
	DynamitesDefused     int
	TimesRevived         int
	BulletsFired         int
	DPM                  float64
	TimePlayedMinutes    float64
	TankMeatshield       float64
	TimeDeadRatio        float64
	TimeDeadMinutes      float64
	KDRatio              float64
	UsefulKills          int
	DeniedPlaytime       int
	MultiKill2           int
	MultiKill3           int
	MultiKill4           int
	MultiKill5           int
	MultiKill6           int
	UselessKills         int
	FullSelfKills        int
	RepairsConstructions int
	RevivesGiven         int
}

// RoundRecord is one decoded player line.
type RoundRecord struct {
	GUID         string
	Name         string
	RoundsPlayed int
	Side         Side
	Weapons      []WeaponStat
	Extended     ExtendedStat
}

func (r *RoundRecord) Kills() int {
	return sumWeapons(r.Weapons, func(w WeaponStat) int { return w.Kills })
}
func (r *RoundRecord) Deaths() int {
	return sumWeapons(r.Weapons, func(w WeaponStat) int { return w.Deaths })
}
func (r *RoundRecord) Headshots() int {
	return sumWeapons(r.Weapons, func(w WeaponStat) int { return w.Headshots })
}

// Weapon returns the stat for id, if the player used it.
func (r *RoundRecord) Weapon(id WeaponID) (WeaponStat, bool) {
	for _, w := range r.Weapons {
		if w.Weapon == id {
			return w, true
		}
	}
	return WeaponStat{}, false
}

// DeltaSource records how a DeltaRecord was produced.
type DeltaSource int

const (
	DeltaSubtracted DeltaSource = iota // round2 - round1
	DeltaRound2Only                    // player joined after round 1
)

func (d DeltaSource) String() string {
	if d == DeltaRound2Only {
		return "r2-only"
	}
	return "subtracted"
}

// DeltaRecord holds a player's isolated round-2 performance.
type DeltaRecord struct {
	GUID          string
	Name          string
	Side          Side
	Weapons       []WeaponStat
	Extended      ExtendedStat
	Source        DeltaSource
	Clamped       bool
	ClampedFields []string
}

func (d *DeltaRecord) Kills() int {
	return sumWeapons(d.Weapons, func(w WeaponStat) int { return w.Kills })
}
func (d *DeltaRecord) Deaths() int {
	return sumWeapons(d.Weapons, func(w WeaponStat) int { return w.Deaths })
}

// DPM recomputes damage per minute from the delta counters. The stored
// Extended.DPM is a plain difference of two ratios and is kept for storage only.
func (d *DeltaRecord) DPM() float64 {
	if d.Extended.TimePlayedMinutes <= 0 {
		return 0
	}
	return float64(d.Extended.DamageGiven) / d.Extended.TimePlayedMinutes
}

func (d *DeltaRecord) KD() float64 {
	deaths := d.Deaths()
	if deaths == 0 {
		return float64(d.Kills())
	}
	return float64(d.Kills()) / float64(deaths)
}

// Record converts the delta back to the RoundRecord shape used by storage and reports.
func (d *DeltaRecord) Record() RoundRecord {
	return RoundRecord{
		GUID:     d.GUID,
		Name:     d.Name,
		Side:     d.Side,
		Weapons:  d.Weapons,
		Extended: d.Extended,
	}
}

func sumWeapons(ws []WeaponStat, f func(WeaponStat) int) int {
	n := 0
	for _, w := range ws {
		n += f(w)
	}
	return n
}

// FileInfo is what the stats filename tells us: YYYY-MM-DD-HHMMSS-<map>-round-<N>.txt
type FileInfo struct {
	Name     string
	PlayedAt time.Time
	Date     string
	MapName  string
	Round    int
}

// LineError is a rejected player line; the rest of the file is still usable.
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error { return e.Err }

// RoundFile is a fully decoded stats file.
type RoundFile struct {
	Path       string
	Hash       string
	Info       FileInfo
	Header     MatchHeader
	Records    []RoundRecord
	LineErrors []LineError
}

// Sides returns guid -> side for every player in the file.
func (f *RoundFile) Sides() map[string]Side {
	out := make(map[string]Side, len(f.Records))
	for _, r := range f.Records {
		out[r.GUID] = r.Side
	}
	return out
}

// ---- Teams ----

type TeamID string

const (
	TeamA TeamID = "A"
	TeamB TeamID = "B"
)

// Team is a stable session roster.
type Team struct {
	ID      TeamID
	Members []string // sorted GUIDs
}

func (t Team) Has(guid string) bool {
	i := sort.SearchStrings(t.Members, guid)
	return i < len(t.Members) && t.Members[i] == guid
}

// UnresolvedPlayer is a GUID the resolver could not place on either roster.
type UnresolvedPlayer struct {
	GUID   string
	Rounds int
}

// ---- Scoring ----

// RoundOutcome is the scoring-relevant part of one round header.
type RoundOutcome struct {
	Round     int
	Attacker  Side
	Completed bool
	Elapsed   time.Duration
	TimeLimit time.Duration
}

// Fullhold reports whether the defenders held for the full time.
func (o RoundOutcome) Fullhold() bool { return !o.Completed }

type ScoreOutcome int

const (
	Round1AttackersWin ScoreOutcome = iota
	Round2AttackersWin
	OutcomeTie
)

func (o ScoreOutcome) String() string {
	switch o {
	case Round1AttackersWin:
		return "r1-attackers"
	case Round2AttackersWin:
		return "r2-attackers"
	default:
		return "tie"
	}
}

// MatchScore is the stopwatch result of one map (round 1 + round 2).
type MatchScore struct {
	Round1Attacker       Side
	Round2Attacker       Side
	Round1               RoundOutcome
	Round2               RoundOutcome
	Round1AttackerPoints int
	Round2AttackerPoints int
	Outcome              ScoreOutcome
	Tie                  bool
}

// TeamScore is a MatchScore attributed to the session rosters.
type TeamScore struct {
	TeamA int
	TeamB int
}
