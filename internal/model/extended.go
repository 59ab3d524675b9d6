package model

// ExtendedField describes one position of the extended stat array. Exactly one
// of Int or Float is set.
type ExtendedField struct {
	Index int
	Name  string
	Int   func(*ExtendedStat) *int
	Float func(*ExtendedStat) *float64
}

const (
	// ExtendedMinFields is the number of positions every file generation writes.
	ExtendedMinFields = 36
	// ExtendedMaxFields includes the trailing repairs and revives columns.
	ExtendedMaxFields = 38
)

// ExtendedFields is the authoritative index -> stat mapping. Indices are
// counted from the front of the block; the last two are optional.
var ExtendedFields = [ExtendedMaxFields]ExtendedField{
	{0, "damage_given", func(s *ExtendedStat) *int { return &s.DamageGiven }, nil},
	{1, "damage_received", func(s *ExtendedStat) *int { return &s.DamageReceived }, nil},
	{2, "team_damage_given", func(s *ExtendedStat) *int { return &s.TeamDamageGiven }, nil},
	{3, "team_damage_received", func(s *ExtendedStat) *int { return &s.TeamDamageReceived }, nil},
	{4, "gibs", func(s *ExtendedStat) *int { return &s.Gibs }, nil},
	{5, "self_kills", func(s *ExtendedStat) *int { return &s.SelfKills }, nil},
	{6, "team_kills", func(s *ExtendedStat) *int { return &s.TeamKills }, nil},
	{7, "team_gibs", func(s *ExtendedStat) *int { return &s.TeamGibs }, nil},
	{8, "time_played_percent", nil, func(s *ExtendedStat) *float64 { return &s.TimePlayedPercent }},
	{9, "xp", func(s *ExtendedStat) *int { return &s.XP }, nil},
	{10, "killing_spree_best", func(s *ExtendedStat) *int { return &s.KillingSpreeBest }, nil},
	{11, "death_spree_worst", func(s *ExtendedStat) *int { return &s.DeathSpreeWorst }, nil},
	{12, "kill_assists", func(s *ExtendedStat) *int { return &s.KillAssists }, nil},
	{13, "kill_steals", func(s *ExtendedStat) *int { return &s.KillSteals }, nil},
	{14, "headshot_kills", func(s *ExtendedStat) *int { return &s.HeadshotKills }, nil},
	{15, "objectives_stolen", func(s *ExtendedStat) *int { return &s.ObjectivesStolen }, nil},
	{16, "objectives_returned", func(s *ExtendedStat) *int { return &s.ObjectivesReturned }, nil},
	{17, "dynamites_planted", func(s *ExtendedStat) *int { return &s.DynamitesPlanted }, nil},
	{18, "dynamites_defused", func(s *ExtendedStat) *int { return &s.DynamitesDefused }, nil},
	{19, "times_revived", func(s *ExtendedStat) *int { return &s.TimesRevived }, nil},
	{20, "bullets_fired", func(s *ExtendedStat) *int { return &s.BulletsFired }, nil},
	{21, "dpm", nil, func(s *ExtendedStat) *float64 { return &s.DPM }},
	{22, "time_played_minutes", nil, func(s *ExtendedStat) *float64 { return &s.TimePlayedMinutes }},
	{23, "tank_meatshield", nil, func(s *ExtendedStat) *float64 { return &s.TankMeatshield }},
	{24, "time_dead_ratio", nil, func(s *ExtendedStat) *float64 { return &s.TimeDeadRatio }},
	{25, "time_dead_minutes", nil, func(s *ExtendedStat) *float64 { return &s.TimeDeadMinutes }},
	{26, "kd_ratio", nil, func(s *ExtendedStat) *float64 { return &s.KDRatio }},
	{27, "useful_kills", func(s *ExtendedStat) *int { return &s.UsefulKills }, nil},
	{28, "denied_playtime", func(s *ExtendedStat) *int { return &s.DeniedPlaytime }, nil},
	{29, "multikill_2", func(s *ExtendedStat) *int { return &s.MultiKill2 }, nil},
	{30, "multikill_3", func(s *ExtendedStat) *int { return &s.MultiKill3 }, nil},
	{31, "multikill_4", func(s *ExtendedStat) *int { return &s.MultiKill4 }, nil},
	{32, "multikill_5", func(s *ExtendedStat) *int { return &s.MultiKill5 }, nil},
	{33, "multikill_6", func(s *ExtendedStat) *int { return &s.MultiKill6 }, nil},
	{34, "useless_kills", func(s *ExtendedStat) *int { return &s.UselessKills }, nil},
	{35, "full_selfkills", func(s *ExtendedStat) *int { return &s.FullSelfKills }, nil},
	{36, "repairs_constructions", func(s *ExtendedStat) *int { return &s.RepairsConstructions }, nil},
	{37, "revives_given", func(s *ExtendedStat) *int { return &s.RevivesGiven }, nil},
}

// Values returns the stat in index order, for use as query arguments.
func (s *ExtendedStat) Values() []any {
	out := make([]any, 0, len(ExtendedFields))
	for _, f := range ExtendedFields {
		if f.Int != nil {
			out = append(out, *f.Int(s))
		} else {
			out = append(out, *f.Float(s))
		}
	}
	return out
}

// Pointers returns scan destinations in index order.
func (s *ExtendedStat) Pointers() []any {
	out := make([]any, 0, len(ExtendedFields))
	for _, f := range ExtendedFields {
		if f.Int != nil {
			out = append(out, f.Int(s))
		} else {
			out = append(out, f.Float(s))
		}
	}
	return out
}
