package aggregator

import (
	"sort"

	"github.com/pable/go-et-stats/internal/model"
)

// Round is one isolated round: a round-1 file as written, or a round-2 file
// after reconciliation.
type Round struct {
	Records []model.RoundRecord
	// Clamped holds the GUIDs whose record needed clamping.
	Clamped map[string]bool
}

// TeamLookup returns the roster a GUID was resolved to.
type TeamLookup func(guid string) (model.TeamID, bool)

// Aggregate sums isolated rounds into per-player session totals. Spectator
// records are skipped. Output is ordered Team A, Team B, unresolved, then by
// kills descending and GUID.
func Aggregate(sessionID string, rounds []Round, team TeamLookup) []model.PlayerSessionStats {
	byGUID := make(map[string]*model.PlayerSessionStats)

	for _, round := range rounds {
		for i := range round.Records {
			r := &round.Records[i]
			if !r.Side.Playing() {
				continue
			}

			p, ok := byGUID[r.GUID]
			if !ok {
				p = &model.PlayerSessionStats{SessionID: sessionID, GUID: r.GUID}
				if team != nil {
					p.Team, _ = team(r.GUID)
				}
				byGUID[r.GUID] = p
			}
			if r.Name != "" {
				p.Name = r.Name
			}

			p.Rounds++
			for _, w := range r.Weapons {
				p.Kills += w.Kills
				p.Deaths += w.Deaths
				p.Headshots += w.Headshots
				p.Hits += w.Hits
				p.Shots += w.Shots
			}

			e := &r.Extended
			p.DamageGiven += e.DamageGiven
			p.DamageReceived += e.DamageReceived
			p.TeamDamageGiven += e.TeamDamageGiven
			p.Gibs += e.Gibs
			p.XP += e.XP
			p.KillAssists += e.KillAssists
			p.RevivesGiven += e.RevivesGiven
			p.TimesRevived += e.TimesRevived
			p.Objectives += e.ObjectivesStolen + e.ObjectivesReturned
			p.Dynamites += e.DynamitesPlanted + e.DynamitesDefused
			p.Minutes += e.TimePlayedMinutes

			if round.Clamped[r.GUID] {
				p.ClampedRounds++
			}
		}
	}

	out := make([]model.PlayerSessionStats, 0, len(byGUID))
	for _, p := range byGUID {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if ti, tj := teamOrder(out[i].Team), teamOrder(out[j].Team); ti != tj {
			return ti < tj
		}
		if out[i].Kills != out[j].Kills {
			return out[i].Kills > out[j].Kills
		}
		return out[i].GUID < out[j].GUID
	})
	return out
}

func teamOrder(id model.TeamID) int {
	switch id {
	case model.TeamA:
		return 0
	case model.TeamB:
		return 1
	default:
		return 2
	}
}

// WeaponTotals sums weapon stats per weapon over isolated rounds, for one
// player or, with an empty guid, everyone. Ordered by kills, then weapon id.
func WeaponTotals(rounds []Round, guid string) []model.WeaponStat {
	byWeapon := make(map[model.WeaponID]*model.WeaponStat)
	for _, round := range rounds {
		for _, r := range round.Records {
			if guid != "" && r.GUID != guid {
				continue
			}
			for _, w := range r.Weapons {
				acc, ok := byWeapon[w.Weapon]
				if !ok {
					acc = &model.WeaponStat{Weapon: w.Weapon}
					byWeapon[w.Weapon] = acc
				}
				acc.Hits += w.Hits
				acc.Shots += w.Shots
				acc.Kills += w.Kills
				acc.Deaths += w.Deaths
				acc.Headshots += w.Headshots
			}
		}
	}

	out := make([]model.WeaponStat, 0, len(byWeapon))
	for _, w := range byWeapon {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kills != out[j].Kills {
			return out[i].Kills > out[j].Kills
		}
		return out[i].Weapon < out[j].Weapon
	})
	return out
}
