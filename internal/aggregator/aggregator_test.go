package aggregator

import (
	"testing"

	"github.com/pable/go-et-stats/internal/model"
)

func record(guid string, side model.Side, kills, deaths, damage int, minutes float64) model.RoundRecord {
	return model.RoundRecord{
		GUID: guid,
		Name: "name-" + guid,
		Side: side,
		Weapons: []model.WeaponStat{
			{Weapon: 4, Hits: kills * 4, Shots: kills * 10, Kills: kills, Deaths: deaths, Headshots: kills / 2},
		},
		Extended: model.ExtendedStat{
			DamageGiven:       damage,
			TimePlayedMinutes: minutes,
			ObjectivesStolen:  1,
			RevivesGiven:      2,
		},
	}
}

func lookup(teams map[string]model.TeamID) TeamLookup {
	return func(guid string) (model.TeamID, bool) {
		id, ok := teams[guid]
		return id, ok
	}
}

func TestAggregateSumsIsolatedRounds(t *testing.T) {
	rounds := []Round{
		{Records: []model.RoundRecord{
			record("A1", model.SideAxis, 4, 2, 800, 5),
			record("B1", model.SideAllies, 2, 4, 500, 5),
			{GUID: "SPEC", Side: model.SideSpectator},
		}},
		{Records: []model.RoundRecord{
			record("A1", model.SideAllies, 6, 1, 1200, 4),
			record("B1", model.SideAxis, 1, 6, 300, 4),
			record("X9", model.SideAxis, 9, 0, 900, 2),
		}, Clamped: map[string]bool{"A1": true}},
	}

	got := Aggregate("s1", rounds, lookup(map[string]model.TeamID{"A1": model.TeamA, "B1": model.TeamB}))
	if len(got) != 3 {
		t.Fatalf("expected 3 players, got %d", len(got))
	}

	// Team A first, then Team B, unresolved last regardless of kills.
	if got[0].GUID != "A1" || got[1].GUID != "B1" || got[2].GUID != "X9" {
		t.Fatalf("unexpected order: %s %s %s", got[0].GUID, got[1].GUID, got[2].GUID)
	}

	a := got[0]
	if a.Rounds != 2 || a.Kills != 10 || a.Deaths != 3 {
		t.Errorf("A1 totals: rounds=%d kills=%d deaths=%d", a.Rounds, a.Kills, a.Deaths)
	}
	if a.DamageGiven != 2000 || a.Minutes != 9 {
		t.Errorf("A1 damage=%d minutes=%f", a.DamageGiven, a.Minutes)
	}
	if a.Objectives != 2 || a.RevivesGiven != 4 {
		t.Errorf("A1 objectives=%d revives=%d", a.Objectives, a.RevivesGiven)
	}
	if a.ClampedRounds != 1 {
		t.Errorf("A1 clamped rounds: want 1, got %d", a.ClampedRounds)
	}
	if a.SessionID != "s1" || a.Team != model.TeamA || a.Name != "name-A1" {
		t.Errorf("A1 identity: %+v", a)
	}
	if dpm := a.DPM(); dpm < 222.2 || dpm > 222.3 {
		t.Errorf("A1 DPM: want ~222.2, got %f", dpm)
	}
	if acc := a.Accuracy(); acc != 40 {
		t.Errorf("A1 accuracy: want 40, got %f", acc)
	}

	if got[2].Team != "" {
		t.Errorf("X9 should be unresolved, got team %q", got[2].Team)
	}
	if got[2].KD() != 9 {
		t.Errorf("X9 K/D with zero deaths: want 9, got %f", got[2].KD())
	}
}

func TestAggregateNilLookup(t *testing.T) {
	got := Aggregate("s", []Round{{Records: []model.RoundRecord{record("P", model.SideAxis, 1, 1, 10, 1)}}}, nil)
	if len(got) != 1 || got[0].Team != "" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestWeaponTotals(t *testing.T) {
	rounds := []Round{
		{Records: []model.RoundRecord{
			{GUID: "P1", Weapons: []model.WeaponStat{{Weapon: 4, Kills: 2, Shots: 10}, {Weapon: 2, Kills: 1}}},
			{GUID: "P2", Weapons: []model.WeaponStat{{Weapon: 4, Kills: 5}}},
		}},
		{Records: []model.RoundRecord{
			{GUID: "P1", Weapons: []model.WeaponStat{{Weapon: 4, Kills: 1, Shots: 5}, {Weapon: 10, Kills: 1}}},
		}},
	}

	all := WeaponTotals(rounds, "")
	if len(all) != 3 || all[0].Weapon != 4 || all[0].Kills != 8 {
		t.Fatalf("unexpected totals: %+v", all)
	}
	// Equal kills fall back to weapon id order.
	if all[1].Weapon != 2 || all[2].Weapon != 10 {
		t.Errorf("tie order: %v %v", all[1].Weapon, all[2].Weapon)
	}

	p1 := WeaponTotals(rounds, "P1")
	if p1[0].Kills != 3 || p1[0].Shots != 15 {
		t.Errorf("P1 mp40: %+v", p1[0])
	}
}
