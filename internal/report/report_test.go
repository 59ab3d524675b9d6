package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pable/go-et-stats/internal/model"
)

func TestClock(t *testing.T) {
	cases := map[time.Duration]string{
		0:                                     "0:00",
		3*time.Minute + 51*time.Second:        "3:51",
		10 * time.Minute:                      "10:00",
		90*time.Second + 400*time.Millisecond: "1:30",
	}
	for d, want := range cases {
		if got := Clock(d); got != want {
			t.Errorf("Clock(%v) = %q, want %q", d, got, want)
		}
	}
}

func TestPrintMapScores(t *testing.T) {
	var buf bytes.Buffer
	PrintMapScores(&buf, []model.StoredMap{{
		MapName:  "goldrush",
		PlayedAt: time.Date(2025, 3, 14, 20, 30, 0, 0, time.UTC),
		Score: model.MatchScore{
			Round1Attacker: model.SideAllies,
			Round1:         model.RoundOutcome{Round: 1, Completed: false, Elapsed: 10 * time.Minute, TimeLimit: 10 * time.Minute},
			Round2:         model.RoundOutcome{Round: 2, Completed: true, Elapsed: 9 * time.Minute, TimeLimit: 10 * time.Minute},
			Outcome:        model.Round2AttackersWin,
		},
		Attributed: true,
		Round1Team: model.TeamB,
		TeamScore:  model.TeamScore{TeamA: 2},
	}})

	out := buf.String()
	for _, want := range []string{"goldrush", "held 10:00", "9:00", "r2-attackers", "20:30"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintPlayerTableMarksFocus(t *testing.T) {
	var buf bytes.Buffer
	PrintPlayerTable(&buf, []model.PlayerSessionStats{
		{GUID: "P1", Name: "alpha", Team: model.TeamA, Rounds: 4, Kills: 11, Deaths: 5, DamageGiven: 1100, Minutes: 20},
		{GUID: "P2", Name: "bravo", Team: model.TeamB, Rounds: 4, Kills: 3, Deaths: 9, DamageGiven: 1234567},
	}, "P2")

	var focusLine string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "bravo") {
			focusLine = line
		}
	}
	if !strings.Contains(focusLine, ">") {
		t.Errorf("expected focus marker on bravo row, got %q", focusLine)
	}
	if !strings.Contains(buf.String(), "1,234,567") {
		t.Errorf("expected grouped damage in output:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "2.20") {
		t.Errorf("expected alpha K/D 2.20 in output:\n%s", buf.String())
	}
}

func TestPrintRosterUnresolved(t *testing.T) {
	var buf bytes.Buffer
	PrintRoster(&buf, &model.SessionRoster{
		TeamA:      []model.RosterEntry{{GUID: "P1", Name: "alpha"}, {GUID: "P2"}},
		TeamB:      []model.RosterEntry{{GUID: "P3", Name: "charlie"}},
		Unresolved: []model.UnresolvedPlayer{{GUID: "SOLO", Rounds: 2}},
	})
	out := buf.String()
	for _, want := range []string{"alpha, P2", "charlie", "SOLO (2 rounds)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintOverview(t *testing.T) {
	var buf bytes.Buffer
	PrintOverview(&buf, model.Overview{Sessions: 3, Files: 1200, First: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		Last: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)}, 2_500_000)
	out := buf.String()
	for _, want := range []string{"1,200", "2025-01-02 → 2025-03-14", "2.5 MB"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintQueryResult(t *testing.T) {
	var buf bytes.Buffer
	PrintQueryResult(&buf, []string{"guid", "kills"}, [][]string{{"P1", "7"}, {"P2", "NULL"}})
	out := buf.String()
	if !strings.Contains(out, "(2 rows)") || !strings.Contains(out, "NULL") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
