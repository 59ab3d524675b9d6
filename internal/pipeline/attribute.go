package pipeline

import (
	"github.com/pable/go-et-stats/internal/model"
	"github.com/pable/go-et-stats/internal/teams"
)

// AttributeScore maps a stopwatch score onto the session rosters. Every
// roster member seen attacking in either round votes for which roster
// attacked in round 1. It returns false when the vote is tied or empty.
func AttributeScore(p *MapPair, res *teams.Result) (model.TeamScore, model.TeamID, bool) {
	if res == nil {
		return model.TeamScore{}, "", false
	}

	// Positive favours Team A as the round-1 attacker.
	vote := 0
	for _, r := range p.Round1.Records {
		if r.Side != p.Score.Round1Attacker {
			continue
		}
		vote += teamSign(res, r.GUID)
	}
	for _, r := range p.Round2.Records {
		if r.Side != p.Score.Round2Attacker {
			continue
		}
		vote -= teamSign(res, r.GUID)
	}

	switch {
	case vote > 0:
		return model.TeamScore{
			TeamA: p.Score.Round1AttackerPoints,
			TeamB: p.Score.Round2AttackerPoints,
		}, model.TeamA, true
	case vote < 0:
		return model.TeamScore{
			TeamA: p.Score.Round2AttackerPoints,
			TeamB: p.Score.Round1AttackerPoints,
		}, model.TeamB, true
	}
	return model.TeamScore{}, "", false
}

func teamSign(res *teams.Result, guid string) int {
	id, ok := res.TeamOf(guid)
	switch {
	case !ok:
		return 0
	case id == model.TeamA:
		return 1
	default:
		return -1
	}
}
