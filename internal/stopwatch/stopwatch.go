// Package stopwatch scores a two-round map under Stopwatch rules: the sides
// swap after round 1 and the faster objective completion takes the map 2-0,
// with a 1-1 tie on exactly equal times.
package stopwatch

import (
	"errors"
	"fmt"

	"github.com/pable/go-et-stats/internal/model"
)

var (
	// ErrUnexpectedRound is returned when a round arrives out of order.
	ErrUnexpectedRound = errors.New("unexpected round")
	// ErrNoAttacker is returned when a header names no playing defender.
	ErrNoAttacker = errors.New("round has no attacking side")
)

// State is the position of a Scorer within one map.
type State int

const (
	AwaitingRound1 State = iota
	AwaitingRound2
	Scored
)

func (s State) String() string {
	switch s {
	case AwaitingRound1:
		return "awaiting-round-1"
	case AwaitingRound2:
		return "awaiting-round-2"
	case Scored:
		return "scored"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Scorer accumulates the two rounds of a single map. The zero value is ready to use.
type Scorer struct {
	state  State
	round1 model.RoundOutcome
	score  model.MatchScore
}

func (s *Scorer) State() State { return s.state }

// Reset returns the scorer to AwaitingRound1.
func (s *Scorer) Reset() { *s = Scorer{} }

// Round1 records the first round of the map.
func (s *Scorer) Round1(o model.RoundOutcome) error {
	if s.state != AwaitingRound1 {
		return fmt.Errorf("%w: round 1 while %s", ErrUnexpectedRound, s.state)
	}
	if o.Round != 1 {
		return fmt.Errorf("%w: got round %d, want 1", ErrUnexpectedRound, o.Round)
	}
	s.round1 = o
	s.state = AwaitingRound2
	return nil
}

// Round2 records the second round and returns the map score.
func (s *Scorer) Round2(o model.RoundOutcome) (model.MatchScore, error) {
	if s.state != AwaitingRound2 {
		return model.MatchScore{}, fmt.Errorf("%w: round 2 while %s", ErrUnexpectedRound, s.state)
	}
	if o.Round != 2 {
		return model.MatchScore{}, fmt.Errorf("%w: got round %d, want 2", ErrUnexpectedRound, o.Round)
	}
	s.score = decide(s.round1, o)
	s.state = Scored
	return s.score, nil
}

// Score returns the last computed score, and false until both rounds are in.
func (s *Scorer) Score() (model.MatchScore, bool) {
	return s.score, s.state == Scored
}

func decide(r1, r2 model.RoundOutcome) model.MatchScore {
	ms := model.MatchScore{
		Round1Attacker: r1.Attacker,
		Round2Attacker: r2.Attacker,
		Round1:         r1,
		Round2:         r2,
	}
	switch {
	case r1.Completed && r2.Completed && r1.Elapsed == r2.Elapsed:
		ms.Outcome = model.OutcomeTie
		ms.Tie = true
		ms.Round1AttackerPoints, ms.Round2AttackerPoints = 1, 1
	case r2.Completed && (r1.Fullhold() || r2.Elapsed < r1.Elapsed):
		ms.Outcome = model.Round2AttackersWin
		ms.Round2AttackerPoints = 2
	default:
		// Round 2 failed, was slower, or both rounds were held.
		ms.Outcome = model.Round1AttackersWin
		ms.Round1AttackerPoints = 2
	}
	return ms
}

// OutcomeFromHeader derives the scoring-relevant outcome of one round. The
// attackers completed the objective if they are the reported winner; when no
// winner was reported, finishing before the time limit counts as completion.
func OutcomeFromHeader(h model.MatchHeader) model.RoundOutcome {
	o := model.RoundOutcome{
		Round:     h.Round,
		Attacker:  h.AttackerSide(),
		Elapsed:   h.ActualTime,
		TimeLimit: h.TimeLimit,
	}
	if h.WinnerSide.Playing() {
		o.Completed = h.WinnerSide == o.Attacker
	} else {
		o.Completed = h.ActualTime < h.TimeLimit
	}
	return o
}

// Score runs a fresh Scorer over a round-1/round-2 header pair.
func Score(h1, h2 model.MatchHeader) (model.MatchScore, error) {
	for _, h := range []model.MatchHeader{h1, h2} {
		if !h.AttackerSide().Playing() {
			return model.MatchScore{}, fmt.Errorf("%w: round %d defender %s", ErrNoAttacker, h.Round, h.DefenderSide)
		}
	}
	var s Scorer
	if err := s.Round1(OutcomeFromHeader(h1)); err != nil {
		return model.MatchScore{}, err
	}
	return s.Round2(OutcomeFromHeader(h2))
}
