package stopwatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pable/go-et-stats/internal/model"
)

func clock(m, s int) time.Duration {
	return time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}

// header builds a round header where attacker either completes at elapsed or is held.
func header(round int, attacker model.Side, completed bool, elapsed, limit time.Duration) model.MatchHeader {
	h := model.MatchHeader{
		MapName:      "supply",
		Round:        round,
		DefenderSide: attacker.Opponent(),
		TimeLimit:    limit,
		ActualTime:   elapsed,
		WinnerSide:   attacker.Opponent(),
	}
	if completed {
		h.WinnerSide = attacker
	}
	return h
}

func TestScoreFasterRound2Wins(t *testing.T) {
	h1 := header(1, model.SideAxis, true, clock(3, 51), clock(10, 0))
	h2 := header(2, model.SideAllies, true, clock(3, 40), clock(3, 51))

	ms, err := Score(h1, h2)
	require.NoError(t, err)
	require.Equal(t, model.Round2AttackersWin, ms.Outcome)
	require.Equal(t, 0, ms.Round1AttackerPoints)
	require.Equal(t, 2, ms.Round2AttackerPoints)
	require.False(t, ms.Tie)
	require.Equal(t, model.SideAxis, ms.Round1Attacker)
	require.Equal(t, model.SideAllies, ms.Round2Attacker)
}

func TestScoreRound2HeldLoses(t *testing.T) {
	h1 := header(1, model.SideAxis, true, clock(7, 27), clock(10, 0))
	h2 := header(2, model.SideAllies, false, clock(7, 27), clock(7, 27))

	ms, err := Score(h1, h2)
	require.NoError(t, err)
	require.Equal(t, model.Round1AttackersWin, ms.Outcome)
	require.Equal(t, 2, ms.Round1AttackerPoints)
	require.Equal(t, 0, ms.Round2AttackerPoints)
	require.True(t, ms.Round2.Fullhold())
}

func TestScoreRules(t *testing.T) {
	limit := clock(10, 0)
	tests := []struct {
		name     string
		r1, r2   model.RoundOutcome
		want     model.ScoreOutcome
		r1Points int
		r2Points int
	}{
		{
			name: "equal times tie",
			r1:   model.RoundOutcome{Round: 1, Completed: true, Elapsed: clock(5, 0)},
			r2:   model.RoundOutcome{Round: 2, Completed: true, Elapsed: clock(5, 0)},
			want: model.OutcomeTie, r1Points: 1, r2Points: 1,
		},
		{
			name: "slower round 2",
			r1:   model.RoundOutcome{Round: 1, Completed: true, Elapsed: clock(5, 0)},
			r2:   model.RoundOutcome{Round: 2, Completed: true, Elapsed: clock(5, 1)},
			want: model.Round1AttackersWin, r1Points: 2,
		},
		{
			name: "round 1 fullhold then round 2 completes",
			r1:   model.RoundOutcome{Round: 1, Completed: false, Elapsed: limit},
			r2:   model.RoundOutcome{Round: 2, Completed: true, Elapsed: clock(9, 59)},
			want: model.Round2AttackersWin, r2Points: 2,
		},
		{
			name: "double fullhold",
			r1:   model.RoundOutcome{Round: 1, Completed: false, Elapsed: limit},
			r2:   model.RoundOutcome{Round: 2, Completed: false, Elapsed: limit},
			want: model.Round1AttackersWin, r1Points: 2,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var s Scorer
			require.NoError(t, s.Round1(tc.r1))
			ms, err := s.Round2(tc.r2)
			require.NoError(t, err)
			require.Equal(t, tc.want, ms.Outcome)
			require.Equal(t, tc.r1Points, ms.Round1AttackerPoints)
			require.Equal(t, tc.r2Points, ms.Round2AttackerPoints)
			require.Equal(t, tc.want == model.OutcomeTie, ms.Tie)
			require.Equal(t, tc.r1, ms.Round1)
			require.Equal(t, tc.r2, ms.Round2)
		})
	}
}

func TestScorerStateMachine(t *testing.T) {
	var s Scorer
	require.Equal(t, AwaitingRound1, s.State())

	_, err := s.Round2(model.RoundOutcome{Round: 2})
	require.ErrorIs(t, err, ErrUnexpectedRound)

	require.ErrorIs(t, s.Round1(model.RoundOutcome{Round: 2}), ErrUnexpectedRound)
	require.Equal(t, AwaitingRound1, s.State())

	require.NoError(t, s.Round1(model.RoundOutcome{Round: 1, Completed: true, Elapsed: clock(4, 0)}))
	require.Equal(t, AwaitingRound2, s.State())
	require.ErrorIs(t, s.Round1(model.RoundOutcome{Round: 1}), ErrUnexpectedRound)

	_, ok := s.Score()
	require.False(t, ok)

	_, err = s.Round2(model.RoundOutcome{Round: 2, Completed: true, Elapsed: clock(3, 0)})
	require.NoError(t, err)
	require.Equal(t, Scored, s.State())
	ms, ok := s.Score()
	require.True(t, ok)
	require.Equal(t, model.Round2AttackersWin, ms.Outcome)

	_, err = s.Round2(model.RoundOutcome{Round: 2})
	require.ErrorIs(t, err, ErrUnexpectedRound)

	s.Reset()
	require.Equal(t, AwaitingRound1, s.State())
}

func TestOutcomeFromHeader(t *testing.T) {
	h := model.MatchHeader{Round: 1, DefenderSide: model.SideAllies, WinnerSide: model.SideAxis,
		TimeLimit: clock(10, 0), ActualTime: clock(6, 12)}
	o := OutcomeFromHeader(h)
	require.Equal(t, model.SideAxis, o.Attacker)
	require.True(t, o.Completed)
	require.Equal(t, clock(6, 12), o.Elapsed)

	h.WinnerSide = model.SideAllies
	require.False(t, OutcomeFromHeader(h).Completed)

	// No winner recorded: fall back to the clock.
	h.WinnerSide = model.SideUnknown
	require.True(t, OutcomeFromHeader(h).Completed)
	h.ActualTime = h.TimeLimit
	require.False(t, OutcomeFromHeader(h).Completed)
}

func TestScoreDeterministic(t *testing.T) {
	h1 := header(1, model.SideAllies, true, clock(8, 2), clock(12, 0))
	h2 := header(2, model.SideAxis, true, clock(8, 2), clock(8, 2))
	first, err := Score(h1, h2)
	require.NoError(t, err)
	require.True(t, first.Tie)
	for i := 0; i < 10; i++ {
		again, err := Score(h1, h2)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestScoreRejectsUnknownAttacker(t *testing.T) {
	h1 := header(1, model.SideAxis, true, clock(3, 51), clock(10, 0))
	h2 := header(2, model.SideAllies, true, clock(3, 40), clock(3, 51))

	bad := h1
	bad.DefenderSide = model.SideUnknown
	_, err := Score(bad, h2)
	require.ErrorIs(t, err, ErrNoAttacker)

	bad = h2
	bad.DefenderSide = model.SideSpectator
	_, err = Score(h1, bad)
	require.ErrorIs(t, err, ErrNoAttacker)
}
