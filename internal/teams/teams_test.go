package teams

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pable/go-et-stats/internal/model"
)

// sides builds one round where group x plays xSide and group y the opposite.
func sides(key string, x []string, xSide model.Side, y []string) RoundSides {
	rs := RoundSides{Key: key, Sides: map[string]model.Side{}}
	for _, g := range x {
		rs.Sides[g] = xSide
	}
	for _, g := range y {
		rs.Sides[g] = xSide.Opponent()
	}
	return rs
}

func TestResolveTwoRosters(t *testing.T) {
	red := []string{"P1", "P2", "P3"}
	blue := []string{"P4", "P5", "P6"}
	var rounds []RoundSides
	for i := 0; i < 5; i++ {
		side := model.SideAxis
		if i%2 == 1 {
			side = model.SideAllies
		}
		rounds = append(rounds, sides(fmt.Sprintf("r%d", i), red, side, blue))
	}

	res, err := Resolve(rounds)
	require.NoError(t, err)
	require.Equal(t, red, res.TeamA.Members)
	require.Equal(t, blue, res.TeamB.Members)
	require.Empty(t, res.Unresolved)

	a, ok := res.Affinity("P1", "P3")
	require.True(t, ok)
	require.InDelta(t, 1.0, a, 1e-9)
	a, ok = res.Affinity("P1", "P4")
	require.True(t, ok)
	require.Zero(t, a)
	require.Equal(t, 5, res.Rounds("P2"))

	id, ok := res.TeamOf("P5")
	require.True(t, ok)
	require.Equal(t, model.TeamB, id)
}

func TestResolveToleratesMisattributedRound(t *testing.T) {
	red := []string{"P1", "P2", "P3"}
	blue := []string{"P4", "P5", "P6"}
	var rounds []RoundSides
	for i := 0; i < 4; i++ {
		rounds = append(rounds, sides(fmt.Sprintf("r%d", i), red, model.SideAxis, blue))
	}
	// P3 recorded on the wrong side once.
	rounds = append(rounds, sides("odd", []string{"P1", "P2"}, model.SideAxis, []string{"P3", "P4", "P5", "P6"}))

	res, err := Resolve(rounds)
	require.NoError(t, err)
	require.Equal(t, red, res.TeamA.Members)
	require.Equal(t, blue, res.TeamB.Members)
}

func TestResolveOrderInvariant(t *testing.T) {
	red := []string{"Z1", "Z2", "B3"}
	blue := []string{"C1", "A9", "C3"}
	var rounds []RoundSides
	for i := 0; i < 6; i++ {
		side := model.SideAllies
		if i%3 == 0 {
			side = model.SideAxis
		}
		rounds = append(rounds, sides(fmt.Sprintf("r%d", i), red, side, blue))
	}
	rounds[2].Sides["LATE"] = model.SideAxis
	rounds[2].Sides["SPEC"] = model.SideSpectator

	want, err := Resolve(rounds)
	require.NoError(t, err)
	// LATE only ever stood with the blue roster.
	require.Equal(t, []string{"A9", "C1", "C3", "LATE"}, want.TeamA.Members)
	require.Equal(t, []string{"B3", "Z1", "Z2"}, want.TeamB.Members)

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		shuffled := append([]RoundSides(nil), rounds...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got, err := Resolve(shuffled)
		require.NoError(t, err)
		require.Equal(t, want.TeamA, got.TeamA)
		require.Equal(t, want.TeamB, got.TeamB)
		require.Equal(t, want.Unresolved, got.Unresolved)
	}
}

func TestResolveUnresolvedAndSpectators(t *testing.T) {
	rounds := []RoundSides{
		sides("r1", []string{"P1"}, model.SideAxis, []string{"P2"}),
		{Key: "r2", Sides: map[string]model.Side{"SOLO": model.SideAllies, "SPEC": model.SideSpectator}},
		{Key: "r3", Sides: map[string]model.Side{"SOLO": model.SideAxis}},
	}
	res, err := Resolve(rounds)
	require.NoError(t, err)
	require.Equal(t, []model.UnresolvedPlayer{{GUID: "SOLO", Rounds: 2}}, res.Unresolved)
	require.Equal(t, []string{"P1"}, res.TeamA.Members)
	require.Equal(t, []string{"P2"}, res.TeamB.Members)
	require.Zero(t, res.Rounds("SPEC"))
	_, ok := res.TeamOf("SPEC")
	require.False(t, ok)
}

func TestResolveJoinsGroupsThroughOpposition(t *testing.T) {
	// P1/P2 and P3 were never on the same side together, but both only ever
	// faced P4/P5, so they make up one roster.
	rounds := []RoundSides{
		sides("r1", []string{"P1", "P2"}, model.SideAxis, []string{"P4", "P5"}),
		sides("r2", []string{"P1", "P2"}, model.SideAllies, []string{"P4", "P5"}),
		sides("r3", []string{"P3"}, model.SideAxis, []string{"P4", "P5"}),
		sides("r4", []string{"P3"}, model.SideAllies, []string{"P4", "P5"}),
	}
	res, err := Resolve(rounds)
	require.NoError(t, err)
	require.Len(t, res.Groups, 3)
	require.Equal(t, []string{"P1", "P2", "P3"}, res.TeamA.Members)
	require.Equal(t, []string{"P4", "P5"}, res.TeamB.Members)
}

func TestResolveAmbiguous(t *testing.T) {
	t.Run("disconnected", func(t *testing.T) {
		rounds := []RoundSides{
			sides("m1", []string{"A1", "A2"}, model.SideAxis, []string{"B1", "B2"}),
			sides("m2", []string{"C1", "C2"}, model.SideAxis, []string{"D1", "D2"}),
		}
		res, err := Resolve(rounds)
		require.ErrorIs(t, err, ErrAmbiguousRoster)
		require.Len(t, res.Groups, 4)
		require.Empty(t, res.TeamA.Members)
	})

	t.Run("odd cycle", func(t *testing.T) {
		// Three players each faced both of the others.
		rounds := []RoundSides{
			sides("r1", []string{"X"}, model.SideAxis, []string{"Y"}),
			sides("r2", []string{"Y"}, model.SideAxis, []string{"Z"}),
			sides("r3", []string{"Z"}, model.SideAxis, []string{"X"}),
		}
		_, err := Resolve(rounds)
		require.ErrorIs(t, err, ErrAmbiguousRoster)
	})
}

func TestResolveEmpty(t *testing.T) {
	res, err := Resolve(nil)
	require.NoError(t, err)
	require.Empty(t, res.TeamA.Members)
	require.Empty(t, res.TeamB.Members)
}

func TestResolveDropsBridgingPlayer(t *testing.T) {
	// X stands with red on the first map and with blue on the second; R3 and
	// B3 only play the map where they share a side with X.
	rounds := []RoundSides{
		sides("m1r1", []string{"R1", "R2", "R3", "X"}, model.SideAxis, []string{"B1", "B2"}),
		sides("m1r2", []string{"R1", "R2", "R3", "X"}, model.SideAllies, []string{"B1", "B2"}),
		sides("m2r1", []string{"R1", "R2"}, model.SideAxis, []string{"B1", "B2", "B3", "X"}),
		sides("m2r2", []string{"R1", "R2"}, model.SideAllies, []string{"B1", "B2", "B3", "X"}),
	}

	res, err := Resolve(rounds)
	require.NoError(t, err)
	require.Equal(t, []string{"B1", "B2", "B3"}, res.TeamA.Members)
	require.Equal(t, []string{"R1", "R2", "R3"}, res.TeamB.Members)
	require.Equal(t, []model.UnresolvedPlayer{{GUID: "X", Rounds: 4}}, res.Unresolved)
	require.Len(t, res.Groups, 2)

	a, ok := res.Affinity("R1", "B1")
	require.True(t, ok)
	require.Zero(t, a)
	_, ok = res.TeamOf("X")
	require.False(t, ok)
}

func TestResolveOpposedGroupIsAmbiguous(t *testing.T) {
	// X and Y always play together, so neither one alone is the bridge.
	rounds := []RoundSides{
		sides("m1r1", []string{"R1", "R2", "R3", "R4", "X", "Y"}, model.SideAxis, []string{"B1", "B2"}),
		sides("m1r2", []string{"R1", "R2", "R3", "R4", "X", "Y"}, model.SideAllies, []string{"B1", "B2"}),
		sides("m2r1", []string{"R1", "R2"}, model.SideAxis, []string{"B1", "B2", "B3", "B4", "X", "Y"}),
		sides("m2r2", []string{"R1", "R2"}, model.SideAllies, []string{"B1", "B2", "B3", "B4", "X", "Y"}),
	}

	res, err := Resolve(rounds)
	require.ErrorIs(t, err, ErrAmbiguousRoster)
	require.Empty(t, res.TeamA.Members)
	require.Empty(t, res.TeamB.Members)
	require.Len(t, res.Groups, 1)
}
