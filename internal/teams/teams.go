// Package teams recovers the two session rosters from per-round side observations.
//
// Players swap sides between the two rounds of every map, join late, sit out
// and occasionally get counted on the wrong side, so a single round's snapshot
// is not enough. Instead every pair of players accumulates how often they were
// on the same side when both were playing; pairs that were together more often
// than not are joined, transitively, into one roster. A player whose links chain
// two opposed rosters together is left unresolved instead.
package teams

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pable/go-et-stats/internal/model"
)

// ErrAmbiguousRoster is returned when the observations do not reduce to two rosters.
var ErrAmbiguousRoster = errors.New("ambiguous roster")

// sameSideThreshold is the affinity a pair must exceed to be joined.
const sameSideThreshold = 0.5

// RoundSides is the side assignment of every player in one round.
type RoundSides struct {
	Key   string
	Sides map[string]model.Side
}

// Result holds the resolved rosters and the raw co-occurrence counts behind them.
type Result struct {
	TeamA      model.Team
	TeamB      model.Team
	Unresolved []model.UnresolvedPlayer
	// Groups are the same-side components found before they were split into
	// two rosters, without bridges; useful for manual review when resolution fails.
	Groups [][]string

	pairs  map[pairKey]*pairStats
	rounds map[string]int
}

type pairKey struct{ a, b string }

type pairStats struct {
	same     int
	together int
}

func (p *pairStats) affinity() float64 {
	return float64(p.same) / float64(p.together)
}

func keyOf(g1, g2 string) pairKey {
	if g1 > g2 {
		g1, g2 = g2, g1
	}
	return pairKey{g1, g2}
}

// Affinity returns same/together for two GUIDs, and false if they never shared a round.
func (r *Result) Affinity(g1, g2 string) (float64, bool) {
	p, ok := r.pairs[keyOf(g1, g2)]
	if !ok || p.together == 0 {
		return 0, false
	}
	return p.affinity(), true
}

// Rounds returns how many rounds guid was observed playing.
func (r *Result) Rounds(guid string) int {
	return r.rounds[guid]
}

// TeamOf returns which roster guid belongs to.
func (r *Result) TeamOf(guid string) (model.TeamID, bool) {
	switch {
	case r.TeamA.Has(guid):
		return model.TeamA, true
	case r.TeamB.Has(guid):
		return model.TeamB, true
	}
	return "", false
}

// Resolve clusters every GUID seen playing into at most two rosters. The result
// does not depend on the order of rounds; Team A is always the roster holding
// the lexicographically smallest GUID.
func Resolve(rounds []RoundSides) (*Result, error) {
	res := &Result{
		TeamA:  model.Team{ID: model.TeamA},
		TeamB:  model.Team{ID: model.TeamB},
		pairs:  make(map[pairKey]*pairStats),
		rounds: make(map[string]int),
	}

	for _, rs := range rounds {
		playing := make([]string, 0, len(rs.Sides))
		for guid, side := range rs.Sides {
			if side.Playing() {
				playing = append(playing, guid)
				res.rounds[guid]++
			}
		}
		for i := 0; i < len(playing); i++ {
			for j := i + 1; j < len(playing); j++ {
				k := keyOf(playing[i], playing[j])
				p := res.pairs[k]
				if p == nil {
					p = &pairStats{}
					res.pairs[k] = p
				}
				p.together++
				if rs.Sides[playing[i]] == rs.Sides[playing[j]] {
					p.same++
				}
			}
		}
	}

	shared := make(map[string]bool, len(res.rounds))
	for k := range res.pairs {
		shared[k.a] = true
		shared[k.b] = true
	}

	members := make([]string, 0, len(shared))
	for guid, n := range res.rounds {
		if !shared[guid] {
			res.Unresolved = append(res.Unresolved, model.UnresolvedPlayer{GUID: guid, Rounds: n})
			continue
		}
		members = append(members, guid)
	}
	sort.Strings(members)

	groups, bridges, err := res.dropBridges(members)
	for _, guid := range bridges {
		res.Unresolved = append(res.Unresolved, model.UnresolvedPlayer{GUID: guid, Rounds: res.rounds[guid]})
	}
	sort.Slice(res.Unresolved, func(i, j int) bool { return res.Unresolved[i].GUID < res.Unresolved[j].GUID })
	res.Groups = groups
	if err != nil {
		return res, err
	}

	rosters, err := res.split(res.Groups)
	if err != nil {
		return res, err
	}

	// Label: Team A holds the smallest GUID. Groups are sorted, so compare heads.
	if len(rosters[1]) > 0 && (len(rosters[0]) == 0 || rosters[1][0] < rosters[0][0]) {
		rosters[0], rosters[1] = rosters[1], rosters[0]
	}
	res.TeamA.Members = rosters[0]
	res.TeamB.Members = rosters[1]
	return res, nil
}

// cluster joins members whose affinity exceeds the threshold, transitively.
func (r *Result) cluster(members []string) [][]string {
	uf := newUnionFind()
	for _, guid := range members {
		uf.add(guid)
	}
	for k, p := range r.pairs {
		if p.affinity() > sameSideThreshold {
			uf.union(k.a, k.b)
		}
	}
	return uf.groups()
}

// opposed reports whether a and b shared rounds and were mostly on opposite sides.
func (r *Result) opposed(a, b string) bool {
	p, ok := r.pairs[keyOf(a, b)]
	return ok && p.together > 0 && p.affinity() < sameSideThreshold
}

// conflicts counts the members of group that guid was mostly opposed to.
func (r *Result) conflicts(group []string, guid string) int {
	n := 0
	for _, other := range group {
		if other != guid && r.opposed(guid, other) {
			n++
		}
	}
	return n
}

func (r *Result) consistent(group []string) bool {
	for i := range group {
		for j := i + 1; j < len(group); j++ {
			if r.opposed(group[i], group[j]) {
				return false
			}
		}
	}
	return true
}

// dropBridges clusters members and, while a group holds an opposed pair, removes
// the player whose same-side links chain two opposed rosters together. Removed
// players are returned as bridges. A group that no single removal can fix is
// ErrAmbiguousRoster.
func (r *Result) dropBridges(members []string) ([][]string, []string, error) {
	var bridges []string
	for {
		groups := r.cluster(members)
		bad := -1
		for i, g := range groups {
			if !r.consistent(g) {
				bad = i
				break
			}
		}
		if bad < 0 {
			return groups, bridges, nil
		}
		bridge := r.bridgeOf(groups[bad])
		if bridge == "" {
			return groups, bridges, fmt.Errorf("%w: %d players in one group include opponents", ErrAmbiguousRoster, len(groups[bad]))
		}
		bridges = append(bridges, bridge)
		members = without(members, bridge)
	}
}

// bridgeOf picks the member of group whose removal leaves only consistent
// groups. Among several candidates the one with the fewest opponents inside the
// group wins, then the one seen in more rounds, then the smallest GUID.
func (r *Result) bridgeOf(group []string) string {
	best, bestConflicts := "", 0
	for _, guid := range group {
		rest := without(group, guid)
		ok := true
		for _, g := range r.cluster(rest) {
			if !r.consistent(g) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		c := r.conflicts(group, guid)
		switch {
		case best == "",
			c < bestConflicts,
			c == bestConflicts && r.rounds[guid] > r.rounds[best]:
			best, bestConflicts = guid, c
		}
	}
	return best
}

func without(list []string, drop string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != drop {
			out = append(out, s)
		}
	}
	return out
}

// split reduces same-side groups to two rosters. Two or fewer groups are the
// rosters. More groups are two-coloured along "opponent" links: group pairs
// whose combined affinity is below the threshold. Every group must end up
// connected to the others and the colouring must be consistent.
func (r *Result) split(groups [][]string) ([2][]string, error) {
	var out [2][]string
	switch len(groups) {
	case 0:
		return out, nil
	case 1:
		out[0] = groups[0]
		return out, nil
	case 2:
		out[0], out[1] = groups[0], groups[1]
		return out, nil
	}

	groupOf := make(map[string]int)
	for i, g := range groups {
		for _, guid := range g {
			groupOf[guid] = i
		}
	}
	agg := make(map[[2]int]*pairStats)
	for k, p := range r.pairs {
		gi, gj := groupOf[k.a], groupOf[k.b]
		if gi == gj {
			continue
		}
		if gi > gj {
			gi, gj = gj, gi
		}
		s := agg[[2]int{gi, gj}]
		if s == nil {
			s = &pairStats{}
			agg[[2]int{gi, gj}] = s
		}
		s.same += p.same
		s.together += p.together
	}
	opponents := make([][]int, len(groups))
	for k, s := range agg {
		if s.together > 0 && s.affinity() < sameSideThreshold {
			opponents[k[0]] = append(opponents[k[0]], k[1])
			opponents[k[1]] = append(opponents[k[1]], k[0])
		}
	}

	colour := make([]int, len(groups))
	for i := range colour {
		colour[i] = -1
	}
	colour[0] = 0
	queue := []int{0}
	for len(queue) > 0 {
		g := queue[0]
		queue = queue[1:]
		for _, o := range opponents[g] {
			switch colour[o] {
			case -1:
				colour[o] = 1 - colour[g]
				queue = append(queue, o)
			case colour[g]:
				return out, fmt.Errorf("%w: %d player groups contradict each other", ErrAmbiguousRoster, len(groups))
			}
		}
	}
	for i, c := range colour {
		if c == -1 {
			return out, fmt.Errorf("%w: %d player groups with no link between them", ErrAmbiguousRoster, len(groups))
		}
		out[c] = append(out[c], groups[i]...)
	}
	sort.Strings(out[0])
	sort.Strings(out[1])
	return out, nil
}
