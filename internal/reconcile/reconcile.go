// Package reconcile recovers isolated round-2 stats from files that report
// round 2 as the running total of both rounds.
package reconcile

import (
	"sort"

	"github.com/pable/go-et-stats/internal/model"
)

// Result is the output of reconciling one round-1/round-2 pair.
type Result struct {
	Deltas     []model.DeltaRecord
	Round1Only []string // players that left before round 2
}

// Clamped returns the number of deltas that had at least one field clamped to zero.
func (r Result) Clamped() int {
	n := 0
	for _, d := range r.Deltas {
		if d.Clamped {
			n++
		}
	}
	return n
}

// Reconcile subtracts each player's round-1 values from their cumulative
// round-2 values, per field, keyed by GUID. Negative differences are clamped to
// zero and flagged on the record. Players only present in round 2 pass through
// unchanged; players only present in round 1 produce no delta.
func Reconcile(round1, round2 []model.RoundRecord) Result {
	byGUID := make(map[string]*model.RoundRecord, len(round1))
	for i := range round1 {
		byGUID[round1[i].GUID] = &round1[i]
	}

	var res Result
	seen := make(map[string]struct{}, len(round2))
	for i := range round2 {
		r2 := &round2[i]
		seen[r2.GUID] = struct{}{}

		r1, ok := byGUID[r2.GUID]
		if !ok {
			res.Deltas = append(res.Deltas, model.DeltaRecord{
				GUID:     r2.GUID,
				Name:     r2.Name,
				Side:     r2.Side,
				Weapons:  append([]model.WeaponStat(nil), r2.Weapons...),
				Extended: r2.Extended,
				Source:   model.DeltaRound2Only,
			})
			continue
		}
		res.Deltas = append(res.Deltas, Subtract(r1, r2))
	}

	for guid := range byGUID {
		if _, ok := seen[guid]; !ok {
			res.Round1Only = append(res.Round1Only, guid)
		}
	}

	sort.Slice(res.Deltas, func(i, j int) bool { return res.Deltas[i].GUID < res.Deltas[j].GUID })
	sort.Strings(res.Round1Only)
	return res
}

// Subtract computes r2 - r1 for one player. The result is built in full before
// it is returned, so callers never see a partially reconciled record.
func Subtract(r1, r2 *model.RoundRecord) model.DeltaRecord {
	d := model.DeltaRecord{
		GUID:   r2.GUID,
		Name:   r2.Name,
		Side:   r2.Side,
		Source: model.DeltaSubtracted,
	}
	clamp := func(field string) {
		d.Clamped = true
		d.ClampedFields = append(d.ClampedFields, field)
	}

	for _, f := range model.ExtendedFields {
		if f.Int != nil {
			v := *f.Int(&r2.Extended) - *f.Int(&r1.Extended)
			if v < 0 {
				clamp(f.Name)
				v = 0
			}
			*f.Int(&d.Extended) = v
			continue
		}
		v := *f.Float(&r2.Extended) - *f.Float(&r1.Extended)
		if v < 0 {
			clamp(f.Name)
			v = 0
		}
		*f.Float(&d.Extended) = v
	}

	d.Weapons = make([]model.WeaponStat, 0, len(r2.Weapons))
	for _, w2 := range r2.Weapons {
		w1, ok := r1.Weapon(w2.Weapon)
		if !ok {
			d.Weapons = append(d.Weapons, w2)
			continue
		}
		prefix := w2.Weapon.String() + "."
		d.Weapons = append(d.Weapons, model.WeaponStat{
			Weapon:    w2.Weapon,
			Hits:      nonNeg(w2.Hits-w1.Hits, func() { clamp(prefix + "hits") }),
			Shots:     nonNeg(w2.Shots-w1.Shots, func() { clamp(prefix + "shots") }),
			Kills:     nonNeg(w2.Kills-w1.Kills, func() { clamp(prefix + "kills") }),
			Deaths:    nonNeg(w2.Deaths-w1.Deaths, func() { clamp(prefix + "deaths") }),
			Headshots: nonNeg(w2.Headshots-w1.Headshots, func() { clamp(prefix + "headshots") }),
		})
	}
	return d
}

func nonNeg(v int, onClamp func()) int {
	if v < 0 {
		onClamp()
		return 0
	}
	return v
}
