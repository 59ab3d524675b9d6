package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/pable/go-et-stats/internal/model"
	"github.com/pable/go-et-stats/internal/reconcile"
)

// ErrOrphanedRound marks a round file that has no partner round.
var ErrOrphanedRound = errors.New("orphaned round")

// MapPair is one map: a round-1 file joined with the round-2 file that followed it.
type MapPair struct {
	Round1 *model.RoundFile
	Round2 *model.RoundFile

	Reconciled reconcile.Result
	Score      model.MatchScore
	ScoreErr   error

	// TeamScore is set once the session rosters are known.
	TeamScore    model.TeamScore
	Attributed   bool
	Round1TeamID model.TeamID
}

func (p *MapPair) MapName() string { return p.Round1.Header.MapName }

// Orphan is a round file left over after pairing. Its records are still usable on their own.
type Orphan struct {
	File *model.RoundFile
	Err  error
}

type pairKey struct {
	date    string
	mapName string
}

// PairRounds joins round files on (date, map). Each round-2 file takes the
// closest earlier unpaired round-1 file no more than window before it.
// Anything left over is returned as an orphan.
func PairRounds(files []*model.RoundFile, window time.Duration) ([]*MapPair, []Orphan) {
	groups := make(map[pairKey][]*model.RoundFile)
	var keys []pairKey
	for _, f := range files {
		k := pairKey{date: f.Info.Date, mapName: f.Header.MapName}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], f)
	}

	var (
		pairs   []*MapPair
		orphans []Orphan
	)
	for _, k := range keys {
		group := groups[k]
		sortFiles(group)

		paired := make(map[*model.RoundFile]bool, len(group))
		for i, f := range group {
			if f.Header.Round != 2 {
				continue
			}
			for j := i - 1; j >= 0; j-- {
				r1 := group[j]
				if r1.Header.Round != 1 || paired[r1] {
					continue
				}
				if f.Info.PlayedAt.Sub(r1.Info.PlayedAt) > window {
					break
				}
				paired[r1], paired[f] = true, true
				pairs = append(pairs, &MapPair{Round1: r1, Round2: f})
				break
			}
		}

		for _, f := range group {
			if paired[f] {
				continue
			}
			var err error
			if f.Header.Round == 1 {
				err = fmt.Errorf("%w: %s has no round 2 within %s", ErrOrphanedRound, f.Info.Name, window)
			} else {
				err = fmt.Errorf("%w: %s has no preceding round 1 within %s", ErrOrphanedRound, f.Info.Name, window)
			}
			orphans = append(orphans, Orphan{File: f, Err: err})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return lessFile(pairs[i].Round1, pairs[j].Round1)
	})
	sort.SliceStable(orphans, func(i, j int) bool {
		return lessFile(orphans[i].File, orphans[j].File)
	})
	return pairs, orphans
}

func lessFile(a, b *model.RoundFile) bool {
	if !a.Info.PlayedAt.Equal(b.Info.PlayedAt) {
		return a.Info.PlayedAt.Before(b.Info.PlayedAt)
	}
	return a.Info.Name < b.Info.Name
}

func sortFiles(files []*model.RoundFile) {
	sort.SliceStable(files, func(i, j int) bool { return lessFile(files[i], files[j]) })
}
