// Package pipeline wires decoding, reconciliation, roster resolution and
// scoring together over a set of round stats files.
//
// Files are decoded in parallel. Everything after that is per session:
// sessions are split on time gaps, round files are paired into maps, each map
// is reconciled and scored, then rosters are resolved from every round of the
// session and the map scores are attributed to them.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pable/go-et-stats/internal/aggregator"
	"github.com/pable/go-et-stats/internal/log"
	"github.com/pable/go-et-stats/internal/metrics"
	"github.com/pable/go-et-stats/internal/reconcile"
	"github.com/pable/go-et-stats/internal/stopwatch"
	"github.com/pable/go-et-stats/internal/teams"
)

// Sink receives every completed session.
type Sink interface {
	StoreSession(ctx context.Context, s *Session) error
}

type Options struct {
	Workers    int
	SessionGap time.Duration
	PairWindow time.Duration
	Metrics    *metrics.Metrics
	// Sink is optional.
	Sink Sink
}

// DefaultOptions matches the configuration defaults.
func DefaultOptions() Options {
	return Options{
		Workers:    4,
		SessionGap: 60 * time.Minute,
		PairWindow: 45 * time.Minute,
	}
}

type Result struct {
	Sessions []*Session
	Failed   []FileError
}

// Run processes paths end to end. Per-file and per-session problems are
// reported on the result and logged; the returned error is only set for
// cancellation or when the sink fails.
func Run(ctx context.Context, opts Options, paths []string) (*Result, error) {
	files, failed, err := DecodeAll(ctx, paths, opts.Workers, opts.Metrics)
	if err != nil {
		return nil, err
	}

	res := &Result{Failed: failed}
	var sinkErrs []error
	for _, s := range GroupSessions(files, opts.SessionGap) {
		if errCtx := ctx.Err(); errCtx != nil {
			return res, errCtx
		}

		ProcessSession(s, opts.PairWindow, opts.Metrics)
		res.Sessions = append(res.Sessions, s)

		if opts.Sink == nil {
			continue
		}
		if errStore := opts.Sink.StoreSession(ctx, s); errStore != nil {
			slog.Error("Failed to store session", slog.String("session", s.ID), log.ErrAttr(errStore))
			sinkErrs = append(sinkErrs, fmt.Errorf("store session %s: %w", s.ID, errStore))
		}
	}

	return res, errors.Join(sinkErrs...)
}

// ProcessSession pairs, reconciles, scores and resolves rosters for one
// session, filling in s.
func ProcessSession(s *Session, window time.Duration, m *metrics.Metrics) {
	s.Maps, s.Orphans = PairRounds(s.Files, window)

	for _, o := range s.Orphans {
		m.Orphan(o.File.Header.Round)
		slog.Warn("Unpaired round file", slog.String("session", s.ID), log.ErrAttr(o.Err))
	}

	for _, p := range s.Maps {
		p.Reconciled = reconcile.Reconcile(p.Round1.Records, p.Round2.Records)
		if n := p.Reconciled.Clamped(); n > 0 {
			m.DeltasClamped(n)
			slog.Warn("Clamped negative round 2 deltas", slog.String("map", p.MapName()),
				slog.String("file", p.Round2.Info.Name), slog.Int("players", n))
		}

		p.Score, p.ScoreErr = stopwatch.Score(p.Round1.Header, p.Round2.Header)
		if p.ScoreErr != nil {
			slog.Error("Failed to score map", slog.String("map", p.MapName()), log.ErrAttr(p.ScoreErr))
			continue
		}
		m.MapScored(p.Score.Outcome.String())
	}

	rounds := make([]teams.RoundSides, 0, len(s.Files))
	for _, f := range s.Files {
		rounds = append(rounds, teams.RoundSides{Key: f.Info.Name, Sides: f.Sides()})
	}
	s.Teams, s.TeamsErr = teams.Resolve(rounds)
	if s.TeamsErr != nil {
		m.AmbiguousRoster()
		slog.Warn("Could not resolve session rosters", slog.String("session", s.ID),
			slog.Int("groups", len(s.Teams.Groups)), log.ErrAttr(s.TeamsErr))
		s.Players = aggregator.Aggregate(s.ID, s.IsolatedRounds(), nil)
		return
	}
	s.Players = aggregator.Aggregate(s.ID, s.IsolatedRounds(), s.Teams.TeamOf)
	if len(s.Teams.Unresolved) > 0 {
		slog.Info("Players without roster", slog.String("session", s.ID), slog.Int("count", len(s.Teams.Unresolved)))
	}

	for _, p := range s.Maps {
		if p.ScoreErr != nil {
			continue
		}
		p.TeamScore, p.Round1TeamID, p.Attributed = AttributeScore(p, s.Teams)
		if !p.Attributed {
			slog.Warn("Could not attribute map score to a roster", slog.String("map", p.MapName()),
				slog.String("file", p.Round1.Info.Name))
		}
	}
}
