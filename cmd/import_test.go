package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/pable/go-et-stats/internal/model"
	"github.com/pable/go-et-stats/internal/pipeline"
	"github.com/pable/go-et-stats/internal/storage"
)

func testSession(hashes ...string) *pipeline.Session {
	at := time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC)
	var files []*model.RoundFile
	for i, h := range hashes {
		files = append(files, &model.RoundFile{
			Hash: h,
			Info: model.FileInfo{Name: h, PlayedAt: at.Add(time.Duration(i) * time.Minute), Date: "2025-03-14", MapName: "radar", Round: 1},
			Header: model.MatchHeader{MapName: "radar", Round: 1, DefenderSide: model.SideAllies,
				WinnerSide: model.SideAllies, TimeLimit: 10 * time.Minute, ActualTime: 10 * time.Minute},
		})
	}
	s := pipeline.GroupSessions(files, time.Hour)[0]
	pipeline.ProcessSession(s, 45*time.Minute, nil)
	return s
}

func TestStoreNewSessionsSkipsKnown(t *testing.T) {
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	sink := &storeNewSessions{db: db}
	if err := sink.StoreSession(ctx, testSession("h1")); err != nil {
		t.Fatalf("StoreSession: %v", err)
	}
	if err := sink.StoreSession(ctx, testSession("h1")); err != nil {
		t.Fatalf("StoreSession: %v", err)
	}
	if len(sink.stored) != 1 || len(sink.skipped) != 1 {
		t.Errorf("stored/skipped = %v/%v, want one each", sink.stored, sink.skipped)
	}

	// A new file in the session makes it worth storing again.
	if err := sink.StoreSession(ctx, testSession("h1", "h2")); err != nil {
		t.Fatalf("StoreSession: %v", err)
	}
	if len(sink.stored) != 2 {
		t.Errorf("expected session with a new file to be stored, got %v", sink.stored)
	}

	forced := &storeNewSessions{db: db, force: true}
	if err := forced.StoreSession(ctx, testSession("h1", "h2")); err != nil {
		t.Fatalf("StoreSession: %v", err)
	}
	if len(forced.stored) != 1 {
		t.Errorf("--force should store known sessions, got %v", forced.stored)
	}
}

func TestFilterRounds(t *testing.T) {
	rows := []model.StoredPlayerRound{
		{Record: model.RoundRecord{GUID: "P1"}},
		{Record: model.RoundRecord{GUID: "P2"}},
	}
	if got := filterRounds(rows, ""); len(got) != 2 {
		t.Errorf("empty filter kept %d rows, want 2", len(got))
	}
	got := filterRounds(rows, "P2")
	if len(got) != 1 || got[0].Record.GUID != "P2" {
		t.Errorf("filter P2 = %+v", got)
	}
}
