package storage

import (
	"testing"
	"time"

	"github.com/marzoli/go-cmdr-stats/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleGame(winner string) model.Game {
	return model.Game{
		PlayedAt:   time.Date(2026, 8, 20, 21, 0, 0, 0, time.UTC),
		WinnerName: winner,
		Notes:      "weekly pod",
		Entries: []model.GameEntry{
			{Player: "Ale", Commander: "Atraxa", Tier: model.TierOf(4)},
			{Player: "Bea", Commander: "Krenko", Tier: model.TierOf(2)},
			{Player: "Carlo", Commander: "Sisay"},
		},
	}
}

func TestInsertAndLoadSnapshot(t *testing.T) {
	db := openMemDB(t)

	id, err := db.InsertGame(sampleGame("Ale"))
	if err != nil {
		t.Fatalf("InsertGame: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero game id")
	}

	games, err := db.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}
	g := games[0]
	if g.WinnerName != "Ale" || g.Notes != "weekly pod" {
		t.Errorf("game round trip: %+v", g)
	}
	if len(g.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(g.Entries))
	}
	if g.Entries[0].Player != "Ale" || !g.Entries[0].Tier.Known || g.Entries[0].Tier.Level != 4 {
		t.Errorf("first entry round trip: %+v", g.Entries[0])
	}
	// The bracketless entry must come back as an unknown tier, not zero.
	if g.Entries[2].Tier.Known {
		t.Errorf("expected unknown tier, got %+v", g.Entries[2].Tier)
	}
	if !g.PlayedAt.Equal(time.Date(2026, 8, 20, 21, 0, 0, 0, time.UTC)) {
		t.Errorf("played_at round trip: %v", g.PlayedAt)
	}
}

func TestWinnerlessGameRoundTrip(t *testing.T) {
	db := openMemDB(t)

	if _, err := db.InsertGame(sampleGame("")); err != nil {
		t.Fatalf("InsertGame: %v", err)
	}
	games, err := db.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if games[0].WinnerName != "" {
		t.Errorf("expected empty winner, got %q", games[0].WinnerName)
	}
}

func TestListGamesNewestFirst(t *testing.T) {
	db := openMemDB(t)

	older := sampleGame("Ale")
	older.PlayedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := sampleGame("Bea")
	newer.PlayedAt = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	if _, err := db.InsertGame(older); err != nil {
		t.Fatalf("insert older: %v", err)
	}
	if _, err := db.InsertGame(newer); err != nil {
		t.Fatalf("insert newer: %v", err)
	}

	list, err := db.ListGames()
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 games, got %d", len(list))
	}
	if list[0].WinnerName != "Bea" {
		t.Errorf("expected newest game first, got winner %q", list[0].WinnerName)
	}
	if list[0].TableSize != 3 {
		t.Errorf("table size = %d, want 3", list[0].TableSize)
	}
}

func TestDeleteGameRemovesEntries(t *testing.T) {
	db := openMemDB(t)

	id, err := db.InsertGame(sampleGame("Ale"))
	if err != nil {
		t.Fatalf("InsertGame: %v", err)
	}

	deleted, err := db.DeleteGame(id)
	if err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if !deleted {
		t.Fatal("expected the game to be deleted")
	}

	games, err := db.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(games) != 0 {
		t.Errorf("expected empty snapshot after delete, got %d games", len(games))
	}
	var orphans int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM gameentry`).Scan(&orphans); err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if orphans != 0 {
		t.Errorf("expected 0 orphan entries, got %d", orphans)
	}
}

func TestDeleteMissingGame(t *testing.T) {
	db := openMemDB(t)
	deleted, err := db.DeleteGame(12345)
	if err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if deleted {
		t.Error("expected no deletion for unknown id")
	}
}

func TestGetOverview(t *testing.T) {
	db := openMemDB(t)

	g1 := sampleGame("Ale")
	g2 := sampleGame("Bea")
	g2.PlayedAt = g1.PlayedAt.AddDate(0, 0, 7)
	if _, err := db.InsertGame(g1); err != nil {
		t.Fatalf("insert g1: %v", err)
	}
	if _, err := db.InsertGame(g2); err != nil {
		t.Fatalf("insert g2: %v", err)
	}

	ov, err := db.GetOverview()
	if err != nil {
		t.Fatalf("GetOverview: %v", err)
	}
	if ov.Games != 2 || ov.Entries != 6 {
		t.Errorf("overview counts: %+v", ov)
	}
	if ov.Players != 3 || ov.Commanders != 3 {
		t.Errorf("distinct counts: %+v", ov)
	}
	if ov.Earliest == "" || ov.Latest == "" || ov.Earliest > ov.Latest {
		t.Errorf("date range: %q → %q", ov.Earliest, ov.Latest)
	}
}
