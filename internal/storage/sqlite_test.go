package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustSave(t *testing.T, store *Store, r Result) {
	t.Helper()
	if _, err := store.SaveResult(r); err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	mustSave(t, store, Result{Player: "alice", Seed: 1, Lines: 12, Pieces: 40, TSpins: 1, ToppedOut: true, Duration: 1500 * time.Millisecond})
	mustSave(t, store, Result{Player: "alice", Seed: 2, Lines: 30, Pieces: 90})
	mustSave(t, store, Result{Player: "alice", Seed: 3, Lines: 5, Pieces: 20, ToppedOut: true})
	mustSave(t, store, Result{Player: "random", Seed: 4, Lines: 2, Pieces: 25, ToppedOut: true})

	results, err := store.TopResults("alice", 10)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	if results[0].Lines != 30 || results[1].Lines != 12 || results[2].Lines != 5 {
		t.Errorf("Results not sorted by lines: %v", results)
	}

	r := results[1]
	if r.Seed != 1 || r.Pieces != 40 || r.TSpins != 1 || !r.ToppedOut {
		t.Errorf("Result fields not preserved: %+v", r)
	}
	if r.Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %v, expected 1.5s", r.Duration)
	}
	if r.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}
	if results[0].ToppedOut {
		t.Error("ToppedOut should be false for the unfinished game")
	}

	all, err := store.TopResults("", 10)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("Expected 4 results across players, got %d", len(all))
	}
}

func TestStoreTopResultsLimitAndTies(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		mustSave(t, store, Result{Player: "bot", Seed: int64(i), Lines: (i + 1) * 10, Pieces: 100})
	}
	mustSave(t, store, Result{Player: "bot", Seed: 99, Lines: 50, Pieces: 60})

	results, err := store.TopResults("bot", 3)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results with limit, got %d", len(results))
	}

	// Equal lines: fewer pieces first.
	if results[0].Seed != 99 || results[1].Seed != 4 || results[2].Lines != 40 {
		t.Errorf("Results not in expected order: %v", results)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("alice")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for new player, got %d", high)
	}

	mustSave(t, store, Result{Player: "alice", Lines: 10})
	mustSave(t, store, Result{Player: "alice", Lines: 30})
	mustSave(t, store, Result{Player: "bob", Lines: 90})

	high, err = store.HighScore("alice")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 30 {
		t.Errorf("Expected high score of 30, got %d", high)
	}

	high, err = store.HighScore("")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 90 {
		t.Errorf("Expected overall high score of 90, got %d", high)
	}
}

func TestStoreSaveRequiresPlayer(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveResult(Result{Lines: 3}); err == nil {
		t.Error("SaveResult() without player should fail")
	}
}

func TestStoreClearResults(t *testing.T) {
	store := openTestStore(t)

	mustSave(t, store, Result{Player: "alice", Lines: 1})
	mustSave(t, store, Result{Player: "alice", Lines: 2})
	mustSave(t, store, Result{Player: "bob", Lines: 3})

	if err := store.ClearResults("alice"); err != nil {
		t.Fatalf("ClearResults() failed: %v", err)
	}

	alice, _ := store.TopResults("alice", 10)
	if len(alice) != 0 {
		t.Errorf("Expected 0 results after clear, got %d", len(alice))
	}

	bob, _ := store.TopResults("bob", 10)
	if len(bob) != 1 {
		t.Error("Other players should not be affected by clearing alice")
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("Expected no stats for empty store, got %d", len(stats))
	}

	mustSave(t, store, Result{Player: "alice", Lines: 10})
	mustSave(t, store, Result{Player: "alice", Lines: 20})
	mustSave(t, store, Result{Player: "bob", Lines: 40})

	stats, err = store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected 2 players, got %d", len(stats))
	}

	if stats[0].Player != "bob" || stats[0].BestLines != 40 {
		t.Errorf("stats[0] = %+v, expected bob with 40 lines", stats[0])
	}
	alice := stats[1]
	if alice.Games != 2 || alice.BestLines != 20 || alice.TotalLines != 30 || alice.AvgLines != 15 {
		t.Errorf("alice stats = %+v", alice)
	}
}
