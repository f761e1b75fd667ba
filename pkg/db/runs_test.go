package db

import (
	"testing"
	"time"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func TestInsertRun_And_ListRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	id1, err := db.InsertRun("nes", "all")
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	id2, err := db.InsertRun("snes", "3")
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	if id2 <= id1 {
		t.Errorf("run ids not increasing: %d then %d", id1, id2)
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	// Newest first.
	if runs[0].Console != "snes" || runs[0].PageSelector != "3" {
		t.Errorf("runs[0] = %+v, want the snes run", runs[0])
	}
}

func TestFinishRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.InsertRun("nes", "all")
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	if err := db.FinishRun(runID, 42, 40, 2, 90*time.Second); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	runs, err := db.ListRuns(1)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	r := runs[0]
	if r.TotalRecords != 42 || r.NewRecords != 40 || r.FailedRecords != 2 {
		t.Errorf("counters = %d/%d/%d, want 42/40/2", r.TotalRecords, r.NewRecords, r.FailedRecords)
	}
	if r.Duration != 90 {
		t.Errorf("Duration = %v, want 90", r.Duration)
	}
}

func TestInsertPageFetch_And_GetRunPages(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.InsertRun("nes", "all")
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	pages := []struct {
		page, records, newCount int
		status                  string
	}{
		{1, 25, 25, StatusFetched},
		{2, 25, 24, StatusFetched},
		{3, 25, 0, StatusRepeat},
	}
	for _, p := range pages {
		if err := db.InsertPageFetch(runID, p.page, p.records, p.newCount, p.status); err != nil {
			t.Fatalf("InsertPageFetch() error = %v", err)
		}
	}

	fetches, err := db.GetRunPages(runID)
	if err != nil {
		t.Fatalf("GetRunPages() error = %v", err)
	}
	if len(fetches) != 3 {
		t.Fatalf("len(fetches) = %d, want 3", len(fetches))
	}
	if fetches[2].Status != StatusRepeat || fetches[2].NewCount != 0 {
		t.Errorf("fetches[2] = %+v, want repeat with 0 new", fetches[2])
	}
}

func TestGetRunPages_CascadeScopedToRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	run1, _ := db.InsertRun("nes", "1")
	run2, _ := db.InsertRun("gb", "1")
	_ = db.InsertPageFetch(run1, 1, 10, 10, StatusFetched)
	_ = db.InsertPageFetch(run2, 1, 5, 5, StatusFetched)

	fetches, err := db.GetRunPages(run1)
	if err != nil {
		t.Fatalf("GetRunPages() error = %v", err)
	}
	if len(fetches) != 1 || fetches[0].RecordCount != 10 {
		t.Errorf("fetches = %+v, want only run1's page", fetches)
	}
}
