package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// setupTestDB creates a test database loaded with testRecords.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.RebuildFromRecords(testRecords()); err != nil {
		t.Fatalf("Failed to rebuild DB: %v", err)
	}
	return db
}

func TestOpenDB_CreatesSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("OpenDB() did not create database file")
	}
	count, err := db.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0", count)
	}
}

func TestDB_RebuildReplacesContents(t *testing.T) {
	db := setupTestDB(t)

	count, err := db.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}

	n, err := db.RebuildFromRecords(testRecords()[:1])
	if err != nil {
		t.Fatalf("RebuildFromRecords() error = %v", err)
	}
	if n != 1 {
		t.Errorf("RebuildFromRecords() = %d, want 1", n)
	}
	count, _ = db.Count()
	if count != 1 {
		t.Errorf("Count() after rebuild = %d, want 1", count)
	}
}

func TestDB_RebuildFromJSONL(t *testing.T) {
	db := setupTestDB(t)
	path := filepath.Join(t.TempDir(), "records.jsonl")
	if err := WriteAll(path, testRecords()[1:]); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}

	n, err := db.RebuildFromJSONL(path)
	if err != nil {
		t.Fatalf("RebuildFromJSONL() error = %v", err)
	}
	if n != 2 {
		t.Errorf("RebuildFromJSONL() = %d, want 2", n)
	}
}

func TestDB_GetByDOI(t *testing.T) {
	db := setupTestDB(t)
	want := testRecords()[1]

	got, err := db.GetByDOI(want.DOI)
	if err != nil {
		t.Fatalf("GetByDOI() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetByDOI() returned nil")
	}
	if diff := cmp.Diff(want, *got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("GetByDOI() mismatch (-want +got):\n%s", diff)
	}

	missing, err := db.GetByDOI("10.9999/none")
	if err != nil {
		t.Fatalf("GetByDOI() error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetByDOI() = %+v, want nil", missing)
	}
}

func TestDB_SearchAbstracts(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{"all terms in order", "calibration model", 0, []string{"10.1016/j.trc.2021.1", "10.1016/j.trb.2019.3"}},
		{"case insensitive", "CALIBRATION Model", 0, []string{"10.1016/j.trc.2021.1", "10.1016/j.trb.2019.3"}},
		{"missing term", "calibration xyz", 0, nil},
		{"substring", "surv", 0, []string{"10.1016/j.tra.2020.2"}},
		{"empty matches all", "", 0, []string{"10.1016/j.trc.2021.1", "10.1016/j.tra.2020.2", "10.1016/j.trb.2019.3"}},
		{"limit", "calibration", 1, []string{"10.1016/j.trc.2021.1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := db.SearchAbstracts(tt.query, tt.limit)
			if err != nil {
				t.Fatalf("SearchAbstracts() error = %v", err)
			}
			var got []string
			for _, r := range records {
				got = append(got, r.DOI)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SearchAbstracts(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestDB_TopicStats(t *testing.T) {
	db := setupTestDB(t)

	got, err := db.TopicStats()
	if err != nil {
		t.Fatalf("TopicStats() error = %v", err)
	}
	want := []TopicStat{
		{Topic: "Traffic flow", Total: 2, CodeAvailable: 2, DataAvailable: 1, OpenAccess: 1},
		{Topic: "Travel behavior", Total: 1, CodeAvailable: 0, DataAvailable: 1, OpenAccess: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TopicStats() mismatch (-want +got):\n%s", diff)
	}
}
