package library

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	got := loadCollection[Book](discardLogger(), filepath.Join(t.TempDir(), "books.json"))
	if len(got) != 0 {
		t.Fatalf("want empty collection, got %d entries", len(got))
	}
}

func TestLoadCorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := loadCollection[Book](discardLogger(), path)
	if len(got) != 0 {
		t.Fatalf("want empty collection for corrupt file, got %d entries", len(got))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	books := map[string]*Book{
		"1": {ID: 1, Title: "Dune", Author: "Herbert", TotalCopies: 2, AvailableCopies: 2},
	}
	if err := saveCollection(path, books); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := loadCollection[Book](discardLogger(), path)
	if len(got) != 1 {
		t.Fatalf("want 1 entry, got %d", len(got))
	}
	if got["1"].Title != "Dune" || got["1"].AvailableCopies != 2 {
		t.Fatalf("round trip mismatch: %+v", got["1"])
	}
}

func TestNextID(t *testing.T) {
	if id := nextID(map[string]*Book{}); id != 1 {
		t.Fatalf("empty collection: want 1, got %d", id)
	}
	sparse := map[string]*IssueRecord{"1": {}, "2": {}, "5": {}}
	if id := nextID(sparse); id != 6 {
		t.Fatalf("sparse keys: want 6, got %d", id)
	}
	mixed := map[string]*Book{"3": {}, "bogus": {}}
	if id := nextID(mixed); id != 4 {
		t.Fatalf("non-numeric key ignored: want 4, got %d", id)
	}
}

func TestLoadDropsNullEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	content := `{"1": null, "2": {"id": 2, "title": "Emma", "author": "Austen", "total_copies": 1, "available_copies": 1}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := loadCollection[Book](discardLogger(), path)
	if len(got) != 1 {
		t.Fatalf("want the null entry dropped, got %d entries", len(got))
	}
	if got["2"] == nil || got["2"].Title != "Emma" {
		t.Fatalf("valid entry lost: %+v", got)
	}
}

// TestNullRecordEntryDoesNotPanicViews loads a collection whose only entry
// is a JSON null and checks the read paths stay usable.
func TestNullRecordEntryDoesNotPanicViews(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, recordsFile), []byte(`{"1": null}`), 0o644); err != nil {
		t.Fatalf("write records: %v", err)
	}

	lib, err := Open(dir, WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer lib.Close()

	if rows := lib.Records(); len(rows) != 0 {
		t.Fatalf("want no rows from dropped entry, got %d", len(rows))
	}
	if rows := lib.StudentRecords(1); len(rows) != 0 {
		t.Fatalf("want no student rows from dropped entry, got %d", len(rows))
	}

	sid, _ := lib.AddStudent("Alice", "EN-1", "CS", "alice@example.com", "pw")
	bid, _ := lib.AddBook("Dune", "Herbert", 1)
	if _, err := lib.Issue(sid, bid); err != nil {
		t.Fatalf("issue after dropped entry: %v", err)
	}
	if _, err := lib.Return(1); err != nil {
		t.Fatalf("return after dropped entry: %v", err)
	}
}

// TestPersistedRecordShape pins the on-disk format: decimal string keys,
// YYYY-MM-DD dates, and null for a pending return date.
func TestPersistedRecordShape(t *testing.T) {
	dir := t.TempDir()
	lib, err := Open(dir, WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer lib.Close()
	setDate(lib, mustDate(t, "2024-01-01"))

	sid, _ := lib.AddStudent("Alice", "EN-1", "CS", "alice@example.com", "pw")
	bid, _ := lib.AddBook("Dune", "Herbert", 1)
	if _, err := lib.Issue(sid, bid); err != nil {
		t.Fatalf("issue: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, recordsFile))
	if err != nil {
		t.Fatalf("read records file: %v", err)
	}
	var onDisk map[string]map[string]any
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatalf("parse records file: %v", err)
	}

	rec, ok := onDisk["1"]
	if !ok {
		t.Fatalf("record not keyed by decimal id string: %v", onDisk)
	}
	if rec["issue_date"] != "2024-01-01" {
		t.Fatalf("issue_date = %v", rec["issue_date"])
	}
	if rec["return_date"] != nil {
		t.Fatalf("pending return_date should be null, got %v", rec["return_date"])
	}
}
