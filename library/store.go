package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// Backing file per collection, each holding a JSON object that maps the
// decimal id string to the record.
const (
	studentsFile = "students.json"
	booksFile    = "books.json"
	recordsFile  = "records.json"
)

// loadCollection reads a collection file into a map keyed by decimal id
// strings. A missing file is a normal first run and yields an empty map; a
// file that fails to parse is downgraded to an empty map as well, with a
// warning, so a damaged deployment still starts.
func loadCollection[T any](log *slog.Logger, path string) map[string]*T {
	out := make(map[string]*T)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn("collection unreadable, starting empty", "path", path, "error", err)
		}
		return out
	}
	if err := json.Unmarshal(data, &out); err != nil {
		log.Warn("collection corrupt, starting empty", "path", path, "error", err)
		return make(map[string]*T)
	}
	// A null value parses but carries no record; keep the rest of the
	// collection and treat the entry itself as corrupt.
	for key, value := range out {
		if value == nil {
			log.Warn("collection entry corrupt, dropping", "path", path, "key", key)
			delete(out, key)
		}
	}
	return out
}

// saveCollection rewrites the whole collection file. The snapshot goes to a
// temp file in the same directory first and is renamed into place, so a
// crash mid-write leaves the previous snapshot intact.
func saveCollection[T any](path string, items map[string]*T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// nextID allocates the next identifier for a collection: one past the
// highest numeric key, or 1 for an empty collection. Non-numeric keys are
// ignored. Identifiers are never reused.
func nextID[T any](items map[string]*T) int {
	highest := 0
	for key := range items {
		n, err := strconv.Atoi(key)
		if err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}
