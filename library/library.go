package library

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// Library holds the three collections in memory and keeps them in lockstep
// with their backing files: every mutating operation runs under one mutex
// and rewrites the touched collections before returning.
//
// The design assumes a single writing process. Open takes a lock file in
// the data directory so a second process cannot silently clobber the
// collection files.
type Library struct {
	dir  string
	lock *flock.Flock
	log  *slog.Logger

	mu       sync.Mutex
	now      func() time.Time
	students map[string]*Student
	books    map[string]*Book
	records  map[string]*IssueRecord
}

// Option adjusts Library construction.
type Option func(*Library)

// WithLogger routes the library's operational log output.
func WithLogger(log *slog.Logger) Option {
	return func(l *Library) { l.log = log }
}

// WithClock overrides the time source; circulation dates and fines are
// derived from it.
func WithClock(now func() time.Time) Option {
	return func(l *Library) { l.now = now }
}

// Open creates the data directory if needed, acquires the writer lock, and
// loads the student, book, and record collections.
func Open(dir string, opts ...Option) (*Library, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	l := &Library{
		dir: dir,
		log: slog.Default(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	l.lock = flock.New(filepath.Join(dir, "library.lock"))
	held, err := l.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire writer lock: %w", err)
	}
	if !held {
		return nil, errors.New("data directory is in use by another process")
	}

	l.students = loadCollection[Student](l.log, filepath.Join(dir, studentsFile))
	l.books = loadCollection[Book](l.log, filepath.Join(dir, booksFile))
	l.records = loadCollection[IssueRecord](l.log, filepath.Join(dir, recordsFile))
	return l, nil
}

// Close releases the writer lock. In-memory state is already persisted by
// each mutating operation.
func (l *Library) Close() error {
	return l.lock.Unlock()
}

func (l *Library) saveStudents() error {
	return saveCollection(filepath.Join(l.dir, studentsFile), l.students)
}

func (l *Library) saveBooks() error {
	return saveCollection(filepath.Join(l.dir, booksFile), l.books)
}

func (l *Library) saveRecords() error {
	return saveCollection(filepath.Join(l.dir, recordsFile), l.records)
}

func (l *Library) today() string {
	return l.now().Format(DateLayout)
}
