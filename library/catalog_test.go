package library

import (
	"errors"
	"testing"
)

func TestAddBookSetsAllCopiesAvailable(t *testing.T) {
	lib := tempLibrary(t)

	id, err := lib.AddBook("Dune", "Herbert", 3)
	if err != nil {
		t.Fatalf("add book: %v", err)
	}
	book, err := lib.Book(id)
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if book.TotalCopies != 3 || book.AvailableCopies != 3 {
		t.Fatalf("want 3/3 copies, got %d/%d", book.AvailableCopies, book.TotalCopies)
	}
}

func TestAddStudentRequiredFields(t *testing.T) {
	lib := tempLibrary(t)

	cases := []struct {
		name, enroll, password string
	}{
		{"", "EN-1", "pw"},
		{"Alice", "", "pw"},
		{"Alice", "EN-1", ""},
	}
	for _, tc := range cases {
		_, err := lib.AddStudent(tc.name, tc.enroll, "CS", "a@example.com", tc.password)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("want ValidationError for %+v, got %v", tc, err)
		}
	}
	if got := len(lib.Students()); got != 0 {
		t.Fatalf("no students should exist after failed adds, got %d", got)
	}
}

func TestDuplicateEnrollmentRejected(t *testing.T) {
	lib := tempLibrary(t)

	if _, err := lib.AddStudent("Alice", "EN-1", "CS", "alice@example.com", "pw"); err != nil {
		t.Fatalf("first add: %v", err)
	}
	_, err := lib.AddStudent("Bob", "EN-1", "Math", "bob@example.com", "pw")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError for duplicate enrollment, got %v", err)
	}

	// The failed add must not consume an id.
	id, err := lib.AddStudent("Carol", "EN-2", "Math", "carol@example.com", "pw")
	if err != nil {
		t.Fatalf("third add: %v", err)
	}
	if id != 2 {
		t.Fatalf("want next id 2 after failed add, got %d", id)
	}
}

func TestSearchBooksFilterAndQuery(t *testing.T) {
	lib := tempLibrary(t)

	sid, _ := lib.AddStudent("Alice", "EN-1", "CS", "alice@example.com", "pw")
	dune, _ := lib.AddBook("Dune", "Frank Herbert", 2)
	lib.AddBook("Emma", "Jane Austen", 1)
	hobbit, _ := lib.AddBook("The Hobbit", "Tolkien", 1)

	// Take every Hobbit copy out and one Dune copy.
	if _, err := lib.Issue(sid, hobbit); err != nil {
		t.Fatalf("issue hobbit: %v", err)
	}
	if _, err := lib.Issue(sid, dune); err != nil {
		t.Fatalf("issue dune: %v", err)
	}

	all := lib.SearchBooks("", FilterAll)
	if len(all) != 3 {
		t.Fatalf("all: want 3 books, got %d", len(all))
	}

	available := lib.SearchBooks("", FilterAvailableOnly)
	if len(available) != 2 {
		t.Fatalf("available: want 2 books, got %d", len(available))
	}
	for _, b := range available {
		if b.AvailableCopies <= 0 {
			t.Fatalf("available filter leaked %q", b.Title)
		}
	}

	issued := lib.SearchBooks("", FilterIssuedOnly)
	if len(issued) != 2 {
		t.Fatalf("issued: want 2 books, got %d", len(issued))
	}

	// Query is case-insensitive and applies after the filter.
	byAuthor := lib.SearchBooks("herbert", FilterIssuedOnly)
	if len(byAuthor) != 1 || byAuthor[0].ID != dune {
		t.Fatalf("query+filter: want only Dune, got %+v", byAuthor)
	}
	if got := lib.SearchBooks("austen", FilterIssuedOnly); len(got) != 0 {
		t.Fatalf("filter must apply before query, got %+v", got)
	}
}

func TestLookupUnknownIDs(t *testing.T) {
	lib := tempLibrary(t)

	var nf *NotFoundError
	if _, err := lib.Student(42); !errors.As(err, &nf) || nf.Kind != "student" {
		t.Fatalf("want student NotFoundError, got %v", err)
	}
	if _, err := lib.Book(42); !errors.As(err, &nf) || nf.Kind != "book" {
		t.Fatalf("want book NotFoundError, got %v", err)
	}
}
