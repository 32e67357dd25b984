package library

import (
	"fmt"
	"strconv"
	"time"
)

// Late-fee policy: a flat per-day rate past a grace window.
const (
	graceDays  = 7
	finePerDay = 10
)

// Issue lends one copy of a book to a student. It allocates a new issue
// record dated today, decrements the book's available copies, and persists
// both collections. Fails with NotFoundError for an unknown student or
// book, and with ErrUnavailable when no copies are left; those checks
// leave no trace. A failed records write rolls the mutation back so a
// retry starts clean; a books write failing after the record landed leaves
// the shelf count pending its next persist.
func (l *Library) Issue(studentID, bookID int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.students[strconv.Itoa(studentID)]; !ok {
		return 0, &NotFoundError{Kind: "student", ID: studentID}
	}
	book, ok := l.books[strconv.Itoa(bookID)]
	if !ok {
		return 0, &NotFoundError{Kind: "book", ID: bookID}
	}
	if book.AvailableCopies <= 0 {
		return 0, ErrUnavailable
	}

	id := nextID(l.records)
	l.records[strconv.Itoa(id)] = &IssueRecord{
		ID:        id,
		StudentID: studentID,
		BookID:    bookID,
		IssueDate: l.today(),
	}
	book.AvailableCopies--

	if err := l.saveRecords(); err != nil {
		delete(l.records, strconv.Itoa(id))
		book.AvailableCopies++
		return 0, err
	}
	if err := l.saveBooks(); err != nil {
		return 0, err
	}
	l.log.Info("book issued", "record", id, "student", studentID, "book", bookID)
	return id, nil
}

// Return closes an issue record: it computes the fine from the calendar-day
// difference between issue and today, stamps the return date, puts the copy
// back on the shelf if the book still exists, and persists both
// collections. Fails with NotFoundError for an unknown record and with
// ErrAlreadyReturned for a closed one; the record is never modified twice.
// A failed records write rolls the close back so a retry starts clean.
func (l *Library) Return(recordID int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[strconv.Itoa(recordID)]
	if !ok {
		return 0, &NotFoundError{Kind: "record", ID: recordID}
	}
	if rec.Returned() {
		return 0, ErrAlreadyReturned
	}

	issued, err := time.Parse(DateLayout, rec.IssueDate)
	if err != nil {
		return 0, fmt.Errorf("parse issue date of record %d: %w", recordID, err)
	}
	today := l.today()
	current, _ := time.Parse(DateLayout, today)
	days := int(current.Sub(issued).Hours() / 24)

	fine := 0
	if days > graceDays {
		fine = (days - graceDays) * finePerDay
	}
	rec.ReturnDate = &today
	rec.Fine = fine

	// A record whose book has since vanished still closes normally; only
	// the shelf count update is skipped.
	book, hasBook := l.books[strconv.Itoa(rec.BookID)]
	if hasBook {
		book.AvailableCopies++
	}

	if err := l.saveRecords(); err != nil {
		rec.ReturnDate = nil
		rec.Fine = 0
		if hasBook {
			book.AvailableCopies--
		}
		return 0, err
	}
	if err := l.saveBooks(); err != nil {
		return 0, err
	}
	l.log.Info("book returned", "record", recordID, "days_out", days, "fine", fine)
	return fine, nil
}
