package library

import (
	"sort"
	"strconv"
)

// RecordRow is an issue record joined with the student name and book title
// for display. A dangling reference renders as an empty string rather than
// an error.
type RecordRow struct {
	RecordID    int
	StudentID   int
	StudentName string
	BookID      int
	BookTitle   string
	IssueDate   string
	ReturnDate  string
	Fine        int
}

func (l *Library) joinRecord(rec *IssueRecord) RecordRow {
	row := RecordRow{
		RecordID:  rec.ID,
		StudentID: rec.StudentID,
		BookID:    rec.BookID,
		IssueDate: rec.IssueDate,
		Fine:      rec.Fine,
	}
	if rec.ReturnDate != nil {
		row.ReturnDate = *rec.ReturnDate
	}
	if s, ok := l.students[strconv.Itoa(rec.StudentID)]; ok {
		row.StudentName = s.Name
	}
	if b, ok := l.books[strconv.Itoa(rec.BookID)]; ok {
		row.BookTitle = b.Title
	}
	return row
}

// Records returns every issue record joined for display, newest record id
// first.
func (l *Library) Records() []RecordRow {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]RecordRow, 0, len(l.records))
	for _, rec := range l.records {
		out = append(out, l.joinRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordID > out[j].RecordID })
	return out
}

// StudentRecords returns the joined records belonging to one student,
// newest record id first.
func (l *Library) StudentRecords(studentID int) []RecordRow {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []RecordRow
	for _, rec := range l.records {
		if rec.StudentID == studentID {
			out = append(out, l.joinRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordID > out[j].RecordID })
	return out
}
