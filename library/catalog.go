package library

import (
	"sort"
	"strconv"
	"strings"
)

// AddStudent registers a new student and returns the allocated id. Name,
// enrollment number, and password are required; the enrollment number must
// be unique across all students.
func (l *Library) AddStudent(name, enrollmentNo, course, email, password string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if strings.TrimSpace(name) == "" || strings.TrimSpace(enrollmentNo) == "" || strings.TrimSpace(password) == "" {
		return 0, &ValidationError{Reason: "name, enrollment number and password are required"}
	}
	for _, s := range l.students {
		if s.EnrollmentNo == enrollmentNo {
			return 0, &ValidationError{Reason: "enrollment number must be unique"}
		}
	}

	id := nextID(l.students)
	l.students[strconv.Itoa(id)] = &Student{
		ID:           id,
		Name:         name,
		EnrollmentNo: enrollmentNo,
		Course:       course,
		Email:        email,
		Password:     password,
	}
	if err := l.saveStudents(); err != nil {
		return 0, err
	}
	l.log.Info("student added", "id", id, "enrollment_no", enrollmentNo)
	return id, nil
}

// AddBook adds a title with totalCopies copies, all initially available,
// and returns the allocated id. Callers enforce totalCopies >= 1.
func (l *Library) AddBook(title, author string, totalCopies int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := nextID(l.books)
	l.books[strconv.Itoa(id)] = &Book{
		ID:              id,
		Title:           title,
		Author:          author,
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
	}
	if err := l.saveBooks(); err != nil {
		return 0, err
	}
	l.log.Info("book added", "id", id, "title", title, "copies", totalCopies)
	return id, nil
}

// SearchBooks returns the books passing the filter whose title or author
// contains query case-insensitively. An empty query keeps every book the
// filter passes. Results are ordered by id.
func (l *Library) SearchBooks(query string, filter BookFilter) []Book {
	l.mu.Lock()
	defer l.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	var out []Book
	for _, b := range l.books {
		switch filter {
		case FilterAvailableOnly:
			if b.AvailableCopies <= 0 {
				continue
			}
		case FilterIssuedOnly:
			if b.AvailableCopies >= b.TotalCopies {
				continue
			}
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(b.Title), needle) &&
			!strings.Contains(strings.ToLower(b.Author), needle) {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Books returns the whole catalog ordered by id.
func (l *Library) Books() []Book {
	return l.SearchBooks("", FilterAll)
}

// Students returns all students ordered by id.
func (l *Library) Students() []Student {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Student, 0, len(l.students))
	for _, s := range l.students {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Student looks up one student by id.
func (l *Library) Student(id int) (Student, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.students[strconv.Itoa(id)]
	if !ok {
		return Student{}, &NotFoundError{Kind: "student", ID: id}
	}
	return *s, nil
}

// Book looks up one book by id.
func (l *Library) Book(id int) (Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.books[strconv.Itoa(id)]
	if !ok {
		return Book{}, &NotFoundError{Kind: "book", ID: id}
	}
	return *b, nil
}
