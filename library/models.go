package library

// DateLayout is the calendar-date format used in the persisted JSON files.
const DateLayout = "2006-01-02"

// Student is a registered borrower. The enrollment number is the
// human-assigned identifier and is unique across students; ID is the
// internal numeric key.
type Student struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	EnrollmentNo string `json:"enrollment_no"`
	Course       string `json:"course"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

// Book tracks a title and its copy inventory. AvailableCopies always stays
// within [0, TotalCopies]; issue decrements it, return increments it.
type Book struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
}

// IssueRecord is one borrowing of one copy. ReturnDate is nil while the
// copy is out and is set exactly once, together with the fine, when the
// copy comes back.
type IssueRecord struct {
	ID         int     `json:"id"`
	StudentID  int     `json:"student_id"`
	BookID     int     `json:"book_id"`
	IssueDate  string  `json:"issue_date"`
	ReturnDate *string `json:"return_date"`
	Fine       int     `json:"fine"`
}

// Returned reports whether the record has reached its terminal state.
func (r *IssueRecord) Returned() bool { return r.ReturnDate != nil }

// BookFilter selects a subset of the catalog for search and listing.
type BookFilter int

const (
	FilterAll BookFilter = iota
	// FilterAvailableOnly keeps books with at least one copy on the shelf.
	FilterAvailableOnly
	// FilterIssuedOnly keeps books with at least one copy out.
	FilterIssuedOnly
)
