package library

import "time"

// LoanStatus is the lifecycle state of a loan. A loan is created ACTIVE and
// transitions exactly once to RETURNED.
type LoanStatus string

const (
	StatusActive   LoanStatus = "ACTIVE"
	StatusReturned LoanStatus = "RETURNED"
)

// LoanPeriodDays is the fixed loan period: the due date is the loan date
// plus this many days.
const LoanPeriodDays = 7

// MaxActiveLoansPerMember caps how many books a member may hold at once.
const MaxActiveLoansPerMember = 3

// Book represents one title in the catalog. AvailableCopies counts the
// copies currently on the shelf and is never negative.
type Book struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn,omitempty"`
	Year            int    `json:"year,omitempty"`
	AvailableCopies int    `json:"available_copies"`
}

// Available reports whether at least one copy is on the shelf.
func (b *Book) Available() bool { return b.AvailableCopies > 0 }

// Member represents a registered student. Code is the unique membership
// (enrollment) code the student logs in with.
type Member struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Program string `json:"program,omitempty"`
}

// Loan records one copy of one book lent to one member. ReturnDate is set
// if and only if Status is RETURNED.
type Loan struct {
	ID         int64      `json:"id"`
	MemberID   int64      `json:"member_id"`
	BookID     int64      `json:"book_id"`
	LoanDate   time.Time  `json:"loan_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Status     LoanStatus `json:"status"`
}

// LoanSummary is a loan joined with the member and book it references,
// as shown on the administrative views.
type LoanSummary struct {
	Loan
	MemberName string `json:"member_name"`
	MemberCode string `json:"member_code"`
	BookTitle  string `json:"book_title"`
	BookAuthor string `json:"book_author"`
}

// OverdueEntry is one row of the overdue report.
type OverdueEntry struct {
	MemberName  string    `json:"member_name"`
	MemberCode  string    `json:"member_code"`
	Program     string    `json:"program,omitempty"`
	BookTitle   string    `json:"book_title"`
	LoanDate    time.Time `json:"loan_date"`
	DueDate     time.Time `json:"due_date"`
	DaysOverdue int       `json:"days_overdue"`
}

// Administrator is a librarian account. Secret holds the bcrypt hash of
// the password and is never serialized.
type Administrator struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Login  string `json:"login"`
	Secret string `json:"-"`
}

// Stats aggregates the dashboard counters.
type Stats struct {
	TotalBooks   int `json:"total_books"`
	TotalMembers int `json:"total_members"`
	ActiveLoans  int `json:"active_loans"`
	OverdueLoans int `json:"overdue_loans"`
}

// IsOverdue reports whether the loan is active and past due on the given
// day. Dates compare at day granularity.
func IsOverdue(l *Loan, today time.Time) bool {
	return l.Status == StatusActive && l.DueDate.Before(truncateToDay(today))
}

// DaysOverdue returns the number of whole days the loan is past due, or 0
// if it is not overdue.
func DaysOverdue(l *Loan, today time.Time) int {
	if !IsOverdue(l, today) {
		return 0
	}
	return int(truncateToDay(today).Sub(l.DueDate).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
