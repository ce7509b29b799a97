package library

import (
	"database/sql"
	"fmt"
	"time"
)

// Borrow lends one copy of a book to a member. Preconditions are checked
// in order: the member's active-loan count, then the book's availability.
// The loan insert and the availability decrement commit as one
// transaction so the counter can never drift from the ledger.
//
// Nothing stops a member from borrowing the same title twice, and holding
// overdue loans does not block new ones; both match the upstream rules.
func (d *Database) Borrow(memberID, bookID int64, today time.Time) (int64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("borrow: %w", err)
	}
	defer tx.Rollback()

	var active int
	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM loans WHERE member_id=? AND status=?`, memberID, StatusActive).Scan(&active); err != nil {
		return 0, fmt.Errorf("borrow: count active loans: %w", err)
	}
	if active >= MaxActiveLoansPerMember {
		return 0, ErrLoanLimitExceeded
	}

	var avail int
	err = tx.QueryRow(`SELECT available_copies FROM books WHERE id=?`, bookID).Scan(&avail)
	if err == sql.ErrNoRows || (err == nil && avail <= 0) {
		return 0, ErrBookUnavailable
	}
	if err != nil {
		return 0, fmt.Errorf("borrow: check availability: %w", err)
	}

	due := truncateToDay(today).AddDate(0, 0, LoanPeriodDays)
	res, err := tx.Exec(
		`INSERT INTO loans(member_id,book_id,loan_date,due_date,status) VALUES(?,?,?,?,?)`,
		memberID, bookID, formatDate(today), formatDate(due), StatusActive)
	if err != nil {
		return 0, fmt.Errorf("borrow: insert loan: %w", err)
	}
	loanID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("borrow: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE books SET available_copies = available_copies - 1 WHERE id=?`, bookID); err != nil {
		return 0, fmt.Errorf("borrow: decrement availability: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("borrow: %w", err)
	}
	return loanID, nil
}

// ReturnLoan closes an active loan and puts the copy back on the shelf.
// Returning a loan that is not active fails with ErrAlreadyReturned;
// without that guard a double return would double-increment availability.
// The status update and the increment commit as one transaction.
func (d *Database) ReturnLoan(loanID int64, today time.Time) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("return: %w", err)
	}
	defer tx.Rollback()

	var bookID int64
	var status LoanStatus
	err = tx.QueryRow(`SELECT book_id, status FROM loans WHERE id=?`, loanID).Scan(&bookID, &status)
	if err == sql.ErrNoRows {
		return ErrLoanNotFound
	}
	if err != nil {
		return fmt.Errorf("return: load loan: %w", err)
	}
	if status != StatusActive {
		return ErrAlreadyReturned
	}

	if _, err := tx.Exec(
		`UPDATE loans SET return_date=?, status=? WHERE id=?`,
		formatDate(today), StatusReturned, loanID); err != nil {
		return fmt.Errorf("return: update loan: %w", err)
	}
	if _, err := tx.Exec(
		`UPDATE books SET available_copies = available_copies + 1 WHERE id=?`, bookID); err != nil {
		return fmt.Errorf("return: increment availability: %w", err)
	}

	return tx.Commit()
}

// GetLoan fetches a single loan.
func (d *Database) GetLoan(id int64) (*Loan, error) {
	rows, err := d.db.Query(
		`SELECT id,member_id,book_id,loan_date,due_date,return_date,status FROM loans WHERE id=?`, id)
	if err != nil {
		return nil, fmt.Errorf("get loan: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get loan: %w", err)
		}
		return nil, ErrLoanNotFound
	}
	return scanLoan(rows)
}

// ListActiveForMember returns the member's active loans, most recent
// loan date first.
func (d *Database) ListActiveForMember(memberID int64) ([]*Loan, error) {
	return d.queryLoans(
		`SELECT id,member_id,book_id,loan_date,due_date,return_date,status
         FROM loans WHERE member_id=? AND status=? ORDER BY loan_date DESC, id DESC`,
		memberID, StatusActive)
}

// ListReturnedForMember returns the member's most recently closed loans,
// newest return first, capped at limit.
func (d *Database) ListReturnedForMember(memberID int64, limit int) ([]*Loan, error) {
	return d.queryLoans(
		`SELECT id,member_id,book_id,loan_date,due_date,return_date,status
         FROM loans WHERE member_id=? AND status=? ORDER BY return_date DESC, id DESC LIMIT ?`,
		memberID, StatusReturned, limit)
}

// ListActive returns every active loan joined with member and book
// summaries, most recent loan date first.
func (d *Database) ListActive() ([]*LoanSummary, error) {
	rows, err := d.db.Query(
		`SELECT l.id,l.member_id,l.book_id,l.loan_date,l.due_date,l.return_date,l.status,
                m.name,m.code,b.title,b.author
         FROM loans l
         JOIN members m ON m.id = l.member_id
         JOIN books b ON b.id = l.book_id
         WHERE l.status=? ORDER BY l.loan_date DESC, l.id DESC`, StatusActive)
	if err != nil {
		return nil, fmt.Errorf("list active: %w", err)
	}
	defer rows.Close()

	var out []*LoanSummary
	for rows.Next() {
		var s LoanSummary
		var loanDate, dueDate string
		var returnDate sql.NullString
		if err := rows.Scan(&s.ID, &s.MemberID, &s.BookID, &loanDate, &dueDate, &returnDate,
			&s.Status, &s.MemberName, &s.MemberCode, &s.BookTitle, &s.BookAuthor); err != nil {
			return nil, fmt.Errorf("list active: scan: %w", err)
		}
		if err := fillLoanDates(&s.Loan, loanDate, dueDate, returnDate); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (d *Database) queryLoans(query string, args ...any) ([]*Loan, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var loans []*Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

func scanLoan(rows *sql.Rows) (*Loan, error) {
	var l Loan
	var loanDate, dueDate string
	var returnDate sql.NullString
	if err := rows.Scan(&l.ID, &l.MemberID, &l.BookID, &loanDate, &dueDate, &returnDate, &l.Status); err != nil {
		return nil, fmt.Errorf("scan loan: %w", err)
	}
	if err := fillLoanDates(&l, loanDate, dueDate, returnDate); err != nil {
		return nil, err
	}
	return &l, nil
}

func fillLoanDates(l *Loan, loanDate, dueDate string, returnDate sql.NullString) error {
	var err error
	if l.LoanDate, err = parseDate(loanDate); err != nil {
		return err
	}
	if l.DueDate, err = parseDate(dueDate); err != nil {
		return err
	}
	if returnDate.Valid {
		t, err := parseDate(returnDate.String)
		if err != nil {
			return err
		}
		l.ReturnDate = &t
	}
	return nil
}
