package library

import (
	"fmt"
	"time"
)

// Reporting is read-only: every value here is derived from the loans and
// books tables, nothing is persisted.

// CountBooks returns the number of registered titles.
func (d *Database) CountBooks() (int, error) {
	return d.count(`SELECT COUNT(*) FROM books`)
}

// CountMembers returns the number of registered members.
func (d *Database) CountMembers() (int, error) {
	return d.count(`SELECT COUNT(*) FROM members`)
}

// CountActiveLoans returns the number of loans not yet returned.
func (d *Database) CountActiveLoans() (int, error) {
	return d.count(`SELECT COUNT(*) FROM loans WHERE status=?`, StatusActive)
}

// CountOverdueLoans returns the number of active loans past due on the
// given day.
func (d *Database) CountOverdueLoans(today time.Time) (int, error) {
	return d.count(`SELECT COUNT(*) FROM loans WHERE status=? AND due_date < ?`,
		StatusActive, formatDate(today))
}

// GetStats bundles the dashboard counters.
func (d *Database) GetStats(today time.Time) (*Stats, error) {
	var s Stats
	var err error
	if s.TotalBooks, err = d.CountBooks(); err != nil {
		return nil, err
	}
	if s.TotalMembers, err = d.CountMembers(); err != nil {
		return nil, err
	}
	if s.ActiveLoans, err = d.CountActiveLoans(); err != nil {
		return nil, err
	}
	if s.OverdueLoans, err = d.CountOverdueLoans(today); err != nil {
		return nil, err
	}
	return &s, nil
}

// OverdueReport lists active loans past due on the given day, most days
// overdue first.
func (d *Database) OverdueReport(today time.Time) ([]*OverdueEntry, error) {
	rows, err := d.db.Query(
		`SELECT m.name, m.code, COALESCE(m.program,''), b.title, l.loan_date, l.due_date
         FROM loans l
         JOIN members m ON m.id = l.member_id
         JOIN books b ON b.id = l.book_id
         WHERE l.status=? AND l.due_date < ?
         ORDER BY l.due_date ASC, l.id ASC`, StatusActive, formatDate(today))
	if err != nil {
		return nil, fmt.Errorf("overdue report: %w", err)
	}
	defer rows.Close()

	var report []*OverdueEntry
	for rows.Next() {
		var e OverdueEntry
		var loanDate, dueDate string
		if err := rows.Scan(&e.MemberName, &e.MemberCode, &e.Program, &e.BookTitle, &loanDate, &dueDate); err != nil {
			return nil, fmt.Errorf("overdue report: scan: %w", err)
		}
		if e.LoanDate, err = parseDate(loanDate); err != nil {
			return nil, err
		}
		if e.DueDate, err = parseDate(dueDate); err != nil {
			return nil, err
		}
		// Oldest due date first equals most days overdue first.
		e.DaysOverdue = int(truncateToDay(today).Sub(e.DueDate).Hours() / 24)
		report = append(report, &e)
	}
	return report, rows.Err()
}

// AvailableBooksReport lists books with copies on the shelf, ordered by
// title.
func (d *Database) AvailableBooksReport() ([]*Book, error) {
	return d.GetAvailableBooks()
}

func (d *Database) count(query string, args ...any) (int, error) {
	var n int
	if err := d.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
