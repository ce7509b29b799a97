package library

import (
	"database/sql"
	"fmt"
)

// AddBook registers a new title. An empty isbn and a zero year are stored
// as NULL. copies defaults to 1 when not positive.
func (d *Database) AddBook(title, author, isbn string, year, copies int) (int64, error) {
	if copies < 1 {
		copies = 1
	}
	res, err := d.addBookStmt.Exec(title, author, nullString(isbn), nullInt(year), copies)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateISBN
		}
		return 0, fmt.Errorf("add book: %w", err)
	}
	return res.LastInsertId()
}

// GetBook fetches a single book.
func (d *Database) GetBook(id int64) (*Book, error) {
	b, err := scanBook(d.db.QueryRow(
		`SELECT id,title,author,COALESCE(isbn,''),COALESCE(year,0),available_copies FROM books WHERE id=?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

// GetAvailability returns the current available-copy count for a book.
func (d *Database) GetAvailability(id int64) (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT available_copies FROM books WHERE id=?`, id).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get availability: %w", err)
	}
	return n, nil
}

// DecrementAvailability atomically takes one copy off the shelf.
func (d *Database) DecrementAvailability(id int64) error {
	res, err := d.db.Exec(
		`UPDATE books SET available_copies = available_copies - 1 WHERE id=? AND available_copies > 0`, id)
	if err != nil {
		return fmt.Errorf("decrement availability: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish a missing book from an exhausted one.
		if _, err := d.GetAvailability(id); err != nil {
			return err
		}
		return ErrExhausted
	}
	return nil
}

// IncrementAvailability atomically puts one copy back on the shelf. No
// upper bound is enforced; the return guard keeps the counter honest.
func (d *Database) IncrementAvailability(id int64) error {
	res, err := d.db.Exec(`UPDATE books SET available_copies = available_copies + 1 WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("increment availability: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetAllBooks returns the whole catalog ordered by title.
func (d *Database) GetAllBooks() ([]*Book, error) {
	return d.queryBooks(`SELECT id,title,author,COALESCE(isbn,''),COALESCE(year,0),available_copies
        FROM books ORDER BY title`)
}

// GetAvailableBooks returns books with at least one copy on the shelf,
// ordered by title.
func (d *Database) GetAvailableBooks() ([]*Book, error) {
	return d.queryBooks(`SELECT id,title,author,COALESCE(isbn,''),COALESCE(year,0),available_copies
        FROM books WHERE available_copies > 0 ORDER BY title`)
}

func (d *Database) queryBooks(query string, args ...any) ([]*Book, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*Book, error) {
	var b Book
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Year, &b.AvailableCopies); err != nil {
		return nil, err
	}
	return &b, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
