package library

import (
	"errors"
	"fmt"
	"time"
)

// Library is a thin façade over the Database, keeping caller code simple.
type Library struct {
	db *Database
}

// Open opens (or creates) the SQLite database at dbPath.
func Open(dbPath string) (*Library, error) {
	db, err := NewDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	return &Library{db: db}, nil
}

// Close closes the underlying database.
func (l *Library) Close() error { return l.db.Close() }

// DB exposes the underlying database for direct store access.
func (l *Library) DB() *Database { return l.db }

// ------------------ Catalog ------------------

func (l *Library) AddBook(title, author, isbn string, year, copies int) (int64, error) {
	return l.db.AddBook(title, author, isbn, year, copies)
}
func (l *Library) GetBook(id int64) (*Book, error)     { return l.db.GetBook(id) }
func (l *Library) GetAllBooks() ([]*Book, error)       { return l.db.GetAllBooks() }
func (l *Library) GetAvailableBooks() ([]*Book, error) { return l.db.GetAvailableBooks() }

// ------------------ Members ------------------

func (l *Library) AddMember(name, code, program string) (int64, error) {
	return l.db.AddMember(name, code, program)
}
func (l *Library) GetMember(id int64) (*Member, error)          { return l.db.GetMember(id) }
func (l *Library) FindMemberByCode(code string) (*Member, error) { return l.db.FindMemberByCode(code) }
func (l *Library) GetAllMembers() ([]*Member, error)            { return l.db.GetAllMembers() }

// ------------------ Circulation ------------------

func (l *Library) Borrow(memberID, bookID int64, today time.Time) (int64, error) {
	return l.db.Borrow(memberID, bookID, today)
}
func (l *Library) ReturnLoan(loanID int64, today time.Time) error {
	return l.db.ReturnLoan(loanID, today)
}
func (l *Library) ListActive() ([]*LoanSummary, error) { return l.db.ListActive() }
func (l *Library) ListActiveForMember(memberID int64) ([]*Loan, error) {
	return l.db.ListActiveForMember(memberID)
}
func (l *Library) ListReturnedForMember(memberID int64, limit int) ([]*Loan, error) {
	return l.db.ListReturnedForMember(memberID, limit)
}

// ------------------ Reporting ------------------

func (l *Library) GetStats(today time.Time) (*Stats, error) { return l.db.GetStats(today) }
func (l *Library) OverdueReport(today time.Time) ([]*OverdueEntry, error) {
	return l.db.OverdueReport(today)
}
func (l *Library) AvailableBooksReport() ([]*Book, error) { return l.db.AvailableBooksReport() }

// ------------------ Administrators ------------------

func (l *Library) AddAdministrator(name, login, password string) (int64, error) {
	return l.db.AddAdministrator(name, login, password)
}
func (l *Library) AuthenticateAdministrator(login, password string) (*Administrator, error) {
	return l.db.AuthenticateAdministrator(login, password)
}
func (l *Library) EnsureDefaultAdmin() error { return l.db.EnsureDefaultAdmin() }

// ------------------ Sample data ------------------

// SeedSampleData loads the demonstration catalog, members and a few loans.
// It is a no-op when books already exist. The third loan is seeded two
// weeks back so the overdue report has something to show.
func (l *Library) SeedSampleData(today time.Time) error {
	n, err := l.db.CountBooks()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	books := []struct {
		title, author, isbn string
		year, copies        int
	}{
		{"Dom Casmurro", "Machado de Assis", "978-85-359-0277-5", 1899, 2},
		{"O Cortiço", "Aluísio Azevedo", "978-85-260-1631-8", 1890, 1},
		{"Capitães da Areia", "Jorge Amado", "978-85-254-0024-7", 1937, 3},
		{"Python para Iniciantes", "Eric Matthes", "978-85-7522-718-3", 2019, 2},
		{"Algoritmos e Estruturas de Dados", "Thomas Cormen", "978-85-352-8913-9", 2012, 1},
		{"História do Brasil", "Boris Fausto", "978-85-314-0556-2", 2013, 2},
	}
	bookIDs := make([]int64, 0, len(books))
	for _, b := range books {
		id, err := l.AddBook(b.title, b.author, b.isbn, b.year, b.copies)
		if err != nil {
			return fmt.Errorf("seed book %q: %w", b.title, err)
		}
		bookIDs = append(bookIDs, id)
	}

	members := []struct{ name, code, program string }{
		{"João Silva Santos", "2024001", "Análise e Desenvolvimento de Sistemas"},
		{"Maria Oliveira Lima", "2024002", "Engenharia de Software"},
		{"Pedro Costa Ferreira", "2024003", "Sistemas de Informação"},
		{"Leticia Rodrigues", "2024004", "Química"},
		{"Carlos Eduardo Souza", "2024005", "Zootecnia"},
	}
	memberIDs := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := l.AddMember(m.name, m.code, m.program)
		if err != nil {
			return fmt.Errorf("seed member %q: %w", m.name, err)
		}
		memberIDs = append(memberIDs, id)
	}

	loans := []struct {
		member, book int
		daysAgo      int
	}{
		{0, 0, 2},
		{1, 3, 1},
		{2, 4, 14}, // overdue
	}
	for _, ln := range loans {
		if _, err := l.Borrow(memberIDs[ln.member], bookIDs[ln.book], today.AddDate(0, 0, -ln.daysAgo)); err != nil &&
			!errors.Is(err, ErrBookUnavailable) {
			return fmt.Errorf("seed loan: %w", err)
		}
	}
	return nil
}
