package web

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"biblioteca/library"
)

// ------------------ Forms ------------------

type bookForm struct {
	Title  string `form:"title" validate:"required"`
	Author string `form:"author" validate:"required"`
	ISBN   string `form:"isbn"`
	Year   int    `form:"year" validate:"omitempty,gte=1000,lte=2100"`
	Copies int    `form:"copies" validate:"omitempty,gte=1"`
}

type memberForm struct {
	Name    string `form:"name" validate:"required"`
	Code    string `form:"code" validate:"required"`
	Program string `form:"program"`
}

type adminForm struct {
	Name     string `form:"name" validate:"required"`
	Login    string `form:"login" validate:"required"`
	Password string `form:"password" validate:"required,min=6"`
	Confirm  string `form:"confirm" validate:"required,eqfield=Password"`
}

type loanForm struct {
	MemberID int64 `form:"member_id" validate:"required,gt=0"`
	BookID   int64 `form:"book_id" validate:"required,gt=0"`
}

// ------------------ Auth pages ------------------

func (s *Server) loginPage(c *fiber.Ctx) error {
	u, err := s.currentUser(c)
	if err != nil {
		return err
	}
	if u.LoggedIn() {
		return c.Redirect("/")
	}
	return s.render(c, "login", "Sign in", nil)
}

func (s *Server) loginSubmit(c *fiber.Ctx) error {
	switch c.FormValue("kind") {
	case roleAdmin:
		admin, err := s.lib.AuthenticateAdministrator(c.FormValue("login"), c.FormValue("password"))
		if errors.Is(err, library.ErrInvalidCredentials) {
			if err := s.flash(c, "Wrong administrator login or password."); err != nil {
				return err
			}
			return c.Redirect("/login")
		}
		if err != nil {
			return err
		}
		if err := s.signIn(c, user{Role: roleAdmin, Name: admin.Name}); err != nil {
			return err
		}
	case roleMember:
		member, err := s.lib.FindMemberByCode(c.FormValue("code"))
		if errors.Is(err, library.ErrNotFound) {
			if err := s.flash(c, "Membership code not found. Ask a librarian to register you."); err != nil {
				return err
			}
			return c.Redirect("/login")
		}
		if err != nil {
			return err
		}
		if err := s.signIn(c, user{Role: roleMember, Name: member.Name, MemberID: member.ID, Code: member.Code}); err != nil {
			return err
		}
	default:
		return c.Redirect("/login")
	}
	return c.Redirect("/")
}

func (s *Server) registerPage(c *fiber.Ctx) error {
	return s.render(c, "register", "Administrator Registration", nil)
}

func (s *Server) registerSubmit(c *fiber.Ctx) error {
	var form adminForm
	if msg, ok := s.bindForm(c, &form); !ok {
		if err := s.flash(c, msg); err != nil {
			return err
		}
		return c.Redirect("/register")
	}
	_, err := s.lib.AddAdministrator(form.Name, form.Login, form.Password)
	if errors.Is(err, library.ErrDuplicateLogin) {
		if err := s.flash(c, "Login already taken, pick another one."); err != nil {
			return err
		}
		return c.Redirect("/register")
	}
	if err != nil {
		return err
	}
	if err := s.flash(c, "Administrator registered, you can sign in now."); err != nil {
		return err
	}
	return c.Redirect("/login")
}

func (s *Server) logout(c *fiber.Ctx) error {
	if err := s.signOut(c); err != nil {
		return err
	}
	return c.Redirect("/login")
}

// ------------------ Dashboard ------------------

func (s *Server) home(c *fiber.Ctx) error {
	u, err := s.currentUser(c)
	if err != nil {
		return err
	}
	stats, err := s.lib.GetStats(s.Now())
	if err != nil {
		return err
	}

	if u.IsAdmin() {
		return s.render(c, "home", "Library", fiber.Map{"Stats": stats})
	}

	mine, err := s.lib.ListActiveForMember(u.MemberID)
	if err != nil {
		return err
	}
	return s.render(c, "home", "Library", fiber.Map{
		"Stats":          stats,
		"AvailableBooks": stats.TotalBooks - stats.ActiveLoans,
		"MyActiveLoans":  len(mine),
		"LoanLimit":      library.MaxActiveLoansPerMember,
	})
}

// ------------------ Books ------------------

func (s *Server) booksPage(c *fiber.Ctx) error {
	books, err := s.lib.GetAllBooks()
	if err != nil {
		return err
	}
	return s.render(c, "books", "Books", fiber.Map{"Books": books})
}

func (s *Server) booksCreate(c *fiber.Ctx) error {
	var form bookForm
	if msg, ok := s.bindForm(c, &form); !ok {
		if err := s.flash(c, msg); err != nil {
			return err
		}
		return c.Redirect("/books")
	}
	_, err := s.lib.AddBook(form.Title, form.Author, form.ISBN, form.Year, form.Copies)
	switch {
	case errors.Is(err, library.ErrDuplicateISBN):
		if err := s.flash(c, "A book with this ISBN is already registered."); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if err := s.flash(c, "Book '"+form.Title+"' registered."); err != nil {
			return err
		}
	}
	return c.Redirect("/books")
}

// ------------------ Members ------------------

func (s *Server) membersPage(c *fiber.Ctx) error {
	members, err := s.lib.GetAllMembers()
	if err != nil {
		return err
	}
	return s.render(c, "members", "Members", fiber.Map{"Members": members})
}

func (s *Server) membersCreate(c *fiber.Ctx) error {
	var form memberForm
	if msg, ok := s.bindForm(c, &form); !ok {
		if err := s.flash(c, msg); err != nil {
			return err
		}
		return c.Redirect("/members")
	}
	_, err := s.lib.AddMember(form.Name, form.Code, form.Program)
	switch {
	case errors.Is(err, library.ErrDuplicateCode):
		if err := s.flash(c, "This membership code is already registered."); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if err := s.flash(c, "Member '"+form.Name+"' registered."); err != nil {
			return err
		}
	}
	return c.Redirect("/members")
}

// ------------------ Loans ------------------

type loanRow struct {
	*library.LoanSummary
	Overdue bool
}

func (s *Server) loansPage(c *fiber.Ctx) error {
	members, err := s.lib.GetAllMembers()
	if err != nil {
		return err
	}
	books, err := s.lib.GetAvailableBooks()
	if err != nil {
		return err
	}
	active, err := s.lib.ListActive()
	if err != nil {
		return err
	}

	today := s.Now()
	rows := make([]loanRow, 0, len(active))
	for _, l := range active {
		rows = append(rows, loanRow{LoanSummary: l, Overdue: library.IsOverdue(&l.Loan, today)})
	}
	return s.render(c, "loans", "Loans", fiber.Map{
		"Members": members,
		"Books":   books,
		"Loans":   rows,
	})
}

func (s *Server) loansCreate(c *fiber.Ctx) error {
	var form loanForm
	if msg, ok := s.bindForm(c, &form); !ok {
		if err := s.flash(c, msg); err != nil {
			return err
		}
		return c.Redirect("/loans")
	}

	_, err := s.lib.Borrow(form.MemberID, form.BookID, s.Now())
	switch {
	case errors.Is(err, library.ErrLoanLimitExceeded):
		if err := s.flash(c, "Member already holds the maximum of 3 books."); err != nil {
			return err
		}
	case errors.Is(err, library.ErrBookUnavailable):
		if err := s.flash(c, "Book is not available for loan."); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if err := s.flash(c, "Loan registered."); err != nil {
			return err
		}
	}
	return c.Redirect("/loans")
}

func (s *Server) loanReturn(c *fiber.Ctx) error {
	loanID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.lib.ReturnLoan(int64(loanID), s.Now())
	switch {
	case errors.Is(err, library.ErrLoanNotFound):
		if err := s.flash(c, "Loan not found."); err != nil {
			return err
		}
	case errors.Is(err, library.ErrAlreadyReturned):
		if err := s.flash(c, "This loan was already returned."); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if err := s.flash(c, "Book returned."); err != nil {
			return err
		}
	}
	return c.Redirect("/loans")
}

// ------------------ My loans (students) ------------------

type myLoanRow struct {
	BookTitle  string
	BookAuthor string
	LoanDate   time.Time
	DueDate    time.Time
	ReturnDate time.Time
	Overdue    bool
}

func (s *Server) myLoansPage(c *fiber.Ctx) error {
	u, err := s.currentUser(c)
	if err != nil {
		return err
	}

	active, err := s.lib.ListActiveForMember(u.MemberID)
	if err != nil {
		return err
	}
	history, err := s.lib.ListReturnedForMember(u.MemberID, 10)
	if err != nil {
		return err
	}

	today := s.Now()
	activeRows, err := s.myLoanRows(active, today)
	if err != nil {
		return err
	}
	historyRows, err := s.myLoanRows(history, today)
	if err != nil {
		return err
	}

	return s.render(c, "myloans", "My Loans", fiber.Map{
		"Active":     activeRows,
		"History":    historyRows,
		"LoanLimit":  library.MaxActiveLoansPerMember,
		"LoanPeriod": library.LoanPeriodDays,
	})
}

func (s *Server) myLoanRows(loans []*library.Loan, today time.Time) ([]myLoanRow, error) {
	rows := make([]myLoanRow, 0, len(loans))
	for _, l := range loans {
		book, err := s.lib.GetBook(l.BookID)
		if err != nil {
			return nil, err
		}
		row := myLoanRow{
			BookTitle:  book.Title,
			BookAuthor: book.Author,
			LoanDate:   l.LoanDate,
			DueDate:    l.DueDate,
			Overdue:    library.IsOverdue(l, today),
		}
		if l.ReturnDate != nil {
			row.ReturnDate = *l.ReturnDate
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ------------------ Reports ------------------

func (s *Server) reportsPage(c *fiber.Ctx) error {
	u, err := s.currentUser(c)
	if err != nil {
		return err
	}

	available, err := s.lib.AvailableBooksReport()
	if err != nil {
		return err
	}
	if !u.IsAdmin() {
		return s.render(c, "reports", "Reports", fiber.Map{"Available": available})
	}

	loaned, err := s.lib.ListActive()
	if err != nil {
		return err
	}
	overdue, err := s.lib.OverdueReport(s.Now())
	if err != nil {
		return err
	}
	return s.render(c, "reports", "Reports", fiber.Map{
		"Loaned":    loaned,
		"Overdue":   overdue,
		"Available": available,
	})
}

// ------------------ Helpers ------------------

// bindForm parses and validates a form payload. On failure it returns a
// message fit for a flash.
func (s *Server) bindForm(c *fiber.Ctx, out any) (string, bool) {
	if err := c.BodyParser(out); err != nil {
		return "Invalid form data.", false
	}
	if err := s.validate.Struct(out); err != nil {
		return "Please fill in all required fields correctly.", false
	}
	return "", true
}
