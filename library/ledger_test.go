package library

import (
	"errors"
	"testing"
)

func TestBorrowReturnRoundTrip(t *testing.T) {
	db := tempDB(t)
	bookID, _ := db.AddBook("Book", "Author", "", 0, 2)
	memberID, _ := db.AddMember("Alice", "2024001", "")

	loanID, err := db.Borrow(memberID, bookID, day(0))
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if n, _ := db.GetAvailability(bookID); n != 1 {
		t.Fatalf("want availability 1 after borrow, got %d", n)
	}

	loan, err := db.GetLoan(loanID)
	if err != nil {
		t.Fatalf("get loan: %v", err)
	}
	if loan.Status != StatusActive {
		t.Fatalf("new loan must be ACTIVE, got %s", loan.Status)
	}
	if loan.ReturnDate != nil {
		t.Fatalf("active loan must have no return date")
	}
	if !loan.DueDate.Equal(day(7)) {
		t.Fatalf("due date must be loan date + 7 days, got %v", loan.DueDate)
	}

	if err := db.ReturnLoan(loanID, day(3)); err != nil {
		t.Fatalf("return: %v", err)
	}
	if n, _ := db.GetAvailability(bookID); n != 2 {
		t.Fatalf("return must restore availability, got %d", n)
	}

	loan, _ = db.GetLoan(loanID)
	if loan.Status != StatusReturned {
		t.Fatalf("want RETURNED, got %s", loan.Status)
	}
	if loan.ReturnDate == nil || !loan.ReturnDate.Equal(day(3)) {
		t.Fatalf("return date not recorded: %v", loan.ReturnDate)
	}
}

func TestBorrowLimit(t *testing.T) {
	db := tempDB(t)
	memberID, _ := db.AddMember("Alice", "2024001", "")

	var bookIDs []int64
	for i := 0; i < 4; i++ {
		id, _ := db.AddBook("Book", "Author", "", 0, 1)
		bookIDs = append(bookIDs, id)
	}

	for i := 0; i < MaxActiveLoansPerMember; i++ {
		if _, err := db.Borrow(memberID, bookIDs[i], day(i)); err != nil {
			t.Fatalf("borrow %d: %v", i, err)
		}
	}

	_, err := db.Borrow(memberID, bookIDs[3], day(3))
	if !errors.Is(err, ErrLoanLimitExceeded) {
		t.Fatalf("want ErrLoanLimitExceeded, got %v", err)
	}
	// The catalog must be untouched by the rejected borrow.
	if n, _ := db.GetAvailability(bookIDs[3]); n != 1 {
		t.Fatalf("rejected borrow must not touch availability, got %d", n)
	}

	// Returning one frees a slot.
	active, _ := db.ListActiveForMember(memberID)
	if err := db.ReturnLoan(active[0].ID, day(4)); err != nil {
		t.Fatalf("return: %v", err)
	}
	if _, err := db.Borrow(memberID, bookIDs[3], day(4)); err != nil {
		t.Fatalf("borrow after freeing a slot: %v", err)
	}
}

func TestBorrowUnavailable(t *testing.T) {
	db := tempDB(t)
	alice, _ := db.AddMember("Alice", "2024001", "")
	bob, _ := db.AddMember("Bob", "2024002", "")
	bookID, _ := db.AddBook("Book", "Author", "", 0, 1)

	// Unknown book and exhausted book fail the same way.
	if _, err := db.Borrow(alice, 999, day(0)); !errors.Is(err, ErrBookUnavailable) {
		t.Fatalf("want ErrBookUnavailable for unknown book, got %v", err)
	}

	loanID, err := db.Borrow(alice, bookID, day(0))
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if _, err := db.Borrow(bob, bookID, day(0)); !errors.Is(err, ErrBookUnavailable) {
		t.Fatalf("want ErrBookUnavailable, got %v", err)
	}

	if err := db.ReturnLoan(loanID, day(1)); err != nil {
		t.Fatalf("return: %v", err)
	}
	if _, err := db.Borrow(bob, bookID, day(1)); err != nil {
		t.Fatalf("borrow after return: %v", err)
	}
}

func TestDoubleReturnGuard(t *testing.T) {
	db := tempDB(t)
	memberID, _ := db.AddMember("Alice", "2024001", "")
	bookID, _ := db.AddBook("Book", "Author", "", 0, 1)

	loanID, _ := db.Borrow(memberID, bookID, day(0))

	if err := db.ReturnLoan(loanID, day(1)); err != nil {
		t.Fatalf("first return: %v", err)
	}
	if err := db.ReturnLoan(loanID, day(2)); !errors.Is(err, ErrAlreadyReturned) {
		t.Fatalf("want ErrAlreadyReturned, got %v", err)
	}
	// Availability incremented exactly once.
	if n, _ := db.GetAvailability(bookID); n != 1 {
		t.Fatalf("double return must not double-increment, got %d", n)
	}

	if err := db.ReturnLoan(999, day(0)); !errors.Is(err, ErrLoanNotFound) {
		t.Fatalf("want ErrLoanNotFound, got %v", err)
	}
}

func TestIsOverdueBoundary(t *testing.T) {
	db := tempDB(t)
	memberID, _ := db.AddMember("Alice", "2024001", "")
	bookID, _ := db.AddBook("Book", "Author", "", 0, 1)

	loanID, _ := db.Borrow(memberID, bookID, day(0))
	loan, _ := db.GetLoan(loanID)

	if IsOverdue(loan, day(7)) {
		t.Fatalf("loan must not be overdue on its due date")
	}
	if !IsOverdue(loan, day(8)) {
		t.Fatalf("loan must be overdue the day after its due date")
	}

	// Monotonic in today until returned.
	for d := 8; d < 30; d++ {
		if !IsOverdue(loan, day(d)) {
			t.Fatalf("overdue must stay true on day %d", d)
		}
	}
	if DaysOverdue(loan, day(10)) != 3 {
		t.Fatalf("want 3 days overdue, got %d", DaysOverdue(loan, day(10)))
	}

	db.ReturnLoan(loanID, day(9))
	loan, _ = db.GetLoan(loanID)
	if IsOverdue(loan, day(10)) {
		t.Fatalf("returned loan is never overdue")
	}
}

func TestAvailabilityNeverNegative(t *testing.T) {
	db := tempDB(t)
	bookID, _ := db.AddBook("Book", "Author", "", 0, 2)

	var members []int64
	for i := 0; i < 5; i++ {
		id, _ := db.AddMember("M", string(rune('a'+i))+"code", "")
		members = append(members, id)
	}

	// Arbitrary interleavings of borrow and return attempts must keep the
	// counter at or above zero.
	var open []int64
	for i := 0; i < 40; i++ {
		m := members[i%len(members)]
		if i%3 == 2 && len(open) > 0 {
			if err := db.ReturnLoan(open[0], day(i)); err != nil {
				t.Fatalf("return: %v", err)
			}
			open = open[1:]
		} else {
			loanID, err := db.Borrow(m, bookID, day(i))
			if err != nil && !errors.Is(err, ErrBookUnavailable) && !errors.Is(err, ErrLoanLimitExceeded) {
				t.Fatalf("borrow: %v", err)
			}
			if err == nil {
				open = append(open, loanID)
			}
		}

		n, err := db.GetAvailability(bookID)
		if err != nil {
			t.Fatalf("availability: %v", err)
		}
		if n < 0 {
			t.Fatalf("availability went negative: %d", n)
		}
		if n+len(open) != 2 {
			t.Fatalf("counter drifted from ledger: %d available, %d open", n, len(open))
		}
	}
}

func TestListActiveOrdering(t *testing.T) {
	db := tempDB(t)
	memberID, _ := db.AddMember("Alice", "2024001", "")
	b1, _ := db.AddBook("Old Loan", "A", "", 0, 1)
	b2, _ := db.AddBook("New Loan", "B", "", 0, 1)

	db.Borrow(memberID, b1, day(0))
	db.Borrow(memberID, b2, day(5))

	active, err := db.ListActiveForMember(memberID)
	if err != nil {
		t.Fatalf("list active for member: %v", err)
	}
	if len(active) != 2 || active[0].BookID != b2 {
		t.Fatalf("most recent loan must come first")
	}

	all, err := db.ListActive()
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(all) != 2 || all[0].BookTitle != "New Loan" {
		t.Fatalf("joined list must be most recent first, got %+v", all)
	}
	if all[0].MemberName != "Alice" || all[0].MemberCode != "2024001" {
		t.Fatalf("joined list missing member summary: %+v", all[0])
	}
}

func TestMemberHistory(t *testing.T) {
	db := tempDB(t)
	memberID, _ := db.AddMember("Alice", "2024001", "")
	bookID, _ := db.AddBook("Book", "Author", "", 0, 1)

	for i := 0; i < 3; i++ {
		loanID, err := db.Borrow(memberID, bookID, day(i*2))
		if err != nil {
			t.Fatalf("borrow: %v", err)
		}
		if err := db.ReturnLoan(loanID, day(i*2+1)); err != nil {
			t.Fatalf("return: %v", err)
		}
	}

	history, err := db.ListReturnedForMember(memberID, 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("want history capped at 2, got %d", len(history))
	}
	if !history[0].ReturnDate.Equal(day(5)) {
		t.Fatalf("newest return must come first, got %v", history[0].ReturnDate)
	}
}
