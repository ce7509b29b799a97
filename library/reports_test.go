package library

import (
	"testing"
)

func TestCounts(t *testing.T) {
	db := tempDB(t)

	alice, _ := db.AddMember("Alice", "2024001", "")
	bob, _ := db.AddMember("Bob", "2024002", "")
	b1, _ := db.AddBook("One", "A", "", 0, 1)
	b2, _ := db.AddBook("Two", "B", "", 0, 1)

	db.Borrow(alice, b1, day(0))       // due day 7, overdue on day 10
	loan2, _ := db.Borrow(bob, b2, day(5)) // due day 12, on time on day 10

	if n, _ := db.CountBooks(); n != 2 {
		t.Fatalf("want 2 books, got %d", n)
	}
	if n, _ := db.CountMembers(); n != 2 {
		t.Fatalf("want 2 members, got %d", n)
	}
	if n, _ := db.CountActiveLoans(); n != 2 {
		t.Fatalf("want 2 active loans, got %d", n)
	}
	if n, _ := db.CountOverdueLoans(day(10)); n != 1 {
		t.Fatalf("want 1 overdue loan, got %d", n)
	}

	db.ReturnLoan(loan2, day(10))
	if n, _ := db.CountActiveLoans(); n != 1 {
		t.Fatalf("want 1 active loan after return, got %d", n)
	}

	stats, err := db.GetStats(day(10))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalBooks != 2 || stats.TotalMembers != 2 || stats.ActiveLoans != 1 || stats.OverdueLoans != 1 {
		t.Fatalf("wrong stats: %+v", stats)
	}
}

func TestOverdueReportOrdering(t *testing.T) {
	db := tempDB(t)

	alice, _ := db.AddMember("Alice", "2024001", "Engenharia")
	bob, _ := db.AddMember("Bob", "2024002", "")
	b1, _ := db.AddBook("One", "A", "", 0, 1)
	b2, _ := db.AddBook("Two", "B", "", 0, 1)
	b3, _ := db.AddBook("Three", "C", "", 0, 1)

	db.Borrow(alice, b1, day(0)) // due day 7
	db.Borrow(bob, b2, day(3))   // due day 10
	db.Borrow(alice, b3, day(12)) // due day 19, not overdue

	report, err := db.OverdueReport(day(14))
	if err != nil {
		t.Fatalf("overdue report: %v", err)
	}
	if len(report) != 2 {
		t.Fatalf("want 2 overdue entries, got %d", len(report))
	}
	// Most days overdue first.
	if report[0].DaysOverdue != 7 || report[0].MemberName != "Alice" {
		t.Fatalf("want Alice 7 days overdue first, got %+v", report[0])
	}
	if report[1].DaysOverdue != 4 || report[1].MemberName != "Bob" {
		t.Fatalf("want Bob 4 days overdue second, got %+v", report[1])
	}
	if report[0].Program != "Engenharia" {
		t.Fatalf("program not carried into report: %+v", report[0])
	}

	// Loans due today are not overdue yet.
	if report, _ := db.OverdueReport(day(7)); len(report) != 0 {
		t.Fatalf("nothing is overdue on the due date, got %d entries", len(report))
	}
}

func TestAvailableBooksReport(t *testing.T) {
	db := tempDB(t)

	memberID, _ := db.AddMember("Alice", "2024001", "")
	zebra, _ := db.AddBook("Zebra", "A", "", 0, 1)
	db.AddBook("Alpha", "B", "", 0, 2)
	db.AddBook("Mango", "C", "", 0, 1)

	db.Borrow(memberID, zebra, day(0))

	report, err := db.AvailableBooksReport()
	if err != nil {
		t.Fatalf("available books: %v", err)
	}
	if len(report) != 2 {
		t.Fatalf("exhausted books must be excluded, got %d", len(report))
	}
	if report[0].Title != "Alpha" || report[1].Title != "Mango" {
		t.Fatalf("report must be ordered by title: %v, %v", report[0].Title, report[1].Title)
	}
}
