package library

import "errors"

// Business-rule failures. Each is a recoverable, caller-visible outcome;
// anything else coming out of this package is a storage malfunction
// wrapped with fmt.Errorf and %w.
var (
	// ErrNotFound reports an unknown book or member id/code.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateISBN reports a book registration with an ISBN that is
	// already in the catalog.
	ErrDuplicateISBN = errors.New("isbn already registered")

	// ErrDuplicateCode reports a member registration with a membership
	// code that is already taken.
	ErrDuplicateCode = errors.New("membership code already registered")

	// ErrDuplicateLogin reports an administrator registration with a
	// login that is already taken.
	ErrDuplicateLogin = errors.New("login already registered")

	// ErrBookUnavailable reports a borrow attempt against a book that
	// does not exist or has no copies on the shelf.
	ErrBookUnavailable = errors.New("book unavailable")

	// ErrLoanLimitExceeded reports a borrow attempt by a member who
	// already holds MaxActiveLoansPerMember active loans.
	ErrLoanLimitExceeded = errors.New("member loan limit exceeded")

	// ErrLoanNotFound reports a return attempt for an unknown loan id.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrAlreadyReturned reports a return attempt for a loan that is not
	// active. Rejecting it keeps availability from double-incrementing.
	ErrAlreadyReturned = errors.New("loan already returned")

	// ErrExhausted guards the availability counter against going below
	// zero.
	ErrExhausted = errors.New("no copies available")

	// ErrInvalidCredentials reports a failed administrator login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
