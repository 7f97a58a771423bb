package services

import "errors"

// ─── Sentinel Errors ──────────────────────────────────────────────────────────

var (
	// ErrInvalidInput is returned for missing or malformed input values.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPublishingYear is returned when a new book's publishing year
	// is not strictly before the current year.
	ErrInvalidPublishingYear = errors.New("publishing year must be before the current year")

	ErrBookNotFound      = errors.New("book not found")
	ErrAuthorNotFound    = errors.New("author not found")
	ErrPublisherNotFound = errors.New("publishing company not found")

	// ErrBookNotInserted is returned when a book insert affects no rows.
	ErrBookNotInserted = errors.New("book insert affected no rows")

	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidPasswordFormat = errors.New("invalid password format")
	ErrUserAlreadyExists     = errors.New("user already exists")
	ErrUserNotInserted       = errors.New("user insert affected no rows")
	ErrUserNotUpdated        = errors.New("user update affected no rows")
	ErrUserNotDeleted        = errors.New("user delete affected no rows")
	ErrWrongCredentials      = errors.New("wrong credentials")

	// ErrBookOnLoan is returned when the member borrowed the same book within
	// the loan cooldown.
	ErrBookOnLoan      = errors.New("book is still on loan to this user")
	ErrLoanNotInserted = errors.New("loan insert affected no rows")
)
