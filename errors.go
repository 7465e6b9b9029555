package books

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("books: not found")
	ErrAlreadyExists = errors.New("books: already exists")
	ErrInvalidInput  = errors.New("books: invalid input")
	ErrUnauthorized  = errors.New("books: unauthorized")
	ErrForbidden     = errors.New("books: forbidden")

	// Account errors
	ErrAccountNotFound  = errors.New("books: account not found")
	ErrAccountArchived  = errors.New("books: account is archived")
	ErrAccountCodeTaken = errors.New("books: account code already in use")
	ErrInvalidAccount   = errors.New("books: invalid account")

	// Journal errors
	ErrInvalidEntry     = errors.New("books: invalid journal entry")
	ErrInvalidAmount    = errors.New("books: amount must be positive")
	ErrInvalidDirection = errors.New("books: direction must be debit or credit")
	ErrPostingNotFound  = errors.New("books: posting not found")

	// Posting errors
	ErrPostingAccount = errors.New("books: posting account unavailable")
	ErrPostingFailed  = errors.New("books: posting failed")

	// Invoice errors
	ErrInvoiceNotFound = errors.New("books: invoice not found")
	ErrInvoicePaid     = errors.New("books: invoice already paid")
	ErrInvoiceVoided   = errors.New("books: invoice is cancelled")

	// Bill errors
	ErrBillNotFound = errors.New("books: bill not found")
	ErrBillPaid     = errors.New("books: bill already paid")

	// Status errors
	ErrStatusConflict = errors.New("books: document status changed concurrently")
	ErrInvalidStatus  = errors.New("books: invalid status")

	// Store errors
	ErrStoreNotReady   = errors.New("books: store not ready")
	ErrStoreClosed     = errors.New("books: store is closed")
	ErrAppendFailed    = errors.New("books: journal append failed")
	ErrMigrationFailed = errors.New("books: migration failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("books: validation failed for %s: %s", e.Field, e.Message)
}

// MultiError represents multiple errors that occurred.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "books: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("books: %d errors occurred", len(e.Errors))
}

// Add adds an error to the multi-error.
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// First returns the first error or nil.
func (e MultiError) First() error {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return nil
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrInvoiceNotFound) ||
		errors.Is(err, ErrBillNotFound) ||
		errors.Is(err, ErrPostingNotFound)
}

// IsConflict returns true if the error reflects a lost race: another
// writer changed the document between read and update.
func IsConflict(err error) bool {
	return errors.Is(err, ErrStatusConflict) ||
		errors.Is(err, ErrAccountCodeTaken) ||
		errors.Is(err, ErrAlreadyExists)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrAppendFailed)
}
