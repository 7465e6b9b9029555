// Package journal defines the append-only transaction log. Every entry
// is one signed monetary movement against one account; entries are
// never updated or deleted; corrections are offsetting entries.
package journal

import (
	"time"

	"github.com/xraph/books/id"
	"github.com/xraph/books/types"
)

// Direction is the side of the ledger an entry moves.
type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// Valid reports whether d is one of the two directions.
func (d Direction) Valid() bool {
	return d == Debit || d == Credit
}

// Opposite returns the offsetting direction, used when building
// reversal entries.
func (d Direction) Opposite() Direction {
	if d == Debit {
		return Credit
	}
	return Debit
}

// ReferenceType identifies the source document a journal entry was
// posted from.
type ReferenceType string

const (
	RefInvoice  ReferenceType = "invoice"
	RefBill     ReferenceType = "bill"
	RefOrder    ReferenceType = "order"
	RefManual   ReferenceType = "manual"
	RefReversal ReferenceType = "reversal"
)

// Entry is one immutable journal entry. PostingID groups the legs of a
// single logical posting so partial batches can be detected, and so a
// whole posting can be reversed as a unit.
type Entry struct {
	types.Entity
	ID            id.EntryID    `json:"id"`
	TenantID      string        `json:"tenant_id"`
	AccountID     id.AccountID  `json:"account_id"`
	PostingID     id.PostingID  `json:"posting_id"`
	Direction     Direction     `json:"direction"`
	Amount        types.Money   `json:"amount"`
	Description   string        `json:"description"`
	Date          time.Time     `json:"date"`
	Category      string        `json:"category,omitempty"`
	ReferenceID   string        `json:"reference_id,omitempty"`
	ReferenceType ReferenceType `json:"reference_type"`
	CreatedBy     string        `json:"created_by,omitempty"`
}

// Validate checks the entry invariants: a resolvable account, a valid
// direction, and a strictly positive amount.
func (e *Entry) Validate() error {
	if e.TenantID == "" {
		return &FieldError{Field: "tenant_id", Message: "required"}
	}
	if e.AccountID.IsNil() {
		return &FieldError{Field: "account_id", Message: "required"}
	}
	if !e.Direction.Valid() {
		return &FieldError{Field: "direction", Message: "must be debit or credit"}
	}
	if !e.Amount.IsPositive() {
		return &FieldError{Field: "amount", Message: "must be positive"}
	}
	return nil
}

// FieldError reports an invalid or missing entry field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return "journal: invalid " + e.Field + ": " + e.Message
}

// Reversal builds the offsetting entry for e: same account and amount,
// opposite direction, referencing the original entry. The caller stamps
// the new PostingID so a batch reversal shares one.
func (e *Entry) Reversal(postingID id.PostingID, reversedBy string) *Entry {
	return &Entry{
		Entity:        types.NewEntity(),
		ID:            id.NewEntryID(),
		TenantID:      e.TenantID,
		AccountID:     e.AccountID,
		PostingID:     postingID,
		Direction:     e.Direction.Opposite(),
		Amount:        e.Amount,
		Description:   "Reversal of " + e.Description,
		Date:          time.Now().UTC(),
		Category:      e.Category,
		ReferenceID:   e.ID.String(),
		ReferenceType: RefReversal,
		CreatedBy:     reversedBy,
	}
}
