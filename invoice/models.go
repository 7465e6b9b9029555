// Package invoice defines receivable invoices: documents whose entry
// into the Paid status drives journal posting.
package invoice

import (
	"fmt"
	"time"

	"github.com/xraph/books/id"
	"github.com/xraph/books/types"
)

// Status is the payment status of an invoice.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known invoice status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	default:
		return false
	}
}

// Invoice is a receivable document issued to a customer.
type Invoice struct {
	types.Entity
	ID           id.InvoiceID `json:"id"`
	TenantID     string       `json:"tenant_id"`
	Number       string       `json:"number"`
	CustomerName string       `json:"customer_name"`
	CustomerMail string       `json:"customer_email,omitempty"`
	Total        types.Money  `json:"total"`
	DueDate      time.Time    `json:"due_date"`
	Status       Status       `json:"status"`
	LineItems    []LineItem   `json:"line_items,omitempty"`
	PaidAt       *time.Time   `json:"paid_at,omitempty"`
	CreatedBy    string       `json:"created_by,omitempty"`
}

// LineItem is one billed line on an invoice.
type LineItem struct {
	Description string      `json:"description"`
	Quantity    int64       `json:"quantity"`
	UnitAmount  types.Money `json:"unit_amount"`
	Amount      types.Money `json:"amount"`
}

// Ref returns the reference used in journal entry descriptions: the
// human-readable number, falling back to the ID.
func (i *Invoice) Ref() string {
	if i.Number != "" {
		return i.Number
	}
	return i.ID.String()
}

// NewNumber generates a human-readable invoice number from the clock,
// e.g. "INV-483920". Uniqueness is per tenant in practice; collisions
// are tolerated since the ID is the true identity.
func NewNumber(now time.Time) string {
	return fmt.Sprintf("INV-%06d", now.UnixMilli()%1000000)
}

// DefaultDueDate is the payment term applied when no due date is given.
func DefaultDueDate(now time.Time) time.Time {
	return now.AddDate(0, 0, 14)
}
