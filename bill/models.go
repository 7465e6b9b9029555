// Package bill defines payable bills: vendor documents whose entry into
// the Paid status drives journal posting.
package bill

import (
	"fmt"
	"time"

	"github.com/xraph/books/id"
	"github.com/xraph/books/types"
)

// Status is the payment status of a bill. The payable taxonomy is
// narrower than the invoice one: bills start life unpaid.
type Status string

const (
	StatusUnpaid  Status = "unpaid"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// Valid reports whether s is a known bill status.
func (s Status) Valid() bool {
	switch s {
	case StatusUnpaid, StatusPaid, StatusOverdue:
		return true
	default:
		return false
	}
}

// Bill is a payable document recorded against a vendor.
type Bill struct {
	types.Entity
	ID                 id.BillID   `json:"id"`
	TenantID           string      `json:"tenant_id"`
	Number             string      `json:"number"`
	VendorName         string      `json:"vendor_name"`
	VendorMail         string      `json:"vendor_email,omitempty"`
	Total              types.Money `json:"total"`
	DueDate            time.Time   `json:"due_date"`
	Status             Status      `json:"status"`
	LineItems          []LineItem  `json:"line_items,omitempty"`
	ExpenseAccountCode string      `json:"expense_account_code,omitempty"`
	PaidAt             *time.Time  `json:"paid_at,omitempty"`
	CreatedBy          string      `json:"created_by,omitempty"`
}

// LineItem is one charged line on a bill.
type LineItem struct {
	Description string      `json:"description"`
	Quantity    int64       `json:"quantity"`
	UnitAmount  types.Money `json:"unit_amount"`
	Amount      types.Money `json:"amount"`
}

// Ref returns the reference used in journal entry descriptions: the
// human-readable number, falling back to the ID.
func (b *Bill) Ref() string {
	if b.Number != "" {
		return b.Number
	}
	return b.ID.String()
}

// NewNumber generates a human-readable bill number from the clock,
// e.g. "BILL-483920".
func NewNumber(now time.Time) string {
	return fmt.Sprintf("BILL-%06d", now.UnixMilli()%1000000)
}

// DefaultDueDate is the Net-30 payment term applied when no due date is
// given.
func DefaultDueDate(now time.Time) time.Time {
	return now.AddDate(0, 0, 30)
}
