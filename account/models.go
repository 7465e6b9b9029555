// Package account defines the chart of accounts: named, coded, typed
// ledger accounts scoped to a single tenant.
package account

import (
	"github.com/xraph/books/id"
	"github.com/xraph/books/types"
)

// Type classifies an account for balance conventions and reporting.
type Type string

const (
	TypeAsset     Type = "asset"
	TypeLiability Type = "liability"
	TypeEquity    Type = "equity"
	TypeRevenue   Type = "revenue"
	TypeExpense   Type = "expense"
)

// Valid reports whether t is one of the five account types.
func (t Type) Valid() bool {
	switch t {
	case TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense:
		return true
	default:
		return false
	}
}

// Side is the direction that increases an account's balance.
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
)

// NormalBalance returns the side that increases the balance of an
// account of this type. Asset and Expense accounts grow on the debit
// side; Liability, Equity and Revenue accounts grow on the credit side.
func (t Type) NormalBalance() Side {
	switch t {
	case TypeAsset, TypeExpense:
		return SideDebit
	default:
		return SideCredit
	}
}

// Status is the lifecycle status of an account. Accounts are never
// hard-deleted; archiving is the soft-delete path.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Subtype is a display-only classification assigned by the heuristic in
// Classify. It must not influence balance computation.
type Subtype string

const (
	SubtypeBankAccount       Subtype = "bank_account"
	SubtypeAccountingService Subtype = "accounting_service"
)

// Account is a chart-of-accounts entry. The (TenantID, Code) pair is
// unique within a tenant when Code is set; names are not unique.
type Account struct {
	types.Entity
	ID        id.AccountID `json:"id"`
	TenantID  string       `json:"tenant_id"`
	Code      string       `json:"code,omitempty"`
	Name      string       `json:"name"`
	Type      Type         `json:"type"`
	Category  string       `json:"category"`
	Status    Status       `json:"status"`
	Subtype   Subtype      `json:"subtype"`
	CreatedBy string       `json:"created_by,omitempty"`
}

// Archived reports whether the account has been soft-deleted.
func (a *Account) Archived() bool { return a.Status == StatusArchived }

// Patch is a partial update to an account. Nil fields are left unchanged.
type Patch struct {
	Code     *string
	Name     *string
	Type     *Type
	Category *string
	Status   *Status
}

// Apply copies the non-nil patch fields onto the account and refreshes
// the classification subtype when name or type changed.
func (p Patch) Apply(a *Account) {
	if p.Code != nil {
		a.Code = *p.Code
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Name != nil || p.Type != nil {
		a.Subtype = Classify(a.Type, a.Name)
	}
	a.Touch()
}
