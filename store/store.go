package store

import (
	"context"
	"time"

	"github.com/xraph/books/account"
	"github.com/xraph/books/bill"
	"github.com/xraph/books/id"
	"github.com/xraph/books/invoice"
	"github.com/xraph/books/journal"
)

// Store is the unified storage interface for all Books entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// Account methods
	CreateAccount(ctx context.Context, a *account.Account) error
	CreateAccounts(ctx context.Context, accounts []*account.Account) error
	GetAccount(ctx context.Context, tenantID string, acctID id.AccountID) (*account.Account, error)
	GetAccountByCode(ctx context.Context, tenantID, code string) (*account.Account, error)
	ListAccounts(ctx context.Context, tenantID string) ([]*account.Account, error)
	UpdateAccount(ctx context.Context, a *account.Account) error

	// Journal methods. AppendEntries writes the whole batch atomically:
	// either every leg lands or none does.
	AppendEntries(ctx context.Context, entries []*journal.Entry) error
	ListEntries(ctx context.Context, tenantID string) ([]*journal.Entry, error)
	ListEntriesByAccount(ctx context.Context, tenantID string, acctID id.AccountID) ([]*journal.Entry, error)
	ListEntriesByPosting(ctx context.Context, tenantID string, postingID id.PostingID) ([]*journal.Entry, error)

	// Invoice methods. TransitionInvoice is a compare-and-set on the
	// stored status: it fails with a conflict when the invoice is no
	// longer in the from status.
	CreateInvoice(ctx context.Context, inv *invoice.Invoice) error
	GetInvoice(ctx context.Context, tenantID string, invID id.InvoiceID) (*invoice.Invoice, error)
	ListInvoices(ctx context.Context, tenantID string) ([]*invoice.Invoice, error)
	TransitionInvoice(ctx context.Context, tenantID string, invID id.InvoiceID, from, to invoice.Status, at time.Time) error

	// Bill methods
	CreateBill(ctx context.Context, b *bill.Bill) error
	GetBill(ctx context.Context, tenantID string, billID id.BillID) (*bill.Bill, error)
	ListBills(ctx context.Context, tenantID string) ([]*bill.Bill, error)
	TransitionBill(ctx context.Context, tenantID string, billID id.BillID, from, to bill.Status, at time.Time) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
