// Package memory provides an in-memory Store for tests and quick starts.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xraph/books"
	"github.com/xraph/books/account"
	"github.com/xraph/books/bill"
	"github.com/xraph/books/id"
	"github.com/xraph/books/invoice"
	"github.com/xraph/books/journal"
)

type Store struct {
	mu sync.RWMutex

	// Account storage
	accounts map[string]*account.Account

	// Journal storage, append-only
	entries []*journal.Entry

	// Invoice storage
	invoices map[string]*invoice.Invoice

	// Bill storage
	bills map[string]*bill.Bill
}

func New() *Store {
	return &Store{
		accounts: make(map[string]*account.Account),
		entries:  make([]*journal.Entry, 0),
		invoices: make(map[string]*invoice.Invoice),
		bills:    make(map[string]*bill.Bill),
	}
}

// Account Store implementation
func (s *Store) CreateAccount(_ context.Context, a *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createAccountLocked(a)
}

func (s *Store) CreateAccounts(_ context.Context, accounts []*account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before writing anything.
	for _, a := range accounts {
		if _, exists := s.accounts[a.ID.String()]; exists {
			return books.ErrAlreadyExists
		}
		if a.Code != "" && s.findByCodeLocked(a.TenantID, a.Code) != nil {
			return books.ErrAccountCodeTaken
		}
	}
	for _, a := range accounts {
		s.accounts[a.ID.String()] = a
	}
	return nil
}

func (s *Store) createAccountLocked(a *account.Account) error {
	if _, exists := s.accounts[a.ID.String()]; exists {
		return books.ErrAlreadyExists
	}
	if a.Code != "" && s.findByCodeLocked(a.TenantID, a.Code) != nil {
		return books.ErrAccountCodeTaken
	}
	s.accounts[a.ID.String()] = a
	return nil
}

func (s *Store) findByCodeLocked(tenantID, code string) *account.Account {
	for _, a := range s.accounts {
		if a.TenantID == tenantID && a.Code == code {
			return a
		}
	}
	return nil
}

func (s *Store) GetAccount(_ context.Context, tenantID string, acctID id.AccountID) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Callers get copies so their mutations stay private until Update.
	if a, ok := s.accounts[acctID.String()]; ok && a.TenantID == tenantID {
		c := *a
		return &c, nil
	}
	return nil, books.ErrAccountNotFound
}

func (s *Store) GetAccountByCode(_ context.Context, tenantID, code string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a := s.findByCodeLocked(tenantID, code); a != nil {
		c := *a
		return &c, nil
	}
	return nil, books.ErrAccountNotFound
}

func (s *Store) ListAccounts(_ context.Context, tenantID string) ([]*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*account.Account, 0)
	for _, a := range s.accounts {
		if a.TenantID == tenantID {
			c := *a
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (s *Store) UpdateAccount(_ context.Context, a *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.accounts[a.ID.String()]
	if !ok || existing.TenantID != a.TenantID {
		return books.ErrAccountNotFound
	}
	if a.Code != "" {
		if other := s.findByCodeLocked(a.TenantID, a.Code); other != nil && other.ID != a.ID {
			return books.ErrAccountCodeTaken
		}
	}
	c := *a
	s.accounts[a.ID.String()] = &c
	return nil
}

// Journal Store implementation
func (s *Store) AppendEntries(_ context.Context, entries []*journal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch first so a bad leg never leaves a
	// partial posting behind.
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *Store) ListEntries(_ context.Context, tenantID string) ([]*journal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterEntriesLocked(tenantID, func(*journal.Entry) bool { return true }), nil
}

func (s *Store) ListEntriesByAccount(_ context.Context, tenantID string, acctID id.AccountID) ([]*journal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterEntriesLocked(tenantID, func(e *journal.Entry) bool {
		return e.AccountID == acctID
	}), nil
}

func (s *Store) ListEntriesByPosting(_ context.Context, tenantID string, postingID id.PostingID) ([]*journal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterEntriesLocked(tenantID, func(e *journal.Entry) bool {
		return e.PostingID == postingID
	}), nil
}

func (s *Store) filterEntriesLocked(tenantID string, keep func(*journal.Entry) bool) []*journal.Entry {
	result := make([]*journal.Entry, 0)
	for _, e := range s.entries {
		if e.TenantID == tenantID && keep(e) {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	return result
}

// Invoice Store implementation
func (s *Store) CreateInvoice(_ context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoices[inv.ID.String()]; exists {
		return books.ErrAlreadyExists
	}
	s.invoices[inv.ID.String()] = inv
	return nil
}

func (s *Store) GetInvoice(_ context.Context, tenantID string, invID id.InvoiceID) (*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if inv, ok := s.invoices[invID.String()]; ok && inv.TenantID == tenantID {
		c := *inv
		return &c, nil
	}
	return nil, books.ErrInvoiceNotFound
}

func (s *Store) ListInvoices(_ context.Context, tenantID string) ([]*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*invoice.Invoice, 0)
	for _, inv := range s.invoices {
		if inv.TenantID == tenantID {
			c := *inv
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) TransitionInvoice(_ context.Context, tenantID string, invID id.InvoiceID, from, to invoice.Status, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[invID.String()]
	if !ok || inv.TenantID != tenantID {
		return books.ErrInvoiceNotFound
	}
	if inv.Status != from {
		return books.ErrStatusConflict
	}
	inv.Status = to
	if to == invoice.StatusPaid {
		paidAt := at
		inv.PaidAt = &paidAt
	} else {
		inv.PaidAt = nil
	}
	inv.Touch()
	return nil
}

// Bill Store implementation
func (s *Store) CreateBill(_ context.Context, b *bill.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bills[b.ID.String()]; exists {
		return books.ErrAlreadyExists
	}
	s.bills[b.ID.String()] = b
	return nil
}

func (s *Store) GetBill(_ context.Context, tenantID string, billID id.BillID) (*bill.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if b, ok := s.bills[billID.String()]; ok && b.TenantID == tenantID {
		c := *b
		return &c, nil
	}
	return nil, books.ErrBillNotFound
}

func (s *Store) ListBills(_ context.Context, tenantID string) ([]*bill.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*bill.Bill, 0)
	for _, b := range s.bills {
		if b.TenantID == tenantID {
			c := *b
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DueDate.Before(result[j].DueDate)
	})
	return result, nil
}

func (s *Store) TransitionBill(_ context.Context, tenantID string, billID id.BillID, from, to bill.Status, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bills[billID.String()]
	if !ok || b.TenantID != tenantID {
		return books.ErrBillNotFound
	}
	if b.Status != from {
		return books.ErrStatusConflict
	}
	b.Status = to
	if to == bill.StatusPaid {
		paidAt := at
		b.PaidAt = &paidAt
	} else {
		b.PaidAt = nil
	}
	b.Touch()
	return nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}
