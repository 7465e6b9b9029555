package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	books "github.com/xraph/books"
	"github.com/xraph/books/account"
	"github.com/xraph/books/bill"
	"github.com/xraph/books/id"
	"github.com/xraph/books/invoice"
	"github.com/xraph/books/journal"
	bookstore "github.com/xraph/books/store"
)

// Collection name constants.
const (
	colAccounts = "books_accounts"
	colEntries  = "books_journal_entries"
	colInvoices = "books_invoices"
	colBills    = "books_bills"
)

// compile-time interface check
var _ bookstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all books collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("books/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Account Store ====================

func (s *Store) CreateAccount(ctx context.Context, a *account.Account) error {
	m := toAccountModel(a)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return books.ErrAccountCodeTaken
		}
		return fmt.Errorf("books/mongo: create account: %w", err)
	}
	return nil
}

func (s *Store) CreateAccounts(ctx context.Context, accounts []*account.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	docs := make([]any, len(accounts))
	for i, a := range accounts {
		docs[i] = toAccountModel(a)
	}
	// Single ordered insert so a duplicate aborts the remainder of the
	// batch instead of leaving scattered accounts.
	_, err := s.mdb.Collection(colAccounts).InsertMany(ctx, docs)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return books.ErrAccountCodeTaken
		}
		return fmt.Errorf("books/mongo: create accounts: %w", err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, tenantID string, acctID id.AccountID) (*account.Account, error) {
	var m accountModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": acctID.String(), "tenant_id": tenantID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, books.ErrAccountNotFound
		}
		return nil, fmt.Errorf("books/mongo: get account: %w", err)
	}
	return fromAccountModel(&m)
}

func (s *Store) GetAccountByCode(ctx context.Context, tenantID, code string) (*account.Account, error) {
	var m accountModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"tenant_id": tenantID, "code": code}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, books.ErrAccountNotFound
		}
		return nil, fmt.Errorf("books/mongo: get account by code: %w", err)
	}
	return fromAccountModel(&m)
}

func (s *Store) ListAccounts(ctx context.Context, tenantID string) ([]*account.Account, error) {
	var models []accountModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{"tenant_id": tenantID}).
		Sort(bson.D{{Key: "name", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("books/mongo: list accounts: %w", err)
	}

	result := make([]*account.Account, len(models))
	for i := range models {
		a, err := fromAccountModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = a
	}
	return result, nil
}

func (s *Store) UpdateAccount(ctx context.Context, a *account.Account) error {
	m := toAccountModel(a)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID, "tenant_id": m.TenantID}).
		Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return books.ErrAccountCodeTaken
		}
		return fmt.Errorf("books/mongo: update account: %w", err)
	}
	if res.MatchedCount() == 0 {
		return books.ErrAccountNotFound
	}
	return nil
}

// ==================== Journal Store ====================

func (s *Store) AppendEntries(ctx context.Context, entries []*journal.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	docs := make([]any, len(entries))
	for i, e := range entries {
		docs[i] = toEntryModel(e)
	}
	// One ordered InsertMany keeps the posting effectively all-or-
	// nothing: entry IDs are fresh so the only failure mode is the
	// server rejecting the statement as a whole.
	_, err := s.mdb.Collection(colEntries).InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("books/mongo: append entries: %w", err)
	}
	return nil
}

func (s *Store) ListEntries(ctx context.Context, tenantID string) ([]*journal.Entry, error) {
	return s.findEntries(ctx, bson.M{"tenant_id": tenantID})
}

func (s *Store) ListEntriesByAccount(ctx context.Context, tenantID string, acctID id.AccountID) ([]*journal.Entry, error) {
	return s.findEntries(ctx, bson.M{"tenant_id": tenantID, "account_id": acctID.String()})
}

func (s *Store) ListEntriesByPosting(ctx context.Context, tenantID string, postingID id.PostingID) ([]*journal.Entry, error) {
	return s.findEntries(ctx, bson.M{"tenant_id": tenantID, "posting_id": postingID.String()})
}

func (s *Store) findEntries(ctx context.Context, filter bson.M) ([]*journal.Entry, error) {
	var models []entryModel
	err := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "date", Value: -1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("books/mongo: list entries: %w", err)
	}

	result := make([]*journal.Entry, len(models))
	for i := range models {
		e, err := fromEntryModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = e
	}
	return result, nil
}

// ==================== Invoice Store ====================

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	m := toInvoiceModel(inv)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("books/mongo: create invoice: %w", err)
	}
	return nil
}

func (s *Store) GetInvoice(ctx context.Context, tenantID string, invID id.InvoiceID) (*invoice.Invoice, error) {
	var m invoiceModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": invID.String(), "tenant_id": tenantID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, books.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("books/mongo: get invoice: %w", err)
	}
	return fromInvoiceModel(&m)
}

func (s *Store) ListInvoices(ctx context.Context, tenantID string) ([]*invoice.Invoice, error) {
	var models []invoiceModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{"tenant_id": tenantID}).
		Sort(bson.D{{Key: "created_at", Value: -1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("books/mongo: list invoices: %w", err)
	}

	result := make([]*invoice.Invoice, len(models))
	for i := range models {
		inv, err := fromInvoiceModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = inv
	}
	return result, nil
}

func (s *Store) TransitionInvoice(ctx context.Context, tenantID string, invID id.InvoiceID, from, to invoice.Status, at time.Time) error {
	q := s.mdb.NewUpdate((*invoiceModel)(nil)).
		Filter(bson.M{"_id": invID.String(), "tenant_id": tenantID, "status": string(from)}).
		Set("status", string(to)).
		Set("updated_at", now())
	if to == invoice.StatusPaid {
		q = q.Set("paid_at", at)
	} else {
		q = q.Set("paid_at", nil)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("books/mongo: transition invoice: %w", err)
	}
	if res.MatchedCount() == 0 {
		// The status filter missed: either the invoice does not exist
		// or another writer moved it first.
		if _, err := s.GetInvoice(ctx, tenantID, invID); err != nil {
			return err
		}
		return books.ErrStatusConflict
	}
	return nil
}

// ==================== Bill Store ====================

func (s *Store) CreateBill(ctx context.Context, b *bill.Bill) error {
	m := toBillModel(b)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("books/mongo: create bill: %w", err)
	}
	return nil
}

func (s *Store) GetBill(ctx context.Context, tenantID string, billID id.BillID) (*bill.Bill, error) {
	var m billModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": billID.String(), "tenant_id": tenantID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, books.ErrBillNotFound
		}
		return nil, fmt.Errorf("books/mongo: get bill: %w", err)
	}
	return fromBillModel(&m)
}

func (s *Store) ListBills(ctx context.Context, tenantID string) ([]*bill.Bill, error) {
	var models []billModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{"tenant_id": tenantID}).
		Sort(bson.D{{Key: "due_date", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("books/mongo: list bills: %w", err)
	}

	result := make([]*bill.Bill, len(models))
	for i := range models {
		b, err := fromBillModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = b
	}
	return result, nil
}

func (s *Store) TransitionBill(ctx context.Context, tenantID string, billID id.BillID, from, to bill.Status, at time.Time) error {
	q := s.mdb.NewUpdate((*billModel)(nil)).
		Filter(bson.M{"_id": billID.String(), "tenant_id": tenantID, "status": string(from)}).
		Set("status", string(to)).
		Set("updated_at", now())
	if to == bill.StatusPaid {
		q = q.Set("paid_at", at)
	} else {
		q = q.Set("paid_at", nil)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("books/mongo: transition bill: %w", err)
	}
	if res.MatchedCount() == 0 {
		if _, err := s.GetBill(ctx, tenantID, billID); err != nil {
			return err
		}
		return books.ErrStatusConflict
	}
	return nil
}

// ==================== Helpers ====================

func now() time.Time {
	return time.Now().UTC()
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colAccounts: {
			{
				// Sparse: uncoded custom accounts are allowed.
				Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "code", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "name", Value: 1}}},
		},
		colEntries: {
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "account_id", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "posting_id", Value: 1}}},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "reference_id", Value: 1}}},
		},
		colInvoices: {
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		colBills: {
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "due_date", Value: 1}}},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "status", Value: 1}}},
		},
	}
}
