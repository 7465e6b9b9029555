package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	books "github.com/xraph/books"
	"github.com/xraph/books/account"
	"github.com/xraph/books/bill"
	"github.com/xraph/books/id"
	"github.com/xraph/books/invoice"
	"github.com/xraph/books/journal"
	bookstore "github.com/xraph/books/store"
)

// compile-time interface check
var _ bookstore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("books/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("books/postgres: migration failed: %w", err)
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
	_, err := s.pg.NewInsert(m).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return books.ErrAccountCodeTaken
		}
		return err
	}
	return nil
}

func (s *Store) CreateAccounts(ctx context.Context, accounts []*account.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	models := make([]accountModel, len(accounts))
	for i, a := range accounts {
		models[i] = *toAccountModel(a)
	}
	// Single insert statement so the chart seeds atomically.
	_, err := s.pg.NewInsert(&models).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return books.ErrAccountCodeTaken
		}
		return err
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, tenantID string, acctID id.AccountID) (*account.Account, error) {
	m := new(accountModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", acctID.String()).
		Where("tenant_id = $2", tenantID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, books.ErrAccountNotFound
		}
		return nil, err
	}
	return fromAccountModel(m)
}

func (s *Store) GetAccountByCode(ctx context.Context, tenantID, code string) (*account.Account, error) {
	m := new(accountModel)
	err := s.pg.NewSelect(m).
		Where("tenant_id = $1", tenantID).
		Where("code = $2", code).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, books.ErrAccountNotFound
		}
		return nil, err
	}
	return fromAccountModel(m)
}

func (s *Store) ListAccounts(ctx context.Context, tenantID string) ([]*account.Account, error) {
	var models []accountModel
	err := s.pg.NewSelect(&models).
		Where("tenant_id = $1", tenantID).
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
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
	res, err := s.pg.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return books.ErrAccountCodeTaken
		}
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
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
	models := make([]entryModel, len(entries))
	for i, e := range entries {
		models[i] = *toEntryModel(e)
	}
	// One multi-row INSERT: the posting lands atomically or not at all.
	_, err := s.pg.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) ListEntries(ctx context.Context, tenantID string) ([]*journal.Entry, error) {
	var models []entryModel
	err := s.pg.NewSelect(&models).
		Where("tenant_id = $1", tenantID).
		OrderExpr("date DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return fromEntryModels(models)
}

func (s *Store) ListEntriesByAccount(ctx context.Context, tenantID string, acctID id.AccountID) ([]*journal.Entry, error) {
	var models []entryModel
	err := s.pg.NewSelect(&models).
		Where("tenant_id = $1", tenantID).
		Where("account_id = $2", acctID.String()).
		OrderExpr("date DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return fromEntryModels(models)
}

func (s *Store) ListEntriesByPosting(ctx context.Context, tenantID string, postingID id.PostingID) ([]*journal.Entry, error) {
	var models []entryModel
	err := s.pg.NewSelect(&models).
		Where("tenant_id = $1", tenantID).
		Where("posting_id = $2", postingID.String()).
		OrderExpr("date DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return fromEntryModels(models)
}

func fromEntryModels(models []entryModel) ([]*journal.Entry, error) {
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
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetInvoice(ctx context.Context, tenantID string, invID id.InvoiceID) (*invoice.Invoice, error) {
	m := new(invoiceModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", invID.String()).
		Where("tenant_id = $2", tenantID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, books.ErrInvoiceNotFound
		}
		return nil, err
	}
	return fromInvoiceModel(m)
}

func (s *Store) ListInvoices(ctx context.Context, tenantID string) ([]*invoice.Invoice, error) {
	var models []invoiceModel
	err := s.pg.NewSelect(&models).
		Where("tenant_id = $1", tenantID).
		OrderExpr("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
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
	var paidAt *time.Time
	if to == invoice.StatusPaid {
		paidAt = &at
	}
	res, err := s.pg.NewUpdate((*invoiceModel)(nil)).
		Set("status = $1", string(to)).
		Set("paid_at = $2", paidAt).
		Set("updated_at = $3", now()).
		Where("id = $4", invID.String()).
		Where("tenant_id = $5", tenantID).
		Where("status = $6", string(from)).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Status filter missed: missing invoice or a lost race.
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
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetBill(ctx context.Context, tenantID string, billID id.BillID) (*bill.Bill, error) {
	m := new(billModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", billID.String()).
		Where("tenant_id = $2", tenantID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, books.ErrBillNotFound
		}
		return nil, err
	}
	return fromBillModel(m)
}

func (s *Store) ListBills(ctx context.Context, tenantID string) ([]*bill.Bill, error) {
	var models []billModel
	err := s.pg.NewSelect(&models).
		Where("tenant_id = $1", tenantID).
		OrderExpr("due_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
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
	var paidAt *time.Time
	if to == bill.StatusPaid {
		paidAt = &at
	}
	res, err := s.pg.NewUpdate((*billModel)(nil)).
		Set("status = $1", string(to)).
		Set("paid_at = $2", paidAt).
		Set("updated_at = $3", now()).
		Where("id = $4", billID.String()).
		Where("tenant_id = $5", tenantID).
		Where("status = $6", string(from)).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
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

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	// SQLSTATE 23505
	return strings.Contains(err.Error(), "duplicate key value") ||
		strings.Contains(err.Error(), "23505")
}
