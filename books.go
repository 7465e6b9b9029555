package books

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/books/account"
	"github.com/xraph/books/bill"
	"github.com/xraph/books/id"
	"github.com/xraph/books/invoice"
	"github.com/xraph/books/journal"
	"github.com/xraph/books/plugin"
	"github.com/xraph/books/posting"
	"github.com/xraph/books/report"
	"github.com/xraph/books/store"
	"github.com/xraph/books/types"
)

// Books is the bookkeeping engine: a tenant-scoped double-entry ledger
// with document-driven posting.
type Books struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	// Configuration
	rules           posting.Rules
	defaultCurrency string
	expectedLegs    int
}

// New creates a new Books instance.
func New(s store.Store, opts ...Option) *Books {
	b := &Books{
		store:           s,
		plugins:         plugin.NewRegistry(),
		logger:          slog.Default(),
		rules:           posting.DefaultRules,
		defaultCurrency: "usd",
		expectedLegs:    2,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Option configures a Books instance.
type Option func(*Books)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Books) {
		b.logger = logger
		b.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(b *Books) {
		_ = b.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithRules selects the posting rule set applied when documents are
// marked paid.
func WithRules(r posting.Rules) Option {
	return func(b *Books) {
		b.rules = r
		if n := len(r.Invoice); n > 0 {
			b.expectedLegs = n
		}
	}
}

// WithDefaultCurrency sets the currency used for reports and for
// documents created without one.
func WithDefaultCurrency(currency string) Option {
	return func(b *Books) {
		b.defaultCurrency = currency
	}
}

// Start migrates the store and initializes plugins.
func (b *Books) Start(ctx context.Context) error {
	if err := b.store.Migrate(ctx); err != nil {
		return err
	}

	b.plugins.EmitInit(ctx, b)

	b.logger.Info("books started",
		"rules", b.rules.Name,
		"currency", b.defaultCurrency,
	)

	return nil
}

// Stop shuts down the engine.
func (b *Books) Stop() error {
	ctx := context.Background()
	b.plugins.EmitShutdown(ctx)

	return b.store.Close()
}

// ──────────────────────────────────────────────────
// Chart of Accounts
// ──────────────────────────────────────────────────

// ListAccounts returns the tenant's chart of accounts, provisioning the
// default chart on first touch.
func (b *Books) ListAccounts(ctx context.Context, tenantID string) ([]*account.Account, error) {
	if tenantID == "" {
		return nil, ErrInvalidInput
	}
	return b.ensureChart(ctx, tenantID)
}

// CreateAccount adds a custom account to the tenant's chart.
func (b *Books) CreateAccount(ctx context.Context, a *account.Account) error {
	if a.TenantID == "" {
		return ErrInvalidInput
	}
	if a.Name == "" {
		return ValidationError{Field: "name", Message: "required"}
	}
	if !a.Type.Valid() {
		return ValidationError{Field: "type", Message: "unknown account type"}
	}
	if a.Category == "" {
		return ValidationError{Field: "category", Message: "required"}
	}

	// The default chart exists before any custom account.
	if _, err := b.ensureChart(ctx, a.TenantID); err != nil {
		return err
	}

	if a.ID.IsNil() {
		a.ID = id.NewAccountID()
	}
	a.Entity = types.NewEntity()
	if a.Status == "" {
		a.Status = account.StatusActive
	}
	a.Subtype = account.Classify(a.Type, a.Name)

	if err := b.store.CreateAccount(ctx, a); err != nil {
		return err
	}

	b.plugins.EmitAccountCreated(ctx, a)
	return nil
}

// GetAccount retrieves one account.
func (b *Books) GetAccount(ctx context.Context, tenantID string, acctID id.AccountID) (*account.Account, error) {
	return b.store.GetAccount(ctx, tenantID, acctID)
}

// UpdateAccount applies a partial update to an account.
func (b *Books) UpdateAccount(ctx context.Context, tenantID string, acctID id.AccountID, patch account.Patch) (*account.Account, error) {
	a, err := b.store.GetAccount(ctx, tenantID, acctID)
	if err != nil {
		return nil, err
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, ValidationError{Field: "type", Message: "unknown account type"}
	}

	old := *a
	patch.Apply(a)

	if err := b.store.UpdateAccount(ctx, a); err != nil {
		return nil, err
	}

	b.plugins.EmitAccountUpdated(ctx, &old, a)
	return a, nil
}

// ArchiveAccount soft-deletes an account. Its journal history stays.
func (b *Books) ArchiveAccount(ctx context.Context, tenantID string, acctID id.AccountID) error {
	archived := account.StatusArchived
	_, err := b.UpdateAccount(ctx, tenantID, acctID, account.Patch{Status: &archived})
	return err
}

// ensureChart lists the tenant's accounts, seeding the default chart
// when the tenant has none and backfilling codes the legacy rows lack.
func (b *Books) ensureChart(ctx context.Context, tenantID string) ([]*account.Account, error) {
	accounts, err := b.store.ListAccounts(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if len(accounts) == 0 {
		chart := account.DefaultChart(tenantID)
		if err := b.store.CreateAccounts(ctx, chart); err != nil {
			// Another caller may have seeded concurrently; re-list
			// instead of failing the read.
			if IsConflict(err) {
				return b.store.ListAccounts(ctx, tenantID)
			}
			return nil, err
		}

		b.logger.Info("seeded default chart", "tenant_id", tenantID)
		b.plugins.EmitChartSeeded(ctx, tenantID, toAnySlice(chart))
		return b.store.ListAccounts(ctx, tenantID)
	}

	// Backfill codes on accounts created before codes existed.
	changed := false
	for _, a := range accounts {
		if a.Code != "" {
			continue
		}
		code := account.BackfillCode(a.Name)
		if code == "" {
			continue
		}
		a.Code = code
		a.Touch()
		if err := b.store.UpdateAccount(ctx, a); err != nil {
			// A custom account may already hold the code; leave the
			// legacy row uncoded rather than failing the listing.
			if IsConflict(err) {
				a.Code = ""
				continue
			}
			return nil, err
		}
		changed = true
	}
	if changed {
		b.logger.Debug("backfilled account codes", "tenant_id", tenantID)
	}
	return accounts, nil
}

// ──────────────────────────────────────────────────
// Journal
// ──────────────────────────────────────────────────

// RecordEntry appends a manual journal entry. The target account must
// exist and be active.
func (b *Books) RecordEntry(ctx context.Context, e *journal.Entry) error {
	if e.TenantID == "" {
		return ErrInvalidInput
	}

	a, err := b.store.GetAccount(ctx, e.TenantID, e.AccountID)
	if err != nil {
		return err
	}
	if a.Archived() {
		return ErrAccountArchived
	}

	if e.ID.IsNil() {
		e.ID = id.NewEntryID()
	}
	if e.PostingID.IsNil() {
		e.PostingID = id.NewPostingID()
	}
	if e.ReferenceType == "" {
		e.ReferenceType = journal.RefManual
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	e.Entity = types.NewEntity()

	if err := e.Validate(); err != nil {
		return err
	}
	if err := b.plugins.ValidateEntry(ctx, e); err != nil {
		return err
	}

	if err := b.store.AppendEntries(ctx, []*journal.Entry{e}); err != nil {
		return err
	}

	b.plugins.EmitEntriesPosted(ctx, []interface{}{e})
	return nil
}

// ListEntries returns the tenant's journal, newest first.
func (b *Books) ListEntries(ctx context.Context, tenantID string) ([]*journal.Entry, error) {
	return b.store.ListEntries(ctx, tenantID)
}

// ListEntriesByAccount returns one account's journal, newest first.
func (b *Books) ListEntriesByAccount(ctx context.Context, tenantID string, acctID id.AccountID) ([]*journal.Entry, error) {
	return b.store.ListEntriesByAccount(ctx, tenantID, acctID)
}

// ReversePosting appends offsetting entries for every leg of a posting.
// The original entries are never touched.
func (b *Books) ReversePosting(ctx context.Context, tenantID string, postingID id.PostingID, reversedBy string) ([]*journal.Entry, error) {
	legs, err := b.store.ListEntriesByPosting(ctx, tenantID, postingID)
	if err != nil {
		return nil, err
	}
	if len(legs) == 0 {
		return nil, ErrPostingNotFound
	}

	reversalID := id.NewPostingID()
	reversals := make([]*journal.Entry, len(legs))
	for i, leg := range legs {
		reversals[i] = leg.Reversal(reversalID, reversedBy)
	}

	if err := b.store.AppendEntries(ctx, reversals); err != nil {
		return nil, err
	}

	b.logger.Info("posting reversed",
		"tenant_id", tenantID,
		"posting_id", postingID.String(),
		"legs", len(reversals),
	)
	b.plugins.EmitReversalPosted(ctx, postingID.String(), toAnySlice(reversals))
	return reversals, nil
}

// ──────────────────────────────────────────────────
// Invoices
// ──────────────────────────────────────────────────

// CreateInvoice records a new receivable invoice.
func (b *Books) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	if inv.TenantID == "" {
		return ErrInvalidInput
	}
	if !inv.Total.IsPositive() {
		return ValidationError{Field: "total", Message: "must be positive"}
	}

	now := time.Now().UTC()
	if inv.ID.IsNil() {
		inv.ID = id.NewInvoiceID()
	}
	inv.Entity = types.NewEntity()
	if inv.Number == "" {
		inv.Number = invoice.NewNumber(now)
	}
	if inv.DueDate.IsZero() {
		inv.DueDate = invoice.DefaultDueDate(now)
	}
	if inv.Status == "" {
		inv.Status = invoice.StatusDraft
	}
	if !inv.Status.Valid() {
		return ErrInvalidStatus
	}
	if inv.Total.Currency == "" {
		inv.Total.Currency = b.defaultCurrency
	}

	if err := b.store.CreateInvoice(ctx, inv); err != nil {
		return err
	}

	b.plugins.EmitInvoiceCreated(ctx, inv)
	return nil
}

// GetInvoice retrieves one invoice.
func (b *Books) GetInvoice(ctx context.Context, tenantID string, invID id.InvoiceID) (*invoice.Invoice, error) {
	return b.store.GetInvoice(ctx, tenantID, invID)
}

// ListInvoices returns the tenant's invoices, newest first.
func (b *Books) ListInvoices(ctx context.Context, tenantID string) ([]*invoice.Invoice, error) {
	return b.store.ListInvoices(ctx, tenantID)
}

// MarkInvoicePaid moves an invoice to Paid and posts its journal legs.
// The transition is a compare-and-set on the current status, so exactly
// one of any number of concurrent callers posts; the rest observe
// ErrInvoicePaid or ErrStatusConflict. A failed posting rolls the
// transition back.
func (b *Books) MarkInvoicePaid(ctx context.Context, tenantID string, invID id.InvoiceID, paidBy string) (*invoice.Invoice, error) {
	if _, err := b.ensureChart(ctx, tenantID); err != nil {
		return nil, err
	}

	inv, err := b.store.GetInvoice(ctx, tenantID, invID)
	if err != nil {
		return nil, err
	}
	switch inv.Status {
	case invoice.StatusPaid:
		return nil, ErrInvoicePaid
	case invoice.StatusCancelled:
		return nil, ErrInvoiceVoided
	}

	from := inv.Status
	now := time.Now().UTC()

	// Resolve the posting legs before touching the status so an
	// unresolvable account leaves the invoice untouched.
	entries, err := posting.InvoiceBatch(ctx, b.rules, inv, b.resolver(tenantID), paidBy, now)
	if err != nil {
		b.plugins.EmitPostingFailed(ctx, invID.String(), err)
		return nil, err
	}

	if err := b.store.TransitionInvoice(ctx, tenantID, invID, from, invoice.StatusPaid, now); err != nil {
		return nil, err
	}

	if err := b.store.AppendEntries(ctx, entries); err != nil {
		b.rollbackInvoice(ctx, tenantID, invID, from, inv.Ref(), err)
		return nil, fmt.Errorf("%w: %v", ErrAppendFailed, err)
	}

	inv.Status = invoice.StatusPaid
	inv.PaidAt = &now
	inv.Touch()

	b.logger.Info("invoice paid",
		"tenant_id", tenantID,
		"invoice", inv.Ref(),
		"amount", inv.Total.String(),
	)
	b.plugins.EmitInvoicePaid(ctx, inv)
	b.plugins.EmitEntriesPosted(ctx, toAnySlice(entries))
	return inv, nil
}

// UpdateInvoiceStatus moves an invoice between non-posting statuses.
// Moving into Paid goes through MarkInvoicePaid so the journal legs
// are written.
func (b *Books) UpdateInvoiceStatus(ctx context.Context, tenantID string, invID id.InvoiceID, to invoice.Status) (*invoice.Invoice, error) {
	if !to.Valid() {
		return nil, ErrInvalidStatus
	}
	if to == invoice.StatusPaid {
		return b.MarkInvoicePaid(ctx, tenantID, invID, "")
	}

	inv, err := b.store.GetInvoice(ctx, tenantID, invID)
	if err != nil {
		return nil, err
	}
	if inv.Status == to {
		return inv, nil
	}

	if err := b.store.TransitionInvoice(ctx, tenantID, invID, inv.Status, to, time.Now().UTC()); err != nil {
		return nil, err
	}

	inv.Status = to
	inv.PaidAt = nil
	inv.Touch()
	return inv, nil
}

func (b *Books) rollbackInvoice(ctx context.Context, tenantID string, invID id.InvoiceID, from invoice.Status, ref string, cause error) {
	if err := b.store.TransitionInvoice(ctx, tenantID, invID, invoice.StatusPaid, from, time.Time{}); err != nil {
		b.logger.Error("invoice rollback failed; document paid without journal legs",
			"tenant_id", tenantID,
			"invoice", ref,
			"error", err,
		)
	}
	b.logger.Warn("invoice posting failed",
		"tenant_id", tenantID,
		"invoice", ref,
		"error", cause,
	)
	b.plugins.EmitPostingFailed(ctx, invID.String(), cause)
}

// ──────────────────────────────────────────────────
// Bills
// ──────────────────────────────────────────────────

// CreateBill records a new payable bill.
func (b *Books) CreateBill(ctx context.Context, bl *bill.Bill) error {
	if bl.TenantID == "" {
		return ErrInvalidInput
	}
	if !bl.Total.IsPositive() {
		return ValidationError{Field: "total", Message: "must be positive"}
	}

	now := time.Now().UTC()
	if bl.ID.IsNil() {
		bl.ID = id.NewBillID()
	}
	bl.Entity = types.NewEntity()
	if bl.Number == "" {
		bl.Number = bill.NewNumber(now)
	}
	if bl.DueDate.IsZero() {
		bl.DueDate = bill.DefaultDueDate(now)
	}
	if bl.Status == "" {
		bl.Status = bill.StatusUnpaid
	}
	if !bl.Status.Valid() {
		return ErrInvalidStatus
	}
	if bl.Total.Currency == "" {
		bl.Total.Currency = b.defaultCurrency
	}

	if err := b.store.CreateBill(ctx, bl); err != nil {
		return err
	}

	b.plugins.EmitBillCreated(ctx, bl)
	return nil
}

// GetBill retrieves one bill.
func (b *Books) GetBill(ctx context.Context, tenantID string, billID id.BillID) (*bill.Bill, error) {
	return b.store.GetBill(ctx, tenantID, billID)
}

// ListBills returns the tenant's bills, soonest due first.
func (b *Books) ListBills(ctx context.Context, tenantID string) ([]*bill.Bill, error) {
	return b.store.ListBills(ctx, tenantID)
}

// MarkBillPaid moves a bill to Paid and posts its journal legs, with
// the same compare-and-set and rollback semantics as MarkInvoicePaid.
func (b *Books) MarkBillPaid(ctx context.Context, tenantID string, billID id.BillID, paidBy string) (*bill.Bill, error) {
	if _, err := b.ensureChart(ctx, tenantID); err != nil {
		return nil, err
	}

	bl, err := b.store.GetBill(ctx, tenantID, billID)
	if err != nil {
		return nil, err
	}
	if bl.Status == bill.StatusPaid {
		return nil, ErrBillPaid
	}

	from := bl.Status
	now := time.Now().UTC()

	// Resolve the posting legs before touching the status so an
	// unresolvable account leaves the bill untouched.
	entries, err := posting.BillBatch(ctx, b.rules, bl, b.resolver(tenantID), paidBy, now)
	if err != nil {
		b.plugins.EmitPostingFailed(ctx, billID.String(), err)
		return nil, err
	}

	if err := b.store.TransitionBill(ctx, tenantID, billID, from, bill.StatusPaid, now); err != nil {
		return nil, err
	}

	if err := b.store.AppendEntries(ctx, entries); err != nil {
		b.rollbackBill(ctx, tenantID, billID, from, bl.Ref(), err)
		return nil, fmt.Errorf("%w: %v", ErrAppendFailed, err)
	}

	bl.Status = bill.StatusPaid
	bl.PaidAt = &now
	bl.Touch()

	b.logger.Info("bill paid",
		"tenant_id", tenantID,
		"bill", bl.Ref(),
		"amount", bl.Total.String(),
	)
	b.plugins.EmitBillPaid(ctx, bl)
	b.plugins.EmitEntriesPosted(ctx, toAnySlice(entries))
	return bl, nil
}

// UpdateBillStatus moves a bill between non-posting statuses. Moving
// into Paid goes through MarkBillPaid.
func (b *Books) UpdateBillStatus(ctx context.Context, tenantID string, billID id.BillID, to bill.Status) (*bill.Bill, error) {
	if !to.Valid() {
		return nil, ErrInvalidStatus
	}
	if to == bill.StatusPaid {
		return b.MarkBillPaid(ctx, tenantID, billID, "")
	}

	bl, err := b.store.GetBill(ctx, tenantID, billID)
	if err != nil {
		return nil, err
	}
	if bl.Status == to {
		return bl, nil
	}

	if err := b.store.TransitionBill(ctx, tenantID, billID, bl.Status, to, time.Now().UTC()); err != nil {
		return nil, err
	}

	bl.Status = to
	bl.PaidAt = nil
	bl.Touch()
	return bl, nil
}

func (b *Books) rollbackBill(ctx context.Context, tenantID string, billID id.BillID, from bill.Status, ref string, cause error) {
	if err := b.store.TransitionBill(ctx, tenantID, billID, bill.StatusPaid, from, time.Time{}); err != nil {
		b.logger.Error("bill rollback failed; document paid without journal legs",
			"tenant_id", tenantID,
			"bill", ref,
			"error", err,
		)
	}
	b.logger.Warn("bill posting failed",
		"tenant_id", tenantID,
		"bill", ref,
		"error", cause,
	)
	b.plugins.EmitPostingFailed(ctx, billID.String(), cause)
}

// ──────────────────────────────────────────────────
// Balances and Reports
// ──────────────────────────────────────────────────

// AccountBalance derives one account's balance from its journal.
func (b *Books) AccountBalance(ctx context.Context, tenantID string, acctID id.AccountID) (report.AccountBalance, error) {
	a, err := b.store.GetAccount(ctx, tenantID, acctID)
	if err != nil {
		return report.AccountBalance{}, err
	}
	entries, err := b.store.ListEntriesByAccount(ctx, tenantID, acctID)
	if err != nil {
		return report.AccountBalance{}, err
	}
	return report.BalanceOf(a, entries, b.defaultCurrency), nil
}

// TrialBalance derives the whole chart's balances as of a date.
func (b *Books) TrialBalance(ctx context.Context, tenantID string, asOf time.Time) (*report.TrialBalance, error) {
	accounts, entries, err := b.chartAndJournal(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return report.BuildTrialBalance(accounts, entries, b.defaultCurrency, asOf), nil
}

// ProfitAndLoss derives the income statement for a period.
func (b *Books) ProfitAndLoss(ctx context.Context, tenantID string, from, to time.Time) (*report.ProfitAndLoss, error) {
	accounts, entries, err := b.chartAndJournal(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return report.BuildProfitAndLoss(accounts, entries, b.defaultCurrency, from, to), nil
}

// BalanceSheet derives the cumulative position as of a date.
func (b *Books) BalanceSheet(ctx context.Context, tenantID string, asOf time.Time) (*report.BalanceSheet, error) {
	accounts, entries, err := b.chartAndJournal(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return report.BuildBalanceSheet(accounts, entries, b.defaultCurrency, asOf), nil
}

// Reconcile sweeps the journal for incomplete document postings.
func (b *Books) Reconcile(ctx context.Context, tenantID string) ([]report.Discrepancy, error) {
	entries, err := b.store.ListEntries(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	found := report.Reconcile(entries, b.expectedLegs)
	for i := range found {
		b.logger.Warn("reconciliation discrepancy",
			"tenant_id", tenantID,
			"posting_id", found[i].PostingID.String(),
			"reference", found[i].ReferenceID,
			"legs", found[i].LegCount,
			"problem", found[i].Problem,
		)
		b.plugins.EmitDiscrepancyFound(ctx, &found[i])
	}
	return found, nil
}

func (b *Books) chartAndJournal(ctx context.Context, tenantID string) ([]*account.Account, []*journal.Entry, error) {
	accounts, err := b.ensureChart(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := b.store.ListEntries(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}
	return accounts, entries, nil
}

// resolver adapts the account store into the posting package's code
// lookup. Unresolvable or archived accounts fail the posting.
func (b *Books) resolver(tenantID string) posting.AccountResolver {
	return func(ctx context.Context, code string) (*account.Account, error) {
		a, err := b.store.GetAccountByCode(ctx, tenantID, code)
		if err != nil {
			return nil, fmt.Errorf("%w: code %s", ErrPostingAccount, code)
		}
		if a.Archived() {
			return nil, fmt.Errorf("%w: code %s is archived", ErrPostingAccount, code)
		}
		return a, nil
	}
}

func toAnySlice[T any](items []T) []interface{} {
	result := make([]interface{}, len(items))
	for i, v := range items {
		result[i] = v
	}
	return result
}
