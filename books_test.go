package books_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xraph/books"
	"github.com/xraph/books/account"
	"github.com/xraph/books/bill"
	"github.com/xraph/books/id"
	"github.com/xraph/books/invoice"
	"github.com/xraph/books/journal"
	"github.com/xraph/books/posting"
	"github.com/xraph/books/store"
	"github.com/xraph/books/store/memory"
)

const tenant = "tenant_123"

func newBooks(t *testing.T, opts ...books.Option) *books.Books {
	t.Helper()
	b := books.New(memory.New(), opts...)
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { _ = b.Stop() })
	return b
}

func accountByCode(t *testing.T, accounts []*account.Account, code string) *account.Account {
	t.Helper()
	for _, a := range accounts {
		if a.Code == code {
			return a
		}
	}
	t.Fatalf("no account with code %s", code)
	return nil
}

func newSentInvoice(t *testing.T, b *books.Books, amount int64) *invoice.Invoice {
	t.Helper()
	inv := &invoice.Invoice{
		TenantID:     tenant,
		CustomerName: "Acme Corp",
		Total:        books.USD(amount),
		Status:       invoice.StatusSent,
	}
	if err := b.CreateInvoice(context.Background(), inv); err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	return inv
}

func TestChartSeededOnFirstUse(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()

	accounts, err := b.ListAccounts(ctx, tenant)
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	if len(accounts) != 6 {
		t.Fatalf("expected 6 seeded accounts, got %d", len(accounts))
	}

	for _, code := range []string{"1000", "1200", "2000", "3000", "4000", "5000"} {
		accountByCode(t, accounts, code)
	}

	// Seeding is idempotent.
	again, err := b.ListAccounts(ctx, tenant)
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if len(again) != 6 {
		t.Fatalf("expected 6 accounts on second list, got %d", len(again))
	}

	// Another tenant gets its own chart.
	other, err := b.ListAccounts(ctx, "tenant_456")
	if err != nil {
		t.Fatalf("other tenant list: %v", err)
	}
	if len(other) != 6 {
		t.Fatalf("expected 6 accounts for other tenant, got %d", len(other))
	}
}

func TestCreateAccountRejectsDuplicateCode(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()

	err := b.CreateAccount(ctx, &account.Account{
		TenantID: tenant,
		Name:     "Petty Cash",
		Type:     account.TypeAsset,
		Category: "Cash",
		Code:     account.CodeCashOnHand,
	})
	if !errors.Is(err, books.ErrAccountCodeTaken) {
		t.Fatalf("expected ErrAccountCodeTaken, got %v", err)
	}

	// A fresh code is fine, and the account is classified.
	a := &account.Account{
		TenantID: tenant,
		Name:     "Chase Bank Checking",
		Type:     account.TypeAsset,
		Category: "Cash",
		Code:     "1010",
	}
	if err := b.CreateAccount(ctx, a); err != nil {
		t.Fatalf("create account: %v", err)
	}
	if a.ID.IsNil() {
		t.Fatal("expected a generated account ID")
	}
	if a.Subtype != account.SubtypeBankAccount {
		t.Fatalf("expected bank_account subtype, got %s", a.Subtype)
	}
}

func TestCreateAccountRequiresCategory(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()

	err := b.CreateAccount(ctx, &account.Account{
		TenantID: tenant,
		Name:     "Petty Cash",
		Type:     account.TypeAsset,
		Code:     "1020",
	})
	var verr books.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "category" {
		t.Fatalf("expected category validation failure, got field %q", verr.Field)
	}

	// Nothing was persisted.
	accounts, err := b.ListAccounts(ctx, tenant)
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	for _, a := range accounts {
		if a.Code == "1020" {
			t.Fatal("rejected account was persisted")
		}
	}
}

func TestUpdateAccountRejectsDuplicateCode(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()

	accounts, err := b.ListAccounts(ctx, tenant)
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	cash := accountByCode(t, accounts, account.CodeCashOnHand)

	taken := account.CodeAccountsReceivable
	_, err = b.UpdateAccount(ctx, tenant, cash.ID, account.Patch{Code: &taken})
	if !errors.Is(err, books.ErrAccountCodeTaken) {
		t.Fatalf("expected ErrAccountCodeTaken, got %v", err)
	}
	if !books.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}

	// The account keeps its original code.
	got, err := b.GetAccount(ctx, tenant, cash.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if got.Code != account.CodeCashOnHand {
		t.Fatalf("expected code %s, got %s", account.CodeCashOnHand, got.Code)
	}
}

func TestMarkInvoicePaidPostsTwoCredits(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()
	inv := newSentInvoice(t, b, 12500)

	paid, err := b.MarkInvoicePaid(ctx, tenant, inv.ID, "jane")
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if paid.Status != invoice.StatusPaid {
		t.Fatalf("expected paid status, got %s", paid.Status)
	}
	if paid.PaidAt == nil {
		t.Fatal("expected PaidAt to be set")
	}

	entries, err := b.ListEntries(ctx, tenant)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 journal legs, got %d", len(entries))
	}

	accounts, _ := b.ListAccounts(ctx, tenant)
	ar := accountByCode(t, accounts, account.CodeAccountsReceivable)
	sales := accountByCode(t, accounts, account.CodeSalesRevenue)

	hit := map[id.AccountID]bool{}
	for _, e := range entries {
		if e.Direction != journal.Credit {
			t.Fatalf("expected credit leg, got %s", e.Direction)
		}
		if e.Amount.Amount != 12500 {
			t.Fatalf("expected amount 12500, got %d", e.Amount.Amount)
		}
		if e.PostingID != entries[0].PostingID {
			t.Fatal("legs must share one posting ID")
		}
		if e.ReferenceID != inv.ID.String() || e.ReferenceType != journal.RefInvoice {
			t.Fatalf("bad reference: %s %s", e.ReferenceID, e.ReferenceType)
		}
		hit[e.AccountID] = true
	}
	if !hit[ar.ID] || !hit[sales.ID] {
		t.Fatal("expected legs against accounts receivable and sales revenue")
	}
}

func TestMarkInvoicePaidIsExactlyOnce(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()
	inv := newSentInvoice(t, b, 9900)

	if _, err := b.MarkInvoicePaid(ctx, tenant, inv.ID, ""); err != nil {
		t.Fatalf("first mark paid: %v", err)
	}
	if _, err := b.MarkInvoicePaid(ctx, tenant, inv.ID, ""); !errors.Is(err, books.ErrInvoicePaid) {
		t.Fatalf("expected ErrInvoicePaid, got %v", err)
	}

	entries, _ := b.ListEntries(ctx, tenant)
	if len(entries) != 2 {
		t.Fatalf("expected 2 legs after double mark, got %d", len(entries))
	}
}

func TestConcurrentMarkInvoicePaid(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()
	inv := newSentInvoice(t, b, 5000)

	// Seed up front so the racers contend on the invoice, not the chart.
	if _, err := b.ListAccounts(ctx, tenant); err != nil {
		t.Fatalf("seed chart: %v", err)
	}

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = b.MarkInvoicePaid(ctx, tenant, inv.ID, "")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, books.ErrInvoicePaid), errors.Is(err, books.ErrStatusConflict):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}

	entries, _ := b.ListEntries(ctx, tenant)
	if len(entries) != 2 {
		t.Fatalf("expected exactly one leg pair, got %d entries", len(entries))
	}
}

// appendFailStore rejects journal writes after a threshold so posting
// failure paths can be exercised.
type appendFailStore struct {
	store.Store
	mu      sync.Mutex
	allowed int
}

func (f *appendFailStore) AppendEntries(ctx context.Context, entries []*journal.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.allowed <= 0 {
		return errors.New("journal unavailable")
	}
	f.allowed--
	return f.Store.AppendEntries(ctx, entries)
}

func TestMarkInvoicePaidRollsBackOnAppendFailure(t *testing.T) {
	b := books.New(&appendFailStore{Store: memory.New()})
	ctx := context.Background()

	inv := newSentInvoice(t, b, 7500)

	_, err := b.MarkInvoicePaid(ctx, tenant, inv.ID, "")
	if !errors.Is(err, books.ErrAppendFailed) {
		t.Fatalf("expected ErrAppendFailed, got %v", err)
	}

	got, err := b.GetInvoice(ctx, tenant, inv.ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if got.Status != invoice.StatusSent {
		t.Fatalf("expected status rolled back to sent, got %s", got.Status)
	}
	if got.PaidAt != nil {
		t.Fatal("expected PaidAt cleared after rollback")
	}

	entries, _ := b.ListEntries(ctx, tenant)
	if len(entries) != 0 {
		t.Fatalf("expected no journal legs, got %d", len(entries))
	}
}

func TestMarkInvoicePaidLeavesStatusWhenAccountUnresolvable(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()
	inv := newSentInvoice(t, b, 6000)

	accounts, _ := b.ListAccounts(ctx, tenant)
	sales := accountByCode(t, accounts, account.CodeSalesRevenue)
	if err := b.ArchiveAccount(ctx, tenant, sales.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	_, err := b.MarkInvoicePaid(ctx, tenant, inv.ID, "")
	if !errors.Is(err, books.ErrPostingAccount) {
		t.Fatalf("expected ErrPostingAccount, got %v", err)
	}

	got, _ := b.GetInvoice(ctx, tenant, inv.ID)
	if got.Status != invoice.StatusSent {
		t.Fatalf("expected status untouched, got %s", got.Status)
	}
	entries, _ := b.ListEntries(ctx, tenant)
	if len(entries) != 0 {
		t.Fatalf("expected no legs, got %d", len(entries))
	}
}

func TestMarkBillPaidUsesLinkedExpenseAccount(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()

	rent := &account.Account{
		TenantID: tenant,
		Name:     "Rent Expense",
		Type:     account.TypeExpense,
		Category: "Operating Expenses",
		Code:     "5100",
	}
	if err := b.CreateAccount(ctx, rent); err != nil {
		t.Fatalf("create expense account: %v", err)
	}

	bl := &bill.Bill{
		TenantID:           tenant,
		VendorName:         "Downtown Properties",
		Total:              books.USD(80000),
		ExpenseAccountCode: "5100",
	}
	if err := b.CreateBill(ctx, bl); err != nil {
		t.Fatalf("create bill: %v", err)
	}

	paid, err := b.MarkBillPaid(ctx, tenant, bl.ID, "jane")
	if err != nil {
		t.Fatalf("mark bill paid: %v", err)
	}
	if paid.Status != bill.StatusPaid || paid.PaidAt == nil {
		t.Fatalf("expected paid bill, got %s", paid.Status)
	}

	accounts, _ := b.ListAccounts(ctx, tenant)
	ap := accountByCode(t, accounts, account.CodeAccountsPayable)

	entries, _ := b.ListEntries(ctx, tenant)
	if len(entries) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(entries))
	}
	hit := map[id.AccountID]bool{}
	for _, e := range entries {
		if e.Direction != journal.Debit {
			t.Fatalf("expected debit leg, got %s", e.Direction)
		}
		hit[e.AccountID] = true
	}
	if !hit[ap.ID] || !hit[rent.ID] {
		t.Fatal("expected legs against accounts payable and the linked expense account")
	}

	if _, err := b.MarkBillPaid(ctx, tenant, bl.ID, ""); !errors.Is(err, books.ErrBillPaid) {
		t.Fatalf("expected ErrBillPaid, got %v", err)
	}
}

func TestReversePosting(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()
	inv := newSentInvoice(t, b, 12500)

	if _, err := b.MarkInvoicePaid(ctx, tenant, inv.ID, ""); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	entries, _ := b.ListEntries(ctx, tenant)
	postingID := entries[0].PostingID

	reversals, err := b.ReversePosting(ctx, tenant, postingID, "admin")
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if len(reversals) != 2 {
		t.Fatalf("expected 2 reversal legs, got %d", len(reversals))
	}
	for _, r := range reversals {
		if r.Direction != journal.Debit {
			t.Fatalf("expected debit reversal of a credit leg, got %s", r.Direction)
		}
		if r.ReferenceType != journal.RefReversal {
			t.Fatalf("expected reversal reference type, got %s", r.ReferenceType)
		}
		if r.PostingID == postingID {
			t.Fatal("reversal must carry its own posting ID")
		}
	}

	// Reversal nets the account back to zero.
	accounts, _ := b.ListAccounts(ctx, tenant)
	ar := accountByCode(t, accounts, account.CodeAccountsReceivable)
	bal, err := b.AccountBalance(ctx, tenant, ar.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.Balance.Amount != 0 {
		t.Fatalf("expected zero balance after reversal, got %d", bal.Balance.Amount)
	}

	if _, err := b.ReversePosting(ctx, tenant, id.NewPostingID(), ""); !errors.Is(err, books.ErrPostingNotFound) {
		t.Fatalf("expected ErrPostingNotFound, got %v", err)
	}
}

func TestRecordEntry(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()

	accounts, _ := b.ListAccounts(ctx, tenant)
	cash := accountByCode(t, accounts, account.CodeCashOnHand)

	e := &journal.Entry{
		TenantID:    tenant,
		AccountID:   cash.ID,
		Direction:   journal.Debit,
		Amount:      books.USD(5000),
		Description: "Opening float",
	}
	if err := b.RecordEntry(ctx, e); err != nil {
		t.Fatalf("record entry: %v", err)
	}
	if e.PostingID.IsNil() || e.ReferenceType != journal.RefManual {
		t.Fatal("expected manual entry defaults")
	}

	bal, err := b.AccountBalance(ctx, tenant, cash.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.Balance.Amount != 5000 {
		t.Fatalf("expected balance 5000, got %d", bal.Balance.Amount)
	}

	// Archived accounts reject new entries.
	if err := b.ArchiveAccount(ctx, tenant, cash.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	err = b.RecordEntry(ctx, &journal.Entry{
		TenantID:  tenant,
		AccountID: cash.ID,
		Direction: journal.Debit,
		Amount:    books.USD(100),
	})
	if !errors.Is(err, books.ErrAccountArchived) {
		t.Fatalf("expected ErrAccountArchived, got %v", err)
	}
}

func TestUpdateInvoiceStatus(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()

	inv := &invoice.Invoice{
		TenantID:     tenant,
		CustomerName: "Acme Corp",
		Total:        books.USD(4200),
	}
	if err := b.CreateInvoice(ctx, inv); err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.Status != invoice.StatusDraft {
		t.Fatalf("expected draft default, got %s", inv.Status)
	}
	if inv.Number == "" || inv.DueDate.IsZero() {
		t.Fatal("expected number and due date defaults")
	}

	got, err := b.UpdateInvoiceStatus(ctx, tenant, inv.ID, invoice.StatusSent)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if got.Status != invoice.StatusSent {
		t.Fatalf("expected sent, got %s", got.Status)
	}

	// Paid routes through the posting path.
	got, err = b.UpdateInvoiceStatus(ctx, tenant, inv.ID, invoice.StatusPaid)
	if err != nil {
		t.Fatalf("update to paid: %v", err)
	}
	if got.Status != invoice.StatusPaid {
		t.Fatalf("expected paid, got %s", got.Status)
	}
	entries, _ := b.ListEntries(ctx, tenant)
	if len(entries) != 2 {
		t.Fatalf("expected 2 legs from paid transition, got %d", len(entries))
	}
}

func TestTrialBalanceWithCanonicalRules(t *testing.T) {
	b := newBooks(t, books.WithRules(posting.CanonicalRules))
	ctx := context.Background()
	inv := newSentInvoice(t, b, 12500)

	if _, err := b.MarkInvoicePaid(ctx, tenant, inv.ID, ""); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	tb, err := b.TrialBalance(ctx, tenant, time.Now().UTC())
	if err != nil {
		t.Fatalf("trial balance: %v", err)
	}
	if !tb.Balanced() {
		t.Fatalf("expected balanced books: debits %d credits %d",
			tb.TotalDebits.Amount, tb.TotalCredits.Amount)
	}
	if tb.TotalDebits.Amount != 12500 {
		t.Fatalf("expected total debits 12500, got %d", tb.TotalDebits.Amount)
	}

	pl, err := b.ProfitAndLoss(ctx, tenant, time.Now().UTC().AddDate(0, 0, -1), time.Now().UTC())
	if err != nil {
		t.Fatalf("p&l: %v", err)
	}
	if pl.NetIncome.Amount != 12500 {
		t.Fatalf("expected net income 12500, got %d", pl.NetIncome.Amount)
	}

	bs, err := b.BalanceSheet(ctx, tenant, time.Now().UTC())
	if err != nil {
		t.Fatalf("balance sheet: %v", err)
	}
	if bs.NetWorth.Amount != 12500 {
		t.Fatalf("expected net worth 12500, got %d", bs.NetWorth.Amount)
	}
}

func TestReconcileFlagsPartialPostings(t *testing.T) {
	mem := memory.New()
	b := books.New(mem)
	ctx := context.Background()

	accounts, err := b.ListAccounts(ctx, tenant)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	ar := accountByCode(t, accounts, account.CodeAccountsReceivable)

	// A lone invoice leg, as left behind by a crashed posting.
	orphan := &journal.Entry{
		Entity:        books.NewEntity(),
		ID:            id.NewEntryID(),
		TenantID:      tenant,
		AccountID:     ar.ID,
		PostingID:     id.NewPostingID(),
		Direction:     journal.Credit,
		Amount:        books.USD(3000),
		Date:          time.Now().UTC(),
		ReferenceID:   "inv_broken",
		ReferenceType: journal.RefInvoice,
	}
	if err := mem.AppendEntries(ctx, []*journal.Entry{orphan}); err != nil {
		t.Fatalf("append orphan: %v", err)
	}

	found, err := b.Reconcile(ctx, tenant)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 discrepancy, got %d", len(found))
	}
	if found[0].LegCount != 1 || found[0].ReferenceID != "inv_broken" {
		t.Fatalf("unexpected discrepancy: %+v", found[0])
	}

	// A healthy posting clears the sweep.
	inv := newSentInvoice(t, b, 1000)
	if _, err := b.MarkInvoicePaid(ctx, tenant, inv.ID, ""); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	found, err = b.Reconcile(ctx, tenant)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected only the orphan flagged, got %d", len(found))
	}
}
