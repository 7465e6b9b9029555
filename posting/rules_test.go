package posting

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xraph/books/account"
	"github.com/xraph/books/bill"
	"github.com/xraph/books/id"
	"github.com/xraph/books/invoice"
	"github.com/xraph/books/journal"
	"github.com/xraph/books/types"
)

func chartResolver(t *testing.T, tenantID string) (AccountResolver, map[string]id.AccountID) {
	t.Helper()
	byCode := make(map[string]*account.Account)
	ids := make(map[string]id.AccountID)
	for _, a := range account.DefaultChart(tenantID) {
		byCode[a.Code] = a
		ids[a.Code] = a.ID
	}
	return func(_ context.Context, code string) (*account.Account, error) {
		a, ok := byCode[code]
		if !ok {
			return nil, errors.New("no account for code " + code)
		}
		return a, nil
	}, ids
}

func TestInvoiceBatchDefaultRules(t *testing.T) {
	resolve, ids := chartResolver(t, "ten_1")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	inv := &invoice.Invoice{
		Entity:       types.NewEntity(),
		ID:           id.NewInvoiceID(),
		TenantID:     "ten_1",
		Number:       "INV-000042",
		CustomerName: "Acme Ltd",
		Total:        types.USD(150000),
		Status:       invoice.StatusPaid,
	}

	entries, err := InvoiceBatch(context.Background(), DefaultRules, inv, resolve, "usr_1", now)
	if err != nil {
		t.Fatalf("InvoiceBatch: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	ar, rev := entries[0], entries[1]
	if ar.AccountID != ids[account.CodeAccountsReceivable] {
		t.Errorf("first leg account = %v, want accounts receivable", ar.AccountID)
	}
	if rev.AccountID != ids[account.CodeSalesRevenue] {
		t.Errorf("second leg account = %v, want sales revenue", rev.AccountID)
	}
	for i, e := range entries {
		if e.Direction != journal.Credit {
			t.Errorf("leg %d direction = %s, want credit", i, e.Direction)
		}
		if !e.Amount.Equal(types.USD(150000)) {
			t.Errorf("leg %d amount = %s, want $1500.00", i, e.Amount)
		}
		if e.PostingID != entries[0].PostingID {
			t.Errorf("leg %d has posting id %v, want shared %v", i, e.PostingID, entries[0].PostingID)
		}
		if e.Category != "Sales" {
			t.Errorf("leg %d category = %q, want Sales", i, e.Category)
		}
		if e.ReferenceType != journal.RefInvoice || e.ReferenceID != inv.ID.String() {
			t.Errorf("leg %d reference = %s/%s, want invoice/%s", i, e.ReferenceType, e.ReferenceID, inv.ID)
		}
		if err := e.Validate(); err != nil {
			t.Errorf("leg %d invalid: %v", i, err)
		}
	}
	if !strings.Contains(ar.Description, "INV-000042") || !strings.Contains(ar.Description, "Acme Ltd") {
		t.Errorf("receivable memo %q missing invoice ref or customer", ar.Description)
	}
	if !strings.Contains(rev.Description, "Sales Revenue recognized") {
		t.Errorf("revenue memo %q missing recognition note", rev.Description)
	}
}

func TestBillBatchExpenseOverride(t *testing.T) {
	resolve, ids := chartResolver(t, "ten_1")
	now := time.Now().UTC()

	b := &bill.Bill{
		Entity:     types.NewEntity(),
		ID:         id.NewBillID(),
		TenantID:   "ten_1",
		Number:     "BILL-000007",
		VendorName: "Paper Co",
		Total:      types.KES(80000),
		Status:     bill.StatusPaid,
	}

	// No linked expense account: fall back to cost of goods sold.
	entries, err := BillBatch(context.Background(), DefaultRules, b, resolve, "usr_1", now)
	if err != nil {
		t.Fatalf("BillBatch: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].AccountID != ids[account.CodeAccountsPayable] {
		t.Errorf("first leg account = %v, want accounts payable", entries[0].AccountID)
	}
	if entries[1].AccountID != ids[account.CodeCostOfGoodsSold] {
		t.Errorf("second leg account = %v, want cost of goods sold", entries[1].AccountID)
	}
	for i, e := range entries {
		if e.Direction != journal.Debit {
			t.Errorf("leg %d direction = %s, want debit", i, e.Direction)
		}
	}

	// Linked expense account redirects the second leg only.
	b.ExpenseAccountCode = account.CodeCashOnHand
	entries, err = BillBatch(context.Background(), DefaultRules, b, resolve, "usr_1", now)
	if err != nil {
		t.Fatalf("BillBatch with expense code: %v", err)
	}
	if entries[0].AccountID != ids[account.CodeAccountsPayable] {
		t.Errorf("payable leg moved when only the expense leg should")
	}
	if entries[1].AccountID != ids[account.CodeCashOnHand] {
		t.Errorf("expense leg account = %v, want linked code %s", entries[1].AccountID, account.CodeCashOnHand)
	}
}

func TestBatchFailsWhenLegUnresolvable(t *testing.T) {
	resolve := AccountResolver(func(_ context.Context, code string) (*account.Account, error) {
		if code == account.CodeAccountsReceivable {
			return account.DefaultChart("ten_1")[1], nil
		}
		return nil, errors.New("missing " + code)
	})

	inv := &invoice.Invoice{
		Entity:   types.NewEntity(),
		ID:       id.NewInvoiceID(),
		TenantID: "ten_1",
		Total:    types.USD(100),
	}
	entries, err := InvoiceBatch(context.Background(), DefaultRules, inv, resolve, "", time.Now())
	if err == nil {
		t.Fatal("expected error when a leg account is unresolvable")
	}
	if entries != nil {
		t.Errorf("got partial batch of %d entries, want none", len(entries))
	}
}

func TestRulesBalanced(t *testing.T) {
	if DefaultRules.Balanced() {
		t.Error("observed rules should not balance: both invoice legs credit, both bill legs debit")
	}
	if !CanonicalRules.Balanced() {
		t.Error("canonical rules should balance")
	}
}
