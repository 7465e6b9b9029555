package report

import (
	"testing"
	"time"

	"github.com/xraph/books/account"
	"github.com/xraph/books/id"
	"github.com/xraph/books/journal"
	"github.com/xraph/books/types"
)

func chart(t *testing.T) (map[string]*account.Account, []*account.Account) {
	t.Helper()
	accounts := account.DefaultChart("ten_1")
	byCode := make(map[string]*account.Account, len(accounts))
	for _, a := range accounts {
		byCode[a.Code] = a
	}
	return byCode, accounts
}

func entry(acct *account.Account, dir journal.Direction, amount int64, date time.Time, ref journal.ReferenceType, refID string, postingID id.PostingID) *journal.Entry {
	return &journal.Entry{
		Entity:        types.NewEntity(),
		ID:            id.NewEntryID(),
		TenantID:      acct.TenantID,
		AccountID:     acct.ID,
		PostingID:     postingID,
		Direction:     dir,
		Amount:        types.USD(amount),
		Date:          date,
		ReferenceID:   refID,
		ReferenceType: ref,
	}
}

func TestEntrySign(t *testing.T) {
	tests := []struct {
		typ  account.Type
		dir  journal.Direction
		want int64
	}{
		{account.TypeAsset, journal.Debit, 1},
		{account.TypeAsset, journal.Credit, -1},
		{account.TypeExpense, journal.Debit, 1},
		{account.TypeExpense, journal.Credit, -1},
		{account.TypeLiability, journal.Credit, 1},
		{account.TypeLiability, journal.Debit, -1},
		{account.TypeEquity, journal.Credit, 1},
		{account.TypeEquity, journal.Debit, -1},
		{account.TypeRevenue, journal.Credit, 1},
		{account.TypeRevenue, journal.Debit, -1},
	}
	for _, tt := range tests {
		if got := EntrySign(tt.typ, tt.dir); got != tt.want {
			t.Errorf("EntrySign(%s, %s) = %d, want %d", tt.typ, tt.dir, got, tt.want)
		}
	}
}

func TestBalanceOf(t *testing.T) {
	byCode, _ := chart(t)
	cash := byCode[account.CodeCashOnHand]
	revenue := byCode[account.CodeSalesRevenue]
	now := time.Now().UTC()

	entries := []*journal.Entry{
		entry(cash, journal.Debit, 50000, now, journal.RefManual, "", id.NewPostingID()),
		entry(cash, journal.Debit, 25000, now, journal.RefManual, "", id.NewPostingID()),
		entry(cash, journal.Credit, 10000, now, journal.RefManual, "", id.NewPostingID()),
		entry(revenue, journal.Credit, 99999, now, journal.RefManual, "", id.NewPostingID()),
	}

	bal := BalanceOf(cash, entries, "usd")
	if bal.EntryCount != 3 {
		t.Errorf("entry count = %d, want 3 (other account's entries skipped)", bal.EntryCount)
	}
	if bal.Balance.Amount != 65000 {
		t.Errorf("cash balance = %d, want 65000", bal.Balance.Amount)
	}
	if bal.Debits.Amount != 75000 || bal.Credits.Amount != 10000 {
		t.Errorf("debits/credits = %d/%d, want 75000/10000", bal.Debits.Amount, bal.Credits.Amount)
	}

	rev := BalanceOf(revenue, entries, "usd")
	if rev.Balance.Amount != 99999 {
		t.Errorf("revenue balance = %d, want 99999 (credit-normal)", rev.Balance.Amount)
	}
}

func TestTrialBalance(t *testing.T) {
	byCode, accounts := chart(t)
	now := time.Now().UTC()

	pid := id.NewPostingID()
	entries := []*journal.Entry{
		entry(byCode[account.CodeCashOnHand], journal.Debit, 40000, now, journal.RefInvoice, "inv_1", pid),
		entry(byCode[account.CodeSalesRevenue], journal.Credit, 40000, now, journal.RefInvoice, "inv_1", pid),
		// Dated past the as-of cutoff; must not count.
		entry(byCode[account.CodeCashOnHand], journal.Debit, 7, now.Add(48*time.Hour), journal.RefManual, "", id.NewPostingID()),
	}

	tb := BuildTrialBalance(accounts, entries, "usd", now.Add(time.Hour))
	if len(tb.Lines) != len(accounts) {
		t.Fatalf("got %d lines, want %d", len(tb.Lines), len(accounts))
	}
	if !tb.Balanced() {
		t.Errorf("trial balance not balanced: debits %s credits %s", tb.TotalDebits, tb.TotalCredits)
	}
	if tb.TotalDebits.Amount != 40000 {
		t.Errorf("total debits = %d, want 40000 (future entry excluded)", tb.TotalDebits.Amount)
	}
	for i := 1; i < len(tb.Lines); i++ {
		if tb.Lines[i-1].Account.Code > tb.Lines[i].Account.Code {
			t.Fatalf("lines not sorted by code: %s before %s", tb.Lines[i-1].Account.Code, tb.Lines[i].Account.Code)
		}
	}
}

func TestProfitAndLossPeriodScoped(t *testing.T) {
	byCode, accounts := chart(t)
	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)

	entries := []*journal.Entry{
		entry(byCode[account.CodeSalesRevenue], journal.Credit, 100000, jan, journal.RefManual, "", id.NewPostingID()),
		entry(byCode[account.CodeSalesRevenue], journal.Credit, 30000, feb, journal.RefManual, "", id.NewPostingID()),
		entry(byCode[account.CodeCostOfGoodsSold], journal.Debit, 20000, feb, journal.RefManual, "", id.NewPostingID()),
	}

	pl := BuildProfitAndLoss(accounts, entries, "usd",
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC))

	if pl.TotalRevenue.Amount != 30000 {
		t.Errorf("february revenue = %d, want 30000 (january excluded)", pl.TotalRevenue.Amount)
	}
	if pl.TotalExpenses.Amount != 20000 {
		t.Errorf("february expenses = %d, want 20000", pl.TotalExpenses.Amount)
	}
	if pl.NetIncome.Amount != 10000 {
		t.Errorf("net income = %d, want 10000", pl.NetIncome.Amount)
	}
	if len(pl.Revenue) != 1 || len(pl.Expenses) != 1 {
		t.Errorf("sections = %d revenue / %d expense accounts, want 1/1", len(pl.Revenue), len(pl.Expenses))
	}
}

func TestBalanceSheetCumulative(t *testing.T) {
	byCode, accounts := chart(t)
	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	entries := []*journal.Entry{
		entry(byCode[account.CodeCashOnHand], journal.Debit, 500000, jan, journal.RefManual, "", id.NewPostingID()),
		entry(byCode[account.CodeAccountsReceivable], journal.Debit, 120000, mar, journal.RefManual, "", id.NewPostingID()),
		entry(byCode[account.CodeAccountsPayable], journal.Credit, 200000, mar, journal.RefManual, "", id.NewPostingID()),
		entry(byCode[account.CodeOwnersEquity], journal.Credit, 50000, jan, journal.RefManual, "", id.NewPostingID()),
	}

	bs := BuildBalanceSheet(accounts, entries, "usd", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))

	if bs.TotalAssets.Amount != 620000 {
		t.Errorf("total assets = %d, want 620000 (cumulative across months)", bs.TotalAssets.Amount)
	}
	if bs.TotalLiabilities.Amount != 200000 {
		t.Errorf("total liabilities = %d, want 200000", bs.TotalLiabilities.Amount)
	}
	if bs.TotalEquity.Amount != 50000 {
		t.Errorf("total equity = %d, want 50000", bs.TotalEquity.Amount)
	}
	if bs.NetWorth.Amount != 420000 {
		t.Errorf("net worth = %d, want assets minus liabilities = 420000", bs.NetWorth.Amount)
	}
	if len(bs.Assets) != 2 || len(bs.Liabilities) != 1 || len(bs.Equity) != 1 {
		t.Errorf("sections = %d/%d/%d, want 2 assets, 1 liability, 1 equity", len(bs.Assets), len(bs.Liabilities), len(bs.Equity))
	}

	// Earlier cutoff excludes march activity.
	early := BuildBalanceSheet(accounts, entries, "usd", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	if early.TotalAssets.Amount != 500000 {
		t.Errorf("february assets = %d, want 500000", early.TotalAssets.Amount)
	}
}

func TestReconcile(t *testing.T) {
	byCode, _ := chart(t)
	now := time.Now().UTC()

	complete := id.NewPostingID()
	partial := id.NewPostingID()
	manual := id.NewPostingID()

	entries := []*journal.Entry{
		entry(byCode[account.CodeAccountsReceivable], journal.Credit, 1000, now, journal.RefInvoice, "inv_ok", complete),
		entry(byCode[account.CodeSalesRevenue], journal.Credit, 1000, now, journal.RefInvoice, "inv_ok", complete),
		// Second leg of this bill posting never landed.
		entry(byCode[account.CodeAccountsPayable], journal.Debit, 500, now, journal.RefBill, "bill_bad", partial),
		// Manual postings are out of scope for the sweep.
		entry(byCode[account.CodeCashOnHand], journal.Debit, 42, now, journal.RefManual, "", manual),
	}

	found := Reconcile(entries, 2)
	if len(found) != 1 {
		t.Fatalf("got %d discrepancies, want 1", len(found))
	}
	d := found[0]
	if d.PostingID != partial || d.ReferenceID != "bill_bad" || d.LegCount != 1 {
		t.Errorf("discrepancy = %+v, want the single-leg bill posting", d)
	}

	if got := Reconcile(entries[:2], 2); len(got) != 0 {
		t.Errorf("clean journal produced %d discrepancies", len(got))
	}
}
