// Package report derives balances and financial statements from the
// journal. Nothing here is stored: every figure is recomputed from the
// append-only entries on demand, so the journal stays the single source
// of truth.
package report

import (
	"sort"
	"time"

	"github.com/xraph/books/account"
	"github.com/xraph/books/journal"
	"github.com/xraph/books/types"
)

// EntrySign is the contribution of an entry to its account's balance
// under the normal-balance convention: debit-normal accounts (assets
// and expenses) grow on debits, credit-normal accounts (liabilities,
// equity, revenue) grow on credits.
func EntrySign(t account.Type, d journal.Direction) int64 {
	normalDebit := t.NormalBalance() == account.SideDebit
	isDebit := d == journal.Debit
	if normalDebit == isDebit {
		return 1
	}
	return -1
}

// AccountBalance is one account's derived position over a set of
// entries.
type AccountBalance struct {
	Account    *account.Account `json:"account"`
	Balance    types.Money      `json:"balance"`
	Debits     types.Money      `json:"debits"`
	Credits    types.Money      `json:"credits"`
	EntryCount int              `json:"entry_count"`
}

// BalanceOf folds entries into acct's balance. Entries against other
// accounts are skipped, so callers may pass an unfiltered journal.
// currency seeds the zero values when no entries match.
func BalanceOf(acct *account.Account, entries []*journal.Entry, currency string) AccountBalance {
	bal := AccountBalance{
		Account: acct,
		Balance: types.Zero(currency),
		Debits:  types.Zero(currency),
		Credits: types.Zero(currency),
	}
	for _, e := range entries {
		if e.AccountID != acct.ID {
			continue
		}
		bal.EntryCount++
		bal.Balance = accumulate(bal.Balance, e.Amount, EntrySign(acct.Type, e.Direction))
		if e.Direction == journal.Debit {
			bal.Debits = accumulate(bal.Debits, e.Amount, 1)
		} else {
			bal.Credits = accumulate(bal.Credits, e.Amount, 1)
		}
	}
	return bal
}

// accumulate adds amount*sign to total, adopting the amount's currency
// when total is still an empty zero. Entries within one tenant share a
// currency in practice.
func accumulate(total, amount types.Money, sign int64) types.Money {
	if total.IsZero() && total.Currency != amount.Currency {
		total = types.Zero(amount.Currency)
	}
	return total.Add(amount.Signed(sign))
}

// TrialBalance lists every account's balance plus raw debit and credit
// totals across the journal.
type TrialBalance struct {
	AsOf         time.Time        `json:"as_of"`
	Lines        []AccountBalance `json:"lines"`
	TotalDebits  types.Money      `json:"total_debits"`
	TotalCredits types.Money      `json:"total_credits"`
}

// Balanced reports whether total debits equal total credits.
func (tb *TrialBalance) Balanced() bool {
	return tb.TotalDebits.Equal(tb.TotalCredits)
}

// BuildTrialBalance computes a trial balance from entries dated at or
// before asOf. Lines are sorted by account code.
func BuildTrialBalance(accounts []*account.Account, entries []*journal.Entry, currency string, asOf time.Time) *TrialBalance {
	scoped := entriesUpTo(entries, asOf)
	tb := &TrialBalance{
		AsOf:         asOf,
		TotalDebits:  types.Zero(currency),
		TotalCredits: types.Zero(currency),
	}
	for _, acct := range accounts {
		line := BalanceOf(acct, scoped, currency)
		tb.Lines = append(tb.Lines, line)
		tb.TotalDebits = accumulate(tb.TotalDebits, line.Debits, 1)
		tb.TotalCredits = accumulate(tb.TotalCredits, line.Credits, 1)
	}
	sort.Slice(tb.Lines, func(i, j int) bool {
		return tb.Lines[i].Account.Code < tb.Lines[j].Account.Code
	})
	return tb
}

// ProfitAndLoss is the income statement for one period: revenue and
// expense activity between From and To inclusive.
type ProfitAndLoss struct {
	From          time.Time        `json:"from"`
	To            time.Time        `json:"to"`
	Revenue       []AccountBalance `json:"revenue"`
	Expenses      []AccountBalance `json:"expenses"`
	TotalRevenue  types.Money      `json:"total_revenue"`
	TotalExpenses types.Money      `json:"total_expenses"`
	NetIncome     types.Money      `json:"net_income"`
}

// BuildProfitAndLoss scopes entries to [from, to] and folds revenue and
// expense accounts. Net income is revenue minus expenses.
func BuildProfitAndLoss(accounts []*account.Account, entries []*journal.Entry, currency string, from, to time.Time) *ProfitAndLoss {
	scoped := make([]*journal.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		scoped = append(scoped, e)
	}

	pl := &ProfitAndLoss{
		From:          from,
		To:            to,
		TotalRevenue:  types.Zero(currency),
		TotalExpenses: types.Zero(currency),
	}
	for _, acct := range accounts {
		switch acct.Type {
		case account.TypeRevenue:
			line := BalanceOf(acct, scoped, currency)
			pl.Revenue = append(pl.Revenue, line)
			pl.TotalRevenue = accumulate(pl.TotalRevenue, line.Balance, 1)
		case account.TypeExpense:
			line := BalanceOf(acct, scoped, currency)
			pl.Expenses = append(pl.Expenses, line)
			pl.TotalExpenses = accumulate(pl.TotalExpenses, line.Balance, 1)
		}
	}
	pl.NetIncome = pl.TotalRevenue.Subtract(pl.TotalExpenses)
	return pl
}

// BalanceSheet is the cumulative position as of a date: assets,
// liabilities, and equity, with net worth as assets minus liabilities.
type BalanceSheet struct {
	AsOf             time.Time        `json:"as_of"`
	Assets           []AccountBalance `json:"assets"`
	Liabilities      []AccountBalance `json:"liabilities"`
	Equity           []AccountBalance `json:"equity"`
	TotalAssets      types.Money      `json:"total_assets"`
	TotalLiabilities types.Money      `json:"total_liabilities"`
	TotalEquity      types.Money      `json:"total_equity"`
	NetWorth         types.Money      `json:"net_worth"`
}

// BuildBalanceSheet folds all entries dated at or before asOf into the
// three balance-sheet sections. Revenue and expense accounts are
// excluded; their net effect surfaces through the income statement.
func BuildBalanceSheet(accounts []*account.Account, entries []*journal.Entry, currency string, asOf time.Time) *BalanceSheet {
	scoped := entriesUpTo(entries, asOf)
	bs := &BalanceSheet{
		AsOf:             asOf,
		TotalAssets:      types.Zero(currency),
		TotalLiabilities: types.Zero(currency),
		TotalEquity:      types.Zero(currency),
	}
	for _, acct := range accounts {
		switch acct.Type {
		case account.TypeAsset:
			line := BalanceOf(acct, scoped, currency)
			bs.Assets = append(bs.Assets, line)
			bs.TotalAssets = accumulate(bs.TotalAssets, line.Balance, 1)
		case account.TypeLiability:
			line := BalanceOf(acct, scoped, currency)
			bs.Liabilities = append(bs.Liabilities, line)
			bs.TotalLiabilities = accumulate(bs.TotalLiabilities, line.Balance, 1)
		case account.TypeEquity:
			line := BalanceOf(acct, scoped, currency)
			bs.Equity = append(bs.Equity, line)
			bs.TotalEquity = accumulate(bs.TotalEquity, line.Balance, 1)
		}
	}
	bs.NetWorth = bs.TotalAssets.Subtract(bs.TotalLiabilities)
	return bs
}

func entriesUpTo(entries []*journal.Entry, asOf time.Time) []*journal.Entry {
	scoped := make([]*journal.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Date.After(asOf) {
			continue
		}
		scoped = append(scoped, e)
	}
	return scoped
}
