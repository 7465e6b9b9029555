// Package posting translates document status transitions into journal
// entry batches. Rules are data: each rule set lists the legs posted
// when an invoice or a bill enters the Paid status, so the posting
// behavior can be swapped without touching ledger invariants.
package posting

import (
	"context"
	"strings"
	"time"

	"github.com/xraph/books/account"
	"github.com/xraph/books/bill"
	"github.com/xraph/books/id"
	"github.com/xraph/books/invoice"
	"github.com/xraph/books/journal"
	"github.com/xraph/books/types"
)

// Leg is one side of a posting rule. Code names the chart account to
// post against; when Expense is set the bill's linked expense account
// code takes precedence over Code. Memo may contain "{name}", replaced
// with the document counterparty.
type Leg struct {
	Code      string
	Direction journal.Direction
	Category  string
	Memo      string
	Expense   bool
}

// Rules is a named pair of leg lists, one per document type.
type Rules struct {
	Name    string
	Invoice []Leg
	Bill    []Leg
}

// DefaultRules preserves the legacy posting behavior: an invoice
// payment credits both Accounts Receivable and Sales Revenue, and a
// bill payment debits both Accounts Payable and the expense account.
// Neither pair balances in classic double-entry terms since there is
// no offsetting cash leg. Use CanonicalRules for textbook double-entry.
var DefaultRules = Rules{
	Name: "observed",
	Invoice: []Leg{
		{Code: account.CodeAccountsReceivable, Direction: journal.Credit, Category: "Sales", Memo: "Payment received from {name}"},
		{Code: account.CodeSalesRevenue, Direction: journal.Credit, Category: "Sales", Memo: "Sales Revenue recognized"},
	},
	Bill: []Leg{
		{Code: account.CodeAccountsPayable, Direction: journal.Debit, Category: "Cost of Goods Sold", Memo: "Payment to {name}"},
		{Code: account.CodeCostOfGoodsSold, Direction: journal.Debit, Category: "Cost of Goods Sold", Memo: "Expense recognized from {name}", Expense: true},
	},
}

// CanonicalRules posts textbook double-entry pairs: invoice payment
// debits Cash and credits Sales Revenue; bill payment debits Accounts
// Payable and credits Cash.
var CanonicalRules = Rules{
	Name: "canonical",
	Invoice: []Leg{
		{Code: account.CodeCashOnHand, Direction: journal.Debit, Category: "Sales", Memo: "Payment received from {name}"},
		{Code: account.CodeSalesRevenue, Direction: journal.Credit, Category: "Sales", Memo: "Sales Revenue recognized"},
	},
	Bill: []Leg{
		{Code: account.CodeAccountsPayable, Direction: journal.Debit, Category: "Cost of Goods Sold", Memo: "Payment to {name}"},
		{Code: account.CodeCashOnHand, Direction: journal.Credit, Category: "Cost of Goods Sold", Memo: "Cash paid to {name}"},
	},
}

// Balanced reports whether every rule list nets debits against credits.
// DefaultRules is not balanced; CanonicalRules is.
func (r Rules) Balanced() bool {
	return balanced(r.Invoice) && balanced(r.Bill)
}

func balanced(legs []Leg) bool {
	net := 0
	for _, l := range legs {
		if l.Direction == journal.Debit {
			net++
		} else {
			net--
		}
	}
	return net == 0
}

// AccountResolver resolves a chart account code within the tenant being
// posted to. Returning an error fails the whole posting; no partial
// batches are ever built.
type AccountResolver func(ctx context.Context, code string) (*account.Account, error)

// InvoiceBatch builds the journal entries for an invoice entering Paid.
// All legs share one fresh posting ID.
func InvoiceBatch(ctx context.Context, rules Rules, inv *invoice.Invoice, resolve AccountResolver, createdBy string, now time.Time) ([]*journal.Entry, error) {
	return buildBatch(ctx, rules.Invoice, batchSource{
		tenantID:     inv.TenantID,
		docLabel:     "Invoice",
		ref:          inv.Ref(),
		counterparty: inv.CustomerName,
		total:        inv.Total,
		referenceID:  inv.ID.String(),
		refType:      journal.RefInvoice,
	}, resolve, createdBy, now)
}

// BillBatch builds the journal entries for a bill entering Paid. A leg
// marked Expense resolves via the bill's linked expense account code
// when one is set.
func BillBatch(ctx context.Context, rules Rules, b *bill.Bill, resolve AccountResolver, createdBy string, now time.Time) ([]*journal.Entry, error) {
	legs := make([]Leg, len(rules.Bill))
	copy(legs, rules.Bill)
	for i := range legs {
		if legs[i].Expense && b.ExpenseAccountCode != "" {
			legs[i].Code = b.ExpenseAccountCode
		}
	}
	return buildBatch(ctx, legs, batchSource{
		tenantID:     b.TenantID,
		docLabel:     "Bill",
		ref:          b.Ref(),
		counterparty: b.VendorName,
		total:        b.Total,
		referenceID:  b.ID.String(),
		refType:      journal.RefBill,
	}, resolve, createdBy, now)
}

type batchSource struct {
	tenantID     string
	docLabel     string
	ref          string
	counterparty string
	total        types.Money
	referenceID  string
	refType      journal.ReferenceType
}

func buildBatch(ctx context.Context, legs []Leg, src batchSource, resolve AccountResolver, createdBy string, now time.Time) ([]*journal.Entry, error) {
	postingID := id.NewPostingID()

	entries := make([]*journal.Entry, 0, len(legs))
	for _, leg := range legs {
		acct, err := resolve(ctx, leg.Code)
		if err != nil {
			return nil, err
		}

		memo := strings.ReplaceAll(leg.Memo, "{name}", src.counterparty)
		entries = append(entries, &journal.Entry{
			Entity:        types.NewEntity(),
			ID:            id.NewEntryID(),
			TenantID:      src.tenantID,
			AccountID:     acct.ID,
			PostingID:     postingID,
			Direction:     leg.Direction,
			Amount:        src.total.Abs(),
			Description:   src.docLabel + " " + src.ref + " — " + memo,
			Date:          now,
			Category:      leg.Category,
			ReferenceID:   src.referenceID,
			ReferenceType: src.refType,
			CreatedBy:     createdBy,
		})
	}
	return entries, nil
}
