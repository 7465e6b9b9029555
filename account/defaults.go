package account

import (
	"github.com/xraph/books/id"
	"github.com/xraph/books/types"
)

// Standard chart-of-accounts codes seeded for every new tenant.
const (
	CodeCashOnHand         = "1000"
	CodeAccountsReceivable = "1200"
	CodeAccountsPayable    = "2000"
	CodeOwnersEquity       = "3000"
	CodeSalesRevenue       = "4000"
	CodeCostOfGoodsSold    = "5000"
)

// defaultChart is the seed chart created lazily on first access for a
// tenant with no accounts. Order matches the original seeding order.
var defaultChart = []struct {
	code     string
	name     string
	typ      Type
	category string
}{
	{CodeCashOnHand, "Cash on Hand", TypeAsset, "Current Asset"},
	{CodeAccountsReceivable, "Accounts Receivable", TypeAsset, "Current Asset"},
	{CodeAccountsPayable, "Accounts Payable", TypeLiability, "Current Liability"},
	{CodeSalesRevenue, "Sales Revenue", TypeRevenue, "Operating Revenue"},
	{CodeCostOfGoodsSold, "Cost of Goods Sold", TypeExpense, "Cost of Sales"},
	{CodeOwnersEquity, "Owner's Equity", TypeEquity, "Equity"},
}

// DefaultChart builds the six standard accounts for a tenant. Each call
// generates fresh IDs and timestamps.
func DefaultChart(tenantID string) []*Account {
	accounts := make([]*Account, len(defaultChart))
	for i, d := range defaultChart {
		accounts[i] = &Account{
			Entity:   types.NewEntity(),
			ID:       id.NewAccountID(),
			TenantID: tenantID,
			Code:     d.code,
			Name:     d.name,
			Type:     d.typ,
			Category: d.category,
			Status:   StatusActive,
			Subtype:  Classify(d.typ, d.name),
		}
	}
	return accounts
}

// backfillCodes maps the standard account names to their codes. Used to
// assign codes to legacy accounts created before codes existed, a
// one-time migration path exercised during listing.
var backfillCodes = map[string]string{
	"Cash on Hand":        CodeCashOnHand,
	"Accounts Receivable": CodeAccountsReceivable,
	"Accounts Payable":    CodeAccountsPayable,
	"Sales Revenue":       CodeSalesRevenue,
	"Cost of Goods Sold":  CodeCostOfGoodsSold,
	"Owner's Equity":      CodeOwnersEquity,
}

// BackfillCode returns the standard code for a legacy account name, or
// "" when the name is not one of the seeded defaults.
func BackfillCode(name string) string {
	return backfillCodes[name]
}
