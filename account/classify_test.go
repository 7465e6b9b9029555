package account

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		acct    string
		subtype Subtype
	}{
		{"asset with bank in name", TypeAsset, "Equity Bank Checking", SubtypeBankAccount},
		{"asset with cash in name", TypeAsset, "Cash on Hand", SubtypeBankAccount},
		{"asset mixed case", TypeAsset, "Petty CASH drawer", SubtypeBankAccount},
		{"plain asset", TypeAsset, "Accounts Receivable", SubtypeAccountingService},
		{"liability with bank in name", TypeLiability, "Bank Loan", SubtypeAccountingService},
		{"revenue", TypeRevenue, "Sales Revenue", SubtypeAccountingService},
		{"expense with cash in name", TypeExpense, "Cash Shortage", SubtypeAccountingService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.typ, tt.acct); got != tt.subtype {
				t.Errorf("Classify(%q, %q) = %q, want %q", tt.typ, tt.acct, got, tt.subtype)
			}
		})
	}
}

func TestNormalBalance(t *testing.T) {
	tests := []struct {
		typ  Type
		side Side
	}{
		{TypeAsset, SideDebit},
		{TypeExpense, SideDebit},
		{TypeLiability, SideCredit},
		{TypeEquity, SideCredit},
		{TypeRevenue, SideCredit},
	}

	for _, tt := range tests {
		if got := tt.typ.NormalBalance(); got != tt.side {
			t.Errorf("%s.NormalBalance() = %s, want %s", tt.typ, got, tt.side)
		}
	}
}

func TestTypeValid(t *testing.T) {
	for _, typ := range []Type{TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense} {
		if !typ.Valid() {
			t.Errorf("%s should be valid", typ)
		}
	}
	if Type("bank").Valid() {
		t.Error("unknown type should be invalid")
	}
	if Type("").Valid() {
		t.Error("empty type should be invalid")
	}
}
