package account

import "testing"

func TestDefaultChart(t *testing.T) {
	accounts := DefaultChart("tenant-1")

	if len(accounts) != 6 {
		t.Fatalf("expected 6 seeded accounts, got %d", len(accounts))
	}

	wantCodes := map[string]Type{
		"1000": TypeAsset,
		"1200": TypeAsset,
		"2000": TypeLiability,
		"3000": TypeEquity,
		"4000": TypeRevenue,
		"5000": TypeExpense,
	}

	seen := make(map[string]bool)
	for _, a := range accounts {
		if a.TenantID != "tenant-1" {
			t.Errorf("account %s: tenant %q, want tenant-1", a.Code, a.TenantID)
		}
		if a.Status != StatusActive {
			t.Errorf("account %s: status %q, want active", a.Code, a.Status)
		}
		if a.ID.IsNil() {
			t.Errorf("account %s: missing ID", a.Code)
		}
		typ, ok := wantCodes[a.Code]
		if !ok {
			t.Errorf("unexpected code %q", a.Code)
			continue
		}
		if a.Type != typ {
			t.Errorf("account %s: type %q, want %q", a.Code, a.Type, typ)
		}
		seen[a.Code] = true
	}
	if len(seen) != 6 {
		t.Errorf("expected all 6 standard codes, saw %d", len(seen))
	}
}

func TestDefaultChartFreshIDs(t *testing.T) {
	first := DefaultChart("t")
	second := DefaultChart("t")

	if first[0].ID.String() == second[0].ID.String() {
		t.Error("each seeding must generate fresh IDs")
	}
}

func TestDefaultChartCashIsBankSubtype(t *testing.T) {
	for _, a := range DefaultChart("t") {
		if a.Code == CodeCashOnHand && a.Subtype != SubtypeBankAccount {
			t.Errorf("Cash on Hand should classify as bank account, got %q", a.Subtype)
		}
		if a.Code == CodeSalesRevenue && a.Subtype != SubtypeAccountingService {
			t.Errorf("Sales Revenue should classify as accounting service, got %q", a.Subtype)
		}
	}
}

func TestBackfillCode(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"Cash on Hand", "1000"},
		{"Accounts Receivable", "1200"},
		{"Accounts Payable", "2000"},
		{"Sales Revenue", "4000"},
		{"Cost of Goods Sold", "5000"},
		{"Owner's Equity", "3000"},
		{"Custom Account", ""},
	}

	for _, tt := range tests {
		if got := BackfillCode(tt.name); got != tt.code {
			t.Errorf("BackfillCode(%q) = %q, want %q", tt.name, got, tt.code)
		}
	}
}
