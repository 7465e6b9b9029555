package types

import (
	"encoding/json"
	"testing"
)

func TestMoneyConstructors(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		amount   int64
		currency string
		display  string
	}{
		{"USD", USD(4900), 4900, "usd", "$49.00"},
		{"EUR", EUR(19900), 19900, "eur", "€199.00"},
		{"GBP", GBP(9900), 9900, "gbp", "£99.00"},
		{"KES", KES(150000), 150000, "kes", "KSh1500.00"},
		{"NGN", NGN(250000), 250000, "ngn", "₦2500.00"},
		{"ZAR", ZAR(7550), 7550, "zar", "R75.50"},
		{"New upper-cases currency", New(100, "USD"), 100, "usd", "$1.00"},
		{"Zero USD", Zero("USD"), 0, "usd", "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.money.Amount != tt.amount {
				t.Errorf("Amount: got %d, want %d", tt.money.Amount, tt.amount)
			}
			if tt.money.Currency != tt.currency {
				t.Errorf("Currency: got %s, want %s", tt.money.Currency, tt.currency)
			}
			if tt.money.String() != tt.display {
				t.Errorf("Display: got %s, want %s", tt.money.String(), tt.display)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Money
		expected Money
	}{
		{"Add", func() Money { return USD(100).Add(USD(200)) }, USD(300)},
		{"Subtract", func() Money { return USD(500).Subtract(USD(200)) }, USD(300)},
		{"Multiply", func() Money { return USD(100).Multiply(3) }, USD(300)},
		{"Negate", func() Money { return USD(100).Negate() }, USD(-100)},
		{"Abs positive", func() Money { return USD(100).Abs() }, USD(100)},
		{"Abs negative", func() Money { return USD(-100).Abs() }, USD(100)},
		{"Signed debit", func() Money { return USD(100).Signed(1) }, USD(100)},
		{"Signed credit", func() Money { return USD(100).Signed(-1) }, USD(-100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.op()
			if !result.Equal(tt.expected) {
				t.Errorf("Got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for currency mismatch")
		}
	}()

	// This should panic
	_ = USD(100).Add(KES(100))
}

func TestMoneyComparisons(t *testing.T) {
	if !USD(100).LessThan(USD(200)) {
		t.Error("100 < 200 should hold")
	}
	if !USD(200).GreaterThan(USD(100)) {
		t.Error("200 > 100 should hold")
	}
	if !USD(0).IsZero() {
		t.Error("zero should be zero")
	}
	if !USD(1).IsPositive() {
		t.Error("1 should be positive")
	}
	if !USD(-1).IsNegative() {
		t.Error("-1 should be negative")
	}
	if USD(100).SameCurrency(KES(100)) {
		t.Error("usd and kes are different currencies")
	}
}

func TestMoneyFormatMajor(t *testing.T) {
	tests := []struct {
		money Money
		want  string
	}{
		{USD(4900), "49.00"},
		{USD(5), "0.05"},
		{USD(-1234), "-12.34"},
		{New(100, "jpy"), "100"},
		{New(1500, "ugx"), "1500"},
	}

	for _, tt := range tests {
		if got := tt.money.FormatMajor(); got != tt.want {
			t.Errorf("FormatMajor(%v): got %q, want %q", tt.money, got, tt.want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(USD(4900))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Display  string `json:"display"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Amount != 4900 || decoded.Currency != "usd" || decoded.Display != "$49.00" {
		t.Errorf("unexpected JSON payload: %+v", decoded)
	}
}

func TestSum(t *testing.T) {
	total := Sum(USD(100), USD(200), USD(300))
	if !total.Equal(USD(600)) {
		t.Errorf("Sum: got %v, want %v", total, USD(600))
	}

	empty := Sum()
	if !empty.IsZero() {
		t.Errorf("empty Sum should be zero, got %v", empty)
	}
}

func TestEntityTouch(t *testing.T) {
	e := NewEntity()
	created := e.UpdatedAt

	e.Touch()
	if e.UpdatedAt.Before(created) {
		t.Error("Touch should not move UpdatedAt backwards")
	}
	if e.CreatedAt != created {
		t.Error("Touch must not modify CreatedAt")
	}
}
