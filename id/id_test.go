package id_test

import (
	"strings"
	"testing"

	"github.com/xraph/books/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"AccountID", id.NewAccountID, "acct_"},
		{"EntryID", id.NewEntryID, "txn_"},
		{"PostingID", id.NewPostingID, "post_"},
		{"InvoiceID", id.NewInvoiceID, "inv_"},
		{"BillID", id.NewBillID, "bill_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixAccount)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixAccount {
		t.Errorf("expected prefix %q, got %q", id.PrefixAccount, i.Prefix())
	}
}

func TestParseRoundTrip(t *testing.T) {
	original := id.NewEntryID()

	parsed, err := id.Parse(original.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.String() != original.String() {
		t.Errorf("round trip mismatch: %q != %q", parsed.String(), original.String())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"garbage", "not a typeid"},
		{"bad suffix", "acct_!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := id.Parse(tt.input); err == nil {
				t.Errorf("expected error for %q", tt.input)
			}
		})
	}
}

func TestParseWithPrefix(t *testing.T) {
	acct := id.NewAccountID()

	if _, err := id.ParseAccountID(acct.String()); err != nil {
		t.Errorf("expected account prefix to validate: %v", err)
	}
	if _, err := id.ParseInvoiceID(acct.String()); err == nil {
		t.Error("expected prefix mismatch error")
	}
}

func TestNilID(t *testing.T) {
	var i id.ID

	if !i.IsNil() {
		t.Error("zero value should be nil")
	}
	if i.String() != "" {
		t.Errorf("nil String() should be empty, got %q", i.String())
	}
	if i.Prefix() != "" {
		t.Errorf("nil Prefix() should be empty, got %q", i.Prefix())
	}
}

func TestTextMarshaling(t *testing.T) {
	original := id.NewPostingID()

	data, err := original.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded id.ID
	if err := decoded.UnmarshalText(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.String() != original.String() {
		t.Errorf("round trip mismatch: %q != %q", decoded.String(), original.String())
	}
}

func TestSQLScan(t *testing.T) {
	original := id.NewBillID()

	var scanned id.ID
	if err := scanned.Scan(original.String()); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if scanned.String() != original.String() {
		t.Errorf("scan mismatch: %q != %q", scanned.String(), original.String())
	}

	var fromNil id.ID
	if err := fromNil.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if !fromNil.IsNil() {
		t.Error("scanning nil should produce the Nil ID")
	}

	var bad id.ID
	if err := bad.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
}

func TestSQLValue(t *testing.T) {
	original := id.NewInvoiceID()

	v, err := original.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v != original.String() {
		t.Errorf("value mismatch: %v != %q", v, original.String())
	}

	nilVal, err := id.Nil.Value()
	if err != nil {
		t.Fatalf("nil value: %v", err)
	}
	if nilVal != nil {
		t.Errorf("nil ID should Value() as nil, got %v", nilVal)
	}
}
