package journal

import (
	"errors"
	"testing"
	"time"

	"github.com/xraph/books/id"
	"github.com/xraph/books/types"
)

func validEntry() *Entry {
	return &Entry{
		Entity:        types.NewEntity(),
		ID:            id.NewEntryID(),
		TenantID:      "tenant-1",
		AccountID:     id.NewAccountID(),
		PostingID:     id.NewPostingID(),
		Direction:     Debit,
		Amount:        types.USD(1000),
		Description:   "Office rent",
		Date:          time.Now(),
		ReferenceType: RefManual,
	}
}

func TestEntryValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Entry)
		field  string
	}{
		{"valid", func(e *Entry) {}, ""},
		{"missing tenant", func(e *Entry) { e.TenantID = "" }, "tenant_id"},
		{"missing account", func(e *Entry) { e.AccountID = id.Nil }, "account_id"},
		{"bad direction", func(e *Entry) { e.Direction = "transfer" }, "direction"},
		{"empty direction", func(e *Entry) { e.Direction = "" }, "direction"},
		{"zero amount", func(e *Entry) { e.Amount = types.USD(0) }, "amount"},
		{"negative amount", func(e *Entry) { e.Amount = types.USD(-50) }, "amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(e)

			err := e.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("expected valid entry, got %v", err)
				}
				return
			}

			var ferr *FieldError
			if !errors.As(err, &ferr) {
				t.Fatalf("expected FieldError, got %v", err)
			}
			if ferr.Field != tt.field {
				t.Errorf("field = %q, want %q", ferr.Field, tt.field)
			}
		})
	}
}

func TestDirectionOpposite(t *testing.T) {
	if Debit.Opposite() != Credit {
		t.Error("opposite of debit should be credit")
	}
	if Credit.Opposite() != Debit {
		t.Error("opposite of credit should be debit")
	}
}

func TestEntryReversal(t *testing.T) {
	original := validEntry()
	original.Direction = Credit
	original.Category = "Sales"

	batch := id.NewPostingID()
	rev := original.Reversal(batch, "user-9")

	if rev.Direction != Debit {
		t.Errorf("reversal direction = %s, want debit", rev.Direction)
	}
	if !rev.Amount.Equal(original.Amount) {
		t.Errorf("reversal amount = %v, want %v", rev.Amount, original.Amount)
	}
	if rev.AccountID.String() != original.AccountID.String() {
		t.Error("reversal must target the same account")
	}
	if rev.PostingID.String() != batch.String() {
		t.Error("reversal must carry the new posting ID")
	}
	if rev.ReferenceType != RefReversal {
		t.Errorf("reference type = %s, want reversal", rev.ReferenceType)
	}
	if rev.ReferenceID != original.ID.String() {
		t.Error("reversal must reference the original entry")
	}
	if rev.ID.String() == original.ID.String() {
		t.Error("reversal must be a new entry")
	}
	if err := rev.Validate(); err != nil {
		t.Errorf("reversal should validate: %v", err)
	}
}
