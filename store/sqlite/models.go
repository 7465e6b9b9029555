package sqlite

import (
	"encoding/json"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/books/account"
	"github.com/xraph/books/bill"
	"github.com/xraph/books/id"
	"github.com/xraph/books/invoice"
	"github.com/xraph/books/journal"
	"github.com/xraph/books/types"
)

// ==================== Account models ====================

type accountModel struct {
	grove.BaseModel `grove:"table:books_accounts"`

	ID        string    `grove:"id,pk"`
	TenantID  string    `grove:"tenant_id"`
	Code      string    `grove:"code"`
	Name      string    `grove:"name"`
	Type      string    `grove:"type"`
	Category  string    `grove:"category"`
	Status    string    `grove:"status"`
	Subtype   string    `grove:"subtype"`
	CreatedBy string    `grove:"created_by"`
	CreatedAt time.Time `grove:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"`
}

func toAccountModel(a *account.Account) *accountModel {
	return &accountModel{
		ID:        a.ID.String(),
		TenantID:  a.TenantID,
		Code:      a.Code,
		Name:      a.Name,
		Type:      string(a.Type),
		Category:  a.Category,
		Status:    string(a.Status),
		Subtype:   string(a.Subtype),
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func fromAccountModel(m *accountModel) (*account.Account, error) {
	acctID, err := id.ParseAccountID(m.ID)
	if err != nil {
		return nil, err
	}
	return &account.Account{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:        acctID,
		TenantID:  m.TenantID,
		Code:      m.Code,
		Name:      m.Name,
		Type:      account.Type(m.Type),
		Category:  m.Category,
		Status:    account.Status(m.Status),
		Subtype:   account.Subtype(m.Subtype),
		CreatedBy: m.CreatedBy,
	}, nil
}

// ==================== Journal models ====================

type entryModel struct {
	grove.BaseModel `grove:"table:books_journal_entries"`

	ID             string    `grove:"id,pk"`
	TenantID       string    `grove:"tenant_id"`
	AccountID      string    `grove:"account_id"`
	PostingID      string    `grove:"posting_id"`
	Direction      string    `grove:"direction"`
	AmountCents    int64     `grove:"amount_cents"`
	AmountCurrency string    `grove:"amount_currency"`
	Description    string    `grove:"description"`
	Date           time.Time `grove:"date"`
	Category       string    `grove:"category"`
	ReferenceID    string    `grove:"reference_id"`
	ReferenceType  string    `grove:"reference_type"`
	CreatedBy      string    `grove:"created_by"`
	CreatedAt      time.Time `grove:"created_at"`
	UpdatedAt      time.Time `grove:"updated_at"`
}

func toEntryModel(e *journal.Entry) *entryModel {
	return &entryModel{
		ID:             e.ID.String(),
		TenantID:       e.TenantID,
		AccountID:      e.AccountID.String(),
		PostingID:      e.PostingID.String(),
		Direction:      string(e.Direction),
		AmountCents:    e.Amount.Amount,
		AmountCurrency: e.Amount.Currency,
		Description:    e.Description,
		Date:           e.Date,
		Category:       e.Category,
		ReferenceID:    e.ReferenceID,
		ReferenceType:  string(e.ReferenceType),
		CreatedBy:      e.CreatedBy,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func fromEntryModel(m *entryModel) (*journal.Entry, error) {
	entryID, err := id.ParseEntryID(m.ID)
	if err != nil {
		return nil, err
	}
	acctID, err := id.ParseAccountID(m.AccountID)
	if err != nil {
		return nil, err
	}
	postingID, err := id.ParsePostingID(m.PostingID)
	if err != nil {
		return nil, err
	}
	return &journal.Entry{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:            entryID,
		TenantID:      m.TenantID,
		AccountID:     acctID,
		PostingID:     postingID,
		Direction:     journal.Direction(m.Direction),
		Amount:        types.Money{Amount: m.AmountCents, Currency: m.AmountCurrency},
		Description:   m.Description,
		Date:          m.Date,
		Category:      m.Category,
		ReferenceID:   m.ReferenceID,
		ReferenceType: journal.ReferenceType(m.ReferenceType),
		CreatedBy:     m.CreatedBy,
	}, nil
}

// ==================== Invoice models ====================

type invoiceModel struct {
	grove.BaseModel `grove:"table:books_invoices"`

	ID            string          `grove:"id,pk"`
	TenantID      string          `grove:"tenant_id"`
	Number        string          `grove:"number"`
	CustomerName  string          `grove:"customer_name"`
	CustomerMail  string          `grove:"customer_email"`
	TotalCents    int64           `grove:"total_cents"`
	TotalCurrency string          `grove:"total_currency"`
	DueDate       time.Time       `grove:"due_date"`
	Status        string          `grove:"status"`
	LineItems     json.RawMessage `grove:"line_items"`
	PaidAt        *time.Time      `grove:"paid_at"`
	CreatedBy     string          `grove:"created_by"`
	CreatedAt     time.Time       `grove:"created_at"`
	UpdatedAt     time.Time       `grove:"updated_at"`
}

func toInvoiceModel(inv *invoice.Invoice) *invoiceModel {
	items, _ := json.Marshal(inv.LineItems) //nolint:errcheck // best-effort

	return &invoiceModel{
		ID:            inv.ID.String(),
		TenantID:      inv.TenantID,
		Number:        inv.Number,
		CustomerName:  inv.CustomerName,
		CustomerMail:  inv.CustomerMail,
		TotalCents:    inv.Total.Amount,
		TotalCurrency: inv.Total.Currency,
		DueDate:       inv.DueDate,
		Status:        string(inv.Status),
		LineItems:     items,
		PaidAt:        inv.PaidAt,
		CreatedBy:     inv.CreatedBy,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func fromInvoiceModel(m *invoiceModel) (*invoice.Invoice, error) {
	invID, err := id.ParseInvoiceID(m.ID)
	if err != nil {
		return nil, err
	}
	var items []invoice.LineItem
	if len(m.LineItems) > 0 {
		if err := json.Unmarshal(m.LineItems, &items); err != nil {
			return nil, err
		}
	}
	return &invoice.Invoice{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:           invID,
		TenantID:     m.TenantID,
		Number:       m.Number,
		CustomerName: m.CustomerName,
		CustomerMail: m.CustomerMail,
		Total:        types.Money{Amount: m.TotalCents, Currency: m.TotalCurrency},
		DueDate:      m.DueDate,
		Status:       invoice.Status(m.Status),
		LineItems:    items,
		PaidAt:       m.PaidAt,
		CreatedBy:    m.CreatedBy,
	}, nil
}

// ==================== Bill models ====================

type billModel struct {
	grove.BaseModel `grove:"table:books_bills"`

	ID                 string          `grove:"id,pk"`
	TenantID           string          `grove:"tenant_id"`
	Number             string          `grove:"number"`
	VendorName         string          `grove:"vendor_name"`
	VendorMail         string          `grove:"vendor_email"`
	TotalCents         int64           `grove:"total_cents"`
	TotalCurrency      string          `grove:"total_currency"`
	DueDate            time.Time       `grove:"due_date"`
	Status             string          `grove:"status"`
	LineItems          json.RawMessage `grove:"line_items"`
	ExpenseAccountCode string          `grove:"expense_account_code"`
	PaidAt             *time.Time      `grove:"paid_at"`
	CreatedBy          string          `grove:"created_by"`
	CreatedAt          time.Time       `grove:"created_at"`
	UpdatedAt          time.Time       `grove:"updated_at"`
}

func toBillModel(b *bill.Bill) *billModel {
	items, _ := json.Marshal(b.LineItems) //nolint:errcheck // best-effort

	return &billModel{
		ID:                 b.ID.String(),
		TenantID:           b.TenantID,
		Number:             b.Number,
		VendorName:         b.VendorName,
		VendorMail:         b.VendorMail,
		TotalCents:         b.Total.Amount,
		TotalCurrency:      b.Total.Currency,
		DueDate:            b.DueDate,
		Status:             string(b.Status),
		LineItems:          items,
		ExpenseAccountCode: b.ExpenseAccountCode,
		PaidAt:             b.PaidAt,
		CreatedBy:          b.CreatedBy,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func fromBillModel(m *billModel) (*bill.Bill, error) {
	billID, err := id.ParseBillID(m.ID)
	if err != nil {
		return nil, err
	}
	var items []bill.LineItem
	if len(m.LineItems) > 0 {
		if err := json.Unmarshal(m.LineItems, &items); err != nil {
			return nil, err
		}
	}
	return &bill.Bill{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:                 billID,
		TenantID:           m.TenantID,
		Number:             m.Number,
		VendorName:         m.VendorName,
		VendorMail:         m.VendorMail,
		Total:              types.Money{Amount: m.TotalCents, Currency: m.TotalCurrency},
		DueDate:            m.DueDate,
		Status:             bill.Status(m.Status),
		LineItems:          items,
		ExpenseAccountCode: m.ExpenseAccountCode,
		PaidAt:             m.PaidAt,
		CreatedBy:          m.CreatedBy,
	}, nil
}
