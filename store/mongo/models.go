package mongo

import (
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

	ID        string    `grove:"id,pk"      bson:"_id"`
	TenantID  string    `grove:"tenant_id"  bson:"tenant_id"`
	Code      string    `grove:"code"       bson:"code,omitempty"`
	Name      string    `grove:"name"       bson:"name"`
	Type      string    `grove:"type"       bson:"type"`
	Category  string    `grove:"category"   bson:"category"`
	Status    string    `grove:"status"     bson:"status"`
	Subtype   string    `grove:"subtype"    bson:"subtype"`
	CreatedBy string    `grove:"created_by" bson:"created_by,omitempty"`
	CreatedAt time.Time `grove:"created_at" bson:"created_at"`
	UpdatedAt time.Time `grove:"updated_at" bson:"updated_at"`
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

	ID             string    `grove:"id,pk"           bson:"_id"`
	TenantID       string    `grove:"tenant_id"       bson:"tenant_id"`
	AccountID      string    `grove:"account_id"      bson:"account_id"`
	PostingID      string    `grove:"posting_id"      bson:"posting_id"`
	Direction      string    `grove:"direction"       bson:"direction"`
	AmountCents    int64     `grove:"amount_cents"    bson:"amount_cents"`
	AmountCurrency string    `grove:"amount_currency" bson:"amount_currency"`
	Description    string    `grove:"description"     bson:"description"`
	Date           time.Time `grove:"date"            bson:"date"`
	Category       string    `grove:"category"        bson:"category,omitempty"`
	ReferenceID    string    `grove:"reference_id"    bson:"reference_id,omitempty"`
	ReferenceType  string    `grove:"reference_type"  bson:"reference_type"`
	CreatedBy      string    `grove:"created_by"      bson:"created_by,omitempty"`
	CreatedAt      time.Time `grove:"created_at"      bson:"created_at"`
	UpdatedAt      time.Time `grove:"updated_at"      bson:"updated_at"`
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

	ID            string          `grove:"id,pk"          bson:"_id"`
	TenantID      string          `grove:"tenant_id"      bson:"tenant_id"`
	Number        string          `grove:"number"         bson:"number"`
	CustomerName  string          `grove:"customer_name"  bson:"customer_name"`
	CustomerMail  string          `grove:"customer_email" bson:"customer_email,omitempty"`
	TotalCents    int64           `grove:"total_cents"    bson:"total_cents"`
	TotalCurrency string          `grove:"total_currency" bson:"total_currency"`
	DueDate       time.Time       `grove:"due_date"       bson:"due_date"`
	Status        string          `grove:"status"         bson:"status"`
	LineItems     []lineItemModel `grove:"line_items"     bson:"line_items,omitempty"`
	PaidAt        *time.Time      `grove:"paid_at"        bson:"paid_at,omitempty"`
	CreatedBy     string          `grove:"created_by"     bson:"created_by,omitempty"`
	CreatedAt     time.Time       `grove:"created_at"     bson:"created_at"`
	UpdatedAt     time.Time       `grove:"updated_at"     bson:"updated_at"`
}

type lineItemModel struct {
	Description        string `bson:"description"`
	Quantity           int64  `bson:"quantity"`
	UnitAmountCents    int64  `bson:"unit_amount_cents"`
	UnitAmountCurrency string `bson:"unit_amount_currency"`
	AmountCents        int64  `bson:"amount_cents"`
	AmountCurrency     string `bson:"amount_currency"`
}

func toInvoiceModel(inv *invoice.Invoice) *invoiceModel {
	items := make([]lineItemModel, len(inv.LineItems))
	for i, li := range inv.LineItems {
		items[i] = lineItemModel{
			Description:        li.Description,
			Quantity:           li.Quantity,
			UnitAmountCents:    li.UnitAmount.Amount,
			UnitAmountCurrency: li.UnitAmount.Currency,
			AmountCents:        li.Amount.Amount,
			AmountCurrency:     li.Amount.Currency,
		}
	}
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
	items := make([]invoice.LineItem, len(m.LineItems))
	for i, li := range m.LineItems {
		items[i] = invoice.LineItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitAmount:  types.Money{Amount: li.UnitAmountCents, Currency: li.UnitAmountCurrency},
			Amount:      types.Money{Amount: li.AmountCents, Currency: li.AmountCurrency},
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

	ID                 string          `grove:"id,pk"                bson:"_id"`
	TenantID           string          `grove:"tenant_id"            bson:"tenant_id"`
	Number             string          `grove:"number"               bson:"number"`
	VendorName         string          `grove:"vendor_name"          bson:"vendor_name"`
	VendorMail         string          `grove:"vendor_email"         bson:"vendor_email,omitempty"`
	TotalCents         int64           `grove:"total_cents"          bson:"total_cents"`
	TotalCurrency      string          `grove:"total_currency"       bson:"total_currency"`
	DueDate            time.Time       `grove:"due_date"             bson:"due_date"`
	Status             string          `grove:"status"               bson:"status"`
	LineItems          []lineItemModel `grove:"line_items"           bson:"line_items,omitempty"`
	ExpenseAccountCode string          `grove:"expense_account_code" bson:"expense_account_code,omitempty"`
	PaidAt             *time.Time      `grove:"paid_at"              bson:"paid_at,omitempty"`
	CreatedBy          string          `grove:"created_by"           bson:"created_by,omitempty"`
	CreatedAt          time.Time       `grove:"created_at"           bson:"created_at"`
	UpdatedAt          time.Time       `grove:"updated_at"           bson:"updated_at"`
}

func toBillModel(b *bill.Bill) *billModel {
	items := make([]lineItemModel, len(b.LineItems))
	for i, li := range b.LineItems {
		items[i] = lineItemModel{
			Description:        li.Description,
			Quantity:           li.Quantity,
			UnitAmountCents:    li.UnitAmount.Amount,
			UnitAmountCurrency: li.UnitAmount.Currency,
			AmountCents:        li.Amount.Amount,
			AmountCurrency:     li.Amount.Currency,
		}
	}
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
	items := make([]bill.LineItem, len(m.LineItems))
	for i, li := range m.LineItems {
		items[i] = bill.LineItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitAmount:  types.Money{Amount: li.UnitAmountCents, Currency: li.UnitAmountCurrency},
			Amount:      types.Money{Amount: li.AmountCents, Currency: li.AmountCurrency},
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
