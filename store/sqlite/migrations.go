package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Books store.
var Migrations = migrate.NewGroup("books")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_books_accounts",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS books_accounts (
    id         TEXT PRIMARY KEY,
    tenant_id  TEXT NOT NULL DEFAULT '',
    code       TEXT NOT NULL DEFAULT '',
    name       TEXT NOT NULL DEFAULT '',
    type       TEXT NOT NULL DEFAULT '',
    category   TEXT NOT NULL DEFAULT '',
    status     TEXT NOT NULL DEFAULT 'active',
    subtype    TEXT NOT NULL DEFAULT '',
    created_by TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_books_accounts_tenant_code
    ON books_accounts (tenant_id, code) WHERE code != '';
CREATE INDEX IF NOT EXISTS idx_books_accounts_tenant_name ON books_accounts (tenant_id, name);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS books_accounts`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_books_journal_entries",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS books_journal_entries (
    id              TEXT PRIMARY KEY,
    tenant_id       TEXT NOT NULL DEFAULT '',
    account_id      TEXT NOT NULL DEFAULT '',
    posting_id      TEXT NOT NULL DEFAULT '',
    direction       TEXT NOT NULL DEFAULT '',
    amount_cents    INTEGER NOT NULL DEFAULT 0,
    amount_currency TEXT NOT NULL DEFAULT '',
    description     TEXT NOT NULL DEFAULT '',
    date            TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    category        TEXT NOT NULL DEFAULT '',
    reference_id    TEXT NOT NULL DEFAULT '',
    reference_type  TEXT NOT NULL DEFAULT '',
    created_by      TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_books_entries_tenant_date ON books_journal_entries (tenant_id, date DESC);
CREATE INDEX IF NOT EXISTS idx_books_entries_account ON books_journal_entries (tenant_id, account_id, date DESC);
CREATE INDEX IF NOT EXISTS idx_books_entries_posting ON books_journal_entries (tenant_id, posting_id);
CREATE INDEX IF NOT EXISTS idx_books_entries_reference ON books_journal_entries (tenant_id, reference_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS books_journal_entries`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_books_invoices",
			Version: "20240101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS books_invoices (
    id             TEXT PRIMARY KEY,
    tenant_id      TEXT NOT NULL DEFAULT '',
    number         TEXT NOT NULL DEFAULT '',
    customer_name  TEXT NOT NULL DEFAULT '',
    customer_email TEXT NOT NULL DEFAULT '',
    total_cents    INTEGER NOT NULL DEFAULT 0,
    total_currency TEXT NOT NULL DEFAULT '',
    due_date       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    status         TEXT NOT NULL DEFAULT 'draft',
    line_items     TEXT NOT NULL DEFAULT '[]',
    paid_at        TIMESTAMP,
    created_by     TEXT NOT NULL DEFAULT '',
    created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_books_invoices_tenant_created ON books_invoices (tenant_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_books_invoices_status ON books_invoices (tenant_id, status);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS books_invoices`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_books_bills",
			Version: "20240101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS books_bills (
    id                   TEXT PRIMARY KEY,
    tenant_id            TEXT NOT NULL DEFAULT '',
    number               TEXT NOT NULL DEFAULT '',
    vendor_name          TEXT NOT NULL DEFAULT '',
    vendor_email         TEXT NOT NULL DEFAULT '',
    total_cents          INTEGER NOT NULL DEFAULT 0,
    total_currency       TEXT NOT NULL DEFAULT '',
    due_date             TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    status               TEXT NOT NULL DEFAULT 'unpaid',
    line_items           TEXT NOT NULL DEFAULT '[]',
    expense_account_code TEXT NOT NULL DEFAULT '',
    paid_at              TIMESTAMP,
    created_by           TEXT NOT NULL DEFAULT '',
    created_at           TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at           TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_books_bills_tenant_due ON books_bills (tenant_id, due_date ASC);
CREATE INDEX IF NOT EXISTS idx_books_bills_status ON books_bills (tenant_id, status);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS books_bills`)
				return err
			},
		},
	)
}
