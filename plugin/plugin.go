// Package plugin provides an extensible plugin system for Books.
// Plugins can hook into various lifecycle events to extend functionality.
package plugin

import (
	"context"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, b interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Account lifecycle hooks
// ──────────────────────────────────────────────────

// OnAccountCreated is called when a new account is created.
type OnAccountCreated interface {
	Plugin
	OnAccountCreated(ctx context.Context, acct interface{}) error
}

// OnAccountUpdated is called when an account is updated.
type OnAccountUpdated interface {
	Plugin
	OnAccountUpdated(ctx context.Context, oldAcct, newAcct interface{}) error
}

// OnChartSeeded is called after the default chart of accounts is
// provisioned for a tenant.
type OnChartSeeded interface {
	Plugin
	OnChartSeeded(ctx context.Context, tenantID string, accounts []interface{}) error
}

// ──────────────────────────────────────────────────
// Journal hooks
// ──────────────────────────────────────────────────

// OnEntriesPosted is called after a batch of journal entries lands.
type OnEntriesPosted interface {
	Plugin
	OnEntriesPosted(ctx context.Context, entries []interface{}) error
}

// OnPostingFailed is called when a posting could not be written.
type OnPostingFailed interface {
	Plugin
	OnPostingFailed(ctx context.Context, refID string, err error) error
}

// OnReversalPosted is called after a posting is reversed.
type OnReversalPosted interface {
	Plugin
	OnReversalPosted(ctx context.Context, postingID string, entries []interface{}) error
}

// ──────────────────────────────────────────────────
// Document lifecycle hooks
// ──────────────────────────────────────────────────

// OnInvoiceCreated is called when a new invoice is created.
type OnInvoiceCreated interface {
	Plugin
	OnInvoiceCreated(ctx context.Context, inv interface{}) error
}

// OnInvoicePaid is called when an invoice is marked paid.
type OnInvoicePaid interface {
	Plugin
	OnInvoicePaid(ctx context.Context, inv interface{}) error
}

// OnBillCreated is called when a new bill is created.
type OnBillCreated interface {
	Plugin
	OnBillCreated(ctx context.Context, b interface{}) error
}

// OnBillPaid is called when a bill is marked paid.
type OnBillPaid interface {
	Plugin
	OnBillPaid(ctx context.Context, b interface{}) error
}

// ──────────────────────────────────────────────────
// Reconciliation hooks
// ──────────────────────────────────────────────────

// OnDiscrepancyFound is called for each discrepancy the reconciliation
// sweep reports.
type OnDiscrepancyFound interface {
	Plugin
	OnDiscrepancyFound(ctx context.Context, d interface{}) error
}

// ──────────────────────────────────────────────────
// Entry validators
// ──────────────────────────────────────────────────

// EntryValidator provides custom validation applied before a batch is
// appended. Returning an error rejects the whole batch.
type EntryValidator interface {
	Plugin
	ValidateEntry(ctx context.Context, entry interface{}) error
}

// ──────────────────────────────────────────────────
// Report exporters
// ──────────────────────────────────────────────────

// ReportExporter renders reports for export.
type ReportExporter interface {
	Plugin
	Format() string                                                      // "pdf", "html", "csv", etc.
	Render(ctx context.Context, report interface{}, w interface{}) error // w is io.Writer
}
