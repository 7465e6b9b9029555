// Package observability provides a metrics extension for Books that records
// lifecycle event counts via go-utils MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/books/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin             = (*MetricsExtension)(nil)
	_ plugin.OnInit             = (*MetricsExtension)(nil)
	_ plugin.OnAccountCreated   = (*MetricsExtension)(nil)
	_ plugin.OnAccountUpdated   = (*MetricsExtension)(nil)
	_ plugin.OnChartSeeded      = (*MetricsExtension)(nil)
	_ plugin.OnEntriesPosted    = (*MetricsExtension)(nil)
	_ plugin.OnPostingFailed    = (*MetricsExtension)(nil)
	_ plugin.OnReversalPosted   = (*MetricsExtension)(nil)
	_ plugin.OnInvoiceCreated   = (*MetricsExtension)(nil)
	_ plugin.OnInvoicePaid      = (*MetricsExtension)(nil)
	_ plugin.OnBillCreated      = (*MetricsExtension)(nil)
	_ plugin.OnBillPaid         = (*MetricsExtension)(nil)
	_ plugin.OnDiscrepancyFound = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Books plugin to automatically track accounting metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Account metrics
	AccountCreated Counter
	AccountUpdated Counter
	ChartSeeded    Counter

	// Journal metrics
	EntriesPosted    Counter
	PostingBatchSize Histogram
	PostingFailed    Counter
	PostingReversed  Counter

	// Document metrics
	InvoiceCreated Counter
	InvoicePaid    Counter
	BillCreated    Counter
	BillPaid       Counter

	// Reconciliation metrics
	DiscrepanciesFound Counter

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Account metrics
		AccountCreated: factory.Counter("books.account.created"),
		AccountUpdated: factory.Counter("books.account.updated"),
		ChartSeeded:    factory.Counter("books.chart.seeded"),

		// Journal metrics
		EntriesPosted:    factory.Counter("books.journal.posted"),
		PostingBatchSize: factory.Histogram("books.journal.batch.size"),
		PostingFailed:    factory.Counter("books.journal.failed"),
		PostingReversed:  factory.Counter("books.journal.reversed"),

		// Document metrics
		InvoiceCreated: factory.Counter("books.invoice.created"),
		InvoicePaid:    factory.Counter("books.invoice.paid"),
		BillCreated:    factory.Counter("books.bill.created"),
		BillPaid:       factory.Counter("books.bill.paid"),

		// Reconciliation metrics
		DiscrepanciesFound: factory.Counter("books.reconcile.discrepancies"),

		// Error metrics
		StoreErrors:  factory.Counter("books.store.errors"),
		PluginErrors: factory.Counter("books.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Account lifecycle hooks
// ──────────────────────────────────────────────────

// OnAccountCreated implements plugin.OnAccountCreated.
func (m *MetricsExtension) OnAccountCreated(_ context.Context, _ interface{}) error {
	m.AccountCreated.Inc()
	return nil
}

// OnAccountUpdated implements plugin.OnAccountUpdated.
func (m *MetricsExtension) OnAccountUpdated(_ context.Context, _, _ interface{}) error {
	m.AccountUpdated.Inc()
	return nil
}

// OnChartSeeded implements plugin.OnChartSeeded.
func (m *MetricsExtension) OnChartSeeded(_ context.Context, _ string, _ []interface{}) error {
	m.ChartSeeded.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Journal lifecycle hooks
// ──────────────────────────────────────────────────

// OnEntriesPosted implements plugin.OnEntriesPosted.
func (m *MetricsExtension) OnEntriesPosted(_ context.Context, entries []interface{}) error {
	count := float64(len(entries))
	m.EntriesPosted.Add(count)
	m.PostingBatchSize.Observe(count)
	return nil
}

// OnPostingFailed implements plugin.OnPostingFailed.
func (m *MetricsExtension) OnPostingFailed(_ context.Context, _ string, _ error) error {
	m.PostingFailed.Inc()
	return nil
}

// OnReversalPosted implements plugin.OnReversalPosted.
func (m *MetricsExtension) OnReversalPosted(_ context.Context, _ string, _ []interface{}) error {
	m.PostingReversed.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Document lifecycle hooks
// ──────────────────────────────────────────────────

// OnInvoiceCreated implements plugin.OnInvoiceCreated.
func (m *MetricsExtension) OnInvoiceCreated(_ context.Context, _ interface{}) error {
	m.InvoiceCreated.Inc()
	return nil
}

// OnInvoicePaid implements plugin.OnInvoicePaid.
func (m *MetricsExtension) OnInvoicePaid(_ context.Context, _ interface{}) error {
	m.InvoicePaid.Inc()
	return nil
}

// OnBillCreated implements plugin.OnBillCreated.
func (m *MetricsExtension) OnBillCreated(_ context.Context, _ interface{}) error {
	m.BillCreated.Inc()
	return nil
}

// OnBillPaid implements plugin.OnBillPaid.
func (m *MetricsExtension) OnBillPaid(_ context.Context, _ interface{}) error {
	m.BillPaid.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Reconciliation hooks
// ──────────────────────────────────────────────────

// OnDiscrepancyFound implements plugin.OnDiscrepancyFound.
func (m *MetricsExtension) OnDiscrepancyFound(_ context.Context, _ interface{}) error {
	m.DiscrepanciesFound.Inc()
	return nil
}
