// Package audithook bridges Books lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/books/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin             = (*Extension)(nil)
	_ plugin.OnAccountCreated   = (*Extension)(nil)
	_ plugin.OnAccountUpdated   = (*Extension)(nil)
	_ plugin.OnChartSeeded      = (*Extension)(nil)
	_ plugin.OnEntriesPosted    = (*Extension)(nil)
	_ plugin.OnPostingFailed    = (*Extension)(nil)
	_ plugin.OnReversalPosted   = (*Extension)(nil)
	_ plugin.OnInvoiceCreated   = (*Extension)(nil)
	_ plugin.OnInvoicePaid      = (*Extension)(nil)
	_ plugin.OnBillCreated      = (*Extension)(nil)
	_ plugin.OnBillPaid         = (*Extension)(nil)
	_ plugin.OnDiscrepancyFound = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly — callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Books lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Account lifecycle hooks
// ──────────────────────────────────────────────────

// OnAccountCreated implements plugin.OnAccountCreated.
func (e *Extension) OnAccountCreated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionAccountCreated, SeverityInfo, OutcomeSuccess,
		ResourceAccount, "", CategoryAccounting, nil,
		"event", "account_created",
	)
}

// OnAccountUpdated implements plugin.OnAccountUpdated.
func (e *Extension) OnAccountUpdated(ctx context.Context, _, _ interface{}) error {
	return e.record(ctx, ActionAccountUpdated, SeverityInfo, OutcomeSuccess,
		ResourceAccount, "", CategoryAccounting, nil,
		"event", "account_updated",
	)
}

// OnChartSeeded implements plugin.OnChartSeeded.
func (e *Extension) OnChartSeeded(ctx context.Context, tenantID string, accounts []interface{}) error {
	return e.record(ctx, ActionChartSeeded, SeverityInfo, OutcomeSuccess,
		ResourceChart, tenantID, CategoryAccounting, nil,
		"tenant_id", tenantID,
		"accounts", len(accounts),
	)
}

// ──────────────────────────────────────────────────
// Journal lifecycle hooks
// ──────────────────────────────────────────────────

// OnEntriesPosted implements plugin.OnEntriesPosted.
func (e *Extension) OnEntriesPosted(ctx context.Context, entries []interface{}) error {
	return e.record(ctx, ActionEntriesPosted, SeverityInfo, OutcomeSuccess,
		ResourceJournal, "", CategoryAccounting, nil,
		"legs", len(entries),
	)
}

// OnPostingFailed implements plugin.OnPostingFailed.
func (e *Extension) OnPostingFailed(ctx context.Context, refID string, err error) error {
	return e.record(ctx, ActionPostingFailed, SeverityCritical, OutcomeFailure,
		ResourceJournal, refID, CategoryPayment, err,
		"reference_id", refID,
	)
}

// OnReversalPosted implements plugin.OnReversalPosted.
func (e *Extension) OnReversalPosted(ctx context.Context, postingID string, entries []interface{}) error {
	return e.record(ctx, ActionPostingReversed, SeverityWarning, OutcomeSuccess,
		ResourceJournal, postingID, CategoryAccounting, nil,
		"posting_id", postingID,
		"legs", len(entries),
	)
}

// ──────────────────────────────────────────────────
// Document lifecycle hooks
// ──────────────────────────────────────────────────

// OnInvoiceCreated implements plugin.OnInvoiceCreated.
func (e *Extension) OnInvoiceCreated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionInvoiceCreated, SeverityInfo, OutcomeSuccess,
		ResourceInvoice, "", CategoryDocument, nil,
		"event", "invoice_created",
	)
}

// OnInvoicePaid implements plugin.OnInvoicePaid.
func (e *Extension) OnInvoicePaid(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionInvoicePaid, SeverityInfo, OutcomeSuccess,
		ResourceInvoice, "", CategoryPayment, nil,
		"event", "invoice_paid",
	)
}

// OnBillCreated implements plugin.OnBillCreated.
func (e *Extension) OnBillCreated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionBillCreated, SeverityInfo, OutcomeSuccess,
		ResourceBill, "", CategoryDocument, nil,
		"event", "bill_created",
	)
}

// OnBillPaid implements plugin.OnBillPaid.
func (e *Extension) OnBillPaid(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionBillPaid, SeverityInfo, OutcomeSuccess,
		ResourceBill, "", CategoryPayment, nil,
		"event", "bill_paid",
	)
}

// ──────────────────────────────────────────────────
// Reconciliation hooks
// ──────────────────────────────────────────────────

// OnDiscrepancyFound implements plugin.OnDiscrepancyFound.
func (e *Extension) OnDiscrepancyFound(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionDiscrepancyFound, SeverityWarning, OutcomeFailure,
		ResourceJournal, "", CategoryIntegrity, nil,
		"event", "discrepancy_found",
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
