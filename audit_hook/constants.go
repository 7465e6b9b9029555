package audithook

// Action constants for audit events.
const (
	// Account actions
	ActionAccountCreated  = "account.created"
	ActionAccountUpdated  = "account.updated"
	ActionAccountArchived = "account.archived"
	ActionChartSeeded     = "chart.seeded"

	// Journal actions
	ActionEntriesPosted   = "journal.posted"
	ActionPostingFailed   = "journal.failed"
	ActionPostingReversed = "journal.reversed"

	// Invoice actions
	ActionInvoiceCreated = "invoice.created"
	ActionInvoicePaid    = "invoice.paid"

	// Bill actions
	ActionBillCreated = "bill.created"
	ActionBillPaid    = "bill.paid"

	// Reconciliation actions
	ActionDiscrepancyFound = "reconcile.discrepancy"
)

// Resource constants for audit events.
const (
	ResourceAccount = "account"
	ResourceChart   = "chart"
	ResourceJournal = "journal"
	ResourceInvoice = "invoice"
	ResourceBill    = "bill"
)

// Category constants for audit events.
const (
	CategoryAccounting = "accounting"
	CategoryDocument   = "document"
	CategoryPayment    = "payment"
	CategoryIntegrity  = "integrity"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
