package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit             []OnInit
	onShutdown         []OnShutdown
	onAccountCreated   []OnAccountCreated
	onAccountUpdated   []OnAccountUpdated
	onChartSeeded      []OnChartSeeded
	onEntriesPosted    []OnEntriesPosted
	onPostingFailed    []OnPostingFailed
	onReversalPosted   []OnReversalPosted
	onInvoiceCreated   []OnInvoiceCreated
	onInvoicePaid      []OnInvoicePaid
	onBillCreated      []OnBillCreated
	onBillPaid         []OnBillPaid
	onDiscrepancyFound []OnDiscrepancyFound
	entryValidators    []EntryValidator
	reportExporters    map[string]ReportExporter
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:          slog.Default(),
		reportExporters: make(map[string]ReportExporter),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnAccountCreated); ok {
		r.onAccountCreated = append(r.onAccountCreated, v)
	}
	if v, ok := p.(OnAccountUpdated); ok {
		r.onAccountUpdated = append(r.onAccountUpdated, v)
	}
	if v, ok := p.(OnChartSeeded); ok {
		r.onChartSeeded = append(r.onChartSeeded, v)
	}
	if v, ok := p.(OnEntriesPosted); ok {
		r.onEntriesPosted = append(r.onEntriesPosted, v)
	}
	if v, ok := p.(OnPostingFailed); ok {
		r.onPostingFailed = append(r.onPostingFailed, v)
	}
	if v, ok := p.(OnReversalPosted); ok {
		r.onReversalPosted = append(r.onReversalPosted, v)
	}
	if v, ok := p.(OnInvoiceCreated); ok {
		r.onInvoiceCreated = append(r.onInvoiceCreated, v)
	}
	if v, ok := p.(OnInvoicePaid); ok {
		r.onInvoicePaid = append(r.onInvoicePaid, v)
	}
	if v, ok := p.(OnBillCreated); ok {
		r.onBillCreated = append(r.onBillCreated, v)
	}
	if v, ok := p.(OnBillPaid); ok {
		r.onBillPaid = append(r.onBillPaid, v)
	}
	if v, ok := p.(OnDiscrepancyFound); ok {
		r.onDiscrepancyFound = append(r.onDiscrepancyFound, v)
	}
	if v, ok := p.(EntryValidator); ok {
		r.entryValidators = append(r.entryValidators, v)
	}
	if v, ok := p.(ReportExporter); ok {
		r.reportExporters[v.Format()] = v
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	// Check each interface
	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	// List all interfaces to check
	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnAccountCreated)(nil)).Elem(), "OnAccountCreated")
	checkInterface(reflect.TypeOf((*OnChartSeeded)(nil)).Elem(), "OnChartSeeded")
	checkInterface(reflect.TypeOf((*OnEntriesPosted)(nil)).Elem(), "OnEntriesPosted")
	checkInterface(reflect.TypeOf((*OnInvoicePaid)(nil)).Elem(), "OnInvoicePaid")
	checkInterface(reflect.TypeOf((*OnBillPaid)(nil)).Elem(), "OnBillPaid")
	checkInterface(reflect.TypeOf((*EntryValidator)(nil)).Elem(), "EntryValidator")
	checkInterface(reflect.TypeOf((*ReportExporter)(nil)).Elem(), "ReportExporter")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, b interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, b)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitAccountCreated emits an account created event.
func (r *Registry) EmitAccountCreated(ctx context.Context, acct interface{}) {
	r.mu.RLock()
	plugins := r.onAccountCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnAccountCreated(ctx, acct)
		}); err != nil {
			r.logger.Warn("plugin OnAccountCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitAccountUpdated emits an account updated event.
func (r *Registry) EmitAccountUpdated(ctx context.Context, oldAcct, newAcct interface{}) {
	r.mu.RLock()
	plugins := r.onAccountUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnAccountUpdated(ctx, oldAcct, newAcct)
		}); err != nil {
			r.logger.Warn("plugin OnAccountUpdated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitChartSeeded emits a chart seeded event.
func (r *Registry) EmitChartSeeded(ctx context.Context, tenantID string, accounts []interface{}) {
	r.mu.RLock()
	plugins := r.onChartSeeded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnChartSeeded(ctx, tenantID, accounts)
		}); err != nil {
			r.logger.Warn("plugin OnChartSeeded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitEntriesPosted emits an entries posted event.
func (r *Registry) EmitEntriesPosted(ctx context.Context, entries []interface{}) {
	r.mu.RLock()
	plugins := r.onEntriesPosted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnEntriesPosted(ctx, entries)
		}); err != nil {
			r.logger.Warn("plugin OnEntriesPosted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPostingFailed emits a posting failed event.
func (r *Registry) EmitPostingFailed(ctx context.Context, refID string, cause error) {
	r.mu.RLock()
	plugins := r.onPostingFailed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPostingFailed(ctx, refID, cause)
		}); err != nil {
			r.logger.Warn("plugin OnPostingFailed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitReversalPosted emits a reversal posted event.
func (r *Registry) EmitReversalPosted(ctx context.Context, postingID string, entries []interface{}) {
	r.mu.RLock()
	plugins := r.onReversalPosted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnReversalPosted(ctx, postingID, entries)
		}); err != nil {
			r.logger.Warn("plugin OnReversalPosted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInvoiceCreated emits an invoice created event.
func (r *Registry) EmitInvoiceCreated(ctx context.Context, inv interface{}) {
	r.mu.RLock()
	plugins := r.onInvoiceCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInvoiceCreated(ctx, inv)
		}); err != nil {
			r.logger.Warn("plugin OnInvoiceCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInvoicePaid emits an invoice paid event.
func (r *Registry) EmitInvoicePaid(ctx context.Context, inv interface{}) {
	r.mu.RLock()
	plugins := r.onInvoicePaid
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInvoicePaid(ctx, inv)
		}); err != nil {
			r.logger.Warn("plugin OnInvoicePaid failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitBillCreated emits a bill created event.
func (r *Registry) EmitBillCreated(ctx context.Context, b interface{}) {
	r.mu.RLock()
	plugins := r.onBillCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnBillCreated(ctx, b)
		}); err != nil {
			r.logger.Warn("plugin OnBillCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitBillPaid emits a bill paid event.
func (r *Registry) EmitBillPaid(ctx context.Context, b interface{}) {
	r.mu.RLock()
	plugins := r.onBillPaid
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnBillPaid(ctx, b)
		}); err != nil {
			r.logger.Warn("plugin OnBillPaid failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitDiscrepancyFound emits a discrepancy found event.
func (r *Registry) EmitDiscrepancyFound(ctx context.Context, d interface{}) {
	r.mu.RLock()
	plugins := r.onDiscrepancyFound
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnDiscrepancyFound(ctx, d)
		}); err != nil {
			r.logger.Warn("plugin OnDiscrepancyFound failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// ValidateEntry runs all registered entry validators. The first error
// rejects the entry.
func (r *Registry) ValidateEntry(ctx context.Context, entry interface{}) error {
	r.mu.RLock()
	validators := r.entryValidators
	r.mu.RUnlock()

	for _, v := range validators {
		if err := v.ValidateEntry(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// GetReportExporter returns a report exporter by format.
func (r *Registry) GetReportExporter(format string) ReportExporter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reportExporters[format]
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the posting pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
