// Package books provides an embeddable double-entry bookkeeping engine for Go applications.
//
// Books is designed as a library, not a service. Import it directly into your Go
// application and hand it a store. It provides:
//
//   - A per-tenant chart of accounts, provisioned lazily on first use
//   - An append-only journal with atomic multi-leg postings
//   - Document-driven posting: marking invoices and bills paid writes their legs
//   - Exactly-once payment posting via compare-and-set status transitions
//   - Derived balances and reports (trial balance, P&L, balance sheet)
//   - Posting reversal and reconciliation sweeps for operational repair
//
// # Quick Start
//
// Create a books instance with your preferred store:
//
//	import (
//	    "github.com/xraph/books"
//	    "github.com/xraph/books/store/postgres"
//	)
//
//	// Initialize store
//	store, err := postgres.New(databaseURL)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create the engine
//	b := books.New(store)
//
//	// Start it (runs migrations, initializes plugins)
//	if err := b.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Stop()
//
// # Core Concepts
//
// Every tenant gets a default chart of accounts the first time their books
// are touched:
//
//	accounts, err := b.ListAccounts(ctx, tenantID)
//
// Documents drive the journal. Creating an invoice records the receivable;
// marking it paid posts the journal legs:
//
//	inv := &invoice.Invoice{
//	    TenantID:     tenantID,
//	    CustomerName: "Acme Corp",
//	    Total:        books.USD(125_00),
//	}
//	if err := b.CreateInvoice(ctx, inv); err != nil { ... }
//
//	paid, err := b.MarkInvoicePaid(ctx, tenantID, inv.ID, "jane")
//
// Balances are never stored. They are derived from the journal on demand:
//
//	tb, err := b.TrialBalance(ctx, tenantID, time.Now())
//
// # Consistency
//
// The journal is append-only: entries are never updated or deleted, and
// corrections happen through reversing entries (ReversePosting). Document
// status transitions are compare-and-set, so exactly one of any number of
// concurrent payment calls posts the journal legs; a failed posting rolls
// the status transition back.
//
// All monetary calculations use integer arithmetic to avoid floating-point
// precision issues. The Money type represents amounts in the smallest currency
// unit (cents for USD, pence for GBP, etc).
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	acct_01h2xcejqtf2nbrexx3vqjhp41  // Account ID
//	post_01h2xcejqtf2nbrexx3vqjhp41  // Posting ID
//	inv_01h455vb4pex5vsknk084sn02q   // Invoice ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package books
