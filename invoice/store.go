package invoice

import (
	"context"
	"time"

	"github.com/xraph/books/id"
)

// Store is the persistence contract for invoices. Transition is a
// conditional update: it only succeeds when the stored status still
// equals from, so two concurrent transitions cannot both win.
type Store interface {
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, tenantID string, invID id.InvoiceID) (*Invoice, error)
	List(ctx context.Context, tenantID string) ([]*Invoice, error)
	Transition(ctx context.Context, tenantID string, invID id.InvoiceID, from, to Status, at time.Time) error
}
