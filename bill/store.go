package bill

import (
	"context"
	"time"

	"github.com/xraph/books/id"
)

// Store is the persistence contract for bills. Transition is a
// conditional update on the stored status, mirroring the invoice store.
type Store interface {
	Create(ctx context.Context, b *Bill) error
	Get(ctx context.Context, tenantID string, billID id.BillID) (*Bill, error)
	List(ctx context.Context, tenantID string) ([]*Bill, error)
	Transition(ctx context.Context, tenantID string, billID id.BillID, from, to Status, at time.Time) error
}
