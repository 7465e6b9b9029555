package account

import (
	"context"

	"github.com/xraph/books/id"
)

// Store is the persistence contract for the chart of accounts. Every
// method is tenant-scoped; implementations must never return another
// tenant's accounts.
type Store interface {
	Create(ctx context.Context, a *Account) error
	CreateMany(ctx context.Context, accounts []*Account) error
	Get(ctx context.Context, tenantID string, acctID id.AccountID) (*Account, error)
	GetByCode(ctx context.Context, tenantID, code string) (*Account, error)
	List(ctx context.Context, tenantID string) ([]*Account, error)
	Update(ctx context.Context, a *Account) error
}
