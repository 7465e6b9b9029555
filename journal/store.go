package journal

import (
	"context"

	"github.com/xraph/books/id"
)

// Store is the persistence contract for the transaction log. Append is
// the only write: implementations must persist the whole batch as one
// logical unit (single statement or single command) so a posting can
// never be half written. There is no update or delete.
type Store interface {
	Append(ctx context.Context, entries []*Entry) error
	List(ctx context.Context, tenantID string) ([]*Entry, error)
	ListByAccount(ctx context.Context, tenantID string, acctID id.AccountID) ([]*Entry, error)
	ListByPosting(ctx context.Context, tenantID string, postingID id.PostingID) ([]*Entry, error)
}
