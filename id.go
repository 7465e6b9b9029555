package books

import "github.com/xraph/books/id"

// ID is the primary identifier type for all Books entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
