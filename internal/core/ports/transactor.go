package ports

import "context"

// Transactor runs a multi-write use case as one unit. Repositories must be
// called with the context handed to fn.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
