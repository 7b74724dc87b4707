package domain

import "context"

// UnitOfWork is an open store transaction. Repository methods with a Tx suffix
// run inside the unit of work they are given and become visible only on Commit.
type UnitOfWork interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxManager starts units of work.
type TxManager interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}
