package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// unitOfWork wraps a pgx.Tx as a domain.UnitOfWork
type unitOfWork struct {
	tx pgx.Tx
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	return mapPgError(u.tx.Commit(ctx))
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	err := u.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// TxManager implements domain.TxManager on a connection pool
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a new TxManager
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// Begin starts a READ COMMITTED transaction. Balance updates rely on row locks
// taken with SELECT ... FOR UPDATE inside it.
func (m *TxManager) Begin(ctx context.Context) (domain.UnitOfWork, error) {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &unitOfWork{tx: tx}, nil
}

// txFrom extracts the pgx transaction from a unit of work created by TxManager
func txFrom(uow domain.UnitOfWork) (pgx.Tx, error) {
	u, ok := uow.(*unitOfWork)
	if !ok {
		return nil, fmt.Errorf("%w: foreign unit of work %T", domain.ErrInternalError, uow)
	}
	return u.tx, nil
}

const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateForeignKeyViolation  = "23503"
)

// mapPgError converts store conflicts into domain.ErrConflict
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateSerializationFailure, sqlStateDeadlockDetected:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Message)
		}
	}
	return err
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlStateForeignKeyViolation
}

// notFound maps pgx.ErrNoRows to the given domain error
func notFound(err error, target error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return target
	}
	return mapPgError(err)
}

func totalPages(total int64, pageSize int32) int32 {
	if pageSize <= 0 {
		return 0
	}
	return int32((total + int64(pageSize) - 1) / int64(pageSize))
}
