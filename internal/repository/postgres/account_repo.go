package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
)

// AccountRepository implements domain.AccountRepository using PostgreSQL
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, owner_id, name, account_type, current_balance, initial_balance, is_active, created_at, updated_at`

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (id, owner_id, name, account_type, current_balance, initial_balance, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+accountColumns,
		account.ID, account.OwnerID, account.Name, string(account.AccountType),
		account.CurrentBalance, account.InitialBalance, account.IsActive,
	)
	return scanAccount(row)
}

// GetByID retrieves an account by ID, scoped to its owner
func (r *AccountRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Account, error) {
	return getAccount(ctx, r.pool, ownerID, id, false)
}

// GetAllByOwner retrieves all accounts of an owner ordered by name
func (r *AccountRepository) GetAllByOwner(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+` FROM accounts
		WHERE owner_id = $1 AND ($2 OR is_active)
		ORDER BY name, created_at`,
		ownerID, includeInactive,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// Update changes the descriptive fields of an account. Balances are left untouched.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE accounts
		SET name = $3, account_type = $4, is_active = $5, updated_at = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING `+accountColumns,
		account.OwnerID, account.ID, account.Name, string(account.AccountType), account.IsActive,
	)
	updated, err := scanAccount(row)
	if err != nil {
		return nil, notFound(err, domain.ErrAccountNotFound)
	}
	return updated, nil
}

// Deactivate marks an account inactive
func (r *AccountRepository) Deactivate(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts SET is_active = FALSE, updated_at = now()
		WHERE owner_id = $1 AND id = $2`,
		ownerID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// HardDelete permanently removes an account. Linked transactions keep existing with no account.
func (r *AccountRepository) HardDelete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// GetByIDForUpdateTx reads the account inside the unit of work and locks its row
func (r *AccountRepository) GetByIDForUpdateTx(ctx context.Context, uow domain.UnitOfWork, ownerID, id uuid.UUID) (*domain.Account, error) {
	tx, err := txFrom(uow)
	if err != nil {
		return nil, err
	}
	return getAccount(ctx, tx, ownerID, id, true)
}

// UpdateBalanceTx writes a new current balance inside the unit of work
func (r *AccountRepository) UpdateBalanceTx(ctx context.Context, uow domain.UnitOfWork, ownerID, id uuid.UUID, newBalance int64) (*domain.Account, error) {
	tx, err := txFrom(uow)
	if err != nil {
		return nil, err
	}
	row := tx.QueryRow(ctx, `
		UPDATE accounts SET current_balance = $3, updated_at = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING `+accountColumns,
		ownerID, id, newBalance,
	)
	account, err := scanAccount(row)
	if err != nil {
		return nil, notFound(err, domain.ErrAccountNotFound)
	}
	return account, nil
}

func getAccount(ctx context.Context, q querier, ownerID, id uuid.UUID, forUpdate bool) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 AND id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	account, err := scanAccount(q.QueryRow(ctx, query, ownerID, id))
	if err != nil {
		return nil, notFound(err, domain.ErrAccountNotFound)
	}
	return account, nil
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var a domain.Account
	var accountType string
	if err := row.Scan(&a.ID, &a.OwnerID, &a.Name, &accountType, &a.CurrentBalance, &a.InitialBalance, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, mapPgError(err)
	}
	a.AccountType = domain.AccountType(accountType)
	return &a, nil
}

var _ domain.AccountRepository = (*AccountRepository)(nil)
