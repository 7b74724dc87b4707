package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, owner_id, amount, transaction_type, category_id, transaction_date, description, account_id, created_at, updated_at`

const transactionViewSelect = `
	SELECT t.id, t.owner_id, t.amount, t.transaction_type, t.category_id, t.transaction_date,
	       t.description, t.account_id, t.created_at, t.updated_at,
	       COALESCE(c.name, ''), a.name
	FROM transactions t
	LEFT JOIN categories c ON c.id = t.category_id
	LEFT JOIN accounts a ON a.id = t.account_id`

// transactionFilterClause uses nullable parameters so one statement serves every filter combination
const transactionFilterClause = `
	WHERE t.owner_id = $1
	  AND ($2::timestamptz IS NULL OR t.transaction_date >= $2)
	  AND ($3::timestamptz IS NULL OR t.transaction_date < $3)
	  AND ($4::text IS NULL OR c.name ILIKE '%' || $4 || '%')
	  AND ($5::text IS NULL OR t.transaction_type = $5)`

// CreateTx inserts a transaction inside the unit of work
func (r *TransactionRepository) CreateTx(ctx context.Context, uow domain.UnitOfWork, transaction *domain.Transaction) (*domain.Transaction, error) {
	tx, err := txFrom(uow)
	if err != nil {
		return nil, err
	}
	row := tx.QueryRow(ctx, `
		INSERT INTO transactions (id, owner_id, amount, transaction_type, category_id, transaction_date, description, account_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+transactionColumns,
		transaction.ID, transaction.OwnerID, transaction.Amount, string(transaction.Type),
		transaction.CategoryID, transaction.Date.UTC(), transaction.Description, transaction.AccountID,
	)
	created, err := scanTransaction(row)
	if err != nil {
		return nil, mapPgError(err)
	}
	return created, nil
}

// GetByIDForUpdateTx reads a transaction inside the unit of work and locks its row
func (r *TransactionRepository) GetByIDForUpdateTx(ctx context.Context, uow domain.UnitOfWork, ownerID, id uuid.UUID) (*domain.Transaction, error) {
	tx, err := txFrom(uow)
	if err != nil {
		return nil, err
	}
	row := tx.QueryRow(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE owner_id = $1 AND id = $2
		FOR UPDATE`,
		ownerID, id,
	)
	transaction, err := scanTransaction(row)
	if err != nil {
		return nil, notFound(err, domain.ErrTransactionNotFound)
	}
	return transaction, nil
}

// UpdateTx overwrites the mutable fields of a transaction inside the unit of work
func (r *TransactionRepository) UpdateTx(ctx context.Context, uow domain.UnitOfWork, transaction *domain.Transaction) (*domain.Transaction, error) {
	tx, err := txFrom(uow)
	if err != nil {
		return nil, err
	}
	row := tx.QueryRow(ctx, `
		UPDATE transactions
		SET amount = $3, transaction_type = $4, category_id = $5, transaction_date = $6,
		    description = $7, account_id = $8, updated_at = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING `+transactionColumns,
		transaction.OwnerID, transaction.ID, transaction.Amount, string(transaction.Type),
		transaction.CategoryID, transaction.Date.UTC(), transaction.Description, transaction.AccountID,
	)
	updated, err := scanTransaction(row)
	if err != nil {
		return nil, notFound(err, domain.ErrTransactionNotFound)
	}
	return updated, nil
}

// DeleteTx removes a transaction inside the unit of work
func (r *TransactionRepository) DeleteTx(ctx context.Context, uow domain.UnitOfWork, ownerID, id uuid.UUID) error {
	tx, err := txFrom(uow)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// GetByID retrieves a transaction view by ID, scoped to its owner
func (r *TransactionRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.TransactionView, error) {
	row := r.pool.QueryRow(ctx, transactionViewSelect+` WHERE t.owner_id = $1 AND t.id = $2`, ownerID, id)
	view, err := scanTransactionView(row)
	if err != nil {
		return nil, notFound(err, domain.ErrTransactionNotFound)
	}
	return view, nil
}

// List retrieves transactions for an owner with optional filters and pagination
func (r *TransactionRepository) List(ctx context.Context, ownerID uuid.UUID, filters domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters.Page > 0 {
		page = filters.Page
	}
	if filters.PageSize > 0 {
		pageSize = filters.PageSize
		if pageSize > domain.MaxPageSize {
			pageSize = domain.MaxPageSize
		}
	}
	offset := (page - 1) * pageSize

	var txType *string
	if filters.Type != nil {
		s := string(*filters.Type)
		txType = &s
	}
	args := []any{ownerID, filters.StartDate, filters.EndDate, filters.CategoryName, txType}

	var totalItems int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id`+transactionFilterClause,
		args...,
	).Scan(&totalItems)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		transactionViewSelect+transactionFilterClause+`
		ORDER BY t.transaction_date, t.created_at
		LIMIT $6 OFFSET $7`,
		append(args, pageSize, offset)...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	data := make([]*domain.TransactionView, 0)
	for rows.Next() {
		view, err := scanTransactionView(rows)
		if err != nil {
			return nil, err
		}
		data = append(data, view)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.PaginatedTransactions{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages(totalItems, pageSize),
	}, nil
}

// GetByDateRange returns every transaction of the owner with start <= date < end
func (r *TransactionRepository) GetByDateRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]*domain.TransactionView, error) {
	rows, err := r.pool.Query(ctx,
		transactionViewSelect+`
		WHERE t.owner_id = $1 AND t.transaction_date >= $2 AND t.transaction_date < $3
		ORDER BY t.transaction_date, t.created_at`,
		ownerID, start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]*domain.TransactionView, 0)
	for rows.Next() {
		view, err := scanTransactionView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var t domain.Transaction
	var txType string
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Amount, &txType, &t.CategoryID, &t.Date, &t.Description, &t.AccountID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Type = domain.TransactionType(txType)
	t.Date = t.Date.UTC()
	return &t, nil
}

func scanTransactionView(row rowScanner) (*domain.TransactionView, error) {
	var v domain.TransactionView
	var txType string
	if err := row.Scan(
		&v.ID, &v.OwnerID, &v.Amount, &txType, &v.CategoryID, &v.Date,
		&v.Description, &v.AccountID, &v.CreatedAt, &v.UpdatedAt,
		&v.CategoryName, &v.AccountName,
	); err != nil {
		return nil, err
	}
	v.Type = domain.TransactionType(txType)
	v.Date = v.Date.UTC()
	return &v, nil
}

var _ domain.TransactionRepository = (*TransactionRepository)(nil)
