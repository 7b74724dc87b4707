package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, owner_id, name, created_at, updated_at`

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (id, owner_id, name) VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		category.ID, category.OwnerID, category.Name,
	)
	return scanCategory(row)
}

func (r *CategoryRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE owner_id = $1 AND id = $2`, ownerID, id)
	category, err := scanCategory(row)
	if err != nil {
		return nil, notFound(err, domain.ErrCategoryNotFound)
	}
	return category, nil
}

func (r *CategoryRepository) GetAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE owner_id = $1 ORDER BY name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Update(ctx context.Context, ownerID, id uuid.UUID, name string) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE categories SET name = $3, updated_at = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING `+categoryColumns,
		ownerID, id, name,
	)
	category, err := scanCategory(row)
	if err != nil {
		return nil, notFound(err, domain.ErrCategoryNotFound)
	}
	return category, nil
}

// Delete removes a category. The foreign keys restrict deletion while it is referenced.
func (r *CategoryRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// HasReferences reports whether any transaction or goal points at the category
func (r *CategoryRepository) HasReferences(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM transactions WHERE owner_id = $1 AND category_id = $2)
		    OR EXISTS (SELECT 1 FROM financial_goals WHERE owner_id = $1 AND category_id = $2)`,
		ownerID, id,
	).Scan(&exists)
	return exists, err
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

var _ domain.CategoryRepository = (*CategoryRepository)(nil)
