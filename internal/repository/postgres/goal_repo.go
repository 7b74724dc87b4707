package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
)

// GoalRepository implements domain.GoalRepository using PostgreSQL
type GoalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(pool *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{pool: pool}
}

const goalSelect = `
	SELECT g.id, g.owner_id, g.category_id, COALESCE(c.name, ''), g.goal_amount, g.period,
	       g.start_date, g.end_date, g.created_at, g.updated_at
	FROM financial_goals g
	LEFT JOIN categories c ON c.id = g.category_id`

const goalFilterClause = `
	WHERE g.owner_id = $1
	  AND ($2::date IS NULL OR g.start_date >= $2)
	  AND ($3::date IS NULL OR g.end_date <= $3)
	  AND ($4::text IS NULL OR c.name ILIKE '%' || $4 || '%')
	  AND ($5::text IS NULL OR g.period = $5)
	  AND ($6::bigint IS NULL OR g.goal_amount = $6)`

func (r *GoalRepository) Create(ctx context.Context, goal *domain.FinancialGoal) (*domain.FinancialGoal, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO financial_goals (id, owner_id, category_id, goal_amount, period, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		goal.ID, goal.OwnerID, goal.CategoryID, goal.GoalAmount, string(goal.Period), goal.StartDate, goal.EndDate,
	)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, goal.OwnerID, goal.ID)
}

func (r *GoalRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.FinancialGoal, error) {
	row := r.pool.QueryRow(ctx, goalSelect+` WHERE g.owner_id = $1 AND g.id = $2`, ownerID, id)
	goal, err := scanGoal(row)
	if err != nil {
		return nil, notFound(err, domain.ErrGoalNotFound)
	}
	return goal, nil
}

// List retrieves goals for an owner with optional filters and pagination
func (r *GoalRepository) List(ctx context.Context, ownerID uuid.UUID, filters domain.GoalFilters) (*domain.PaginatedGoals, error) {
	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters.Page > 0 {
		page = filters.Page
	}
	if filters.PageSize > 0 {
		pageSize = min(filters.PageSize, domain.MaxPageSize)
	}
	offset := (page - 1) * pageSize

	var period *string
	if filters.Period != nil {
		s := string(*filters.Period)
		period = &s
	}
	args := []any{ownerID, filters.StartDate, filters.EndDate, filters.CategoryName, period, filters.GoalAmount}

	var totalItems int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM financial_goals g
		LEFT JOIN categories c ON c.id = g.category_id`+goalFilterClause,
		args...,
	).Scan(&totalItems)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		goalSelect+goalFilterClause+`
		ORDER BY g.start_date, g.created_at
		LIMIT $7 OFFSET $8`,
		append(args, pageSize, offset)...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	data := make([]*domain.FinancialGoal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		data = append(data, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.PaginatedGoals{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages(totalItems, pageSize),
	}, nil
}

func (r *GoalRepository) Update(ctx context.Context, goal *domain.FinancialGoal) (*domain.FinancialGoal, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE financial_goals
		SET category_id = $3, goal_amount = $4, period = $5, start_date = $6, end_date = $7, updated_at = now()
		WHERE owner_id = $1 AND id = $2`,
		goal.OwnerID, goal.ID, goal.CategoryID, goal.GoalAmount, string(goal.Period), goal.StartDate, goal.EndDate,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrGoalNotFound
	}
	return r.GetByID(ctx, goal.OwnerID, goal.ID)
}

func (r *GoalRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM financial_goals WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func scanGoal(row rowScanner) (*domain.FinancialGoal, error) {
	var g domain.FinancialGoal
	var period string
	if err := row.Scan(&g.ID, &g.OwnerID, &g.CategoryID, &g.CategoryName, &g.GoalAmount, &period,
		&g.StartDate, &g.EndDate, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	g.Period = domain.GoalPeriod(period)
	return &g, nil
}

var _ domain.GoalRepository = (*GoalRepository)(nil)
