package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type GoalPeriod string

const (
	GoalPeriodDaily   GoalPeriod = "diario"
	GoalPeriodWeekly  GoalPeriod = "semanal"
	GoalPeriodMonthly GoalPeriod = "mensual"
	GoalPeriodYearly  GoalPeriod = "anual"
)

// Goal duration limits in days
const (
	MinGoalDays         = 1
	MinWeeklyGoalDays   = 7
	MinMonthlyGoalDays  = 28
	MaxYearlyGoalDays   = 1825
	MaxGoalStartLagDays = 30
)

// ParseGoalPeriod parses a goal period case-insensitively
func ParseGoalPeriod(s string) (GoalPeriod, error) {
	switch p := GoalPeriod(strings.ToLower(strings.TrimSpace(s))); p {
	case GoalPeriodDaily, GoalPeriodWeekly, GoalPeriodMonthly, GoalPeriodYearly:
		return p, nil
	}
	return "", ErrInvalidGoalPeriod
}

type FinancialGoal struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"ownerId"`
	CategoryID   uuid.UUID  `json:"categoryId"`
	CategoryName string     `json:"categoryName"`
	GoalAmount   int64      `json:"goalAmount"`
	Period       GoalPeriod `json:"period"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type GoalFilters struct {
	StartDate    *time.Time
	EndDate      *time.Time
	CategoryName *string
	Period       *GoalPeriod
	GoalAmount   *int64
	Page         int32
	PageSize     int32
}

type PaginatedGoals struct {
	Data       []*FinancialGoal `json:"data"`
	Page       int32            `json:"page"`
	PageSize   int32            `json:"pageSize"`
	TotalItems int64            `json:"totalItems"`
	TotalPages int32            `json:"totalPages"`
}

type GoalRepository interface {
	Create(ctx context.Context, goal *FinancialGoal) (*FinancialGoal, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*FinancialGoal, error)
	List(ctx context.Context, ownerID uuid.UUID, filters GoalFilters) (*PaginatedGoals, error)
	Update(ctx context.Context, goal *FinancialGoal) (*FinancialGoal, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
