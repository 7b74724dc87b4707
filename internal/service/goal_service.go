package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
	"github.com/pftracker/ledger/ledger-backend/internal/util"
	"github.com/rs/zerolog/log"
)

// GoalService handles financial goal business logic
type GoalService struct {
	goalRepo     domain.GoalRepository
	categoryRepo domain.CategoryRepository
	now          func() time.Time
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo domain.GoalRepository, categoryRepo domain.CategoryRepository) *GoalService {
	return &GoalService{
		goalRepo:     goalRepo,
		categoryRepo: categoryRepo,
		now:          time.Now,
	}
}

// GoalInput holds the fields of a goal on create and update
type GoalInput struct {
	CategoryID uuid.UUID
	GoalAmount int64
	Period     string
	StartDate  time.Time
	EndDate    time.Time
}

type validGoal struct {
	period     domain.GoalPeriod
	start, end time.Time
}

func goalDatesError(reason string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidGoalDates, reason)
}

// validateGoalInput applies the goal rules relative to today (UTC)
func (s *GoalService) validateGoalInput(input GoalInput) (*validGoal, error) {
	if input.CategoryID == uuid.Nil {
		return nil, domain.ErrCategoryRequired
	}
	if input.GoalAmount < 1 || input.GoalAmount > domain.MaxTransactionAmount {
		return nil, domain.ErrInvalidGoalAmount
	}
	period, err := domain.ParseGoalPeriod(input.Period)
	if err != nil {
		return nil, err
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, domain.ErrDateRequired
	}

	today := util.DateOnly(s.now())
	start, end := util.DateOnly(input.StartDate), util.DateOnly(input.EndDate)

	if start.Before(today.AddDate(0, 0, -domain.MaxGoalStartLagDays)) {
		return nil, goalDatesError(fmt.Sprintf("start date cannot be more than %d days in the past", domain.MaxGoalStartLagDays))
	}
	if !end.After(start) {
		return nil, goalDatesError("end date must be after start date")
	}
	if !end.After(today) {
		return nil, goalDatesError("end date must be in the future")
	}

	days := util.InclusiveDays(start, end) - 1
	switch {
	case days < domain.MinGoalDays:
		return nil, goalDatesError("goal must last at least 1 day")
	case period == domain.GoalPeriodWeekly && days < domain.MinWeeklyGoalDays:
		return nil, goalDatesError(fmt.Sprintf("a weekly goal must last at least %d days", domain.MinWeeklyGoalDays))
	case period == domain.GoalPeriodMonthly && days < domain.MinMonthlyGoalDays:
		return nil, goalDatesError(fmt.Sprintf("a monthly goal must last at least %d days", domain.MinMonthlyGoalDays))
	case period == domain.GoalPeriodYearly && days > domain.MaxYearlyGoalDays:
		return nil, goalDatesError(fmt.Sprintf("a yearly goal cannot last more than %d days", domain.MaxYearlyGoalDays))
	}

	return &validGoal{period: period, start: start, end: end}, nil
}

// CreateGoal validates and stores a new goal for the owner
func (s *GoalService) CreateGoal(ctx context.Context, ownerID uuid.UUID, input GoalInput) (*domain.FinancialGoal, error) {
	valid, err := s.validateGoalInput(input)
	if err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(ctx, ownerID, input.CategoryID); err != nil {
		return nil, err
	}

	goal, err := s.goalRepo.Create(ctx, &domain.FinancialGoal{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		CategoryID: input.CategoryID,
		GoalAmount: input.GoalAmount,
		Period:     valid.period,
		StartDate:  valid.start,
		EndDate:    valid.end,
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("owner_id", ownerID.String()).Str("goal_id", goal.ID.String()).Msg("Goal created")
	return goal, nil
}

// GetGoal retrieves a goal by ID for its owner
func (s *GoalService) GetGoal(ctx context.Context, ownerID, id uuid.UUID) (*domain.FinancialGoal, error) {
	return s.goalRepo.GetByID(ctx, ownerID, id)
}

// ListGoalsInput holds goal list filters
type ListGoalsInput struct {
	StartDate    *time.Time
	EndDate      *time.Time
	CategoryName *string
	Period       *string
	GoalAmount   *int64
	Page         int32
	PageSize     int32
}

// ListGoals returns one page of the owner's goals
func (s *GoalService) ListGoals(ctx context.Context, ownerID uuid.UUID, input ListGoalsInput) (*domain.PaginatedGoals, error) {
	filters := domain.GoalFilters{
		GoalAmount: input.GoalAmount,
		Page:       input.Page,
		PageSize:   min(input.PageSize, domain.MaxPageSize),
	}
	if input.StartDate != nil {
		start := util.DateOnly(*input.StartDate)
		filters.StartDate = &start
	}
	if input.EndDate != nil {
		end := util.DateOnly(*input.EndDate)
		filters.EndDate = &end
	}
	if filters.StartDate != nil && filters.EndDate != nil && filters.EndDate.Before(*filters.StartDate) {
		return nil, domain.ErrInvalidDateRange
	}
	if input.CategoryName != nil && strings.TrimSpace(*input.CategoryName) != "" {
		filters.CategoryName = input.CategoryName
	}
	if input.Period != nil && strings.TrimSpace(*input.Period) != "" {
		period, err := domain.ParseGoalPeriod(*input.Period)
		if err != nil {
			return nil, err
		}
		filters.Period = &period
	}
	return s.goalRepo.List(ctx, ownerID, filters)
}

// UpdateGoal overwrites a goal after re-validating every field
func (s *GoalService) UpdateGoal(ctx context.Context, ownerID, id uuid.UUID, input GoalInput) (*domain.FinancialGoal, error) {
	goal, err := s.goalRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	valid, err := s.validateGoalInput(input)
	if err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(ctx, ownerID, input.CategoryID); err != nil {
		return nil, err
	}

	goal.CategoryID = input.CategoryID
	goal.GoalAmount = input.GoalAmount
	goal.Period = valid.period
	goal.StartDate = valid.start
	goal.EndDate = valid.end
	return s.goalRepo.Update(ctx, goal)
}

// DeleteGoal removes a goal
func (s *GoalService) DeleteGoal(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.goalRepo.Delete(ctx, ownerID, id)
}
