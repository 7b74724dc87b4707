package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
	"github.com/pftracker/ledger/ledger-backend/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SummaryService computes read-only financial summaries. It never writes and
// never caches: every call re-reads the window from the store.
type SummaryService struct {
	transactionRepo domain.TransactionRepository
	accountRepo     domain.AccountRepository
	now             func() time.Time
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(transactionRepo domain.TransactionRepository, accountRepo domain.AccountRepository) *SummaryService {
	return &SummaryService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		now:             time.Now,
	}
}

// SummaryInput holds the optional window and period of a summary request
type SummaryInput struct {
	StartDate *time.Time
	EndDate   *time.Time
	Period    *string
}

// resolveWindow fills in missing dates relative to now. Both bounds are
// inclusive calendar days in UTC; a missing window is the current month.
func resolveWindow(now time.Time, startDate, endDate *time.Time) (time.Time, time.Time, error) {
	var start, end time.Time

	switch {
	case startDate == nil && endDate == nil:
		start = util.FirstOfMonth(now)
		end = util.AddMonths(start, 1).AddDate(0, 0, -1)
	case endDate == nil:
		start = util.DateOnly(*startDate)
		end = util.AddMonths(start, 1).AddDate(0, 0, -1)
	case startDate == nil:
		start = util.FirstOfMonth(now)
		end = util.DateOnly(*endDate)
	default:
		start = util.DateOnly(*startDate)
		end = util.DateOnly(*endDate)
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	return start, end, nil
}

// GetSummary aggregates the owner's transactions over a window and compares
// the result with the preceding window of the same period
func (s *SummaryService) GetSummary(ctx context.Context, ownerID uuid.UUID, input SummaryInput) (*domain.Summary, error) {
	start, end, err := resolveWindow(s.now(), input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	period := domain.DetectPeriod(start, end)
	if input.Period != nil && strings.TrimSpace(*input.Period) != "" {
		period, err = domain.ParsePeriod(*input.Period)
		if err != nil {
			return nil, err
		}
	}

	transactions, err := s.transactionRepo.GetByDateRange(ctx, ownerID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.GetAllByOwner(ctx, ownerID, true)
	if err != nil {
		return nil, err
	}

	prevStart, prevEnd := domain.PreviousWindow(start, end, period)
	previous, err := s.transactionRepo.GetByDateRange(ctx, ownerID, prevStart, prevEnd.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	summary := buildSummary(transactions, accounts)
	summary.StartDate = start
	summary.EndDate = end
	summary.Period = period
	summary.PreviousStartDate = prevStart
	summary.PreviousEndDate = prevEnd

	prevIncome, prevExpenses := totals(previous)
	summary.PreviousPeriodBalance = prevIncome - prevExpenses
	summary.BalanceChange = summary.Balance - summary.PreviousPeriodBalance
	summary.BalanceChangePercentage = changePercentage(summary.BalanceChange, summary.PreviousPeriodBalance)

	log.Debug().
		Str("owner_id", ownerID.String()).
		Str("period", string(period)).
		Int("transactions", summary.TransactionCount).
		Msg("Summary computed")

	return summary, nil
}

// buildSummary is the pure aggregation step over one window
func buildSummary(transactions []*domain.TransactionView, accounts []*domain.Account) *domain.Summary {
	summary := &domain.Summary{
		ExpensesByCategory: make(map[string]int64),
		IncomeByCategory:   make(map[string]int64),
		BalanceByAccount:   make(map[string]int64),
		TransactionCount:   len(transactions),
	}

	var total int64
	for _, t := range transactions {
		name := categoryLabel(t.CategoryName)
		total += t.Amount
		switch t.Type {
		case domain.TransactionTypeIncome:
			summary.TotalIncome += t.Amount
			summary.IncomeByCategory[name] += t.Amount
		case domain.TransactionTypeExpense:
			summary.TotalExpenses += t.Amount
			summary.ExpensesByCategory[name] += t.Amount
		}
	}
	summary.Balance = summary.TotalIncome - summary.TotalExpenses
	if len(transactions) > 0 {
		summary.AverageTransactionAmount = total / int64(len(transactions))
	}

	for _, a := range accounts {
		summary.BalanceByAccount[a.Name] += a.CurrentBalance
	}

	summary.TopExpenseCategory = topCategory(summary.ExpensesByCategory)
	summary.TopIncomeCategory = topCategory(summary.IncomeByCategory)
	return summary
}

func totals(transactions []*domain.TransactionView) (income, expenses int64) {
	for _, t := range transactions {
		switch t.Type {
		case domain.TransactionTypeIncome:
			income += t.Amount
		case domain.TransactionTypeExpense:
			expenses += t.Amount
		}
	}
	return income, expenses
}

func categoryLabel(name string) string {
	if strings.TrimSpace(name) == "" {
		return domain.UncategorizedLabel
	}
	return name
}

// topCategory returns the name with the largest sum; equal sums go to the smallest name
func topCategory(sums map[string]int64) string {
	if len(sums) == 0 {
		return domain.NoCategoryLabel
	}
	names := make([]string, 0, len(sums))
	for name := range sums {
		names = append(names, name)
	}
	sort.Strings(names)

	top := names[0]
	for _, name := range names[1:] {
		if sums[name] > sums[top] {
			top = name
		}
	}
	return top
}

// changePercentage is change / |previous| * 100 truncated to two places, 0 when previous is 0
func changePercentage(change, previous int64) decimal.Decimal {
	if previous == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(change).
		Mul(hundred).
		Div(decimal.NewFromInt(previous).Abs()).
		Truncate(2)
}
