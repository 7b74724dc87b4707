package domain

import (
	"strings"
	"time"

	"github.com/pftracker/ledger/ledger-backend/internal/util"
	"github.com/shopspring/decimal"
)

// Period is the granularity a summary window is compared at
type Period string

const (
	PeriodDaily     Period = "daily"
	PeriodWeekly    Period = "weekly"
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodHalfYear  Period = "half-year"
	PeriodYearly    Period = "yearly"
	PeriodCustom    Period = "custom"
)

const (
	// UncategorizedLabel names the group of transactions whose category has no name
	UncategorizedLabel = "Sin Categoría"
	// NoCategoryLabel is reported as top category when nothing was spent or earned
	NoCategoryLabel = "N/A"
)

// ParsePeriod parses a period name case-insensitively
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodHalfYear, PeriodYearly, PeriodCustom:
		return p, nil
	}
	return "", ErrInvalidPeriod
}

// DetectPeriod classifies a window by its inclusive length in days
func DetectPeriod(start, end time.Time) Period {
	days := util.InclusiveDays(start, end)
	switch {
	case days <= 1:
		return PeriodDaily
	case days <= 7:
		return PeriodWeekly
	case days <= 31:
		return PeriodMonthly
	case days <= 92:
		return PeriodQuarterly
	case days <= 186:
		return PeriodHalfYear
	case days <= 366:
		return PeriodYearly
	default:
		return PeriodCustom
	}
}

// PreviousWindow returns the comparison window immediately preceding [start, end].
// Month-based periods clamp to month ends; custom windows are contiguous and of equal length.
func PreviousWindow(start, end time.Time, period Period) (time.Time, time.Time) {
	start, end = util.DateOnly(start), util.DateOnly(end)
	switch period {
	case PeriodDaily:
		return start.AddDate(0, 0, -1), end.AddDate(0, 0, -1)
	case PeriodWeekly:
		return start.AddDate(0, 0, -7), end.AddDate(0, 0, -7)
	case PeriodMonthly:
		return util.AddMonths(start, -1), util.AddMonths(end, -1)
	case PeriodQuarterly:
		return util.AddMonths(start, -3), util.AddMonths(end, -3)
	case PeriodHalfYear:
		return util.AddMonths(start, -6), util.AddMonths(end, -6)
	case PeriodYearly:
		return util.AddMonths(start, -12), util.AddMonths(end, -12)
	default:
		days := util.InclusiveDays(start, end)
		return start.AddDate(0, 0, -days), start.AddDate(0, 0, -1)
	}
}

// Summary is the aggregate view of a user's finances over a date window
type Summary struct {
	StartDate                time.Time        `json:"startDate"`
	EndDate                  time.Time        `json:"endDate"`
	Period                   Period           `json:"period"`
	TotalIncome              int64            `json:"totalIncome"`
	TotalExpenses            int64            `json:"totalExpenses"`
	Balance                  int64            `json:"balance"`
	ExpensesByCategory       map[string]int64 `json:"expensesByCategory"`
	IncomeByCategory         map[string]int64 `json:"incomeByCategory"`
	BalanceByAccount         map[string]int64 `json:"balanceByAccount"`
	TransactionCount         int              `json:"transactionCount"`
	AverageTransactionAmount int64            `json:"averageTransactionAmount"`
	TopExpenseCategory       string           `json:"topExpenseCategory"`
	TopIncomeCategory        string           `json:"topIncomeCategory"`
	PreviousStartDate        time.Time        `json:"previousStartDate"`
	PreviousEndDate          time.Time        `json:"previousEndDate"`
	PreviousPeriodBalance    int64            `json:"previousPeriodBalance"`
	BalanceChange            int64            `json:"balanceChange"`
	BalanceChangePercentage  decimal.Decimal  `json:"balanceChangePercentage"`
}
