package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
	"github.com/pftracker/ledger/ledger-backend/internal/middleware"
	"github.com/pftracker/ledger/ledger-backend/internal/service"
	"github.com/shopspring/decimal"
)

// SummaryHandler handles financial summary requests
type SummaryHandler struct {
	summaryService *service.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(summaryService *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// SummaryResponse represents the financial summary of a date window
type SummaryResponse struct {
	StartDate                string           `json:"startDate"`
	EndDate                  string           `json:"endDate"`
	Period                   string           `json:"period"`
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
	PreviousPeriod           PreviousPeriod   `json:"previousPeriod"`
}

// PreviousPeriod compares the window with the one before it
type PreviousPeriod struct {
	StartDate               string          `json:"startDate"`
	EndDate                 string          `json:"endDate"`
	Balance                 int64           `json:"balance"`
	BalanceChange           int64           `json:"balanceChange"`
	BalanceChangePercentage decimal.Decimal `json:"balanceChangePercentage"`
}

// GetSummary returns totals, category breakdowns and the previous period comparison
// GET /transactions/summary?startDate=&endDate=&period=
func (h *SummaryHandler) GetSummary(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var errs []ValidationError
	input := service.SummaryInput{Period: optionalQuery(c, "period")}
	var verr *ValidationError
	if input.StartDate, verr = parseDateQuery(c, "startDate"); verr != nil {
		errs = append(errs, *verr)
	}
	if input.EndDate, verr = parseDateQuery(c, "endDate"); verr != nil {
		errs = append(errs, *verr)
	}
	if len(errs) > 0 {
		return NewValidationError(c, "Invalid query parameters", errs)
	}

	summary, err := h.summaryService.GetSummary(c.Request().Context(), ownerID, input)
	if err != nil {
		return handleServiceError(c, err, "build summary")
	}
	return c.JSON(http.StatusOK, toSummaryResponse(summary))
}

func toSummaryResponse(s *domain.Summary) SummaryResponse {
	return SummaryResponse{
		StartDate:                formatDate(s.StartDate),
		EndDate:                  formatDate(s.EndDate),
		Period:                   string(s.Period),
		TotalIncome:              s.TotalIncome,
		TotalExpenses:            s.TotalExpenses,
		Balance:                  s.Balance,
		ExpensesByCategory:       s.ExpensesByCategory,
		IncomeByCategory:         s.IncomeByCategory,
		BalanceByAccount:         s.BalanceByAccount,
		TransactionCount:         s.TransactionCount,
		AverageTransactionAmount: s.AverageTransactionAmount,
		TopExpenseCategory:       s.TopExpenseCategory,
		TopIncomeCategory:        s.TopIncomeCategory,
		PreviousPeriod: PreviousPeriod{
			StartDate:               formatDate(s.PreviousStartDate),
			EndDate:                 formatDate(s.PreviousEndDate),
			Balance:                 s.PreviousPeriodBalance,
			BalanceChange:           s.BalanceChange,
			BalanceChangePercentage: s.BalanceChangePercentage,
		},
	}
}
