package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pftracker/ledger/ledger-backend/internal/middleware"
	"github.com/pftracker/ledger/ledger-backend/internal/service"
)

// GoalHandler handles financial goal requests
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// GoalRequest represents the create and update goal request body
type GoalRequest struct {
	CategoryID string `json:"categoryId"`
	GoalAmount int64  `json:"goalAmount"`
	Period     string `json:"period"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

func (r GoalRequest) toInput() (service.GoalInput, []ValidationError) {
	var errs []ValidationError
	input := service.GoalInput{GoalAmount: r.GoalAmount, Period: r.Period}

	var err error
	if input.CategoryID, err = uuid.Parse(r.CategoryID); err != nil {
		errs = append(errs, ValidationError{Field: "categoryId", Message: "Must be a valid UUID"})
	}
	if strings.TrimSpace(r.StartDate) != "" {
		if input.StartDate, err = parseDate(r.StartDate); err != nil {
			errs = append(errs, ValidationError{Field: "startDate", Message: "Must be in YYYY-MM-DD format"})
		}
	}
	if strings.TrimSpace(r.EndDate) != "" {
		if input.EndDate, err = parseDate(r.EndDate); err != nil {
			errs = append(errs, ValidationError{Field: "endDate", Message: "Must be in YYYY-MM-DD format"})
		}
	}
	return input, errs
}

// CreateGoal handles POST /goals
func (h *GoalHandler) CreateGoal(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	input, errs := req.toInput()
	if len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	goal, err := h.goalService.CreateGoal(c.Request().Context(), ownerID, input)
	if err != nil {
		return handleServiceError(c, err, "create goal")
	}
	return c.JSON(http.StatusCreated, goal)
}

// GetGoals handles GET /goals with optional filters and pagination
func (h *GoalHandler) GetGoals(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var errs []ValidationError
	input := service.ListGoalsInput{
		CategoryName: optionalQuery(c, "categoryName"),
		Period:       optionalQuery(c, "period"),
	}
	var verr *ValidationError
	if input.StartDate, verr = parseDateQuery(c, "startDate"); verr != nil {
		errs = append(errs, *verr)
	}
	if input.EndDate, verr = parseDateQuery(c, "endDate"); verr != nil {
		errs = append(errs, *verr)
	}
	if raw := c.QueryParam("goalAmount"); raw != "" {
		amount, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs = append(errs, ValidationError{Field: "goalAmount", Message: "Must be an integer"})
		} else {
			input.GoalAmount = &amount
		}
	}
	page, pageSize, pageErrs := parsePagination(c)
	errs = append(errs, pageErrs...)
	input.Page, input.PageSize = page, pageSize

	if len(errs) > 0 {
		return NewValidationError(c, "Invalid query parameters", errs)
	}

	goals, err := h.goalService.ListGoals(c.Request().Context(), ownerID, input)
	if err != nil {
		return handleServiceError(c, err, "list goals")
	}
	return c.JSON(http.StatusOK, goals)
}

// GetGoal handles GET /goals/:id
func (h *GoalHandler) GetGoal(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidIDError(c, "id")
	}

	goal, err := h.goalService.GetGoal(c.Request().Context(), ownerID, id)
	if err != nil {
		return handleServiceError(c, err, "get goal")
	}
	return c.JSON(http.StatusOK, goal)
}

// UpdateGoal handles PUT /goals/:id
func (h *GoalHandler) UpdateGoal(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidIDError(c, "id")
	}

	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	input, errs := req.toInput()
	if len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	goal, err := h.goalService.UpdateGoal(c.Request().Context(), ownerID, id, input)
	if err != nil {
		return handleServiceError(c, err, "update goal")
	}
	return c.JSON(http.StatusOK, goal)
}

// DeleteGoal handles DELETE /goals/:id
func (h *GoalHandler) DeleteGoal(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidIDError(c, "id")
	}

	if err := h.goalService.DeleteGoal(c.Request().Context(), ownerID, id); err != nil {
		return handleServiceError(c, err, "delete goal")
	}
	return c.NoContent(http.StatusNoContent)
}
