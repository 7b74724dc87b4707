package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://pftracker.app/errors/validation"
	ErrorTypeNotFound     = "https://pftracker.app/errors/not-found"
	ErrorTypeUnauthorized = "https://pftracker.app/errors/unauthorized"
	ErrorTypeConflict     = "https://pftracker.app/errors/conflict"
	ErrorTypeInternal     = "https://pftracker.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// fieldErrors names the request field each validation error belongs to
var fieldErrors = []struct {
	err   error
	field string
}{
	{domain.ErrNameRequired, "name"},
	{domain.ErrNameLength, "name"},
	{domain.ErrInvalidAmount, "amount"},
	{domain.ErrInvalidBalance, "initialBalance"},
	{domain.ErrInvalidTransactionType, "type"},
	{domain.ErrInvalidAccountType, "accountType"},
	{domain.ErrDescriptionTooLong, "description"},
	{domain.ErrDateRequired, "date"},
	{domain.ErrCategoryRequired, "categoryId"},
	{domain.ErrInvalidDateRange, "endDate"},
	{domain.ErrInvalidPeriod, "period"},
	{domain.ErrInvalidGoalPeriod, "period"},
	{domain.ErrInvalidGoalAmount, "goalAmount"},
	{domain.ErrInvalidGoalDates, "endDate"},
	{domain.ErrExportStorageDisabled, "delivery"},
}

// handleServiceError maps a service error to its Problem Details response
func handleServiceError(c echo.Context, err error, action string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		var details []ValidationError
		for _, fe := range fieldErrors {
			if errors.Is(err, fe.err) {
				details = append(details, ValidationError{Field: fe.field, Message: validationMessage(err)})
				break
			}
		}
		return NewValidationError(c, "Validation failed", details)
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, capitalize(err.Error()))
	case errors.Is(err, domain.ErrCategoryInUse):
		return NewConflictError(c, "Category is still used by transactions or goals")
	case errors.Is(err, domain.ErrConflict):
		return NewConflictError(c, "The resource was modified concurrently, please retry")
	case errors.Is(err, domain.ErrUnauthorized):
		return NewUnauthorizedError(c, "Authentication required")
	default:
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Failed to " + action)
		return NewInternalError(c, "Failed to "+action)
	}
}

// validationMessage drops the generic "invalid input: " prefix
func validationMessage(err error) string {
	return capitalize(strings.TrimPrefix(err.Error(), domain.ErrInvalidInput.Error()+": "))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// parseIDParam reads a UUID path parameter
func parseIDParam(c echo.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// invalidIDError responds to a malformed UUID path parameter
func invalidIDError(c echo.Context, name string) error {
	return NewValidationError(c, "Invalid ID", []ValidationError{
		{Field: name, Message: "Must be a valid UUID"},
	})
}

// parseDate accepts YYYY-MM-DD, RFC 3339, or a zoneless timestamp read as UTC
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
}

// parseDateQuery reads an optional date query parameter
func parseDateQuery(c echo.Context, name string) (*time.Time, *ValidationError) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return nil, &ValidationError{Field: name, Message: "Must be in YYYY-MM-DD format"}
	}
	return &t, nil
}

// optionalQuery returns a pointer to a non-blank query parameter
func optionalQuery(c echo.Context, name string) *string {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil
	}
	return &raw
}

func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
