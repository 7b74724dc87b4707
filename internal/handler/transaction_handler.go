package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
	"github.com/pftracker/ledger/ledger-backend/internal/middleware"
	"github.com/pftracker/ledger/ledger-backend/internal/service"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	exportService      *service.ExportService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, exportService *service.ExportService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		exportService:      exportService,
	}
}

// TransactionRequest represents the create and update transaction request body
type TransactionRequest struct {
	Amount      int64   `json:"amount"`
	Type        string  `json:"type"`
	CategoryID  string  `json:"categoryId"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	AccountID   *string `json:"accountId,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID           string  `json:"id"`
	Amount       int64   `json:"amount"`
	Type         string  `json:"type"`
	CategoryID   string  `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Date         string  `json:"date"`
	Description  string  `json:"description"`
	AccountID    *string `json:"accountId,omitempty"`
	AccountName  *string `json:"accountName,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// PaginatedTransactionsResponse represents one page of transactions
type PaginatedTransactionsResponse struct {
	Data       []TransactionResponse `json:"data"`
	Page       int32                 `json:"page"`
	PageSize   int32                 `json:"pageSize"`
	TotalItems int64                 `json:"totalItems"`
	TotalPages int32                 `json:"totalPages"`
}

// toInput converts the body into a service input, collecting format errors
func (r TransactionRequest) toInput() (domain.TransactionInput, []ValidationError) {
	var errs []ValidationError
	input := domain.TransactionInput{
		Amount:      r.Amount,
		Description: r.Description,
	}

	txType, err := domain.ParseTransactionType(r.Type)
	if err != nil {
		errs = append(errs, ValidationError{Field: "type", Message: "Type must be one of: ingreso, gasto"})
	}
	input.Type = txType

	if input.CategoryID, err = uuid.Parse(r.CategoryID); err != nil {
		errs = append(errs, ValidationError{Field: "categoryId", Message: "Must be a valid UUID"})
	}

	if strings.TrimSpace(r.Date) == "" {
		errs = append(errs, ValidationError{Field: "date", Message: "Date is required"})
	} else if input.Date, err = parseDate(r.Date); err != nil {
		errs = append(errs, ValidationError{Field: "date", Message: "Must be YYYY-MM-DD or an ISO 8601 timestamp"})
	}

	if r.AccountID != nil && *r.AccountID != "" {
		accountID, err := uuid.Parse(*r.AccountID)
		if err != nil {
			errs = append(errs, ValidationError{Field: "accountId", Message: "Must be a valid UUID"})
		} else {
			input.AccountID = &accountID
		}
	}

	return input, errs
}

// CreateTransaction records a transaction and applies it to the linked account
// POST /transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	input, errs := req.toInput()
	if len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	view, err := h.transactionService.CreateTransaction(c.Request().Context(), ownerID, input)
	if err != nil {
		return handleServiceError(c, err, "create transaction")
	}
	return c.JSON(http.StatusCreated, toTransactionResponse(view))
}

// GetTransaction returns one transaction
// GET /transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidIDError(c, "id")
	}

	view, err := h.transactionService.GetTransaction(c.Request().Context(), ownerID, id)
	if err != nil {
		return handleServiceError(c, err, "get transaction")
	}
	return c.JSON(http.StatusOK, toTransactionResponse(view))
}

// GetTransactions lists transactions, oldest first
// GET /transactions?startDate=&endDate=&categoryName=&type=&page=&pageSize=
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var errs []ValidationError
	input := service.ListTransactionsInput{CategoryName: optionalQuery(c, "categoryName")}

	var verr *ValidationError
	if input.StartDate, verr = parseDateQuery(c, "startDate"); verr != nil {
		errs = append(errs, *verr)
	}
	if input.EndDate, verr = parseDateQuery(c, "endDate"); verr != nil {
		errs = append(errs, *verr)
	}
	if raw := optionalQuery(c, "type"); raw != nil {
		txType, err := domain.ParseTransactionType(*raw)
		if err != nil {
			errs = append(errs, ValidationError{Field: "type", Message: "Type must be one of: ingreso, gasto"})
		} else {
			input.Type = &txType
		}
	}

	page, pageSize, pageErrs := parsePagination(c)
	errs = append(errs, pageErrs...)
	input.Page, input.PageSize = page, pageSize

	if len(errs) > 0 {
		return NewValidationError(c, "Invalid query parameters", errs)
	}

	result, err := h.transactionService.ListTransactions(c.Request().Context(), ownerID, input)
	if err != nil {
		return handleServiceError(c, err, "list transactions")
	}

	response := PaginatedTransactionsResponse{
		Data:       make([]TransactionResponse, len(result.Data)),
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	}
	for i, view := range result.Data {
		response.Data[i] = toTransactionResponse(view)
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateTransaction overwrites a transaction and moves its balance effect
// PUT /transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidIDError(c, "id")
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	input, errs := req.toInput()
	if len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	view, err := h.transactionService.UpdateTransaction(c.Request().Context(), ownerID, id, input)
	if err != nil {
		return handleServiceError(c, err, "update transaction")
	}
	return c.JSON(http.StatusOK, toTransactionResponse(view))
}

// DeleteTransaction removes a transaction and reverses its balance effect
// DELETE /transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidIDError(c, "id")
	}

	if _, err := h.transactionService.DeleteTransaction(c.Request().Context(), ownerID, id); err != nil {
		return handleServiceError(c, err, "delete transaction")
	}
	return c.NoContent(http.StatusNoContent)
}

// ExportTransactions downloads the window as CSV, or returns a temporary link
// when delivery=link
// GET /transactions/export?startDate=&endDate=&delivery=
func (h *TransactionHandler) ExportTransactions(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var errs []ValidationError
	var input service.ExportInput
	var verr *ValidationError
	if input.StartDate, verr = parseDateQuery(c, "startDate"); verr != nil {
		errs = append(errs, *verr)
	}
	if input.EndDate, verr = parseDateQuery(c, "endDate"); verr != nil {
		errs = append(errs, *verr)
	}
	switch delivery := c.QueryParam("delivery"); delivery {
	case "", "inline":
	case "link":
		input.Upload = true
	default:
		errs = append(errs, ValidationError{Field: "delivery", Message: "Must be one of: inline, link"})
	}
	if len(errs) > 0 {
		return NewValidationError(c, "Invalid query parameters", errs)
	}

	result, err := h.exportService.ExportTransactions(c.Request().Context(), ownerID, input)
	if err != nil {
		return handleServiceError(c, err, "export transactions")
	}

	if input.Upload {
		return c.JSON(http.StatusOK, result)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+result.Filename+`"`)
	return c.Blob(http.StatusOK, result.ContentType, result.Data)
}

// parsePagination reads page and pageSize; zero means default
func parsePagination(c echo.Context) (int32, int32, []ValidationError) {
	var errs []ValidationError
	parse := func(name string) int32 {
		raw := c.QueryParam(name)
		if raw == "" {
			return 0
		}
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n < 1 {
			errs = append(errs, ValidationError{Field: name, Message: "Must be a positive integer"})
			return 0
		}
		return int32(n)
	}
	page := parse("page")
	pageSize := parse("pageSize")
	if pageSize > domain.MaxPageSize {
		pageSize = domain.MaxPageSize
	}
	return page, pageSize, errs
}

func toTransactionResponse(v *domain.TransactionView) TransactionResponse {
	resp := TransactionResponse{
		ID:           v.ID.String(),
		Amount:       v.Amount,
		Type:         string(v.Type),
		CategoryID:   v.CategoryID.String(),
		CategoryName: v.CategoryName,
		Date:         formatTimestamp(v.Date),
		Description:  v.Description,
		AccountName:  v.AccountName,
		CreatedAt:    formatTimestamp(v.CreatedAt),
		UpdatedAt:    formatTimestamp(v.UpdatedAt),
	}
	if v.AccountID != nil {
		id := v.AccountID.String()
		resp.AccountID = &id
	}
	return resp
}
