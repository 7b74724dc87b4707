package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
	"github.com/pftracker/ledger/ledger-backend/internal/middleware"
	"github.com/pftracker/ledger/ledger-backend/internal/service"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccountRequest represents the create account request body
type CreateAccountRequest struct {
	Name           string `json:"name"`
	AccountType    string `json:"accountType"`
	InitialBalance int64  `json:"initialBalance"`
}

// UpdateAccountRequest represents the update account request body
type UpdateAccountRequest struct {
	Name        *string `json:"name,omitempty"`
	AccountType *string `json:"accountType,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// AccountResponse is an account with its display label
type AccountResponse struct {
	*domain.Account
	AccountTypeLabel string `json:"accountTypeLabel"`
}

func toAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{Account: a, AccountTypeLabel: a.AccountType.Description()}
}

// CreateAccount creates an account whose balance starts at the initial balance
// POST /accounts
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	account, err := h.accountService.CreateAccount(c.Request().Context(), ownerID, service.CreateAccountInput{
		Name:           req.Name,
		AccountType:    domain.AccountType(req.AccountType),
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		return handleServiceError(c, err, "create account")
	}
	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// GetAccounts lists the owner's accounts
// GET /accounts?includeInactive=true
func (h *AccountHandler) GetAccounts(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	includeInactive := false
	if raw := c.QueryParam("includeInactive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return NewValidationError(c, "Invalid query parameters", []ValidationError{
				{Field: "includeInactive", Message: "Must be true or false"},
			})
		}
		includeInactive = v
	}

	accounts, err := h.accountService.GetAccounts(c.Request().Context(), ownerID, includeInactive)
	if err != nil {
		return handleServiceError(c, err, "list accounts")
	}

	response := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		response[i] = toAccountResponse(a)
	}
	return c.JSON(http.StatusOK, response)
}

// GetAccount returns one account
// GET /accounts/:id
func (h *AccountHandler) GetAccount(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidIDError(c, "id")
	}

	account, err := h.accountService.GetAccountByID(c.Request().Context(), ownerID, id)
	if err != nil {
		return handleServiceError(c, err, "get account")
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// UpdateAccount changes the editable fields of an account
// PUT /accounts/:id
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidIDError(c, "id")
	}

	var req UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateAccountInput{Name: req.Name, IsActive: req.IsActive}
	if req.AccountType != nil {
		t := domain.AccountType(*req.AccountType)
		input.AccountType = &t
	}

	account, err := h.accountService.UpdateAccount(c.Request().Context(), ownerID, id, input)
	if err != nil {
		return handleServiceError(c, err, "update account")
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// DeactivateAccount hides an account from default listings
// POST /accounts/:id/deactivate
func (h *AccountHandler) DeactivateAccount(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidIDError(c, "id")
	}

	if err := h.accountService.DeactivateAccount(c.Request().Context(), ownerID, id); err != nil {
		return handleServiceError(c, err, "deactivate account")
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAccount removes an account permanently
// DELETE /accounts/:id
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidIDError(c, "id")
	}

	if err := h.accountService.DeleteAccount(c.Request().Context(), ownerID, id); err != nil {
		return handleServiceError(c, err, "delete account")
	}
	return c.NoContent(http.StatusNoContent)
}
