package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrConflict      = errors.New("conflicting concurrent update")
	ErrInternalError = errors.New("internal error")
)

// Not found errors. All of them match ErrNotFound with errors.Is.
var (
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrAccountNotFound     = fmt.Errorf("account %w", ErrNotFound)
	ErrCategoryNotFound    = fmt.Errorf("category %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrGoalNotFound        = fmt.Errorf("goal %w", ErrNotFound)
)

// Validation errors. All of them match ErrInvalidInput with errors.Is.
var (
	ErrNameRequired           = fmt.Errorf("%w: name is required", ErrInvalidInput)
	ErrNameLength             = fmt.Errorf("%w: name must be between %d and %d characters", ErrInvalidInput, MinNameLength, MaxNameLength)
	ErrInvalidAmount          = fmt.Errorf("%w: amount must be between 1 and %d", ErrInvalidInput, MaxTransactionAmount)
	ErrInvalidBalance         = fmt.Errorf("%w: balance must be between 1 and %d", ErrInvalidInput, MaxAccountBalance)
	ErrInvalidTransactionType = fmt.Errorf("%w: transaction type must be ingreso or gasto", ErrInvalidInput)
	ErrInvalidAccountType     = fmt.Errorf("%w: unknown account type", ErrInvalidInput)
	ErrDescriptionTooLong     = fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, MaxDescriptionLength)
	ErrDateRequired           = fmt.Errorf("%w: date is required", ErrInvalidInput)
	ErrCategoryRequired       = fmt.Errorf("%w: category is required", ErrInvalidInput)
	ErrInvalidDateRange       = fmt.Errorf("%w: end date must not be before start date", ErrInvalidInput)
	ErrInvalidPeriod          = fmt.Errorf("%w: unknown period", ErrInvalidInput)
	ErrInvalidGoalPeriod      = fmt.Errorf("%w: goal period must be diario, semanal, mensual or anual", ErrInvalidInput)
	ErrInvalidGoalAmount      = fmt.Errorf("%w: goal amount must be between 1 and %d", ErrInvalidInput, MaxTransactionAmount)
	ErrInvalidGoalDates       = fmt.Errorf("%w: invalid goal dates", ErrInvalidInput)
	ErrExportStorageDisabled  = fmt.Errorf("%w: export storage is not configured", ErrInvalidInput)
)

// ErrCategoryInUse is returned when deleting a category that transactions or goals still reference.
var ErrCategoryInUse = fmt.Errorf("%w: category is still referenced", ErrConflict)

// Validation constants
const (
	MinNameLength        = 3
	MaxNameLength        = 100
	MaxDescriptionLength = 500
	MaxTransactionAmount = 1_000_000_000
	MaxAccountBalance    = 100_000_000
)
