package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "ingreso"
	TransactionTypeExpense TransactionType = "gasto"
)

// ParseTransactionType parses a transaction type case-insensitively
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case TransactionTypeIncome:
		return TransactionTypeIncome, nil
	case TransactionTypeExpense:
		return TransactionTypeExpense, nil
	}
	return "", ErrInvalidTransactionType
}

// SignedAmount returns the balance delta of an amount of the given type:
// positive for income, negative for expense.
func (t TransactionType) SignedAmount(amount int64) int64 {
	if t == TransactionTypeIncome {
		return amount
	}
	return -amount
}

type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"ownerId"`
	Amount      int64           `json:"amount"`
	Type        TransactionType `json:"type"`
	CategoryID  uuid.UUID       `json:"categoryId"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	AccountID   *uuid.UUID      `json:"accountId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// SignedAmount is the transaction's contribution to its account balance
func (t *Transaction) SignedAmount() int64 {
	return t.Type.SignedAmount(t.Amount)
}

// TransactionView is a transaction with its category and account names resolved
type TransactionView struct {
	Transaction
	CategoryName string  `json:"categoryName"`
	AccountName  *string `json:"accountName,omitempty"`
}

// TransactionInput carries the caller-writable fields of a transaction
type TransactionInput struct {
	Amount      int64
	Type        TransactionType
	CategoryID  uuid.UUID
	Date        time.Time
	Description string
	AccountID   *uuid.UUID
}

// TransactionFilters narrows a transaction listing. EndDate is exclusive.
type TransactionFilters struct {
	StartDate    *time.Time
	EndDate      *time.Time
	CategoryName *string
	Type         *TransactionType
	Page         int32
	PageSize     int32
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type PaginatedTransactions struct {
	Data       []*TransactionView `json:"data"`
	Page       int32              `json:"page"`
	PageSize   int32              `json:"pageSize"`
	TotalItems int64              `json:"totalItems"`
	TotalPages int32              `json:"totalPages"`
}

type TransactionRepository interface {
	CreateTx(ctx context.Context, uow UnitOfWork, transaction *Transaction) (*Transaction, error)
	GetByIDForUpdateTx(ctx context.Context, uow UnitOfWork, ownerID, id uuid.UUID) (*Transaction, error)
	UpdateTx(ctx context.Context, uow UnitOfWork, transaction *Transaction) (*Transaction, error)
	DeleteTx(ctx context.Context, uow UnitOfWork, ownerID, id uuid.UUID) error

	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*TransactionView, error)
	List(ctx context.Context, ownerID uuid.UUID, filters TransactionFilters) (*PaginatedTransactions, error)
	// GetByDateRange returns transactions with start <= date < end, oldest first
	GetByDateRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]*TransactionView, error)
}
