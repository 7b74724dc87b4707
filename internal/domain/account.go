package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type AccountType string

const (
	AccountTypeChecking   AccountType = "Checking"
	AccountTypeSavings    AccountType = "Savings"
	AccountTypeCreditCard AccountType = "CreditCard"
	AccountTypeCash       AccountType = "Cash"
	AccountTypeInvestment AccountType = "Investment"
	AccountTypeLoan       AccountType = "Loan"
	AccountTypeVista      AccountType = "Vista"
	AccountTypeDeuda      AccountType = "Deuda"
)

// accountTypeLabels maps account types to their display labels
var accountTypeLabels = map[AccountType]string{
	AccountTypeChecking:   "Cuenta Corriente",
	AccountTypeSavings:    "Cuenta de Ahorro",
	AccountTypeCreditCard: "Tarjeta de Crédito",
	AccountTypeCash:       "Efectivo",
	AccountTypeInvestment: "Inversión",
	AccountTypeLoan:       "Préstamo",
	AccountTypeVista:      "Cuenta Vista",
	AccountTypeDeuda:      "Deuda",
}

// AccountTypes lists every account type in display order
var AccountTypes = []AccountType{
	AccountTypeChecking,
	AccountTypeSavings,
	AccountTypeCreditCard,
	AccountTypeCash,
	AccountTypeInvestment,
	AccountTypeLoan,
	AccountTypeVista,
	AccountTypeDeuda,
}

// Description returns the display label of the account type
func (t AccountType) Description() string {
	return accountTypeLabels[t]
}

// ParseAccountType accepts either the type code or its display label, case-insensitively
func ParseAccountType(s string) (AccountType, error) {
	s = strings.TrimSpace(s)
	for _, t := range AccountTypes {
		if strings.EqualFold(s, string(t)) || strings.EqualFold(s, t.Description()) {
			return t, nil
		}
	}
	return "", ErrInvalidAccountType
}

type Account struct {
	ID             uuid.UUID   `json:"id"`
	OwnerID        uuid.UUID   `json:"ownerId"`
	Name           string      `json:"name"`
	AccountType    AccountType `json:"accountType"`
	CurrentBalance int64       `json:"currentBalance"`
	InitialBalance int64       `json:"initialBalance"`
	IsActive       bool        `json:"isActive"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// AccountRepository persists accounts. Only the Tx methods may touch current_balance.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) (*Account, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Account, error)
	GetAllByOwner(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]*Account, error)
	Update(ctx context.Context, account *Account) (*Account, error)
	Deactivate(ctx context.Context, ownerID, id uuid.UUID) error
	HardDelete(ctx context.Context, ownerID, id uuid.UUID) error

	// GetByIDForUpdateTx reads the account and holds its row lock until the unit of work ends
	GetByIDForUpdateTx(ctx context.Context, uow UnitOfWork, ownerID, id uuid.UUID) (*Account, error)
	UpdateBalanceTx(ctx context.Context, uow UnitOfWork, ownerID, id uuid.UUID, newBalance int64) (*Account, error)
}
