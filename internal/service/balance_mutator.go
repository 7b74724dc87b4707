package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
)

// BalanceMutator is the only writer of an account's current balance.
// It works inside the caller's unit of work; committing is the caller's job.
type BalanceMutator struct {
	accountRepo domain.AccountRepository
}

// NewBalanceMutator creates a new BalanceMutator
func NewBalanceMutator(accountRepo domain.AccountRepository) *BalanceMutator {
	return &BalanceMutator{accountRepo: accountRepo}
}

// ApplyEffect adds a signed amount to the account balance and returns the updated account.
// The account row is locked for the rest of the unit of work, so concurrent
// lifecycle operations on the same account are serialized.
func (m *BalanceMutator) ApplyEffect(ctx context.Context, uow domain.UnitOfWork, ownerID, accountID uuid.UUID, signedAmount int64) (*domain.Account, error) {
	account, err := m.accountRepo.GetByIDForUpdateTx(ctx, uow, ownerID, accountID)
	if err != nil {
		return nil, err
	}

	updated, err := m.accountRepo.UpdateBalanceTx(ctx, uow, ownerID, accountID, account.CurrentBalance+signedAmount)
	if err != nil {
		return nil, fmt.Errorf("update balance of account %s: %w", accountID, err)
	}
	return updated, nil
}

// ReverseEffect undoes a previous ApplyEffect of the same signed amount
func (m *BalanceMutator) ReverseEffect(ctx context.Context, uow domain.UnitOfWork, ownerID, accountID uuid.UUID, signedAmount int64) (*domain.Account, error) {
	return m.ApplyEffect(ctx, uow, ownerID, accountID, -signedAmount)
}
