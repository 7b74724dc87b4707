package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
	"github.com/pftracker/ledger/ledger-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// AccountService handles account-related business logic. It never writes
// current_balance after creation; that is the BalanceMutator's job.
type AccountService struct {
	accountRepo    domain.AccountRepository
	eventPublisher websocket.EventPublisher
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo domain.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *AccountService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *AccountService) publishEvent(ownerID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(ownerID, event)
	}
}

// CreateAccountInput holds the input for creating an account
type CreateAccountInput struct {
	Name           string
	AccountType    domain.AccountType
	InitialBalance int64
}

// CreateAccount opens an active account whose current balance starts at the initial balance
func (s *AccountService) CreateAccount(ctx context.Context, ownerID uuid.UUID, input CreateAccountInput) (*domain.Account, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}
	accountType, err := domain.ParseAccountType(string(input.AccountType))
	if err != nil {
		return nil, err
	}
	if input.InitialBalance < 1 || input.InitialBalance > domain.MaxAccountBalance {
		return nil, domain.ErrInvalidBalance
	}

	account, err := s.accountRepo.Create(ctx, &domain.Account{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Name:           name,
		AccountType:    accountType,
		CurrentBalance: input.InitialBalance,
		InitialBalance: input.InitialBalance,
		IsActive:       true,
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("owner_id", ownerID.String()).Str("account_id", account.ID.String()).Msg("Account created")
	return account, nil
}

// GetAccounts retrieves the owner's accounts, optionally including inactive ones
func (s *AccountService) GetAccounts(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]*domain.Account, error) {
	return s.accountRepo.GetAllByOwner(ctx, ownerID, includeInactive)
}

// GetAccountByID retrieves an account by ID for its owner
func (s *AccountService) GetAccountByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Account, error) {
	return s.accountRepo.GetByID(ctx, ownerID, id)
}

// UpdateAccountInput holds the editable account fields. Nil fields are left unchanged.
type UpdateAccountInput struct {
	Name        *string
	AccountType *domain.AccountType
	IsActive    *bool
}

// UpdateAccount changes name, type or active flag. Balances are not editable.
func (s *AccountService) UpdateAccount(ctx context.Context, ownerID, id uuid.UUID, input UpdateAccountInput) (*domain.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if account.Name, err = validateName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.AccountType != nil {
		if account.AccountType, err = domain.ParseAccountType(string(*input.AccountType)); err != nil {
			return nil, err
		}
	}
	if input.IsActive != nil {
		account.IsActive = *input.IsActive
	}

	updated, err := s.accountRepo.Update(ctx, account)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ownerID, websocket.AccountUpdated(updated))
	return updated, nil
}

// DeactivateAccount hides an account from default listings. Its transactions stay linked.
func (s *AccountService) DeactivateAccount(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.accountRepo.Deactivate(ctx, ownerID, id); err != nil {
		return err
	}
	s.publishEvent(ownerID, websocket.AccountUpdated(map[string]interface{}{"id": id, "isActive": false}))
	return nil
}

// DeleteAccount removes an account permanently. Linked transactions are kept
// and lose their account reference.
func (s *AccountService) DeleteAccount(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.accountRepo.HardDelete(ctx, ownerID, id); err != nil {
		return err
	}
	log.Info().Str("owner_id", ownerID.String()).Str("account_id", id.String()).Msg("Account deleted")
	return nil
}
