package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
	"github.com/pftracker/ledger/ledger-backend/internal/util"
	"github.com/pftracker/ledger/ledger-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// TransactionService is the only entry point that creates, updates or deletes
// transactions. Every mutation and its balance effect commit together.
type TransactionService struct {
	txManager       domain.TxManager
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	mutator         *BalanceMutator
	eventPublisher  websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	txManager domain.TxManager,
	transactionRepo domain.TransactionRepository,
	categoryRepo domain.CategoryRepository,
	mutator *BalanceMutator,
) *TransactionService {
	return &TransactionService{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		mutator:         mutator,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes an event if a publisher is configured
func (s *TransactionService) publishEvent(ownerID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(ownerID, event)
	}
}

// validateTransactionInput checks an input before any store access and normalizes it
func validateTransactionInput(input *domain.TransactionInput) error {
	if input.Amount < 1 || input.Amount > domain.MaxTransactionAmount {
		return domain.ErrInvalidAmount
	}
	if input.Type != domain.TransactionTypeIncome && input.Type != domain.TransactionTypeExpense {
		return domain.ErrInvalidTransactionType
	}
	if input.CategoryID == uuid.Nil {
		return domain.ErrCategoryRequired
	}
	if input.Date.IsZero() {
		return domain.ErrDateRequired
	}
	input.Description = strings.TrimSpace(input.Description)
	if utf8.RuneCountInString(input.Description) > domain.MaxDescriptionLength {
		return domain.ErrDescriptionTooLong
	}
	input.Date = input.Date.UTC()
	return nil
}

// touchedAccounts keeps the latest snapshot of every account a mutation changed
type touchedAccounts map[uuid.UUID]*domain.Account

func (t touchedAccounts) add(account *domain.Account) {
	if account != nil {
		t[account.ID] = account
	}
}

func (t touchedAccounts) with(account *domain.Account) touchedAccounts {
	t.add(account)
	return t
}

// runInUnitOfWork executes fn in a fresh unit of work. Any error from fn rolls
// the whole unit back and is returned unchanged.
func (s *TransactionService) runInUnitOfWork(ctx context.Context, ownerID uuid.UUID, op string, fn func(uow domain.UnitOfWork) error) error {
	uow, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInternalError, err)
	}

	if err := fn(uow); err != nil {
		if rbErr := uow.Rollback(ctx); rbErr != nil {
			log.Error().Err(rbErr).Str("owner_id", ownerID.String()).Str("op", op).Msg("Rollback failed")
			return fmt.Errorf("%w: rollback after %v: %v", domain.ErrInternalError, err, rbErr)
		}
		log.Warn().Err(err).Str("owner_id", ownerID.String()).Str("op", op).Msg("Transaction mutation rolled back")
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		log.Error().Err(err).Str("owner_id", ownerID.String()).Str("op", op).Msg("Commit failed")
		if errors.Is(err, domain.ErrConflict) {
			return err
		}
		return fmt.Errorf("%w: commit: %v", domain.ErrInternalError, err)
	}
	return nil
}

// CreateTransaction records a transaction and applies its effect to the linked account
func (s *TransactionService) CreateTransaction(ctx context.Context, ownerID uuid.UUID, input domain.TransactionInput) (*domain.TransactionView, error) {
	if err := validateTransactionInput(&input); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, ownerID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	transaction := &domain.Transaction{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Amount:      input.Amount,
		Type:        input.Type,
		CategoryID:  input.CategoryID,
		Date:        input.Date,
		Description: input.Description,
		AccountID:   input.AccountID,
	}

	var created *domain.Transaction
	var account *domain.Account
	err = s.runInUnitOfWork(ctx, ownerID, "create", func(uow domain.UnitOfWork) error {
		if transaction.AccountID != nil {
			account, err = s.mutator.ApplyEffect(ctx, uow, ownerID, *transaction.AccountID, transaction.SignedAmount())
			if err != nil {
				return err
			}
		}
		created, err = s.transactionRepo.CreateTx(ctx, uow, transaction)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("owner_id", ownerID.String()).
		Str("transaction_id", created.ID.String()).
		Int64("signed_amount", created.SignedAmount()).
		Msg("Transaction created")

	view := newTransactionView(created, category.Name, account)
	s.publishEvent(ownerID, websocket.TransactionCreated(view))
	s.publishBalanceChanges(ownerID, touchedAccounts{}.with(account))
	return view, nil
}

// UpdateTransaction overwrites a transaction. The old effect is always fully
// reversed before the new one is applied, even on the same account.
func (s *TransactionService) UpdateTransaction(ctx context.Context, ownerID, id uuid.UUID, input domain.TransactionInput) (*domain.TransactionView, error) {
	if err := validateTransactionInput(&input); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, ownerID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	touched := touchedAccounts{}
	var updated *domain.Transaction
	var newAccount *domain.Account
	err = s.runInUnitOfWork(ctx, ownerID, "update", func(uow domain.UnitOfWork) error {
		existing, err := s.transactionRepo.GetByIDForUpdateTx(ctx, uow, ownerID, id)
		if err != nil {
			return err
		}

		if existing.AccountID != nil {
			reversed, err := s.mutator.ReverseEffect(ctx, uow, ownerID, *existing.AccountID, existing.SignedAmount())
			if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
				return err
			}
			touched.add(reversed)
		}

		existing.Amount = input.Amount
		existing.Type = input.Type
		existing.CategoryID = input.CategoryID
		existing.Date = input.Date
		existing.Description = input.Description
		existing.AccountID = input.AccountID

		if existing.AccountID != nil {
			newAccount, err = s.mutator.ApplyEffect(ctx, uow, ownerID, *existing.AccountID, existing.SignedAmount())
			if err != nil {
				return err
			}
			touched.add(newAccount)
		}

		updated, err = s.transactionRepo.UpdateTx(ctx, uow, existing)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("owner_id", ownerID.String()).
		Str("transaction_id", id.String()).
		Int("accounts_touched", len(touched)).
		Msg("Transaction updated")

	view := newTransactionView(updated, category.Name, newAccount)
	s.publishEvent(ownerID, websocket.TransactionUpdated(view))
	s.publishBalanceChanges(ownerID, touched)
	return view, nil
}

// DeleteTransaction removes a transaction and reverses its effect. A linked
// account that no longer exists is treated as already reconciled.
func (s *TransactionService) DeleteTransaction(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	var account *domain.Account
	err := s.runInUnitOfWork(ctx, ownerID, "delete", func(uow domain.UnitOfWork) error {
		existing, err := s.transactionRepo.GetByIDForUpdateTx(ctx, uow, ownerID, id)
		if err != nil {
			return err
		}

		if existing.AccountID != nil {
			account, err = s.mutator.ReverseEffect(ctx, uow, ownerID, *existing.AccountID, existing.SignedAmount())
			if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
				return err
			}
		}

		return s.transactionRepo.DeleteTx(ctx, uow, ownerID, id)
	})
	if err != nil {
		return false, err
	}

	log.Info().
		Str("owner_id", ownerID.String()).
		Str("transaction_id", id.String()).
		Msg("Transaction deleted")

	s.publishEvent(ownerID, websocket.TransactionDeleted(map[string]interface{}{"id": id}))
	s.publishBalanceChanges(ownerID, touchedAccounts{}.with(account))
	return true, nil
}

// GetTransaction retrieves a single transaction of the owner
func (s *TransactionService) GetTransaction(ctx context.Context, ownerID, id uuid.UUID) (*domain.TransactionView, error) {
	return s.transactionRepo.GetByID(ctx, ownerID, id)
}

// ListTransactionsInput holds list filters. Dates are inclusive calendar days.
type ListTransactionsInput struct {
	StartDate    *time.Time
	EndDate      *time.Time
	CategoryName *string
	Type         *domain.TransactionType
	Page         int32
	PageSize     int32
}

// ListTransactions returns one page of the owner's transactions, oldest first
func (s *TransactionService) ListTransactions(ctx context.Context, ownerID uuid.UUID, input ListTransactionsInput) (*domain.PaginatedTransactions, error) {
	filters := domain.TransactionFilters{
		CategoryName: input.CategoryName,
		Type:         input.Type,
		Page:         input.Page,
		PageSize:     input.PageSize,
	}
	if input.StartDate != nil {
		start := util.DateOnly(*input.StartDate)
		filters.StartDate = &start
	}
	if input.EndDate != nil {
		end := util.DateOnly(*input.EndDate).AddDate(0, 0, 1)
		filters.EndDate = &end
	}
	if filters.StartDate != nil && filters.EndDate != nil && !filters.EndDate.After(*filters.StartDate) {
		return nil, domain.ErrInvalidDateRange
	}
	if filters.CategoryName != nil && strings.TrimSpace(*filters.CategoryName) == "" {
		filters.CategoryName = nil
	}
	return s.transactionRepo.List(ctx, ownerID, filters)
}

func (s *TransactionService) publishBalanceChanges(ownerID uuid.UUID, accounts touchedAccounts) {
	for _, account := range accounts {
		s.publishEvent(ownerID, websocket.AccountBalanceChanged(map[string]interface{}{
			"accountId":      account.ID,
			"currentBalance": account.CurrentBalance,
		}))
	}
}

func newTransactionView(t *domain.Transaction, categoryName string, account *domain.Account) *domain.TransactionView {
	view := &domain.TransactionView{Transaction: *t, CategoryName: categoryName}
	if account != nil {
		name := account.Name
		view.AccountName = &name
	}
	return view
}
