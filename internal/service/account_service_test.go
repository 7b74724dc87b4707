package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
	"github.com/pftracker/ledger/ledger-backend/internal/testutil"
)

func newAccountTestService() (*AccountService, *testutil.Store, *testutil.MockEventPublisher, uuid.UUID) {
	store := testutil.NewStore()
	publisher := &testutil.MockEventPublisher{}
	svc := NewAccountService(testutil.NewMockAccountRepository(store))
	svc.SetEventPublisher(publisher)
	owner := store.AddUser("auth0|accounts")
	return svc, store, publisher, owner.ID
}

func TestCreateAccount_Success(t *testing.T) {
	svc, _, _, ownerID := newAccountTestService()

	account, err := svc.CreateAccount(context.Background(), ownerID, CreateAccountInput{
		Name:           "  Cuenta Sueldo  ",
		AccountType:    domain.AccountTypeChecking,
		InitialBalance: 250000,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if account.Name != "Cuenta Sueldo" {
		t.Errorf("Expected trimmed name 'Cuenta Sueldo', got %q", account.Name)
	}
	if account.CurrentBalance != 250000 || account.InitialBalance != 250000 {
		t.Errorf("Expected both balances 250000, got current=%d initial=%d", account.CurrentBalance, account.InitialBalance)
	}
	if !account.IsActive {
		t.Error("Expected new account to be active")
	}
	if account.OwnerID != ownerID {
		t.Errorf("Expected owner %s, got %s", ownerID, account.OwnerID)
	}
}

func TestCreateAccount_AcceptsTypeLabel(t *testing.T) {
	svc, _, _, ownerID := newAccountTestService()

	account, err := svc.CreateAccount(context.Background(), ownerID, CreateAccountInput{
		Name:           "Visa",
		AccountType:    "tarjeta de crédito",
		InitialBalance: 1,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if account.AccountType != domain.AccountTypeCreditCard {
		t.Errorf("Expected type CreditCard, got %s", account.AccountType)
	}
}

func TestCreateAccount_Validation(t *testing.T) {
	svc, store, _, ownerID := newAccountTestService()

	tests := []struct {
		name    string
		input   CreateAccountInput
		wantErr error
	}{
		{"empty name", CreateAccountInput{Name: "   ", AccountType: domain.AccountTypeCash, InitialBalance: 10}, domain.ErrNameRequired},
		{"short name", CreateAccountInput{Name: "ab", AccountType: domain.AccountTypeCash, InitialBalance: 10}, domain.ErrNameLength},
		{"long name", CreateAccountInput{Name: strings.Repeat("x", 101), AccountType: domain.AccountTypeCash, InitialBalance: 10}, domain.ErrNameLength},
		{"unknown type", CreateAccountInput{Name: "Wallet", AccountType: "Crypto", InitialBalance: 10}, domain.ErrInvalidAccountType},
		{"zero balance", CreateAccountInput{Name: "Wallet", AccountType: domain.AccountTypeCash, InitialBalance: 0}, domain.ErrInvalidBalance},
		{"balance above max", CreateAccountInput{Name: "Wallet", AccountType: domain.AccountTypeCash, InitialBalance: domain.MaxAccountBalance + 1}, domain.ErrInvalidBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateAccount(context.Background(), ownerID, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("Expected error to match ErrInvalidInput, got %v", err)
			}
		})
	}

	if len(store.Accounts) != 0 {
		t.Errorf("Expected no accounts persisted, got %d", len(store.Accounts))
	}
}

func TestGetAccounts_FiltersInactive(t *testing.T) {
	svc, store, _, ownerID := newAccountTestService()
	store.AddAccount(ownerID, "Active", 100)
	inactive := store.AddAccount(ownerID, "Closed", 100)
	if err := svc.DeactivateAccount(context.Background(), ownerID, inactive.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	active, _ := svc.GetAccounts(context.Background(), ownerID, false)
	if len(active) != 1 || active[0].Name != "Active" {
		t.Errorf("Expected only the active account, got %d accounts", len(active))
	}

	all, _ := svc.GetAccounts(context.Background(), ownerID, true)
	if len(all) != 2 {
		t.Errorf("Expected 2 accounts including inactive, got %d", len(all))
	}
}

func TestGetAccountByID_OtherOwner(t *testing.T) {
	svc, store, _, ownerID := newAccountTestService()
	account := store.AddAccount(ownerID, "Mine", 100)

	_, err := svc.GetAccountByID(context.Background(), uuid.New(), account.ID)
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}
}

func TestUpdateAccount_PartialUpdate(t *testing.T) {
	svc, store, publisher, ownerID := newAccountTestService()
	account := store.AddAccount(ownerID, "Old Name", 500)

	newName := "New Name"
	savings := domain.AccountTypeSavings
	updated, err := svc.UpdateAccount(context.Background(), ownerID, account.ID, UpdateAccountInput{Name: &newName, AccountType: &savings})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.Name != "New Name" || updated.AccountType != domain.AccountTypeSavings {
		t.Errorf("Expected name and type to change, got %q %s", updated.Name, updated.AccountType)
	}
	if !updated.IsActive {
		t.Error("Expected active flag to be unchanged")
	}
	if updated.CurrentBalance != 500 {
		t.Errorf("Expected balance to be unchanged, got %d", updated.CurrentBalance)
	}
	if types := publisher.Types(); len(types) != 1 || types[0] != "account.updated" {
		t.Errorf("Expected one account.updated event, got %v", types)
	}
}

func TestUpdateAccount_InvalidName(t *testing.T) {
	svc, store, publisher, ownerID := newAccountTestService()
	account := store.AddAccount(ownerID, "Valid", 500)

	bad := "x"
	_, err := svc.UpdateAccount(context.Background(), ownerID, account.ID, UpdateAccountInput{Name: &bad})
	if !errors.Is(err, domain.ErrNameLength) {
		t.Errorf("Expected ErrNameLength, got %v", err)
	}
	if store.Accounts[account.ID].Name != "Valid" {
		t.Error("Expected name to be unchanged")
	}
	if len(publisher.Events) != 0 {
		t.Errorf("Expected no events, got %d", len(publisher.Events))
	}
}

func TestUpdateAccount_NotFound(t *testing.T) {
	svc, _, _, ownerID := newAccountTestService()

	active := false
	_, err := svc.UpdateAccount(context.Background(), ownerID, uuid.New(), UpdateAccountInput{IsActive: &active})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}
}

func TestDeleteAccount_UnlinksTransactions(t *testing.T) {
	svc, store, _, ownerID := newAccountTestService()
	account := store.AddAccount(ownerID, "Closing", 500)
	category := store.AddCategory(ownerID, "Misc")
	tx := store.AddTransaction(domain.Transaction{
		OwnerID:    ownerID,
		Amount:     20,
		Type:       domain.TransactionTypeExpense,
		CategoryID: category.ID,
		Date:       time.Now(),
		AccountID:  &account.ID,
	})

	if err := svc.DeleteAccount(context.Background(), ownerID, account.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, ok := store.Accounts[account.ID]; ok {
		t.Error("Expected account to be removed")
	}
	remaining, ok := store.Transactions[tx.ID]
	if !ok {
		t.Fatal("Expected transaction to survive account deletion")
	}
	if remaining.AccountID != nil {
		t.Error("Expected transaction to lose its account reference")
	}
}

func TestDeleteAccount_NotFound(t *testing.T) {
	svc, _, _, ownerID := newAccountTestService()

	if err := svc.DeleteAccount(context.Background(), ownerID, uuid.New()); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}
}
