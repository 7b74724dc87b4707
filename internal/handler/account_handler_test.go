package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
	"github.com/pftracker/ledger/ledger-backend/internal/service"
	"github.com/pftracker/ledger/ledger-backend/internal/testutil"
)

func newAccountTestHandler() (*AccountHandler, *testutil.Store, *domain.User) {
	store := testutil.NewStore()
	accountService := service.NewAccountService(testutil.NewMockAccountRepository(store))
	return NewAccountHandler(accountService), store, store.AddUser("auth0|accounts")
}

func TestCreateAccount_Success(t *testing.T) {
	handler, _, owner := newAccountTestHandler()

	reqBody := `{"name": "My Savings", "accountType": "Cuenta de Ahorro", "initialBalance": 5000}`
	c, rec := newRequestContext(http.MethodPost, "/api/v1/accounts", reqBody)
	setupOwnerContext(c, owner)

	if err := handler.CreateAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}

	var response AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Name != "My Savings" {
		t.Errorf("Expected name 'My Savings', got %s", response.Name)
	}
	if response.AccountType != domain.AccountTypeSavings {
		t.Errorf("Expected account type Savings, got %s", response.AccountType)
	}
	if response.AccountTypeLabel != "Cuenta de Ahorro" {
		t.Errorf("Expected label 'Cuenta de Ahorro', got %s", response.AccountTypeLabel)
	}
	if response.CurrentBalance != 5000 || response.InitialBalance != 5000 {
		t.Errorf("Expected balances of 5000, got current=%d initial=%d", response.CurrentBalance, response.InitialBalance)
	}
}

func TestCreateAccount_ValidationErrors(t *testing.T) {
	handler, _, owner := newAccountTestHandler()

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"short name", `{"name": "ab", "accountType": "Cash", "initialBalance": 10}`, "name"},
		{"unknown type", `{"name": "Wallet", "accountType": "Crypto", "initialBalance": 10}`, "accountType"},
		{"zero balance", `{"name": "Wallet", "accountType": "Cash", "initialBalance": 0}`, "initialBalance"},
		{"balance too large", `{"name": "Wallet", "accountType": "Cash", "initialBalance": 100000001}`, "initialBalance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newRequestContext(http.MethodPost, "/api/v1/accounts", tt.body)
			setupOwnerContext(c, owner)

			if err := handler.CreateAccount(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d", rec.Code)
			}
			problem := decodeProblem(t, rec)
			if len(problem.Errors) != 1 || problem.Errors[0].Field != tt.field {
				t.Errorf("Expected a single %s error, got %+v", tt.field, problem.Errors)
			}
		})
	}
}

func TestGetAccounts_IncludeInactive(t *testing.T) {
	handler, store, owner := newAccountTestHandler()
	store.AddAccount(owner.ID, "Active", 100)
	closed := store.AddAccount(owner.ID, "Closed", 100)
	a := store.Accounts[closed.ID]
	a.IsActive = false
	store.Accounts[closed.ID] = a

	for query, want := range map[string]int{"": 1, "?includeInactive=true": 2} {
		c, rec := newRequestContext(http.MethodGet, "/api/v1/accounts"+query, "")
		setupOwnerContext(c, owner)

		if err := handler.GetAccounts(c); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		var response []AccountResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if len(response) != want {
			t.Errorf("query %q: expected %d accounts, got %d", query, want, len(response))
		}
	}

	c, rec := newRequestContext(http.MethodGet, "/api/v1/accounts?includeInactive=maybe", "")
	setupOwnerContext(c, owner)
	if err := handler.GetAccounts(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestUpdateAccount_Rename(t *testing.T) {
	handler, store, owner := newAccountTestHandler()
	account := store.AddAccount(owner.ID, "Old Name", 700)

	c, rec := newRequestContext(http.MethodPut, "/", `{"name": "New Name"}`, "id", account.ID.String())
	setupOwnerContext(c, owner)

	if err := handler.UpdateAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if got := store.Accounts[account.ID]; got.Name != "New Name" || got.CurrentBalance != 700 {
		t.Errorf("Expected rename with balance untouched, got %+v", got)
	}
}

func TestDeactivateAccount(t *testing.T) {
	handler, store, owner := newAccountTestHandler()
	account := store.AddAccount(owner.ID, "Retired", 700)

	c, rec := newRequestContext(http.MethodPost, "/", "", "id", account.ID.String())
	setupOwnerContext(c, owner)

	if err := handler.DeactivateAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
	if store.Accounts[account.ID].IsActive {
		t.Error("Expected account to be inactive")
	}
}

func TestDeleteAccount(t *testing.T) {
	handler, store, owner := newAccountTestHandler()
	account := store.AddAccount(owner.ID, "Gone", 700)

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"existing", account.ID.String(), http.StatusNoContent},
		{"already deleted", account.ID.String(), http.StatusNotFound},
		{"unknown", uuid.NewString(), http.StatusNotFound},
		{"malformed", "not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		c, rec := newRequestContext(http.MethodDelete, "/", "", "id", tt.id)
		setupOwnerContext(c, owner)

		if err := handler.DeleteAccount(c); err != nil {
			t.Fatalf("%s: expected no error, got %v", tt.name, err)
		}
		if rec.Code != tt.status {
			t.Errorf("%s: expected status %d, got %d", tt.name, tt.status, rec.Code)
		}
	}
}
