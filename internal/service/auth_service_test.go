package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
	"github.com/pftracker/ledger/ledger-backend/internal/testutil"
	"github.com/pftracker/ledger/ledger-backend/internal/websocket"
)

func TestAuthenticateUser_NewUser(t *testing.T) {
	store := testutil.NewStore()
	service := NewAuthService(testutil.NewMockUserRepository(store))

	auth0ID := "auth0|12345"
	email := "test@example.com"
	name := "Test User"

	result, err := service.AuthenticateUser(context.Background(), auth0ID, email, &name)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.IsNewUser {
		t.Error("Expected IsNewUser to be true for new user")
	}
	if result.User.Auth0ID != auth0ID {
		t.Errorf("Expected auth0ID %s, got %s", auth0ID, result.User.Auth0ID)
	}
	if result.User.Email != email {
		t.Errorf("Expected email %s, got %s", email, result.User.Email)
	}
	if result.User.Name == nil || *result.User.Name != name {
		t.Errorf("Expected name %s, got %v", name, result.User.Name)
	}
}

func TestAuthenticateUser_ExistingUser(t *testing.T) {
	store := testutil.NewStore()
	service := NewAuthService(testutil.NewMockUserRepository(store))
	existing := store.AddUser("auth0|existing")

	result, err := service.AuthenticateUser(context.Background(), "auth0|existing", "other@example.com", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.IsNewUser {
		t.Error("Expected IsNewUser to be false for existing user")
	}
	if result.User.ID != existing.ID {
		t.Errorf("Expected user ID %s, got %s", existing.ID, result.User.ID)
	}
	if len(store.Users) != 1 {
		t.Errorf("Expected 1 user, got %d", len(store.Users))
	}
}

func TestAuthenticateUser_CreateFails(t *testing.T) {
	store := testutil.NewStore()
	userRepo := testutil.NewMockUserRepository(store)
	userRepo.CreateFn = func(auth0ID, email string, name *string) (*domain.User, error) {
		return nil, errors.New("database unavailable")
	}
	service := NewAuthService(userRepo)

	if _, err := service.AuthenticateUser(context.Background(), "auth0|new", "new@example.com", nil); err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestGetOwnerIDByAuth0ID(t *testing.T) {
	store := testutil.NewStore()
	service := NewAuthService(testutil.NewMockUserRepository(store))
	user := store.AddUser("auth0|owner")

	ownerID, err := service.GetOwnerIDByAuth0ID(context.Background(), "auth0|owner")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ownerID != user.ID {
		t.Errorf("Expected owner %s, got %s", user.ID, ownerID)
	}

	ownerID, err = service.GetOwnerIDByAuth0ID(context.Background(), "auth0|stranger")
	if !errors.Is(err, websocket.ErrUnknownUser) {
		t.Errorf("Expected ErrUnknownUser, got %v", err)
	}
	if ownerID != uuid.Nil {
		t.Errorf("Expected nil owner, got %s", ownerID)
	}
}
