package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
	"github.com/pftracker/ledger/ledger-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CreateAndRename(t *testing.T) {
	store := testutil.NewStore()
	svc := NewCategoryService(testutil.NewMockCategoryRepository(store))
	owner := store.AddUser("auth0|cat")
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, owner.ID, " Supermercado ")
	require.NoError(t, err)
	assert.Equal(t, "Supermercado", created.Name)

	renamed, err := svc.UpdateCategory(ctx, owner.ID, created.ID, "Comida")
	require.NoError(t, err)
	assert.Equal(t, "Comida", renamed.Name)

	list, err := svc.GetCategories(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Comida", list[0].Name)
}

func TestCategoryService_NameValidation(t *testing.T) {
	store := testutil.NewStore()
	svc := NewCategoryService(testutil.NewMockCategoryRepository(store))
	owner := store.AddUser("auth0|cat")

	_, err := svc.CreateCategory(context.Background(), owner.ID, "")
	assert.ErrorIs(t, err, domain.ErrNameRequired)

	_, err = svc.CreateCategory(context.Background(), owner.ID, "TV")
	assert.ErrorIs(t, err, domain.ErrNameLength)

	// three multibyte characters are three characters
	_, err = svc.CreateCategory(context.Background(), owner.ID, "Ñoñ")
	assert.NoError(t, err)
}

func TestCategoryService_OwnerScoping(t *testing.T) {
	store := testutil.NewStore()
	svc := NewCategoryService(testutil.NewMockCategoryRepository(store))
	owner := store.AddUser("auth0|cat")
	other := store.AddUser("auth0|other")
	category := store.AddCategory(owner.ID, "Private")

	_, err := svc.GetCategoryByID(context.Background(), other.ID, category.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	_, err = svc.UpdateCategory(context.Background(), other.ID, category.ID, "Hijacked")
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	err = svc.DeleteCategory(context.Background(), other.ID, category.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestCategoryService_DeleteInUse(t *testing.T) {
	store := testutil.NewStore()
	publisher := &testutil.MockEventPublisher{}
	svc := NewCategoryService(testutil.NewMockCategoryRepository(store))
	svc.SetEventPublisher(publisher)
	owner := store.AddUser("auth0|cat")

	used := store.AddCategory(owner.ID, "Used")
	store.AddTransaction(domain.Transaction{OwnerID: owner.ID, Amount: 1, Type: domain.TransactionTypeExpense, CategoryID: used.ID, Date: time.Now()})

	goalCategory := store.AddCategory(owner.ID, "Goal")
	store.Goals[uuid.New()] = domain.FinancialGoal{ID: uuid.New(), OwnerID: owner.ID, CategoryID: goalCategory.ID}

	unused := store.AddCategory(owner.ID, "Unused")

	err := svc.DeleteCategory(context.Background(), owner.ID, used.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryInUse)
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = svc.DeleteCategory(context.Background(), owner.ID, goalCategory.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryInUse)

	require.NoError(t, svc.DeleteCategory(context.Background(), owner.ID, unused.ID))
	assert.Len(t, store.Categories, 2)
	assert.Equal(t, []string{"category.deleted"}, publisher.Types())
}
