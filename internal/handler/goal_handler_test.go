package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/pftracker/ledger/ledger-backend/internal/domain"
	"github.com/pftracker/ledger/ledger-backend/internal/service"
	"github.com/pftracker/ledger/ledger-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoalTestHandler() (*GoalHandler, *testutil.Store, *domain.User, *domain.Category) {
	store := testutil.NewStore()
	owner := store.AddUser("auth0|goals")
	category := store.AddCategory(owner.ID, "Travel")
	goalService := service.NewGoalService(testutil.NewMockGoalRepository(store), testutil.NewMockCategoryRepository(store))
	return NewGoalHandler(goalService), store, owner, category
}

func goalBody(categoryID string, amount int64, period string, start, end time.Time) string {
	return fmt.Sprintf(`{"categoryId": %q, "goalAmount": %d, "period": %q, "startDate": %q, "endDate": %q}`,
		categoryID, amount, period, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

func TestGoalHandler_CreateAndGet(t *testing.T) {
	handler, _, owner, category := newGoalTestHandler()
	today := time.Now().UTC()

	c, rec := newRequestContext(http.MethodPost, "/api/v1/goals",
		goalBody(category.ID.String(), 50000, "mensual", today, today.AddDate(0, 2, 0)))
	setupOwnerContext(c, owner)
	require.NoError(t, handler.CreateGoal(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.FinancialGoal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, domain.GoalPeriodMonthly, created.Period)
	assert.Equal(t, "Travel", created.CategoryName)

	c, rec = newRequestContext(http.MethodGet, "/", "", "id", created.ID.String())
	setupOwnerContext(c, owner)
	require.NoError(t, handler.GetGoal(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGoalHandler_CreateRejectsRules(t *testing.T) {
	handler, _, owner, category := newGoalTestHandler()
	today := time.Now().UTC()

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"malformed category", goalBody("nope", 100, "mensual", today, today.AddDate(0, 2, 0)), "categoryId"},
		{"zero amount", goalBody(category.ID.String(), 0, "mensual", today, today.AddDate(0, 2, 0)), "goalAmount"},
		{"unknown period", goalBody(category.ID.String(), 100, "quincenal", today, today.AddDate(0, 2, 0)), "period"},
		{"monthly too short", goalBody(category.ID.String(), 100, "mensual", today, today.AddDate(0, 0, 10)), "endDate"},
		{"start too old", goalBody(category.ID.String(), 100, "diario", today.AddDate(0, 0, -45), today.AddDate(0, 0, 5)), "endDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newRequestContext(http.MethodPost, "/api/v1/goals", tt.body)
			setupOwnerContext(c, owner)
			require.NoError(t, handler.CreateGoal(c))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			problem := decodeProblem(t, rec)
			require.Len(t, problem.Errors, 1)
			assert.Equal(t, tt.field, problem.Errors[0].Field)
		})
	}
}

func TestGoalHandler_ListAndDelete(t *testing.T) {
	handler, store, owner, category := newGoalTestHandler()
	today := time.Now().UTC()

	for _, amount := range []int64{100, 200} {
		c, rec := newRequestContext(http.MethodPost, "/api/v1/goals",
			goalBody(category.ID.String(), amount, "semanal", today, today.AddDate(0, 0, 14)))
		setupOwnerContext(c, owner)
		require.NoError(t, handler.CreateGoal(c))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	c, rec := newRequestContext(http.MethodGet, "/api/v1/goals?goalAmount=200&period=semanal", "")
	setupOwnerContext(c, owner)
	require.NoError(t, handler.GetGoals(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var page domain.PaginatedGoals
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(200), page.Data[0].GoalAmount)

	c, rec = newRequestContext(http.MethodDelete, "/", "", "id", page.Data[0].ID.String())
	setupOwnerContext(c, owner)
	require.NoError(t, handler.DeleteGoal(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, store.Goals, 1)

	c, rec = newRequestContext(http.MethodGet, "/api/v1/goals?goalAmount=lots", "")
	setupOwnerContext(c, owner)
	require.NoError(t, handler.GetGoals(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
