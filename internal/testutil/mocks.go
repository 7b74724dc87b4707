package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pftracker/ledger/ledger-backend/internal/domain"
	"github.com/pftracker/ledger/ledger-backend/internal/websocket"
)

// ErrNoUnitOfWork is returned by mock Tx methods called without an open unit of work
var ErrNoUnitOfWork = errors.New("no open unit of work")

// Store is the shared in-memory state behind the mock repositories.
// MockTxManager snapshots it on Begin and restores the snapshot on Rollback.
type Store struct {
	mu           sync.Mutex
	Users        map[uuid.UUID]domain.User
	Accounts     map[uuid.UUID]domain.Account
	Categories   map[uuid.UUID]domain.Category
	Transactions map[uuid.UUID]domain.Transaction
	Goals        map[uuid.UUID]domain.FinancialGoal
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		Users:        make(map[uuid.UUID]domain.User),
		Accounts:     make(map[uuid.UUID]domain.Account),
		Categories:   make(map[uuid.UUID]domain.Category),
		Transactions: make(map[uuid.UUID]domain.Transaction),
		Goals:        make(map[uuid.UUID]domain.FinancialGoal),
	}
}

type snapshot struct {
	accounts     map[uuid.UUID]domain.Account
	transactions map[uuid.UUID]domain.Transaction
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		accounts:     make(map[uuid.UUID]domain.Account, len(s.Accounts)),
		transactions: make(map[uuid.UUID]domain.Transaction, len(s.Transactions)),
	}
	for k, v := range s.Accounts {
		snap.accounts[k] = v
	}
	for k, v := range s.Transactions {
		snap.transactions[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Accounts = snap.accounts
	s.Transactions = snap.transactions
}

// AddUser seeds a user
func (s *Store) AddUser(auth0ID string) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := domain.User{ID: uuid.New(), Auth0ID: auth0ID, Email: auth0ID + "@example.com", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.Users[u.ID] = u
	return &u
}

// AddAccount seeds an active account whose current balance equals the initial balance
func (s *Store) AddAccount(ownerID uuid.UUID, name string, initialBalance int64) *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := domain.Account{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Name:           name,
		AccountType:    domain.AccountTypeChecking,
		CurrentBalance: initialBalance,
		InitialBalance: initialBalance,
		IsActive:       true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	s.Accounts[a.ID] = a
	return &a
}

// AddCategory seeds a category
func (s *Store) AddCategory(ownerID uuid.UUID, name string) *domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := domain.Category{ID: uuid.New(), OwnerID: ownerID, Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.Categories[c.ID] = c
	return &c
}

// AddTransaction seeds a transaction without touching any balance
func (s *Store) AddTransaction(t domain.Transaction) *domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	s.Transactions[t.ID] = t
	return &t
}

// Balance returns the current balance of an account, or 0 if it does not exist
func (s *Store) Balance(accountID uuid.UUID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Accounts[accountID].CurrentBalance
}

// ExpectedBalance recomputes an account balance from its initial balance and linked transactions
func (s *Store) ExpectedBalance(accountID uuid.UUID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance := s.Accounts[accountID].InitialBalance
	for _, t := range s.Transactions {
		if t.AccountID != nil && *t.AccountID == accountID {
			balance += t.SignedAmount()
		}
	}
	return balance
}

// MockUnitOfWork is a unit of work over a Store
type MockUnitOfWork struct {
	manager *MockTxManager
	snap    snapshot
	done    bool
}

// Commit keeps the changes. A configured CommitErr discards them like a failed commit would.
func (u *MockUnitOfWork) Commit(ctx context.Context) error {
	if u.done {
		return errors.New("unit of work already finished")
	}
	u.done = true
	if u.manager.CommitErr != nil {
		u.manager.store.restore(u.snap)
		u.manager.RolledBack++
		return u.manager.CommitErr
	}
	u.manager.Committed++
	return nil
}

// Rollback restores the snapshot taken on Begin. It is a no-op after Commit.
func (u *MockUnitOfWork) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	u.manager.store.restore(u.snap)
	u.manager.RolledBack++
	return nil
}

// MockTxManager is a mock implementation of domain.TxManager
type MockTxManager struct {
	store      *Store
	BeginErr   error
	CommitErr  error
	Began      int
	Committed  int
	RolledBack int
}

// NewMockTxManager creates a new MockTxManager
func NewMockTxManager(store *Store) *MockTxManager {
	return &MockTxManager{store: store}
}

// Begin snapshots the store
func (m *MockTxManager) Begin(ctx context.Context) (domain.UnitOfWork, error) {
	if m.BeginErr != nil {
		return nil, m.BeginErr
	}
	m.Began++
	return &MockUnitOfWork{manager: m, snap: m.store.snapshot()}, nil
}

func checkUnitOfWork(uow domain.UnitOfWork) error {
	u, ok := uow.(*MockUnitOfWork)
	if !ok || u == nil || u.done {
		return ErrNoUnitOfWork
	}
	return nil
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	store    *Store
	CreateFn func(auth0ID, email string, name *string) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository(store *Store) *MockUserRepository {
	return &MockUserRepository{store: store}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if u, ok := m.store.Users[id]; ok {
		return &u, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(ctx context.Context, auth0ID string) (*domain.User, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, u := range m.store.Users {
		if u.Auth0ID == auth0ID {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(ctx context.Context, auth0ID, email string, name *string) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(auth0ID, email, name)
	}
	if u, err := m.GetByAuth0ID(ctx, auth0ID); err == nil {
		return u, nil
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	u := domain.User{ID: uuid.New(), Auth0ID: auth0ID, Email: email, Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.store.Users[u.ID] = u
	return &u, nil
}

// MockAccountRepository is a mock implementation of domain.AccountRepository
type MockAccountRepository struct {
	store *Store
	// UpdateBalanceErr makes UpdateBalanceTx fail
	UpdateBalanceErr error
	// BalanceWrites counts successful UpdateBalanceTx calls
	BalanceWrites int
}

// NewMockAccountRepository creates a new MockAccountRepository
func NewMockAccountRepository(store *Store) *MockAccountRepository {
	return &MockAccountRepository{store: store}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	a := *account
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	m.store.Accounts[a.ID] = a
	return &a, nil
}

func (m *MockAccountRepository) get(ownerID, id uuid.UUID) (*domain.Account, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	a, ok := m.store.Accounts[id]
	if !ok || a.OwnerID != ownerID {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Account, error) {
	return m.get(ownerID, id)
}

func (m *MockAccountRepository) GetAllByOwner(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]*domain.Account, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	result := make([]*domain.Account, 0)
	for _, a := range m.store.Accounts {
		if a.OwnerID == ownerID && (includeInactive || a.IsActive) {
			a := a
			result = append(result, &a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	a, ok := m.store.Accounts[account.ID]
	if !ok || a.OwnerID != account.OwnerID {
		return nil, domain.ErrAccountNotFound
	}
	a.Name = account.Name
	a.AccountType = account.AccountType
	a.IsActive = account.IsActive
	a.UpdatedAt = time.Now()
	m.store.Accounts[a.ID] = a
	return &a, nil
}

func (m *MockAccountRepository) Deactivate(ctx context.Context, ownerID, id uuid.UUID) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	a, ok := m.store.Accounts[id]
	if !ok || a.OwnerID != ownerID {
		return domain.ErrAccountNotFound
	}
	a.IsActive = false
	m.store.Accounts[id] = a
	return nil
}

// HardDelete removes the account and unlinks its transactions, like ON DELETE SET NULL
func (m *MockAccountRepository) HardDelete(ctx context.Context, ownerID, id uuid.UUID) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	a, ok := m.store.Accounts[id]
	if !ok || a.OwnerID != ownerID {
		return domain.ErrAccountNotFound
	}
	delete(m.store.Accounts, id)
	for tid, t := range m.store.Transactions {
		if t.AccountID != nil && *t.AccountID == id {
			t.AccountID = nil
			m.store.Transactions[tid] = t
		}
	}
	return nil
}

func (m *MockAccountRepository) GetByIDForUpdateTx(ctx context.Context, uow domain.UnitOfWork, ownerID, id uuid.UUID) (*domain.Account, error) {
	if err := checkUnitOfWork(uow); err != nil {
		return nil, err
	}
	return m.get(ownerID, id)
}

func (m *MockAccountRepository) UpdateBalanceTx(ctx context.Context, uow domain.UnitOfWork, ownerID, id uuid.UUID, newBalance int64) (*domain.Account, error) {
	if err := checkUnitOfWork(uow); err != nil {
		return nil, err
	}
	if m.UpdateBalanceErr != nil {
		return nil, m.UpdateBalanceErr
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	a, ok := m.store.Accounts[id]
	if !ok || a.OwnerID != ownerID {
		return nil, domain.ErrAccountNotFound
	}
	a.CurrentBalance = newBalance
	a.UpdatedAt = time.Now()
	m.store.Accounts[id] = a
	m.BalanceWrites++
	return &a, nil
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	store *Store
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository(store *Store) *MockCategoryRepository {
	return &MockCategoryRepository{store: store}
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	c := *category
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.store.Categories[c.ID] = c
	return &c, nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Category, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	c, ok := m.store.Categories[id]
	if !ok || c.OwnerID != ownerID {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

func (m *MockCategoryRepository) GetAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Category, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	result := make([]*domain.Category, 0)
	for _, c := range m.store.Categories {
		if c.OwnerID == ownerID {
			c := c
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, ownerID, id uuid.UUID, name string) (*domain.Category, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	c, ok := m.store.Categories[id]
	if !ok || c.OwnerID != ownerID {
		return nil, domain.ErrCategoryNotFound
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	m.store.Categories[id] = c
	return &c, nil
}

func (m *MockCategoryRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	c, ok := m.store.Categories[id]
	if !ok || c.OwnerID != ownerID {
		return domain.ErrCategoryNotFound
	}
	delete(m.store.Categories, id)
	return nil
}

func (m *MockCategoryRepository) HasReferences(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, t := range m.store.Transactions {
		if t.OwnerID == ownerID && t.CategoryID == id {
			return true, nil
		}
	}
	for _, g := range m.store.Goals {
		if g.OwnerID == ownerID && g.CategoryID == id {
			return true, nil
		}
	}
	return false, nil
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	store *Store
	// Failure injection for the Tx methods
	CreateTxErr error
	UpdateTxErr error
	DeleteTxErr error
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository(store *Store) *MockTransactionRepository {
	return &MockTransactionRepository{store: store}
}

func (m *MockTransactionRepository) CreateTx(ctx context.Context, uow domain.UnitOfWork, transaction *domain.Transaction) (*domain.Transaction, error) {
	if err := checkUnitOfWork(uow); err != nil {
		return nil, err
	}
	if m.CreateTxErr != nil {
		return nil, m.CreateTxErr
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	t := *transaction
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	m.store.Transactions[t.ID] = t
	return &t, nil
}

func (m *MockTransactionRepository) GetByIDForUpdateTx(ctx context.Context, uow domain.UnitOfWork, ownerID, id uuid.UUID) (*domain.Transaction, error) {
	if err := checkUnitOfWork(uow); err != nil {
		return nil, err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	t, ok := m.store.Transactions[id]
	if !ok || t.OwnerID != ownerID {
		return nil, domain.ErrTransactionNotFound
	}
	return &t, nil
}

func (m *MockTransactionRepository) UpdateTx(ctx context.Context, uow domain.UnitOfWork, transaction *domain.Transaction) (*domain.Transaction, error) {
	if err := checkUnitOfWork(uow); err != nil {
		return nil, err
	}
	if m.UpdateTxErr != nil {
		return nil, m.UpdateTxErr
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	existing, ok := m.store.Transactions[transaction.ID]
	if !ok || existing.OwnerID != transaction.OwnerID {
		return nil, domain.ErrTransactionNotFound
	}
	t := *transaction
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = time.Now()
	m.store.Transactions[t.ID] = t
	return &t, nil
}

func (m *MockTransactionRepository) DeleteTx(ctx context.Context, uow domain.UnitOfWork, ownerID, id uuid.UUID) error {
	if err := checkUnitOfWork(uow); err != nil {
		return err
	}
	if m.DeleteTxErr != nil {
		return m.DeleteTxErr
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	t, ok := m.store.Transactions[id]
	if !ok || t.OwnerID != ownerID {
		return domain.ErrTransactionNotFound
	}
	delete(m.store.Transactions, id)
	return nil
}

// view resolves names; callers must hold the store lock
func (m *MockTransactionRepository) view(t domain.Transaction) *domain.TransactionView {
	v := &domain.TransactionView{Transaction: t, CategoryName: m.store.Categories[t.CategoryID].Name}
	if t.AccountID != nil {
		if a, ok := m.store.Accounts[*t.AccountID]; ok {
			name := a.Name
			v.AccountName = &name
		}
	}
	return v
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.TransactionView, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	t, ok := m.store.Transactions[id]
	if !ok || t.OwnerID != ownerID {
		return nil, domain.ErrTransactionNotFound
	}
	return m.view(t), nil
}

// sorted returns the owner's transactions matching keep, oldest first; callers must hold the store lock
func (m *MockTransactionRepository) sorted(ownerID uuid.UUID, keep func(domain.Transaction) bool) []*domain.TransactionView {
	result := make([]*domain.TransactionView, 0)
	for _, t := range m.store.Transactions {
		if t.OwnerID == ownerID && keep(t) {
			result = append(result, m.view(t))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

func (m *MockTransactionRepository) List(ctx context.Context, ownerID uuid.UUID, filters domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	all := m.sorted(ownerID, func(t domain.Transaction) bool {
		if filters.StartDate != nil && t.Date.Before(*filters.StartDate) {
			return false
		}
		if filters.EndDate != nil && !t.Date.Before(*filters.EndDate) {
			return false
		}
		if filters.Type != nil && t.Type != *filters.Type {
			return false
		}
		if filters.CategoryName != nil {
			name := m.store.Categories[t.CategoryID].Name
			if !strings.Contains(strings.ToLower(name), strings.ToLower(*filters.CategoryName)) {
				return false
			}
		}
		return true
	})

	page, pageSize := filters.Page, filters.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	if pageSize > domain.MaxPageSize {
		pageSize = domain.MaxPageSize
	}
	start := int((page - 1) * pageSize)
	end := min(start+int(pageSize), len(all))
	data := make([]*domain.TransactionView, 0)
	if start < len(all) {
		data = all[start:end]
	}

	total := int64(len(all))
	return &domain.PaginatedTransactions{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: int32((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

func (m *MockTransactionRepository) GetByDateRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]*domain.TransactionView, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return m.sorted(ownerID, func(t domain.Transaction) bool {
		return !t.Date.Before(start) && t.Date.Before(end)
	}), nil
}

// MockGoalRepository is a mock implementation of domain.GoalRepository
type MockGoalRepository struct {
	store *Store
}

// NewMockGoalRepository creates a new MockGoalRepository
func NewMockGoalRepository(store *Store) *MockGoalRepository {
	return &MockGoalRepository{store: store}
}

func (m *MockGoalRepository) withName(g domain.FinancialGoal) *domain.FinancialGoal {
	g.CategoryName = m.store.Categories[g.CategoryID].Name
	return &g
}

func (m *MockGoalRepository) Create(ctx context.Context, goal *domain.FinancialGoal) (*domain.FinancialGoal, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	g := *goal
	g.CreatedAt = time.Now()
	g.UpdatedAt = g.CreatedAt
	m.store.Goals[g.ID] = g
	return m.withName(g), nil
}

func (m *MockGoalRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.FinancialGoal, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	g, ok := m.store.Goals[id]
	if !ok || g.OwnerID != ownerID {
		return nil, domain.ErrGoalNotFound
	}
	return m.withName(g), nil
}

func (m *MockGoalRepository) List(ctx context.Context, ownerID uuid.UUID, filters domain.GoalFilters) (*domain.PaginatedGoals, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	all := make([]*domain.FinancialGoal, 0)
	for _, g := range m.store.Goals {
		if g.OwnerID != ownerID {
			continue
		}
		if filters.Period != nil && g.Period != *filters.Period {
			continue
		}
		if filters.GoalAmount != nil && g.GoalAmount != *filters.GoalAmount {
			continue
		}
		if filters.StartDate != nil && g.StartDate.Before(*filters.StartDate) {
			continue
		}
		if filters.EndDate != nil && g.EndDate.After(*filters.EndDate) {
			continue
		}
		named := m.withName(g)
		if filters.CategoryName != nil && !strings.Contains(strings.ToLower(named.CategoryName), strings.ToLower(*filters.CategoryName)) {
			continue
		}
		all = append(all, named)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartDate.Before(all[j].StartDate) })

	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	page := max(filters.Page, 1)
	start := int((page - 1) * pageSize)
	data := make([]*domain.FinancialGoal, 0)
	if start < len(all) {
		data = all[start:min(start+int(pageSize), len(all))]
	}
	total := int64(len(all))
	return &domain.PaginatedGoals{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: int32((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

func (m *MockGoalRepository) Update(ctx context.Context, goal *domain.FinancialGoal) (*domain.FinancialGoal, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	existing, ok := m.store.Goals[goal.ID]
	if !ok || existing.OwnerID != goal.OwnerID {
		return nil, domain.ErrGoalNotFound
	}
	g := *goal
	g.CreatedAt = existing.CreatedAt
	g.UpdatedAt = time.Now()
	m.store.Goals[g.ID] = g
	return m.withName(g), nil
}

func (m *MockGoalRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	g, ok := m.store.Goals[id]
	if !ok || g.OwnerID != ownerID {
		return domain.ErrGoalNotFound
	}
	delete(m.store.Goals, id)
	return nil
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// PublishedEvent is one recorded Publish call
type PublishedEvent struct {
	OwnerID uuid.UUID
	Type    string
	Payload interface{}
}

// Publish implements websocket.EventPublisher
func (m *MockEventPublisher) Publish(ownerID uuid.UUID, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{OwnerID: ownerID, Type: event.Type, Payload: event.Payload})
}

// Types returns the recorded event types in publish order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Type
	}
	return types
}
