package service

import (
	"context"
	"sync"
	"time"

	"finman/internal/models"
	"finman/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// In-memory stores backing the service tests. Failure hooks let individual
// tests inject persistence errors for specific records.

type memExpenseStore struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*models.Expense
	saveErr   error
	updateErr map[uuid.UUID]error
	saveCount int
}

func newMemExpenseStore() *memExpenseStore {
	return &memExpenseStore{
		items:     make(map[uuid.UUID]*models.Expense),
		updateErr: make(map[uuid.UUID]error),
	}
}

func (s *memExpenseStore) Save(_ context.Context, e *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	// Mirrors ON CONFLICT (id) DO NOTHING.
	if _, ok := s.items[e.ID]; ok {
		return nil
	}
	copied := *e
	s.items[e.ID] = &copied
	s.saveCount++
	return nil
}

func (s *memExpenseStore) Update(_ context.Context, e *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.updateErr[e.ID]; err != nil {
		return err
	}
	if _, ok := s.items[e.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *e
	s.items[e.ID] = &copied
	return nil
}

func (s *memExpenseStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *memExpenseStore) FindByID(_ context.Context, id uuid.UUID) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (s *memExpenseStore) FindByUser(_ context.Context, userID uuid.UUID) ([]*models.Expense, error) {
	return s.filter(func(e *models.Expense) bool { return e.UserID == userID })
}

func (s *memExpenseStore) FindRecurring(_ context.Context) ([]*models.Expense, error) {
	return s.filter(func(e *models.Expense) bool { return e.Recurring })
}

func (s *memExpenseStore) FindByYear(_ context.Context, year int, userID uuid.UUID) ([]*models.Expense, error) {
	return s.filter(func(e *models.Expense) bool {
		return e.UserID == userID && e.Date.Year() == year
	})
}

func (s *memExpenseStore) FindByYearAndMonth(_ context.Context, year, month int, userID uuid.UUID) ([]*models.Expense, error) {
	return s.filter(func(e *models.Expense) bool {
		return e.UserID == userID && e.Date.Year() == year && int(e.Date.Month()) == month
	})
}

func (s *memExpenseStore) FindAll(_ context.Context) ([]*models.Expense, error) {
	return s.filter(func(*models.Expense) bool { return true })
}

func (s *memExpenseStore) MinYear(_ context.Context, userID uuid.UUID) (int, error) {
	return s.yearBound(userID, true)
}

func (s *memExpenseStore) MaxYear(_ context.Context, userID uuid.UUID) (int, error) {
	return s.yearBound(userID, false)
}

func (s *memExpenseStore) yearBound(userID uuid.UUID, min bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bound := 0
	found := false
	for _, e := range s.items {
		if e.UserID != userID {
			continue
		}
		year := e.Date.Year()
		if !found || (min && year < bound) || (!min && year > bound) {
			bound = year
			found = true
		}
	}
	if !found {
		return 0, repository.ErrNotFound
	}
	return bound, nil
}

func (s *memExpenseStore) filter(keep func(*models.Expense) bool) ([]*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Expense
	for _, e := range s.items {
		if keep(e) {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memExpenseStore) get(id uuid.UUID) *models.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id]
}

type memIncomeStore struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*models.Income
	saveErr   error
	updateErr map[uuid.UUID]error
}

func newMemIncomeStore() *memIncomeStore {
	return &memIncomeStore{
		items:     make(map[uuid.UUID]*models.Income),
		updateErr: make(map[uuid.UUID]error),
	}
}

func (s *memIncomeStore) Save(_ context.Context, i *models.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if _, ok := s.items[i.ID]; ok {
		return nil
	}
	copied := *i
	s.items[i.ID] = &copied
	return nil
}

func (s *memIncomeStore) Update(_ context.Context, i *models.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.updateErr[i.ID]; err != nil {
		return err
	}
	if _, ok := s.items[i.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *i
	s.items[i.ID] = &copied
	return nil
}

func (s *memIncomeStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *memIncomeStore) FindByID(_ context.Context, id uuid.UUID) (*models.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *i
	return &copied, nil
}

func (s *memIncomeStore) FindByUser(_ context.Context, userID uuid.UUID) ([]*models.Income, error) {
	return s.filter(func(i *models.Income) bool { return i.UserID == userID })
}

func (s *memIncomeStore) FindRecurring(_ context.Context) ([]*models.Income, error) {
	return s.filter(func(i *models.Income) bool { return i.Recurring })
}

func (s *memIncomeStore) FindByYear(_ context.Context, year int, userID uuid.UUID) ([]*models.Income, error) {
	return s.filter(func(i *models.Income) bool {
		return i.UserID == userID && i.Date.Year() == year
	})
}

func (s *memIncomeStore) FindByYearAndMonth(_ context.Context, year, month int, userID uuid.UUID) ([]*models.Income, error) {
	return s.filter(func(i *models.Income) bool {
		return i.UserID == userID && i.Date.Year() == year && int(i.Date.Month()) == month
	})
}

func (s *memIncomeStore) FindAll(_ context.Context) ([]*models.Income, error) {
	return s.filter(func(*models.Income) bool { return true })
}

func (s *memIncomeStore) MinYear(_ context.Context, userID uuid.UUID) (int, error) {
	return s.yearBound(userID, true)
}

func (s *memIncomeStore) MaxYear(_ context.Context, userID uuid.UUID) (int, error) {
	return s.yearBound(userID, false)
}

func (s *memIncomeStore) yearBound(userID uuid.UUID, min bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bound := 0
	found := false
	for _, i := range s.items {
		if i.UserID != userID {
			continue
		}
		year := i.Date.Year()
		if !found || (min && year < bound) || (!min && year > bound) {
			bound = year
			found = true
		}
	}
	if !found {
		return 0, repository.ErrNotFound
	}
	return bound, nil
}

func (s *memIncomeStore) filter(keep func(*models.Income) bool) ([]*models.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Income
	for _, i := range s.items {
		if keep(i) {
			copied := *i
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memIncomeStore) get(id uuid.UUID) *models.Income {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id]
}

type memUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newMemUserStore(users ...*models.User) *memUserStore {
	s := &memUserStore{users: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *memUserStore) UpdatePreferredCurrency(_ context.Context, id uuid.UUID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PreferredCurrency = code
	return nil
}

type memCurrencyStore struct {
	mu     sync.Mutex
	byCode map[string]*models.Currency
	nextID int64
}

func newMemCurrencyStore(codes ...string) *memCurrencyStore {
	s := &memCurrencyStore{byCode: make(map[string]*models.Currency)}
	for _, code := range codes {
		s.nextID++
		s.byCode[code] = &models.Currency{
			ID:   s.nextID,
			Code: code,
			Rate: decimal.NewFromInt(1),
		}
	}
	return s
}

func (s *memCurrencyStore) Upsert(_ context.Context, c *models.Currency) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.byCode[c.Code]; ok {
		c.ID = existing.ID
	} else {
		s.nextID++
		c.ID = s.nextID
	}
	copied := *c
	s.byCode[c.Code] = &copied
	return nil
}

func (s *memCurrencyStore) FindByCode(_ context.Context, code string) (*models.Currency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byCode[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *memCurrencyStore) FindAll(_ context.Context) ([]*models.Currency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Currency, 0, len(s.byCode))
	for _, c := range s.byCode {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

type memSubCategoryStore struct {
	mu     sync.Mutex
	items  map[int64]*models.SubCategory
	nextID int64
}

func newMemSubCategoryStore() *memSubCategoryStore {
	return &memSubCategoryStore{items: make(map[int64]*models.SubCategory)}
}

func (s *memSubCategoryStore) Create(_ context.Context, sub *models.SubCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	sub.ID = s.nextID
	copied := *sub
	s.items[sub.ID] = &copied
	return nil
}

func (s *memSubCategoryStore) FindByID(_ context.Context, id int64) (*models.SubCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *sub
	return &copied, nil
}

func (s *memSubCategoryStore) FindByUser(_ context.Context, userID uuid.UUID) ([]*models.SubCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.SubCategory
	for _, sub := range s.items {
		if sub.UserID == userID {
			copied := *sub
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memSubCategoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// fakeRateSource serves a fixed rate table per base code and counts fetches.
type fakeRateSource struct {
	mu     sync.Mutex
	tables map[string]map[string]decimal.Decimal
	err    error
	calls  int
}

func (f *fakeRateSource) FetchRates(_ context.Context, baseCode string) (map[string]decimal.Decimal, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, time.Time{}, f.err
	}
	table, ok := f.tables[baseCode]
	if !ok {
		return map[string]decimal.Decimal{}, time.Now(), nil
	}
	return table, time.Now(), nil
}

func (f *fakeRateSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}
