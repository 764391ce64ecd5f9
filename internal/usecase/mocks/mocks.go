package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/domain"
	"github.com/dlshad/drawerledger/internal/usecase"
)

// MockBalanceRepository is an in-memory mock of BalanceRepository.
type MockBalanceRepository struct {
	mu       sync.RWMutex
	balances map[string]*domain.CurrencyBalance
	drawers  map[string]*domain.Drawer // for ListLowBalances thresholds

	GetBalanceFunc      func(ctx context.Context, drawerID, currency string) (decimal.Decimal, error)
	LockForUpdateFunc   func(ctx context.Context, tx usecase.Transaction, drawerID string, currencies []string) (map[string]*domain.CurrencyBalance, error)
	UpdateBalanceFunc   func(ctx context.Context, tx usecase.Transaction, drawerID, currency string, balance decimal.Decimal, updatedBy string, updatedAt time.Time) error
	ListByDrawerFunc    func(ctx context.Context, drawerID string) ([]*domain.CurrencyBalance, error)
	ListLowBalancesFunc func(ctx context.Context) ([]*domain.LowBalanceAlert, error)
}

func NewMockBalanceRepository() *MockBalanceRepository {
	return &MockBalanceRepository{
		balances: make(map[string]*domain.CurrencyBalance),
		drawers:  make(map[string]*domain.Drawer),
	}
}

func balanceKey(drawerID, currency string) string {
	return drawerID + "/" + currency
}

// Seed installs a balance row directly, bypassing locks.
func (m *MockBalanceRepository) Seed(drawerID, currency string, balance decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[balanceKey(drawerID, currency)] = &domain.CurrencyBalance{
		DrawerID: drawerID,
		Currency: currency,
		Balance:  balance,
	}
}

// SeedDrawer registers a drawer threshold used by the default
// ListLowBalances behavior.
func (m *MockBalanceRepository) SeedDrawer(drawer *domain.Drawer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drawers[drawer.ID] = drawer
}

func (m *MockBalanceRepository) GetBalance(ctx context.Context, drawerID, currency string) (decimal.Decimal, error) {
	if m.GetBalanceFunc != nil {
		return m.GetBalanceFunc(ctx, drawerID, currency)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.balances[balanceKey(drawerID, currency)]; ok {
		return b.Balance, nil
	}
	return decimal.Zero, nil
}

func (m *MockBalanceRepository) LockForUpdate(ctx context.Context, tx usecase.Transaction, drawerID string, currencies []string) (map[string]*domain.CurrencyBalance, error) {
	if m.LockForUpdateFunc != nil {
		return m.LockForUpdateFunc(ctx, tx, drawerID, currencies)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	sorted := append([]string(nil), currencies...)
	sort.Strings(sorted)

	result := make(map[string]*domain.CurrencyBalance, len(sorted))
	for _, currency := range sorted {
		key := balanceKey(drawerID, currency)
		b, ok := m.balances[key]
		if !ok {
			b = &domain.CurrencyBalance{
				DrawerID: drawerID,
				Currency: currency,
				Balance:  decimal.Zero,
			}
			m.balances[key] = b
		}
		copied := *b
		result[currency] = &copied
	}
	return result, nil
}

func (m *MockBalanceRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, drawerID, currency string, balance decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, drawerID, currency, balance, updatedBy, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := balanceKey(drawerID, currency)
	if b, ok := m.balances[key]; ok {
		b.Balance = balance
		b.LastUpdatedBy = updatedBy
		b.UpdatedAt = updatedAt
		return nil
	}
	m.balances[key] = &domain.CurrencyBalance{
		DrawerID:      drawerID,
		Currency:      currency,
		Balance:       balance,
		LastUpdatedBy: updatedBy,
		UpdatedAt:     updatedAt,
	}
	return nil
}

func (m *MockBalanceRepository) ListByDrawer(ctx context.Context, drawerID string) ([]*domain.CurrencyBalance, error) {
	if m.ListByDrawerFunc != nil {
		return m.ListByDrawerFunc(ctx, drawerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.CurrencyBalance
	for _, b := range m.balances {
		if b.DrawerID == drawerID {
			copied := *b
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Currency < result[j].Currency })
	return result, nil
}

func (m *MockBalanceRepository) ListLowBalances(ctx context.Context) ([]*domain.LowBalanceAlert, error) {
	if m.ListLowBalancesFunc != nil {
		return m.ListLowBalancesFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var alerts []*domain.LowBalanceAlert
	for _, b := range m.balances {
		drawer, ok := m.drawers[b.DrawerID]
		if !ok || !drawer.LowBalanceAlertAt.IsPositive() {
			continue
		}
		if b.Balance.LessThan(drawer.LowBalanceAlertAt) {
			alerts = append(alerts, &domain.LowBalanceAlert{
				DrawerID:   b.DrawerID,
				DrawerName: drawer.Name,
				Currency:   b.Currency,
				Balance:    b.Balance,
				Threshold:  drawer.LowBalanceAlertAt,
			})
		}
	}
	return alerts, nil
}

// MockLedgerRepository is an in-memory mock of LedgerRepository.
type MockLedgerRepository struct {
	mu      sync.RWMutex
	entries []*domain.LedgerEntry

	AppendFunc              func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
	FindInconsistenciesFunc func(ctx context.Context) ([]*usecase.ConsistencyViolation, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

func (m *MockLedgerRepository) Append(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockLedgerRepository) ListByDrawer(ctx context.Context, drawerID string, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.DrawerID != drawerID {
			continue
		}
		if filter.Currency != "" && e.Currency != filter.Currency {
			continue
		}
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if filter.From != nil && e.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.CreatedAt.After(*filter.To) {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func (m *MockLedgerRepository) SumDeltas(ctx context.Context, drawerID, currency string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range m.entries {
		if e.DrawerID == drawerID && e.Currency == currency {
			sum = sum.Add(e.SignedDelta())
		}
	}
	return sum, nil
}

func (m *MockLedgerRepository) FindInconsistencies(ctx context.Context) ([]*usecase.ConsistencyViolation, error) {
	if m.FindInconsistenciesFunc != nil {
		return m.FindInconsistenciesFunc(ctx)
	}
	return nil, nil
}

// Entries returns a copy of everything appended so far.
func (m *MockLedgerRepository) Entries() []*domain.LedgerEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.LedgerEntry(nil), m.entries...)
}

// MockTransactionRepository is an in-memory mock of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction

	CreateFunc      func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	DailyProfitFunc func(ctx context.Context, drawerID string, day time.Time) (*domain.DailyProfit, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.transactions[id]; ok {
		return txn, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) ListByDrawer(ctx context.Context, drawerID string, limit, offset int) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Transaction
	for _, txn := range m.transactions {
		if txn.DrawerID == drawerID {
			result = append(result, txn)
		}
	}
	return result, nil
}

func (m *MockTransactionRepository) DailyProfit(ctx context.Context, drawerID string, day time.Time) (*domain.DailyProfit, error) {
	if m.DailyProfitFunc != nil {
		return m.DailyProfitFunc(ctx, drawerID, day)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	profit := decimal.Zero
	var count int64
	for _, txn := range m.transactions {
		if txn.DrawerID == drawerID && sameDay(txn.CreatedAt, day) {
			profit = profit.Add(txn.Profit)
			count++
		}
	}
	return &domain.DailyProfit{DrawerID: drawerID, Date: day, Profit: profit, Count: count}, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// MockDrawerRepository is an in-memory mock of DrawerRepository.
type MockDrawerRepository struct {
	mu      sync.RWMutex
	drawers map[string]*domain.Drawer

	GetByIDFunc func(ctx context.Context, id string) (*domain.Drawer, error)
}

func NewMockDrawerRepository() *MockDrawerRepository {
	return &MockDrawerRepository{
		drawers: make(map[string]*domain.Drawer),
	}
}

func (m *MockDrawerRepository) Create(ctx context.Context, drawer *domain.Drawer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drawers[drawer.ID] = drawer
	return nil
}

func (m *MockDrawerRepository) GetByID(ctx context.Context, id string) (*domain.Drawer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.drawers[id]; ok {
		return d, nil
	}
	return nil, domain.ErrDrawerNotFound
}

func (m *MockDrawerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Drawer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Drawer
	for _, d := range m.drawers {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockDrawerRepository) UpdateThreshold(ctx context.Context, id string, threshold decimal.Decimal, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.drawers[id]; ok {
		d.LowBalanceAlertAt = threshold
		d.UpdatedAt = updatedAt
		return nil
	}
	return domain.ErrDrawerNotFound
}

func (m *MockDrawerRepository) SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.drawers[id]; ok {
		d.Active = active
		d.UpdatedAt = updatedAt
		return nil
	}
	return domain.ErrDrawerNotFound
}

// MockClosingRepository is an in-memory mock of ClosingRepository.
type MockClosingRepository struct {
	mu      sync.RWMutex
	reports []*domain.ClosingReport

	CreateFunc func(ctx context.Context, report *domain.ClosingReport) error
}

func NewMockClosingRepository() *MockClosingRepository {
	return &MockClosingRepository{}
}

func (m *MockClosingRepository) Create(ctx context.Context, report *domain.ClosingReport) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, report)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, report)
	return nil
}

func (m *MockClosingRepository) GetByID(ctx context.Context, id string) (*domain.ClosingReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrClosingNotFound
}

func (m *MockClosingRepository) ListByDrawer(ctx context.Context, drawerID string, limit, offset int) ([]*domain.ClosingReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.ClosingReport
	for _, r := range m.reports {
		if r.DrawerID == drawerID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *MockClosingRepository) LastForDrawer(ctx context.Context, drawerID string) (*domain.ClosingReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var last *domain.ClosingReport
	for _, r := range m.reports {
		if r.DrawerID != drawerID {
			continue
		}
		if last == nil || r.CreatedAt.After(last.CreatedAt) {
			last = r
		}
	}
	return last, nil
}

// MockCustomerRepository is an in-memory mock of CustomerRepository.
type MockCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer
}

func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		customers: make(map[string]*domain.Customer),
	}
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.ID] = customer
	return nil
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.customers[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCustomerNotFound
}

func (m *MockCustomerRepository) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.customers {
		if c.Phone == phone {
			return c, nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

// MockShiftRegistry is an in-memory mock of ShiftRegistry.
type MockShiftRegistry struct {
	mu          sync.RWMutex
	assignments map[string]string

	ActiveDrawerFunc func(ctx context.Context, operatorID string) (string, error)
}

func NewMockShiftRegistry() *MockShiftRegistry {
	return &MockShiftRegistry{
		assignments: make(map[string]string),
	}
}

func (m *MockShiftRegistry) Open(ctx context.Context, operatorID, drawerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[operatorID] = drawerID
	return nil
}

func (m *MockShiftRegistry) Release(ctx context.Context, operatorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.assignments, operatorID)
	return nil
}

func (m *MockShiftRegistry) ActiveDrawer(ctx context.Context, operatorID string) (string, error) {
	if m.ActiveDrawerFunc != nil {
		return m.ActiveDrawerFunc(ctx, operatorID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if drawerID, ok := m.assignments[operatorID]; ok {
		return drawerID, nil
	}
	return "", domain.ErrNoActiveDrawer
}

// MockTransaction is a no-op transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager hands out MockTransactions.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu   sync.Mutex
	Last *MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Last = tx
	return tx, nil
}

// MockIDGenerator generates sequential test IDs.
type MockIDGenerator struct {
	GenerateFunc func() string

	mu      sync.Mutex
	counter int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%d", m.counter)
}
