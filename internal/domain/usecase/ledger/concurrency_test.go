package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/dropfly/token-ledger/internal/domain/entity"
	errs "github.com/dropfly/token-ledger/internal/domain/error"
	"github.com/dropfly/token-ledger/internal/domain/port/persistence"
	"github.com/dropfly/token-ledger/internal/infrastructure/adapter/logger"
	coremocks "github.com/dropfly/token-ledger/mocks/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore holds balances and transactions behind a single mutex that mimics
// the row-locking transaction semantics of the real database: Begin takes the
// lock, reads return copies, and the lock is held until Commit or Rollback.
type memStore struct {
	mu       sync.Mutex
	balances map[string]*entity.Balance
	txns     []*entity.Transaction
	refunded map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		balances: make(map[string]*entity.Balance),
		refunded: make(map[string]bool),
	}
}

type memUnitOfWork struct {
	store *memStore
}

func (u *memUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	u.store.mu.Lock()
	return ctx, nil
}

func (u *memUnitOfWork) Commit(ctx context.Context) error {
	u.store.mu.Unlock()
	return nil
}

func (u *memUnitOfWork) Rollback(ctx context.Context) error {
	u.store.mu.Unlock()
	return nil
}

func (u *memUnitOfWork) BalanceRepository(ctx context.Context) persistence.BalanceRepository {
	return &memBalanceRepo{store: u.store}
}

func (u *memUnitOfWork) TransactionRepository(ctx context.Context) persistence.TransactionRepository {
	return &memTransactionRepo{store: u.store}
}

type memBalanceRepo struct {
	store *memStore
}

func (r *memBalanceRepo) GetByUserID(ctx context.Context, userID string) (*entity.Balance, error) {
	return r.GetForUpdate(ctx, userID)
}

func (r *memBalanceRepo) GetForUpdate(ctx context.Context, userID string) (*entity.Balance, error) {
	stored, ok := r.store.balances[userID]
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *memBalanceRepo) Create(ctx context.Context, balance *entity.Balance) error {
	if _, exists := r.store.balances[balance.UserID]; exists {
		return errs.ErrDuplicateBalance
	}
	copied := *balance
	r.store.balances[balance.UserID] = &copied
	return nil
}

func (r *memBalanceRepo) Update(ctx context.Context, balance *entity.Balance) error {
	if _, exists := r.store.balances[balance.UserID]; !exists {
		return errs.ErrUserNotFound
	}
	copied := *balance
	r.store.balances[balance.UserID] = &copied
	return nil
}

type memTransactionRepo struct {
	store *memStore
}

func (r *memTransactionRepo) Create(ctx context.Context, transaction *entity.Transaction) error {
	if transaction.RefundOf != "" {
		if r.store.refunded[transaction.RefundOf] {
			return fmt.Errorf("%w: %s", errs.ErrDuplicateRefund, transaction.RefundOf)
		}
		r.store.refunded[transaction.RefundOf] = true
	}
	copied := *transaction
	r.store.txns = append(r.store.txns, &copied)
	return nil
}

func (r *memTransactionRepo) GetByID(ctx context.Context, userID, transactionID string) (*entity.Transaction, error) {
	for _, txn := range r.store.txns {
		if txn.ID == transactionID && txn.UserID == userID {
			copied := *txn
			return &copied, nil
		}
	}
	return nil, errs.ErrTransactionNotFound
}

func (r *memTransactionRepo) ListByUserID(ctx context.Context, userID string, limit int) ([]*entity.Transaction, error) {
	var result []*entity.Transaction
	for i := len(r.store.txns) - 1; i >= 0 && len(result) < limit; i-- {
		if r.store.txns[i].UserID == userID {
			copied := *r.store.txns[i]
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *memTransactionRepo) RefundExists(ctx context.Context, originalTransactionID string) (bool, error) {
	return r.store.refunded[originalTransactionID], nil
}

func newMemService(t *testing.T, store *memStore) *Service {
	t.Helper()

	timeMock := new(coremocks.MockTimeProvider)
	timeMock.On("Now").Return(testTime)

	return NewService(&memUnitOfWork{store: store}, timeMock, logger.NewNoopLogger())
}

func TestService_ConcurrentDeducts(t *testing.T) {
	const (
		n    = 50
		cost = 4
	)

	ctx := context.Background()
	store := newMemStore()
	store.balances["user-1"] = &entity.Balance{
		UserID:        "user-1",
		Balance:       n * cost,
		DailyLimit:    n * cost,
		LastResetDate: entity.DayUTC(testTime),
	}

	service := newMemService(t, store)

	var wg sync.WaitGroup
	results := make([]*OperationResult, n)
	errors := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errors[idx] = service.Deduct(ctx, "user-1", entity.OpVideoDownload, cost, "", nil)
		}(i)
	}
	wg.Wait()

	successes := 0
	for i := 0; i < n; i++ {
		require.NoError(t, errors[i])
		require.NotNil(t, results[i])
		if results[i].Success {
			successes++
		}
	}

	// Every deduction fits exactly, draining the balance to zero and never below
	assert.Equal(t, n, successes)
	assert.Equal(t, int64(0), store.balances["user-1"].Balance)
	assert.Equal(t, int64(n*cost), store.balances["user-1"].DailySpent)
	assert.Len(t, store.txns, n)
}

func TestService_ConcurrentDeducts_DailyCapBinds(t *testing.T) {
	const (
		n     = 40
		cost  = 5
		limit = 100 // only 20 deductions fit under the cap
	)

	ctx := context.Background()
	store := newMemStore()
	store.balances["user-1"] = &entity.Balance{
		UserID:        "user-1",
		Balance:       n * cost,
		DailyLimit:    limit,
		LastResetDate: entity.DayUTC(testTime),
	}

	service := newMemService(t, store)

	var wg sync.WaitGroup
	results := make([]*OperationResult, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], _ = service.Deduct(ctx, "user-1", entity.OpVideoDownload, cost, "", nil)
		}(i)
	}
	wg.Wait()

	successes := 0
	for i := 0; i < n; i++ {
		require.NotNil(t, results[i])
		if results[i].Success {
			successes++
		} else {
			assert.Equal(t, errs.CodeDailyLimitExceeded, results[i].ErrorCode)
		}
	}

	assert.Equal(t, limit/cost, successes)
	assert.Equal(t, int64(limit), store.balances["user-1"].DailySpent)
	assert.Equal(t, int64(n*cost-limit), store.balances["user-1"].Balance)
}

func TestService_ConcurrentRefunds_OnlyOneWins(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.balances["user-1"] = &entity.Balance{
		UserID:        "user-1",
		Balance:       100,
		DailyLimit:    1000,
		LastResetDate: entity.DayUTC(testTime),
	}

	service := newMemService(t, store)

	deducted, err := service.Deduct(ctx, "user-1", entity.OpVideoGeneration, 30, "", nil)
	require.NoError(t, err)
	require.True(t, deducted.Success)
	originalID := deducted.Transaction.ID

	const attempts = 10
	var wg sync.WaitGroup
	results := make([]*OperationResult, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], _ = service.Refund(ctx, "user-1", originalID, "render failed")
		}(i)
	}
	wg.Wait()

	successes := 0
	duplicates := 0
	for i := 0; i < attempts; i++ {
		require.NotNil(t, results[i])
		if results[i].Success {
			successes++
		} else if results[i].ErrorCode == errs.CodeDuplicateRefund {
			duplicates++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, duplicates)
	assert.Equal(t, int64(100), store.balances["user-1"].Balance)
}
