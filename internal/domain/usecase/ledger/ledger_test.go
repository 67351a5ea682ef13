package ledger

import (
	"time"

	"github.com/dropfly/token-ledger/internal/domain/entity"
	coremocks "github.com/dropfly/token-ledger/mocks/port/core"
	persistencemocks "github.com/dropfly/token-ledger/mocks/port/persistence"
	"github.com/stretchr/testify/mock"
)

// testTime is the fixed instant most tests run at
var testTime = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

// testDeps bundles the mocked dependencies of a Service under test
type testDeps struct {
	uow         *persistencemocks.MockUnitOfWork
	balanceRepo *persistencemocks.MockBalanceRepository
	txRepo      *persistencemocks.MockTransactionRepository
	timeMock    *coremocks.MockTimeProvider
	logger      *coremocks.MockLogger
}

// newTestService wires a Service against fresh mocks with a fixed clock and a
// logger that accepts anything
func newTestService(now time.Time) (*Service, *testDeps) {
	deps := &testDeps{
		uow:         new(persistencemocks.MockUnitOfWork),
		balanceRepo: new(persistencemocks.MockBalanceRepository),
		txRepo:      new(persistencemocks.MockTransactionRepository),
		timeMock:    new(coremocks.MockTimeProvider),
		logger:      new(coremocks.MockLogger),
	}

	deps.timeMock.On("Now").Return(now)

	deps.logger.On("Debug", mock.Anything, mock.Anything).Return()
	deps.logger.On("Info", mock.Anything, mock.Anything).Return()
	deps.logger.On("Warn", mock.Anything, mock.Anything).Return()
	deps.logger.On("Error", mock.Anything, mock.Anything).Return()

	return NewService(deps.uow, deps.timeMock, deps.logger), deps
}

// balanceFixture builds a balance record as it would look mid-day
func balanceFixture(userID string, balance, dailySpent, dailyLimit int64, lastReset time.Time) *entity.Balance {
	return &entity.Balance{
		UserID:         userID,
		Balance:        balance,
		LifetimeEarned: balance + dailySpent,
		LifetimeSpent:  dailySpent,
		DailySpent:     dailySpent,
		DailyLimit:     dailyLimit,
		LastResetDate:  entity.DayUTC(lastReset),
		CreatedAt:      lastReset,
		UpdatedAt:      lastReset,
	}
}
