package usecase

import (
	"context"

	"github.com/dlshad/drawerledger/internal/domain"
)

// AlertUseCase derives low-balance alerts on demand. Pull only: it persists
// nothing and mutates nothing.
type AlertUseCase struct {
	balanceRepo BalanceRepository
}

// NewAlertUseCase creates a new AlertUseCase.
func NewAlertUseCase(balanceRepo BalanceRepository) *AlertUseCase {
	return &AlertUseCase{balanceRepo: balanceRepo}
}

// LowBalanceAlerts returns one alert for every (drawer, currency) where the
// drawer's threshold is positive and the balance has fallen below it.
func (uc *AlertUseCase) LowBalanceAlerts(ctx context.Context) ([]*domain.LowBalanceAlert, error) {
	return uc.balanceRepo.ListLowBalances(ctx)
}
