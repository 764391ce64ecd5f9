package postgres

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/domain"
	"github.com/dlshad/drawerledger/internal/usecase"
)

// BalanceRepository implements usecase.BalanceRepository.
type BalanceRepository struct {
	pool *pgxpool.Pool
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

// GetBalance retrieves the current balance, zero when no row exists.
func (r *BalanceRepository) GetBalance(ctx context.Context, drawerID, currency string) (decimal.Decimal, error) {
	var balance pgtype.Numeric

	err := r.pool.QueryRow(ctx,
		`SELECT balance FROM currency_balances WHERE drawer_id = $1 AND currency = $2`,
		drawerID, currency,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}

		return decimal.Zero, mapError(err)
	}

	return numericToDecimal(balance), nil
}

// LockForUpdate inserts missing rows with a zero balance and locks the
// requested rows in ascending currency order. Both statements run inside the
// caller's transaction, so rows created for an aborted unit vanish with it.
// The fixed lock order prevents deadlocks between concurrent settlements on
// the same drawer.
func (r *BalanceRepository) LockForUpdate(ctx context.Context, tx usecase.Transaction, drawerID string, currencies []string) (map[string]*domain.CurrencyBalance, error) {
	pgxTx := tx.(*Tx).PgxTx()

	sorted := append([]string(nil), currencies...)
	sort.Strings(sorted)

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO currency_balances (drawer_id, currency, balance, last_updated_by, updated_at)
		 SELECT $1, unnest($2::text[]), 0, '', now()
		 ON CONFLICT (drawer_id, currency) DO NOTHING`,
		drawerID, sorted,
	)
	if err != nil {
		return nil, mapError(err)
	}

	rows, err := pgxTx.Query(ctx,
		`SELECT drawer_id, currency, balance, last_updated_by, updated_at
		 FROM currency_balances
		 WHERE drawer_id = $1 AND currency = ANY($2)
		 ORDER BY currency
		 FOR UPDATE`,
		drawerID, sorted,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	balances := make(map[string]*domain.CurrencyBalance, len(sorted))

	for rows.Next() {
		balance, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}

		balances[balance.Currency] = balance
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return balances, nil
}

// UpdateBalance writes a new balance for a row previously locked in tx.
func (r *BalanceRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, drawerID, currency string, balance decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`UPDATE currency_balances
		 SET balance = $3, last_updated_by = $4, updated_at = $5
		 WHERE drawer_id = $1 AND currency = $2`,
		drawerID, currency, decimalToNumeric(balance), updatedBy, timeToPgTimestamptz(updatedAt),
	)

	return mapError(err)
}

// ListByDrawer retrieves all balances held by a drawer.
func (r *BalanceRepository) ListByDrawer(ctx context.Context, drawerID string) ([]*domain.CurrencyBalance, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT drawer_id, currency, balance, last_updated_by, updated_at
		 FROM currency_balances
		 WHERE drawer_id = $1
		 ORDER BY currency`,
		drawerID,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var balances []*domain.CurrencyBalance

	for rows.Next() {
		balance, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}

		balances = append(balances, balance)
	}

	return balances, rows.Err()
}

// ListLowBalances returns one alert per (drawer, currency) below the drawer's
// configured threshold. Drawers without a positive threshold never alert.
func (r *BalanceRepository) ListLowBalances(ctx context.Context) ([]*domain.LowBalanceAlert, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT b.drawer_id, d.name, b.currency, b.balance, d.low_balance_alert_at
		 FROM currency_balances b
		 JOIN drawers d ON d.id = b.drawer_id
		 WHERE d.low_balance_alert_at > 0 AND b.balance < d.low_balance_alert_at
		 ORDER BY b.drawer_id, b.currency`,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var alerts []*domain.LowBalanceAlert

	for rows.Next() {
		var (
			alert     domain.LowBalanceAlert
			balance   pgtype.Numeric
			threshold pgtype.Numeric
		)

		err := rows.Scan(&alert.DrawerID, &alert.DrawerName, &alert.Currency, &balance, &threshold)
		if err != nil {
			return nil, err
		}

		alert.Balance = numericToDecimal(balance)
		alert.Threshold = numericToDecimal(threshold)
		alerts = append(alerts, &alert)
	}

	return alerts, rows.Err()
}

func scanBalance(rows pgx.Rows) (*domain.CurrencyBalance, error) {
	var (
		balance   domain.CurrencyBalance
		amount    pgtype.Numeric
		updatedAt pgtype.Timestamptz
	)

	err := rows.Scan(&balance.DrawerID, &balance.Currency, &amount, &balance.LastUpdatedBy, &updatedAt)
	if err != nil {
		return nil, err
	}

	balance.Balance = numericToDecimal(amount)
	balance.UpdatedAt = updatedAt.Time

	return &balance, nil
}
