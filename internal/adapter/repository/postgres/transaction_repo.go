package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dlshad/drawerledger/internal/domain"
	"github.com/dlshad/drawerledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create writes the transaction row inside the settlement's transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO transactions
		 (id, drawer_id, customer_id, currency_in, currency_out, amount_in, amount_out,
		  applied_rate, market_rate, profit, compliance_flag, compliance_reason,
		  notes, performed_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		txn.ID,
		txn.DrawerID,
		txn.CustomerID,
		txn.CurrencyIn,
		txn.CurrencyOut,
		decimalToNumeric(txn.AmountIn),
		decimalToNumeric(txn.AmountOut),
		decimalToNumeric(txn.AppliedRate),
		decimalToNumeric(txn.MarketRate),
		decimalToNumeric(txn.Profit),
		txn.ComplianceFlag,
		txn.ComplianceReason,
		txn.Notes,
		txn.PerformedBy,
		timeToPgTimestamptz(txn.CreatedAt),
	)

	return mapError(err)
}

const transactionColumns = `id, drawer_id, customer_id, currency_in, currency_out,
	amount_in, amount_out, applied_rate, market_rate, profit,
	compliance_flag, compliance_reason, notes, performed_by, created_at`

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)

	txn, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, mapError(err)
	}

	return txn, nil
}

// ListByDrawer retrieves a drawer's transactions, newest first.
func (r *TransactionRepository) ListByDrawer(ctx context.Context, drawerID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions
		 WHERE drawer_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		drawerID, limit, offset,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var txns []*domain.Transaction

	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}

		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

// DailyProfit aggregates the profit recorded for a drawer on one UTC day.
func (r *TransactionRepository) DailyProfit(ctx context.Context, drawerID string, day time.Time) (*domain.DailyProfit, error) {
	dayStart := day.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	var (
		profit pgtype.Numeric
		count  int64
	)

	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(profit), 0), COUNT(*)
		 FROM transactions
		 WHERE drawer_id = $1 AND created_at >= $2 AND created_at < $3`,
		drawerID, timeToPgTimestamptz(dayStart), timeToPgTimestamptz(dayEnd),
	).Scan(&profit, &count)
	if err != nil {
		return nil, mapError(err)
	}

	return &domain.DailyProfit{
		DrawerID: drawerID,
		Date:     dayStart,
		Profit:   numericToDecimal(profit),
		Count:    count,
	}, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn         domain.Transaction
		amountIn    pgtype.Numeric
		amountOut   pgtype.Numeric
		appliedRate pgtype.Numeric
		marketRate  pgtype.Numeric
		profit      pgtype.Numeric
		createdAt   pgtype.Timestamptz
	)

	err := row.Scan(&txn.ID, &txn.DrawerID, &txn.CustomerID, &txn.CurrencyIn, &txn.CurrencyOut,
		&amountIn, &amountOut, &appliedRate, &marketRate, &profit,
		&txn.ComplianceFlag, &txn.ComplianceReason, &txn.Notes, &txn.PerformedBy, &createdAt)
	if err != nil {
		return nil, err
	}

	txn.AmountIn = numericToDecimal(amountIn)
	txn.AmountOut = numericToDecimal(amountOut)
	txn.AppliedRate = numericToDecimal(appliedRate)
	txn.MarketRate = numericToDecimal(marketRate)
	txn.Profit = numericToDecimal(profit)
	txn.CreatedAt = createdAt.Time

	return &txn, nil
}
