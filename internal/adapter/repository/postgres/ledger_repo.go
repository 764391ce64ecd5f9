package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/domain"
	"github.com/dlshad/drawerledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository. The ledger table is
// append-only: there is no update or delete statement in this file on
// purpose.
type LedgerRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool, logger zerolog.Logger) *LedgerRepository {
	return &LedgerRepository{
		pool:    pool,
		retrier: NewRetrier(logger),
	}
}

// Append writes one ledger entry inside the caller's transaction.
func (r *LedgerRepository) Append(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO ledger_entries
		 (id, drawer_id, currency, entry_type, amount, balance_before, balance_after,
		  reference_type, reference_id, performed_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11)`,
		entry.ID,
		entry.DrawerID,
		entry.Currency,
		string(entry.Type),
		decimalToNumeric(entry.Amount),
		decimalToNumeric(entry.BalanceBefore),
		decimalToNumeric(entry.BalanceAfter),
		entry.ReferenceType,
		entry.ReferenceID,
		entry.PerformedBy,
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return mapError(err)
}

// ListByDrawer retrieves a drawer's entries, newest first, narrowed by the
// optional filter fields.
func (r *LedgerRepository) ListByDrawer(ctx context.Context, drawerID string, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error) {
	query := `SELECT id, drawer_id, currency, entry_type, amount, balance_before, balance_after,
	          reference_type, COALESCE(reference_id, ''), performed_by, created_at
	          FROM ledger_entries
	          WHERE drawer_id = $1`
	args := []any{drawerID}

	if filter.Currency != "" {
		args = append(args, filter.Currency)
		query += fmt.Sprintf(" AND currency = $%d", len(args))
	}

	if filter.Type != "" {
		args = append(args, string(filter.Type))
		query += fmt.Sprintf(" AND entry_type = $%d", len(args))
	}

	if filter.From != nil {
		args = append(args, timeToPgTimestamptz(*filter.From))
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}

	if filter.To != nil {
		args = append(args, timeToPgTimestamptz(*filter.To))
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}

	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry

	for rows.Next() {
		var (
			entry     domain.LedgerEntry
			entryType string
			amount    pgtype.Numeric
			before    pgtype.Numeric
			after     pgtype.Numeric
			createdAt pgtype.Timestamptz
		)

		err := rows.Scan(&entry.ID, &entry.DrawerID, &entry.Currency, &entryType,
			&amount, &before, &after,
			&entry.ReferenceType, &entry.ReferenceID, &entry.PerformedBy, &createdAt)
		if err != nil {
			return nil, err
		}

		entry.Type = domain.EntryType(entryType)
		entry.Amount = numericToDecimal(amount)
		entry.BalanceBefore = numericToDecimal(before)
		entry.BalanceAfter = numericToDecimal(after)
		entry.CreatedAt = createdAt.Time

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// SumDeltas computes the sum of signed deltas for one (drawer, currency).
func (r *LedgerRepository) SumDeltas(ctx context.Context, drawerID, currency string) (decimal.Decimal, error) {
	var sum pgtype.Numeric

	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(balance_after - balance_before), 0)
		 FROM ledger_entries
		 WHERE drawer_id = $1 AND currency = $2`,
		drawerID, currency,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, mapError(err)
	}

	return numericToDecimal(sum), nil
}

// FindInconsistencies compares every stored balance against the sum of its
// ledger deltas and returns the rows that disagree. The scan runs against
// live traffic, so transient conflicts are retried.
func (r *LedgerRepository) FindInconsistencies(ctx context.Context) ([]*usecase.ConsistencyViolation, error) {
	var violations []*usecase.ConsistencyViolation

	err := r.retrier.Retry(ctx, func() error {
		var scanErr error
		violations, scanErr = r.findInconsistencies(ctx)
		return scanErr
	})
	if err != nil {
		return nil, mapError(err)
	}

	return violations, nil
}

func (r *LedgerRepository) findInconsistencies(ctx context.Context) ([]*usecase.ConsistencyViolation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT b.drawer_id, b.currency, b.balance, COALESCE(l.total, 0)
		 FROM currency_balances b
		 LEFT JOIN (
		     SELECT drawer_id, currency, SUM(balance_after - balance_before) AS total
		     FROM ledger_entries
		     GROUP BY drawer_id, currency
		 ) l USING (drawer_id, currency)
		 WHERE b.balance <> COALESCE(l.total, 0)
		 ORDER BY b.drawer_id, b.currency`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var violations []*usecase.ConsistencyViolation

	for rows.Next() {
		var (
			violation usecase.ConsistencyViolation
			balance   pgtype.Numeric
			ledgerSum pgtype.Numeric
		)

		err := rows.Scan(&violation.DrawerID, &violation.Currency, &balance, &ledgerSum)
		if err != nil {
			return nil, err
		}

		violation.Balance = numericToDecimal(balance)
		violation.LedgerSum = numericToDecimal(ledgerSum)
		violations = append(violations, &violation)
	}

	return violations, rows.Err()
}
