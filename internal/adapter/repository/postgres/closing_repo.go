package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dlshad/drawerledger/internal/domain"
)

// ClosingRepository implements usecase.ClosingRepository. A report and its
// per-currency entries are written together and never modified afterwards.
type ClosingRepository struct {
	pool *pgxpool.Pool
}

// NewClosingRepository creates a new ClosingRepository.
func NewClosingRepository(pool *pgxpool.Pool) *ClosingRepository {
	return &ClosingRepository{pool: pool}
}

// Create persists the report header and its entries in one transaction.
func (r *ClosingRepository) Create(ctx context.Context, report *domain.ClosingReport) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapError(err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO closing_reports (id, drawer_id, closing_date, generated_by, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		report.ID,
		report.DrawerID,
		timeToPgTimestamptz(report.Date),
		report.GeneratedBy,
		report.Notes,
		timeToPgTimestamptz(report.CreatedAt),
	)
	if err != nil {
		return mapError(err)
	}

	for _, entry := range report.Entries {
		_, err = tx.Exec(ctx,
			`INSERT INTO closing_entries (report_id, currency, expected, actual, variance)
			 VALUES ($1, $2, $3, $4, $5)`,
			report.ID,
			entry.Currency,
			decimalToNumeric(entry.Expected),
			decimalToNumeric(entry.Actual),
			decimalToNumeric(entry.Variance),
		)
		if err != nil {
			return mapError(err)
		}
	}

	return mapError(tx.Commit(ctx))
}

// GetByID retrieves one report with its entries.
func (r *ClosingRepository) GetByID(ctx context.Context, id string) (*domain.ClosingReport, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, drawer_id, closing_date, generated_by, notes, created_at
		 FROM closing_reports WHERE id = $1`, id)

	report, err := scanClosingReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClosingNotFound
		}

		return nil, mapError(err)
	}

	entries, err := r.entriesFor(ctx, []string{report.ID})
	if err != nil {
		return nil, err
	}

	report.Entries = entries[report.ID]

	return report, nil
}

// ListByDrawer retrieves a drawer's closing history, most recent first.
func (r *ClosingRepository) ListByDrawer(ctx context.Context, drawerID string, limit, offset int) ([]*domain.ClosingReport, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, drawer_id, closing_date, generated_by, notes, created_at
		 FROM closing_reports
		 WHERE drawer_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		drawerID, limit, offset,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var (
		reports []*domain.ClosingReport
		ids     []string
	)

	for rows.Next() {
		report, err := scanClosingReport(rows)
		if err != nil {
			return nil, err
		}

		reports = append(reports, report)
		ids = append(ids, report.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	if len(ids) == 0 {
		return reports, nil
	}

	entries, err := r.entriesFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, report := range reports {
		report.Entries = entries[report.ID]
	}

	return reports, nil
}

// LastForDrawer returns the most recent report, or nil when the drawer has
// never been closed.
func (r *ClosingRepository) LastForDrawer(ctx context.Context, drawerID string) (*domain.ClosingReport, error) {
	reports, err := r.ListByDrawer(ctx, drawerID, 1, 0)
	if err != nil {
		return nil, err
	}

	if len(reports) == 0 {
		return nil, nil
	}

	return reports[0], nil
}

func (r *ClosingRepository) entriesFor(ctx context.Context, reportIDs []string) (map[string][]domain.ClosingEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT report_id, currency, expected, actual, variance
		 FROM closing_entries
		 WHERE report_id = ANY($1)
		 ORDER BY currency`,
		reportIDs,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	entries := make(map[string][]domain.ClosingEntry, len(reportIDs))

	for rows.Next() {
		var (
			reportID string
			entry    domain.ClosingEntry
			expected pgtype.Numeric
			actual   pgtype.Numeric
			variance pgtype.Numeric
		)

		err := rows.Scan(&reportID, &entry.Currency, &expected, &actual, &variance)
		if err != nil {
			return nil, err
		}

		entry.Expected = numericToDecimal(expected)
		entry.Actual = numericToDecimal(actual)
		entry.Variance = numericToDecimal(variance)
		entries[reportID] = append(entries[reportID], entry)
	}

	return entries, rows.Err()
}

func scanClosingReport(row pgx.Row) (*domain.ClosingReport, error) {
	var (
		report      domain.ClosingReport
		closingDate pgtype.Timestamptz
		createdAt   pgtype.Timestamptz
	)

	err := row.Scan(&report.ID, &report.DrawerID, &closingDate, &report.GeneratedBy, &report.Notes, &createdAt)
	if err != nil {
		return nil, err
	}

	report.Date = closingDate.Time
	report.CreatedAt = createdAt.Time

	return &report, nil
}
