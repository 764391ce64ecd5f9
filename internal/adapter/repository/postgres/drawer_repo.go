package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/domain"
)

// DrawerRepository implements usecase.DrawerRepository.
type DrawerRepository struct {
	pool *pgxpool.Pool
}

// NewDrawerRepository creates a new DrawerRepository.
func NewDrawerRepository(pool *pgxpool.Pool) *DrawerRepository {
	return &DrawerRepository{pool: pool}
}

// Create creates a new drawer.
func (r *DrawerRepository) Create(ctx context.Context, drawer *domain.Drawer) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO drawers (id, name, active, low_balance_alert_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		drawer.ID,
		drawer.Name,
		drawer.Active,
		decimalToNumeric(drawer.LowBalanceAlertAt),
		timeToPgTimestamptz(drawer.CreatedAt),
		timeToPgTimestamptz(drawer.UpdatedAt),
	)

	return mapError(err)
}

// GetByID retrieves a drawer by ID.
func (r *DrawerRepository) GetByID(ctx context.Context, id string) (*domain.Drawer, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, active, low_balance_alert_at, created_at, updated_at
		 FROM drawers WHERE id = $1`, id)

	drawer, err := scanDrawer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDrawerNotFound
		}

		return nil, mapError(err)
	}

	return drawer, nil
}

// List lists drawers with pagination.
func (r *DrawerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Drawer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, active, low_balance_alert_at, created_at, updated_at
		 FROM drawers
		 ORDER BY name, id
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var drawers []*domain.Drawer

	for rows.Next() {
		drawer, err := scanDrawer(rows)
		if err != nil {
			return nil, err
		}

		drawers = append(drawers, drawer)
	}

	return drawers, rows.Err()
}

// UpdateThreshold updates a drawer's low-balance alert threshold.
func (r *DrawerRepository) UpdateThreshold(ctx context.Context, id string, threshold decimal.Decimal, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE drawers SET low_balance_alert_at = $2, updated_at = $3 WHERE id = $1`,
		id, decimalToNumeric(threshold), timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return mapError(err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrDrawerNotFound
	}

	return nil
}

// SetActive activates or deactivates a drawer.
func (r *DrawerRepository) SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE drawers SET active = $2, updated_at = $3 WHERE id = $1`,
		id, active, timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return mapError(err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrDrawerNotFound
	}

	return nil
}

func scanDrawer(row pgx.Row) (*domain.Drawer, error) {
	var (
		drawer    domain.Drawer
		threshold pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&drawer.ID, &drawer.Name, &drawer.Active, &threshold, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	drawer.LowBalanceAlertAt = numericToDecimal(threshold)
	drawer.CreatedAt = createdAt.Time
	drawer.UpdatedAt = updatedAt.Time

	return &drawer, nil
}
