package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/domain"
)

// DrawerUseCase handles drawer administration and shift assignment. Drawers
// are never hard-deleted; a drawer taken out of service is deactivated so
// its ledger history survives.
type DrawerUseCase struct {
	drawerRepo DrawerRepository
	shifts     ShiftRegistry
	idGen      IDGenerator
}

// NewDrawerUseCase creates a new DrawerUseCase.
func NewDrawerUseCase(drawerRepo DrawerRepository, shifts ShiftRegistry, idGen IDGenerator) *DrawerUseCase {
	return &DrawerUseCase{
		drawerRepo: drawerRepo,
		shifts:     shifts,
		idGen:      idGen,
	}
}

// CreateDrawerInput represents input for creating a drawer.
type CreateDrawerInput struct {
	Name              string
	LowBalanceAlertAt decimal.Decimal
	Actor             domain.Actor
}

// CreateDrawer creates a new drawer. Administrator only.
func (uc *DrawerUseCase) CreateDrawer(ctx context.Context, input CreateDrawerInput) (*domain.Drawer, error) {
	if !input.Actor.Role.CanManageDrawers() {
		return nil, domain.ErrUnauthorized
	}

	if err := domain.ValidateDrawerName(input.Name); err != nil {
		return nil, err
	}

	if input.LowBalanceAlertAt.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	now := time.Now().UTC()

	drawer := &domain.Drawer{
		ID:                uc.idGen.Generate(),
		Name:              input.Name,
		Active:            true,
		LowBalanceAlertAt: input.LowBalanceAlertAt,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := uc.drawerRepo.Create(ctx, drawer); err != nil {
		return nil, err
	}

	return drawer, nil
}

// GetDrawer retrieves a drawer by id.
func (uc *DrawerUseCase) GetDrawer(ctx context.Context, id string) (*domain.Drawer, error) {
	return uc.drawerRepo.GetByID(ctx, id)
}

// ListDrawers lists drawers with pagination.
func (uc *DrawerUseCase) ListDrawers(ctx context.Context, limit, offset int) ([]*domain.Drawer, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.drawerRepo.List(ctx, limit, offset)
}

// SetThreshold updates a drawer's low-balance alert threshold.
// Administrator only.
func (uc *DrawerUseCase) SetThreshold(ctx context.Context, id string, threshold decimal.Decimal, actor domain.Actor) (*domain.Drawer, error) {
	if !actor.Role.CanManageDrawers() {
		return nil, domain.ErrUnauthorized
	}

	if threshold.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	drawer, err := uc.drawerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := uc.drawerRepo.UpdateThreshold(ctx, id, threshold, now); err != nil {
		return nil, err
	}

	drawer.LowBalanceAlertAt = threshold
	drawer.UpdatedAt = now

	return drawer, nil
}

// SetActive activates or deactivates a drawer. Administrator only.
func (uc *DrawerUseCase) SetActive(ctx context.Context, id string, active bool, actor domain.Actor) error {
	if !actor.Role.CanManageDrawers() {
		return domain.ErrUnauthorized
	}

	if _, err := uc.drawerRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.drawerRepo.SetActive(ctx, id, active, time.Now().UTC())
}

// OpenDrawer claims the drawer as the operator's active drawer for the
// current shift.
func (uc *DrawerUseCase) OpenDrawer(ctx context.Context, drawerID string, operator domain.Actor) error {
	drawer, err := uc.drawerRepo.GetByID(ctx, drawerID)
	if err != nil {
		return err
	}

	if !drawer.Active {
		return domain.ErrDrawerInactive
	}

	return uc.shifts.Open(ctx, operator.ID, drawerID)
}

// ReleaseDrawer clears the operator's active drawer.
func (uc *DrawerUseCase) ReleaseDrawer(ctx context.Context, operator domain.Actor) error {
	return uc.shifts.Release(ctx, operator.ID)
}

// ActiveDrawer returns the operator's currently open drawer.
func (uc *DrawerUseCase) ActiveDrawer(ctx context.Context, operator domain.Actor) (*domain.Drawer, error) {
	drawerID, err := uc.shifts.ActiveDrawer(ctx, operator.ID)
	if err != nil {
		return nil, err
	}

	drawer, err := uc.drawerRepo.GetByID(ctx, drawerID)
	if err != nil {
		// A stale assignment pointing at a deleted drawer should read as
		// "no active drawer" rather than an internal error.
		if errors.Is(err, domain.ErrDrawerNotFound) {
			return nil, domain.ErrNoActiveDrawer
		}

		return nil, err
	}

	return drawer, nil
}
