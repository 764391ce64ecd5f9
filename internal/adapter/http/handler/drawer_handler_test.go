package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dlshad/drawerledger/internal/adapter/http/dto"
	"github.com/dlshad/drawerledger/internal/domain"
	"github.com/dlshad/drawerledger/internal/usecase"
)

type drawerServiceStub struct {
	createFn       func(ctx context.Context, input usecase.CreateDrawerInput) (*domain.Drawer, error)
	getFn          func(ctx context.Context, id string) (*domain.Drawer, error)
	listFn         func(ctx context.Context, limit, offset int) ([]*domain.Drawer, error)
	setThresholdFn func(ctx context.Context, id string, threshold decimal.Decimal, actor domain.Actor) (*domain.Drawer, error)
	setActiveFn    func(ctx context.Context, id string, active bool, actor domain.Actor) error
	openFn         func(ctx context.Context, drawerID string, operator domain.Actor) error
	releaseFn      func(ctx context.Context, operator domain.Actor) error
	activeFn       func(ctx context.Context, operator domain.Actor) (*domain.Drawer, error)
}

func (s *drawerServiceStub) CreateDrawer(ctx context.Context, input usecase.CreateDrawerInput) (*domain.Drawer, error) {
	return s.createFn(ctx, input)
}

func (s *drawerServiceStub) GetDrawer(ctx context.Context, id string) (*domain.Drawer, error) {
	return s.getFn(ctx, id)
}

func (s *drawerServiceStub) ListDrawers(ctx context.Context, limit, offset int) ([]*domain.Drawer, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *drawerServiceStub) SetThreshold(ctx context.Context, id string, threshold decimal.Decimal, actor domain.Actor) (*domain.Drawer, error) {
	return s.setThresholdFn(ctx, id, threshold, actor)
}

func (s *drawerServiceStub) SetActive(ctx context.Context, id string, active bool, actor domain.Actor) error {
	return s.setActiveFn(ctx, id, active, actor)
}

func (s *drawerServiceStub) OpenDrawer(ctx context.Context, drawerID string, operator domain.Actor) error {
	return s.openFn(ctx, drawerID, operator)
}

func (s *drawerServiceStub) ReleaseDrawer(ctx context.Context, operator domain.Actor) error {
	return s.releaseFn(ctx, operator)
}

func (s *drawerServiceStub) ActiveDrawer(ctx context.Context, operator domain.Actor) (*domain.Drawer, error) {
	return s.activeFn(ctx, operator)
}

func TestDrawerHandler_Create_Success(t *testing.T) {
	admin := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}

	var captured usecase.CreateDrawerInput
	handler := NewDrawerHandler(&drawerServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateDrawerInput) (*domain.Drawer, error) {
			captured = input
			return &domain.Drawer{ID: "drawer-1", Name: input.Name, Active: true}, nil
		},
	})

	body, _ := json.Marshal(dto.CreateDrawerRequest{
		Name:              "Front desk",
		LowBalanceAlertAt: decimal.NewFromInt(500),
	})
	req := httptest.NewRequest(http.MethodPost, "/drawers", bytes.NewReader(body))
	req = withActor(req, admin)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Name != "Front desk" || captured.Actor != admin {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.DrawerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Active {
		t.Fatalf("expected new drawer to be active, got %+v", resp)
	}
}

func TestDrawerHandler_Open_Occupied(t *testing.T) {
	handler := NewDrawerHandler(&drawerServiceStub{
		openFn: func(ctx context.Context, drawerID string, operator domain.Actor) error {
			return domain.ErrDrawerOccupied
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/drawers/drawer-1/open", nil)
	req = withActor(req, domain.Actor{ID: "op-2", Role: domain.RoleOperator})
	req = setChiURLParam(req, "id", "drawer-1")
	rec := httptest.NewRecorder()

	handler.Open(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestDrawerHandler_Active_NoDrawer(t *testing.T) {
	handler := NewDrawerHandler(&drawerServiceStub{
		activeFn: func(ctx context.Context, operator domain.Actor) (*domain.Drawer, error) {
			return nil, domain.ErrNoActiveDrawer
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/drawers/active", nil)
	req = withActor(req, domain.Actor{ID: "op-1", Role: domain.RoleOperator})
	rec := httptest.NewRecorder()

	handler.Active(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestDrawerHandler_Release(t *testing.T) {
	var released bool
	handler := NewDrawerHandler(&drawerServiceStub{
		releaseFn: func(ctx context.Context, operator domain.Actor) error {
			released = true
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/drawers/release", nil)
	req = withActor(req, domain.Actor{ID: "op-1", Role: domain.RoleOperator})
	rec := httptest.NewRecorder()

	handler.Release(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	if !released {
		t.Fatalf("expected release to be called")
	}
}

func TestDrawerHandler_SetThreshold(t *testing.T) {
	admin := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}

	handler := NewDrawerHandler(&drawerServiceStub{
		setThresholdFn: func(ctx context.Context, id string, threshold decimal.Decimal, actor domain.Actor) (*domain.Drawer, error) {
			if !threshold.Equal(decimal.NewFromInt(750)) {
				t.Fatalf("expected threshold 750, got %s", threshold)
			}
			return &domain.Drawer{ID: id, LowBalanceAlertAt: threshold}, nil
		},
	})

	body, _ := json.Marshal(dto.SetThresholdRequest{Threshold: decimal.NewFromInt(750)})
	req := httptest.NewRequest(http.MethodPut, "/drawers/drawer-1/threshold", bytes.NewReader(body))
	req = withActor(req, admin)
	req = setChiURLParam(req, "id", "drawer-1")
	rec := httptest.NewRecorder()

	handler.SetThreshold(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
