package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dlshad/drawerledger/internal/domain"
)

// CustomerUseCase is the default CustomerDirectory implementation: lookup by
// id, lookup by phone, or implicit creation when only a phone is known.
type CustomerUseCase struct {
	customerRepo CustomerRepository
	idGen        IDGenerator
}

// NewCustomerUseCase creates a new CustomerUseCase.
func NewCustomerUseCase(customerRepo CustomerRepository, idGen IDGenerator) *CustomerUseCase {
	return &CustomerUseCase{
		customerRepo: customerRepo,
		idGen:        idGen,
	}
}

// Resolve finds or creates the customer a settlement refers to. An explicit
// id must exist; a phone is looked up and auto-created on miss.
func (uc *CustomerUseCase) Resolve(ctx context.Context, ref domain.CustomerRef) (*domain.Customer, error) {
	if ref.ID != "" {
		return uc.customerRepo.GetByID(ctx, ref.ID)
	}

	phone := strings.TrimSpace(ref.Phone)
	if err := domain.ValidatePhone(phone); err != nil {
		return nil, err
	}

	customer, err := uc.customerRepo.GetByPhone(ctx, phone)
	if err == nil {
		return customer, nil
	}

	if !errors.Is(err, domain.ErrCustomerNotFound) {
		return nil, err
	}

	now := time.Now().UTC()

	customer = &domain.Customer{
		ID:        uc.idGen.Generate(),
		Name:      strings.TrimSpace(ref.Name),
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by id.
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return uc.customerRepo.GetByID(ctx, id)
}
