package services

import (
	"context"
	"errors"

	"github.com/zapstore/chat-gateway/internal/model"
	"github.com/zapstore/chat-gateway/internal/repository"
)

type CustomerRepository interface {
	Create(ctx context.Context, m *model.Customer) error
	FindByPhone(ctx context.Context, phone string) (*model.Customer, error)
	Update(ctx context.Context, m *model.Customer) error
}

// IdentityService maps a sender id onto a Customer, creating one on first
// contact. Normalization runs before lookup so formatting differences from
// the provider never mint duplicate customers.
type IdentityService struct {
	customers CustomerRepository
}

func NewIdentityService(customers CustomerRepository) *IdentityService {
	return &IdentityService{
		customers: customers,
	}
}

func (s *IdentityService) Resolve(ctx context.Context, senderID, profileName string) (*model.Customer, error) {
	phone, err := model.NormalizePhone(senderID)
	if err != nil {
		return nil, err
	}

	customer, err := s.customers.FindByPhone(ctx, phone)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, repository.ErrCustomerNotFound) {
		return nil, err
	}

	customer, err = model.NewCustomer(phone, profileName)
	if err != nil {
		return nil, err
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		// Lost the race against a concurrent first contact, the row is there.
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return s.customers.FindByPhone(ctx, phone)
		}
		return nil, err
	}
	return customer, nil
}
