package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"voxform/internal/domain"
)

// MockFormRepo is a mock implementation of port.FormRepository.
type MockFormRepo struct {
	mock.Mock
}

func (m *MockFormRepo) Create(ctx context.Context, form *domain.Form) error {
	args := m.Called(ctx, form)
	return args.Error(0)
}

func (m *MockFormRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Form), args.Error(1)
}

func (m *MockFormRepo) List(ctx context.Context, ownerID *uuid.UUID) ([]domain.Form, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Form), args.Error(1)
}

func (m *MockFormRepo) Update(ctx context.Context, form *domain.Form) error {
	args := m.Called(ctx, form)
	return args.Error(0)
}

func (m *MockFormRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
