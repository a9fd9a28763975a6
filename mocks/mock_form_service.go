package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"voxform/internal/domain"
	"voxform/internal/service"
)

// MockFormService is a mock implementation of service.FormService.
type MockFormService struct {
	mock.Mock
}

func (m *MockFormService) Create(ctx context.Context, input *service.CreateFormInput) (*domain.Form, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Form), args.Error(1)
}

func (m *MockFormService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Form), args.Error(1)
}

func (m *MockFormService) List(ctx context.Context, ownerID *uuid.UUID) ([]domain.Form, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Form), args.Error(1)
}

func (m *MockFormService) Update(ctx context.Context, id uuid.UUID, input *service.UpdateFormInput) (*domain.Form, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Form), args.Error(1)
}

func (m *MockFormService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
