package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"voxform/internal/domain"
)

// MockResponseRepo is a mock implementation of port.ResponseRepository.
type MockResponseRepo struct {
	mock.Mock
}

func (m *MockResponseRepo) Create(ctx context.Context, record *domain.ResponseRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockResponseRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ResponseRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResponseRecord), args.Error(1)
}

func (m *MockResponseRepo) List(ctx context.Context, formID *uuid.UUID, offset, limit int) ([]domain.ResponseRecord, int, error) {
	args := m.Called(ctx, formID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ResponseRecord), args.Int(1), args.Error(2)
}

func (m *MockResponseRepo) ListByForm(ctx context.Context, formID uuid.UUID) ([]domain.ResponseRecord, error) {
	args := m.Called(ctx, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResponseRecord), args.Error(1)
}
