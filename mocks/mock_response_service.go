package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"voxform/internal/domain"
	"voxform/internal/export"
	"voxform/internal/service"
)

// MockResponseService is a mock implementation of service.ResponseService.
type MockResponseService struct {
	mock.Mock
}

func (m *MockResponseService) Submit(ctx context.Context, input *service.SubmitResponseInput) (*service.SubmitResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmitResult), args.Error(1)
}

func (m *MockResponseService) List(ctx context.Context, formID *uuid.UUID, offset, limit int) ([]domain.ResponseRecord, int, error) {
	args := m.Called(ctx, formID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ResponseRecord), args.Int(1), args.Error(2)
}

func (m *MockResponseService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ResponseRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResponseRecord), args.Error(1)
}

func (m *MockResponseService) ListByForm(ctx context.Context, formID uuid.UUID) ([]domain.ResponseRecord, error) {
	args := m.Called(ctx, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResponseRecord), args.Error(1)
}

func (m *MockResponseService) Export(ctx context.Context, formID uuid.UUID, format export.Format, w io.Writer) error {
	args := m.Called(ctx, formID, format, w)
	return args.Error(0)
}
