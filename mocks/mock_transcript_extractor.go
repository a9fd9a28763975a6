package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"voxform/internal/domain"
)

// MockTranscriptExtractor is a mock implementation of port.TranscriptExtractor.
type MockTranscriptExtractor struct {
	mock.Mock
}

func (m *MockTranscriptExtractor) Extract(ctx context.Context, req domain.ExtractionRequest) domain.ExtractionResult {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(domain.ExtractionResult)
}
