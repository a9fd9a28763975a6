package port

import (
	"context"

	"github.com/google/uuid"

	"voxform/internal/domain"
)

// ResponseRepository defines the contract for response record persistence.
type ResponseRepository interface {
	Create(ctx context.Context, record *domain.ResponseRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ResponseRecord, error)
	List(ctx context.Context, formID *uuid.UUID, offset, limit int) ([]domain.ResponseRecord, int, error)
	ListByForm(ctx context.Context, formID uuid.UUID) ([]domain.ResponseRecord, error)
}
