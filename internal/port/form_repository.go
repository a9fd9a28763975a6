package port

import (
	"context"

	"github.com/google/uuid"

	"voxform/internal/domain"
)

// FormRepository defines the contract for form persistence.
type FormRepository interface {
	Create(ctx context.Context, form *domain.Form) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Form, error)
	// List returns all forms, or only those owned by ownerID when it is non-nil.
	List(ctx context.Context, ownerID *uuid.UUID) ([]domain.Form, error)
	Update(ctx context.Context, form *domain.Form) error
	Delete(ctx context.Context, id uuid.UUID) error
}
