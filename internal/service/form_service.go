package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voxform/internal/domain"
	"voxform/internal/port"
)

// CreateFormInput is the DTO for creating a form.
type CreateFormInput struct {
	OwnerID          uuid.UUID
	Title            string
	Description      string
	Question         string
	ExtractionSchema domain.ExtractionSchema
	UIHints          []string
}

// UpdateFormInput is the DTO for a partial form update. Nil fields are left unchanged.
type UpdateFormInput struct {
	Title            *string
	Description      *string
	Question         *string
	ExtractionSchema *domain.ExtractionSchema
	UIHints          *[]string
	IsActive         *bool
}

// FormService defines the form management contract.
type FormService interface {
	Create(ctx context.Context, input *CreateFormInput) (*domain.Form, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Form, error)
	List(ctx context.Context, ownerID *uuid.UUID) ([]domain.Form, error)
	Update(ctx context.Context, id uuid.UUID, input *UpdateFormInput) (*domain.Form, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type formService struct {
	formRepo port.FormRepository
	logger   *zap.Logger
}

// NewFormService creates a new FormService implementation.
func NewFormService(formRepo port.FormRepository, logger *zap.Logger) FormService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &formService{formRepo: formRepo, logger: logger.Named("forms")}
}

func (s *formService) Create(ctx context.Context, input *CreateFormInput) (*domain.Form, error) {
	if err := input.ExtractionSchema.Validate(); err != nil {
		return nil, err
	}

	form := &domain.Form{
		ID:               uuid.New(),
		Title:            input.Title,
		Description:      input.Description,
		Question:         input.Question,
		ExtractionSchema: input.ExtractionSchema,
		UIHints:          domain.StringList(input.UIHints),
		IsActive:         true,
		OwnerID:          input.OwnerID,
	}
	if err := s.formRepo.Create(ctx, form); err != nil {
		return nil, fmt.Errorf("creating form: %w", err)
	}

	s.logger.Info("form created",
		zap.String("form_id", form.ID.String()),
		zap.String("owner_id", form.OwnerID.String()),
		zap.Int("fields", len(form.ExtractionSchema)),
	)
	return form, nil
}

func (s *formService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
	return s.formRepo.GetByID(ctx, id)
}

func (s *formService) List(ctx context.Context, ownerID *uuid.UUID) ([]domain.Form, error) {
	return s.formRepo.List(ctx, ownerID)
}

func (s *formService) Update(ctx context.Context, id uuid.UUID, input *UpdateFormInput) (*domain.Form, error) {
	form, err := s.formRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		form.Title = *input.Title
	}
	if input.Description != nil {
		form.Description = *input.Description
	}
	if input.Question != nil {
		form.Question = *input.Question
	}
	if input.ExtractionSchema != nil {
		if err := input.ExtractionSchema.Validate(); err != nil {
			return nil, err
		}
		form.ExtractionSchema = *input.ExtractionSchema
	}
	if input.UIHints != nil {
		form.UIHints = domain.StringList(*input.UIHints)
	}
	if input.IsActive != nil {
		form.IsActive = *input.IsActive
	}

	if err := s.formRepo.Update(ctx, form); err != nil {
		return nil, err
	}
	return form, nil
}

func (s *formService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.formRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("form deleted", zap.String("form_id", id.String()))
	return nil
}
