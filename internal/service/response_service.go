package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voxform/internal/domain"
	"voxform/internal/export"
	"voxform/internal/metrics"
	"voxform/internal/port"
)

// SubmitSuccessMessage is returned with every accepted submission.
const SubmitSuccessMessage = "Response submitted and processed successfully"

// SubmitResponseInput is the DTO for submitting a spoken response.
type SubmitResponseInput struct {
	FormID     uuid.UUID
	Transcript string
	Metadata   map[string]interface{}
	UserAgent  *string
}

// SubmitResult is returned to the submitter.
type SubmitResult struct {
	ID             uuid.UUID               `json:"id"`
	Transcript     string                  `json:"transcript"`
	ExtractedData  domain.ExtractionResult `json:"extracted_data"`
	Message        string                  `json:"message"`
	ProcessingTime int64                   `json:"processing_time_ms"`
}

// ResponseService defines the response submission and query contract.
type ResponseService interface {
	Submit(ctx context.Context, input *SubmitResponseInput) (*SubmitResult, error)
	List(ctx context.Context, formID *uuid.UUID, offset, limit int) ([]domain.ResponseRecord, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ResponseRecord, error)
	ListByForm(ctx context.Context, formID uuid.UUID) ([]domain.ResponseRecord, error)
	Export(ctx context.Context, formID uuid.UUID, format export.Format, w io.Writer) error
}

type responseService struct {
	formRepo     port.FormRepository
	responseRepo port.ResponseRepository
	extractor    port.TranscriptExtractor
	logger       *zap.Logger
}

// NewResponseService creates a new ResponseService implementation.
func NewResponseService(
	formRepo port.FormRepository,
	responseRepo port.ResponseRepository,
	extractor port.TranscriptExtractor,
	logger *zap.Logger,
) ResponseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &responseService{
		formRepo:     formRepo,
		responseRepo: responseRepo,
		extractor:    extractor,
		logger:       logger.Named("responses"),
	}
}

// Submit looks up the form, rejects inactive forms, extracts structured data
// and stores the response. Extraction problems never fail a submission.
func (s *responseService) Submit(ctx context.Context, input *SubmitResponseInput) (*SubmitResult, error) {
	start := time.Now()

	form, err := s.formRepo.GetByID(ctx, input.FormID)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues(submitOutcome(err)).Inc()
		return nil, err
	}
	if !form.IsActive {
		metrics.SubmissionsTotal.WithLabelValues("form_inactive").Inc()
		return nil, domain.ErrFormInactive
	}

	// The submitter hanging up must not lose an already spoken response.
	ctx = context.WithoutCancel(ctx)

	extracted := s.extractor.Extract(ctx, form.ExtractionRequest(input.Transcript))

	metadata := domain.JSONMap(input.Metadata)
	if metadata == nil {
		metadata = domain.JSONMap{}
	}
	record := &domain.ResponseRecord{
		FormID:        form.ID,
		Transcript:    input.Transcript,
		ExtractedData: extracted,
		Metadata:      metadata,
		UserAgent:     input.UserAgent,
	}
	if err := s.responseRepo.Create(ctx, record); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("storing response: %w", err)
	}

	elapsed := time.Since(start)
	metrics.SubmissionsTotal.WithLabelValues("accepted").Inc()
	s.logger.Info("response submitted",
		zap.String("response_id", record.ID.String()),
		zap.String("form_id", form.ID.String()),
		zap.Bool("ai_processed", extracted.IsAIProcessed()),
		zap.Duration("elapsed", elapsed),
	)

	return &SubmitResult{
		ID:             record.ID,
		Transcript:     record.Transcript,
		ExtractedData:  record.ExtractedData,
		Message:        SubmitSuccessMessage,
		ProcessingTime: elapsed.Milliseconds(),
	}, nil
}

func submitOutcome(err error) string {
	if errors.Is(err, domain.ErrFormNotFound) {
		return "form_not_found"
	}
	return "error"
}

func (s *responseService) List(ctx context.Context, formID *uuid.UUID, offset, limit int) ([]domain.ResponseRecord, int, error) {
	return s.responseRepo.List(ctx, formID, offset, limit)
}

func (s *responseService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ResponseRecord, error) {
	return s.responseRepo.GetByID(ctx, id)
}

func (s *responseService) ListByForm(ctx context.Context, formID uuid.UUID) ([]domain.ResponseRecord, error) {
	if _, err := s.formRepo.GetByID(ctx, formID); err != nil {
		return nil, err
	}
	return s.responseRepo.ListByForm(ctx, formID)
}

// Export writes every response of a form, newest first, in the given format.
func (s *responseService) Export(ctx context.Context, formID uuid.UUID, format export.Format, w io.Writer) error {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return err
	}
	records, err := s.responseRepo.ListByForm(ctx, formID)
	if err != nil {
		return err
	}
	if err := export.Write(w, format, form.ExtractionSchema, records); err != nil {
		return fmt.Errorf("exporting responses: %w", err)
	}
	s.logger.Info("responses exported",
		zap.String("form_id", formID.String()),
		zap.String("format", string(format)),
		zap.Int("count", len(records)),
	)
	return nil
}
