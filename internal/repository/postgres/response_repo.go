package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"voxform/internal/domain"
	"voxform/internal/port"
)

const responseColumns = "id, form_id, transcript, extracted_data, metadata, user_agent, created_at"

// responseSelect reads responses joined with a summary of their form.
const responseSelect = `SELECT r.id, r.form_id, r.transcript, r.extracted_data, r.metadata, r.user_agent, r.created_at,
	f.id AS "form.id", f.title AS "form.title", f.question AS "form.question",
	f.extraction_schema AS "form.extraction_schema"
FROM responses r JOIN forms f ON f.id = r.form_id`

type responseRepo struct {
	db *sqlx.DB
}

// NewResponseRepo creates a new PostgreSQL-backed ResponseRepository.
func NewResponseRepo(db *sqlx.DB) port.ResponseRepository {
	return &responseRepo{db: db}
}

func (r *responseRepo) Create(ctx context.Context, rec *domain.ResponseRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = time.Now().UTC()
	if rec.Metadata == nil {
		rec.Metadata = domain.JSONMap{}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO responses (`+responseColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.FormID, rec.Transcript, rec.ExtractedData, rec.Metadata, rec.UserAgent, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("responseRepo.Create: %w", err)
	}
	return nil
}

func (r *responseRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ResponseRecord, error) {
	var rec domain.ResponseRecord
	err := r.db.GetContext(ctx, &rec,
		responseSelect+" WHERE r.id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrResponseNotFound
		}
		return nil, fmt.Errorf("responseRepo.GetByID: %w", err)
	}
	return &rec, nil
}

func (r *responseRepo) List(ctx context.Context, formID *uuid.UUID, offset, limit int) ([]domain.ResponseRecord, int, error) {
	where, args := "", []interface{}{}
	if formID != nil {
		where, args = " WHERE form_id = $1", append(args, *formID)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM responses"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("responseRepo.List count: %w", err)
	}

	n := len(args)
	if formID != nil {
		where = " WHERE r.form_id = $1"
	}
	query := fmt.Sprintf("%s%s ORDER BY r.created_at DESC LIMIT $%d OFFSET $%d",
		responseSelect, where, n+1, n+2)
	records := []domain.ResponseRecord{}
	if err := r.db.SelectContext(ctx, &records, query, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("responseRepo.List: %w", err)
	}
	return records, total, nil
}

func (r *responseRepo) ListByForm(ctx context.Context, formID uuid.UUID) ([]domain.ResponseRecord, error) {
	records := []domain.ResponseRecord{}
	err := r.db.SelectContext(ctx, &records,
		responseSelect+" WHERE r.form_id = $1 ORDER BY r.created_at DESC", formID)
	if err != nil {
		return nil, fmt.Errorf("responseRepo.ListByForm: %w", err)
	}
	return records, nil
}
