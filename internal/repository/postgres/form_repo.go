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

const formSelect = `SELECT f.id, f.title, f.description, f.question, f.extraction_schema, f.ui_hints,
		f.is_active, f.owner_id, f.created_at, f.updated_at,
		(SELECT COUNT(*) FROM responses r WHERE r.form_id = f.id) AS response_count
	FROM forms f`

type formRepo struct {
	db *sqlx.DB
}

// NewFormRepo creates a new PostgreSQL-backed FormRepository.
func NewFormRepo(db *sqlx.DB) port.FormRepository {
	return &formRepo{db: db}
}

func (r *formRepo) Create(ctx context.Context, f *domain.Form) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now

	query := `INSERT INTO forms (id, title, description, question, extraction_schema, ui_hints, is_active, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		f.ID, f.Title, f.Description, f.Question, f.ExtractionSchema, f.UIHints,
		f.IsActive, f.OwnerID, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("formRepo.Create: %w", err)
	}
	return nil
}

func (r *formRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
	var f domain.Form
	err := r.db.GetContext(ctx, &f, formSelect+" WHERE f.id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFormNotFound
		}
		return nil, fmt.Errorf("formRepo.GetByID: %w", err)
	}
	return &f, nil
}

func (r *formRepo) List(ctx context.Context, ownerID *uuid.UUID) ([]domain.Form, error) {
	forms := []domain.Form{}
	var err error
	if ownerID != nil {
		err = r.db.SelectContext(ctx, &forms,
			formSelect+" WHERE f.owner_id = $1 ORDER BY f.created_at DESC", *ownerID)
	} else {
		err = r.db.SelectContext(ctx, &forms, formSelect+" ORDER BY f.created_at DESC")
	}
	if err != nil {
		return nil, fmt.Errorf("formRepo.List: %w", err)
	}
	return forms, nil
}

func (r *formRepo) Update(ctx context.Context, f *domain.Form) error {
	f.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE forms SET title = $1, description = $2, question = $3, extraction_schema = $4,
			ui_hints = $5, is_active = $6, updated_at = $7
		 WHERE id = $8`,
		f.Title, f.Description, f.Question, f.ExtractionSchema, f.UIHints, f.IsActive, f.UpdatedAt, f.ID)
	if err != nil {
		return fmt.Errorf("formRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrFormNotFound
	}
	return nil
}

func (r *formRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM forms WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("formRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrFormNotFound
	}
	return nil
}
