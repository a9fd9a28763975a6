package postgres_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxform/internal/domain"
	"voxform/internal/repository/postgres"
)

var responseCols = []string{
	"id", "form_id", "transcript", "extracted_data", "metadata", "user_agent", "created_at",
	"form.id", "form.title", "form.question", "form.extraction_schema",
}

const summarySchema = `{"score":{"type":"number"},"mood":{"type":"string"}}`

func TestResponseRepo_Create_DefaultsMetadata(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewResponseRepo(db)

	formID := uuid.New()
	rec := &domain.ResponseRecord{
		FormID:        formID,
		Transcript:    "great coffee",
		ExtractedData: domain.ExtractionResult{"aiProcessed": true},
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO responses")).
		WithArgs(sqlmock.AnyArg(), formID, "great coffee",
			[]byte(`{"aiProcessed":true}`), []byte(`{}`), nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), rec))
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.NotNil(t, rec.Metadata)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponseRepo_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewResponseRepo(db)

	id, formID := uuid.New(), uuid.New()
	rows := sqlmock.NewRows(responseCols).AddRow(
		id.String(), formID.String(), "hello",
		`{"fallback":true,"wordCount":1}`, `{"source":"kiosk"}`, "Mozilla/5.0", time.Now().UTC(),
		formID.String(), "Coffee", "How was it?", summarySchema)

	mock.ExpectQuery(regexp.QuoteMeta("FROM responses r JOIN forms f ON f.id = r.form_id WHERE r.id = $1")).
		WithArgs(id).
		WillReturnRows(rows)

	rec, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, formID, rec.FormID)
	assert.True(t, rec.ExtractedData.IsFallback())
	assert.Equal(t, "kiosk", rec.Metadata["source"])
	require.NotNil(t, rec.UserAgent)
	assert.Equal(t, "Mozilla/5.0", *rec.UserAgent)
	require.NotNil(t, rec.Form)
	assert.Equal(t, formID, rec.Form.ID)
	assert.Equal(t, "Coffee", rec.Form.Title)
	assert.Equal(t, "How was it?", rec.Form.Question)
	assert.Equal(t, []string{"score", "mood"}, rec.Form.ExtractionSchema.Names())
}

func TestResponseRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewResponseRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.id = $1")).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrResponseNotFound)
}

func TestResponseRepo_List_FilteredByForm(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewResponseRepo(db)
	formID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM responses WHERE form_id = $1")).
		WithArgs(formID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("JOIN forms f ON f.id = r.form_id WHERE r.form_id = $1 ORDER BY r.created_at DESC LIMIT $2 OFFSET $3")).
		WithArgs(formID, 2, 0).
		WillReturnRows(sqlmock.NewRows(responseCols).
			AddRow(uuid.NewString(), formID.String(), "one", `{}`, `{}`, nil, time.Now(), formID.String(), "Coffee", "Q", summarySchema).
			AddRow(uuid.NewString(), formID.String(), "two", `{}`, `{}`, nil, time.Now(), formID.String(), "Coffee", "Q", summarySchema))

	records, total, err := repo.List(context.Background(), &formID, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, records, 2)
	assert.Nil(t, records[0].UserAgent)
	require.NotNil(t, records[1].Form)
	assert.Equal(t, "Coffee", records[1].Form.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponseRepo_List_All(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewResponseRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM responses")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("JOIN forms f ON f.id = r.form_id ORDER BY r.created_at DESC LIMIT $1 OFFSET $2")).
		WithArgs(20, 40).
		WillReturnRows(sqlmock.NewRows(responseCols))

	records, total, err := repo.List(context.Background(), nil, 40, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponseRepo_ListByForm(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewResponseRepo(db)
	formID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.form_id = $1 ORDER BY r.created_at DESC")).
		WithArgs(formID).
		WillReturnRows(sqlmock.NewRows(responseCols).
			AddRow(uuid.NewString(), formID.String(), "newest", `{"aiProcessed":true}`, `{}`, nil, time.Now(),
				formID.String(), "Coffee", "Q", summarySchema))

	records, err := repo.ListByForm(context.Background(), formID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "newest", records[0].Transcript)
	assert.True(t, records[0].ExtractedData.IsAIProcessed())
}
