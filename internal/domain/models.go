package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Form is a survey question that collects voice responses and describes
// which structured fields to extract from them.
type Form struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	Title            string           `db:"title" json:"title"`
	Description      string           `db:"description" json:"description"`
	Question         string           `db:"question" json:"question"`
	ExtractionSchema ExtractionSchema `db:"extraction_schema" json:"extraction_schema"`
	UIHints          StringList       `db:"ui_hints" json:"ui_hints"`
	IsActive         bool             `db:"is_active" json:"is_active"`
	OwnerID          uuid.UUID        `db:"owner_id" json:"owner_id"`
	ResponseCount    int              `db:"response_count" json:"response_count"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// ExtractionRequest builds the extraction input for a transcript submitted to this form.
func (f *Form) ExtractionRequest(transcript string) ExtractionRequest {
	return ExtractionRequest{
		Transcript:   transcript,
		FormID:       f.ID.String(),
		FormTitle:    f.Title,
		FormQuestion: f.Question,
		Schema:       f.ExtractionSchema,
	}
}

// ResponseRecord is one persisted submission with its extracted data.
// Form is filled on reads only.
type ResponseRecord struct {
	ID            uuid.UUID        `db:"id" json:"id"`
	FormID        uuid.UUID        `db:"form_id" json:"form_id"`
	Transcript    string           `db:"transcript" json:"transcript"`
	ExtractedData ExtractionResult `db:"extracted_data" json:"extracted_data"`
	Metadata      JSONMap          `db:"metadata" json:"metadata"`
	UserAgent     *string          `db:"user_agent" json:"user_agent"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	Form          *FormSummary     `db:"form" json:"form,omitempty"`
}

// FormSummary is the part of a form returned alongside its responses.
type FormSummary struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	Title            string           `db:"title" json:"title"`
	Question         string           `db:"question" json:"question"`
	ExtractionSchema ExtractionSchema `db:"extraction_schema" json:"extraction_schema"`
}

// JSONMap is a free-form JSON object stored as JSONB.
type JSONMap map[string]interface{}

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]interface{}(m))
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(src interface{}) error {
	b, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("scanning json map: %w", err)
	}
	if b == nil {
		*m = nil
		return nil
	}
	return json.Unmarshal(b, (*map[string]interface{})(m))
}

// StringList is a list of strings stored as a JSONB array.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	b, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("scanning string list: %w", err)
	}
	if b == nil {
		*l = nil
		return nil
	}
	return json.Unmarshal(b, (*[]string)(l))
}

func jsonBytes(src interface{}) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", src)
	}
}
