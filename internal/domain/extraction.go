package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Bookkeeping keys added to every ExtractionResult.
const (
	KeyAIProcessed   = "aiProcessed"
	KeyFallback      = "fallback"
	KeyProcessedAt   = "processedAt"
	KeyTimestamp     = "timestamp"
	KeyWordCount     = "wordCount"
	KeyProcessed     = "processed"
	KeyError         = "error"
	KeyBasicAnalysis = "basicAnalysis"
)

// ExtractionRequest is the input to one extraction. It is built per submission
// and never mutated.
type ExtractionRequest struct {
	Transcript   string
	FormID       string
	FormTitle    string
	FormQuestion string
	Schema       ExtractionSchema
}

// ExtractionResult maps extracted field names to JSON-compatible values plus
// provenance bookkeeping. Exactly one of aiProcessed or fallback is true.
type ExtractionResult map[string]interface{}

// IsAIProcessed reports whether the result came from the completion model.
func (r ExtractionResult) IsAIProcessed() bool {
	v, _ := r[KeyAIProcessed].(bool)
	return v
}

// IsFallback reports whether the result came from the local fallback analysis.
func (r ExtractionResult) IsFallback() bool {
	v, _ := r[KeyFallback].(bool)
	return v
}

// Value implements driver.Valuer for JSONB storage.
func (r ExtractionResult) Value() (driver.Value, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]interface{}(r))
}

// Scan implements sql.Scanner for JSONB columns.
func (r *ExtractionResult) Scan(src interface{}) error {
	b, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("scanning extracted data: %w", err)
	}
	if b == nil {
		*r = nil
		return nil
	}
	return json.Unmarshal(b, (*map[string]interface{})(r))
}

// WordCount counts whitespace-delimited tokens in a transcript.
func WordCount(transcript string) int {
	return len(strings.Fields(transcript))
}
