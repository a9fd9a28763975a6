package extraction

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"voxform/internal/domain"
)

// Template markers. Each must occur exactly once in a template.
const (
	MarkerSchema     = "{extractionSchema}"
	MarkerQuestion   = "{formQuestion}"
	MarkerTranscript = "{transcript}"
)

//go:embed templates/extraction_prompt.txt
var defaultTemplate string

// PromptBuilder renders the extraction prompt for a request.
type PromptBuilder struct {
	template string
}

// NewPromptBuilder validates a template and returns a builder for it.
func NewPromptBuilder(template string) (*PromptBuilder, error) {
	for _, marker := range []string{MarkerSchema, MarkerQuestion, MarkerTranscript} {
		if n := strings.Count(template, marker); n != 1 {
			return nil, fmt.Errorf("%w: marker %s occurs %d times, want 1", ErrTemplate, marker, n)
		}
	}
	return &PromptBuilder{template: template}, nil
}

// LoadPromptBuilder reads the template at path, or uses the built-in template
// when path is empty. Callers treat any error as fatal at startup.
func LoadPromptBuilder(path string) (*PromptBuilder, error) {
	if path == "" {
		return NewPromptBuilder(defaultTemplate)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrTemplate, path, err)
	}
	return NewPromptBuilder(string(b))
}

// Build substitutes the indented schema, the form question and the verbatim
// transcript into the template. Substituted text is never rescanned for markers.
func (b *PromptBuilder) Build(req domain.ExtractionRequest) (string, error) {
	if len(req.Schema) == 0 {
		return "", ErrEmptySchema
	}
	schemaJSON, err := IndentSchema(req.Schema)
	if err != nil {
		return "", fmt.Errorf("serializing schema: %w", err)
	}
	r := strings.NewReplacer(
		MarkerSchema, schemaJSON,
		MarkerQuestion, req.FormQuestion,
		MarkerTranscript, req.Transcript,
	)
	return r.Replace(b.template), nil
}

// IndentSchema serializes a schema as JSON indented by two spaces.
func IndentSchema(schema domain.ExtractionSchema) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(schema); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
