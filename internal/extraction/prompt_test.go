package extraction_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxform/internal/domain"
	"voxform/internal/extraction"
)

func ptr(f float64) *float64 { return &f }

func satisfactionSchema() domain.ExtractionSchema {
	return domain.ExtractionSchema{
		{Name: "satisfaction", Spec: domain.FieldSpec{Type: domain.FieldKindNumber, Min: ptr(1), Max: ptr(10)}},
		{Name: "mood", Spec: domain.FieldSpec{Type: domain.FieldKindString, Enum: []string{"happy", "sad"}}},
		{Name: "topics", Spec: domain.FieldSpec{Type: domain.FieldKindArray, Items: &domain.ItemSpec{Type: domain.FieldKindString}}},
	}
}

func TestLoadPromptBuilder_EmbeddedDefault(t *testing.T) {
	b, err := extraction.LoadPromptBuilder("")
	require.NoError(t, err)
	assert.NotNil(t, b)
}

func TestLoadPromptBuilder_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("Q={formQuestion} S={extractionSchema} T={transcript}"), 0o600))

	b, err := extraction.LoadPromptBuilder(path)
	require.NoError(t, err)

	out, err := b.Build(domain.ExtractionRequest{
		Transcript:   "hello",
		FormQuestion: "How?",
		Schema:       domain.ExtractionSchema{{Name: "x", Spec: domain.FieldSpec{Type: domain.FieldKindString}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Q=How? S={\n  \"x\": {\n    \"type\": \"string\"\n  }\n} T=hello", out)
}

func TestLoadPromptBuilder_MissingFile(t *testing.T) {
	_, err := extraction.LoadPromptBuilder(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, extraction.ErrTemplate)
}

func TestNewPromptBuilder_MarkerCounts(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{"missing schema", "{formQuestion} {transcript}"},
		{"missing question", "{extractionSchema} {transcript}"},
		{"missing transcript", "{extractionSchema} {formQuestion}"},
		{"duplicate transcript", "{extractionSchema} {formQuestion} {transcript} {transcript}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extraction.NewPromptBuilder(tt.template)
			assert.ErrorIs(t, err, extraction.ErrTemplate)
		})
	}
}

func TestPromptBuilder_Build_ContainsIndentedSchemaAndInputs(t *testing.T) {
	b, err := extraction.LoadPromptBuilder("")
	require.NoError(t, err)

	req := domain.ExtractionRequest{
		Transcript:   "I'd give it an 8, it was great",
		FormQuestion: "How satisfied were you?",
		Schema:       satisfactionSchema(),
	}
	prompt, err := b.Build(req)
	require.NoError(t, err)

	indented, err := extraction.IndentSchema(req.Schema)
	require.NoError(t, err)

	assert.Contains(t, prompt, indented)
	assert.Contains(t, prompt, req.FormQuestion)
	assert.Contains(t, prompt, req.Transcript)
	assert.NotContains(t, prompt, extraction.MarkerSchema)
	assert.NotContains(t, prompt, extraction.MarkerQuestion)
	assert.NotContains(t, prompt, extraction.MarkerTranscript)

	// field order survives serialization
	iSat := strings.Index(indented, `"satisfaction"`)
	iMood := strings.Index(indented, `"mood"`)
	iTopics := strings.Index(indented, `"topics"`)
	assert.True(t, iSat < iMood && iMood < iTopics)
}

func TestPromptBuilder_Build_DoesNotRescanSubstitutions(t *testing.T) {
	b, err := extraction.NewPromptBuilder("{formQuestion}|{transcript}|{extractionSchema}")
	require.NoError(t, err)

	out, err := b.Build(domain.ExtractionRequest{
		Transcript:   "I said {formQuestion} out loud",
		FormQuestion: "Say {transcript}",
		Schema:       domain.ExtractionSchema{{Name: "x", Spec: domain.FieldSpec{Type: domain.FieldKindString}}},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Say {transcript}|I said {formQuestion} out loud|"))
}

func TestPromptBuilder_Build_EmptySchema(t *testing.T) {
	b, err := extraction.LoadPromptBuilder("")
	require.NoError(t, err)

	_, err = b.Build(domain.ExtractionRequest{Transcript: "hi"})
	assert.ErrorIs(t, err, extraction.ErrEmptySchema)
}

func TestIndentSchema_NoHTMLEscaping(t *testing.T) {
	schema := domain.ExtractionSchema{
		{Name: "rating", Spec: domain.FieldSpec{Type: domain.FieldKindString, Guidance: "use <low> & <high>"}},
	}
	out, err := extraction.IndentSchema(schema)
	require.NoError(t, err)
	assert.Contains(t, out, "use <low> & <high>")
	assert.False(t, strings.HasSuffix(out, "\n"))
}
