package port

import (
	"context"

	"voxform/internal/domain"
)

// CompletionRequest carries one structured-completion call.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
	JSONMode     bool // ask the provider to constrain output to a JSON object when supported
}

// CompletionResponse is the provider's reply. Content is nil when the reply carried no text.
type CompletionResponse struct {
	Content *string
	Model   string
}

// CompletionProvider abstracts an external structured-text-generation service.
type CompletionProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// TranscriptExtractor turns a transcript into structured data. Implementations
// never fail; provider problems are absorbed into a fallback result.
type TranscriptExtractor interface {
	Extract(ctx context.Context, req domain.ExtractionRequest) domain.ExtractionResult
}
