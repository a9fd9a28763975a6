package extraction

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	// ErrEmptyContent means the provider replied without any text.
	ErrEmptyContent = errors.New("no content received from completion provider")
	// ErrNotObject means the reply parsed as JSON but was not an object.
	ErrNotObject = errors.New("model output is not a JSON object")
	// ErrEmptySchema means a prompt was requested for a schema with no fields.
	ErrEmptySchema = errors.New("extraction schema has no fields")
	// ErrTemplate means the prompt template could not be loaded or is malformed.
	ErrTemplate = errors.New("invalid extraction prompt template")
)

// Stage identifies where an extraction attempt failed.
type Stage string

const (
	StagePrompt      Stage = "prompt"
	StageProvider    Stage = "provider"
	StageRateLimited Stage = "rate_limited"
	StageTimeout     Stage = "timeout"
	StageEmpty       Stage = "empty_content"
	StageParse       Stage = "parse"
)

// Failure is an extraction failure. It never leaves the Extractor; it is
// logged and replaced with a fallback result.
type Failure struct {
	Stage Stage
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("extraction failed at %s: %v", f.Stage, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// RateLimitError indicates a completion provider returned HTTP 429.
// RetryAfter is only reported; extraction never retries.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// DefaultRetryAfter is used when a provider sends no usable Retry-After header.
const DefaultRetryAfter = 60 * time.Second

// NewRateLimitError creates a RateLimitError, substituting DefaultRetryAfter
// for a non-positive retryAfter.
func NewRateLimitError(provider string, err error, retryAfter time.Duration) *RateLimitError {
	if retryAfter <= 0 {
		retryAfter = DefaultRetryAfter
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: retryAfter,
		Provider:   provider,
	}
}

// ParseRetryAfter reads a Retry-After header given either as delay seconds or
// as an HTTP date. It returns 0 for empty, malformed or past values.
func ParseRetryAfter(val string, now time.Time) time.Duration {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	at, err := http.ParseTime(val)
	if err != nil || !at.After(now) {
		return 0
	}
	return at.Sub(now).Round(time.Second)
}

// Truncate shortens s to at most maxLen bytes for log output without
// splitting a multi-byte character.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
