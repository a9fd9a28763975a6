package extraction

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"voxform/internal/domain"
)

// FallbackReason is recorded in the error field of every fallback result.
const FallbackReason = "AI extraction failed, using fallback data"

const (
	maxKeyTopics   = 5
	minTopicLength = 4
)

var nonWordRe = regexp.MustCompile(`[^\w\s]`)

// stopWords are common English function words never reported as topics.
var stopWords = map[string]bool{
	"the": true, "and": true, "or": true, "but": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "with": true, "by": true,
	"is": true, "are": true, "was": true, "were": true, "be": true, "been": true,
	"have": true, "has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true,
	"might": true, "must": true, "can": true, "a": true, "an": true,
	"this": true, "that": true, "these": true, "those": true,
}

// Fallback builds a schema-agnostic analysis of the transcript for use when the
// completion model is unavailable. It does not try to fill the form's fields.
func Fallback(req domain.ExtractionRequest, now time.Time) domain.ExtractionResult {
	return domain.ExtractionResult{
		domain.KeyProcessed: true,
		domain.KeyFallback:  true,
		domain.KeyTimestamp: now.UTC().Format(time.RFC3339),
		domain.KeyWordCount: domain.WordCount(req.Transcript),
		domain.KeyError:     FallbackReason,
		domain.KeyBasicAnalysis: map[string]interface{}{
			"sentiment":  "neutral",
			"keyTopics":  KeyTopics(req.Transcript),
			"hasContent": strings.TrimSpace(req.Transcript) != "",
		},
	}
}

// KeyTopics returns up to five of the most frequent words in the transcript,
// ignoring stop words and words of three characters or fewer. Words with equal
// counts keep the order in which they first appear.
func KeyTopics(transcript string) []string {
	normalized := nonWordRe.ReplaceAllString(strings.ToLower(transcript), " ")

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, word := range strings.Fields(normalized) {
		if len(word) < minTopicLength || stopWords[word] {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxKeyTopics {
		order = order[:maxKeyTopics]
	}
	return order
}
