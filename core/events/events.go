// Package events filters page prose for baseball-relevant narrative and turns it into
// classified notable events.
package events

import (
	"log/slog"

	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/schema"
)

// MinDescription is the shortest description kept.
const MinDescription = 30

// Extractor applies the relevance filters to the text blocks of one page.
type Extractor struct {
	logger *slog.Logger
}

// New returns an Extractor that reports rejected blocks at debug level.
func New(logger *slog.Logger) *Extractor {
	return &Extractor{logger: contract.OrDiscard(logger)}
}

// Extract returns the notable events found in the blocks of one season page.
// Filters run in order: length, duplicate, boilerplate, baseball relevance,
// and the non-baseball denylist, which the historical allowlist overrides.
func (e *Extractor) Extract(year int, blocks []string) []schema.EventRecord {
	seen := make(map[string]struct{}, len(blocks))
	var out []schema.EventRecord

	for _, block := range blocks {
		text := Clean(block)
		reason := ""
		switch {
		case len(text) < MinDescription:
			reason = "too short"
		case isDuplicate(seen, text):
			reason = "duplicate"
		case IsBoilerplate(text):
			reason = "boilerplate"
		case !IsBaseball(text):
			reason = "not baseball"
		case IsOffTopic(text):
			reason = "off topic"
		}
		if reason != "" {
			e.logger.Debug("text block skipped", "year", year, "reason", reason, "text", contract.TruncateText(text, 60))
			continue
		}

		seen[text] = struct{}{}
		out = append(out, schema.EventRecord{
			Year:         year,
			Description:  text,
			EventType:    Classify(text),
			Participants: Participants(text),
		})
	}
	return out
}

func isDuplicate(seen map[string]struct{}, text string) bool {
	_, ok := seen[text]
	return ok
}
