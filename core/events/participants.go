package events

import (
	"regexp"
	"strings"
)

// MaxParticipants caps the names kept per event.
const MaxParticipants = 5

var properNounPair = regexp.MustCompile(`\p{Lu}\p{Ll}+\s+\p{Lu}\p{Ll}+(?:\s+\p{Lu}\p{Ll}+)?`)

// noiseWords are capitalized words that start sentences or headers but are not names.
var noiseWords = map[string]struct{}{
	"On": {}, "The": {}, "Star": {}, "Game": {}, "Power": {}, "Rankings": {},
	"Team": {}, "Standings": {}, "New": {}, "York": {}, "Series": {}, "Championship": {},
	"During": {}, "After": {}, "Before": {}, "When": {}, "Where": {}, "How": {},
	"Why": {}, "What": {}, "World": {}, "League": {}, "American": {}, "National": {},
	"Major": {}, "In": {}, "His": {}, "Her": {}, "This": {}, "That": {},
}

// Participants returns up to five distinct proper-noun pairs from text, in order of
// appearance, after dropping noise words. Fewer than two remaining words is not a name.
func Participants(text string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, match := range properNounPair.FindAllString(text, -1) {
		name := CleanName(match)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
		if len(names) == MaxParticipants {
			break
		}
	}
	return names
}

// CleanName drops noise words from a candidate name. It returns "" when fewer than
// two words survive.
func CleanName(candidate string) string {
	var kept []string
	for _, w := range strings.Fields(candidate) {
		if _, noise := noiseWords[w]; noise {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) < 2 {
		return ""
	}
	return strings.Join(kept, " ")
}

// CleanParticipants re-applies CleanName, dedupes and caps an existing list.
func CleanParticipants(participants []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, p := range participants {
		name := CleanName(p)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
		if len(out) == MaxParticipants {
			break
		}
	}
	return out
}
