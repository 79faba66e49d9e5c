// Package predict ranks next-word suggestions for the communication board.
// Candidate sources are arranged as a chain of tiers in fixed priority
// order; the engine merges their output by normalized label, paginates and
// tags every suggestion with the tier that produced it.
package predict

import (
	"strings"

	"github.com/google/uuid"

	"github.com/matiasleandrokruk/vocable/internal/infra/lexicon"
	"github.com/matiasleandrokruk/vocable/internal/infra/provider"
)

// Suggestion source tags, in tier priority order.
const (
	SourceCategory    = "category"
	SourceHistory     = "history"
	SourceStats       = "stats"
	SourceAI          = "ai"
	SourceLexical     = "nwp_lib"
	SourcePhrase      = "general_model"
	SourceFallback    = "fallback"
	SourcePunctuation = "punctuation"
)

// Intent filters narrow suggestions to one board category.
const (
	IntentGeneral  = "general"
	IntentPronouns = "pronouns"
	IntentVerbs    = "verbs"
	IntentArticles = "articles"
	IntentNouns    = "nouns"
	IntentPlaces   = "places"
)

// ValidIntent reports whether s names a known intent filter.
func ValidIntent(s string) bool {
	switch s {
	case IntentGeneral, IntentPronouns, IntentVerbs, IntentArticles, IntentNouns, IntentPlaces:
		return true
	}
	return false
}

// Suggestion is one ranked candidate for the suggestion bar.
type Suggestion struct {
	SymbolID   string  `json:"symbol_id"`
	Label      string  `json:"label"`
	Category   string  `json:"category"`
	ImagePath  string  `json:"image_path,omitempty"`
	Color      string  `json:"color,omitempty"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// Request is one ranking call. CurrentSymbols is the utterance built so far,
// in board order; ChatHistory is the recent conversation context for the AI
// tier, newest last.
type Request struct {
	UserID         string
	CurrentSymbols []string
	ChatHistory    []provider.Message
	Intent         string
	Limit          int
	Offset         int
	Locale         string
	BoardID        string
}

// normalizeLabel is the dedup identity: two candidates with the same
// normalized label are the same suggestion.
func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// symbolID derives a stable id for a label within a locale, so the same word
// keeps the same id across requests and pages.
func symbolID(locale, label string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("vocable://symbol/"+locale+"/"+normalizeLabel(label))).String()
}

// suggestionFor assembles a Suggestion with the locale's category, color and
// pictogram for the label.
func suggestionFor(loc *lexicon.Locale, label, source string, confidence float64) Suggestion {
	category := loc.CategoryOf(label)
	return Suggestion{
		SymbolID:   symbolID(loc.Code, label),
		Label:      label,
		Category:   category,
		ImagePath:  loc.ImageOf(label),
		Color:      loc.ColorOf(category),
		Confidence: confidence,
		Source:     source,
	}
}

// bareSuggestion is suggestionFor without the pictogram. Sources that come
// from spoken text rather than board data carry no image reference; the
// merge step lets a later pictogram-bearing tier fill it in.
func bareSuggestion(loc *lexicon.Locale, label, source string, confidence float64) Suggestion {
	s := suggestionFor(loc, label, source, confidence)
	s.ImagePath = ""
	return s
}

// conf computes a descending in-tier confidence, floored so late candidates
// stay inside [0,1].
func conf(base, step float64, i int) float64 {
	c := base - step*float64(i)
	if c < 0.05 {
		return 0.05
	}
	return c
}
