package predict

import (
	"context"

	"github.com/matiasleandrokruk/vocable/internal/domain/history"
)

// ─── category tier ───────────────────────────────────────────────────────────

// categoryTier offers the locale's sentence starters when the board is
// empty. It yields nothing mid-utterance.
type categoryTier struct{}

func (t *categoryTier) Name() string { return "category" }

func (t *categoryTier) Suggest(_ context.Context, q *Query) []Suggestion {
	if len(q.Words) > 0 {
		return nil
	}
	out := make([]Suggestion, 0, len(q.Loc.Starters()))
	for i, w := range q.Loc.Starters() {
		if !q.intentAllows(w) {
			continue
		}
		out = append(out, suggestionFor(q.Loc, w, SourceCategory, conf(0.60, 0.02, i)))
	}
	return out
}

// ─── history tier ────────────────────────────────────────────────────────────

// historyTier surfaces what this user actually says after the current
// words, the two-word context before the one-word one.
type historyTier struct {
	idx *history.Index
}

func (t *historyTier) Name() string { return "history" }

func (t *historyTier) Suggest(_ context.Context, q *Query) []Suggestion {
	if t.idx == nil || len(q.Words) == 0 {
		return nil
	}

	keys := make([]string, 0, 2)
	if n := len(q.Words); n >= 2 {
		keys = append(keys, q.Words[n-2]+" "+q.Words[n-1])
	}
	keys = append(keys, q.Words[len(q.Words)-1])

	out := make([]Suggestion, 0, q.Budget)
	for _, key := range keys {
		for _, wc := range t.idx.Continuations(q.Req.UserID, key, q.Budget) {
			if !q.intentAllows(wc.Word) {
				continue
			}
			out = append(out, bareSuggestion(q.Loc, wc.Word, SourceHistory, historyConfidence(wc.Count)))
		}
	}
	return out
}

// historyConfidence maps a usage count into (0.5, 1): monotone in count,
// saturating for well-worn words.
func historyConfidence(count float64) float64 {
	return count / (count + 1)
}

// ─── stats tier ──────────────────────────────────────────────────────────────

// statsTier surfaces the user's overall favorite words, regardless of the
// current context.
type statsTier struct {
	idx *history.Index
}

func (t *statsTier) Name() string { return "stats" }

func (t *statsTier) Suggest(_ context.Context, q *Query) []Suggestion {
	if t.idx == nil || len(q.Words) == 0 {
		return nil
	}
	out := make([]Suggestion, 0, q.Budget)
	for _, wc := range t.idx.TopWords(q.Req.UserID, q.Budget) {
		if !q.intentAllows(wc.Word) {
			continue
		}
		out = append(out, bareSuggestion(q.Loc, wc.Word, SourceStats, historyConfidence(wc.Count)/2))
	}
	return out
}

// ─── collocation tier ────────────────────────────────────────────────────────

// collocationTier looks the trailing word up in the locale's collocation
// table.
type collocationTier struct{}

func (t *collocationTier) Name() string { return "nwp_lib" }

func (t *collocationTier) Suggest(_ context.Context, q *Query) []Suggestion {
	if len(q.Words) == 0 {
		return nil
	}
	next := q.Loc.Continuations(q.Words[len(q.Words)-1])
	out := make([]Suggestion, 0, len(next))
	for i, w := range next {
		if !q.intentAllows(w) {
			continue
		}
		out = append(out, suggestionFor(q.Loc, w, SourceLexical, conf(0.70, 0.03, i)))
	}
	return out
}

// ─── phrase tier ─────────────────────────────────────────────────────────────

// phraseTier offers the static phrase vocabulary for the request's intent.
type phraseTier struct{}

func (t *phraseTier) Name() string { return "general_model" }

func (t *phraseTier) Suggest(_ context.Context, q *Query) []Suggestion {
	if len(q.Words) == 0 {
		return nil
	}
	intent := q.Req.Intent
	if intent == "" || !ValidIntent(intent) {
		intent = IntentGeneral
	}
	phrases := q.Loc.PhraseWords(intent)
	out := make([]Suggestion, 0, len(phrases))
	for i, w := range phrases {
		out = append(out, suggestionFor(q.Loc, w, SourcePhrase, conf(0.55, 0.02, i)))
	}
	return out
}

// ─── fallback tier ───────────────────────────────────────────────────────────

// fallbackTier closes the chain with the always-available core vocabulary
// plus punctuation. It prefers intent-compatible words but never filters
// itself down to nothing: the chain's never-empty guarantee lives here.
type fallbackTier struct{}

func (t *fallbackTier) Name() string { return "fallback" }

func (t *fallbackTier) Suggest(_ context.Context, q *Query) []Suggestion {
	words := q.Loc.FallbackWords()
	filtered := make([]string, 0, len(words))
	for _, w := range words {
		if q.intentAllows(w) {
			filtered = append(filtered, w)
		}
	}
	if len(filtered) == 0 {
		filtered = words
	}

	out := make([]Suggestion, 0, len(filtered)+len(q.Loc.Punctuation()))
	for i, w := range filtered {
		out = append(out, suggestionFor(q.Loc, w, SourceFallback, conf(0.30, 0.01, i)))
	}
	for i, p := range q.Loc.Punctuation() {
		out = append(out, suggestionFor(q.Loc, p, SourcePunctuation, conf(0.20, 0.01, i)))
	}
	return out
}
