package predict

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/matiasleandrokruk/vocable/internal/domain/history"
	"github.com/matiasleandrokruk/vocable/internal/infra/lexicon"
	"github.com/matiasleandrokruk/vocable/internal/infra/metrics"
)

// Query is one resolved ranking call handed to the tiers: the raw request
// plus its locale resources and the normalized utterance words.
type Query struct {
	Req    Request
	Loc    *lexicon.Locale
	Words  []string // normalized CurrentSymbols, blanks dropped
	Budget int      // offset+limit: the most candidates any tier needs to yield
}

// intentAllows applies the request's intent filter to a single word.
// The general intent (or an unknown one) lets everything through.
func (q *Query) intentAllows(word string) bool {
	if q.Req.Intent == "" || q.Req.Intent == IntentGeneral || !ValidIntent(q.Req.Intent) {
		return true
	}
	return q.Loc.CategoryOf(word) == q.Req.Intent
}

// Tier is one ranked candidate source. Tiers yield in their own preference
// order and never fail: a tier with nothing to offer returns nil.
type Tier interface {
	Name() string
	Suggest(ctx context.Context, q *Query) []Suggestion
}

// Engine runs the tier chain and merges the result.
type Engine struct {
	lex   *lexicon.Library
	tiers []Tier
	log   *zap.Logger
}

// NewEngine assembles the standard tier chain. completer may be nil, which
// disables the AI tier; every other tier works from local data.
func NewEngine(lex *lexicon.Library, hist *history.Index, completer Completer, aiTimeout time.Duration, log *zap.Logger) *Engine {
	return &Engine{
		lex: lex,
		tiers: []Tier{
			&categoryTier{},
			&historyTier{idx: hist},
			&statsTier{idx: hist},
			newAITier(completer, aiTimeout, log),
			&collocationTier{},
			&phraseTier{},
			&fallbackTier{},
		},
		log: log,
	}
}

// Rank produces at most req.Limit suggestions for the utterance so far.
//
// Tiers run in chain order until offset+limit merged candidates exist or
// every tier is exhausted. Merging is by normalized label: the first-seen
// entry keeps its position and source, except that a later candidate
// carrying a pictogram replaces an imageless earlier one in place.
func (e *Engine) Rank(ctx context.Context, req Request) []Suggestion {
	if req.Limit <= 0 {
		return []Suggestion{}
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	q := &Query{
		Req:    req,
		Loc:    e.lex.Locale(req.Locale),
		Words:  normalizeWords(req.CurrentSymbols),
		Budget: req.Offset + req.Limit,
	}

	merged := make([]Suggestion, 0, q.Budget)
	at := make(map[string]int, q.Budget)

tiers:
	for _, tier := range e.tiers {
		for _, cand := range tier.Suggest(ctx, q) {
			key := normalizeLabel(cand.Label)
			if key == "" {
				continue
			}
			if i, seen := at[key]; seen {
				if merged[i].ImagePath == "" && cand.ImagePath != "" {
					merged[i] = cand // same position, richer entry
				}
				continue
			}
			at[key] = len(merged)
			merged = append(merged, cand)
			if len(merged) >= q.Budget {
				break tiers
			}
		}
	}

	if req.Offset >= len(merged) {
		return []Suggestion{}
	}
	page := merged[req.Offset:]
	for _, s := range page {
		metrics.SuggestionYield.WithLabelValues(s.Source).Inc()
	}
	return page
}

// normalizeWords lowercases and trims the utterance words, dropping blanks.
func normalizeWords(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if w := strings.ToLower(strings.TrimSpace(s)); w != "" {
			out = append(out, w)
		}
	}
	return out
}
