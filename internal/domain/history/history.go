// Package history maintains per-user word usage counters over spoken
// utterances. The ranking engine reads it to surface the words a user
// actually speaks; the ingestion endpoint feeds it through the event bus.
//
// All state is in-memory. Counters survive neither restarts nor crashes;
// the external logging collaborator owns the durable record and can replay
// it on demand.
package history

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// DefaultDecayFactor is applied to every counter by the nightly decay job.
// A word spoken once and never again falls below the prune threshold in
// roughly a month.
const DefaultDecayFactor = 0.98

// pruneEpsilon is the count below which a decayed entry is dropped.
const pruneEpsilon = 0.5

// WordCount is a ranked vocabulary entry.
type WordCount struct {
	Word  string
	Count float64
}

type userCounts struct {
	unigrams map[string]float64
	bigrams  map[string]map[string]float64
}

func newUserCounts() *userCounts {
	return &userCounts{
		unigrams: make(map[string]float64),
		bigrams:  make(map[string]map[string]float64),
	}
}

// Index is the concurrency-safe usage index. Many readers, few writers.
type Index struct {
	mu    sync.RWMutex
	users map[string]*userCounts
	log   *zap.Logger
}

// NewIndex returns an empty usage index.
func NewIndex(log *zap.Logger) *Index {
	return &Index{
		users: make(map[string]*userCounts),
		log:   log,
	}
}

// normalizeWord is the identity under which words are counted.
func normalizeWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}

// Record counts one spoken utterance for a user: every word as a unigram,
// every word keyed by its one- and two-word left context. Blank words are
// skipped without breaking adjacency of the surviving words.
func (x *Index) Record(userID string, words []string) {
	cleaned := make([]string, 0, len(words))
	for _, w := range words {
		if n := normalizeWord(w); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	if len(cleaned) == 0 {
		return
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	uc, ok := x.users[userID]
	if !ok {
		uc = newUserCounts()
		x.users[userID] = uc
	}
	for i, w := range cleaned {
		uc.unigrams[w]++
		if i >= 1 {
			uc.count(cleaned[i-1], w)
		}
		if i >= 2 {
			uc.count(cleaned[i-2]+" "+cleaned[i-1], w)
		}
	}
}

func (uc *userCounts) count(key, word string) {
	next, ok := uc.bigrams[key]
	if !ok {
		next = make(map[string]float64)
		uc.bigrams[key] = next
	}
	next[word]++
}

// Continuations returns the words the user has spoken after prev, most
// frequent first. prev is a one-word or space-joined two-word left context.
// Ties break alphabetically so rankings are stable.
func (x *Index) Continuations(userID, prev string, limit int) []WordCount {
	prev = normalizeWord(prev)
	if prev == "" || limit <= 0 {
		return nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	uc, ok := x.users[userID]
	if !ok {
		return nil
	}
	return rank(uc.bigrams[prev], limit)
}

// TopWords returns the user's most frequent words overall, most frequent
// first.
func (x *Index) TopWords(userID string, limit int) []WordCount {
	if limit <= 0 {
		return nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	uc, ok := x.users[userID]
	if !ok {
		return nil
	}
	return rank(uc.unigrams, limit)
}

// UserCount reports how many users currently have counters.
func (x *Index) UserCount() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.users)
}

// Decay multiplies every counter by factor and prunes entries that fall
// below the threshold, so long-unused words stop outranking recent ones.
// Returns the number of pruned entries.
func (x *Index) Decay(factor float64) int {
	if factor <= 0 || factor >= 1 {
		return 0
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	pruned := 0
	for userID, uc := range x.users {
		for w, c := range uc.unigrams {
			if c *= factor; c < pruneEpsilon {
				delete(uc.unigrams, w)
				pruned++
			} else {
				uc.unigrams[w] = c
			}
		}
		for prev, next := range uc.bigrams {
			for w, c := range next {
				if c *= factor; c < pruneEpsilon {
					delete(next, w)
					pruned++
				} else {
					next[w] = c
				}
			}
			if len(next) == 0 {
				delete(uc.bigrams, prev)
			}
		}
		if len(uc.unigrams) == 0 && len(uc.bigrams) == 0 {
			delete(x.users, userID)
		}
	}

	if pruned > 0 {
		x.log.Info("usage history decayed",
			zap.Float64("factor", factor),
			zap.Int("pruned", pruned),
		)
	}
	return pruned
}

func rank(counts map[string]float64, limit int) []WordCount {
	if len(counts) == 0 {
		return nil
	}
	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
