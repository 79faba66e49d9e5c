package predict

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/matiasleandrokruk/vocable/internal/infra/provider"
)

// Completer is the slice of the provider router the AI tier needs.
// *provider.Router satisfies it; tests substitute stubs.
type Completer interface {
	Complete(ctx context.Context, req provider.CompletionRequest) provider.CompletionResult
}

const (
	aiMaxCandidates = 5
	aiMaxHistory    = 5

	aiSystemPrompt = "You help someone who speaks through a communication board. " +
		"Given the words selected so far, suggest the single words they are most " +
		"likely to want next. Reply with up to five lowercase words separated by " +
		"commas and nothing else."
)

// aiTier asks the provider router for likely next words. It only runs for
// the general intent, identical concurrent lookups share one provider call,
// and every failure degrades to an empty yield: a broken provider must never
// fail the ranking call.
type aiTier struct {
	completer Completer
	timeout   time.Duration
	group     singleflight.Group
	log       *zap.Logger
}

func newAITier(completer Completer, timeout time.Duration, log *zap.Logger) *aiTier {
	return &aiTier{completer: completer, timeout: timeout, log: log}
}

func (t *aiTier) Name() string { return "ai" }

func (t *aiTier) Suggest(ctx context.Context, q *Query) []Suggestion {
	if t.completer == nil || len(q.Words) == 0 {
		return nil
	}
	if q.Req.Intent != "" && q.Req.Intent != IntentGeneral {
		return nil
	}

	key := q.Loc.Code + "|" + strings.Join(q.Words, " ")
	v, err, _ := t.group.Do(key, func() (any, error) {
		return t.fetch(ctx, q)
	})
	if err != nil {
		t.log.Warn("ai suggestion tier yielded nothing", zap.String("key", key), zap.Error(err))
		return nil
	}
	words, _ := v.([]string)

	out := make([]Suggestion, 0, len(words))
	for i, w := range words {
		out = append(out, bareSuggestion(q.Loc, w, SourceAI, conf(0.85, 0.05, i)))
	}
	return out
}

// fetch performs the bounded provider call and parses its reply.
func (t *aiTier) fetch(ctx context.Context, q *Query) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	msgs := make([]provider.Message, 0, aiMaxHistory+2)
	msgs = append(msgs, provider.Message{Role: "system", Content: aiSystemPrompt})
	hist := q.Req.ChatHistory
	if len(hist) > aiMaxHistory {
		hist = hist[len(hist)-aiMaxHistory:]
	}
	msgs = append(msgs, hist...)
	msgs = append(msgs, provider.Message{
		Role:    "user",
		Content: "Words so far: " + strings.Join(q.Words, " "),
	})

	res := t.completer.Complete(ctx, provider.CompletionRequest{Messages: msgs})
	if !res.Succeeded {
		return nil, fmt.Errorf("completion failed: %s", res.ErrorKind)
	}
	words := parseCandidates(res.ReplyText)
	if len(words) == 0 {
		return nil, fmt.Errorf("no usable candidates in reply")
	}
	return words, nil
}

// parseCandidates extracts candidate words from a model reply. Providers
// mostly honor the comma-separated instruction, but bullets, quotes and
// numbering still show up.
func parseCandidates(reply string) []string {
	fields := strings.FieldsFunc(reply, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})
	out := make([]string, 0, aiMaxCandidates)
	seen := make(map[string]bool, aiMaxCandidates)
	for _, f := range fields {
		w := strings.ToLower(strings.Trim(f, " \t\"'.•-*0123456789)"))
		if w == "" || len(w) > 24 || strings.Count(w, " ") > 2 {
			continue
		}
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
		if len(out) == aiMaxCandidates {
			break
		}
	}
	return out
}
