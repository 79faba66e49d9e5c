// Completion failover router. One snapshot read, one primary attempt, one
// fallback attempt, no retries.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/matiasleandrokruk/vocable/internal/infra/aiconfig"
	"github.com/matiasleandrokruk/vocable/internal/infra/metrics"
)

// Source yields the current routing snapshot. *aiconfig.Store satisfies it;
// tests substitute fixed or switching snapshots.
type Source interface {
	Get() (aiconfig.RoutingConfig, error)
}

// Router routes completions across the configured provider slots.
// Complete never returns an error: every outcome, including total failure,
// is a CompletionResult the conversation surface can render.
type Router struct {
	source         Source
	clients        map[aiconfig.Kind]Client
	attemptTimeout time.Duration
	log            *zap.Logger
}

// NewRouter creates a Router with one codec per provider kind. attemptTimeout
// bounds each slot attempt; the shared HTTP client carries a coarse 30s cap
// behind it.
func NewRouter(source Source, attemptTimeout time.Duration, log *zap.Logger) *Router {
	hc := &http.Client{Timeout: 30 * time.Second}
	return &Router{
		source: source,
		clients: map[aiconfig.Kind]Client{
			aiconfig.KindLocalRuntime:      NewRuntimeClient(hc),
			aiconfig.KindLocalOpenAICompat: NewOpenAIClient(hc),
			aiconfig.KindCloudGateway:      NewGatewayClient(hc),
		},
		attemptTimeout: attemptTimeout,
		log:            log,
	}
}

// Complete routes one completion. The snapshot is read exactly once, so a
// configuration replaced mid-call never mixes into this call; the next call
// picks it up.
func (r *Router) Complete(ctx context.Context, req CompletionRequest) CompletionResult {
	start := time.Now()

	cfg, err := r.source.Get()
	if err != nil {
		kind := KindOf(err)
		metrics.CompletionErrors.WithLabelValues(string(kind)).Inc()
		r.log.Warn("completion refused: no routing configuration", zap.Error(err))
		return CompletionResult{LatencyMS: msSince(start), ErrorKind: kind}
	}

	reply, primaryErr := r.attempt(ctx, SlotPrimary, cfg.Primary, req)
	if primaryErr == nil {
		return CompletionResult{
			ReplyText:    reply,
			ProviderUsed: string(cfg.Primary.Kind),
			LatencyMS:    msSince(start),
			Succeeded:    true,
		}
	}

	r.log.Warn("primary completion failed, trying fallback",
		zap.String("primary_kind", string(cfg.Primary.Kind)),
		zap.Int64("config_version", cfg.Version),
		zap.Error(primaryErr),
	)
	metrics.CompletionFailovers.Inc()

	reply, fallbackErr := r.attempt(ctx, SlotFallback, cfg.Fallback, req)
	if fallbackErr == nil {
		return CompletionResult{
			ReplyText:    reply,
			ProviderUsed: string(cfg.Fallback.Kind),
			LatencyMS:    msSince(start),
			Succeeded:    true,
		}
	}

	// Both slots failed. The reported kind is the fallback's: it is the last
	// thing that stood between the user and a reply.
	kind := KindOf(fallbackErr)
	metrics.CompletionErrors.WithLabelValues(string(kind)).Inc()
	r.log.Error("completion failed on both slots",
		zap.String("primary_kind", string(cfg.Primary.Kind)),
		zap.String("fallback_kind", string(cfg.Fallback.Kind)),
		zap.Int64("config_version", cfg.Version),
		zap.NamedError("primary_error", primaryErr),
		zap.NamedError("fallback_error", fallbackErr),
	)
	return CompletionResult{LatencyMS: msSince(start), ErrorKind: kind}
}

// attempt runs one slot under its own deadline and records its latency.
func (r *Router) attempt(ctx context.Context, slot string, cfg aiconfig.ProviderConfig, req CompletionRequest) (string, error) {
	client, ok := r.clients[cfg.Kind]
	if !ok {
		// Stored snapshots are validated, so this means a codec gap, not bad input.
		return "", &Error{Kind: KindUnreachable, Err: fmt.Errorf("no client for provider kind %q", cfg.Kind)}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
	defer cancel()

	attemptStart := time.Now()
	reply, err := client.Complete(attemptCtx, cfg, req)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.CompletionLatency.WithLabelValues(slot, outcome).Observe(time.Since(attemptStart).Seconds())

	if err != nil {
		return "", classified(KindUnreachable, err)
	}
	return reply, nil
}

func msSince(t time.Time) int64 {
	return time.Since(t).Milliseconds()
}
