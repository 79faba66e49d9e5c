// Versioned routing-config store: SQLite for durability, an atomic pointer
// snapshot for reads. This is the only state the assistant core persists.
package aiconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrNotConfigured is returned by Get before any routing configuration
// has been stored.
var ErrNotConfigured = errors.New("ai routing is not configured")

// Store serves the current RoutingConfig to the completion router and the
// suggestion engine. Reads are lock-free pointer loads of an immutable
// snapshot; writes are serialized, persisted first, then published with a
// single pointer swap. A reader therefore never observes fields from two
// different versions. Last write wins.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex // serializes Replace
	snap atomic.Pointer[RoutingConfig]
}

// NewStore creates a Store over the given database. Call Load before first
// use to seed the snapshot from the persisted row.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Load seeds the in-memory snapshot from the persisted configuration row.
// A missing row is not an error: the store simply stays unconfigured until
// the first Replace.
func (s *Store) Load(ctx context.Context) error {
	row := s.db.QueryRowContext(ctx, `
		SELECT version,
		       primary_kind, primary_model_id, primary_base_url, primary_credential, primary_max_tokens, primary_temperature,
		       fallback_kind, fallback_model_id, fallback_base_url, fallback_credential, fallback_max_tokens, fallback_temperature
		FROM ai_routing_config WHERE id = 1
	`)

	var cfg RoutingConfig
	err := row.Scan(
		&cfg.Version,
		&cfg.Primary.Kind, &cfg.Primary.ModelID, &cfg.Primary.BaseURL, &cfg.Primary.Credential, &cfg.Primary.MaxTokens, &cfg.Primary.Temperature,
		&cfg.Fallback.Kind, &cfg.Fallback.ModelID, &cfg.Fallback.BaseURL, &cfg.Fallback.Credential, &cfg.Fallback.MaxTokens, &cfg.Fallback.Temperature,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("aiconfig: load: %w", err)
	}

	s.snap.Store(&cfg)
	return nil
}

// Get returns the current configuration snapshot by value.
// Returns ErrNotConfigured before the first successful Replace (or Load of a
// persisted row).
func (s *Store) Get() (RoutingConfig, error) {
	p := s.snap.Load()
	if p == nil {
		return RoutingConfig{}, ErrNotConfigured
	}
	return *p, nil
}

// Version returns the current snapshot version, or 0 when unconfigured.
func (s *Store) Version() int64 {
	p := s.snap.Load()
	if p == nil {
		return 0
	}
	return p.Version
}

// Replace validates both slots, persists the new snapshot, then publishes it
// atomically. Calls that race are serialized; the returned version is strictly
// greater than every previously returned one. In-flight completions keep the
// snapshot they already read; the next call sees the new one.
func (s *Store) Replace(ctx context.Context, primary, fallback ProviderConfig) (int64, error) {
	if err := primary.Validate(); err != nil {
		return 0, fmt.Errorf("aiconfig: primary: %w", err)
	}
	if err := fallback.Validate(); err != nil {
		return 0, fmt.Errorf("aiconfig: fallback: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := RoutingConfig{Primary: primary, Fallback: fallback, Version: 1}
	if cur := s.snap.Load(); cur != nil {
		next.Version = cur.Version + 1
	}

	// Persist before publish: a crash between the two leaves the durable
	// version ahead of memory, which Load reconciles on restart.
	if err := s.persist(ctx, next); err != nil {
		return 0, fmt.Errorf("aiconfig: persist: %w", err)
	}

	s.snap.Store(&next)
	return next.Version, nil
}

// persist writes the whole snapshot as the single id=1 row.
func (s *Store) persist(ctx context.Context, cfg RoutingConfig) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ai_routing_config (
			id, version,
			primary_kind, primary_model_id, primary_base_url, primary_credential, primary_max_tokens, primary_temperature,
			fallback_kind, fallback_model_id, fallback_base_url, fallback_credential, fallback_max_tokens, fallback_temperature
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			primary_kind = excluded.primary_kind,
			primary_model_id = excluded.primary_model_id,
			primary_base_url = excluded.primary_base_url,
			primary_credential = excluded.primary_credential,
			primary_max_tokens = excluded.primary_max_tokens,
			primary_temperature = excluded.primary_temperature,
			fallback_kind = excluded.fallback_kind,
			fallback_model_id = excluded.fallback_model_id,
			fallback_base_url = excluded.fallback_base_url,
			fallback_credential = excluded.fallback_credential,
			fallback_max_tokens = excluded.fallback_max_tokens,
			fallback_temperature = excluded.fallback_temperature,
			updated_at = datetime('now')
	`,
		cfg.Version,
		string(cfg.Primary.Kind), cfg.Primary.ModelID, cfg.Primary.BaseURL, cfg.Primary.Credential, cfg.Primary.MaxTokens, cfg.Primary.Temperature,
		string(cfg.Fallback.Kind), cfg.Fallback.ModelID, cfg.Fallback.BaseURL, cfg.Fallback.Credential, cfg.Fallback.MaxTokens, cfg.Fallback.Temperature,
	)
	return err
}
