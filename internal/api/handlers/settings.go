// HTTP handlers for the AI routing settings.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matiasleandrokruk/vocable/internal/infra/aiconfig"
	"github.com/matiasleandrokruk/vocable/internal/infra/metrics"
)

// SettingsStore is the minimal contract the handler needs from the routing
// config store.
type SettingsStore interface {
	Get() (aiconfig.RoutingConfig, error)
	Replace(ctx context.Context, primary, fallback aiconfig.ProviderConfig) (int64, error)
}

// SettingsHandler handles HTTP requests for the AI routing configuration.
type SettingsHandler struct {
	store SettingsStore
}

// NewSettingsHandler creates a new SettingsHandler instance.
func NewSettingsHandler(store SettingsStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// settingsResponse is the read shape: both slots with credentials masked.
type settingsResponse struct {
	Primary  aiconfig.ProviderConfig `json:"primary"`
	Fallback aiconfig.ProviderConfig `json:"fallback"`
	Version  int64                   `json:"version"`
}

// updateSettingsRequest is the write shape. Slots are pointers so a caller
// can replace one and keep the other; an omitted slot carries over from the
// current configuration. A sent slot is taken verbatim, credential included.
type updateSettingsRequest struct {
	Primary  *aiconfig.ProviderConfig `json:"primary,omitempty"`
	Fallback *aiconfig.ProviderConfig `json:"fallback,omitempty"`
}

// versionResponse returns the new configuration version after a replace.
type versionResponse struct {
	Version int64 `json:"version"`
}

// GetSettings handles GET /api/v1/settings/ai.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.store.Get()
	if err != nil {
		if errors.Is(err, aiconfig.ErrNotConfigured) {
			writeError(w, http.StatusNotFound, "ai routing is not configured")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read settings")
		return
	}

	writeJSON(w, http.StatusOK, settingsResponse{
		Primary:  cfg.Primary.Redacted(),
		Fallback: cfg.Fallback.Redacted(),
		Version:  cfg.Version,
	})
}

// UpdateSettings handles PUT /api/v1/settings/ai.
// Validation failures are the caller's problem (400); persistence failures
// are ours (500). The new version is returned so the caller can confirm the
// replacement took.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	primary, fallback, err := buildRoutingSlots(r, h.store)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	version, err := h.store.Replace(r.Context(), primary, fallback)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to persist settings")
		return
	}

	metrics.ConfigReplacements.Inc()
	writeJSON(w, http.StatusOK, versionResponse{Version: version})
}

// buildRoutingSlots composes the full new routing config from the request,
// carrying over the current slot for whichever side the caller omitted.
func buildRoutingSlots(r *http.Request, store SettingsStore) (aiconfig.ProviderConfig, aiconfig.ProviderConfig, error) {
	var zero aiconfig.ProviderConfig

	var req updateSettingsRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		return zero, zero, requestError{status: http.StatusBadRequest, message: "invalid request body"}
	}
	if req.Primary == nil && req.Fallback == nil {
		return zero, zero, requestError{status: http.StatusBadRequest, message: "at least one of primary or fallback is required"}
	}

	current, err := store.Get()
	if err != nil && !errors.Is(err, aiconfig.ErrNotConfigured) {
		return zero, zero, requestError{status: http.StatusInternalServerError, message: "failed to read settings"}
	}
	if err != nil && (req.Primary == nil || req.Fallback == nil) {
		return zero, zero, requestError{status: http.StatusBadRequest, message: "both primary and fallback are required on first configuration"}
	}

	primary := current.Primary
	if req.Primary != nil {
		primary = *req.Primary
	}
	fallback := current.Fallback
	if req.Fallback != nil {
		fallback = *req.Fallback
	}

	if validateErr := primary.Validate(); validateErr != nil {
		return zero, zero, requestError{status: http.StatusBadRequest, message: "primary: " + validateErr.Error()}
	}
	if validateErr := fallback.Validate(); validateErr != nil {
		return zero, zero, requestError{status: http.StatusBadRequest, message: "fallback: " + validateErr.Error()}
	}

	return primary, fallback, nil
}
