// HTTP handler for the utterance logging endpoint.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/matiasleandrokruk/vocable/internal/domain/history"
	"github.com/matiasleandrokruk/vocable/internal/infra/eventbus"
	"github.com/matiasleandrokruk/vocable/internal/infra/metrics"
)

// HistoryHandler accepts utterance events from the logging collaborator and
// forwards them onto the event bus. Indexing happens asynchronously; the
// endpoint only acknowledges receipt.
type HistoryHandler struct {
	bus eventbus.EventBus
}

// NewHistoryHandler creates a new HistoryHandler instance.
func NewHistoryHandler(bus eventbus.EventBus) *HistoryHandler {
	return &HistoryHandler{bus: bus}
}

// historyEventRequest is the request body for one spoken utterance.
// user_id defaults to the authenticated user; the logging collaborator may
// override it when it records on behalf of another profile on the device.
type historyEventRequest struct {
	UserID  string   `json:"user_id,omitempty"`
	Symbols []string `json:"symbols"`
	BoardID string   `json:"board_id,omitempty"`
}

// LogEvent handles POST /api/v1/history/events.
// Publishes the utterance and answers 202 Accepted without waiting for the
// index to apply it.
func (h *HistoryHandler) LogEvent(w http.ResponseWriter, r *http.Request) {
	authUserID, err := getUserID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	var req historyEventRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	words := cleanSymbols(req.Symbols)
	if len(words) == 0 {
		writeError(w, http.StatusBadRequest, "symbols are required")
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = authUserID
	}

	h.bus.Publish(history.TopicUtteranceLogged, history.UtteranceEvent{
		UserID:   userID,
		Words:    words,
		BoardID:  req.BoardID,
		LoggedAt: time.Now().UTC(),
	})
	metrics.HistoryEvents.Inc()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// cleanSymbols trims each symbol and drops blanks.
func cleanSymbols(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	for i := 0; i < len(symbols); i++ {
		if token := strings.TrimSpace(symbols[i]); token != "" {
			out = append(out, token)
		}
	}
	return out
}
