// HTTP handler for the suggestion ranking endpoint.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/matiasleandrokruk/vocable/internal/domain/predict"
	"github.com/matiasleandrokruk/vocable/internal/infra/provider"
)

// PredictEngine is the minimal contract the handler needs from the ranking
// engine.
type PredictEngine interface {
	Rank(ctx context.Context, req predict.Request) []predict.Suggestion
}

// PredictHandler handles HTTP requests for symbol suggestions.
type PredictHandler struct {
	engine PredictEngine
}

// NewPredictHandler creates a new PredictHandler instance.
func NewPredictHandler(engine PredictEngine) *PredictHandler {
	return &PredictHandler{engine: engine}
}

// predictRequest is the request body for the prediction endpoint.
// current_symbols arrives comma-joined, the way the suggestion-bar client
// sends the utterance under construction.
type predictRequest struct {
	CurrentSymbols string             `json:"current_symbols"`
	ChatHistory    []provider.Message `json:"chat_history,omitempty"`
	Intent         string             `json:"intent,omitempty"`
	Limit          int                `json:"limit,omitempty"`
	Offset         int                `json:"offset,omitempty"`
	Locale         string             `json:"locale,omitempty"`
	BoardID        string             `json:"board_id,omitempty"`
}

// Predict handles POST /api/v1/predict.
// Returns the ranked suggestion page as a bare JSON array; the engine
// guarantees it is never empty for a positive limit.
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	req, err := buildPredictRequest(r)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	suggestions := h.engine.Rank(r.Context(), req)
	writeJSON(w, http.StatusOK, suggestions)
}

func buildPredictRequest(r *http.Request) (predict.Request, error) {
	userID, err := getUserID(r.Context())
	if err != nil {
		return predict.Request{}, requestError{status: http.StatusUnauthorized, message: "missing user context"}
	}

	var req predictRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		return predict.Request{}, requestError{status: http.StatusBadRequest, message: "invalid request body"}
	}

	intent := req.Intent
	if intent == "" {
		intent = predict.IntentGeneral
	}
	if !predict.ValidIntent(intent) {
		return predict.Request{}, requestError{status: http.StatusBadRequest, message: "unknown intent"}
	}

	limit, offset := clampSuggestionWindow(req.Limit, req.Offset)

	return predict.Request{
		UserID:         userID,
		CurrentSymbols: splitSymbols(req.CurrentSymbols),
		ChatHistory:    req.ChatHistory,
		Intent:         intent,
		Limit:          limit,
		Offset:         offset,
		Locale:         req.Locale,
		BoardID:        req.BoardID,
	}, nil
}
