// Handler helper functions shared across the package.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/matiasleandrokruk/vocable/internal/api/ctxkeys"
)

const (
	headerContentType = "Content-Type"
	mimeJSON          = "application/json"
)

// Suggestion window bounds for the prediction endpoint. A suggestion bar
// renders around ten cells, so that is the default page.
const (
	defaultSuggestionLimit = 10
	maxSuggestionLimit     = 50
)

// requestError carries an HTTP status alongside the client-facing message.
// Build-input helpers return it so handlers keep a single error path.
type requestError struct {
	status  int
	message string
}

func (e requestError) Error() string { return e.message }

// writeRequestError maps a build-input failure to its JSON response.
// Unknown error types fall through to a generic 500.
func writeRequestError(w http.ResponseWriter, err error) {
	if reqErr, ok := err.(requestError); ok {
		writeError(w, reqErr.status, reqErr.message)
		return
	}
	writeError(w, http.StatusInternalServerError, "request failed")
}

// getUserID retrieves user_id from context.
// Uses ctxkeys.UserID — same type+value as the AuthMiddleware injection, so
// there is no silent type mismatch between different context key types.
func getUserID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(ctxkeys.UserID).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id not found in context")
	}
	return userID, nil
}

// clampSuggestionWindow validates limit/offset from the request body.
// A non-positive limit falls back to the default page size; offsets never go
// negative.
func clampSuggestionWindow(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	if limit > maxSuggestionLimit {
		limit = maxSuggestionLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// splitSymbols turns the comma-joined current_symbols wire form into clean
// tokens: split on commas, trim whitespace, drop empties.
func splitSymbols(joined string) []string {
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for i := 0; i < len(parts); i++ {
		if token := strings.TrimSpace(parts[i]); token != "" {
			out = append(out, token)
		}
	}
	return out
}

// writeError writes a JSON error response with the given status code.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set(headerContentType, mimeJSON)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		http.Error(w, `{"error":"failed to encode error response"}`, http.StatusInternalServerError)
	}
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set(headerContentType, mimeJSON)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode response")
	}
}
