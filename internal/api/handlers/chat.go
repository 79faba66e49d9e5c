// HTTP handler for the conversational companion endpoint.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matiasleandrokruk/vocable/internal/domain/chat"
	"github.com/matiasleandrokruk/vocable/internal/infra/provider"
)

// ChatService is the minimal contract the handler needs from the chat
// service.
type ChatService interface {
	Chat(ctx context.Context, in chat.Input) (chat.Reply, error)
}

// ChatHandler handles HTTP requests for assistant conversations.
type ChatHandler struct {
	chatService ChatService
}

// NewChatHandler creates a new ChatHandler instance.
func NewChatHandler(chatService ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// chatRequest is the request body for the chat endpoint.
type chatRequest struct {
	Messages []provider.Message `json:"messages"`
}

// Chat handles POST /api/v1/chat.
// Provider failures still answer 200: the reply carries success=false and a
// user-facing error so the client can keep the unsent input.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	var req chatRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.chatService.Chat(r.Context(), chat.Input{UserID: userID, Messages: req.Messages})
	if err != nil {
		if errors.Is(err, chat.ErrNoMessages) {
			writeError(w, http.StatusBadRequest, "messages are required")
			return
		}
		writeError(w, http.StatusInternalServerError, "chat failed")
		return
	}

	writeJSON(w, http.StatusOK, reply)
}
