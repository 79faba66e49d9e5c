// Package chat is the learning-companion conversation service. It frames
// the user's messages with the companion system prompt, bounds the context
// window and delegates the completion to the provider router.
package chat

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/matiasleandrokruk/vocable/internal/infra/provider"
)

// maxTurns is how much recent conversation is sent to the provider.
const maxTurns = 5

const systemPrompt = "You are a friendly communication companion for someone " +
	"who speaks through a communication board. Reply warmly in short, simple " +
	"sentences a young reader can follow. Ask at most one question at a time " +
	"and never correct how the person phrases things."

// ErrNoMessages is returned when a chat request carries no conversation.
var ErrNoMessages = errors.New("chat: no messages")

// Completer is the slice of the provider router this service needs.
type Completer interface {
	Complete(ctx context.Context, req provider.CompletionRequest) provider.CompletionResult
}

// Input is one conversation request. Messages are oldest first; only the
// most recent turns are forwarded.
type Input struct {
	UserID   string
	Messages []provider.Message
}

// Reply is the conversation outcome in the shape the client renders. On
// failure Error carries the text to show; the client keeps the unsent input.
type Reply struct {
	Success        bool   `json:"success"`
	AssistantReply string `json:"assistant_reply,omitempty"`
	ProviderUsed   string `json:"provider_used,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Service answers conversation requests through the provider router.
type Service struct {
	completer Completer
	log       *zap.Logger
}

func NewService(completer Completer, log *zap.Logger) *Service {
	return &Service{completer: completer, log: log}
}

// Chat sends the conversation to the active provider and maps the outcome.
// Provider faults come back as a failed Reply, never as an error; the only
// error is an empty conversation.
func (s *Service) Chat(ctx context.Context, in Input) (Reply, error) {
	if len(in.Messages) == 0 {
		return Reply{}, ErrNoMessages
	}

	turns := in.Messages
	if len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}

	msgs := make([]provider.Message, 0, len(turns)+1)
	msgs = append(msgs, provider.Message{Role: "system", Content: systemPrompt})
	msgs = append(msgs, turns...)

	res := s.completer.Complete(ctx, provider.CompletionRequest{Messages: msgs})
	if !res.Succeeded {
		s.log.Info("chat turn failed",
			zap.String("user_id", in.UserID),
			zap.String("error_kind", string(res.ErrorKind)),
			zap.Int64("latency_ms", res.LatencyMS),
		)
		return Reply{Error: errorText(res.ErrorKind)}, nil
	}

	s.log.Debug("chat turn served",
		zap.String("user_id", in.UserID),
		zap.String("provider_used", res.ProviderUsed),
		zap.Int64("latency_ms", res.LatencyMS),
	)
	return Reply{
		Success:        true,
		AssistantReply: res.ReplyText,
		ProviderUsed:   res.ProviderUsed,
	}, nil
}

// errorText renders a provider failure for the conversation screen.
func errorText(kind provider.ErrorKind) string {
	switch kind {
	case provider.KindConfigurationMissing:
		return "No assistant is set up yet. Ask an adult to configure one in settings."
	case provider.KindAuthFailed:
		return "The assistant rejected the configured access key."
	case provider.KindTimeout:
		return "The assistant took too long to answer. Your message was not sent."
	case provider.KindMalformedResponse:
		return "The assistant sent back something unreadable. Your message was not sent."
	default:
		return "The assistant cannot be reached right now. Your message was not sent."
	}
}
