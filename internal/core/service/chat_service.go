package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edenzconsult/crm-backend/internal/api/metrics"
	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

// historyWindow caps how many prior messages are replayed into the prompt.
const historyWindow = 10

const assistantPersona = "You are a study-abroad advisor for an education " +
	"consultancy. Help students find suitable universities and programmes, " +
	"answer questions about admissions, visas and scholarships, and suggest " +
	"booking a consultation with our senior advisor when the student needs " +
	"personalized guidance."

type chatService struct {
	repo      ports.ChatRepository
	completer Completer
	log       zerolog.Logger
}

// NewChatService returns a ChatService implementation.
func NewChatService(repo ports.ChatRepository, completer Completer, log zerolog.Logger) ports.ChatService {
	return &chatService{repo: repo, completer: completer, log: log}
}

// Send records the user message, produces a reply, and records that too.
// Booking-intent messages short-circuit to a canned booking suggestion; any
// provider failure degrades to the keyword fallback rather than erroring.
func (s *chatService) Send(ctx context.Context, in ports.ChatInput) (*ports.ChatResult, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, domain.ErrInvalidInput
	}

	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	history, err := s.repo.History(ctx, sessionID)
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("chat history unavailable")
		history = nil
	}

	now := time.Now().UTC()
	if err := s.repo.SaveMessage(ctx, &domain.ChatMessage{
		SessionID: sessionID,
		Sender:    domain.ChatSenderUser,
		Text:      message,
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	reply, action := s.reply(ctx, message, history)

	if err := s.repo.SaveMessage(ctx, &domain.ChatMessage{
		SessionID: sessionID,
		Sender:    domain.ChatSenderBot,
		Text:      reply,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	return &ports.ChatResult{SessionID: sessionID, Reply: reply, Action: action}, nil
}

func (s *chatService) reply(ctx context.Context, message string, history []*domain.ChatMessage) (string, string) {
	if domain.DetectBookingIntent(message) {
		metrics.ChatMessagesTotal.WithLabelValues("fallback").Inc()
		return bookingSuggestion(message), "booking_intent"
	}

	prompt := buildChatPrompt(message, history)
	reply, err := s.completer.Complete(ctx, prompt)
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			s.log.Warn().Err(err).Msg("completion provider failed, using fallback")
		}
		metrics.ChatMessagesTotal.WithLabelValues("fallback").Inc()
		return fallbackReply(), ""
	}

	metrics.ChatMessagesTotal.WithLabelValues("llm").Inc()
	return strings.TrimSpace(reply), ""
}

func buildChatPrompt(message string, history []*domain.ChatMessage) string {
	var b strings.Builder
	b.WriteString(assistantPersona)
	b.WriteString("\n\n")

	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	for _, msg := range history {
		fmt.Fprintf(&b, "%s: %s\n", msg.Sender, msg.Text)
	}

	fmt.Fprintf(&b, "user: %s\nbot:", message)
	return b.String()
}

// bookingSuggestion personalises the canned booking reply with whatever
// details the message already contains, so the visitor is not asked twice.
func bookingSuggestion(message string) string {
	details := domain.ExtractBookingDetails(message)

	var b strings.Builder
	b.WriteString("We'd be happy to arrange a consultation with our senior advisor.")
	if details.Date != "" && details.Time != "" {
		fmt.Fprintf(&b, " You mentioned %s at %s; you can confirm that slot on our booking page.", details.Date, details.Time)
	} else if details.Date != "" {
		fmt.Fprintf(&b, " You mentioned %s; pick a time that suits you on our booking page.", details.Date)
	} else {
		b.WriteString(" Our booking page makes it easy to find a time that works for you.")
	}
	b.WriteString(" Would you like me to direct you there now?")
	return b.String()
}

func fallbackReply() string {
	return "Thanks for your message. Our advisors can help with university selection, " +
		"admissions, visas and scholarships. Could you tell me a bit more about what " +
		"you're looking for, or book a consultation for personalized guidance?"
}
