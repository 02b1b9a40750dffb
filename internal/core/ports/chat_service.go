package ports

import "context"

// ChatInput is one inbound user message. SessionID may be empty; the service
// then starts a new session.
type ChatInput struct {
	SessionID string
	Message   string
}

// ChatResult is the assistant's reply. Action is set to "booking_intent"
// when the message looked like a consultation request, so the frontend can
// offer the booking page.
type ChatResult struct {
	SessionID string
	Reply     string
	Action    string
}

// ChatService runs the assistant conversation loop.
type ChatService interface {
	Send(ctx context.Context, in ChatInput) (*ChatResult, error)
}
