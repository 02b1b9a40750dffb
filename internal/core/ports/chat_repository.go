package ports

import (
	"context"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

// ChatRepository defines persistence for assistant conversations.
type ChatRepository interface {
	SaveMessage(ctx context.Context, msg *domain.ChatMessage) error
	History(ctx context.Context, sessionID string) ([]*domain.ChatMessage, error)
}
