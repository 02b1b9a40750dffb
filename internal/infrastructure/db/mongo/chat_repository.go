package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

const chatCollection = "chat_messages"

type ChatRepository struct {
	coll *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{coll: db.Collection(chatCollection)}
}

type mongoChatMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	SessionID string             `bson:"session_id"`
	Sender    string             `bson:"sender"`
	Text      string             `bson:"text"`
	CreatedAt int64              `bson:"created_at"`
}

func toDomainChatMessage(m mongoChatMessage) *domain.ChatMessage {
	return &domain.ChatMessage{
		ID:        m.ID.Hex(),
		SessionID: m.SessionID,
		Sender:    domain.ChatSender(m.Sender),
		Text:      m.Text,
		CreatedAt: unixToTime(m.CreatedAt),
	}
}

func (r *ChatRepository) SaveMessage(ctx context.Context, msg *domain.ChatMessage) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := mongoChatMessage{
		SessionID: msg.SessionID,
		Sender:    string(msg.Sender),
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

// History returns a session's messages in chronological order.
func (r *ChatRepository) History(ctx context.Context, sessionID string) ([]*domain.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer cur.Close(ctx)

	var msgs []*domain.ChatMessage
	for cur.Next(ctx) {
		var m mongoChatMessage
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode chat message: %w", err)
		}
		msgs = append(msgs, toDomainChatMessage(m))
	}
	return msgs, cur.Err()
}
