package repositories

import (
	"context"

	"devtinder/internal/models"
)

// ConversationRepository defines the interface for chat log data access.
type ConversationRepository interface {
	// GetOrCreate returns the conversation of the unordered pair with its messages in
	// insertion order, creating an empty one if none exists.
	GetOrCreate(ctx context.Context, a, b string) (*models.Conversation, error)
	// AppendMessage adds msg to the pair's conversation, creating the conversation if needed.
	AppendMessage(ctx context.Context, a, b string, msg *models.Message) error
	// CountMessages returns the number of messages between a and b.
	CountMessages(ctx context.Context, a, b string) (int64, error)
}
