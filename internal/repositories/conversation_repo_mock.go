package repositories

import (
	"context"
	"sync"
	"time"

	"devtinder/internal/models"

	"github.com/google/uuid"
)

// MockConversationRepository is an in-memory implementation of ConversationRepository.
type MockConversationRepository struct {
	conversations map[string]*models.Conversation // keyed by pair key
	nextMessageID uint
	mu            sync.Mutex
}

// NewMockConversationRepository creates a new instance of MockConversationRepository.
func NewMockConversationRepository() *MockConversationRepository {
	return &MockConversationRepository{
		conversations: make(map[string]*models.Conversation),
	}
}

// GetOrCreate returns a copy of the pair's conversation.
func (r *MockConversationRepository) GetOrCreate(_ context.Context, a, b string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv := r.getOrCreate(a, b)
	out := *conv
	out.Messages = append([]models.Message{}, conv.Messages...)
	return &out, nil
}

// AppendMessage appends msg to the pair's conversation.
func (r *MockConversationRepository) AppendMessage(_ context.Context, a, b string, msg *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv := r.getOrCreate(a, b)
	r.nextMessageID++
	msg.ID = r.nextMessageID
	msg.ConversationID = conv.ID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	conv.Messages = append(conv.Messages, *msg)
	conv.UpdatedAt = time.Now()
	return nil
}

// CountMessages counts the messages exchanged by a and b.
func (r *MockConversationRepository) CountMessages(_ context.Context, a, b string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[models.PairKey(a, b)]
	if !ok {
		return 0, nil
	}
	return int64(len(conv.Messages)), nil
}

func (r *MockConversationRepository) getOrCreate(a, b string) *models.Conversation {
	key := models.PairKey(a, b)
	if conv, ok := r.conversations[key]; ok {
		return conv
	}
	if a > b {
		a, b = b, a
	}
	now := time.Now()
	conv := &models.Conversation{
		ID:           uuid.New().String(),
		ParticipantA: a,
		ParticipantB: b,
		PairKey:      key,
		Messages:     []models.Message{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.conversations[key] = conv
	return conv
}
