package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"devtinder/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMConversationRepository is a GORM implementation of ConversationRepository.
type GORMConversationRepository struct {
	db *gorm.DB
}

// NewGORMConversationRepository creates a new instance of GORMConversationRepository.
func NewGORMConversationRepository(db *gorm.DB) *GORMConversationRepository {
	return &GORMConversationRepository{db: db}
}

// GetOrCreate loads the pair's conversation with its messages.
func (r *GORMConversationRepository) GetOrCreate(ctx context.Context, a, b string) (*models.Conversation, error) {
	var conv *models.Conversation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		conv, err = firstOrCreateConversation(tx, a, b)
		if err != nil {
			return err
		}
		return tx.Where("conversation_id = ?", conv.ID).Order("id ASC").Find(&conv.Messages).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation between %s and %s: %w", a, b, err)
	}
	return conv, nil
}

// AppendMessage inserts msg and bumps the conversation's updated_at in one transaction.
func (r *GORMConversationRepository) AppendMessage(ctx context.Context, a, b string, msg *models.Message) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conv, err := firstOrCreateConversation(tx, a, b)
		if err != nil {
			return err
		}
		msg.ConversationID = conv.ID
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).Where("id = ?", conv.ID).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return fmt.Errorf("failed to append message between %s and %s: %w", a, b, err)
	}
	return nil
}

// CountMessages counts the messages exchanged by a and b.
func (r *GORMConversationRepository) CountMessages(ctx context.Context, a, b string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("conversations.pair_key = ?", models.PairKey(a, b)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count messages between %s and %s: %w", a, b, err)
	}
	return count, nil
}

// firstOrCreateConversation tolerates a concurrent creator: the insert is a no-op on a
// pair_key conflict and the row is re-read.
func firstOrCreateConversation(tx *gorm.DB, a, b string) (*models.Conversation, error) {
	key := models.PairKey(a, b)
	var conv models.Conversation
	err := tx.Where("pair_key = ?", key).First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	first, second := a, b
	if first > second {
		first, second = second, first
	}
	conv = models.Conversation{
		ID:           uuid.New().String(),
		ParticipantA: first,
		ParticipantB: second,
		PairKey:      key,
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&conv).Error; err != nil {
		return nil, err
	}
	var stored models.Conversation
	if err := tx.Where("pair_key = ?", key).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}
