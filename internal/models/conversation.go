package models

import "time"

// Conversation is the chat log shared by exactly two participants.
type Conversation struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ParticipantA string    `json:"participantA" gorm:"type:varchar(36);index;not null"`
	ParticipantB string    `json:"participantB" gorm:"type:varchar(36);index;not null"`
	PairKey      string    `json:"-" gorm:"type:varchar(80);uniqueIndex;not null"`
	Messages     []Message `json:"messages" gorm:"foreignKey:ConversationID"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Participants returns both participant ids in stored order.
func (c *Conversation) Participants() []string {
	return []string{c.ParticipantA, c.ParticipantB}
}

// Message is a single immutable chat entry. Insertion order is chronological order.
type Message struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID string    `json:"conversationId" gorm:"type:varchar(36);index;not null"`
	SenderID       string    `json:"senderId" gorm:"type:varchar(36);not null"`
	Text           string    `json:"text" gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"createdAt"`
}
