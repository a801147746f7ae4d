package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"devtinder/internal/models"
	"devtinder/internal/repositories"
)

// ChatService persists chat messages between connected users.
type ChatService struct {
	userRepo    repositories.UserRepository
	convRepo    repositories.ConversationRepository
	connections *ConnectionService
	events      EventPublisher
}

// NewChatService creates a new ChatService. events may be nil.
func NewChatService(userRepo repositories.UserRepository, convRepo repositories.ConversationRepository, connections *ConnectionService, events EventPublisher) *ChatService {
	return &ChatService{
		userRepo:    userRepo,
		convRepo:    convRepo,
		connections: connections,
		events:      events,
	}
}

// Participant is a conversation member as shown in the chat view.
type Participant struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	PhotoURL  string `json:"photo"`
}

// MessageView is a message with its sender's names.
type MessageView struct {
	ID        uint        `json:"id"`
	SenderID  Participant `json:"senderId"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ConversationView is the chat log between the caller and another user.
type ConversationView struct {
	ID           string        `json:"id"`
	Participants []Participant `json:"participants"`
	Messages     []MessageView `json:"messages"`
}

// SendMessage checks that sender and recipient are connected and appends text to their
// conversation. Nothing is stored when the check fails.
func (s *ChatService) SendMessage(ctx context.Context, senderID, recipientID, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	switch {
	case !isWellFormedID(senderID) || !isWellFormedID(recipientID):
		return nil, with(ErrInvalidID, "Invalid user id")
	case senderID == recipientID:
		return nil, with(ErrValidation, "You cannot message yourself")
	case text == "":
		return nil, with(ErrValidation, "Message text is required")
	}

	connected, err := s.connections.IsConnected(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, ErrNotConnected
	}

	msg := &models.Message{SenderID: senderID, Text: text, CreatedAt: time.Now()}
	if err := s.convRepo.AppendMessage(ctx, senderID, recipientID, msg); err != nil {
		return nil, internal("append message", err)
	}

	publish(s.events, EventChatMessageCreated, map[string]interface{}{
		"conversationId": msg.ConversationID,
		"messageId":      msg.ID,
		"senderId":       senderID,
		"recipientId":    recipientID,
	})
	return msg, nil
}

// OpenConversation returns the conversation between user and targetUserID, creating it if
// it does not exist yet. The two must be connected.
func (s *ChatService) OpenConversation(ctx context.Context, user *models.User, targetUserID string) (*ConversationView, error) {
	if !isWellFormedID(targetUserID) {
		return nil, with(ErrInvalidID, "Invalid user id")
	}
	target, err := s.userRepo.GetByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, with(ErrNotFound, "User not found")
		}
		return nil, internal("chat target lookup", err)
	}

	connected, err := s.connections.IsConnected(ctx, user.ID, target.ID)
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, ErrNotConnected
	}

	conv, err := s.convRepo.GetOrCreate(ctx, user.ID, target.ID)
	if err != nil {
		return nil, internal("open conversation", err)
	}

	people := map[string]Participant{
		user.ID:   participantOf(user),
		target.ID: participantOf(target),
	}
	view := &ConversationView{
		ID:           conv.ID,
		Participants: []Participant{people[conv.ParticipantA], people[conv.ParticipantB]},
		Messages:     make([]MessageView, 0, len(conv.Messages)),
	}
	for _, m := range conv.Messages {
		view.Messages = append(view.Messages, MessageView{
			ID:        m.ID,
			SenderID:  people[m.SenderID],
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
		})
	}
	return view, nil
}

func participantOf(u *models.User) Participant {
	return Participant{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, PhotoURL: u.PhotoURL}
}
