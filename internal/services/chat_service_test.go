package services_test

import (
	"context"
	"errors"
	"testing"

	"devtinder/internal/models"
	"devtinder/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestChatService_SendMessage(t *testing.T) {
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	f := newFixture(publisher)
	ctx := context.Background()
	a := f.addUser(t, "a", 25, models.GenderMale)
	b := f.addUser(t, "b", 25, models.GenderFemale)

	_, err := f.chat.SendMessage(ctx, a.ID, b.ID, "hello")
	assert.True(t, errors.Is(err, services.ErrNotConnected))
	count, _ := f.convs.CountMessages(ctx, a.ID, b.ID)
	assert.Zero(t, count, "nothing is stored for an unconnected pair")

	f.connect(t, a, b)

	msg, err := f.chat.SendMessage(ctx, a.ID, b.ID, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Text)
	assert.NotEmpty(t, msg.ConversationID)

	_, err = f.chat.SendMessage(ctx, b.ID, a.ID, "hi back")
	require.NoError(t, err)

	count, _ = f.convs.CountMessages(ctx, b.ID, a.ID)
	assert.Equal(t, int64(2), count)
	publisher.AssertCalled(t, "Publish", services.EventChatMessageCreated, mock.Anything)
}

func TestChatService_SendMessageValidation(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	a := f.addUser(t, "a", 25, models.GenderMale)
	b := f.addUser(t, "b", 25, models.GenderFemale)
	f.connect(t, a, b)

	tests := []struct {
		name            string
		sender, to, txt string
		want            error
	}{
		{"blank text", a.ID, b.ID, "   ", services.ErrValidation},
		{"self message", a.ID, a.ID, "hi", services.ErrValidation},
		{"malformed recipient", a.ID, "bob", "hi", services.ErrInvalidID},
		{"empty sender", "", b.ID, "hi", services.ErrInvalidID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.chat.SendMessage(ctx, tt.sender, tt.to, tt.txt)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
	count, _ := f.convs.CountMessages(ctx, a.ID, b.ID)
	assert.Zero(t, count)
}

func TestChatService_OpenConversation(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	a := f.addUser(t, "Ada", 25, models.GenderFemale)
	b := f.addUser(t, "Bob", 25, models.GenderMale)
	c := f.addUser(t, "Cy", 25, models.GenderMale)
	f.connect(t, a, b)

	view, err := f.chat.OpenConversation(ctx, a, b.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Messages)
	assert.Len(t, view.Participants, 2)

	_, err = f.chat.SendMessage(ctx, b.ID, a.ID, "hello")
	require.NoError(t, err)

	again, err := f.chat.OpenConversation(ctx, b, a.ID)
	require.NoError(t, err)
	assert.Equal(t, view.ID, again.ID, "one conversation per pair")
	require.Len(t, again.Messages, 1)
	assert.Equal(t, "Bob", again.Messages[0].SenderID.FirstName)

	_, err = f.chat.OpenConversation(ctx, a, c.ID)
	assert.True(t, errors.Is(err, services.ErrNotConnected))

	_, err = f.chat.OpenConversation(ctx, a, uuid.New().String())
	assert.True(t, errors.Is(err, services.ErrNotFound))

	_, err = f.chat.OpenConversation(ctx, a, "bad")
	assert.True(t, errors.Is(err, services.ErrInvalidID))
}
