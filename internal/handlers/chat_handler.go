package handlers

import (
	"devtinder/internal/middleware"
	"devtinder/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler serves the chat history between the caller and a connection.
type ChatHandler struct {
	chat *services.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// RegisterRoutes registers the chat routes behind auth.
func (h *ChatHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/chat/:targetUserId", auth, h.HandleGetChat)
}

// HandleGetChat opens (creating if needed) the conversation with targetUserId.
func (h *ChatHandler) HandleGetChat(c *fiber.Ctx) error {
	view, err := h.chat.OpenConversation(c.UserContext(), middleware.CurrentUser(c), c.Params("targetUserId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": view})
}
