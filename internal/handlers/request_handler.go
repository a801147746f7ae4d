package handlers

import (
	"fmt"

	"devtinder/internal/middleware"
	"devtinder/internal/models"
	"devtinder/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequestHandler handles sending and reviewing connection requests.
type RequestHandler struct {
	connections *services.ConnectionService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(connections *services.ConnectionService) *RequestHandler {
	return &RequestHandler{connections: connections}
}

// RegisterRoutes registers the request routes behind auth.
func (h *RequestHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	request := router.Group("/request", auth)
	request.Post("/send/:status/:toUserId", h.HandleSend)
	request.Post("/review/:status/:requestedConnectionId", h.HandleReview)
}

// HandleSend records the caller's interest in, or dismissal of, another user.
func (h *RequestHandler) HandleSend(c *fiber.Ctx) error {
	from := middleware.CurrentUser(c)
	req, to, err := h.connections.Send(c.UserContext(), from, c.Params("toUserId"), c.Params("status"))
	if err != nil {
		return writeError(c, err)
	}

	message := fmt.Sprintf("%s is interested in %s", from.FirstName, to.FirstName)
	if req.Status == models.StatusIgnored {
		message = fmt.Sprintf("%s ignored %s", from.FirstName, to.FirstName)
	}
	return c.JSON(fiber.Map{
		"message": message,
		"data":    req,
	})
}

// HandleReview accepts or rejects a request addressed to the caller.
func (h *RequestHandler) HandleReview(c *fiber.Ctx) error {
	reviewer := middleware.CurrentUser(c)
	req, sender, err := h.connections.Review(c.UserContext(), reviewer, c.Params("requestedConnectionId"), c.Params("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Connection request from %s %s", sender.FirstName, req.Status),
		"data":    req,
	})
}
