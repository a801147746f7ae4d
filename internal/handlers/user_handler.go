package handlers

import (
	"devtinder/internal/feed"
	"devtinder/internal/middleware"
	"devtinder/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves the caller's requests, connections and discovery feed.
type UserHandler struct {
	connections *services.ConnectionService
	feed        *services.FeedService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(connections *services.ConnectionService, feedService *services.FeedService) *UserHandler {
	return &UserHandler{connections: connections, feed: feedService}
}

// RegisterRoutes registers the user routes behind auth.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	user := router.Group("/user", auth)
	user.Get("/requests/pending", h.HandlePending)
	user.Get("/requests/my-connection", h.HandleConnections)
	user.Get("/feed", h.HandleFeed)
}

// HandlePending lists interested requests addressed to the caller.
func (h *UserHandler) HandlePending(c *fiber.Ctx) error {
	pending, err := h.connections.PendingRequests(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Data fetched successfully",
		"data":    pending,
	})
}

// HandleConnections lists the caller's accepted connections.
func (h *UserHandler) HandleConnections(c *fiber.Ctx) error {
	conns, err := h.connections.Connections(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": conns})
}

// HandleFeed returns one page of users the caller has not interacted with.
func (h *UserHandler) HandleFeed(c *fiber.Ctx) error {
	var params feed.Params
	if err := c.QueryParser(&params); err != nil {
		return badBody(c, err)
	}

	page, err := h.feed.GetFeed(c.UserContext(), middleware.CurrentUser(c), params)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"data":       page.Users,
		"pagination": page.Pagination,
		"filters":    page.Filters,
	})
}
