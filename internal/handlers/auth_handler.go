package handlers

import (
	"fmt"
	"log"
	"time"

	"devtinder/internal/middleware"
	"devtinder/internal/models"
	"devtinder/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/signUp", h.HandleSignUp)
	router.Post("/login", h.HandleLogin)
	router.Post("/logout", middleware.SoftAuth(h.authService), h.HandleLogout)
}

// HandleSignUp handles new user registration.
func (h *AuthHandler) HandleSignUp(c *fiber.Ctx) error {
	var req models.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	user, err := h.authService.SignUp(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err)
	}

	log.Printf("User %s signed up", user.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User added successfully",
		"data":    user.Public(true),
	})
}

// HandleLogin checks credentials and sets the session cookie.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	token, user, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Expires:  time.Now().Add(h.authService.TokenTTL()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("%s logged in successfully", user.FirstName),
		"data":    user.Public(true),
	})
}

// HandleLogout clears the session cookie whether or not a session is present.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	message := "Logged out successfully"
	if user := middleware.CurrentUser(c); user != nil {
		message = fmt.Sprintf("%s logged out successfully", user.FirstName)
	}
	return c.JSON(fiber.Map{"message": message})
}
