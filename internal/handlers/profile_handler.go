package handlers

import (
	"encoding/json"
	"fmt"

	"devtinder/internal/middleware"
	"devtinder/internal/models"
	"devtinder/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProfileHandler serves the caller's own profile.
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// RegisterRoutes registers the profile routes behind auth.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	profile := router.Group("/profile", auth)
	profile.Get("/", h.HandleGetProfile)
	profile.Patch("/edit", h.HandleEditProfile)
	profile.Patch("/update-password", h.HandleUpdatePassword)
}

// HandleGetProfile returns the caller's record without the credential.
func (h *ProfileHandler) HandleGetProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(fiber.Map{"data": user.Public(true)})
}

// HandleEditProfile applies a partial update.
func (h *ProfileHandler) HandleEditProfile(c *fiber.Ctx) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &fields); err != nil {
		return badBody(c, err)
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}

	var req models.EditProfileRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badBody(c, err)
	}

	updated, err := h.profileService.EditProfile(c.UserContext(), middleware.CurrentUser(c), keys, &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("%s, your profile updated successfully", updated.FirstName),
		"data":    updated.Public(true),
	})
}

// HandleUpdatePassword replaces the caller's password.
func (h *ProfileHandler) HandleUpdatePassword(c *fiber.Ctx) error {
	var req models.UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := h.profileService.UpdatePassword(c.UserContext(), middleware.CurrentUser(c), &req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}
