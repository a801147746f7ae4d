package handlers

import (
	"errors"
	"log"

	"devtinder/internal/services"

	"github.com/gofiber/fiber/v2"
)

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation:
		return fiber.StatusBadRequest
	case services.KindAuth:
		return fiber.StatusUnauthorized
	case services.KindForbidden:
		return fiber.StatusForbidden
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindConflict:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// writeError renders a service error as {"error": code, "message": text, "errors"?: fields}.
// Anything that is not a *services.Error is reported as an internal failure.
func writeError(c *fiber.Ctx, err error) error {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		log.Printf("Unexpected error on %s %s: %v", c.Method(), c.Path(), err)
		svcErr = services.ErrInternal
	}
	body := fiber.Map{
		"error":   svcErr.Code,
		"message": svcErr.Message,
	}
	if len(svcErr.Fields) > 0 {
		body["errors"] = svcErr.Fields
	}
	return c.Status(statusFor(svcErr.Kind)).JSON(body)
}

func badBody(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing request body on %s: %v", c.Path(), err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   services.ErrValidation.Code,
		"message": "Invalid request body",
	})
}
